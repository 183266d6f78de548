package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-wrapped/internal/config"
	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

// messageJSON is the --json line format of one parsed message.
type messageJSON struct {
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Type      string `json:"message_type"`
	Line      int    `json:"line"`
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	DayOfWeek string `json:"day_of_week"`
	Month     string `json:"month"`
	Year      int    `json:"year"`
	WordCount int    `json:"word_count"`
}

func parseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse one chat export and print its message table",
		Long: `Parse a WhatsApp .txt export without touching the index.

Default output is TSV: timestamp, sender, type, message (newlines escaped).
With --json each message is printed as one JSON object per line.
A summary of dropped lines goes to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := newLogger()
			opts, err := indexOptions(cfg, log)
			if err != nil {
				return err
			}

			t, err := index.ParseFile(opts, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()

			if asJSON {
				enc := json.NewEncoder(w)
				for _, m := range t.Messages {
					if err := enc.Encode(toJSON(m)); err != nil {
						return err
					}
				}
			} else {
				for _, m := range t.Messages {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						m.Timestamp.Format(index.TimeLayout),
						m.Sender,
						m.Type,
						escapeTSV(m.Body),
					)
				}
			}

			first, last := t.Span()
			fmt.Fprintf(os.Stderr, "%d messages from %d senders, %s .. %s (system=%d unresolved=%d senderless=%d)\n",
				t.Len(), len(t.Senders()),
				first.Format(index.TimeLayout), last.Format(index.TimeLayout),
				t.Report.System, t.Report.Unresolved, t.Report.Senderless,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per message")

	return cmd
}

func toJSON(m parse.Message) messageJSON {
	return messageJSON{
		Timestamp: m.Timestamp.Format("2006-01-02T15:04:05"),
		Sender:    m.Sender,
		Message:   m.Body,
		Type:      string(m.Type),
		Line:      m.Line,
		Date:      m.Date,
		Hour:      m.Hour,
		DayOfWeek: m.DayOfWeek,
		Month:     m.Month,
		Year:      m.Year,
		WordCount: m.WordCount,
	}
}

var tsvEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n")

func escapeTSV(s string) string {
	return tsvEscaper.Replace(s)
}
