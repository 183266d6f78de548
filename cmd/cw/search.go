package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-wrapped/internal/config"
	"github.com/Zuo-Peng/chat-wrapped/internal/search"
	"github.com/Zuo-Peng/chat-wrapped/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeType(typ string) string {
	if typ == "text" {
		return sColorBlue + typ + sColorReset
	}
	return sColorGreen + typ + sColorReset
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func searchCmd() *cobra.Command {
	var sender, typ, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed chats",
		Long: `Search indexed messages using FTS5 (substring match for CJK queries).
Output is TSV for fzf integration:
  chatKey, msgId, timestamp, type, chat, sender, snippet

Recommended shell function (add to .zshrc):
  cwf() {
    cw search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'cw preview {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --preview-debounce=150 \
      --bind 'enter:execute(cw open {1} --hit {2})'
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := openIndexed(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := search.Options{
				Sender: sender,
				Type:   typ,
				Since:  since,
				Limit:  limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				// first two fields (chatKey, msgID) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%d\t%s%s%s\t%s\t%s\t%s\t%s\n",
					r.ChatKey,
					r.MsgID,
					sColorDim, r.Ts, sColorReset,
					colorizeType(r.Type),
					flatten(r.Title),
					r.Sender,
					colorizeSnippet(flatten(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Filter by sender name")
	cmd.Flags().StringVar(&typ, "type", "", "Filter by message type (text/image/video/...)")
	cmd.Flags().StringVar(&since, "since", "", "Filter messages sent since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
