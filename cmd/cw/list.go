package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-wrapped/internal/config"
	"github.com/Zuo-Peng/chat-wrapped/internal/search"
	"github.com/Zuo-Peng/chat-wrapped/internal/tui"
)

func listCmd() *cobra.Command {
	var sender, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all chats sorted by last activity",
		Long: `Opens a TUI panel showing all indexed chats, most recently active first.
Type to search message bodies across every chat. When stdout is not a
terminal, prints one TSV line per chat: chatKey, last message, title, summary.`,
		Args: cobra.NoArgs,
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
				Since:  since,
				Limit:  limit,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.RunList(db, opts)
			}

			results, err := search.ListAll(db, opts)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\t%s\t%s\n", r.ChatKey, r.Ts, flatten(r.Title), r.Snippet)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Only chats this person takes part in")
	cmd.Flags().StringVar(&since, "since", "", "Only chats active since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
