package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-wrapped/internal/config"
	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/open"
)

func openCmd() *cobra.Command {
	var hitMsgID int

	cmd := &cobra.Command{
		Use:   "open <chatKey>",
		Short: "Open the original export in $EDITOR at the hit message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenChat(db, args[0], hitMsgID)
		},
	}

	cmd.Flags().IntVar(&hitMsgID, "hit", -1, "Message ID to jump to")

	return cmd
}
