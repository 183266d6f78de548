package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-wrapped/internal/config"
	"github.com/Zuo-Peng/chat-wrapped/internal/index"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan the export root and index WhatsApp chat exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			opts, err := indexOptions(cfg, newLogger())
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.ExportRoot)

			stats, err := index.IndexAll(db, opts)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
