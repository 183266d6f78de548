package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-wrapped/internal/config"
	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
	"github.com/Zuo-Peng/chat-wrapped/internal/scan"
	"github.com/Zuo-Peng/chat-wrapped/internal/stats"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <chatKey|file>",
		Short: "Show per-sender and time-of-day activity for a chat",
		Long: `Print message, word and media counts per sender plus hourly and weekday
activity. The argument is either an indexed chat key (see 'cw list') or the
path of an export file, which is parsed directly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			title, msgs, err := loadForStats(cfg, args[0])
			if err != nil {
				return err
			}

			fmt.Print(stats.Render(title, stats.Summarize(msgs)))
			return nil
		},
	}
}

func loadForStats(cfg *config.Config, arg string) (string, []parse.Message, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		opts, err := indexOptions(cfg, newLogger())
		if err != nil {
			return "", nil, err
		}
		t, err := index.ParseFile(opts, arg)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", arg, err)
		}
		return scan.Title(arg), t.Messages, nil
	}

	db, err := openIndexed(cfg)
	if err != nil {
		return "", nil, err
	}
	defer db.Close()

	chat, err := db.GetChatByKey(arg)
	if err != nil {
		return "", nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return "", nil, fmt.Errorf("chat not found: %s", arg)
	}

	loc, err := cfg.Location()
	if err != nil {
		return "", nil, err
	}
	msgs, err := db.LoadMessages(arg, loc)
	if err != nil {
		return "", nil, fmt.Errorf("load messages: %w", err)
	}
	return chat.Title, msgs, nil
}
