package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-wrapped/internal/config"
	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

var version = "dev"

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:          "cw",
		Short:        "chat-wrapped - parse, index and search WhatsApp chat exports",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log dropped lines and parse summaries to stderr")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

// newParser builds a parser from the configured rules and timezone.
func newParser(cfg *config.Config, log zerolog.Logger) (*parse.Parser, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return parse.New(
		parse.WithRules(cfg.ParseRules()),
		parse.WithLocation(loc),
		parse.WithLogger(log),
	)
}

func indexOptions(cfg *config.Config, log zerolog.Logger) (index.Options, error) {
	p, err := newParser(cfg, log)
	if err != nil {
		return index.Options{}, err
	}
	return index.Options{
		Root:        cfg.ExportRoot,
		Parser:      p,
		MaxFileSize: cfg.MaxFileSize(),
		MaxMessages: cfg.MaxMessages,
		Log:         log,
	}, nil
}

// openIndexed opens the database and brings it up to date with the export root.
func openIndexed(cfg *config.Config) (*index.DB, error) {
	log := newLogger()
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	opts, err := indexOptions(cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := index.IndexAll(db, opts); err != nil {
		log.Warn().Err(err).Msg("auto-index failed")
	}
	return db, nil
}
