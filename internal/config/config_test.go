package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

func TestLoadFile_Defaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadFile(filepath.Join(home, "missing.toml"), home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "chat-exports"), cfg.ExportRoot)
	assert.Equal(t, filepath.Join(home, ".config", "cw", "cw.db"), cfg.DBPath)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize())
	assert.Equal(t, 100000, cfg.MaxMessages)
	assert.Equal(t, parse.DefaultRules(), cfg.ParseRules())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFile_Overrides(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	content := `
export_root = "~/exports"
db_path = "/tmp/cw-test.db"
timezone = "UTC"
max_file_size_mb = 2
max_messages = 50

[rules]
system_phrases = ["pinned a message"]

[[rules.media]]
type = "sticker"
placeholders = ["<sticker>"]
patterns = ['\.tgs']
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path, home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "exports"), cfg.ExportRoot)
	assert.Equal(t, "/tmp/cw-test.db", cfg.DBPath)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxFileSize())
	assert.Equal(t, 50, cfg.MaxMessages)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	rules := cfg.ParseRules()
	assert.Equal(t, []string{"pinned a message"}, rules.SystemPhrases)
	require.Len(t, rules.Media, 1)
	assert.Equal(t, parse.TypeSticker, rules.Media[0].Type)
	assert.Equal(t, []string{`\.tgs`}, rules.Media[0].Patterns)

	_, err = parse.New(parse.WithRules(rules))
	assert.NoError(t, err)
}

func TestLoadFile_BadTimezone(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`timezone = "Mars/Olympus"`), 0o644))

	_, err := LoadFile(path, home)
	assert.Error(t, err)
}

func TestLoadFile_Malformed(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`db_path = `), 0o644))

	_, err := LoadFile(path, home)
	assert.Error(t, err)
}
