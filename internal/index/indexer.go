package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
	"github.com/Zuo-Peng/chat-wrapped/internal/scan"
)

// ErrTooManyMessages is returned when a transcript exceeds Options.MaxMessages.
var ErrTooManyMessages = errors.New("chat export has too many messages")

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

type Options struct {
	Root        string
	Parser      *parse.Parser
	MaxFileSize int64 // bytes, 0 = unlimited
	MaxMessages int   // 0 = unlimited
	Log         zerolog.Logger
}

// IndexAll brings the database in line with the transcripts under opts.Root.
// A transcript that fails to read or parse is counted and skipped; only
// scan and prune failures abort the run.
func IndexAll(db *DB, opts Options) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(opts.Root)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		seenKeys[fi.ChatKey] = struct{}{}

		needs, err := needsUpdate(db, fi.ChatKey, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		t, err := ParseFile(opts, fi.Path)
		if err != nil {
			stats.Errors++
			opts.Log.Warn().Err(err).Str("file", fi.Path).Msg("parse")
			continue
		}

		if err := indexChat(db, fi, t); err != nil {
			stats.Errors++
			opts.Log.Warn().Err(err).Str("file", fi.Path).Msg("index")
			continue
		}
		opts.Log.Debug().Str("chat", fi.ChatKey).Int("messages", t.Len()).Msg("indexed")
		stats.Updated++
	}

	// prune chats whose files no longer exist
	pruned, err := pruneChats(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

// ParseFile reads and parses one transcript under the limits in opts.
func ParseFile(opts Options, path string) (*parse.Transcript, error) {
	text, err := scan.ReadTranscript(path, opts.MaxFileSize)
	if err != nil {
		return nil, err
	}
	t, err := opts.Parser.Parse(text)
	if err != nil {
		return nil, err
	}
	if opts.MaxMessages > 0 && t.Len() > opts.MaxMessages {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyMessages, t.Len(), opts.MaxMessages)
	}
	return t, nil
}

func needsUpdate(db *DB, chatKey string, mtime, size int64) (bool, error) {
	info, err := db.GetChatInfo(chatKey)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new chat
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func indexChat(db *DB, fi scan.FileInfo, t *parse.Transcript) error {
	// delete old data first
	if err := db.DeleteChat(fi.ChatKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	first, last := t.Span()
	_, err = tx.Exec(
		`INSERT INTO chats (chat_key, title, file_path, participants, first_at, last_at, message_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fi.ChatKey,
		fi.Title,
		fi.Path,
		strings.Join(t.Senders(), ", "),
		first.Format(TimeLayout),
		last.Format(TimeLayout),
		t.Len(),
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_key, msg_id, ts, sender, type, body, word_count, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range t.Messages {
		_, err := stmt.Exec(
			fi.ChatKey,
			i,
			m.Timestamp.Format(TimeLayout),
			m.Sender,
			string(m.Type),
			m.Body,
			m.WordCount,
			m.Line,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneChats(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllChatKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteChat(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
