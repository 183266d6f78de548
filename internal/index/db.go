package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

// TimeLayout is how message and chat timestamps are stored. It keeps the
// transcript's wall clock so string comparison orders correctly.
const TimeLayout = "2006-01-02 15:04:05"

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS chats (
    chat_key      TEXT PRIMARY KEY,
    title         TEXT NOT NULL DEFAULT '',
    file_path     TEXT NOT NULL,
    participants  TEXT NOT NULL DEFAULT '',
    first_at      TEXT NOT NULL DEFAULT '',
    last_at       TEXT NOT NULL DEFAULT '',
    message_count INTEGER NOT NULL DEFAULT 0,
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    chat_key    TEXT NOT NULL,
    msg_id      INTEGER NOT NULL,
    ts          TEXT NOT NULL,
    sender      TEXT NOT NULL,
    type        TEXT NOT NULL DEFAULT 'text',
    body        TEXT NOT NULL,
    word_count  INTEGER NOT NULL DEFAULT 0,
    line_number INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (chat_key, msg_id)
);

CREATE INDEX IF NOT EXISTS messages_sender ON messages(chat_key, sender);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    body,
    content=messages,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
    INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// schemaVersion should be bumped whenever parsing or classification changes
// to force a full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	// force re-index by resetting all chat mtime/size to 0
	if _, err := d.db.Exec("UPDATE chats SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type ChatInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetChatInfo(chatKey string) (*ChatInfo, error) {
	var info ChatInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM chats WHERE chat_key = ?",
		chatKey,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllChatKeys() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT chat_key FROM chats")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func (d *DB) DeleteChat(chatKey string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_key = ?", chatKey); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM chats WHERE chat_key = ?", chatKey); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) ChatCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM chats").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

type ChatRow struct {
	ChatKey      string
	Title        string
	FilePath     string
	Participants string // comma separated, first-appearance order
	FirstAt      string
	LastAt       string
	MessageCount int
}

func (d *DB) GetChatByKey(chatKey string) (*ChatRow, error) {
	var c ChatRow
	err := d.db.QueryRow(
		"SELECT chat_key, title, file_path, participants, first_at, last_at, message_count FROM chats WHERE chat_key = ?",
		chatKey,
	).Scan(&c.ChatKey, &c.Title, &c.FilePath, &c.Participants, &c.FirstAt, &c.LastAt, &c.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type MessageRow struct {
	ChatKey    string
	MsgID      int
	Ts         string
	Sender     string
	Type       string
	Body       string
	WordCount  int
	LineNumber int
}

const messageColumns = "chat_key, msg_id, ts, sender, type, body, word_count, line_number"

func scanMessage(rows *sql.Rows) (MessageRow, error) {
	var m MessageRow
	err := rows.Scan(&m.ChatKey, &m.MsgID, &m.Ts, &m.Sender, &m.Type, &m.Body, &m.WordCount, &m.LineNumber)
	return m, err
}

func (d *DB) GetMessages(chatKey string) ([]MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? ORDER BY msg_id",
		chatKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []MessageRow
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessageLine returns the transcript line of a message, or 0 if unknown.
func (d *DB) GetMessageLine(chatKey string, msgID int) (int, error) {
	var line int
	err := d.db.QueryRow(
		"SELECT line_number FROM messages WHERE chat_key = ? AND msg_id = ?",
		chatKey, msgID,
	).Scan(&line)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return line, err
}

// GetMessagesWindow returns a window of messages around a hit message.
// msg_id is dense and zero-based, so the window is a simple id range.
// startPos is the number of messages before the returned window.
// totalCount is the total number of messages in the chat.
func (d *DB) GetMessagesWindow(chatKey string, hitMsgID, context int) (msgs []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE chat_key = ?", chatKey,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	startPos = 0
	limit := totalCount
	if hitMsgID >= 0 && hitMsgID < totalCount {
		startPos = hitMsgID - context
		if startPos < 0 {
			startPos = 0
		}
		endPos := hitMsgID + context + 1
		if endPos > totalCount {
			endPos = totalCount
		}
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? ORDER BY msg_id LIMIT ? OFFSET ?",
		chatKey, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	localHitIdx := -1
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, -1, 0, 0, err
		}
		if m.MsgID == hitMsgID {
			localHitIdx = len(msgs)
		}
		msgs = append(msgs, m)
	}
	return msgs, localHitIdx, startPos, totalCount, rows.Err()
}

// LoadMessages rebuilds the parsed rows of a chat in transcript order.
// Stored timestamps carry no zone; they are read back in loc.
func (d *DB) LoadMessages(chatKey string, loc *time.Location) ([]parse.Message, error) {
	rows, err := d.GetMessages(chatKey)
	if err != nil {
		return nil, err
	}
	msgs := make([]parse.Message, 0, len(rows))
	for _, r := range rows {
		ts, err := time.ParseInLocation(TimeLayout, r.Ts, loc)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", r.MsgID, err)
		}
		msgs = append(msgs, parse.NewMessage(ts, r.Sender, r.Body, parse.MessageType(r.Type), r.LineNumber))
	}
	return msgs, nil
}
