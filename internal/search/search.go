package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chat-wrapped/internal/index"
)

type Result struct {
	ChatKey string
	MsgID   int // -1 for chat listings
	Ts      string
	Title   string
	Sender  string
	Type    string
	Snippet string
	Rank    float64
}

type Options struct {
	Query  string
	Sender string // "" = all
	Type   string // "" = all, "text", "image", ...
	Since  string // "" = no filter, e.g. "2024-01-01"
	Limit  int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 || len(lower) != len(text) {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// ftsOperators stay operators when they sit between two terms.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// ftsQuery turns typed text into an FTS5 query. Every term is quoted so
// apostrophes, colons and other punctuation are matched as text rather than
// parsed as query syntax. A trailing * keeps prefix matching.
func ftsQuery(q string) string {
	var parts []string
	lastTerm := false
	for _, f := range strings.Fields(q) {
		if ftsOperators[f] {
			if lastTerm {
				parts = append(parts, f)
				lastTerm = false
			}
			continue
		}
		prefix := strings.HasSuffix(f, "*")
		f = strings.Trim(strings.TrimRight(f, "*"), `"`)
		if f == "" {
			continue
		}
		term := `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		if prefix {
			term += "*"
		}
		parts = append(parts, term)
		lastTerm = true
	}
	if !lastTerm && len(parts) > 0 {
		parts = parts[:len(parts)-1] // dangling operator
	}
	return strings.Join(parts, " ")
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if containsCJK(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

// filters appends the sender/type/since conditions shared by both searches.
func filters(opts Options, conditions []string, args []interface{}) ([]string, []interface{}) {
	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.Type != "" {
		conditions = append(conditions, "m.type = ?")
		args = append(args, opts.Type)
	}
	if opts.Since != "" {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	match := ftsQuery(opts.Query)
	if match == "" {
		return nil, nil
	}
	conditions := []string{"messages_fts MATCH ?"}
	args := []interface{}{match}
	conditions, args = filters(opts, conditions, args)

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.msg_id,
			m.ts,
			c.title,
			m.sender,
			m.type,
			snippet(messages_fts, 0, '>>>','<<<', '...', 24) as snip,
			bm25(messages_fts, 1.0) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	// LIKE match for CJK substring search
	conditions := []string{"m.body LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}
	conditions, args = filters(opts, conditions, args)

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.msg_id,
			m.ts,
			c.title,
			m.sender,
			m.type,
			m.body
		FROM messages m
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY m.ts DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var body string
		if err := rows.Scan(&r.ChatKey, &r.MsgID, &r.Ts, &r.Title, &r.Sender, &r.Type, &body); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(body, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.ChatKey, &r.MsgID, &r.Ts, &r.Title,
			&r.Sender, &r.Type, &r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns indexed chats, most recently active first. Sender matches
// any participant; Since compares against the last message time.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []interface{}
	if opts.Sender != "" {
		conditions = append(conditions, "(', ' || participants || ', ') LIKE ?")
		args = append(args, "%, "+opts.Sender+", %")
	}
	if opts.Since != "" {
		conditions = append(conditions, "last_at >= ?")
		args = append(args, opts.Since)
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	limit := ""
	if opts.Limit > 0 {
		limit = "LIMIT ?"
		args = append(args, opts.Limit)
	}

	query := fmt.Sprintf(`
		SELECT chat_key, last_at, title, participants, message_count
		FROM chats
		%s
		ORDER BY last_at DESC
		%s
	`, where, limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var participants string
		var count int
		if err := rows.Scan(&r.ChatKey, &r.Ts, &r.Title, &participants, &count); err != nil {
			return nil, err
		}
		r.MsgID = -1
		r.Sender = participants
		r.Snippet = fmt.Sprintf("%d messages · %s", count, participants)
		results = append(results, r)
	}
	return results, rows.Err()
}
