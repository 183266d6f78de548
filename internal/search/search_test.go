package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

func setupDB(t *testing.T) *index.DB {
	t.Helper()
	root := t.TempDir()
	chats := map[string]string{
		"WhatsApp Chat with Alice.txt": "12/05/23, 9:15 AM - Alice: pizza tonight?\n" +
			"12/05/23, 9:16 AM - Bob: pizza sounds great\n" +
			"12/05/23, 9:17 AM - Bob: IMG-20230512-WA0001.jpg pizza photo\n" +
			"12/05/23, 9:18 AM - Alice: don't forget the note: bring cash\n",
		"WhatsApp Chat with Carol.txt": "01/06/23, 8:00 PM - Carol: 今天吃火锅\n" +
			"01/06/23, 8:01 PM - Bob: ok\n",
	}
	for name, content := range chats {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}

	db, err := index.OpenDB(filepath.Join(t.TempDir(), "cw.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p, err := parse.New(parse.WithLocation(time.UTC))
	require.NoError(t, err)
	stats, err := index.IndexAll(db, index.Options{Root: root, Parser: p, Log: zerolog.Nop()})
	require.NoError(t, err)
	require.Equal(t, 2, stats.Updated)
	return db
}

func TestSearch_FTS(t *testing.T) {
	db := setupDB(t)

	results, err := Search(db, Options{Query: "pizza"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, "chat:WhatsApp Chat with Alice", r.ChatKey)
		assert.Equal(t, "Alice", r.Title)
		assert.Contains(t, r.Snippet, ">>>pizza<<<")
	}

	results, err = Search(db, Options{Query: "pizza", Sender: "Bob"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = Search(db, Options{Query: "pizza", Type: "image"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].MsgID)

	results, err = Search(db, Options{Query: "pizza", Since: "2023-06-01"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_Punctuation(t *testing.T) {
	db := setupDB(t)

	tests := []struct {
		query string
		want  int
	}{
		{"don't", 1},
		{"note:", 1},
		{`"unterminated`, 0},
		{"pizz*", 3},
		{"pizza OR cash", 4},
		{"pizza AND", 3},
		{"NOT", 0},
	}
	for _, tc := range tests {
		results, err := Search(db, Options{Query: tc.query})
		require.NoError(t, err, tc.query)
		assert.Len(t, results, tc.want, tc.query)
	}
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"don't"`, ftsQuery("don't"))
	assert.Equal(t, `"note:" "cash"`, ftsQuery("note: cash"))
	assert.Equal(t, `"pizz"*`, ftsQuery("pizz*"))
	assert.Equal(t, `"a" OR "b"`, ftsQuery("a OR b"))
	assert.Equal(t, `"a"`, ftsQuery("OR a AND"))
	assert.Equal(t, `"say""hi"`, ftsQuery(`say"hi"`))
	assert.Empty(t, ftsQuery("  "))
}

func TestSearch_CJK(t *testing.T) {
	db := setupDB(t)

	results, err := Search(db, Options{Query: "火锅"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Carol", results[0].Sender)
	assert.Contains(t, results[0].Snippet, ">>>火锅<<<")
}

func TestListAll(t *testing.T) {
	db := setupDB(t)

	results, err := ListAll(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Carol", results[0].Title)
	assert.Equal(t, -1, results[0].MsgID)
	assert.Equal(t, "2023-06-01 20:01:00", results[0].Ts)

	results, err = ListAll(db, Options{Sender: "Alice"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Alice", results[0].Title)

	results, err = ListAll(db, Options{Since: "2023-05-31"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMakeSnippet(t *testing.T) {
	assert.Equal(t, "...ng >>>pizza<<< to...", makeSnippet("bring pizza tonight", "pizza", 3))
	assert.Equal(t, ">>>Pizza<<<", makeSnippet("Pizza", "pizza", 3))
	assert.Equal(t, "abcdef...", makeSnippet("abcdefghij", "zzz", 3))
}

func TestContainsCJK(t *testing.T) {
	assert.True(t, containsCJK("吃饭"))
	assert.False(t, containsCJK("pizza"))
}
