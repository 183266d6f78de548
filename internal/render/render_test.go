package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Pizza and pasta", "pizza AND pasta")
	assert.Equal(t, colorBoldRed+"Pizza"+colorReset+" and "+colorBoldRed+"pasta"+colorReset, got)

	assert.Equal(t, "a.b", highlightKeywords("a.b", ""))
	assert.Equal(t, "axb", highlightKeywords("axb", "a.b"))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abc", "def", "g"}, wrapLine("abcdefg", 3))
	assert.Equal(t, []string{"abcdefg"}, wrapLine("abcdefg", 0))
	// escape sequences take no width
	assert.Equal(t, []string{colorDim + "ab", "c" + colorReset}, wrapLine(colorDim+"abc"+colorReset, 2))
	// wide runes count double
	assert.Equal(t, []string{"吃", "饭"}, wrapLine("吃饭", 3))
}

func TestSplitTs(t *testing.T) {
	d, c := splitTs("2023-05-12 09:15:00")
	assert.Equal(t, "2023-05-12", d)
	assert.Equal(t, "09:15", c)
}

func TestRenderChat(t *testing.T) {
	root := t.TempDir()
	content := "12/05/23, 9:15 AM - Alice: hello\n" +
		"12/05/23, 9:16 AM - Bob: <Media omitted>\n" +
		"13/05/23, 9:17 AM - Alice: bye\nsee you\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "WhatsApp Chat with Bob.txt"), []byte(content), 0o644))

	db, err := index.OpenDB(filepath.Join(t.TempDir(), "cw.db"))
	require.NoError(t, err)
	defer db.Close()

	p, err := parse.New(parse.WithLocation(time.UTC))
	require.NoError(t, err)
	_, err = index.IndexAll(db, index.Options{Root: root, Parser: p, Log: zerolog.Nop()})
	require.NoError(t, err)

	out, hitLine, err := RenderChat(db, "chat:WhatsApp Chat with Bob", Options{HitMsgID: 2, Context: -1, Query: "bye"})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, hitLine, 0)
	assert.Contains(t, lines[hitLine], ">> 09:17 Alice <<")
	assert.Contains(t, out, "== 2023-05-13 ==")
	assert.Contains(t, out, "[image] <Media omitted>")
	assert.Contains(t, out, colorBoldRed+"bye"+colorReset)
	assert.Contains(t, out, "  see you")

	_, _, err = RenderChat(db, "chat:missing", Options{})
	assert.Error(t, err)
}
