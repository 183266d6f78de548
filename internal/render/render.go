package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-wrapped/internal/index"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorMedia   = "\033[2;35m" // dim magenta for media placeholders
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

// senderColors are assigned to participants in order of first appearance.
var senderColors = []string{
	"\033[1;34m", // bold blue
	"\033[1;32m", // bold green
	"\033[1;33m", // bold yellow
	"\033[1;36m", // bold cyan
	"\033[1;35m", // bold magenta
	"\033[1;31m", // bold red
}

type Options struct {
	HitMsgID int
	Context  int    // messages before/after hit to show
	Width    int    // wrap width (0 = no wrap)
	Query    string // search query for keyword highlighting
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	var alts []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"*()`)
		if t == "" || fts5Operators[strings.ToUpper(t)] {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(t))
	}
	if len(alts) == 0 {
		return text
	}
	re := regexp.MustCompile("(?i)" + strings.Join(alts, "|"))
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return colorBoldRed + m + colorReset
	})
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

func senderColor(palette map[string]string, sender string) string {
	if c, ok := palette[sender]; ok {
		return c
	}
	c := senderColors[len(palette)%len(senderColors)]
	palette[sender] = c
	return c
}

// RenderChat renders a window of a chat and returns the content,
// the 0-based line number of the hit message header (-1 if no hit), and any error.
func RenderChat(db *index.DB, chatKey string, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1000000 // no limit
	}

	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return "", -1, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return "", -1, fmt.Errorf("chat not found: %s", chatKey)
	}

	msgs, hitIdx, startPos, totalCount, err := db.GetMessagesWindow(chatKey, opts.HitMsgID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get messages: %w", err)
	}
	if totalCount == 0 {
		return "(empty chat)", -1, nil
	}
	skipAfter := totalCount - startPos - len(msgs)

	// colors follow the participant order recorded at index time so a
	// sender keeps its color whichever window is shown
	palette := make(map[string]string)
	for _, p := range strings.Split(chat.Participants, ", ") {
		senderColor(palette, p)
	}

	var b strings.Builder
	hitLine := -1
	lineCount := 0

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s (%s) %s .. %s ---%s", colorDim, chat.Title, chat.Participants, chat.FirstAt, chat.LastAt, colorReset))

	if startPos > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, startPos, colorReset))
	}

	prevDate := ""
	for i, m := range msgs {
		date, clock := splitTs(m.Ts)
		if date != prevDate {
			writeLine(fmt.Sprintf("%s== %s ==%s", colorDim, date, colorReset))
			prevDate = date
		}

		if i == hitIdx {
			hitLine = lineCount
			writeLine(fmt.Sprintf("%s>> %s %s <<%s", colorHit, clock, m.Sender, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s%s %s%s%s", colorDim, clock, colorReset, senderColor(palette, m.Sender), m.Sender, colorReset))
		}

		text := m.Body
		if m.Type != "text" {
			text = fmt.Sprintf("%s[%s] %s%s", colorMedia, m.Type, text, colorReset)
		}
		text = highlightKeywords(text, opts.Query)
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			writeLine(tl)
		}
	}

	if skipAfter > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, skipAfter, colorReset))
	}

	return b.String(), hitLine, nil
}

// splitTs splits a stored "2006-01-02 15:04:05" timestamp into date and HH:MM.
func splitTs(ts string) (string, string) {
	date, clock, ok := strings.Cut(ts, " ")
	if !ok {
		return ts, ""
	}
	if len(clock) >= 5 {
		clock = clock[:5]
	}
	return date, clock
}
