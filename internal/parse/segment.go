package parse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	sp        = `[\s\x{00A0}\x{202F}]`
	dateSlash = `(\d{1,2}/\d{1,2}/\d{2,4})`
	dateDot   = `(\d{1,2}\.\d{1,2}\.\d{2,4})`
	dateAny   = `(\d{1,2}[/.]\d{1,2}[/.]\d{2,4})`
	clock     = `(\d{1,2}:\d{2}(?::\d{2})?(?:` + sp + `*[AaPp]\.?[Mm]\.?)?)`
	dash      = sp + `*[-–]` + sp + `*`
	senderMsg = `([^:]+):` + sp + `*(.*)$`
	eventMsg  = `(.+)$`
)

// StartPattern recognizes a message-start line. Re is anchored at the line
// start and captures date, time, sender and body in that order; patterns
// without a sender capture date, time and body.
type StartPattern struct {
	Name      string
	Re        *regexp.Regexp
	HasSender bool
}

// DefaultStartPatterns returns the grammars tried on every line, in order.
// Sender grammars come first so an event pattern never steals a line that has
// a "sender:" prefix.
func DefaultStartPatterns() []StartPattern {
	return []StartPattern{
		{Name: "slash-dash", HasSender: true, Re: regexp.MustCompile(`^` + dateSlash + `,?` + sp + `+` + clock + dash + senderMsg)},
		{Name: "slash-bracket", HasSender: true, Re: regexp.MustCompile(`^\[` + dateSlash + `,?` + sp + `+` + clock + `\]` + sp + `*` + senderMsg)},
		{Name: "dot-dash", HasSender: true, Re: regexp.MustCompile(`^` + dateDot + `,?` + sp + `+` + clock + dash + senderMsg)},
		{Name: "dot-bracket", HasSender: true, Re: regexp.MustCompile(`^\[` + dateDot + `,?` + sp + `+` + clock + `\]` + sp + `*` + senderMsg)},
		{Name: "event-dash", Re: regexp.MustCompile(`^` + dateAny + `,?` + sp + `+` + clock + dash + eventMsg)},
		{Name: "event-bracket", Re: regexp.MustCompile(`^\[` + dateAny + `,?` + sp + `+` + clock + `\]` + sp + `*` + eventMsg)},
	}
}

// Candidate is a message being assembled. It is owned by the Segmenter until
// the next start line closes it.
type Candidate struct {
	Line      int
	Date      string
	Time      string
	Sender    string
	fragments []string
}

// Body joins the first-line body and every continuation line with "\n".
func (c *Candidate) Body() string {
	return strings.Join(c.fragments, "\n")
}

func (c *Candidate) appendLine(s string) {
	c.fragments = append(c.fragments, s)
}

// Segmenter splits a transcript into candidates.
type Segmenter struct {
	starts []StartPattern
}

func NewSegmenter(starts []StartPattern) (*Segmenter, error) {
	if len(starts) == 0 {
		return nil, fmt.Errorf("segmenter: no start patterns")
	}
	for _, p := range starts {
		want := 3
		if p.HasSender {
			want = 4
		}
		if p.Re == nil || p.Re.NumSubexp() != want {
			return nil, fmt.Errorf("segmenter: pattern %q must have %d capture groups", p.Name, want)
		}
	}
	return &Segmenter{starts: append([]StartPattern(nil), starts...)}, nil
}

// Segment scans text once. A line matching a start pattern (first match
// wins) closes the open candidate and opens a new one; any other non-blank
// line is appended to the open candidate, or discarded if none is open.
func (s *Segmenter) Segment(text string) []Candidate {
	var out []Candidate
	var open *Candidate

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(strings.TrimLeft(raw, "\ufeff\u200e"), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if c, ok := s.matchStart(line); ok {
			if open != nil {
				out = append(out, *open)
			}
			c.Line = i + 1
			open = &c
			continue
		}

		if open != nil {
			open.appendLine(clean(line))
		}
	}
	if open != nil {
		out = append(out, *open)
	}
	return out
}

func (s *Segmenter) matchStart(line string) (Candidate, bool) {
	for _, p := range s.starts {
		m := p.Re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		c := Candidate{Date: m[1], Time: m[2]}
		body := m[3]
		if p.HasSender {
			c.Sender = clean(m[3])
			body = m[4]
		}
		c.appendLine(clean(body))
		return c, true
	}
	return Candidate{}, false
}

func clean(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\u200e' || r == '\ufeff'
	})
}
