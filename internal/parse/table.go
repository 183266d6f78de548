package parse

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// buildTable resolves, classifies and filters candidates in input order.
// Rows are never re-sorted.
func buildTable(cands []Candidate, norm *Normalizer, cls *Classifier, log zerolog.Logger) (*Transcript, error) {
	if len(cands) == 0 {
		return nil, ErrNoMessagesFound
	}

	t := &Transcript{Report: Report{Candidates: len(cands)}}
	for i := range cands {
		c := &cands[i]

		ts, err := norm.Resolve(c.Date, c.Time)
		if err != nil {
			t.Report.Unresolved++
			log.Warn().Err(err).Int("line", c.Line).Str("sender", c.Sender).Msg("dropping message")
			continue
		}

		body := c.Body()
		typ := cls.Classify(body)
		// an event line with a colon in its text matches a sender grammar,
		// so the phrase may sit in the sender half
		if typ != TypeSystem && c.Sender != "" && cls.IsSystem(c.Sender+": "+body) {
			typ = TypeSystem
		}
		if typ == TypeSystem {
			t.Report.System++
			continue
		}
		if c.Sender == "" {
			t.Report.Senderless++
			log.Warn().Int("line", c.Line).Str("body", truncate(body, 80)).Msg("dropping message without sender")
			continue
		}

		t.Messages = append(t.Messages, NewMessage(ts, c.Sender, body, typ, c.Line))
	}

	if len(t.Messages) == 0 {
		if t.Report.System > 0 {
			return nil, ErrEmptyAfterFiltering
		}
		return nil, ErrNoMessagesFound
	}
	return t, nil
}

// NewMessage builds a Message and its derived calendar fields.
func NewMessage(ts time.Time, sender, body string, typ MessageType, line int) Message {
	m := Message{
		Timestamp: ts,
		Sender:    sender,
		Body:      body,
		Type:      typ,
		Line:      line,
		Date:      ts.Format("2006-01-02"),
		Hour:      ts.Hour(),
		DayOfWeek: ts.Weekday().String(),
		Month:     ts.Month().String(),
		Year:      ts.Year(),
	}
	if typ == TypeText {
		m.WordCount = len(strings.Fields(body))
	}
	return m
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
