package parse

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts in resolution order. Day-first always precedes month-first,
// so "03/04/23" is 3 April.
var DefaultDateLayouts = []string{
	"2/1/06",
	"2/1/2006",
	"1/2/06",
	"1/2/2006",
}

// Time layouts in resolution order.
var DefaultTimeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"3:04PM",
	"3:04:05PM",
}

// Normalizer turns the raw date and time tokens of a start line into an
// absolute time.
type Normalizer struct {
	dateLayouts []string
	timeLayouts []string
	loc         *time.Location
}

// NewNormalizer returns a Normalizer using the default layouts. A nil loc
// means time.Local.
func NewNormalizer(loc *time.Location) *Normalizer {
	return NewNormalizerWithLayouts(loc, DefaultDateLayouts, DefaultTimeLayouts)
}

func NewNormalizerWithLayouts(loc *time.Location, dateLayouts, timeLayouts []string) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{
		dateLayouts: append([]string(nil), dateLayouts...),
		timeLayouts: append([]string(nil), timeLayouts...),
		loc:         loc,
	}
}

// Resolve tries every date layout crossed with every time layout and returns
// the first success. It never guesses: if nothing parses the error wraps
// ErrUnresolvedTimestamp.
func (n *Normalizer) Resolve(dateTok, timeTok string) (time.Time, error) {
	d := normalizeDate(dateTok)
	t := normalizeTime(timeTok)
	value := d + " " + t

	for _, df := range n.dateLayouts {
		for _, tf := range n.timeLayouts {
			ts, err := time.ParseInLocation(df+" "+tf, value, n.loc)
			if err == nil {
				return ts, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q %q", ErrUnresolvedTimestamp, dateTok, timeTok)
}

func normalizeDate(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ".", "/")
}

// normalizeTime upper-cases the token, drops every kind of space and the dots
// of "a.m."/"p.m.", then puts back exactly one space before the meridiem.
func normalizeTime(s string) string {
	s = strings.ToUpper(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f', '.':
			return -1
		}
		return r
	}, s)
	for _, mer := range []string{"AM", "PM"} {
		if strings.HasSuffix(s, mer) {
			return strings.TrimSuffix(s, mer) + " " + mer
		}
	}
	return s
}
