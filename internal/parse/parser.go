// Package parse turns exported WhatsApp chat transcripts into an ordered
// table of messages.
//
// A transcript is scanned once. Lines that match a start grammar open a new
// message; every other line is a continuation of the open one. Each finished
// message gets an absolute timestamp and a content type, and administrative
// events are filtered out of the result.
package parse

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrNoMessagesFound means no line in the transcript matched a start
	// pattern, or none of the matches produced a usable message.
	ErrNoMessagesFound = errors.New("no valid messages found in the chat export")

	// ErrEmptyAfterFiltering means messages were found but all of them were
	// administrative events.
	ErrEmptyAfterFiltering = errors.New("chat export contains only system messages")

	// ErrUnresolvedTimestamp is returned by Normalizer.Resolve when no layout
	// parses the tokens. Parse recovers from it by dropping the message.
	ErrUnresolvedTimestamp = errors.New("timestamp unresolved")
)

type options struct {
	rules  Rules
	starts []StartPattern
	loc    *time.Location
	log    zerolog.Logger
}

type Option func(*options)

// WithRules replaces the classification table.
func WithRules(r Rules) Option {
	return func(o *options) { o.rules = r }
}

// WithStartPatterns replaces the start grammars.
func WithStartPatterns(p []StartPattern) Option {
	return func(o *options) { o.starts = p }
}

// WithLocation sets the zone transcript wall-clock times are read in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Parser holds immutable configuration only. One Parser may be shared by
// goroutines parsing different transcripts.
type Parser struct {
	seg  *Segmenter
	norm *Normalizer
	cls  *Classifier
	log  zerolog.Logger
}

func New(opts ...Option) (*Parser, error) {
	o := options{
		rules:  DefaultRules(),
		starts: DefaultStartPatterns(),
		loc:    time.Local,
		log:    zerolog.Nop(),
	}
	for _, fn := range opts {
		fn(&o)
	}

	seg, err := NewSegmenter(o.starts)
	if err != nil {
		return nil, err
	}
	cls, err := NewClassifier(o.rules)
	if err != nil {
		return nil, err
	}
	return &Parser{
		seg:  seg,
		norm: NewNormalizer(o.loc),
		cls:  cls,
		log:  o.log,
	}, nil
}

// Parse converts a whole transcript. The returned transcript is never empty;
// an empty result is reported as ErrNoMessagesFound or ErrEmptyAfterFiltering.
func (p *Parser) Parse(text string) (*Transcript, error) {
	cands := p.seg.Segment(text)
	t, err := buildTable(cands, p.norm, p.cls, p.log)
	if err != nil {
		return nil, err
	}
	p.log.Debug().
		Int("messages", t.Len()).
		Int("participants", len(t.Senders())).
		Int("system", t.Report.System).
		Int("unresolved", t.Report.Unresolved).
		Msg("parsed transcript")
	return t, nil
}
