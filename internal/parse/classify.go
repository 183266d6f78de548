package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// MediaRule describes how one media type shows up in an export. Placeholders
// are literal phrases the exporter writes in place of the attachment;
// Patterns are regular expressions over attachment filenames.
type MediaRule struct {
	Type         MessageType `toml:"type"`
	Placeholders []string    `toml:"placeholders"`
	Patterns     []string    `toml:"patterns"`
}

// Rules is the classification table. Order is significant in both lists.
type Rules struct {
	SystemPhrases []string    `toml:"system_phrases"`
	Media         []MediaRule `toml:"media"`
}

// DefaultRules returns a fresh copy of the built-in table for WhatsApp exports.
func DefaultRules() Rules {
	return Rules{
		SystemPhrases: []string{
			"Messages and calls are end-to-end encrypted",
			"created group",
			"added",
			"removed",
			"left",
			"changed the subject",
			"changed this group",
			"changed the group",
			"deleted this message",
			"message was deleted",
			"security code changed",
			"joined using this group",
			"changed their phone number",
		},
		Media: []MediaRule{
			{Type: TypeImage, Placeholders: []string{"<Media omitted>", "image omitted"}, Patterns: []string{`IMG-\d+`, `\.jpe?g`, `\.png`}},
			{Type: TypeVideo, Placeholders: []string{"video omitted"}, Patterns: []string{`VID-\d+`, `\.mp4`, `\.mov`}},
			{Type: TypeAudio, Placeholders: []string{"audio omitted"}, Patterns: []string{`PTT-\d+`, `\.opus`, `\.mp3`}},
			{Type: TypeSticker, Placeholders: []string{"sticker omitted"}, Patterns: []string{`\.webp`}},
			{Type: TypeGIF, Placeholders: []string{"GIF omitted"}},
			{Type: TypeDocument, Placeholders: []string{"document omitted"}, Patterns: []string{`\.pdf`, `\.docx?`, `\.xlsx`}},
			{Type: TypeContact, Placeholders: []string{"contact card omitted"}, Patterns: []string{`\.vcf`}},
			{Type: TypeLocation, Placeholders: []string{"location:", "live location shared"}},
		},
	}
}

// mediaMatcher is one entry of the flattened media table: either a
// lower-cased placeholder phrase or a filename pattern.
type mediaMatcher struct {
	typ    MessageType
	phrase string
	re     *regexp.Regexp
}

func (m mediaMatcher) match(body, lower string) bool {
	if m.re != nil {
		return m.re.MatchString(body)
	}
	return strings.Contains(lower, m.phrase)
}

// Classifier assigns exactly one MessageType to a message body. It is
// immutable after construction and safe for concurrent use.
type Classifier struct {
	system []string
	media  []mediaMatcher
}

// NewClassifier flattens rules into one ordered matcher list. Categories keep
// their table order; inside a category placeholders come before patterns.
func NewClassifier(rules Rules) (*Classifier, error) {
	c := &Classifier{}
	for _, p := range rules.SystemPhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			c.system = append(c.system, p)
		}
	}
	for _, mr := range rules.Media {
		if !mr.Type.IsMedia() {
			return nil, fmt.Errorf("media rule: unknown type %q", mr.Type)
		}
		for _, p := range mr.Placeholders {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				c.media = append(c.media, mediaMatcher{typ: mr.Type, phrase: p})
			}
		}
		for _, p := range mr.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("media rule %s: compile %q: %w", mr.Type, p, err)
			}
			c.media = append(c.media, mediaMatcher{typ: mr.Type, re: re})
		}
	}
	return c, nil
}

// Classify checks system phrases first, then the media categories in table
// order; the first category with a matching placeholder or pattern wins.
// Anything left is text.
func (c *Classifier) Classify(body string) MessageType {
	lower := strings.ToLower(body)
	if c.isSystemLower(lower) {
		return TypeSystem
	}
	for _, m := range c.media {
		if m.match(body, lower) {
			return m.typ
		}
	}
	return TypeText
}

// IsSystem reports whether body contains an administrative phrase.
func (c *Classifier) IsSystem(body string) bool {
	return c.isSystemLower(strings.ToLower(body))
}

func (c *Classifier) isSystemLower(lower string) bool {
	for _, p := range c.system {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
