package parse

import "time"

// MessageType is the content label assigned to a message body.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeVideo    MessageType = "video"
	TypeAudio    MessageType = "audio"
	TypeSticker  MessageType = "sticker"
	TypeGIF      MessageType = "gif"
	TypeDocument MessageType = "document"
	TypeContact  MessageType = "contact"
	TypeLocation MessageType = "location"
	TypeSystem   MessageType = "system"
)

// MediaTypes lists the media labels in classification order.
var MediaTypes = []MessageType{
	TypeImage, TypeVideo, TypeAudio, TypeSticker, TypeGIF,
	TypeDocument, TypeContact, TypeLocation,
}

// IsMedia reports whether t is one of the media labels.
func (t MessageType) IsMedia() bool {
	for _, m := range MediaTypes {
		if t == m {
			return true
		}
	}
	return false
}

// Valid reports whether t is a known label.
func (t MessageType) Valid() bool {
	return t == TypeText || t == TypeSystem || t.IsMedia()
}

type Message struct {
	Timestamp time.Time
	Sender    string
	Body      string // fragments joined by "\n"
	Type      MessageType
	Line      int // 1-based line of the start line in the transcript

	Date      string // "2006-01-02"
	Hour      int
	DayOfWeek string // "Monday"
	Month     string // "January"
	Year      int
	WordCount int // zero unless Type == TypeText
}

// Report counts what was dropped while building a transcript.
type Report struct {
	Candidates int // start lines recognized
	System     int // administrative rows filtered out
	Unresolved int // timestamp tokens no layout could parse
	Senderless int // non-system candidates without a sender
}

type Transcript struct {
	Messages []Message
	Report   Report
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// Senders returns the distinct senders in order of first appearance.
func (t *Transcript) Senders() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range t.Messages {
		if _, ok := seen[m.Sender]; ok {
			continue
		}
		seen[m.Sender] = struct{}{}
		out = append(out, m.Sender)
	}
	return out
}

// Span returns the earliest and latest timestamps. Messages are kept in
// transcript order, so the bounds are scanned rather than read off the ends.
func (t *Transcript) Span() (first, last time.Time) {
	for i, m := range t.Messages {
		if i == 0 || m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if i == 0 || m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	return first, last
}
