package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

func msg(day, hour int, sender, body string, typ parse.MessageType) parse.Message {
	ts := time.Date(2023, 5, day, hour, 0, 0, 0, time.UTC)
	return parse.NewMessage(ts, sender, body, typ, 1)
}

func TestSummarize(t *testing.T) {
	// 2023-05-12 is a Friday; Carol's message is out of order
	msgs := []parse.Message{
		msg(12, 9, "Alice", "hello there", parse.TypeText),
		msg(12, 9, "Bob", "<Media omitted>", parse.TypeImage),
		msg(12, 21, "Alice", "pizza tonight", parse.TypeText),
		msg(13, 22, "Bob", "pizza it is then", parse.TypeText),
		msg(11, 8, "Carol", "IMG-0001.jpg", parse.TypeImage),
		msg(13, 9, "Alice", "voice note.opus", parse.TypeAudio),
	}

	s := Summarize(msgs)
	assert.Equal(t, 6, s.TotalMessages)
	assert.Equal(t, 8, s.TotalWords)
	assert.Equal(t, 3, s.MediaShared)
	assert.Equal(t, 3, s.ActiveDays)
	assert.Equal(t, time.Date(2023, 5, 11, 8, 0, 0, 0, time.UTC), s.First)
	assert.Equal(t, time.Date(2023, 5, 13, 22, 0, 0, 0, time.UTC), s.Last)

	require.Len(t, s.Participants, 3)
	alice := s.Participants[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 3, alice.Messages)
	assert.Equal(t, 4, alice.Words)
	assert.Equal(t, 1, alice.Media)
	assert.Equal(t, 50.0, alice.Percentage)
	assert.Equal(t, 2.0, alice.AvgWords)
	assert.Equal(t, "Bob", s.Participants[1].Name)
	assert.Equal(t, 33.3, s.Participants[1].Percentage)
	assert.Equal(t, "Carol", s.Participants[2].Name)
	assert.Zero(t, s.Participants[2].AvgWords)

	assert.Equal(t, 3, s.ByHour[9])
	assert.Equal(t, 9, s.MostActiveHour)
	assert.Equal(t, 3, s.ByWeekday["Friday"])
	assert.Equal(t, 0, s.ByWeekday["Monday"])
	assert.Equal(t, "Friday", s.MostActiveWeekday)
	assert.Equal(t, 3, s.ByType[parse.TypeText])
	assert.Equal(t, 2, s.ByType[parse.TypeImage])
	assert.Equal(t, "2023-05-12", s.PeakDay)
	assert.Equal(t, 3, s.PeakDayMessages)
	assert.Equal(t, "Alice", s.TopMediaSharer)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalMessages)
	assert.Empty(t, s.Participants)
	assert.Equal(t, -1, s.MostActiveHour)
	assert.Len(t, s.ByWeekday, 7)
	assert.Empty(t, s.PeakDay)
}

func TestSummarize_PeakDayTieTakesEarliest(t *testing.T) {
	s := Summarize([]parse.Message{
		msg(14, 10, "Alice", "b", parse.TypeText),
		msg(12, 10, "Bob", "a", parse.TypeText),
	})
	assert.Equal(t, "2023-05-12", s.PeakDay)
	assert.Equal(t, "Alice", s.Participants[0].Name)
	assert.Empty(t, s.TopMediaSharer)
}

func TestHourLabel(t *testing.T) {
	assert.Equal(t, "12 AM", HourLabel(0))
	assert.Equal(t, "9 AM", HourLabel(9))
	assert.Equal(t, "12 PM", HourLabel(12))
	assert.Equal(t, "11 PM", HourLabel(23))
}

func TestRender(t *testing.T) {
	s := Summarize([]parse.Message{
		msg(12, 9, "Alice", "hello there", parse.TypeText),
		msg(12, 10, "Bob", "<Media omitted>", parse.TypeImage),
	})
	out := Render("Alice", s)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Messages")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "image")
	assert.Contains(t, out, "Fri")
	assert.NotContains(t, out, "sticker")

	assert.Contains(t, Render("Empty", Summarize(nil)), "no messages")
}
