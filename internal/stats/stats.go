// Package stats computes per-chat activity summaries from parsed messages.
package stats

import (
	"sort"
	"strconv"
	"time"

	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

// Weekdays lists day names Monday first, the order the summary reports them in.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type Participant struct {
	Name       string
	Messages   int
	Words      int
	Media      int
	Percentage float64 // share of all messages, 0..100
	AvgWords   float64 // mean word count over the participant's text messages
}

type Summary struct {
	TotalMessages int
	TotalWords    int
	MediaShared   int
	ActiveDays    int
	First         time.Time
	Last          time.Time

	Participants []Participant // most messages first

	ByHour    [24]int
	ByWeekday map[string]int
	ByType    map[parse.MessageType]int

	MostActiveHour    int
	MostActiveWeekday string
	PeakDay           string // "2006-01-02"
	PeakDayMessages   int
	TopMediaSharer    string
}

// Summarize computes the summary of msgs. An empty slice yields a zero
// summary with MostActiveHour -1.
func Summarize(msgs []parse.Message) Summary {
	s := Summary{
		ByWeekday:      make(map[string]int, len(Weekdays)),
		ByType:         make(map[parse.MessageType]int),
		MostActiveHour: -1,
	}
	for _, d := range Weekdays {
		s.ByWeekday[d] = 0
	}
	if len(msgs) == 0 {
		return s
	}

	t := parse.Transcript{Messages: msgs}
	s.First, s.Last = t.Span()

	type acc struct {
		Participant
		textMsgs int
	}
	order := t.Senders()
	per := make(map[string]*acc, len(order))
	for _, name := range order {
		per[name] = &acc{Participant: Participant{Name: name}}
	}
	byDay := make(map[string]int)

	for _, m := range msgs {
		s.TotalMessages++
		s.TotalWords += m.WordCount
		s.ByHour[m.Hour]++
		s.ByWeekday[m.DayOfWeek]++
		s.ByType[m.Type]++
		byDay[m.Date]++

		p := per[m.Sender]
		p.Messages++
		p.Words += m.WordCount
		if m.Type == parse.TypeText {
			p.textMsgs++
		}
		if m.Type.IsMedia() {
			s.MediaShared++
			p.Media++
		}
	}
	s.ActiveDays = len(byDay)

	for _, name := range order {
		p := per[name]
		p.Percentage = round1(float64(p.Messages) / float64(s.TotalMessages) * 100)
		if p.textMsgs > 0 {
			p.AvgWords = round1(float64(p.Words) / float64(p.textMsgs))
		}
		s.Participants = append(s.Participants, p.Participant)
	}
	// stable keeps first-appearance order among ties
	sort.SliceStable(s.Participants, func(i, j int) bool {
		return s.Participants[i].Messages > s.Participants[j].Messages
	})

	s.MostActiveHour = 0
	for h, n := range s.ByHour {
		if n > s.ByHour[s.MostActiveHour] {
			s.MostActiveHour = h
		}
	}
	for _, d := range Weekdays {
		if s.MostActiveWeekday == "" || s.ByWeekday[d] > s.ByWeekday[s.MostActiveWeekday] {
			s.MostActiveWeekday = d
		}
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		if byDay[d] > s.PeakDayMessages {
			s.PeakDay, s.PeakDayMessages = d, byDay[d]
		}
	}

	top := 0
	for _, p := range s.Participants {
		if p.Media > top {
			s.TopMediaSharer, top = p.Name, p.Media
		}
	}
	return s
}

// HourLabel formats an hour of day as "12 AM" .. "11 PM".
func HourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return strconv.Itoa(h) + " AM"
	case h == 12:
		return "12 PM"
	default:
		return strconv.Itoa(h-12) + " PM"
	}
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}
