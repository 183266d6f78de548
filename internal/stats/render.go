package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

const barWidth = 30

var (
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleBar     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleHeader  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

// Render formats a summary as terminal tables.
func Render(title string, s Summary) string {
	var b strings.Builder

	b.WriteString(styleHeading.Render(title))
	b.WriteString("\n")
	if s.TotalMessages == 0 {
		b.WriteString(styleDim.Render("no messages"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(styleDim.Render(fmt.Sprintf("%s .. %s",
		s.First.Format("2006-01-02 15:04"), s.Last.Format("2006-01-02 15:04"))))
	b.WriteString("\n\n")

	overview := newTable("", "").
		Row("Messages", strconv.Itoa(s.TotalMessages)).
		Row("Words", strconv.Itoa(s.TotalWords)).
		Row("Media shared", strconv.Itoa(s.MediaShared)).
		Row("Active days", strconv.Itoa(s.ActiveDays)).
		Row("Peak day", fmt.Sprintf("%s (%d)", s.PeakDay, s.PeakDayMessages)).
		Row("Busiest hour", HourLabel(s.MostActiveHour)).
		Row("Busiest weekday", s.MostActiveWeekday)
	if s.TopMediaSharer != "" {
		overview.Row("Top media sharer", s.TopMediaSharer)
	}
	b.WriteString(overview.String())
	b.WriteString("\n\n")

	people := newTable("Sender", "Messages", "%", "Words", "Avg words", "Media")
	for _, p := range s.Participants {
		people.Row(
			p.Name,
			strconv.Itoa(p.Messages),
			strconv.FormatFloat(p.Percentage, 'f', 1, 64),
			strconv.Itoa(p.Words),
			strconv.FormatFloat(p.AvgWords, 'f', 1, 64),
			strconv.Itoa(p.Media),
		)
	}
	b.WriteString(people.String())
	b.WriteString("\n\n")

	types := newTable("Type", "Count")
	for _, t := range append([]parse.MessageType{parse.TypeText}, parse.MediaTypes...) {
		if n := s.ByType[t]; n > 0 {
			types.Row(string(t), strconv.Itoa(n))
		}
	}
	b.WriteString(types.String())
	b.WriteString("\n\n")

	b.WriteString(styleHeading.Render("By hour"))
	b.WriteString("\n")
	b.WriteString(histogram(s.ByHour[:], HourLabel))
	b.WriteString("\n")
	b.WriteString(styleHeading.Render("By weekday"))
	b.WriteString("\n")
	days := make([]int, len(Weekdays))
	for i, d := range Weekdays {
		days[i] = s.ByWeekday[d]
	}
	b.WriteString(histogram(days, func(i int) string { return Weekdays[i][:3] }))

	return b.String()
}

func newTable(headers ...string) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	if strings.Join(headers, "") != "" {
		t.Headers(headers...)
	}
	return t
}

// histogram draws one bar per bucket, scaled to the largest bucket.
func histogram(counts []int, label func(int) string) string {
	peak := 0
	for _, n := range counts {
		if n > peak {
			peak = n
		}
	}
	var b strings.Builder
	for i, n := range counts {
		w := 0
		if peak > 0 {
			w = n * barWidth / peak
		}
		fmt.Fprintf(&b, "%6s %s %d\n", label(i), styleBar.Render(strings.Repeat("█", w)), n)
	}
	return b.String()
}
