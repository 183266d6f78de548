package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-wrapped/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: search results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single result as two lines:
//
//	line 1: [>] badge  date  title / sender
//	line 2:    snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	badge := styleListBadge.Render(resultBadge(r))

	// "2023-05-12 09:15:00" -> "23-05-12"
	date := r.Ts
	if len(date) >= 10 {
		date = date[2:10]
	}

	head := r.Title
	if r.MsgID >= 0 {
		head = r.Sender + " @ " + r.Title
	}
	head = strings.ReplaceAll(head, "\n", " ")
	headMax := width - 2 - 6 - 9 - 2 // prefix + badge + date + padding
	if headMax < 0 {
		headMax = 0
	}
	if runewidth.StringWidth(head) > headMax {
		head = runewidth.Truncate(head, headMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s", badge, date, head)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	// Line 2: snippet (dimmed, indented)
	snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	snippet = strings.ReplaceAll(snippet, "<<<", "")
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// resultBadge is "chat" for list rows, otherwise the message type colored
// by whether it is text or media.
func resultBadge(r search.Result) string {
	switch {
	case r.MsgID < 0:
		return styleBadgeChat.Render("chat")
	case r.Type == "text":
		return styleBadgeText.Render("text")
	default:
		return styleBadgeMedia.Render(r.Type)
	}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
