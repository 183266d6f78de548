package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/chat-wrapped/internal/search"
)

// layout holds the panel geometry for one terminal size. The chat list takes
// a bit over a third of the width; the preview gets the rest.
type layout struct {
	listW    int
	previewW int
	panelH   int
}

const (
	minPanelW = 20
	minPanelH = 5
	chrome    = 6 // input row, status bar and the two borders of each panel
)

func newLayout(width, height int) layout {
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 26
	}
	l := layout{
		listW:    width*38/100 - 2,
		previewW: width - width*38/100 - 4,
		panelH:   height - chrome,
	}
	l.listW = max(l.listW, minPanelW)
	l.previewW = max(l.previewW, minPanelW)
	l.panelH = max(l.panelH, minPanelH)
	return l
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel and, for the list, the index
// of the row under the pointer.
func (l layout) hitTest(x, y, listOffset int) (mouseRegion, int) {
	top := 2 // input row, top border
	if y < top || y >= top+l.panelH {
		return regionNone, -1
	}
	switch {
	case x >= 1 && x <= l.listW:
		return regionList, listOffset + (y-top)/linesPerItem
	case x > l.listW+2:
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	l := m.layout

	list := stylePanelBorder.
		Width(l.listW).
		Height(l.panelH).
		Render(m.renderList(l.listW, l.panelH))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.filterInput.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, m.preview.View()),
		m.statusBar(),
	)
}

// statusBar shows where the selection lives, then the key hints.
func (m model) statusBar() string {
	noun := "messages"
	if m.mode == modeList {
		noun = "chats"
	}
	parts := []string{fmt.Sprintf("%d %s", len(m.results), noun)}
	if r, ok := m.selected(); ok {
		parts = append(parts, selectionLabel(r))
	}
	parts = append(parts,
		"up/dn select",
		"C-u/C-d Home/End preview",
		"Tab chats/messages",
		"Enter copy",
		"Esc quit",
	)
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// selectionLabel names the chat of a row: its message count and members for
// a chat row, the sender and time for a message hit.
func selectionLabel(r search.Result) string {
	if r.MsgID < 0 {
		return r.Title + " · " + r.Snippet
	}
	return r.Title + " · " + r.Sender + " " + r.Ts
}
