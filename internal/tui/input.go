package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	half := m.layout.panelH / 2

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Enter):
		if r, ok := m.selected(); ok {
			m.openResult = &r
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, keys.Toggle):
		// the typed text carries over: a chat filter becomes a message query
		if m.mode == modeList {
			m.mode = modeSearch
			m.filterInput.Placeholder = "Search messages..."
		} else {
			m.mode = modeList
			m.filterInput.Placeholder = "Filter chats by name or participant..."
		}
		return m, m.reload()

	case key.Matches(msg, keys.Up):
		return m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		return m.moveCursor(1)

	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(half)
		return m, nil

	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(half)
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(m.layout.panelH)
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(m.layout.panelH)
		return m, nil

	case key.Matches(msg, keys.First):
		m.preview.GotoTop()
		return m, nil

	case key.Matches(msg, keys.Last):
		m.preview.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if q := m.filterInput.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, m.scheduleDebouncedSearch(q))
	}
	return m, cmd
}

// moveCursor steps the selection by delta rows, clamped to the results.
func (m model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.results) {
		return m, nil
	}
	m.cursor = next
	m.adjustListScroll(m.layout.panelH)
	return m, m.loadCurrentPreview()
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}

	region, item := m.layout.hitTest(msg.X, msg.Y, m.listOffset)
	switch region {
	case regionList:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			return m.moveCursor(-1)
		case msg.Button == tea.MouseButtonWheelDown:
			return m.moveCursor(1)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if item < len(m.results) {
				return m.moveCursor(item - m.cursor)
			}
		}

	case regionPreview:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}
