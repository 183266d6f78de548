package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/render"
	"github.com/Zuo-Peng/chat-wrapped/internal/search"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	chatKey string
	msgID   int
	content string
	hitLine int
	err     error
}

// loadPreviewCmd renders the whole chat around the result asynchronously.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderChat(db, r.ChatKey, render.Options{
			HitMsgID: r.MsgID,
			Context:  -1,
			Width:    width,
			Query:    query,
		})
		return previewRenderedMsg{
			chatKey: r.ChatKey,
			msgID:   r.MsgID,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

// newViewport sizes the preview panel including its border.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = styleActiveBorder
	return vp
}
