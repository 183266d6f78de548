package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chat-wrapped/internal/index"
	"github.com/Zuo-Peng/chat-wrapped/internal/search"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeList
)

// searchResultMsg carries results for the query and mode that produced
// them, so late answers to an older query are dropped.
type searchResultMsg struct {
	query   string
	mode    tuiMode
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

type model struct {
	db          *index.DB
	searchOpts  search.Options
	mode        tuiMode
	query       string
	results     []search.Result
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // "chatKey:msgID" to avoid duplicate renders
	layout      layout
	ready       bool
	quitting    bool
	openResult  *search.Result
}

func initialModel(db *index.DB, query string, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Search messages..."
	ti.Focus()
	ti.SetValue(query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		db:          db,
		searchOpts:  opts,
		query:       query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
		layout:      newLayout(0, 0),
	}
}

// Run starts the TUI and blocks until it exits.
// If the user selects a result, the message is copied to the clipboard.
func Run(db *index.DB, query string, opts search.Options) error {
	return runProgram(db, initialModel(db, query, opts))
}

// RunList starts the TUI in list mode, showing all chats by last activity.
func RunList(db *index.DB, opts search.Options) error {
	m := initialModel(db, "", opts)
	m.mode = modeList
	m.filterInput.Placeholder = "Filter chats by name or participant..."
	return runProgram(db, m)
}

func runProgram(db *index.DB, m model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.openResult != nil {
		return copySelection(db, *fm.openResult)
	}
	return nil
}

// copySelection copies the selected message, or the chat's file path for a
// list row, to the clipboard. It falls back to printing when no clipboard
// is available.
func copySelection(db *index.DB, r search.Result) error {
	text, err := selectionText(db, r)
	if err != nil {
		return err
	}

	if err := clipboard.WriteAll(text); err != nil {
		fmt.Printf("%s\n", text)
		return nil
	}

	fmt.Printf("Copied to clipboard: %s\n", firstLine(text))
	return nil
}

func selectionText(db *index.DB, r search.Result) (string, error) {
	chat, err := db.GetChatByKey(r.ChatKey)
	if err != nil {
		return "", fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return "", fmt.Errorf("chat not found: %s", r.ChatKey)
	}
	if r.MsgID < 0 {
		return chat.FilePath, nil
	}

	msgs, hitIdx, _, _, err := db.GetMessagesWindow(r.ChatKey, r.MsgID, 0)
	if err != nil {
		return "", fmt.Errorf("get message: %w", err)
	}
	if hitIdx < 0 {
		return "", fmt.Errorf("message %d not found in %s", r.MsgID, r.ChatKey)
	}
	msg := msgs[hitIdx]
	return fmt.Sprintf("[%s] %s: %s", msg.Ts, msg.Sender, msg.Body), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.reload())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = newLayout(msg.Width, msg.Height)
		m.ready = true
		m.preview = newViewport(m.layout.previewW+2, m.layout.panelH+2)
		m.previewKey = ""
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case debounceTickMsg:
		// a newer keystroke has superseded this tick
		if msg.query != m.query {
			return m, nil
		}
		return m, m.reload()

	case searchResultMsg:
		return m.applyResults(msg)

	case previewRenderedMsg:
		return m.applyPreview(msg), nil
	}
	return m, nil
}

// reload fetches results for the current query in the current mode.
func (m model) reload() tea.Cmd {
	if m.mode == modeList {
		return m.doListChats(m.query)
	}
	if m.query == "" {
		return func() tea.Msg { return searchResultMsg{mode: modeSearch} }
	}
	return m.doSearch(m.query)
}

func (m model) applyResults(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.query || msg.mode != m.mode {
		return m, nil
	}
	m.cursor = 0
	m.listOffset = 0
	m.previewKey = ""
	if msg.err != nil {
		m.results = nil
		m.preview.SetContent("Error: " + msg.err.Error())
		return m, nil
	}
	m.results = msg.results
	if len(m.results) == 0 {
		m.preview.SetContent("")
		return m, nil
	}
	return m, m.loadCurrentPreview()
}

// applyPreview shows a rendered chat. A message hit is scrolled into view;
// a chat row opens on its most recent messages.
func (m model) applyPreview(msg previewRenderedMsg) model {
	r, ok := m.selected()
	if !ok || previewCacheKey(r.ChatKey, r.MsgID) != previewCacheKey(msg.chatKey, msg.msgID) {
		return m // stale
	}
	m.previewKey = previewCacheKey(msg.chatKey, msg.msgID)
	if msg.err != nil {
		m.preview.SetContent("Preview error: " + msg.err.Error())
		return m
	}
	m.preview.SetContent(msg.content)
	switch {
	case msg.hitLine > 0:
		m.preview.SetYOffset(msg.hitLine)
	case msg.msgID < 0:
		m.preview.GotoBottom()
	default:
		m.preview.GotoTop()
	}
	return m
}

func (m model) selected() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

func (m model) doSearch(query string) tea.Cmd {
	db := m.db
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		results, err := search.Search(db, opts)
		return searchResultMsg{query: query, mode: modeSearch, results: results, err: err}
	}
}

// doListChats lists every chat and keeps those whose title or participants
// contain filter.
func (m model) doListChats(filter string) tea.Cmd {
	db := m.db
	opts := m.searchOpts
	return func() tea.Msg {
		results, err := search.ListAll(db, opts)
		return searchResultMsg{query: filter, mode: modeList, results: filterChats(results, filter), err: err}
	}
}

func filterChats(chats []search.Result, filter string) []search.Result {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return chats
	}
	var out []search.Result
	for _, c := range chats {
		// Sender holds the participant list for chat rows
		if strings.Contains(strings.ToLower(c.Title), filter) ||
			strings.Contains(strings.ToLower(c.Sender), filter) {
			out = append(out, c)
		}
	}
	return out
}

func (m model) scheduleDebouncedSearch(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	r, ok := m.selected()
	if !ok || !m.ready || previewCacheKey(r.ChatKey, r.MsgID) == m.previewKey {
		return nil
	}
	return loadPreviewCmd(m.db, r, m.query, m.layout.previewW)
}

func previewCacheKey(chatKey string, msgID int) string {
	return fmt.Sprintf("%s:%d", chatKey, msgID)
}
