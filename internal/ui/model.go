// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/saldo-tui/internal/chat"
	"github.com/morganforge/saldo-tui/internal/config"
	"github.com/morganforge/saldo-tui/internal/document"
	"github.com/morganforge/saldo-tui/internal/relay"
	"github.com/morganforge/saldo-tui/internal/session"
	"github.com/morganforge/saldo-tui/internal/user"
)

// =============================================================================
// MESSAGES
// =============================================================================

// statusMsg reports a send state machine transition.
type statusMsg relay.Status

// sendDoneMsg reports the end of a send, successful or not.
type sendDoneMsg struct{ err error }

// titleMsg reports an AI-generated session title.
type titleMsg struct {
	sessionID string
	title     string
}

// noticeMsg carries a transient inline notice (excluded attachments).
type noticeMsg struct{ err error }

// streamTickMsg drives the 30fps flush of the stream buffer.
type streamTickMsg struct{ at time.Time }

// noticeExpiredMsg dismisses the inline notice.
type noticeExpiredMsg struct{ seq int }

// noticeDuration is how long a transient notice stays visible.
const noticeDuration = 4 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// view selects the active screen.
type view int

const (
	viewWelcome view = iota
	viewChat
)

// Model is the root Bubble Tea model.
type Model struct {
	cfg      *config.Config
	users    *user.Manager
	sessions *session.Manager
	docs     *document.Manager
	sender   *chat.Sender

	view        view
	width       int
	height      int
	showSidebar bool
	ready       bool

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	status    relay.Status
	buffer    *StreamBuffer
	streaming string // in-flight assistant text already flushed to screen
	sending   bool

	notice    string
	noticeSeq int

	quick  []chat.QuickMessage
	events chan tea.Msg
}

// New builds the root model. The active screen depends on whether a user
// profile exists yet.
func New(cfg *config.Config, users *user.Manager, sessions *session.Manager, docs *document.Manager, sender *chat.Sender) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about Swedish taxes, VAT, deadlines..."
	ti.Prompt = inputPromptStyle.Render("> ")
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		cfg:         cfg,
		users:       users,
		sessions:    sessions,
		docs:        docs,
		sender:      sender,
		view:        viewChat,
		showSidebar: cfg.UI.ShowSidebar,
		input:       ti,
		spin:        sp,
		status:      relay.StatusIdle,
		buffer:      NewStreamBuffer(),
		quick:       chat.RandomQuickMessages(3),
		events:      make(chan tea.Msg, 64),
	}

	if _, ok := users.Get(); !ok {
		m.view = viewWelcome
		m.input.Placeholder = "What should I call you?"
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// waitEvent forwards the next event from the send goroutine into the
// Bubble Tea loop.
func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func streamTick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return streamTickMsg{at: t}
	})
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true

	case tea.KeyMsg:
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case statusMsg:
		m.status = relay.Status(msg)
		cmds = append(cmds, m.waitEvent())

	case streamTickMsg:
		if content, ok := m.buffer.Flush(); ok {
			m.streaming += content
			m.refreshViewport()
		}
		if m.sending {
			cmds = append(cmds, streamTick())
		}

	case sendDoneMsg:
		if content, ok := m.buffer.ForceFlush(); ok {
			m.streaming += content
		}
		m.sending = false
		m.streaming = ""
		m.refreshViewport()

	case titleMsg:
		// Sidebar re-renders from the session manager; nothing to store.
		cmds = append(cmds, m.waitEvent())

	case noticeMsg:
		m.notice = msg.err.Error()
		m.noticeSeq++
		seq := m.noticeSeq
		cmds = append(cmds,
			m.waitEvent(),
			tea.Tick(noticeDuration, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} }))

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes key input; handled=false falls through to the
// component updates.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true

	case "enter":
		if m.view == viewWelcome {
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return m, nil, true
			}
			m.users.Set(name)
			m.view = viewChat
			m.input.Reset()
			m.input.Placeholder = "Ask about Swedish taxes, VAT, deadlines..."
			return m, nil, true
		}
		return m.startSend(m.input.Value())

	case "ctrl+n":
		if m.view == viewChat && !m.sending {
			m.sessions.CreateSession()
			m.streaming = ""
			m.refreshViewport()
		}
		return m, nil, true

	case "ctrl+b":
		m.showSidebar = !m.showSidebar
		m.resize()
		return m, nil, true

	case "tab":
		// Cycle through quick messages into the input on an empty chat.
		if m.view == viewChat && m.input.Value() == "" && len(m.quick) > 0 {
			m.input.SetValue(m.quick[0].FullMessage)
			m.quick = append(m.quick[1:], m.quick[0])
			m.input.CursorEnd()
			return m, nil, true
		}
	}
	return m, nil, false
}

// startSend launches the send pipeline on a background goroutine and
// bridges its callbacks into the event channel.
func (m Model) startSend(text string) (tea.Model, tea.Cmd, bool) {
	if strings.TrimSpace(text) == "" || m.sending {
		return m, nil, true
	}

	active := m.sessions.ActiveSessionID()
	if active == "" {
		active = m.sessions.CreateSession().ID
	}

	m.input.Reset()
	m.sending = true
	m.streaming = ""
	m.buffer.Reset()
	m.refreshViewport()

	events := m.events
	buffer := m.buffer
	sender := m.sender
	go func() {
		err := sender.Send(context.Background(), active, text, nil, chat.Events{
			OnStatus: func(s relay.Status) { events <- statusMsg(s) },
			OnDelta:  func(delta string) { buffer.Write(delta) },
			OnNotice: func(err error) { events <- noticeMsg{err: err} },
			OnTitle: func(id, title string) {
				events <- titleMsg{sessionID: id, title: title}
			},
		})
		events <- sendDoneMsg{err: err}
	}()

	return m, tea.Batch(m.waitEvent(), streamTick()), true
}

// resize recomputes component dimensions after a window or layout change.
func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	contentWidth := m.width
	if m.showSidebar {
		contentWidth -= sidebarWidth
	}
	// Header, status line and input take four rows.
	vpHeight := m.height - 4
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = contentWidth - 4

	m.renderer = newRenderer(m.cfg.UI.Theme, contentWidth-2)
	m.refreshViewport()
}

// newRenderer builds the markdown renderer for assistant messages.
func newRenderer(theme string, wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	switch theme {
	case "light":
		opts = append(opts, glamour.WithStandardStyle("light"))
	case "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle("dark"))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil
	}
	return r
}
