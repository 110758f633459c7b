// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/saldo-tui/internal/relay"
	"github.com/morganforge/saldo-tui/internal/session"
)

// sidebarWidth is the fixed width of the session sidebar.
const sidebarWidth = 28

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.view == viewWelcome {
		return m.welcomeView()
	}
	return m.chatView()
}

// welcomeView is the first-run name prompt.
func (m Model) welcomeView() string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("  Saldo"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("  Your Swedish tax and accounting assistant"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("  enter to continue · ctrl+c to quit"))
	return b.String()
}

// chatView is the main screen: optional sidebar, conversation, status, input.
func (m Model) chatView() string {
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.headerLine(),
		m.viewport.View(),
		m.statusLine(),
		m.input.View(),
	)
	if !m.showSidebar {
		return main
	}
	sidebar := sidebarStyle.Height(m.height).Render(m.sidebarView())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (m Model) headerLine() string {
	title := session.DefaultTitle
	if sess, ok := m.sessions.ActiveSession(); ok {
		title = sess.Title
	}
	greeting := ""
	if profile, ok := m.users.Get(); ok {
		greeting = subtleStyle.Render(fmt.Sprintf("  %s, %s", timeGreeting(time.Now()), profile.Name))
	}
	return titleStyle.Render(" "+title) + greeting
}

// statusLine shows the state machine position or a transient notice.
func (m Model) statusLine() string {
	if m.notice != "" {
		return noticeStyle.Render(" " + m.notice)
	}
	switch m.status {
	case relay.StatusThinking:
		return statusStyle.Render(" " + m.spin.View() + "thinking...")
	case relay.StatusSearching:
		return statusStyle.Render(" " + m.spin.View() + "searching the web...")
	case relay.StatusStreaming:
		return statusStyle.Render(" " + m.spin.View() + "answering...")
	case relay.StatusError:
		return errorStyle.Render(" something went wrong")
	default:
		return subtleStyle.Render(" enter to send · ctrl+n new chat · ctrl+b sidebar · tab suggestions")
	}
}

// sidebarView renders sessions grouped by recency.
func (m Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(sidebarHeadingStyle.Render("Chats"))
	b.WriteString("\n\n")

	grouped := m.sessions.Grouped()
	activeID := m.sessions.ActiveSessionID()

	writeGroup := func(label string, sessions []session.ChatSession) {
		if len(sessions) == 0 {
			return
		}
		b.WriteString(sidebarHeadingStyle.Render(label))
		b.WriteString("\n")
		for _, s := range sessions {
			title := truncateTitle(s.Title, sidebarWidth-4)
			if s.ID == activeID {
				b.WriteString(activeSessionStyle.Render("• " + title))
			} else {
				b.WriteString(subtleStyle.Render("  " + title))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeGroup("Today", grouped.Today)
	writeGroup("Yesterday", grouped.Yesterday)
	writeGroup("This week", grouped.ThisWeek)
	writeGroup("Older", grouped.Older)

	if len(grouped.Today)+len(grouped.Yesterday)+len(grouped.ThisWeek)+len(grouped.Older) == 0 {
		b.WriteString(subtleStyle.Render("No chats yet"))
	}
	return b.String()
}

// refreshViewport re-renders the conversation into the viewport and keeps
// it pinned to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.conversationView())
	m.viewport.GotoBottom()
}

// conversationView renders the active session plus any in-flight text.
func (m Model) conversationView() string {
	sess, ok := m.sessions.ActiveSession()
	if (!ok || len(sess.Messages) == 0) && m.streaming == "" && !m.sending {
		return m.emptyView()
	}

	var b strings.Builder
	for _, msg := range sess.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	if m.sending {
		b.WriteString(assistantLabelStyle.Render("Saldo"))
		b.WriteString("\n")
		if m.streaming != "" {
			// Partial text renders as plain text; markdown needs the
			// whole message to render stably.
			b.WriteString(m.streaming)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage renders one committed message. Assistant messages go
// through the markdown renderer.
func (m Model) renderMessage(msg session.ChatMessage) string {
	if msg.Role == session.RoleUser {
		return userLabelStyle.Render("You") + "\n" + msg.Text + "\n"
	}

	body := msg.Text
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.Text); err == nil {
			body = strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	return assistantLabelStyle.Render("Saldo") + "\n" + body
}

// emptyView shows the greeting and quick message suggestions.
func (m Model) emptyView() string {
	var b strings.Builder
	b.WriteString("\n")
	if profile, ok := m.users.Get(); ok {
		b.WriteString(titleStyle.Render(fmt.Sprintf(" %s, %s!", timeGreeting(time.Now()), profile.Name)))
	} else {
		b.WriteString(titleStyle.Render(" Welcome!"))
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(" What can I help you with today?"))
	b.WriteString("\n\n")

	for _, q := range m.quick {
		b.WriteString(quickTitleStyle.Render(" " + q.Title))
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("   " + q.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(" press tab to use a suggestion"))
	return b.String()
}

// =============================================================================
// HELPERS
// =============================================================================

// timeGreeting picks a greeting for the hour of day.
func timeGreeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// truncateTitle shortens a sidebar title to fit the column.
func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-1]) + "…"
}
