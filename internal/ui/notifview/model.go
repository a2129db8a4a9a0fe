// Package notifview renders the notification surface. Opening it is
// what triggers the fetch-and-mark-read reconciliation in the
// notification center.
package notifview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eventdeck/internal/api"
	"eventdeck/internal/keys"
	"eventdeck/internal/model"
	"eventdeck/internal/notify"
	"eventdeck/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// OpenedMsg carries the freshly fetched notification snapshot. Err is
// set when the fetch failed; unread items in the snapshot have already
// been stamped read by the center.
type OpenedMsg struct {
	Notifications []model.Notification
	Err           error
}

// Model is the notifications view.
type Model struct {
	center        *notify.Center
	keys          *keys.KeyMap
	viewport      viewport.Model
	notifications []model.Notification
	loading       bool
	errMsg        string
	width         int
	height        int
}

// New creates a new notifications view model.
func New(center *notify.Center, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)

	return Model{
		center:   center,
		keys:     k,
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Open returns the command that fetches notifications and reconciles
// their read state. Closing and reopening re-fetches from scratch.
func (m *Model) Open() tea.Cmd {
	m.loading = true
	m.errMsg = ""

	center := m.center
	return func() tea.Msg {
		notifications, err := center.Open(context.Background())
		return OpenedMsg{Notifications: notifications, Err: err}
	}
}

// Update handles messages for the notifications view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err)
			return m, nil
		}
		m.notifications = msg.Notifications
		m.viewport.SetContent(m.renderList())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the notifications view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	title := titleStyle.Render("Notifications")

	switch {
	case m.loading:
		return lipgloss.JoinVertical(lipgloss.Left, title,
			theme.DimmedStyle.Render("Loading notifications..."))
	case m.errMsg != "":
		return lipgloss.JoinVertical(lipgloss.Left, title,
			theme.ErrorTextStyle.Render(m.errMsg))
	case len(m.notifications) == 0:
		return lipgloss.JoinVertical(lipgloss.Left, title,
			theme.DimmedStyle.Render("You don't have any notifications yet."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View())
}

// renderList builds the notification list content.
func (m Model) renderList() string {
	var out string
	for i, n := range m.notifications {
		if i > 0 {
			out += "\n"
		}
		out += m.renderItem(n)
	}
	return out
}

// renderItem draws a single notification block.
func (m Model) renderItem(n model.Notification) string {
	typeBadge := theme.NotificationTypeStyle(n.Type).Render(n.TypeLabel())
	when := theme.DimmedStyle.Render(n.CreatedAt.Local().Format("Jan 2 15:04"))

	header := fmt.Sprintf("%s  %s", typeBadge, when)
	if n.Unread() {
		header = theme.UnreadStyle.Render("● ") + header
	}

	lines := header + "\n" + n.Message
	if n.Event != nil && n.Event.Title != "" {
		lines += "\n" + theme.DimmedStyle.Render("Event: "+n.Event.Title)
	}

	return lipgloss.NewStyle().
		PaddingLeft(1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.ColorBorder).
		Render(lines) + "\n"
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if len(m.notifications) > 0 {
		m.viewport.SetContent(m.renderList())
	}
}
