package detail

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eventdeck/internal/keys"
	"eventdeck/internal/model"
	"eventdeck/internal/theme"
)

// BackMsg signals the parent to dismiss the detail view.
type BackMsg struct{}

// Model is the event detail view component.
type Model struct {
	event    *model.Event
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetEvent loads an event into the view.
func (m *Model) SetEvent(ev model.Event) {
	m.event = &ev
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.event == nil {
		return theme.DimmedStyle.Render("Nothing selected.")
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(m.viewport.View())
}

// renderContent builds the full event detail text.
func (m Model) renderContent() string {
	ev := m.event

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	labelStyle := theme.DimmedStyle

	lines := []string{
		titleStyle.Render(ev.Title),
		"",
	}

	if ev.HasStart() {
		lines = append(lines,
			labelStyle.Render("When   ")+
				ev.StartTime.Local().Format("Monday, Jan 2 2006 at 15:04"))
	} else {
		lines = append(lines, labelStyle.Render("When   ")+"date unknown")
	}

	if venue := ev.VenueLine(); venue != "" {
		lines = append(lines, labelStyle.Render("Where  ")+venue)
	}

	lines = append(lines, labelStyle.Render("Link   ")+ev.URL)

	if ev.ImageURL != "" {
		lines = append(lines, labelStyle.Render("Image  ")+ev.ImageURL)
	}

	return strings.Join(lines, "\n")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 8
	m.viewport.Height = height - 4
	if m.event != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
