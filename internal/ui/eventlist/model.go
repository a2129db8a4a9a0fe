package eventlist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eventdeck/internal/keys"
	"eventdeck/internal/model"
	"eventdeck/internal/store"
	"eventdeck/internal/theme"
)

// EventsLoadedMsg is sent when the saved-events cache has been
// refreshed (or the refresh failed and the old snapshot is shown).
type EventsLoadedMsg struct {
	Events []model.Event
	Err    error
}

// SelectedEventMsg is sent when the user opens an event's detail.
type SelectedEventMsg struct {
	EventID int64
}

// Model is the saved-events list view.
type Model struct {
	list   list.Model
	store  *store.SavedEvents
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new saved-events list model.
func New(s *store.SavedEvents, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Saved Events"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial set of events.
func (m Model) Init() tea.Cmd {
	return m.LoadEvents()
}

// Update handles messages for the saved-events list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventsLoadedMsg:
		items := make([]list.Item, len(msg.Events))
		for i, ev := range msg.Events {
			items[i] = EventItem{Event: ev}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(EventItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedEventMsg{EventID: item.Event.ID}
			}

		case key.Matches(msg, m.keys.Remove):
			item, ok := m.list.SelectedItem().(EventItem)
			if !ok {
				return m, nil
			}
			return m, m.RemoveEvent(item.Event.ID)

		case key.Matches(msg, m.keys.Refresh):
			return m, m.LoadEvents()
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the saved-events list.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no events are saved.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(
		"You don't have any saved events yet.\n\n" +
			"Press 'a' to add an event from a link.",
	)
}

// LoadEvents returns a tea.Cmd that refreshes the saved-events cache.
// When the refresh fails the previous snapshot is shown instead.
func (m Model) LoadEvents() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		events, err := s.Refresh(context.Background())
		if err != nil {
			return EventsLoadedMsg{Events: s.Events(), Err: err}
		}
		return EventsLoadedMsg{Events: events}
	}
}

// RemoveEvent returns a tea.Cmd that deletes a saved event and
// resynchronizes the cache.
func (m Model) RemoveEvent(eventID int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		events, err := s.Remove(context.Background(), eventID)
		if err != nil {
			return EventsLoadedMsg{Events: s.Events(), Err: err}
		}
		return EventsLoadedMsg{Events: events}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
