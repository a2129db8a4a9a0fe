package eventlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"eventdeck/internal/model"
	"eventdeck/internal/theme"
)

// EventItem wraps a model.Event so it can be used in a bubbles/list.
type EventItem struct {
	Event model.Event
}

// FilterValue returns the string used for fuzzy filtering.
func (i EventItem) FilterValue() string { return i.Event.Title }

// Title returns the event title for the list.
func (i EventItem) Title() string { return i.Event.Title }

// Description returns a short summary line for the list.
func (i EventItem) Description() string {
	var parts []string
	if i.Event.HasStart() {
		parts = append(parts, i.Event.StartTime.Local().Format("Mon Jan 2 15:04"))
	}
	if venue := i.Event.VenueLine(); venue != "" {
		parts = append(parts, venue)
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering event rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single event line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EventItem)
	if !ok {
		return
	}

	ev := ei.Event

	dateStr := "no date"
	if ev.HasStart() {
		dateStr = ev.StartTime.Local().Format("Jan 02 15:04")
	}
	date := theme.DimmedStyle.Render(dateStr)

	venue := ""
	if v := ev.VenueLine(); v != "" {
		venue = theme.DimmedStyle.Render("  " + v)
	}

	line := fmt.Sprintf("● %s  %s%s", date, ev.Title, venue)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
