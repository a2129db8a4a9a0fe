// Package calendarview renders the saved events as a month calendar.
// The grid itself comes from the pure calendar package; this model only
// owns the viewed month, the selected day, and the day-expansion
// overlay.
package calendarview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"eventdeck/internal/calendar"
	"eventdeck/internal/keys"
	"eventdeck/internal/model"
	"eventdeck/internal/store"
	"eventdeck/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// EventChosenMsg is sent when the user selects an event for full
// detail. The detail is independent of the per-cell display cap.
type EventChosenMsg struct {
	Event model.Event
}

// weekdayHeaders label the grid columns, Sunday first.
var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Model is the month calendar view.
type Model struct {
	store *store.SavedEvents
	keys  *keys.KeyMap

	month       time.Time
	selectedDay int

	// dayOpen is true while the selected day's full bucket overlay is
	// shown; eventIdx is the cursor within it.
	dayOpen  bool
	eventIdx int

	width  int
	height int
}

// New creates a calendar view showing the current month.
func New(s *store.SavedEvents, k *keys.KeyMap, width, height int) Model {
	now := time.Now().Local()
	return Model{
		store:       s,
		keys:        k,
		month:       time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local),
		selectedDay: 1,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.dayOpen {
		return m.updateDayOverlay(keyMsg)
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return BackMsg{} }

	case "h":
		m.month = calendar.PrevMonth(m.month)
		m.selectedDay = 1
		return m, nil

	case "l":
		m.month = calendar.NextMonth(m.month)
		m.selectedDay = 1
		return m, nil

	case "left":
		m.moveSelection(-1)
		return m, nil

	case "right":
		m.moveSelection(1)
		return m, nil

	case "up", "k":
		m.moveSelection(-7)
		return m, nil

	case "down", "j":
		m.moveSelection(7)
		return m, nil

	case "t":
		now := time.Now().Local()
		m.month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		m.selectedDay = now.Day()
		return m, nil

	case "enter":
		if len(m.selectedDayEvents()) > 0 {
			m.dayOpen = true
			m.eventIdx = 0
		}
		return m, nil
	}

	return m, nil
}

// updateDayOverlay handles keys while the day expansion is open.
func (m Model) updateDayOverlay(msg tea.KeyMsg) (Model, tea.Cmd) {
	events := m.selectedDayEvents()

	switch msg.String() {
	case "esc":
		m.dayOpen = false
		return m, nil

	case "up", "k":
		if m.eventIdx > 0 {
			m.eventIdx--
		}
		return m, nil

	case "down", "j":
		if m.eventIdx < len(events)-1 {
			m.eventIdx++
		}
		return m, nil

	case "enter":
		if m.eventIdx < len(events) {
			chosen := events[m.eventIdx]
			m.dayOpen = false
			return m, func() tea.Msg {
				return EventChosenMsg{Event: chosen}
			}
		}
		return m, nil
	}

	return m, nil
}

// moveSelection shifts the selected day, clamped to the viewed month.
func (m *Model) moveSelection(delta int) {
	days := daysInViewedMonth(m.month)
	day := m.selectedDay + delta
	if day < 1 {
		day = 1
	}
	if day > days {
		day = days
	}
	m.selectedDay = day
}

// selectedDayEvents returns the full bucket for the selected day,
// independent of the per-cell cap.
func (m Model) selectedDayEvents() []model.Event {
	key := time.Date(
		m.month.Year(), m.month.Month(), m.selectedDay,
		0, 0, 0, 0, time.Local,
	).Format("2006-01-02")
	return calendar.DayEvents(m.store.Events(), key)
}

// View renders the calendar view.
func (m Model) View() string {
	grid := calendar.MonthGrid(m.store.Events(), m.month)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	title := titleStyle.Render(m.month.Format("January 2006"))

	monthTable := m.renderGrid(grid)

	hint := theme.HelpStyle.Render(
		"h/l month | arrows day | enter day events | t today | esc back",
	)

	sections := []string{title, monthTable, hint}
	if m.dayOpen {
		sections = append(sections, m.renderDayOverlay())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderGrid draws the 6x7 month table.
func (m Model) renderGrid(grid calendar.Grid) string {
	cellWidth := m.cellWidth()

	rows := make([][]string, 0, calendar.GridCells/7)
	for week := 0; week < calendar.GridCells/7; week++ {
		row := make([]string, 7)
		for dow := 0; dow < 7; dow++ {
			row[dow] = m.renderCell(grid.Cells[week*7+dow], cellWidth)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(weekdayHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.DimmedStyle.Align(lipgloss.Center)
			}
			return lipgloss.NewStyle().Width(cellWidth).Padding(0, 1)
		})

	return t.Render()
}

// renderCell draws one day cell: day number, up to the display cap of
// event titles, and the overflow marker.
func (m Model) renderCell(cell calendar.Cell, width int) string {
	if cell.Blank() {
		return ""
	}

	dayStyle := theme.CalendarDayStyle
	if cell.Day == m.selectedDay {
		dayStyle = theme.CalendarSelectedDayStyle
	}

	lines := []string{dayStyle.Render(fmt.Sprintf("%2d", cell.Day))}
	for _, ev := range cell.Events {
		lines = append(lines, truncate(ev.Title, width-2))
	}
	if cell.Overflow > 0 {
		lines = append(lines,
			theme.OverflowStyle.Render(fmt.Sprintf("+%d more", cell.Overflow)))
	}

	return strings.Join(lines, "\n")
}

// renderDayOverlay lists every event of the selected day.
func (m Model) renderDayOverlay() string {
	events := m.selectedDayEvents()

	date := time.Date(
		m.month.Year(), m.month.Month(), m.selectedDay,
		0, 0, 0, 0, time.Local,
	)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(date.Format("Monday, Jan 2")),
	}
	for i, ev := range events {
		line := ev.Title
		if ev.HasStart() {
			line = ev.StartTime.Local().Format("15:04") + "  " + line
		}
		if i == m.eventIdx {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines,
		theme.HelpStyle.Render("j/k select | enter detail | esc close"))

	return theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

// cellWidth splits the available width across the 7 columns.
func (m Model) cellWidth() int {
	w := (m.width - 8) / 7
	if w < 8 {
		w = 8
	}
	if w > 22 {
		w = 22
	}
	return w
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}

// SetSize updates the calendar view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// daysInViewedMonth returns the day count of the viewed month.
func daysInViewedMonth(month time.Time) int {
	return time.Date(
		month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.Local,
	).Day()
}
