// Package addevent is the "add event from link" surface: a URL form,
// the scraped preview card, and the confirm/cancel actions driving the
// underlying acquisition workflow.
package addevent

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"eventdeck/internal/theme"
	"eventdeck/internal/workflow"
)

// CloseMsg is dispatched when the user leaves the add-event surface.
type CloseMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	url string
}

// Model is the add-event form view.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	workflow *workflow.Workflow
	width    int
	height   int
}

// New creates a new add-event model bound to the given workflow.
func New(w *workflow.Workflow, width, height int) Model {
	return Model{
		fb:       &formBindings{},
		workflow: w,
		width:    width,
		height:   height,
	}
}

// Start opens the form with the workflow's current URL prefilled, so
// a retried or edited submission does not start from scratch.
func (m *Model) Start() tea.Cmd {
	m.workflow.OpenForm()
	m.fb.url = m.workflow.URL()
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the add-event view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	// While a preview is shown the form is done; keys drive the
	// confirm/retry/cancel actions instead.
	switch m.workflow.State() {
	case workflow.StatePreviewing:
		return m.updatePreviewing(msg)
	case workflow.StateFetching, workflow.StateSaving:
		// Requests are not cancellable; ignore input until they settle.
		return m, nil
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		submitted := m.fb.url
		m.form = nil
		return m, m.workflow.SubmitURL(submitted)
	}
	if m.form.State == huh.StateAborted {
		m.workflow.Cancel()
		m.form = nil
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, cmd
}

// updatePreviewing handles keys while the preview card is shown.
func (m Model) updatePreviewing(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "enter", "s":
		return m, m.workflow.ConfirmSave()

	case "e":
		// Back to the form to adjust the URL; re-submission
		// overwrites the current preview.
		cmd := m.Start()
		return m, cmd

	case "esc":
		m.workflow.Cancel()
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, nil
}

// View renders the add-event surface for the current workflow state.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var body string
	switch m.workflow.State() {
	case workflow.StateFetching:
		body = theme.DimmedStyle.Render("Fetching event details...")
	case workflow.StateSaving:
		body = m.renderPreviewCard() + "\n" +
			theme.DimmedStyle.Render("Saving...")
	case workflow.StatePreviewing:
		body = m.renderPreviewCard() + "\n" +
			theme.HelpStyle.Render("enter save | e edit url | esc cancel")
	default:
		if m.form != nil {
			body = m.form.View()
		}
	}

	var notices []string
	if errMsg := m.workflow.Err(); errMsg != "" {
		notices = append(notices, theme.ErrorTextStyle.Render(errMsg))
	}
	if success := m.workflow.Success(); success != "" {
		notices = append(notices, theme.SuccessTextStyle.Render(success))
	}

	sections := []string{
		titleStyle.Render("Add an Event"),
		theme.DimmedStyle.Render("Paste a link to an event page you found online."),
		"",
		body,
	}
	sections = append(sections, notices...)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderPreviewCard renders the scraped preview awaiting confirmation.
func (m Model) renderPreviewCard() string {
	preview, ok := m.workflow.Preview()
	if !ok {
		return ""
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(preview.Title),
	}
	if preview.HasStart() {
		lines = append(lines, preview.StartTime.Local().Format("Monday, Jan 2 2006 at 15:04"))
	}
	if venue := preview.VenueLine(); venue != "" {
		lines = append(lines, venue)
	}
	lines = append(lines, theme.DimmedStyle.Render(preview.URL))

	return theme.PanelStyle.
		Width(min(m.width-6, 76)).
		Render(strings.Join(lines, "\n"))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Event URL").
				Placeholder("https://example.com/event-page").
				Value(&m.fb.url).
				Validate(validateEventURL),
		),
	).WithWidth(m.formWidth())
}

// validateEventURL is a purely local check; invalid input never
// reaches the network.
func validateEventURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Event URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter a full http(s) URL")
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}
