// Package authview is the authentication entry point: login and
// registration forms. The rest of the application is unreachable until
// a session credential exists.
package authview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"eventdeck/internal/api"
	"eventdeck/internal/session"
	"eventdeck/internal/theme"
)

// AuthenticatedMsg is dispatched once a credential has been stored and
// the session is live.
type AuthenticatedMsg struct{}

// loginResultMsg carries the outcome of a login request.
type loginResultMsg struct {
	token string
	err   error
}

// registerResultMsg carries the outcome of a registration request.
type registerResultMsg struct {
	err error
}

// mode selects which form is shown.
type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name            string
	email           string
	password        string
	confirmPassword string
}

// Model is the authentication view.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	api     *api.Client
	gate    *session.Gate
	mode    mode
	busy    bool
	errMsg  string
	notice  string
	width   int
	height  int
}

// New creates a new auth view model with the login form ready.
func New(client *api.Client, gate *session.Gate, width, height int) Model {
	m := Model{
		fb:     &formBindings{},
		api:    client,
		gate:   gate,
		width:  width,
		height: height,
	}
	m.startLogin()
	return m
}

// Init starts the current form.
func (m Model) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

// Reset rebuilds the login form from scratch, e.g. after logout or an
// expired session.
func (m *Model) Reset() tea.Cmd {
	return m.startLogin()
}

func (m *Model) startLogin() tea.Cmd {
	m.mode = modeLogin
	m.fb.password = ""
	m.fb.confirmPassword = ""
	m.errMsg = ""
	m.form = m.buildLoginForm()
	return m.form.Init()
}

func (m *Model) startRegister() tea.Cmd {
	m.mode = modeRegister
	m.fb.password = ""
	m.fb.confirmPassword = ""
	m.errMsg = ""
	m.notice = ""
	m.form = m.buildRegisterForm()
	return m.form.Init()
}

// Update handles messages for the auth view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			errMsg := api.UserMessage(msg.err)
			cmd := m.startLogin()
			m.errMsg = errMsg
			return m, cmd
		}
		if err := m.gate.Set(msg.token); err != nil {
			// The session still works for this run; persistence is
			// best effort.
			m.notice = "Signed in (credential could not be persisted)."
		}
		return m, func() tea.Msg { return AuthenticatedMsg{} }

	case registerResultMsg:
		m.busy = false
		if msg.err != nil {
			errMsg := api.UserMessage(msg.err)
			cmd := m.startRegister()
			m.errMsg = errMsg
			return m, cmd
		}
		cmd := m.startLogin()
		m.notice = "Account created. Please log in."
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "tab" && !m.busy {
			// Switch between login and registration.
			var cmd tea.Cmd
			if m.mode == modeLogin {
				cmd = m.startRegister()
			} else {
				cmd = m.startLogin()
			}
			return m, cmd
		}
	}

	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		submit := m.handleSubmit()
		return m, submit
	}
	if m.form.State == huh.StateAborted {
		// Nowhere to go back to; rebuild the form.
		var rebuild tea.Cmd
		if m.mode == modeLogin {
			rebuild = m.startLogin()
		} else {
			rebuild = m.startRegister()
		}
		return m, rebuild
	}

	return m, cmd
}

// handleSubmit fires the network request for the completed form.
func (m *Model) handleSubmit() tea.Cmd {
	m.busy = true
	m.errMsg = ""
	m.notice = ""

	client := m.api
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	if m.mode == modeLogin {
		return func() tea.Msg {
			token, err := client.Login(context.Background(), email, password)
			return loginResultMsg{token: token, err: err}
		}
	}

	name := strings.TrimSpace(m.fb.name)
	return func() tea.Msg {
		_, err := client.Register(context.Background(), name, email, password)
		return registerResultMsg{err: err}
	}
}

// View renders the auth view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "Login"
	hint := "tab switch to sign up | enter submit"
	if m.mode == modeRegister {
		title = "Sign Up"
		hint = "tab switch to login | enter submit"
	}

	var body string
	switch {
	case m.busy:
		body = theme.DimmedStyle.Render("Contacting server...")
	case m.form != nil:
		body = m.form.View()
	}

	sections := []string{
		titleStyle.Render("EventHub - " + title),
		theme.DimmedStyle.Render("Say bye to forgetting events"),
		"",
		body,
	}
	if m.errMsg != "" {
		sections = append(sections, theme.ErrorTextStyle.Render(m.errMsg))
	}
	if m.notice != "" {
		sections = append(sections, theme.SuccessTextStyle.Render(m.notice))
	}
	sections = append(sections, "", theme.HelpStyle.Render(hint))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirmPassword).
				// Local check only; a mismatch never reaches the network.
				Validate(m.validatePasswordsMatch),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) validatePasswordsMatch(s string) error {
	if s != m.fb.password {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
