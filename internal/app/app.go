// Package app is the root Bubble Tea model: view routing, layout, and
// the glue between the UI surfaces and the session, store, workflow,
// and notification components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"eventdeck/internal/api"
	"eventdeck/internal/keys"
	"eventdeck/internal/model"
	"eventdeck/internal/notify"
	"eventdeck/internal/session"
	"eventdeck/internal/store"
	appsync "eventdeck/internal/sync"
	"eventdeck/internal/ui"
	"eventdeck/internal/ui/addevent"
	"eventdeck/internal/ui/authview"
	"eventdeck/internal/ui/calendarview"
	"eventdeck/internal/ui/command"
	"eventdeck/internal/ui/detail"
	"eventdeck/internal/ui/eventlist"
	"eventdeck/internal/ui/help"
	"eventdeck/internal/ui/notifview"
	"eventdeck/internal/workflow"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewAuth ViewState = iota
	ViewList
	ViewCalendar
	ViewNotifications
	ViewAddEvent
	ViewDetail
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	ready        bool

	gate     *session.Gate
	client   *api.Client
	events   *store.SavedEvents
	center   *notify.Center
	workflow *workflow.Workflow
	poller   *appsync.Poller
	keys     *keys.KeyMap

	authView     authview.Model
	eventList    eventlist.Model
	addEvent     addevent.Model
	calendarView calendarview.Model
	notifView    notifview.Model
	detailView   detail.Model
	helpView     help.Model
	commandView  command.Model

	user        *model.User
	unreadCount int
	statusMsg   string
}

// Deps bundles the shared components the root model wires together.
type Deps struct {
	Gate         *session.Gate
	Client       *api.Client
	Events       *store.SavedEvents
	Center       *notify.Center
	Workflow     *workflow.Workflow
	PollInterval time.Duration
	Logger       *slog.Logger
}

// New creates the root application model. The entry view depends on
// whether a credential survived from a previous run.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	p := appsync.New(d.Center, d.PollInterval, d.Logger)

	view := ViewAuth
	if _, ok := d.Gate.Token(); ok {
		view = ViewList
	}

	return Model{
		currentView:  view,
		gate:         d.Gate,
		client:       d.Client,
		events:       d.Events,
		center:       d.Center,
		workflow:     d.Workflow,
		poller:       p,
		keys:         k,
		authView:     authview.New(d.Client, d.Gate, 80, 24),
		eventList:    eventlist.New(d.Events, k, 80, 24),
		addEvent:     addevent.New(d.Workflow, 80, 24),
		calendarView: calendarview.New(d.Events, k, 80, 24),
		notifView:    notifview.New(d.Center, k, 80, 24),
		detailView:   detail.New(k, 80, 24),
		helpView:     help.New(k, 80, 24),
		commandView:  command.New(80, 24),
	}
}

// Init starts the session fetches when already authenticated, or the
// auth form otherwise.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewList {
		return m.startSession()
	}
	return m.authView.Init()
}

// startSession kicks off the concurrent session-start fetches. Profile
// and saved events proceed independently; neither waits on the other
// and the UI tolerates either finishing first.
func (m Model) startSession() tea.Cmd {
	return tea.Batch(
		m.loadProfile(),
		m.eventList.LoadEvents(),
		m.poller.Start(),
	)
}

// userLoadedMsg carries the fetched profile.
type userLoadedMsg struct {
	user model.User
	err  error
}

// loadProfile returns a command that fetches the authenticated user.
func (m Model) loadProfile() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return userLoadedMsg{user: user, err: err}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.authView.SetSize(contentWidth, contentHeight)
		m.eventList.SetSize(contentWidth, contentHeight)
		m.addEvent.SetSize(contentWidth, contentHeight)
		m.calendarView.SetSize(contentWidth, contentHeight)
		m.notifView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case authview.AuthenticatedMsg:
		m.currentView = ViewList
		m.statusMsg = ""
		m.poller.Refresh()
		return m, m.startSession()

	case userLoadedMsg:
		if m.sessionLost(msg.err) {
			return m.routeToAuth()
		}
		if msg.err == nil {
			user := msg.user
			m.user = &user
		}
		return m, nil

	case appsync.UnreadCountMsg:
		m.unreadCount = msg.Count
		return m, m.poller.WaitForNextResult()

	case eventlist.EventsLoadedMsg:
		if m.sessionLost(msg.Err) {
			return m.routeToAuth()
		}
		if msg.Err != nil {
			m.statusMsg = api.UserMessage(msg.Err)
		}
		var cmd tea.Cmd
		m.eventList, cmd = m.eventList.Update(msg)
		return m, cmd

	case eventlist.SelectedEventMsg:
		if ev, ok := m.events.Get(msg.EventID); ok {
			m.detailView.SetEvent(ev)
			m.previousView = m.currentView
			m.currentView = ViewDetail
		}
		return m, nil

	case workflow.ScrapeResultMsg:
		m.workflow.HandleScrapeResult(msg)
		if m.sessionLost(msg.Err) {
			return m.routeToAuth()
		}
		return m, nil

	case workflow.SaveResultMsg:
		m.workflow.HandleSaveResult(msg)
		if m.sessionLost(msg.Err) {
			return m.routeToAuth()
		}
		if msg.Err == nil {
			// Commit succeeded: resynchronize the saved list and
			// return to it.
			m.currentView = ViewList
			m.statusMsg = m.workflow.Success()
			return m, m.eventList.LoadEvents()
		}
		return m, nil

	case addevent.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case calendarview.EventChosenMsg:
		m.detailView.SetEvent(msg.Event)
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, nil

	case calendarview.BackMsg:
		m.currentView = ViewList
		return m, nil

	case notifview.OpenedMsg:
		if m.sessionLost(msg.Err) {
			return m.routeToAuth()
		}
		// The batch just reconciled read state; the badge follows the
		// cache by construction.
		m.unreadCount = m.center.UnreadCount()
		var cmd tea.Cmd
		m.notifView, cmd = m.notifView.Update(msg)
		return m, cmd

	case notifview.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case command.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of sub-view
// focus. Returns handled=false to fall through to the active view.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// Text inputs own the keyboard except for ctrl+c.
	typing := m.currentView == ViewAuth ||
		m.currentView == ViewAddEvent ||
		m.currentView == ViewCommand

	switch msg.String() {
	case "ctrl+c":
		m.poller.Stop()
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewList {
			m.poller.Stop()
			return true, m, tea.Quit
		}

	case "?":
		if typing {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		if typing {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return true, m, cmd

	case "a":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewAddEvent
			m.statusMsg = ""
			cmd := m.addEvent.Start()
			return true, m, cmd
		}

	case "c":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewCalendar
			return true, m, nil
		}

	case "n":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewNotifications
			cmd := m.notifView.Open()
			return true, m, cmd
		}

	case "L":
		if m.currentView == ViewList {
			cmd := m.logout()
			return true, m, cmd
		}
	}

	return false, m, nil
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "list", "events":
		m.currentView = ViewList
		return m, nil
	case "calendar", "cal":
		m.currentView = ViewCalendar
		return m, nil
	case "notifications", "notifs":
		m.currentView = ViewNotifications
		cmd := m.notifView.Open()
		return m, cmd
	case "add", "new":
		m.currentView = ViewAddEvent
		cmd := m.addEvent.Start()
		return m, cmd
	case "refresh", "sync":
		m.poller.Refresh()
		return m, m.eventList.LoadEvents()
	case "logout":
		cmd := m.logout()
		return m, cmd
	case "help":
		m.currentView = ViewHelp
		return m, nil
	case "quit", "q":
		m.poller.Stop()
		return m, tea.Quit
	default:
		m.statusMsg = fmt.Sprintf("unknown command: %s", cmd)
		return m, nil
	}
}

// logout clears the credential and returns to the auth entry point.
func (m *Model) logout() tea.Cmd {
	m.gate.Invalidate()
	m.user = nil
	m.unreadCount = 0
	m.statusMsg = ""
	m.workflow.Cancel()
	m.currentView = ViewAuth
	return m.authView.Reset()
}

// sessionLost reports whether an operation failed because the session
// is gone, either rejected by the server or locally absent.
func (m Model) sessionLost(err error) bool {
	return api.IsSessionLost(err)
}

// routeToAuth redirects to the authentication entry point after the
// credential was invalidated.
func (m Model) routeToAuth() (tea.Model, tea.Cmd) {
	m.user = nil
	m.unreadCount = 0
	m.statusMsg = "Session expired. Please log in again."
	m.currentView = ViewAuth
	cmd := m.authView.Reset()
	return m, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewAuth:
		m.authView, cmd = m.authView.Update(msg)
	case ViewList:
		m.eventList, cmd = m.eventList.Update(msg)
	case ViewCalendar:
		m.calendarView, cmd = m.calendarView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewAddEvent:
		m.addEvent, cmd = m.addEvent.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.headerBadge())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerTitle greets the user once the profile has arrived.
func (m Model) headerTitle() string {
	if m.user != nil && m.user.Name != "" {
		return fmt.Sprintf("EventHub - Welcome, %s", m.user.Name)
	}
	return "EventHub"
}

// headerBadge shows the unread notification count.
func (m Model) headerBadge() string {
	if m.unreadCount > 0 {
		return fmt.Sprintf("[%d new]", m.unreadCount)
	}
	return ""
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewAuth:
		return m.authView.View()
	case ViewList:
		return m.eventList.View()
	case ViewCalendar:
		return m.calendarView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewAddEvent:
		return m.addEvent.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// statusLine returns the status bar content: an inline message when
// present, keyboard hints otherwise.
func (m Model) statusLine() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewAuth:
		return "enter submit | tab switch form | ctrl+c quit"
	case ViewCalendar:
		return "h/l month | arrows day | enter day events | esc back"
	case ViewNotifications:
		return "j/k scroll | esc back"
	case ViewAddEvent:
		return "enter submit | esc cancel"
	case ViewDetail:
		return "j/k scroll | esc back"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	default:
		return "q quit | ? help | a add | c calendar | n notifications | d remove | L logout"
	}
}
