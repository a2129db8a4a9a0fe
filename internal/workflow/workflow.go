// Package workflow drives the two-phase "scrape then confirm" event
// acquisition flow. Scraping an arbitrary third-party page is expensive
// and unreliable, while saving by id is a trusted idempotent operation
// against the user's own collection; splitting them lets the user
// inspect and reject a bad scrape before anything is committed.
package workflow

import (
	"context"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"eventdeck/internal/api"
	"eventdeck/internal/model"
)

// State is the workflow's current phase.
type State int

const (
	// StateIdle means no scrape is running and no preview exists.
	StateIdle State = iota
	// StateFetching means a scrape request is in flight.
	StateFetching
	// StatePreviewing means a scraped preview awaits confirm/cancel.
	StatePreviewing
	// StateSaving means a save request for the preview is in flight.
	StateSaving
)

// String returns a short label for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StatePreviewing:
		return "previewing"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// Backend is the slice of the API the workflow needs.
type Backend interface {
	ScrapeEvent(ctx context.Context, url string) (model.Event, error)
	SaveEvent(ctx context.Context, eventID int64) (model.Event, error)
}

// Credentials reports whether a session is present. Checked before any
// network call so a missing credential fails locally.
type Credentials interface {
	Require() (string, error)
}

// ScrapeResultMsg is delivered when a scrape request settles.
type ScrapeResultMsg struct {
	Event model.Event
	Err   error
}

// SaveResultMsg is delivered when a save request settles.
type SaveResultMsg struct {
	Event model.Event
	Err   error
}

// Workflow is the event-acquisition state machine. At most one preview
// exists at a time; re-submitting a URL overwrites it.
//
// In-flight requests are not cancellable: if SubmitURL is called while
// an earlier scrape is still running, whichever response arrives last
// overwrites the workflow state (last-response-wins).
type Workflow struct {
	mu    sync.Mutex
	api   Backend
	creds Credentials

	state      State
	preview    *model.Event
	url        string
	formOpen   bool
	errMsg     string
	successMsg string
}

// New creates a workflow starting in StateIdle.
func New(api Backend, creds Credentials) *Workflow {
	return &Workflow{api: api, creds: creds}
}

// SubmitURL validates the URL and session, transitions to
// StateFetching, and returns the command that performs the scrape.
// Valid only from StateIdle or StatePreviewing; any existing preview
// is discarded. Returns nil when nothing was started; the reason is
// surfaced via Err.
func (w *Workflow) SubmitURL(url string) tea.Cmd {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle && w.state != StatePreviewing {
		return nil
	}

	url = strings.TrimSpace(url)
	if url == "" {
		w.errMsg = "Event URL is required."
		return nil
	}
	if _, err := w.creds.Require(); err != nil {
		w.errMsg = "You must be logged in to add events."
		return nil
	}

	w.state = StateFetching
	w.preview = nil
	w.url = url
	w.errMsg = ""
	w.successMsg = ""

	client := w.api
	return func() tea.Msg {
		event, err := client.ScrapeEvent(context.Background(), url)
		return ScrapeResultMsg{Event: event, Err: err}
	}
}

// HandleScrapeResult applies a settled scrape: StatePreviewing with
// the preview on success, or back to StateIdle with a surfaced error.
func (w *Workflow) HandleScrapeResult(msg ScrapeResultMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if msg.Err != nil {
		w.state = StateIdle
		w.preview = nil
		w.errMsg = api.UserMessage(msg.Err)
		return
	}

	event := msg.Event
	w.state = StatePreviewing
	w.preview = &event
	w.errMsg = ""
}

// ConfirmSave transitions to StateSaving and returns the command that
// commits the preview by id. A no-op (nil, no state change) when no
// preview is present.
func (w *Workflow) ConfirmSave() tea.Cmd {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePreviewing || w.preview == nil {
		return nil
	}
	if _, err := w.creds.Require(); err != nil {
		w.errMsg = "You must be logged in to save events."
		return nil
	}

	w.state = StateSaving
	w.errMsg = ""
	w.successMsg = ""

	client := w.api
	eventID := w.preview.ID
	return func() tea.Msg {
		event, err := client.SaveEvent(context.Background(), eventID)
		return SaveResultMsg{Event: event, Err: err}
	}
}

// HandleSaveResult applies a settled save. Success clears the preview
// and the input URL and closes the form; failure returns to
// StatePreviewing so the same preview can be retried without
// re-scraping. The caller is responsible for refreshing the saved
// events store on success.
func (w *Workflow) HandleSaveResult(msg SaveResultMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if msg.Err != nil {
		w.state = StatePreviewing
		w.errMsg = api.UserMessage(msg.Err)
		return
	}

	w.state = StateIdle
	w.preview = nil
	w.url = ""
	w.formOpen = false
	w.errMsg = ""
	w.successMsg = "Event added to your dashboard!"
}

// Cancel returns to StateIdle from any state, discarding the preview
// and any transient messages, and closes the form.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = StateIdle
	w.preview = nil
	w.url = ""
	w.formOpen = false
	w.errMsg = ""
	w.successMsg = ""
}

// OpenForm marks the add-event form as visible.
func (w *Workflow) OpenForm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.formOpen = true
	w.successMsg = ""
}

// FormOpen reports whether the add-event form is visible.
func (w *Workflow) FormOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.formOpen
}

// State returns the current phase.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Preview returns a copy of the current preview event, if any.
func (w *Workflow) Preview() (model.Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.preview == nil {
		return model.Event{}, false
	}
	return *w.preview, true
}

// URL returns the last submitted URL.
func (w *Workflow) URL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.url
}

// Err returns the current inline error message, if any.
func (w *Workflow) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

// Success returns the current success message, if any.
func (w *Workflow) Success() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.successMsg
}
