package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdeck/internal/api"
	"eventdeck/internal/model"
	"eventdeck/internal/session"
)

// fakeBackend counts calls and returns canned responses.
type fakeBackend struct {
	scrapeCalls int
	saveCalls   int

	scrapeEvent model.Event
	scrapeErr   error
	saveEvent   model.Event
	saveErr     error

	lastURL    string
	lastSaveID int64
}

func (f *fakeBackend) ScrapeEvent(_ context.Context, url string) (model.Event, error) {
	f.scrapeCalls++
	f.lastURL = url
	return f.scrapeEvent, f.scrapeErr
}

func (f *fakeBackend) SaveEvent(_ context.Context, eventID int64) (model.Event, error) {
	f.saveCalls++
	f.lastSaveID = eventID
	return f.saveEvent, f.saveErr
}

type fakeCreds struct {
	err error
}

func (f fakeCreds) Require() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token", nil
}

func authed() fakeCreds { return fakeCreds{} }

func loggedOut() fakeCreds { return fakeCreds{err: session.ErrAuthRequired} }

func TestSubmitURL_HappyPath(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{scrapeEvent: model.Event{ID: 7, Title: "Concert"}}
	w := New(backend, authed())

	cmd := w.SubmitURL("https://example.com/ev/7")
	require.NotNil(t, cmd)
	assert.Equal(t, StateFetching, w.State())

	w.HandleScrapeResult(cmd().(ScrapeResultMsg))

	assert.Equal(t, StatePreviewing, w.State())
	preview, ok := w.Preview()
	require.True(t, ok)
	assert.Equal(t, int64(7), preview.ID)
	assert.Equal(t, "https://example.com/ev/7", backend.lastURL)
	assert.Empty(t, w.Err())
}

func TestSubmitURL_EmptyURLFailsLocally(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	w := New(backend, authed())

	cmd := w.SubmitURL("   ")

	assert.Nil(t, cmd)
	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, "Event URL is required.", w.Err())
	assert.Zero(t, backend.scrapeCalls)
}

func TestSubmitURL_NoSessionFailsBeforeNetwork(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	w := New(backend, loggedOut())

	cmd := w.SubmitURL("https://example.com/ev/1")

	assert.Nil(t, cmd)
	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, "You must be logged in to add events.", w.Err())
	assert.Zero(t, backend.scrapeCalls)
}

func TestSubmitURL_InvalidFromFetchingAndSaving(t *testing.T) {
	t.Parallel()

	w := New(&fakeBackend{}, authed())
	require.NotNil(t, w.SubmitURL("https://example.com/a"))
	require.Equal(t, StateFetching, w.State())

	assert.Nil(t, w.SubmitURL("https://example.com/b"))
	assert.Equal(t, StateFetching, w.State())
	assert.Equal(t, "https://example.com/a", w.URL())
}

func TestSubmitURL_FromPreviewingDiscardsPreview(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{scrapeEvent: model.Event{ID: 1, Title: "First"}}
	w := New(backend, authed())

	cmd := w.SubmitURL("https://example.com/first")
	w.HandleScrapeResult(cmd().(ScrapeResultMsg))
	require.Equal(t, StatePreviewing, w.State())

	cmd = w.SubmitURL("https://example.com/second")
	require.NotNil(t, cmd)
	assert.Equal(t, StateFetching, w.State())
	_, ok := w.Preview()
	assert.False(t, ok)
}

func TestHandleScrapeResult_ServerDetailSurfacedVerbatim(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		scrapeErr: &api.RemoteError{Status: 422, Detail: "Unsupported page"},
	}
	w := New(backend, authed())

	cmd := w.SubmitURL("https://example.com/opaque")
	w.HandleScrapeResult(cmd().(ScrapeResultMsg))

	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, "Unsupported page", w.Err())
	_, ok := w.Preview()
	assert.False(t, ok)
}

func TestHandleScrapeResult_TransportErrorShowsGenericMessage(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{scrapeErr: errors.New("connection refused")}
	w := New(backend, authed())

	cmd := w.SubmitURL("https://example.com/down")
	w.HandleScrapeResult(cmd().(ScrapeResultMsg))

	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, "Something went wrong", w.Err())
}

// A submit always settles into exactly one of: previewing with a
// preview, or idle with a surfaced error.
func TestSubmitSettlesToPreviewXorError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		backend *fakeBackend
	}{
		{"success", &fakeBackend{scrapeEvent: model.Event{ID: 3}}},
		{"remote error", &fakeBackend{scrapeErr: &api.RemoteError{Status: 500}}},
		{"transport error", &fakeBackend{scrapeErr: errors.New("eof")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New(tc.backend, authed())
			cmd := w.SubmitURL("https://example.com/x")
			require.NotNil(t, cmd)
			w.HandleScrapeResult(cmd().(ScrapeResultMsg))

			_, hasPreview := w.Preview()
			hasError := w.Err() != ""
			if w.State() == StatePreviewing {
				assert.True(t, hasPreview)
				assert.False(t, hasError)
			} else {
				assert.Equal(t, StateIdle, w.State())
				assert.False(t, hasPreview)
				assert.True(t, hasError)
			}
		})
	}
}

func TestConfirmSave_NoopWithoutPreview(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	w := New(backend, authed())

	assert.Nil(t, w.ConfirmSave())
	assert.Equal(t, StateIdle, w.State())
	assert.Zero(t, backend.saveCalls)
}

func TestConfirmSave_CommitsByPreviewID(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		scrapeEvent: model.Event{ID: 42, Title: "Festival"},
		saveEvent:   model.Event{ID: 42, Title: "Festival"},
	}
	w := New(backend, authed())

	cmd := w.SubmitURL("https://example.com/fest")
	w.HandleScrapeResult(cmd().(ScrapeResultMsg))

	saveCmd := w.ConfirmSave()
	require.NotNil(t, saveCmd)
	assert.Equal(t, StateSaving, w.State())

	w.HandleSaveResult(saveCmd().(SaveResultMsg))

	assert.Equal(t, int64(42), backend.lastSaveID)
	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, "Event added to your dashboard!", w.Success())
	assert.Empty(t, w.URL())
	_, ok := w.Preview()
	assert.False(t, ok)
}

func TestHandleSaveResult_FailureKeepsPreviewForRetry(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		scrapeEvent: model.Event{ID: 9, Title: "Expo"},
		saveErr:     &api.RemoteError{Status: 500, Detail: "try again later"},
	}
	w := New(backend, authed())

	cmd := w.SubmitURL("https://example.com/expo")
	w.HandleScrapeResult(cmd().(ScrapeResultMsg))
	saveCmd := w.ConfirmSave()
	w.HandleSaveResult(saveCmd().(SaveResultMsg))

	assert.Equal(t, StatePreviewing, w.State())
	assert.Equal(t, "try again later", w.Err())
	preview, ok := w.Preview()
	require.True(t, ok)
	assert.Equal(t, int64(9), preview.ID)

	// The retry goes straight to save, no second scrape.
	backend.saveErr = nil
	saveCmd = w.ConfirmSave()
	require.NotNil(t, saveCmd)
	w.HandleSaveResult(saveCmd().(SaveResultMsg))

	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, 1, backend.scrapeCalls)
	assert.Equal(t, 2, backend.saveCalls)
}

func TestCancel_DiscardsEverything(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{scrapeEvent: model.Event{ID: 5}}
	w := New(backend, authed())
	w.OpenForm()

	cmd := w.SubmitURL("https://example.com/e")
	w.HandleScrapeResult(cmd().(ScrapeResultMsg))
	require.Equal(t, StatePreviewing, w.State())

	w.Cancel()

	assert.Equal(t, StateIdle, w.State())
	assert.False(t, w.FormOpen())
	assert.Empty(t, w.URL())
	assert.Empty(t, w.Err())
	_, ok := w.Preview()
	assert.False(t, ok)
}
