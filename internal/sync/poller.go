// Package sync keeps the header's unread-notification badge current by
// re-fetching the notification list on an interval. The poller is
// read-only: it never marks anything read, it only reports the derived
// unread count to the UI.
package sync

import (
	"context"
	"errors"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"eventdeck/internal/notify"
	"eventdeck/internal/session"
)

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 30 * time.Second

// UnreadCountMsg is a tea.Msg carrying the current unread count.
type UnreadCountMsg struct {
	Count int
}

// Poller periodically refreshes the notification cache and reports the
// unread count.
type Poller struct {
	center   *notify.Center
	interval time.Duration
	logger   *slog.Logger

	resultCh  chan int
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller for the given notification center.
func New(center *notify.Center, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Poller{
		center:    center,
		interval:  interval,
		logger:    logger,
		resultCh:  make(chan int, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a subscription
// command that waits for the first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.WaitForNextResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate poll outside the regular interval,
// e.g. right after login.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Channel full; a poll is already pending
	}
}

// WaitForNextResult returns a tea.Cmd that blocks until the next poll
// result and delivers it as an UnreadCountMsg. The app re-subscribes
// after each message, following the Bubble Tea subscription pattern.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case count := <-p.resultCh:
			return UnreadCountMsg{Count: count}
		case <-p.stopCh:
			return nil
		}
	}
}

// loop runs the polling loop until Stop is called.
func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial fetch immediately.
	p.poll()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.poll()
		case <-p.triggerCh:
			p.poll()
		}
	}
}

// poll performs a single refresh and publishes the unread count.
// Auth-related failures are expected while logged out and are skipped
// silently; the next successful login triggers a Refresh.
func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	count, err := p.center.RefreshCount(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrAuthRequired) {
			p.logger.Warn("notification poll failed", "error", err)
		}
		return
	}

	select {
	case p.resultCh <- count:
	default:
		// Drop when the UI is not keeping up; counts are not cumulative
	}
}
