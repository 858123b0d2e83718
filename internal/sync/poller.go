// Package sync runs the background refresh loop and funnels its results
// into the Bubble Tea runtime as messages.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubtray/hubtray/internal/engine"
	"github.com/hubtray/hubtray/internal/github"
	"github.com/hubtray/hubtray/internal/model"
)

// RefreshKind distinguishes how a refresh was triggered. Background and
// soft refreshes keep locally dismissed items hidden; a manual refresh is
// the user's explicit resync and clears the suppression set.
type RefreshKind int

const (
	RefreshBackground RefreshKind = iota
	RefreshSoft
	RefreshManual
)

// IsManual reports whether this kind clears local read suppression.
func (k RefreshKind) IsManual() bool { return k == RefreshManual }

// RefreshState represents the current state of the refresh loop.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// Status holds the refresh loop's state for the header display.
type Status struct {
	State       RefreshState
	LastRefresh time.Time
	Err         error
}

// RefreshResultMsg is a tea.Msg sent when a refresh cycle completes.
type RefreshResultMsg struct {
	Kind        RefreshKind
	Groups      []model.DisplayGroup
	Alert       *engine.Alert
	UnreadCount int
	Err         error

	// AuthExpired is set when the token was rejected, so the UI can
	// route to the setup flow instead of showing a retry affordance.
	AuthExpired bool

	// From identifies the poller that produced this result. The UI drops
	// results whose poller it has already replaced or detached.
	From *Poller
}

// fetchTimeout is the maximum time allowed for a single refresh cycle.
const fetchTimeout = 30 * time.Second

// Poller drives the periodic and user-triggered refreshes of one
// notification service. Background ticks and manual triggers share the
// same refresh routine and the same in-flight gate: a refresh already in
// flight is never started again concurrently, and overlapping triggers
// are dropped, not queued.
type Poller struct {
	svc      *engine.Service
	criteria func() model.Criteria
	interval time.Duration

	resultCh  chan RefreshResultMsg
	triggerCh chan RefreshKind
	stopCh    chan struct{}

	mu       gosync.Mutex
	running  bool
	inFlight bool
	status   Status
}

// New creates a Poller over the given service. criteria is called at the
// start of each cycle so filter changes take effect on the next refresh.
func New(
	svc *engine.Service,
	criteria func() model.Criteria,
	interval time.Duration,
) *Poller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Poller{
		svc:       svc,
		criteria:  criteria,
		interval:  interval,
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan RefreshKind, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a subscription command
// that delivers RefreshResultMsg messages to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
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

// TriggerRefresh requests an immediate refresh of the given kind. The
// request is dropped when a refresh is already in flight or pending.
func (p *Poller) TriggerRefresh(kind RefreshKind) tea.Cmd {
	p.mu.Lock()
	busy := p.inFlight
	p.mu.Unlock()
	if busy {
		return nil
	}

	select {
	case p.triggerCh <- kind:
	default:
		// A trigger is already pending; drop this one.
	}
	return nil
}

// GetStatus returns the refresh loop's current status.
func (p *Poller) GetStatus() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop is the single consumer of ticks and triggers, so refreshes run to
// completion one at a time.
func (p *Poller) loop() {
	// Closing the result channel ends any remaining subscription once
	// the loop has exited; only this goroutine ever sends on it.
	defer close(p.resultCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial fetch right away so the UI is not empty for a full
	// interval.
	p.refresh(RefreshBackground)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.refresh(RefreshBackground)
		case kind := <-p.triggerCh:
			p.refresh(kind)
		}
	}
}

// refresh performs one cycle and sends the result on the result channel.
func (p *Poller) refresh(kind RefreshKind) {
	p.setInFlight(true)
	defer p.setInFlight(false)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	result, err := p.svc.Refresh(ctx, p.criteria(), kind.IsManual())
	if err != nil {
		p.setStatus(RefreshError, err)
		p.sendResult(RefreshResultMsg{
			Kind:        kind,
			Err:         err,
			AuthExpired: github.IsAuthError(err),
		})
		return
	}

	p.setStatus(RefreshIdle, nil)
	p.sendResult(RefreshResultMsg{
		Kind:        kind,
		Groups:      result.Groups,
		Alert:       result.Alert,
		UnreadCount: result.UnreadCount,
	})
}

func (p *Poller) setInFlight(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = v
	if v {
		p.status.State = RefreshRunning
	}
}

func (p *Poller) setStatus(state RefreshState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Err = err
	if state == RefreshIdle && err == nil {
		p.status.LastRefresh = time.Now()
	}
}

// sendResult sends without blocking; the poller never stalls on a slow
// consumer.
func (p *Poller) sendResult(msg RefreshResultMsg) {
	msg.From = p
	select {
	case p.resultCh <- msg:
	default:
	}
}

// waitForResult returns a tea.Cmd that waits for the next refresh result.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. Call it after processing a RefreshResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
