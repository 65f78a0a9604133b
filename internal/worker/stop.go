package worker

import (
	"sync"
	"time"
)

// StopState is where a StopToken is in its lifecycle. It only moves forward.
type StopState int

const (
	Running StopState = iota
	StopRequested
	ForceArmed
)

func (s StopState) String() string {
	switch s {
	case Running:
		return "running"
	case StopRequested:
		return "stop_requested"
	case ForceArmed:
		return "force_armed"
	default:
		return "unknown"
	}
}

// SignalAction tells the caller what to do with an interrupt.
type SignalAction int

const (
	// ActionStop: finish the current item, then stop gracefully.
	ActionStop SignalAction = iota
	// ActionIgnore: a repeated interrupt inside the grace window.
	ActionIgnore
	// ActionForceExit: the grace window has passed; exit now.
	ActionForceExit
)

const DefaultStopGrace = 3 * time.Second

// StopToken is the cooperative cancellation flag polled by long loops.
// The first interrupt requests a stop; once the grace period has elapsed the
// token is force-armed and the next interrupt asks for an immediate exit.
// Interrupts inside the grace window are ignored.
type StopToken struct {
	mu          sync.Mutex
	state       StopState
	requestedAt time.Time
	grace       time.Duration
	done        chan struct{}

	now func() time.Time
}

func NewStopToken(grace time.Duration) *StopToken {
	if grace < 0 {
		grace = 0
	}
	return &StopToken{
		grace: grace,
		done:  make(chan struct{}),
		now:   time.Now,
	}
}

// Signal records an interrupt and returns what the caller should do.
func (t *StopToken) Signal() SignalAction {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.stateLocked() {
	case Running:
		t.requestLocked()
		return ActionStop
	case ForceArmed:
		return ActionForceExit
	default:
		return ActionIgnore
	}
}

// Stop requests a graceful stop without an interrupt, e.g. from tests or a
// limit being reached. It is idempotent.
func (t *StopToken) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Running {
		t.requestLocked()
	}
}

// Stopped reports whether a stop has been requested.
func (t *StopToken) Stopped() bool {
	if t == nil {
		return false
	}
	return t.State() != Running
}

func (t *StopToken) State() StopState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Done is closed when a stop is requested.
func (t *StopToken) Done() <-chan struct{} {
	return t.done
}

func (t *StopToken) requestLocked() {
	t.state = StopRequested
	t.requestedAt = t.now()
	close(t.done)
}

// stateLocked promotes StopRequested to ForceArmed once the grace period has
// elapsed.
func (t *StopToken) stateLocked() StopState {
	if t.state == StopRequested && !t.now().Before(t.requestedAt.Add(t.grace)) {
		t.state = ForceArmed
	}
	return t.state
}
