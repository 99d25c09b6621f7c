package doorbell

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/smart-doorbell/internal/config"
	domain "github.com/oshokin/smart-doorbell/internal/domain/doorbell"
	"github.com/oshokin/smart-doorbell/internal/logger"
)

// Options controls controller timings.
type Options struct {
	// DecisionTimeout is how long a ring waits for accept or reject.
	DecisionTimeout time.Duration
	// RevertDelay is how long a denial message stays before reverting to "locked".
	RevertDelay time.Duration
	// QueueSize is the capacity of the event queue.
	QueueSize int
}

// defaultQueueSize is the event queue capacity when Options leaves it unset.
const defaultQueueSize = 16

var (
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("controller is already running")
	// ErrStopped is returned when an event is submitted after Run returned.
	ErrStopped = errors.New("controller is stopped")
	// errNotUserEvent is returned when a timer-only event is submitted from outside.
	errNotUserEvent = errors.New("event cannot be submitted by a user")
)

// Controller is the doorbell state machine.
type Controller struct {
	// opts holds the effective timings.
	opts Options
	// events is the single-consumer queue drained by Run.
	events chan domain.Event
	// done is closed when Run returns.
	done chan struct{}
	// started guards against a second Run.
	started atomic.Bool

	// The fields below are owned by the Run goroutine.

	// phase is the controller state.
	phase domain.Phase
	// lock is the door lock state.
	lock domain.LockState
	// status is the status region content.
	status domain.Status
	// pendingRing is true between a ring and its resolution.
	pendingRing bool
	// visitID identifies the pending ring.
	visitID string
	// deadline is when the pending ring times out.
	deadline time.Time
	// pendingTimer fires the decision timeout; nil unless pendingRing.
	pendingTimer *time.Timer
	// revertTimer fires the display revert after a denial.
	revertTimer *time.Timer
	// generation counts applied transitions.
	generation uint64
	// notice is the banner message of the latest transition.
	notice string
	// last is the most recent applied transition.
	last *domain.Transition

	// mu guards snapshot and armed.
	mu sync.RWMutex
	// snapshot is the latest published state.
	snapshot *domain.Snapshot
	// armed is the number of outstanding decision timers.
	armed int

	// subMu guards subscribers and closed.
	subMu sync.Mutex
	// subscribers receive every published snapshot, latest wins.
	subscribers map[int]chan *domain.Snapshot
	// nextSubscriber is the key of the next subscription.
	nextSubscriber int
	// closed is set once Run has returned.
	closed bool
}

// New creates a controller with the door locked and no ring pending.
func New(opts Options) *Controller {
	if opts.DecisionTimeout <= 0 {
		opts.DecisionTimeout = config.DefaultDecisionTimeout
	}

	if opts.RevertDelay <= 0 {
		opts.RevertDelay = config.DefaultRevertDelay
	}

	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	c := &Controller{
		opts:        opts,
		events:      make(chan domain.Event, opts.QueueSize),
		done:        make(chan struct{}),
		phase:       domain.PhaseIdle,
		lock:        domain.LockLocked,
		status:      domain.StatusLocked,
		subscribers: make(map[int]chan *domain.Snapshot),
	}
	c.snapshot = c.buildSnapshot(0)

	return c
}

// Run drains the event queue until ctx is canceled.
// Outstanding timers are stopped before it returns.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx = logger.WithName(ctx, "doorbell")

	defer c.shutdown(ctx)

	logger.InfoKV(ctx, "Doorbell controller started",
		"decision_timeout", c.opts.DecisionTimeout,
		"revert_delay", c.opts.RevertDelay)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-c.events:
			c.handle(ctx, event)
		}
	}
}

// Ring submits a doorbell press.
func (c *Controller) Ring(ctx context.Context) error {
	return c.Submit(ctx, domain.EventRing)
}

// Accept submits the owner's approval.
func (c *Controller) Accept(ctx context.Context) error {
	return c.Submit(ctx, domain.EventAccept)
}

// Reject submits the owner's refusal.
func (c *Controller) Reject(ctx context.Context) error {
	return c.Submit(ctx, domain.EventReject)
}

// CloseDoor submits the owner locking the door again.
func (c *Controller) CloseDoor(ctx context.Context) error {
	return c.Submit(ctx, domain.EventCloseDoor)
}

// Submit enqueues a user event. It blocks while the queue is full.
func (c *Controller) Submit(ctx context.Context, kind domain.EventKind) error {
	switch kind {
	case domain.EventRing, domain.EventAccept, domain.EventReject, domain.EventCloseDoor:
	default:
		return errNotUserEvent
	}

	select {
	case <-c.done:
		return ErrStopped
	default:
	}

	select {
	case c.events <- domain.Event{Kind: kind}:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the latest published state.
func (c *Controller) Snapshot() *domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot.Clone()
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Subscribe returns a channel receiving every published snapshot, starting
// with the current one. A slow reader only misses intermediate snapshots.
// The channel is closed by the returned cancel func or when Run returns.
func (c *Controller) Subscribe() (<-chan *domain.Snapshot, func()) {
	ch := make(chan *domain.Snapshot, 1)

	// Reading the first value under subMu means a concurrent publish either
	// stored it already or sends its own afterwards.
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ch <- c.Snapshot()

	if c.closed {
		close(ch)

		return ch, func() {}
	}

	id := c.nextSubscriber
	c.nextSubscriber++
	c.subscribers[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()

			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// post delivers a timer event to the queue unless the controller has stopped.
func (c *Controller) post(event domain.Event) {
	select {
	case c.events <- event:
	case <-c.done:
	}
}

// newVisitID identifies a ring.
func newVisitID() string {
	return uuid.NewString()
}

// shutdown stops timers, closes subscriptions and marks the controller done.
func (c *Controller) shutdown(ctx context.Context) {
	c.cancelDecisionTimer()

	if c.revertTimer != nil {
		c.revertTimer.Stop()
		c.revertTimer = nil
	}

	close(c.done)

	c.subMu.Lock()
	defer c.subMu.Unlock()

	c.closed = true

	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}

	logger.Info(ctx, "Doorbell controller stopped")
}

// buildSnapshot renders the Run-owned fields into a Snapshot.
func (c *Controller) buildSnapshot(version uint64) *domain.Snapshot {
	var deadline time.Time
	if c.pendingRing {
		deadline = c.deadline
	}

	return &domain.Snapshot{
		Phase:          c.phase,
		Lock:           c.lock,
		Status:         c.status,
		PendingRing:    c.pendingRing,
		VisitID:        c.visitID,
		Deadline:       deadline,
		Notice:         c.notice,
		LastTransition: c.last,
		Version:        version,
	}
}

// publish stores a fresh snapshot and fans it out to subscribers.
func (c *Controller) publish() {
	c.mu.Lock()
	snapshot := c.buildSnapshot(c.snapshot.Version + 1)
	c.snapshot = snapshot

	if c.pendingTimer != nil {
		c.armed = 1
	} else {
		c.armed = 0
	}
	c.mu.Unlock()

	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subscribers {
		// Drop the stale snapshot if the reader has not taken it yet.
		select {
		case <-ch:
		default:
		}

		ch <- snapshot.Clone()
	}
}

// armedTimers reports the number of outstanding decision timers.
func (c *Controller) armedTimers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.armed
}
