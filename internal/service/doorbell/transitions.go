package doorbell

import (
	"context"
	"fmt"
	"time"

	domain "github.com/oshokin/smart-doorbell/internal/domain/doorbell"
	"github.com/oshokin/smart-doorbell/internal/logger"
)

// timestampLayout renders times as "Monday, 15/10/2026 14:03:09".
const timestampLayout = "Monday, 02/01/2006 15:04:05"

// transitionKey selects a handler by current phase and incoming event.
type transitionKey struct {
	phase domain.Phase
	event domain.EventKind
}

// transitionHandler applies an event and reports whether it changed anything.
type transitionHandler func(c *Controller, ctx context.Context, event domain.Event) bool

// transitions is the phase/event dispatch table. Missing pairs are no-ops.
//
//nolint:gochecknoglobals // Immutable lookup table.
var transitions = map[transitionKey]transitionHandler{
	{domain.PhaseIdle, domain.EventRing}:                (*Controller).onRing,
	{domain.PhaseAwaitingDecision, domain.EventAccept}:  (*Controller).onAccept,
	{domain.PhaseAwaitingDecision, domain.EventReject}:  (*Controller).onReject,
	{domain.PhaseAwaitingDecision, domain.EventTimeout}: (*Controller).onTimeout,
	{domain.PhaseUnlocked, domain.EventCloseDoor}:       (*Controller).onCloseDoor,
}

// handle applies one queued event.
func (c *Controller) handle(ctx context.Context, event domain.Event) {
	if event.Kind == domain.EventRevertDisplay {
		c.onRevertDisplay(ctx, event)

		return
	}

	handler, ok := transitions[transitionKey{c.phase, event.Kind}]
	if !ok {
		logger.DebugKV(ctx, "Event ignored", "event", event.Kind, "phase", c.phase)

		return
	}

	from := c.phase

	if !handler(c, ctx, event) {
		return
	}

	c.generation++
	c.last.Seq = c.generation
	c.last.Event = event.Kind
	c.last.From = from
	c.last.To = c.phase

	c.publish()
}

// record starts a transition entry and logs it with a wall-clock stamp.
func (c *Controller) record(ctx context.Context, message string, kvs ...any) {
	now := time.Now()

	c.last = &domain.Transition{
		At:      now,
		Message: message,
	}

	stamped := fmt.Sprintf("[%s] %s", now.Format(timestampLayout), message)
	logger.InfoKV(ctx, stamped, append(kvs, "lock", c.lock, "status", c.status)...)
}

func (c *Controller) onRing(ctx context.Context, _ domain.Event) bool {
	visitID := newVisitID()

	c.phase = domain.PhaseAwaitingDecision
	c.pendingRing = true
	c.visitID = visitID
	c.deadline = time.Now().Add(c.opts.DecisionTimeout)
	c.status = domain.StatusLocked
	c.notice = ""
	c.pendingTimer = time.AfterFunc(c.opts.DecisionTimeout, func() {
		c.post(domain.Event{Kind: domain.EventTimeout, VisitID: visitID})
	})

	c.record(ctx, "Someone rang your door bell", "visit", visitID)

	return true
}

func (c *Controller) onAccept(ctx context.Context, _ domain.Event) bool {
	visitID := c.visitID

	c.resolveRing()
	c.phase = domain.PhaseUnlocked
	c.lock = domain.LockUnlocked
	c.status = domain.StatusUnlocked
	c.notice = "Door Unlocked!"

	c.record(ctx, "Door unlocked by owner", "visit", visitID)

	return true
}

func (c *Controller) onReject(ctx context.Context, _ domain.Event) bool {
	visitID := c.visitID

	c.resolveRing()
	c.phase = domain.PhaseIdle
	c.lock = domain.LockLocked
	c.status = domain.StatusAccessDenied
	c.notice = "Access Denied."
	c.scheduleRevert()

	c.record(ctx, "Door remains locked (rejected)", "visit", visitID)

	return true
}

func (c *Controller) onTimeout(ctx context.Context, event domain.Event) bool {
	// A timeout that lost the race against accept or reject, or belongs
	// to an older ring, is absorbed here.
	if !c.pendingRing || event.VisitID != c.visitID {
		logger.DebugKV(ctx, "Stale timeout ignored", "visit", event.VisitID)

		return false
	}

	visitID := c.visitID

	c.pendingTimer = nil
	c.resolveRing()
	c.phase = domain.PhaseIdle
	c.lock = domain.LockLocked
	c.status = domain.StatusNoResponse
	c.notice = ""
	c.scheduleRevert()

	c.record(ctx, "No response. Door remains locked", "visit", visitID)

	return true
}

func (c *Controller) onCloseDoor(ctx context.Context, _ domain.Event) bool {
	c.phase = domain.PhaseIdle
	c.lock = domain.LockLocked
	c.status = domain.StatusLocked
	c.notice = ""

	c.record(ctx, "Door manually closed and locked")

	return true
}

// onRevertDisplay resets a denial message unless a newer transition happened.
func (c *Controller) onRevertDisplay(ctx context.Context, event domain.Event) {
	if event.Generation != c.generation {
		return
	}

	if c.status != domain.StatusAccessDenied && c.status != domain.StatusNoResponse {
		return
	}

	c.revertTimer = nil
	c.status = domain.StatusLocked
	c.notice = ""

	logger.DebugKV(ctx, "Status reverted", "status", c.status)

	c.publish()
}

// resolveRing clears the pending ring and cancels its timer.
func (c *Controller) resolveRing() {
	c.cancelDecisionTimer()
	c.pendingRing = false
	c.visitID = ""
	c.deadline = time.Time{}
}

// cancelDecisionTimer stops the decision timer. A fire that already
// happened is dropped later by onTimeout.
func (c *Controller) cancelDecisionTimer() {
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
	}
}

// scheduleRevert arms the display revert for the transition being applied.
// It must run before handle bumps the generation.
func (c *Controller) scheduleRevert() {
	if c.revertTimer != nil {
		c.revertTimer.Stop()
	}

	generation := c.generation + 1

	c.revertTimer = time.AfterFunc(c.opts.RevertDelay, func() {
		c.post(domain.Event{Kind: domain.EventRevertDisplay, Generation: generation})
	})
}
