package doorbell

import "time"

// LockState tells whether the door may be opened.
type LockState int

const (
	// LockLocked keeps the door shut. It is the initial state.
	LockLocked LockState = iota
	// LockUnlocked lets the visitor in.
	LockUnlocked
)

func (l LockState) String() string {
	if l == LockUnlocked {
		return "UNLOCKED"
	}

	return "LOCKED"
}

// Phase is the controller state.
type Phase int

const (
	// PhaseIdle waits for a ring.
	PhaseIdle Phase = iota
	// PhaseAwaitingDecision has a ring pending an accept or reject.
	PhaseAwaitingDecision
	// PhaseUnlocked has the door open until it is closed again.
	PhaseUnlocked
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingDecision:
		return "AWAITING_DECISION"
	case PhaseUnlocked:
		return "UNLOCKED"
	default:
		return "IDLE"
	}
}

// Status is the display-only message shown in the status region.
type Status int

const (
	// StatusLocked reads "Door Locked".
	StatusLocked Status = iota
	// StatusUnlocked reads "Door Unlocked".
	StatusUnlocked
	// StatusAccessDenied follows a reject.
	StatusAccessDenied
	// StatusNoResponse follows a decision timeout.
	StatusNoResponse
)

func (s Status) String() string {
	switch s {
	case StatusUnlocked:
		return "UNLOCKED"
	case StatusAccessDenied:
		return "ACCESS_DENIED"
	case StatusNoResponse:
		return "NO_RESPONSE"
	default:
		return "LOCKED"
	}
}

// Text returns the human-readable status line.
func (s Status) Text() string {
	switch s {
	case StatusUnlocked:
		return "Door Unlocked"
	case StatusAccessDenied:
		return "Access Denied"
	case StatusNoResponse:
		return "Access Denied (No response)"
	default:
		return "Door Locked"
	}
}

// Transition records one applied state change.
type Transition struct {
	// Seq numbers applied transitions from 1.
	Seq uint64
	// Event is what caused the change.
	Event EventKind
	// From is the phase before the change.
	From Phase
	// To is the phase after the change.
	To Phase
	// At is when the change was applied.
	At time.Time
	// Message is the log line describing the change.
	Message string
}

// Snapshot is the observable controller state at a point in time.
type Snapshot struct {
	// Phase is the controller state.
	Phase Phase
	// Lock is the door lock state.
	Lock LockState
	// Status is the status region content.
	Status Status
	// PendingRing is true while a ring waits for a decision.
	PendingRing bool
	// VisitID identifies the pending ring, empty when none.
	VisitID string
	// Deadline is when the pending ring times out, zero when none.
	Deadline time.Time
	// Notice is a one-shot message for a modal banner, e.g. "Door Unlocked!".
	Notice string
	// LastTransition is the most recent applied change, nil before the first.
	LastTransition *Transition
	// Version grows with every published change.
	Version uint64
}

// PromptVisible reports whether the accept and reject controls are shown.
func (s *Snapshot) PromptVisible() bool {
	return s.Phase == PhaseAwaitingDecision
}

// LockControlVisible reports whether the "Lock Door" control is shown.
func (s *Snapshot) LockControlVisible() bool {
	return s.Phase == PhaseUnlocked
}

// Remaining returns the time left in the decision window, zero when none.
func (s *Snapshot) Remaining(now time.Time) time.Duration {
	if !s.PendingRing || s.Deadline.IsZero() {
		return 0
	}

	left := s.Deadline.Sub(now)
	if left < 0 {
		return 0
	}

	return left
}

// Clone returns a copy of the snapshot to avoid leaking internal references.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s

	if s.LastTransition != nil {
		transition := *s.LastTransition
		cloned.LastTransition = &transition
	}

	return &cloned
}
