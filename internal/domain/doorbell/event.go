package doorbell

// EventKind enumerates the inputs the controller reacts to.
type EventKind int

const (
	// EventRing is a visitor pressing the doorbell.
	EventRing EventKind = iota
	// EventAccept is the owner letting the visitor in.
	EventAccept
	// EventReject is the owner refusing entry.
	EventReject
	// EventTimeout is the decision window elapsing.
	EventTimeout
	// EventCloseDoor is the owner locking the door again.
	EventCloseDoor
	// EventRevertDisplay resets a denial message back to "locked".
	EventRevertDisplay
)

func (k EventKind) String() string {
	switch k {
	case EventRing:
		return "ring"
	case EventAccept:
		return "accept"
	case EventReject:
		return "reject"
	case EventTimeout:
		return "timeout"
	case EventCloseDoor:
		return "close-door"
	case EventRevertDisplay:
		return "revert-display"
	default:
		return "unknown"
	}
}

// ParseEventKind maps user-facing command names to the events a person
// may submit. Timer events are not parsable.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "ring":
		return EventRing, true
	case "accept":
		return EventAccept, true
	case "reject":
		return EventReject, true
	case "close", "close-door", "lock":
		return EventCloseDoor, true
	default:
		return 0, false
	}
}

// Event is one item on the controller queue.
type Event struct {
	// Kind is the event type.
	Kind EventKind
	// VisitID ties timer events to the ring that scheduled them.
	VisitID string
	// Generation ties display reverts to the transition that scheduled them.
	Generation uint64
}
