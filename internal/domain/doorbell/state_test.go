package doorbell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSnapshotClone verifies that Clone copies fields and deep-copies LastTransition.
func TestSnapshotClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Snapshot)(nil).Clone())

	s := &Snapshot{
		Phase:       PhaseAwaitingDecision,
		Lock:        LockLocked,
		PendingRing: true,
		VisitID:     "visit-1",
		LastTransition: &Transition{
			Event: EventRing,
			From:  PhaseIdle,
			To:    PhaseAwaitingDecision,
		},
	}

	c := s.Clone()
	require.Equal(t, s, c)
	require.NotSame(t, s, c)
	require.NotSame(t, s.LastTransition, c.LastTransition)
}

// TestSnapshotVisibility checks which controls each phase exposes.
func TestSnapshotVisibility(t *testing.T) {
	t.Parallel()

	cases := []struct {
		phase  Phase
		prompt bool
		lock   bool
	}{
		{PhaseIdle, false, false},
		{PhaseAwaitingDecision, true, false},
		{PhaseUnlocked, false, true},
	}

	for _, tc := range cases {
		s := Snapshot{Phase: tc.phase}
		require.Equal(t, tc.prompt, s.PromptVisible(), tc.phase.String())
		require.Equal(t, tc.lock, s.LockControlVisible(), tc.phase.String())
	}
}

// TestSnapshotRemaining checks the countdown never goes negative.
func TestSnapshotRemaining(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := Snapshot{PendingRing: true, Deadline: now.Add(12 * time.Second)}

	require.Equal(t, 12*time.Second, s.Remaining(now))
	require.Zero(t, s.Remaining(now.Add(time.Minute)))
	require.Zero(t, (&Snapshot{}).Remaining(now))
}

// TestStatusText pins the status region wording.
func TestStatusText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Door Locked", StatusLocked.Text())
	require.Equal(t, "Door Unlocked", StatusUnlocked.Text())
	require.Equal(t, "Access Denied", StatusAccessDenied.Text())
	require.Equal(t, "Access Denied (No response)", StatusNoResponse.Text())
}

// TestParseEventKind covers the user command aliases.
func TestParseEventKind(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]EventKind{
		"ring":   EventRing,
		"accept": EventAccept,
		"reject": EventReject,
		"close":  EventCloseDoor,
		"lock":   EventCloseDoor,
	} {
		got, ok := ParseEventKind(in)
		require.True(t, ok, in)
		require.Equal(t, want, got)
	}

	_, ok := ParseEventKind("timeout")
	require.False(t, ok)
}
