package ui

import (
	"context"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/smart-doorbell/internal/camera"
	domain "github.com/oshokin/smart-doorbell/internal/domain/doorbell"
	"github.com/oshokin/smart-doorbell/internal/logger"
)

// fakeController records submitted events.
type fakeController struct {
	mu      sync.Mutex
	calls   []domain.EventKind
	updates chan *domain.Snapshot
}

func newFakeController() *fakeController {
	return &fakeController{updates: make(chan *domain.Snapshot, 1)}
}

func (f *fakeController) record(kind domain.EventKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, kind)

	return nil
}

func (f *fakeController) Ring(context.Context) error { return f.record(domain.EventRing) }

func (f *fakeController) Accept(context.Context) error { return f.record(domain.EventAccept) }

func (f *fakeController) Reject(context.Context) error { return f.record(domain.EventReject) }

func (f *fakeController) CloseDoor(context.Context) error { return f.record(domain.EventCloseDoor) }

func (f *fakeController) Subscribe() (<-chan *domain.Snapshot, func()) {
	return f.updates, func() {}
}

func (f *fakeController) recorded() []domain.EventKind {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]domain.EventKind(nil), f.calls...)
}

// staticFrames always returns the same frame.
type staticFrames struct {
	frame *camera.Frame
}

func (s staticFrames) Latest() (*camera.Frame, bool) {
	return s.frame, s.frame != nil
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press sends a key and runs the resulting command, if any.
func press(t *testing.T, m *Model, r rune) tea.Msg {
	t.Helper()

	_, cmd := m.Update(keyPress(r))
	if cmd == nil {
		return nil
	}

	return cmd()
}

func newTestModel(controller *fakeController, frames FrameSource) *Model {
	return NewModel(context.Background(), controller, frames, Options{
		ClockInterval: time.Second,
		VideoCols:     8,
		VideoRows:     4,
	})
}

// TestModel_KeysFollowVisibleControls checks hidden controls ignore their keys.
func TestModel_KeysFollowVisibleControls(t *testing.T) {
	t.Parallel()

	controller := newFakeController()
	m := newTestModel(controller, staticFrames{})

	// Idle: only ring works.
	press(t, m, 'a')
	press(t, m, 'x')
	press(t, m, 'l')
	press(t, m, 'r')
	require.Equal(t, []domain.EventKind{domain.EventRing}, controller.recorded())

	// Awaiting a decision: accept and reject work.
	m.Update(snapshotMsg{snapshot: &domain.Snapshot{
		Phase:       domain.PhaseAwaitingDecision,
		PendingRing: true,
		Version:     1,
	}})
	press(t, m, 'a')
	press(t, m, 'x')
	press(t, m, 'l')
	require.Equal(t, []domain.EventKind{
		domain.EventRing,
		domain.EventAccept,
		domain.EventReject,
	}, controller.recorded())

	// Unlocked: lock works.
	m.Update(snapshotMsg{snapshot: &domain.Snapshot{
		Phase:   domain.PhaseUnlocked,
		Lock:    domain.LockUnlocked,
		Status:  domain.StatusUnlocked,
		Version: 2,
	}})
	press(t, m, 'l')
	require.Equal(t, domain.EventCloseDoor, controller.recorded()[3])
}

// TestModel_ViewShowsPromptAndCountdown renders the awaiting-decision layout.
func TestModel_ViewShowsPromptAndCountdown(t *testing.T) {
	t.Parallel()

	m := newTestModel(newFakeController(), staticFrames{})

	view := m.View()
	require.Contains(t, view, "Door Locked")
	require.Contains(t, view, "Ring Doorbell")
	require.Contains(t, view, "No signal")
	require.NotContains(t, view, "Accept")

	now := time.Now()

	m.Update(snapshotMsg{snapshot: &domain.Snapshot{
		Phase:       domain.PhaseAwaitingDecision,
		PendingRing: true,
		Deadline:    now.Add(30 * time.Second),
		Version:     1,
	}})
	m.Update(clockTickMsg(now.Add(5 * time.Second)))

	view = m.View()
	require.Contains(t, view, "[a] Accept")
	require.Contains(t, view, "[x] Reject")
	require.Contains(t, view, "Auto-reject in 25s")
	require.NotContains(t, view, "Lock Door")
}

// TestModel_NoticeFades checks the banner appears once and fades by version.
func TestModel_NoticeFades(t *testing.T) {
	t.Parallel()

	m := newTestModel(newFakeController(), staticFrames{})

	m.Update(snapshotMsg{snapshot: &domain.Snapshot{
		Phase:   domain.PhaseUnlocked,
		Lock:    domain.LockUnlocked,
		Status:  domain.StatusUnlocked,
		Notice:  "Door Unlocked!",
		Version: 3,
	}})
	require.Contains(t, m.View(), "Door Unlocked!")
	require.Contains(t, m.View(), "Lock Door")

	// A stale fade keeps the banner.
	m.Update(noticeFadeMsg{version: 2})
	require.Contains(t, m.View(), "Door Unlocked!")

	m.Update(noticeFadeMsg{version: 3})
	require.NotContains(t, m.View(), "Door Unlocked!")
	require.Contains(t, m.View(), "Door Unlocked")
}

// TestModel_FrameAndLog verifies the video panel and event log refresh.
func TestModel_FrameAndLog(t *testing.T) {
	t.Parallel()

	frame := &camera.Frame{Image: image.NewRGBA(image.Rect(0, 0, 8, 8))}
	logs := NewLogForwarder()

	m := NewModel(context.Background(), newFakeController(), staticFrames{frame: frame}, Options{
		VideoCols: 8,
		VideoRows: 4,
		Logs:      logs,
	})

	_, cmd := m.Update(frameTickMsg{})
	require.NotNil(t, cmd)
	require.NotContains(t, m.View(), "No signal")

	for i := range eventLogSize + 2 {
		m.Update(logEntryMsg{entry: logger.Entry{Message: strings.Repeat("x", i+1)}})
	}

	require.Len(t, m.events, eventLogSize)
	require.Equal(t, strings.Repeat("x", eventLogSize+2), m.events[eventLogSize-1])
}

// TestModel_Quit returns tea.Quit and blanks the view.
func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m := newTestModel(newFakeController(), staticFrames{})

	msg := press(t, m, 'q')
	require.IsType(t, tea.QuitMsg{}, msg)
	require.Empty(t, m.View())
}

// TestRenderFrame checks the half-block grid dimensions.
func TestRenderFrame(t *testing.T) {
	t.Parallel()

	frame := &camera.Frame{Image: image.NewRGBA(image.Rect(0, 0, 16, 8))}

	rendered := renderFrame(frame, 10, 3)
	lines := strings.Split(rendered, "\n")

	require.Len(t, lines, 3)
	require.Equal(t, 10, strings.Count(lines[0], upperHalfBlock))
	require.Empty(t, renderFrame(nil, 10, 3))
}

// TestLogForwarder_DropsWhenFull ensures Forward never blocks.
func TestLogForwarder_DropsWhenFull(t *testing.T) {
	t.Parallel()

	f := NewLogForwarder()
	for range logBufferSize * 2 {
		f.Forward(logger.Entry{Message: "ring"})
	}

	require.Len(t, f.Entries(), logBufferSize)
}
