package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/smart-doorbell/internal/camera"
	domain "github.com/oshokin/smart-doorbell/internal/domain/doorbell"
	"github.com/oshokin/smart-doorbell/internal/logger"
)

// Controller is the part of the doorbell controller the window drives.
type Controller interface {
	Ring(ctx context.Context) error
	Accept(ctx context.Context) error
	Reject(ctx context.Context) error
	CloseDoor(ctx context.Context) error
	Subscribe() (<-chan *domain.Snapshot, func())
}

// FrameSource yields the newest camera frame, if any.
type FrameSource interface {
	Latest() (*camera.Frame, bool)
}

// Options configures the window.
type Options struct {
	// ClockInterval is the clock label refresh period.
	ClockInterval time.Duration
	// FrameInterval is the video panel refresh period.
	FrameInterval time.Duration
	// VideoCols and VideoRows size the video panel in terminal cells.
	VideoCols int
	VideoRows int
	// Logs optionally feeds the event log.
	Logs *LogForwarder
}

const (
	// clockLayout renders the clock as "Monday, 15/10/2026 14:03:09".
	clockLayout = "Monday, 02/01/2006 15:04:05"
	// defaultFrameInterval is the video refresh period when unset.
	defaultFrameInterval = 50 * time.Millisecond
	// defaultVideoCols is the video panel width when unset.
	defaultVideoCols = 64
	// defaultVideoRows is the video panel height when unset.
	defaultVideoRows = 18
	// eventLogSize is the number of log lines kept on screen.
	eventLogSize = 6
	// noticeFadeDelay is how long the notice banner stays.
	noticeFadeDelay = 3 * time.Second
	// windowTitle is shown above the video.
	windowTitle = "Environment Vision Guard: Your Friendly Security System"
)

// snapshotMsg delivers a published controller snapshot.
type snapshotMsg struct {
	snapshot *domain.Snapshot
}

// clockTickMsg refreshes the clock label.
type clockTickMsg time.Time

// frameTickMsg refreshes the video panel.
type frameTickMsg struct{}

// logEntryMsg delivers one forwarded log entry.
type logEntryMsg struct {
	entry logger.Entry
}

// noticeFadeMsg clears the banner unless a newer notice replaced it.
type noticeFadeMsg struct {
	version uint64
}

// commandErrorMsg reports a failed controller submission.
type commandErrorMsg struct {
	err error
}

// Model is the bubbletea model of the doorbell window.
type Model struct {
	ctx        context.Context
	controller Controller
	frames     FrameSource
	opts       Options
	keys       KeyMap
	theme      Theme

	updates     <-chan *domain.Snapshot
	unsubscribe func()

	snapshot      *domain.Snapshot
	frame         *camera.Frame
	now           time.Time
	notice        string
	noticeVersion uint64
	events        []string
	lastError     error
	quitting      bool
}

// NewModel subscribes to the controller and builds the window model.
// Call Close once the program has exited.
func NewModel(ctx context.Context, controller Controller, frames FrameSource, opts Options) *Model {
	if opts.ClockInterval <= 0 {
		opts.ClockInterval = time.Second
	}

	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}

	if opts.VideoCols <= 0 {
		opts.VideoCols = defaultVideoCols
	}

	if opts.VideoRows <= 0 {
		opts.VideoRows = defaultVideoRows
	}

	updates, unsubscribe := controller.Subscribe()

	return &Model{
		ctx:         ctx,
		controller:  controller,
		frames:      frames,
		opts:        opts,
		keys:        DefaultKeyMap,
		theme:       DefaultTheme,
		updates:     updates,
		unsubscribe: unsubscribe,
		snapshot:    new(domain.Snapshot),
		now:         time.Now(),
	}
}

// Close drops the controller subscription.
func (m *Model) Close() {
	m.unsubscribe()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		listenForSnapshot(m.updates),
		clockTick(m.opts.ClockInterval),
		frameTick(m.opts.FrameInterval),
	}

	if m.opts.Logs != nil {
		cmds = append(cmds, listenForLogEntry(m.opts.Logs.Entries()))
	}

	return tea.Batch(cmds...)
}

// listenForSnapshot blocks until the controller publishes a snapshot.
func listenForSnapshot(updates <-chan *domain.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return nil
		}

		return snapshotMsg{snapshot: snapshot}
	}
}

// listenForLogEntry blocks until a log entry is forwarded.
func listenForLogEntry(entries <-chan logger.Entry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-entries
		if !ok {
			return nil
		}

		return logEntryMsg{entry: entry}
	}
}

func clockTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func frameTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameTickMsg{}
	})
}

// submit runs a controller call off the event loop.
func (m *Model) submit(call func(context.Context) error) tea.Cmd {
	ctx := m.ctx

	return func() tea.Msg {
		if err := call(ctx); err != nil {
			return commandErrorMsg{err: err}
		}

		return nil
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case snapshotMsg:
		return m, m.applySnapshot(msg.snapshot)
	case clockTickMsg:
		m.now = time.Time(msg)

		return m, clockTick(m.opts.ClockInterval)
	case frameTickMsg:
		if frame, ok := m.frames.Latest(); ok {
			m.frame = frame
		}

		return m, frameTick(m.opts.FrameInterval)
	case logEntryMsg:
		m.appendEvent(msg.entry.String())

		return m, listenForLogEntry(m.opts.Logs.Entries())
	case noticeFadeMsg:
		if msg.version == m.noticeVersion {
			m.notice = ""
		}

		return m, nil
	case commandErrorMsg:
		m.lastError = msg.err

		return m, nil
	}

	return m, nil
}

// handleKey maps a key press to a controller call. Controls that are
// hidden in the current phase do nothing.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true

		return tea.Quit
	case key.Matches(msg, m.keys.Ring):
		return m.submit(m.controller.Ring)
	case key.Matches(msg, m.keys.Accept) && m.snapshot.PromptVisible():
		return m.submit(m.controller.Accept)
	case key.Matches(msg, m.keys.Reject) && m.snapshot.PromptVisible():
		return m.submit(m.controller.Reject)
	case key.Matches(msg, m.keys.Lock) && m.snapshot.LockControlVisible():
		return m.submit(m.controller.CloseDoor)
	default:
		return nil
	}
}

// applySnapshot stores a snapshot and raises its notice banner.
func (m *Model) applySnapshot(snapshot *domain.Snapshot) tea.Cmd {
	previous := m.snapshot.Version
	m.snapshot = snapshot
	m.now = time.Now()
	m.lastError = nil

	cmds := []tea.Cmd{listenForSnapshot(m.updates)}

	if snapshot.Notice != "" && snapshot.Version != previous {
		m.notice = snapshot.Notice
		m.noticeVersion = snapshot.Version

		version := snapshot.Version
		cmds = append(cmds, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
			return noticeFadeMsg{version: version}
		}))
	}

	return tea.Batch(cmds...)
}

func (m *Model) appendEvent(line string) {
	m.events = append(m.events, line)
	if len(m.events) > eventLogSize {
		m.events = m.events[len(m.events)-eventLogSize:]
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	left := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.Title.Render(windowTitle),
		m.viewVideo(),
		m.theme.Clock.Render(m.now.Format(clockLayout)),
		m.viewStatus(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.viewControls())

	sections := []string{body}

	if m.notice != "" {
		sections = append(sections, m.theme.Notice.Render(m.notice))
	}

	for _, line := range m.events {
		sections = append(sections, m.theme.LogLine.Render(line))
	}

	if m.lastError != nil {
		sections = append(sections, m.theme.Error.Render(m.lastError.Error()))
	}

	sections = append(sections, m.viewHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) viewVideo() string {
	if m.frame == nil {
		return m.theme.VideoFrame.Render(
			m.theme.NoSignal.Width(m.opts.VideoCols).Height(m.opts.VideoRows).Render("No signal"))
	}

	return m.theme.VideoFrame.Render(renderFrame(m.frame, m.opts.VideoCols, m.opts.VideoRows))
}

func (m *Model) viewStatus() string {
	status := m.snapshot.Status

	style := m.theme.StatusLocked

	switch status {
	case domain.StatusUnlocked:
		style = m.theme.StatusOpen
	case domain.StatusAccessDenied, domain.StatusNoResponse:
		style = m.theme.StatusDenied
	case domain.StatusLocked:
	}

	return style.Render(status.Text())
}

func (m *Model) viewControls() string {
	controls := []string{m.theme.RingButton.Render("[r] Ring Doorbell")}

	if m.snapshot.PromptVisible() {
		controls = append(controls,
			m.theme.AcceptButton.Render("[a] Accept"),
			m.theme.RejectButton.Render("[x] Reject"),
			m.theme.Countdown.Render(fmt.Sprintf("Auto-reject in %ds", countdownSeconds(m.snapshot, m.now))),
		)
	}

	if m.snapshot.LockControlVisible() {
		controls = append(controls, m.theme.LockButton.Render("[l] Lock Door"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, controls...)
}

// countdownSeconds rounds the remaining decision time up to whole seconds.
func countdownSeconds(snapshot *domain.Snapshot, now time.Time) int {
	remaining := snapshot.Remaining(now)

	return int((remaining + time.Second - 1) / time.Second)
}

func (m *Model) viewHelp() string {
	bindings := []key.Binding{m.keys.Ring}

	if m.snapshot.PromptVisible() {
		bindings = append(bindings, m.keys.Accept, m.keys.Reject)
	}

	if m.snapshot.LockControlVisible() {
		bindings = append(bindings, m.keys.Lock)
	}

	bindings = append(bindings, m.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}

	return m.theme.Help.Render(strings.Join(parts, " • "))
}
