package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the window styles.
type Theme struct {
	Title        lipgloss.Style
	Clock        lipgloss.Style
	StatusLocked lipgloss.Style
	StatusOpen   lipgloss.Style
	StatusDenied lipgloss.Style
	RingButton   lipgloss.Style
	AcceptButton lipgloss.Style
	RejectButton lipgloss.Style
	LockButton   lipgloss.Style
	Countdown    lipgloss.Style
	Notice       lipgloss.Style
	LogLine      lipgloss.Style
	Help         lipgloss.Style
	Error        lipgloss.Style
	VideoFrame   lipgloss.Style
	NoSignal     lipgloss.Style
}

// button is the shared shape of every control.
func button(background string) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(22).
		Align(lipgloss.Center).
		Padding(0, 1).
		MarginBottom(1).
		Bold(true).
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(background))
}

// DefaultTheme mirrors the light cyan look of the doorbell panel.
//
//nolint:gochecknoglobals // Immutable default styles.
var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00838f")),
	Clock: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("#000000")).
		Padding(0, 1),
	StatusLocked: lipgloss.NewStyle().
		Bold(true).
		Width(30).
		Align(lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color("#fff3e0")),
	StatusOpen: lipgloss.NewStyle().
		Bold(true).
		Width(30).
		Align(lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		Foreground(lipgloss.Color("#1b5e20")).
		Background(lipgloss.Color("#e8f5e9")),
	StatusDenied: lipgloss.NewStyle().
		Bold(true).
		Width(30).
		Align(lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		Foreground(lipgloss.Color("#b71c1c")).
		Background(lipgloss.Color("#ffebee")),
	RingButton:   button("#81d4fa"),
	AcceptButton: button("#a5d6a7"),
	RejectButton: button("#ef9a9a"),
	LockButton:   button("#fbc02d"),
	Countdown:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#ff8f00")),
	Notice: lipgloss.NewStyle().
		Bold(true).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#00838f")),
	LogLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e")),
	Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("#757575")),
	Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("#d32f2f")),
	VideoFrame: lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
	NoSignal: lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(lipgloss.Color("#9e9e9e")),
}
