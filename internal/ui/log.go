package ui

import "github.com/oshokin/smart-doorbell/internal/logger"

// logBufferSize bounds the number of log entries waiting for the window.
const logBufferSize = 64

// LogForwarder hands log entries to the window's event log.
// Forward never blocks; entries are dropped while the window is behind.
type LogForwarder struct {
	entries chan logger.Entry
}

// NewLogForwarder creates a forwarder for logger.WithForwarder.
func NewLogForwarder() *LogForwarder {
	return &LogForwarder{
		entries: make(chan logger.Entry, logBufferSize),
	}
}

// Forward queues an entry for display.
func (f *LogForwarder) Forward(entry logger.Entry) {
	select {
	case f.entries <- entry:
	default:
	}
}

// Entries is drained by the window model.
func (f *LogForwarder) Entries() <-chan logger.Entry {
	return f.entries
}
