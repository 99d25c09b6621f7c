package logger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Entry is a flattened log record handed to a forwarding consumer.
type Entry struct {
	// Time is when the entry was written.
	Time time.Time
	// Level is the severity of the entry.
	Level zapcore.Level
	// Name is the dotted logger name, empty for the root logger.
	Name string
	// Message is the log message without fields.
	Message string
	// Fields holds the structured context rendered as "key=value" pairs, sorted by key.
	Fields []string
}

// String renders the entry as a single human-readable line.
func (e Entry) String() string {
	var b strings.Builder

	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Fields, ", "))
		b.WriteString(")")
	}

	return b.String()
}

// forwardingCore hands every enabled entry to a callback.
type forwardingCore struct {
	// level is the minimum level forwarded.
	level zapcore.LevelEnabler
	// fields are the accumulated With fields.
	fields []zapcore.Field
	// forward receives each flattened entry.
	forward func(Entry)
}

func (c *forwardingCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *forwardingCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)

	return &forwardingCore{
		level:   c.level,
		fields:  merged,
		forward: c.forward,
	}
}

//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *forwardingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

//nolint:gocritic // zapcore.Core requires ent to be passed by value.
func (c *forwardingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	encoder := zapcore.NewMapObjectEncoder()

	for _, field := range c.fields {
		field.AddTo(encoder)
	}

	for _, field := range fields {
		field.AddTo(encoder)
	}

	rendered := make([]string, 0, len(encoder.Fields))
	for key, value := range encoder.Fields {
		rendered = append(rendered, fmt.Sprintf("%s=%v", key, value))
	}

	sort.Strings(rendered)

	c.forward(Entry{
		Time:    ent.Time,
		Level:   ent.Level,
		Name:    ent.LoggerName,
		Message: ent.Message,
		Fields:  rendered,
	})

	return nil
}

func (c *forwardingCore) Sync() error {
	return nil
}

// WithForwarder is an option that tees every entry at or above level
// into forward, next to the logger's own output. forward must not block.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithForwarder(level zapcore.LevelEnabler, forward func(Entry)) zap.Option {
	return zap.WrapCore(
		func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, &forwardingCore{
				level:   level,
				forward: forward,
			})
		})
}
