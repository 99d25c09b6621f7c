package camera

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/oshokin/smart-doorbell/internal/config"
)

// Frame is a single decoded video frame.
type Frame struct {
	// Seq is the monotonic sequence number within one opened source.
	Seq uint64
	// Timestamp is when the frame was produced.
	Timestamp time.Time
	// Image holds the RGBA pixels.
	Image *image.RGBA
	// Source names the producing source.
	Source string
	// TraceID uniquely identifies the frame.
	TraceID string
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.Image.Bounds().Dx()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.Image.Bounds().Dy()
}

// Source produces frames. Implementations need not be safe for concurrent Read.
type Source interface {
	// Read returns the next frame or an error when none is available right now.
	Read() (*Frame, error)
	// Close releases the device. Reads after Close fail with ErrClosed.
	Close() error
	// Name describes the source for logs.
	Name() string
}

var (
	// ErrClosed is returned by Read after Close.
	ErrClosed = errors.New("camera source is closed")
	// ErrNoFrames is returned when a source has nothing to show.
	ErrNoFrames = errors.New("camera source has no frames")
	// ErrUnknownSource is returned by Open for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown camera source")
)

// Open builds the source selected by the settings.
// Every successful Open must be paired with Close.
//
//nolint:ireturn // Callers only need the Source behaviour.
func Open(settings config.Camera) (Source, error) {
	switch settings.Source {
	case config.SourceSynthetic, "":
		return NewSynthetic(settings.Width, settings.Height), nil
	case config.SourceImages:
		source, err := NewImageDir(settings.Path, settings.Width, settings.Height)
		if err != nil {
			return nil, fmt.Errorf("open image directory: %w", err)
		}

		return source, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, settings.Source)
	}
}
