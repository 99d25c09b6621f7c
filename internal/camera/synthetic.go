package camera

import (
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/google/uuid"
)

// barColors are the classic test-card bars.
//
//nolint:gochecknoglobals // Immutable palette.
var barColors = []color.RGBA{
	{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
	{R: 0xc0, G: 0xc0, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xc0, B: 0xc0, A: 0xff},
	{R: 0x00, G: 0xc0, B: 0x00, A: 0xff},
	{R: 0xc0, G: 0x00, B: 0xc0, A: 0xff},
	{R: 0xc0, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xc0, A: 0xff},
}

// visitorColor paints the square that walks across the bars.
//
//nolint:gochecknoglobals // Immutable palette.
var visitorColor = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}

// Synthetic generates scrolling colour bars with a moving square.
// Each new instance starts from the first frame.
type Synthetic struct {
	width  int
	height int

	mu     sync.Mutex
	seq    uint64
	closed bool
}

// NewSynthetic creates a synthetic source of the given size.
func NewSynthetic(width, height int) *Synthetic {
	return &Synthetic{
		width:  max(width, 1),
		height: max(height, 1),
	}
}

// Name implements Source.
func (s *Synthetic) Name() string {
	return "synthetic"
}

// Read implements Source.
func (s *Synthetic) Read() (*Frame, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}

	seq := s.seq
	s.seq++
	s.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	barWidth := max(s.width/len(barColors), 1)
	shift := int(seq)

	for y := range s.height {
		for x := range s.width {
			bar := ((x + shift) / barWidth) % len(barColors)
			img.SetRGBA(x, y, barColors[bar])
		}
	}

	side := max(s.height/3, 1)
	left := int(seq) % s.width
	top := (s.height - side) / 2

	for y := top; y < top+side && y < s.height; y++ {
		for x := left; x < left+side && x < s.width; x++ {
			img.SetRGBA(x, y, visitorColor)
		}
	}

	return &Frame{
		Seq:       seq,
		Timestamp: time.Now(),
		Image:     img,
		Source:    s.Name(),
		TraceID:   uuid.NewString(),
	}, nil
}

// Close implements Source.
func (s *Synthetic) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
