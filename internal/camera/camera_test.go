package camera

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/smart-doorbell/internal/config"
)

var errDeviceBusy = errors.New("device busy")

// flakySource fails every other read.
type flakySource struct {
	mu    sync.Mutex
	calls int
}

func (s *flakySource) Read() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls%2 == 0 {
		return nil, errDeviceBusy
	}

	return &Frame{
		Seq:   uint64(s.calls),
		Image: image.NewRGBA(image.Rect(0, 0, 2, 2)),
	}, nil
}

func (s *flakySource) Close() error { return nil }

func (s *flakySource) Name() string { return "flaky" }

// writePNG stores a solid-colour image.
func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.SetRGBA(x, y, c)
		}
	}

	file, err := os.Create(path)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, file.Close())
	}()

	require.NoError(t, png.Encode(file, img))
}

// TestSynthetic_ReadAndClose checks sequencing, dimensions and release.
func TestSynthetic_ReadAndClose(t *testing.T) {
	t.Parallel()

	s := NewSynthetic(16, 9)

	first, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, uint64(0), first.Seq)
	require.Equal(t, 16, first.Width())
	require.Equal(t, 9, first.Height())
	require.NotEmpty(t, first.TraceID)

	second, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, uint64(1), second.Seq)
	require.NotEqual(t, first.TraceID, second.TraceID)

	require.NoError(t, s.Close())

	_, err = s.Read()
	require.ErrorIs(t, err, ErrClosed)

	// Reopening starts over.
	reopened := NewSynthetic(16, 9)
	again, err := reopened.Read()
	require.NoError(t, err)
	require.Equal(t, uint64(0), again.Seq)
}

// TestImageDir_LoopsAndSkipsBadFiles reads every file in order and wraps around.
func TestImageDir_LoopsAndSkipsBadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}

	writePNG(t, filepath.Join(dir, "a.png"), red)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("not an image"), 0o600))
	writePNG(t, filepath.Join(dir, "c.png"), blue)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	source, err := NewImageDir(dir, 4, 4)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, source.Close())
	}()

	frame, err := source.Read()
	require.NoError(t, err)
	require.Equal(t, red, frame.Image.RGBAAt(1, 1))
	require.Equal(t, 4, frame.Width())

	_, err = source.Read()
	require.Error(t, err)

	frame, err = source.Read()
	require.NoError(t, err)
	require.Equal(t, blue, frame.Image.RGBAAt(3, 3))
	require.Equal(t, uint64(1), frame.Seq)

	frame, err = source.Read()
	require.NoError(t, err)
	require.Equal(t, red, frame.Image.RGBAAt(0, 0))
}

// TestImageDir_Empty asserts a directory without images is rejected.
func TestImageDir_Empty(t *testing.T) {
	t.Parallel()

	_, err := NewImageDir(t.TempDir(), 4, 4)
	require.ErrorIs(t, err, ErrNoFrames)
}

// TestOpen selects sources from settings.
func TestOpen(t *testing.T) {
	t.Parallel()

	source, err := Open(config.Camera{Source: config.SourceSynthetic, Width: 4, Height: 4})
	require.NoError(t, err)
	require.Equal(t, "synthetic", source.Name())
	require.NoError(t, source.Close())

	_, err = Open(config.Camera{Source: "v4l2"})
	require.ErrorIs(t, err, ErrUnknownSource)

	_, err = Open(config.Camera{Source: config.SourceImages, Path: t.TempDir()})
	require.ErrorIs(t, err, ErrNoFrames)
}

// TestFeed_SwallowsFailures checks failed reads skip a cycle and polling continues.
func TestFeed_SwallowsFailures(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		source := new(flakySource)
		feed := NewFeed(source, 10*time.Millisecond)

		_, ok := feed.Latest()
		require.False(t, ok)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			defer close(done)

			_ = feed.Run(ctx)
		}()

		time.Sleep(95 * time.Millisecond)
		synctest.Wait()

		cancel()
		<-done

		stats := feed.Stats()
		require.Equal(t, uint64(5), stats.Frames)
		require.Equal(t, uint64(4), stats.Failures)

		latest, ok := feed.Latest()
		require.True(t, ok)
		require.Equal(t, uint64(9), latest.Seq)
	})
}

// TestResize scales a 2x2 quadrant image up and keeps each quadrant's colour.
func TestResize(t *testing.T) {
	t.Parallel()

	var (
		red   = color.RGBA{R: 255, A: 255}
		green = color.RGBA{G: 255, A: 255}
		blue  = color.RGBA{B: 255, A: 255}
		white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	)

	src := image.NewRGBA(image.Rect(10, 10, 12, 12))
	src.SetRGBA(10, 10, red)
	src.SetRGBA(11, 10, green)
	src.SetRGBA(10, 11, blue)
	src.SetRGBA(11, 11, white)

	dst := resize(src, 4, 4)

	require.Equal(t, image.Rect(0, 0, 4, 4), dst.Bounds())
	require.Equal(t, red, dst.RGBAAt(0, 0))
	require.Equal(t, red, dst.RGBAAt(1, 1))
	require.Equal(t, green, dst.RGBAAt(3, 0))
	require.Equal(t, blue, dst.RGBAAt(0, 3))
	require.Equal(t, white, dst.RGBAAt(3, 3))
}
