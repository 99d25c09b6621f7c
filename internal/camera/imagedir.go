package camera

import (
	"fmt"
	"image"
	// Register the decoders image.Decode understands.
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// imageExtensions lists the file types the image directory source plays.
//
//nolint:gochecknoglobals // Immutable lookup table.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// ImageDir loops over the still images of a directory, one per Read.
// Files that fail to decode are read failures and are skipped by the feed.
type ImageDir struct {
	dir    string
	width  int
	height int
	files  []string

	mu     sync.Mutex
	next   int
	seq    uint64
	closed bool
}

// NewImageDir lists the images of dir. It fails when there are none.
func NewImageDir(dir string, width, height int) (*ImageDir, error) {
	entries, err := os.ReadDir(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, dir)
	}

	slices.Sort(files)

	return &ImageDir{
		dir:    dir,
		width:  max(width, 1),
		height: max(height, 1),
		files:  files,
	}, nil
}

// Name implements Source.
func (d *ImageDir) Name() string {
	return "images:" + d.dir
}

// Read implements Source.
func (d *ImageDir) Read() (*Frame, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClosed
	}

	path := d.files[d.next]
	d.next = (d.next + 1) % len(d.files)
	d.mu.Unlock()

	decoded, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	seq := d.seq
	d.seq++
	d.mu.Unlock()

	return &Frame{
		Seq:       seq,
		Timestamp: time.Now(),
		Image:     resize(decoded, d.width, d.height),
		Source:    d.Name(),
		TraceID:   uuid.NewString(),
	}, nil
}

// Close implements Source.
func (d *ImageDir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true

	return nil
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", filepath.Base(path), err)
	}

	return decoded, nil
}

// resize scales src to width x height with nearest-neighbour sampling.
func resize(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst
}
