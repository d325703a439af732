package imageio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	// Extra decoders beyond the ones imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/crznodes/crz"
)

// Open decodes the file at path, applying its EXIF orientation.
func Open(path string) (*Tensor, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// Loader resolves file names against a directory and never fails: every
// problem yields a placeholder.
type Loader struct {
	Dir    string
	Logger crz.Logger
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string, logger crz.Logger) *Loader {
	if logger == nil {
		logger = crz.NopLogger{}
	}
	return &Loader{Dir: dir, Logger: logger}
}

// Resolve joins name onto the loader directory. Absolute names are used
// as given.
func (l *Loader) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.Dir, name)
}

// Load returns the decoded image for name, or a placeholder when name is
// empty, missing or undecodable.
func (l *Loader) Load(ctx context.Context, name string) *Tensor {
	if name == "" {
		return Placeholder()
	}

	if ctx.Err() != nil {
		return Placeholder()
	}

	path := l.Resolve(name)
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.Logger.Error(ctx, "error loading image", "image", name, "error", err)
		}
		return Placeholder()
	}

	t, err := Open(path)
	if err != nil {
		l.Logger.Error(ctx, "error loading image", "image", name, "error", err)
		return Placeholder()
	}
	return t
}

// LoadAll loads every name concurrently. Results keep the order of names.
func (l *Loader) LoadAll(ctx context.Context, names []string) []*Tensor {
	out := make([]*Tensor, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			out[i] = l.Load(gctx, name)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		l.Logger.Debug(ctx, "image loading cancelled", "error", err)
	}

	return out
}

// CountNonEmpty counts names that are non-empty after trimming whitespace.
func CountNonEmpty(names []string) int {
	n := 0
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			n++
		}
	}
	return n
}
