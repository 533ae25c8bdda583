package dircache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/tundra/internal/config"
)

// WalkOptions bound a directory walk
type WalkOptions struct {
	// MaxDepth is the deepest level listed; 1 lists only the root's entries
	MaxDepth int
	// MaxOpen caps how many directories are read concurrently
	MaxOpen int
	// FollowSymlinks descends into linked directories, skipping loops
	FollowSymlinks bool
	Logger         *zap.Logger
}

// DefaultWalkOptions returns the bounds used for recursive search walks
func DefaultWalkOptions(log *zap.Logger) WalkOptions {
	return WalkOptions{
		MaxDepth:       config.MaxWalkDepth,
		MaxOpen:        config.MaxOpenHandles,
		FollowSymlinks: true,
		Logger:         log,
	}
}

// VisitFunc receives each accepted entry. Calls are serialised.
type VisitFunc func(path string, isDir bool)

type walker struct {
	ctx   context.Context
	opts  WalkOptions
	log   *zap.Logger
	g     *errgroup.Group
	visit VisitFunc
	mu    sync.Mutex
}

// Walk lists root recursively through Accept, calling visit for every
// accepted entry below root. Unreadable entries are logged and skipped.
// On cancellation, reads already in flight complete but their results are
// dropped and ctx.Err() is returned.
func Walk(ctx context.Context, root string, opts WalkOptions, visit VisitFunc) error {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = 1
	}
	if opts.MaxOpen < 1 {
		opts.MaxOpen = 1
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	w := &walker{
		ctx:   ctx,
		opts:  opts,
		log:   log,
		g:     new(errgroup.Group),
		visit: visit,
	}
	w.g.SetLimit(opts.MaxOpen)

	rootReal := realPath(root)
	w.g.Go(func() error {
		w.walkDir(root, 1, []string{rootReal})
		return nil
	})
	_ = w.g.Wait()
	return ctx.Err()
}

// walkDir lists dir, whose entries sit at depth. ancestors holds the
// resolved paths from the root down to dir for loop detection.
func (w *walker) walkDir(dir string, depth int, ancestors []string) {
	if w.ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.Debug("walk error", zap.Error(err), zap.String("path", dir))
		return
	}

	for _, e := range entries {
		if w.ctx.Err() != nil {
			return
		}

		path := filepath.Join(dir, e.Name())
		isDir, ok := w.entryIsDir(path, e)
		if !ok || !Accept(e.Name(), isDir) {
			continue
		}
		w.emit(path, isDir)

		if !isDir || depth >= w.opts.MaxDepth {
			continue
		}
		resolved := realPath(path)
		if slices.Contains(ancestors, resolved) {
			w.log.Debug("symlink loop", zap.String("path", path), zap.String("target", resolved))
			continue
		}

		chain := append(slices.Clip(ancestors), resolved)
		next := depth + 1
		// Recurse inline once every slot is busy
		if !w.g.TryGo(func() error {
			w.walkDir(path, next, chain)
			return nil
		}) {
			w.walkDir(path, next, chain)
		}
	}
}

// entryIsDir resolves symlinks when following them. ok is false for
// entries that could not be inspected.
func (w *walker) entryIsDir(path string, e fs.DirEntry) (isDir, ok bool) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir(), true
	}
	if !w.opts.FollowSymlinks {
		return false, true
	}
	fi, err := os.Stat(path)
	if err != nil {
		w.log.Debug("walk error", zap.Error(err), zap.String("path", path))
		return false, false
	}
	return fi.IsDir(), true
}

func (w *walker) emit(path string, isDir bool) {
	if w.ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visit(path, isDir)
}

// ListDir returns the accepted entries directly inside dir, sorted
func ListDir(ctx context.Context, dir string, log *zap.Logger) ([]string, error) {
	opts := WalkOptions{
		MaxDepth:       config.ListDepth,
		MaxOpen:        1,
		FollowSymlinks: true,
		Logger:         log,
	}
	children := []string{}
	err := Walk(ctx, dir, opts, func(path string, _ bool) {
		children = append(children, path)
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(children)
	return children, nil
}

// Canonical returns the absolute, symlink-resolved form of dir. It falls
// back to the cleaned absolute path when resolution fails.
func Canonical(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
