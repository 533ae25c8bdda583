// Package search runs debounced fuzzy searches over cached or freshly
// walked directory listings. Starting a search aborts the previous one.
package search

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/linuxmatters/tundra/internal/config"
	"github.com/linuxmatters/tundra/internal/dircache"
)

// ErrAborted marks a search superseded before it finished. It is not a
// failure and callers should drop the result.
var ErrAborted = errors.New("search aborted")

// Lookup is the read side of the directory cache
type Lookup interface {
	Get(dir string) ([]string, bool)
}

// Result is the outcome of one search
type Result struct {
	Gen   uint64
	Query string
	Dir   string
	// Paths is non-nil on success, even when nothing matched
	Paths []string
	// Filtered is false when Paths is the unfiltered listing
	Filtered bool
	Err      error
}

// Aborted reports whether the search was superseded
func (r Result) Aborted() bool {
	return errors.Is(r.Err, ErrAborted)
}

// Pending is a search in flight
type Pending struct {
	gen    uint64
	done   chan struct{}
	result Result
}

// Gen returns the generation the search was issued under
func (p *Pending) Gen() uint64 {
	return p.gen
}

// Done is closed once the result is available
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the search resolves
func (p *Pending) Wait() Result {
	<-p.done
	return p.result
}

func (p *Pending) resolve(r Result) {
	r.Gen = p.gen
	p.result = r
	close(p.done)
}

// Coordinator issues searches and tracks which one is current
type Coordinator struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	cache       Lookup
	matcher     Matcher
	walkOpts    dircache.WalkOptions
	log         *zap.Logger
	cachedDelay time.Duration
	walkDelay   time.Duration
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithDebounce overrides the delays before matching a cached listing and
// before starting a walk
func WithDebounce(cached, walk time.Duration) Option {
	return func(c *Coordinator) {
		c.cachedDelay = cached
		c.walkDelay = walk
	}
}

// WithMatcher replaces the fuzzy matcher
func WithMatcher(m Matcher) Option {
	return func(c *Coordinator) {
		c.matcher = m
	}
}

// WithWalkOptions overrides the bounds of uncached walks
func WithWalkOptions(opts dircache.WalkOptions) Option {
	return func(c *Coordinator) {
		c.walkOpts = opts
	}
}

// NewCoordinator returns a coordinator reading listings from cache
func NewCoordinator(cache Lookup, log *zap.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		cache:       cache,
		matcher:     FuzzyMatcher{},
		walkOpts:    dircache.DefaultWalkOptions(log),
		log:         log,
		cachedDelay: config.CachedSearchDebounce,
		walkDelay:   config.WalkSearchDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search aborts any search in flight and starts a new one for query in
// dir. Queries of ShortQueryLen bytes or fewer resolve immediately with the
// unfiltered listing.
func (c *Coordinator) Search(query, dir string) *Pending {
	ctx, p := c.next()

	if len(query) <= config.ShortQueryLen {
		c.listing(ctx, p, query, dir)
		return p
	}

	// Snapshot the cache on the caller's goroutine
	cached, ok := c.cache.Get(dir)
	if ok {
		go c.filterCached(ctx, p, query, dir, cached)
	} else {
		go c.walk(ctx, p, query, dir)
	}
	return p
}

// Cancel aborts the search in flight, if any
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// IsCurrent reports whether gen belongs to the latest search
func (c *Coordinator) IsCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

func (c *Coordinator) next() (context.Context, *Pending) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	return ctx, &Pending{gen: c.gen, done: make(chan struct{})}
}

func (c *Coordinator) listing(ctx context.Context, p *Pending, query, dir string) {
	if cached, ok := c.cache.Get(dir); ok {
		p.resolve(Result{Query: query, Dir: dir, Paths: cached})
		return
	}
	paths, err := dircache.ListDir(ctx, dir, c.log)
	if err != nil {
		p.resolve(Result{Query: query, Dir: dir, Err: ErrAborted})
		return
	}
	p.resolve(Result{Query: query, Dir: dir, Paths: paths})
}

func (c *Coordinator) filterCached(ctx context.Context, p *Pending, query, dir string, cached []string) {
	if !sleep(ctx, c.cachedDelay) {
		c.abort(p, query, dir)
		return
	}
	paths := c.matcher.Match(query, cached)
	if ctx.Err() != nil {
		c.abort(p, query, dir)
		return
	}
	c.log.Debug("search cached", zap.String("query", query), zap.String("dir", dir), zap.Int("matches", len(paths)))
	p.resolve(Result{Query: query, Dir: dir, Paths: paths, Filtered: true})
}

func (c *Coordinator) walk(ctx context.Context, p *Pending, query, dir string) {
	if !sleep(ctx, c.walkDelay) {
		c.abort(p, query, dir)
		return
	}

	paths := []string{}
	err := dircache.Walk(ctx, dir, c.walkOpts, func(path string, _ bool) {
		paths = append(paths, c.matcher.Match(query, []string{path})...)
	})
	if err != nil {
		c.abort(p, query, dir)
		return
	}
	slices.Sort(paths)
	c.log.Debug("search walked", zap.String("query", query), zap.String("dir", dir), zap.Int("matches", len(paths)))
	p.resolve(Result{Query: query, Dir: dir, Paths: paths, Filtered: true})
}

func (c *Coordinator) abort(p *Pending, query, dir string) {
	c.log.Debug("search aborted", zap.String("query", query), zap.Uint64("gen", p.gen))
	p.resolve(Result{Query: query, Dir: dir, Err: ErrAborted})
}

// sleep waits for d unless ctx ends first. It reports whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
