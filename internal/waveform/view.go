package waveform

import (
	"math"
	"sync"

	"github.com/linuxmatters/tundra/internal/config"
)

// View holds the zoom and scroll state for one buffer and caches the
// rendered path until something it depends on changes.
type View struct {
	mu     sync.Mutex
	buf    *Buffer
	zoom   float64
	scroll float64

	cache   []Segment
	cacheW  float64
	cacheH  float64
	isValid bool
}

// NewView returns a view at the default zoom
func NewView() *View {
	return &View{zoom: config.DefaultZoom}
}

// SetBuffer replaces the buffer wholesale and resets scroll
func (v *View) SetBuffer(b *Buffer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.buf = b
	v.scroll = 0
	v.isValid = false
}

// Buffer returns the current buffer, nil before the first load
func (v *View) Buffer() *Buffer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf
}

// Zoom returns the horizontal zoom multiplier
func (v *View) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// ZoomIn increases the zoom by one step
func (v *View) ZoomIn() {
	v.SetZoom(v.Zoom() + config.ZoomStep)
}

// ZoomOut decreases the zoom by one step, never below MinZoom
func (v *View) ZoomOut() {
	v.SetZoom(v.Zoom() - config.ZoomStep)
}

// SetZoom clamps z to MinZoom and invalidates the cached path if it changed
func (v *View) SetZoom(z float64) {
	z = clampZoom(z)
	v.mu.Lock()
	defer v.mu.Unlock()
	if z != v.zoom {
		v.zoom = z
		v.isValid = false
	}
}

// Scroll returns the visible window position in 0..1
func (v *View) Scroll() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scroll
}

// ScrollBy moves the visible window by delta, clamped to 0..1
func (v *View) ScrollBy(delta float64) {
	v.SetScroll(v.Scroll() + delta)
}

// SetScroll positions the visible window, clamped to 0..1
func (v *View) SetScroll(s float64) {
	s = clampUnit(s)
	v.mu.Lock()
	defer v.mu.Unlock()
	if s != v.scroll {
		v.scroll = s
		v.isValid = false
	}
}

// Segments returns the staircase for the given drawing area, recomputing
// it only when the cache is stale
func (v *View) Segments(width, height float64) []Segment {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.isValid && v.cacheW == width && v.cacheH == height {
		return v.cache
	}
	v.cache = Path(v.buf, v.zoom, v.scroll, width, height)
	v.cacheW, v.cacheH = width, height
	v.isValid = true
	return v.cache
}

// Cached reports whether the next Segments call at the same size is free
func (v *View) Cached() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isValid
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < config.MinZoom {
		return config.MinZoom
	}
	return z
}

func clampUnit(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
