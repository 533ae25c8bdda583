package player

import (
	"errors"
	"sync"

	"github.com/gopxl/beep/v2"
)

// fakeDevice queues streamers and only pulls from them when drained
type fakeDevice struct {
	mu     sync.Mutex
	sr     beep.SampleRate
	queue  []beep.Streamer
	clears int
	plays  int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{sr: 44100}
}

func (d *fakeDevice) SampleRate() beep.SampleRate { return d.sr }
func (d *fakeDevice) Lock()                       { d.mu.Lock() }
func (d *fakeDevice) Unlock()                     { d.mu.Unlock() }

func (d *fakeDevice) Play(s ...beep.Streamer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, s...)
	d.plays++
}

func (d *fakeDevice) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = nil
	d.clears++
}

func (d *fakeDevice) queued() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// drain streams every queued streamer to completion, as the speaker
// would, bounded so a paused stream cannot spin forever
func (d *fakeDevice) drain() {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := make([][2]float64, 512)
	for i := 0; i < 10000 && len(d.queue) > 0; i++ {
		if _, ok := d.queue[0].Stream(buf); !ok {
			d.queue = d.queue[1:]
		}
	}
}

// fakeSource is a silent stream of a fixed length
type fakeSource struct {
	length int
	pos    int
	closed bool
}

func (s *fakeSource) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.length {
		return 0, false
	}
	n := min(len(samples), s.length-s.pos)
	for i := range samples[:n] {
		samples[i] = [2]float64{}
	}
	s.pos += n
	return n, true
}

func (s *fakeSource) Err() error    { return nil }
func (s *fakeSource) Len() int      { return s.length }
func (s *fakeSource) Position() int { return s.pos }
func (s *fakeSource) Close() error  { s.closed = true; return nil }

func (s *fakeSource) Seek(p int) error {
	if p < 0 || p > s.length {
		return errors.New("seek out of range")
	}
	s.pos = p
	return nil
}

var errBadFile = errors.New("not audio")

// fakeOpener hands out fakeSources and records every open
type fakeOpener struct {
	mu      sync.Mutex
	length  int
	rate    beep.SampleRate
	opened  map[string][]*fakeSource
	failFor map[string]bool
}

func newFakeOpener(length int) *fakeOpener {
	return &fakeOpener{
		length:  length,
		rate:    44100,
		opened:  map[string][]*fakeSource{},
		failFor: map[string]bool{},
	}
}

func (o *fakeOpener) open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failFor[path] {
		return nil, beep.Format{}, errBadFile
	}
	src := &fakeSource{length: o.length}
	o.opened[path] = append(o.opened[path], src)
	return src, beep.Format{SampleRate: o.rate, NumChannels: 2, Precision: 2}, nil
}

func (o *fakeOpener) opens(path string) []*fakeSource {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakeSource(nil), o.opened[path]...)
}
