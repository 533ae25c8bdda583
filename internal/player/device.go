package player

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/linuxmatters/tundra/internal/config"
)

// Device is an audio output that mixes queued streamers
type Device interface {
	SampleRate() beep.SampleRate
	Play(s ...beep.Streamer)
	Clear()
	// Lock and Unlock guard streamers the device is currently pulling from
	Lock()
	Unlock()
}

// speakerDevice is the process-wide beep speaker
type speakerDevice struct {
	sr beep.SampleRate
}

func (d *speakerDevice) SampleRate() beep.SampleRate { return d.sr }
func (d *speakerDevice) Play(s ...beep.Streamer)     { speaker.Play(s...) }
func (d *speakerDevice) Clear()                      { speaker.Clear() }
func (d *speakerDevice) Lock()                       { speaker.Lock() }
func (d *speakerDevice) Unlock()                     { speaker.Unlock() }

var (
	speakerMu  sync.Mutex
	speakerDev *speakerDevice
)

// DefaultDevice initialises the system speaker on first use. A failed
// initialisation is retried on the next call.
func DefaultDevice() (Device, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerDev != nil {
		return speakerDev, nil
	}

	sr := beep.SampleRate(config.DeviceSampleRate)
	if err := speaker.Init(sr, sr.N(config.DeviceBufferLength)); err != nil {
		return nil, fmt.Errorf("failed to initialise audio output: %w", err)
	}
	speakerDev = &speakerDevice{sr: sr}
	return speakerDev, nil
}
