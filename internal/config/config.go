package config

import "time"

// Application identity
const (
	AppName  = "tundra"
	AppTitle = "Tundra Sample Browser"
)

// Browsing settings
var (
	// AudioExtensions lists the file extensions (without dot) shown in listings
	AudioExtensions = []string{"flac", "wav", "mp3", "ogg"}
)

// Walk bounds shared by directory listing and search
const (
	MaxWalkDepth   = 100 // Deepest directory level visited by a search walk
	MaxOpenHandles = 100 // Directory handles open at once during a walk
	ListDepth      = 1   // A directory listing only visits immediate children
)

// Search settings
const (
	ShortQueryLen        = 2                      // Queries this many bytes or shorter reset to the full listing
	CachedSearchDebounce = 150 * time.Millisecond // Delay before filtering a cached listing
	WalkSearchDebounce   = 400 * time.Millisecond // Delay before a full walk is started
)

// Directory cache persistence
const (
	CacheDirName  = "tundra"
	CacheFileName = "dircache.json"
)

// Waveform settings
const (
	DefaultDecimation = 1   // 1 = keep every mono sample
	DefaultZoom       = 1.0 // Horizontal zoom multiplier
	ZoomStep          = 1.0 // Zoom change per keypress
	MinZoom           = 1.0 // Zoom never drops below this
	ScrollStep        = 0.1 // Scroll change per keypress (fraction of overflow)
	DecodeChunkFrames = 4096
)

// Playback settings
const (
	DeviceSampleRate   = 44100
	DeviceBufferLength = 100 * time.Millisecond
	ResampleQuality    = 4
	StatusBufferSize   = 16
	CommandQueueSize   = 32
	SeekStep           = 0.05 // Fraction moved by the seek keys
	ProgressInterval   = 250 * time.Millisecond
)

// Waveform PNG export
const (
	ExportWidth      = 1280
	ExportHeight     = 360
	ExportMargin     = 24
	ExportFontSize   = 20
	ExportStrokeSize = 1.0
)

// Appearance
const (
	// Waveform stroke colour (#507AE0)
	WaveColorR = 0x50
	WaveColorG = 0x7a
	WaveColorB = 0xe0

	// Selection highlight (#257AFD)
	SelectedColor = "#257AFD"
)
