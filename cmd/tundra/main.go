package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/linuxmatters/tundra/internal/audio"
	"github.com/linuxmatters/tundra/internal/cli"
	"github.com/linuxmatters/tundra/internal/config"
	"github.com/linuxmatters/tundra/internal/dircache"
	"github.com/linuxmatters/tundra/internal/player"
	"github.com/linuxmatters/tundra/internal/renderer"
	"github.com/linuxmatters/tundra/internal/search"
	"github.com/linuxmatters/tundra/internal/ui"
	"github.com/linuxmatters/tundra/internal/waveform"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	CacheDir   string `help:"Directory for the persisted directory cache" type:"path"`
	Decimation int    `help:"Keep the loudest of every N samples in the waveform" default:"1"`
	WaveColor  string `help:"Waveform colour as RRGGBB hex"`
	LogFile    string `help:"Write JSON debug logs to this file" type:"path"`
	Version    bool   `help:"Show version information"`

	Browse struct {
		Dir string `arg:"" name:"dir" help:"Directory to browse" default:"." type:"path"`
	} `cmd:"" default:"withargs" help:"Browse and play audio files (default)"`

	Waveform struct {
		Input  string  `arg:"" name:"input" help:"Input audio file" type:"existingfile"`
		Output string  `arg:"" name:"output" help:"Output PNG file"`
		Title  string  `help:"Label drawn above the waveform (defaults to the track tags)"`
		Width  int     `help:"Image width in pixels" default:"1280"`
		Height int     `help:"Image height in pixels" default:"360"`
		Zoom   float64 `help:"Horizontal zoom, 1 shows the whole file" default:"1"`
		Scroll float64 `help:"Visible window position from 0 to 1 when zoomed" default:"0"`
	} `cmd:"" help:"Export the waveform of a file as a PNG"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(config.AppName),
		kong.Description("Browse, search and audition audio samples from the terminal."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if CLI.WaveColor != "" {
		if _, _, _, err := config.ParseHexColor(CLI.WaveColor); err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
	}

	cfg := &config.RuntimeConfig{
		CacheDir:   CLI.CacheDir,
		Decimation: CLI.Decimation,
		WaveColor:  CLI.WaveColor,
	}

	log, err := newLogger(CLI.LogFile)
	if err != nil {
		cli.PrintError(fmt.Sprintf("opening log file: %v", err))
		os.Exit(1)
	}

	switch ctx.Command() {
	case "browse", "browse <dir>":
		err = browse(cfg, log, CLI.Browse.Dir)
	case "waveform <input> <output>":
		err = exportWaveform(cfg)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	os.Exit(finish(log, err))
}

// finish reports err, flushes the log and returns the exit code
func finish(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("exiting", zap.Error(err))
		cli.PrintError(err.Error())
		code = 1
	}
	_ = log.Sync()
	return code
}

// newLogger writes JSON logs to path, or discards them when path is empty
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func browse(cfg *config.RuntimeConfig, log *zap.Logger, dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot browse %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	cachePath, err := cfg.CachePath()
	if err != nil {
		return err
	}
	cache := dircache.New(dircache.NewFileStore(cachePath), log)
	coord := search.NewCoordinator(cache, log)

	engine := player.NewEngine(player.WithLogger(log))
	defer engine.Close()

	log.Info("browsing", zap.String("dir", dir), zap.String("cache", cachePath), zap.Int("cached_dirs", cache.Len()))

	model := ui.New(ui.Options{
		Dir:    dir,
		Player: engine,
		Cache:  cache,
		Search: coord,
		Config: cfg,
		Logger: log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	coord.Cancel()
	return nil
}

func exportWaveform(cfg *config.RuntimeConfig) error {
	args := CLI.Waveform
	if !strings.EqualFold(filepath.Ext(args.Output), ".png") {
		return fmt.Errorf("output must be a .png file: %s", args.Output)
	}

	start := time.Now()
	dec, err := audio.Open(args.Input)
	if err != nil {
		return err
	}
	defer dec.Close()

	total := dec.NumSamples()
	if total <= 0 {
		total = -1
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription("Extracting waveform"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	buf, err := waveform.Extract(dec, cfg.DecimationFactor(), func(frames int64) {
		_ = bar.Set64(frames)
	})
	_ = bar.Finish()
	if err != nil {
		return &audio.DecodeError{Path: args.Input, Err: err}
	}

	title := args.Title
	if title == "" {
		if track, err := audio.ReadTrackInfo(args.Input); track != nil {
			title = track.Label()
		} else if err != nil {
			cli.PrintWarning(fmt.Sprintf("reading tags: %v", err))
		}
	}

	r, g, b := cfg.GetWaveColor()
	err = renderer.ExportPNG(buf, args.Output, title, renderer.Options{
		Width:     args.Width,
		Height:    args.Height,
		WaveColor: color.RGBA{R: r, G: g, B: b, A: 255},
		Zoom:      args.Zoom,
		Scroll:    args.Scroll,
	})
	if err != nil {
		return err
	}

	var size int64
	if fi, err := os.Stat(args.Output); err == nil {
		size = fi.Size()
	}
	var duration time.Duration
	if sr := dec.SampleRate(); sr > 0 {
		duration = time.Duration(float64(dec.NumSamples()) / float64(sr) * float64(time.Second))
	}
	cli.PrintExportSummary(args.Output, cli.FormatDuration(duration), cli.FormatDuration(time.Since(start)), cli.FormatBytes(size), buf.Len())
	return nil
}
