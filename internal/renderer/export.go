package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/linuxmatters/tundra/internal/config"
	"github.com/linuxmatters/tundra/internal/waveform"
)

// Options control the exported image. Zero values use the defaults.
type Options struct {
	Width, Height int
	WaveColor     color.RGBA
	Zoom, Scroll  float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = config.ExportWidth
	}
	if o.Height <= 0 {
		o.Height = config.ExportHeight
	}
	if o.WaveColor.A == 0 {
		o.WaveColor = color.RGBA{R: config.WaveColorR, G: config.WaveColorG, B: config.WaveColorB, A: 255}
	}
	if o.Zoom < config.MinZoom {
		o.Zoom = config.DefaultZoom
	}
	return o
}

// backgroundColor is the canvas fill behind the waveform
var backgroundColor = color.RGBA{R: 0x10, G: 0x12, B: 0x18, A: 255}

// labelColor is used for the title text
var labelColor = color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 255}

// ExportPNG draws the waveform of buf with a title label and writes it to
// outputPath
func ExportPNG(buf *waveform.Buffer, outputPath, title string, opts Options) error {
	img, err := DrawWaveform(buf, title, opts)
	if err != nil {
		return err
	}
	if err := savePNG(img, outputPath); err != nil {
		return fmt.Errorf("failed to save waveform image: %w", err)
	}
	return nil
}

// DrawWaveform renders buf into a new image
func DrawWaveform(buf *waveform.Buffer, title string, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()
	margin := config.ExportMargin
	if opts.Width <= 2*margin || opts.Height <= 2*margin {
		return nil, fmt.Errorf("image %dx%d too small for margin %d", opts.Width, opts.Height, margin)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	plot := image.Rect(margin, margin, opts.Width-margin, opts.Height-margin)

	segments := waveform.Path(buf, opts.Zoom, opts.Scroll, float64(plot.Dx()), float64(plot.Dy()))
	strokeSegments(img, plot, segments, opts.WaveColor)

	if title != "" {
		if err := drawLabel(img, title); err != nil {
			return nil, fmt.Errorf("failed to draw label: %w", err)
		}
	}
	return img, nil
}

// strokeSegments fills each segment as a thin rectangle inside plot.
// Staircase paths only contain horizontal and vertical runs.
func strokeSegments(img *image.RGBA, plot image.Rectangle, segments []waveform.Segment, c color.RGBA) {
	if len(segments) == 0 {
		return
	}

	r := vector.NewRasterizer(plot.Dx(), plot.Dy())
	half := float32(config.ExportStrokeSize / 2)
	w, h := float32(plot.Dx()), float32(plot.Dy())

	for _, s := range segments {
		x0, x1 := float32(min(s.From.X, s.To.X)), float32(max(s.From.X, s.To.X))
		y0, y1 := float32(min(s.From.Y, s.To.Y)), float32(max(s.From.Y, s.To.Y))
		if x1 < 0 || x0 > w {
			continue
		}
		x0, x1 = clamp32(x0-half, 0, w), clamp32(x1+half, 0, w)
		y0, y1 = clamp32(y0-half, 0, h), clamp32(y1+half, 0, h)

		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.ClosePath()
	}

	r.Draw(img, plot, image.NewUniform(c), image.Point{})
}

func clamp32(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}

// drawLabel writes title in the top-left margin, shrinking the font until
// it fits the image width
func drawLabel(img *image.RGBA, title string) error {
	parsedFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	maxWidth := img.Bounds().Dx() - 2*config.ExportMargin
	size := findLabelFontSize(parsedFont, title, maxWidth)

	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size: size,
		DPI:  72,
	})
	defer face.Close()

	_, bounds := measureText(face, title)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
	}
	// The baseline sits below the visual top by the ascent (Min.Y is negative)
	d.Dot = freetype.Pt(config.ExportMargin, config.ExportMargin/4-bounds.Min.Y.Ceil())
	d.DrawString(title)
	return nil
}

// findLabelFontSize finds the largest size up to ExportFontSize whose
// rendering of text fits within maxWidth
func findLabelFontSize(parsedFont *truetype.Font, text string, maxWidth int) float64 {
	for size := float64(config.ExportFontSize); size > 6.0; size -= 1.0 {
		face := truetype.NewFace(parsedFont, &truetype.Options{
			Size: size,
			DPI:  72,
		})
		width, _ := measureText(face, text)
		face.Close()

		if width <= maxWidth {
			return size
		}
	}
	return 6.0
}

// measureText returns the width and actual bounds of rendered text
// Returns width, and the bounds rectangle (Min.Y is negative for ascent, Max.Y is positive for descent)
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	return width, bounds
}

// savePNG saves the image to a PNG file
func savePNG(img *image.RGBA, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	return png.Encode(outFile, img)
}
