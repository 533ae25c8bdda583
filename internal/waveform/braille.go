package waveform

import (
	"math"
	"strings"
)

// brailleBits maps a dot at (x, y) inside a 2×4 cell to its bit in the
// Unicode braille block
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a monochrome dot grid rendered with braille characters, two
// dots wide and four dots tall per terminal cell
type Canvas struct {
	cols, rows int
	cells      []rune
}

// NewCanvas allocates a canvas of cols × rows terminal cells
func NewCanvas(cols, rows int) *Canvas {
	cols = max(cols, 0)
	rows = max(rows, 0)
	return &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
}

// Width returns the canvas width in dots
func (c *Canvas) Width() int { return c.cols * 2 }

// Height returns the canvas height in dots
func (c *Canvas) Height() int { return c.rows * 4 }

// Set lights the dot at (x, y); out-of-range dots are ignored
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= brailleBits[y%4][x%2]
}

// DrawSegment rasterises an axis-aligned or diagonal segment
func (c *Canvas) DrawSegment(s Segment) {
	x0, y0 := s.From.X, s.From.Y
	x1, y1 := s.To.X, s.To.Y

	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		c.Set(int(math.Floor(x0)), int(math.Floor(y0)))
		return
	}
	// Skip runs that lie wholly outside the canvas
	if math.Max(x0, x1) < 0 || math.Min(x0, x1) >= float64(c.Width()) {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.Set(int(math.Floor(x0+(x1-x0)*t)), int(math.Floor(y0+(y1-y0)*t)))
	}
}

// Lines returns one string per terminal row
func (c *Canvas) Lines() []string {
	lines := make([]string, c.rows)
	var sb strings.Builder
	for r := 0; r < c.rows; r++ {
		sb.Reset()
		for _, cell := range c.cells[r*c.cols : (r+1)*c.cols] {
			if cell == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(0x2800 + cell)
		}
		lines[r] = sb.String()
	}
	return lines
}

// String joins the rows with newlines
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// Render draws the view's path into a cols × rows braille canvas
func Render(v *View, cols, rows int) []string {
	c := NewCanvas(cols, rows)
	if v == nil || v.Buffer().Len() == 0 || cols == 0 || rows == 0 {
		return c.Lines()
	}
	// Clamp the bottom edge so full-scale samples stay on the last dot row
	for _, s := range v.Segments(float64(c.Width()), float64(c.Height()-1)) {
		c.DrawSegment(s)
	}
	return c.Lines()
}
