package waveform

import "math"

// Point is a position in drawing coordinates
type Point struct {
	X, Y float64
}

// Segment is a straight line between two points
type Segment struct {
	From, To Point
}

// Horizontal reports whether the segment runs along the x axis
func (s Segment) Horizontal() bool {
	return s.From.Y == s.To.Y
}

// Path lays the buffer out as a staircase within width × height. Each
// sample adds a horizontal run at the previous amplitude followed by a
// vertical jump to its own. zoom stretches the x axis; scroll (0..1)
// selects which part of the stretched path is visible.
func Path(b *Buffer, zoom, scroll, width, height float64) []Segment {
	n := b.Len()
	if n == 0 || width <= 0 || height <= 0 {
		return nil
	}
	zoom = clampZoom(zoom)
	scroll = clampUnit(scroll)

	maxAmp := math.Exp2(float64(bitDepth(b)))
	translateY := maxAmp / 2
	scaleHeight := height / maxAmp
	scaleWidth := width / float64(n) * zoom
	offset := scroll * (width*zoom - width)

	segments := make([]Segment, 0, 2*n)
	prev := Point{X: -offset, Y: translateY * scaleHeight}
	for i, s := range b.Samples {
		x := float64(i)*scaleWidth - offset
		y := (float64(s) + translateY) * scaleHeight

		corner := Point{X: x, Y: prev.Y}
		next := Point{X: x, Y: y}
		segments = append(segments,
			Segment{From: prev, To: corner},
			Segment{From: corner, To: next},
		)
		prev = next
	}
	return segments
}

func bitDepth(b *Buffer) int {
	if b.BitDepth <= 0 {
		return 16
	}
	return b.BitDepth
}
