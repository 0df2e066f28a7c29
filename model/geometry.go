package model

import "math"

// Point represents a 2D point in page coordinates.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents a bounding box (rectangle).
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate.
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate.
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate.
func (b BBox) Bottom() float64 {
	return b.Y
}

// Top returns the top edge Y coordinate.
func (b BBox) Top() float64 {
	return b.Y + b.Height
}

// Center returns the center point.
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Union returns the union of two bounding boxes.
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Bottom(), other.Bottom())
	right := math.Max(b.Right(), other.Right())
	top := math.Max(b.Top(), other.Top())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: top - y,
	}
}

// IsEmpty returns true if the bounding box has zero area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Word is a single word extracted from a page with its position. X0/X1 are
// the horizontal start/end coordinates, Top/Bottom the vertical extent,
// matching the word dictionaries produced by position-aware PDF extractors.
type Word struct {
	Text   string
	X0     float64
	X1     float64
	Top    float64
	Bottom float64
}

// BBox returns the word's bounding box.
func (w Word) BBox() BBox {
	return BBox{
		X:      w.X0,
		Y:      w.Top,
		Width:  w.X1 - w.X0,
		Height: w.Bottom - w.Top,
	}
}

// CenterY returns the vertical center of the word.
func (w Word) CenterY() float64 {
	return (w.Top + w.Bottom) / 2
}

// WordsBBox calculates the bounding box covering a set of words.
func WordsBBox(words []Word) BBox {
	if len(words) == 0 {
		return BBox{}
	}

	bb := words[0].BBox()
	for _, w := range words[1:] {
		bb = bb.Union(w.BBox())
	}
	return bb
}
