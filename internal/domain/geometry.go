package domain

import "math"

// Point is a position in canvas units. The origin is the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Size is a canvas or output resolution.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are strictly positive and finite.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		!math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Inset is the margin kept between an overlay and the canvas edges.
type Inset struct {
	Horizontal float64
	Vertical   float64
}

// Bounds is the closed rectangle a committed overlay position must lie in.
type Bounds struct {
	Min Point
	Max Point
}

// BoundsFor returns the rectangle inset from the edges of size.
//
// On canvases too small for the inset, the affected axis collapses to the
// canvas midpoint so Clamp still yields a single well-defined position.
func BoundsFor(size Size, inset Inset) Bounds {
	b := Bounds{
		Min: Point{X: inset.Horizontal, Y: inset.Vertical},
		Max: Point{X: size.Width - inset.Horizontal, Y: size.Height - inset.Vertical},
	}
	if b.Min.X > b.Max.X {
		mid := size.Width / 2
		b.Min.X, b.Max.X = mid, mid
	}
	if b.Min.Y > b.Max.Y {
		mid := size.Height / 2
		b.Min.Y, b.Max.Y = mid, mid
	}
	return b
}

// Contains reports whether p lies inside b (edges included).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Clamp returns the point of b nearest to p.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		Y: math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
	}
}

// Relative normalizes p by size componentwise.
// Callers must pass a valid size; see Size.Valid.
func Relative(p Point, size Size) Point {
	return Point{X: p.X / size.Width, Y: p.Y / size.Height}
}

// Scale maps a relative position back onto an output resolution.
func Scale(rel Point, size Size) Point {
	return Point{X: rel.X * size.Width, Y: rel.Y * size.Height}
}

// DefaultPlacement is where new overlays appear: horizontally centered, one
// third down from the top.
func DefaultPlacement(size Size) Point {
	return Point{X: math.Round(size.Width / 2), Y: math.Round(size.Height / 3)}
}
