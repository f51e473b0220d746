package domain

import "math"

// Immutable 3D point or vector (x, y, z), in meters for positions and
// tesla for field vectors.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Add returns the component-wise sum p + o.
func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }

// Sub returns the component-wise difference p - o.
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }

// Scale multiplies every component by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k, p.Z * k} }

// Midpoint returns (p + o) / 2.
func (p Point) Midpoint(o Point) Point {
	return Point{(o.X + p.X) / 2., (o.Y + p.Y) / 2., (o.Z + p.Z) / 2.}
}

// Cross returns the right-handed cross product p x o.
//
// The explicit float64 conversions keep the compiler from fusing the
// products into FMA instructions, so every architecture rounds the same way.
func (p Point) Cross(o Point) Point {
	return Point{
		X: float64(p.Y*o.Z) - float64(p.Z*o.Y),
		Y: float64(p.Z*o.X) - float64(p.X*o.Z),
		Z: float64(p.X*o.Y) - float64(p.Y*o.X),
	}
}

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 { return Distance(p, Point{}) }

// IsFinite reports whether no component is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Return the list form [x, y, z] used by the JSON API.
func (p Point) ToList() []float64 { return []float64{p.X, p.Y, p.Z} }

// Distance returns sqrt(dx²+dy²+dz²) between p1 and p2.
func Distance(p1, p2 Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	dz := p1.Z - p2.Z
	return math.Sqrt(float64(dx*dx) + float64(dy*dy) + float64(dz*dz))
}
