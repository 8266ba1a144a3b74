// Package terrain turns sparse 2D terrain profiles into dense height fields.
package terrain

import "errors"

// Geometry errors.
var (
	ErrTooFewPoints     = errors.New("profile needs at least two points")
	ErrNoExtent         = errors.New("profile has no horizontal extent")
	ErrDegenerateRaster = errors.New("degenerate raster dimensions")
)

// Point is one profile control point. X is the horizontal distance along the
// terrain in meters, Y the elevation in meters.
type Point struct {
	X float64
	Y float64
}

// Profile is an ordered sequence of control points describing a terrain
// cross-section. It does not have to be sorted by X.
type Profile []Point

// Bounds returns the profile's bounding box. An empty profile has a zero box.
func (p Profile) Bounds() (minX, minY, maxX, maxY float64) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = p[0].X, p[0].X
	minY, maxY = p[0].Y, p[0].Y
	for _, pt := range p[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return minX, minY, maxX, maxY
}

// validate rejects profiles that cannot be interpolated.
func (p Profile) validate() error {
	if len(p) < 2 {
		return ErrTooFewPoints
	}
	minX, _, maxX, _ := p.Bounds()
	if maxX == minX {
		return ErrNoExtent
	}
	return nil
}
