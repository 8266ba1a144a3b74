package terrain

import (
	"fmt"
	"sort"
)

// HeightField is a dense row-major grid of elevation samples. Resample
// constructs it once; it is never mutated afterwards.
type HeightField struct {
	Width  int
	Height int

	// Values holds Width*Height samples, row-major, top row first.
	Values []float64
}

// At returns the sample at column x, row y.
// It panics if the coordinates are out of bounds.
func (f *HeightField) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// Resample builds a width-by-height field from a profile.
//
// A copy of the profile is sorted by X, with Y breaking ties so duplicate-X
// knots resolve the same way regardless of input order. Elevations are
// sampled at width evenly spaced positions spanning [minX, maxX] inclusive,
// by piecewise-linear interpolation between knots with clamp extrapolation
// beyond the ends. When the sampled elevations are not all equal, the field
// is rescaled to [0,1] via (v-min)/(max-min); a perfectly flat profile keeps
// its raw elevation so no division by zero occurs.
//
// The profile is a 1D cross-section, so every row receives the identical
// resampled line. Downstream engine importers rely on the flat-row structure;
// do not vary it per row.
func Resample(p Profile, width, height int) (*HeightField, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDegenerateRaster, width, height)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	knots := make(Profile, len(p))
	copy(knots, p)
	sort.Slice(knots, func(i, j int) bool {
		if knots[i].X != knots[j].X {
			return knots[i].X < knots[j].X
		}
		return knots[i].Y < knots[j].Y
	})

	minX := knots[0].X
	maxX := knots[len(knots)-1].X

	row := make([]float64, width)
	var step float64
	if width > 1 {
		step = (maxX - minX) / float64(width-1)
	}
	for i := range row {
		x := minX + float64(i)*step
		if width > 1 && i == width-1 {
			// Pin the final sample to the bound so rounding cannot push it
			// past the last knot.
			x = maxX
		}
		row[i] = interpolate(knots, x)
	}

	normalize(row)

	values := make([]float64, width*height)
	for y := 0; y < height; y++ {
		copy(values[y*width:(y+1)*width], row)
	}
	return &HeightField{Width: width, Height: height, Values: values}, nil
}

// interpolate returns the elevation at x over knots sorted by X. Positions
// beyond the first or last knot clamp to that knot's elevation.
func interpolate(knots Profile, x float64) float64 {
	if x <= knots[0].X {
		return knots[0].Y
	}
	if last := knots[len(knots)-1]; x >= last.X {
		return last.Y
	}

	// First knot strictly right of x; the segment starts one before it.
	hi := sort.Search(len(knots), func(i int) bool { return knots[i].X > x })
	a, b := knots[hi-1], knots[hi]
	t := (x - a.X) / (b.X - a.X)
	return a.Y + t*(b.Y-a.Y)
}

// normalize rescales row to [0,1] in place. A constant row is left unchanged.
func normalize(row []float64) {
	lo, hi := row[0], row[0]
	for _, v := range row[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return
	}
	scale := hi - lo
	for i, v := range row {
		row[i] = (v - lo) / scale
	}
}
