// Package level parses the level records heightmaps are generated from.
package level

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tristeng/heightmap/internal/terrain"
)

// ErrMalformed reports a level record missing the pieces a profile needs.
var ErrMalformed = errors.New("malformed level data")

// Point is one polyline vertex. Missing coordinates decode as nil and count
// as 0.
type Point struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// PolyLine is one ground silhouette of a level.
type PolyLine struct {
	Points []Point `json:"points"`
}

// Level mirrors the level record JSON shape. Only the first polyline and the
// optional name are consumed.
type Level struct {
	Name      string     `json:"name"`
	PolyLines []PolyLine `json:"polyLines"`
}

// Parse decodes a level record.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &lvl, nil
}

// ParseFile reads and decodes the level record at path.
func ParseFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	return Parse(data)
}

// Profile extracts the terrain profile from the first polyline, preserving
// input order. Records without a usable polyline fail with ErrMalformed; a
// partial profile is never synthesized.
func (l *Level) Profile() (terrain.Profile, error) {
	if len(l.PolyLines) == 0 {
		return nil, fmt.Errorf("%w: no polylines", ErrMalformed)
	}
	points := l.PolyLines[0].Points
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: first polyline has no points", ErrMalformed)
	}
	profile := make(terrain.Profile, len(points))
	for i, pt := range points {
		profile[i] = terrain.Point{X: coord(pt.X), Y: coord(pt.Y)}
	}
	return profile, nil
}

func coord(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
