package export

import (
	"github.com/tristeng/heightmap/internal/terrain"
	"github.com/tristeng/heightmap/pkg/exr"
)

// EXR attribute names for the terrain scale metadata. The ddg prefix keeps
// them clear of standard header attributes.
const (
	AttrTerrainWidth   = "ddgTerrainWidth"
	AttrTerrainHeight  = "ddgTerrainHeight"
	AttrPixelsPerMeter = "ddgPixelsPerMeter"
)

// EXRImage converts a height field and its scale metadata to an EXR image.
// Samples are stored as raw float32, without clamping, so an unnormalized
// flat field keeps its elevation.
func EXRImage(f *terrain.HeightField, meta terrain.Metadata, c exr.Compression) *exr.Image {
	pixels := make([]float32, len(f.Values))
	for i, v := range f.Values {
		pixels[i] = float32(v)
	}
	return &exr.Image{
		Width:       f.Width,
		Height:      f.Height,
		Channel:     "R",
		Pixels:      pixels,
		Compression: c,
		Attributes: []exr.Attribute{
			exr.Float(AttrTerrainWidth, float32(meta.TerrainWidth)),
			exr.Float(AttrTerrainHeight, float32(meta.TerrainHeight)),
			exr.Float(AttrPixelsPerMeter, float32(meta.PixelsPerMeter)),
		},
	}
}

// WriteEXR writes the height field to path as a single-channel EXR with the
// scale metadata on the header, overwriting any existing file.
func WriteEXR(path string, f *terrain.HeightField, meta terrain.Metadata, c exr.Compression) error {
	return exr.WriteFile(path, EXRImage(f, meta, c))
}
