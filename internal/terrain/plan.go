package terrain

// Metadata captures the physical scale of a planned raster: the profile
// bounding box extents in meters plus the resolution factor. It is computed
// once at plan time and attached to the output image header and the optional
// companion descriptor. The JSON keys match the image attribute names.
type Metadata struct {
	TerrainWidth   float64 `json:"ddgTerrainWidth"`
	TerrainHeight  float64 `json:"ddgTerrainHeight"`
	PixelsPerMeter float64 `json:"ddgPixelsPerMeter"`
}

// PlanDimensions derives the raster width from the profile's horizontal
// extent: extent in meters times pixelsPerMeter, truncated. Height passes
// through untouched, keeping vertical resolution caller-controlled while
// horizontal resolution tracks real-world scale.
//
// A profile with no horizontal extent plans a zero width. Resample rejects
// such dimensions; the planner itself does not.
func PlanDimensions(p Profile, pixelsPerMeter float64, height int) (int, int) {
	minX, _, maxX, _ := p.Bounds()
	width := int((maxX - minX) * pixelsPerMeter)
	return width, height
}

// PlanMetadata computes the scale metadata for a profile at the given
// resolution.
func PlanMetadata(p Profile, pixelsPerMeter float64) Metadata {
	minX, minY, maxX, maxY := p.Bounds()
	return Metadata{
		TerrainWidth:   maxX - minX,
		TerrainHeight:  maxY - minY,
		PixelsPerMeter: pixelsPerMeter,
	}
}
