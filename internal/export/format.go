// Package export writes height fields to image containers and companion
// files.
package export

import (
	"errors"
	"fmt"

	"github.com/tristeng/heightmap/pkg/exr"
)

// Config mapping errors.
var (
	ErrUnknownFormat      = errors.New("unknown output format")
	ErrUnknownCompression = errors.New("unknown EXR compression")
)

// Format selects the raster container.
type Format string

// Supported raster containers.
const (
	FormatEXR  Format = "exr"  // float32 scanline EXR, metadata on the header
	FormatTIFF Format = "tiff" // 16-bit grayscale TIFF, metadata via descriptor
)

// ParseFormat maps a config string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatEXR, FormatTIFF:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the format's file extension, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseCompression maps a config string to an EXR compression scheme.
func ParseCompression(s string) (exr.Compression, error) {
	switch s {
	case "zip":
		return exr.CompressionZIP, nil
	case "zips":
		return exr.CompressionZIPS, nil
	case "none":
		return exr.CompressionNone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

// clamp01 limits v to [0,1] for the quantizing writers. Flat profiles skip
// normalization, so samples outside the unit range are possible.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
