// Package exr reads and writes single-part scanline OpenEXR images.
//
// The package covers the subset of the format this project produces and
// consumes: one 32-bit float channel, increasing line order, and NONE, ZIPS
// or ZIP compression. Extra header attributes are restricted to float, int
// and string values.
package exr

import (
	"errors"
	"fmt"
)

// EXR format errors.
var (
	ErrInvalidMagic           = errors.New("invalid EXR magic: expected 0x762f3101")
	ErrUnsupportedVersion     = errors.New("unsupported EXR version")
	ErrUnsupportedCompression = errors.New("unsupported EXR compression")
	ErrUnsupportedLayout      = errors.New("unsupported EXR layout")
	ErrMissingAttribute       = errors.New("missing required EXR attribute")
	ErrTruncatedData          = errors.New("truncated EXR data")
	ErrInvalidImage           = errors.New("invalid EXR image")
)

// File layout constants.
const (
	// magicNumber is the OpenEXR magic (20000630), little-endian on disk.
	magicNumber = 0x01312f76

	// versionScanline is the version word for a single-part scanline file.
	versionScanline = 2

	// versionFlagMask covers the tiled, deep and multi-part flag bits, none
	// of which this package supports. The long-names bit (0x400) is harmless
	// to a reader that parses NUL-terminated names and is accepted.
	versionFlagMask = 0x200 | 0x800 | 0x1000

	// maxNameLen is the attribute/channel name limit without the long-names
	// version flag set.
	maxNameLen = 31

	// maxPixels caps decoded image size so a corrupt header cannot trigger
	// an absurd allocation.
	maxPixels = 1 << 27
)

// Pixel type constants from the channel list. Only float is supported.
const (
	pixelTypeUint  = 0
	pixelTypeHalf  = 1
	pixelTypeFloat = 2
)

// Compression identifies the scanline compression scheme.
type Compression uint8

// Compression schemes this package can read and write.
const (
	CompressionNone Compression = 0 // one uncompressed scanline per chunk
	CompressionZIPS Compression = 2 // zlib, one scanline per chunk
	CompressionZIP  Compression = 3 // zlib, 16 scanlines per chunk
)

// String returns a human-readable compression name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZIPS:
		return "zips"
	case CompressionZIP:
		return "zip"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// linesPerChunk returns how many scanlines one chunk holds.
func (c Compression) linesPerChunk() int {
	if c == CompressionZIP {
		return 16
	}
	return 1
}

func (c Compression) supported() bool {
	switch c {
	case CompressionNone, CompressionZIPS, CompressionZIP:
		return true
	}
	return false
}

// AttrType identifies the value type of a header attribute.
type AttrType int

// Attribute value types. The dynamic attribute map of the format is
// deliberately narrowed to these three.
const (
	AttrFloat AttrType = iota
	AttrInt
	AttrString
)

// typeName returns the on-disk type name.
func (t AttrType) typeName() string {
	switch t {
	case AttrFloat:
		return "float"
	case AttrInt:
		return "int"
	case AttrString:
		return "string"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Attribute is a typed header attribute. Exactly one of the value fields is
// meaningful, selected by Type.
type Attribute struct {
	Name  string
	Type  AttrType
	Float float32
	Int   int32
	Str   string
}

// Float returns a float header attribute.
func Float(name string, v float32) Attribute {
	return Attribute{Name: name, Type: AttrFloat, Float: v}
}

// Int returns an int header attribute.
func Int(name string, v int32) Attribute {
	return Attribute{Name: name, Type: AttrInt, Int: v}
}

// String returns a string header attribute.
func String(name, v string) Attribute {
	return Attribute{Name: name, Type: AttrString, Str: v}
}

// Image is a single-channel floating-point raster plus its header attributes.
type Image struct {
	Width  int
	Height int

	// Channel is the pixel channel name. Encode defaults it to "R", the
	// conventional slot engines sample grayscale data from.
	Channel string

	// Pixels holds Width*Height samples, row-major, top line first.
	Pixels []float32

	// Compression selects the chunk scheme used by Encode.
	Compression Compression

	// Attributes carries non-standard header attributes, e.g. physical
	// scale metadata. Decode fills it with the float/int/string attributes
	// found in the file, standard header entries excluded.
	Attributes []Attribute
}

// Attr returns the named attribute.
func (img *Image) Attr(name string) (Attribute, bool) {
	for _, a := range img.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// At returns the sample at pixel (x, y).
// It panics if the coordinates are out of bounds.
func (img *Image) At(x, y int) float32 {
	return img.Pixels[y*img.Width+x]
}

// standardAttrNames lists the header attributes owned by the codec itself.
// Caller attributes must not collide with them, and Decode does not surface
// them through Image.Attributes.
var standardAttrNames = map[string]bool{
	"channels":           true,
	"compression":        true,
	"dataWindow":         true,
	"displayWindow":      true,
	"lineOrder":          true,
	"pixelAspectRatio":   true,
	"screenWindowCenter": true,
	"screenWindowWidth":  true,
}

// validate checks an image before encoding.
func (img *Image) validate() error {
	if img.Width < 1 || img.Height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, img.Width, img.Height)
	}
	if len(img.Pixels) != img.Width*img.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d raster",
			ErrInvalidImage, len(img.Pixels), img.Width, img.Height)
	}
	if !img.Compression.supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedCompression, img.Compression)
	}
	if err := validateName(img.channelName(), "channel"); err != nil {
		return err
	}
	seen := make(map[string]bool, len(img.Attributes))
	for _, a := range img.Attributes {
		if err := validateName(a.Name, "attribute"); err != nil {
			return err
		}
		if standardAttrNames[a.Name] {
			return fmt.Errorf("%w: attribute %q collides with a standard header entry",
				ErrInvalidImage, a.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate attribute %q", ErrInvalidImage, a.Name)
		}
		seen[a.Name] = true
		switch a.Type {
		case AttrFloat, AttrInt, AttrString:
		default:
			return fmt.Errorf("%w: attribute %q has unknown type %d",
				ErrInvalidImage, a.Name, a.Type)
		}
	}
	return nil
}

// channelName returns the channel name, defaulting to "R".
func (img *Image) channelName() string {
	if img.Channel == "" {
		return "R"
	}
	return img.Channel
}

func validateName(name, what string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s name", ErrInvalidImage, what)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: %s name %q exceeds %d bytes", ErrInvalidImage, what, name, maxNameLen)
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return fmt.Errorf("%w: %s name contains NUL", ErrInvalidImage, what)
		}
	}
	return nil
}
