package exr

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// reader is a bounds-checked cursor over the file bytes.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncatedData, n, r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) int32() (int32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// cstring reads a NUL-terminated string.
func (r *reader) cstring() (string, error) {
	for i := r.pos; i < len(r.data); i++ {
		if r.data[i] == 0 {
			s := string(r.data[r.pos:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unterminated string at offset %d", ErrTruncatedData, r.pos)
}

// header collects what Decode needs from the attribute section.
type header struct {
	channel        string
	compression    Compression
	dataWindow     [4]int32 // xMin, yMin, xMax, yMax
	hasChannels    bool
	hasCompression bool
	hasDataWindow  bool
	attrs          []Attribute
}

// Decode parses a single-part scanline EXR file.
//
// Files must carry exactly one float channel with increasing line order and
// NONE, ZIPS or ZIP compression; anything else is rejected with one of the
// ErrUnsupported errors. Float, int and string header attributes beyond the
// standard set are surfaced through Image.Attributes.
func Decode(data []byte) (*Image, error) {
	r := &reader{data: data}

	magic, err := r.int32()
	if err != nil {
		return nil, err
	}
	if magic != magicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, uint32(magic))
	}
	version, err := r.int32()
	if err != nil {
		return nil, err
	}
	if version&0xff != versionScanline {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version&0xff)
	}
	if version&versionFlagMask != 0 {
		return nil, fmt.Errorf("%w: tiled, deep and multi-part files are not supported",
			ErrUnsupportedVersion)
	}

	h, err := parseHeader(r)
	if err != nil {
		return nil, err
	}
	if !h.hasChannels {
		return nil, fmt.Errorf("%w: channels", ErrMissingAttribute)
	}
	if !h.hasCompression {
		return nil, fmt.Errorf("%w: compression", ErrMissingAttribute)
	}
	if !h.hasDataWindow {
		return nil, fmt.Errorf("%w: dataWindow", ErrMissingAttribute)
	}
	if !h.compression.supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, h.compression)
	}

	xMin, yMin := int(h.dataWindow[0]), int(h.dataWindow[1])
	width := int(h.dataWindow[2]) - xMin + 1
	height := int(h.dataWindow[3]) - yMin + 1
	if width < 1 || height < 1 || width*height > maxPixels {
		return nil, fmt.Errorf("%w: data window %dx%d", ErrInvalidImage, width, height)
	}

	lines := h.compression.linesPerChunk()
	numChunks := (height + lines - 1) / lines
	offsets := make([]uint64, numChunks)
	for i := range offsets {
		b, err := r.bytes(8)
		if err != nil {
			return nil, err
		}
		offsets[i] = binary.LittleEndian.Uint64(b)
	}

	img := &Image{
		Width:       width,
		Height:      height,
		Channel:     h.channel,
		Pixels:      make([]float32, width*height),
		Compression: h.compression,
		Attributes:  h.attrs,
	}
	for i, off := range offsets {
		if off > uint64(len(data)) {
			return nil, fmt.Errorf("%w: chunk %d offset %d out of range", ErrTruncatedData, i, off)
		}
		if err := readChunk(&reader{data: data, pos: int(off)}, img, h, i); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// ReadFile reads and decodes the EXR file at path.
func ReadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading EXR file: %w", err)
	}
	return Decode(data)
}

// parseHeader consumes attributes until the empty name that ends the header.
func parseHeader(r *reader) (*header, error) {
	h := &header{}
	for {
		name, err := r.cstring()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return h, nil
		}
		typeName, err := r.cstring()
		if err != nil {
			return nil, err
		}
		size, err := r.int32()
		if err != nil {
			return nil, err
		}
		value, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}

		switch {
		case name == "channels" && typeName == "chlist":
			h.channel, err = parseChannels(value)
			if err != nil {
				return nil, err
			}
			h.hasChannels = true
		case name == "compression" && typeName == "compression":
			if len(value) != 1 {
				return nil, fmt.Errorf("%w: compression attribute has %d bytes", ErrTruncatedData, len(value))
			}
			h.compression = Compression(value[0])
			h.hasCompression = true
		case name == "dataWindow" && typeName == "box2i":
			if len(value) != 16 {
				return nil, fmt.Errorf("%w: dataWindow attribute has %d bytes", ErrTruncatedData, len(value))
			}
			for i := range h.dataWindow {
				h.dataWindow[i] = int32(binary.LittleEndian.Uint32(value[i*4:]))
			}
			h.hasDataWindow = true
		case name == "lineOrder" && typeName == "lineOrder":
			if len(value) != 1 || value[0] != 0 {
				return nil, fmt.Errorf("%w: only increasing line order is supported", ErrUnsupportedLayout)
			}
		case standardAttrNames[name]:
			// displayWindow, pixelAspectRatio and the screen window entries
			// do not affect the pixel data.
		case typeName == "float":
			if len(value) != 4 {
				return nil, fmt.Errorf("%w: float attribute %q has %d bytes", ErrTruncatedData, name, len(value))
			}
			h.attrs = append(h.attrs, Float(name, math.Float32frombits(binary.LittleEndian.Uint32(value))))
		case typeName == "int":
			if len(value) != 4 {
				return nil, fmt.Errorf("%w: int attribute %q has %d bytes", ErrTruncatedData, name, len(value))
			}
			h.attrs = append(h.attrs, Int(name, int32(binary.LittleEndian.Uint32(value))))
		case typeName == "string":
			h.attrs = append(h.attrs, String(name, string(value)))
		default:
			// Attributes of other types are skipped.
		}
	}
}

// parseChannels extracts the channel name from a chlist value and rejects
// layouts the package cannot represent.
func parseChannels(value []byte) (string, error) {
	r := &reader{data: value}
	var names []string
	for {
		if r.remaining() == 0 {
			return "", fmt.Errorf("%w: unterminated channel list", ErrTruncatedData)
		}
		if r.data[r.pos] == 0 {
			break
		}
		name, err := r.cstring()
		if err != nil {
			return "", err
		}
		pixelType, err := r.int32()
		if err != nil {
			return "", err
		}
		if _, err := r.bytes(4); err != nil { // pLinear plus reserved bytes
			return "", err
		}
		xSampling, err := r.int32()
		if err != nil {
			return "", err
		}
		ySampling, err := r.int32()
		if err != nil {
			return "", err
		}
		if pixelType != pixelTypeFloat {
			return "", fmt.Errorf("%w: channel %q has pixel type %d, want float (%d)",
				ErrUnsupportedLayout, name, pixelType, pixelTypeFloat)
		}
		if xSampling != 1 || ySampling != 1 {
			return "", fmt.Errorf("%w: channel %q is subsampled", ErrUnsupportedLayout, name)
		}
		names = append(names, name)
	}
	if len(names) != 1 {
		return "", fmt.Errorf("%w: %d channels, want exactly one", ErrUnsupportedLayout, len(names))
	}
	return names[0], nil
}

// readChunk decodes chunk idx into the image raster.
func readChunk(r *reader, img *Image, h *header, idx int) error {
	y, err := r.int32()
	if err != nil {
		return err
	}
	size, err := r.int32()
	if err != nil {
		return err
	}

	lines := h.compression.linesPerChunk()
	startLine := idx * lines
	if int(y)-int(h.dataWindow[1]) != startLine {
		return fmt.Errorf("%w: chunk %d starts at scanline %d, want %d",
			ErrTruncatedData, idx, y, int(h.dataWindow[1])+startLine)
	}
	n := lines
	if startLine+n > img.Height {
		n = img.Height - startLine
	}
	rawSize := n * img.Width * 4

	packed, err := r.bytes(int(size))
	if err != nil {
		return err
	}
	var raw []byte
	if h.compression == CompressionNone || int(size) >= rawSize {
		// Chunks at least as large as the raw data are stored uncompressed.
		if int(size) != rawSize {
			return fmt.Errorf("%w: chunk %d payload is %d bytes, want %d",
				ErrTruncatedData, idx, size, rawSize)
		}
		raw = packed
	} else {
		raw, err = zipUnpack(packed, rawSize)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", idx, err)
		}
	}
	for j := 0; j < n*img.Width; j++ {
		img.Pixels[startLine*img.Width+j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[j*4:]))
	}
	return nil
}
