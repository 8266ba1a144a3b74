package exr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"
)

// headerAttr is one attribute ready for serialization.
type headerAttr struct {
	name     string
	typeName string
	value    []byte
}

// chunk is one scanline block ready for serialization.
type chunk struct {
	y    int
	data []byte
}

// Encode serializes img into a complete EXR file.
//
// The file is a single-part scanline image with one float channel. Header
// attributes are written in name order, so encoding the same image twice
// yields identical bytes.
func Encode(img *Image) ([]byte, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}

	attrs := standardAttrs(img)
	for _, a := range img.Attributes {
		attrs = append(attrs, encodeAttr(a))
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].name < attrs[j].name })

	var header bytes.Buffer
	for _, a := range attrs {
		header.WriteString(a.name)
		header.WriteByte(0)
		header.WriteString(a.typeName)
		header.WriteByte(0)
		writeInt32(&header, int32(len(a.value)))
		header.Write(a.value)
	}
	header.WriteByte(0)

	chunks, err := packChunks(img)
	if err != nil {
		return nil, err
	}

	payload := 0
	for _, c := range chunks {
		payload += 8 + len(c.data)
	}

	// The offset table holds the absolute file position of every chunk.
	pos := 8 + header.Len() + 8*len(chunks)

	var out bytes.Buffer
	out.Grow(pos + payload)
	writeInt32(&out, magicNumber)
	writeInt32(&out, versionScanline)
	out.Write(header.Bytes())
	for _, c := range chunks {
		writeUint64(&out, uint64(pos))
		pos += 8 + len(c.data)
	}
	for _, c := range chunks {
		writeInt32(&out, int32(c.y))
		writeInt32(&out, int32(len(c.data)))
		out.Write(c.data)
	}
	return out.Bytes(), nil
}

// WriteFile encodes img and writes it to path.
func WriteFile(path string, img *Image) error {
	data, err := Encode(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing EXR file: %w", err)
	}
	return nil
}

// packChunks slices the raster into scanline blocks and compresses each one.
// Blocks that zlib cannot shrink are stored raw, matching OpenEXR behavior.
func packChunks(img *Image) ([]chunk, error) {
	lines := img.Compression.linesPerChunk()
	chunks := make([]chunk, 0, (img.Height+lines-1)/lines)
	for y := 0; y < img.Height; y += lines {
		n := lines
		if y+n > img.Height {
			n = img.Height - y
		}
		raw := make([]byte, n*img.Width*4)
		for i, v := range img.Pixels[y*img.Width : (y+n)*img.Width] {
			binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
		}
		data := raw
		if img.Compression != CompressionNone {
			packed, err := zipPack(raw)
			if err != nil {
				return nil, err
			}
			if len(packed) < len(raw) {
				data = packed
			}
		}
		chunks = append(chunks, chunk{y: y, data: data})
	}
	return chunks, nil
}

// standardAttrs builds the header attributes every scanline file carries.
func standardAttrs(img *Image) []headerAttr {
	var window bytes.Buffer
	writeInt32(&window, 0)
	writeInt32(&window, 0)
	writeInt32(&window, int32(img.Width-1))
	writeInt32(&window, int32(img.Height-1))

	var chlist bytes.Buffer
	chlist.WriteString(img.channelName())
	chlist.WriteByte(0)
	writeInt32(&chlist, pixelTypeFloat)
	chlist.Write([]byte{0, 0, 0, 0}) // pLinear plus reserved bytes
	writeInt32(&chlist, 1)           // xSampling
	writeInt32(&chlist, 1)           // ySampling
	chlist.WriteByte(0)

	var center bytes.Buffer
	writeFloat32(&center, 0)
	writeFloat32(&center, 0)

	var one bytes.Buffer
	writeFloat32(&one, 1)

	return []headerAttr{
		{"channels", "chlist", chlist.Bytes()},
		{"compression", "compression", []byte{byte(img.Compression)}},
		{"dataWindow", "box2i", window.Bytes()},
		{"displayWindow", "box2i", window.Bytes()},
		{"lineOrder", "lineOrder", []byte{0}}, // increasing Y
		{"pixelAspectRatio", "float", one.Bytes()},
		{"screenWindowCenter", "v2f", center.Bytes()},
		{"screenWindowWidth", "float", one.Bytes()},
	}
}

// encodeAttr serializes one caller attribute.
func encodeAttr(a Attribute) headerAttr {
	var buf bytes.Buffer
	switch a.Type {
	case AttrFloat:
		writeFloat32(&buf, a.Float)
	case AttrInt:
		writeInt32(&buf, a.Int)
	case AttrString:
		buf.WriteString(a.Str)
	}
	return headerAttr{name: a.Name, typeName: a.Type.typeName(), value: buf.Bytes()}
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeFloat32(buf *bytes.Buffer, v float32) {
	writeInt32(buf, int32(math.Float32bits(v)))
}
