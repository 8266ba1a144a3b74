package exr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ramp returns n samples evenly spaced over [0, 1].
func ramp(n int) []float32 {
	p := make([]float32, n)
	for i := range p {
		p[i] = float32(i) / float32(n-1)
	}
	return p
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		compression Compression
	}{
		{"none", CompressionNone},
		{"zips", CompressionZIPS},
		{"zip", CompressionZIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{
				Width:       4,
				Height:      4,
				Pixels:      ramp(16),
				Compression: tt.compression,
				Attributes: []Attribute{
					Float("ddgPixelsPerMeter", 2),
					Int("levelRevision", 7),
					String("source", "profile"),
				},
			}

			data, err := Encode(img)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if got.Width != 4 || got.Height != 4 {
				t.Errorf("dimensions = %dx%d, want 4x4", got.Width, got.Height)
			}
			if got.Channel != "R" {
				t.Errorf("Channel = %q, want %q", got.Channel, "R")
			}
			if got.Compression != tt.compression {
				t.Errorf("Compression = %v, want %v", got.Compression, tt.compression)
			}
			for i, want := range img.Pixels {
				if got.Pixels[i] != want {
					t.Errorf("Pixels[%d] = %v, want %v", i, got.Pixels[i], want)
				}
			}

			ppm, ok := got.Attr("ddgPixelsPerMeter")
			if !ok || ppm.Type != AttrFloat || ppm.Float != 2 {
				t.Errorf("Attr(ddgPixelsPerMeter) = %+v, %v, want float 2", ppm, ok)
			}
			rev, ok := got.Attr("levelRevision")
			if !ok || rev.Type != AttrInt || rev.Int != 7 {
				t.Errorf("Attr(levelRevision) = %+v, %v, want int 7", rev, ok)
			}
			src, ok := got.Attr("source")
			if !ok || src.Type != AttrString || src.Str != "profile" {
				t.Errorf("Attr(source) = %+v, %v, want string %q", src, ok, "profile")
			}
		})
	}
}

func TestEncodeDecodeMultiChunk(t *testing.T) {
	// 40 scanlines under ZIP span three chunks, the last one short.
	const w, h = 5, 40
	img := &Image{
		Width:       w,
		Height:      h,
		Pixels:      make([]float32, w*h),
		Compression: CompressionZIP,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pixels[y*w+x] = float32(x)*0.25 + float32(y)*1.5
		}
	}

	data, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Width != w || got.Height != h {
		t.Fatalf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, w, h)
	}
	for i, want := range img.Pixels {
		if got.Pixels[i] != want {
			t.Fatalf("Pixels[%d] = %v, want %v", i, got.Pixels[i], want)
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	img := &Image{Width: 4, Height: 4, Pixels: ramp(16), Compression: CompressionZIP}

	data, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if !bytes.Equal(data[:4], []byte{0x76, 0x2f, 0x31, 0x01}) {
		t.Errorf("magic = % x, want 76 2f 31 01", data[:4])
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != 2 {
		t.Errorf("version word = %d, want 2", v)
	}
	// Attributes are written in name order, so channels comes first.
	if !bytes.HasPrefix(data[8:], []byte("channels\x00chlist\x00")) {
		t.Errorf("first attribute = %q, want channels", data[8:24])
	}

	// Encoding is deterministic.
	again, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("Encode() produced different bytes for the same image")
	}

	// No caller attributes were set, so none may surface on decode.
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Attributes) != 0 {
		t.Errorf("Attributes = %+v, want none", got.Attributes)
	}
}

func TestEncodeRawFallback(t *testing.T) {
	// A one-pixel-wide ZIPS image has 4-byte scanline chunks. zlib output is
	// always larger than that, so every chunk must be stored raw and the file
	// ends up the same size as its uncompressed twin.
	img := &Image{
		Width:       1,
		Height:      3,
		Pixels:      []float32{1.5, -2.25, 1e-7},
		Compression: CompressionZIPS,
	}
	zips, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode(zips) error = %v", err)
	}
	img.Compression = CompressionNone
	raw, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode(none) error = %v", err)
	}
	if len(zips) != len(raw) {
		t.Errorf("zips file is %d bytes, raw twin %d; incompressible chunks must be stored raw",
			len(zips), len(raw))
	}

	got, err := Decode(zips)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []float32{1.5, -2.25, 1e-7}
	for i := range want {
		if got.Pixels[i] != want[i] {
			t.Errorf("Pixels[%d] = %v, want %v", i, got.Pixels[i], want[i])
		}
	}
}

func TestEncodeInvalid(t *testing.T) {
	valid := func() *Image {
		return &Image{Width: 2, Height: 2, Pixels: ramp(4), Compression: CompressionZIP}
	}

	tests := []struct {
		name    string
		mutate  func(*Image)
		wantErr error
	}{
		{
			name:    "zero width",
			mutate:  func(img *Image) { img.Width = 0 },
			wantErr: ErrInvalidImage,
		},
		{
			name:    "pixel count mismatch",
			mutate:  func(img *Image) { img.Pixels = img.Pixels[:3] },
			wantErr: ErrInvalidImage,
		},
		{
			name:    "rle compression",
			mutate:  func(img *Image) { img.Compression = Compression(1) },
			wantErr: ErrUnsupportedCompression,
		},
		{
			name:    "unknown compression",
			mutate:  func(img *Image) { img.Compression = Compression(7) },
			wantErr: ErrUnsupportedCompression,
		},
		{
			name:    "attribute shadows standard entry",
			mutate:  func(img *Image) { img.Attributes = []Attribute{Float("compression", 1)} },
			wantErr: ErrInvalidImage,
		},
		{
			name: "duplicate attribute",
			mutate: func(img *Image) {
				img.Attributes = []Attribute{Int("rev", 1), Int("rev", 2)}
			},
			wantErr: ErrInvalidImage,
		},
		{
			name:    "attribute name with NUL",
			mutate:  func(img *Image) { img.Attributes = []Attribute{Int("a\x00b", 1)} },
			wantErr: ErrInvalidImage,
		},
		{
			name: "attribute name too long",
			mutate: func(img *Image) {
				img.Attributes = []Attribute{Int("abcdefghijklmnopqrstuvwxyz012345", 1)}
			},
			wantErr: ErrInvalidImage,
		},
		{
			name:    "channel name with NUL",
			mutate:  func(img *Image) { img.Channel = "Y\x00" },
			wantErr: ErrInvalidImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := valid()
			tt.mutate(img)
			if _, err := Encode(img); !errors.Is(err, tt.wantErr) {
				t.Errorf("Encode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeRejectsUnsupported(t *testing.T) {
	img := &Image{Width: 4, Height: 4, Pixels: ramp(16), Compression: CompressionZIP}
	full, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// locate finds the value offset of a fixed-layout header attribute.
	locate := func(t *testing.T, data []byte, marker string) int {
		t.Helper()
		idx := bytes.Index(data, []byte(marker))
		if idx < 0 {
			t.Fatalf("marker %q not found in encoded file", marker)
		}
		return idx + len(marker) + 4 // skip the size field
	}

	tests := []struct {
		name    string
		mutate  func(t *testing.T, data []byte)
		wantErr error
	}{
		{
			name:    "bad magic",
			mutate:  func(t *testing.T, data []byte) { data[0] ^= 0xff },
			wantErr: ErrInvalidMagic,
		},
		{
			name:    "bad version",
			mutate:  func(t *testing.T, data []byte) { data[4] = 3 },
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "tiled flag",
			mutate:  func(t *testing.T, data []byte) { data[5] |= 0x02 },
			wantErr: ErrUnsupportedVersion,
		},
		{
			name: "rle compression",
			mutate: func(t *testing.T, data []byte) {
				data[locate(t, data, "compression\x00compression\x00")] = 1
			},
			wantErr: ErrUnsupportedCompression,
		},
		{
			name: "decreasing line order",
			mutate: func(t *testing.T, data []byte) {
				data[locate(t, data, "lineOrder\x00lineOrder\x00")] = 1
			},
			wantErr: ErrUnsupportedLayout,
		},
		{
			name: "half pixel type",
			mutate: func(t *testing.T, data []byte) {
				// The chlist value starts with the channel name "R\x00";
				// the pixel type follows it.
				data[locate(t, data, "channels\x00chlist\x00")+2] = 1
			},
			wantErr: ErrUnsupportedLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte(nil), full...)
			tt.mutate(t, data)
			if _, err := Decode(data); !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	img := &Image{
		Width:       4,
		Height:      4,
		Pixels:      ramp(16),
		Compression: CompressionZIP,
		Attributes:  []Attribute{Float("ddgPixelsPerMeter", 1)},
	}
	full, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	cuts := []int{0, 3, 7, 40, len(full) - 9, len(full) - 1}
	for _, n := range cuts {
		if _, err := Decode(full[:n]); !errors.Is(err, ErrTruncatedData) {
			t.Errorf("Decode(%d of %d bytes) error = %v, want %v", n, len(full), err, ErrTruncatedData)
		}
	}
}

func TestWriteReadFile(t *testing.T) {
	img := &Image{
		Width:       4,
		Height:      2,
		Pixels:      ramp(8),
		Compression: CompressionZIP,
		Attributes:  []Attribute{Float("ddgTerrainWidth", 12.5)},
	}

	path := filepath.Join(t.TempDir(), "out.exr")
	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.Width != img.Width || got.Height != img.Height {
		t.Errorf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, img.Width, img.Height)
	}
	for i, want := range img.Pixels {
		if got.Pixels[i] != want {
			t.Errorf("Pixels[%d] = %v, want %v", i, got.Pixels[i], want)
		}
	}
	if a, ok := got.Attr("ddgTerrainWidth"); !ok || a.Float != 12.5 {
		t.Errorf("Attr(ddgTerrainWidth) = %+v, %v, want float 12.5", a, ok)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.exr")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want not-exist", err)
	}

	// An invalid image must not produce a file.
	bad := &Image{Width: 0, Height: 0, Compression: CompressionZIP}
	badPath := filepath.Join(t.TempDir(), "bad.exr")
	if err := WriteFile(badPath, bad); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("WriteFile(invalid) error = %v, want %v", err, ErrInvalidImage)
	}
	if _, err := os.Stat(badPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("WriteFile(invalid) left a file behind")
	}
}
