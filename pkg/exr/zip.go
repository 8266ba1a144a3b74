package exr

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// zipPack compresses one chunk of scanline data the way OpenEXR's ZIP and
// ZIPS codecs do: the bytes are split so even-indexed bytes come first and
// odd-indexed bytes follow, a delta predictor is applied, and the result is
// deflated. The caller compares the output size against the input and stores
// the chunk uncompressed when packing did not shrink it.
func zipPack(raw []byte) ([]byte, error) {
	tmp := reorder(raw)

	// Delta predictor: each byte becomes its difference to the previous
	// original byte, biased by 128 and truncated.
	if len(tmp) > 1 {
		p := int(tmp[0])
		for i := 1; i < len(tmp); i++ {
			d := int(tmp[i]) - p + (128 + 256)
			p = int(tmp[i])
			tmp[i] = byte(d)
		}
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(tmp); err != nil {
		return nil, fmt.Errorf("deflating chunk: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("deflating chunk: %w", err)
	}
	return buf.Bytes(), nil
}

// zipUnpack inflates one chunk and reverses the predictor and byte split.
// rawSize is the expected unpacked size; a stream of any other length is an
// error.
func zipUnpack(packed []byte, rawSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("%w: inflating chunk: %v", ErrTruncatedData, err)
	}
	defer zr.Close()

	tmp := make([]byte, rawSize)
	if _, err := io.ReadFull(zr, tmp); err != nil {
		return nil, fmt.Errorf("%w: inflating chunk: %v", ErrTruncatedData, err)
	}
	if n, _ := zr.Read(make([]byte, 1)); n != 0 {
		return nil, fmt.Errorf("%w: chunk larger than declared", ErrTruncatedData)
	}

	for i := 1; i < len(tmp); i++ {
		tmp[i] = byte(int(tmp[i-1]) + int(tmp[i]) - 128)
	}

	out := make([]byte, rawSize)
	half := (rawSize + 1) / 2
	t1, t2 := 0, half
	for i := 0; i < rawSize; {
		out[i] = tmp[t1]
		t1++
		i++
		if i < rawSize {
			out[i] = tmp[t2]
			t2++
			i++
		}
	}
	return out, nil
}

// reorder splits raw into even-indexed bytes followed by odd-indexed bytes.
func reorder(raw []byte) []byte {
	tmp := make([]byte, len(raw))
	half := (len(raw) + 1) / 2
	t1, t2 := 0, half
	for i := 0; i < len(raw); {
		tmp[t1] = raw[i]
		t1++
		i++
		if i < len(raw) {
			tmp[t2] = raw[i]
			t2++
			i++
		}
	}
	return tmp
}
