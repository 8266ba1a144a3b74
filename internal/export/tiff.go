package export

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/tiff"

	"github.com/tristeng/heightmap/internal/terrain"
)

// WriteTIFF writes the height field to path as a deflate-compressed 16-bit
// grayscale TIFF, overwriting any existing file. Samples are clamped to
// [0,1] before quantization. Baseline TIFF has no slot for the scale
// metadata; pair the file with WriteDescriptor.
func WriteTIFF(path string, f *terrain.HeightField) error {
	img := image.NewGray16(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			g := uint16(clamp01(f.At(x, y))*65535 + 0.5)
			img.SetGray16(x, y, color.Gray16{Y: g})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating TIFF file: %w", err)
	}
	defer file.Close()

	opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
	if err := tiff.Encode(file, img, opts); err != nil {
		return fmt.Errorf("encoding TIFF: %w", err)
	}
	return nil
}
