package export

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/tristeng/heightmap/internal/terrain"
)

// WritePreview writes an 8-bit grayscale PNG of the height field for quick
// visual inspection. Samples are clamped to [0,1] before quantization.
func WritePreview(path string, f *terrain.HeightField) error {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.Pix[y*img.Stride+x] = uint8(clamp01(f.At(x, y))*255 + 0.5)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating preview file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
