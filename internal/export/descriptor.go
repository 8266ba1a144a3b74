package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tristeng/heightmap/internal/terrain"
)

// WriteDescriptor writes the scale metadata to path as a small JSON document
// mirroring the EXR header attribute names.
func WriteDescriptor(path string, meta terrain.Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding descriptor: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing descriptor to %s: %w", path, err)
	}
	return nil
}
