// Package config handles tool configuration loading and management.
package config

import (
	"time"

	"github.com/tristeng/heightmap/internal/fetch"
)

// Config holds all generator settings.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds level service settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// OutputConfig holds raster generation settings.
type OutputConfig struct {
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
	Height         int     `yaml:"height"`
	Format         string  `yaml:"format"`      // exr or tiff
	Compression    string  `yaml:"compression"` // zip, zips or none
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      fetch.DefaultBaseURL,
			FetchTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			PixelsPerMeter: 1.0,
			Height:         1024,
			Format:         "exr",
			Compression:    "zip",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
