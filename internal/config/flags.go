package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagAPI         = flag.String("api", "", "Level service base URL")
	flagPPM         = flag.Float64("ppm", 0, "Pixels per meter for the raster width")
	flagHeight      = flag.Int("height", 0, "Raster height in pixels")
	flagFormat      = flag.String("format", "", "Output format (exr or tiff)")
	flagCompression = flag.String("compression", "", "EXR compression (zip, zips or none)")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAPI != "" {
		cfg.API.BaseURL = *flagAPI
	}
	if *flagPPM > 0 {
		cfg.Output.PixelsPerMeter = *flagPPM
	}
	if *flagHeight > 0 {
		cfg.Output.Height = *flagHeight
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagCompression != "" {
		cfg.Output.Compression = *flagCompression
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
