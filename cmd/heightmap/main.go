// Package main is the entry point for the heightmap generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tristeng/heightmap/internal/config"
	"github.com/tristeng/heightmap/internal/level"
	"github.com/tristeng/heightmap/internal/logger"
	"github.com/tristeng/heightmap/internal/pipeline"
)

var (
	flagInput      = flag.String("input", "", "Path to a level JSON file")
	flagID         = flag.Int64("id", 0, "Level identifier to fetch from the service")
	flagOutput     = flag.String("o", "", "Output path (default: derived from the level name)")
	flagDescriptor = flag.Bool("descriptor", false, "Also write the scale metadata as JSON")
	flagPreview    = flag.String("preview", "", "Also write an 8-bit PNG preview to this path")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *flagSaveConfig {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		return
	}

	source, err := resolveSource(*flagInput, *flagID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	logger.Sugar.Debugf("Config: %+v", cfg)

	res, err := pipeline.Run(context.Background(), cfg, pipeline.Options{
		Source:      source,
		OutputPath:  *flagOutput,
		Descriptor:  *flagDescriptor,
		PreviewPath: *flagPreview,
	})
	if err != nil {
		logger.Error("heightmap generation failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("done",
		zap.String("output", res.OutputPath),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	// The raster path goes to stdout so scripts can capture it.
	fmt.Println(res.OutputPath)
}

// resolveSource enforces that exactly one of -input and -id is set.
func resolveSource(input string, id int64) (level.Source, error) {
	switch {
	case input != "" && id != 0:
		return level.Source{}, errors.New("-input and -id are mutually exclusive")
	case input != "":
		return level.FromFile(input), nil
	case id != 0:
		return level.FromID(id), nil
	default:
		return level.Source{}, errors.New("one of -input or -id is required")
	}
}
