// Package pipeline runs the profile-to-heightmap conversion end to end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tristeng/heightmap/internal/config"
	"github.com/tristeng/heightmap/internal/export"
	"github.com/tristeng/heightmap/internal/fetch"
	"github.com/tristeng/heightmap/internal/level"
	"github.com/tristeng/heightmap/internal/logger"
	"github.com/tristeng/heightmap/internal/terrain"
	"github.com/tristeng/heightmap/pkg/exr"
)

// ErrNoSource reports that neither an input file nor a level identifier was
// selected.
var ErrNoSource = errors.New("no input source selected")

// Options selects the work for one run. Raster parameters come from the
// configuration; Options carries the per-invocation choices.
type Options struct {
	// Source is the level record origin, file or service identifier.
	Source level.Source

	// OutputPath is the raster destination. Empty derives the name from the
	// level, next to the input file or in the working directory.
	OutputPath string

	// Descriptor also writes the scale metadata as JSON next to the raster.
	Descriptor bool

	// PreviewPath, when set, writes an 8-bit PNG preview there.
	PreviewPath string
}

// Result reports what one run produced.
type Result struct {
	OutputPath     string
	DescriptorPath string
	PreviewPath    string
	Width          int
	Height         int
	Points         int
	Metadata       terrain.Metadata
}

// Run converts one level record to a heightmap raster: load or fetch the
// record, extract the profile, plan the raster, resample and write. The
// stages run synchronously and share nothing; every failure is surfaced with
// its cause and nothing is retried.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	var compression exr.Compression
	if format == export.FormatEXR {
		compression, err = export.ParseCompression(cfg.Output.Compression)
		if err != nil {
			return nil, err
		}
	}

	lvl, err := loadLevel(ctx, cfg, opts.Source)
	if err != nil {
		return nil, err
	}

	profile, err := lvl.Profile()
	if err != nil {
		return nil, err
	}
	minX, minY, maxX, maxY := profile.Bounds()
	logger.Info("profile extracted",
		zap.Int("points", len(profile)),
		zap.Float64("deltaX", maxX-minX),
		zap.Float64("deltaY", maxY-minY))

	width, height := terrain.PlanDimensions(profile, cfg.Output.PixelsPerMeter, cfg.Output.Height)
	meta := terrain.PlanMetadata(profile, cfg.Output.PixelsPerMeter)
	logger.Info("planned raster",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("pixelsPerMeter", meta.PixelsPerMeter))
	if meta.TerrainHeight == 0 {
		logger.Warn("profile is flat; field keeps its raw elevation")
	}

	field, err := terrain.Resample(profile, width, height)
	if err != nil {
		return nil, err
	}

	outPath := opts.OutputPath
	if outPath == "" {
		outPath = deriveOutputPath(lvl.Name, opts.Source, format)
	}

	switch format {
	case export.FormatEXR:
		err = export.WriteEXR(outPath, field, meta, compression)
	case export.FormatTIFF:
		err = export.WriteTIFF(outPath, field)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("raster written", zap.String("path", outPath))

	res := &Result{
		OutputPath: outPath,
		Width:      width,
		Height:     height,
		Points:     len(profile),
		Metadata:   meta,
	}

	if opts.Descriptor {
		path := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".json"
		if err := export.WriteDescriptor(path, meta); err != nil {
			return nil, err
		}
		logger.Info("descriptor written", zap.String("path", path))
		res.DescriptorPath = path
	}
	if opts.PreviewPath != "" {
		if err := export.WritePreview(opts.PreviewPath, field); err != nil {
			return nil, err
		}
		logger.Info("preview written", zap.String("path", opts.PreviewPath))
		res.PreviewPath = opts.PreviewPath
	}
	return res, nil
}

// loadLevel resolves the source to a parsed level record.
func loadLevel(ctx context.Context, cfg *config.Config, src level.Source) (*level.Level, error) {
	if path, ok := src.File(); ok {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("input file: %w", err)
		}
		logger.Info("reading level", zap.String("path", path))
		return level.ParseFile(path)
	}
	if id, ok := src.ID(); ok {
		logger.Info("fetching level",
			zap.Int64("id", id),
			zap.String("api", cfg.API.BaseURL))
		client := fetch.New(cfg.API.BaseURL, cfg.API.FetchTimeout)
		return client.Level(ctx, id)
	}
	return nil, ErrNoSource
}

// deriveOutputPath names the raster after the level when no explicit path is
// given: <slug>.<ext> next to the input file, or in the working directory
// for fetched levels. Unnamed levels fall back to heightmap.<ext>.
func deriveOutputPath(name string, src level.Source, format export.Format) string {
	stem := slug(name)
	if stem == "" {
		stem = "heightmap"
	}
	if path, ok := src.File(); ok {
		return filepath.Join(filepath.Dir(path), stem+format.Ext())
	}
	return stem + format.Ext()
}

// slug lowercases a level name and collapses every non-alphanumeric run to a
// single dash.
func slug(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('-')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}
