// exrinfo is a CLI utility for inspecting heightmap EXR files.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/tristeng/heightmap/internal/export"
	"github.com/tristeng/heightmap/internal/terrain"
	"github.com/tristeng/heightmap/pkg/exr"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "attrs", "ls":
		cmdAttrs(args)
	case "stats":
		cmdStats(args)
	case "preview", "png":
		cmdPreview(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`exrinfo - heightmap EXR inspection utility

Usage:
  exrinfo <command> [options]

Commands:
  info <file.exr>               Show image and header information
  attrs <file.exr>              List custom header attributes
  stats <file.exr>              Print sample statistics
  preview <file.exr> <out.png>  Write a range-stretched 8-bit preview

Examples:
  exrinfo info alpine-run.exr
  exrinfo stats alpine-run.exr
  exrinfo preview alpine-run.exr alpine-run.png`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: exrinfo info <file.exr>")
		os.Exit(1)
	}

	fi, err := os.Stat(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	img, err := exr.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:        %s\n", args[0])
	fmt.Printf("Size:        %d bytes\n", fi.Size())
	fmt.Printf("Dimensions:  %d x %d\n", img.Width, img.Height)
	fmt.Printf("Channel:     %s\n", img.Channel)
	fmt.Printf("Compression: %s\n", img.Compression)
	fmt.Printf("Attributes:  %d\n", len(img.Attributes))
	if len(img.Attributes) > 0 {
		fmt.Println()
		printAttrs(img.Attributes)
	}
}

func cmdAttrs(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: exrinfo attrs <file.exr>")
		os.Exit(1)
	}

	img, err := exr.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(img.Attributes) == 0 {
		fmt.Fprintln(os.Stderr, "No custom attributes")
		return
	}
	printAttrs(img.Attributes)
}

func cmdStats(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: exrinfo stats <file.exr>")
		os.Exit(1)
	}

	img, err := exr.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lo, hi := img.Pixels[0], img.Pixels[0]
	var sum float64
	for _, v := range img.Pixels {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += float64(v)
	}

	fmt.Printf("Samples: %d\n", len(img.Pixels))
	fmt.Printf("Min:     %g\n", lo)
	fmt.Printf("Max:     %g\n", hi)
	fmt.Printf("Mean:    %g\n", sum/float64(len(img.Pixels)))
}

func cmdPreview(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: exrinfo preview <file.exr> <out.png>")
		os.Exit(1)
	}

	img, err := exr.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Stretch to the full sample range so low-relief rasters stay visible.
	values := make([]float64, len(img.Pixels))
	lo, hi := float64(img.Pixels[0]), float64(img.Pixels[0])
	for _, v := range img.Pixels {
		if float64(v) < lo {
			lo = float64(v)
		}
		if float64(v) > hi {
			hi = float64(v)
		}
	}
	for i, v := range img.Pixels {
		if hi > lo {
			values[i] = (float64(v) - lo) / (hi - lo)
		} else {
			values[i] = float64(v)
		}
	}

	field := &terrain.HeightField{Width: img.Width, Height: img.Height, Values: values}
	if err := export.WritePreview(args[1], field); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Preview: %s (%dx%d)\n", args[1], img.Width, img.Height)
}

func printAttrs(attrs []exr.Attribute) {
	sorted := make([]exr.Attribute, len(attrs))
	copy(sorted, attrs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	width := 0
	for _, a := range sorted {
		if len(a.Name) > width {
			width = len(a.Name)
		}
	}
	for _, a := range sorted {
		fmt.Printf("  %-*s = %s\n", width, a.Name, attrValue(a))
	}
}

func attrValue(a exr.Attribute) string {
	switch a.Type {
	case exr.AttrFloat:
		return strconv.FormatFloat(float64(a.Float), 'g', -1, 32)
	case exr.AttrInt:
		return strconv.FormatInt(int64(a.Int), 10)
	case exr.AttrString:
		return strconv.Quote(a.Str)
	}
	return "?"
}
