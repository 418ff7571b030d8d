package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumen-render/lumen/pkg/config"
	"github.com/lumen-render/lumen/pkg/renderer"
	"github.com/lumen-render/lumen/pkg/scene"
)

func main() {
	sceneName := flag.String("scene", "", "Scene preset (overrides settings file): "+strings.Join(scene.PresetNames(), ", "))
	settingsPath := flag.String("settings", "", "Path to a TOML settings file")
	outPath := flag.String("out", "output.png", "Output PNG path")
	width := flag.Int("width", 0, "Image width (overrides settings file)")
	height := flag.Int("height", 0, "Image height (overrides settings file)")
	samples := flag.Int("samples", 0, "Samples per pixel (overrides settings file)")
	depth := flag.Int("depth", -1, "Maximum ray bounces (overrides settings file)")
	seed := flag.Int64("seed", 0, "Random seed, 0 for time-seeded")
	workers := flag.Int("workers", 0, "Worker count, 0 for one per CPU")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Lumen path tracer")
		fmt.Println("Usage: lumen [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, name := range scene.PresetNames() {
			fmt.Printf("  %s\n", name)
		}
		return
	}

	if err := runRender(*sceneName, *settingsPath, *outPath, *width, *height, *samples, *depth, *seed, *workers); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runRender loads settings, applies flag overrides, renders, and writes a PNG
func runRender(sceneName, settingsPath, outPath string, width, height, samples, depth int, seed int64, workers int) error {
	settings, err := config.Load(settingsPath)
	if err != nil {
		return err
	}

	// Flags beat the settings file
	if sceneName != "" {
		settings.Scene.Preset = sceneName
	}
	if width > 0 {
		settings.Width = width
	}
	if height > 0 {
		settings.Height = height
	}
	if samples > 0 {
		settings.Samples = samples
	}
	if depth >= 0 {
		settings.MaxDepth = depth
	}
	if seed != 0 {
		settings.Seed = seed
	}
	if workers > 0 {
		settings.Workers = workers
	}

	// Presets carry their own camera
	if settings.Scene.Preset != "" {
		preset, err := scene.NewPreset(settings.Scene.Preset)
		if err != nil {
			return err
		}
		settings.Camera = preset.Camera
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	world, err := scene.FromSettings(settings.Scene)
	if err != nil {
		return err
	}

	aspectRatio := float64(settings.Width) / float64(settings.Height)
	camera, err := renderer.NewCamera(renderer.CameraConfigFromSettings(settings.Camera, aspectRatio))
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(world, camera, renderer.ConfigFromSettings(settings), nil)
	if err != nil {
		return err
	}

	img, stats, err := r.Render()
	if err != nil {
		return err
	}
	fmt.Printf("Rendered %d pixels (%d samples) in %v\n", stats.TotalPixels, stats.TotalSamples, stats.Elapsed)

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}

	fmt.Printf("Render saved as %s\n", outPath)
	return nil
}
