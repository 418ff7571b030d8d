// Package renderer drives a render: it partitions the image into tiles,
// fans them out to a worker pool, and assembles the final image with
// tone mapping applied.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/lumen-render/lumen/pkg/config"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/integrator"
)

// Config holds the renderer parameters
type Config struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	NumWorkers      int   // 0 = one worker per CPU
	TileSize        int   // 0 = default tile size
	Seed            int64 // 0 = time-seeded, non-zero = reproducible output
}

// DefaultConfig returns the default renderer configuration
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumWorkers:      0,
		TileSize:        64,
	}
}

// ConfigFromSettings converts persisted render settings into a renderer config
func ConfigFromSettings(settings config.RenderSettings) Config {
	return Config{
		Width:           settings.Width,
		Height:          settings.Height,
		SamplesPerPixel: settings.Samples,
		MaxDepth:        settings.MaxDepth,
		NumWorkers:      settings.Workers,
		TileSize:        settings.TileSize,
		Seed:            settings.Seed,
	}
}

// Validate checks the configuration. Invalid values are rejected, never
// silently adjusted.
func (c *Config) Validate() error {
	if c.Width < 1 {
		return fmt.Errorf("width must be at least 1, got %d", c.Width)
	}
	if c.Height < 1 {
		return fmt.Errorf("height must be at least 1, got %d", c.Height)
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be non-negative, got %d", c.MaxDepth)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("worker count must be non-negative, got %d", c.NumWorkers)
	}
	if c.TileSize < 0 {
		return fmt.Errorf("tile size must be non-negative, got %d", c.TileSize)
	}
	return nil
}

// RenderStats summarizes a completed render
type RenderStats struct {
	TotalPixels  int
	TotalSamples int
	Elapsed      time.Duration
}

// TileEvent reports progress after each completed tile. Image is the shared
// output image; only pixels of completed tiles are meaningful in it.
type TileEvent struct {
	Bounds         image.Rectangle
	Image          *image.RGBA
	CompletedTiles int
	TotalTiles     int
	Elapsed        time.Duration
}

// Renderer coordinates tile-parallel rendering of a scene
type Renderer struct {
	scene      integrator.Scene
	camera     *Camera
	integrator *integrator.PathTracer
	config     Config
	logger     core.Logger
}

// NewRenderer creates a renderer for the given scene and camera
func NewRenderer(scene integrator.Scene, camera *Camera, cfg Config, logger core.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}
	if cfg.TileSize == 0 {
		cfg.TileSize = 64
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Renderer{
		scene:      scene,
		camera:     camera,
		integrator: integrator.NewPathTracer(),
		config:     cfg,
		logger:     logger,
	}, nil
}

// Render renders the full image and returns it with summary statistics
func (r *Renderer) Render() (*image.RGBA, RenderStats, error) {
	return r.RenderWithEvents(nil)
}

// RenderWithEvents renders the full image, sending a TileEvent on the
// channel after each completed tile. A nil channel disables events.
// The channel is not closed; the caller owns it.
func (r *Renderer) RenderWithEvents(events chan<- TileEvent) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()

	baseSeed := r.config.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	tiles := NewTileGrid(r.config.Width, r.config.Height, r.config.TileSize, baseSeed)
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))

	pool := NewWorkerPool(r.config.NumWorkers, len(tiles), func(tile Tile) int {
		return r.renderTile(tile, img)
	})

	r.logger.Printf("Rendering %dx%d, %d samples/pixel, %d tiles, %d workers\n",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, len(tiles), pool.NumWorkers())

	pool.Start()
	for _, tile := range tiles {
		pool.Submit(tile)
	}
	pool.Stop()

	stats := RenderStats{TotalPixels: r.config.Width * r.config.Height}
	completed := 0
	for result := range pool.Results() {
		completed++
		stats.TotalSamples += result.Samples

		if events != nil {
			events <- TileEvent{
				Bounds:         result.Tile.Bounds,
				Image:          img,
				CompletedTiles: completed,
				TotalTiles:     len(tiles),
				Elapsed:        time.Since(startTime),
			}
		}
	}

	stats.Elapsed = time.Since(startTime)
	r.logger.Printf("Render complete: %d pixels, %d samples in %v\n",
		stats.TotalPixels, stats.TotalSamples, stats.Elapsed)

	return img, stats, nil
}

// renderTile renders every pixel of one tile into the shared image.
// The tile's bounds are disjoint from all other tiles, so the writes
// need no synchronization. Returns the number of samples taken.
func (r *Renderer) renderTile(tile Tile, img *image.RGBA) int {
	random := rand.New(rand.NewSource(tile.Seed))
	sampler := core.NewRandomSampler(random)

	width := float64(r.config.Width)
	height := float64(r.config.Height)
	samples := 0

	for j := tile.Bounds.Min.Y; j < tile.Bounds.Max.Y; j++ {
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			pixelColor := core.NewVec3(0, 0, 0)

			for s := 0; s < r.config.SamplesPerPixel; s++ {
				// Jitter within the pixel; image row 0 is the top of the frame
				u := (float64(i) + random.Float64()) / width
				v := 1.0 - (float64(j)+random.Float64())/height

				ray := r.camera.GetRay(u, v, sampler)
				pixelColor = pixelColor.Add(r.integrator.RayColor(ray, r.scene, sampler, r.config.MaxDepth))
			}
			samples += r.config.SamplesPerPixel

			average := pixelColor.Multiply(1.0 / float64(r.config.SamplesPerPixel))
			img.SetRGBA(i, j, toneMap(average))
		}
	}

	return samples
}

// toneMap converts a linear radiance value to an 8-bit display color:
// gamma 2.0 correction, then clamp to [0,1] before quantization
func toneMap(c core.Vec3) color.RGBA {
	mapped := c.GammaCorrect(2.0).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(mapped.X * 255.0),
		G: uint8(mapped.Y * 255.0),
		B: uint8(mapped.Z * 255.0),
		A: 255,
	}
}

// DefaultLogger writes render progress to stderr
type DefaultLogger struct {
	logger *log.Logger
}

// NewDefaultLogger creates a logger that writes to stderr
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// Printf logs a formatted message
func (l *DefaultLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(format, args...)
}
