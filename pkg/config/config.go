// Package config holds the render settings surface: everything the CLI and
// the web viewer may feed into a render, with eager validation and TOML
// persistence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// RenderSettings contains the full configuration for one render
type RenderSettings struct {
	Width    int   `toml:"width"`
	Height   int   `toml:"height"`
	Samples  int   `toml:"samples"`
	MaxDepth int   `toml:"max_depth"`
	Seed     int64 `toml:"seed"`    // 0 = time-seeded, non-zero = reproducible
	Workers  int   `toml:"workers"` // 0 = one worker per CPU
	TileSize int   `toml:"tile_size"`

	Camera CameraSettings `toml:"camera"`
	Scene  SceneSettings  `toml:"scene"`
}

// CameraSettings describes the virtual camera
type CameraSettings struct {
	LookFrom      [3]float64 `toml:"look_from"`
	LookAt        [3]float64 `toml:"look_at"`
	Up            [3]float64 `toml:"up"`
	VFov          float64    `toml:"vfov"`     // vertical field of view in degrees
	Aperture      float64    `toml:"aperture"` // lens diameter, 0 = pinhole
	FocusDistance float64    `toml:"focus_distance"` // 0 = distance to look_at
}

// SceneSettings selects a named preset or describes objects explicitly.
// When Preset is set it wins and Objects is ignored.
type SceneSettings struct {
	Preset           string           `toml:"preset,omitempty"`
	BackgroundTop    [3]float64       `toml:"background_top"`
	BackgroundBottom [3]float64       `toml:"background_bottom"`
	Objects          []ObjectSettings `toml:"objects,omitempty"`
}

// ObjectSettings describes one primitive. Center/Radius apply to spheres,
// Corner/U/V to quads.
type ObjectSettings struct {
	Shape    string           `toml:"shape"` // "sphere" or "quad"
	Center   [3]float64       `toml:"center"`
	Radius   float64          `toml:"radius"`
	Corner   [3]float64       `toml:"corner"`
	U        [3]float64       `toml:"u"`
	V        [3]float64       `toml:"v"`
	Material MaterialSettings `toml:"material"`
}

// MaterialSettings describes the material attached to one primitive
type MaterialSettings struct {
	Type            string     `toml:"type"` // "lambertian", "metal", "dielectric", "emissive"
	Albedo          [3]float64 `toml:"albedo"`
	Fuzz            float64    `toml:"fuzz"`
	RefractiveIndex float64    `toml:"refractive_index"`
	Emission        [3]float64 `toml:"emission"`
}

// Default returns the default render settings
func Default() RenderSettings {
	return RenderSettings{
		Width:    400,
		Height:   225,
		Samples:  100,
		MaxDepth: 50,
		Seed:     0,
		Workers:  0,
		TileSize: 64,
		Camera: CameraSettings{
			LookFrom:      [3]float64{0, 0, 0},
			LookAt:        [3]float64{0, 0, -1},
			Up:            [3]float64{0, 1, 0},
			VFov:          90.0,
			Aperture:      0.0,
			FocusDistance: 0.0,
		},
		Scene: SceneSettings{
			Preset:           "one-sphere",
			BackgroundTop:    [3]float64{0.5, 0.7, 1.0},
			BackgroundBottom: [3]float64{1.0, 1.0, 1.0},
		},
	}
}

// Validate checks every numeric field before a render may start.
// Invalid configuration is rejected, never clamped.
func (s *RenderSettings) Validate() error {
	if s.Width < 1 {
		return fmt.Errorf("width must be at least 1, got %d", s.Width)
	}
	if s.Height < 1 {
		return fmt.Errorf("height must be at least 1, got %d", s.Height)
	}
	if s.Samples < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", s.Samples)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", s.MaxDepth)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}
	if s.TileSize < 0 {
		return fmt.Errorf("tile_size must be non-negative, got %d", s.TileSize)
	}
	if err := s.Camera.Validate(); err != nil {
		return err
	}
	if s.Scene.Preset == "" && len(s.Scene.Objects) == 0 {
		return errors.New("scene must name a preset or list objects")
	}
	return nil
}

// Validate checks the camera configuration
func (c *CameraSettings) Validate() error {
	if c.VFov <= 0 || c.VFov >= 180 {
		return fmt.Errorf("vfov must be in (0, 180) degrees, got %g", c.VFov)
	}
	if c.LookFrom == c.LookAt {
		return errors.New("look_from and look_at must differ")
	}
	if c.Aperture < 0 {
		return fmt.Errorf("aperture must be non-negative, got %g", c.Aperture)
	}
	if c.FocusDistance < 0 {
		return fmt.Errorf("focus_distance must be non-negative, got %g", c.FocusDistance)
	}
	return nil
}

// Load reads settings from a TOML file. A missing file is not an error;
// defaults are returned instead, matching first-run behavior.
func Load(path string) (RenderSettings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories as needed
func Save(path string, settings RenderSettings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
