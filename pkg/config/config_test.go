package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	settings := Default()
	if err := settings.Validate(); err != nil {
		t.Errorf("Default settings must validate: %v", err)
	}
}

func TestRenderSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*RenderSettings)
		wantErr bool
	}{
		{name: "Defaults", modify: func(s *RenderSettings) {}},
		{name: "Zero width", modify: func(s *RenderSettings) { s.Width = 0 }, wantErr: true},
		{name: "Negative height", modify: func(s *RenderSettings) { s.Height = -1 }, wantErr: true},
		{name: "Zero samples", modify: func(s *RenderSettings) { s.Samples = 0 }, wantErr: true},
		{name: "Zero depth is valid", modify: func(s *RenderSettings) { s.MaxDepth = 0 }},
		{name: "Negative depth", modify: func(s *RenderSettings) { s.MaxDepth = -1 }, wantErr: true},
		{name: "Negative workers", modify: func(s *RenderSettings) { s.Workers = -1 }, wantErr: true},
		{name: "Negative tile size", modify: func(s *RenderSettings) { s.TileSize = -1 }, wantErr: true},
		{name: "Vfov too large", modify: func(s *RenderSettings) { s.Camera.VFov = 180 }, wantErr: true},
		{name: "Vfov zero", modify: func(s *RenderSettings) { s.Camera.VFov = 0 }, wantErr: true},
		{
			name:    "LookFrom equals LookAt",
			modify:  func(s *RenderSettings) { s.Camera.LookAt = s.Camera.LookFrom },
			wantErr: true,
		},
		{
			name:    "Negative aperture",
			modify:  func(s *RenderSettings) { s.Camera.Aperture = -0.5 },
			wantErr: true,
		},
		{
			name:    "Negative focus distance",
			modify:  func(s *RenderSettings) { s.Camera.FocusDistance = -1 },
			wantErr: true,
		},
		{
			name: "No preset and no objects",
			modify: func(s *RenderSettings) {
				s.Scene.Preset = ""
				s.Scene.Objects = nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Default()
			tt.modify(&settings)
			err := settings.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Missing file should not be an error: %v", err)
	}
	defaults := Default()
	if settings.Width != defaults.Width || settings.Samples != defaults.Samples ||
		settings.Scene.Preset != defaults.Scene.Preset {
		t.Errorf("Missing file should yield default settings, got %+v", settings)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	settings := Default()
	settings.Width = 800
	settings.Height = 600
	settings.Samples = 250
	settings.Seed = 42
	settings.Camera.LookFrom = [3]float64{13, 2, 3}
	settings.Camera.VFov = 20
	settings.Scene.Preset = "many-spheres"

	path := filepath.Join(t.TempDir(), "settings", "render.toml")
	if err := Save(path, settings); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Width != 800 || loaded.Height != 600 || loaded.Samples != 250 || loaded.Seed != 42 {
		t.Errorf("Render fields did not round-trip: %+v", loaded)
	}
	if loaded.Camera.LookFrom != settings.Camera.LookFrom || loaded.Camera.VFov != 20 {
		t.Errorf("Camera fields did not round-trip: %+v", loaded.Camera)
	}
	if loaded.Scene.Preset != "many-spheres" {
		t.Errorf("Scene preset did not round-trip: %q", loaded.Scene.Preset)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	content := "width = 123\n\n[scene]\npreset = \"cornell\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Width != 123 {
		t.Errorf("Width override lost: %d", loaded.Width)
	}
	if loaded.Scene.Preset != "cornell" {
		t.Errorf("Preset override lost: %q", loaded.Scene.Preset)
	}
	// Unspecified fields keep their defaults
	if loaded.Height != Default().Height || loaded.Samples != Default().Samples {
		t.Errorf("Defaults not preserved: %+v", loaded)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("width = \"not a number"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for malformed TOML")
	}
}
