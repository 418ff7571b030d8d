package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumen-render/lumen/pkg/config"
)

func TestRunRender_WritesPNG(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out", "render.png")

	err := runRender("one-sphere", "", outPath, 32, 18, 1, 4, 7, 2)
	if err != nil {
		t.Fatalf("runRender failed: %v", err)
	}

	file, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 18 {
		t.Errorf("Expected 32x18 image, got %v", img.Bounds())
	}
}

func TestRunRender_UnknownScene(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "render.png")
	if err := runRender("no-such-scene", "", outPath, 32, 18, 1, 4, 7, 1); err == nil {
		t.Error("Expected error for unknown scene")
	}
}

func TestRunRender_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.toml")
	outPath := filepath.Join(dir, "render.png")

	settings := config.Default()
	settings.Width = 16
	settings.Height = 16
	settings.Samples = 1
	settings.MaxDepth = 2
	settings.Seed = 3
	settings.Scene.Preset = "quads"
	if err := config.Save(settingsPath, settings); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := runRender("", settingsPath, outPath, 0, 0, 0, -1, 0, 0); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}

	file, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("Expected 16x16 image, got %v", img.Bounds())
	}
}

func TestRunRender_InvalidDimensions(t *testing.T) {
	// Settings files with invalid values are rejected, not clamped
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.toml")

	content := "width = -5\n\n[scene]\npreset = \"quads\"\n"
	if err := os.WriteFile(settingsPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	outPath := filepath.Join(dir, "render.png")
	if err := runRender("", settingsPath, outPath, 0, 0, 0, -1, 0, 0); err == nil {
		t.Error("Expected validation error for negative width")
	}
}
