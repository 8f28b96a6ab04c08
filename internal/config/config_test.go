package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.Concurrency)
	}
	if cfg.Timeline.MinDuration != 60 {
		t.Errorf("expected min duration 60, got %v", cfg.Timeline.MinDuration)
	}
	if cfg.Render.AudioRate != 44100 {
		t.Errorf("expected audio rate 44100, got %d", cfg.Render.AudioRate)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("expected local storage default, got %s", cfg.Storage.Backend)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("concurrency: 8\nrender:\n  frame_rate: 24\nstorage:\n  backend: s3\n  s3_bucket: renders\n")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Concurrency)
	}
	if cfg.Render.FrameRate != 24 {
		t.Errorf("expected frame rate 24, got %v", cfg.Render.FrameRate)
	}
	if cfg.Storage.Backend != "s3" || cfg.Storage.S3Bucket != "renders" {
		t.Errorf("storage not loaded: %+v", cfg.Storage)
	}
	// untouched fields keep defaults
	if cfg.Render.AudioRate != 44100 {
		t.Errorf("defaults must survive partial files, got %d", cfg.Render.AudioRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("S3_BUCKET", "override-bucket")
	t.Setenv("MONTAGE_CONCURRENCY", "2")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Storage.S3Bucket != "override-bucket" {
		t.Errorf("env override ignored: %s", cfg.Storage.S3Bucket)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("env override ignored: %d", cfg.Concurrency)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := defaultConfig()
	cfg.Concurrency = 12
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Concurrency != 12 {
		t.Errorf("round trip lost concurrency: %d", loaded.Concurrency)
	}
}
