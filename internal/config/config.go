package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	WorkDir     string `yaml:"work_dir"`
	TempDir     string `yaml:"temp_dir"`
	Concurrency int    `yaml:"concurrency"`

	Timeline TimelineConfig `yaml:"timeline"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Render   RenderConfig   `yaml:"render"`
	Storage  StorageConfig  `yaml:"storage"`
}

type TimelineConfig struct {
	// MinDuration floors an emptied timeline's duration
	MinDuration float64 `yaml:"min_duration"`
}

type FFmpegConfig struct {
	Threads int    `yaml:"threads"`
	Preset  string `yaml:"preset"`
}

type RenderConfig struct {
	FrameRate   float64 `yaml:"frame_rate"`
	PixelFormat string  `yaml:"pixel_format"`
	AudioRate   int     `yaml:"audio_rate"`
	// ThumbnailOffset is where the output thumbnail frame is sampled
	ThumbnailOffset float64 `yaml:"thumbnail_offset"`
	ThumbnailWidth  int     `yaml:"thumbnail_width"`
	ThumbnailHeight int     `yaml:"thumbnail_height"`
}

type StorageConfig struct {
	// Backend selects "local" or "s3"
	Backend string `yaml:"backend" env:"STORAGE_BACKEND"`

	LocalDir     string `yaml:"local_dir"`
	LocalBaseURL string `yaml:"local_base_url"`

	S3Bucket    string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3Region    string `yaml:"s3_region" env:"S3_REGION"`
	S3BaseURL   string `yaml:"s3_base_url" env:"S3_BASE_URL"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Load reads configuration from file or returns defaults. A .env file in
// the working directory is applied to the environment first; selected
// fields may then be overridden via environment variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		WorkDir:     "./work",
		TempDir:     os.TempDir(),
		Concurrency: 4,
		Timeline: TimelineConfig{
			MinDuration: 60,
		},
		FFmpeg: FFmpegConfig{
			Threads: 0,
			Preset:  "medium",
		},
		Render: RenderConfig{
			FrameRate:       30,
			PixelFormat:     "yuv420p",
			AudioRate:       44100,
			ThumbnailOffset: 1,
			ThumbnailWidth:  640,
			ThumbnailHeight: 360,
		},
		Storage: StorageConfig{
			Backend:      "local",
			LocalDir:     "./output",
			LocalBaseURL: "file://output",
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Storage.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.Storage.S3Region = v
	}
	if v := os.Getenv("S3_BASE_URL"); v != "" {
		cfg.Storage.S3BaseURL = v
	}
	if v := os.Getenv("MONTAGE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".montage", "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
