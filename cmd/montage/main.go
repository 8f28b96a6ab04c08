package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sableview/montage/internal/config"
	"github.com/sableview/montage/internal/ffmpeg"
	"github.com/sableview/montage/internal/logging"
	"github.com/sableview/montage/internal/media"
	"github.com/sableview/montage/internal/project"
	"github.com/sableview/montage/internal/render"
	"github.com/sableview/montage/internal/storage"
	"github.com/sableview/montage/pkg/util"
)

var (
	cfgFile string
	verbose bool

	assetsDir   string
	metricsAddr string

	renderFormat  string
	renderQuality string
	renderCodec   string

	thumbOffset float64
	thumbWidth  int
	thumbHeight int
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "montage",
	Short: "montage - timeline-based video composition and rendering",
	Long:  "A timeline composition engine that places, trims, cuts and renders video clips through ffmpeg.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.montage/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	renderCmd.Flags().StringVar(&assetsDir, "assets", "", "directory holding source assets (default: work dir)")
	renderCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose prometheus metrics on this address while rendering")
	renderCmd.Flags().StringVar(&renderFormat, "format", "", "output container (mp4, webm, mov, gif)")
	renderCmd.Flags().StringVar(&renderQuality, "quality", "", "quality tier (low, medium, high, ultra)")
	renderCmd.Flags().StringVar(&renderCodec, "codec", "", "video codec (h264, h265, vp9, av1)")

	thumbnailCmd.Flags().Float64Var(&thumbOffset, "offset", 1, "seek offset in seconds")
	thumbnailCmd.Flags().IntVar(&thumbWidth, "width", 640, "thumbnail width")
	thumbnailCmd.Flags().IntVar(&thumbHeight, "height", 0, "thumbnail height (0 scales proportionally)")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(thumbnailCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(configCmd)
}

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Asset management commands",
}

var assetFetchCmd = &cobra.Command{
	Use:   "fetch [url] [name]",
	Short: "Download a remote source into the asset directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		dest := filepath.Join(cfg.WorkDir, args[1])
		if err := util.EnsureDir(cfg.WorkDir); err != nil {
			return err
		}
		if err := media.Download(cmd.Context(), args[0], dest); err != nil {
			return err
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}
		meta, err := exec.Probe(cmd.Context(), dest)
		if err != nil {
			return err
		}

		log.Info().
			Str("asset", args[1]).
			Str("duration", util.FormatSeconds(meta.Duration)).
			Str("codec", meta.Codec).
			Msg("asset fetched")
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Inspect a media file's technical metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		meta, err := exec.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		log.Info().
			Str("file", args[0]).
			Str("duration", util.FormatSeconds(meta.Duration)).
			Int("width", meta.Width).
			Int("height", meta.Height).
			Str("codec", meta.Codec).
			Float64("fps", meta.FrameRate).
			Bool("audio", meta.HasAudio).
			Msg("probe complete")

		return nil
	},
}

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail [media file] [output image]",
	Short: "Extract a single frame as a thumbnail",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		err = exec.Thumbnail(cmd.Context(), ffmpeg.ThumbnailOptions{
			Input:  args[0],
			Output: args[1],
			Offset: thumbOffset,
			Width:  thumbWidth,
			Height: thumbHeight,
		})
		if err != nil {
			return err
		}

		log.Info().Str("output", args[1]).Msg("thumbnail written")
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [project id]",
	Short: "Render a project's timeline to its output format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if metricsAddr != "" {
			go serveMetrics(metricsAddr)
		}

		store, err := projectStore(cfg)
		if err != nil {
			return err
		}
		proj, err := store.Load(args[0])
		if err != nil {
			return err
		}

		settings := proj.Settings
		if renderFormat != "" {
			settings.Format = render.Format(renderFormat)
		}
		if renderQuality != "" {
			settings.Quality = render.Quality(renderQuality)
		}
		if renderCodec != "" {
			settings.Codec = render.Codec(renderCodec)
		}

		pipe, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		job, err := pipe.Start(cmd.Context(), proj.Timeline, settings)
		if err != nil {
			return err
		}

		log.Info().
			Str("project", proj.ID).
			Str("job", job.ID()).
			Str("format", string(settings.Format)).
			Msg("render started")

		state := watch(cmd.Context(), job)
		if state.Status != render.StatusCompleted {
			return fmt.Errorf("render failed: %s", state.Error)
		}

		proj.OutputURL = state.OutputURL
		proj.ThumbnailURL = state.ThumbnailURL
		if err := store.Save(proj); err != nil {
			return err
		}

		log.Info().
			Str("output", state.OutputURL).
			Str("thumbnail", state.ThumbnailURL).
			Msg("render complete")

		return nil
	},
}

// watch polls the job until it reaches a terminal state, cancelling it if
// the command context ends first
func watch(ctx context.Context, job *render.Job) render.State {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-job.Done():
			return job.Snapshot()
		case <-ctx.Done():
			job.Cancel()
			<-job.Done()
			return job.Snapshot()
		case <-ticker.C:
			state := job.Snapshot()
			log.Debug().
				Str("status", string(state.Status)).
				Float64("progress", state.Progress).
				Msg("rendering")
		}
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn().Err(err).Msg("metrics listener stopped")
	}
}

func projectStore(cfg *config.Config) (*project.FileStore, error) {
	return project.NewFileStore(filepath.Join(cfg.WorkDir, "projects"))
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*render.Pipeline, error) {
	exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
	if err != nil {
		return nil, err
	}

	root := assetsDir
	if root == "" {
		root = cfg.WorkDir
	}
	assets := media.NewDirStore(root, exec)

	var store storage.Store
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Store(ctx, storage.S3Options{
			Bucket:       cfg.Storage.S3Bucket,
			Region:       cfg.Storage.S3Region,
			BaseURL:      cfg.Storage.S3BaseURL,
			UsePathStyle: cfg.Storage.S3PathStyle,
		})
	default:
		store, err = storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
	}
	if err != nil {
		return nil, err
	}

	return render.NewPipeline(log.Logger, exec, assets, store, render.Config{
		Concurrency:     cfg.Concurrency,
		FrameRate:       cfg.Render.FrameRate,
		PixelFormat:     cfg.Render.PixelFormat,
		AudioRate:       cfg.Render.AudioRate,
		Preset:          cfg.FFmpeg.Preset,
		TempDir:         cfg.TempDir,
		ThumbnailOffset: cfg.Render.ThumbnailOffset,
		ThumbnailWidth:  cfg.Render.ThumbnailWidth,
		ThumbnailHeight: cfg.Render.ThumbnailHeight,
	}), nil
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project management commands",
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create an empty project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		store, err := projectStore(cfg)
		if err != nil {
			return err
		}
		p := project.New(args[0])
		if err := store.Save(p); err != nil {
			return err
		}

		log.Info().Str("id", p.ID).Str("name", p.Name).Msg("project created")
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		store, err := projectStore(cfg)
		if err != nil {
			return err
		}
		ids, err := store.List()
		if err != nil {
			return err
		}
		for _, id := range ids {
			p, err := store.Load(id)
			if err != nil {
				log.Warn().Str("id", id).Err(err).Msg("unreadable project")
				continue
			}
			log.Info().
				Str("id", p.ID).
				Str("name", p.Name).
				Str("duration", util.FormatSeconds(p.Timeline.Duration)).
				Int("clips", len(p.Timeline.Clips)).
				Msg("project")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		log.Info().
			Str("work_dir", cfg.WorkDir).
			Str("temp_dir", cfg.TempDir).
			Int("concurrency", cfg.Concurrency).
			Str("storage", cfg.Storage.Backend).
			Float64("frame_rate", cfg.Render.FrameRate).
			Msg("configuration")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		path := cfgFile
		if path == "" {
			path = filepath.Join(os.Getenv("HOME"), ".montage", "config.yaml")
		}
		if err := util.EnsureDir(filepath.Dir(path)); err != nil {
			return err
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	assetCmd.AddCommand(assetFetchCmd)
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
