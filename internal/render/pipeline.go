package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sableview/montage/internal/ffmpeg"
	"github.com/sableview/montage/internal/media"
	"github.com/sableview/montage/internal/metrics"
	"github.com/sableview/montage/internal/storage"
	"github.com/sableview/montage/internal/timeline"
	"github.com/sableview/montage/pkg/util"
)

// Encoder is the ffmpeg surface the pipeline drives. *ffmpeg.Executor
// satisfies it; tests substitute a stub.
type Encoder interface {
	Probe(ctx context.Context, path string) (*media.TechMeta, error)
	Normalize(ctx context.Context, opts ffmpeg.NormalizeOptions) error
	Concat(ctx context.Context, inputs []string, output string) error
	Thumbnail(ctx context.Context, opts ffmpeg.ThumbnailOptions) error
}

// Config holds the pipeline's target spec and resource limits
type Config struct {
	Concurrency     int
	FrameRate       float64
	PixelFormat     string
	AudioRate       int
	Preset          string
	TempDir         string
	ThumbnailOffset float64
	ThumbnailWidth  int
	ThumbnailHeight int
}

// Pipeline turns a validated timeline plus resolved assets into one encoded
// output file. It is long-running and executes out-of-band from the editing
// session: Start launches a goroutine against a snapshot and returns a Job
// the session polls.
type Pipeline struct {
	logger zerolog.Logger
	enc    Encoder
	assets media.Store
	store  storage.Store
	cfg    Config
}

func NewPipeline(logger zerolog.Logger, enc Encoder, assets media.Store, store storage.Store, cfg Config) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = ffmpeg.DefaultFrameRate
	}
	if cfg.AudioRate <= 0 {
		cfg.AudioRate = ffmpeg.DefaultAudioRate
	}
	return &Pipeline{
		logger: logger.With().Str("component", "render").Logger(),
		enc:    enc,
		assets: assets,
		store:  store,
		cfg:    cfg,
	}
}

// Start validates inputs, snapshots the timeline and launches the render.
// The returned Job is the only channel back to the session; cancelling the
// parent context or the job itself is observed between normalization steps
// and before concatenation.
func (p *Pipeline) Start(ctx context.Context, tl *timeline.Timeline, settings Settings) (*Job, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := timeline.Validate(tl); err != nil {
		return nil, fmt.Errorf("timeline incoherent: %w", err)
	}
	if len(tl.Clips) == 0 {
		return nil, fmt.Errorf("timeline has no clips to render")
	}

	snapshot := tl.Clone()
	runCtx, cancel := context.WithCancel(ctx)
	job := newJob(cancel)

	go p.run(runCtx, job, snapshot, settings)
	return job, nil
}

func (p *Pipeline) run(ctx context.Context, job *Job, tl *timeline.Timeline, settings Settings) {
	logger := p.logger.With().Str("job", job.ID()).Logger()
	started := time.Now()

	tmpDir, err := os.MkdirTemp(p.cfg.TempDir, "montage-render-*")
	if err != nil {
		p.finish(job, logger, fmt.Sprintf("create working dir: %v", err))
		return
	}
	// the working dir is owned exclusively by this job and always removed
	defer os.RemoveAll(tmpDir)

	clips := orderedClips(tl)

	sources, err := p.resolveAssets(ctx, clips, tmpDir)
	if err != nil {
		p.finish(job, logger, err.Error())
		return
	}
	job.setStage(StatusNormalizing, 10)

	segments, err := p.normalizeAll(ctx, job, tl, clips, sources, settings, tmpDir)
	if err != nil {
		p.finish(job, logger, err.Error())
		return
	}
	job.setStage(StatusConcatenating, 70)

	if err := ctx.Err(); err != nil {
		p.finish(job, logger, "render cancelled")
		return
	}

	outPath := filepath.Join(tmpDir, "output."+settings.Extension())
	if err := p.enc.Concat(ctx, segments, outPath); err != nil {
		p.finish(job, logger, fmt.Sprintf("concatenation failed: %v", err))
		return
	}

	thumbPath := p.renderThumbnail(ctx, logger, outPath, tmpDir, tl.Duration)

	job.setStage(StatusUploading, 80)

	outputURL, thumbURL, err := p.upload(ctx, job.ID(), outPath, thumbPath, settings)
	if err != nil {
		p.finish(job, logger, fmt.Sprintf("upload failed: %v", err))
		return
	}
	job.setProgress(90)

	job.complete(outputURL, thumbURL)
	metrics.RenderJobsTotal.WithLabelValues(string(StatusCompleted)).Inc()
	logger.Info().
		Dur("elapsed", time.Since(started)).
		Str("output", outputURL).
		Msg("render complete")
}

func (p *Pipeline) finish(job *Job, logger zerolog.Logger, msg string) {
	job.fail(msg)
	metrics.RenderJobsTotal.WithLabelValues(string(StatusError)).Inc()
	logger.Error().Str("reason", msg).Msg("render failed")
}

// resolvedSource is one asset materialized to a local path
type resolvedSource struct {
	asset *media.Asset
	path  string
}

// resolveAssets resolves and fetches every referenced asset concurrently.
// All failures are collected before the job is declared failed, so the
// error message enumerates every missing asset rather than just the first.
func (p *Pipeline) resolveAssets(ctx context.Context, clips []*timeline.Clip, tmpDir string) (map[string]resolvedSource, error) {
	ids := make([]string, 0, len(clips))
	seen := make(map[string]struct{})
	for _, c := range clips {
		if _, dup := seen[c.AssetID]; !dup {
			seen[c.AssetID] = struct{}{}
			ids = append(ids, c.AssetID)
		}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sources = make(map[string]resolvedSource, len(ids))
		missing []string
	)
	sem := make(chan struct{}, p.cfg.Concurrency)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			src, err := p.materialize(ctx, id, tmpDir)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.AssetResolveFailures.Inc()
				missing = append(missing, fmt.Sprintf("%s (%v)", id, err))
				return
			}
			sources[id] = src
		}(id)
	}
	wg.Wait()

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("assets unavailable: %s", strings.Join(missing, "; "))
	}
	return sources, nil
}

// materialize resolves one asset and guarantees a local file for ffmpeg,
// fetching through the store when the locator is not directly readable
func (p *Pipeline) materialize(ctx context.Context, id string, tmpDir string) (resolvedSource, error) {
	asset, err := p.assets.Resolve(ctx, id)
	if err != nil {
		return resolvedSource{}, err
	}

	if util.FileExists(asset.Location) {
		return resolvedSource{asset: asset, path: asset.Location}, nil
	}

	body, err := p.assets.Fetch(ctx, id)
	if err != nil {
		return resolvedSource{}, err
	}
	defer body.Close()

	local := filepath.Join(tmpDir, "source-"+sanitizeKey(id))
	f, err := os.Create(local)
	if err != nil {
		return resolvedSource{}, err
	}
	defer f.Close()
	if _, err := f.ReadFrom(body); err != nil {
		return resolvedSource{}, err
	}
	return resolvedSource{asset: asset, path: local}, nil
}

// normalizeAll conforms every clip's played span to the shared target spec.
// Sources normalize in parallel; any single failure is fatal to the job.
func (p *Pipeline) normalizeAll(ctx context.Context, job *Job, tl *timeline.Timeline, clips []*timeline.Clip, sources map[string]resolvedSource, settings Settings, tmpDir string) ([]string, error) {
	segments := make([]string, len(clips))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)
	sem := make(chan struct{}, p.cfg.Concurrency)

	for i, clip := range clips {
		segments[i] = filepath.Join(tmpDir, fmt.Sprintf("segment-%03d.%s", i, settings.Extension()))

		wg.Add(1)
		go func(i int, clip *timeline.Clip) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				return
			}
			mu.Lock()
			if firstErr != nil {
				mu.Unlock()
				return
			}
			mu.Unlock()

			src := sources[clip.AssetID]
			start := time.Now()
			err := p.enc.Normalize(ctx, ffmpeg.NormalizeOptions{
				Input:        src.path,
				Output:       segments[i],
				Width:        tl.Width,
				Height:       tl.Height,
				FrameRate:    p.cfg.FrameRate,
				VideoCodec:   settings.Encoder(),
				AudioCodec:   settings.AudioEncoder(),
				DropAudio:    settings.AudioEncoder() == "",
				AudioRate:    p.cfg.AudioRate,
				VideoBitrate: settings.videoBitrate(),
				AudioBitrate: settings.audioBitrate(),
				PixelFormat:  p.cfg.PixelFormat,
				Preset:       p.cfg.Preset,
				TrimStart:    clip.TrimStart,
				TrimEnd:      clip.TrimStart + clip.Duration(),
				Volume:       clip.Volume,
				Duration:     clip.Duration(),
			})
			metrics.NormalizeDuration.Observe(time.Since(start).Seconds())

			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("normalize %s: %w", clip.AssetID, err)
				return
			}
			done++
			job.setProgress(10 + 60*float64(done)/float64(len(clips)))
		}(i, clip)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled")
	}
	return segments, nil
}

// renderThumbnail samples one frame from the final output. A thumbnail
// failure does not fail the job; the output is still usable.
func (p *Pipeline) renderThumbnail(ctx context.Context, logger zerolog.Logger, outPath, tmpDir string, duration float64) string {
	offset := p.cfg.ThumbnailOffset
	if offset >= duration {
		offset = 0
	}

	thumbPath := filepath.Join(tmpDir, "thumbnail.jpg")
	err := p.enc.Thumbnail(ctx, ffmpeg.ThumbnailOptions{
		Input:  outPath,
		Output: thumbPath,
		Offset: offset,
		Width:  p.cfg.ThumbnailWidth,
		Height: p.cfg.ThumbnailHeight,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("thumbnail generation failed")
		return ""
	}
	return thumbPath
}

func (p *Pipeline) upload(ctx context.Context, jobID, outPath, thumbPath string, settings Settings) (string, string, error) {
	out, err := os.Open(outPath)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	outputURL, err := p.store.Put(ctx, fmt.Sprintf("renders/%s.%s", jobID, settings.Extension()), out, settings.ContentType())
	if err != nil {
		return "", "", err
	}

	var thumbURL string
	if thumbPath != "" {
		thumb, err := os.Open(thumbPath)
		if err == nil {
			defer thumb.Close()
			thumbURL, err = p.store.Put(ctx, fmt.Sprintf("renders/%s.jpg", jobID), thumb, "image/jpeg")
			if err != nil {
				return "", "", err
			}
		}
	}
	return outputURL, thumbURL, nil
}

// orderedClips returns the timeline's clips in start-time order, which is
// the concatenation order of the final output
func orderedClips(tl *timeline.Timeline) []*timeline.Clip {
	clips := make([]*timeline.Clip, len(tl.Clips))
	copy(clips, tl.Clips)
	sort.SliceStable(clips, func(i, j int) bool { return clips[i].Start < clips[j].Start })
	return clips
}

func sanitizeKey(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
