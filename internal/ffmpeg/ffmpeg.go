package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Executor runs ffmpeg/ffprobe operations and streams progress back to the
// caller. One Executor is shared by all render jobs; it holds no per-job
// state.
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New locates the ffmpeg and ffprobe binaries in PATH
func New(logger zerolog.Logger, threads int) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     threads,
	}, nil
}

// Run executes ffmpeg with the given arguments, parsing progress lines from
// stderr into the handler
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	baseArgs := []string{"-y", "-hide_banner", "-loglevel", "info", "-stats"}
	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", fmt.Sprintf("%d", e.threads))
	}
	args := append(baseArgs, opts.Args...)

	e.logger.Debug().Strs("args", args).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	e.streamOutput(stderr, opts)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}
	return nil
}

// ffmpeg pads stats values to a fixed column width, so "frame=  123" needs
// every space after the separator stripped before key=value splitting
var statsPadding = regexp.MustCompile(`=\s+`)

// streamOutput parses stderr lines, accumulating progress fields and
// forwarding each update to the handler
func (e *Executor) streamOutput(r io.Reader, opts RunOptions) {
	scanner := bufio.NewScanner(r)
	current := &Progress{}

	for scanner.Scan() {
		line := scanner.Text()

		if opts.LogHandler != nil {
			opts.LogHandler(line)
		}

		updated := false
		for _, field := range strings.Fields(statsPadding.ReplaceAllString(line, "=")) {
			key, value, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			switch key {
			case "frame":
				fmt.Sscanf(value, "%d", &current.Frame)
			case "fps":
				fmt.Sscanf(value, "%f", &current.FPS)
			case "time":
				current.Seconds = parseClock(value)
				updated = true
			case "speed":
				current.Speed = value
			}
		}

		if updated && current.Seconds > 0 {
			if opts.ExpectedDuration > 0 {
				pct := current.Seconds / opts.ExpectedDuration * 100
				if pct > 100 {
					pct = 100
				}
				current.Percent = pct
			}
			if opts.ProgressHandler != nil {
				p := *current
				opts.ProgressHandler(&p)
			}
		}
	}
}

// parseClock converts an ffmpeg HH:MM:SS.mmm clock to seconds; malformed
// values yield 0
func parseClock(s string) float64 {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}
	var h, m, sec float64
	if _, err := fmt.Sscanf(parts[0], "%f", &h); err != nil {
		return 0
	}
	if _, err := fmt.Sscanf(parts[1], "%f", &m); err != nil {
		return 0
	}
	if _, err := fmt.Sscanf(parts[2], "%f", &sec); err != nil {
		return 0
	}
	return h*3600 + m*60 + sec
}
