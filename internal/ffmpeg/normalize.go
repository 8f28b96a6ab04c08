package ffmpeg

import (
	"context"
	"fmt"

	"github.com/sableview/montage/pkg/util"
)

// Normalize re-encodes one source to the shared target spec: resolution,
// framerate, codec, audio rate, pixel format, with the container flagged for
// streaming. All normalized outputs share one spec so the final step can
// concatenate them without another encode.
func (e *Executor) Normalize(ctx context.Context, opts NormalizeOptions) error {
	if opts.Input == "" || opts.Output == "" {
		return fmt.Errorf("input and output paths are required")
	}

	args := buildNormalizeArgs(opts)

	e.logger.Info().
		Str("input", opts.Input).
		Str("output", opts.Output).
		Int("width", opts.Width).
		Int("height", opts.Height).
		Str("codec", opts.VideoCodec).
		Msg("normalizing source")

	err := e.Run(ctx, RunOptions{
		Args:             args,
		ExpectedDuration: opts.Duration,
		ProgressHandler:  opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("normalize")
		},
	})
	if err != nil {
		return fmt.Errorf("normalize %s: %w", opts.Input, err)
	}
	return nil
}

// buildNormalizeArgs assembles the full argument list for one normalization
// pass. Split out so it is testable without the ffmpeg binary.
func buildNormalizeArgs(opts NormalizeOptions) []string {
	var args []string

	if opts.TrimStart > 0 {
		args = append(args, "-ss", util.FormatSeconds(opts.TrimStart))
	}
	args = append(args, "-i", opts.Input)
	if opts.TrimEnd > opts.TrimStart {
		args = append(args, "-t", util.FormatSeconds(opts.TrimEnd-opts.TrimStart))
	}

	fps := opts.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	pixfmt := opts.PixelFormat
	if pixfmt == "" {
		pixfmt = DefaultPixelFormat
	}

	vf := NewFilterBuilder().
		Scale(opts.Width, opts.Height).
		FPS(fps).
		PixelFormat(pixfmt).
		Build()
	args = append(args, "-vf", vf)

	codec := opts.VideoCodec
	if codec == "" {
		codec = "libx264"
	}
	args = append(args, "-c:v", codec)

	preset := opts.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	args = append(args, "-preset", preset)

	if opts.VideoBitrate != "" {
		args = append(args, "-b:v", opts.VideoBitrate)
	}

	if opts.DropAudio {
		args = append(args, "-an")
	} else {
		audioCodec := opts.AudioCodec
		if audioCodec == "" {
			audioCodec = DefaultAudioCodec
		}
		args = append(args, "-c:a", audioCodec)

		rate := opts.AudioRate
		if rate <= 0 {
			rate = DefaultAudioRate
		}
		args = append(args, "-ar", fmt.Sprintf("%d", rate))

		if opts.AudioBitrate != "" {
			args = append(args, "-b:a", opts.AudioBitrate)
		}

		if opts.Volume > 0 && opts.Volume < 1 {
			args = append(args, "-af", NewFilterBuilder().Volume(opts.Volume).Build())
		}
	}

	if wantsFastStart(opts.Output) {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, opts.Output)
}
