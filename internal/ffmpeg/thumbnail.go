package ffmpeg

import (
	"context"
	"fmt"

	"github.com/sableview/montage/pkg/util"
)

// Thumbnail samples one frame at the given offset and encodes it as a still
// image at the target size
func (e *Executor) Thumbnail(ctx context.Context, opts ThumbnailOptions) error {
	if opts.Input == "" || opts.Output == "" {
		return fmt.Errorf("input and output paths are required")
	}

	e.logger.Info().
		Str("input", opts.Input).
		Float64("offset", opts.Offset).
		Msg("generating thumbnail")

	err := e.Run(ctx, RunOptions{
		Args: buildThumbnailArgs(opts),
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("thumbnail")
		},
	})
	if err != nil {
		return fmt.Errorf("thumbnail: %w", err)
	}
	return nil
}

func buildThumbnailArgs(opts ThumbnailOptions) []string {
	args := []string{
		"-ss", util.FormatSeconds(opts.Offset),
		"-i", opts.Input,
		"-frames:v", "1",
	}
	// a single dimension scales proportionally; -2 keeps the other side
	// divisible by two for the encoder
	switch {
	case opts.Width > 0 && opts.Height > 0:
		args = append(args, "-vf", NewFilterBuilder().Scale(opts.Width, opts.Height).Build())
	case opts.Width > 0:
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", opts.Width))
	case opts.Height > 0:
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", opts.Height))
	}
	return append(args, opts.Output)
}
