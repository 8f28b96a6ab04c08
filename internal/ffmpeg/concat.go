package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sableview/montage/pkg/util"
)

// Concat joins already-normalized sources into one output using the concat
// demuxer with stream copy. Inputs must share one target spec; Concat never
// re-encodes. A single input degenerates to a plain file copy.
func (e *Executor) Concat(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	if len(inputs) == 1 {
		e.logger.Info().Str("input", inputs[0]).Msg("single conformant source, copying")
		return copyFile(inputs[0], output)
	}

	e.logger.Info().
		Int("inputs", len(inputs)).
		Str("output", output).
		Msg("concatenating sources")

	listFile, err := writeConcatList(inputs)
	if err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer util.CleanupFiles(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
	}
	if wantsFastStart(output) {
		args = append(args, "-movflags", "+faststart")
	}
	args = append(args, output)

	err = e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("concat")
		},
	})
	if err != nil {
		return fmt.Errorf("concat: %w", err)
	}
	return nil
}

// wantsFastStart reports whether the output container understands the
// faststart flag; other muxers reject it
func wantsFastStart(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".m4v":
		return true
	}
	return false
}

// writeConcatList generates the temporary file list the concat demuxer reads
func writeConcatList(inputs []string) (string, error) {
	tmp, err := os.CreateTemp("", "montage-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintf(tmp, "file '%s'\n", abs); err != nil {
			return "", err
		}
	}
	return tmp.Name(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
