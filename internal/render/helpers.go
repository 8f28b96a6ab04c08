package render

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sableview/montage/internal/ffmpeg"
	"github.com/sableview/montage/internal/media"
)

// MetadataFromBytes probes in-memory media by staging it to a temp file.
// The temp file is removed before returning on every path.
func MetadataFromBytes(ctx context.Context, enc Encoder, data []byte) (*media.TechMeta, error) {
	path, cleanup, err := stage(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return enc.Probe(ctx, path)
}

// ThumbnailFromBytes extracts a single frame from in-memory media and
// returns the encoded image bytes
func ThumbnailFromBytes(ctx context.Context, enc Encoder, data []byte, offset float64, width, height int) ([]byte, error) {
	path, cleanup, err := stage(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out := filepath.Join(filepath.Dir(path), "thumb.jpg")
	err = enc.Thumbnail(ctx, ffmpeg.ThumbnailOptions{
		Input:  path,
		Output: out,
		Offset: offset,
		Width:  width,
		Height: height,
	})
	if err != nil {
		return nil, err
	}
	return os.ReadFile(out)
}

// stage writes data to its own temp directory and returns the file path
// plus a cleanup func that removes the whole directory
func stage(data []byte) (string, func(), error) {
	dir, err := os.MkdirTemp("", "montage-stage-*")
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, "input")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		os.RemoveAll(dir)
		return "", nil, err
	}
	return path, func() { os.RemoveAll(dir) }, nil
}
