package media

import (
	"context"
	"errors"
	"io"
)

// Kind classifies a source asset
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

var (
	// ErrNotFound means the asset id does not resolve in the store
	ErrNotFound = errors.New("asset not found")

	// ErrUnsupportedKind means the source exists but holds no usable
	// video or audio stream
	ErrUnsupportedKind = errors.New("unsupported media kind")
)

// TechMeta holds the probed technical metadata of a source file
type TechMeta struct {
	Duration        float64 `json:"duration"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	Codec           string  `json:"codec,omitempty"`
	FrameRate       float64 `json:"frame_rate,omitempty"`
	Bitrate         int64   `json:"bitrate,omitempty"`
	HasAudio        bool    `json:"has_audio"`
	AudioCodec      string  `json:"audio_codec,omitempty"`
	AudioChannels   int     `json:"audio_channels,omitempty"`
	AudioSampleRate int     `json:"audio_sample_rate,omitempty"`
}

// Asset is an immutable description of an ingested source file. The timeline
// only ever holds asset ids; the asset itself is owned by the store.
type Asset struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Duration float64  `json:"duration"`
	Location string   `json:"location"`
	Meta     TechMeta `json:"meta"`
}

// Store is the external asset store contract: resolve an id to its
// description, or fetch the raw bytes.
type Store interface {
	Resolve(ctx context.Context, id string) (*Asset, error)
	Fetch(ctx context.Context, id string) (io.ReadCloser, error)
}

// Prober extracts technical metadata from a local media file
type Prober interface {
	Probe(ctx context.Context, path string) (*TechMeta, error)
}
