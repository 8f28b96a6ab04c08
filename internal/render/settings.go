package render

import "fmt"

// Format is the output container format
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatWebM Format = "webm"
	FormatMOV  Format = "mov"
	FormatGIF  Format = "gif"
)

// Quality selects a bitrate tier
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
	QualityUltra  Quality = "ultra"
)

// Codec is the target video codec
type Codec string

const (
	CodecH264 Codec = "h264"
	CodecH265 Codec = "h265"
	CodecVP9  Codec = "vp9"
	CodecAV1  Codec = "av1"
)

// Settings configures one render job. Immutable for the duration of the job.
type Settings struct {
	Format  Format  `yaml:"format" json:"format"`
	Quality Quality `yaml:"quality" json:"quality"`
	Codec   Codec   `yaml:"codec" json:"codec"`
	// Explicit bitrates override the quality tier
	VideoBitrate string `yaml:"video_bitrate,omitempty" json:"video_bitrate,omitempty"`
	AudioBitrate string `yaml:"audio_bitrate,omitempty" json:"audio_bitrate,omitempty"`
}

// DefaultSettings is a sensible h264/mp4 configuration
func DefaultSettings() Settings {
	return Settings{Format: FormatMP4, Quality: QualityHigh, Codec: CodecH264}
}

// Validate checks every field against its fixed enumeration
func (s Settings) Validate() error {
	switch s.Format {
	case FormatMP4, FormatWebM, FormatMOV, FormatGIF:
	default:
		return fmt.Errorf("invalid output format %q", s.Format)
	}
	switch s.Quality {
	case QualityLow, QualityMedium, QualityHigh, QualityUltra:
	default:
		return fmt.Errorf("invalid quality tier %q", s.Quality)
	}
	switch s.Codec {
	case CodecH264, CodecH265, CodecVP9, CodecAV1:
	default:
		return fmt.Errorf("invalid codec %q", s.Codec)
	}

	// the container must be able to mux the codec; gif ignores the codec
	// entirely and always uses its own encoder
	switch s.Format {
	case FormatWebM:
		if s.Codec == CodecH264 || s.Codec == CodecH265 {
			return fmt.Errorf("codec %q cannot be muxed into webm", s.Codec)
		}
	case FormatMP4:
		if s.Codec == CodecVP9 {
			return fmt.Errorf("codec %q cannot be muxed into mp4", s.Codec)
		}
	case FormatMOV:
		if s.Codec == CodecVP9 || s.Codec == CodecAV1 {
			return fmt.Errorf("codec %q cannot be muxed into mov", s.Codec)
		}
	}
	return nil
}

// Encoder maps the codec to its ffmpeg encoder name. The gif container has
// no use for the codec selection and always encodes with its own format.
func (s Settings) Encoder() string {
	if s.Format == FormatGIF {
		return "gif"
	}
	switch s.Codec {
	case CodecH265:
		return "libx265"
	case CodecVP9:
		return "libvpx-vp9"
	case CodecAV1:
		return "libaom-av1"
	default:
		return "libx264"
	}
}

// AudioEncoder picks the audio codec the container expects. An empty result
// means the container carries no audio stream at all.
func (s Settings) AudioEncoder() string {
	switch s.Format {
	case FormatWebM:
		return "libopus"
	case FormatGIF:
		return ""
	default:
		return "aac"
	}
}

// videoBitrate resolves the target video bitrate, explicit value first
func (s Settings) videoBitrate() string {
	if s.VideoBitrate != "" {
		return s.VideoBitrate
	}
	switch s.Quality {
	case QualityLow:
		return "1000k"
	case QualityMedium:
		return "2500k"
	case QualityUltra:
		return "8000k"
	default:
		return "5000k"
	}
}

// audioBitrate resolves the target audio bitrate, explicit value first
func (s Settings) audioBitrate() string {
	if s.AudioBitrate != "" {
		return s.AudioBitrate
	}
	switch s.Quality {
	case QualityLow:
		return "96k"
	case QualityMedium:
		return "128k"
	case QualityUltra:
		return "256k"
	default:
		return "192k"
	}
}

// Extension returns the output file extension
func (s Settings) Extension() string {
	return string(s.Format)
}

// ContentType returns the MIME type for the output container
func (s Settings) ContentType() string {
	switch s.Format {
	case FormatWebM:
		return "video/webm"
	case FormatMOV:
		return "video/quicktime"
	case FormatGIF:
		return "image/gif"
	default:
		return "video/mp4"
	}
}
