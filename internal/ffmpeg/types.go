package ffmpeg

// Progress is one parsed ffmpeg progress update
type Progress struct {
	Frame   int
	FPS     float64
	Seconds float64
	Speed   string
	Percent float64
}

// ProgressFunc receives progress updates while an operation runs
type ProgressFunc func(*Progress)

// RunOptions configures a single ffmpeg invocation
type RunOptions struct {
	Args []string
	// ExpectedDuration, when set, lets the executor derive a percentage
	// from the encoded timestamp
	ExpectedDuration float64
	ProgressHandler  ProgressFunc
	LogHandler       func(line string)
}

// Encoding defaults shared by normalization and thumbnail extraction
const (
	DefaultPreset      = "medium"
	DefaultPixelFormat = "yuv420p"
	DefaultFrameRate   = 30.0
	DefaultAudioCodec  = "aac"
	DefaultAudioRate   = 44100
)

// NormalizeOptions describes the single target spec every source is
// conformed to before concatenation
type NormalizeOptions struct {
	Input        string
	Output       string
	Width        int
	Height       int
	FrameRate    float64
	VideoCodec   string
	AudioCodec   string
	AudioRate    int
	VideoBitrate string
	AudioBitrate string
	PixelFormat  string
	Preset       string
	// TrimStart/TrimEnd cut the played portion out of the source before
	// conforming it
	TrimStart float64
	TrimEnd   float64
	// Volume scales the source audio, [0,1]
	Volume float64
	// DropAudio strips the audio stream, for containers that cannot
	// carry one
	DropAudio    bool
	Duration     float64
	ProgressFunc ProgressFunc
}

// ThumbnailOptions describes a single-frame still extraction
type ThumbnailOptions struct {
	Input  string
	Output string
	Offset float64
	Width  int
	Height int
}
