package timeline

// EffectType tags the kind of transformation an Effect applies
type EffectType string

const (
	EffectFilter     EffectType = "filter"
	EffectTransition EffectType = "transition"
	EffectText       EffectType = "text"
	EffectOverlay    EffectType = "overlay"
	EffectAudio      EffectType = "audio"
	EffectSpeed      EffectType = "speed"
	EffectCrop       EffectType = "crop"
)

// FilterParams holds typed parameters for filter effects
type FilterParams struct {
	Name      string  `yaml:"name" json:"name"`
	Intensity float64 `yaml:"intensity" json:"intensity"`
}

// SpeedParams holds typed parameters for playback-speed effects
type SpeedParams struct {
	Factor float64 `yaml:"factor" json:"factor"`
}

// CropParams holds typed parameters for crop effects
type CropParams struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
}

// Effect is attached to a Clip or globally to a Timeline. Filter, speed and
// crop effects carry a typed payload; everything else falls back to the
// opaque Params map.
type Effect struct {
	Type   EffectType     `yaml:"type" json:"type"`
	Name   string         `yaml:"name" json:"name"`
	Start  float64        `yaml:"start,omitempty" json:"start,omitempty"`
	End    float64        `yaml:"end,omitempty" json:"end,omitempty"`
	Filter *FilterParams  `yaml:"filter,omitempty" json:"filter,omitempty"`
	Speed  *SpeedParams   `yaml:"speed,omitempty" json:"speed,omitempty"`
	Crop   *CropParams    `yaml:"crop,omitempty" json:"crop,omitempty"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Clip is a time-bounded reference to a source asset placed on a track.
// Start/End are timeline-space seconds; TrimStart/TrimEnd are offsets into
// the source asset's own duration.
type Clip struct {
	ID        string   `yaml:"id" json:"id"`
	AssetID   string   `yaml:"asset_id" json:"asset_id"`
	Track     int      `yaml:"track" json:"track"`
	Start     float64  `yaml:"start" json:"start"`
	End       float64  `yaml:"end" json:"end"`
	TrimStart float64  `yaml:"trim_start" json:"trim_start"`
	TrimEnd   float64  `yaml:"trim_end" json:"trim_end"`
	Volume    float64  `yaml:"volume" json:"volume"`
	Effects   []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// Duration returns the clip's timeline-space length in seconds
func (c *Clip) Duration() float64 {
	return c.End - c.Start
}

func (c *Clip) clone() *Clip {
	out := *c
	out.Effects = cloneEffects(c.Effects)
	return &out
}

// AudioTrack is an audio segment, either independent or linked to a Clip's
// embedded audio. A linked track (LinkedClipID set) always mirrors its clip's
// start/end and is never moved or cut directly.
type AudioTrack struct {
	ID           string  `yaml:"id" json:"id"`
	AssetID      string  `yaml:"asset_id,omitempty" json:"asset_id,omitempty"`
	SourceURL    string  `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	Track        int     `yaml:"track" json:"track"`
	Start        float64 `yaml:"start" json:"start"`
	End          float64 `yaml:"end" json:"end"`
	Volume       float64 `yaml:"volume" json:"volume"`
	FadeIn       float64 `yaml:"fade_in,omitempty" json:"fade_in,omitempty"`
	FadeOut      float64 `yaml:"fade_out,omitempty" json:"fade_out,omitempty"`
	LinkedClipID string  `yaml:"linked_clip_id,omitempty" json:"linked_clip_id,omitempty"`
}

// Duration returns the track's timeline-space length in seconds
func (a *AudioTrack) Duration() float64 {
	return a.End - a.Start
}

// Linked reports whether the track mirrors a video clip's embedded audio
func (a *AudioTrack) Linked() bool {
	return a.LinkedClipID != ""
}

func (a *AudioTrack) clone() *AudioTrack {
	out := *a
	return &out
}

// DefaultMinDuration is the floor applied to an emptied timeline's duration
const DefaultMinDuration = 60.0

// Timeline is the canonical in-memory representation of a composition.
// It is owned by a single editing session; mutations go through Apply so
// that every accepted Timeline satisfies the coherence invariants.
type Timeline struct {
	Duration    float64       `yaml:"duration" json:"duration"`
	MinDuration float64       `yaml:"min_duration,omitempty" json:"min_duration,omitempty"`
	AspectRatio string        `yaml:"aspect_ratio" json:"aspect_ratio"`
	Width       int           `yaml:"width" json:"width"`
	Height      int           `yaml:"height" json:"height"`
	Clips       []*Clip       `yaml:"clips" json:"clips"`
	Audio       []*AudioTrack `yaml:"audio" json:"audio"`
	Effects     []Effect      `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// New returns an empty timeline targeting the given output geometry
func New(width, height int, aspectRatio string) *Timeline {
	t := &Timeline{
		AspectRatio: aspectRatio,
		Width:       width,
		Height:      height,
		MinDuration: DefaultMinDuration,
	}
	t.refreshDuration()
	return t
}

// NewDefault returns an empty timeline targeting 1080p 16:9 output
func NewDefault() *Timeline {
	return New(1920, 1080, "16:9")
}

// Clone returns a deep copy of the timeline
func (t *Timeline) Clone() *Timeline {
	out := *t
	out.Clips = make([]*Clip, len(t.Clips))
	for i, c := range t.Clips {
		out.Clips[i] = c.clone()
	}
	out.Audio = make([]*AudioTrack, len(t.Audio))
	for i, a := range t.Audio {
		out.Audio[i] = a.clone()
	}
	out.Effects = cloneEffects(t.Effects)
	return &out
}

// ClipByID returns the clip with the given id, or nil
func (t *Timeline) ClipByID(id string) *Clip {
	for _, c := range t.Clips {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// AudioByID returns the audio track with the given id, or nil
func (t *Timeline) AudioByID(id string) *AudioTrack {
	for _, a := range t.Audio {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ClipAt returns the clip covering the given time on a track, or nil
func (t *Timeline) ClipAt(track int, at float64) *Clip {
	for _, c := range t.Clips {
		if c.Track == track && at >= c.Start && at < c.End {
			return c
		}
	}
	return nil
}

// LinkedAudio returns every audio track linked to the given clip id
func (t *Timeline) LinkedAudio(clipID string) []*AudioTrack {
	var out []*AudioTrack
	for _, a := range t.Audio {
		if a.LinkedClipID == clipID {
			out = append(out, a)
		}
	}
	return out
}

// refreshDuration recomputes the duration to the exact max end across clips
// and audio tracks, floored at MinDuration only when both collections are
// empty. This is the single duration policy for the whole engine.
func (t *Timeline) refreshDuration() {
	if len(t.Clips) == 0 && len(t.Audio) == 0 {
		min := t.MinDuration
		if min <= 0 {
			min = DefaultMinDuration
		}
		t.Duration = min
		return
	}

	var max float64
	for _, c := range t.Clips {
		if c.End > max {
			max = c.End
		}
	}
	for _, a := range t.Audio {
		if a.End > max {
			max = a.End
		}
	}
	t.Duration = max
}

func cloneEffects(in []Effect) []Effect {
	if in == nil {
		return nil
	}
	out := make([]Effect, len(in))
	copy(out, in)
	for i, e := range in {
		if e.Filter != nil {
			f := *e.Filter
			out[i].Filter = &f
		}
		if e.Speed != nil {
			s := *e.Speed
			out[i].Speed = &s
		}
		if e.Crop != nil {
			c := *e.Crop
			out[i].Crop = &c
		}
		if e.Params != nil {
			p := make(map[string]any, len(e.Params))
			for k, v := range e.Params {
				p[k] = v
			}
			out[i].Params = p
		}
	}
	return out
}
