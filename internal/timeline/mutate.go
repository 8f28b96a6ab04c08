package timeline

import "fmt"

// Op is a structural mutation applied through Apply
type Op interface {
	apply(t *Timeline) error
}

// Apply runs a mutation against a deep copy of the timeline, re-validates,
// and returns the new timeline only if every invariant holds. The input
// timeline is never modified, so a failed mutation leaves the session's
// state intact.
func Apply(t *Timeline, op Op) (*Timeline, error) {
	next := t.Clone()
	if err := op.apply(next); err != nil {
		return nil, err
	}
	next.refreshDuration()
	if err := Validate(next); err != nil {
		return nil, err
	}
	return next, nil
}

// AddClip places a new clip for an asset on a track. WithLinkedAudio also
// creates the audio track representing the asset's embedded audio, mirrored
// to the clip's interval.
type AddClip struct {
	AssetID       string
	AssetDuration float64
	Track         int
	Start         float64
	// Volume nil means full volume; an explicit zero creates a muted clip
	Volume          *float64
	Effects         []Effect
	WithLinkedAudio bool
}

func (op AddClip) apply(t *Timeline) error {
	if op.AssetDuration <= 0 {
		return fmt.Errorf("add clip for asset %s: duration must be positive", op.AssetID)
	}

	c := &Clip{
		ID:      NewID("clip"),
		AssetID: op.AssetID,
		End:     op.AssetDuration,
		Volume:  resolveVolume(op.Volume),
		Effects: cloneEffects(op.Effects),
	}
	t.PlaceClip(c, op.Track, op.Start)
	t.Clips = append(t.Clips, c)

	if op.WithLinkedAudio {
		t.Audio = append(t.Audio, &AudioTrack{
			ID:           NewID("audio"),
			AssetID:      op.AssetID,
			Track:        op.Track,
			Start:        c.Start,
			End:          c.End,
			Volume:       c.Volume,
			LinkedClipID: c.ID,
		})
	}
	return nil
}

// MoveClip repositions an existing clip, resolving overlaps on the target
// track and dragging any linked audio along
type MoveClip struct {
	ID    string
	Track int
	Start float64
}

func (op MoveClip) apply(t *Timeline) error {
	c := t.ClipByID(op.ID)
	if c == nil {
		return fmt.Errorf("move clip %s: %w", op.ID, ErrNotFound)
	}
	t.PlaceClip(c, op.Track, op.Start)
	syncLinkedAudio(t, c)
	return nil
}

// TrimClip narrows a clip's timeline interval, booking the removed head and
// tail into the trim offsets
type TrimClip struct {
	ID    string
	Start float64
	End   float64
}

func (op TrimClip) apply(t *Timeline) error {
	c := t.ClipByID(op.ID)
	if c == nil {
		return fmt.Errorf("trim clip %s: %w", op.ID, ErrNotFound)
	}
	if op.Start < c.Start || op.End > c.End || op.End <= op.Start {
		return fmt.Errorf("trim clip %s to %.3f-%.3f (bounds %.3f-%.3f): invalid range",
			op.ID, op.Start, op.End, c.Start, c.End)
	}

	c.TrimStart += op.Start - c.Start
	c.TrimEnd += c.End - op.End
	c.Start = op.Start
	c.End = op.End
	syncLinkedAudio(t, c)
	return nil
}

// SetClipVolume adjusts a clip's volume, clamped to [0,1]
type SetClipVolume struct {
	ID     string
	Volume float64
}

func (op SetClipVolume) apply(t *Timeline) error {
	c := t.ClipByID(op.ID)
	if c == nil {
		return fmt.Errorf("set volume on clip %s: %w", op.ID, ErrNotFound)
	}
	c.Volume = clampVolume(op.Volume)
	return nil
}

// RemoveClip deletes a clip and every audio track linked to it
type RemoveClip struct {
	ID string
}

func (op RemoveClip) apply(t *Timeline) error {
	idx := -1
	for i, c := range t.Clips {
		if c.ID == op.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("remove clip %s: %w", op.ID, ErrNotFound)
	}
	t.Clips = append(t.Clips[:idx], t.Clips[idx+1:]...)

	kept := t.Audio[:0]
	for _, a := range t.Audio {
		if a.LinkedClipID != op.ID {
			kept = append(kept, a)
		}
	}
	t.Audio = kept
	return nil
}

// CutClipAt splits a clip (and cascades to linked audio) at a position
type CutClipAt struct {
	ID       string
	Position float64
}

func (op CutClipAt) apply(t *Timeline) error {
	_, _, err := t.CutClip(op.ID, op.Position)
	return err
}

// AddAudio places a new independent audio track. Exactly one of AssetID and
// SourceURL identifies the source.
type AddAudio struct {
	AssetID   string
	SourceURL string
	Duration  float64
	Track     int
	Start     float64
	// Volume nil means full volume; an explicit zero creates a muted track
	Volume  *float64
	FadeIn  float64
	FadeOut float64
}

func (op AddAudio) apply(t *Timeline) error {
	if op.Duration <= 0 {
		return fmt.Errorf("add audio: duration must be positive")
	}

	a := &AudioTrack{
		ID:        NewID("audio"),
		AssetID:   op.AssetID,
		SourceURL: op.SourceURL,
		End:       op.Duration,
		Volume:    resolveVolume(op.Volume),
		FadeIn:    op.FadeIn,
		FadeOut:   op.FadeOut,
	}
	t.PlaceAudio(a, op.Track, op.Start)
	t.Audio = append(t.Audio, a)
	return nil
}

// MoveAudio repositions an independent audio track
type MoveAudio struct {
	ID    string
	Track int
	Start float64
}

func (op MoveAudio) apply(t *Timeline) error {
	a := t.AudioByID(op.ID)
	if a == nil {
		return fmt.Errorf("move audio %s: %w", op.ID, ErrNotFound)
	}
	if a.Linked() {
		return fmt.Errorf("move audio %s: %w", op.ID, ErrLinkedTrackImmutable)
	}
	t.PlaceAudio(a, op.Track, op.Start)
	return nil
}

// TrimAudio narrows an independent audio track's interval
type TrimAudio struct {
	ID    string
	Start float64
	End   float64
}

func (op TrimAudio) apply(t *Timeline) error {
	a := t.AudioByID(op.ID)
	if a == nil {
		return fmt.Errorf("trim audio %s: %w", op.ID, ErrNotFound)
	}
	if a.Linked() {
		return fmt.Errorf("trim audio %s: %w", op.ID, ErrLinkedTrackImmutable)
	}
	if op.Start < a.Start || op.End > a.End || op.End <= op.Start {
		return fmt.Errorf("trim audio %s to %.3f-%.3f (bounds %.3f-%.3f): invalid range",
			op.ID, op.Start, op.End, a.Start, a.End)
	}
	a.Start = op.Start
	a.End = op.End
	return nil
}

// SetAudioVolume adjusts an audio track's volume, clamped to [0,1]
type SetAudioVolume struct {
	ID     string
	Volume float64
}

func (op SetAudioVolume) apply(t *Timeline) error {
	a := t.AudioByID(op.ID)
	if a == nil {
		return fmt.Errorf("set volume on audio %s: %w", op.ID, ErrNotFound)
	}
	a.Volume = clampVolume(op.Volume)
	return nil
}

// RemoveAudio deletes an audio track. Removing a linked track detaches the
// clip's embedded audio, which is allowed.
type RemoveAudio struct {
	ID string
}

func (op RemoveAudio) apply(t *Timeline) error {
	for i, a := range t.Audio {
		if a.ID == op.ID {
			t.Audio = append(t.Audio[:i], t.Audio[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove audio %s: %w", op.ID, ErrNotFound)
}

// CutAudioAt splits an independent audio track at a position
type CutAudioAt struct {
	ID       string
	Position float64
}

func (op CutAudioAt) apply(t *Timeline) error {
	_, _, err := t.CutAudioTrack(op.ID, op.Position)
	return err
}

// syncLinkedAudio re-mirrors every linked track after its clip moved or
// shrank. The sync invariant is re-checked by Validate afterwards.
func syncLinkedAudio(t *Timeline, c *Clip) {
	for _, a := range t.LinkedAudio(c.ID) {
		a.Start = c.Start
		a.End = c.End
	}
}

// resolveVolume defaults an unset volume to full; an explicit value is
// honored even when zero
func resolveVolume(v *float64) float64 {
	if v == nil {
		return 1
	}
	return clampVolume(*v)
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
