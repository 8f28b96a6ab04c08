package timeline

import "fmt"

// CutClip splits the clip at a timeline position into two sibling segments
// with fresh ids, replacing the original in place. Trim bookkeeping is
// preserved: the first segment's trim-end grows by the dropped tail, the
// second segment's trim-start grows by the cut offset, so the total trimmed
// span round-trips. Every audio track linked to the clip is split at the
// same position and re-linked to the new segments.
//
// Effects are copied verbatim into both segments; their sub-ranges are
// interpreted against the owning segment at render time.
func (t *Timeline) CutClip(clipID string, position float64) (first, second *Clip, err error) {
	c := t.ClipByID(clipID)
	if c == nil {
		return nil, nil, fmt.Errorf("cut clip %s: %w", clipID, ErrNotFound)
	}
	if position <= c.Start || position >= c.End {
		return nil, nil, fmt.Errorf("cut clip %s at %.3f (bounds %.3f-%.3f): %w",
			clipID, position, c.Start, c.End, ErrInvalidCutPosition)
	}

	duration := c.Duration()
	offset := position - c.Start

	first = c.clone()
	first.ID = NewID("clip")
	first.End = position
	first.TrimEnd = c.TrimEnd + (duration - offset)

	second = c.clone()
	second.ID = NewID("clip")
	second.Start = position
	second.TrimStart = c.TrimStart + offset

	for i, existing := range t.Clips {
		if existing.ID == clipID {
			t.Clips = append(t.Clips[:i], append([]*Clip{first, second}, t.Clips[i+1:]...)...)
			break
		}
	}

	for _, linked := range t.LinkedAudio(clipID) {
		t.cutLinkedAudio(linked, first, second)
	}

	t.refreshDuration()
	return first, second, nil
}

// cutLinkedAudio replaces one linked track with two segments mirroring the
// freshly cut clips
func (t *Timeline) cutLinkedAudio(a *AudioTrack, first, second *Clip) {
	left := a.clone()
	left.ID = NewID("audio")
	left.Start = first.Start
	left.End = first.End
	left.LinkedClipID = first.ID

	right := a.clone()
	right.ID = NewID("audio")
	right.Start = second.Start
	right.End = second.End
	right.LinkedClipID = second.ID

	for i, existing := range t.Audio {
		if existing.ID == a.ID {
			t.Audio = append(t.Audio[:i], append([]*AudioTrack{left, right}, t.Audio[i+1:]...)...)
			return
		}
	}
}

// CutAudioTrack splits an independent audio track at a timeline position.
// Linked tracks are rejected; the owning clip must be cut instead.
func (t *Timeline) CutAudioTrack(trackID string, position float64) (first, second *AudioTrack, err error) {
	a := t.AudioByID(trackID)
	if a == nil {
		return nil, nil, fmt.Errorf("cut audio %s: %w", trackID, ErrNotFound)
	}
	if a.Linked() {
		return nil, nil, fmt.Errorf("cut audio %s: %w", trackID, ErrLinkedTrackNotCuttable)
	}
	if position <= a.Start || position >= a.End {
		return nil, nil, fmt.Errorf("cut audio %s at %.3f (bounds %.3f-%.3f): %w",
			trackID, position, a.Start, a.End, ErrInvalidCutPosition)
	}

	first = a.clone()
	first.ID = NewID("audio")
	first.End = position

	second = a.clone()
	second.ID = NewID("audio")
	second.Start = position

	for i, existing := range t.Audio {
		if existing.ID == trackID {
			t.Audio = append(t.Audio[:i], append([]*AudioTrack{first, second}, t.Audio[i+1:]...)...)
			break
		}
	}

	t.refreshDuration()
	return first, second, nil
}
