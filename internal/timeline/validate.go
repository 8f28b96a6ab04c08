package timeline

import "sort"

// Validate checks the timeline's coherence invariants in order: no same-track
// clip overlap, no same-track overlap between independent audio tracks, no
// dangling audio links, and linked tracks exactly mirroring their clip's
// interval. The first violation is returned as a structured error; nil means
// the timeline is coherent.
//
// Validate never repairs anything. Callers reject the triggering mutation
// and keep the prior timeline.
func Validate(t *Timeline) error {
	if err := validateClipOverlap(t); err != nil {
		return err
	}
	if err := validateAudioOverlap(t); err != nil {
		return err
	}
	return validateLinks(t)
}

func validateClipOverlap(t *Timeline) error {
	byTrack := make(map[int][]*Clip)
	for _, c := range t.Clips {
		byTrack[c.Track] = append(byTrack[c.Track], c)
	}

	for track, clips := range byTrack {
		sort.Slice(clips, func(i, j int) bool { return clips[i].Start < clips[j].Start })
		for i := 0; i+1 < len(clips); i++ {
			if clips[i].End > clips[i+1].Start {
				return &OverlapError{Track: track, FirstID: clips[i].ID, SecondID: clips[i+1].ID}
			}
		}
	}
	return nil
}

func validateAudioOverlap(t *Timeline) error {
	byTrack := make(map[int][]*AudioTrack)
	for _, a := range t.Audio {
		if a.Linked() {
			// linked tracks mirror clips; the clip check covers them
			continue
		}
		byTrack[a.Track] = append(byTrack[a.Track], a)
	}

	for track, tracks := range byTrack {
		sort.Slice(tracks, func(i, j int) bool { return tracks[i].Start < tracks[j].Start })
		for i := 0; i+1 < len(tracks); i++ {
			if tracks[i].End > tracks[i+1].Start {
				return &OverlapError{Track: track, FirstID: tracks[i].ID, SecondID: tracks[i+1].ID}
			}
		}
	}
	return nil
}

func validateLinks(t *Timeline) error {
	for _, a := range t.Audio {
		if !a.Linked() {
			continue
		}
		c := t.ClipByID(a.LinkedClipID)
		if c == nil {
			return &DanglingLinkError{TrackID: a.ID, ClipID: a.LinkedClipID}
		}
		if a.Start != c.Start || a.End != c.End {
			return &DesyncError{TrackID: a.ID, ClipID: c.ID}
		}
	}
	return nil
}
