package timeline

// placeMaxIterations bounds the push-past-neighbour loop. After the ceiling
// the last computed position is accepted as-is.
const placeMaxIterations = 10

type interval struct {
	start float64
	end   float64
}

func overlaps(a, b interval) bool {
	return a.start < b.end && b.start < a.end
}

// resolveStart slides a candidate interval of the given duration forward
// until it clears every occupied interval on the track, starting from the
// desired position (clamped to >= 0).
func resolveStart(desired, duration float64, taken []interval) float64 {
	start := desired
	if start < 0 {
		start = 0
	}

	for i := 0; i < placeMaxIterations; i++ {
		candidate := interval{start: start, end: start + duration}
		moved := false
		for _, occ := range taken {
			if overlaps(candidate, occ) {
				start = occ.end
				moved = true
				break
			}
		}
		if !moved {
			break
		}
	}
	return start
}

// PlaceClip positions a clip on a track at the first non-overlapping slot at
// or after desiredStart, preserving the clip's duration. The clip is not
// inserted; the caller inserts it and re-validates.
func (t *Timeline) PlaceClip(c *Clip, track int, desiredStart float64) {
	duration := c.Duration()

	var taken []interval
	for _, other := range t.Clips {
		if other.ID == c.ID || other.Track != track {
			continue
		}
		taken = append(taken, interval{start: other.Start, end: other.End})
	}

	start := resolveStart(desiredStart, duration, taken)
	c.Track = track
	c.Start = start
	c.End = start + duration
}

// PlaceAudio positions an independent audio track at the first
// non-overlapping slot at or after desiredStart. Linked tracks on the same
// track index are ignored: they occupy clip tracks, not audio lanes, and are
// only ever repositioned through their clip.
func (t *Timeline) PlaceAudio(a *AudioTrack, track int, desiredStart float64) {
	duration := a.Duration()

	var taken []interval
	for _, other := range t.Audio {
		if other.ID == a.ID || other.Track != track || other.Linked() {
			continue
		}
		taken = append(taken, interval{start: other.Start, end: other.End})
	}

	start := resolveStart(desiredStart, duration, taken)
	a.Track = track
	a.Start = start
	a.End = start + duration
}
