package timeline

import "testing"

func TestPlaceClipOnEmptyTrackKeepsDesiredStart(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	c := &Clip{ID: NewID("clip"), AssetID: "a1", End: 5}

	tl.PlaceClip(c, 0, 12.5)

	if c.Start != 12.5 || c.End != 17.5 {
		t.Fatalf("expected [12.5,17.5), got [%v,%v)", c.Start, c.End)
	}
	if c.Track != 0 {
		t.Fatalf("expected track 0, got %d", c.Track)
	}
}

func TestPlaceClipClampsNegativeStart(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	c := &Clip{ID: NewID("clip"), AssetID: "a1", End: 5}

	tl.PlaceClip(c, 0, -3)

	if c.Start != 0 {
		t.Fatalf("expected start clamped to 0, got %v", c.Start)
	}
}

func TestPlaceClipResolvesPastOverlap(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	tl.Clips = []*Clip{
		{ID: "existing-a", Track: 0, Start: 0, End: 5},
		{ID: "existing-b", Track: 0, Start: 5, End: 10},
	}

	c := &Clip{ID: NewID("clip"), AssetID: "a1", End: 3}
	tl.PlaceClip(c, 0, 4)

	if c.Start < 5 {
		t.Fatalf("expected start pushed to >= 5, got %v", c.Start)
	}
	if c.End-c.Start != 3 {
		t.Fatalf("placement must preserve duration, got %v", c.End-c.Start)
	}
	// [5,10) occupies the slot at 5, so the clip lands after it
	if c.Start != 10 {
		t.Fatalf("expected start 10 after both neighbours, got %v", c.Start)
	}
}

func TestPlaceClipIgnoresOtherTracks(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	tl.Clips = []*Clip{{ID: "other", Track: 1, Start: 0, End: 100}}

	c := &Clip{ID: NewID("clip"), AssetID: "a1", End: 4}
	tl.PlaceClip(c, 0, 2)

	if c.Start != 2 {
		t.Fatalf("occupancy on track 1 must not affect track 0, got start %v", c.Start)
	}
}

func TestPlaceClipExcludesSelfWhenMoving(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	c := &Clip{ID: "mover", Track: 0, Start: 0, End: 5}
	tl.Clips = []*Clip{c}

	tl.PlaceClip(c, 0, 2)

	if c.Start != 2 || c.End != 7 {
		t.Fatalf("moving a clip must not collide with itself, got [%v,%v)", c.Start, c.End)
	}
}

func TestPlaceClipIterationCeiling(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	// A wall of adjacent clips longer than the iteration ceiling
	for i := 0; i < placeMaxIterations+5; i++ {
		tl.Clips = append(tl.Clips, &Clip{
			ID:    NewID("clip"),
			Track: 0,
			Start: float64(i),
			End:   float64(i + 1),
		})
	}

	c := &Clip{ID: NewID("clip"), End: 1}
	tl.PlaceClip(c, 0, 0)

	// The loop terminates and the last computed position is accepted even
	// though it still overlaps the wall.
	if c.Start != float64(placeMaxIterations) {
		t.Fatalf("expected start %d after ceiling, got %v", placeMaxIterations, c.Start)
	}
}

func TestPlaceAudioSkipsLinkedTracks(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	tl.Audio = []*AudioTrack{
		{ID: "linked", Track: 0, Start: 0, End: 10, LinkedClipID: "clip-x"},
		{ID: "indep", Track: 0, Start: 12, End: 15},
	}

	a := &AudioTrack{ID: NewID("audio"), End: 2}
	tl.PlaceAudio(a, 0, 1)

	// The linked track does not occupy the audio lane
	if a.Start != 1 {
		t.Fatalf("linked tracks must not block placement, got start %v", a.Start)
	}

	b := &AudioTrack{ID: NewID("audio"), End: 2}
	tl.PlaceAudio(b, 0, 13)
	if b.Start != 15 {
		t.Fatalf("independent track must block placement, got start %v", b.Start)
	}
}
