package timeline

import (
	"errors"
	"testing"
)

func timelineWithLinkedClip() (*Timeline, *Clip, *AudioTrack) {
	tl := New(1920, 1080, "16:9")
	c := &Clip{
		ID:      "clip-1",
		AssetID: "asset-1",
		Track:   0,
		Start:   0,
		End:     10,
		Volume:  1,
		Effects: []Effect{{Type: EffectFilter, Name: "warm", Filter: &FilterParams{Name: "warm", Intensity: 0.5}}},
	}
	a := &AudioTrack{
		ID:           "audio-1",
		AssetID:      "asset-1",
		Track:        0,
		Start:        0,
		End:          10,
		Volume:       1,
		LinkedClipID: "clip-1",
	}
	tl.Clips = []*Clip{c}
	tl.Audio = []*AudioTrack{a}
	tl.refreshDuration()
	return tl, c, a
}

func TestCutClipSplitsAndCascades(t *testing.T) {
	tl, _, _ := timelineWithLinkedClip()

	first, second, err := tl.CutClip("clip-1", 4)
	if err != nil {
		t.Fatalf("cut failed: %v", err)
	}

	if first.Start != 0 || first.End != 4 {
		t.Fatalf("first segment: expected [0,4), got [%v,%v)", first.Start, first.End)
	}
	if second.Start != 4 || second.End != 10 {
		t.Fatalf("second segment: expected [4,10), got [%v,%v)", second.Start, second.End)
	}
	if first.ID == "clip-1" || second.ID == "clip-1" || first.ID == second.ID {
		t.Fatalf("segments must carry fresh distinct ids: %q, %q", first.ID, second.ID)
	}
	if tl.ClipByID("clip-1") != nil {
		t.Fatal("original clip must be removed")
	}

	if len(tl.Audio) != 2 {
		t.Fatalf("expected 2 audio segments after cascade, got %d", len(tl.Audio))
	}
	left, right := tl.Audio[0], tl.Audio[1]
	if left.LinkedClipID != first.ID || left.Start != 0 || left.End != 4 {
		t.Fatalf("left audio not mirroring first segment: %+v", left)
	}
	if right.LinkedClipID != second.ID || right.Start != 4 || right.End != 10 {
		t.Fatalf("right audio not mirroring second segment: %+v", right)
	}
	if len(tl.LinkedAudio("clip-1")) != 0 {
		t.Fatal("no track may remain linked to the removed clip id")
	}

	if err := Validate(tl); err != nil {
		t.Fatalf("timeline incoherent after cut: %v", err)
	}
}

func TestCutClipTrimBookkeeping(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	c := &Clip{ID: "clip-1", AssetID: "a", Track: 0, Start: 2, End: 10, TrimStart: 1.5, TrimEnd: 0.5}
	tl.Clips = []*Clip{c}

	first, second, err := tl.CutClip("clip-1", 5)
	if err != nil {
		t.Fatalf("cut failed: %v", err)
	}

	d := 8.0 // original duration
	if got := first.Duration() + second.Duration(); got != d {
		t.Fatalf("cut must preserve duration: %v != %v", got, d)
	}

	// relative offset is 3; first keeps trimStart and absorbs the tail,
	// second absorbs the head and keeps trimEnd
	if first.TrimStart != 1.5 || first.TrimEnd != 0.5+(d-3) {
		t.Fatalf("first trims wrong: start=%v end=%v", first.TrimStart, first.TrimEnd)
	}
	if second.TrimStart != 1.5+3 || second.TrimEnd != 0.5 {
		t.Fatalf("second trims wrong: start=%v end=%v", second.TrimStart, second.TrimEnd)
	}

	// total trimmed span round-trips: trimEnd' + trimStart' == trimEnd + trimStart + D
	if got, want := first.TrimEnd+second.TrimStart, 0.5+1.5+d; got != want {
		t.Fatalf("trim span does not round-trip: %v != %v", got, want)
	}
}

func TestCutClipCopiesEffectsVerbatim(t *testing.T) {
	tl, _, _ := timelineWithLinkedClip()

	first, second, err := tl.CutClip("clip-1", 4)
	if err != nil {
		t.Fatalf("cut failed: %v", err)
	}
	if len(first.Effects) != 1 || len(second.Effects) != 1 {
		t.Fatalf("both segments must inherit the effect list")
	}
	// payloads are deep-copied, not shared
	first.Effects[0].Filter.Intensity = 0.9
	if second.Effects[0].Filter.Intensity != 0.5 {
		t.Fatal("effect payloads must not be shared between segments")
	}
}

func TestCutClipRejectsBoundaryPositions(t *testing.T) {
	for _, pos := range []float64{0, 10, -1, 15} {
		tl, _, _ := timelineWithLinkedClip()
		if _, _, err := tl.CutClip("clip-1", pos); !errors.Is(err, ErrInvalidCutPosition) {
			t.Fatalf("position %v: expected ErrInvalidCutPosition, got %v", pos, err)
		}
		if len(tl.Clips) != 1 || len(tl.Audio) != 1 {
			t.Fatalf("failed cut must not alter the timeline")
		}
	}
}

func TestCutClipUnknownID(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	if _, _, err := tl.CutClip("nope", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCutAudioTrackIndependent(t *testing.T) {
	tl := New(1920, 1080, "16:9")
	tl.Audio = []*AudioTrack{{
		ID: "audio-1", SourceURL: "https://cdn.example/bg.mp3",
		Track: 2, Start: 1, End: 9, Volume: 0.8, FadeIn: 0.5, FadeOut: 1,
	}}

	first, second, err := tl.CutAudioTrack("audio-1", 5)
	if err != nil {
		t.Fatalf("cut failed: %v", err)
	}
	if first.End != 5 || second.Start != 5 {
		t.Fatalf("expected split at 5, got [%v,%v) and [%v,%v)", first.Start, first.End, second.Start, second.End)
	}
	if first.Volume != 0.8 || second.Volume != 0.8 {
		t.Fatal("segments must retain volume")
	}
	if first.FadeIn != 0.5 || second.FadeOut != 1 {
		t.Fatal("segments must retain fade settings")
	}
	if first.SourceURL != "https://cdn.example/bg.mp3" || second.SourceURL != first.SourceURL {
		t.Fatal("segments must retain the source reference")
	}
}

func TestCutAudioTrackRejectsLinked(t *testing.T) {
	tl, _, _ := timelineWithLinkedClip()
	if _, _, err := tl.CutAudioTrack("audio-1", 4); !errors.Is(err, ErrLinkedTrackNotCuttable) {
		t.Fatalf("expected ErrLinkedTrackNotCuttable, got %v", err)
	}
}

func TestCutCascadeWithMultipleLinkedTracks(t *testing.T) {
	tl, _, _ := timelineWithLinkedClip()
	tl.Audio = append(tl.Audio, &AudioTrack{
		ID: "audio-2", AssetID: "asset-1", Track: 1,
		Start: 0, End: 10, Volume: 0.5, LinkedClipID: "clip-1",
	})

	if _, _, err := tl.CutClip("clip-1", 6); err != nil {
		t.Fatalf("cut failed: %v", err)
	}
	if len(tl.Audio) != 4 {
		t.Fatalf("N linked tracks must yield exactly 2N segments, got %d", len(tl.Audio))
	}
	if err := Validate(tl); err != nil {
		t.Fatalf("timeline incoherent after cascade: %v", err)
	}
}
