package ffmpeg

import (
	"strings"
	"testing"
)

func argsContain(t *testing.T, args []string, pairs ...string) {
	t.Helper()
	joined := " " + strings.Join(args, " ") + " "
	for _, want := range pairs {
		if !strings.Contains(joined, " "+want+" ") {
			t.Errorf("args missing %q in: %s", want, joined)
		}
	}
}

func TestBuildNormalizeArgsTargetSpec(t *testing.T) {
	args := buildNormalizeArgs(NormalizeOptions{
		Input:        "in.mp4",
		Output:       "out.mp4",
		Width:        1920,
		Height:       1080,
		FrameRate:    30,
		VideoCodec:   "libx264",
		VideoBitrate: "5000k",
		AudioBitrate: "192k",
	})

	argsContain(t, args,
		"-i in.mp4",
		"-c:v libx264",
		"-preset medium",
		"-b:v 5000k",
		"-c:a aac",
		"-ar 44100",
		"-b:a 192k",
		"-movflags +faststart",
	)

	vf := extractFlag(args, "-vf")
	for _, want := range []string{
		"scale=1920:1080:force_original_aspect_ratio=decrease",
		"pad=1920:1080",
		"fps=30",
		"format=yuv420p",
	} {
		if !strings.Contains(vf, want) {
			t.Errorf("video filter missing %q: %s", want, vf)
		}
	}

	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output must be the final argument, got %q", args[len(args)-1])
	}
}

func TestBuildNormalizeArgsTrimWindow(t *testing.T) {
	args := buildNormalizeArgs(NormalizeOptions{
		Input:     "in.mp4",
		Output:    "out.mp4",
		Width:     1280,
		Height:    720,
		TrimStart: 2.5,
		TrimEnd:   8.5,
	})

	argsContain(t, args, "-ss 00:00:02.500", "-t 00:00:06.000")

	// -ss must precede -i for input seeking
	var ssIdx, inIdx int
	for i, a := range args {
		if a == "-ss" {
			ssIdx = i
		}
		if a == "-i" {
			inIdx = i
		}
	}
	if ssIdx > inIdx {
		t.Error("-ss must come before -i")
	}
}

func TestBuildNormalizeArgsVolume(t *testing.T) {
	args := buildNormalizeArgs(NormalizeOptions{
		Input: "in.mp4", Output: "out.mp4",
		Width: 640, Height: 480, Volume: 0.5,
	})
	if af := extractFlag(args, "-af"); af != "volume=0.500" {
		t.Errorf("expected volume filter, got %q", af)
	}

	// full volume needs no filter
	args = buildNormalizeArgs(NormalizeOptions{
		Input: "in.mp4", Output: "out.mp4",
		Width: 640, Height: 480, Volume: 1,
	})
	if af := extractFlag(args, "-af"); af != "" {
		t.Errorf("unexpected audio filter at full volume: %q", af)
	}
}

func TestBuildNormalizeArgsDropAudio(t *testing.T) {
	args := buildNormalizeArgs(NormalizeOptions{
		Input: "in.mp4", Output: "out.gif",
		Width: 480, Height: 270, DropAudio: true, Volume: 0.5,
	})

	argsContain(t, args, "-an")
	joined := strings.Join(args, " ")
	for _, flag := range []string{"-c:a", "-ar", "-b:a", "-af"} {
		if strings.Contains(joined, flag) {
			t.Errorf("audio flag %q present despite -an: %s", flag, joined)
		}
	}
}

func TestBuildNormalizeArgsFastStartByContainer(t *testing.T) {
	mp4 := buildNormalizeArgs(NormalizeOptions{
		Input: "in.mp4", Output: "out.mp4", Width: 640, Height: 480,
	})
	argsContain(t, mp4, "-movflags +faststart")

	for _, output := range []string{"out.webm", "out.gif"} {
		args := buildNormalizeArgs(NormalizeOptions{
			Input: "in.mp4", Output: output, Width: 640, Height: 480,
		})
		if strings.Contains(strings.Join(args, " "), "-movflags") {
			t.Errorf("%s must not carry -movflags: %v", output, args)
		}
	}
}

func TestWantsFastStart(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"out.mp4", true},
		{"out.MOV", true},
		{"out.m4v", true},
		{"out.webm", false},
		{"out.gif", false},
		{"out", false},
	}
	for _, tt := range tests {
		if got := wantsFastStart(tt.path); got != tt.want {
			t.Errorf("wantsFastStart(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestBuildThumbnailArgs(t *testing.T) {
	args := buildThumbnailArgs(ThumbnailOptions{
		Input:  "in.mp4",
		Output: "thumb.jpg",
		Offset: 1.5,
		Width:  320,
		Height: 180,
	})

	argsContain(t, args, "-ss 00:00:01.500", "-i in.mp4", "-frames:v 1")
	if vf := extractFlag(args, "-vf"); !strings.Contains(vf, "scale=320:180") {
		t.Errorf("thumbnail filter missing scale: %s", vf)
	}
	if args[len(args)-1] != "thumb.jpg" {
		t.Errorf("output must be the final argument, got %q", args[len(args)-1])
	}
}

func TestBuildThumbnailArgsSingleDimension(t *testing.T) {
	args := buildThumbnailArgs(ThumbnailOptions{
		Input: "in.mp4", Output: "thumb.jpg", Width: 320,
	})
	if vf := extractFlag(args, "-vf"); vf != "scale=320:-2" {
		t.Errorf("width-only scale = %q, want scale=320:-2", vf)
	}

	args = buildThumbnailArgs(ThumbnailOptions{
		Input: "in.mp4", Output: "thumb.jpg", Height: 180,
	})
	if vf := extractFlag(args, "-vf"); vf != "scale=-2:180" {
		t.Errorf("height-only scale = %q, want scale=-2:180", vf)
	}
}

func TestFilterBuilderChain(t *testing.T) {
	got := NewFilterBuilder().
		Scale(1920, 1080).
		FPS(24).
		PixelFormat("yuv420p").
		Build()
	want := "scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,fps=24,format=yuv420p"
	if got != want {
		t.Errorf("chain mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestFilterBuilderSkipsInvalidValues(t *testing.T) {
	got := NewFilterBuilder().
		Scale(0, 1080).
		FPS(-1).
		PixelFormat("").
		FadeIn(0).
		FadeOut(5, 3).
		Build()
	if got != "" {
		t.Errorf("invalid inputs must be skipped, got %q", got)
	}
}

func TestFilterBuilderFades(t *testing.T) {
	got := NewFilterBuilder().FadeIn(0.5).FadeOut(2, 10).Build()
	want := "afade=t=in:st=0:d=0.5,afade=t=out:st=8:d=2"
	if got != want {
		t.Errorf("fade chain mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestParseClock(t *testing.T) {
	if got := parseClock("00:01:05.50"); got != 65.5 {
		t.Errorf("expected 65.5, got %v", got)
	}
	for _, bad := range []string{"", "1:2", "a:b:c"} {
		if got := parseClock(bad); got != 0 {
			t.Errorf("parseClock(%q) = %v, want 0", bad, got)
		}
	}
}

func extractFlag(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
