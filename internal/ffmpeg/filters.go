package ffmpeg

import (
	"fmt"
	"strings"
)

// FilterBuilder assembles an ffmpeg filter chain
type FilterBuilder struct {
	filters []string
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Scale fits the frame into width x height, preserving aspect ratio and
// padding the remainder so every normalized source shares one geometry
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height),
	)
	return fb
}

// FPS adds a framerate conversion filter
func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%g", fps))
	return fb
}

// PixelFormat adds a pixel format conversion
func (fb *FilterBuilder) PixelFormat(pixfmt string) *FilterBuilder {
	if pixfmt == "" {
		return fb
	}
	fb.filters = append(fb.filters, "format="+pixfmt)
	return fb
}

// Volume scales audio by a linear factor in [0,1]
func (fb *FilterBuilder) Volume(factor float64) *FilterBuilder {
	if factor < 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("volume=%.3f", factor))
	return fb
}

// FadeIn adds an audio fade-in over the given duration
func (fb *FilterBuilder) FadeIn(seconds float64) *FilterBuilder {
	if seconds <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("afade=t=in:st=0:d=%g", seconds))
	return fb
}

// FadeOut adds an audio fade-out ending at the given total duration
func (fb *FilterBuilder) FadeOut(seconds, total float64) *FilterBuilder {
	if seconds <= 0 || total <= seconds {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("afade=t=out:st=%g:d=%g", total-seconds, seconds))
	return fb
}

// Custom appends a raw filter expression
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

// Build joins the chain with commas
func (fb *FilterBuilder) Build() string {
	return strings.Join(fb.filters, ",")
}
