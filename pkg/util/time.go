package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeconds converts seconds to the ffmpeg HH:MM:SS.mmm timestamp form
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// ParseTimestamp parses "SS.mmm", "MM:SS" or "HH:MM:SS.mmm" into seconds
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")

	var factors []float64
	switch len(parts) {
	case 1:
		factors = []float64{1}
	case 2:
		factors = []float64{60, 1}
	case 3:
		factors = []float64{3600, 60, 1}
	default:
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}

	var total float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		total += v * factors[i]
	}
	return total, nil
}

// ParseFrameRate parses the ffprobe rational form, e.g. "30000/1001"
func ParseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
