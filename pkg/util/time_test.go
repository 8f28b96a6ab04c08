package util

import "testing"

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.000"},
		{4.5, "00:00:04.500"},
		{65, "00:01:05.000"},
		{3725.25, "01:02:05.250"},
		{-3, "00:00:00.000"},
	}
	for _, c := range cases {
		if got := FormatSeconds(c.in); got != c.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"45.5", 45.5},
		{"1:30", 90},
		{"01:02:03.5", 3723.5},
		{" 10 ", 10},
	}
	for _, c := range cases {
		got, err := ParseTimestamp(c.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) failed: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "a:b", "1:2:3:4", "x"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", bad)
		}
	}
}

func TestParseFrameRate(t *testing.T) {
	if got := ParseFrameRate("30/1"); got != 30 {
		t.Errorf("expected 30, got %v", got)
	}
	if got := ParseFrameRate("30000/1001"); got < 29.9 || got > 30 {
		t.Errorf("expected NTSC rate, got %v", got)
	}
	for _, bad := range []string{"30", "a/b", "1/0", ""} {
		if got := ParseFrameRate(bad); got != 0 {
			t.Errorf("ParseFrameRate(%q) = %v, want 0", bad, got)
		}
	}
}
