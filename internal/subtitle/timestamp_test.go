package subtitle

import (
	"math"
	"regexp"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{2, "00:00:02,000"},
		{2.5, "00:00:02,500"},
		{2.001, "00:00:02,001"},
		{0.9999, "00:00:00,999"},
		{59.9996, "00:00:59,999"},
		{61.5, "00:01:01,500"},
		{3661.25, "01:01:01,250"},
		{86400, "24:00:00,000"},
		{360000.123, "100:00:00,123"},
		{-1, "00:00:00,000"},
		{math.NaN(), "00:00:00,000"},
		{math.Inf(-1), "00:00:00,000"},
		{math.Inf(1), "277777777777:46:40,000"},
		{1e20, "277777777777:46:40,000"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimestampFixedWidth(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2,}:\d{2}:\d{2},\d{3}$`)
	for _, s := range []float64{0, 0.0004, 1.1, 59.99, 600, 3599.999, 3600, 7322.5, 100000} {
		if got := FormatTimestamp(s); !pattern.MatchString(got) {
			t.Errorf("FormatTimestamp(%v) = %q does not match HH:MM:SS,mmm", s, got)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		ts      string
		want    float64
		wantErr bool
	}{
		{"00:00:00,000", 0, false},
		{"01:01:01,250", 3661.25, false},
		{"100:00:00,123", 360000.123, false},
		{"00:00:02.000", 0, true},
		{"1:00:00,000", 0, true},
		{"00:61:00,000", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.ts)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.ts, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.ts, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []float64{0, 1.5, 42.042, 3661.25, 7200.999} {
		got, err := ParseTimestamp(FormatTimestamp(s))
		if err != nil {
			t.Fatalf("ParseTimestamp() error = %v", err)
		}
		if got != s {
			t.Errorf("round trip of %v = %v", s, got)
		}
	}
}
