package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var reTimestamp = regexp.MustCompile(`^(\d{2,}):([0-5]\d):([0-5]\d),(\d{3})$`)

// maxTimestampSeconds keeps the millisecond count inside int64.
const maxTimestampSeconds = 1e15

// FormatTimestamp renders a second offset as HH:MM:SS,mmm. Hours are not
// wrapped at 24 and sub-millisecond remainders are truncated. Negative and NaN
// inputs render as zero; +Inf and oversized values saturate.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if seconds > maxTimestampSeconds {
		seconds = maxTimestampSeconds
	}

	// The epsilon absorbs binary representation error (2.001*1000 = 2000.9999...)
	// without rounding genuine sub-millisecond parts up.
	totalMs := int64(math.Floor(seconds*1000 + 1e-6))

	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(ts string) (float64, error) {
	m := reTimestamp.FindStringSubmatch(ts)
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	var parts [4]int64
	for i := range parts {
		v, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		parts[i] = v
	}

	ms := parts[0]*3600000 + parts[1]*60000 + parts[2]*1000 + parts[3]
	return float64(ms) / 1000, nil
}
