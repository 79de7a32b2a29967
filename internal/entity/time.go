package entity

import (
	"fmt"
	"strings"
	"time"
)

// Timestamps are stored and transported as naive-UTC ISO-8601 strings with
// microsecond precision. The fixed-width date and second fields keep
// lexicographic comparison in SQL consistent with chronological order.
const timeLayout = "2006-01-02T15:04:05.999999"

// Now returns the current UTC time truncated to microseconds, so a stored
// timestamp round-trips exactly through its string form.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FormatTime renders t in the canonical storage/wire form.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime reads an ISO-8601 timestamp with or without fractional seconds.
// A trailing "Z" is stripped first; comparisons stay naive UTC throughout.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("entity: parse timestamp %q", s)
}
