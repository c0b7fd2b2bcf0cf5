// internal/time_parser.go
// ------------------------
// Helpers for turning rate limit headers into Unix millisecond timestamps.
//
// Functions:
// - ParseDurationMs: "120", "1s", "6m0s" into milliseconds.
// - ParseUnixSeconds: a Unix seconds header value into milliseconds.
// - UnixToMs: Unix seconds to milliseconds.
// - IsAfter: whether one millisecond timestamp lies after another.
package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDurationMs converts "120" (seconds), "1s" or "6m0s" into ms. Unparseable input yields 0.
func ParseDurationMs(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sec * 1000
	}

	if strings.HasSuffix(s, "s") && !strings.Contains(s, "m") {
		sec, err := strconv.Atoi(strings.TrimSuffix(s, "s"))
		if err == nil {
			return int64(sec) * 1000
		}
	}

	var minutes, seconds int
	n, err := fmt.Sscanf(s, "%dm%ds", &minutes, &seconds)
	if n == 2 && err == nil {
		return int64(minutes)*60_000 + int64(seconds)*1_000
	}

	return 0
}

// ParseUnixSeconds parses a Unix seconds value and returns it in ms.
func ParseUnixSeconds(s string) (int64, bool) {
	ts, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return UnixToMs(ts), true
}

// UnixToMs converts a Unix timestamp in seconds to milliseconds.
func UnixToMs(timestamp int64) int64 {
	return timestamp * 1000
}

// IsAfter reports whether ms lies strictly after nowMs.
func IsAfter(ms, nowMs int64) bool {
	return ms > nowMs
}
