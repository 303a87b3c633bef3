// internal/normalizer/coerce.go
package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// starCount converts a difficulty value to an integer in [1,5]. Numeric
// values are clamped; strings are counted by filled star glyphs or scanned
// for a digit; anything unusable yields the default.
func starCount(v interface{}, def int) int {
	switch val := v.(type) {
	case float64:
		return clampStars(int(math.Round(val)))
	case int:
		return clampStars(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return def
		}
		if n := strings.Count(s, "★") + strings.Count(s, "⭐"); n > 0 {
			return clampStars(n)
		}
		if n, ok := firstInt(s); ok {
			return clampStars(n)
		}
		return def
	default:
		return def
	}
}

func clampStars(n int) int {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

// intOrScan converts a value that should be a number but may arrive as
// free text ("about 45 minutes"). The first embedded integer wins; no
// digit at all yields the default.
func intOrScan(v interface{}, def int) int {
	switch val := v.(type) {
	case float64:
		return int(math.Round(val))
	case int:
		return val
	case string:
		if n, ok := firstInt(val); ok {
			return n
		}
		return def
	default:
		return def
	}
}

// firstInt scans s for the first run of digits.
func firstInt(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil
	}
	return 0, false
}

// stringOf renders a value that may be a number or string ("15" and 15
// both mean fifteen reps).
func stringOf(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == math.Trunc(val) {
			return strconv.Itoa(int(val))
		}
		return fmt.Sprintf("%g", val)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

// stringSlice converts a JSON array into a []string, skipping entries that
// are not strings or render blank.
func stringSlice(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := stringOf(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
