package subtitles

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedTimestamp reports a timestamp that is not in HH:MM:SS,mmm form.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParseTimestamp converts an SRT-style HH:MM:SS,mmm timestamp to seconds.
// Only the comma separator and exactly two-digit hour, minute and second
// groups with three millisecond digits are accepted.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}
	clock, millisText, ok := strings.Cut(value, ",")
	if !ok || len(millisText) != 3 || !allDigits(millisText) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
	}
	for _, part := range hms {
		if len(part) != 2 || !allDigits(part) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
		}
	}
	// Digit-only groups of fixed width cannot fail Atoi.
	hours, _ := strconv.Atoi(hms[0])
	minutes, _ := strconv.Atoi(hms[1])
	seconds, _ := strconv.Atoi(hms[2])
	millis, _ := strconv.Atoi(millisText)
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm, rounding to the nearest
// millisecond. Negative input clamps to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	millis := total % 1000
	total /= 1000
	secs := total % 60
	total /= 60
	minutes := total % 60
	hours := total / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
