package youtube

import (
	"regexp"
	"strconv"
)

// ShortFormMaxSeconds is the exclusive upper bound for short-form
// classification: anything parsed below it counts as a short.
const ShortFormMaxSeconds = 180

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDurationSeconds converts an ISO 8601 duration (e.g. "PT1M30S",
// "PT45S", "PT2H15M30S") into total seconds. Malformed input yields 0;
// callers treat that as "duration unknown", never as an error.
func ParseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	matches := durationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int

	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}

// IsShortForm reports whether a parsed duration classifies as short-form.
func IsShortForm(durationSeconds int) bool {
	return durationSeconds < ShortFormMaxSeconds
}
