package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// TimestampLayout matches the ISO-8601 strings stored on every record
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the calendar date format of seminars, events and hackathons
const DateLayout = "2006-01-02"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Use the global logger here, the configured one may not exist yet.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// Timestamp formats t as a stored record timestamp
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Today returns the calendar date of t in its own location
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// OnOrAfter reports whether the date prefix of value is on or after day.
// Values that are not dates are never on or after anything.
func OnOrAfter(value, day string) bool {
	if len(value) < len(DateLayout) {
		return false
	}
	if _, err := time.Parse(DateLayout, value[:len(DateLayout)]); err != nil {
		return false
	}
	return value[:len(DateLayout)] >= day
}
