package utils

import (
	"fmt"
	"time"
)

var JakartaTZ = time.FixedZone("WIB", 7*60*60)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

func JakartaNow() time.Time {
	return time.Now().In(JakartaTZ)
}

// DateOf formats t as an attendance day (yyyy-MM-dd) in Jakarta time.
func DateOf(t time.Time) string {
	return t.In(JakartaTZ).Format(DateLayout)
}

// ClockOf formats t as a 24h time-of-day (HH:mm:ss) in Jakarta time.
func ClockOf(t time.Time) string {
	return t.In(JakartaTZ).Format(ClockLayout)
}

// ParseDate parses a yyyy-MM-dd attendance day in Jakarta time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, JakartaTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses a HH:mm:ss time-of-day string.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse clock time %q: %w", s, err)
	}
	return t, nil
}
