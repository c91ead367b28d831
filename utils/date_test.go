package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateAndClockOf(t *testing.T) {
	// 23:30 UTC is already the next day in Jakarta.
	utc := time.Date(2026, 8, 27, 23, 30, 5, 0, time.UTC)

	assert.Equal(t, "2026-08-28", DateOf(utc))
	assert.Equal(t, "06:30:05", ClockOf(utc))
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("17:05:09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 17, got.Hour())
	assert.Equal(t, 5, got.Minute())

	_, err = ParseClock("5pm")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 28, d.Day())
	assert.Equal(t, JakartaTZ, d.Location())

	_, err = ParseDate("28/08/2026")
	assert.Error(t, err)
}
