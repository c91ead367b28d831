package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOnlyScanFromTime(t *testing.T) {
	// With parseTime=true the driver produces time.Time for DATE columns.
	var d DateOnly
	require.NoError(t, d.Scan(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DateOnly("2026-08-28"), d)
}

func TestDateOnlyScanFromBytesAndString(t *testing.T) {
	var d DateOnly
	require.NoError(t, d.Scan([]byte("2026-08-28")))
	assert.Equal(t, DateOnly("2026-08-28"), d)

	require.NoError(t, d.Scan("2026-08-29"))
	assert.Equal(t, DateOnly("2026-08-29"), d)

	require.NoError(t, d.Scan(nil))
	assert.Equal(t, DateOnly(""), d)
}

func TestDateOnlyScanUnsupported(t *testing.T) {
	var d DateOnly
	assert.Error(t, d.Scan(20260828))
}

func TestDateOnlyValue(t *testing.T) {
	v, err := DateOnly("2026-08-28").Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", v)

	v, err = DateOnly("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAttendanceRecordDateJSON(t *testing.T) {
	rec := AttendanceRecord{
		UserID:    "user-1",
		Date:      "2026-08-28",
		CheckIn:   "09:00:00",
		SelfieURL: "https://selfies.test/selfie-1.jpg",
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":"2026-08-28"`)
}
