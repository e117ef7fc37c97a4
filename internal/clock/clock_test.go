package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWall_StampFormat(t *testing.T) {
	w, err := New(Config{Timezone: "UTC"})
	require.NoError(t, err)

	stamp := w.Stamp()
	parsed, err := time.Parse("15:04:05", stamp)
	require.NoError(t, err)
	require.Equal(t, stamp, parsed.Format("15:04:05"))
}

func TestWall_TimezoneApplied(t *testing.T) {
	w, err := New(Config{Timezone: "America/New_York"})
	require.NoError(t, err)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	require.Equal(t, time.Now().In(loc).Format("15:04"), w.Now().Format("15:04"))
}

func TestNew_BadTimezone(t *testing.T) {
	_, err := New(Config{Timezone: "Not/AZone"})
	require.Error(t, err)
}

func TestStamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC)
	require.Equal(t, "09:05:07", Stamp(at))
}
