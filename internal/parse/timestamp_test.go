package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Resolve(t *testing.T) {
	n := NewNormalizer(time.UTC)

	tests := []struct {
		date, clock string
		want        time.Time
	}{
		{"12/05/23", "9:15 AM", time.Date(2023, 5, 12, 9, 15, 0, 0, time.UTC)},
		{"12/05/2023", "09:15", time.Date(2023, 5, 12, 9, 15, 0, 0, time.UTC)},
		{"1/2/23", "23:59:59", time.Date(2023, 2, 1, 23, 59, 59, 0, time.UTC)},
		{"12.05.23", "9:15pm", time.Date(2023, 5, 12, 21, 15, 0, 0, time.UTC)},
		{"12/05/23", "12:30 AM", time.Date(2023, 5, 12, 0, 30, 0, 0, time.UTC)},
		{"12/05/23", "12:30:10 pm", time.Date(2023, 5, 12, 12, 30, 10, 0, time.UTC)},
		{"12/05/23", "9:15 A.M.", time.Date(2023, 5, 12, 9, 15, 0, 0, time.UTC)},
		// only valid month-first
		{"05/13/23", "9:15 AM", time.Date(2023, 5, 13, 9, 15, 0, 0, time.UTC)},
		{"12/31/2023", "18:00", time.Date(2023, 12, 31, 18, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, err := n.Resolve(tc.date, tc.clock)
		require.NoError(t, err, "%s %s", tc.date, tc.clock)
		assert.Equal(t, tc.want, got, "%s %s", tc.date, tc.clock)
	}
}

func TestNormalizer_DayFirstWins(t *testing.T) {
	got, err := NewNormalizer(time.UTC).Resolve("03/04/23", "10:00")
	require.NoError(t, err)
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestNormalizer_Unresolved(t *testing.T) {
	n := NewNormalizer(time.UTC)
	for _, tc := range [][2]string{
		{"31/31/23", "9:15 AM"},
		{"12/05/223", "9:15 AM"},
		{"12/05/23", "25:15"},
		{"12/05/23", "13:15 PM"},
	} {
		_, err := n.Resolve(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrUnresolvedTimestamp, "%s %s", tc[0], tc[1])
	}
}

func TestNormalizer_Location(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got, err := NewNormalizer(loc).Resolve("12/05/23", "9:15 AM")
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, time.Date(2023, 5, 12, 3, 45, 0, 0, time.UTC), got.UTC())
}

func TestNormalizer_CustomLayouts(t *testing.T) {
	n := NewNormalizerWithLayouts(time.UTC, []string{"1/2/06"}, []string{"15:04"})
	got, err := n.Resolve("03/04/23", "10:00")
	require.NoError(t, err)
	assert.Equal(t, time.March, got.Month())
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "9:15 PM", normalizeTime("9:15pm"))
	assert.Equal(t, "9:15 PM", normalizeTime("9:15 p.m."))
	assert.Equal(t, "9:15 AM", normalizeTime("9:15 AM"))
	assert.Equal(t, "21:15", normalizeTime("21:15"))
}
