package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisOrderingAndLookup(t *testing.T) {
	require.Equal(t, 28, SlotsPerDay)

	first, ok := LabelAt(0)
	require.True(t, ok)
	assert.Equal(t, "7:00AM", first)

	last, ok := LabelAt(SlotsPerDay - 1)
	require.True(t, ok)
	assert.Equal(t, "8:30PM", last)

	_, ok = LabelAt(SlotsPerDay)
	assert.False(t, ok)
	_, ok = LabelAt(-1)
	assert.False(t, ok)

	for i := 0; i < SlotsPerDay; i++ {
		label, ok := LabelAt(i)
		require.True(t, ok)
		idx, ok := IndexOf(label)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}

	_, ok = IndexOf("9:00 AM")
	assert.False(t, ok, "lookup is exact, no fuzzy matching")
}

func TestEndLabel(t *testing.T) {
	assert.Equal(t, "11:00AM", EndLabel("9:00AM", 4))
	assert.Equal(t, "7:30AM", EndLabel("7:00AM", 1))
	assert.Equal(t, "", EndLabel("25:00AM", 2), "unknown start yields empty string")
	assert.Equal(t, "8:30PM", EndLabel("8:00PM", 6), "end clamps to the last axis index")
}

func TestEndLabelRoundTrip(t *testing.T) {
	// Re-deriving the duration from (start, end) by index subtraction must
	// recover the original slot count for non-boundary-crossing inputs.
	for start := 0; start < SlotsPerDay; start++ {
		for duration := 1; start+duration < SlotsPerDay; duration++ {
			startLabel, ok := LabelAt(start)
			require.True(t, ok)
			end := EndLabel(startLabel, duration)
			endIdx, ok := IndexOf(end)
			require.True(t, ok)
			require.Equal(t, duration, endIdx-start)
		}
	}
}

func TestParseDay(t *testing.T) {
	day, ok := ParseDay("wednesday")
	require.True(t, ok)
	assert.Equal(t, Wednesday, day)

	_, ok = ParseDay("Sunday")
	assert.False(t, ok)

	assert.Equal(t, "Saturday", Saturday.String())
	assert.Len(t, Days, 6)
}

func TestSlotKeyCodec(t *testing.T) {
	key, err := ParseSlotKey("Monday_9:00AM")
	require.NoError(t, err)
	assert.Equal(t, Monday, key.Day)
	assert.Equal(t, 4, key.Index)
	assert.Equal(t, "Monday_9:00AM", key.String())

	_, err = ParseSlotKey("Funday_9:00AM")
	assert.Error(t, err)
	_, err = ParseSlotKey("Monday_9am")
	assert.Error(t, err)
	_, err = ParseSlotKey("Monday")
	assert.Error(t, err)
}
