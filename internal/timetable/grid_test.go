package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, raw string) SlotKey {
	t.Helper()
	key, err := ParseSlotKey(raw)
	require.NoError(t, err)
	return key
}

func TestIsCovered(t *testing.T) {
	g := NewGrid()
	anchor := mustKey(t, "Monday_9:00AM")
	require.Nil(t, g.Place(anchor, "DB SYSTEMS (LEC)", 4, PlaceOptions{Relocate: true, Room: "ROOM 301"}))

	// The anchor cell is the rendering origin, never covered.
	assert.False(t, g.IsCovered(Monday, anchor.Index))
	for offset := 1; offset < 4; offset++ {
		assert.True(t, g.IsCovered(Monday, anchor.Index+offset), "interior index %d", offset)
	}
	assert.False(t, g.IsCovered(Monday, anchor.Index+4), "first cell past the block")
	assert.False(t, g.IsCovered(Tuesday, anchor.Index+1), "other days unaffected")
}

func TestPlaceRejectsCoveredStart(t *testing.T) {
	g := NewGrid()
	require.Nil(t, g.Place(mustKey(t, "Monday_9:00AM"), "DB SYSTEMS (LEC)", 4, PlaceOptions{Relocate: true, Room: "ROOM 301"}))

	err := g.Place(mustKey(t, "Monday_9:30AM"), "NETWORKS (LEC)", 4, PlaceOptions{Relocate: true})
	require.NotNil(t, err)
	assert.Equal(t, ReasonCovered, err.Reason)
	assert.Equal(t, 1, g.Len(), "rejection leaves the grid untouched")
}

func TestPlaceRejectsOccupiedAnchor(t *testing.T) {
	g := NewGrid()
	key := mustKey(t, "Tuesday_1:00PM")
	require.Nil(t, g.Place(key, "ETHICS", 2, PlaceOptions{Relocate: true}))

	err := g.Place(key, "CALCULUS", 2, PlaceOptions{Relocate: true})
	require.NotNil(t, err)
	assert.Equal(t, ReasonOccupied, err.Reason)
}

func TestPlaceRejectsDuplicateSubjectOnStrictAdd(t *testing.T) {
	g := NewGrid()
	require.Nil(t, g.Place(mustKey(t, "Monday_7:00AM"), "ETHICS", 2, PlaceOptions{}))

	err := g.Place(mustKey(t, "Friday_7:00AM"), "ETHICS", 2, PlaceOptions{})
	require.NotNil(t, err)
	assert.Equal(t, ReasonDuplicateSubject, err.Reason)
}

func TestRelocateMovesSubject(t *testing.T) {
	g := NewGrid()
	from := mustKey(t, "Monday_7:00AM")
	to := mustKey(t, "Thursday_3:00PM")
	require.Nil(t, g.Place(from, "ETHICS", 2, PlaceOptions{Relocate: true}))
	require.Nil(t, g.Place(to, "ETHICS", 2, PlaceOptions{Relocate: true}))

	assert.Equal(t, 1, g.Len(), "a subject appears at most once per grid")
	_, ok := g.At(from)
	assert.False(t, ok)
	entry, ok := g.At(to)
	require.True(t, ok)
	assert.Equal(t, "ETHICS", entry.Subject)
}

func TestRelocateCarriesSubstitute(t *testing.T) {
	g := NewGrid()
	from := mustKey(t, "Monday_9:00AM")
	to := mustKey(t, "Thursday_3:00PM")
	require.Nil(t, g.Place(from, "ETHICS", 2, PlaceOptions{Relocate: true, Professor: "John Smith", Substitute: "Maria Cruz"}))
	require.Nil(t, g.Place(to, "ETHICS", 2, PlaceOptions{Relocate: true, Professor: "John Smith", Substitute: "Maria Cruz"}))

	entry, ok := g.At(to)
	require.True(t, ok)
	assert.Equal(t, "Maria Cruz", entry.Substitute)
}

func TestPlaceIdempotentMove(t *testing.T) {
	g := NewGrid()
	key := mustKey(t, "Wednesday_10:00AM")
	require.Nil(t, g.Place(key, "DB SYSTEMS (LEC)", 4, PlaceOptions{Relocate: true, Room: "ROOM 301"}))
	before := g.Entries()

	// Dropping the subject onto its own anchor must yield an identical grid.
	require.Nil(t, g.Place(key, "DB SYSTEMS (LEC)", 4, PlaceOptions{Relocate: true, Room: "ROOM 301"}))
	assert.Equal(t, before, g.Entries())
}

func TestAvailableRunTruncation(t *testing.T) {
	g := NewGrid()
	require.Nil(t, g.Place(mustKey(t, "Monday_9:00AM"), "NETWORKS (LEC)", 4, PlaceOptions{Relocate: true}))

	// Only two free slots remain between 8:00AM and the 9:00AM anchor.
	assert.Equal(t, 2, g.AvailableRun(Monday, 2, 6, nil))
	// Runs clamp at the end of the day.
	assert.Equal(t, 2, g.AvailableRun(Monday, SlotsPerDay-2, 6, nil))
	// Minimum return is 1 even when the next anchor is adjacent.
	assert.Equal(t, 1, g.AvailableRun(Monday, 3, 4, nil))

	// Excluding a key ignores that block, used when moving over itself.
	anchor := mustKey(t, "Monday_9:00AM")
	assert.Equal(t, 6, g.AvailableRun(Monday, 2, 6, &anchor))
}

func TestPlaceTruncatesToRun(t *testing.T) {
	g := NewGrid()
	require.Nil(t, g.Place(mustKey(t, "Monday_10:00AM"), "NETWORKS (LEC)", 4, PlaceOptions{Relocate: true}))
	require.Nil(t, g.Place(mustKey(t, "Monday_9:00AM"), "ETHICS", 4, PlaceOptions{Relocate: true}))

	entry, ok := g.At(mustKey(t, "Monday_9:00AM"))
	require.True(t, ok)
	assert.Equal(t, 2, entry.DurationSlots, "duration truncated before the next anchor")
	assert.Equal(t, "10:00AM", entry.EndTime)
}

func TestRemove(t *testing.T) {
	g := NewGrid()
	key := mustKey(t, "Saturday_7:00AM")
	require.Nil(t, g.Place(key, "PATHFIT 1", 2, PlaceOptions{Relocate: true}))
	g.Remove(key)
	assert.Equal(t, 0, g.Len())
	g.Remove(key) // removing an empty cell is a no-op
}

func TestUpdateKeepsEndTimeConsistent(t *testing.T) {
	g := NewGrid()
	key := mustKey(t, "Friday_1:00PM")
	require.Nil(t, g.Place(key, "WEB DEV (LAB)", 4, PlaceOptions{Relocate: true}))

	ok := g.Update(key, func(e *Entry) {
		e.Room = "COMLAB 2"
		e.Professor = "J. Cruz"
	})
	require.True(t, ok)
	entry, _ := g.At(key)
	assert.Equal(t, "COMLAB 2", entry.Room)
	assert.Equal(t, "3:00PM", entry.EndTime)

	assert.False(t, g.Update(mustKey(t, "Friday_7:00AM"), func(e *Entry) {}))
}
