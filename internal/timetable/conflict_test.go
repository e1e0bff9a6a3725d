package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionView(t *testing.T, id string, placements map[string]Entry) ScheduleView {
	t.Helper()
	grid := NewGrid()
	for raw, entry := range placements {
		key := mustKey(t, raw)
		require.Nil(t, grid.Place(key, entry.Subject, entry.DurationSlots, PlaceOptions{
			Relocate:  true,
			Room:      entry.Room,
			Professor: entry.Professor,
		}))
		if entry.Substitute != "" {
			grid.Update(key, func(e *Entry) { e.Substitute = entry.Substitute })
		}
	}
	return ScheduleView{ID: id, Section: id, Grid: grid}
}

func TestOverlapBoundaries(t *testing.T) {
	assert.True(t, Overlap(4, 4, 6, 2), "nested ranges overlap")
	assert.True(t, Overlap(4, 2, 4, 4), "same start overlaps")
	assert.False(t, Overlap(4, 2, 6, 2), "abutting ranges do not overlap")
	assert.False(t, Overlap(6, 2, 4, 2), "abutting, reversed")
}

func TestConflictSymmetry(t *testing.T) {
	views := []ScheduleView{sectionView(t, "BT1101", map[string]Entry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, Room: "ROOM 301", Professor: "P. Reyes"},
	})}

	for s1 := 0; s1 < 12; s1++ {
		for d1 := 1; d1 <= 4; d1++ {
			want := Overlap(s1, d1, 4, 4)
			got := HasConflict(ResourceRoom, "ROOM 301", Monday, s1, d1, views, nil)
			require.Equal(t, want, got, "start=%d duration=%d", s1, d1)
		}
	}
}

func TestProfessorConflictAcrossSections(t *testing.T) {
	// Professor P holds Monday 9:00AM-11:00AM in section A.
	views := []ScheduleView{sectionView(t, "A", map[string]Entry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, Professor: "P. Reyes"},
	})}

	// 10:00AM for one hour overlaps [9:00,11:00).
	assert.True(t, HasConflict(ResourceProfessor, "P. Reyes", Monday, 6, 2, views, nil))
	// 11:00AM abuts, no overlap.
	assert.False(t, HasConflict(ResourceProfessor, "P. Reyes", Monday, 8, 2, views, nil))
	// Same range on another day is free.
	assert.False(t, HasConflict(ResourceProfessor, "P. Reyes", Tuesday, 6, 2, views, nil))
}

func TestProfessorMatchNormalizesWhitespace(t *testing.T) {
	views := []ScheduleView{sectionView(t, "A", map[string]Entry{
		"Monday_9:00AM": {Subject: "ETHICS", DurationSlots: 2, Professor: "  P.   Reyes "},
	})}
	assert.True(t, HasConflict(ResourceProfessor, "P. Reyes", Monday, 4, 2, views, nil))
}

func TestRoomMatchIsExact(t *testing.T) {
	views := []ScheduleView{sectionView(t, "A", map[string]Entry{
		"Monday_9:00AM": {Subject: "ETHICS", DurationSlots: 2, Room: "ROOM 301"},
	})}
	assert.True(t, HasConflict(ResourceRoom, "ROOM 301", Monday, 4, 2, views, nil))
	assert.False(t, HasConflict(ResourceRoom, "room 301", Monday, 4, 2, views, nil))
	assert.False(t, HasConflict(ResourceRoom, "", Monday, 4, 2, views, nil), "blank resource never conflicts")
}

func TestArchivedSchedulesSkipped(t *testing.T) {
	view := sectionView(t, "A", map[string]Entry{
		"Monday_9:00AM": {Subject: "ETHICS", DurationSlots: 2, Room: "ROOM 301"},
	})
	view.Archived = true
	assert.False(t, HasConflict(ResourceRoom, "ROOM 301", Monday, 4, 2, []ScheduleView{view}, nil))
}

func TestExcludeSelfSkipsExactCell(t *testing.T) {
	views := []ScheduleView{sectionView(t, "A", map[string]Entry{
		"Monday_9:00AM": {Subject: "ETHICS", DurationSlots: 2, Room: "ROOM 301"},
	})}
	self := &ExcludeRef{ScheduleID: "A", Key: mustKey(t, "Monday_9:00AM")}
	assert.False(t, HasConflict(ResourceRoom, "ROOM 301", Monday, 4, 2, views, self))

	other := &ExcludeRef{ScheduleID: "B", Key: mustKey(t, "Monday_9:00AM")}
	assert.True(t, HasConflict(ResourceRoom, "ROOM 301", Monday, 4, 2, views, other))
}

func TestSubstituteOverridesOccupant(t *testing.T) {
	views := []ScheduleView{sectionView(t, "A", map[string]Entry{
		"Tuesday_1:00PM": {Subject: "ETHICS", DurationSlots: 2, Professor: "P. Reyes", Substitute: "M. Santos"},
	})}

	assert.True(t, HasConflict(ResourceProfessor, "M. Santos", Tuesday, 12, 2, views, nil))
	assert.False(t, HasConflict(ResourceProfessor, "P. Reyes", Tuesday, 12, 2, views, nil),
		"original assignment no longer holds the hours while substituted")
}

func TestNonTeachingViewOccupiesCalendar(t *testing.T) {
	view := NonTeachingView("P. Reyes", []NonTeachingBlock{
		{Day: Friday, StartIndex: 4, DurationSlots: 4, Type: "CONSULTATION"},
		{Day: Friday, StartIndex: 4, DurationSlots: 2, Type: "ADMIN"}, // colliding block kept once
		{Day: Monday, StartIndex: 0, Type: "ADMIN"},                   // zero duration floors to one slot
	})

	assert.True(t, HasConflict(ResourceProfessor, "P. Reyes", Friday, 6, 2, []ScheduleView{view}, nil))
	assert.False(t, HasConflict(ResourceProfessor, "P. Reyes", Friday, 8, 2, []ScheduleView{view}, nil))
	assert.True(t, HasConflict(ResourceProfessor, "P. Reyes", Monday, 0, 1, []ScheduleView{view}, nil))
}
