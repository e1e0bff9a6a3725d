package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveByRoom(t *testing.T) {
	views := []ScheduleView{
		sectionView(t, "BT1101", map[string]Entry{
			"Monday_9:00AM":  {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, Room: "ROOM 301", Professor: "P. Reyes"},
			"Tuesday_1:00PM": {Subject: "ETHICS", DurationSlots: 2, Room: "ROOM 105"},
		}),
		sectionView(t, "BT1102", map[string]Entry{
			"Monday_7:00AM": {Subject: "NETWORKS (LEC)", DurationSlots: 4, Room: "ROOM 301"},
		}),
	}

	byRoom := DeriveByRoom(views)
	require.Len(t, byRoom, 2)
	require.Len(t, byRoom["ROOM 301"], 2)

	// Ordered by day then start index.
	assert.Equal(t, "BT1102", byRoom["ROOM 301"][0].ScheduleID)
	assert.Equal(t, 0, byRoom["ROOM 301"][0].StartIndex)
	assert.Equal(t, "BT1101", byRoom["ROOM 301"][1].ScheduleID)
	assert.Equal(t, 4, byRoom["ROOM 301"][1].StartIndex)
}

func TestDeriveByProfessorHonorsSubstitutes(t *testing.T) {
	views := []ScheduleView{
		sectionView(t, "BT1101", map[string]Entry{
			"Monday_9:00AM":  {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, Professor: "P. Reyes"},
			"Tuesday_1:00PM": {Subject: "ETHICS", DurationSlots: 2, Professor: "P. Reyes", Substitute: "M. Santos"},
		}),
	}

	byProf := DeriveByProfessor(views)
	require.Len(t, byProf["P. Reyes"], 1, "substituted hours belong to the substitute")
	require.Len(t, byProf["M. Santos"], 1)
	assert.Equal(t, "ETHICS", byProf["M. Santos"][0].Subject)
}

func TestDeriveSkipsArchivedAndUnassigned(t *testing.T) {
	archived := sectionView(t, "OLD", map[string]Entry{
		"Monday_9:00AM": {Subject: "HISTORY", DurationSlots: 2, Room: "ROOM 301"},
	})
	archived.Archived = true
	unassigned := sectionView(t, "NEW", map[string]Entry{
		"Monday_9:00AM": {Subject: "HISTORY", DurationSlots: 2},
	})

	assert.Empty(t, DeriveByRoom([]ScheduleView{archived, unassigned}))
	assert.Empty(t, DeriveByProfessor([]ScheduleView{archived, unassigned}))
}
