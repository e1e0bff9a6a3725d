package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCourse(t *testing.T) {
	assert.Equal(t, "WEBDEV", NormalizeCourse("Web Dev (LAB)"))
	assert.Equal(t, "DBSYSTEMS", NormalizeCourse("DB SYSTEMS (LEC)"))
	assert.Equal(t, "PATHFIT1", NormalizeCourse("PATHFIT 1"))
	assert.Equal(t, "", NormalizeCourse("(LEC)"))
}

func TestQualifiesFor(t *testing.T) {
	course := Course{Code: "WEBDEV", Name: "Web Development"}

	// Containment match in either direction with the (LAB) suffix stripped.
	assert.True(t, QualifiesFor("WEB DEV (LAB)", course))
	assert.True(t, QualifiesFor("Web Development (LEC)", course))
	assert.False(t, QualifiesFor("DATABASE SYSTEMS", course))
	assert.False(t, QualifiesFor("(LAB)", course), "empty normalized subject never qualifies")
	assert.False(t, QualifiesFor("WEB DEV", Course{}), "empty course entries never qualify")
}

func TestRequiredRoomCategory(t *testing.T) {
	cases := []struct {
		subject string
		meta    SubjectMeta
		want    RoomCategory
	}{
		{"DB SYSTEMS (LEC)", SubjectMeta{Kind: KindLecture}, RoomLecture},
		{"WEB DEV (LAB)", SubjectMeta{Kind: KindLaboratory}, RoomLaboratory},
		{"WEB DEV (LAB)", SubjectMeta{}, RoomLaboratory}, // kind read off the name
		{"PROGRAMMING 1", SubjectMeta{IsComputerLab: true}, RoomLaboratory},
		{"ETHICS", SubjectMeta{}, RoomLecture},
		{"PHYSICAL EDUCATION 2", SubjectMeta{}, RoomPE},
		{"PATHFIT 3", SubjectMeta{IsComputerLab: true}, RoomPE}, // PE wins over the lab flag
		{"PE 1", SubjectMeta{}, RoomPE},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RequiredRoomCategory(tc.subject, tc.meta), tc.subject)
	}
}

func TestCandidateRooms(t *testing.T) {
	pool := []Room{
		{Name: "ROOM 301", Category: RoomLecture},
		{Name: "ROOM 105", Category: RoomLecture},
		{Name: "COMLAB 2", Category: RoomLaboratory},
		{Name: "GYM A", Category: RoomPE},
	}
	views := []ScheduleView{sectionView(t, "A", map[string]Entry{
		"Monday_9:00AM": {Subject: "NETWORKS (LEC)", DurationSlots: 4, Room: "ROOM 105"},
	})}

	got := CandidateRooms("ETHICS", SubjectMeta{}, Monday, 6, 2, pool, views, nil)
	assert.Equal(t, []string{"ROOM 301"}, got, "busy room excluded, sorted result")

	got = CandidateRooms("WEB DEV (LAB)", SubjectMeta{}, Monday, 6, 2, pool, views, nil)
	assert.Equal(t, []string{"COMLAB 2"}, got)

	got = CandidateRooms("PATHFIT 1", SubjectMeta{}, Monday, 6, 2, pool, views, nil)
	assert.Equal(t, []string{"GYM A"}, got)

	// An empty candidate set is a valid, representable outcome.
	got = CandidateRooms("ETHICS", SubjectMeta{}, Monday, 4, 2, pool[1:2], views, nil)
	assert.Empty(t, got)
}

func TestCandidateProfessors(t *testing.T) {
	pool := []Professor{
		{Name: "P. Reyes", QualifiedCourses: []Course{{Code: "WEBDEV", Name: "Web Development"}}},
		{Name: "M. Santos", QualifiedCourses: []Course{{Code: "DBSYS", Name: "Database Systems"}}},
		{Name: "A. Lim", QualifiedCourses: []Course{{Code: "WEBDEV"}}},
	}
	views := []ScheduleView{sectionView(t, "B", map[string]Entry{
		"Monday_9:00AM": {Subject: "WEB DEV (LEC)", DurationSlots: 4, Professor: "A. Lim"},
	})}

	// Qualification by normalized containment even with the (LAB) suffix.
	got := CandidateProfessors("WEB DEV (LAB)", Monday, 6, 2, pool, views, nil)
	assert.Equal(t, []string{"P. Reyes"}, got, "A. Lim is teaching 9:00-11:00, excluded")

	// Abutting at 11:00AM frees A. Lim again.
	got = CandidateProfessors("WEB DEV (LAB)", Monday, 8, 2, pool, views, nil)
	assert.Equal(t, []string{"A. Lim", "P. Reyes"}, got)
}

func TestCandidateProfessorsFoldNonTeachingHours(t *testing.T) {
	pool := []Professor{{
		Name:             "P. Reyes",
		QualifiedCourses: []Course{{Code: "ETH", Name: "Ethics"}},
		NonTeaching:      []NonTeachingBlock{{Day: Monday, StartIndex: 6, DurationSlots: 2, Type: "CONSULTATION"}},
	}}

	require.Empty(t, CandidateProfessors("ETHICS", Monday, 6, 2, pool, nil, nil))
	assert.Equal(t, []string{"P. Reyes"}, CandidateProfessors("ETHICS", Monday, 8, 2, pool, nil, nil))
}
