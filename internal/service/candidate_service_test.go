package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
)

func candidateRooms() []models.Room {
	return []models.Room{
		{Name: "Room 301", Category: models.RoomCategoryLecture, Active: true},
		{Name: "Room 302", Category: models.RoomCategoryLecture, Active: true},
		{Name: "Comp Lab 1", Category: models.RoomCategoryLaboratory, Active: true},
		{Name: "Gym", Category: models.RoomCategoryPE, Active: true},
	}
}

func newCandidateService(store *scheduleStoreStub, faculty *facultyReaderStub, rooms []models.Room) *CandidateService {
	return NewCandidateService(store, faculty, &roomReaderStub{rooms: rooms}, &curriculumReaderStub{}, nil, nil)
}

func TestRoomCandidatesFilterByCategoryAndConflict(t *testing.T) {
	editing := draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil)
	other := draftSchedule("sched-2", map[string]models.ScheduleEntry{
		"Monday_10:00AM": {Subject: "NETWORKS (LEC)", DurationSlots: 2, Room: "Room 301", EndTime: "11:00AM"},
	}, nil)
	other.SectionName = "BT1102"

	store := newScheduleStoreStub(editing, other)
	svc := newCandidateService(store, &facultyReaderStub{}, candidateRooms())

	resp, err := svc.Rooms(context.Background(), "sched-1", dto.CandidateQuery{DocKey: "Monday_9:00AM"})
	require.NoError(t, err)
	assert.Equal(t, string(models.RoomCategoryLecture), resp.Category)
	assert.Equal(t, []string{"Room 302"}, resp.Rooms, "occupied and off-category rooms are excluded")
}

func TestRoomCandidatesRouteLabSubjectsToLabRooms(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Tuesday_1:00PM": {Subject: "WEB DEV (LAB)", DurationSlots: 2, EndTime: "2:00PM"},
	}, nil))
	svc := newCandidateService(store, &facultyReaderStub{}, candidateRooms())

	resp, err := svc.Rooms(context.Background(), "sched-1", dto.CandidateQuery{DocKey: "Tuesday_1:00PM"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Comp Lab 1"}, resp.Rooms)
}

func TestRoomCandidatesRoutePESubjectsToPERooms(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Friday_7:00AM": {Subject: "PATHFIT 1", DurationSlots: 4, EndTime: "9:00AM"},
	}, nil))
	svc := newCandidateService(store, &facultyReaderStub{}, candidateRooms())

	resp, err := svc.Rooms(context.Background(), "sched-1", dto.CandidateQuery{DocKey: "Friday_7:00AM"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gym"}, resp.Rooms)
}

func TestProfessorCandidatesRespectNonTeachingBlocks(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))

	busy := qualifiedFaculty("John Smith", "DBSYS")
	blocks, _ := json.Marshal([]models.NonTeachingAssignment{
		{Day: "Monday", Time: "10:00AM", Type: "Consultation", Hours: 1},
	})
	busy.NonTeaching = types.JSONText(blocks)
	free := qualifiedFaculty("Maria Cruz", "DBSYS")

	svc := newCandidateService(store, &facultyReaderStub{faculty: []models.Faculty{busy, free}}, candidateRooms())

	resp, err := svc.Professors(context.Background(), "sched-1", dto.CandidateQuery{DocKey: "Monday_9:00AM"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Maria Cruz"}, resp.Professors, "consultation hours block the overlapping candidate")
}

func TestProfessorCandidatesRequireQualification(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))
	pool := []models.Faculty{
		qualifiedFaculty("John Smith", "DBSYS"),
		qualifiedFaculty("Maria Cruz", "ETHICS"),
	}
	svc := newCandidateService(store, &facultyReaderStub{faculty: pool}, candidateRooms())

	resp, err := svc.Professors(context.Background(), "sched-1", dto.CandidateQuery{DocKey: "Monday_9:00AM"})
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith"}, resp.Professors)
}
