package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

type scheduleStoreStub struct {
	schedules map[string]*models.SectionSchedule
}

func newScheduleStoreStub(schedules ...*models.SectionSchedule) *scheduleStoreStub {
	stub := &scheduleStoreStub{schedules: make(map[string]*models.SectionSchedule)}
	for _, schedule := range schedules {
		stub.schedules[schedule.ID] = schedule
	}
	return stub
}

func (s *scheduleStoreStub) List(ctx context.Context, filter models.ScheduleFilter) ([]models.SectionSchedule, int, error) {
	var out []models.SectionSchedule
	for _, schedule := range s.schedules {
		out = append(out, *schedule)
	}
	return out, len(out), nil
}

func (s *scheduleStoreStub) FindByID(ctx context.Context, id string) (*models.SectionSchedule, error) {
	schedule, ok := s.schedules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *schedule
	return &copied, nil
}

func (s *scheduleStoreStub) ListLive(ctx context.Context, semester, schoolYear string) ([]models.SectionSchedule, error) {
	var out []models.SectionSchedule
	for _, schedule := range s.schedules {
		if schedule.Status == models.ScheduleStatusArchived {
			continue
		}
		if schedule.Semester == semester && schedule.SchoolYear == schoolYear {
			out = append(out, *schedule)
		}
	}
	return out, nil
}

func (s *scheduleStoreStub) Create(ctx context.Context, schedule *models.SectionSchedule) error {
	if schedule.ID == "" {
		schedule.ID = "sched-new"
	}
	schedule.Status = models.ScheduleStatusDraft
	schedule.ScheduleMap = types.JSONText(`{}`)
	schedule.ProfessorAssignments = types.JSONText(`{}`)
	copied := *schedule
	s.schedules[schedule.ID] = &copied
	return nil
}

func (s *scheduleStoreStub) UpdateDocuments(ctx context.Context, exec sqlx.ExtContext, id string, scheduleMap, assignments types.JSONText) error {
	schedule, ok := s.schedules[id]
	if !ok {
		return sql.ErrNoRows
	}
	schedule.ScheduleMap = scheduleMap
	schedule.ProfessorAssignments = assignments
	return nil
}

func (s *scheduleStoreStub) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.ScheduleStatus) error {
	schedule, ok := s.schedules[id]
	if !ok {
		return sql.ErrNoRows
	}
	schedule.Status = status
	return nil
}

func (s *scheduleStoreStub) Delete(ctx context.Context, id string) error {
	delete(s.schedules, id)
	return nil
}

type curriculumReaderStub struct {
	curriculum *models.Curriculum
	subjects   []models.CurriculumSubject
}

func (c *curriculumReaderStub) FindForSection(ctx context.Context, program string, yearLevel int, semester, schoolYear string) (*models.Curriculum, error) {
	if c.curriculum == nil {
		return nil, sql.ErrNoRows
	}
	return c.curriculum, nil
}

func (c *curriculumReaderStub) ListSubjects(ctx context.Context, curriculumID string) ([]models.CurriculumSubject, error) {
	return c.subjects, nil
}

type facultyReaderStub struct {
	faculty []models.Faculty
}

func (f *facultyReaderStub) ListActive(ctx context.Context) ([]models.Faculty, error) {
	return f.faculty, nil
}

func (f *facultyReaderStub) FindByName(ctx context.Context, professorName string) (*models.Faculty, error) {
	for i := range f.faculty {
		if f.faculty[i].ProfessorName == professorName {
			return &f.faculty[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type roomReaderStub struct {
	rooms []models.Room
}

func (r *roomReaderStub) ListActive(ctx context.Context) ([]models.Room, error) {
	return r.rooms, nil
}

func draftSchedule(id string, entries map[string]models.ScheduleEntry, assignments map[string]string) *models.SectionSchedule {
	schedule := &models.SectionSchedule{
		ID:          id,
		SectionName: "BT1101",
		Program:     "BSIT",
		YearLevel:   1,
		Semester:    "1st",
		SchoolYear:  "2025-2026",
		Status:      models.ScheduleStatusDraft,
	}
	if entries == nil {
		entries = map[string]models.ScheduleEntry{}
	}
	if assignments == nil {
		assignments = map[string]string{}
	}
	rawEntries, _ := json.Marshal(entries)
	rawAssignments, _ := json.Marshal(assignments)
	schedule.ScheduleMap = types.JSONText(rawEntries)
	schedule.ProfessorAssignments = types.JSONText(rawAssignments)
	return schedule
}

func qualifiedFaculty(name string, codes ...string) models.Faculty {
	courses := make([]models.QualifiedCourse, 0, len(codes))
	for _, code := range codes {
		courses = append(courses, models.QualifiedCourse{CourseCode: code, CourseName: code})
	}
	raw, _ := json.Marshal(courses)
	return models.Faculty{
		ProfessorName:    name,
		Email:            "prof@example.edu",
		Shift:            models.ShiftFullTime,
		QualifiedCourses: types.JSONText(raw),
		NonTeaching:      types.JSONText(`[]`),
		Active:           true,
	}
}

func newEditorService(store *scheduleStoreStub, curricula *curriculumReaderStub, faculty *facultyReaderStub) *ScheduleEditorService {
	return NewScheduleEditorService(store, curricula, faculty, &roomReaderStub{}, nil, nil, nil, nil)
}

func TestPlaceUsesCurriculumUnits(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", nil, nil))
	curricula := &curriculumReaderStub{
		curriculum: &models.Curriculum{ID: "cur-1"},
		subjects: []models.CurriculumSubject{
			{CourseCode: "DBSYS", CourseName: "DB Systems", LecUnits: 2},
		},
	}
	svc := newEditorService(store, curricula, &facultyReaderStub{})

	resp, err := svc.Place(context.Background(), "sched-1", dto.PlaceSubjectRequest{
		DocKey:  "Monday_9:00AM",
		Subject: "DB SYSTEMS (LEC)",
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 4, resp.Entries[0].DurationSlots, "2 lecture units occupy four half-hour slots")
	assert.Equal(t, "11:00AM", resp.Entries[0].EndTime)
}

func TestPlaceRejectsSecondPlacementOfSubject(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))
	svc := newEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{})

	_, err := svc.Place(context.Background(), "sched-1", dto.PlaceSubjectRequest{
		DocKey:  "Tuesday_9:00AM",
		Subject: "DB SYSTEMS (LEC)",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPlacementRejected.Code, appErrors.FromError(err).Code)
}

func TestPlaceRelocateKeepsRoomAndProfessor(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, Room: "Room 301", EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	svc := newEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{})

	resp, err := svc.Place(context.Background(), "sched-1", dto.PlaceSubjectRequest{
		DocKey:   "Wednesday_1:00PM",
		Subject:  "DB SYSTEMS (LEC)",
		Relocate: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1, "relocation leaves a single block")
	assert.Equal(t, "Wednesday_1:00PM", resp.Entries[0].DocKey)
	assert.Equal(t, "Room 301", resp.Entries[0].Room)
	assert.Equal(t, "John Smith", resp.Entries[0].Professor)
}

func TestPlaceRelocateKeepsSubstituteOverlay(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, Room: "Room 301", EndTime: "11:00AM", SubstituteTeacher: "Maria Cruz"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	svc := newEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{})

	resp, err := svc.Place(context.Background(), "sched-1", dto.PlaceSubjectRequest{
		DocKey:   "Wednesday_1:00PM",
		Subject:  "DB SYSTEMS (LEC)",
		Relocate: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "John Smith", resp.Entries[0].Professor)
	assert.Equal(t, "Maria Cruz", resp.Entries[0].SubstituteTeacher, "moving a block keeps the active overlay")
}

func TestPlaceRejectsEditsOnSubmittedSchedule(t *testing.T) {
	schedule := draftSchedule("sched-1", nil, nil)
	schedule.Status = models.ScheduleStatusSubmitted
	store := newScheduleStoreStub(schedule)
	svc := newEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{})

	_, err := svc.Place(context.Background(), "sched-1", dto.PlaceSubjectRequest{
		DocKey:  "Monday_9:00AM",
		Subject: "DB SYSTEMS (LEC)",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleLocked.Code, appErrors.FromError(err).Code)
}

func TestSubmitListsEveryBlockMissingAProfessor(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM":    {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
		"Tuesday_10:00AM":  {Subject: "NETWORKS (LEC)", DurationSlots: 4, EndTime: "12:00PM"},
		"Thursday_8:00AM":  {Subject: "WEB DEV (LAB)", DurationSlots: 2, EndTime: "9:00AM"},
		"Saturday_10:00AM": {Subject: "ETHICS", DurationSlots: 2, EndTime: "11:00AM"},
	}, map[string]string{"Tuesday_10:00AM": "John Smith"}))
	svc := newEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{})

	_, err := svc.Submit(context.Background(), "sched-1")
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSubmitIncomplete.Code, typed.Code)

	rejection, ok := typed.Details.(dto.SubmitRejection)
	require.True(t, ok, "rejection carries a structured offender list")
	assert.Equal(t, []string{"Monday_9:00AM", "Saturday_10:00AM", "Thursday_8:00AM"}, rejection.MissingProfessors)
}

func TestSubmitLocksSchedule(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	svc := newEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{})

	resp, err := svc.Submit(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusSubmitted, resp.Status)

	_, err = svc.Place(context.Background(), "sched-1", dto.PlaceSubjectRequest{
		DocKey:  "Friday_9:00AM",
		Subject: "ETHICS",
	})
	require.Error(t, err)
}

func TestAssignProfessorRejectsCrossScheduleConflict(t *testing.T) {
	editing := draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil)
	other := draftSchedule("sched-2", map[string]models.ScheduleEntry{
		"Monday_10:00AM": {Subject: "NETWORKS (LEC)", DurationSlots: 4, EndTime: "12:00PM"},
	}, map[string]string{"Monday_10:00AM": "John Smith"})
	other.SectionName = "BT1102"

	store := newScheduleStoreStub(editing, other)
	faculty := &facultyReaderStub{faculty: []models.Faculty{qualifiedFaculty("John Smith", "DBSYS", "DB SYSTEMS")}}
	svc := newEditorService(store, &curriculumReaderStub{}, faculty)

	_, err := svc.AssignProfessor(context.Background(), "sched-1", dto.AssignProfessorRequest{
		DocKey:    "Monday_9:00AM",
		Professor: "John Smith",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignProfessorIgnoresArchivedSchedules(t *testing.T) {
	editing := draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil)
	archived := draftSchedule("sched-2", map[string]models.ScheduleEntry{
		"Monday_10:00AM": {Subject: "NETWORKS (LEC)", DurationSlots: 4, EndTime: "12:00PM"},
	}, map[string]string{"Monday_10:00AM": "John Smith"})
	archived.Status = models.ScheduleStatusArchived

	store := newScheduleStoreStub(editing, archived)
	faculty := &facultyReaderStub{faculty: []models.Faculty{qualifiedFaculty("John Smith", "DBSYS", "DB SYSTEMS")}}
	svc := newEditorService(store, &curriculumReaderStub{}, faculty)

	resp, err := svc.AssignProfessor(context.Background(), "sched-1", dto.AssignProfessorRequest{
		DocKey:    "Monday_9:00AM",
		Professor: "John Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Smith", resp.Entries[0].Professor)
}

func TestAssignProfessorRequiresQualification(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))
	faculty := &facultyReaderStub{faculty: []models.Faculty{qualifiedFaculty("Maria Cruz", "ETHICS")}}
	svc := newEditorService(store, &curriculumReaderStub{}, faculty)

	_, err := svc.AssignProfessor(context.Background(), "sched-1", dto.AssignProfessorRequest{
		DocKey:    "Monday_9:00AM",
		Professor: "Maria Cruz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func newEditorServiceWithRooms(store *scheduleStoreStub, rooms []models.Room) *ScheduleEditorService {
	return NewScheduleEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{}, &roomReaderStub{rooms: rooms}, nil, nil, nil, nil)
}

func TestAssignRoomRejectsUnknownRoom(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))
	svc := newEditorServiceWithRooms(store, candidateRooms())

	_, err := svc.AssignRoom(context.Background(), "sched-1", dto.AssignRoomRequest{
		DocKey: "Monday_9:00AM",
		Room:   "Room 999",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignRoomRequiresMatchingCategory(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "WEB DEV (LAB)", DurationSlots: 2, EndTime: "10:00AM"},
	}, nil))
	svc := newEditorServiceWithRooms(store, candidateRooms())

	_, err := svc.AssignRoom(context.Background(), "sched-1", dto.AssignRoomRequest{
		DocKey: "Monday_9:00AM",
		Room:   "Room 301",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAssignRoomAcceptsInventoryMatch(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))
	svc := newEditorServiceWithRooms(store, candidateRooms())

	resp, err := svc.AssignRoom(context.Background(), "sched-1", dto.AssignRoomRequest{
		DocKey: "Monday_9:00AM",
		Room:   "Room 301",
	})
	require.NoError(t, err)
	assert.Equal(t, "Room 301", resp.Entries[0].Room)
}

func TestRemoveClearsAnchoredBlock(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))
	svc := newEditorService(store, &curriculumReaderStub{}, &facultyReaderStub{})

	resp, err := svc.Remove(context.Background(), "sched-1", dto.RemoveEntryRequest{DocKey: "Monday_9:00AM"})
	require.NoError(t, err)
	assert.Empty(t, resp.Entries)
}
