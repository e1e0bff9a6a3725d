package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

type substituteHistoryStub struct {
	inserted []models.SubstituteRecord
	records  []models.SubstituteRecord
}

func (s *substituteHistoryStub) Insert(ctx context.Context, exec sqlx.ExtContext, record *models.SubstituteRecord) error {
	s.inserted = append(s.inserted, *record)
	return nil
}

func (s *substituteHistoryStub) List(ctx context.Context, filter models.SubstituteFilter) ([]models.SubstituteRecord, int, error) {
	return s.records, len(s.records), nil
}

type txProviderMock struct {
	db *sqlx.DB
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

func newSubstituteService(t *testing.T, store *scheduleStoreStub, history *substituteHistoryStub, faculty *facultyReaderStub) (*SubstituteService, sqlmock.Sqlmock, func()) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "sqlmock")
	svc := NewSubstituteService(store, history, faculty, nil, nil, &txProviderMock{db: db}, nil, nil)
	return svc, mock, func() { raw.Close() }
}

func substitutePool() *facultyReaderStub {
	return &facultyReaderStub{faculty: []models.Faculty{qualifiedFaculty("Maria Cruz", "DB SYSTEMS")}}
}

func TestAssignSubstituteOverlaysOccupant(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, substitutePool())
	defer cleanup()

	err := svc.Assign(context.Background(), "sched-1", dto.AssignSubstituteRequest{
		DocKey:     "Monday_9:00AM",
		Substitute: "Maria Cruz",
	})
	require.NoError(t, err)

	schedule, err := store.FindByID(context.Background(), "sched-1")
	require.NoError(t, err)
	entries, err := schedule.Entries()
	require.NoError(t, err)
	assert.Equal(t, "Maria Cruz", entries["Monday_9:00AM"].SubstituteTeacher)

	assignments, err := schedule.Assignments()
	require.NoError(t, err)
	assert.Equal(t, "John Smith", assignments["Monday_9:00AM"], "original professor keeps the assignment record")
}

func TestAssignSubstituteRejectsBusySubstitute(t *testing.T) {
	editing := draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"})
	other := draftSchedule("sched-2", map[string]models.ScheduleEntry{
		"Monday_10:00AM": {Subject: "NETWORKS (LEC)", DurationSlots: 2, EndTime: "11:00AM"},
	}, map[string]string{"Monday_10:00AM": "Maria Cruz"})
	other.SectionName = "BT1102"

	store := newScheduleStoreStub(editing, other)
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, substitutePool())
	defer cleanup()

	err := svc.Assign(context.Background(), "sched-1", dto.AssignSubstituteRequest{
		DocKey:     "Monday_9:00AM",
		Substitute: "Maria Cruz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignSubstituteRequiresQualification(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	faculty := &facultyReaderStub{faculty: []models.Faculty{qualifiedFaculty("Maria Cruz", "ETHICS")}}
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, faculty)
	defer cleanup()

	err := svc.Assign(context.Background(), "sched-1", dto.AssignSubstituteRequest{
		DocKey:     "Monday_9:00AM",
		Substitute: "Maria Cruz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAssignSubstituteRejectsUnknownFaculty(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, &facultyReaderStub{})
	defer cleanup()

	err := svc.Assign(context.Background(), "sched-1", dto.AssignSubstituteRequest{
		DocKey:     "Monday_9:00AM",
		Substitute: "Maria Cruz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignSubstituteRejectsInactiveFaculty(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	retired := qualifiedFaculty("Maria Cruz", "DB SYSTEMS")
	retired.Active = false
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, &facultyReaderStub{faculty: []models.Faculty{retired}})
	defer cleanup()

	err := svc.Assign(context.Background(), "sched-1", dto.AssignSubstituteRequest{
		DocKey:     "Monday_9:00AM",
		Substitute: "Maria Cruz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAssignSubstituteHonorsNonTeachingHours(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	consulting := qualifiedFaculty("Maria Cruz", "DB SYSTEMS")
	blocks, _ := json.Marshal([]models.NonTeachingAssignment{
		{Day: "Monday", Time: "10:00AM", Type: "CONSULTATION", Hours: 1},
	})
	consulting.NonTeaching = types.JSONText(blocks)
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, &facultyReaderStub{faculty: []models.Faculty{consulting}})
	defer cleanup()

	err := svc.Assign(context.Background(), "sched-1", dto.AssignSubstituteRequest{
		DocKey:     "Monday_9:00AM",
		Substitute: "Maria Cruz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignSubstituteRequiresAssignedProfessor(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, nil))
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, substitutePool())
	defer cleanup()

	err := svc.Assign(context.Background(), "sched-1", dto.AssignSubstituteRequest{
		DocKey:     "Monday_9:00AM",
		Substitute: "Maria Cruz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestClearSubstituteArchivesStint(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM", SubstituteTeacher: "Maria Cruz"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	history := &substituteHistoryStub{}
	svc, mock, cleanup := newSubstituteService(t, store, history, &facultyReaderStub{})
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Clear(context.Background(), "sched-1", dto.ClearSubstituteRequest{DocKey: "Monday_9:00AM"})
	require.NoError(t, err)

	require.Len(t, history.inserted, 1)
	record := history.inserted[0]
	assert.Equal(t, "John Smith", record.OriginalProfessor)
	assert.Equal(t, "Maria Cruz", record.SubstituteTeacher)
	assert.Equal(t, "Monday", record.Day)
	assert.Equal(t, "9:00AM", record.StartTime)
	assert.Equal(t, "11:00AM", record.EndTime)

	schedule, err := store.FindByID(context.Background(), "sched-1")
	require.NoError(t, err)
	entries, err := schedule.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries["Monday_9:00AM"].SubstituteTeacher, "overlay removed, original occupant restored")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearSubstituteWithoutOverlayFails(t *testing.T) {
	store := newScheduleStoreStub(draftSchedule("sched-1", map[string]models.ScheduleEntry{
		"Monday_9:00AM": {Subject: "DB SYSTEMS (LEC)", DurationSlots: 4, EndTime: "11:00AM"},
	}, map[string]string{"Monday_9:00AM": "John Smith"}))
	svc, _, cleanup := newSubstituteService(t, store, &substituteHistoryStub{}, &facultyReaderStub{})
	defer cleanup()

	err := svc.Clear(context.Background(), "sched-1", dto.ClearSubstituteRequest{DocKey: "Monday_9:00AM"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}
