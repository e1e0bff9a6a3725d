package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arms-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scheduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "section_name", "program", "year_level", "semester", "school_year",
		"status", "schedule_map", "professor_assignments", "created_at", "updated_at",
	})
}

func TestSectionScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionScheduleRepository(db)

	rows := scheduleRows().AddRow(
		"sched-1", "BT1101", "BSIT", 1, "1st", "2025-2026",
		"draft", []byte(`{"Monday_9:00AM":{"subject":"DB SYSTEMS (LEC)","durationSlots":4}}`), []byte(`{}`),
		time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_name, program, year_level, semester, school_year, status, schedule_map, professor_assignments, created_at, updated_at FROM section_schedules WHERE id = $1")).
		WithArgs("sched-1").
		WillReturnRows(rows)

	schedule, err := repo.FindByID(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, "BT1101", schedule.SectionName)

	entries, err := schedule.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries["Monday_9:00AM"].DurationSlots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionScheduleRepositoryListLiveExcludesArchived(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionScheduleRepository(db)

	mock.ExpectQuery("SELECT .+ FROM section_schedules WHERE status != \\$1 AND semester = \\$2 AND school_year = \\$3").
		WithArgs(string(models.ScheduleStatusArchived), "1st", "2025-2026").
		WillReturnRows(scheduleRows().AddRow(
			"sched-1", "BT1101", "BSIT", 1, "1st", "2025-2026",
			"draft", []byte(`{}`), []byte(`{}`), time.Now(), time.Now(),
		))

	schedules, err := repo.ListLive(context.Background(), "1st", "2025-2026")
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionScheduleRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO section_schedules")).
		WithArgs(sqlmock.AnyArg(), "BT1101", "BSIT", 1, "1st", "2025-2026",
			string(models.ScheduleStatusDraft), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	schedule := &models.SectionSchedule{
		SectionName: "BT1101",
		Program:     "BSIT",
		YearLevel:   1,
		Semester:    "1st",
		SchoolYear:  "2025-2026",
	}
	require.NoError(t, repo.Create(context.Background(), schedule))
	assert.NotEmpty(t, schedule.ID, "id assigned on create")
	assert.Equal(t, models.ScheduleStatusDraft, schedule.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionScheduleRepositoryUpdateDocuments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE section_schedules SET schedule_map = $2, professor_assignments = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("sched-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateDocuments(context.Background(), nil, "sched-1",
		types.JSONText(`{}`), types.JSONText(`{}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionScheduleRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE section_schedules SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("sched-1", string(models.ScheduleStatusSubmitted), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), nil, "sched-1", models.ScheduleStatusSubmitted))
	assert.NoError(t, mock.ExpectationsWereMet())
}
