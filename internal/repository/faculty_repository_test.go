package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arms-api/internal/models"
)

func facultyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "professor_name", "email", "shift", "qualified_courses",
		"non_teaching_assignments", "active", "created_at", "updated_at",
	})
}

func TestFacultyRepositoryFindByNameDecodesDocuments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	rows := facultyRows().AddRow(
		"fac-1", "John Smith", "jsmith@example.edu", "FULL_TIME",
		[]byte(`[{"courseCode":"IT101","courseName":"Intro to Computing"}]`),
		[]byte(`[{"day":"Monday","time":"9:00AM","type":"Consultation","hours":1}]`),
		true, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT .+ FROM faculty WHERE professor_name = \\$1 LIMIT 1").
		WithArgs("John Smith").
		WillReturnRows(rows)

	faculty, err := repo.FindByName(context.Background(), "John Smith")
	require.NoError(t, err)

	courses, err := faculty.Courses()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "IT101", courses[0].CourseCode)

	blocks, err := faculty.NonTeachingBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Consultation", blocks[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryListFiltersByShift(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectQuery("SELECT .+ FROM faculty WHERE 1=1 AND shift = \\$1").
		WithArgs(string(models.ShiftPartTime)).
		WillReturnRows(facultyRows().AddRow(
			"fac-2", "Maria Cruz", "mcruz@example.edu", "PART_TIME",
			[]byte(`[]`), []byte(`[]`), true, time.Now(), time.Now(),
		))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM faculty WHERE 1=1 AND shift = \\$1").
		WithArgs(string(models.ShiftPartTime)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	faculty, total, err := repo.List(context.Background(), models.FacultyFilter{Shift: string(models.ShiftPartTime)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, faculty, 1)
	assert.Equal(t, "Maria Cruz", faculty[0].ProfessorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryCreateDefaultsDocuments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO faculty")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	faculty := &models.Faculty{ProfessorName: "John Smith", Email: "jsmith@example.edu", Shift: models.ShiftFullTime, Active: true}
	require.NoError(t, repo.Create(context.Background(), faculty))
	assert.NotEmpty(t, faculty.ID)
	assert.JSONEq(t, `[]`, string(faculty.QualifiedCourses))
	assert.JSONEq(t, `[]`, string(faculty.NonTeaching))
	assert.NoError(t, mock.ExpectationsWereMet())
}
