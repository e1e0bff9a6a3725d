package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/arms-api/internal/models"
)

// CurriculumRepository persists curricula and their subjects.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository creates a new curriculum repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

const curriculumColumns = `id, program, year_level, semester, school_year, archived, created_at, updated_at`
const curriculumSubjectColumns = `id, curriculum_id, course_code, course_name, lec_units, lab_units, is_computer_lab, created_at`

// List returns curricula with optional filtering and pagination.
func (r *CurriculumRepository) List(ctx context.Context, filter models.CurriculumFilter) ([]models.Curriculum, int, error) {
	base := "FROM curricula WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.SchoolYear != "" {
		conditions = append(conditions, fmt.Sprintf("school_year = $%d", len(args)+1))
		args = append(args, filter.SchoolYear)
	}
	if filter.Archived != nil {
		conditions = append(conditions, fmt.Sprintf("archived = $%d", len(args)+1))
		args = append(args, *filter.Archived)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"program": true, "year_level": true, "school_year": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "program"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, year_level ASC LIMIT %d OFFSET %d", curriculumColumns, base, sortBy, order, size, offset)
	var curricula []models.Curriculum
	if err := r.db.SelectContext(ctx, &curricula, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list curricula: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count curricula: %w", err)
	}

	return curricula, total, nil
}

// FindByID loads a curriculum by id.
func (r *CurriculumRepository) FindByID(ctx context.Context, id string) (*models.Curriculum, error) {
	query := fmt.Sprintf("SELECT %s FROM curricula WHERE id = $1", curriculumColumns)
	var curriculum models.Curriculum
	if err := r.db.GetContext(ctx, &curriculum, query, id); err != nil {
		return nil, err
	}
	return &curriculum, nil
}

// FindForSection resolves the live curriculum feeding a section's editor.
func (r *CurriculumRepository) FindForSection(ctx context.Context, program string, yearLevel int, semester, schoolYear string) (*models.Curriculum, error) {
	query := fmt.Sprintf(`SELECT %s FROM curricula WHERE program = $1 AND year_level = $2 AND semester = $3 AND school_year = $4 AND archived = FALSE LIMIT 1`, curriculumColumns)
	var curriculum models.Curriculum
	if err := r.db.GetContext(ctx, &curriculum, query, program, yearLevel, semester, schoolYear); err != nil {
		return nil, err
	}
	return &curriculum, nil
}

// Create stores a new curriculum.
func (r *CurriculumRepository) Create(ctx context.Context, curriculum *models.Curriculum) error {
	if curriculum.ID == "" {
		curriculum.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if curriculum.CreatedAt.IsZero() {
		curriculum.CreatedAt = now
	}
	curriculum.UpdatedAt = now

	const query = `INSERT INTO curricula (id, program, year_level, semester, school_year, archived, created_at, updated_at)
VALUES (:id, :program, :year_level, :semester, :school_year, :archived, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, curriculum); err != nil {
		return fmt.Errorf("create curriculum: %w", err)
	}
	return nil
}

// SetArchived flips the archival flag.
func (r *CurriculumRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	const query = `UPDATE curricula SET archived = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, archived, time.Now().UTC()); err != nil {
		return fmt.Errorf("set curriculum archived: %w", err)
	}
	return nil
}

// ListSubjects returns the subjects of one curriculum.
func (r *CurriculumRepository) ListSubjects(ctx context.Context, curriculumID string) ([]models.CurriculumSubject, error) {
	query := fmt.Sprintf("SELECT %s FROM curriculum_subjects WHERE curriculum_id = $1 ORDER BY course_code ASC", curriculumSubjectColumns)
	var subjects []models.CurriculumSubject
	if err := r.db.SelectContext(ctx, &subjects, query, curriculumID); err != nil {
		return nil, fmt.Errorf("list curriculum subjects: %w", err)
	}
	return subjects, nil
}

// AddSubject appends a subject row to a curriculum.
func (r *CurriculumRepository) AddSubject(ctx context.Context, subject *models.CurriculumSubject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO curriculum_subjects (id, curriculum_id, course_code, course_name, lec_units, lab_units, is_computer_lab, created_at)
VALUES (:id, :curriculum_id, :course_code, :course_name, :lec_units, :lab_units, :is_computer_lab, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("add curriculum subject: %w", err)
	}
	return nil
}

// RemoveSubject deletes a subject row.
func (r *CurriculumRepository) RemoveSubject(ctx context.Context, subjectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM curriculum_subjects WHERE id = $1`, subjectID); err != nil {
		return fmt.Errorf("remove curriculum subject: %w", err)
	}
	return nil
}
