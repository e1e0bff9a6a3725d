package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/arms-api/internal/models"
)

// FacultyRepository provides persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository creates a new faculty repository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

const facultyColumns = `id, professor_name, email, shift, qualified_courses, non_teaching_assignments, active, created_at, updated_at`

// List returns faculty with optional filtering and pagination.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	base := "FROM faculty WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("shift = $%d", len(args)+1))
		args = append(args, filter.Shift)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(professor_name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"professor_name": true, "shift": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "professor_name"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", facultyColumns, base, sortBy, order, size, offset)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}

	return faculty, total, nil
}

// ListActive returns the active faculty pool used for candidate filtering.
func (r *FacultyRepository) ListActive(ctx context.Context) ([]models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty WHERE active = TRUE ORDER BY professor_name ASC", facultyColumns)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list active faculty: %w", err)
	}
	return faculty, nil
}

// FindByID loads a faculty record by id.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty WHERE id = $1", facultyColumns)
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindByName loads a faculty record by the professor-name join key.
func (r *FacultyRepository) FindByName(ctx context.Context, professorName string) (*models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty WHERE professor_name = $1 LIMIT 1", facultyColumns)
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, professorName); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// Create stores a new faculty record.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	if len(faculty.QualifiedCourses) == 0 {
		faculty.QualifiedCourses = types.JSONText(`[]`)
	}
	if len(faculty.NonTeaching) == 0 {
		faculty.NonTeaching = types.JSONText(`[]`)
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now

	const query = `INSERT INTO faculty (id, professor_name, email, shift, qualified_courses, non_teaching_assignments, active, created_at, updated_at)
VALUES (:id, :professor_name, :email, :shift, :qualified_courses, :non_teaching_assignments, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update modifies a faculty record.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	faculty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET professor_name = :professor_name, email = :email, shift = :shift, qualified_courses = :qualified_courses, non_teaching_assignments = :non_teaching_assignments, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// Deactivate soft-removes a faculty record from the candidate pool.
func (r *FacultyRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE faculty SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate faculty: %w", err)
	}
	return nil
}
