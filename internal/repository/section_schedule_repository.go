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

// SectionScheduleRepository persists section schedule documents.
type SectionScheduleRepository struct {
	db *sqlx.DB
}

// NewSectionScheduleRepository creates a new section schedule repository.
func NewSectionScheduleRepository(db *sqlx.DB) *SectionScheduleRepository {
	return &SectionScheduleRepository{db: db}
}

func (r *SectionScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const sectionScheduleColumns = `id, section_name, program, year_level, semester, school_year, status, schedule_map, professor_assignments, created_at, updated_at`

// List returns schedules with optional filtering and pagination.
func (r *SectionScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.SectionSchedule, int, error) {
	base := "FROM section_schedules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SectionName != "" {
		conditions = append(conditions, fmt.Sprintf("section_name = $%d", len(args)+1))
		args = append(args, filter.SectionName)
	}
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
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"section_name": true,
		"program":      true,
		"school_year":  true,
		"created_at":   true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "section_name"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", sectionScheduleColumns, base, sortBy, order, size, offset)
	var schedules []models.SectionSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list section schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count section schedules: %w", err)
	}

	return schedules, total, nil
}

// FindByID loads one schedule document.
func (r *SectionScheduleRepository) FindByID(ctx context.Context, id string) (*models.SectionSchedule, error) {
	query := fmt.Sprintf("SELECT %s FROM section_schedules WHERE id = $1", sectionScheduleColumns)
	var schedule models.SectionSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListLive returns every non-archived schedule for a semester/school-year.
// Conflict checks scan this set as one consistent snapshot.
func (r *SectionScheduleRepository) ListLive(ctx context.Context, semester, schoolYear string) ([]models.SectionSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM section_schedules WHERE status != $1 AND semester = $2 AND school_year = $3 ORDER BY section_name ASC`, sectionScheduleColumns)
	var schedules []models.SectionSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, models.ScheduleStatusArchived, semester, schoolYear); err != nil {
		return nil, fmt.Errorf("list live section schedules: %w", err)
	}
	return schedules, nil
}

// Create stores a new schedule document.
func (r *SectionScheduleRepository) Create(ctx context.Context, schedule *models.SectionSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusDraft
	}
	if len(schedule.ScheduleMap) == 0 {
		schedule.ScheduleMap = types.JSONText(`{}`)
	}
	if len(schedule.ProfessorAssignments) == 0 {
		schedule.ProfessorAssignments = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO section_schedules (id, section_name, program, year_level, semester, school_year, status, schedule_map, professor_assignments, created_at, updated_at)
VALUES (:id, :section_name, :program, :year_level, :semester, :school_year, :status, :schedule_map, :professor_assignments, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create section schedule: %w", err)
	}
	return nil
}

// UpdateDocuments replaces the schedule map and professor assignments of one
// document. One save action touches exactly one schedule row.
func (r *SectionScheduleRepository) UpdateDocuments(ctx context.Context, exec sqlx.ExtContext, id string, scheduleMap, assignments types.JSONText) error {
	const query = `UPDATE section_schedules SET schedule_map = $2, professor_assignments = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, id, scheduleMap, assignments, time.Now().UTC()); err != nil {
		return fmt.Errorf("update section schedule documents: %w", err)
	}
	return nil
}

// UpdateStatus moves a document through its draft/submitted/archived lifecycle.
func (r *SectionScheduleRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.ScheduleStatus) error {
	const query = `UPDATE section_schedules SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update section schedule status: %w", err)
	}
	return nil
}

// Delete removes a schedule document.
func (r *SectionScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM section_schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section schedule: %w", err)
	}
	return nil
}
