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

// ExportJobRepository persists queued schedule export jobs.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository creates a new export job repository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

const exportJobColumns = `id, schedule_id, format, status, file_path, token, error_message, created_at, updated_at, finished_at`

// Create stores a new queued job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	const query = `INSERT INTO export_jobs (id, schedule_id, format, status, file_path, token, error_message, created_at, updated_at, finished_at)
VALUES (:id, :schedule_id, :format, :status, :file_path, :token, :error_message, :created_at, :updated_at, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// GetByID loads one job.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE id = $1", exportJobColumns)
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateExportJobParams carries the mutable job fields. Nil fields are left
// untouched.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	FilePath     *string
	Token        *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update patches job progress fields.
func (r *ExportJobRepository) Update(ctx context.Context, id string, params UpdateExportJobParams) error {
	sets := []string{"updated_at = $2"}
	args := []interface{}{id, time.Now().UTC()}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Status != nil {
		appendSet("status", *params.Status)
	}
	if params.FilePath != nil {
		appendSet("file_path", *params.FilePath)
	}
	if params.Token != nil {
		appendSet("token", *params.Token)
	}
	if params.ErrorMessage != nil {
		appendSet("error_message", *params.ErrorMessage)
	}
	if params.FinishedAt != nil {
		appendSet("finished_at", *params.FinishedAt)
	}

	query := fmt.Sprintf("UPDATE export_jobs SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update export job: %w", err)
	}
	return nil
}

// ListFinishedBefore returns done or failed jobs older than the cutoff, used
// by storage cleanup.
func (r *ExportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM export_jobs WHERE status IN ($1, $2) AND finished_at < $3 ORDER BY finished_at ASC LIMIT %d`, exportJobColumns, limit)
	var jobs []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobs, query, models.ExportStatusDone, models.ExportStatusFailed, cutoff); err != nil {
		return nil, fmt.Errorf("list finished export jobs: %w", err)
	}
	return jobs, nil
}
