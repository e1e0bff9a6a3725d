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

// SubstituteHistoryRepository persists the append-only substitute archive.
// Rows are only ever inserted and listed; there is no update or delete path.
type SubstituteHistoryRepository struct {
	db *sqlx.DB
}

// NewSubstituteHistoryRepository creates a new history repository.
func NewSubstituteHistoryRepository(db *sqlx.DB) *SubstituteHistoryRepository {
	return &SubstituteHistoryRepository{db: db}
}

func (r *SubstituteHistoryRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Insert appends one history record, participating in the caller's
// transaction when one is supplied.
func (r *SubstituteHistoryRepository) Insert(ctx context.Context, exec sqlx.ExtContext, record *models.SubstituteRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ArchivedAt.IsZero() {
		record.ArchivedAt = time.Now().UTC()
	}
	const query = `INSERT INTO substitute_history (id, schedule_id, doc_key, section, program, day, start_time, end_time, subject, original_professor, substitute_teacher, archived_at)
VALUES (:id, :schedule_id, :doc_key, :section, :program, :day, :start_time, :end_time, :subject, :original_professor, :substitute_teacher, :archived_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, record); err != nil {
		return fmt.Errorf("insert substitute history: %w", err)
	}
	return nil
}

// List returns history records, newest first.
func (r *SubstituteHistoryRepository) List(ctx context.Context, filter models.SubstituteFilter) ([]models.SubstituteRecord, int, error) {
	base := "FROM substitute_history WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ScheduleID != "" {
		conditions = append(conditions, fmt.Sprintf("schedule_id = $%d", len(args)+1))
		args = append(args, filter.ScheduleID)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.Professor != "" {
		conditions = append(conditions, fmt.Sprintf("(original_professor = $%d OR substitute_teacher = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.Professor)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf(`SELECT id, schedule_id, doc_key, section, program, day, start_time, end_time, subject, original_professor, substitute_teacher, archived_at %s ORDER BY archived_at DESC LIMIT %d OFFSET %d`, base, size, offset)
	var records []models.SubstituteRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list substitute history: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count substitute history: %w", err)
	}

	return records, total, nil
}
