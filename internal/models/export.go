package models

import "time"

// ExportFormat enumerates the supported schedule export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus tracks an export job through the queue.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "queued"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusDone       ExportStatus = "done"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob is one queued schedule export.
type ExportJob struct {
	ID           string       `db:"id" json:"id"`
	ScheduleID   string       `db:"schedule_id" json:"schedule_id"`
	Format       ExportFormat `db:"format" json:"format"`
	Status       ExportStatus `db:"status" json:"status"`
	FilePath     string       `db:"file_path" json:"file_path,omitempty"`
	Token        string       `db:"token" json:"-"`
	ErrorMessage string       `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}
