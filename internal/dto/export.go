package dto

// ExportScheduleRequest queues an export job for a section schedule.
type ExportScheduleRequest struct {
	ScheduleID string `json:"scheduleId" validate:"required"`
	Format     string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse reports the queued or finished export job.
type ExportJobResponse struct {
	JobID       string `json:"jobId"`
	Status      string `json:"status"`
	Format      string `json:"format"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}
