package models

import "time"

// SubstituteRecord is one append-only history row written when a substitute
// assignment is archived. The live entry keeps its original professor; the
// overlay is cleared once the record exists.
type SubstituteRecord struct {
	ID                string    `db:"id" json:"id"`
	ScheduleID        string    `db:"schedule_id" json:"schedule_id"`
	DocKey            string    `db:"doc_key" json:"doc_key"`
	Section           string    `db:"section" json:"section"`
	Program           string    `db:"program" json:"program"`
	Day               string    `db:"day" json:"day"`
	StartTime         string    `db:"start_time" json:"start_time"`
	EndTime           string    `db:"end_time" json:"end_time"`
	Subject           string    `db:"subject" json:"subject"`
	OriginalProfessor string    `db:"original_professor" json:"original_professor"`
	SubstituteTeacher string    `db:"substitute_teacher" json:"substitute_teacher"`
	ArchivedAt        time.Time `db:"archived_at" json:"archived_at"`
}

// SubstituteFilter describes query params for listing history records.
type SubstituteFilter struct {
	ScheduleID string
	Section    string
	Professor  string
	Page       int
	PageSize   int
}
