package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ScheduleStatus is the lifecycle state of a section schedule document.
type ScheduleStatus string

const (
	// ScheduleStatusDraft schedules accept edits.
	ScheduleStatusDraft ScheduleStatus = "draft"
	// ScheduleStatusSubmitted schedules are locked read-only.
	ScheduleStatusSubmitted ScheduleStatus = "submitted"
	// ScheduleStatusArchived schedules are excluded from conflict checks
	// and aggregate views.
	ScheduleStatusArchived ScheduleStatus = "archived"
)

// ScheduleEntry is one placed block inside a schedule map, stored under a
// "{Day}_{TimeLabel}" document key. EndTime is a cached display label kept
// consistent with DurationSlots on every write.
type ScheduleEntry struct {
	Subject           string `json:"subject"`
	DurationSlots     int    `json:"durationSlots"`
	Room              string `json:"room,omitempty"`
	EndTime           string `json:"endTime,omitempty"`
	SubstituteTeacher string `json:"substituteTeacher,omitempty"`
}

// SectionSchedule is one section's weekly schedule document for a semester.
// ScheduleMap and ProfessorAssignments are JSONB documents: the map keys are
// "{Day}_{TimeLabel}" strings, assignments map the same keys to professor
// names.
type SectionSchedule struct {
	ID                   string         `db:"id" json:"id"`
	SectionName          string         `db:"section_name" json:"section_name"`
	Program              string         `db:"program" json:"program"`
	YearLevel            int            `db:"year_level" json:"year_level"`
	Semester             string         `db:"semester" json:"semester"`
	SchoolYear           string         `db:"school_year" json:"school_year"`
	Status               ScheduleStatus `db:"status" json:"status"`
	ScheduleMap          types.JSONText `db:"schedule_map" json:"schedule_map"`
	ProfessorAssignments types.JSONText `db:"professor_assignments" json:"professor_assignments"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// Entries decodes the schedule map document.
func (s *SectionSchedule) Entries() (map[string]ScheduleEntry, error) {
	entries := make(map[string]ScheduleEntry)
	if len(s.ScheduleMap) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(s.ScheduleMap, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetEntries encodes the schedule map document.
func (s *SectionSchedule) SetEntries(entries map[string]ScheduleEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	s.ScheduleMap = types.JSONText(raw)
	return nil
}

// Assignments decodes the docKey → professor name document.
func (s *SectionSchedule) Assignments() (map[string]string, error) {
	assignments := make(map[string]string)
	if len(s.ProfessorAssignments) == 0 {
		return assignments, nil
	}
	if err := json.Unmarshal(s.ProfessorAssignments, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// SetAssignments encodes the professor assignment document.
func (s *SectionSchedule) SetAssignments(assignments map[string]string) error {
	raw, err := json.Marshal(assignments)
	if err != nil {
		return err
	}
	s.ProfessorAssignments = types.JSONText(raw)
	return nil
}

// ScheduleFilter describes query params for listing section schedules.
type ScheduleFilter struct {
	SectionName string
	Program     string
	Semester    string
	SchoolYear  string
	Status      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
