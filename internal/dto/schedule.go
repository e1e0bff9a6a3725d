package dto

import "github.com/noah-isme/arms-api/internal/models"

// CreateScheduleRequest opens a new draft schedule for a section.
type CreateScheduleRequest struct {
	SectionName string `json:"sectionName" validate:"required"`
	Program     string `json:"program" validate:"required"`
	YearLevel   int    `json:"yearLevel" validate:"required,min=1,max=6"`
	Semester    string `json:"semester" validate:"required"`
	SchoolYear  string `json:"schoolYear" validate:"required"`
}

// PlaceSubjectRequest drops a subject block onto the grid. Relocate moves an
// already-placed subject to the new anchor; without it a second placement of
// the same subject is rejected.
type PlaceSubjectRequest struct {
	DocKey   string `json:"docKey" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Room     string `json:"room"`
	Relocate bool   `json:"relocate"`
}

// RemoveEntryRequest clears the block anchored at DocKey.
type RemoveEntryRequest struct {
	DocKey string `json:"docKey" validate:"required"`
}

// AssignRoomRequest sets or clears the room of an anchored block.
type AssignRoomRequest struct {
	DocKey string `json:"docKey" validate:"required"`
	Room   string `json:"room"`
}

// AssignProfessorRequest sets or clears the professor teaching an anchored
// block. An empty professor name clears the assignment.
type AssignProfessorRequest struct {
	DocKey    string `json:"docKey" validate:"required"`
	Professor string `json:"professor"`
}

// PlacementRejection explains why a placement could not land.
type PlacementRejection struct {
	DocKey  string `json:"docKey"`
	Reason  string `json:"reason"`
	Subject string `json:"subject,omitempty"`
}

// ScheduleEntryView is one rendered block of the editor grid.
type ScheduleEntryView struct {
	DocKey            string `json:"docKey"`
	Day               string `json:"day"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Subject           string `json:"subject"`
	DurationSlots     int    `json:"durationSlots"`
	Room              string `json:"room,omitempty"`
	Professor         string `json:"professor,omitempty"`
	SubstituteTeacher string `json:"substituteTeacher,omitempty"`
}

// ScheduleResponse is the full editor payload for one section schedule.
type ScheduleResponse struct {
	ID          string                `json:"id"`
	SectionName string                `json:"sectionName"`
	Program     string                `json:"program"`
	YearLevel   int                   `json:"yearLevel"`
	Semester    string                `json:"semester"`
	SchoolYear  string                `json:"schoolYear"`
	Status      models.ScheduleStatus `json:"status"`
	Entries     []ScheduleEntryView   `json:"entries"`
	UpdatedAt   string                `json:"updatedAt"`
}

// ScheduleSummary is the list-view projection of a schedule.
type ScheduleSummary struct {
	ID          string                `json:"id"`
	SectionName string                `json:"sectionName"`
	Program     string                `json:"program"`
	YearLevel   int                   `json:"yearLevel"`
	Semester    string                `json:"semester"`
	SchoolYear  string                `json:"schoolYear"`
	Status      models.ScheduleStatus `json:"status"`
	EntryCount  int                   `json:"entryCount"`
}

// SubmitRejection lists the blocks still missing a professor, keeping the
// editor able to highlight every offender at once.
type SubmitRejection struct {
	MissingProfessors []string `json:"missingProfessors"`
}

// ScheduleQuery mirrors supported listing filters.
type ScheduleQuery struct {
	SectionName string `form:"sectionName"`
	Program     string `form:"program"`
	Semester    string `form:"semester"`
	SchoolYear  string `form:"schoolYear"`
	Status      string `form:"status"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder"`
}
