package models

import "time"

// Curriculum groups the subjects offered to one program/year/semester.
// Archived curricula stay readable for history but no longer feed the
// schedule editor's subject list.
type Curriculum struct {
	ID         string    `db:"id" json:"id"`
	Program    string    `db:"program" json:"program"`
	YearLevel  int       `db:"year_level" json:"year_level"`
	Semester   string    `db:"semester" json:"semester"`
	SchoolYear string    `db:"school_year" json:"school_year"`
	Archived   bool      `db:"archived" json:"archived"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CurriculumSubject is one placeable subject. Lecture and laboratory halves
// of the same course appear as separate rows when scheduled independently,
// with the display name carrying the (LEC)/(LAB) tag.
type CurriculumSubject struct {
	ID            string    `db:"id" json:"id"`
	CurriculumID  string    `db:"curriculum_id" json:"curriculum_id"`
	CourseCode    string    `db:"course_code" json:"course_code"`
	CourseName    string    `db:"course_name" json:"course_name"`
	LecUnits      int       `db:"lec_units" json:"lec_units"`
	LabUnits      int       `db:"lab_units" json:"lab_units"`
	IsComputerLab bool      `db:"is_computer_lab" json:"is_computer_lab"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CurriculumFilter describes query params for listing curricula.
type CurriculumFilter struct {
	Program    string
	Semester   string
	SchoolYear string
	Archived   *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
