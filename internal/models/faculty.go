package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// FacultyShift bounds a professor's total unit load.
type FacultyShift string

const (
	ShiftFullTime FacultyShift = "FULL_TIME"
	ShiftPartTime FacultyShift = "PART_TIME"
)

// QualifiedCourse is one course a professor may teach.
type QualifiedCourse struct {
	CourseCode string `json:"courseCode"`
	CourseName string `json:"courseName"`
}

// NonTeachingAssignment is a consultation or administrative block that
// occupies the professor's weekly calendar alongside class hours.
type NonTeachingAssignment struct {
	Day   string  `json:"day"`
	Time  string  `json:"time"`
	Type  string  `json:"type"`
	Hours float64 `json:"hours"`
}

// Faculty is one professor record. ProfessorName doubles as the join key for
// schedule assignments; there is no normalized foreign key in the documents.
type Faculty struct {
	ID               string         `db:"id" json:"id"`
	ProfessorName    string         `db:"professor_name" json:"professor_name"`
	Email            string         `db:"email" json:"email"`
	Shift            FacultyShift   `db:"shift" json:"shift"`
	QualifiedCourses types.JSONText `db:"qualified_courses" json:"qualified_courses"`
	NonTeaching      types.JSONText `db:"non_teaching_assignments" json:"non_teaching_assignments"`
	Active           bool           `db:"active" json:"active"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Courses decodes the qualified course list.
func (f *Faculty) Courses() ([]QualifiedCourse, error) {
	if len(f.QualifiedCourses) == 0 {
		return nil, nil
	}
	var courses []QualifiedCourse
	if err := json.Unmarshal(f.QualifiedCourses, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// NonTeachingBlocks decodes the non-teaching assignment list.
func (f *Faculty) NonTeachingBlocks() ([]NonTeachingAssignment, error) {
	if len(f.NonTeaching) == 0 {
		return nil, nil
	}
	var blocks []NonTeachingAssignment
	if err := json.Unmarshal(f.NonTeaching, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// FacultyFilter describes query params for listing faculty.
type FacultyFilter struct {
	Shift     string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
