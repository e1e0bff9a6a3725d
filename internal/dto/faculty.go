package dto

import "github.com/noah-isme/arms-api/internal/models"

// CreateFacultyRequest registers a professor.
type CreateFacultyRequest struct {
	ProfessorName    string                         `json:"professorName" validate:"required"`
	Email            string                         `json:"email" validate:"required,email"`
	Shift            models.FacultyShift            `json:"shift" validate:"required,oneof=FULL_TIME PART_TIME"`
	QualifiedCourses []models.QualifiedCourse       `json:"qualifiedCourses" validate:"dive"`
	NonTeaching      []models.NonTeachingAssignment `json:"nonTeachingAssignments" validate:"dive"`
}

// UpdateFacultyRequest replaces a professor record.
type UpdateFacultyRequest struct {
	ProfessorName    string                         `json:"professorName" validate:"required"`
	Email            string                         `json:"email" validate:"required,email"`
	Shift            models.FacultyShift            `json:"shift" validate:"required,oneof=FULL_TIME PART_TIME"`
	QualifiedCourses []models.QualifiedCourse       `json:"qualifiedCourses" validate:"dive"`
	NonTeaching      []models.NonTeachingAssignment `json:"nonTeachingAssignments" validate:"dive"`
	Active           bool                           `json:"active"`
}

// FacultyResponse is the decoded projection of one faculty record.
type FacultyResponse struct {
	ID               string                         `json:"id"`
	ProfessorName    string                         `json:"professorName"`
	Email            string                         `json:"email"`
	Shift            models.FacultyShift            `json:"shift"`
	QualifiedCourses []models.QualifiedCourse       `json:"qualifiedCourses"`
	NonTeaching      []models.NonTeachingAssignment `json:"nonTeachingAssignments"`
	Active           bool                           `json:"active"`
}

// FacultyQuery mirrors supported listing filters.
type FacultyQuery struct {
	Shift     string `form:"shift"`
	Active    *bool  `form:"active"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}
