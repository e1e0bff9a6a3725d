package dto

// CreateCurriculumRequest registers a curriculum for one program term.
type CreateCurriculumRequest struct {
	Program    string `json:"program" validate:"required"`
	YearLevel  int    `json:"yearLevel" validate:"required,min=1,max=6"`
	Semester   string `json:"semester" validate:"required"`
	SchoolYear string `json:"schoolYear" validate:"required"`
}

// AddCurriculumSubjectRequest appends a subject to a curriculum.
type AddCurriculumSubjectRequest struct {
	CourseCode    string `json:"courseCode" validate:"required"`
	CourseName    string `json:"courseName" validate:"required"`
	LecUnits      int    `json:"lecUnits" validate:"min=0"`
	LabUnits      int    `json:"labUnits" validate:"min=0"`
	IsComputerLab bool   `json:"isComputerLab"`
}

// CurriculumQuery mirrors supported listing filters.
type CurriculumQuery struct {
	Program    string `form:"program"`
	Semester   string `form:"semester"`
	SchoolYear string `form:"schoolYear"`
	Archived   *bool  `form:"archived"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
}
