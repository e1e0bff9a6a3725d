package dto

// CandidateQuery asks which rooms or professors can serve an anchored block.
type CandidateQuery struct {
	DocKey string `form:"docKey" validate:"required"`
}

// RoomCandidatesResponse lists conflict-free rooms of the required category.
type RoomCandidatesResponse struct {
	DocKey   string   `json:"docKey"`
	Subject  string   `json:"subject"`
	Category string   `json:"category"`
	Rooms    []string `json:"rooms"`
}

// ProfessorCandidatesResponse lists qualified, conflict-free professors.
type ProfessorCandidatesResponse struct {
	DocKey     string   `json:"docKey"`
	Subject    string   `json:"subject"`
	Professors []string `json:"professors"`
}
