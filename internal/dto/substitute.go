package dto

// AssignSubstituteRequest overlays a substitute teacher on an anchored block.
// The original professor keeps the assignment record underneath.
type AssignSubstituteRequest struct {
	DocKey     string `json:"docKey" validate:"required"`
	Substitute string `json:"substitute" validate:"required"`
}

// ClearSubstituteRequest removes the overlay, restoring the original
// professor as the block's occupant, and archives the stint to history.
type ClearSubstituteRequest struct {
	DocKey string `json:"docKey" validate:"required"`
}

// SubstituteHistoryQuery filters archived substitute stints.
type SubstituteHistoryQuery struct {
	ScheduleID string `form:"scheduleId"`
	Section    string `form:"section"`
	Professor  string `form:"professor"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

// SubstituteHistoryEntry is one archived stint.
type SubstituteHistoryEntry struct {
	ID                string `json:"id"`
	ScheduleID        string `json:"scheduleId"`
	Section           string `json:"section"`
	Program           string `json:"program"`
	Day               string `json:"day"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Subject           string `json:"subject"`
	OriginalProfessor string `json:"originalProfessor"`
	SubstituteTeacher string `json:"substituteTeacher"`
	ArchivedAt        string `json:"archivedAt"`
}
