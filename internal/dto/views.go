package dto

// ResourceViewQuery scopes derived views to one semester's live schedules.
type ResourceViewQuery struct {
	Semester   string `form:"semester" validate:"required"`
	SchoolYear string `form:"schoolYear" validate:"required"`
}

// ResourceSlot is one occupied block in a room or professor view.
type ResourceSlot struct {
	Day        string `json:"day"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Subject    string `json:"subject"`
	Section    string `json:"section"`
	ScheduleID string `json:"scheduleId"`
	Room       string `json:"room,omitempty"`
	Professor  string `json:"professor,omitempty"`
}

// ResourceViewResponse groups occupied blocks per resource. Keys are room
// names or professor names depending on the requested dimension.
type ResourceViewResponse struct {
	Semester   string                    `json:"semester"`
	SchoolYear string                    `json:"schoolYear"`
	Resources  map[string][]ResourceSlot `json:"resources"`
}
