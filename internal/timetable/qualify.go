package timetable

import (
	"regexp"
	"sort"
	"strings"
)

// RoomCategory partitions the room inventory for placement routing.
type RoomCategory string

const (
	RoomLecture    RoomCategory = "LECTURE"
	RoomLaboratory RoomCategory = "LABORATORY"
	RoomPE         RoomCategory = "PE"
)

// Room is one entry of the room pool.
type Room struct {
	Name     string
	Category RoomCategory
}

// Course is one qualification entry on a faculty record.
type Course struct {
	Code string
	Name string
}

var parenthetical = regexp.MustCompile(`\([^)]*\)`)
var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)

// NormalizeCourse reduces a subject or course label to its canonical matching
// form: upper-cased, parenthetical suffixes such as (LEC)/(LAB) removed, all
// punctuation and whitespace dropped. Every qualification comparison in the
// engine goes through this one rule.
func NormalizeCourse(label string) string {
	upper := strings.ToUpper(label)
	upper = parenthetical.ReplaceAllString(upper, "")
	return nonAlphanumeric.ReplaceAllString(upper, "")
}

// QualifiesFor reports whether a course entry matches the subject. The match
// is deliberately permissive: after normalization the subject qualifies if
// its label contains, or is contained by, the course code or course name.
func QualifiesFor(subject string, course Course) bool {
	normalized := NormalizeCourse(subject)
	if normalized == "" {
		return false
	}
	for _, candidate := range []string{NormalizeCourse(course.Code), NormalizeCourse(course.Name)} {
		if candidate == "" {
			continue
		}
		if strings.Contains(normalized, candidate) || strings.Contains(candidate, normalized) {
			return true
		}
	}
	return false
}

// peMarkers identify physical-education subjects, which route to the fixed
// PE room subset regardless of the lecture/laboratory split.
var peMarkers = []string{"PHYSICALEDUCATION", "PATHFIT"}

// RequiredRoomCategory decides which room subset a subject may occupy.
func RequiredRoomCategory(subjectName string, meta SubjectMeta) RoomCategory {
	normalized := NormalizeCourse(subjectName)
	for _, marker := range peMarkers {
		if strings.Contains(normalized, marker) {
			return RoomPE
		}
	}
	if strings.HasPrefix(normalized, "PE") && len(normalized) <= 5 {
		return RoomPE
	}
	kind := meta.Kind
	if kind == "" {
		kind = KindFromName(subjectName)
	}
	if kind == KindLaboratory || meta.IsComputerLab {
		return RoomLaboratory
	}
	return RoomLecture
}

// CandidateRooms returns the rooms of the required category that are free for
// the candidate range, alphabetically sorted. An empty result means no
// eligible room, which callers must keep distinct from "no subject selected".
func CandidateRooms(subjectName string, meta SubjectMeta, day Day, startIndex, durationSlots int, pool []Room, schedules []ScheduleView, exclude *ExcludeRef) []string {
	required := RequiredRoomCategory(subjectName, meta)
	var result []string
	for _, room := range pool {
		if room.Category != required {
			continue
		}
		if HasConflict(ResourceRoom, room.Name, day, startIndex, durationSlots, schedules, exclude) {
			continue
		}
		result = append(result, room.Name)
	}
	sort.Strings(result)
	return result
}

// Professor is one entry of the faculty pool as the engine sees it.
type Professor struct {
	Name             string
	QualifiedCourses []Course
	NonTeaching      []NonTeachingBlock
}

// CandidateProfessors returns the professors qualified for the subject and
// free for the candidate range. Non-teaching blocks count as occupied time.
func CandidateProfessors(subject string, day Day, startIndex, durationSlots int, pool []Professor, schedules []ScheduleView, exclude *ExcludeRef) []string {
	var result []string
	for _, prof := range pool {
		if !qualified(subject, prof.QualifiedCourses) {
			continue
		}
		scan := schedules
		if len(prof.NonTeaching) > 0 {
			scan = append(append([]ScheduleView(nil), schedules...), NonTeachingView(prof.Name, prof.NonTeaching))
		}
		if HasConflict(ResourceProfessor, prof.Name, day, startIndex, durationSlots, scan, exclude) {
			continue
		}
		result = append(result, prof.Name)
	}
	sort.Strings(result)
	return result
}

func qualified(subject string, courses []Course) bool {
	for _, course := range courses {
		if QualifiesFor(subject, course) {
			return true
		}
	}
	return false
}
