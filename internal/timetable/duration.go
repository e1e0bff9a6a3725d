package timetable

import "strings"

// Subject kinds when a curriculum lists the lecture and laboratory halves of
// a course as separately placeable subjects.
const (
	KindLecture    = "LEC"
	KindLaboratory = "LAB"
)

// SubjectMeta carries the unit counts that size a placement.
type SubjectMeta struct {
	LecUnits      int
	LabUnits      int
	IsComputerLab bool
	// Kind is KindLecture or KindLaboratory when the subject name encodes
	// which half is being scheduled; empty means the combined placement.
	Kind string
}

// MinimumSlots is the placement floor: nothing occupies less than one hour.
const MinimumSlots = 2

// SlotsFor converts unit counts into occupied 30-minute slots. One unit is
// one hour (two slots). Lab units only count toward the combined placement
// when the subject runs in a computer laboratory. The result never drops
// below MinimumSlots, matching the established allocation policy even for
// zero-unit placeholders.
func SlotsFor(meta SubjectMeta) int {
	var total int
	switch meta.Kind {
	case KindLecture:
		total = 2 * meta.LecUnits
	case KindLaboratory:
		total = 2 * meta.LabUnits
	default:
		total = 2 * meta.LecUnits
		if meta.IsComputerLab {
			total += 2 * meta.LabUnits
		}
	}
	if total < MinimumSlots {
		return MinimumSlots
	}
	return total
}

// KindFromName extracts the LEC/LAB tag from a display name such as
// "DB SYSTEMS (LEC)". Returns the empty string when the name carries no tag.
func KindFromName(subjectName string) string {
	upper := strings.ToUpper(subjectName)
	switch {
	case strings.Contains(upper, "("+KindLecture+")"):
		return KindLecture
	case strings.Contains(upper, "("+KindLaboratory+")"):
		return KindLaboratory
	}
	return ""
}
