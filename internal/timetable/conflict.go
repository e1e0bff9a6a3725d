package timetable

import "strings"

// ResourceKind selects which occupant field of an entry a conflict scan
// compares against.
type ResourceKind string

const (
	ResourceRoom      ResourceKind = "room"
	ResourceProfessor ResourceKind = "professor"
)

// ScheduleView is one section's grid inside the conflict snapshot. Views from
// archived schedules are carried but never scanned.
type ScheduleView struct {
	ID       string
	Section  string
	Archived bool
	Grid     *Grid
}

// ExcludeRef identifies the one (schedule, cell) pair a scan must skip, used
// when re-checking the cell currently being edited.
type ExcludeRef struct {
	ScheduleID string
	Key        SlotKey
}

// NormalizeProfessor collapses internal and surrounding whitespace. Professor
// identity is a display-name join key, so whitespace is the only normalization
// applied; rooms match byte for byte.
func NormalizeProfessor(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Overlap reports whether the half-open ranges [aStart,aStart+aLen) and
// [bStart,bStart+bLen) intersect. Abutting ranges do not overlap.
func Overlap(aStart, aLen, bStart, bLen int) bool {
	return aStart < bStart+bLen && bStart < aStart+aLen
}

// HasConflict reports whether placing resourceID on day at
// [startIndex, startIndex+durationSlots) collides with any occurrence of the
// same resource anywhere in the snapshot. The scan treats the snapshot as
// consistent for its whole duration and short-circuits on the first hit.
//
// For professor checks the active substitute, when present, is the occupant:
// the original assignment stays recorded but no longer holds the hours.
func HasConflict(kind ResourceKind, resourceID string, day Day, startIndex, durationSlots int, schedules []ScheduleView, exclude *ExcludeRef) bool {
	wanted := resourceID
	if kind == ResourceProfessor {
		wanted = NormalizeProfessor(resourceID)
	}
	if wanted == "" {
		return false
	}

	for _, view := range schedules {
		if view.Archived || view.Grid == nil {
			continue
		}
		for key, entry := range view.Grid.Entries() {
			if key.Day != day {
				continue
			}
			if exclude != nil && exclude.ScheduleID == view.ID && exclude.Key == key {
				continue
			}
			if occupant(kind, entry) != wanted {
				continue
			}
			if Overlap(startIndex, durationSlots, key.Index, entry.DurationSlots) {
				return true
			}
		}
	}
	return false
}

func occupant(kind ResourceKind, entry Entry) string {
	switch kind {
	case ResourceRoom:
		return entry.Room
	case ResourceProfessor:
		name := entry.Professor
		if entry.Substitute != "" {
			name = entry.Substitute
		}
		return NormalizeProfessor(name)
	}
	return ""
}

// NonTeachingBlock is a consultation or administrative block that occupies a
// professor's calendar outside instruction.
type NonTeachingBlock struct {
	Day           Day
	StartIndex    int
	DurationSlots int
	Type          string
}

// NonTeachingView folds a professor's non-teaching blocks into a synthetic
// schedule view so conflict scans see the full calendar, not just class hours.
func NonTeachingView(professor string, blocks []NonTeachingBlock) ScheduleView {
	grid := NewGrid()
	for _, block := range blocks {
		duration := block.DurationSlots
		if duration < 1 {
			duration = 1
		}
		key := SlotKey{Day: block.Day, Index: block.StartIndex}
		label, _ := LabelAt(block.StartIndex)
		if _, taken := grid.At(key); taken {
			continue
		}
		grid.entries[key] = Entry{
			Subject:       block.Type,
			DurationSlots: duration,
			Professor:     professor,
			EndTime:       EndLabel(label, duration),
		}
	}
	return ScheduleView{ID: "non-teaching:" + NormalizeProfessor(professor), Grid: grid}
}
