// Package timetable implements the weekly time-grid engine shared by the
// schedule editor, room/professor assignment and substitution flows: slot
// arithmetic over a fixed half-hour axis, sparse occupancy grids, cross
// schedule conflict resolution and candidate qualification.
package timetable

import (
	"fmt"
	"strings"
)

// Day identifies a teaching weekday. Ordering matches the grid column order.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Days lists every teaching day in grid order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// String returns the canonical day name used in document keys.
func (d Day) String() string {
	if d < Monday || d > Saturday {
		return ""
	}
	return dayNames[d]
}

// Valid reports whether the day falls inside the teaching week.
func (d Day) Valid() bool {
	return d >= Monday && d <= Saturday
}

// ParseDay resolves a day name case-insensitively.
func ParseDay(name string) (Day, bool) {
	trimmed := strings.TrimSpace(name)
	for i, candidate := range dayNames {
		if strings.EqualFold(candidate, trimmed) {
			return Day(i), true
		}
	}
	return 0, false
}

// slotLabels is the fixed ordered half-hour axis from 7:00AM through 8:30PM.
// Index arithmetic never crosses a day boundary; callers clamp to SlotsPerDay.
var slotLabels = [...]string{
	"7:00AM", "7:30AM", "8:00AM", "8:30AM", "9:00AM", "9:30AM",
	"10:00AM", "10:30AM", "11:00AM", "11:30AM", "12:00PM", "12:30PM",
	"1:00PM", "1:30PM", "2:00PM", "2:30PM", "3:00PM", "3:30PM",
	"4:00PM", "4:30PM", "5:00PM", "5:30PM", "6:00PM", "6:30PM",
	"7:00PM", "7:30PM", "8:00PM", "8:30PM",
}

// SlotsPerDay is the number of 30-minute increments on the axis.
const SlotsPerDay = len(slotLabels)

var labelIndex = func() map[string]int {
	m := make(map[string]int, len(slotLabels))
	for i, label := range slotLabels {
		m[label] = i
	}
	return m
}()

// IndexOf returns the axis index for an exact time label.
func IndexOf(label string) (int, bool) {
	idx, ok := labelIndex[label]
	return idx, ok
}

// LabelAt returns the display label for an axis index.
func LabelAt(index int) (string, bool) {
	if index < 0 || index >= SlotsPerDay {
		return "", false
	}
	return slotLabels[index], true
}

// EndLabel computes the label at start+durationSlots, clamped to the last
// valid index. Unknown start labels yield the empty string.
func EndLabel(startLabel string, durationSlots int) string {
	start, ok := IndexOf(startLabel)
	if !ok {
		return ""
	}
	end := start + durationSlots
	if end >= SlotsPerDay {
		end = SlotsPerDay - 1
	}
	if end < 0 {
		end = 0
	}
	return slotLabels[end]
}

// SlotKey addresses one cell of a weekly grid. It is the typed form of the
// "{Day}_{TimeLabel}" document keys used by stored schedule maps.
type SlotKey struct {
	Day   Day
	Index int
}

// String renders the document key form, e.g. "Monday_9:00AM".
func (k SlotKey) String() string {
	label, ok := LabelAt(k.Index)
	if !ok || !k.Day.Valid() {
		return ""
	}
	return fmt.Sprintf("%s_%s", k.Day, label)
}

// ParseSlotKey decodes a "{Day}_{TimeLabel}" document key.
func ParseSlotKey(raw string) (SlotKey, error) {
	parts := strings.SplitN(raw, "_", 2)
	if len(parts) != 2 {
		return SlotKey{}, fmt.Errorf("malformed slot key %q", raw)
	}
	day, ok := ParseDay(parts[0])
	if !ok {
		return SlotKey{}, fmt.Errorf("unknown day in slot key %q", raw)
	}
	idx, ok := IndexOf(parts[1])
	if !ok {
		return SlotKey{}, fmt.Errorf("unknown time label in slot key %q", raw)
	}
	return SlotKey{Day: day, Index: idx}, nil
}
