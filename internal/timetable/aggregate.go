package timetable

import "sort"

// AggregateEntry is one occurrence of a resource inside the derived
// room/professor week views.
type AggregateEntry struct {
	ScheduleID    string
	Section       string
	Day           Day
	StartIndex    int
	DurationSlots int
	Subject       string
	Room          string
	Professor     string
}

// DeriveByRoom groups every live placement by room. The result is computed
// from the snapshot on demand; it is never stored, so it cannot drift from
// the section schedules it was derived from.
func DeriveByRoom(schedules []ScheduleView) map[string][]AggregateEntry {
	return derive(schedules, func(entry Entry) string {
		return entry.Room
	})
}

// DeriveByProfessor groups every live placement by the occupying professor,
// honoring substitute overlays.
func DeriveByProfessor(schedules []ScheduleView) map[string][]AggregateEntry {
	return derive(schedules, func(entry Entry) string {
		return occupant(ResourceProfessor, entry)
	})
}

func derive(schedules []ScheduleView, keyOf func(Entry) string) map[string][]AggregateEntry {
	result := make(map[string][]AggregateEntry)
	for _, view := range schedules {
		if view.Archived || view.Grid == nil {
			continue
		}
		for key, entry := range view.Grid.Entries() {
			resource := keyOf(entry)
			if resource == "" {
				continue
			}
			result[resource] = append(result[resource], AggregateEntry{
				ScheduleID:    view.ID,
				Section:       view.Section,
				Day:           key.Day,
				StartIndex:    key.Index,
				DurationSlots: entry.DurationSlots,
				Subject:       entry.Subject,
				Room:          entry.Room,
				Professor:     entry.Professor,
			})
		}
	}
	for resource := range result {
		entries := result[resource]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Day != entries[j].Day {
				return entries[i].Day < entries[j].Day
			}
			if entries[i].StartIndex != entries[j].StartIndex {
				return entries[i].StartIndex < entries[j].StartIndex
			}
			return entries[i].ScheduleID < entries[j].ScheduleID
		})
		result[resource] = entries
	}
	return result
}
