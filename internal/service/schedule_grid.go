package service

import (
	"fmt"

	"github.com/noah-isme/arms-api/internal/models"
	"github.com/noah-isme/arms-api/internal/timetable"
)

// decodeGrid rebuilds the typed occupancy grid from a schedule's stored
// documents. Professor assignments live in a sibling document keyed by the
// same "{Day}_{TimeLabel}" strings, so the two are merged here.
func decodeGrid(schedule *models.SectionSchedule) (*timetable.Grid, error) {
	entries, err := schedule.Entries()
	if err != nil {
		return nil, fmt.Errorf("decode schedule map for %s: %w", schedule.ID, err)
	}
	assignments, err := schedule.Assignments()
	if err != nil {
		return nil, fmt.Errorf("decode assignments for %s: %w", schedule.ID, err)
	}

	decoded := make(map[timetable.SlotKey]timetable.Entry, len(entries))
	for raw, entry := range entries {
		key, err := timetable.ParseSlotKey(raw)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", schedule.ID, err)
		}
		decoded[key] = timetable.Entry{
			Subject:       entry.Subject,
			DurationSlots: entry.DurationSlots,
			Room:          entry.Room,
			Professor:     assignments[raw],
			Substitute:    entry.SubstituteTeacher,
			EndTime:       entry.EndTime,
		}
	}
	return timetable.FromEntries(decoded), nil
}

// encodeGrid writes the grid back into a schedule's two documents.
func encodeGrid(schedule *models.SectionSchedule, grid *timetable.Grid) error {
	entries := make(map[string]models.ScheduleEntry, grid.Len())
	assignments := make(map[string]string)
	for key, entry := range grid.Entries() {
		raw := key.String()
		entries[raw] = models.ScheduleEntry{
			Subject:           entry.Subject,
			DurationSlots:     entry.DurationSlots,
			Room:              entry.Room,
			EndTime:           entry.EndTime,
			SubstituteTeacher: entry.Substitute,
		}
		if entry.Professor != "" {
			assignments[raw] = entry.Professor
		}
	}
	if err := schedule.SetEntries(entries); err != nil {
		return fmt.Errorf("encode schedule map for %s: %w", schedule.ID, err)
	}
	if err := schedule.SetAssignments(assignments); err != nil {
		return fmt.Errorf("encode assignments for %s: %w", schedule.ID, err)
	}
	return nil
}

// liveViews converts the live schedule set into the conflict snapshot the
// engine scans. Decode failures skip the schedule rather than failing the
// whole scan; a corrupt sibling document must not block edits elsewhere.
func liveViews(schedules []models.SectionSchedule) []timetable.ScheduleView {
	views := make([]timetable.ScheduleView, 0, len(schedules))
	for i := range schedules {
		grid, err := decodeGrid(&schedules[i])
		if err != nil {
			continue
		}
		views = append(views, timetable.ScheduleView{
			ID:       schedules[i].ID,
			Section:  schedules[i].SectionName,
			Archived: schedules[i].Status == models.ScheduleStatusArchived,
			Grid:     grid,
		})
	}
	return views
}

// professorPool converts faculty records into the engine's candidate shape.
func professorPool(faculty []models.Faculty) []timetable.Professor {
	pool := make([]timetable.Professor, 0, len(faculty))
	for i := range faculty {
		courses, err := faculty[i].Courses()
		if err != nil {
			continue
		}
		blocks, err := faculty[i].NonTeachingBlocks()
		if err != nil {
			continue
		}
		prof := timetable.Professor{Name: faculty[i].ProfessorName}
		for _, course := range courses {
			prof.QualifiedCourses = append(prof.QualifiedCourses, timetable.Course{
				Code: course.CourseCode,
				Name: course.CourseName,
			})
		}
		for _, block := range blocks {
			converted, ok := nonTeachingBlock(block)
			if !ok {
				continue
			}
			prof.NonTeaching = append(prof.NonTeaching, converted)
		}
		pool = append(pool, prof)
	}
	return pool
}

// nonTeachingBlock maps a stored assignment onto the slot axis. One hour is
// two slots; fractional hours round up so a 1.5h consultation blocks 3 slots.
func nonTeachingBlock(block models.NonTeachingAssignment) (timetable.NonTeachingBlock, bool) {
	day, ok := timetable.ParseDay(block.Day)
	if !ok {
		return timetable.NonTeachingBlock{}, false
	}
	start, ok := timetable.IndexOf(block.Time)
	if !ok {
		return timetable.NonTeachingBlock{}, false
	}
	slots := int(block.Hours * 2)
	if float64(slots) < block.Hours*2 {
		slots++
	}
	if slots < 1 {
		slots = 1
	}
	return timetable.NonTeachingBlock{
		Day:           day,
		StartIndex:    start,
		DurationSlots: slots,
		Type:          block.Type,
	}, true
}

// roomPool converts room records into the engine's candidate shape.
func roomPool(rooms []models.Room) []timetable.Room {
	pool := make([]timetable.Room, 0, len(rooms))
	for _, room := range rooms {
		pool = append(pool, timetable.Room{
			Name:     room.Name,
			Category: timetable.RoomCategory(room.Category),
		})
	}
	return pool
}

// subjectMeta resolves a placed subject's unit counts from the curriculum.
// Subjects absent from the curriculum fall back to name-derived metadata so a
// renamed course still lands with the minimum duration.
func subjectMeta(subjectName string, subjects []models.CurriculumSubject) timetable.SubjectMeta {
	for _, subject := range subjects {
		course := timetable.Course{Code: subject.CourseCode, Name: subject.CourseName}
		if timetable.QualifiesFor(subjectName, course) {
			return timetable.SubjectMeta{
				LecUnits:      subject.LecUnits,
				LabUnits:      subject.LabUnits,
				IsComputerLab: subject.IsComputerLab,
				Kind:          timetable.KindFromName(subjectName),
			}
		}
	}
	return timetable.SubjectMeta{Kind: timetable.KindFromName(subjectName)}
}
