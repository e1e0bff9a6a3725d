package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	"github.com/noah-isme/arms-api/internal/timetable"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

// CandidateService answers "which rooms / which professors can take this
// block" for the editor's assignment pickers. Results are conflict-checked
// against every live schedule sharing the semester.
type CandidateService struct {
	schedules scheduleStore
	faculty   facultyReader
	rooms     roomReader
	curricula curriculumReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCandidateService builds a CandidateService with sane defaults.
func NewCandidateService(
	schedules scheduleStore,
	faculty facultyReader,
	rooms roomReader,
	curricula curriculumReader,
	validate *validator.Validate,
	logger *zap.Logger,
) *CandidateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{
		schedules: schedules,
		faculty:   faculty,
		rooms:     rooms,
		curricula: curricula,
		validator: validate,
		logger:    logger,
	}
}

// Rooms lists the conflict-free rooms of the category the anchored subject
// requires. PE subjects always route to the PE subset.
func (s *CandidateService) Rooms(ctx context.Context, scheduleID string, query dto.CandidateQuery) (*dto.RoomCandidatesResponse, error) {
	schedule, key, entry, err := s.anchor(ctx, scheduleID, query)
	if err != nil {
		return nil, err
	}

	pool, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	views, err := s.snapshot(ctx, schedule)
	if err != nil {
		return nil, err
	}

	meta := s.meta(ctx, schedule, entry.Subject)
	exclude := &timetable.ExcludeRef{ScheduleID: schedule.ID, Key: key}
	names := timetable.CandidateRooms(entry.Subject, meta, key.Day, key.Index, entry.DurationSlots, roomPool(pool), views, exclude)

	return &dto.RoomCandidatesResponse{
		DocKey:   query.DocKey,
		Subject:  entry.Subject,
		Category: string(timetable.RequiredRoomCategory(entry.Subject, meta)),
		Rooms:    names,
	}, nil
}

// Professors lists the qualified, conflict-free professors for the anchored
// block. Non-teaching assignments count as occupied time.
func (s *CandidateService) Professors(ctx context.Context, scheduleID string, query dto.CandidateQuery) (*dto.ProfessorCandidatesResponse, error) {
	schedule, key, entry, err := s.anchor(ctx, scheduleID, query)
	if err != nil {
		return nil, err
	}

	faculty, err := s.faculty.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	views, err := s.snapshot(ctx, schedule)
	if err != nil {
		return nil, err
	}

	exclude := &timetable.ExcludeRef{ScheduleID: schedule.ID, Key: key}
	names := timetable.CandidateProfessors(entry.Subject, key.Day, key.Index, entry.DurationSlots, professorPool(faculty), views, exclude)

	return &dto.ProfessorCandidatesResponse{
		DocKey:     query.DocKey,
		Subject:    entry.Subject,
		Professors: names,
	}, nil
}

func (s *CandidateService) anchor(ctx context.Context, scheduleID string, query dto.CandidateQuery) (*models.SectionSchedule, timetable.SlotKey, timetable.Entry, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, timetable.SlotKey{}, timetable.Entry{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid candidate query")
	}
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, timetable.SlotKey{}, timetable.Entry{}, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, timetable.SlotKey{}, timetable.Entry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	key, err := timetable.ParseSlotKey(query.DocKey)
	if err != nil {
		return nil, timetable.SlotKey{}, timetable.Entry{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	grid, err := decodeGrid(schedule)
	if err != nil {
		return nil, timetable.SlotKey{}, timetable.Entry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode schedule")
	}
	entry, ok := grid.At(key)
	if !ok {
		return nil, timetable.SlotKey{}, timetable.Entry{}, appErrors.Clone(appErrors.ErrNotFound, "no block anchored at this cell")
	}
	return schedule, key, entry, nil
}

func (s *CandidateService) snapshot(ctx context.Context, schedule *models.SectionSchedule) ([]timetable.ScheduleView, error) {
	live, err := s.schedules.ListLive(ctx, schedule.Semester, schedule.SchoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load live schedules")
	}
	return liveViews(live), nil
}

func (s *CandidateService) meta(ctx context.Context, schedule *models.SectionSchedule, subject string) timetable.SubjectMeta {
	curriculum, err := s.curricula.FindForSection(ctx, schedule.Program, schedule.YearLevel, schedule.Semester, schedule.SchoolYear)
	if err != nil {
		return timetable.SubjectMeta{Kind: timetable.KindFromName(subject)}
	}
	subjects, err := s.curricula.ListSubjects(ctx, curriculum.ID)
	if err != nil {
		return timetable.SubjectMeta{Kind: timetable.KindFromName(subject)}
	}
	return subjectMeta(subject, subjects)
}
