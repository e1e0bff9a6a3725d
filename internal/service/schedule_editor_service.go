package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	"github.com/noah-isme/arms-api/internal/timetable"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

type scheduleStore interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.SectionSchedule, int, error)
	FindByID(ctx context.Context, id string) (*models.SectionSchedule, error)
	ListLive(ctx context.Context, semester, schoolYear string) ([]models.SectionSchedule, error)
	Create(ctx context.Context, schedule *models.SectionSchedule) error
	UpdateDocuments(ctx context.Context, exec sqlx.ExtContext, id string, scheduleMap, assignments types.JSONText) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.ScheduleStatus) error
	Delete(ctx context.Context, id string) error
}

type curriculumReader interface {
	FindForSection(ctx context.Context, program string, yearLevel int, semester, schoolYear string) (*models.Curriculum, error)
	ListSubjects(ctx context.Context, curriculumID string) ([]models.CurriculumSubject, error)
}

type facultyReader interface {
	ListActive(ctx context.Context) ([]models.Faculty, error)
	FindByName(ctx context.Context, professorName string) (*models.Faculty, error)
}

type roomReader interface {
	ListActive(ctx context.Context) ([]models.Room, error)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type viewInvalidator interface {
	InvalidateViews(ctx context.Context, semester, schoolYear string)
}

// ScheduleEditorService drives the drag-and-drop schedule editor: placing,
// moving and removing subject blocks, assigning rooms and professors, and the
// draft/submitted/archived lifecycle.
type ScheduleEditorService struct {
	schedules scheduleStore
	curricula curriculumReader
	faculty   facultyReader
	rooms     roomReader
	views     viewInvalidator
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleEditorService builds a ScheduleEditorService with sane defaults.
func NewScheduleEditorService(
	schedules scheduleStore,
	curricula curriculumReader,
	faculty facultyReader,
	rooms roomReader,
	views viewInvalidator,
	audit auditLogger,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleEditorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleEditorService{
		schedules: schedules,
		curricula: curricula,
		faculty:   faculty,
		rooms:     rooms,
		views:     views,
		audit:     audit,
		validator: validate,
		logger:    logger,
	}
}

// Create opens a new empty draft schedule for a section.
func (s *ScheduleEditorService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	schedule := &models.SectionSchedule{
		SectionName: req.SectionName,
		Program:     req.Program,
		YearLevel:   req.YearLevel,
		Semester:    req.Semester,
		SchoolYear:  req.SchoolYear,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return s.render(schedule)
}

// List returns schedule summaries matching the query.
func (s *ScheduleEditorService) List(ctx context.Context, query dto.ScheduleQuery) ([]dto.ScheduleSummary, int, error) {
	schedules, total, err := s.schedules.List(ctx, models.ScheduleFilter{
		SectionName: query.SectionName,
		Program:     query.Program,
		Semester:    query.Semester,
		SchoolYear:  query.SchoolYear,
		Status:      query.Status,
		Page:        query.Page,
		PageSize:    query.PageSize,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	summaries := make([]dto.ScheduleSummary, 0, len(schedules))
	for i := range schedules {
		entries, err := schedules[i].Entries()
		if err != nil {
			s.logger.Warn("skipping schedule with corrupt document", zap.String("id", schedules[i].ID), zap.Error(err))
			continue
		}
		summaries = append(summaries, dto.ScheduleSummary{
			ID:          schedules[i].ID,
			SectionName: schedules[i].SectionName,
			Program:     schedules[i].Program,
			YearLevel:   schedules[i].YearLevel,
			Semester:    schedules[i].Semester,
			SchoolYear:  schedules[i].SchoolYear,
			Status:      schedules[i].Status,
			EntryCount:  len(entries),
		})
	}
	return summaries, total, nil
}

// Get returns the full editor payload for one schedule.
func (s *ScheduleEditorService) Get(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	schedule, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(schedule)
}

// Place drops a subject block at the requested cell. The block's duration
// comes from the section's curriculum units and is truncated to the available
// run when the day or a following block cuts it short.
func (s *ScheduleEditorService) Place(ctx context.Context, id string, req dto.PlaceSubjectRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}
	schedule, err := s.loadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := timetable.ParseSlotKey(req.DocKey)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	grid, err := decodeGrid(schedule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode schedule")
	}

	// Keep room, professor and any active substitute overlay when a placed
	// block is being relocated. The overlay only leaves through Clear, which
	// archives the stint.
	opts := timetable.PlaceOptions{Relocate: req.Relocate, Room: req.Room}
	if req.Relocate {
		for _, entry := range grid.Entries() {
			if entry.Subject != req.Subject {
				continue
			}
			if opts.Room == "" {
				opts.Room = entry.Room
			}
			opts.Professor = entry.Professor
			opts.Substitute = entry.Substitute
			break
		}
	}

	duration := timetable.SlotsFor(s.subjectMetaFor(ctx, schedule, req.Subject))
	if placeErr := grid.Place(key, req.Subject, duration, opts); placeErr != nil {
		return nil, s.rejection(placeErr)
	}

	if err := s.persist(ctx, schedule, grid); err != nil {
		return nil, err
	}
	return s.render(schedule)
}

// Remove clears the block anchored at the doc key.
func (s *ScheduleEditorService) Remove(ctx context.Context, id string, req dto.RemoveEntryRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid removal payload")
	}
	schedule, err := s.loadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := timetable.ParseSlotKey(req.DocKey)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	grid, err := decodeGrid(schedule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode schedule")
	}
	grid.Remove(key)
	if err := s.persist(ctx, schedule, grid); err != nil {
		return nil, err
	}
	return s.render(schedule)
}

// AssignRoom sets or clears the room of an anchored block. The room must be
// in the active inventory, carry the category the subject routes to, and be
// free across every live schedule for the block's full span.
func (s *ScheduleEditorService) AssignRoom(ctx context.Context, id string, req dto.AssignRoomRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	schedule, err := s.loadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	key, grid, entry, err := s.anchoredEntry(schedule, req.DocKey)
	if err != nil {
		return nil, err
	}

	if req.Room != "" {
		if err := s.checkRoom(ctx, schedule, entry, req.Room); err != nil {
			return nil, err
		}
		views, err := s.conflictSnapshot(ctx, schedule)
		if err != nil {
			return nil, err
		}
		exclude := &timetable.ExcludeRef{ScheduleID: schedule.ID, Key: key}
		if timetable.HasConflict(timetable.ResourceRoom, req.Room, key.Day, key.Index, entry.DurationSlots, views, exclude) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "room is occupied during this time")
		}
	}

	grid.Update(key, func(e *timetable.Entry) { e.Room = req.Room })
	if err := s.persist(ctx, schedule, grid); err != nil {
		return nil, err
	}
	return s.render(schedule)
}

// AssignProfessor sets or clears the professor of an anchored block. The
// professor must be qualified for the subject and free across every live
// schedule, including their non-teaching calendar.
func (s *ScheduleEditorService) AssignProfessor(ctx context.Context, id string, req dto.AssignProfessorRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}
	schedule, err := s.loadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	key, grid, entry, err := s.anchoredEntry(schedule, req.DocKey)
	if err != nil {
		return nil, err
	}

	if req.Professor != "" {
		if err := s.checkProfessor(ctx, schedule, key, entry, req.Professor); err != nil {
			return nil, err
		}
	}

	grid.Update(key, func(e *timetable.Entry) { e.Professor = req.Professor })
	if err := s.persist(ctx, schedule, grid); err != nil {
		return nil, err
	}
	return s.render(schedule)
}

// Submit locks the schedule read-only. Every placed block must carry a
// professor; the rejection lists all offending doc keys so the editor can
// highlight them in one pass.
func (s *ScheduleEditorService) Submit(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	schedule, err := s.loadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	grid, err := decodeGrid(schedule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode schedule")
	}

	var missing []string
	for key, entry := range grid.Entries() {
		if entry.Professor == "" {
			missing = append(missing, key.String())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, appErrors.Clone(appErrors.ErrSubmitIncomplete, "").
			WithDetails(dto.SubmitRejection{MissingProfessors: missing})
	}

	if err := s.schedules.UpdateStatus(ctx, nil, schedule.ID, models.ScheduleStatusSubmitted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit schedule")
	}
	schedule.Status = models.ScheduleStatusSubmitted
	s.emitAudit(ctx, models.AuditActionScheduleSubmit, schedule)
	s.invalidate(ctx, schedule)
	return s.render(schedule)
}

// Archive retires a schedule from conflict checks and derived views.
func (s *ScheduleEditorService) Archive(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	schedule, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status == models.ScheduleStatusArchived {
		return s.render(schedule)
	}
	if err := s.schedules.UpdateStatus(ctx, nil, schedule.ID, models.ScheduleStatusArchived); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive schedule")
	}
	schedule.Status = models.ScheduleStatusArchived
	s.emitAudit(ctx, models.AuditActionScheduleArchive, schedule)
	s.invalidate(ctx, schedule)
	return s.render(schedule)
}

// Delete removes a schedule outright.
func (s *ScheduleEditorService) Delete(ctx context.Context, id string) error {
	schedule, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.schedules.Delete(ctx, schedule.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.invalidate(ctx, schedule)
	return nil
}

func (s *ScheduleEditorService) load(ctx context.Context, id string) (*models.SectionSchedule, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

func (s *ScheduleEditorService) loadDraft(ctx context.Context, id string) (*models.SectionSchedule, error) {
	schedule, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.ScheduleStatusDraft {
		return nil, appErrors.ErrScheduleLocked
	}
	return schedule, nil
}

func (s *ScheduleEditorService) anchoredEntry(schedule *models.SectionSchedule, rawKey string) (timetable.SlotKey, *timetable.Grid, timetable.Entry, error) {
	key, err := timetable.ParseSlotKey(rawKey)
	if err != nil {
		return timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	grid, err := decodeGrid(schedule)
	if err != nil {
		return timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode schedule")
	}
	entry, ok := grid.At(key)
	if !ok {
		return timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Clone(appErrors.ErrNotFound, "no block anchored at this cell")
	}
	return key, grid, entry, nil
}

func (s *ScheduleEditorService) checkRoom(ctx context.Context, schedule *models.SectionSchedule, entry timetable.Entry, roomName string) error {
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	var room *models.Room
	for i := range rooms {
		if rooms[i].Name == roomName {
			room = &rooms[i]
			break
		}
	}
	if room == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}
	required := timetable.RequiredRoomCategory(entry.Subject, s.subjectMetaFor(ctx, schedule, entry.Subject))
	if timetable.RoomCategory(room.Category) != required {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "room category does not fit this subject")
	}
	return nil
}

func (s *ScheduleEditorService) checkProfessor(ctx context.Context, schedule *models.SectionSchedule, key timetable.SlotKey, entry timetable.Entry, professor string) error {
	faculty, err := s.faculty.FindByName(ctx, professor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	if !faculty.Active {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "professor is inactive")
	}

	courses, err := faculty.Courses()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode qualifications")
	}
	qualified := false
	for _, course := range courses {
		if timetable.QualifiesFor(entry.Subject, timetable.Course{Code: course.CourseCode, Name: course.CourseName}) {
			qualified = true
			break
		}
	}
	if !qualified {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "professor is not qualified for this subject")
	}

	views, err := s.conflictSnapshot(ctx, schedule)
	if err != nil {
		return err
	}
	blocks, err := faculty.NonTeachingBlocks()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode non-teaching assignments")
	}
	if len(blocks) > 0 {
		var converted []timetable.NonTeachingBlock
		for _, block := range blocks {
			if nt, ok := nonTeachingBlock(block); ok {
				converted = append(converted, nt)
			}
		}
		views = append(views, timetable.NonTeachingView(faculty.ProfessorName, converted))
	}
	exclude := &timetable.ExcludeRef{ScheduleID: schedule.ID, Key: key}
	if timetable.HasConflict(timetable.ResourceProfessor, professor, key.Day, key.Index, entry.DurationSlots, views, exclude) {
		return appErrors.Clone(appErrors.ErrConflict, "professor is teaching elsewhere during this time")
	}
	return nil
}

// conflictSnapshot loads every live schedule sharing the semester as the
// conflict scan input.
func (s *ScheduleEditorService) conflictSnapshot(ctx context.Context, schedule *models.SectionSchedule) ([]timetable.ScheduleView, error) {
	live, err := s.schedules.ListLive(ctx, schedule.Semester, schedule.SchoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load live schedules")
	}
	return liveViews(live), nil
}

func (s *ScheduleEditorService) subjectMetaFor(ctx context.Context, schedule *models.SectionSchedule, subject string) timetable.SubjectMeta {
	curriculum, err := s.curricula.FindForSection(ctx, schedule.Program, schedule.YearLevel, schedule.Semester, schedule.SchoolYear)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("curriculum lookup failed", zap.String("program", schedule.Program), zap.Error(err))
		}
		return timetable.SubjectMeta{Kind: timetable.KindFromName(subject)}
	}
	subjects, err := s.curricula.ListSubjects(ctx, curriculum.ID)
	if err != nil {
		s.logger.Warn("curriculum subjects lookup failed", zap.String("curriculumId", curriculum.ID), zap.Error(err))
		return timetable.SubjectMeta{Kind: timetable.KindFromName(subject)}
	}
	return subjectMeta(subject, subjects)
}

func (s *ScheduleEditorService) persist(ctx context.Context, schedule *models.SectionSchedule, grid *timetable.Grid) error {
	if err := encodeGrid(schedule, grid); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule")
	}
	if err := s.schedules.UpdateDocuments(ctx, nil, schedule.ID, schedule.ScheduleMap, schedule.ProfessorAssignments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	s.invalidate(ctx, schedule)
	return nil
}

func (s *ScheduleEditorService) invalidate(ctx context.Context, schedule *models.SectionSchedule) {
	if s.views == nil {
		return
	}
	s.views.InvalidateViews(ctx, schedule.Semester, schedule.SchoolYear)
}

func (s *ScheduleEditorService) rejection(placeErr *timetable.PlacementError) error {
	return appErrors.Wrap(placeErr, appErrors.ErrPlacementRejected.Code, appErrors.ErrPlacementRejected.Status, placeErr.Error())
}

func (s *ScheduleEditorService) render(schedule *models.SectionSchedule) (*dto.ScheduleResponse, error) {
	grid, err := decodeGrid(schedule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode schedule")
	}
	views := make([]dto.ScheduleEntryView, 0, grid.Len())
	for key, entry := range grid.Entries() {
		label, _ := timetable.LabelAt(key.Index)
		views = append(views, dto.ScheduleEntryView{
			DocKey:            key.String(),
			Day:               key.Day.String(),
			StartTime:         label,
			EndTime:           entry.EndTime,
			Subject:           entry.Subject,
			DurationSlots:     entry.DurationSlots,
			Room:              entry.Room,
			Professor:         entry.Professor,
			SubstituteTeacher: entry.Substitute,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Day != views[j].Day {
			di, _ := timetable.ParseDay(views[i].Day)
			dj, _ := timetable.ParseDay(views[j].Day)
			return di < dj
		}
		ii, _ := timetable.IndexOf(views[i].StartTime)
		ij, _ := timetable.IndexOf(views[j].StartTime)
		return ii < ij
	})
	return &dto.ScheduleResponse{
		ID:          schedule.ID,
		SectionName: schedule.SectionName,
		Program:     schedule.Program,
		YearLevel:   schedule.YearLevel,
		Semester:    schedule.Semester,
		SchoolYear:  schedule.SchoolYear,
		Status:      schedule.Status,
		Entries:     views,
		UpdatedAt:   schedule.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

func (s *ScheduleEditorService) emitAudit(ctx context.Context, action string, schedule *models.SectionSchedule) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"sectionName": schedule.SectionName,
		"semester":    schedule.Semester,
		"schoolYear":  schedule.SchoolYear,
		"status":      schedule.Status,
	})
	log := &models.AuditLog{
		Action:     action,
		Resource:   "section_schedule",
		ResourceID: &schedule.ID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "schedule-editor",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record schedule audit", zap.Error(err))
	}
}
