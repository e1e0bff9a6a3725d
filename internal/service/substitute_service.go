package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	"github.com/noah-isme/arms-api/internal/timetable"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

type substituteHistoryStore interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, record *models.SubstituteRecord) error
	List(ctx context.Context, filter models.SubstituteFilter) ([]models.SubstituteRecord, int, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// SubstituteService manages substitute overlays: assigning a stand-in for an
// anchored block, clearing the overlay, and the append-only history the
// clearing step feeds. While an overlay is active the substitute, not the
// original professor, holds the hours in every conflict scan.
type SubstituteService struct {
	schedules scheduleStore
	history   substituteHistoryStore
	faculty   facultyReader
	views     viewInvalidator
	audit     auditLogger
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubstituteService builds a SubstituteService with sane defaults.
func NewSubstituteService(
	schedules scheduleStore,
	history substituteHistoryStore,
	faculty facultyReader,
	views viewInvalidator,
	audit auditLogger,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *SubstituteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstituteService{
		schedules: schedules,
		history:   history,
		faculty:   faculty,
		views:     views,
		audit:     audit,
		tx:        tx,
		validator: validate,
		logger:    logger,
	}
}

// Assign overlays a substitute on the anchored block. The stand-in is held to
// the same bar as the original assignment: an active faculty record, qualified
// for the subject, and free for the block's span with non-teaching hours
// counted as occupied time.
func (s *SubstituteService) Assign(ctx context.Context, scheduleID string, req dto.AssignSubstituteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitute payload")
	}
	schedule, key, grid, entry, err := s.anchor(ctx, scheduleID, req.DocKey)
	if err != nil {
		return err
	}
	if entry.Professor == "" {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "block has no professor to substitute for")
	}
	if timetable.NormalizeProfessor(req.Substitute) == timetable.NormalizeProfessor(entry.Professor) {
		return appErrors.Clone(appErrors.ErrValidation, "substitute matches the assigned professor")
	}
	if err := s.checkSubstitute(ctx, schedule, key, entry, req.Substitute); err != nil {
		return err
	}

	grid.Update(key, func(e *timetable.Entry) { e.Substitute = req.Substitute })
	return s.persist(ctx, schedule, grid)
}

func (s *SubstituteService) checkSubstitute(ctx context.Context, schedule *models.SectionSchedule, key timetable.SlotKey, entry timetable.Entry, substitute string) error {
	faculty, err := s.faculty.FindByName(ctx, substitute)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "substitute not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitute")
	}
	if !faculty.Active {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "substitute is inactive")
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
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "substitute is not qualified for this subject")
	}

	live, err := s.schedules.ListLive(ctx, schedule.Semester, schedule.SchoolYear)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load live schedules")
	}
	views := liveViews(live)
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
	if timetable.HasConflict(timetable.ResourceProfessor, substitute, key.Day, key.Index, entry.DurationSlots, views, exclude) {
		return appErrors.Clone(appErrors.ErrConflict, "substitute is teaching elsewhere during this time")
	}
	return nil
}

// Clear removes the overlay and archives the stint. The history insert and
// the document update commit together: a cleared overlay always leaves a
// trace, and a failed trace never loses the overlay.
func (s *SubstituteService) Clear(ctx context.Context, scheduleID string, req dto.ClearSubstituteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitute payload")
	}
	schedule, key, grid, entry, err := s.anchor(ctx, scheduleID, req.DocKey)
	if err != nil {
		return err
	}
	if entry.Substitute == "" {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "no substitute assigned to this block")
	}

	record := s.record(schedule, key, entry)
	grid.Update(key, func(e *timetable.Entry) { e.Substitute = "" })
	if err := encodeGrid(schedule, grid); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.history.Insert(ctx, tx, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive substitute stint")
	}
	if err = s.schedules.UpdateDocuments(ctx, tx, schedule.ID, schedule.ScheduleMap, schedule.ProfessorAssignments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit substitute archive")
	}

	s.emitAudit(ctx, schedule, record)
	if s.views != nil {
		s.views.InvalidateViews(ctx, schedule.Semester, schedule.SchoolYear)
	}
	return nil
}

// History lists archived substitute stints, newest first.
func (s *SubstituteService) History(ctx context.Context, query dto.SubstituteHistoryQuery) ([]dto.SubstituteHistoryEntry, int, error) {
	records, total, err := s.history.List(ctx, models.SubstituteFilter{
		ScheduleID: query.ScheduleID,
		Section:    query.Section,
		Professor:  query.Professor,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list substitute history")
	}
	entries := make([]dto.SubstituteHistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, dto.SubstituteHistoryEntry{
			ID:                record.ID,
			ScheduleID:        record.ScheduleID,
			Section:           record.Section,
			Program:           record.Program,
			Day:               record.Day,
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			Subject:           record.Subject,
			OriginalProfessor: record.OriginalProfessor,
			SubstituteTeacher: record.SubstituteTeacher,
			ArchivedAt:        record.ArchivedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return entries, total, nil
}

func (s *SubstituteService) anchor(ctx context.Context, scheduleID, rawKey string) (*models.SectionSchedule, timetable.SlotKey, *timetable.Grid, timetable.Entry, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if schedule.Status == models.ScheduleStatusArchived {
		return nil, timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.ErrScheduleLocked
	}
	key, err := timetable.ParseSlotKey(rawKey)
	if err != nil {
		return nil, timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	grid, err := decodeGrid(schedule)
	if err != nil {
		return nil, timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode schedule")
	}
	entry, ok := grid.At(key)
	if !ok {
		return nil, timetable.SlotKey{}, nil, timetable.Entry{}, appErrors.Clone(appErrors.ErrNotFound, "no block anchored at this cell")
	}
	return schedule, key, grid, entry, nil
}

func (s *SubstituteService) record(schedule *models.SectionSchedule, key timetable.SlotKey, entry timetable.Entry) *models.SubstituteRecord {
	startLabel, _ := timetable.LabelAt(key.Index)
	return &models.SubstituteRecord{
		ScheduleID:        schedule.ID,
		DocKey:            key.String(),
		Section:           schedule.SectionName,
		Program:           schedule.Program,
		Day:               key.Day.String(),
		StartTime:         startLabel,
		EndTime:           entry.EndTime,
		Subject:           entry.Subject,
		OriginalProfessor: entry.Professor,
		SubstituteTeacher: entry.Substitute,
	}
}

func (s *SubstituteService) persist(ctx context.Context, schedule *models.SectionSchedule, grid *timetable.Grid) error {
	if err := encodeGrid(schedule, grid); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule")
	}
	if err := s.schedules.UpdateDocuments(ctx, nil, schedule.ID, schedule.ScheduleMap, schedule.ProfessorAssignments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	if s.views != nil {
		s.views.InvalidateViews(ctx, schedule.Semester, schedule.SchoolYear)
	}
	return nil
}

func (s *SubstituteService) emitAudit(ctx context.Context, schedule *models.SectionSchedule, record *models.SubstituteRecord) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     models.AuditActionSubstituteArchive,
		Resource:   "substitute_history",
		ResourceID: &record.ID,
		IPAddress:  "system",
		UserAgent:  "substitute-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record substitute audit", zap.Error(err))
	}
}
