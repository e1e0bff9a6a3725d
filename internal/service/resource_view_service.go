package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/timetable"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

const resourceViewTTL = 5 * time.Minute

// ResourceViewService serves the derived room and professor week views.
// Views are computed on demand from the live schedule set and cached; every
// schedule write invalidates the semester's cached views, so the derived data
// can lag but never drift.
type ResourceViewService struct {
	schedules scheduleStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResourceViewService builds a ResourceViewService with sane defaults.
func NewResourceViewService(schedules scheduleStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ResourceViewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceViewService{schedules: schedules, cache: cache, validator: validate, logger: logger}
}

// ByRoom groups every live placement by room.
func (s *ResourceViewService) ByRoom(ctx context.Context, query dto.ResourceViewQuery) (*dto.ResourceViewResponse, error) {
	return s.view(ctx, query, "room", timetable.DeriveByRoom)
}

// ByProfessor groups every live placement by the occupying professor,
// honoring substitute overlays.
func (s *ResourceViewService) ByProfessor(ctx context.Context, query dto.ResourceViewQuery) (*dto.ResourceViewResponse, error) {
	return s.view(ctx, query, "professor", timetable.DeriveByProfessor)
}

// InvalidateViews drops the cached views for one semester. Called by every
// service that mutates schedule documents.
func (s *ResourceViewService) InvalidateViews(ctx context.Context, semester, schoolYear string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("views:*:%s:%s", semester, schoolYear)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("view cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (s *ResourceViewService) view(ctx context.Context, query dto.ResourceViewQuery, dimension string, derive func([]timetable.ScheduleView) map[string][]timetable.AggregateEntry) (*dto.ResourceViewResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid view query")
	}

	cacheKey := fmt.Sprintf("views:%s:%s:%s", dimension, query.Semester, query.SchoolYear)
	var cached dto.ResourceViewResponse
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	live, err := s.schedules.ListLive(ctx, query.Semester, query.SchoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load live schedules")
	}
	aggregates := derive(liveViews(live))

	response := &dto.ResourceViewResponse{
		Semester:   query.Semester,
		SchoolYear: query.SchoolYear,
		Resources:  make(map[string][]dto.ResourceSlot, len(aggregates)),
	}
	for resource, entries := range aggregates {
		slots := make([]dto.ResourceSlot, 0, len(entries))
		for _, entry := range entries {
			start, _ := timetable.LabelAt(entry.StartIndex)
			slots = append(slots, dto.ResourceSlot{
				Day:        entry.Day.String(),
				StartTime:  start,
				EndTime:    timetable.EndLabel(start, entry.DurationSlots),
				Subject:    entry.Subject,
				Section:    entry.Section,
				ScheduleID: entry.ScheduleID,
				Room:       entry.Room,
				Professor:  entry.Professor,
			})
		}
		response.Resources[resource] = slots
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response, resourceViewTTL); err != nil {
			s.logger.Warn("view cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return response, nil
}
