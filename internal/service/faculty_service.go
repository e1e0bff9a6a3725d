package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

type facultyStore interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	FindByName(ctx context.Context, professorName string) (*models.Faculty, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Deactivate(ctx context.Context, id string) error
}

// FacultyService manages the professor pool: identity, qualification lists
// and non-teaching calendars.
type FacultyService struct {
	repo      facultyStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService builds a FacultyService with sane defaults.
func NewFacultyService(repo facultyStore, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, validator: validate, logger: logger}
}

// List returns faculty matching the query.
func (s *FacultyService) List(ctx context.Context, query dto.FacultyQuery) ([]dto.FacultyResponse, int, error) {
	faculty, total, err := s.repo.List(ctx, models.FacultyFilter{
		Shift:     query.Shift,
		Active:    query.Active,
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	responses := make([]dto.FacultyResponse, 0, len(faculty))
	for i := range faculty {
		resp, err := s.render(&faculty[i])
		if err != nil {
			s.logger.Warn("skipping faculty with corrupt document", zap.String("id", faculty[i].ID), zap.Error(err))
			continue
		}
		responses = append(responses, *resp)
	}
	return responses, total, nil
}

// Get returns one faculty record.
func (s *FacultyService) Get(ctx context.Context, id string) (*dto.FacultyResponse, error) {
	faculty, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(faculty)
}

// Create registers a professor. Professor names are the join key for schedule
// assignments, so duplicates are refused.
func (s *FacultyService) Create(ctx context.Context, req dto.CreateFacultyRequest) (*dto.FacultyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	if existing, err := s.repo.FindByName(ctx, req.ProfessorName); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "professor name already registered")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check professor name")
	}

	faculty := &models.Faculty{
		ProfessorName: req.ProfessorName,
		Email:         req.Email,
		Shift:         req.Shift,
		Active:        true,
	}
	if err := encodeFacultyDocs(faculty, req.QualifiedCourses, req.NonTeaching); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode faculty documents")
	}
	if err := s.repo.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	return s.render(faculty)
}

// Update replaces a faculty record.
func (s *FacultyService) Update(ctx context.Context, id string, req dto.UpdateFacultyRequest) (*dto.FacultyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	faculty, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	faculty.ProfessorName = req.ProfessorName
	faculty.Email = req.Email
	faculty.Shift = req.Shift
	faculty.Active = req.Active
	if err := encodeFacultyDocs(faculty, req.QualifiedCourses, req.NonTeaching); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode faculty documents")
	}
	if err := s.repo.Update(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}
	return s.render(faculty)
}

// Deactivate removes a professor from the candidate pool. Existing schedule
// assignments keep the name; only future candidacy is affected.
func (s *FacultyService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate faculty")
	}
	return nil
}

func (s *FacultyService) find(ctx context.Context, id string) (*models.Faculty, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "faculty id is required")
	}
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

func (s *FacultyService) render(faculty *models.Faculty) (*dto.FacultyResponse, error) {
	courses, err := faculty.Courses()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode qualifications")
	}
	blocks, err := faculty.NonTeachingBlocks()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode non-teaching assignments")
	}
	return &dto.FacultyResponse{
		ID:               faculty.ID,
		ProfessorName:    faculty.ProfessorName,
		Email:            faculty.Email,
		Shift:            faculty.Shift,
		QualifiedCourses: courses,
		NonTeaching:      blocks,
		Active:           faculty.Active,
	}, nil
}

func encodeFacultyDocs(faculty *models.Faculty, courses []models.QualifiedCourse, blocks []models.NonTeachingAssignment) error {
	if courses == nil {
		courses = []models.QualifiedCourse{}
	}
	if blocks == nil {
		blocks = []models.NonTeachingAssignment{}
	}
	rawCourses, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	rawBlocks, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	faculty.QualifiedCourses = types.JSONText(rawCourses)
	faculty.NonTeaching = types.JSONText(rawBlocks)
	return nil
}
