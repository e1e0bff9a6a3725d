package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
)

type curriculumStore interface {
	List(ctx context.Context, filter models.CurriculumFilter) ([]models.Curriculum, int, error)
	FindByID(ctx context.Context, id string) (*models.Curriculum, error)
	Create(ctx context.Context, curriculum *models.Curriculum) error
	SetArchived(ctx context.Context, id string, archived bool) error
	ListSubjects(ctx context.Context, curriculumID string) ([]models.CurriculumSubject, error)
	AddSubject(ctx context.Context, subject *models.CurriculumSubject) error
	RemoveSubject(ctx context.Context, subjectID string) error
}

// CurriculumService manages curricula and the subject lists that size
// schedule placements.
type CurriculumService struct {
	repo      curriculumStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurriculumService builds a CurriculumService with sane defaults.
func NewCurriculumService(repo curriculumStore, validate *validator.Validate, logger *zap.Logger) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{repo: repo, validator: validate, logger: logger}
}

// List returns curricula matching the query.
func (s *CurriculumService) List(ctx context.Context, query dto.CurriculumQuery) ([]models.Curriculum, int, error) {
	curricula, total, err := s.repo.List(ctx, models.CurriculumFilter{
		Program:    query.Program,
		Semester:   query.Semester,
		SchoolYear: query.SchoolYear,
		Archived:   query.Archived,
		Page:       query.Page,
		PageSize:   query.PageSize,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curricula")
	}
	return curricula, total, nil
}

// Get returns one curriculum.
func (s *CurriculumService) Get(ctx context.Context, id string) (*models.Curriculum, error) {
	return s.find(ctx, id)
}

// Create registers a curriculum.
func (s *CurriculumService) Create(ctx context.Context, req dto.CreateCurriculumRequest) (*models.Curriculum, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum payload")
	}
	curriculum := &models.Curriculum{
		Program:    req.Program,
		YearLevel:  req.YearLevel,
		Semester:   req.Semester,
		SchoolYear: req.SchoolYear,
	}
	if err := s.repo.Create(ctx, curriculum); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create curriculum")
	}
	return curriculum, nil
}

// SetArchived flips the archival flag. Archived curricula stop feeding new
// section editors but existing schedules are untouched.
func (s *CurriculumService) SetArchived(ctx context.Context, id string, archived bool) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update curriculum")
	}
	return nil
}

// Subjects lists a curriculum's subjects.
func (s *CurriculumService) Subjects(ctx context.Context, id string) ([]models.CurriculumSubject, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	subjects, err := s.repo.ListSubjects(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// AddSubject appends a subject to a curriculum.
func (s *CurriculumService) AddSubject(ctx context.Context, id string, req dto.AddCurriculumSubjectRequest) (*models.CurriculumSubject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	subject := &models.CurriculumSubject{
		CurriculumID:  id,
		CourseCode:    req.CourseCode,
		CourseName:    req.CourseName,
		LecUnits:      req.LecUnits,
		LabUnits:      req.LabUnits,
		IsComputerLab: req.IsComputerLab,
	}
	if err := s.repo.AddSubject(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add subject")
	}
	return subject, nil
}

// RemoveSubject deletes a subject row.
func (s *CurriculumService) RemoveSubject(ctx context.Context, id, subjectID string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.RemoveSubject(ctx, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove subject")
	}
	return nil
}

func (s *CurriculumService) find(ctx context.Context, id string) (*models.Curriculum, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "curriculum id is required")
	}
	curriculum, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}
	return curriculum, nil
}
