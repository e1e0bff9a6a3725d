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

type roomStore interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Deactivate(ctx context.Context, id string) error
}

// RoomService manages the room inventory. Room names are the conflict join
// key, so they stay unique across the inventory.
type RoomService struct {
	repo      roomStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService builds a RoomService with sane defaults.
func NewRoomService(repo roomStore, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, validator: validate, logger: logger}
}

// List returns rooms matching the query.
func (s *RoomService) List(ctx context.Context, query dto.RoomQuery) ([]models.Room, int, error) {
	rooms, total, err := s.repo.List(ctx, models.RoomFilter{
		Category:  query.Category,
		Active:    query.Active,
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, total, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	return s.find(ctx, id)
}

// Create registers a room.
func (s *RoomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	taken, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room name already registered")
	}

	room := &models.Room{
		Name:     req.Name,
		Category: req.Category,
		Capacity: req.Capacity,
		Active:   true,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// Update replaces a room record.
func (s *RoomService) Update(ctx context.Context, id string, req dto.UpdateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room name already registered")
	}

	room.Name = req.Name
	room.Category = req.Category
	room.Capacity = req.Capacity
	room.Active = req.Active
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	return room, nil
}

// Deactivate removes a room from the selectable pool. Placed entries keep
// the name; only future candidacy is affected.
func (s *RoomService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate room")
	}
	return nil
}

func (s *RoomService) find(ctx context.Context, id string) (*models.Room, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "room id is required")
	}
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}
