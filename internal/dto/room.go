package dto

import "github.com/noah-isme/arms-api/internal/models"

// CreateRoomRequest registers a room in the inventory.
type CreateRoomRequest struct {
	Name     string              `json:"name" validate:"required"`
	Category models.RoomCategory `json:"category" validate:"required,oneof=LECTURE LABORATORY PE"`
	Capacity int                 `json:"capacity" validate:"omitempty,min=1"`
}

// UpdateRoomRequest replaces a room record.
type UpdateRoomRequest struct {
	Name     string              `json:"name" validate:"required"`
	Category models.RoomCategory `json:"category" validate:"required,oneof=LECTURE LABORATORY PE"`
	Capacity int                 `json:"capacity" validate:"omitempty,min=1"`
	Active   bool                `json:"active"`
}

// RoomQuery mirrors supported listing filters.
type RoomQuery struct {
	Category  string `form:"category"`
	Active    *bool  `form:"active"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}
