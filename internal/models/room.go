package models

import "time"

// RoomCategory partitions the room inventory: lecture rooms, laboratories
// and the fixed physical-education subset.
type RoomCategory string

const (
	RoomCategoryLecture    RoomCategory = "LECTURE"
	RoomCategoryLaboratory RoomCategory = "LABORATORY"
	RoomCategoryPE         RoomCategory = "PE"
)

// Room is one bookable room. Name is the identity schedule entries join on.
type Room struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Category  RoomCategory `db:"category" json:"category"`
	Capacity  int          `db:"capacity" json:"capacity"`
	Active    bool         `db:"active" json:"active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// RoomFilter describes query params for listing rooms.
type RoomFilter struct {
	Category  string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
