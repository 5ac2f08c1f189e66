package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedView persists a user's sort, filters and page size for one dashboard table.
type SavedView struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey"        json:"id"`
	UserID    int64     `gorm:"not null"                           json:"-"`
	Table     string    `gorm:"column:table_name;not null"         json:"table"`
	Name      string    `gorm:"not null"                           json:"name"`
	Sort      string    `gorm:"not null;default:''"                json:"sort"`
	Filters   string    `gorm:"type:text;not null;default:'{}'"    json:"-"`
	PageSize  int       `gorm:"not null;default:10"                json:"page_size"`
	CreatedAt time.Time `                                          json:"created_at"`
	UpdatedAt time.Time `                                          json:"updated_at"`
}

func (v *SavedView) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type SavedViewResponse struct {
	SavedView
	Filters map[string][]string `json:"filters"`
}

type SavedViewCreateBody struct {
	Table    string              `json:"table"     validate:"required,oneof=sharers viewers batches documents files"`
	Name     string              `json:"name"      validate:"required,max=100"`
	Sort     string              `json:"sort"      validate:"omitempty,max=128"`
	Filters  map[string][]string `json:"filters"   validate:"omitempty,max=50"`
	PageSize int                 `json:"page_size" validate:"omitempty,gte=1,lte=500"`
}

type SavedViewQueryParams struct {
	Table string `json:"table" validate:"omitempty,oneof=sharers viewers batches documents files"`
}
