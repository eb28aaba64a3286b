package models

import (
	"time"

	uuid "github.com/twinj/uuid"
	"gorm.io/gorm"

	"greenlens/geo"
)

// Image One captured photograph. Created once by the upload flow and never
// updated by its owner afterwards; only the Reviewed flag is mutable, and
// only by an administrator.
type Image struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	OwnerID     string    `json:"owner_id" gorm:"index"`
	AssetURL    string    `json:"asset_url"`
	PublicID    string    `json:"public_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CapturedAt  time.Time `json:"captured_at" gorm:"index"`
	Description string    `json:"description"`
	Reviewed    bool      `json:"reviewed"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewV4().String()
	}
	return nil
}

// Coordinate The image's capture position.
func (i *Image) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: i.Latitude, Longitude: i.Longitude}
}
