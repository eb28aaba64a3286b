package models

import (
	"time"

	uuid "github.com/twinj/uuid"
	"gorm.io/gorm"

	"greenlens/geo"
)

// Route An administrator-curated, ordered sequence of captured images.
// Each stop carries its own coordinate snapshot taken at creation time, so
// the image id sequence and the coordinate sequence are parallel by
// construction and later image edits never reshape an existing route.
// Routes are immutable once created.
type Route struct {
	ID        string      `json:"id" gorm:"primaryKey;type:text"`
	Name      string      `json:"name"`
	Stops     []RouteStop `json:"stops" gorm:"foreignKey:RouteID"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
}

// RouteStop One image reference within a route, at a fixed position.
type RouteStop struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	RouteID   string  `json:"-" gorm:"index"`
	Position  int     `json:"position"`
	ImageID   string  `json:"image_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewV4().String()
	}
	return nil
}

// ImageIDs The stop image ids in stop order.
func (r *Route) ImageIDs() []string {
	ids := make([]string, 0, len(r.Stops))
	for _, stop := range r.Stops {
		ids = append(ids, stop.ImageID)
	}
	return ids
}

// Coordinates The coordinate snapshot in stop order.
func (r *Route) Coordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(r.Stops))
	for _, stop := range r.Stops {
		coords = append(coords, geo.Coordinate{Latitude: stop.Latitude, Longitude: stop.Longitude})
	}
	return coords
}

// NewRoute Build a route from the given images in the given order,
// snapshotting each image's coordinates into the stops.
func NewRoute(name string, images []Image) Route {
	route := Route{Name: name}
	for position, image := range images {
		route.Stops = append(route.Stops, RouteStop{
			Position:  position,
			ImageID:   image.ID,
			Latitude:  image.Latitude,
			Longitude: image.Longitude,
		})
	}
	return route
}
