// Package planner holds the server-side route builder session an
// administrator works in: an insertion-ordered image selection, or a saved
// route being viewed, but never both at once. All derived map state
// (polyline, markers, viewport) is computed from the current mode.
package planner

import (
	"errors"
	"strings"
	"sync"

	"greenlens/geo"
	"greenlens/models"
)

var (
	// ErrEmptyName Route names must be non-empty after trimming whitespace.
	ErrEmptyName = errors.New("route name must not be empty")
	// ErrTooFewStops A route needs at least two stops.
	ErrTooFewStops = errors.New("select at least two images")
	// ErrUnknownImage The image id is not among the known images.
	ErrUnknownImage = errors.New("unknown image")
)

// Viewport The map focal point and zoom the client should render.
type Viewport struct {
	Center geo.Coordinate `json:"center"`
	Zoom   int            `json:"zoom"`
}

// SaveFunc Persists a named route built from the given images in the given
// order and returns the stored record. Injected so the planner itself never
// touches the database.
type SaveFunc func(name string, images []models.Image) (models.Route, error)

// Planner One administrator's route-building session.
type Planner struct {
	mu sync.Mutex

	images []models.Image
	routes []models.Route

	selection []models.Image
	viewing   *models.Route

	defaultView Viewport
	activeZoom  int
	save        SaveFunc
}

// New Create a session over the known images (newest first) and routes
// (newest first).
func New(images []models.Image, routes []models.Route, defaultView Viewport, activeZoom int, save SaveFunc) *Planner {
	return &Planner{
		images:      images,
		routes:      routes,
		defaultView: defaultView,
		activeZoom:  activeZoom,
		save:        save,
	}
}

// ToggleSelect Add the image to the selection if absent, remove it if
// present. Selection order is insertion order: the first selected image is
// the first stop. Selecting anything while viewing a saved route leaves
// viewing mode first.
func (p *Planner) ToggleSelect(imageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	image, ok := p.findImage(imageID)
	if !ok {
		return ErrUnknownImage
	}

	p.viewing = nil

	for i, selected := range p.selection {
		if selected.ID == imageID {
			p.selection = append(p.selection[:i], p.selection[i+1:]...)
			return nil
		}
	}
	p.selection = append(p.selection, image)
	return nil
}

// SaveRoute Persist the current selection as a named route. Validation
// failures happen before any write and leave the session unchanged. On
// success the new route is prepended to the known routes (newest first) and
// the session is cleared.
func (p *Planner) SaveRoute(name string) (models.Route, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return models.Route{}, ErrEmptyName
	}
	if len(p.selection) < 2 {
		return models.Route{}, ErrTooFewStops
	}

	route, err := p.save(strings.TrimSpace(name), p.selection)
	if err != nil {
		return models.Route{}, err
	}

	p.routes = append([]models.Route{route}, p.routes...)
	p.selection = nil
	p.viewing = nil
	return route, nil
}

// LoadRoute Switch into viewing mode for a known route, clearing any
// in-progress selection. An unknown id changes nothing.
func (p *Planner) LoadRoute(routeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.routes {
		if p.routes[i].ID == routeID {
			p.selection = nil
			p.viewing = &p.routes[i]
			return
		}
	}
}

// Clear Reset both selection and viewing mode.
func (p *Planner) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = nil
	p.viewing = nil
}

// State A snapshot of the session and its derived map views.
type State struct {
	SelectedImageIDs []string         `json:"selected_image_ids"`
	ViewingRouteID   string           `json:"viewing_route_id,omitempty"`
	Polyline         []geo.Coordinate `json:"polyline"`
	Markers          []models.Image   `json:"markers"`
	Viewport         Viewport         `json:"viewport"`
	Routes           []models.Route   `json:"routes"`
}

// State Compute the current snapshot.
func (p *Planner) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := State{
		Polyline: p.activePolyline(),
		Markers:  p.activeMarkers(),
		Routes:   p.routes,
	}
	for _, selected := range p.selection {
		state.SelectedImageIDs = append(state.SelectedImageIDs, selected.ID)
	}
	if p.viewing != nil {
		state.ViewingRouteID = p.viewing.ID
	}
	state.Viewport = p.viewport(state.Polyline)
	return state
}

// activePolyline The viewed route's snapshot, else the selection's
// coordinates once it can form a path, else nothing.
func (p *Planner) activePolyline() []geo.Coordinate {
	if p.viewing != nil {
		return p.viewing.Coordinates()
	}
	if len(p.selection) >= 2 {
		coords := make([]geo.Coordinate, 0, len(p.selection))
		for _, image := range p.selection {
			coords = append(coords, image.Coordinate())
		}
		return coords
	}
	return nil
}

// activeMarkers While viewing a route, only its resolvable stops; ids that
// no longer match a known image are dropped, not errored. Otherwise every
// known image is a marker.
func (p *Planner) activeMarkers() []models.Image {
	if p.viewing == nil {
		return p.images
	}
	var markers []models.Image
	for _, id := range p.viewing.ImageIDs() {
		if image, ok := p.findImage(id); ok {
			markers = append(markers, image)
		}
	}
	return markers
}

// viewport Centered on the first polyline point when one exists; zoomed in
// whenever any route or selection is active.
func (p *Planner) viewport(polyline []geo.Coordinate) Viewport {
	view := p.defaultView
	if len(polyline) > 0 {
		view.Center = polyline[0]
	}
	if p.viewing != nil || len(p.selection) > 0 {
		view.Zoom = p.activeZoom
	}
	return view
}

func (p *Planner) findImage(id string) (models.Image, bool) {
	for _, image := range p.images {
		if image.ID == id {
			return image, true
		}
	}
	return models.Image{}, false
}
