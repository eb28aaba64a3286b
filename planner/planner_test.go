package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	uuid "github.com/twinj/uuid"

	"greenlens/geo"
	"greenlens/models"
)

var testView = Viewport{
	Center: geo.Coordinate{Latitude: 20.5937, Longitude: 78.9629},
	Zoom:   5,
}

const testActiveZoom = 13

func testImage(lat, lng float64) models.Image {
	return models.Image{
		ID:        uuid.NewV4().String(),
		Latitude:  lat,
		Longitude: lng,
	}
}

// recordingSave counts persisted routes and hands back a stored-looking record.
func recordingSave(calls *int) SaveFunc {
	return func(name string, images []models.Image) (models.Route, error) {
		*calls++
		route := models.NewRoute(name, images)
		route.ID = uuid.NewV4().String()
		return route, nil
	}
}

func TestToggleSelectTwiceRestoresEmptySelection(t *testing.T) {
	img := testImage(10, 20)
	p := New([]models.Image{img}, nil, testView, testActiveZoom, recordingSave(new(int)))

	require.NoError(t, p.ToggleSelect(img.ID))
	assert.Equal(t, []string{img.ID}, p.State().SelectedImageIDs)

	require.NoError(t, p.ToggleSelect(img.ID))
	assert.Empty(t, p.State().SelectedImageIDs)
}

func TestToggleSelectUnknownImage(t *testing.T) {
	p := New(nil, nil, testView, testActiveZoom, recordingSave(new(int)))
	assert.ErrorIs(t, p.ToggleSelect("missing"), ErrUnknownImage)
}

func TestSaveRouteEmptyNameWritesNothing(t *testing.T) {
	a, b := testImage(10, 20), testImage(30, 40)
	calls := 0
	p := New([]models.Image{a, b}, nil, testView, testActiveZoom, recordingSave(&calls))

	require.NoError(t, p.ToggleSelect(a.ID))
	require.NoError(t, p.ToggleSelect(b.ID))

	_, err := p.SaveRoute("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Zero(t, calls)
	// Selection survives a failed save.
	assert.Equal(t, []string{a.ID, b.ID}, p.State().SelectedImageIDs)
}

func TestSaveRouteSingleImageWritesNothing(t *testing.T) {
	a := testImage(10, 20)
	calls := 0
	p := New([]models.Image{a}, nil, testView, testActiveZoom, recordingSave(&calls))

	require.NoError(t, p.ToggleSelect(a.ID))

	_, err := p.SaveRoute("Trail 1")
	assert.ErrorIs(t, err, ErrTooFewStops)
	assert.Zero(t, calls)
}

func TestSaveRoutePreservesSelectionOrder(t *testing.T) {
	a, b, c := testImage(10, 20), testImage(30, 40), testImage(50, 60)
	calls := 0
	p := New([]models.Image{a, b, c}, nil, testView, testActiveZoom, recordingSave(&calls))

	// Select out of listing order on purpose.
	require.NoError(t, p.ToggleSelect(c.ID))
	require.NoError(t, p.ToggleSelect(a.ID))

	route, err := p.SaveRoute("Trail 1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{c.ID, a.ID}, route.ImageIDs())
	assert.Equal(t, []geo.Coordinate{{Latitude: 50, Longitude: 60}, {Latitude: 10, Longitude: 20}}, route.Coordinates())

	// The new route is prepended and the session cleared.
	state := p.State()
	require.NotEmpty(t, state.Routes)
	assert.Equal(t, route.ID, state.Routes[0].ID)
	assert.Empty(t, state.SelectedImageIDs)
	assert.Empty(t, state.ViewingRouteID)
}

func TestSaveRoutePropagatesStoreFailure(t *testing.T) {
	a, b := testImage(10, 20), testImage(30, 40)
	boom := errors.New("store down")
	p := New([]models.Image{a, b}, nil, testView, testActiveZoom,
		func(string, []models.Image) (models.Route, error) { return models.Route{}, boom })

	require.NoError(t, p.ToggleSelect(a.ID))
	require.NoError(t, p.ToggleSelect(b.ID))

	_, err := p.SaveRoute("Trail 1")
	assert.ErrorIs(t, err, boom)
	// Prior state unchanged on a transport failure.
	assert.Equal(t, []string{a.ID, b.ID}, p.State().SelectedImageIDs)
	assert.Empty(t, p.State().Routes)
}

func TestLoadRouteClearsSelectionAndUnknownIsNoop(t *testing.T) {
	a, b := testImage(10, 20), testImage(30, 40)
	saved := models.NewRoute("Trail 1", []models.Image{a, b})
	saved.ID = "route-1"
	p := New([]models.Image{a, b}, []models.Route{saved}, testView, testActiveZoom, recordingSave(new(int)))

	require.NoError(t, p.ToggleSelect(a.ID))

	p.LoadRoute("route-1")
	state := p.State()
	assert.Equal(t, "route-1", state.ViewingRouteID)
	assert.Empty(t, state.SelectedImageIDs)

	p.LoadRoute("no-such-route")
	assert.Equal(t, "route-1", p.State().ViewingRouteID)
}

func TestToggleSelectLeavesViewingMode(t *testing.T) {
	a, b := testImage(10, 20), testImage(30, 40)
	saved := models.NewRoute("Trail 1", []models.Image{a, b})
	saved.ID = "route-1"
	p := New([]models.Image{a, b}, []models.Route{saved}, testView, testActiveZoom, recordingSave(new(int)))

	p.LoadRoute("route-1")
	require.NoError(t, p.ToggleSelect(a.ID))

	state := p.State()
	assert.Empty(t, state.ViewingRouteID)
	assert.Equal(t, []string{a.ID}, state.SelectedImageIDs)
}

func TestActivePolylineModes(t *testing.T) {
	a, b := testImage(10, 20), testImage(30, 40)
	saved := models.NewRoute("Trail 1", []models.Image{a, b})
	saved.ID = "route-1"
	p := New([]models.Image{a, b}, []models.Route{saved}, testView, testActiveZoom, recordingSave(new(int)))

	// Empty session: no polyline.
	assert.Empty(t, p.State().Polyline)

	// One selection is not a path yet.
	require.NoError(t, p.ToggleSelect(a.ID))
	assert.Empty(t, p.State().Polyline)

	// Two selections form the selection polyline in selection order.
	require.NoError(t, p.ToggleSelect(b.ID))
	assert.Equal(t, []geo.Coordinate{{Latitude: 10, Longitude: 20}, {Latitude: 30, Longitude: 40}}, p.State().Polyline)

	// Viewing a saved route shows its snapshot.
	p.LoadRoute("route-1")
	assert.Equal(t, saved.Coordinates(), p.State().Polyline)
}

func TestActiveMarkersDropUnknownRouteImages(t *testing.T) {
	a, b := testImage(10, 20), testImage(30, 40)
	ghost := testImage(50, 60)
	saved := models.NewRoute("Trail 1", []models.Image{a, ghost, b})
	saved.ID = "route-1"

	// ghost is referenced by the route but no longer among the known images.
	p := New([]models.Image{a, b}, []models.Route{saved}, testView, testActiveZoom, recordingSave(new(int)))

	// No route active: every known image is a marker.
	markers := p.State().Markers
	require.Len(t, markers, 2)

	p.LoadRoute("route-1")
	markers = p.State().Markers
	require.Len(t, markers, 2)
	assert.Equal(t, a.ID, markers[0].ID)
	assert.Equal(t, b.ID, markers[1].ID)
}

func TestViewportFollowsActivePolyline(t *testing.T) {
	a, b := testImage(10, 20), testImage(30, 40)
	p := New([]models.Image{a, b}, nil, testView, testActiveZoom, recordingSave(new(int)))

	// Idle: default center and zoom.
	assert.Equal(t, testView, p.State().Viewport)

	// A single selection zooms in but keeps the default center: there is no
	// polyline to focus on yet.
	require.NoError(t, p.ToggleSelect(a.ID))
	view := p.State().Viewport
	assert.Equal(t, testView.Center, view.Center)
	assert.Equal(t, testActiveZoom, view.Zoom)

	// A full path centers on its first point.
	require.NoError(t, p.ToggleSelect(b.ID))
	view = p.State().Viewport
	assert.Equal(t, geo.Coordinate{Latitude: 10, Longitude: 20}, view.Center)
	assert.Equal(t, testActiveZoom, view.Zoom)
}

func TestStoreCreatesSessionPerUser(t *testing.T) {
	created := 0
	store := NewStore(func() (*Planner, error) {
		created++
		return New(nil, nil, testView, testActiveZoom, recordingSave(new(int))), nil
	})

	first, err := store.Get("admin-1")
	require.NoError(t, err)
	again, err := store.Get("admin-1")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, created)

	_, err = store.Get("admin-2")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	store.Drop("admin-1")
	_, err = store.Get("admin-1")
	require.NoError(t, err)
	assert.Equal(t, 3, created)
}
