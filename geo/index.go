package geo

import (
	"math"
	"sync"

	"github.com/dhconnelly/rtreego"
)

const (
	tolerance   = 0.01
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
	earthRadius = 6371.0 // km
)

// spatialItem wraps an indexed id for R-Tree storage
type spatialItem struct {
	id    string
	coord Coordinate
	rect  *rtreego.Rect
}

func (si *spatialItem) Bounds() *rtreego.Rect {
	return si.rect
}

// Index A thread-safe R-Tree over image capture positions.
type Index struct {
	tree *rtreego.Rtree
	mu   sync.RWMutex
}

// NewIndex Create an empty index.
func NewIndex() *Index {
	return &Index{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
	}
}

// Insert Add a point to the index.
func (ix *Index) Insert(id string, coord Coordinate) {
	point := rtreego.Point{coord.Latitude, coord.Longitude}
	rect := point.ToRect(tolerance)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.tree.Insert(&spatialItem{id: id, coord: coord, rect: rect})
}

// Size Number of indexed points.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.tree.Size()
}

// Within Return the ids of all points within radiusKM of the center.
// The R-Tree narrows candidates with a bounding box, then each candidate is
// confirmed with the haversine distance.
func (ix *Index) Within(center Coordinate, radiusKM float64) []string {
	latDelta := radiusKM / 111.0
	lonDelta := latDelta
	if cosLat := math.Cos(center.Latitude * math.Pi / 180.0); cosLat > 0.01 {
		lonDelta = latDelta / cosLat
	}

	bottomLeft := rtreego.Point{center.Latitude - latDelta, center.Longitude - lonDelta}
	lengths := []float64{2 * latDelta, 2 * lonDelta}
	rect, err := rtreego.NewRect(bottomLeft, lengths)
	if err != nil {
		return nil
	}

	ix.mu.RLock()
	candidates := ix.tree.SearchIntersect(rect)
	ix.mu.RUnlock()

	var ids []string
	for _, candidate := range candidates {
		item := candidate.(*spatialItem)
		if Distance(center, item.coord) <= radiusKM {
			ids = append(ids, item.id)
		}
	}
	return ids
}

// Distance Great-circle distance between two coordinates in kilometers.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180.0
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
