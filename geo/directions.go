// Package geo holds the coordinate type shared across the service, the
// turn-by-turn navigation URL builder and an R-Tree index for spatial
// queries over captured images.
package geo

import (
	"errors"
	"strconv"
	"strings"
)

// Coordinate A geographic position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String Format as "lat,lng" at full float64 precision, the form the
// external directions service expects for a path segment.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) +
		"," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ErrTooFewPoints Returned when a point sequence cannot define a route with
// an origin and a destination.
var ErrTooFewPoints = errors.New("a route needs at least two points")

// BuildNavigationURL Compose a directions URL from an ordered coordinate
// sequence: first point is the origin, last is the destination, everything
// in between becomes an intermediate waypoint in order. Waypoints are joined
// with "|" inside a single path segment; the segment is omitted entirely
// when there are exactly two points. The function is pure and deterministic.
func BuildNavigationURL(baseURL string, points []Coordinate) (string, error) {
	if len(points) < 2 {
		return "", ErrTooFewPoints
	}

	formatted := make([]string, len(points))
	for i, p := range points {
		formatted[i] = p.String()
	}

	origin := formatted[0]
	destination := formatted[len(formatted)-1]
	waypoints := strings.Join(formatted[1:len(formatted)-1], "|")

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(baseURL, "/"))
	b.WriteString("/")
	b.WriteString(origin)
	b.WriteString("/")
	if waypoints != "" {
		b.WriteString(waypoints)
		b.WriteString("/")
	}
	b.WriteString(destination)

	return b.String(), nil
}
