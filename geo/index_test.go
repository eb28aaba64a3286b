package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexWithinRadius(t *testing.T) {
	index := NewIndex()

	center := Coordinate{Latitude: 40.0, Longitude: -74.0}
	index.Insert("center", center)
	index.Insert("near", Coordinate{Latitude: 40.1, Longitude: -74.1})  // ~15km away
	index.Insert("far", Coordinate{Latitude: 41.0, Longitude: -73.0})   // ~140km away

	require.Equal(t, 3, index.Size())

	ids := index.Within(center, 50.0)
	assert.ElementsMatch(t, []string{"center", "near"}, ids)
}

func TestIndexWithinEmpty(t *testing.T) {
	index := NewIndex()
	ids := index.Within(Coordinate{Latitude: 10, Longitude: 10}, 100.0)
	assert.Empty(t, ids)
}

func TestDistance(t *testing.T) {
	kochi := Coordinate{Latitude: 9.9312, Longitude: 76.2673}
	trivandrum := Coordinate{Latitude: 8.5241, Longitude: 76.9366}

	// ~175km apart by great circle.
	d := Distance(kochi, trivandrum)
	assert.InDelta(t, 175.0, d, 10.0)

	assert.Zero(t, Distance(kochi, kochi))
}
