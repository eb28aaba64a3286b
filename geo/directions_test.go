package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://www.google.com/maps/dir/"

func TestBuildNavigationURLThreePoints(t *testing.T) {
	points := []Coordinate{
		{Latitude: 10, Longitude: 20},
		{Latitude: 30, Longitude: 40},
		{Latitude: 50, Longitude: 60},
	}

	url, err := BuildNavigationURL(base, points)
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/maps/dir/10,20/30,40/50,60", url)
}

func TestBuildNavigationURLTwoPointsHasNoWaypointSegment(t *testing.T) {
	points := []Coordinate{
		{Latitude: 10, Longitude: 20},
		{Latitude: 50, Longitude: 60},
	}

	url, err := BuildNavigationURL(base, points)
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/maps/dir/10,20/50,60", url)
}

func TestBuildNavigationURLJoinsWaypointsWithPipe(t *testing.T) {
	points := []Coordinate{
		{Latitude: 1, Longitude: 2},
		{Latitude: 3, Longitude: 4},
		{Latitude: 5, Longitude: 6},
		{Latitude: 7, Longitude: 8},
	}

	url, err := BuildNavigationURL(base, points)
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/maps/dir/1,2/3,4|5,6/7,8", url)
}

func TestBuildNavigationURLKeepsFullPrecision(t *testing.T) {
	points := []Coordinate{
		{Latitude: 9.931232999999999, Longitude: 76.26730311111111},
		{Latitude: 10.008765432101234, Longitude: 76.36198712345678},
	}

	url, err := BuildNavigationURL(base, points)
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/maps/dir/9.931232999999999,76.26730311111111/10.008765432101234,76.36198712345678", url)
}

func TestBuildNavigationURLTooFewPoints(t *testing.T) {
	_, err := BuildNavigationURL(base, nil)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = BuildNavigationURL(base, []Coordinate{{Latitude: 10, Longitude: 20}})
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestBuildNavigationURLIsDeterministic(t *testing.T) {
	points := []Coordinate{
		{Latitude: 10.5, Longitude: 20.25},
		{Latitude: 30.125, Longitude: 40.0625},
		{Latitude: 50, Longitude: 60},
	}

	first, err := BuildNavigationURL(base, points)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildNavigationURL(base, points)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
