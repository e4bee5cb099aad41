package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Hanoi -> Ho Chi Minh City, roughly 1140 km
	d := HaversineKm(21.0285, 105.8542, 10.8231, 106.6297)
	assert.InDelta(t, 1140, d, 15)

	assert.InDelta(t, 0, HaversineKm(10, 10, 10, 10), 1e-9)
}

func TestWithin(t *testing.T) {
	center := Point{Lat: 10.7769, Lng: 106.7009}
	near := Point{Lat: 10.7800, Lng: 106.7000}
	far := Point{Lat: 10.9000, Lng: 106.9000}

	assert.True(t, Within(center, near, 1))
	assert.False(t, Within(center, far, 5))
}

func TestValidLatLng(t *testing.T) {
	assert.True(t, ValidLatLng(-90, 180))
	assert.False(t, ValidLatLng(91, 0))
	assert.False(t, ValidLatLng(0, -181))
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	center := Point{Lat: 10.7769, Lng: 106.7009}
	box := BoundingBox(center, 10)

	// Points 10 km due north and due east sit on the box edge or inside it.
	north := Point{Lat: center.Lat + 10/EarthRadiusKm*180/3.141592653589793, Lng: center.Lng}
	assert.InDelta(t, box.MaxLat, north.Lat, 1e-9)
	assert.Less(t, box.MinLng, center.Lng-0.09)
	assert.Greater(t, box.MaxLng, center.Lng+0.09)

	polar := BoundingBox(Point{Lat: 89.99, Lng: 0}, 50)
	assert.Equal(t, -180.0, polar.MinLng)
	assert.Equal(t, 90.0, polar.MaxLat)
}
