package location

import "math"

// EarthRadiusKm is the mean Earth radius used by HaversineKm.
const EarthRadiusKm = 6371.0

// Point is a coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	phi1, phi2 := rad(lat1), rad(lat2)
	dPhi := rad(lat2 - lat1)
	dLambda := rad(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Within reports whether p lies inside radiusKm of center.
func Within(center, p Point, radiusKm float64) bool {
	return HaversineKm(center.Lat, center.Lng, p.Lat, p.Lng) <= radiusKm
}

// ValidLatLng checks coordinate ranges.
func ValidLatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Box is a lat/lng rectangle that contains every point within a radius.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns a conservative box around center for a SQL prefilter.
// Longitude is left unbounded near the poles.
func BoundingBox(center Point, radiusKm float64) Box {
	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi
	box := Box{
		MinLat: math.Max(center.Lat-dLat, -90),
		MaxLat: math.Min(center.Lat+dLat, 90),
		MinLng: -180,
		MaxLng: 180,
	}

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat > 0.01 {
		dLng := dLat / cosLat
		if dLng < 180 {
			box.MinLng = center.Lng - dLng
			box.MaxLng = center.Lng + dLng
		}
	}
	return box
}
