// Package geo provides geographic point types and the local flat-Earth
// approximations used to turn metric ground offsets into coordinate deltas.
package geo

import (
	"errors"
	"math"
)

const (
	// EarthRadius is the WGS84 equatorial radius in meters.
	EarthRadius = 6378137.0

	// MetersPerDegree is the length of one degree of latitude in meters,
	// 2*pi*EarthRadius / 360 rounded to the conventional value.
	MetersPerDegree = 111320.0

	// MaxLatitude is the latitude beyond which the equirectangular
	// approximation degenerates (cos(lat) denominator near zero).
	MaxLatitude = 89.9
)

// ErrPolarSingularity is returned when a coordinate conversion is requested
// closer to a pole than MaxLatitude allows.
var ErrPolarSingularity = errors.New("latitude too close to pole for flat-earth approximation")

// Point is a geographic coordinate in degrees. Elevation is set only by
// terrain-aware conversions.
type Point struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"` // meters, MSL
}

// Offset shifts origin by the given metric offsets using a local
// equirectangular approximation. East and north are in meters, axes per the
// ENU world frame.
func Offset(origin Point, eastMeters, northMeters float64) (Point, error) {
	if math.Abs(origin.Latitude) > MaxLatitude {
		return Point{}, ErrPolarSingularity
	}

	deltaLat := northMeters / MetersPerDegree
	deltaLon := eastMeters / (MetersPerDegree * math.Cos(origin.Latitude*math.Pi/180))

	return Point{
		Latitude:  origin.Latitude + deltaLat,
		Longitude: origin.Longitude + deltaLon,
	}, nil
}

// CloseRing appends the first point to the end of the sequence when it is not
// already closed. Rings shorter than three points are returned unchanged.
func CloseRing(points []Point) []Point {
	if len(points) < 3 {
		return points
	}

	first, last := points[0], points[len(points)-1]
	if first.Latitude == last.Latitude && first.Longitude == last.Longitude {
		return points
	}
	return append(points, first)
}

// RingArea returns the planar area of a closed or open ring in square meters,
// computed with the shoelace formula on an equirectangular projection
// centered on the first vertex. Adequate for single-annotation extents.
func RingArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	origin := points[0]
	cosLat := math.Cos(origin.Latitude * math.Pi / 180)

	// project to meters relative to the first vertex
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = (p.Longitude - origin.Longitude) * MetersPerDegree * cosLat
		ys[i] = (p.Latitude - origin.Latitude) * MetersPerDegree
	}

	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += xs[i]*ys[j] - xs[j]*ys[i]
	}
	return math.Abs(sum) / 2
}
