// Package terrain provides the elevation model consumed by terrain-aware
// projection: a queryable surface raster (DSM) plus altitude reference
// helpers. The projector only samples the model; loading and caching belong
// to whoever owns the raster.
package terrain

import "github.com/westphae/geomag/pkg/egm96"

// ElevationModel is a queryable elevation surface. ElevationAt returns the
// surface elevation in meters MSL at the given coordinate, or ok=false when
// the model has no data there.
//
// Implementations may be backed by network or disk I/O; callers wrap
// terrain-aware projection with their own timeout policy.
type ElevationModel interface {
	ElevationAt(latitude, longitude float64) (meters float64, ok bool)
}

// MSLAltitude converts a WGS84 ellipsoidal altitude to height above mean sea
// level using the EGM96 geoid, so camera altitudes from GPS can be compared
// against DSM elevations. On lookup failure the ellipsoidal value is
// returned unchanged; the geoid undulation is bounded (±~100 m) and a raw
// value beats no value for a fallback estimate.
func MSLAltitude(latitude, longitude, ellipsoidalMeters float64) float64 {
	loc := egm96.NewLocationGeodetic(latitude, longitude, ellipsoidalMeters)
	msl, err := loc.HeightAboveMSL()
	if err != nil {
		return ellipsoidalMeters
	}
	return msl
}
