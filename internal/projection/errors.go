package projection

import (
	"errors"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
)

var (
	// ErrNoGroundIntersection is returned when the pixel ray points at or
	// above the horizon and cannot meet the ground. Non-retryable; callers
	// surface the annotation as not georeferenceable without failing the
	// surrounding operation.
	ErrNoGroundIntersection = errors.New("ray does not intersect the ground")

	// ErrPolarSingularity is returned when the flat-Earth approximation
	// degenerates near a pole. Effectively unreachable at drone-operation
	// latitudes, but a defined outcome rather than a crash.
	ErrPolarSingularity = geo.ErrPolarSingularity

	// ErrTerrainUnavailable is returned when the elevation model has no data
	// at any sampled point. Recoverable: fall back to flat-ground.
	ErrTerrainUnavailable = errors.New("elevation model has no data at sampled points")

	// ErrNoConvergence is returned when terrain ray-marching exhausts its
	// iteration limit. Recoverable: fall back to flat-ground or the last
	// estimate.
	ErrNoConvergence = errors.New("terrain intersection did not converge")
)

// Recoverable reports whether the caller can retry the conversion with the
// flat-ground variant.
func Recoverable(err error) bool {
	return errors.Is(err, ErrTerrainUnavailable) || errors.Is(err, ErrNoConvergence)
}
