package projection

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/terrain"
)

// intersectTerrain marches the world-space ray against the DSM. The
// flat-ground distance seeds the march; each step re-samples the terrain
// under the current ground estimate and moves the intersection to where the
// ray reaches that elevation, until ray and terrain agree within the
// convergence threshold.
func (p *Projector) intersectTerrain(ray r3.Vec, pose *camera.Pose) (geo.Point, error) {
	origin := geo.Point{Latitude: pose.Latitude, Longitude: pose.Longitude}

	// measured slant distance bypasses intersection entirely; the DSM only
	// contributes the elevation of the resolved point
	if d, ok := pose.SlantDistance(); ok {
		pt, err := geo.Offset(origin, ray.X*d, ray.Y*d)
		if err != nil {
			return geo.Point{}, err
		}
		if g, ok := p.dsm.ElevationAt(pt.Latitude, pt.Longitude); ok {
			pt.Elevation = &g
		}
		return pt, nil
	}

	if ray.Z >= 0 {
		return geo.Point{}, ErrNoGroundIntersection
	}

	camElev, anchored := p.cameraElevation(pose)

	t := pose.AltitudeMeters / -ray.Z
	sampled := false

	for i := 0; i < p.maxIter; i++ {
		pt, err := geo.Offset(origin, ray.X*t, ray.Y*t)
		if err != nil {
			return geo.Point{}, err
		}

		g, ok := p.dsm.ElevationAt(pt.Latitude, pt.Longitude)
		if !ok {
			if !sampled {
				return geo.Point{}, ErrTerrainUnavailable
			}
			// data ran out mid-march; the caller falls back
			return geo.Point{}, ErrNoConvergence
		}
		sampled = true

		if !anchored {
			// no absolute altitude and no data under the camera: anchor the
			// camera on the terrain below the current estimate
			camElev = g + pose.AltitudeMeters
			anchored = true
		}

		rayElev := camElev + t*ray.Z
		if math.Abs(rayElev-g) <= p.convergence {
			pt.Elevation = &g
			return pt, nil
		}

		t = (camElev - g) / -ray.Z
		if t <= 0 {
			// terrain at the estimate sits above the camera
			return geo.Point{}, ErrNoGroundIntersection
		}
	}

	return geo.Point{}, ErrNoConvergence
}

// cameraElevation resolves the camera's MSL elevation for DSM comparison:
// the ellipsoidal altitude (geoid-corrected when configured) when the feed
// provided one, otherwise the terrain under the camera plus the relative
// altitude.
func (p *Projector) cameraElevation(pose *camera.Pose) (float64, bool) {
	if pose.AbsoluteAltitudeMeters != nil {
		if p.geoid {
			return terrain.MSLAltitude(pose.Latitude, pose.Longitude, *pose.AbsoluteAltitudeMeters), true
		}
		return *pose.AbsoluteAltitudeMeters, true
	}

	if g, ok := p.dsm.ElevationAt(pose.Latitude, pose.Longitude); ok {
		return g + pose.AltitudeMeters, true
	}
	return 0, false
}
