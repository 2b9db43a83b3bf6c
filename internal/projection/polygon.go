package projection

import (
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
)

// PolygonResult is the geographic form of an annotation polygon.
type PolygonResult struct {
	// Points are the successfully converted vertices in input order, closed
	// by repeating the first point when three or more converted.
	Points []geo.Point

	// Centroid is the arithmetic mean of the converted vertices, nil when
	// none converted.
	Centroid *geo.Point

	// FailedVertices counts vertices that could not be converted.
	FailedVertices int
}

// Georeferenced reports whether at least one vertex converted.
func (r *PolygonResult) Georeferenced() bool {
	return r.Centroid != nil
}

// Degraded reports whether some, but not all, vertices failed.
func (r *PolygonResult) Degraded() bool {
	return r.Georeferenced() && r.FailedVertices > 0
}

// ProjectPolygon converts every vertex of an annotation polygon through the
// projector. A vertex that fails to convert is skipped and counted, never
// aborting the remaining vertices; a result with zero converted vertices is
// the "could not georeference" outcome, distinct from degraded accuracy.
// Degenerate inputs down to a single point are accepted.
func ProjectPolygon(pixels []camera.PixelPoint, pose *camera.Pose, p *Projector) PolygonResult {
	var result PolygonResult
	var sumLat, sumLon float64

	for _, px := range pixels {
		pt, err := p.Resolve(px, pose)
		if err != nil {
			result.FailedVertices++
			continue
		}

		result.Points = append(result.Points, pt)
		sumLat += pt.Latitude
		sumLon += pt.Longitude
	}

	if n := len(result.Points); n > 0 {
		result.Centroid = &geo.Point{
			Latitude:  sumLat / float64(n),
			Longitude: sumLon / float64(n),
		}
	}

	result.Points = geo.CloseRing(result.Points)
	return result
}

// Footprint projects the four image corners, giving the ground footprint of
// the full frame. Used by mission planning and the footprint renderer.
func Footprint(pose *camera.Pose, p *Projector) PolygonResult {
	w, h := float64(pose.ImageWidthPx), float64(pose.ImageHeightPx)
	corners := []camera.PixelPoint{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
	return ProjectPolygon(corners, pose, p)
}
