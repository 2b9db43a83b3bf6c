// Package projection resolves image pixels to geographic coordinates. It
// composes the camera model and gimbal orientation into a world-space ray
// and intersects that ray with either a flat ground plane or a digital
// surface model, with a laser-rangefinder slant distance overriding the
// computed intersection distance whenever one was measured.
package projection

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/terrain"
)

const (
	// FlatGround intersects the ray with a horizontal plane at the camera's
	// relative altitude below it. The default and the universal fallback.
	FlatGround Variant = iota

	// TerrainAware intersects the ray with a digital surface model, for
	// accuracy over sloped or elevated terrain.
	TerrainAware
)

// Variant selects the ground intersection algorithm.
type Variant int

func (v Variant) String() string {
	switch v {
	case FlatGround:
		return "flat"
	case TerrainAware:
		return "terrain"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

const (
	// DefaultMaxIterations bounds the terrain ray-marching loop.
	DefaultMaxIterations = 20

	// DefaultConvergenceMeters is the elevation agreement below which the
	// terrain intersection is accepted.
	DefaultConvergenceMeters = 0.5
)

// Config configures a Projector.
type Config struct {
	Variant Variant

	// DSM is required for the TerrainAware variant.
	DSM terrain.ElevationModel

	// MaxIterations and ConvergenceMeters tune terrain ray-marching; zero
	// values select the defaults.
	MaxIterations     int
	ConvergenceMeters float64

	// GeoidCorrection converts ellipsoidal camera altitudes to MSL before
	// comparing against DSM elevations. Enabled by default in NewConfig.
	GeoidCorrection bool
}

// NewConfig returns a Config with the default tuning.
func NewConfig(variant Variant) Config {
	return Config{
		Variant:           variant,
		MaxIterations:     DefaultMaxIterations,
		ConvergenceMeters: DefaultConvergenceMeters,
		GeoidCorrection:   true,
	}
}

// Projector converts pixel coordinates to geographic coordinates. It holds
// no cross-call state and is safe for concurrent use.
type Projector struct {
	variant     Variant
	dsm         terrain.ElevationModel
	maxIter     int
	convergence float64
	geoid       bool
}

// New creates a Projector. The TerrainAware variant requires an elevation
// model.
func New(cfg Config) (*Projector, error) {
	if cfg.Variant == TerrainAware && cfg.DSM == nil {
		return nil, fmt.Errorf("%s projector requires an elevation model", TerrainAware)
	}

	p := &Projector{
		variant:     cfg.Variant,
		dsm:         cfg.DSM,
		maxIter:     cfg.MaxIterations,
		convergence: cfg.ConvergenceMeters,
		geoid:       cfg.GeoidCorrection,
	}
	if p.maxIter <= 0 {
		p.maxIter = DefaultMaxIterations
	}
	if p.convergence <= 0 {
		p.convergence = DefaultConvergenceMeters
	}
	return p, nil
}

// Variant returns the configured intersection algorithm.
func (p *Projector) Variant() Variant {
	return p.variant
}

// Project converts a single pixel into a geographic coordinate. The
// terrain-aware variant returns ErrTerrainUnavailable or ErrNoConvergence
// when the DSM cannot resolve the intersection; callers decide whether to
// fall back to flat ground (Resolve does so automatically).
func (p *Projector) Project(pixel camera.PixelPoint, pose *camera.Pose) (geo.Point, error) {
	ray := camera.GroundRay(pixel, pose)

	if p.variant == TerrainAware {
		return p.intersectTerrain(ray, pose)
	}
	return intersectFlat(ray, pose)
}

// Resolve converts a pixel like Project, but recovers from terrain lookup
// failures by falling back to the flat-ground result.
func (p *Projector) Resolve(pixel camera.PixelPoint, pose *camera.Pose) (geo.Point, error) {
	pt, err := p.Project(pixel, pose)
	if err != nil && Recoverable(err) {
		return intersectFlat(camera.GroundRay(pixel, pose), pose)
	}
	return pt, err
}

// PixelToGeo is the simple path: flat-ground projection of one pixel.
func PixelToGeo(pixel camera.PixelPoint, pose *camera.Pose) (geo.Point, error) {
	return intersectFlat(camera.GroundRay(pixel, pose), pose)
}

// PixelToGeoWithDSM is the precision path: terrain-aware projection with
// automatic fallback to flat ground when the DSM has no data or marching
// does not converge.
func PixelToGeoWithDSM(pixel camera.PixelPoint, pose *camera.Pose, dsm terrain.ElevationModel) (geo.Point, error) {
	cfg := NewConfig(TerrainAware)
	cfg.DSM = dsm

	p, err := New(cfg)
	if err != nil {
		return geo.Point{}, err
	}
	return p.Resolve(pixel, pose)
}

// intersectFlat intersects a world-space ray with a horizontal plane at
// the camera's relative altitude below it. A measured LRF slant distance
// replaces the altitude-derived distance entirely.
func intersectFlat(ray r3.Vec, pose *camera.Pose) (geo.Point, error) {
	origin := geo.Point{Latitude: pose.Latitude, Longitude: pose.Longitude}

	if d, ok := pose.SlantDistance(); ok {
		return geo.Offset(origin, ray.X*d, ray.Y*d)
	}

	if ray.Z >= 0 {
		return geo.Point{}, ErrNoGroundIntersection
	}

	t := pose.AltitudeMeters / -ray.Z
	return geo.Offset(origin, ray.X*t, ray.Y*t)
}
