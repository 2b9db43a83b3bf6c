package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
)

// modelFunc adapts a function to terrain.ElevationModel.
type modelFunc func(lat, lon float64) (float64, bool)

func (f modelFunc) ElevationAt(lat, lon float64) (float64, bool) {
	return f(lat, lon)
}

func terrainProjector(t *testing.T, dsm modelFunc) *Projector {
	t.Helper()

	cfg := NewConfig(TerrainAware)
	cfg.DSM = dsm
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestTerrain_NullDSMFallsBackToFlat(t *testing.T) {
	pose := nadirPose()
	pose.GimbalPitchDeg = -60

	nullDSM := modelFunc(func(lat, lon float64) (float64, bool) { return 0, false })
	p := terrainProjector(t, nullDSM)

	if _, err := p.Project(pose.Center(), pose); !errors.Is(err, ErrTerrainUnavailable) {
		t.Fatalf("expected ErrTerrainUnavailable, got %v", err)
	}

	// the fallback paths must reproduce the flat-ground result exactly
	want, err := PixelToGeo(pose.Center(), pose)
	if err != nil {
		t.Fatalf("flat projection failed: %v", err)
	}

	got, err := PixelToGeoWithDSM(pose.Center(), pose, nullDSM)
	if err != nil {
		t.Fatalf("PixelToGeoWithDSM failed: %v", err)
	}
	if got.Latitude != want.Latitude || got.Longitude != want.Longitude {
		t.Errorf("fallback result %+v differs from flat result %+v", got, want)
	}
}

func TestTerrain_FlatDSMMatchesFlatGround(t *testing.T) {
	pose := nadirPose()
	pose.GimbalPitchDeg = -50

	p := terrainProjector(t, func(lat, lon float64) (float64, bool) { return 0, true })

	got, err := p.Project(pose.Center(), pose)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	want, err := PixelToGeo(pose.Center(), pose)
	if err != nil {
		t.Fatalf("flat projection failed: %v", err)
	}

	if math.Abs(got.Latitude-want.Latitude) > 1e-9 || math.Abs(got.Longitude-want.Longitude) > 1e-9 {
		t.Errorf("flat DSM result %+v differs from flat-ground %+v", got, want)
	}
	if got.Elevation == nil || *got.Elevation != 0 {
		t.Errorf("expected elevation 0 on result, got %v", got.Elevation)
	}
}

func TestTerrain_ConvergesOnSlope(t *testing.T) {
	pose := nadirPose()
	pose.GimbalPitchDeg = -45 // oblique shot facing north

	// terrain rising to the north at 20% grade from the camera's position
	slope := func(lat, lon float64) (float64, bool) {
		north := (lat - pose.Latitude) * geo.MetersPerDegree
		if north < 0 {
			return 0, true
		}
		return 0.2 * north, true
	}
	p := terrainProjector(t, slope)

	pt, err := p.Project(pose.Center(), pose)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	// solving 100 - north = 0.2*north puts the intersection 83.33 m north
	north := (pt.Latitude - pose.Latitude) * geo.MetersPerDegree
	if math.Abs(north-100.0/1.2) > 1 {
		t.Errorf("expected intersection ~83.3 m north, got %f m", north)
	}
	if pt.Elevation == nil || math.Abs(*pt.Elevation-0.2*100/1.2) > 1 {
		t.Errorf("expected elevation ~16.7 m, got %v", pt.Elevation)
	}

	// the rising terrain must pull the point closer than the flat estimate
	flat, err := PixelToGeo(pose.Center(), pose)
	if err != nil {
		t.Fatalf("flat projection failed: %v", err)
	}
	if pt.Latitude >= flat.Latitude {
		t.Errorf("terrain intersection %f must sit south of the flat estimate %f", pt.Latitude, flat.Latitude)
	}
}

func TestTerrain_NoConvergenceWithinIterationLimit(t *testing.T) {
	pose := nadirPose()
	pose.GimbalPitchDeg = -45

	cfg := NewConfig(TerrainAware)
	cfg.MaxIterations = 1 // too tight for a sloped surface
	cfg.DSM = modelFunc(func(lat, lon float64) (float64, bool) {
		north := (lat - pose.Latitude) * geo.MetersPerDegree
		return math.Max(0, 0.2*north), true
	})

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err = p.Project(pose.Center(), pose); !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}

	// Resolve recovers with the flat estimate
	if _, err = p.Resolve(pose.Center(), pose); err != nil {
		t.Errorf("Resolve must fall back to flat ground, got %v", err)
	}
}

func TestTerrain_AbsoluteAltitudeAnchorsCamera(t *testing.T) {
	pose := nadirPose()
	pose.GimbalPitchDeg = -45

	cfg := NewConfig(TerrainAware)
	cfg.GeoidCorrection = false // keep the arithmetic exact for the test
	abs := 150.0                // camera 100 m above terrain at 50 m elevation
	pose.AbsoluteAltitudeMeters = &abs
	cfg.DSM = modelFunc(func(lat, lon float64) (float64, bool) { return 50, true })

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pt, err := p.Project(pose.Center(), pose)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	// 100 m of clearance at 45 degrees lands 100 m north
	north := (pt.Latitude - pose.Latitude) * geo.MetersPerDegree
	if math.Abs(north-100) > 1 {
		t.Errorf("expected intersection ~100 m north, got %f m", north)
	}
}

func TestTerrain_SkywardStillFails(t *testing.T) {
	pose := nadirPose()
	pose.GimbalPitchDeg = 10

	p := terrainProjector(t, func(lat, lon float64) (float64, bool) { return 0, true })
	if _, err := p.Project(pose.Center(), pose); !errors.Is(err, ErrNoGroundIntersection) {
		t.Errorf("expected ErrNoGroundIntersection, got %v", err)
	}
}
