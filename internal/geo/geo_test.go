package geo

import (
	"math"
	"testing"
)

func TestOffset_Equator(t *testing.T) {
	origin := Point{Latitude: 0, Longitude: 0}

	p, err := Offset(origin, MetersPerDegree, MetersPerDegree)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}

	if math.Abs(p.Latitude-1) > 1e-9 {
		t.Errorf("expected latitude 1, got %f", p.Latitude)
	}
	if math.Abs(p.Longitude-1) > 1e-9 {
		t.Errorf("expected longitude 1 at the equator, got %f", p.Longitude)
	}
}

func TestOffset_LongitudeScalesWithLatitude(t *testing.T) {
	origin := Point{Latitude: 60, Longitude: 10}

	p, err := Offset(origin, 1000, 0)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}

	// cos(60 deg) = 0.5, so 1000 m east is twice the equatorial delta
	want := 1000 / (MetersPerDegree * 0.5)
	if math.Abs((p.Longitude-origin.Longitude)-want) > 1e-9 {
		t.Errorf("expected longitude delta %g, got %g", want, p.Longitude-origin.Longitude)
	}
}

func TestOffset_PolarSingularity(t *testing.T) {
	for _, lat := range []float64{89.95, -89.95, 90} {
		if _, err := Offset(Point{Latitude: lat}, 1, 1); err != ErrPolarSingularity {
			t.Errorf("latitude %f: expected ErrPolarSingularity, got %v", lat, err)
		}
	}
}

func TestCloseRing(t *testing.T) {
	ring := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 1, Longitude: 1},
	}

	closed := CloseRing(ring)
	if len(closed) != 4 {
		t.Fatalf("expected 4 points, got %d", len(closed))
	}
	if closed[3] != closed[0] {
		t.Errorf("ring is not closed: %+v", closed)
	}

	// already closed rings and degenerate inputs are left alone
	if again := CloseRing(closed); len(again) != 4 {
		t.Errorf("expected closed ring to stay at 4 points, got %d", len(again))
	}
	if single := CloseRing(ring[:1]); len(single) != 1 {
		t.Errorf("expected single point untouched, got %d points", len(single))
	}
}

func TestRingArea_Square(t *testing.T) {
	// a 100 m x 100 m square at the equator
	side := 100 / MetersPerDegree
	ring := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: side},
		{Latitude: side, Longitude: side},
		{Latitude: side, Longitude: 0},
	}

	area := RingArea(ring)
	if math.Abs(area-10000) > 1 {
		t.Errorf("expected area ~10000 m², got %f", area)
	}

	if RingArea(ring[:2]) != 0 {
		t.Error("expected zero area for degenerate ring")
	}
}
