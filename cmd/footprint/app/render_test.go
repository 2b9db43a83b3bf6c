package app

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
)

func squareRing(lat, lon, sizeDeg float64) ring {
	return ring{
		{Latitude: lat, Longitude: lon},
		{Latitude: lat, Longitude: lon + sizeDeg},
		{Latitude: lat + sizeDeg, Longitude: lon + sizeDeg},
		{Latitude: lat + sizeDeg, Longitude: lon},
		{Latitude: lat, Longitude: lon},
	}
}

func TestRenderCanvasSize(t *testing.T) {
	data := MapData{
		MissionName: "paddock survey",
		Footprints:  []ring{squareRing(-27.5, 152.9, 0.001)},
	}

	renderer := NewMapRenderer(800, false)
	img, err := renderer.Render(&data)
	if err != nil {
		t.Fatal(err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 800 {
		t.Errorf("expected canvas width 800, got %d", bounds.Dx())
	}

	// near the equator a square extent renders roughly square
	mapHeight := bounds.Dy() - 2*mapMargin
	mapWidth := bounds.Dx() - 2*mapMargin
	ratio := float64(mapHeight) / float64(mapWidth)
	if math.Abs(ratio-1/math.Cos(-27.5*math.Pi/180)) > 0.05 {
		t.Errorf("unexpected aspect ratio %0.3f", ratio)
	}
}

func TestRenderInfoPanelReservesSpace(t *testing.T) {
	data := MapData{Footprints: []ring{squareRing(-27.5, 152.9, 0.001)}}

	plain, err := NewMapRenderer(800, false).Render(&data)
	if err != nil {
		t.Fatal(err)
	}
	panelled, err := NewMapRenderer(800, true).Render(&data)
	if err != nil {
		t.Fatal(err)
	}

	if diff := panelled.Bounds().Dy() - plain.Bounds().Dy(); diff != infoPanelHeight {
		t.Errorf("expected %d extra rows for the info panel, got %d", infoPanelHeight, diff)
	}
}

func TestRenderDrawsGeometry(t *testing.T) {
	data := MapData{
		Footprints:  []ring{squareRing(-27.5, 152.9, 0.001)},
		Annotations: []ring{squareRing(-27.4998, 152.9002, 0.0004)},
		Centroids:   []geo.Point{{Latitude: -27.4996, Longitude: 152.9004}},
	}

	img, err := NewMapRenderer(800, false).Render(&data)
	if err != nil {
		t.Fatal(err)
	}

	var drawn int
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.RGBAAt(x, y) != backgroundColor {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("expected drawn pixels on the canvas")
	}
}

func TestRenderEmptyMission(t *testing.T) {
	_, err := NewMapRenderer(800, false).Render(&MapData{MissionName: "empty"})
	if !errors.Is(err, ErrNothingToRender) {
		t.Fatalf("expected ErrNothingToRender, got %v", err)
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))

	cases := []struct {
		from, to image.Point
	}{
		{image.Point{X: 1, Y: 1}, image.Point{X: 18, Y: 18}},
		{image.Point{X: 18, Y: 1}, image.Point{X: 1, Y: 18}},
		{image.Point{X: 1, Y: 5}, image.Point{X: 18, Y: 5}},
		{image.Point{X: 5, Y: 1}, image.Point{X: 5, Y: 18}},
		{image.Point{X: 2, Y: 2}, image.Point{X: 17, Y: 6}},
	}
	for _, tc := range cases {
		drawLine(img, tc.from, tc.to, annotationColor)
		if img.RGBAAt(tc.from.X, tc.from.Y) != annotationColor {
			t.Errorf("line %v -> %v: start pixel not set", tc.from, tc.to)
		}
		if img.RGBAAt(tc.to.X, tc.to.Y) != annotationColor {
			t.Errorf("line %v -> %v: end pixel not set", tc.from, tc.to)
		}
	}
}
