package app

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
)

const (
	mapMargin       = 40  // pixels of padding inside the canvas edge
	infoPanelHeight = 110 // pixels reserved below the map for the info panel
	centroidMark    = 4   // half-size of the centroid cross in pixels
	minExtentMeters = 10  // floor on the map extent to keep degenerate missions visible
)

var (
	backgroundColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	footprintColor  = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}
	annotationColor = color.RGBA{R: 0xd6, G: 0x28, B: 0x28, A: 0xff}
	centroidColor   = color.RGBA{R: 0x1a, G: 0x56, B: 0xc4, A: 0xff}
)

var ErrNothingToRender = errors.New("mission has no georeferenced footprints or annotations")

// MapData is everything the renderer draws: image footprints and annotation
// rings of one mission, already georeferenced.
type MapData struct {
	MissionName string
	FlownAt     time.Time
	AssetCount  int

	Footprints  []ring
	Annotations []ring
	Centroids   []geo.Point
}

type ring []geo.Point

// extent is the geographic bounding box of all drawable geometry.
type extent struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

func (e *extent) include(p geo.Point) {
	e.minLat = math.Min(e.minLat, p.Latitude)
	e.maxLat = math.Max(e.maxLat, p.Latitude)
	e.minLon = math.Min(e.minLon, p.Longitude)
	e.maxLon = math.Max(e.maxLon, p.Longitude)
}

// sizeMeters returns the east-west and north-south span of the extent.
func (e *extent) sizeMeters() (width, height float64) {
	midLat := (e.minLat + e.maxLat) / 2
	width = (e.maxLon - e.minLon) * geo.MetersPerDegree * math.Cos(midLat*math.Pi/180)
	height = (e.maxLat - e.minLat) * geo.MetersPerDegree
	return math.Max(width, minExtentMeters), math.Max(height, minExtentMeters)
}

func (d *MapData) extent() (extent, error) {
	e := extent{
		minLat: math.Inf(1), maxLat: math.Inf(-1),
		minLon: math.Inf(1), maxLon: math.Inf(-1),
	}

	for _, r := range d.Footprints {
		for _, p := range r {
			e.include(p)
		}
	}
	for _, r := range d.Annotations {
		for _, p := range r {
			e.include(p)
		}
	}
	if math.IsInf(e.minLat, 1) {
		return extent{}, ErrNothingToRender
	}
	return e, nil
}

// MapRenderer projects geographic rings onto a pixel canvas. North is up and
// the scale is uniform in meters, so shapes keep their ground proportions.
type MapRenderer struct {
	canvasWidth int
	infoPanel   bool
}

func NewMapRenderer(canvasWidth int, infoPanel bool) *MapRenderer {
	return &MapRenderer{canvasWidth: canvasWidth, infoPanel: infoPanel}
}

func (r *MapRenderer) Render(data *MapData) (*image.RGBA, error) {
	e, err := data.extent()
	if err != nil {
		return nil, err
	}

	widthMeters, heightMeters := e.sizeMeters()
	mapWidth := r.canvasWidth - 2*mapMargin
	scale := float64(mapWidth) / widthMeters // pixels per meter
	mapHeight := int(math.Ceil(heightMeters * scale))

	canvasHeight := mapHeight + 2*mapMargin
	if r.infoPanel {
		canvasHeight += infoPanelHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, r.canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	midLat := (e.minLat + e.maxLat) / 2
	toPixel := func(p geo.Point) image.Point {
		x := (p.Longitude - e.minLon) * geo.MetersPerDegree * math.Cos(midLat*math.Pi/180) * scale
		y := (e.maxLat - p.Latitude) * geo.MetersPerDegree * scale
		return image.Point{X: mapMargin + int(math.Round(x)), Y: mapMargin + int(math.Round(y))}
	}

	for _, shape := range data.Footprints {
		drawRing(img, shape, toPixel, footprintColor)
	}
	for _, shape := range data.Annotations {
		drawRing(img, shape, toPixel, annotationColor)
	}
	for _, c := range data.Centroids {
		drawCross(img, toPixel(c), centroidColor)
	}

	return img, nil
}

func drawRing(img *image.RGBA, shape ring, toPixel func(geo.Point) image.Point, c color.Color) {
	if len(shape) == 1 {
		drawCross(img, toPixel(shape[0]), c)
		return
	}
	for i := 1; i < len(shape); i++ {
		drawLine(img, toPixel(shape[i-1]), toPixel(shape[i]), c)
	}
}

// drawLine draws a straight segment using Bresenham stepping.
func drawLine(img *image.RGBA, from, to image.Point, c color.Color) {
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}

	err := dx + dy
	x, y := from.X, from.Y
	for {
		img.Set(x, y, c)
		if x == to.X && y == to.Y {
			return
		}
		switch {
		case x == to.X:
			y += sy
		case y == to.Y:
			x += sx
		case 2*err >= dy:
			err += dy
			x += sx
		default:
			err += dx
			y += sy
		}
	}
}

func drawCross(img *image.RGBA, at image.Point, c color.Color) {
	for d := -centroidMark; d <= centroidMark; d++ {
		img.Set(at.X+d, at.Y, c)
		img.Set(at.X, at.Y+d, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
