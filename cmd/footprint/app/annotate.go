package app

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
)

const (
	dpi     float64 = 72
	size    float64 = 14
	spacing float64 = 1.2
)

type Annotator struct {
	context *freetype.Context
}

// NewAnnotator builds a text annotator from a TTF font file.
func NewAnnotator(fontPath string) (*Annotator, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(size)
	context.SetSrc(image.Black)
	context.SetHinting(font.HintingFull)

	return &Annotator{context: context}, nil
}

// Annotate draws the mission info panel in the reserved strip below the map.
func (a *Annotator) Annotate(img *image.RGBA, data *MapData) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	var area float64
	for _, shape := range data.Annotations {
		area += geo.RingArea(shape)
	}

	imgSize := img.Bounds().Size()
	top, left := imgSize.Y-infoPanelHeight+15, mapMargin

	lines := []string{
		fmt.Sprintf("Mission: %s", data.MissionName),
		fmt.Sprintf("Flown: %s", data.FlownAt.Local().Format(time.DateTime)),
		fmt.Sprintf("Assets: %s, annotations: %s",
			humanize.Comma(int64(data.AssetCount)), humanize.Comma(int64(len(data.Annotations)))),
		fmt.Sprintf("Annotated area: %s", a.humanArea(area)),
	}

	pt := freetype.Pt(left, top)
	for _, s := range lines {
		if _, err := a.context.DrawString(s, pt); err != nil {
			return fmt.Errorf("drawing info panel: %w", err)
		}
		pt.Y += a.context.PointToFixed(size * spacing)
	}

	return nil
}

func (a *Annotator) humanArea(squareMeters float64) string {
	if squareMeters >= 10000 {
		return fmt.Sprintf("%0.2f ha", squareMeters/10000)
	}
	si, suffix := humanize.ComputeSI(squareMeters)
	return fmt.Sprintf("%0.1f %sm2", si, suffix)
}
