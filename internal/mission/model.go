// Package mission holds the domain model shared by the georeferencing tools:
// missions, the image assets captured during a mission and the annotations
// drawn on those assets.
package mission

import (
	"time"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
)

// Mission is a single drone flight over a site.
type Mission struct {
	ID      int64     `json:"ID"`      // Unique identifier for the mission
	Name    string    `json:"name"`    // Operator-facing mission name
	FlownAt time.Time `json:"flownAt"` // When the flight took place
}

// Asset is one captured image together with the raw metadata bundle
// extracted from its EXIF/XMP tags. The bundle schema is owned by the
// upload pipeline; this core only reads the fields the extractor knows.
type Asset struct {
	ID         int64          `json:"ID"`
	MissionID  int64          `json:"missionID"`
	FileName   string         `json:"fileName"`
	CapturedAt time.Time      `json:"capturedAt"`
	Metadata   map[string]any `json:"metadata,omitempty"` // raw EXIF/XMP-derived fields

	// CenterLat/CenterLon cache the georeferenced image footprint centroid,
	// nil until georeferencing ran.
	CenterLat *float64 `json:"centerLat,omitempty"`
	CenterLon *float64 `json:"centerLon,omitempty"`
}

// Annotation is a labelled pixel polygon on an asset. Pixels stay intact
// whether or not georeferencing succeeded; Geo is nil until it ran.
type Annotation struct {
	ID      int64               `json:"ID"`
	AssetID int64               `json:"assetID"`
	Label   string              `json:"label"`
	Pixels  []camera.PixelPoint `json:"pixels"`
	Geo     *Georeference       `json:"geo,omitempty"`
}

// Georeference is the persisted outcome of projecting an annotation.
// FailedVertices == len-of-input with empty Points records the
// "could not georeference" outcome distinctly from degraded accuracy.
type Georeference struct {
	Points         []geo.Point `json:"points,omitempty"` // closed ring when >= 3 vertices converted
	Centroid       *geo.Point  `json:"centroid,omitempty"`
	FailedVertices int         `json:"failedVertices"`
	ComputedAt     time.Time   `json:"computedAt"`
}
