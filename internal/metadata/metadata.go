// Package metadata builds the typed camera pose a projector needs from the
// loosely-structured metadata bundle persisted with each image asset. All
// null-coalescing and unit fixups live here so call sites never touch raw
// EXIF/XMP fields.
package metadata

import (
	"context"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
)

const (
	// PitchNadirMinus90 is the native convention: gimbal pitch -90 means
	// straight down. DJI-style feeds report this directly.
	PitchNadirMinus90 PitchConvention = iota

	// PitchNadirZero marks feeds where 0 means straight down; the extractor
	// shifts those by -90 at the boundary so the rest of the pipeline only
	// ever sees the native convention.
	PitchNadirZero
)

// PitchConvention identifies the gimbal pitch zero-reference of a metadata
// feed.
type PitchConvention int

// Defaults are substituted for fields absent from a bundle. A pose built
// purely from defaults is usable but low-confidence; completeness is the
// caller's concern.
type Defaults struct {
	AltitudeMeters   float64
	HorizontalFOVDeg float64
	ImageWidthPx     int
	ImageHeightPx    int
}

// NewDefaults returns the stock fallback values.
func NewDefaults() Defaults {
	return Defaults{
		AltitudeMeters:   100,
		HorizontalFOVDeg: camera.DefaultHorizontalFOVDeg,
		ImageWidthPx:     4000,
		ImageHeightPx:    3000,
	}
}

// CameraProfile carries calibrated intrinsics looked up by profile name,
// feeding the precision extraction path.
type CameraProfile struct {
	Name              string
	HorizontalFOVDeg  float64
	FocalLengthPx     *float64
	PrincipalPointXPx *float64
	PrincipalPointYPx *float64
}

// ProfileStore resolves calibrated camera profiles. A nil *CameraProfile
// with a nil error means no profile is known under that name.
type ProfileStore interface {
	Profile(ctx context.Context, name string) (*CameraProfile, error)
}

// WithDefaults overrides the fallback values.
func WithDefaults(d Defaults) func(*Extractor) {
	return func(e *Extractor) {
		e.defaults = d
	}
}

// WithProfiles enables calibrated intrinsics lookup by camera profile name.
func WithProfiles(store ProfileStore) func(*Extractor) {
	return func(e *Extractor) {
		e.profiles = store
	}
}

// WithPitchConvention sets the pitch convention of the metadata feed.
func WithPitchConvention(c PitchConvention) func(*Extractor) {
	return func(e *Extractor) {
		e.pitch = c
	}
}

// Extractor turns raw metadata bundles into camera poses.
type Extractor struct {
	defaults Defaults
	profiles ProfileStore
	pitch    PitchConvention
}

// NewExtractor creates an Extractor with stock defaults and the native pitch
// convention.
func NewExtractor(options ...func(*Extractor)) *Extractor {
	e := Extractor{defaults: NewDefaults()}
	for _, option := range options {
		option(&e)
	}
	return &e
}

// Extract builds a pose from a bundle. It never fails: every missing field
// falls back to a default and a nil or empty bundle yields a pure-default
// pose. Profile lookup errors are treated as "no profile".
func (e *Extractor) Extract(ctx context.Context, bundle map[string]any) *camera.Pose {
	pose := camera.Pose{
		AltitudeMeters:   e.defaults.AltitudeMeters,
		HorizontalFOVDeg: e.defaults.HorizontalFOVDeg,
		ImageWidthPx:     e.defaults.ImageWidthPx,
		ImageHeightPx:    e.defaults.ImageHeightPx,
	}

	if v := floatField(bundle, "latitude", "gpsLatitude"); v != nil {
		pose.Latitude = *v
	}
	if v := floatField(bundle, "longitude", "gpsLongitude"); v != nil {
		pose.Longitude = *v
	}
	if v := floatField(bundle, "relativeAltitude", "altitude"); v != nil {
		pose.AltitudeMeters = *v
	}
	pose.AbsoluteAltitudeMeters = floatField(bundle, "absoluteAltitude")

	if v := floatField(bundle, "gimbalPitch", "gimbalPitchDegree"); v != nil {
		pose.GimbalPitchDeg = *v
		if e.pitch == PitchNadirZero {
			pose.GimbalPitchDeg -= 90
		}
	} else if e.pitch == PitchNadirZero {
		pose.GimbalPitchDeg = -90
	}
	if v := floatField(bundle, "gimbalRoll", "gimbalRollDegree"); v != nil {
		pose.GimbalRollDeg = *v
	}
	if v := floatField(bundle, "gimbalYaw", "gimbalYawDegree"); v != nil {
		pose.GimbalYawDeg = *v
	} else if v := floatField(bundle, "flightYaw", "flightYawDegree"); v != nil {
		// aircraft heading stands in when the gimbal heading is missing
		pose.GimbalYawDeg = *v
	}

	if v := intField(bundle, "imageWidth", "exifImageWidth"); v != nil && *v > 0 {
		pose.ImageWidthPx = *v
	}
	if v := intField(bundle, "imageHeight", "exifImageHeight"); v != nil && *v > 0 {
		pose.ImageHeightPx = *v
	}
	if v := floatField(bundle, "horizontalFov", "fov"); v != nil && *v > 0 && *v < 180 {
		pose.HorizontalFOVDeg = *v
	}

	if v := floatField(bundle, "lrfDistance", "laserDistance", "lrfTargetDistance"); v != nil && *v > 0 {
		pose.LRFDistanceMeters = v
	}

	e.applyProfile(ctx, bundle, &pose)
	return &pose
}

// applyProfile enriches the pose with calibrated intrinsics when the bundle
// names a known camera profile. Raw calibrated fields in the bundle itself
// win over profile values.
func (e *Extractor) applyProfile(ctx context.Context, bundle map[string]any, pose *camera.Pose) {
	if e.profiles != nil {
		if name := stringField(bundle, "cameraProfile", "cameraModel"); name != "" {
			if profile, err := e.profiles.Profile(ctx, name); err == nil && profile != nil {
				if profile.HorizontalFOVDeg > 0 && profile.HorizontalFOVDeg < 180 {
					pose.HorizontalFOVDeg = profile.HorizontalFOVDeg
				}
				pose.FocalLengthPx = profile.FocalLengthPx
				pose.PrincipalPointXPx = profile.PrincipalPointXPx
				pose.PrincipalPointYPx = profile.PrincipalPointYPx
			}
		}
	}

	if v := floatField(bundle, "calibratedFocalLength"); v != nil && *v > 0 {
		pose.FocalLengthPx = v
	}
	if v := floatField(bundle, "principalPointX"); v != nil {
		pose.PrincipalPointXPx = v
	}
	if v := floatField(bundle, "principalPointY"); v != nil {
		pose.PrincipalPointYPx = v
	}
}
