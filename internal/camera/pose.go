// Package camera models the drone camera at capture time: the typed pose
// built from image metadata, the pixel-to-ray projection and the gimbal
// rotation that carries a camera-space ray into the world frame.
//
// Conventions used throughout this package:
//
//   - World frame is ENU: +X east, +Y north, +Z up.
//   - Camera frame: +X image right, +Y image up, boresight along -Z.
//   - Gimbal pitch: -90° is nadir (straight down), 0° is level with the
//     horizon. Feeds that report 0 = nadir must be converted at the
//     metadata-extraction boundary, never here.
//   - Gimbal yaw is a compass heading: 0° north, 90° east.
package camera

import (
	"fmt"
	"math"
)

// DefaultHorizontalFOVDeg is assumed when no calibrated field of view is
// available for the capturing camera.
const DefaultHorizontalFOVDeg = 84.0

// PixelPoint is a location in image pixel space. X grows right, Y grows down.
// Out-of-bounds points still produce a ray; validation is the caller's job.
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pose describes the camera at the moment of capture. It is ephemeral,
// assembled per conversion call by the metadata extractor and never stored.
type Pose struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees

	// AltitudeMeters is the height above ground (relative altitude) at
	// capture. AbsoluteAltitudeMeters, when known, is the WGS84 ellipsoidal
	// altitude and lets the terrain projector anchor against MSL elevations.
	AltitudeMeters         float64
	AbsoluteAltitudeMeters *float64

	GimbalPitchDeg float64 // -90 = nadir
	GimbalRollDeg  float64
	GimbalYawDeg   float64 // compass heading

	ImageWidthPx  int
	ImageHeightPx int

	HorizontalFOVDeg float64

	// Calibrated intrinsics, present only when a camera profile was matched.
	FocalLengthPx     *float64
	PrincipalPointXPx *float64 // absolute pixel coordinate of the optical center
	PrincipalPointYPx *float64

	// LRFDistanceMeters is the laser-rangefinder slant distance to the
	// target, taking precedence over altitude-derived intersection distance.
	LRFDistanceMeters *float64
}

// Validate reports whether the pose satisfies the projection preconditions.
func (p *Pose) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"latitude", p.Latitude},
		{"longitude", p.Longitude},
		{"altitude", p.AltitudeMeters},
		{"gimbal pitch", p.GimbalPitchDeg},
		{"gimbal roll", p.GimbalRollDeg},
		{"gimbal yaw", p.GimbalYawDeg},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("pose %s is not finite", v.name)
		}
	}

	if p.ImageWidthPx <= 0 || p.ImageHeightPx <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", p.ImageWidthPx, p.ImageHeightPx)
	}
	if p.HorizontalFOVDeg <= 0 || p.HorizontalFOVDeg >= 180 {
		return fmt.Errorf("horizontal FOV %f out of range (0, 180)", p.HorizontalFOVDeg)
	}
	return nil
}

// Center returns the pixel at the geometric image center.
func (p *Pose) Center() PixelPoint {
	return PixelPoint{
		X: float64(p.ImageWidthPx) / 2,
		Y: float64(p.ImageHeightPx) / 2,
	}
}

// SlantDistance returns the measured laser-rangefinder distance when present
// and positive, and false otherwise, signalling the caller to fall back to
// altitude-derived intersection.
func (p *Pose) SlantDistance() (float64, bool) {
	if p.LRFDistanceMeters == nil || *p.LRFDistanceMeters <= 0 {
		return 0, false
	}
	return *p.LRFDistanceMeters, true
}
