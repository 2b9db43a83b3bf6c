package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FocalLengthPx returns the focal length in pixels, preferring the
// calibrated value over the one derived from the horizontal field of view:
//
//	f = imageWidth / (2 * tan(hfov/2))
func FocalLengthPx(pose *Pose) float64 {
	if pose.FocalLengthPx != nil && *pose.FocalLengthPx > 0 {
		return *pose.FocalLengthPx
	}
	return float64(pose.ImageWidthPx) / (2 * math.Tan(pose.HorizontalFOVDeg/2*math.Pi/180))
}

// VerticalFOVDeg derives the vertical field of view from the horizontal one
// and the image aspect ratio, assuming square pixels.
func VerticalFOVDeg(pose *Pose) float64 {
	half := math.Tan(pose.HorizontalFOVDeg / 2 * math.Pi / 180)
	ratio := float64(pose.ImageHeightPx) / float64(pose.ImageWidthPx)
	return 2 * math.Atan(half*ratio) * 180 / math.Pi
}

// principalPoint returns the optical center in pixels, using the calibrated
// offsets when available and the image center otherwise.
func principalPoint(pose *Pose) (cx, cy float64) {
	cx = float64(pose.ImageWidthPx) / 2
	cy = float64(pose.ImageHeightPx) / 2

	if pose.PrincipalPointXPx != nil {
		cx = *pose.PrincipalPointXPx
	}
	if pose.PrincipalPointYPx != nil {
		cy = *pose.PrincipalPointYPx
	}
	return cx, cy
}

// Ray converts a pixel coordinate into a unit direction vector in camera
// space. The horizontal angle off boresight is atan((x-cx)/f), the vertical
// one atan((cy-y)/f), so the returned vector is the normalized
// (tan(h), tan(v), -1) with -Z along the boresight. Any finite pixel yields
// a ray; there are no failure modes.
func Ray(pixel PixelPoint, pose *Pose) r3.Vec {
	f := FocalLengthPx(pose)
	cx, cy := principalPoint(pose)

	return r3.Unit(r3.Vec{
		X: (pixel.X - cx) / f,
		Y: (cy - pixel.Y) / f, // pixel Y grows down, camera Y grows up
		Z: -1,
	})
}
