package camera

import (
	"math"
	"testing"
)

func testPose() *Pose {
	return &Pose{
		Latitude:         -27.5,
		Longitude:        152.9,
		AltitudeMeters:   100,
		GimbalPitchDeg:   -90,
		ImageWidthPx:     4000,
		ImageHeightPx:    3000,
		HorizontalFOVDeg: 84,
	}
}

func TestFocalLengthPx(t *testing.T) {
	pose := testPose()

	f := FocalLengthPx(pose)
	if math.Abs(f-2221.23) > 0.01 {
		t.Errorf("expected focal length ~2221.23 px for 84 deg FOV at 4000 px, got %f", f)
	}

	calibrated := 2300.0
	pose.FocalLengthPx = &calibrated
	if f = FocalLengthPx(pose); f != calibrated {
		t.Errorf("expected calibrated focal length %f, got %f", calibrated, f)
	}
}

func TestVerticalFOVDeg(t *testing.T) {
	vfov := VerticalFOVDeg(testPose())
	if math.Abs(vfov-68.07) > 0.01 {
		t.Errorf("expected vertical FOV ~68.07 deg for 84 deg / 4:3, got %f", vfov)
	}
}

func TestRay_CenterPixel(t *testing.T) {
	pose := testPose()

	ray := Ray(pose.Center(), pose)
	if math.Abs(ray.X) > 1e-12 || math.Abs(ray.Y) > 1e-12 {
		t.Errorf("center pixel must be on boresight, got %+v", ray)
	}
	if math.Abs(ray.Z+1) > 1e-12 {
		t.Errorf("expected Z = -1 on boresight, got %f", ray.Z)
	}
}

func TestRay_AxisDirections(t *testing.T) {
	pose := testPose()
	center := pose.Center()

	right := Ray(PixelPoint{X: center.X + 500, Y: center.Y}, pose)
	if right.X <= 0 {
		t.Errorf("pixel right of center must have positive camera X, got %f", right.X)
	}

	up := Ray(PixelPoint{X: center.X, Y: center.Y - 500}, pose)
	if up.Y <= 0 {
		t.Errorf("pixel above center must have positive camera Y, got %f", up.Y)
	}
}

func TestRay_MonotonicHorizontal(t *testing.T) {
	pose := testPose()

	prev := math.Inf(-1)
	for x := 0.0; x <= 4000; x += 400 {
		ray := Ray(PixelPoint{X: x, Y: 1500}, pose)
		angle := ray.X / -ray.Z
		if angle <= prev {
			t.Fatalf("horizontal angle not monotonic at x=%f: %f <= %f", x, angle, prev)
		}
		prev = angle
	}
}

func TestRay_PrincipalPointOffset(t *testing.T) {
	pose := testPose()
	cx := 2010.0 // optical center calibrated 10 px right of geometric center
	pose.PrincipalPointXPx = &cx

	ray := Ray(pose.Center(), pose)
	if ray.X >= 0 {
		t.Errorf("with optical center right of image center, the center pixel must look left, got X=%f", ray.X)
	}
}

func TestPose_Validate(t *testing.T) {
	if err := testPose().Validate(); err != nil {
		t.Fatalf("valid pose rejected: %v", err)
	}

	bad := testPose()
	bad.GimbalPitchDeg = math.NaN()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for NaN pitch")
	}

	bad = testPose()
	bad.ImageWidthPx = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero image width")
	}

	bad = testPose()
	bad.HorizontalFOVDeg = 180
	if err := bad.Validate(); err == nil {
		t.Error("expected error for out-of-range FOV")
	}
}

func TestPose_SlantDistance(t *testing.T) {
	pose := testPose()
	if _, ok := pose.SlantDistance(); ok {
		t.Error("expected no slant distance on a bare pose")
	}

	d := 140.5
	pose.LRFDistanceMeters = &d
	got, ok := pose.SlantDistance()
	if !ok || got != d {
		t.Errorf("expected slant distance %f, got %f (ok=%v)", d, got, ok)
	}

	zero := 0.0
	pose.LRFDistanceMeters = &zero
	if _, ok = pose.SlantDistance(); ok {
		t.Error("non-positive LRF reading must not override altitude")
	}
}
