package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WorldRay rotates a camera-space ray into the ENU world frame using the
// gimbal attitude of the pose.
//
// Rotations compose in aircraft-body order, applied to the ray as
//
//	yaw (about up) ∘ pitch (about east) ∘ boresight remap ∘ roll (about boresight)
//
// so that at pitch = -90, roll = yaw = 0 the boresight points straight down
// with image top facing north and image right facing east. A ray with
// Z >= 0 in the result points at or above the horizon and never intersects
// the ground; callers must check for that before intersecting.
func WorldRay(ray r3.Vec, pose *Pose) r3.Vec {
	deg := math.Pi / 180

	if pose.GimbalRollDeg != 0 {
		// roll spins the image about the boresight (-Z in camera space)
		ray = r3.NewRotation(pose.GimbalRollDeg*deg, r3.Vec{Z: -1}).Rotate(ray)
	}

	// remap camera axes into ENU at the reference attitude (pitch 0, yaw 0):
	// camera X -> east, camera Y -> up, boresight (-Z) -> north
	world := r3.Vec{X: ray.X, Y: -ray.Z, Z: ray.Y}

	if pose.GimbalPitchDeg != 0 {
		world = r3.NewRotation(pose.GimbalPitchDeg*deg, r3.Vec{X: 1}).Rotate(world)
	}
	if pose.GimbalYawDeg != 0 {
		// compass yaw is clockwise from north, the ENU rotation is
		// counterclockwise about up, hence the sign flip
		world = r3.NewRotation(-pose.GimbalYawDeg*deg, r3.Vec{Z: 1}).Rotate(world)
	}

	return r3.Unit(world)
}

// GroundRay is the composition of Ray and WorldRay: the world-space unit
// direction from the camera through the given pixel.
func GroundRay(pixel PixelPoint, pose *Pose) r3.Vec {
	return WorldRay(Ray(pixel, pose), pose)
}
