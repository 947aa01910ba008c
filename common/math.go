package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

// WorldUp is the world vertical axis.
var WorldUp = mgl64.Vec3{0, 1, 0}

// Object-space basis vectors: forward looks down -Z, right is +X.
var (
	LocalForward = mgl64.Vec3{0, 0, -1}
	LocalRight   = mgl64.Vec3{1, 0, 0}
)

// Flatten zeroes the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	v[1] = 0
	return v
}

// normalizeEpsilon absorbs rounding left over after flattening a vector
// that points straight up or down.
const normalizeEpsilon = 1e-9

// Normalize returns v scaled to unit length. ok is false when v has no
// usable length, in which case the zero vector is returned.
func Normalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < normalizeEpsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// YawRotation returns the rotation of angle radians about WorldUp.
func YawRotation(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, WorldUp)
}

// Yaw returns the heading of q about WorldUp in radians, measured from -Z
// towards -X (counter-clockwise seen from above).
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(LocalForward)
	return math.Atan2(-f[0], -f[2])
}
