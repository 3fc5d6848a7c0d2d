package kinematics

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlaneNormal returns the unit normal of the decay plane spanned by the
// momentum directions of a and b. Parallel or vanishing momenta have no
// plane; the normal comes back NaN.
func PlaneNormal(a, b fmom.P4) r3.Vec {
	return r3.Unit(r3.Cross(UnitDir(a), UnitDir(b)))
}

// PlaneAngle returns the signed angle in (-pi, pi] between the planes
// with normals n1 and n2. The sign convention is fixed by ref: sin(phi)
// is the projection of n1 x n2 onto the unit direction of ref, so every
// call site must hand in the same reference axis to share a convention.
func PlaneAngle(n1, n2, ref r3.Vec) float64 {
	u1 := r3.Unit(n1)
	u2 := r3.Unit(n2)
	sin := r3.Dot(r3.Cross(u1, u2), r3.Unit(ref))
	cos := r3.Dot(u1, u2)
	return math.Atan2(sin, cos)
}

// PlaneAngleVerified returns PlaneAngle(n1, n2, ref) together with the
// absolute difference against an arccos-based derivation of the same
// angle. The difference is a numerical diagnostic only and must never
// steer a physics decision.
func PlaneAngleVerified(n1, n2, ref r3.Vec) (phi, diff float64) {
	u1 := r3.Unit(n1)
	u2 := r3.Unit(n2)
	sin := r3.Dot(r3.Cross(u1, u2), r3.Unit(ref))
	cos := r3.Dot(u1, u2)
	phi = math.Atan2(sin, cos)

	unsigned := math.Acos(clamp(cos, -1, 1))
	if sin < 0 {
		unsigned = -unsigned
	}
	// Compare on the circle so the +pi/-pi seam does not show up as a
	// 2*pi disagreement.
	d := phi - unsigned
	diff = math.Abs(math.Atan2(math.Sin(d), math.Cos(d)))
	return phi, diff
}

// ToZeroTwoPi maps an angle in (-pi, pi] onto [0, 2*pi).
func ToZeroTwoPi(phi float64) float64 {
	if phi < 0 {
		return phi + 2*math.Pi
	}
	return phi
}

// ToNegPiPi maps an angle in [0, 2*pi) onto (-pi, pi].
func ToNegPiPi(phi float64) float64 {
	if phi > math.Pi {
		return phi - 2*math.Pi
	}
	return phi
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
