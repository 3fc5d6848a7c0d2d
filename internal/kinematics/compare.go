package kinematics

import "gonum.org/v1/gonum/floats"

// epsilon is the float64 machine epsilon (2^-52).
const epsilon = 0x1p-52

// EqualTol reports whether x and y agree within the hybrid tolerance
// used by the numerical cross-checks: |x-y| <= eps * max(1, |x|, |y|).
// The absolute term covers values near zero, the relative term large
// magnitudes. NaN never compares equal.
func EqualTol(x, y float64) bool {
	return floats.EqualWithinAbsOrRel(x, y, epsilon, epsilon)
}

// EqualTolWithin is EqualTol with a caller-chosen tolerance, for checks
// that accumulate more rounding than a single operation.
func EqualTolWithin(x, y, tol float64) bool {
	return floats.EqualWithinAbsOrRel(x, y, tol, tol)
}

// EqualExact reports bitwise float equality. Reserved for paths that are
// fully deterministic, such as replaying a run with a fixed seed.
func EqualExact(x, y float64) bool { return x == y }
