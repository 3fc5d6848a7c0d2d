package phsp

// Quadrant classifies a candidate into quadrants 1..4 of the
// CP-asymmetry plane by the signs of sin(2*thetaA) and sin(2*thetaC).
// A value of exactly zero on either axis, or NaN, is unclassifiable and
// returns 0.
func Quadrant(sin2ThetaA, sin2ThetaC float64) int {
	switch {
	case sin2ThetaA < 0 && sin2ThetaC < 0:
		return 1
	case sin2ThetaA < 0 && sin2ThetaC > 0:
		return 2
	case sin2ThetaA > 0 && sin2ThetaC < 0:
		return 3
	case sin2ThetaA > 0 && sin2ThetaC > 0:
		return 4
	}
	return 0
}
