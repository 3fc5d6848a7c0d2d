// Package kinematics provides the four-vector and decay-plane geometry
// primitives the phase-space conversion is built from. Four-momenta are
// go-hep fmom values and spatial directions are gonum r3 vectors, so the
// algebra here stays frame-explicit: callers boost first, then ask for
// angles.
package kinematics

import (
	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sum returns the component-wise sum of the given four-momenta.
func Sum(ps ...fmom.P4) fmom.PxPyPzE {
	var px, py, pz, e float64
	for _, p := range ps {
		px += p.Px()
		py += p.Py()
		pz += p.Pz()
		e += p.E()
	}
	return fmom.NewPxPyPzE(px, py, pz, e)
}

// VecOf returns the spatial momentum of p as a 3-vector.
func VecOf(p fmom.P4) r3.Vec {
	return r3.Vec{X: p.Px(), Y: p.Py(), Z: p.Pz()}
}

// UnitDir returns the unit direction of p's spatial momentum. A particle
// at rest has no direction; the components come back NaN and propagate
// through any angle built from them.
func UnitDir(p fmom.P4) r3.Vec {
	return r3.Unit(VecOf(p))
}

// RestBoost returns the velocity vector that boosts four-momenta into
// the rest frame of frame.
func RestBoost(frame fmom.P4) r3.Vec {
	return r3.Scale(-1, fmom.BoostOf(frame))
}

// BoostInto returns p boosted into the rest frame of frame. Both
// arguments are read in the same (lab or intermediate) frame.
func BoostInto(p, frame fmom.P4) fmom.PxPyPzE {
	b := fmom.Boost(p, RestBoost(frame))
	return fmom.NewPxPyPzE(b.Px(), b.Py(), b.Pz(), b.E())
}

// HelicityCosine returns the cosine of the helicity angle of daughter:
// boost daughter into the rest frame of pair and take the angle against
// pairDir, the pair's direction of flight in the parent frame.
func HelicityCosine(daughter, pair fmom.P4, pairDir r3.Vec) float64 {
	d := BoostInto(daughter, pair)
	return r3.Cos(VecOf(&d), pairDir)
}
