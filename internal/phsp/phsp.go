package phsp

import (
	"fmt"
	"math/rand/v2"

	"go-hep.org/x/hep/fmom"

	"github.com/charm-data/k3pi.report/internal/decay"
	"github.com/charm-data/k3pi.report/internal/kinematics"
)

// Point is one candidate's position in the four-body phase space.
//
// M12 is the invariant mass of the pipi pair and M34 of the Kpi pair,
// both in MeV/c^2. CosTheta12 and CosTheta34 are the pair helicity
// cosines and Phi the decay-plane angle mapped onto [0, 2*pi).
//
// M13 pairs the kaon's pion partner with the same-sign pion, an
// alternate projection kept for cross-checks. PhiCheckDiff carries the
// plane-angle verification residual when verification ran; it is a
// numerical diagnostic and never feeds a physics decision.
type Point struct {
	M12        float64
	M34        float64
	CosTheta12 float64
	CosTheta34 float64
	Phi        float64

	M13          float64
	PhiCheckDiff float64
}

// Policy selects how the two opposite-sign pions split between the Kpi
// and pipi pairs.
type Policy int

const (
	// PairOrdered partners the kaon with whichever OS pion yields the
	// smaller Kpi invariant mass. On an exact tie the rule resolves to
	// the strict-less-than outcome, so the first-listed pion stays in
	// the pipi pair.
	PairOrdered Policy = iota
	// PairRandom splits the OS pions by coin flip and requires an
	// explicit generator in Options.
	PairRandom
)

func (p Policy) String() string {
	switch p {
	case PairOrdered:
		return "ordered"
	case PairRandom:
		return "random"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps the config spelling to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "ordered":
		return PairOrdered, nil
	case "random":
		return PairRandom, nil
	}
	return 0, fmt.Errorf("phsp: unknown pairing policy %q (want ordered or random)", s)
}

// Options configures Compute.
type Options struct {
	Policy Policy

	// Rand supplies the coin flips for PairRandom. The generator is
	// passed in rather than shared so concurrent callers can derive one
	// per event and replay a run bit for bit.
	Rand *rand.Rand

	// Verify enables the independent plane-angle derivation; the
	// residual lands in Point.PhiCheckDiff.
	Verify bool
}

// PiGoesWithKaon applies the smaller-mass rule: it reports whether
// osPi1 partners the kaon, true exactly when m(K osPi1) < m(K osPi2).
func PiGoesWithKaon(k, osPi1, osPi2 fmom.P4) bool {
	return fmom.InvMass(k, osPi1) < fmom.InvMass(k, osPi2)
}

// Compute resolves the OS-pion pairing for the classified daughters and
// derives the phase-space point.
func Compute(d decay.Daughters, roles decay.RoleMap, opt Options) (Point, error) {
	k := d.Momentum(roles, decay.RoleKaon)
	ss := d.Momentum(roles, decay.RoleSSPion)
	os1 := d.Momentum(roles, decay.RoleOSPion1)
	os2 := d.Momentum(roles, decay.RoleOSPion2)

	var pi1WithK bool
	switch opt.Policy {
	case PairOrdered:
		pi1WithK = PiGoesWithKaon(&k, &os1, &os2)
	case PairRandom:
		if opt.Rand == nil {
			return Point{}, fmt.Errorf("phsp: policy %v needs an explicit generator", opt.Policy)
		}
		pi1WithK = opt.Rand.IntN(2) == 0
	default:
		return Point{}, fmt.Errorf("phsp: unknown pairing policy %v", opt.Policy)
	}

	piWithK, piWithSS := &os2, &os1
	if pi1WithK {
		piWithK, piWithSS = &os1, &os2
	}
	return ComputeAssigned(&k, piWithK, &ss, piWithSS, opt.Verify), nil
}

// ComputeAssigned derives the phase-space point once the pairing is
// fixed: piWithK partners the kaon and piWithSS partners the same-sign
// pion. Callers that already resolved the split (or want both splits of
// the same candidate) use this directly.
func ComputeAssigned(k, piWithK, ssPi, piWithSS fmom.P4, verify bool) Point {
	mother := kinematics.Sum(k, piWithK, ssPi, piWithSS)

	// Everything angular is defined in the mother rest frame.
	kR := kinematics.BoostInto(k, &mother)
	piKR := kinematics.BoostInto(piWithK, &mother)
	ssR := kinematics.BoostInto(ssPi, &mother)
	piSSR := kinematics.BoostInto(piWithSS, &mother)

	pairPiPi := kinematics.Sum(&piSSR, &ssR)
	pairKPi := kinematics.Sum(&kR, &piKR)

	var pt Point
	pt.M12 = pairPiPi.M()
	pt.M34 = pairKPi.M()
	pt.M13 = fmom.InvMass(piWithK, ssPi)

	n1 := kinematics.PlaneNormal(&piSSR, &ssR)
	n2 := kinematics.PlaneNormal(&kR, &piKR)
	ref := kinematics.UnitDir(&pairKPi)

	var phi float64
	if verify {
		phi, pt.PhiCheckDiff = kinematics.PlaneAngleVerified(n1, n2, ref)
	} else {
		phi = kinematics.PlaneAngle(n1, n2, ref)
	}
	pt.Phi = kinematics.ToZeroTwoPi(phi)

	pt.CosTheta12 = kinematics.HelicityCosine(&ssR, &pairPiPi, kinematics.UnitDir(&pairPiPi))
	pt.CosTheta34 = kinematics.HelicityCosine(&kR, &pairKPi, ref)

	return pt
}
