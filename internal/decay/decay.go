// Package decay models one D0 -> K pi pi pi candidate: the four
// daughters in their upstream slot order, the classification of slots
// into physics roles, and the D*-tag bookkeeping that splits the sample
// into right-sign and wrong-sign.
package decay

import (
	"fmt"

	"go-hep.org/x/hep/fmom"

	"github.com/charm-data/k3pi.report/internal/pdg"
)

// Daughters carries one candidate's four decay products in slot order:
// signed PDG IDs and fixed-mass four-momenta in the lab frame.
type Daughters struct {
	IDs [4]int
	P   [4]fmom.PxPyPzE
}

// FromPtEtaPhi assembles the daughter set from detector-frame
// (pt, eta, phi) triplets, substituting the fixed kaon or pion mass
// hypothesis selected by each slot's ID. Momenta are in MeV, angles in
// radians.
func FromPtEtaPhi(ids [4]int, pt, eta, phi [4]float64) (Daughters, error) {
	d := Daughters{IDs: ids}
	for i := range ids {
		m, err := pdg.MassByID(ids[i])
		if err != nil {
			return Daughters{}, fmt.Errorf("daughter slot %d: %w", i, err)
		}
		v := fmom.NewPtEtaPhiM(pt[i], eta[i], phi[i], m)
		d.P[i] = fmom.NewPxPyPzE(v.Px(), v.Py(), v.Pz(), v.E())
	}
	return d, nil
}

// Momentum returns the four-momentum of the daughter holding role under
// the given role map.
func (d *Daughters) Momentum(m RoleMap, r Role) fmom.PxPyPzE {
	return d.P[m.Slot(r)]
}

// ID returns the signed PDG code of the daughter holding role.
func (d *Daughters) ID(m RoleMap, r Role) int {
	return d.IDs[m.Slot(r)]
}

// IsD0 reports whether the D* slow-pion charge tags the candidate as a
// D0 rather than a D0bar. A positive slow pion accompanies a D0.
func IsD0(dstarPiID int) bool {
	return dstarPiID > 0
}

// IsRightSign reports whether the kaon charge is the Cabibbo-favoured
// one for the tagged flavour: K- with a D0 tag, K+ with a D0bar tag.
func IsRightSign(isD0, kaonNeg bool) bool {
	if isD0 {
		return kaonNeg
	}
	return !kaonNeg
}

// Sample selection labels understood by the CLI filters.
const (
	SampleRS   = "RS"
	SampleWS   = "WS"
	SampleBoth = "BOTH"
)
