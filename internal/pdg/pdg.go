// Package pdg holds the particle data constants shared across the K3Pi
// analysis: PDG species codes, the fixed mass hypotheses substituted when
// building four-vectors, and unit factors for the ntuple conventions.
package pdg

import "fmt"

// Species codes in the PDG scheme. The sign of a stored ID carries the
// particle charge.
const (
	// KaonID is the unsigned code for a charged kaon.
	KaonID = 321
	// PionID is the unsigned code for a charged pion.
	PionID = 211
)

// Fixed mass hypotheses in MeV/c^2. These replace any measured mass when
// four-vectors are assembled, matching a fixed-mass kinematic fit.
const (
	KaonMassMeV = 493.677
	PionMassMeV = 139.57061
	D0MassMeV   = 1864.84
)

// D0LifetimePS is the D0 mean lifetime in picoseconds, used to express
// decay times in lifetime units.
const D0LifetimePS = 0.410

// GeVToMeV scales GeV-valued columns (e.g. generator output) to the MeV
// convention used internally.
const GeVToMeV = 1000.0

// MassByID returns the fixed mass hypothesis in MeV/c^2 for a signed PDG
// code. Species outside the K3Pi final state yield an error.
func MassByID(id int) (float64, error) {
	switch abs(id) {
	case KaonID:
		return KaonMassMeV, nil
	case PionID:
		return PionMassMeV, nil
	}
	return 0, fmt.Errorf("pdg: no mass hypothesis for ID %d", id)
}

func abs(id int) int {
	if id < 0 {
		return -id
	}
	return id
}
