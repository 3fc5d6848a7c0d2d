// Package events reads reconstructed D*-tagged K3Pi candidates from the
// upstream ntuples, either the flat CSV export or the ROOT files the
// selection writes directly.
package events

// Row is one candidate as delivered by the host pipeline: the four
// daughters in their upstream slot order plus the D* tag. Momenta are in
// MeV, angles in radians, decay lengths in millimetres.
type Row struct {
	EventID   uint64
	DStarPiID int
	IDs       [4]int
	Pt        [4]float64
	Eta       [4]float64
	Phi       [4]float64

	// CTauMM is the measured D0 flight distance; valid only when
	// HasCTau is set (simulation without a vertex fit omits it).
	CTauMM  float64
	HasCTau bool
}
