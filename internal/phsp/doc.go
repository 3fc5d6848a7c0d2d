// Package phsp converts one classified K3Pi candidate into its
// five-dimensional phase-space coordinates: the two pair masses, the two
// pair helicity cosines and the angle between the decay planes.
//
// The conversion runs entirely in the mother rest frame. The two
// opposite-sign pions are interchangeable until a pairing policy splits
// them between the Kpi pair and the pipi pair; both the deterministic
// smaller-mass rule and an explicitly seeded random split are provided
// so results stay reproducible event by event.
package phsp
