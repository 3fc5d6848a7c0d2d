package decay

import (
	"fmt"

	"github.com/charm-data/k3pi.report/internal/pdg"
)

// Role names a daughter by its physics function in the K3Pi final state
// instead of its storage slot. Charge is stated relative to the kaon:
// the same-sign pion carries the kaon's charge, the two opposite-sign
// pions carry the other one.
type Role int

const (
	RoleKaon Role = iota
	RoleSSPion
	RoleOSPion1
	RoleOSPion2
	numRoles
)

func (r Role) String() string {
	switch r {
	case RoleKaon:
		return "K"
	case RoleSSPion:
		return "pi(SS)"
	case RoleOSPion1:
		return "pi(OS1)"
	case RoleOSPion2:
		return "pi(OS2)"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// RoleMap assigns each Role a slot index into the fixed daughter order.
// A valid map is a bijection over the four slots.
type RoleMap [numRoles]int

// Slot returns the slot index holding role.
func (m RoleMap) Slot(r Role) int { return m[r] }

// FindKaon returns the slot holding the single kaon (|ID| == 321).
// Anything but exactly one candidate is an invalid topology.
func FindKaon(ids [4]int) (int, error) {
	slot, found := -1, 0
	for i, id := range ids {
		if id == pdg.KaonID || id == -pdg.KaonID {
			slot = i
			found++
		}
	}
	if found != 1 {
		return -1, &TopologyError{Lookup: "find kaon", IDs: ids, Got: found, Want: 1}
	}
	return slot, nil
}

// IsKaonNeg reports whether the kaon in kaonSlot is negatively charged.
func IsKaonNeg(kaonSlot int, ids [4]int) bool {
	return ids[kaonSlot] < 0
}

// FindSSPion returns the slot of the single pion whose charge matches
// the kaon's.
func FindSSPion(kaonNeg bool, ids [4]int) (int, error) {
	want := pdg.PionID
	if kaonNeg {
		want = -pdg.PionID
	}
	slot, found := -1, 0
	for i, id := range ids {
		if id == want {
			slot = i
			found++
		}
	}
	if found != 1 {
		return -1, &TopologyError{Lookup: "find same-sign pion", IDs: ids, Got: found, Want: 1}
	}
	return slot, nil
}

// FindOSPions returns the two slots holding pions charged opposite the
// kaon, in slot order. The first of the two is the "first-listed" pion
// the pairing policies refer to.
func FindOSPions(kaonNeg bool, ids [4]int) ([2]int, error) {
	want := -pdg.PionID
	if kaonNeg {
		want = pdg.PionID
	}
	var slots [2]int
	found := 0
	for i, id := range ids {
		if id == want {
			if found < 2 {
				slots[found] = i
			}
			found++
		}
	}
	if found != 2 {
		return [2]int{}, &TopologyError{Lookup: "find opposite-sign pions", IDs: ids, Got: found, Want: 2}
	}
	return slots, nil
}

// Classify partitions the four slots into roles. Valid inputs hold one
// kaon, one pion matching the kaon's charge and two pions opposing it;
// every slot ends up with exactly one role.
func Classify(ids [4]int) (RoleMap, error) {
	kaon, err := FindKaon(ids)
	if err != nil {
		return RoleMap{}, err
	}
	kaonNeg := IsKaonNeg(kaon, ids)
	ss, err := FindSSPion(kaonNeg, ids)
	if err != nil {
		return RoleMap{}, err
	}
	os, err := FindOSPions(kaonNeg, ids)
	if err != nil {
		return RoleMap{}, err
	}

	var m RoleMap
	m[RoleKaon] = kaon
	m[RoleSSPion] = ss
	m[RoleOSPion1] = os[0]
	m[RoleOSPion2] = os[1]
	return m, nil
}
