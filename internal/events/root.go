package events

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
)

// Branches maps Row fields onto ROOT branch names so differently named
// ntuples stay readable without re-exporting to CSV.
type Branches struct {
	EventID   string
	DStarPiID string
	ID        [4]string
	Pt        [4]string
	Eta       [4]string
	Phi       [4]string

	// CTau is optional; leave empty for trees without a vertex fit.
	CTau string
}

// DefaultBranches matches the D0 -> K3Pi ntuples written by the D*
// selection, with daughters in the D0_P0..D0_P3 slots.
func DefaultBranches() Branches {
	b := Branches{
		EventID:   "eventNumber",
		DStarPiID: "Dst_pi_ID",
		CTau:      "D0_CTAU",
	}
	for slot := 0; slot < 4; slot++ {
		b.ID[slot] = fmt.Sprintf("D0_P%d_ID", slot)
		b.Pt[slot] = fmt.Sprintf("D0_P%d_PT", slot)
		b.Eta[slot] = fmt.Sprintf("D0_P%d_ETA", slot)
		b.Phi[slot] = fmt.Sprintf("D0_P%d_PHI", slot)
	}
	return b
}

// ReadROOTFile reads all candidates from the named tree using the
// default branch layout.
func ReadROOTFile(path, tree string) ([]Row, error) {
	return ReadROOTFileWith(path, tree, DefaultBranches())
}

// ReadROOTFileWith reads all candidates from the named tree with a
// caller-supplied branch mapping. IDs are read as 32-bit integers and
// kinematics as doubles, the layout the selection writes.
func ReadROOTFileWith(path, tree string, br Branches) ([]Row, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("events: open %s: %w", path, err)
	}
	defer f.Close()

	obj, err := f.Get(tree)
	if err != nil {
		return nil, fmt.Errorf("events: %s: get tree %q: %w", path, tree, err)
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		return nil, fmt.Errorf("events: %s: object %q is a %T, not a tree", path, tree, obj)
	}

	var (
		evt  uint64
		dst  int32
		ids  [4]int32
		pt   [4]float64
		eta  [4]float64
		phi  [4]float64
		ctau float64
	)
	rvars := []rtree.ReadVar{
		{Name: br.EventID, Value: &evt},
		{Name: br.DStarPiID, Value: &dst},
	}
	for slot := 0; slot < 4; slot++ {
		rvars = append(rvars,
			rtree.ReadVar{Name: br.ID[slot], Value: &ids[slot]},
			rtree.ReadVar{Name: br.Pt[slot], Value: &pt[slot]},
			rtree.ReadVar{Name: br.Eta[slot], Value: &eta[slot]},
			rtree.ReadVar{Name: br.Phi[slot], Value: &phi[slot]},
		)
	}
	hasCTau := br.CTau != ""
	if hasCTau {
		rvars = append(rvars, rtree.ReadVar{Name: br.CTau, Value: &ctau})
	}

	r, err := rtree.NewReader(t, rvars)
	if err != nil {
		return nil, fmt.Errorf("events: %s: reader for %q: %w", path, tree, err)
	}
	defer r.Close()

	rows := make([]Row, 0, t.Entries())
	err = r.Read(func(rctx rtree.RCtx) error {
		row := Row{
			EventID:   evt,
			DStarPiID: int(dst),
			CTauMM:    ctau,
			HasCTau:   hasCTau,
		}
		for slot := 0; slot < 4; slot++ {
			row.IDs[slot] = int(ids[slot])
			row.Pt[slot] = pt[slot]
			row.Eta[slot] = eta[slot]
			row.Phi[slot] = phi[slot]
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("events: %s: read %q: %w", path, tree, err)
	}
	return rows, nil
}
