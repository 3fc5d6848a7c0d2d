package main

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/charm-data/k3pi.report/internal/batch"
	"github.com/charm-data/k3pi.report/internal/phsp"
)

func TestRunComparison(t *testing.T) {
	cfg := Config{FileA: "a.csv", FileB: "b.csv", LabelA: "ordered", LabelB: "random"}

	resultsA := []batch.Result{
		{EventID: 1, IsRS: true, Point: phsp.Point{M34: 800}, TimeBin: 0, HasTime: true, DecayTimePS: 0.2},
		{EventID: 2, IsRS: false, Point: phsp.Point{M34: 850}, TimeBin: 0},
		{EventID: 3, IsRS: true, Point: phsp.Point{M34: 900}, TimeBin: 1, HasTime: true, DecayTimePS: 1.5},
		{EventID: 4, IsRS: false, Point: phsp.Point{M34: 950}, TimeBin: 1},
		{EventID: 6, IsRS: true, Point: phsp.Point{M34: 960}, TimeBin: -1},
	}
	// Events 1, 3 and 6 keep the kaon partner (identical m34), event 2
	// swaps it. Event 9 has no counterpart in A.
	resultsB := []batch.Result{
		{EventID: 1, IsRS: true, Point: phsp.Point{M34: 800}, TimeBin: 0, HasTime: true, DecayTimePS: 0.2},
		{EventID: 2, IsRS: false, Point: phsp.Point{M34: 1100}, TimeBin: 0},
		{EventID: 3, IsRS: true, Point: phsp.Point{M34: 900}, TimeBin: 1},
		{EventID: 6, IsRS: true, Point: phsp.Point{M34: 960}, TimeBin: 1},
		{EventID: 9, IsRS: false, Point: phsp.Point{M34: 700}, TimeBin: -1},
	}

	got := runComparison(cfg, resultsA, resultsB)

	want := &ComparisonResult{
		A:             SampleStats{File: "a.csv", Label: "ordered", Total: 5, RS: 3, WS: 2, WithTime: 2},
		B:             SampleStats{File: "b.csv", Label: "random", Total: 5, RS: 3, WS: 2, WithTime: 1},
		MatchedEvents: 4,
		SamePartner:   3,
		AgreementPct:  75,
		BinAsymmetries: []BinAsymmetry{
			{TimeBin: 0, CountA: 2, CountB: 2, Value: 0, Sigma: 0.5},
			{TimeBin: 1, CountA: 2, CountB: 2, Value: 0, Sigma: 0.5},
		},
		MeanAsymmetry: 0,
		MeanSigma:     1 / math.Sqrt(8),
		HasMean:       true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Comparison mismatch (-want +got):\n%s", diff)
	}
}

func TestRunComparisonUnbinned(t *testing.T) {
	cfg := Config{FileA: "a.csv", FileB: "b.csv", LabelA: "A", LabelB: "B"}

	resultsA := []batch.Result{
		{EventID: 1, IsRS: true, Point: phsp.Point{M34: 800}, TimeBin: -1},
	}
	resultsB := []batch.Result{
		{EventID: 1, IsRS: true, Point: phsp.Point{M34: 800}, TimeBin: -1},
	}

	got := runComparison(cfg, resultsA, resultsB)
	if len(got.BinAsymmetries) != 0 {
		t.Errorf("Expected no bin asymmetries for unbinned results, got %d", len(got.BinAsymmetries))
	}
	if got.HasMean {
		t.Error("Expected no weighted mean without time bins")
	}
	if got.MatchedEvents != 1 || got.SamePartner != 1 {
		t.Errorf("Matched=%d SamePartner=%d, want 1 and 1", got.MatchedEvents, got.SamePartner)
	}
}

func TestBinCounts(t *testing.T) {
	results := []batch.Result{
		{TimeBin: 2},
		{TimeBin: 0},
		{TimeBin: 2},
		{TimeBin: -1},
	}

	got := binCounts(results)
	want := []int{1, 0, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bin counts mismatch (-want +got):\n%s", diff)
	}

	if counts := binCounts(nil); len(counts) != 0 {
		t.Errorf("Expected no bins for empty input, got %v", counts)
	}
}
