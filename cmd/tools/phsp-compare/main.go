// Package main provides a comparison tool for phase-space result sets.
// It overlays the kinematic distributions of two runs, reports how often
// the runs agree on the kaon partner pion event by event, and summarizes
// the per-time-bin yield asymmetry between them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/charm-data/k3pi.report/internal/batch"
	"github.com/charm-data/k3pi.report/internal/report"
	"github.com/charm-data/k3pi.report/internal/stats"
	"github.com/charm-data/k3pi.report/internal/version"
)

// Config holds configuration for the comparison.
type Config struct {
	FileA   string
	FileB   string
	LabelA  string
	LabelB  string
	PlotDir string
	HTMLOut string
	JSONOut string
	Version bool
}

// SampleStats holds per-file candidate counts.
type SampleStats struct {
	File     string `json:"file"`
	Label    string `json:"label"`
	Total    int    `json:"total"`
	RS       int    `json:"rs"`
	WS       int    `json:"ws"`
	WithTime int    `json:"with_time"`
}

// BinAsymmetry is the A/B yield asymmetry in one decay-time bin.
type BinAsymmetry struct {
	TimeBin int     `json:"time_bin"`
	CountA  int     `json:"count_a"`
	CountB  int     `json:"count_b"`
	Value   float64 `json:"value"`
	Sigma   float64 `json:"sigma"`
}

// ComparisonResult holds the results of comparing two result sets.
type ComparisonResult struct {
	A              SampleStats    `json:"a"`
	B              SampleStats    `json:"b"`
	MatchedEvents  int            `json:"matched_events"`
	SamePartner    int            `json:"same_partner"`
	AgreementPct   float64        `json:"agreement_pct"`
	BinAsymmetries []BinAsymmetry `json:"bin_asymmetries,omitempty"`
	MeanAsymmetry  float64        `json:"mean_asymmetry"`
	MeanSigma      float64        `json:"mean_sigma"`
	HasMean        bool           `json:"has_mean"`
}

func main() {
	cfg := parseFlags()

	if cfg.Version {
		fmt.Printf("phsp-compare %s\n", version.String())
		return
	}
	if cfg.FileA == "" || cfg.FileB == "" {
		log.Fatal("both -a and -b result files are required")
	}

	resultsA, err := batch.ReadCSVFile(cfg.FileA)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.FileA, err)
	}
	resultsB, err := batch.ReadCSVFile(cfg.FileB)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.FileB, err)
	}
	log.Printf("Loaded %d candidates from %s and %d from %s",
		len(resultsA), cfg.FileA, len(resultsB), cfg.FileB)

	result := runComparison(cfg, resultsA, resultsB)
	printResults(result)

	if cfg.PlotDir != "" || cfg.HTMLOut != "" {
		if err := renderComparison(cfg, resultsA, resultsB, result); err != nil {
			log.Fatalf("Failed to render comparison: %v", err)
		}
	}

	if cfg.JSONOut != "" {
		if err := exportJSON(result, cfg.JSONOut); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("Results exported to: %s", cfg.JSONOut)
		}
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.FileA, "a", "", "First result CSV")
	flag.StringVar(&cfg.FileB, "b", "", "Second result CSV")
	flag.StringVar(&cfg.LabelA, "label-a", "A", "Series label for the first file")
	flag.StringVar(&cfg.LabelB, "label-b", "B", "Series label for the second file")
	flag.StringVar(&cfg.PlotDir, "plots", "", "Directory for overlay PNGs (empty: skip)")
	flag.StringVar(&cfg.HTMLOut, "html", "", "Path for the HTML report (empty: skip)")
	flag.StringVar(&cfg.JSONOut, "json", "", "Path for the JSON summary (empty: skip)")
	flag.BoolVar(&cfg.Version, "version", false, "Print version and exit")

	flag.Parse()

	return cfg
}

func runComparison(cfg Config, resultsA, resultsB []batch.Result) *ComparisonResult {
	result := &ComparisonResult{
		A: sampleStats(cfg.FileA, cfg.LabelA, resultsA),
		B: sampleStats(cfg.FileB, cfg.LabelB, resultsB),
	}

	// The export round-trips exact float bits, so an unchanged kaon
	// partner reproduces m34 exactly; any partner swap moves it.
	byEvent := make(map[uint64]float64, len(resultsA))
	for i := range resultsA {
		byEvent[resultsA[i].EventID] = resultsA[i].Point.M34
	}
	for i := range resultsB {
		m34, ok := byEvent[resultsB[i].EventID]
		if !ok {
			continue
		}
		result.MatchedEvents++
		if m34 == resultsB[i].Point.M34 {
			result.SamePartner++
		}
	}
	if result.MatchedEvents > 0 {
		result.AgreementPct = 100 * float64(result.SamePartner) / float64(result.MatchedEvents)
	}

	countsA := binCounts(resultsA)
	countsB := binCounts(resultsB)
	nbins := len(countsA)
	if len(countsB) > nbins {
		nbins = len(countsB)
	}
	var values, sigmas []float64
	for bin := 0; bin < nbins; bin++ {
		var na, nb int
		if bin < len(countsA) {
			na = countsA[bin]
		}
		if bin < len(countsB) {
			nb = countsB[bin]
		}
		if na+nb == 0 {
			continue
		}
		a, sigma := stats.Asymmetry(float64(na), float64(nb))
		result.BinAsymmetries = append(result.BinAsymmetries, BinAsymmetry{
			TimeBin: bin,
			CountA:  na,
			CountB:  nb,
			Value:   a,
			Sigma:   sigma,
		})
		if sigma > 0 {
			values = append(values, a)
			sigmas = append(sigmas, sigma)
		}
	}
	if mean, sigma, err := stats.WeightedMeanByError(values, sigmas); err == nil {
		result.MeanAsymmetry = mean
		result.MeanSigma = sigma
		result.HasMean = true
	}

	return result
}

func sampleStats(file, label string, results []batch.Result) SampleStats {
	s := SampleStats{File: file, Label: label, Total: len(results)}
	for i := range results {
		if results[i].IsRS {
			s.RS++
		} else {
			s.WS++
		}
		if results[i].HasTime {
			s.WithTime++
		}
	}
	return s
}

// binCounts tallies candidates per decay-time bin, ignoring unbinned
// rows (bin -1).
func binCounts(results []batch.Result) []int {
	var counts []int
	for i := range results {
		bin := results[i].TimeBin
		if bin < 0 {
			continue
		}
		for len(counts) <= bin {
			counts = append(counts, 0)
		}
		counts[bin]++
	}
	return counts
}

func renderComparison(cfg Config, resultsA, resultsB []batch.Result, result *ComparisonResult) error {
	w := report.NewWriter(nil)

	var (
		sections  []report.Section
		plotNames []string
	)
	for _, v := range report.DefaultVariables() {
		hists := overlay(cfg, resultsA, resultsB, v.Bins, v.Lo, v.Hi,
			func(r *batch.Result) (float64, bool) { return v.Value(r.Point), true })
		if len(hists) == 0 {
			continue
		}
		sections = append(sections, report.Section{Title: v.Title, XLabel: v.XLabel, Hists: hists})
		plotNames = append(plotNames, v.Name)
	}
	tv := report.DecayTimeVariable()
	timeHists := overlay(cfg, resultsA, resultsB, tv.Bins, tv.Lo, tv.Hi,
		func(r *batch.Result) (float64, bool) { return r.DecayTimePS, r.HasTime })
	if len(timeHists) > 0 {
		sections = append(sections, report.Section{Title: tv.Title, XLabel: tv.XLabel, Hists: timeHists})
		plotNames = append(plotNames, tv.Name)
	}

	if cfg.PlotDir != "" {
		if err := w.EnsureDir(cfg.PlotDir); err != nil {
			return err
		}
		for i, s := range sections {
			path := filepath.Join(cfg.PlotDir, plotNames[i]+".png")
			if err := w.SaveOverlayPNG(path, s.Title, s.XLabel, s.Hists); err != nil {
				return err
			}
		}
		log.Printf("Wrote %d plots to %s", len(sections), cfg.PlotDir)
	}

	if cfg.HTMLOut != "" {
		var asym *report.AsymmetryTable
		if len(result.BinAsymmetries) > 0 {
			asym = &report.AsymmetryTable{
				Title:  fmt.Sprintf("%s/%s yield asymmetry by decay time", cfg.LabelA, cfg.LabelB),
				YLabel: fmt.Sprintf("(%s-%s)/(%s+%s)", cfg.LabelA, cfg.LabelB, cfg.LabelA, cfg.LabelB),
			}
			for _, tb := range result.BinAsymmetries {
				asym.Rows = append(asym.Rows, report.AsymmetryRow{
					Label: fmt.Sprintf("time bin %d", tb.TimeBin),
					Value: tb.Value,
					Sigma: tb.Sigma,
				})
			}
		}
		title := fmt.Sprintf("Phase-space comparison: %s vs %s", cfg.LabelA, cfg.LabelB)
		if err := w.WriteHTML(cfg.HTMLOut, title, sections, asym); err != nil {
			return err
		}
		log.Printf("Wrote HTML report to %s", cfg.HTMLOut)
	}
	return nil
}

// overlay books one histogram per file over a shared range, dropping
// non-finite values. Empty series are omitted.
func overlay(cfg Config, resultsA, resultsB []batch.Result, nbins int, lo, hi float64, value func(*batch.Result) (float64, bool)) []report.NamedHist {
	var hists []report.NamedHist
	if col := column(resultsA, value); len(col) > 0 {
		hists = append(hists, report.NamedHist{Name: cfg.LabelA, Hist: report.NewHist(nbins, lo, hi, col)})
	}
	if col := column(resultsB, value); len(col) > 0 {
		hists = append(hists, report.NamedHist{Name: cfg.LabelB, Hist: report.NewHist(nbins, lo, hi, col)})
	}
	return hists
}

func column(results []batch.Result, value func(*batch.Result) (float64, bool)) []float64 {
	var col []float64
	for i := range results {
		v, ok := value(&results[i])
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		col = append(col, v)
	}
	return col
}

func printResults(result *ComparisonResult) {
	fmt.Println("\n=== Phase-Space Comparison ===")
	printSample(result.A)
	printSample(result.B)

	fmt.Println("\n--- Pairing Agreement ---")
	fmt.Printf("Matched events: %d\n", result.MatchedEvents)
	fmt.Printf("Same kaon partner: %d (%.2f%%)\n", result.SamePartner, result.AgreementPct)

	if len(result.BinAsymmetries) > 0 {
		fmt.Println("\n--- Yield Asymmetry by Time Bin ---")
		for _, tb := range result.BinAsymmetries {
			fmt.Printf("  bin %d: %s=%d %s=%d asym=%.4f +- %.4f\n",
				tb.TimeBin, result.A.Label, tb.CountA, result.B.Label, tb.CountB, tb.Value, tb.Sigma)
		}
		if result.HasMean {
			fmt.Printf("Weighted mean: %.4f +- %.4f\n", result.MeanAsymmetry, result.MeanSigma)
		}
	}
}

func printSample(s SampleStats) {
	fmt.Printf("\n%s (%s):\n", s.Label, s.File)
	fmt.Printf("  Candidates: %d\n", s.Total)
	fmt.Printf("  RS: %d  WS: %d\n", s.RS, s.WS)
	fmt.Printf("  With decay time: %d\n", s.WithTime)
}

func exportJSON(result *ComparisonResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
