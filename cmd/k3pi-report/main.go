// Command k3pi-report converts D*-tagged D0 -> K3Pi candidates into
// phase-space coordinates and decay-time bins, then materializes the
// results as CSV, SQLite, overlay plots and an HTML comparison report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/profile"

	"github.com/charm-data/k3pi.report/internal/batch"
	"github.com/charm-data/k3pi.report/internal/config"
	"github.com/charm-data/k3pi.report/internal/decay"
	"github.com/charm-data/k3pi.report/internal/events"
	"github.com/charm-data/k3pi.report/internal/phsp"
	"github.com/charm-data/k3pi.report/internal/report"
	"github.com/charm-data/k3pi.report/internal/stats"
	"github.com/charm-data/k3pi.report/internal/store"
	"github.com/charm-data/k3pi.report/internal/timebin"
	"github.com/charm-data/k3pi.report/internal/version"
)

var (
	inputList     = flag.String("input", "", "Comma-separated candidate files (.csv or .root)")
	treeName      = flag.String("tree", "DecayTree", "Tree name inside ROOT inputs")
	configPath    = flag.String("config", "", "JSON analysis config file")
	outputPath    = flag.String("output", "", "Result CSV path (empty: skip)")
	dbFile        = flag.String("db", "", "SQLite database to store results (empty: skip)")
	migrationsDir = flag.String("migrations", "migrations", "Directory with schema migrations")
	plotDir       = flag.String("plots", "", "Directory for overlay PNGs (empty: skip)")
	htmlPath      = flag.String("html", "", "Path for the HTML report (empty: skip)")
	pairingFlag   = flag.String("pairing", "", "OS-pion pairing policy: ordered or random")
	seedFlag      = flag.Uint64("seed", 0, "Base seed for the random pairing policy")
	workersFlag   = flag.Int("workers", 0, "Worker count (0: one per CPU)")
	verifyFlag    = flag.Bool("verify", false, "Enable the plane-angle cross-check")
	sampleFlag    = flag.String("sample", "", "Candidate filter: RS, WS or BOTH")
	profileRun    = flag.Bool("profile", false, "Profile this run")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

// runConfig is the effective configuration after merging the config
// file with explicitly set flags; flags win.
type runConfig struct {
	pairing string
	seed    uint64
	workers int
	verify  bool
	sample  string
	edges   []float64
	regions []config.Region

	output string
	db     string
	plots  string
	html   string
}

// Main
func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrate(os.Args[2:])
		return
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("k3pi-report %s\n", version.String())
		return
	}
	if *profileRun {
		defer profile.Start().Stop()
	}

	if *inputList == "" {
		log.Fatal("at least one -input file is required")
	}

	cfg := config.EmptyAnalysisConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAnalysisConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	rc := resolveRun(cfg)

	policy, err := phsp.ParsePolicy(rc.pairing)
	if err != nil {
		log.Fatalf("Invalid -pairing: %v", err)
	}
	switch rc.sample {
	case decay.SampleRS, decay.SampleWS, decay.SampleBoth:
	default:
		log.Fatalf("Invalid -sample %q (want RS, WS or BOTH)", rc.sample)
	}
	var bins []timebin.Bin
	if len(rc.edges) > 0 {
		bins, err = timebin.MakeBins(rc.edges)
		if err != nil {
			log.Fatalf("Invalid time bin edges: %v", err)
		}
	}

	rows, err := readInputs(config.SplitList(*inputList), *treeName)
	if err != nil {
		log.Fatalf("Failed to read candidates: %v", err)
	}
	log.Printf("Loaded %d candidates", len(rows))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := batch.Process(ctx, rows, batch.Config{
		Policy:  policy,
		Seed:    rc.seed,
		Workers: rc.workers,
		Verify:  rc.verify,
		Bins:    bins,
	})
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}
	if failed := batch.FailedCount(results); failed > 0 {
		log.Printf("%d of %d candidates failed classification (skipped in exports)",
			failed, len(results))
	}

	results = filterSample(results, rc.sample)
	if rc.sample != decay.SampleBoth {
		log.Printf("Sample filter %s keeps %d candidates", rc.sample, len(results))
	}

	if rc.output != "" {
		if err := batch.WriteCSVFile(rc.output, results); err != nil {
			log.Fatalf("Failed to write results: %v", err)
		}
		log.Printf("Wrote results to %s", rc.output)
	}

	if rc.db != "" {
		if err := storeResults(rc, policy, bins, results); err != nil {
			log.Fatalf("Failed to store results: %v", err)
		}
	}

	logRegionYields(results, rc.regions)

	if rc.plots != "" || rc.html != "" {
		if err := renderReports(rc, bins, results); err != nil {
			log.Fatalf("Failed to render reports: %v", err)
		}
	}
}

// resolveRun merges the loaded config with flags that were set on the
// command line.
func resolveRun(cfg *config.AnalysisConfig) runConfig {
	rc := runConfig{
		pairing: cfg.GetPairing(),
		seed:    cfg.GetSeed(),
		workers: cfg.GetWorkers(),
		verify:  cfg.GetVerifyPlaneAngle(),
		sample:  cfg.GetSample(),
		edges:   cfg.TimeBinEdgesPS,
		regions: cfg.Regions,
		output:  *outputPath,
		db:      cfg.GetDBPath(),
		plots:   cfg.GetPlotDir(),
		html:    cfg.GetHTMLReport(),
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["pairing"] {
		rc.pairing = *pairingFlag
	}
	if set["seed"] {
		rc.seed = *seedFlag
	}
	if set["workers"] {
		rc.workers = *workersFlag
	}
	if set["verify"] {
		rc.verify = *verifyFlag
	}
	if set["sample"] {
		rc.sample = *sampleFlag
	}
	if set["db"] {
		rc.db = *dbFile
	}
	if set["plots"] {
		rc.plots = *plotDir
	}
	if set["html"] {
		rc.html = *htmlPath
	}
	return rc
}

func readInputs(paths []string, tree string) ([]events.Row, error) {
	var rows []events.Row
	for _, path := range paths {
		if path == "" {
			return nil, fmt.Errorf("empty entry in -input list")
		}
		var (
			fileRows []events.Row
			err      error
		)
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".csv":
			fileRows, err = events.ReadCSVFile(path)
		case ".root":
			fileRows, err = events.ReadROOTFile(path, tree)
		default:
			return nil, fmt.Errorf("%s: unsupported input extension %q", path, ext)
		}
		if err != nil {
			return nil, err
		}
		log.Printf("Read %d candidates from %s", len(fileRows), path)
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

func filterSample(results []batch.Result, sample string) []batch.Result {
	if sample == decay.SampleBoth {
		return results
	}
	wantRS := sample == decay.SampleRS
	kept := results[:0]
	for i := range results {
		if results[i].Err == nil && results[i].IsRS == wantRS {
			kept = append(kept, results[i])
		}
	}
	return kept
}

// storeResults materializes the run into SQLite. The schema must be
// current; a stale database fails fast with a hint to run the migrate
// subcommand.
func storeResults(rc runConfig, policy phsp.Policy, bins []timebin.Bin, results []batch.Result) error {
	db, err := store.Open(rc.db)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CheckSchema(*migrationsDir); err != nil {
		return err
	}

	runID, err := store.NewRunStore(db).Insert(&store.Run{
		Source: *inputList,
		Policy: policy.String(),
		Seed:   rc.seed,
	})
	if err != nil {
		return err
	}
	if err := store.NewResultStore(db).InsertBatch(runID, results); err != nil {
		return err
	}
	log.Printf("Stored run %s in %s", runID, rc.db)

	counts, err := store.NewResultStore(db).YieldsByTimeBin(runID)
	if err != nil {
		return err
	}
	for _, bc := range counts {
		label := "unbinned"
		if bc.TimeBin >= 0 && bc.TimeBin < len(bins) {
			label = bins[bc.TimeBin].Label("ps")
		}
		log.Printf("Yields %s: RS=%d WS=%d", label, bc.RS, bc.WS)
	}
	return nil
}

func logRegionYields(results []batch.Result, regions []config.Region) {
	for _, reg := range regions {
		var rs, ws int
		for i := range results {
			r := &results[i]
			if r.Err != nil {
				continue
			}
			var v float64
			switch reg.Variable {
			case "m12":
				v = r.Point.M12
			case "m34":
				v = r.Point.M34
			case "m13":
				v = r.Point.M13
			}
			if !reg.Contains(v) {
				continue
			}
			if r.IsRS {
				rs++
			} else {
				ws++
			}
		}
		log.Printf("Region %q (%s in [%g, %g) MeV): RS=%d WS=%d",
			reg.Name, reg.Variable, reg.LowerMeV, reg.UpperMeV, rs, ws)
	}
}

// renderReports builds the RS/WS overlay per variable and writes the
// requested artifacts.
func renderReports(rc runConfig, bins []timebin.Bin, results []batch.Result) error {
	w := report.NewWriter(nil)

	var (
		sections  []report.Section
		plotNames []string
	)
	for _, v := range report.DefaultVariables() {
		hists := splitHists(results, v.Bins, v.Lo, v.Hi, func(r *batch.Result) (float64, bool) {
			return v.Value(r.Point), true
		})
		if len(hists) == 0 {
			continue
		}
		sections = append(sections, report.Section{Title: v.Title, XLabel: v.XLabel, Hists: hists})
		plotNames = append(plotNames, v.Name)
	}
	tv := report.DecayTimeVariable()
	timeHists := splitHists(results, tv.Bins, tv.Lo, tv.Hi, func(r *batch.Result) (float64, bool) {
		return r.DecayTimePS, r.HasTime
	})
	if len(timeHists) > 0 {
		sections = append(sections, report.Section{Title: tv.Title, XLabel: tv.XLabel, Hists: timeHists})
		plotNames = append(plotNames, tv.Name)
	}

	if rc.plots != "" {
		if err := w.EnsureDir(rc.plots); err != nil {
			return err
		}
		for i, s := range sections {
			path := filepath.Join(rc.plots, plotNames[i]+".png")
			if err := w.SaveOverlayPNG(path, s.Title, s.XLabel, s.Hists); err != nil {
				return err
			}
		}
		log.Printf("Wrote %d plots to %s", len(sections), rc.plots)
	}

	if rc.html != "" {
		var asym *report.AsymmetryTable
		if rc.sample == decay.SampleBoth {
			asym = asymmetryTable(bins, results)
		}
		if err := w.WriteHTML(rc.html, "K3Pi phase-space report", sections, asym); err != nil {
			return err
		}
		log.Printf("Wrote HTML report to %s", rc.html)
	}
	return nil
}

// splitHists books RS and WS histograms over the same range, dropping
// failed rows and non-finite values. Empty series are omitted.
func splitHists(results []batch.Result, nbins int, lo, hi float64, value func(*batch.Result) (float64, bool)) []report.NamedHist {
	var rsCol, wsCol []float64
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		v, ok := value(r)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if r.IsRS {
			rsCol = append(rsCol, v)
		} else {
			wsCol = append(wsCol, v)
		}
	}

	var hists []report.NamedHist
	if len(rsCol) > 0 {
		hists = append(hists, report.NamedHist{Name: "RS", Hist: report.NewHist(nbins, lo, hi, rsCol)})
	}
	if len(wsCol) > 0 {
		hists = append(hists, report.NamedHist{Name: "WS", Hist: report.NewHist(nbins, lo, hi, wsCol)})
	}
	return hists
}

// asymmetryTable computes the per-time-bin RS/WS asymmetry. It needs
// configured bins and candidates on both sides; otherwise the report
// simply omits the table.
func asymmetryTable(bins []timebin.Bin, results []batch.Result) *report.AsymmetryTable {
	if len(bins) == 0 {
		return nil
	}
	rs := make([]int, len(bins))
	ws := make([]int, len(bins))
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.TimeBin < 0 || r.TimeBin >= len(bins) {
			continue
		}
		if r.IsRS {
			rs[r.TimeBin]++
		} else {
			ws[r.TimeBin]++
		}
	}

	table := &report.AsymmetryTable{Title: "RS/WS asymmetry by decay time"}
	for i := range bins {
		if rs[i]+ws[i] == 0 {
			continue
		}
		a, sigma := stats.Asymmetry(float64(rs[i]), float64(ws[i]))
		table.Rows = append(table.Rows, report.AsymmetryRow{
			Label: bins[i].Label("ps"),
			Value: a,
			Sigma: sigma,
		})
	}
	if len(table.Rows) == 0 {
		return nil
	}
	return table
}

func handleMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database path (required)")
	dir := fs.String("migrations", "migrations", "Directory with schema migrations")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: k3pi-report migrate [options] <up|down|status>")
		fs.Usage()
		os.Exit(1)
	}
	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -db flag is required")
		os.Exit(1)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	switch action := fs.Arg(0); action {
	case "up":
		if err := db.MigrateUp(*dir); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "down":
		if err := db.MigrateDown(*dir); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Println("Rolled back one migration")
	case "status":
		current, dirty, err := db.MigrateVersion(*dir)
		if err != nil {
			log.Fatalf("Failed to read schema version: %v", err)
		}
		latest, err := store.LatestMigrationVersion(*dir)
		if err != nil {
			log.Fatalf("Failed to scan migrations: %v", err)
		}
		fmt.Printf("Schema version: %d (latest %d, dirty=%v)\n", current, latest, dirty)
	default:
		fmt.Fprintf(os.Stderr, "Unknown migrate action: %s\n", action)
		os.Exit(1)
	}
}
