// Package config loads the JSON analysis configuration driving a
// conversion run. All fields are optional pointers so a partial file
// overrides only what it names; the Get* accessors supply defaults for
// the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// AnalysisConfig mirrors the CLI flags so a run can be captured in a
// single reviewable file. Flags override loaded values.
type AnalysisConfig struct {
	// Pairing selects the OS-pion pairing policy, "ordered" or "random".
	Pairing *string `json:"pairing,omitempty"`
	// Seed is the base seed for the random pairing policy.
	Seed *uint64 `json:"seed,omitempty"`
	// Workers bounds the evaluation pool; 0 selects GOMAXPROCS.
	Workers *int `json:"workers,omitempty"`
	// VerifyPlaneAngle enables the arccos cross-check diagnostic.
	VerifyPlaneAngle *bool `json:"verify_plane_angle,omitempty"`
	// TimeBinEdgesPS are the strictly increasing upper decay-time bin
	// edges in picoseconds.
	TimeBinEdgesPS []float64 `json:"time_bin_edges_ps,omitempty"`
	// Sample filters candidates: "RS", "WS" or "BOTH".
	Sample *string `json:"sample,omitempty"`
	// PlotDir receives the overlay PNGs when set.
	PlotDir *string `json:"plot_dir,omitempty"`
	// HTMLReport is the path of the rendered echarts report when set.
	HTMLReport *string `json:"html_report,omitempty"`
	// DBPath is the SQLite file results are materialized into when set.
	DBPath *string `json:"db_path,omitempty"`
	// Regions are named mass windows reported per run.
	Regions []Region `json:"regions,omitempty"`
}

// Region is a half-open [LowerMeV, UpperMeV) window on one of the
// pair-mass variables, used for per-window yield summaries.
type Region struct {
	Name string `json:"name"`
	// Variable names the mass the window cuts on: "m12", "m34" or "m13".
	Variable string  `json:"variable"`
	LowerMeV float64 `json:"lower_mev"`
	UpperMeV float64 `json:"upper_mev"`
}

// Contains reports whether m falls inside the window.
func (r Region) Contains(m float64) bool {
	return m >= r.LowerMeV && m < r.UpperMeV
}

// DefaultConfigPath is the canonical analysis defaults file, relative
// to the repository root.
const DefaultConfigPath = "config/analysis.defaults.json"

// Pointer helpers for constructing configs in code and tests.
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }
func ptrUint64(v uint64) *uint64 { return &v }

// EmptyAnalysisConfig returns a config with every field unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// MustLoadDefaultConfig loads the canonical defaults from
// DefaultConfigPath, searching the current directory and common parent
// directories. Panics if the file cannot be loaded, intended for test
// setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// LoadAnalysisConfig loads and validates a JSON config file. The file
// must carry a .json extension and stay under 1MB; fields omitted from
// the file keep their defaults, so partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values that have been set.
func (c *AnalysisConfig) Validate() error {
	if c.Pairing != nil {
		switch *c.Pairing {
		case "ordered", "random":
		default:
			return fmt.Errorf("pairing must be \"ordered\" or \"random\", got %q", *c.Pairing)
		}
	}
	for i := 1; i < len(c.TimeBinEdgesPS); i++ {
		if !(c.TimeBinEdgesPS[i] > c.TimeBinEdgesPS[i-1]) {
			return fmt.Errorf("time_bin_edges_ps must be strictly increasing, got %g after %g",
				c.TimeBinEdgesPS[i], c.TimeBinEdgesPS[i-1])
		}
	}
	if c.Sample != nil {
		switch *c.Sample {
		case "RS", "WS", "BOTH":
		default:
			return fmt.Errorf("sample must be \"RS\", \"WS\" or \"BOTH\", got %q", *c.Sample)
		}
	}
	for _, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("region with bounds [%g, %g) has no name", r.LowerMeV, r.UpperMeV)
		}
		switch r.Variable {
		case "m12", "m34", "m13":
		default:
			return fmt.Errorf("region %q variable must be \"m12\", \"m34\" or \"m13\", got %q",
				r.Name, r.Variable)
		}
		if !(r.LowerMeV < r.UpperMeV) {
			return fmt.Errorf("region %q bounds must satisfy lower < upper, got [%g, %g)",
				r.Name, r.LowerMeV, r.UpperMeV)
		}
	}
	return nil
}

// GetPairing returns the pairing policy name or the default.
func (c *AnalysisConfig) GetPairing() string {
	if c.Pairing == nil {
		return "ordered"
	}
	return *c.Pairing
}

// GetSeed returns the base seed or the default.
func (c *AnalysisConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 1
	}
	return *c.Seed
}

// GetWorkers returns the worker bound or the default (0, GOMAXPROCS).
func (c *AnalysisConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetVerifyPlaneAngle returns the verification toggle or the default.
func (c *AnalysisConfig) GetVerifyPlaneAngle() bool {
	if c.VerifyPlaneAngle == nil {
		return false
	}
	return *c.VerifyPlaneAngle
}

// GetSample returns the sample filter or the default.
func (c *AnalysisConfig) GetSample() string {
	if c.Sample == nil {
		return "BOTH"
	}
	return *c.Sample
}

// GetPlotDir returns the plot directory; empty disables plotting.
func (c *AnalysisConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}

// GetHTMLReport returns the report path; empty disables the report.
func (c *AnalysisConfig) GetHTMLReport() string {
	if c.HTMLReport == nil {
		return ""
	}
	return *c.HTMLReport
}

// GetDBPath returns the SQLite path; empty disables materialization.
func (c *AnalysisConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// SplitList splits a comma-separated flag value after stripping every
// whitespace character, preserving empty entries so positional lists
// keep their arity. An all-whitespace input yields a single empty
// entry, matching the upstream scripts.
func SplitList(s string) []string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Split(clean, ",")
}
