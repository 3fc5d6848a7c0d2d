package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmptyAnalysisConfigDefaults(t *testing.T) {
	cfg := EmptyAnalysisConfig()

	if cfg.GetPairing() != "ordered" {
		t.Errorf("GetPairing() = %q, want \"ordered\"", cfg.GetPairing())
	}
	if cfg.GetSeed() != 1 {
		t.Errorf("GetSeed() = %d, want 1", cfg.GetSeed())
	}
	if cfg.GetWorkers() != 0 {
		t.Errorf("GetWorkers() = %d, want 0", cfg.GetWorkers())
	}
	if cfg.GetVerifyPlaneAngle() != false {
		t.Errorf("GetVerifyPlaneAngle() = %v, want false", cfg.GetVerifyPlaneAngle())
	}
	if cfg.GetSample() != "BOTH" {
		t.Errorf("GetSample() = %q, want \"BOTH\"", cfg.GetSample())
	}
	if cfg.GetPlotDir() != "" {
		t.Errorf("GetPlotDir() = %q, want empty", cfg.GetPlotDir())
	}
	if cfg.GetHTMLReport() != "" {
		t.Errorf("GetHTMLReport() = %q, want empty", cfg.GetHTMLReport())
	}
	if cfg.GetDBPath() != "" {
		t.Errorf("GetDBPath() = %q, want empty", cfg.GetDBPath())
	}
}

func TestLoadAnalysisConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "pairing": "random",
  "seed": 42,
  "workers": 4,
  "verify_plane_angle": true,
  "time_bin_edges_ps": [0.5, 1.0, 2.0],
  "sample": "RS",
  "plot_dir": "plots",
  "html_report": "report.html",
  "db_path": "results.sqlite3",
  "regions": [
    {"name": "K*(892) window", "variable": "m34", "lower_mev": 792, "upper_mev": 992}
  ]
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadAnalysisConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Pairing == nil || *cfg.Pairing != "random" {
		t.Errorf("Expected Pairing \"random\", got %v", cfg.Pairing)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Errorf("Expected Seed 42, got %v", cfg.Seed)
	}
	if cfg.Workers == nil || *cfg.Workers != 4 {
		t.Errorf("Expected Workers 4, got %v", cfg.Workers)
	}
	if cfg.VerifyPlaneAngle == nil || *cfg.VerifyPlaneAngle != true {
		t.Errorf("Expected VerifyPlaneAngle true, got %v", cfg.VerifyPlaneAngle)
	}
	if want := []float64{0.5, 1.0, 2.0}; !reflect.DeepEqual(cfg.TimeBinEdgesPS, want) {
		t.Errorf("Expected TimeBinEdgesPS %v, got %v", want, cfg.TimeBinEdgesPS)
	}
	if cfg.GetSample() != "RS" {
		t.Errorf("GetSample() = %q, want \"RS\"", cfg.GetSample())
	}
	if cfg.GetPlotDir() != "plots" {
		t.Errorf("GetPlotDir() = %q, want \"plots\"", cfg.GetPlotDir())
	}
	if cfg.GetHTMLReport() != "report.html" {
		t.Errorf("GetHTMLReport() = %q, want \"report.html\"", cfg.GetHTMLReport())
	}
	if cfg.GetDBPath() != "results.sqlite3" {
		t.Errorf("GetDBPath() = %q, want \"results.sqlite3\"", cfg.GetDBPath())
	}
	if len(cfg.Regions) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(cfg.Regions))
	}
	r := cfg.Regions[0]
	if r.Name != "K*(892) window" || r.Variable != "m34" || r.LowerMeV != 792 || r.UpperMeV != 992 {
		t.Errorf("Unexpected region: %+v", r)
	}
}

func TestLoadAnalysisConfigMissing(t *testing.T) {
	_, err := LoadAnalysisConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadAnalysisConfigInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "pairing": "random"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadAnalysisConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestAnalysisConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *AnalysisConfig
		wantErr bool
	}{
		{
			name:    "empty config is valid",
			cfg:     EmptyAnalysisConfig(),
			wantErr: false,
		},
		{
			name: "valid full config",
			cfg: &AnalysisConfig{
				Pairing:        ptrString("random"),
				Seed:           ptrUint64(7),
				Workers:        ptrInt(2),
				TimeBinEdgesPS: []float64{0.5, 1.5},
				Sample:         ptrString("WS"),
				Regions: []Region{
					{Name: "window", Variable: "m12", LowerMeV: 600, UpperMeV: 900},
				},
			},
			wantErr: false,
		},
		{
			name: "unknown pairing policy",
			cfg: &AnalysisConfig{
				Pairing: ptrString("alternating"),
			},
			wantErr: true,
		},
		{
			name: "non-increasing bin edges",
			cfg: &AnalysisConfig{
				TimeBinEdgesPS: []float64{1.0, 1.0, 2.0},
			},
			wantErr: true,
		},
		{
			name: "decreasing bin edges",
			cfg: &AnalysisConfig{
				TimeBinEdgesPS: []float64{2.0, 1.0},
			},
			wantErr: true,
		},
		{
			name: "unknown sample",
			cfg: &AnalysisConfig{
				Sample: ptrString("SS"),
			},
			wantErr: true,
		},
		{
			name: "verify flag alone",
			cfg: &AnalysisConfig{
				VerifyPlaneAngle: ptrBool(true),
			},
			wantErr: false,
		},
		{
			name: "region without name",
			cfg: &AnalysisConfig{
				Regions: []Region{{Variable: "m34", LowerMeV: 1, UpperMeV: 2}},
			},
			wantErr: true,
		},
		{
			name: "region with unknown variable",
			cfg: &AnalysisConfig{
				Regions: []Region{{Name: "w", Variable: "m24", LowerMeV: 1, UpperMeV: 2}},
			},
			wantErr: true,
		},
		{
			name: "region with inverted bounds",
			cfg: &AnalysisConfig{
				Regions: []Region{{Name: "w", Variable: "m34", LowerMeV: 2, UpperMeV: 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAnalysisConfigPartial(t *testing.T) {
	// Partial config: only the seed; everything else keeps defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	partialJSON := `{
  "seed": 99
}`
	if err := os.WriteFile(configPath, []byte(partialJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadAnalysisConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}

	if cfg.GetSeed() != 99 {
		t.Errorf("Expected overridden seed 99, got %d", cfg.GetSeed())
	}
	if cfg.GetPairing() != "ordered" {
		t.Errorf("Expected default pairing \"ordered\", got %q", cfg.GetPairing())
	}
	if cfg.GetSample() != "BOTH" {
		t.Errorf("Expected default sample \"BOTH\", got %q", cfg.GetSample())
	}
	if cfg.TimeBinEdgesPS != nil {
		t.Errorf("Expected nil TimeBinEdgesPS, got %v", cfg.TimeBinEdgesPS)
	}
}

func TestLoadAnalysisConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadAnalysisConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadAnalysisConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	_, err := LoadAnalysisConfig(configPath)
	if err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestLoadDefaultsFile(t *testing.T) {
	cfg, err := LoadAnalysisConfig("../../" + DefaultConfigPath)
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if cfg.GetPairing() != "ordered" {
		t.Errorf("Expected \"ordered\", got %q", cfg.GetPairing())
	}
	if cfg.GetSeed() != 1 {
		t.Errorf("Expected seed 1, got %d", cfg.GetSeed())
	}
	if len(cfg.TimeBinEdgesPS) != 4 {
		t.Errorf("Expected 4 bin edges, got %d", len(cfg.TimeBinEdgesPS))
	}
}

func TestLoadExampleFile(t *testing.T) {
	cfg, err := LoadAnalysisConfig("../../config/analysis.example.json")
	if err != nil {
		t.Fatalf("Failed to load example: %v", err)
	}
	if cfg.GetPairing() != "random" {
		t.Errorf("Expected \"random\", got %q", cfg.GetPairing())
	}
	if cfg.GetVerifyPlaneAngle() != true {
		t.Errorf("Expected verify enabled, got %v", cfg.GetVerifyPlaneAngle())
	}
	if len(cfg.Regions) != 3 {
		t.Errorf("Expected 3 regions, got %d", len(cfg.Regions))
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetPairing() != "ordered" {
		t.Errorf("Expected \"ordered\", got %q", cfg.GetPairing())
	}
}

func TestRegionContains(t *testing.T) {
	r := Region{Name: "w", Variable: "m34", LowerMeV: 792, UpperMeV: 992}

	tests := []struct {
		m    float64
		want bool
	}{
		{m: 791.999, want: false},
		{m: 792, want: true}, // lower edge inclusive
		{m: 892, want: true},
		{m: 992, want: false}, // upper edge exclusive
		{m: 1200, want: false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.m); got != tt.want {
			t.Errorf("Contains(%g) = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "plain list",
			in:   "a.csv,b.csv,c.root",
			want: []string{"a.csv", "b.csv", "c.root"},
		},
		{
			name: "whitespace stripped",
			in:   " a.csv ,\tb.csv\n, c.root",
			want: []string{"a.csv", "b.csv", "c.root"},
		},
		{
			name: "empty entries preserved",
			in:   "a.csv,,b.csv",
			want: []string{"a.csv", "", "b.csv"},
		},
		{
			name: "single entry",
			in:   "only.root",
			want: []string{"only.root"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{""},
		},
		{
			name: "all whitespace",
			in:   " \t\n ",
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
