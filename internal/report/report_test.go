package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charm-data/k3pi.report/internal/fsutil"
)

func TestNewHist(t *testing.T) {
	t.Parallel()

	h := NewHist(10, 0, 10, []float64{0.5, 0.5, 3.2, 9.9, -1, 100})
	assert.Equal(t, int64(6), h.Entries(), "out-of-range entries land in flows")
	assert.Equal(t, 2.0, h.Binning.Bins[0].SumW())
	assert.Equal(t, 1.0, h.Binning.Bins[3].SumW())
	assert.Equal(t, 1.0, h.Binning.Bins[9].SumW())
}

func TestSaveOverlayPNG(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hists := []NamedHist{
		{Name: "RS", Hist: NewHist(20, 0, 10, []float64{1, 2, 2, 3, 5, 5, 5})},
		{Name: "WS", Hist: NewHist(20, 0, 10, []float64{1, 4, 4, 6})},
	}

	w := NewWriter(nil)
	path := filepath.Join(dir, "m12.png")
	require.NoError(t, w.SaveOverlayPNG(path, "m(pipi)", "m [MeV]", hists))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveOverlayPNGInMemory(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	w := NewWriter(mfs)
	hists := []NamedHist{
		{Name: "RS", Hist: NewHist(10, 0, 5, []float64{1, 2, 3})},
		{Name: "WS", Hist: NewHist(10, 0, 5, []float64{2, 2})},
	}
	require.NoError(t, w.SaveOverlayPNG("plots/c12.png", "cos", "cos", hists))

	data, err := mfs.ReadFile("plots/c12.png")
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8], "PNG signature")
}

func TestSaveOverlayPNGSingleSeries(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	w := NewWriter(mfs)
	hists := []NamedHist{{Name: "all", Hist: NewHist(5, 0, 5, []float64{1, 2, 3})}}
	require.NoError(t, w.SaveOverlayPNG("single.png", "t", "x", hists))

	assert.True(t, mfs.Exists("single.png"))
}

func TestSaveOverlayPNGEmpty(t *testing.T) {
	t.Parallel()

	w := NewWriter(fsutil.NewMemoryFileSystem())
	err := w.SaveOverlayPNG("x.png", "t", "x", nil)
	assert.Error(t, err)
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	w := NewWriter(mfs)
	require.NoError(t, w.EnsureDir("out/plots"))
	assert.True(t, mfs.Exists("out/plots"))
	assert.True(t, mfs.Exists("out"))
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	sections := []Section{
		{
			Title:  "m(pipi)",
			XLabel: "m [MeV]",
			Hists: []NamedHist{
				{Name: "RS", Hist: NewHist(10, 200, 1700, []float64{300, 400, 400})},
				{Name: "WS", Hist: NewHist(10, 200, 1700, []float64{500, 600})},
			},
		},
		{
			Title:  "phi",
			XLabel: "phi [rad]",
			Hists: []NamedHist{
				{Name: "RS", Hist: NewHist(8, 0, 6.3, []float64{1, 2, 3})},
			},
		},
	}
	asym := &AsymmetryTable{
		Title: "RS/WS asymmetry by decay time",
		Rows: []AsymmetryRow{
			{Label: "0.4 <= D0 decay t < 0.8 [ps]", Value: 0.5, Sigma: 0.1},
			{Label: "0.8 <= D0 decay t < +Inf [ps]", Value: 0.2, Sigma: 0.05},
		},
	}

	mfs := fsutil.NewMemoryFileSystem()
	w := NewWriter(mfs)
	require.NoError(t, w.WriteHTML("report.html", "K3Pi comparison", sections, asym))

	body, err := mfs.ReadFile("report.html")
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, "m(pipi)")
	assert.Contains(t, html, "RS")
	assert.Contains(t, html, "asymmetry")
	assert.Contains(t, html, "weighted mean")
}

func TestWriteHTMLNoAsymmetry(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	w := NewWriter(mfs)
	sections := []Section{{Title: "c12", XLabel: "cos", Hists: []NamedHist{
		{Name: "all", Hist: NewHist(4, -1, 1, []float64{-0.5, 0.5})},
	}}}
	require.NoError(t, w.WriteHTML("plain.html", "plain", sections, nil))

	body, err := mfs.ReadFile("plain.html")
	require.NoError(t, err)
	assert.NotContains(t, string(body), "weighted mean")
}
