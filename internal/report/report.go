// Package report renders the comparison output of a conversion run:
// superimposed phase-space histograms as PNGs for publications and a
// self-contained HTML page for quick inspection.
package report

import (
	"fmt"
	"image/color"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/charm-data/k3pi.report/internal/fsutil"
)

// NamedHist pairs a filled histogram with its legend label.
type NamedHist struct {
	Name string
	Hist *hbook.H1D
}

// NewHist books an n-bin histogram over [lo, hi) and fills it with the
// given column, one entry per value.
func NewHist(n int, lo, hi float64, column []float64) *hbook.H1D {
	h := hbook.NewH1D(n, lo, hi)
	for _, v := range column {
		h.Fill(v, 1)
	}
	return h
}

// Overlay palette: black, green, blue, salmon, cycling.
var seriesColors = []color.RGBA{
	{A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 127, B: 127, A: 255},
}

// Writer renders report artifacts through a FileSystem so tests can
// capture output in memory.
type Writer struct {
	fs fsutil.FileSystem
}

// NewWriter returns a Writer rendering through fs; nil selects the
// real filesystem.
func NewWriter(fs fsutil.FileSystem) *Writer {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	return &Writer{fs: fs}
}

// EnsureDir creates dir and any missing parents.
func (w *Writer) EnsureDir(dir string) error {
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("report: mkdir %s: %w", dir, err)
	}
	return nil
}

// SaveOverlayPNG draws the histograms superimposed on one canvas and
// writes a 6x4 inch PNG. The Y axis spans all series with 10% headroom
// over the tallest bin so no distribution is clipped.
func (w *Writer) SaveOverlayPNG(path, title, xLabel string, hists []NamedHist) error {
	if len(hists) == 0 {
		return fmt.Errorf("report: no histograms for %s", path)
	}

	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Candidates"

	yMax := 0.0
	for i, nh := range hists {
		h := hplot.NewH1D(nh.Hist)
		h.LineStyle.Color = seriesColors[i%len(seriesColors)]
		h.LineStyle.Width = vg.Points(1.5)
		if len(hists) == 1 {
			h.Infos.Style = hplot.HInfoSummary
		}
		p.Add(h)
		p.Legend.Add(nh.Name, h)

		if m := maxBinHeight(nh.Hist); m > yMax {
			yMax = m
		}
	}
	if yMax > 0 {
		p.Y.Max = yMax * 1.1
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("report: render %s: %w", path, err)
	}
	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return f.Close()
}

func maxBinHeight(h *hbook.H1D) float64 {
	max := 0.0
	for _, b := range h.Binning.Bins {
		if v := b.SumW(); v > max {
			max = v
		}
	}
	return max
}
