package report

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go-hep.org/x/hep/hbook"

	"github.com/charm-data/k3pi.report/internal/stats"
)

// Section is one compared variable on the HTML page.
type Section struct {
	Title  string
	XLabel string
	Hists  []NamedHist
}

// AsymmetryRow is one time bin's asymmetry measurement.
type AsymmetryRow struct {
	Label string
	Value float64
	Sigma float64
}

// AsymmetryTable summarizes the per-bin asymmetries appended below the
// variable sections. The weighted mean is computed at render time.
type AsymmetryTable struct {
	Title  string
	YLabel string
	Rows   []AsymmetryRow
}

// WriteHTML renders the whole report as one self-contained HTML page:
// an overlaid line chart per section, plus the asymmetry bar chart when
// a table is given.
func (w *Writer) WriteHTML(path, pageTitle string, sections []Section, asym *AsymmetryTable) error {
	page := components.NewPage()
	page.PageTitle = pageTitle

	for _, s := range sections {
		page.AddCharts(sectionChart(s))
	}
	if asym != nil && len(asym.Rows) > 0 {
		page.AddCharts(asymmetryChart(asym))
	}

	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("report: render %s: %w", path, err)
	}
	return nil
}

func sectionChart(s Section) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Candidates"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	if len(s.Hists) == 0 {
		return line
	}

	line.SetXAxis(binCenters(s.Hists[0].Hist))
	for _, nh := range s.Hists {
		line.AddSeries(nh.Name, lineData(nh.Hist))
	}
	return line
}

func asymmetryChart(asym *AsymmetryTable) *charts.Bar {
	labels := make([]string, len(asym.Rows))
	values := make([]float64, len(asym.Rows))
	sigmas := make([]float64, len(asym.Rows))
	data := make([]opts.BarData, len(asym.Rows))
	for i, row := range asym.Rows {
		labels[i] = row.Label
		values[i] = row.Value
		sigmas[i] = row.Sigma
		data[i] = opts.BarData{Value: row.Value}
	}

	subtitle := ""
	if mean, sigma, err := stats.WeightedMeanByError(values, sigmas); err == nil {
		subtitle = fmt.Sprintf("weighted mean %.4f +- %.4f", mean, sigma)
	}

	yLabel := asym.YLabel
	if yLabel == "" {
		yLabel = "(RS-WS)/(RS+WS)"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: asym.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("asymmetry", data)
	return bar
}

func binCenters(h *hbook.H1D) []string {
	out := make([]string, len(h.Binning.Bins))
	for i, b := range h.Binning.Bins {
		out[i] = fmt.Sprintf("%.4g", b.XMid())
	}
	return out
}

func lineData(h *hbook.H1D) []opts.LineData {
	out := make([]opts.LineData, len(h.Binning.Bins))
	for i, b := range h.Binning.Bins {
		out[i] = opts.LineData{Value: b.SumW()}
	}
	return out
}
