package report

import (
	"math"

	"github.com/charm-data/k3pi.report/internal/phsp"
)

// Variable describes one compared phase-space quantity: how to bin it
// and how to pull it out of a computed point.
type Variable struct {
	Name   string
	Title  string
	XLabel string
	Bins   int
	Lo, Hi float64
	Value  func(phsp.Point) float64
}

// DefaultVariables is the standard comparison set: the two pair masses,
// the two helicity cosines, the decay-plane angle and the cross-pairing
// pipi mass.
func DefaultVariables() []Variable {
	return []Variable{
		{
			Name: "m12", Title: "m(pipi)", XLabel: "m(pipi) [MeV/c^2]",
			Bins: 60, Lo: 200, Hi: 1700,
			Value: func(p phsp.Point) float64 { return p.M12 },
		},
		{
			Name: "m34", Title: "m(Kpi)", XLabel: "m(Kpi) [MeV/c^2]",
			Bins: 60, Lo: 600, Hi: 1800,
			Value: func(p phsp.Point) float64 { return p.M34 },
		},
		{
			Name: "c12", Title: "cos(theta(pipi))", XLabel: "cos(theta)",
			Bins: 40, Lo: -1, Hi: 1,
			Value: func(p phsp.Point) float64 { return p.CosTheta12 },
		},
		{
			Name: "c34", Title: "cos(theta(Kpi))", XLabel: "cos(theta)",
			Bins: 40, Lo: -1, Hi: 1,
			Value: func(p phsp.Point) float64 { return p.CosTheta34 },
		},
		{
			Name: "phi", Title: "phi", XLabel: "phi [rad]",
			Bins: 40, Lo: 0, Hi: 2 * math.Pi,
			Value: func(p phsp.Point) float64 { return p.Phi },
		},
		{
			Name: "m13", Title: "m(pipi) cross pairing", XLabel: "m(pipi) [MeV/c^2]",
			Bins: 60, Lo: 200, Hi: 1700,
			Value: func(p phsp.Point) float64 { return p.M13 },
		},
	}
}

// DecayTimeVariable bins the measured decay time; it is appended to the
// default set only when the sample carries flight information.
func DecayTimeVariable() Variable {
	return Variable{
		Name: "decay_time", Title: "D0 decay time", XLabel: "t [ps]",
		Bins: 50, Lo: 0, Hi: 10,
	}
}
