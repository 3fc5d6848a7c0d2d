// Package stats carries the small statistical helpers the comparison
// reports need: inverse-variance averaging of binned measurements and
// counting asymmetries with their binomial errors.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// WeightedMeanByError combines measurements with Gaussian errors into
// the inverse-variance weighted mean and its propagated error. Sigmas
// must be positive and match values in length.
func WeightedMeanByError(values, sigmas []float64) (mean, sigma float64, err error) {
	if len(values) == 0 || len(values) != len(sigmas) {
		return 0, 0, fmt.Errorf("stats: need matching non-empty values/sigmas, got %d and %d",
			len(values), len(sigmas))
	}

	weights := make([]float64, len(sigmas))
	sumW := 0.0
	for i, s := range sigmas {
		if !(s > 0) {
			return 0, 0, fmt.Errorf("stats: sigma[%d] = %g, want > 0", i, s)
		}
		weights[i] = 1 / (s * s)
		sumW += weights[i]
	}
	return stat.Mean(values, weights), 1 / math.Sqrt(sumW), nil
}

// Asymmetry returns (nA-nB)/(nA+nB) and its binomial error. An empty
// sample divides zero by zero and propagates NaN, which downstream
// consumers render as missing rather than silently zero.
func Asymmetry(nA, nB float64) (a, sigma float64) {
	n := nA + nB
	a = (nA - nB) / n
	sigma = math.Sqrt((1 - a*a) / n)
	return a, sigma
}
