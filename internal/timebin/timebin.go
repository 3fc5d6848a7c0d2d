// Package timebin converts measured D0 flight distances into decay
// times and sorts them into the half-open analysis bins the comparison
// reports are split by.
package timebin

import (
	"fmt"
	"math"
)

// Conversion factors for decay length to decay time. The speed of light
// is the rounded 3.0e8 m/s the historical pipeline used; keeping it
// exact keeps binned yields comparable across reprocessings.
const (
	SpeedOfLightMPerS = 3.0e8
	MMToM             = 1.0 / 1000.0
	SecToNS           = 1.0e9
	PSPerNS           = 1000.0
)

// CTauMMToNS converts a decay length c*tau in millimetres to a decay
// time in nanoseconds.
func CTauMMToNS(ctauMM float64) float64 {
	return ctauMM * MMToM / SpeedOfLightMPerS * SecToNS
}

// NSToPS converts nanoseconds to picoseconds.
func NSToPS(ns float64) float64 {
	return ns * PSPerNS
}

// Bin is a half-open decay-time interval [Lower, Upper).
type Bin struct {
	Lower float64
	Upper float64
}

// Contains reports whether t falls in the bin. The upper edge belongs
// to the next bin; NaN falls in no bin.
func (b Bin) Contains(t float64) bool {
	return t >= b.Lower && t < b.Upper
}

// Label renders the bin the way the analysis captions histograms,
// e.g. "0.4 <= D0 decay t < 0.8 [ps]".
func (b Bin) Label(unit string) string {
	return fmt.Sprintf("%g <= D0 decay t < %g [%s]", b.Lower, b.Upper, unit)
}

// MakeBins builds len(upperEdges)+1 contiguous half-open bins from
// strictly increasing upper edges. The first bin is open below and the
// last catches all overflow, so every finite decay time lands somewhere
// even when the edges do not cover it.
func MakeBins(upperEdges []float64) ([]Bin, error) {
	for i := 1; i < len(upperEdges); i++ {
		if !(upperEdges[i] > upperEdges[i-1]) {
			return nil, fmt.Errorf("timebin: edges must be strictly increasing, got %g after %g",
				upperEdges[i], upperEdges[i-1])
		}
	}

	bins := make([]Bin, 0, len(upperEdges)+1)
	for i := 0; i <= len(upperEdges); i++ {
		lower := math.Inf(-1)
		if i > 0 {
			lower = upperEdges[i-1]
		}
		upper := math.Inf(1)
		if i < len(upperEdges) {
			upper = upperEdges[i]
		}
		bins = append(bins, Bin{Lower: lower, Upper: upper})
	}
	return bins, nil
}

// Index returns the index of the bin containing t, or -1 when no bin
// does (empty bins or NaN input).
func Index(bins []Bin, t float64) int {
	for i, b := range bins {
		if b.Contains(t) {
			return i
		}
	}
	return -1
}
