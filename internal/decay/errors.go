package decay

import (
	"errors"
	"fmt"
)

// ErrInvalidDecay is the sentinel wrapped by every classification
// failure. Callers that only need pass/fail test with errors.Is; the
// batch layer unwraps the TopologyError to report which lookup failed.
var ErrInvalidDecay = errors.New("invalid decay topology")

// TopologyError describes a failed role lookup over the four daughter
// slots: which classifier ran, the IDs it searched, and how many
// candidates it found instead of the expected count.
type TopologyError struct {
	Lookup string
	IDs    [4]int
	Got    int
	Want   int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%s: want %d candidate(s) in daughter IDs %v, found %d: %v",
		e.Lookup, e.Want, e.IDs, e.Got, ErrInvalidDecay)
}

func (e *TopologyError) Unwrap() error { return ErrInvalidDecay }
