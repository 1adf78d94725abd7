package format

import (
	"fmt"
	"math"
)

// MaxRangeLen is the largest number of observations a valid range covers.
const MaxRangeLen = math.MaxInt32

// Range is a store date range: a frequency and the first and last store-native
// period indices, both inclusive. An empty range has Last == First-1.
type Range struct {
	Freq  Frequency
	First int64
	Last  int64
}

// NewRange creates a Range for the given frequency and inclusive bounds.
func NewRange(freq Frequency, first, last int64) Range {
	return Range{Freq: freq, First: first, Last: last}
}

// Len returns the number of observations covered by the range, or 0 when
// the range is empty or not valid.
func (r Range) Len() int {
	if !r.IsValid() || r.IsEmpty() {
		return 0
	}

	return int(r.span()) + 1
}

// span is Last-First computed without overflow. It requires Last >= First.
func (r Range) span() uint64 {
	return uint64(r.Last) - uint64(r.First) //nolint:gosec
}

// IsEmpty reports whether the range covers no observation.
func (r Range) IsEmpty() bool {
	return r.Last < r.First
}

// IsValid reports whether Last >= First-1 and the range covers at most
// MaxRangeLen observations.
func (r Range) IsValid() bool {
	if r.Last < r.First {
		return r.First != math.MinInt64 && r.Last == r.First-1
	}

	return r.span() < MaxRangeLen
}

// IsCase reports whether the range uses the case frequency.
func (r Range) IsCase() bool {
	return r.Freq == FreqCase
}

// Position returns the 0-based offset of store index idx within the range.
func (r Range) Position(idx int64) int {
	return int(idx - r.First)
}

func (r Range) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Freq, r.First, r.Last)
}
