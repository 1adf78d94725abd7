package tsrange

import (
	"fmt"
	"time"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/registry"
)

// Index is a host-side series index: either a CaseIndex or a DateIndex.
type Index interface {
	// Len returns the number of positions in the index.
	Len() int
	isIndex()
}

// CaseIndex is a plain ascending integer index with no calendar meaning.
// An empty index has Last == First-1.
type CaseIndex struct {
	First int64
	Last  int64
}

var _ Index = CaseIndex{}

// NewCaseIndex builds a CaseIndex from an explicit integer sequence. The
// sequence must ascend by one.
func NewCaseIndex(values []int64) (CaseIndex, error) {
	if len(values) == 0 {
		return CaseIndex{}, errs.ErrEmptyIndex
	}

	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return CaseIndex{}, fmt.Errorf("%w: case %d follows %d", errs.ErrNonContiguousIndex, values[i], values[i-1])
		}
	}

	return CaseIndex{First: values[0], Last: values[len(values)-1]}, nil
}

func (CaseIndex) isIndex() {}

// Len returns the number of positions in the index.
func (c CaseIndex) Len() int {
	if c.Last < c.First {
		return 0
	}

	return int(c.Last - c.First + 1)
}

// Values returns the integer sequence First..Last.
func (c CaseIndex) Values() []int64 {
	out := make([]int64, 0, c.Len())
	for v := c.First; v <= c.Last; v++ {
		out = append(out, v)
	}

	return out
}

// DateIndex is a contiguous calendar index at a single host frequency.
// Calendar frequencies are anchored to period ends at midnight UTC; intraday
// frequencies step by a fixed duration.
type DateIndex struct {
	Freq  registry.HostFreq
	Times []time.Time
}

var _ Index = DateIndex{}

func (DateIndex) isIndex() {}

// Len returns the number of timestamps in the index.
func (d DateIndex) Len() int {
	return len(d.Times)
}

// First returns the first timestamp; the zero time for an empty index.
func (d DateIndex) First() time.Time {
	if len(d.Times) == 0 {
		return time.Time{}
	}

	return d.Times[0]
}

// Last returns the last timestamp; the zero time for an empty index.
func (d DateIndex) Last() time.Time {
	if len(d.Times) == 0 {
		return time.Time{}
	}

	return d.Times[len(d.Times)-1]
}

// Equal reports whether two date indices have the same frequency and times.
func (d DateIndex) Equal(other DateIndex) bool {
	if d.Freq != other.Freq || len(d.Times) != len(other.Times) {
		return false
	}
	for i := range d.Times {
		if !d.Times[i].Equal(other.Times[i]) {
			return false
		}
	}

	return true
}

// NewDateRange builds the index of every period end of freq between start and
// end inclusive. start is rolled forward to the first period end on or after
// it, so the result may be empty.
func NewDateRange(freq registry.HostFreq, start, end time.Time) (DateIndex, error) {
	step, err := stepperFor(freq)
	if err != nil {
		return DateIndex{}, err
	}

	idx := DateIndex{Freq: freq}
	end = end.UTC()
	for t := step.rollForward(start.UTC()); !t.After(end); t = step.next(t) {
		idx.Times = append(idx.Times, t)
	}

	return idx, nil
}

// NewDateIndex validates times as a contiguous index at freq.
func NewDateIndex(freq registry.HostFreq, times []time.Time) (DateIndex, error) {
	step, err := stepperFor(freq)
	if err != nil {
		return DateIndex{}, err
	}

	out := make([]time.Time, len(times))
	for i, t := range times {
		t = t.UTC()
		if !step.onOffset(t) {
			return DateIndex{}, fmt.Errorf("%w: %s is not a %s period boundary",
				errs.ErrNonContiguousIndex, t.Format(time.RFC3339Nano), freq)
		}
		if i > 0 && !step.next(out[i-1]).Equal(t) {
			return DateIndex{}, fmt.Errorf("%w: %s does not follow %s at %s",
				errs.ErrNonContiguousIndex, t.Format(time.RFC3339Nano), out[i-1].Format(time.RFC3339Nano), freq)
		}
		out[i] = t
	}

	return DateIndex{Freq: freq, Times: out}, nil
}
