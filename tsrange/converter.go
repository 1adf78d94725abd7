// Package tsrange converts between host series indices and store date ranges.
//
// Case-indexed data has no calendar and takes its own path through every
// conversion. Calendar conversion from the store always goes through a daily
// intermediate index, because the store's frequency change primitive only
// exposes period endpoints relative to a daily anchor.
package tsrange

import (
	"fmt"
	"time"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/registry"
	"github.com/arloliu/fameport/store"
)

// Converter maps host indices to store ranges and back.
type Converter struct {
	cal store.Calendar
	reg *registry.Registry
}

// NewConverter creates a converter using the store calendar and frequency registry.
// A nil registry selects registry.Default.
func NewConverter(cal store.Calendar, reg *registry.Registry) *Converter {
	if reg == nil {
		reg = registry.Default
	}

	return &Converter{cal: cal, reg: reg}
}

// Registry returns the frequency registry used by the converter.
func (c *Converter) Registry() *registry.Registry {
	return c.reg
}

// ToStoreRange converts a host index to a store range.
//
// A CaseIndex maps verbatim to the case frequency. A DateIndex is resolved
// through the registry and its first and last times are converted with the
// continue policy, so off-grid times snap to the period containing them.
//
// Returns:
//   - format.Range: The store range
//   - error: errs.ErrUnsupportedFrequency when the host frequency has no store
//     equivalent, errs.ErrEmptyIndex for an empty date index, or a calendar error
func (c *Converter) ToStoreRange(idx Index) (format.Range, error) {
	switch ix := idx.(type) {
	case CaseIndex:
		return format.NewRange(format.FreqCase, ix.First, ix.Last), nil
	case DateIndex:
		return c.dateToStore(ix)
	case nil:
		return format.Range{}, errs.ErrEmptyIndex
	default:
		return format.Range{}, fmt.Errorf("%w: index type %T", errs.ErrUnsupportedFrequency, idx)
	}
}

func (c *Converter) dateToStore(ix DateIndex) (format.Range, error) {
	freq, ok := c.reg.HostToFrequency(ix.Freq)
	if !ok {
		return format.Range{}, fmt.Errorf("%w: %q", errs.ErrUnsupportedFrequency, string(ix.Freq))
	}
	if ix.Len() == 0 {
		return format.Range{}, errs.ErrEmptyIndex
	}

	// an index built as a literal may have gaps or off-period times
	tag, err := c.HostFrequency(freq)
	if err != nil {
		return format.Range{}, err
	}
	ix, err = NewDateIndex(tag, ix.Times)
	if err != nil {
		return format.Range{}, err
	}

	first, err := c.cal.TimeToIndex(freq, ix.First(), format.PolicyContinue)
	if err != nil {
		return format.Range{}, fmt.Errorf("convert %s to %s index: %w", ix.First(), freq, err)
	}

	last, err := c.cal.TimeToIndex(freq, ix.Last(), format.PolicyContinue)
	if err != nil {
		return format.Range{}, fmt.Errorf("convert %s to %s index: %w", ix.Last(), freq, err)
	}

	return format.NewRange(freq, first, last), nil
}

// ToHostRange converts a store range to a host index.
//
// The case frequency produces a CaseIndex. Any other frequency must have a
// host equivalent; otherwise the error wraps errs.ErrUnrecognizedFrequency and
// names the store's label for the frequency. Callers reading a catalog treat
// that as a reason to skip the object, not to abort.
func (c *Converter) ToHostRange(rng format.Range) (Index, error) {
	if rng.IsCase() {
		return CaseIndex{First: rng.First, Last: rng.Last}, nil
	}

	tag, err := c.HostFrequency(rng.Freq)
	if err != nil {
		return nil, err
	}
	if rng.IsEmpty() {
		return DateIndex{Freq: tag}, nil
	}

	start, err := c.periodTime(rng.Freq, rng.First)
	if err != nil {
		return nil, err
	}

	end, err := c.periodTime(rng.Freq, rng.Last)
	if err != nil {
		return nil, err
	}

	return NewDateRange(tag, start, end)
}

// periodTime returns the host timestamp of one store period: the daily
// re-expression of its end, plus the time of day for intraday frequencies.
func (c *Converter) periodTime(freq format.Frequency, index int64) (time.Time, error) {
	daily, err := c.cal.IndexToDaily(freq, index, format.EndOfPeriod)
	if err != nil {
		return time.Time{}, fmt.Errorf("change %s index %d to daily: %w", freq, index, err)
	}

	year, month, day, err := c.cal.DecodeDaily(daily)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode daily index %d: %w", daily, err)
	}

	if !freq.IsIntraday() {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}

	t, err := c.cal.DecodeTime(freq, index)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode %s index %d: %w", freq, index, err)
	}
	t = t.UTC()

	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
}

// HostFrequency returns the host tag of a calendar store frequency. The error
// wraps errs.ErrUnrecognizedFrequency and names the store's label for freq.
func (c *Converter) HostFrequency(freq format.Frequency) (registry.HostFreq, error) {
	tag, ok := c.reg.FrequencyToHost(freq)
	if ok {
		return tag, nil
	}

	label, err := registry.FrequencyLabel(c.cal, freq)
	if err != nil {
		label = freq.String()
	}

	return "", fmt.Errorf("%w: %s frequency not implemented", errs.ErrUnrecognizedFrequency, label)
}
