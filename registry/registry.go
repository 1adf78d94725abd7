// Package registry maps store codes to their host-side equivalents.
//
// The frequency table is built once by a pure function into an immutable
// bidirectional map. Store frequencies map to host frequency tags; host tags
// map back through their base form, so an anchored tag such as "W-FRI" and its
// base "W" both resolve to the same store frequency while only one canonical
// tag exists per store code.
package registry

import (
	"fmt"
	"strings"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
)

// HostFreq is a host calendar frequency tag.
type HostFreq string

const (
	Annual        HostFreq = "A"
	Quarterly     HostFreq = "Q"
	Monthly       HostFreq = "M"
	WeeklyFriday  HostFreq = "W-FRI"
	Business      HostFreq = "B"
	Daily         HostFreq = "D"
	Hourly        HostFreq = "H"
	Minutely      HostFreq = "T"
	Secondly      HostFreq = "S"
	Millisecondly HostFreq = "L"
)

// Base returns the tag without its anchor suffix, e.g. "W" for "W-FRI".
func (f HostFreq) Base() HostFreq {
	if i := strings.IndexByte(string(f), '-'); i > 0 {
		return f[:i]
	}

	return f
}

func (f HostFreq) String() string {
	return string(f)
}

// Entry pairs a store frequency with its canonical host tag.
type Entry struct {
	Code format.Frequency
	Tag  HostFreq
}

// Collision records an entry whose base tag was already claimed by an earlier
// entry and therefore does not map back.
type Collision struct {
	Base   HostFreq
	Winner Entry
	Loser  Entry
}

// DefaultEntries is the supported calendar frequency table, in precedence
// order. The case frequency has no calendar and is deliberately absent.
var DefaultEntries = []Entry{
	{format.FreqAnnualDec, Annual},
	{format.FreqQuarterlyDec, Quarterly},
	{format.FreqMonthly, Monthly},
	{format.FreqWeeklyFriday, WeeklyFriday},
	{format.FreqBusiness, Business},
	{format.FreqDaily, Daily},
	{format.FreqHour, Hourly},
	{format.FreqMinute, Minutely},
	{format.FreqSecond, Secondly},
	{format.FreqMillisecond, Millisecondly},
}

// Registry is an immutable bidirectional frequency table.
type Registry struct {
	toHost     map[format.Frequency]HostFreq
	toStore    map[HostFreq]format.Frequency
	order      []Entry
	collisions []Collision
}

// Default is the registry built from DefaultEntries.
var Default = New(DefaultEntries)

// New builds a registry from entries.
//
// Precedence rule: when two entries share a base tag, the entry listed first
// owns the reverse mapping and the later one is reported by Collisions. The
// later entry still maps forward to its own tag.
func New(entries []Entry) *Registry {
	r := &Registry{
		toHost:  make(map[format.Frequency]HostFreq, len(entries)),
		toStore: make(map[HostFreq]format.Frequency, len(entries)),
	}
	owners := make(map[HostFreq]Entry, len(entries))

	for _, e := range entries {
		if _, dup := r.toHost[e.Code]; dup {
			continue
		}
		r.toHost[e.Code] = e.Tag
		r.order = append(r.order, e)

		base := e.Tag.Base()
		if winner, taken := owners[base]; taken {
			r.collisions = append(r.collisions, Collision{Base: base, Winner: winner, Loser: e})
			continue
		}
		owners[base] = e
		r.toStore[base] = e.Code
	}

	return r
}

// Collisions returns the entries that lost the reverse mapping.
func (r *Registry) Collisions() []Collision {
	out := make([]Collision, len(r.collisions))
	copy(out, r.collisions)

	return out
}

// FrequencyToHost returns the host tag of a store frequency.
func (r *Registry) FrequencyToHost(code format.Frequency) (HostFreq, bool) {
	tag, ok := r.toHost[code]
	return tag, ok
}

// HostToFrequency returns the store frequency of a host tag. Anchored tags are
// resolved through their base.
func (r *Registry) HostToFrequency(tag HostFreq) (format.Frequency, bool) {
	code, ok := r.toStore[tag.Base()]
	if !ok {
		return format.FreqUndefined, false
	}
	// an anchored tag must be the canonical one for that code
	if tag != tag.Base() && r.toHost[code] != tag {
		return format.FreqUndefined, false
	}

	return code, true
}

// Tags returns the host tags in table order.
func (r *Registry) Tags() []HostFreq {
	out := make([]HostFreq, 0, len(r.order))
	for _, e := range r.order {
		out = append(out, e.Tag)
	}

	return out
}

// Labeler returns the store's base name of a type code.
type Labeler interface {
	TypeLabel(t format.DataType) (string, error)
}

// TypeLabel returns the display label of a type code. Date types are wrapped
// as DATE(<label>).
func TypeLabel(l Labeler, t format.DataType) (string, error) {
	label, err := l.TypeLabel(t)
	if err != nil {
		return "", fmt.Errorf("type label of %d: %w", int32(t), err)
	}
	label = strings.TrimRight(label, " ")

	if t.IsDate() {
		return "DATE(" + label + ")", nil
	}

	return label, nil
}

// FrequencyLabel returns the display label of a store frequency.
func FrequencyLabel(l Labeler, freq format.Frequency) (string, error) {
	return TypeLabel(l, format.DateType(freq))
}

var classLabels = map[format.Class]string{
	format.ClassSeries:        "SERIES",
	format.ClassScalar:        "SCALAR",
	format.ClassFormula:       "FORMULA",
	format.ClassGlobalName:    "GLNAME",
	format.ClassGlobalFormula: "GLFORMULA",
}

// ClassLabel returns the display label of an object class.
func ClassLabel(c format.Class) (string, error) {
	label, ok := classLabels[c]
	if !ok {
		return "", fmt.Errorf("%w: %d", errs.ErrUnknownClass, int32(c))
	}

	return label, nil
}
