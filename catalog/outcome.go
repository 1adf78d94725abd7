package catalog

import "fmt"

// OutcomeKind classifies what happened to one object during a catalog read.
type OutcomeKind uint8

const (
	// Included means the object was read and added to the catalog.
	Included OutcomeKind = iota
	// SkippedFilterMismatch means a range filter was given and the object is a
	// scalar or a series of another frequency.
	SkippedFilterMismatch
	// SkippedUnrecognizedFrequency means the series frequency has no host equivalent.
	SkippedUnrecognizedFrequency
	// SkippedCatalogOnly means the object class carries no payload.
	SkippedCatalogOnly
	// SkippedUnsupportedType means the payload type cannot be represented.
	SkippedUnsupportedType
	// Failed means reading the object aborted the pass.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Included:
		return "Included"
	case SkippedFilterMismatch:
		return "SkippedFilterMismatch"
	case SkippedUnrecognizedFrequency:
		return "SkippedUnrecognizedFrequency"
	case SkippedCatalogOnly:
		return "SkippedCatalogOnly"
	case SkippedUnsupportedType:
		return "SkippedUnsupportedType"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsSkip reports whether the kind is a non-fatal skip.
func (k OutcomeKind) IsSkip() bool {
	return k != Included && k != Failed
}

// Outcome is the result of reading one matched object.
type Outcome struct {
	Name string
	Kind OutcomeKind
	// Err is the reason for a skip or failure, nil when the object was included
	// or skipped by the range filter.
	Err error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", o.Name, o.Kind, o.Err)
	}

	return fmt.Sprintf("%s: %s", o.Name, o.Kind)
}

// Report describes a whole catalog read.
type Report struct {
	Outcomes []Outcome
	// Interrupted holds the cursor error that ended the walk before the store
	// reported the end of matches. The catalog still holds everything read
	// up to that point.
	Interrupted error
}

func (r *Report) add(name string, kind OutcomeKind, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Name: name, Kind: kind, Err: err})
}

// Count returns the number of outcomes of the given kind.
func (r *Report) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			n++
		}
	}

	return n
}

// Outcome returns the last outcome recorded for name.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for i := len(r.Outcomes) - 1; i >= 0; i-- {
		if key(r.Outcomes[i].Name) == key(name) {
			return r.Outcomes[i], true
		}
	}

	return Outcome{}, false
}
