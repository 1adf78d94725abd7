package format

// TimePolicy controls how a time that does not fall on a period boundary is
// mapped to a period index.
type TimePolicy int32

const (
	// PolicyContinue maps an off-grid time to the period containing it.
	PolicyContinue TimePolicy = iota
	// PolicyStrict rejects times that are not exact period boundaries.
	PolicyStrict
)

// Endpoint selects which end of a period a frequency conversion anchors to.
type Endpoint int32

const (
	EndOfPeriod Endpoint = iota
	BeginningOfPeriod
)

// DateStyle controls date literal rendering.
type DateStyle struct {
	// Decimal renders sub-annual periods with decimal punctuation, e.g. 2020.1 for Q1 2020.
	Decimal bool
	// FiscalAuto picks the fiscal year label automatically from the frequency.
	FiscalAuto bool
}

// DefaultDateStyle is the style used for catalog summaries.
var DefaultDateStyle = DateStyle{Decimal: true, FiscalAuto: true}

// DateLiteralWidth is the field width used when rendering date literals.
const DateLiteralWidth = 80
