package record

import (
	"math"

	"github.com/arloliu/fameport/format"
)

// Values is the typed payload of an object. It is one of Float64s, Float32s,
// Strings or NameList.
type Values interface {
	// Len returns the number of observations, or names for a name list.
	Len() int
	// Type returns the store data type the values are stored as.
	Type() format.DataType
	isValues()
}

var (
	_ Values = Float64s(nil)
	_ Values = Float32s(nil)
	_ Values = Strings(nil)
	_ Values = NameList(nil)
)

// Float64s holds precision values. NaN is the missing value.
type Float64s []float64

func (Float64s) isValues()              {}
func (v Float64s) Len() int             { return len(v) }
func (Float64s) Type() format.DataType  { return format.TypePrecision }
func (v Float64s) IsMissing(i int) bool { return math.IsNaN(v[i]) }

// Float32s holds numeric values. NaN is the missing value.
type Float32s []float32

func (Float32s) isValues()              {}
func (v Float32s) Len() int             { return len(v) }
func (Float32s) Type() format.DataType  { return format.TypeNumeric }
func (v Float32s) IsMissing(i int) bool { return math.IsNaN(float64(v[i])) }

// Text is a string observation that may be missing.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a present string observation.
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

// Strings holds string values. An invalid Text is missing.
type Strings []Text

func (Strings) isValues()             {}
func (v Strings) Len() int            { return len(v) }
func (Strings) Type() format.DataType { return format.TypeString }

// TextStrings builds Strings where every element is present.
func TextStrings(values ...string) Strings {
	out := make(Strings, len(values))
	for i, s := range values {
		out[i] = NewText(s)
	}

	return out
}

// Chars returns the summed length of the present values.
func (v Strings) Chars() int {
	n := 0
	for _, t := range v {
		if t.Valid {
			n += len(t.Value)
		}
	}

	return n
}

// NameList is a list of object names. It has no missing value.
type NameList []string

func (NameList) isValues()             {}
func (v NameList) Len() int            { return len(v) }
func (NameList) Type() format.DataType { return format.TypeNameList }

// Chars returns the summed length of the names.
func (v NameList) Chars() int {
	n := 0
	for _, s := range v {
		n += len(s)
	}

	return n
}

// String renders the list as a literal, e.g. {A, B, C}.
func (v NameList) String() string {
	return FormatNameList(v)
}
