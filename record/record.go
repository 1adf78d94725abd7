// Package record defines the host-side representation of store objects.
//
// An Object is either a *Scalar or a *Series. Each variant carries only the
// fields that are valid for its class: a Scalar never has a range, and a
// Series carries basis and observed conventions only when its range has a
// calendar frequency.
package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
)

// Object is one catalog entry with its payload.
type Object interface {
	Name() string
	Class() format.Class
	Type() format.DataType
	Metadata() *Meta
	Data() Values
	isObject()
}

var (
	_ Object = (*Scalar)(nil)
	_ Object = (*Series)(nil)
)

// Meta holds the descriptive fields shared by every object.
type Meta struct {
	Name string
	Type format.DataType
	// CreatedAt and ModifiedAt are assigned by the store and ignored on write.
	CreatedAt     time.Time
	ModifiedAt    time.Time
	Description   string
	Documentation string
}

// Scalar is a single typed value.
type Scalar struct {
	Meta  Meta
	Value Values
}

func (*Scalar) isObject() {}

func (s *Scalar) Name() string          { return s.Meta.Name }
func (*Scalar) Class() format.Class     { return format.ClassScalar }
func (s *Scalar) Type() format.DataType { return s.Meta.Type }
func (s *Scalar) Metadata() *Meta       { return &s.Meta }
func (s *Scalar) Data() Values          { return s.Value }

// Series is a sequence of typed values aligned with a store range.
type Series struct {
	Meta     Meta
	Range    format.Range
	Basis    format.Basis
	Observed format.Observed
	Values   Values
}

func (*Series) isObject() {}

func (s *Series) Name() string          { return s.Meta.Name }
func (*Series) Class() format.Class     { return format.ClassSeries }
func (s *Series) Type() format.DataType { return s.Meta.Type }
func (s *Series) Metadata() *Meta       { return &s.Meta }
func (s *Series) Data() Values          { return s.Values }

// IsCalendar reports whether the series range has a calendar frequency.
func (s *Series) IsCalendar() bool {
	return !s.Range.IsCase()
}

// NewScalar creates a scalar whose data type follows its value.
func NewScalar(name string, value Values) *Scalar {
	return &Scalar{
		Meta:  Meta{Name: name, Type: value.Type()},
		Value: value,
	}
}

// NewPrecisionScalar creates a precision scalar.
func NewPrecisionScalar(name string, v float64) *Scalar {
	return NewScalar(name, Float64s{v})
}

// NewStringScalar creates a string scalar.
func NewStringScalar(name, v string) *Scalar {
	return NewScalar(name, Strings{NewText(v)})
}

// NewNameListScalar creates a name list scalar.
func NewNameListScalar(name string, names ...string) *Scalar {
	return NewScalar(name, NameList(names))
}

// NewSeries creates a series over rng. Calendar series get the given basis and
// observed conventions; case series always get undefined/unbound.
func NewSeries(name string, rng format.Range, values Values, basis format.Basis, observed format.Observed) *Series {
	s := &Series{
		Meta:   Meta{Name: name, Type: values.Type()},
		Range:  rng,
		Values: values,
	}
	if !rng.IsCase() {
		s.Basis = basis
		s.Observed = observed
	}

	return s
}

// Validate checks the invariants of an object.
func Validate(obj Object) error {
	if obj == nil {
		return fmt.Errorf("%w: nil object", errs.ErrInvalidValue)
	}
	if strings.TrimSpace(obj.Name()) == "" {
		return fmt.Errorf("%w: empty object name", errs.ErrInvalidName)
	}

	data := obj.Data()
	if data == nil {
		return fmt.Errorf("%w: %s has no data", errs.ErrInvalidValue, obj.Name())
	}
	if obj.Type() != data.Type() {
		return fmt.Errorf("%w: %s declared %s holds %s values",
			errs.ErrTypeMismatch, obj.Name(), obj.Type(), data.Type())
	}

	switch o := obj.(type) {
	case *Scalar:
		if _, isList := o.Value.(NameList); !isList && o.Value.Len() != 1 {
			return fmt.Errorf("%w: scalar %s holds %d values", errs.ErrLengthMismatch, o.Name(), o.Value.Len())
		}
	case *Series:
		if !o.Range.IsValid() {
			return fmt.Errorf("%w: %s range %s", errs.ErrInvalidRange, o.Name(), o.Range)
		}
		if o.Values.Len() != o.Range.Len() {
			return fmt.Errorf("%w: %s holds %d values for %d observations",
				errs.ErrLengthMismatch, o.Name(), o.Values.Len(), o.Range.Len())
		}
		if _, isList := o.Values.(NameList); isList {
			return fmt.Errorf("%w: name list series %s", errs.ErrUnsupportedType, o.Name())
		}
		if o.Range.IsCase() && (o.Basis != format.BasisUndefined || o.Observed != format.ObservedUnbound) {
			return fmt.Errorf("%w: case series %s carries basis %s observed %s",
				errs.ErrInvalidValue, o.Name(), o.Basis, o.Observed)
		}
	}

	return nil
}

// ValueAt returns observation i of values as a Go value: float64 (NaN when
// missing), float32, *string (nil when missing) or string for names.
func ValueAt(values Values, i int) any {
	switch v := values.(type) {
	case Float64s:
		return v[i]
	case Float32s:
		return v[i]
	case Strings:
		if !v[i].Valid {
			return (*string)(nil)
		}
		s := v[i].Value

		return &s
	case NameList:
		return v[i]
	default:
		return nil
	}
}
