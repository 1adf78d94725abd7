package catalog

import (
	"fmt"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/options"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/tsrange"
)

// HostValue is what Get returns: a *HostSeries for series and the
// record.Values of a scalar otherwise.
type HostValue interface {
	Len() int
}

var (
	_ HostValue = (*HostSeries)(nil)
	_ HostValue = (record.Values)(nil)
)

// HostSeries pairs series values with a host index.
type HostSeries struct {
	Name   string
	Index  tsrange.Index
	Values record.Values
}

// Len returns the number of observations.
func (s *HostSeries) Len() int {
	return s.Values.Len()
}

// Get returns the host view of name: series come back indexed by the host
// counterpart of their store range.
func Get(cat *Catalog, name string, conv *tsrange.Converter) (HostValue, error) {
	obj, ok := cat.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrObjectNotFound, name)
	}

	series, ok := obj.(*record.Series)
	if !ok {
		return obj.Data(), nil
	}

	idx, err := conv.ToHostRange(series.Range)
	if err != nil {
		return nil, fmt.Errorf("index of %s: %w", name, err)
	}

	return &HostSeries{Name: series.Name(), Index: idx, Values: series.Values}, nil
}

type putConfig struct {
	description   string
	documentation string
	dataType      format.DataType
	basis         format.Basis
	observed      format.Observed
}

// PutOption configures PutSeries and PutScalar.
type PutOption = options.Option[*putConfig]

func newPutConfig(opts ...PutOption) (*putConfig, error) {
	cfg := &putConfig{
		basis:    format.BasisBusiness,
		observed: format.ObservedEnd,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithDescription sets the description of the stored object.
func WithDescription(text string) PutOption {
	return options.NoError(func(c *putConfig) { c.description = text })
}

// WithDocumentation sets the documentation of the stored object.
func WithDocumentation(text string) PutOption {
	return options.NoError(func(c *putConfig) { c.documentation = text })
}

// WithType declares the data type of the stored object. It must agree with
// the values; by default the type follows them, so float64 values are
// stored as precision.
func WithType(t format.DataType) PutOption {
	return options.NoError(func(c *putConfig) { c.dataType = t })
}

// WithBasis sets the basis of a calendar series. Defaults to business.
func WithBasis(b format.Basis) PutOption {
	return options.NoError(func(c *putConfig) { c.basis = b })
}

// WithObserved sets the observed convention of a calendar series. Defaults
// to end of period.
func WithObserved(o format.Observed) PutOption {
	return options.NoError(func(c *putConfig) { c.observed = o })
}

func (c *putConfig) meta(name string, values record.Values) record.Meta {
	t := c.dataType
	if t == format.TypeUndefined {
		t = values.Type()
	}

	return record.Meta{
		Name:          name,
		Type:          t,
		Description:   c.description,
		Documentation: c.documentation,
	}
}

// PutSeries stores s under name, converting its host index to a store range.
// The catalog is left untouched when the series is invalid.
func PutSeries(cat *Catalog, conv *tsrange.Converter, name string, s HostSeries, opts ...PutOption) error {
	cfg, err := newPutConfig(opts...)
	if err != nil {
		return err
	}
	if s.Index == nil || s.Values == nil {
		return fmt.Errorf("%w: series %s needs an index and values", errs.ErrInvalidValue, name)
	}

	rng, err := conv.ToStoreRange(s.Index)
	if err != nil {
		return fmt.Errorf("range of %s: %w", name, err)
	}

	series := &record.Series{
		Meta:   cfg.meta(name, s.Values),
		Range:  rng,
		Values: s.Values,
	}
	if !rng.IsCase() {
		series.Basis = cfg.basis
		series.Observed = cfg.observed
	}
	if err := record.Validate(series); err != nil {
		return err
	}
	cat.Set(series)

	return nil
}

// PutScalar stores value under name as a scalar.
func PutScalar(cat *Catalog, name string, value record.Values, opts ...PutOption) error {
	cfg, err := newPutConfig(opts...)
	if err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("%w: scalar %s has no value", errs.ErrInvalidValue, name)
	}

	scalar := &record.Scalar{Meta: cfg.meta(name, value), Value: value}
	if err := record.Validate(scalar); err != nil {
		return err
	}
	cat.Set(scalar)

	return nil
}
