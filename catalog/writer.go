package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/store"
)

// scalarRange is the single-observation range scalars are read and written over.
var scalarRange = format.NewRange(format.FreqUndefined, 0, 0)

// Write allocates and populates every object of cat in the named database,
// in catalog order.
//
// The database is opened for update, or created when it does not exist. The
// object that already exists is updated in place when its class, type and
// frequency match the record; a conflicting one fails the pass. The
// first failing object aborts the pass with an error wrapping
// errs.ErrWriteFailure; objects written before it stay written. The database
// is closed on every return path and a close failure is joined to the result.
//
// Parameters:
//   - sess: Store session
//   - dbName: Name of the target database
//   - cat: Objects to write
//   - opts: WithLogger
//
// Returns:
//   - error: errs.ErrOpenFailure, errs.ErrWriteFailure, or a close error
func Write(sess store.Session, dbName string, cat *Catalog, opts ...Option) (err error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	db, err := sess.Open(dbName, format.ModeUpdate)
	if errors.Is(err, errs.ErrNotFound) {
		db, err = sess.Open(dbName, format.ModeCreate)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrOpenFailure, dbName, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", dbName, cerr))
		}
	}()

	for name, obj := range cat.All() {
		if err := writeObject(db, obj); err != nil {
			return fmt.Errorf("%w: %s: %w", errs.ErrWriteFailure, name, err)
		}
		cfg.logger.Debug("object written", logAttrs(obj)...)
	}

	return nil
}

func writeObject(db store.Database, obj record.Object) error {
	if err := record.Validate(obj); err != nil {
		return err
	}

	alloc, rng := allocationOf(obj)
	if err := db.Allocate(alloc); err != nil {
		if !errors.Is(err, errs.ErrObjectExists) {
			return fmt.Errorf("allocate: %w", err)
		}
		if err := checkExisting(db, alloc, obj.Data()); err != nil {
			return err
		}
	}

	meta := obj.Metadata()
	if meta.Description != "" {
		if err := db.SetDescription(alloc.Name, meta.Description); err != nil {
			return fmt.Errorf("set description: %w", err)
		}
	}
	if meta.Documentation != "" {
		if err := db.SetDocumentation(alloc.Name, meta.Documentation); err != nil {
			return fmt.Errorf("set documentation: %w", err)
		}
	}

	return writeValues(db, alloc.Name, rng, obj.Data())
}

// checkExisting decides whether an existing object can take the values of a
// record. Class, type and frequency must match, and an existing name list
// must not be longer than the new one since items cannot be removed.
func checkExisting(db store.Database, alloc store.Allocation, values record.Values) error {
	info, err := db.Info(alloc.Name)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	switch {
	case info.Class != alloc.Class:
		return fmt.Errorf("%w: %s exists as %s, record is %s",
			errs.ErrClassMismatch, alloc.Name, info.Class, alloc.Class)
	case info.Type != alloc.Type:
		return fmt.Errorf("%w: %s exists as %s, record is %s",
			errs.ErrTypeMismatch, alloc.Name, info.Type, alloc.Type)
	case alloc.Class == format.ClassSeries && info.Freq != alloc.Freq:
		return fmt.Errorf("%w: %s exists at %s, record is %s",
			errs.ErrRangeMismatch, alloc.Name, info.Freq, alloc.Freq)
	}

	if names, ok := values.(record.NameList); ok {
		stored, err := readNameList(db, alloc.Name)
		if err != nil {
			return err
		}
		if stored.Len() > names.Len() {
			return fmt.Errorf("%w: %s holds %d names, record has %d",
				errs.ErrLengthMismatch, alloc.Name, stored.Len(), names.Len())
		}
	}

	return nil
}

// allocationOf computes the allocation parameters of obj and the range its
// payload is written over.
func allocationOf(obj record.Object) (store.Allocation, format.Range) {
	alloc := store.Allocation{
		Name:     obj.Name(),
		Class:    obj.Class(),
		Freq:     format.FreqUndefined,
		Type:     obj.Type(),
		Basis:    format.BasisUndefined,
		Observed: format.ObservedUnbound,
		Count:    1,
	}
	rng := scalarRange

	if s, ok := obj.(*record.Series); ok {
		rng = s.Range
		alloc.Freq = s.Range.Freq
		alloc.Count = s.Range.Len()
		if s.IsCalendar() {
			alloc.Basis = s.Basis
			alloc.Observed = s.Observed
		}
	}

	switch v := obj.Data().(type) {
	case record.Strings:
		alloc.Chars = v.Chars()
	case record.NameList:
		alloc.Count = v.Len()
		alloc.Chars = v.Chars()
	}

	return alloc, rng
}

func writeValues(db store.Database, name string, rng format.Range, values record.Values) error {
	switch v := values.(type) {
	case record.Float64s:
		if err := db.WriteFloat64s(name, rng, v, store.NaNMissing()); err != nil {
			return fmt.Errorf("write precision: %w", err)
		}
	case record.Float32s:
		if err := db.WriteFloat32s(name, rng, v, store.NaNMissing()); err != nil {
			return fmt.Errorf("write numeric: %w", err)
		}
	case record.Strings:
		if err := db.WriteStrings(name, rng, stringCells(v)); err != nil {
			return fmt.Errorf("write strings: %w", err)
		}
	case record.NameList:
		for i, item := range v {
			if err := db.WriteNameListItem(name, i+1, item); err != nil {
				return fmt.Errorf("write name list item %d: %w", i+1, err)
			}
		}
	default:
		return fmt.Errorf("%w: %T", errs.ErrUnsupportedType, values)
	}

	return nil
}

func stringCells(values record.Strings) []store.StringCell {
	cells := make([]store.StringCell, len(values))
	for i, t := range values {
		if !t.Valid {
			cells[i].Missing = store.MissingNC
			continue
		}
		cells[i].Buf = []byte(t.Value)
		cells[i].OutLen = len(t.Value)
	}

	return cells
}

func logAttrs(obj record.Object) []any {
	return []any{
		slog.String("name", obj.Name()),
		slog.String("class", obj.Class().String()),
		slog.String("type", obj.Type().String()),
	}
}
