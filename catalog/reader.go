package catalog

import (
	"errors"
	"fmt"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/store"
	"github.com/arloliu/fameport/tsrange"
)

// Read walks the objects of a database that match a wildcard and returns them
// as records.
//
// The database is opened read-only and closed on every return path. Each
// matched scalar or series is fetched in full before it is added, so a
// catalog never holds a partial object. Objects that cannot be represented
// are skipped and reported, not treated as errors: range filter mismatches,
// frequencies without a host equivalent, catalog-only classes and unsupported
// payload types. A cursor error other than the end of matches stops the walk
// and the objects read so far are returned with Report.Interrupted set.
//
// Parameters:
//   - sess: Store session
//   - dbName: Name of the database to read
//   - opts: WithPattern, WithRangeFilter, WithLogger, WithRegistry
//
// Returns:
//   - *Catalog: Objects read, in cursor order
//   - *Report: Per-object outcomes
//   - error: errs.ErrOpenFailure when the database cannot be opened, or the
//     first fatal per-object error (e.g. errs.ErrBufferTruncation)
func Read(sess store.Session, dbName string, opts ...Option) (cat *Catalog, report *Report, err error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, nil, err
	}

	db, err := sess.Open(dbName, format.ModeRead)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailure, dbName, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", dbName, cerr))
		}
	}()

	cursor, err := db.Wildcard(cfg.pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("wildcard %q in %s: %w", cfg.pattern, dbName, err)
	}

	r := &reader{
		cfg:  cfg,
		db:   db,
		conv: tsrange.NewConverter(sess, cfg.registry),
	}
	cat = New()
	report = &Report{}

	for {
		entry, nextErr := cursor.Next()
		if errors.Is(nextErr, errs.ErrNoMoreObjects) {
			break
		}
		if nextErr != nil {
			report.Interrupted = nextErr
			cfg.logger.Warn("catalog walk interrupted", "database", dbName, "objects", cat.Len(), "error", nextErr)

			break
		}

		obj, kind, objErr := r.readObject(entry)
		report.add(entry.Name, kind, objErr)

		switch {
		case kind == Failed:
			return nil, report, objErr
		case kind == SkippedFilterMismatch:
			cfg.logger.Debug("object skipped", "name", entry.Name, "reason", kind.String())
		case kind.IsSkip():
			cfg.logger.Info("object skipped", "name", entry.Name, "reason", kind.String(), "error", objErr)
		default:
			cat.Set(obj)
		}
	}

	return cat, report, nil
}

type reader struct {
	cfg  *Config
	db   store.Database
	conv *tsrange.Converter
}

func (r *reader) readObject(entry store.Entry) (record.Object, OutcomeKind, error) {
	info, err := r.db.Info(entry.Name)
	if err != nil {
		return nil, Failed, fmt.Errorf("info %s: %w", entry.Name, err)
	}

	switch info.Class {
	case format.ClassSeries:
		return r.readSeries(info)
	case format.ClassScalar:
		return r.readScalar(info)
	default:
		return nil, SkippedCatalogOnly, nil
	}
}

func (r *reader) readSeries(info store.Info) (record.Object, OutcomeKind, error) {
	rng := info.Range()
	if r.cfg.filter != nil {
		if r.cfg.filter.Freq != info.Freq {
			return nil, SkippedFilterMismatch, nil
		}
		rng = *r.cfg.filter
	}

	if !rng.IsCase() {
		if _, err := r.conv.HostFrequency(rng.Freq); err != nil {
			return nil, SkippedUnrecognizedFrequency, err
		}
	}

	values, kind, err := r.readValues(info, rng)
	if kind != Included {
		return nil, kind, err
	}

	s := &record.Series{
		Meta:   metaOf(info),
		Range:  rng,
		Values: values,
	}
	if !rng.IsCase() {
		s.Basis = info.Basis
		s.Observed = info.Observed
	}

	return s, Included, nil
}

func (r *reader) readScalar(info store.Info) (record.Object, OutcomeKind, error) {
	if r.cfg.filter != nil {
		return nil, SkippedFilterMismatch, nil
	}

	values, kind, err := r.readValues(info, scalarRange)
	if kind != Included {
		return nil, kind, err
	}

	return &record.Scalar{Meta: metaOf(info), Value: values}, Included, nil
}

func (r *reader) readValues(info store.Info, rng format.Range) (record.Values, OutcomeKind, error) {
	var (
		values record.Values
		err    error
	)

	switch info.Type {
	case format.TypePrecision:
		values, err = readPrecision(r.db, info.Name, rng)
	case format.TypeNumeric:
		values, err = readNumeric(r.db, info.Name, rng)
	case format.TypeString:
		values, err = readStrings(r.db, info.Name, rng)
	case format.TypeNameList:
		if info.Class != format.ClassScalar {
			return nil, SkippedUnsupportedType, fmt.Errorf("%w: name list series %s", errs.ErrUnsupportedType, info.Name)
		}
		values, err = readNameList(r.db, info.Name)
	default:
		return nil, SkippedUnsupportedType, fmt.Errorf("%w: %s of type %s", errs.ErrUnsupportedType, info.Name, info.Type)
	}
	if err != nil {
		return nil, Failed, err
	}

	return values, Included, nil
}

func metaOf(info store.Info) record.Meta {
	return record.Meta{
		Name:          info.Name,
		Type:          info.Type,
		CreatedAt:     info.CreatedAt,
		ModifiedAt:    info.ModifiedAt,
		Description:   info.Description,
		Documentation: info.Documentation,
	}
}
