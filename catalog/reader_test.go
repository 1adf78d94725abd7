package catalog

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/memstore"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/store"
)

var (
	jan2020      = int64(2020 * 12)
	firstQuarter = format.NewRange(format.FreqMonthly, jan2020, jan2020+2)
)

func newSession(t *testing.T) *memstore.Session {
	t.Helper()

	sess, err := memstore.New(memstore.WithClock(func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
	require.NoError(t, err)

	return sess
}

// seed writes objects straight through the store, bypassing the catalog writer.
func seed(t *testing.T, sess store.Session, name string, fn func(db store.Database)) {
	t.Helper()

	db, err := sess.Open(name, format.ModeCreate)
	require.NoError(t, err)
	fn(db)
	require.NoError(t, db.Close())
}

func sampleCatalog() *Catalog {
	cat := New()
	pi := record.NewPrecisionScalar("PI", math.Pi)
	pi.Meta.Description = "pi"
	cat.Set(pi)
	cat.Set(record.NewSeries("GDP", firstQuarter, record.Float64s{1, math.NaN(), 3}, format.BasisDaily, format.ObservedAveraged))
	cat.Set(record.NewSeries("NOTE", format.NewRange(format.FreqCase, 1, 3),
		record.Strings{record.NewText("a"), {}, record.NewText("")}, 0, 0))
	cat.Set(record.NewSeries("RATE", firstQuarter, record.Float32s{1.5, 2.5, float32(math.NaN())}, format.BasisBusiness, format.ObservedEnd))
	cat.Set(record.NewNameListScalar("LIST", "GDP", "PI"))
	cat.Set(record.NewStringScalar("TITLE", "economy"))

	return cat
}

func TestRead_RoundTrip(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, Write(sess, "econ", sampleCatalog()))

	cat, report, err := Read(sess, "econ")
	require.NoError(t, err)
	require.NoError(t, report.Interrupted)
	require.Equal(t, 6, report.Count(Included))
	require.Equal(t, []string{"GDP", "LIST", "NOTE", "PI", "RATE", "TITLE"}, cat.Names())

	obj, ok := cat.Get("pi")
	require.True(t, ok)
	require.Equal(t, format.ClassScalar, obj.Class())
	require.Equal(t, format.TypePrecision, obj.Type())
	require.Equal(t, record.Float64s{math.Pi}, obj.Data())
	require.Equal(t, "pi", obj.Metadata().Description)
	require.False(t, obj.Metadata().CreatedAt.IsZero())

	obj, ok = cat.Get("GDP")
	require.True(t, ok)
	gdp := obj.(*record.Series)
	require.Equal(t, firstQuarter, gdp.Range)
	require.Equal(t, format.BasisDaily, gdp.Basis)
	require.Equal(t, format.ObservedAveraged, gdp.Observed)
	values := gdp.Values.(record.Float64s)
	require.Equal(t, 1.0, values[0])
	require.True(t, math.IsNaN(values[1]))
	require.Equal(t, 3.0, values[2])

	obj, _ = cat.Get("NOTE")
	note := obj.(*record.Series)
	require.Equal(t, format.BasisUndefined, note.Basis)
	require.Equal(t, format.ObservedUnbound, note.Observed)
	require.Equal(t, record.Strings{record.NewText("a"), {}, record.NewText("")}, note.Values)

	obj, _ = cat.Get("RATE")
	rate := obj.Data().(record.Float32s)
	require.Equal(t, float32(2.5), rate[1])
	require.True(t, rate.IsMissing(2))

	obj, _ = cat.Get("LIST")
	require.Equal(t, record.NameList{"GDP", "PI"}, obj.Data())

	obj, _ = cat.Get("TITLE")
	require.Equal(t, record.Strings{record.NewText("economy")}, obj.Data())
}

func TestRead_Pattern(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, Write(sess, "econ", sampleCatalog()))

	cat, report, err := Read(sess, "econ", WithPattern("^^^^"))
	require.NoError(t, err)
	require.Equal(t, []string{"LIST", "NOTE", "RATE"}, cat.Names())
	require.Len(t, report.Outcomes, 3)

	_, err = newConfig(WithPattern(" "))
	require.ErrorIs(t, err, errs.ErrInvalidName)
}

func TestRead_RangeFilter(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, Write(sess, "econ", sampleCatalog()))

	filter := format.NewRange(format.FreqMonthly, jan2020+1, jan2020+3)
	cat, report, err := Read(sess, "econ", WithRangeFilter(filter))
	require.NoError(t, err)
	require.Equal(t, []string{"GDP", "RATE"}, cat.Names())
	require.Equal(t, 4, report.Count(SkippedFilterMismatch))

	o, ok := report.Outcome("PI")
	require.True(t, ok)
	require.Equal(t, SkippedFilterMismatch, o.Kind)
	require.NoError(t, o.Err)

	obj, _ := cat.Get("GDP")
	gdp := obj.(*record.Series)
	require.Equal(t, filter, gdp.Range)
	values := gdp.Values.(record.Float64s)
	require.Len(t, values, 3)
	require.True(t, math.IsNaN(values[0]))
	require.Equal(t, 3.0, values[1])
	require.True(t, math.IsNaN(values[2]), "outside the stored range")

	for _, bad := range []format.Range{
		format.NewRange(format.FreqMonthly, 5, 1),
		format.NewRange(format.FreqMonthly, 0, math.MaxInt64),
		format.NewRange(format.FreqMonthly, 0, 1<<50),
	} {
		_, _, err = Read(sess, "econ", WithRangeFilter(bad))
		require.ErrorIs(t, err, errs.ErrInvalidRange, bad.String())
	}
}

func TestRead_Skips(t *testing.T) {
	sess := newSession(t)
	seed(t, sess, "mixed", func(db store.Database) {
		require.NoError(t, db.Allocate(store.Allocation{Name: "F1", Class: format.ClassFormula}))
		require.NoError(t, db.Allocate(store.Allocation{Name: "G1", Class: format.ClassGlobalName}))
		require.NoError(t, db.Allocate(store.Allocation{
			Name: "TEN", Class: format.ClassSeries, Freq: format.FreqTenDay, Type: format.TypePrecision,
		}))
		require.NoError(t, db.Allocate(store.Allocation{Name: "FLAG", Class: format.ClassScalar, Type: format.TypeBoolean}))
		require.NoError(t, db.Allocate(store.Allocation{Name: "PI", Class: format.ClassScalar, Type: format.TypePrecision}))
		require.NoError(t, db.WriteFloat64s("PI", scalarRange, []float64{math.Pi}, store.NaNMissing()))
	})

	cat, report, err := Read(sess, "mixed")
	require.NoError(t, err)
	require.Equal(t, []string{"PI"}, cat.Names())
	require.Equal(t, 2, report.Count(SkippedCatalogOnly))
	require.Equal(t, 1, report.Count(SkippedUnsupportedType))

	o, _ := report.Outcome("TEN")
	require.Equal(t, SkippedUnrecognizedFrequency, o.Kind)
	require.ErrorIs(t, o.Err, errs.ErrUnrecognizedFrequency)
	require.Contains(t, o.Err.Error(), "DATE(TENDAY)")

	o, _ = report.Outcome("FLAG")
	require.ErrorIs(t, o.Err, errs.ErrUnsupportedType)
}

func TestRead_OpenFailure(t *testing.T) {
	sess := newSession(t)

	_, _, err := Read(sess, "missing")
	require.ErrorIs(t, err, errs.ErrOpenFailure)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

// faultSession wraps databases opened through it with faultDB.
type faultSession struct {
	store.Session
	wrap func(store.Database) store.Database
}

func (s *faultSession) Open(name string, mode format.AccessMode) (store.Database, error) {
	db, err := s.Session.Open(name, mode)
	if err != nil {
		return nil, err
	}

	return s.wrap(db), nil
}

// faultDB injects extra truncations into string and name list reads, and
// cursor failures.
type faultDB struct {
	store.Database
	truncations     int
	listTruncations int
	cursorFail      int
	closed          int
}

func (d *faultDB) ReadNameList(name string, buf []byte) (int, error) {
	n, err := d.Database.ReadNameList(name, buf)
	if err == nil && d.listTruncations > 0 {
		d.listTruncations--
		return n, errs.ErrTruncated
	}

	return n, err
}

func (d *faultDB) ReadStrings(name string, rng format.Range, cells []store.StringCell) error {
	err := d.Database.ReadStrings(name, rng, cells)
	if err == nil && d.truncations > 0 {
		d.truncations--
		return errs.ErrTruncated
	}

	return err
}

func (d *faultDB) Wildcard(pattern string) (store.Cursor, error) {
	cur, err := d.Database.Wildcard(pattern)
	if err != nil || d.cursorFail == 0 {
		return cur, err
	}

	return &failingCursor{Cursor: cur, left: d.cursorFail}, nil
}

func (d *faultDB) Close() error {
	d.closed++
	return d.Database.Close()
}

type failingCursor struct {
	store.Cursor
	left int
}

var errCursorLost = errors.New("cursor lost")

func (c *failingCursor) Next() (store.Entry, error) {
	if c.left == 0 {
		return store.Entry{}, errCursorLost
	}
	c.left--

	return c.Cursor.Next()
}

func TestRead_StringTruncation(t *testing.T) {
	tests := []struct {
		name        string
		truncations int
		wantErr     error
	}{
		{"size then fetch", 0, nil},
		{"extra truncation after resize", 1, errs.ErrBufferTruncation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession(t)
			cat := New()
			cat.Set(record.NewSeries("NOTE", format.NewRange(format.FreqCase, 1, 2), record.TextStrings("hello", "world!"), 0, 0))
			require.NoError(t, Write(sess, "econ", cat))

			fdb := &faultDB{truncations: tt.truncations}
			fs := &faultSession{Session: sess, wrap: func(db store.Database) store.Database {
				fdb.Database = db
				return fdb
			}}

			got, report, err := Read(fs, "econ")
			require.Equal(t, 1, fdb.closed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				o, _ := report.Outcome("NOTE")
				require.Equal(t, Failed, o.Kind)

				return
			}

			require.NoError(t, err)
			obj, _ := got.Get("NOTE")
			require.Equal(t, record.TextStrings("hello", "world!"), obj.Data())
		})
	}
}

func TestRead_NameListResize(t *testing.T) {
	sess := newSession(t)
	cat := New()
	cat.Set(record.NewNameListScalar("LIST", "GROSS_DOMESTIC_PRODUCT", "CONSUMER_PRICES"))
	require.NoError(t, Write(sess, "econ", cat))

	got, _, err := Read(sess, "econ")
	require.NoError(t, err)
	obj, _ := got.Get("LIST")
	require.Equal(t, record.NameList{"GROSS_DOMESTIC_PRODUCT", "CONSUMER_PRICES"}, obj.Data())
}

func TestRead_NameListTruncation(t *testing.T) {
	tests := []struct {
		name        string
		names       []string
		truncations int
		wantErr     error
	}{
		{"fits, one injected", []string{"A"}, 1, nil},
		{"fits, two injected", []string{"A"}, 2, errs.ErrBufferTruncation},
		{"resized, one injected", []string{"GROSS_DOMESTIC_PRODUCT", "CPI"}, 1, errs.ErrBufferTruncation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession(t)
			cat := New()
			cat.Set(record.NewNameListScalar("LIST", tt.names...))
			require.NoError(t, Write(sess, "econ", cat))

			fdb := &faultDB{listTruncations: tt.truncations}
			fs := &faultSession{Session: sess, wrap: func(db store.Database) store.Database {
				fdb.Database = db
				return fdb
			}}

			got, report, err := Read(fs, "econ")
			require.Equal(t, 1, fdb.closed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				o, ok := report.Outcome("LIST")
				require.True(t, ok)
				require.Equal(t, Failed, o.Kind)

				return
			}

			require.NoError(t, err)
			obj, _ := got.Get("LIST")
			require.Equal(t, record.NameList(tt.names), obj.Data())
		})
	}
}

func TestRead_InterruptedCursor(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, Write(sess, "econ", sampleCatalog()))

	fdb := &faultDB{cursorFail: 2}
	fs := &faultSession{Session: sess, wrap: func(db store.Database) store.Database {
		fdb.Database = db
		return fdb
	}}

	cat, report, err := Read(fs, "econ")
	require.NoError(t, err)
	require.ErrorIs(t, report.Interrupted, errCursorLost)
	assert.Equal(t, []string{"GDP", "LIST"}, cat.Names())
	assert.Equal(t, 1, fdb.closed)
}
