package memstore

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fameport/endian"
	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/dbfile"
	"github.com/arloliu/fameport/store"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	sess, err := New(opts...)
	require.NoError(t, err)

	return sess
}

func createDB(t *testing.T, sess *Session, name string) store.Database {
	t.Helper()

	db, err := sess.Open(name, format.ModeCreate)
	require.NoError(t, err)

	return db
}

func monthly(first, last int64) format.Range {
	return format.NewRange(format.FreqMonthly, 2020*12+first, 2020*12+last)
}

func allocSeries(t *testing.T, db store.Database, name string, typ format.DataType) {
	t.Helper()

	require.NoError(t, db.Allocate(store.Allocation{
		Name:     name,
		Class:    format.ClassSeries,
		Freq:     format.FreqMonthly,
		Type:     typ,
		Basis:    format.BasisDaily,
		Observed: format.ObservedAveraged,
	}))
}

func TestSession_Open(t *testing.T) {
	sess := newTestSession(t)

	_, err := sess.Open("econ", format.ModeRead)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = sess.Open("econ", format.AccessMode(3))
	require.ErrorIs(t, err, errs.ErrInvalidValue)

	_, err = sess.Open("a/b", format.ModeCreate)
	require.ErrorIs(t, err, errs.ErrInvalidName)

	db := createDB(t, sess, "econ")
	require.Equal(t, "ECON", db.Name())

	_, err = sess.Open("ECON", format.ModeRead)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	require.NoError(t, db.Close())
	require.ErrorIs(t, db.Close(), errs.ErrDatabaseClosed)

	_, err = sess.Open("econ", format.ModeCreate)
	require.ErrorIs(t, err, errs.ErrDatabaseExists)

	r1, err := sess.Open("econ", format.ModeRead)
	require.NoError(t, err)
	r2, err := sess.Open("econ", format.ModeRead)
	require.NoError(t, err)

	_, err = sess.Open("econ", format.ModeUpdate)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	require.NoError(t, r1.Close())
	require.NoError(t, r2.Close())

	w, err := sess.Open("econ", format.ModeUpdate)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	names, err := sess.Databases()
	require.NoError(t, err)
	require.Equal(t, []string{"ECON"}, names)
}

func TestDatabase_Allocate(t *testing.T) {
	sess := newTestSession(t)
	db := createDB(t, sess, "econ")
	defer db.Close()

	allocSeries(t, db, "gdp", format.TypePrecision)

	info, err := db.Info("GDP")
	require.NoError(t, err)
	assert.Equal(t, "GDP", info.Name)
	assert.Equal(t, format.ClassSeries, info.Class)
	assert.Equal(t, format.FreqMonthly, info.Freq)
	assert.Equal(t, format.BasisDaily, info.Basis)
	assert.Equal(t, format.ObservedAveraged, info.Observed)
	assert.True(t, info.Range().IsEmpty())
	assert.Equal(t, fixedNow, info.CreatedAt)

	tests := []struct {
		name string
		a    store.Allocation
		want error
	}{
		{"exists", store.Allocation{Name: "GDP", Class: format.ClassScalar, Type: format.TypePrecision}, errs.ErrObjectExists},
		{"digit first", store.Allocation{Name: "1X", Class: format.ClassScalar, Type: format.TypePrecision}, errs.ErrInvalidName},
		{"space", store.Allocation{Name: "A B", Class: format.ClassScalar, Type: format.TypePrecision}, errs.ErrInvalidName},
		{"negative count", store.Allocation{Name: "X", Class: format.ClassScalar, Type: format.TypeString, Chars: -1}, errs.ErrInvalidValue},
		{"bad frequency", store.Allocation{Name: "X", Class: format.ClassSeries, Type: format.TypePrecision, Freq: 5}, errs.ErrInvalidFrequency},
		{"no type", store.Allocation{Name: "X", Class: format.ClassScalar}, errs.ErrUnsupportedType},
		{"name list series", store.Allocation{Name: "X", Class: format.ClassSeries, Freq: format.FreqCase, Type: format.TypeNameList}, errs.ErrUnsupportedType},
		{"unknown class", store.Allocation{Name: "X", Class: 9, Type: format.TypePrecision}, errs.ErrUnknownClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, db.Allocate(tt.a), tt.want)
		})
	}

	require.NoError(t, db.Allocate(store.Allocation{Name: "F$1", Class: format.ClassFormula}))
	info, err = db.Info("f$1")
	require.NoError(t, err)
	require.Equal(t, format.ClassFormula, info.Class)
}

func TestDatabase_Float64s(t *testing.T) {
	sess := newTestSession(t)
	db := createDB(t, sess, "econ")
	defer db.Close()

	allocSeries(t, db, "GDP", format.TypePrecision)
	nan := store.NaNMissing()

	require.NoError(t, db.WriteFloat64s("GDP", monthly(0, 2), []float64{1, math.NaN(), 3}, nan))
	require.NoError(t, db.WriteFloat64s("GDP", monthly(4, 4), []float64{5}, nan))

	info, err := db.Info("GDP")
	require.NoError(t, err)
	require.Equal(t, monthly(0, 4), info.Range())

	got := make([]float64, 7)
	require.NoError(t, db.ReadFloat64s("GDP", monthly(-1, 5), got, nan))
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, 1.0, got[1])
	assert.True(t, math.IsNaN(got[2]))
	assert.Equal(t, 3.0, got[3])
	assert.True(t, math.IsNaN(got[4]), "gap filled with ND")
	assert.Equal(t, 5.0, got[5])
	assert.True(t, math.IsNaN(got[6]))

	table := store.MissingTable{-1, -2, -3}
	got = make([]float64, 2)
	require.NoError(t, db.ReadFloat64s("GDP", monthly(1, 2), got, table))
	require.Equal(t, []float64{-1, 3}, got, "NaN was written as NC")

	require.ErrorIs(t, db.ReadFloat64s("GDP", monthly(0, 2), make([]float64, 2), nan), errs.ErrLengthMismatch)
	require.ErrorIs(t, db.ReadFloat64s("GDP", format.NewRange(format.FreqDaily, 0, 0), make([]float64, 1), nan), errs.ErrRangeMismatch)
	require.ErrorIs(t, db.ReadFloat32s("GDP", monthly(0, 0), make([]float32, 1), nan), errs.ErrTypeMismatch)
	require.ErrorIs(t, db.ReadFloat64s("NOPE", monthly(0, 0), make([]float64, 1), nan), errs.ErrObjectNotFound)
}

func TestDatabase_Float32Scalar(t *testing.T) {
	sess := newTestSession(t)
	db := createDB(t, sess, "econ")
	defer db.Close()

	require.NoError(t, db.Allocate(store.Allocation{Name: "RATE", Class: format.ClassScalar, Type: format.TypeNumeric}))

	nan := store.NaNMissing()
	got := make([]float32, 1)
	require.NoError(t, db.ReadFloat32s("RATE", format.Range{}, got, nan))
	require.True(t, math.IsNaN(float64(got[0])), "new scalar is ND")

	require.NoError(t, db.WriteFloat32s("RATE", format.Range{}, []float32{2.5}, nan))
	require.NoError(t, db.ReadFloat32s("RATE", format.Range{}, got, nan))
	require.Equal(t, float32(2.5), got[0])

	require.ErrorIs(t, db.WriteFloat32s("RATE", format.Range{}, []float32{1, 2}, nan), errs.ErrLengthMismatch)
}

func TestDatabase_Strings(t *testing.T) {
	sess := newTestSession(t)
	db := createDB(t, sess, "econ")
	defer db.Close()

	allocSeries(t, db, "NOTE", format.TypeString)
	require.NoError(t, db.WriteStrings("NOTE", monthly(0, 1), []store.StringCell{
		{Buf: []byte("a longer value")},
		{Missing: store.MissingNA},
	}))

	cells := []store.StringCell{{Buf: make([]byte, 4)}, {Buf: make([]byte, 4)}}
	err := db.ReadStrings("NOTE", monthly(0, 1), cells)
	require.ErrorIs(t, err, errs.ErrTruncated)
	require.Equal(t, 14, cells[0].OutLen)
	require.Equal(t, "a lo", string(cells[0].Buf))
	require.Equal(t, store.MissingNA, cells[1].Missing)

	cells[0].Buf = make([]byte, cells[0].OutLen)
	require.NoError(t, db.ReadStrings("NOTE", monthly(0, 1), cells))
	require.Equal(t, "a longer value", string(cells[0].Buf))
	require.Equal(t, store.NotMissing, cells[0].Missing)
}

func TestDatabase_NameList(t *testing.T) {
	sess := newTestSession(t)
	db := createDB(t, sess, "econ")
	defer db.Close()

	require.NoError(t, db.Allocate(store.Allocation{Name: "LIST", Class: format.ClassScalar, Type: format.TypeNameList, Count: 2}))
	require.NoError(t, db.WriteNameListItem("LIST", 1, "gdp"))
	require.NoError(t, db.WriteNameListItem("LIST", 2, "CPI"))
	require.ErrorIs(t, db.WriteNameListItem("LIST", 4, "X"), errs.ErrInvalidPosition)
	require.ErrorIs(t, db.WriteNameListItem("LIST", 3, ""), errs.ErrInvalidName)

	n, err := db.ReadNameList("LIST", make([]byte, 2))
	require.ErrorIs(t, err, errs.ErrTruncated)
	require.Equal(t, len("{GDP, CPI}"), n)

	buf := make([]byte, n)
	n, err = db.ReadNameList("LIST", buf)
	require.NoError(t, err)
	require.Equal(t, "{GDP, CPI}", string(buf[:n]))
}

func TestDatabase_Wildcard(t *testing.T) {
	sess := newTestSession(t)
	db := createDB(t, sess, "econ")
	defer db.Close()

	for _, name := range []string{"GDP.US", "CPI.US", "GDP.UK"} {
		allocSeries(t, db, name, format.TypePrecision)
	}

	cur, err := db.Wildcard("?.US")
	require.NoError(t, err)

	var names []string
	for {
		e, err := cur.Next()
		if errors.Is(err, errs.ErrNoMoreObjects) {
			break
		}
		require.NoError(t, err)
		require.Equal(t, format.FreqMonthly, e.Freq)
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"CPI.US", "GDP.US"}, names)
}

func TestDatabase_ReadOnly(t *testing.T) {
	sess := newTestSession(t)
	db := createDB(t, sess, "econ")
	allocSeries(t, db, "GDP", format.TypePrecision)
	require.NoError(t, db.Close())

	db, err := sess.Open("econ", format.ModeRead)
	require.NoError(t, err)
	defer db.Close()

	require.ErrorIs(t, db.Allocate(store.Allocation{Name: "X", Class: format.ClassScalar, Type: format.TypePrecision}), errs.ErrReadOnly)
	require.ErrorIs(t, db.SetDescription("GDP", "x"), errs.ErrReadOnly)
	require.ErrorIs(t, db.WriteFloat64s("GDP", monthly(0, 0), []float64{1}, store.NaNMissing()), errs.ErrReadOnly)
}

func TestSession_Persistence(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			dir := t.TempDir()
			sess := newTestSession(t, WithDir(dir), WithCompression(ct))

			db := createDB(t, sess, "Econ")
			allocSeries(t, db, "GDP", format.TypePrecision)
			require.NoError(t, db.WriteFloat64s("GDP", monthly(0, 2), []float64{1, math.NaN(), 3}, store.NaNMissing()))
			require.NoError(t, db.SetDescription("GDP", "gross domestic product"))
			require.NoError(t, db.Close())

			_, err := os.Stat(filepath.Join(dir, "econ"+FileExt))
			require.NoError(t, err)
			require.Equal(t, filepath.Join(dir, "econ"+FileExt), sess.Path("ECON"))

			fresh := newTestSession(t, WithDir(dir))
			names, err := fresh.Databases()
			require.NoError(t, err)
			require.Equal(t, []string{"ECON"}, names)

			db, err = fresh.Open("econ", format.ModeRead)
			require.NoError(t, err)
			defer db.Close()

			info, err := db.Info("GDP")
			require.NoError(t, err)
			require.Equal(t, "gross domestic product", info.Description)
			require.Equal(t, monthly(0, 2), info.Range())
			require.True(t, fixedNow.Equal(info.ModifiedAt))

			got := make([]float64, 3)
			require.NoError(t, db.ReadFloat64s("GDP", info.Range(), got, store.MissingTable{-1, -2, -3}))
			require.Equal(t, []float64{1, -1, 3}, got)
		})
	}
}

func TestWithDir_NotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := New(WithDir(file))
	require.Error(t, err)
}

func TestSession_BigEndianFile(t *testing.T) {
	dir := t.TempDir()
	sess := newTestSession(t, WithDir(dir), WithByteOrder(endian.Big()))

	db := createDB(t, sess, "RATES")
	allocSeries(t, db, "FEDFUNDS", format.TypeNumeric)
	require.NoError(t, db.WriteFloat32s("FEDFUNDS", monthly(0, 1), []float32{1.55, 1.58}, store.NaNMissing()))
	require.NoError(t, db.Close())

	data, err := os.ReadFile(sess.Path("RATES"))
	require.NoError(t, err)
	stats, err := dbfile.Inspect(data)
	require.NoError(t, err)
	require.True(t, stats.Header.IsBigEndian())

	db, err = newTestSession(t, WithDir(dir)).Open("RATES", format.ModeRead)
	require.NoError(t, err)
	defer db.Close()

	got := make([]float32, 2)
	require.NoError(t, db.ReadFloat32s("FEDFUNDS", monthly(0, 1), got, store.NaNMissing()))
	require.Equal(t, []float32{1.55, 1.58}, got)
}
