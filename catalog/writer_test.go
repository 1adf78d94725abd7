package catalog

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/store"
)

func TestWrite_CreateThenUpdate(t *testing.T) {
	sess := newSession(t)

	first := New()
	first.Set(record.NewPrecisionScalar("PI", math.Pi))
	require.NoError(t, Write(sess, "econ", first))

	second := New()
	second.Set(record.NewSeries("GDP", firstQuarter, record.Float64s{1, 2, 3}, format.BasisDaily, format.ObservedEnd))
	require.NoError(t, Write(sess, "econ", second))

	cat, _, err := Read(sess, "econ")
	require.NoError(t, err)
	require.Equal(t, []string{"GDP", "PI"}, cat.Names())
}

func TestWrite_Allocation(t *testing.T) {
	sess := newSession(t)

	cat := New()
	s := record.NewSeries("GDP", firstQuarter, record.Float64s{1, 2, 3}, format.BasisDaily, format.ObservedSummed)
	s.Meta.Description = "gross domestic product"
	s.Meta.Documentation = "quarterly national accounts"
	cat.Set(s)
	require.NoError(t, Write(sess, "econ", cat))

	db, err := sess.Open("econ", format.ModeRead)
	require.NoError(t, err)
	defer db.Close()

	info, err := db.Info("GDP")
	require.NoError(t, err)
	require.Equal(t, format.ClassSeries, info.Class)
	require.Equal(t, format.TypePrecision, info.Type)
	require.Equal(t, firstQuarter, info.Range())
	require.Equal(t, format.BasisDaily, info.Basis)
	require.Equal(t, format.ObservedSummed, info.Observed)
	require.Equal(t, "gross domestic product", info.Description)
	require.Equal(t, "quarterly national accounts", info.Documentation)
}

func TestWrite_StringMissing(t *testing.T) {
	sess := newSession(t)

	cat := New()
	cat.Set(record.NewSeries("NOTE", format.NewRange(format.FreqCase, 1, 2), record.Strings{{}, record.NewText("x")}, 0, 0))
	require.NoError(t, Write(sess, "econ", cat))

	db, err := sess.Open("econ", format.ModeRead)
	require.NoError(t, err)
	defer db.Close()

	cells := []store.StringCell{{Buf: make([]byte, 1)}, {Buf: make([]byte, 1)}}
	require.NoError(t, db.ReadStrings("NOTE", format.NewRange(format.FreqCase, 1, 2), cells))
	require.Equal(t, store.MissingNC, cells[0].Missing)
	require.Equal(t, store.NotMissing, cells[1].Missing)
	require.Equal(t, "x", string(cells[1].Buf))
}

func TestWrite_Failures(t *testing.T) {
	sess := newSession(t)

	cat := New()
	cat.Set(record.NewPrecisionScalar("PI", math.Pi))
	require.NoError(t, Write(sess, "econ", cat))

	bad := New()
	bad.Set(&record.Scalar{Meta: record.Meta{Name: "X", Type: format.TypeNumeric}, Value: record.Float64s{1}})
	err := Write(sess, "other", bad)
	require.ErrorIs(t, err, errs.ErrWriteFailure)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	db, err := sess.Open("econ", format.ModeRead)
	require.NoError(t, err)
	err = Write(sess, "econ", New())
	require.ErrorIs(t, err, errs.ErrOpenFailure)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	require.NoError(t, db.Close())
}

func TestWrite_Logs(t *testing.T) {
	sess := newSession(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cat := New()
	cat.Set(record.NewPrecisionScalar("PI", math.Pi))
	require.NoError(t, Write(sess, "econ", cat, WithLogger(logger)))
	require.Contains(t, buf.String(), "object written")
	require.Contains(t, buf.String(), "name=PI")
}

func TestWrite_UpdatesReadCatalog(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, Write(sess, "econ", sampleCatalog()))

	cat, _, err := Read(sess, "econ")
	require.NoError(t, err)

	pi, ok := cat.Get("PI")
	require.True(t, ok)
	pi.(*record.Scalar).Value = record.Float64s{3.14}
	pi.Metadata().Description = "pi, rounded"

	gdp, ok := cat.Get("GDP")
	require.True(t, ok)
	gdp.(*record.Series).Values = record.Float64s{10, 20, 30}

	cat.Set(record.NewNameListScalar("LIST", "GDP", "PI", "RATE"))
	require.NoError(t, Write(sess, "econ", cat))

	again, _, err := Read(sess, "econ")
	require.NoError(t, err)
	require.Equal(t, cat.Names(), again.Names())

	obj, _ := again.Get("PI")
	require.Equal(t, record.Float64s{3.14}, obj.Data())
	require.Equal(t, "pi, rounded", obj.Metadata().Description)

	obj, _ = again.Get("GDP")
	require.Equal(t, record.Float64s{10, 20, 30}, obj.Data())
	require.Equal(t, firstQuarter, obj.(*record.Series).Range)

	obj, _ = again.Get("LIST")
	require.Equal(t, record.NameList{"GDP", "PI", "RATE"}, obj.Data())
}

func TestWrite_ExistingConflicts(t *testing.T) {
	tests := []struct {
		name string
		obj  record.Object
		want error
	}{
		{
			name: "type",
			obj:  record.NewStringScalar("PI", "3.14"),
			want: errs.ErrTypeMismatch,
		},
		{
			name: "class",
			obj:  record.NewPrecisionScalar("GDP", 1),
			want: errs.ErrClassMismatch,
		},
		{
			name: "frequency",
			obj: record.NewSeries("GDP", format.NewRange(format.FreqQuarterlyDec, 8080, 8080),
				record.Float64s{1}, format.BasisDaily, format.ObservedAveraged),
			want: errs.ErrRangeMismatch,
		},
		{
			name: "shorter name list",
			obj:  record.NewNameListScalar("LIST", "GDP"),
			want: errs.ErrLengthMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession(t)
			require.NoError(t, Write(sess, "econ", sampleCatalog()))

			cat := New()
			cat.Set(tt.obj)
			err := Write(sess, "econ", cat)
			require.ErrorIs(t, err, errs.ErrWriteFailure)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
