// Package store defines the boundary between fameport and an external
// time-indexed object store.
//
// The store itself (its session lifecycle, licensing and storage engine) is a
// collaborator: fameport only needs the operations declared here. Every call is
// a blocking round trip and implementations are not required to be safe for
// concurrent use of a single Database.
//
// A reference in-memory implementation lives in package memstore.
package store

import (
	"math"
	"time"

	"github.com/arloliu/fameport/format"
)

// Session is an open connection to the store library.
type Session interface {
	Calendar

	// Open opens the named database in the given mode.
	//
	// Returns errs.ErrNotFound when a database opened for read or update does
	// not exist and errs.ErrPermissionDenied when the database is in use.
	Open(name string, mode format.AccessMode) (Database, error)
}

// Calendar exposes the store's date arithmetic and labeling primitives.
type Calendar interface {
	// TimeToIndex converts a calendar time to a period index of freq.
	TimeToIndex(freq format.Frequency, t time.Time, policy format.TimePolicy) (int64, error)
	// IndexToDaily re-expresses a period index of freq as a daily index,
	// anchored to the given end of the period.
	IndexToDaily(freq format.Frequency, index int64, endpoint format.Endpoint) (int64, error)
	// DecodeDaily splits a daily index into year, month and day.
	DecodeDaily(daily int64) (year int, month time.Month, day int, err error)
	// DecodeTime converts a period index of freq to the time it starts at.
	DecodeTime(freq format.Frequency, index int64) (time.Time, error)
	// DateLiteral renders a period index as a store date literal padded to width.
	DateLiteral(freq format.Frequency, index int64, style format.DateStyle, width int) (string, error)
	// TypeLabel returns the store's base name for a data type or frequency code.
	TypeLabel(t format.DataType) (string, error)
}

// Database is an open store database.
type Database interface {
	// Name returns the name the database was opened with.
	Name() string
	// Close releases the database. Calling Close more than once is an error.
	Close() error

	// Wildcard starts a cursor over the objects whose names match pattern.
	// '?' matches any run of characters and '^' matches exactly one.
	Wildcard(pattern string) (Cursor, error)
	// Info returns the catalog entry of the named object.
	Info(name string) (Info, error)

	ReadFloat64s(name string, rng format.Range, dst []float64, missing MissingTable) error
	ReadFloat32s(name string, rng format.Range, dst []float32, missing MissingTable) error
	// ReadStrings fills one cell per observation of rng. A cell whose buffer
	// is smaller than its value gets OutLen set to the required size and the
	// call returns errs.ErrTruncated after filling every cell it can.
	ReadStrings(name string, rng format.Range, cells []StringCell) error
	// ReadNameList copies the name list literal into buf and returns its
	// length. When buf is too small it returns the required length and
	// errs.ErrTruncated.
	ReadNameList(name string, buf []byte) (int, error)

	Allocate(a Allocation) error
	SetDescription(name, text string) error
	SetDocumentation(name, text string) error

	WriteFloat64s(name string, rng format.Range, values []float64, missing MissingTable) error
	WriteFloat32s(name string, rng format.Range, values []float32, missing MissingTable) error
	WriteStrings(name string, rng format.Range, cells []StringCell) error
	// WriteNameListItem sets the name at the 1-based position of a name list.
	WriteNameListItem(name string, position int, item string) error
}

// Cursor iterates wildcard matches. Next returns errs.ErrNoMoreObjects when
// the iteration is complete.
type Cursor interface {
	Next() (Entry, error)
}

// Entry is what a wildcard cursor reports for each match.
type Entry struct {
	Name  string
	Class format.Class
	Type  format.DataType
	Freq  format.Frequency
}

// Info is the full catalog entry of an object.
type Info struct {
	Entry

	First         int64
	Last          int64
	Basis         format.Basis
	Observed      format.Observed
	CreatedAt     time.Time
	ModifiedAt    time.Time
	Description   string
	Documentation string
}

// Range returns the native range of a series.
func (i Info) Range() format.Range {
	return format.NewRange(i.Freq, i.First, i.Last)
}

// Allocation carries the parameters needed to create an object.
type Allocation struct {
	Name     string
	Class    format.Class
	Freq     format.Frequency
	Type     format.DataType
	Basis    format.Basis
	Observed format.Observed
	// Count is the number of observations, or name list items.
	Count int
	// Chars is the total number of characters for string and name list objects.
	Chars int
	// Growth is extra space reserved beyond Count, as a fraction.
	Growth float64
}

// MissingKind identifies one of the store's missing values.
type MissingKind uint8

const (
	NotMissing        MissingKind = iota
	MissingNC                     // not computable
	MissingND                     // not defined
	MissingNA                     // not available
	missingKindsCount = 3
)

// MissingTable holds the host values substituted for the store's NC, ND and
// NA missing values on read, and recognized as missing on write.
type MissingTable [missingKindsCount]float64

// NaNMissing returns a table mapping every missing kind to NaN.
func NaNMissing() MissingTable {
	nan := math.NaN()
	return MissingTable{nan, nan, nan}
}

// Value returns the host value for kind.
func (m MissingTable) Value(kind MissingKind) float64 {
	if kind == NotMissing || int(kind) > len(m) {
		return math.NaN()
	}

	return m[kind-1]
}

// Match returns the missing kind v stands for, or NotMissing.
func (m MissingTable) Match(v float64) MissingKind {
	for i, t := range m {
		if v == t || (math.IsNaN(v) && math.IsNaN(t)) {
			return MissingKind(i + 1)
		}
	}

	return NotMissing
}

// StringCell is the per-observation buffer used by string reads and writes.
type StringCell struct {
	// Buf receives the value on read, up to its length. On write it holds the value.
	Buf []byte
	// OutLen is the actual length of the stored value.
	OutLen int
	// Missing is the missing kind of the observation.
	Missing MissingKind
}
