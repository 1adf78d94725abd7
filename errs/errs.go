// Package errs defines the sentinel errors shared by fameport packages.
//
// Errors are wrapped with additional context at the failure site using
// fmt.Errorf("%w: ...") and are matched with errors.Is.
package errs

import "errors"

// Store session and database errors.
var (
	ErrOpenFailure      = errors.New("database open failed")
	ErrNotFound         = errors.New("database does not exist")
	ErrDatabaseExists   = errors.New("database already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDatabaseClosed   = errors.New("database is closed")
	ErrReadOnly         = errors.New("database is opened read-only")
	ErrInvalidName      = errors.New("invalid name")
	ErrObjectNotFound   = errors.New("object does not exist")
	ErrObjectExists     = errors.New("object already exists")
	ErrNoMoreObjects    = errors.New("no more objects match the wildcard")
	ErrTypeMismatch     = errors.New("object type mismatch")
	ErrClassMismatch    = errors.New("object class mismatch")
	ErrRangeMismatch    = errors.New("range frequency does not match object")
	ErrLengthMismatch   = errors.New("value count does not match range length")
	ErrInvalidPosition  = errors.New("position out of range")
)

// Buffer protocol errors.
var (
	// ErrTruncated is reported by a store when an output buffer is too small.
	ErrTruncated = errors.New("output buffer truncated")
	// ErrBufferTruncation is fatal: the store still reported truncation after
	// the buffer was resized to the size it asked for.
	ErrBufferTruncation = errors.New("buffer truncated after resize")
)

// Mapping errors.
var (
	ErrUnsupportedFrequency  = errors.New("host frequency has no store equivalent")
	ErrUnrecognizedFrequency = errors.New("store frequency has no host equivalent")
	ErrUnknownClass          = errors.New("unknown object class")
	ErrUnsupportedType       = errors.New("unsupported object type")
	ErrNonContiguousIndex    = errors.New("index is not contiguous at its frequency")
	ErrEmptyIndex            = errors.New("index is empty")
	ErrInvalidRange          = errors.New("invalid range")
	ErrInvalidNameList       = errors.New("invalid name list literal")
)

// Calendar errors.
var (
	ErrInvalidFrequency = errors.New("invalid store frequency")
	ErrOffGrid          = errors.New("time is not a period of the frequency")
	ErrDateOutOfRange   = errors.New("date index out of range")
)

// Catalog writing errors.
var (
	ErrWriteFailure = errors.New("catalog write failed")
	ErrInvalidValue = errors.New("invalid object value")
)

// Store file format errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidOffset      = errors.New("invalid section offset")
	ErrChecksumMismatch   = errors.New("payload checksum mismatch")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrDuplicateName      = errors.New("duplicate object name")
	ErrCorruptPayload     = errors.New("corrupt payload")
)
