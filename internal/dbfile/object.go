package dbfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/arloliu/fameport/endian"
	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/pool"
	"github.com/arloliu/fameport/store"
)

// Object is one stored object with its observations.
//
// Which payload fields are used depends on Info.Type: strings use Strings,
// name lists use Names, every other type uses Values. Missing holds one kind
// per observation for Values and Strings.
type Object struct {
	Info    store.Info
	Values  []float64
	Strings []string
	Missing []store.MissingKind
	Names   []string
}

// Len returns the number of stored observations or names.
func (o *Object) Len() int {
	switch o.Info.Type {
	case format.TypeString:
		return len(o.Strings)
	case format.TypeNameList:
		return len(o.Names)
	default:
		return len(o.Values)
	}
}

// recordWriter appends one object record to a pooled buffer.
type recordWriter struct {
	buf     *pool.Buffer
	engine  endian.EndianEngine
	tmp     [binary.MaxVarintLen64]byte
	scratch []byte
}

func (w *recordWriter) uvarint(v uint64) {
	n := binary.PutUvarint(w.tmp[:], v)
	w.buf.Append(w.tmp[:n])
}

func (w *recordWriter) varint(v int64) {
	n := binary.PutVarint(w.tmp[:], v)
	w.buf.Append(w.tmp[:n])
}

func (w *recordWriter) str(s string) {
	w.uvarint(uint64(len(s)))
	w.buf.AppendString(s)
}

func (w *recordWriter) timestamp(t time.Time) {
	var ms int64
	if !t.IsZero() {
		ms = t.UnixMilli()
	}
	w.buf.B = w.engine.AppendUint64(w.buf.B, uint64(ms)) //nolint:gosec
}

func (w *recordWriter) floats(values []float64) {
	w.scratch = appendGorilla(w.scratch[:0], values)
	w.uvarint(uint64(len(w.scratch))) //nolint:gosec
	w.buf.Append(w.scratch)
}

func (w *recordWriter) missing(kinds []store.MissingKind, n int) {
	w.buf.Grow(n)
	for i := range n {
		kind := store.NotMissing
		if i < len(kinds) {
			kind = kinds[i]
		}
		w.buf.B = append(w.buf.B, byte(kind))
	}
}

func (w *recordWriter) object(o *Object) {
	info := &o.Info

	w.str(info.Name)
	w.uvarint(uint64(info.Class))    //nolint:gosec
	w.uvarint(uint64(info.Type))     //nolint:gosec
	w.uvarint(uint64(info.Freq))     //nolint:gosec
	w.uvarint(uint64(info.Basis))    //nolint:gosec
	w.uvarint(uint64(info.Observed)) //nolint:gosec
	w.varint(info.First)
	w.varint(info.Last)
	w.timestamp(info.CreatedAt)
	w.timestamp(info.ModifiedAt)
	w.str(info.Description)
	w.str(info.Documentation)

	n := o.Len()
	w.uvarint(uint64(n)) //nolint:gosec

	switch info.Type {
	case format.TypeString:
		w.missing(o.Missing, n)
		for _, s := range o.Strings {
			w.str(s)
		}
	case format.TypeNameList:
		for _, name := range o.Names {
			w.str(name)
		}
	default:
		w.missing(o.Missing, n)
		w.floats(o.Values)
	}
}

// recordReader decodes one object record. Every read past the end of the
// record reports errs.ErrCorruptPayload.
type recordReader struct {
	b      []byte
	engine endian.EndianEngine
	err    error
}

func (r *recordReader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated %s", errs.ErrCorruptPayload, what)
	}
}

func (r *recordReader) uvarint(what string) uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.b)
	if n <= 0 {
		r.fail(what)
		return 0
	}
	r.b = r.b[n:]

	return v
}

func (r *recordReader) varint(what string) int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.b)
	if n <= 0 {
		r.fail(what)
		return 0
	}
	r.b = r.b[n:]

	return v
}

func (r *recordReader) int32(what string) int32 {
	v := r.uvarint(what)
	if v > math.MaxInt32 {
		r.fail(what)
		return 0
	}

	return int32(v)
}

func (r *recordReader) count(what string, width int) int {
	v := r.uvarint(what)
	if v > uint64(len(r.b)/max(width, 1)) {
		r.fail(what)
		return 0
	}

	return int(v) //nolint:gosec
}

func (r *recordReader) str(what string) string {
	n := r.count(what, 1)
	if r.err != nil {
		return ""
	}
	s := string(r.b[:n])
	r.b = r.b[n:]

	return s
}

func (r *recordReader) fixed(what string) uint64 {
	if r.err != nil {
		return 0
	}
	if len(r.b) < 8 {
		r.fail(what)
		return 0
	}
	v := r.engine.Uint64(r.b[:8])
	r.b = r.b[8:]

	return v
}

func (r *recordReader) floats(n int) []float64 {
	size := r.count("value column", 1)
	if r.err != nil {
		return nil
	}

	values, ok := decodeGorilla(r.b[:size], n)
	if !ok {
		r.err = fmt.Errorf("%w: value column of %d observations", errs.ErrCorruptPayload, n)
		return nil
	}
	r.b = r.b[size:]

	return values
}

func (r *recordReader) timestamp(what string) time.Time {
	ms := int64(r.fixed(what)) //nolint:gosec
	if ms == 0 {
		return time.Time{}
	}

	return time.UnixMilli(ms).UTC()
}

func (r *recordReader) missing(n int) []store.MissingKind {
	if r.err != nil {
		return nil
	}
	if len(r.b) < n {
		r.fail("missing kinds")
		return nil
	}

	kinds := make([]store.MissingKind, n)
	for i := range n {
		kind := store.MissingKind(r.b[i])
		if kind > store.MissingNA {
			r.err = fmt.Errorf("%w: missing kind %d", errs.ErrCorruptPayload, kind)
			return nil
		}
		kinds[i] = kind
	}
	r.b = r.b[n:]

	return kinds
}

func (r *recordReader) object() (*Object, error) {
	o := &Object{}
	info := &o.Info

	info.Name = r.str("name")
	info.Class = format.Class(r.int32("class"))
	info.Type = format.DataType(r.int32("type"))
	info.Freq = format.Frequency(r.int32("frequency"))
	info.Basis = format.Basis(r.int32("basis"))
	info.Observed = format.Observed(r.int32("observed"))
	info.First = r.varint("first")
	info.Last = r.varint("last")
	info.CreatedAt = r.timestamp("created")
	info.ModifiedAt = r.timestamp("modified")
	info.Description = r.str("description")
	info.Documentation = r.str("documentation")

	switch info.Type {
	case format.TypeString:
		n := r.count("observation count", 2)
		o.Missing = r.missing(n)
		o.Strings = make([]string, 0, n)
		for range n {
			o.Strings = append(o.Strings, r.str("string"))
		}
	case format.TypeNameList:
		n := r.count("name count", 1)
		o.Names = make([]string, 0, n)
		for range n {
			o.Names = append(o.Names, r.str("name list item"))
		}
	default:
		n := r.count("observation count", 1)
		o.Missing = r.missing(n)
		o.Values = r.floats(n)
	}

	if r.err != nil {
		return nil, r.err
	}
	if len(r.b) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes in %s", errs.ErrCorruptPayload, len(r.b), info.Name)
	}

	return o, nil
}
