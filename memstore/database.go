package memstore

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/dbfile"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/store"
)

// database is one open handle. Handles are not safe for concurrent use.
type database struct {
	sess   *Session
	state  *dbState
	mode   format.AccessMode
	closed bool
	dirty  bool
}

var _ store.Database = (*database)(nil)

func (db *database) writable() bool {
	return db.mode != format.ModeRead
}

func (db *database) Name() string {
	return db.state.name
}

func (db *database) Close() error {
	if db.closed {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseClosed, db.state.name)
	}
	db.closed = true

	return db.sess.release(db)
}

func objectKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// validObjectName reports whether name is a store object name: a letter
// followed by letters, digits and any of "_.$#@".
func validObjectName(name string) bool {
	for i, r := range name {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || strings.ContainsRune("_.$#@", r)):
		default:
			return false
		}
	}

	return name != ""
}

func (db *database) check(write bool) error {
	if db.closed {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseClosed, db.state.name)
	}
	if write && !db.writable() {
		return fmt.Errorf("%w: %s", errs.ErrReadOnly, db.state.name)
	}

	return nil
}

// object returns the named object after checking the handle and the object type.
func (db *database) object(name string, write bool, types ...format.DataType) (*dbfile.Object, error) {
	if err := db.check(write); err != nil {
		return nil, err
	}

	o, ok := db.state.objects[objectKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrObjectNotFound, name)
	}
	if len(types) > 0 && !slices.Contains(types, o.Info.Type) {
		return nil, fmt.Errorf("%w: %s is %s", errs.ErrTypeMismatch, o.Info.Name, o.Info.Type)
	}

	return o, nil
}

func (db *database) touch(o *dbfile.Object) {
	o.Info.ModifiedAt = db.sess.cfg.clock()
	db.dirty = true
}

func (db *database) Wildcard(pattern string) (store.Cursor, error) {
	if err := db.check(false); err != nil {
		return nil, err
	}
	m, err := newMatcher(pattern)
	if err != nil {
		return nil, err
	}

	matches := make([]store.Entry, 0)
	for _, name := range db.state.order {
		if m.match(name) {
			matches = append(matches, db.state.objects[name].Info.Entry)
		}
	}
	slices.SortFunc(matches, func(a, b store.Entry) int { return strings.Compare(a.Name, b.Name) })

	return &cursor{entries: matches}, nil
}

// cursor walks a snapshot of the matches, in name order.
type cursor struct {
	entries []store.Entry
	pos     int
}

func (c *cursor) Next() (store.Entry, error) {
	if c.pos >= len(c.entries) {
		return store.Entry{}, errs.ErrNoMoreObjects
	}
	e := c.entries[c.pos]
	c.pos++

	return e, nil
}

func (db *database) Info(name string) (store.Info, error) {
	o, err := db.object(name, false)
	if err != nil {
		return store.Info{}, err
	}

	return o.Info, nil
}

// span maps rng onto the stored observations of o. It returns, for each
// position of rng, the stored slot or -1 when the position lies outside the
// stored range. Scalars have a single slot whatever rng says.
func span(o *dbfile.Object, rng format.Range, n int) ([]int, error) {
	if o.Info.Class == format.ClassScalar {
		if n != 1 {
			return nil, fmt.Errorf("%w: scalar %s takes 1 value, got %d", errs.ErrLengthMismatch, o.Info.Name, n)
		}

		return []int{0}, nil
	}
	if o.Info.Class != format.ClassSeries {
		return nil, fmt.Errorf("%w: %s is %s", errs.ErrClassMismatch, o.Info.Name, o.Info.Class)
	}
	if rng.Freq != o.Info.Freq {
		return nil, fmt.Errorf("%w: %s range %s, object frequency %s", errs.ErrRangeMismatch, o.Info.Name, rng, o.Info.Freq)
	}
	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidRange, rng)
	}
	if n != rng.Len() {
		return nil, fmt.Errorf("%w: %d values for %s", errs.ErrLengthMismatch, n, rng)
	}

	slots := make([]int, n)
	stored := o.Len()
	for i := range slots {
		slot := rng.First + int64(i) - o.Info.First
		if slot < 0 || slot >= int64(stored) {
			slots[i] = -1
			continue
		}
		slots[i] = int(slot)
	}

	return slots, nil
}

func (db *database) ReadFloat64s(name string, rng format.Range, dst []float64, missing store.MissingTable) error {
	o, err := db.object(name, false, format.TypePrecision)
	if err != nil {
		return err
	}
	slots, err := span(o, rng, len(dst))
	if err != nil {
		return err
	}

	for i, slot := range slots {
		dst[i] = valueAt(o, slot, missing)
	}

	return nil
}

func (db *database) ReadFloat32s(name string, rng format.Range, dst []float32, missing store.MissingTable) error {
	o, err := db.object(name, false, format.TypeNumeric)
	if err != nil {
		return err
	}
	slots, err := span(o, rng, len(dst))
	if err != nil {
		return err
	}

	for i, slot := range slots {
		dst[i] = float32(valueAt(o, slot, missing))
	}

	return nil
}

func valueAt(o *dbfile.Object, slot int, missing store.MissingTable) float64 {
	if slot < 0 {
		return missing.Value(store.MissingND)
	}
	if kind := o.Missing[slot]; kind != store.NotMissing {
		return missing.Value(kind)
	}

	return o.Values[slot]
}

func (db *database) ReadStrings(name string, rng format.Range, cells []store.StringCell) error {
	o, err := db.object(name, false, format.TypeString)
	if err != nil {
		return err
	}
	slots, err := span(o, rng, len(cells))
	if err != nil {
		return err
	}

	truncated := 0
	for i, slot := range slots {
		cell := &cells[i]
		switch {
		case slot < 0:
			cell.Missing, cell.OutLen = store.MissingND, 0
		case o.Missing[slot] != store.NotMissing:
			cell.Missing, cell.OutLen = o.Missing[slot], 0
		default:
			v := o.Strings[slot]
			cell.Missing, cell.OutLen = store.NotMissing, len(v)
			if copy(cell.Buf, v) < len(v) {
				truncated++
			}
		}
	}
	if truncated > 0 {
		return fmt.Errorf("%w: %d of %d cells of %s", errs.ErrTruncated, truncated, len(cells), o.Info.Name)
	}

	return nil
}

func (db *database) ReadNameList(name string, buf []byte) (int, error) {
	o, err := db.object(name, false, format.TypeNameList)
	if err != nil {
		return 0, err
	}

	literal := record.FormatNameList(o.Names)
	copy(buf, literal)
	if len(buf) < len(literal) {
		return len(literal), fmt.Errorf("%w: name list %s needs %d bytes", errs.ErrTruncated, o.Info.Name, len(literal))
	}

	return len(literal), nil
}

func (db *database) Allocate(a store.Allocation) error {
	if err := db.check(true); err != nil {
		return err
	}

	key := objectKey(a.Name)
	if !validObjectName(key) {
		return fmt.Errorf("%w: object %q", errs.ErrInvalidName, a.Name)
	}
	if _, exists := db.state.objects[key]; exists {
		return fmt.Errorf("%w: %s", errs.ErrObjectExists, key)
	}
	if a.Count < 0 || a.Chars < 0 || a.Growth < 0 {
		return fmt.Errorf("%w: allocation of %s count %d chars %d growth %g",
			errs.ErrInvalidValue, key, a.Count, a.Chars, a.Growth)
	}
	if a.Class.HasPayload() {
		if _, err := db.sess.TypeLabel(a.Type); err != nil || a.Type == format.TypeUndefined {
			return fmt.Errorf("%w: %s of type %s", errs.ErrUnsupportedType, key, a.Type)
		}
	}

	now := db.sess.cfg.clock()
	o := &dbfile.Object{
		Info: store.Info{
			Entry:      store.Entry{Name: key, Class: a.Class, Type: a.Type},
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}

	switch a.Class {
	case format.ClassSeries:
		if !a.Freq.IsValid() {
			return fmt.Errorf("%w: %s frequency %d", errs.ErrInvalidFrequency, key, int32(a.Freq))
		}
		if a.Type == format.TypeNameList {
			return fmt.Errorf("%w: name list series %s", errs.ErrUnsupportedType, key)
		}
		o.Info.Freq = a.Freq
		o.Info.First, o.Info.Last = 0, -1
		if a.Freq != format.FreqCase {
			o.Info.Basis, o.Info.Observed = a.Basis, a.Observed
		}
	case format.ClassScalar:
		switch a.Type {
		case format.TypeNameList:
			o.Names = make([]string, 0, a.Count)
		case format.TypeString:
			o.Strings = []string{""}
			o.Missing = []store.MissingKind{store.MissingND}
		default:
			o.Values = []float64{0}
			o.Missing = []store.MissingKind{store.MissingND}
		}
	case format.ClassFormula, format.ClassGlobalName, format.ClassGlobalFormula:
	default:
		return fmt.Errorf("%w: %d", errs.ErrUnknownClass, int32(a.Class))
	}

	db.state.add(o)
	db.dirty = true

	return nil
}

func (db *database) SetDescription(name, text string) error {
	o, err := db.object(name, true)
	if err != nil {
		return err
	}
	o.Info.Description = text
	db.touch(o)

	return nil
}

func (db *database) SetDocumentation(name, text string) error {
	o, err := db.object(name, true)
	if err != nil {
		return err
	}
	o.Info.Documentation = text
	db.touch(o)

	return nil
}

// extend grows the stored range of a series so it covers rng, filling new
// observations with ND.
func extend(o *dbfile.Object, rng format.Range) {
	if o.Info.Class != format.ClassSeries || rng.IsEmpty() {
		return
	}

	first, last := rng.First, rng.Last
	if o.Len() > 0 {
		first, last = min(first, o.Info.First), max(last, o.Info.Last)
	}
	before := 0
	if o.Len() > 0 {
		before = int(o.Info.First - first)
	}
	after := int(last-first+1) - before - o.Len()

	if before == 0 && after == 0 {
		return
	}

	grow := func(n int) []store.MissingKind {
		out := make([]store.MissingKind, n)
		for i := range out {
			out[i] = store.MissingND
		}

		return out
	}

	o.Missing = slices.Concat(grow(before), o.Missing, grow(after))
	if o.Info.Type == format.TypeString {
		o.Strings = slices.Concat(make([]string, before), o.Strings, make([]string, after))
	} else {
		o.Values = slices.Concat(make([]float64, before), o.Values, make([]float64, after))
	}
	o.Info.First, o.Info.Last = first, last
}

func (db *database) writeValues(name string, rng format.Range, n int, t format.DataType, set func(o *dbfile.Object, i, slot int)) error {
	o, err := db.object(name, true, t)
	if err != nil {
		return err
	}
	if _, err := span(o, rng, n); err != nil {
		return err
	}

	extend(o, rng)
	slots, err := span(o, rng, n)
	if err != nil {
		return err
	}
	for i, slot := range slots {
		set(o, i, slot)
	}
	db.touch(o)

	return nil
}

func (db *database) WriteFloat64s(name string, rng format.Range, values []float64, missing store.MissingTable) error {
	return db.writeValues(name, rng, len(values), format.TypePrecision, func(o *dbfile.Object, i, slot int) {
		setValue(o, slot, values[i], missing)
	})
}

func (db *database) WriteFloat32s(name string, rng format.Range, values []float32, missing store.MissingTable) error {
	return db.writeValues(name, rng, len(values), format.TypeNumeric, func(o *dbfile.Object, i, slot int) {
		setValue(o, slot, float64(values[i]), missing)
	})
}

func setValue(o *dbfile.Object, slot int, v float64, missing store.MissingTable) {
	if kind := missing.Match(v); kind != store.NotMissing {
		o.Values[slot], o.Missing[slot] = math.NaN(), kind
		return
	}
	o.Values[slot], o.Missing[slot] = v, store.NotMissing
}

func (db *database) WriteStrings(name string, rng format.Range, cells []store.StringCell) error {
	return db.writeValues(name, rng, len(cells), format.TypeString, func(o *dbfile.Object, i, slot int) {
		cell := cells[i]
		if cell.Missing != store.NotMissing {
			o.Strings[slot], o.Missing[slot] = "", cell.Missing
			return
		}
		o.Strings[slot], o.Missing[slot] = string(cell.Buf), store.NotMissing
	})
}

func (db *database) WriteNameListItem(name string, position int, item string) error {
	o, err := db.object(name, true, format.TypeNameList)
	if err != nil {
		return err
	}
	if position < 1 || position > len(o.Names)+1 {
		return fmt.Errorf("%w: position %d in name list %s of %d", errs.ErrInvalidPosition, position, o.Info.Name, len(o.Names))
	}

	item = objectKey(item)
	if item == "" || strings.ContainsAny(item, "{}, \t\n") {
		return fmt.Errorf("%w: name list item %q", errs.ErrInvalidName, item)
	}

	if position == len(o.Names)+1 {
		o.Names = append(o.Names, item)
	} else {
		o.Names[position-1] = item
	}
	db.touch(o)

	return nil
}
