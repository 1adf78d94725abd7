package catalog

import (
	"errors"
	"fmt"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/store"
)

// initialNameListSize is the buffer size of the first name list read.
const initialNameListSize = 10

// fetchResized runs the size, resize, fetch protocol for variable length
// buffers. fetch reports errs.ErrTruncated after recording the sizes it needs;
// resize applies them. Only one resize is allowed: a second truncation
// returns errs.ErrBufferTruncation.
func fetchResized(fetch func() error, resize func()) error {
	err := fetch()
	if !errors.Is(err, errs.ErrTruncated) {
		return err
	}

	resize()

	err = fetch()
	if errors.Is(err, errs.ErrTruncated) {
		return fmt.Errorf("%w: %w", errs.ErrBufferTruncation, err)
	}

	return err
}

func readPrecision(db store.Database, name string, rng format.Range) (record.Float64s, error) {
	dst := make([]float64, rng.Len())
	if err := db.ReadFloat64s(name, rng, dst, store.NaNMissing()); err != nil {
		return nil, fmt.Errorf("read precision %s: %w", name, err)
	}

	return record.Float64s(dst), nil
}

func readNumeric(db store.Database, name string, rng format.Range) (record.Float32s, error) {
	dst := make([]float32, rng.Len())
	if err := db.ReadFloat32s(name, rng, dst, store.NaNMissing()); err != nil {
		return nil, fmt.Errorf("read numeric %s: %w", name, err)
	}

	return record.Float32s(dst), nil
}

// readStrings reads zero length cells first to learn each value's length,
// resizes every cell and fetches again.
func readStrings(db store.Database, name string, rng format.Range) (record.Strings, error) {
	cells := make([]store.StringCell, rng.Len())

	err := fetchResized(
		func() error { return db.ReadStrings(name, rng, cells) },
		func() {
			for i := range cells {
				cells[i].Buf = make([]byte, cells[i].OutLen)
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("read strings %s: %w", name, err)
	}

	out := make(record.Strings, len(cells))
	for i, c := range cells {
		if c.Missing != store.NotMissing {
			continue
		}
		out[i] = record.NewText(string(c.Buf[:c.OutLen]))
	}

	return out, nil
}

func readNameList(db store.Database, name string) (record.NameList, error) {
	buf := make([]byte, initialNameListSize)
	n := 0

	err := fetchResized(
		func() error {
			var err error
			n, err = db.ReadNameList(name, buf)
			return err
		},
		func() { buf = make([]byte, n) },
	)
	if err != nil {
		return nil, fmt.Errorf("read name list %s: %w", name, err)
	}

	list, err := record.ParseNameList(string(buf[:n]))
	if err != nil {
		return nil, fmt.Errorf("read name list %s: %w", name, err)
	}

	return list, nil
}
