package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/record"
	"github.com/arloliu/fameport/registry"
	"github.com/arloliu/fameport/store"
)

// FormatEntry renders the catalog entry of name as a one-line summary,
// followed by the documentation on its own line when present.
//
//	SCALAR PI : PRECISION -- pi
//	SERIES GDP : PRECISION BY DATE(MONTHLY) 2020:01 to 2020:03
//
// It reports false when name is not in the catalog or the store cannot label
// one of its codes.
func FormatEntry(cat *Catalog, name string, cal store.Calendar) (string, bool) {
	obj, ok := cat.Get(name)
	if !ok {
		return "", false
	}

	typeLabel, err := registry.TypeLabel(cal, obj.Type())
	if err != nil {
		return "", false
	}

	var sb strings.Builder
	switch o := obj.(type) {
	case *record.Scalar:
		fmt.Fprintf(&sb, "SCALAR %s : %s", o.Name(), typeLabel)
	case *record.Series:
		indexLabel, rangeLiteral, ok := rangeLabels(cal, o.Range)
		if !ok {
			return "", false
		}
		fmt.Fprintf(&sb, "SERIES %s : %s BY %s %s", o.Name(), typeLabel, indexLabel, rangeLiteral)
	default:
		return "", false
	}

	meta := obj.Metadata()
	if meta.Description != "" {
		sb.WriteString(" -- ")
		sb.WriteString(meta.Description)
	}
	sb.WriteByte('\n')
	if meta.Documentation != "" {
		sb.WriteString(meta.Documentation)
		sb.WriteByte('\n')
	}

	return sb.String(), true
}

func rangeLabels(cal store.Calendar, rng format.Range) (index, literal string, ok bool) {
	if rng.IsCase() {
		return "CASE", strconv.FormatInt(rng.First, 10) + " to " + strconv.FormatInt(rng.Last, 10), true
	}

	index, err := registry.FrequencyLabel(cal, rng.Freq)
	if err != nil {
		return "", "", false
	}

	first, err := cal.DateLiteral(rng.Freq, rng.First, format.DefaultDateStyle, format.DateLiteralWidth)
	if err != nil {
		return "", "", false
	}
	last, err := cal.DateLiteral(rng.Freq, rng.Last, format.DefaultDateStyle, format.DateLiteralWidth)
	if err != nil {
		return "", "", false
	}

	return index, strings.TrimRight(first, " ") + " to " + strings.TrimRight(last, " "), true
}

// Print writes the entry of every object in catalog order. Entries that
// cannot be formatted are left out.
func Print(w io.Writer, cat *Catalog, cal store.Calendar) error {
	for _, name := range cat.Names() {
		entry, ok := FormatEntry(cat, name, cal)
		if !ok {
			continue
		}
		if _, err := io.WriteString(w, entry); err != nil {
			return err
		}
	}

	return nil
}
