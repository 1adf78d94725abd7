package record

import (
	"fmt"
	"strings"

	"github.com/arloliu/fameport/errs"
)

// ParseNameList splits a braces-delimited name list literal such as
// "{A, B,C}" into its names. Braces are optional; names are separated by runs
// of commas and spaces.
func ParseNameList(literal string) (NameList, error) {
	s := strings.TrimSpace(literal)
	if strings.Count(s, "{") > 1 || strings.Count(s, "}") > 1 {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidNameList, literal)
	}
	s = strings.NewReplacer("{", "", "}", "").Replace(s)

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	return NameList(fields), nil
}

// FormatNameList renders names as a name list literal.
func FormatNameList(names []string) string {
	return "{" + strings.Join(names, ", ") + "}"
}
