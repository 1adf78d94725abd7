package memstore

import (
	"fmt"
	"strings"

	"github.com/arloliu/fameport/errs"
)

// matcher matches object names against a store wildcard: '?' matches any
// run of characters, including none, and '^' matches exactly one.
type matcher struct {
	pattern string
}

func newMatcher(pattern string) (matcher, error) {
	pattern = strings.ToUpper(strings.TrimSpace(pattern))
	if pattern == "" {
		return matcher{}, fmt.Errorf("%w: empty wildcard", errs.ErrInvalidName)
	}

	return matcher{pattern: pattern}, nil
}

func (m matcher) match(name string) bool {
	p, s := m.pattern, name
	// backtrack position of the last '?' and the name index it resumes from
	star, resume := -1, 0
	pi, si := 0, 0

	for si < len(s) {
		switch {
		case pi < len(p) && (p[pi] == '^' || p[pi] == s[si]):
			pi++
			si++
		case pi < len(p) && p[pi] == '?':
			star, resume = pi, si
			pi++
		case star >= 0:
			resume++
			pi, si = star+1, resume
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == '?' {
		pi++
	}

	return pi == len(p)
}
