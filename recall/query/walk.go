package query

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Walk visits expr depth-first, calling fn for every node including expr itself.
// Returning false from fn skips the node's children.
func Walk(expr Expr, fn func(Expr) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	switch e := expr.(type) {
	case And:
		for _, x := range e.Exprs {
			Walk(x, fn)
		}
	case Or:
		for _, x := range e.Exprs {
			Walk(x, fn)
		}
	case Not:
		Walk(e.Inner, fn)
	}
}

// Keys returns the distinct field keys referenced by expr, sorted
func Keys(expr Expr) []string {
	seen := make(map[string]struct{})
	Walk(expr, func(e Expr) bool {
		if f, ok := e.(Field); ok {
			seen[f.Key] = struct{}{}
		}
		return true
	})
	return sortedSet(seen)
}

// Validate reports every regex in expr that does not compile.
// Such leaves never match; the query itself still runs.
func Validate(expr Expr) error {
	var result *multierror.Error
	Walk(expr, func(e Expr) bool {
		f, ok := e.(Field)
		if !ok {
			return true
		}
		if re, ok := f.Op.(Regex); ok {
			if _, err := regexp.Compile("(?i)" + re.Pattern); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s~%s: %w", f.Key, re.Pattern, err))
			}
		}
		return true
	})
	return result.ErrorOrNil()
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
