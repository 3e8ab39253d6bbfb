package filter

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/record"
)

// Predicate reports whether a doc satisfies a compiled condition tree
type Predicate func(record.Doc) bool

// leaf tests one resolved field value; present is false for absent fields
type leaf func(v any, present bool) bool

// All matches every doc
func All(record.Doc) bool { return true }

// Compile turns a condition tree into a predicate. Regexes are compiled once
// here; a nil tree matches everything.
func Compile(expr query.Expr) Predicate {
	if expr == nil {
		return All
	}
	return compile(expr)
}

// Matches evaluates expr against a single doc
func Matches(expr query.Expr, d record.Doc) bool {
	return Compile(expr)(d)
}

// Filter returns the docs matching pred, preserving order
func Filter(docs []record.Doc, pred Predicate) []record.Doc {
	out := make([]record.Doc, 0, len(docs))
	for _, d := range docs {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

func compile(expr query.Expr) Predicate {
	switch e := expr.(type) {
	case query.And:
		members := compileAll(e.Exprs)
		return func(d record.Doc) bool {
			for _, m := range members {
				if !m(d) {
					return false
				}
			}
			return true
		}
	case query.Or:
		members := compileAll(e.Exprs)
		return func(d record.Doc) bool {
			for _, m := range members {
				if m(d) {
					return true
				}
			}
			return false
		}
	case query.Not:
		inner := compile(e.Inner)
		return func(d record.Doc) bool {
			return !inner(d)
		}
	case query.Field:
		key := record.ParseKey(e.Key)
		test := compileOp(e.Op)
		return func(d record.Doc) bool {
			v, ok := key.Resolve(d)
			return test(v, ok)
		}
	}
	return func(record.Doc) bool { return false }
}

func compileAll(exprs []query.Expr) []Predicate {
	out := make([]Predicate, len(exprs))
	for i, e := range exprs {
		out[i] = compile(e)
	}
	return out
}

func compileOp(op query.Operator) leaf {
	switch o := op.(type) {
	case query.Exists:
		return func(v any, present bool) bool {
			return isEmpty(v, present) != o.Expected
		}
	case query.Equals:
		return func(v any, present bool) bool {
			if !present {
				return o.Value == nil
			}
			return anyElement(v, func(x any) bool { return equal(x, o.Value) })
		}
	case query.Substring:
		needle := strings.ToLower(o.Text)
		return scalarTest(func(x any) bool {
			s, ok := stringify(x)
			return ok && strings.Contains(strings.ToLower(s), needle)
		})
	case query.Regex:
		re, err := regexp.Compile("(?i)" + o.Pattern)
		if err != nil {
			return func(any, bool) bool { return false }
		}
		return scalarTest(func(x any) bool {
			s, ok := stringify(x)
			return ok && re.MatchString(s)
		})
	case query.StartsWith:
		return scalarTest(func(x any) bool {
			s, ok := stringify(x)
			return ok && strings.HasPrefix(s, o.Prefix)
		})
	case query.Compare:
		return scalarTest(func(x any) bool {
			c, ok := compareLoose(x, o.Value)
			if !ok {
				return false
			}
			switch o.Op {
			case query.CmpGt:
				return c > 0
			case query.CmpGte:
				return c >= 0
			case query.CmpLt:
				return c < 0
			default:
				return c <= 0
			}
		})
	}
	return func(any, bool) bool { return false }
}

// scalarTest lifts fn to a leaf: absent and null fail, arrays match if any element does
func scalarTest(fn func(any) bool) leaf {
	return func(v any, present bool) bool {
		if !present || v == nil {
			return false
		}
		return anyElement(v, fn)
	}
}

func anyElement(v any, fn func(any) bool) bool {
	arr, ok := v.([]any)
	if !ok {
		return fn(v)
	}
	for _, x := range arr {
		if fn(x) {
			return true
		}
	}
	return false
}

func isEmpty(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	switch x := v.(type) {
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	}
	return false
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return false
}

// number extracts a numeric value without parsing strings
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// coerce converts numbers and fully numeric strings to float64
func coerce(v any) (float64, bool) {
	if f, ok := number(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok && s != "" {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// compareLoose orders a against b numerically when both coerce to numbers,
// else lexicographically when both are strings
func compareLoose(a, b any) (int, bool) {
	if x, ok := coerce(a); ok {
		if y, ok := coerce(b); ok {
			return cmpFloat(x, y), true
		}
	}
	x, ok := a.(string)
	if !ok {
		return 0, false
	}
	y, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(x, y), true
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func stringify(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if f, ok := number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}
