package query

import (
	"strings"
	"time"
)

// DefaultFields are searched by a bare term, alongside every data socket
var DefaultFields = []string{"template", "front", "mnemonic", "entry", "deck", "tag"}

var (
	stringFields = map[string]bool{
		"template": true,
		"front":    true,
		"back":     true,
		"mnemonic": true,
		"deck":     true,
		"tag":      true,
		"entry":    true,
	}
	dateFields = map[string]bool{
		"created":    true,
		"modified":   true,
		"nextReview": true,
	}
)

const descSortPrefix = "-sortBy:"

// Parse parses a query string relative to the current time
func Parse(q string) Result {
	return ParseAt(q, time.Now())
}

// ParseAt parses a query string, resolving NOW and relative dates against now.
// It never fails loudly: a rejected query yields a nil Tree with Failed set.
func ParseAt(q string, now time.Time) Result {
	p := &parser{now: now, st: state{is: make(map[string]struct{})}}
	tree, ok := p.parse(strings.TrimSpace(q))
	if !ok {
		return Result{Is: make(map[string]struct{}), Failed: true}
	}
	return Result{Tree: tree, Is: p.st.is, SortBy: p.st.sortBy, Desc: p.st.desc}
}

// state accumulates the side-channel signals of one parse
type state struct {
	is     map[string]struct{}
	sortBy string
	desc   bool
}

func (s state) clone() state {
	is := make(map[string]struct{}, len(s.is))
	for k := range s.is {
		is[k] = struct{}{}
	}
	return state{is: is, sortBy: s.sortBy, desc: s.desc}
}

type parser struct {
	now time.Time
	st  state
}

// rule is one grammar alternative. A nil Expr with ok=true means the
// term was a directive that contributes no condition.
type rule func(q string) (Expr, bool)

func (p *parser) rules() []rule {
	return []rule{
		p.removeBrackets,
		p.parseSep(" OR ", func(exprs []Expr) Expr { return Or{Exprs: exprs} }),
		p.parseSep(" ", func(exprs []Expr) Expr { return And{Exprs: exprs} }),
		p.parseNeg,
		p.parseFullExpr,
		p.parsePartialExpr,
	}
}

// parse tries each rule in priority order; the first that succeeds wins
func (p *parser) parse(q string) (Expr, bool) {
	for _, r := range p.rules() {
		saved := p.st.clone()
		if expr, ok := r(q); ok {
			return expr, true
		}
		p.st = saved
	}
	return nil, false
}

func (p *parser) removeBrackets(q string) (Expr, bool) {
	if !wrappedInBrackets(q) {
		return nil, false
	}
	return p.parse(q[1 : len(q)-1])
}

func (p *parser) parseSep(sep string, combine func([]Expr) Expr) rule {
	return func(q string) (Expr, bool) {
		tokens := splitTopLevel(q, sep)
		if len(tokens) < 2 {
			return nil, false
		}

		exprs := make([]Expr, 0, len(tokens))
		for _, t := range tokens {
			expr, ok := p.parse(t)
			if !ok {
				return nil, false
			}
			if expr != nil {
				exprs = append(exprs, expr)
			}
		}

		switch len(exprs) {
		case 0:
			return nil, true
		case 1:
			return exprs[0], true
		default:
			return combine(exprs), true
		}
	}
}

func (p *parser) parseNeg(q string) (Expr, bool) {
	if !strings.HasPrefix(q, "-") {
		return nil, false
	}

	if strings.HasPrefix(q, descSortPrefix) && q != descSortPrefix {
		p.st.sortBy = q[len(descSortPrefix):]
		p.st.desc = true
		return nil, true
	}

	inner, ok := p.parse(q[1:])
	if !ok {
		return nil, false
	}
	if inner == nil {
		return nil, true
	}
	return Not{Inner: inner}, true
}

func (p *parser) parseFullExpr(q string) (Expr, bool) {
	ke, ok := scanKeyExpr(q)
	if !ok {
		return nil, false
	}
	key, op := ke.Key, ke.Op
	v := literal(ke.Value, ke.Quoted)

	switch key {
	case "is":
		switch v {
		case "due":
			return Field{Key: "nextReview", Op: Compare{Op: CmpLte, Value: FormatTime(p.now)}}, true
		case "leech":
			return Field{Key: "srsLevel", Op: Equals{Value: float64(0)}}, true
		case "new":
			return nullExpansion("nextReview"), true
		default:
			p.st.is[formatValue(v)] = struct{}{}
			return nil, true
		}
	case "sortBy":
		p.st.sortBy = formatValue(v)
		return nil, true
	case "due":
		key = "nextReview"
	}

	if op == ":" && dateFields[key] {
		op = "<="
	}

	if v == "NULL" {
		return nullExpansion(key), true
	}

	if dateFields[key] {
		v = resolveDate(v, p.now)
	}

	switch op {
	case ":":
		if _, isString := v.(string); isString || stringFields[key] {
			return Field{Key: key, Op: Substring{Text: formatValue(v)}}, true
		}
		return Field{Key: key, Op: Equals{Value: v}}, true
	case "~":
		return Field{Key: key, Op: Regex{Pattern: formatValue(v)}}, true
	case "=":
		return Field{Key: key, Op: Equals{Value: v}}, true
	case ">=":
		return Field{Key: key, Op: Compare{Op: CmpGte, Value: v}}, true
	case ">":
		return Field{Key: key, Op: Compare{Op: CmpGt, Value: v}}, true
	case "<=":
		return Field{Key: key, Op: Compare{Op: CmpLte, Value: v}}, true
	case "<":
		return Field{Key: key, Op: Compare{Op: CmpLt, Value: v}}, true
	}
	return nil, false
}

func (p *parser) parsePartialExpr(q string) (Expr, bool) {
	if q == "" || strings.Contains(q, ":") {
		return nil, false
	}

	term := q
	if len(term) > 2 && term[0] == '"' && term[len(term)-1] == '"' {
		term = term[1 : len(term)-1]
	}

	exprs := make([]Expr, 0, len(DefaultFields)+1)
	for _, k := range DefaultFields {
		exprs = append(exprs, Field{Key: k, Op: Substring{Text: term}})
	}
	exprs = append(exprs, Field{Key: "@*", Op: Substring{Text: term}})
	return Or{Exprs: exprs}, true
}

// nullExpansion matches a field that is missing, null or empty
func nullExpansion(key string) Expr {
	return Or{Exprs: []Expr{
		Field{Key: key, Op: Exists{Expected: false}},
		Field{Key: key, Op: Equals{Value: nil}},
		Field{Key: key, Op: Equals{Value: ""}},
	}}
}
