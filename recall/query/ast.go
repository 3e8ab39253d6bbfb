package query

// Expr represents a condition tree node
type Expr interface {
	isExpr()
}

// And matches when every member matches; an empty And matches everything
type And struct {
	Exprs []Expr
}

func (And) isExpr() {}

// Or matches when any member matches; an empty Or matches nothing
type Or struct {
	Exprs []Expr
}

func (Or) isExpr() {}

// Not represents a boolean NOT of an expression
type Not struct {
	Inner Expr
}

func (Not) isExpr() {}

// Field compares one record field through an operator
type Field struct {
	Key string
	Op  Operator
}

func (Field) isExpr() {}

// Operator is a leaf predicate applied to a resolved field value
type Operator interface {
	isOperator()
}

// Equals tests strict equality, or membership for array values.
// A nil Value matches absent fields.
type Equals struct {
	Value any
}

func (Equals) isOperator() {}

// Substring is a case-insensitive containment test
type Substring struct {
	Text string
}

func (Substring) isOperator() {}

// Regex is a case-insensitive pattern test
type Regex struct {
	Pattern string
}

func (Regex) isOperator() {}

// StartsWith is a case-sensitive prefix test
type StartsWith struct {
	Prefix string
}

func (StartsWith) isOperator() {}

// Exists tests presence of a non-empty value
type Exists struct {
	Expected bool
}

func (Exists) isOperator() {}

// CmpOp is a comparison operator
type CmpOp int

const (
	CmpGt CmpOp = iota
	CmpGte
	CmpLt
	CmpLte
)

func (op CmpOp) String() string {
	switch op {
	case CmpGt:
		return ">"
	case CmpGte:
		return ">="
	case CmpLt:
		return "<"
	case CmpLte:
		return "<="
	default:
		return "?"
	}
}

// Compare orders a field against a value, numerically when both sides are numbers
type Compare struct {
	Op    CmpOp
	Value any
}

func (Compare) isOperator() {}

// Result is the outcome of parsing one query string
type Result struct {
	// Tree is nil when the query has no condition or failed to parse
	Tree Expr
	// Is collects is:<word> terms that do not map to a field
	Is map[string]struct{}
	// SortBy is the field named by a sortBy directive
	SortBy string
	// Desc is set by a -sortBy directive
	Desc bool
	// Failed reports that the grammar rejected the query
	Failed bool
}

// PseudoTags returns the is:<word> flags, sorted
func (r Result) PseudoTags() []string {
	return sortedSet(r.Is)
}
