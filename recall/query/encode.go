package query

// Encode renders expr as a document-filter value in the familiar
// {"$and": [...]}, {"key": {"$regex": ...}} shape. A nil tree encodes as an
// empty filter. The result marshals cleanly to JSON or YAML.
func Encode(expr Expr) any {
	switch e := expr.(type) {
	case nil:
		return map[string]any{}
	case And:
		return map[string]any{"$and": encodeAll(e.Exprs)}
	case Or:
		return map[string]any{"$or": encodeAll(e.Exprs)}
	case Not:
		return map[string]any{"$not": Encode(e.Inner)}
	case Field:
		return map[string]any{e.Key: encodeOp(e.Op)}
	}
	return nil
}

func encodeAll(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = Encode(e)
	}
	return out
}

func encodeOp(op Operator) any {
	switch o := op.(type) {
	case Equals:
		return o.Value
	case Substring:
		return map[string]any{"$substr": o.Text}
	case Regex:
		return map[string]any{"$regex": o.Pattern}
	case StartsWith:
		return map[string]any{"$startswith": o.Prefix}
	case Exists:
		return map[string]any{"$exists": o.Expected}
	case Compare:
		return map[string]any{"$" + cmpName(o.Op): o.Value}
	}
	return nil
}

func cmpName(op CmpOp) string {
	switch op {
	case CmpGt:
		return "gt"
	case CmpGte:
		return "gte"
	case CmpLt:
		return "lt"
	default:
		return "lte"
	}
}
