package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func parse(t *testing.T, q string) Result {
	t.Helper()
	r := ParseAt(q, testNow)
	require.False(t, r.Failed, "query %q failed to parse", q)
	return r
}

func TestParseFieldSubstring(t *testing.T) {
	r := parse(t, "deck:JP/")
	assert.Equal(t, Field{Key: "deck", Op: Substring{Text: "JP/"}}, r.Tree)
}

func TestParseNumericValue(t *testing.T) {
	r := parse(t, "srsLevel>=1")
	assert.Equal(t, Field{Key: "srsLevel", Op: Compare{Op: CmpGte, Value: float64(1)}}, r.Tree)

	r = parse(t, "srsLevel:2")
	assert.Equal(t, Field{Key: "srsLevel", Op: Equals{Value: float64(2)}}, r.Tree)

	// numbers are stringified for string-typed fields
	r = parse(t, "front:42")
	assert.Equal(t, Field{Key: "front", Op: Substring{Text: "42"}}, r.Tree)
}

func TestParseQuotedValue(t *testing.T) {
	r := parse(t, `front:"42"`)
	assert.Equal(t, Field{Key: "front", Op: Substring{Text: "42"}}, r.Tree)

	r = parse(t, `srsLevel="3"`)
	assert.Equal(t, Field{Key: "srsLevel", Op: Equals{Value: "3"}}, r.Tree)

	r = parse(t, `back:"to eat"`)
	assert.Equal(t, Field{Key: "back", Op: Substring{Text: "to eat"}}, r.Tree)
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		q    string
		want Expr
	}{
		{"front~^ab+", Field{Key: "front", Op: Regex{Pattern: "^ab+"}}},
		{"srsLevel>1", Field{Key: "srsLevel", Op: Compare{Op: CmpGt, Value: float64(1)}}},
		{"srsLevel<=1.5", Field{Key: "srsLevel", Op: Compare{Op: CmpLte, Value: 1.5}}},
		{"srsLevel<1", Field{Key: "srsLevel", Op: Compare{Op: CmpLt, Value: float64(1)}}},
		{"deck=JP", Field{Key: "deck", Op: Equals{Value: "JP"}}},
		{"@meaning:eat", Field{Key: "@meaning", Op: Substring{Text: "eat"}}},
		{"stat.streak.right>2", Field{Key: "stat.streak.right", Op: Compare{Op: CmpGt, Value: float64(2)}}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(t, tt.q).Tree)
		})
	}
}

func TestParseIsKeywords(t *testing.T) {
	r := parse(t, "is:due")
	assert.Equal(t, Field{Key: "nextReview", Op: Compare{Op: CmpLte, Value: "2024-03-15T12:00:00.000Z"}}, r.Tree)

	r = parse(t, "is:leech")
	assert.Equal(t, Field{Key: "srsLevel", Op: Equals{Value: float64(0)}}, r.Tree)

	r = parse(t, "is:new")
	assert.Equal(t, nullExpansion("nextReview"), r.Tree)

	r = parse(t, "is:marked")
	assert.Nil(t, r.Tree)
	assert.Equal(t, []string{"marked"}, r.PseudoTags())
}

func TestParsePseudoTagsWithTerm(t *testing.T) {
	r := parse(t, "is:b deck:x is:a")
	assert.Equal(t, Field{Key: "deck", Op: Substring{Text: "x"}}, r.Tree)
	assert.Equal(t, []string{"a", "b"}, r.PseudoTags())
}

func TestParseSortDirectives(t *testing.T) {
	r := parse(t, "sortBy:deck")
	assert.Nil(t, r.Tree)
	assert.Equal(t, "deck", r.SortBy)
	assert.False(t, r.Desc)

	r = parse(t, "sortBy:deck tag:verb")
	assert.Equal(t, Field{Key: "tag", Op: Substring{Text: "verb"}}, r.Tree)
	assert.Equal(t, "deck", r.SortBy)

	r = parse(t, "tag:verb -sortBy:srsLevel")
	assert.Equal(t, Field{Key: "tag", Op: Substring{Text: "verb"}}, r.Tree)
	assert.Equal(t, "srsLevel", r.SortBy)
	assert.True(t, r.Desc)
}

func TestParseDateRewrites(t *testing.T) {
	r := parse(t, "due:NOW")
	assert.Equal(t, Field{Key: "nextReview", Op: Compare{Op: CmpLte, Value: "2024-03-15T12:00:00.000Z"}}, r.Tree)

	r = parse(t, "nextReview:+1d")
	assert.Equal(t, Field{Key: "nextReview", Op: Compare{Op: CmpLte, Value: "2024-03-16T12:00:00.000Z"}}, r.Tree)

	r = parse(t, "created:-1M")
	assert.Equal(t, Field{Key: "created", Op: Compare{Op: CmpLte, Value: "2024-02-15T12:00:00.000Z"}}, r.Tree)

	r = parse(t, "created>-3day")
	assert.Equal(t, Field{Key: "created", Op: Compare{Op: CmpGt, Value: "2024-03-12T12:00:00.000Z"}}, r.Tree)

	r = parse(t, "modified<-2h")
	assert.Equal(t, Field{Key: "modified", Op: Compare{Op: CmpLt, Value: "2024-03-15T10:00:00.000Z"}}, r.Tree)

	r = parse(t, "created>2023-01-02")
	assert.Equal(t, Field{Key: "created", Op: Compare{Op: CmpGt, Value: "2023-01-02T00:00:00.000Z"}}, r.Tree)
}

func TestParseNull(t *testing.T) {
	r := parse(t, "mnemonic:NULL")
	assert.Equal(t, Or{Exprs: []Expr{
		Field{Key: "mnemonic", Op: Exists{Expected: false}},
		Field{Key: "mnemonic", Op: Equals{Value: nil}},
		Field{Key: "mnemonic", Op: Equals{Value: ""}},
	}}, r.Tree)
}

func TestParsePartialExpression(t *testing.T) {
	r := parse(t, "taberu")
	or, ok := r.Tree.(Or)
	require.True(t, ok, "expected Or, got %T", r.Tree)
	require.Len(t, or.Exprs, len(DefaultFields)+1)
	assert.Equal(t, Field{Key: "template", Op: Substring{Text: "taberu"}}, or.Exprs[0])
	assert.Equal(t, Field{Key: "@*", Op: Substring{Text: "taberu"}}, or.Exprs[len(or.Exprs)-1])

	r = parse(t, `"to eat"`)
	assert.Equal(t, []string{"@*", "deck", "entry", "front", "mnemonic", "tag", "template"}, Keys(r.Tree))
	assert.Equal(t, Field{Key: "front", Op: Substring{Text: "to eat"}}, r.Tree.(Or).Exprs[1])

	// double spaces leave the term whole
	r = parse(t, "a  b")
	assert.Equal(t, Field{Key: "front", Op: Substring{Text: "a  b"}}, r.Tree.(Or).Exprs[1])
}

func TestParseSplits(t *testing.T) {
	a := parse(t, "deck:a").Tree
	b := parse(t, "tag:b").Tree
	c := parse(t, "front:c").Tree

	assert.Equal(t, Or{Exprs: []Expr{a, b}}, parse(t, "deck:a OR tag:b").Tree)
	assert.Equal(t, And{Exprs: []Expr{a, b}}, parse(t, "deck:a tag:b").Tree)

	// OR binds looser than implicit AND
	assert.Equal(t, Or{Exprs: []Expr{And{Exprs: []Expr{a, b}}, c}}, parse(t, "deck:a tag:b OR front:c").Tree)

	// parentheses override both
	assert.Equal(t, And{Exprs: []Expr{a, Or{Exprs: []Expr{b, c}}}}, parse(t, "deck:a (tag:b OR front:c)").Tree)
}

func TestParseRedundantBrackets(t *testing.T) {
	queries := []string{
		"deck:a",
		"deck:a OR tag:b",
		"deck:a tag:b",
		"-tag:core",
		"(deck:a) (tag:b)",
		`front:"x y"`,
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			assert.Equal(t, parse(t, q).Tree, parse(t, "("+q+")").Tree)
		})
	}
}

func TestParseBracketsNotSpanning(t *testing.T) {
	// the first '(' closes before the end, so this is an AND of two groups
	r := parse(t, "(deck:a) (tag:b)")
	assert.Equal(t, And{Exprs: []Expr{
		Field{Key: "deck", Op: Substring{Text: "a"}},
		Field{Key: "tag", Op: Substring{Text: "b"}},
	}}, r.Tree)
}

func TestParseNegation(t *testing.T) {
	r := parse(t, "-tag:core")
	assert.Equal(t, Not{Inner: Field{Key: "tag", Op: Substring{Text: "core"}}}, r.Tree)

	r = parse(t, "-is:marked")
	assert.Nil(t, r.Tree)
	assert.Equal(t, []string{"marked"}, r.PseudoTags())
}

func TestParseQuotedSeparators(t *testing.T) {
	r := parse(t, `back:"a OR b" deck:x`)
	assert.Equal(t, And{Exprs: []Expr{
		Field{Key: "back", Op: Substring{Text: "a OR b"}},
		Field{Key: "deck", Op: Substring{Text: "x"}},
	}}, r.Tree)
}

func TestParseFailures(t *testing.T) {
	for _, q := range []string{"", ":x", "deck:", "front:\"\"", "(deck:a", "deck:a  tag:b"} {
		t.Run(q, func(t *testing.T) {
			r := ParseAt(q, testNow)
			assert.True(t, r.Failed)
			assert.Nil(t, r.Tree)
			assert.Empty(t, r.Is)
		})
	}
}

func TestParseBareValueMayContainColons(t *testing.T) {
	r := parse(t, "back:a:b")
	assert.Equal(t, Field{Key: "back", Op: Substring{Text: "a:b"}}, r.Tree)
}

func TestParseFailureDiscardsDirectives(t *testing.T) {
	r := ParseAt("sortBy:deck is:x :bad", testNow)
	assert.True(t, r.Failed)
	assert.Empty(t, r.SortBy)
	assert.Empty(t, r.Is)
}

func TestParseIsolatesState(t *testing.T) {
	first := ParseAt("is:a -sortBy:deck", testNow)
	second := ParseAt("tag:x", testNow)

	assert.Equal(t, []string{"a"}, first.PseudoTags())
	assert.Empty(t, second.Is)
	assert.Empty(t, second.SortBy)
	assert.False(t, second.Desc)
}

func TestKeysAndValidate(t *testing.T) {
	r := parse(t, "deck:a (front~[ OR -tag:x)")
	assert.Equal(t, []string{"deck", "front", "tag"}, Keys(r.Tree))
	assert.Error(t, Validate(r.Tree))
	assert.NoError(t, Validate(parse(t, "front~^a").Tree))
	assert.NoError(t, Validate(nil))
}

func TestEncode(t *testing.T) {
	r := parse(t, "deck:a -srsLevel>=2")
	assert.Equal(t, map[string]any{"$and": []any{
		map[string]any{"deck": map[string]any{"$substr": "a"}},
		map[string]any{"$not": map[string]any{"srsLevel": map[string]any{"$gte": float64(2)}}},
	}}, Encode(r.Tree))
	assert.Equal(t, map[string]any{}, Encode(nil))
}
