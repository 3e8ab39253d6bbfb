package ops

import (
	"context"
	"fmt"
	"sort"

	"github.com/nonibytes/recall/recall/filter"
	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/storage"
)

// DefaultDiscoverTop bounds Discover results when top is not positive
const DefaultDiscoverTop = 20

// ValueCount is one distinct value of a field and the number of matching
// cards carrying it
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountValues tallies the values of field over docs. Array elements are
// counted separately and each card counts a value once.
func CountValues(docs []record.Doc, field string, top int) []ValueCount {
	if top <= 0 {
		top = DefaultDiscoverTop
	}
	key := record.ParseKey(field)

	counts := make(map[string]int)
	for _, d := range docs {
		v, ok := key.Resolve(d)
		if !ok || v == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, s := range flatten(v) {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			counts[s]++
		}
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > top {
		out = out[:top]
	}
	return out
}

// Discover counts the values of field over the cards matching parsed
func Discover(ctx context.Context, q Querier, sqlt storage.SQL, parsed query.Result, field string, top int) ([]ValueCount, error) {
	records, err := LoadAll(ctx, q, sqlt)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	docs := make([]record.Doc, len(records))
	for i, r := range records {
		docs[i] = r.Doc()
	}
	return CountValues(filter.Filter(docs, filter.Compile(parsed.Tree)), field, top), nil
}

func flatten(v any) []string {
	switch x := v.(type) {
	case []any:
		var out []string
		for _, e := range x {
			out = append(out, flatten(e)...)
		}
		return out
	case map[string]any:
		return nil
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(x)}
	}
}
