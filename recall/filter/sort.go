package filter

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nonibytes/recall/recall/record"
)

// DefaultSortField orders results when the query names none
const DefaultSortField = "deck"

// type ranks for mixed comparisons; unresolvable values rank lowest
const (
	rankNone = iota
	rankNumber
	rankString
	rankComposite
)

// Sorter orders docs by one field. A Sorter owns its collator and must not be
// shared across goroutines.
type Sorter struct {
	key  record.Key
	desc bool
	coll *collate.Collator
}

// NewSorter returns a sorter for field; an empty field means DefaultSortField
func NewSorter(field string, desc bool) *Sorter {
	if field == "" {
		field = DefaultSortField
	}
	return &Sorter{
		key:  record.ParseKey(field),
		desc: desc,
		coll: collate.New(language.Und),
	}
}

// Compare orders a and b by field, returning -1, 0 or 1
func Compare(a, b record.Doc, field string, desc bool) int {
	return NewSorter(field, desc).Compare(a, b)
}

// Compare orders a and b by the sorter's field
func (s *Sorter) Compare(a, b record.Doc) int {
	va, oka := s.key.Resolve(a)
	vb, okb := s.key.Resolve(b)
	if !oka {
		va = nil
	}
	if !okb {
		vb = nil
	}

	c := s.compareValues(va, vb)
	if s.desc {
		return -c
	}
	return c
}

// Sort orders docs in place. Ties fall back to ascending id so the output is
// deterministic.
func (s *Sorter) Sort(docs []record.Doc) {
	sort.SliceStable(docs, func(i, j int) bool {
		if c := s.Compare(docs[i], docs[j]); c != 0 {
			return c < 0
		}
		return idOf(docs[i]) < idOf(docs[j])
	})
}

func (s *Sorter) compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return sign(ra - rb)
	}

	switch ra {
	case rankNumber:
		x, _ := number(a)
		y, _ := number(b)
		return cmpFloat(x, y)
	case rankString:
		return s.coll.CompareString(a.(string), b.(string))
	case rankComposite:
		// arrays compare element-wise; objects are unordered
		x, okx := a.([]any)
		y, oky := b.([]any)
		if !okx || !oky {
			return 0
		}
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := s.compareValues(x[i], y[i]); c != 0 {
				return c
			}
		}
		return sign(len(x) - len(y))
	}
	return 0
}

func rank(v any) int {
	if _, ok := number(v); ok {
		return rankNumber
	}
	switch v.(type) {
	case string:
		return rankString
	case []any, map[string]any, record.Doc:
		return rankComposite
	}
	return rankNone
}

func idOf(d record.Doc) float64 {
	id, _ := number(d["id"])
	return id
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
