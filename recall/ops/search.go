package ops

import (
	"context"
	"fmt"

	"github.com/nonibytes/recall/recall/filter"
	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/storage"
)

// SearchOptions configures paging, ordering and projection of a search
type SearchOptions struct {
	Offset int
	Limit  int // 0 means no limit
	SortBy string
	Desc   bool
	Fields []string // empty means every field
}

// Page is one page of search results
type Page struct {
	Data   []record.Doc `json:"data"`
	Count  int          `json:"count"` // matches before paging
	Is     []string     `json:"is"`
	SortBy string       `json:"sortBy"`
	Desc   bool         `json:"desc"`
}

// Run filters, sorts and pages records in memory. The query's own sort
// directives take precedence over opts.
func Run(records []record.Record, parsed query.Result, opts SearchOptions) Page {
	docs := make([]record.Doc, len(records))
	for i, r := range records {
		docs[i] = r.Doc()
	}

	matched := filter.Filter(docs, filter.Compile(parsed.Tree))

	sortBy := parsed.SortBy
	if sortBy == "" {
		sortBy = opts.SortBy
	}
	if sortBy == "" {
		sortBy = filter.DefaultSortField
	}
	desc := parsed.Desc || opts.Desc
	filter.NewSorter(sortBy, desc).Sort(matched)

	page := Page{
		Data:   paginate(matched, opts.Offset, opts.Limit),
		Count:  len(matched),
		Is:     parsed.PseudoTags(),
		SortBy: sortBy,
		Desc:   desc,
	}
	if len(opts.Fields) > 0 {
		for i, d := range page.Data {
			page.Data[i] = d.Project(opts.Fields)
		}
	}
	return page
}

// Search materializes every card and runs the query over the snapshot
func Search(ctx context.Context, q Querier, sqlt storage.SQL, parsed query.Result, opts SearchOptions) (Page, error) {
	records, err := LoadAll(ctx, q, sqlt)
	if err != nil {
		return Page{}, fmt.Errorf("load cards: %w", err)
	}
	return Run(records, parsed, opts), nil
}

// MatchingIDs returns the ids of the cards matching parsed, in id order
func MatchingIDs(ctx context.Context, q Querier, sqlt storage.SQL, parsed query.Result) ([]int64, error) {
	records, err := LoadAll(ctx, q, sqlt)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}

	pred := filter.Compile(parsed.Tree)
	var ids []int64
	for _, r := range records {
		if pred(r.Doc()) {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func paginate(docs []record.Doc, offset, limit int) []record.Doc {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(docs) {
		return []record.Doc{}
	}
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end]
}
