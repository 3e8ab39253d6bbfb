package ops

import (
	"context"
	"fmt"

	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/storage"
	"github.com/nonibytes/recall/recall/storage/sqlbuilder"
)

// Delete removes the cards in ids and returns how many existed
func Delete(ctx context.Context, q Querier, style sqlbuilder.PlaceholderStyle, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	b := sqlbuilder.New(style)
	stmt := "DELETE FROM card_tag WHERE card_id IN (" + b.In(args...) + ")"
	if _, err := q.ExecContext(ctx, stmt, b.Args()...); err != nil {
		return 0, fmt.Errorf("delete tags: %w", err)
	}

	b = sqlbuilder.New(style)
	stmt = "DELETE FROM card WHERE id IN (" + b.In(args...) + ")"
	res, err := q.ExecContext(ctx, stmt, b.Args()...)
	if err != nil {
		return 0, fmt.Errorf("delete cards: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteWhere removes every card matching parsed. An empty or failed query
// would match the whole collection, so it is refused.
func DeleteWhere(ctx context.Context, q Querier, sqlt storage.SQL, style sqlbuilder.PlaceholderStyle, parsed query.Result) (int, error) {
	if parsed.Failed || parsed.Tree == nil {
		return 0, fmt.Errorf("%w: delete requires a non-empty condition", ErrInvalid)
	}
	ids, err := MatchingIDs(ctx, q, sqlt, parsed)
	if err != nil {
		return 0, err
	}
	return Delete(ctx, q, style, ids)
}
