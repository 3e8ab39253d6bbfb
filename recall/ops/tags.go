package ops

import (
	"context"
	"fmt"

	"github.com/nonibytes/recall/recall/storage"
)

// AddTags attaches tags to every card in ids. Tags a card already has are skipped.
func AddTags(ctx context.Context, q Querier, sqlt storage.SQL, ids []int64, tags []string) error {
	for _, id := range ids {
		if err := requireCard(ctx, q, sqlt, id); err != nil {
			return err
		}
		if err := addTags(ctx, q, sqlt, id, tags); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTags detaches tags from every card in ids
func RemoveTags(ctx context.Context, q Querier, sqlt storage.SQL, ids []int64, tags []string) error {
	for _, id := range ids {
		if err := requireCard(ctx, q, sqlt, id); err != nil {
			return err
		}
		if err := removeTags(ctx, q, sqlt, id, tags); err != nil {
			return err
		}
	}
	return nil
}

func addTags(ctx context.Context, q Querier, sqlt storage.SQL, cardID int64, tags []string) error {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true

		tagID, err := getOrCreate(ctx, q, sqlt.GetTagID, []any{t}, sqlt.InsertTag, []any{t})
		if err != nil {
			return fmt.Errorf("tag %q: %w", t, err)
		}
		if _, err := q.ExecContext(ctx, sqlt.InsertCardTag, cardID, tagID); err != nil {
			return fmt.Errorf("attach tag %q: %w", t, err)
		}
	}
	return nil
}

func removeTags(ctx context.Context, q Querier, sqlt storage.SQL, cardID int64, tags []string) error {
	for _, t := range tags {
		if _, err := q.ExecContext(ctx, sqlt.DeleteCardTag, cardID, t); err != nil {
			return fmt.Errorf("detach tag %q: %w", t, err)
		}
	}
	return nil
}

// setTags makes the card's tag set equal to tags
func setTags(ctx context.Context, q Querier, sqlt storage.SQL, cardID int64, tags []string) error {
	prev, err := getTags(ctx, q, sqlt, cardID)
	if err != nil {
		return err
	}

	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	var stale []string
	for _, t := range prev {
		if !want[t] {
			stale = append(stale, t)
		}
	}

	if err := removeTags(ctx, q, sqlt, cardID, stale); err != nil {
		return err
	}
	return addTags(ctx, q, sqlt, cardID, tags)
}

func requireCard(ctx context.Context, q Querier, sqlt storage.SQL, id int64) error {
	var found int64
	if err := q.QueryRowContext(ctx, sqlt.CardExists, id).Scan(&found); err != nil {
		if isNoRows(err) {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return fmt.Errorf("find card: %w", err)
	}
	return nil
}
