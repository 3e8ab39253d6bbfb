package ops

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/render"
	"github.com/nonibytes/recall/recall/storage"
	"github.com/nonibytes/recall/recall/storage/sqlbuilder"
)

// Update applies a patch to one card. modified is stamped with now unless
// the patch sets it. Cards with a template are re-rendered when the
// template or the note data changes.
func Update(ctx context.Context, q Querier, sqlt storage.SQL, style sqlbuilder.PlaceholderStyle, id int64, p record.Patch, now time.Time) error {
	if err := requireCard(ctx, q, sqlt, id); err != nil {
		return err
	}

	if p.Front != nil {
		if body, ok := render.TemplateBody(*p.Front); ok {
			p.TFront, p.Front = &body, nil
		}
	}
	if p.Back != nil {
		if body, ok := render.TemplateBody(*p.Back); ok {
			p.TBack, p.Back = &body, nil
		}
	}

	if p.Data != nil {
		if err := mergeNoteData(ctx, q, sqlt, id, p.Data); err != nil {
			return err
		}
	}

	if err := updateTemplate(ctx, q, style, id, p); err != nil {
		return err
	}

	if p.Deck != nil {
		if *p.Deck == "" {
			return fmt.Errorf("%w: deck cannot be empty", ErrInvalid)
		}
		deckID, err := getOrCreate(ctx, q, sqlt.GetDeckID, []any{*p.Deck}, sqlt.InsertDeck, []any{*p.Deck})
		if err != nil {
			return fmt.Errorf("deck: %w", err)
		}
		if _, err := q.ExecContext(ctx, sqlt.SetCardDeck, deckID, id); err != nil {
			return fmt.Errorf("set deck: %w", err)
		}
	}

	if p.Tag != nil {
		if err := setTags(ctx, q, sqlt, id, p.Tag); err != nil {
			return err
		}
	}

	cols, err := cardColumns(p, now)
	if err != nil {
		return err
	}

	if p.TFront != nil || p.TBack != nil || p.Data != nil {
		cur, err := Get(ctx, q, sqlt, style, id)
		if err != nil {
			return err
		}
		if cur.TFront != "" {
			front, back := renderTemplate(cur.TFront, cur.TBack, cur.Data)
			cols["front"] = front
			if cur.TBack != "" {
				cols["back"] = back
			}
		}
	}

	return updateColumns(ctx, q, style, "card", "id", id, cols)
}

// cardColumns maps the patch onto card columns
func cardColumns(p record.Patch, now time.Time) (map[string]any, error) {
	cols := make(map[string]any)
	setString := func(field string, v *string) {
		if v != nil {
			cols[storage.CardColumns[field]] = nullString(*v)
		}
	}
	setTime := func(field string, v *string) {
		if v != nil {
			cols[storage.CardColumns[field]] = nullString(normalizeOr(*v, ""))
		}
	}

	if p.Front != nil && *p.Front == "" {
		return nil, fmt.Errorf("%w: front cannot be empty", ErrInvalid)
	}
	setString("front", p.Front)
	setString("back", p.Back)
	setString("mnemonic", p.Mnemonic)
	setTime("nextReview", p.NextReview)
	setTime("created", p.Created)

	if p.SRSLevel != nil {
		if *p.SRSLevel < 0 {
			return nil, fmt.Errorf("%w: srsLevel must not be negative", ErrInvalid)
		}
		cols["srs_level"] = int64(*p.SRSLevel)
	}
	if p.Stat != nil {
		stat, err := encodeStat(p.Stat)
		if err != nil {
			return nil, err
		}
		cols["stat"] = stat
	}

	if p.Modified != nil {
		setTime("modified", p.Modified)
	} else {
		cols["modified"] = query.FormatTime(now)
	}
	return cols, nil
}

func mergeNoteData(ctx context.Context, q Querier, sqlt storage.SQL, cardID int64, sockets []record.DataSocket) error {
	var noteID sql.NullInt64
	var raw sql.NullString
	if err := q.QueryRowContext(ctx, sqlt.GetNoteByCard, cardID).Scan(&noteID, &raw); err != nil {
		return fmt.Errorf("load note: %w", err)
	}

	current, err := decodeData(raw.String)
	if err != nil {
		return err
	}
	data, err := encodeData(record.MergeData(current, sockets))
	if err != nil {
		return err
	}

	if noteID.Valid {
		if _, err := q.ExecContext(ctx, sqlt.UpdateNoteData, data, noteID.Int64); err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		return nil
	}

	var id int64
	if err := q.QueryRowContext(ctx, sqlt.InsertNote, nil, uuid.NewString(), data).Scan(&id); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	if _, err := q.ExecContext(ctx, sqlt.SetCardNote, id, cardID); err != nil {
		return fmt.Errorf("link note: %w", err)
	}
	return nil
}

// updateTemplate writes template columns of the card's template, creating a
// template when the card has none and a front template is given
func updateTemplate(ctx context.Context, q Querier, style sqlbuilder.PlaceholderStyle, cardID int64, p record.Patch) error {
	vals := make(map[string]any)
	for field, v := range map[string]*string{"tFront": p.TFront, "tBack": p.TBack, "css": p.CSS, "js": p.JS} {
		if v != nil {
			vals[storage.TemplateColumns[field]] = nullString(*v)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	if p.TFront != nil && *p.TFront == "" {
		return fmt.Errorf("%w: template front cannot be empty", ErrInvalid)
	}

	cols := sortedKeys(vals)
	b := sqlbuilder.New(style)
	stmt := "UPDATE template SET " + b.Set(cols, vals) +
		" WHERE id = (SELECT template_id FROM card WHERE id = " + b.Arg(cardID) + ")"
	res, err := q.ExecContext(ctx, stmt, b.Args()...)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	if p.TFront == nil {
		return nil
	}

	b = sqlbuilder.New(style)
	stmt = "INSERT INTO template(" + joinCols(cols) + ") VALUES(" + b.In(valuesOf(cols, vals)...) + ") RETURNING id"
	var templateID int64
	if err := q.QueryRowContext(ctx, stmt, b.Args()...).Scan(&templateID); err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return updateColumns(ctx, q, style, "card", "id", cardID, map[string]any{"template_id": templateID})
}

// updateColumns runs UPDATE table SET cols WHERE key = id
func updateColumns(ctx context.Context, q Querier, style sqlbuilder.PlaceholderStyle, table, key string, id int64, vals map[string]any) error {
	if len(vals) == 0 {
		return nil
	}
	b := sqlbuilder.New(style)
	stmt := "UPDATE " + table + " SET " + b.Set(sortedKeys(vals), vals) + " WHERE " + key + " = " + b.Arg(id)
	if _, err := q.ExecContext(ctx, stmt, b.Args()...); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valuesOf(cols []string, vals map[string]any) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = vals[c]
	}
	return out
}

func joinCols(cols []string) string {
	result := ""
	for i, c := range cols {
		if i > 0 {
			result += ", "
		}
		result += c
	}
	return result
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
