package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/render"
	"github.com/nonibytes/recall/recall/storage"
)

// PrepareInsert validates a new card and expands template fronts and backs.
// A front or back starting with @template is moved to the template and the
// card stores its rendering (the front as a hash).
func PrepareInsert(r record.Record, now time.Time) (record.Record, error) {
	if r.Deck == "" {
		return r, fmt.Errorf("%w: deck is required", ErrInvalid)
	}

	if body, ok := render.TemplateBody(r.Front); ok {
		r.TFront = body
		r.Front = ""
	}
	if body, ok := render.TemplateBody(r.Back); ok {
		r.TBack = body
		r.Back = ""
	}
	front, back := renderTemplate(r.TFront, r.TBack, r.Data)
	if r.TFront != "" {
		r.Front = front
	}
	if r.TBack != "" {
		r.Back = back
	}
	if r.Front == "" {
		return r, fmt.Errorf("%w: front is required", ErrInvalid)
	}

	if r.Data != nil && r.Key == "" {
		r.Key = uuid.NewString()
	}

	r.Created = normalizeOr(r.Created, query.FormatTime(now))
	r.Modified = normalizeOr(r.Modified, "")
	r.NextReview = normalizeOr(r.NextReview, "")
	if r.SRSLevel != nil && *r.SRSLevel < 0 {
		return r, fmt.Errorf("%w: srsLevel must not be negative", ErrInvalid)
	}
	return r, nil
}

// Insert stores new cards and returns their ids in input order
func Insert(ctx context.Context, q Querier, sqlt storage.SQL, records []record.Record, now time.Time) ([]int64, error) {
	ids := make([]int64, 0, len(records))
	for i, rec := range records {
		r, err := PrepareInsert(rec, now)
		if err != nil {
			return ids, fmt.Errorf("card %d: %w", i, err)
		}
		id, err := insertOne(ctx, q, sqlt, r)
		if err != nil {
			return ids, fmt.Errorf("card %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func insertOne(ctx context.Context, q Querier, sqlt storage.SQL, r record.Record) (int64, error) {
	deckID, err := getOrCreate(ctx, q, sqlt.GetDeckID, []any{r.Deck}, sqlt.InsertDeck, []any{r.Deck})
	if err != nil {
		return 0, fmt.Errorf("deck: %w", err)
	}

	var sourceID sql.NullInt64
	if r.SH != "" {
		created := normalizeOr(r.SCreated, r.Created)
		id, err := getOrCreate(ctx, q, sqlt.GetSourceID, []any{r.SH}, sqlt.InsertSource, []any{r.Source, r.SH, created})
		if err != nil {
			return 0, fmt.Errorf("source: %w", err)
		}
		sourceID = sql.NullInt64{Int64: id, Valid: true}
	}

	var templateID sql.NullInt64
	if r.TFront != "" {
		insertArgs := []any{sourceID, nullString(r.Template), nullString(r.Model), r.TFront, nullString(r.TBack), nullString(r.CSS), nullString(r.JS)}
		var id int64
		var err error
		// unnamed templates are never shared
		if r.Template != "" {
			id, err = getOrCreate(ctx, q, sqlt.GetTemplateID, []any{sourceID, r.Template, nullString(r.Model)}, sqlt.InsertTemplate, insertArgs)
		} else {
			err = q.QueryRowContext(ctx, sqlt.InsertTemplate, insertArgs...).Scan(&id)
		}
		if err != nil {
			return 0, fmt.Errorf("template: %w", err)
		}
		templateID = sql.NullInt64{Int64: id, Valid: true}
	}

	var noteID sql.NullInt64
	if r.Data != nil {
		data, err := encodeData(r.Data)
		if err != nil {
			return 0, err
		}
		id, err := getOrCreate(ctx, q, sqlt.GetNoteID, []any{sourceID, r.Key}, sqlt.InsertNote, []any{sourceID, r.Key, data})
		if err != nil {
			return 0, fmt.Errorf("note: %w", err)
		}
		noteID = sql.NullInt64{Int64: id, Valid: true}
	}

	var srsLevel sql.NullInt64
	if r.SRSLevel != nil {
		srsLevel = sql.NullInt64{Int64: int64(*r.SRSLevel), Valid: true}
	}
	stat, err := encodeStat(r.Stat)
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.QueryRowContext(ctx, sqlt.InsertCard,
		deckID, templateID, noteID,
		r.Front, nullString(r.Back), nullString(r.Mnemonic), srsLevel,
		nullString(r.NextReview), nullString(r.Created), nullString(r.Modified), stat,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert card: %w", err)
	}

	if err := addTags(ctx, q, sqlt, id, r.Tag); err != nil {
		return 0, err
	}
	return id, nil
}

// getOrCreate returns the id found by getSQL, inserting with insertSQL when missing
func getOrCreate(ctx context.Context, q Querier, getSQL string, getArgs []any, insertSQL string, insertArgs []any) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, getSQL, getArgs...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if err := q.QueryRowContext(ctx, insertSQL, insertArgs...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// renderTemplate renders the front hash and the back of a templated card
func renderTemplate(tFront, tBack string, data []record.DataSocket) (front, back string) {
	rendered := ""
	if tFront != "" {
		rendered = render.Mustache(tFront, data, "")
		front = render.Hash(rendered)
	}
	if tBack != "" {
		back = render.Mustache(tBack, data, rendered)
	}
	return front, back
}

func encodeStat(st *record.Stat) (sql.NullString, error) {
	if st == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(st)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode stat: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// normalizeOr renders a loosely formatted timestamp canonically, falling back
// to def when s is empty. Unparseable values are kept as given.
func normalizeOr(s, def string) string {
	if s == "" {
		return def
	}
	ts, _ := query.NormalizeTime(s)
	return ts
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
