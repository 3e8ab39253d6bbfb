package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/storage"
	"github.com/nonibytes/recall/recall/storage/sqlbuilder"
)

var (
	// ErrNotFound reports a card id that does not exist
	ErrNotFound = errors.New("card not found")
	// ErrInvalid reports input that cannot be stored
	ErrInvalid = errors.New("invalid card")
)

// Querier is satisfied by both *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// LoadAll materializes every card with its deck, template, note, source and tags
func LoadAll(ctx context.Context, q Querier, sqlt storage.SQL) ([]record.Record, error) {
	rows, err := q.QueryContext(ctx, storage.SelectCards+" ORDER BY c.id")
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	index := make(map[int64]int)
	for rows.Next() {
		r, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		index[r.ID] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	tagRows, err := q.QueryContext(ctx, sqlt.ListCardTags)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var (
			cardID int64
			name   string
		)
		if err := tagRows.Scan(&cardID, &name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[cardID]; ok {
			records[i].Tag = append(records[i].Tag, name)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return records, nil
}

// Get loads a single card by id
func Get(ctx context.Context, q Querier, sqlt storage.SQL, style sqlbuilder.PlaceholderStyle, id int64) (record.Record, error) {
	b := sqlbuilder.New(style)
	stmt := storage.SelectCards + " WHERE c.id = " + b.Arg(id)

	r, err := scanCard(q.QueryRowContext(ctx, stmt, b.Args()...))
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return record.Record{}, err
	}

	r.Tag, err = getTags(ctx, q, sqlt, id)
	if err != nil {
		return record.Record{}, err
	}
	return r, nil
}

func getTags(ctx context.Context, q Querier, sqlt storage.SQL, id int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, sqlt.GetTagsByCard, id)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func scanCard(s rowScanner) (record.Record, error) {
	var r record.Record
	var back, mnemonic, nextReview, created, modified sql.NullString
	var stat, tName, tModel, tFront, tBack, css, js sql.NullString
	var noteKey, noteData, srcName, srcH, srcCreated sql.NullString
	var srsLevel sql.NullInt64

	err := s.Scan(
		&r.ID, &r.Front, &back, &mnemonic, &srsLevel, &nextReview,
		&r.Deck, &created, &modified, &stat,
		&tName, &tModel, &tFront, &tBack, &css, &js,
		&noteKey, &noteData,
		&srcName, &srcH, &srcCreated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("scan card: %w", err)
	}

	r.Back = back.String
	r.Mnemonic = mnemonic.String
	r.NextReview = nextReview.String
	r.Created = created.String
	r.Modified = modified.String
	r.Template = tName.String
	r.Model = tModel.String
	r.TFront = tFront.String
	r.TBack = tBack.String
	r.CSS = css.String
	r.JS = js.String
	r.Key = noteKey.String
	r.Source = srcName.String
	r.SH = srcH.String
	r.SCreated = srcCreated.String

	if srsLevel.Valid {
		n := int(srsLevel.Int64)
		r.SRSLevel = &n
	}
	if stat.Valid && stat.String != "" {
		var st record.Stat
		if err := json.Unmarshal([]byte(stat.String), &st); err != nil {
			return r, fmt.Errorf("card %d: decode stat: %w", r.ID, err)
		}
		r.Stat = &st
	}
	if noteData.Valid {
		data, err := decodeData(noteData.String)
		if err != nil {
			return r, fmt.Errorf("card %d: %w", r.ID, err)
		}
		r.Data = data
	}
	return r, nil
}

func decodeData(s string) ([]record.DataSocket, error) {
	data := make([]record.DataSocket, 0)
	if s == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, fmt.Errorf("decode note data: %w", err)
	}
	return data, nil
}

func encodeData(data []record.DataSocket) (string, error) {
	if data == nil {
		data = []record.DataSocket{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode note data: %w", err)
	}
	return string(b), nil
}
