package recall

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/nonibytes/recall/recall/ops"
	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/storage"
)

type (
	SearchOptions = ops.SearchOptions
	Page          = ops.Page
	ValueCount    = ops.ValueCount
	Rendered      = ops.Rendered
)

// Options configures a Store
type Options struct {
	// Now is the clock used for timestamps and relative dates
	Now    func() time.Time
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Now:    time.Now,
		Logger: slog.Default(),
	}
}

// Store is an open card collection
type Store struct {
	adapter storage.Adapter
	db      *sql.DB
	opts    Options
	log     *slog.Logger
}

// Create initializes a new collection
func Create(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}
	if err := adapter.CreateCollection(ctx, db); err != nil {
		db.Close()
		return nil, Wrap(ErrSQL, "create collection", err)
	}
	return newStore(adapter, db, opts), nil
}

// Open opens an existing collection
func Open(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}
	if err := adapter.OpenCollection(ctx, db); err != nil {
		db.Close()
		return nil, Wrap(ErrSQL, "open collection", err)
	}
	return newStore(adapter, db, opts), nil
}

func newStore(adapter storage.Adapter, db *sql.DB, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		adapter: adapter,
		db:      db,
		opts:    opts,
		log:     opts.Logger.With("backend", string(adapter.Backend()), "collection", adapter.CollectionID()),
	}
}

// Close closes the database and the adapter
func (s *Store) Close() error {
	var result *multierror.Error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			result = multierror.Append(result, Wrap(ErrIO, "close database", err))
		}
	}
	if err := s.adapter.Close(); err != nil {
		result = multierror.Append(result, Wrap(ErrIO, "close adapter", err))
	}
	return result.ErrorOrNil()
}

// Parse parses q against the store clock
func (s *Store) Parse(q string) query.Result {
	parsed := query.ParseAt(q, s.opts.Now())
	if parsed.Failed {
		s.log.Debug("query did not parse, matching everything", "query", q)
	}
	return parsed
}

// Insert stores new cards and returns their ids
func (s *Store) Insert(ctx context.Context, records ...record.Record) ([]int64, error) {
	var ids []int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		ids, err = ops.Insert(ctx, tx, s.adapter.SQL(), records, s.opts.Now())
		if err != nil {
			return wrapOp("insert", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("inserted cards", "count", len(ids))
	return ids, nil
}

// Update applies a patch to one card
func (s *Store) Update(ctx context.Context, id int64, patch record.Patch) error {
	if patch.Empty() {
		return New(ErrInvalid, "nothing to update")
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ops.Update(ctx, tx, s.adapter.SQL(), s.adapter.PlaceholderStyle(), id, patch, s.opts.Now()); err != nil {
			return wrapOp("update", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("updated card", "id", id)
	return nil
}

// Delete removes cards by id and returns how many existed
func (s *Store) Delete(ctx context.Context, ids ...int64) (int, error) {
	var n int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = ops.Delete(ctx, tx, s.adapter.PlaceholderStyle(), ids)
		if err != nil {
			return wrapOp("delete", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("deleted cards", "count", n)
	return n, nil
}

// DeleteWhere removes every card matching q. Queries without a condition are refused.
func (s *Store) DeleteWhere(ctx context.Context, q string) (int, error) {
	parsed := s.Parse(q)
	var n int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = ops.DeleteWhere(ctx, tx, s.adapter.SQL(), s.adapter.PlaceholderStyle(), parsed)
		if err != nil {
			return wrapOp("delete where", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("deleted cards", "query", q, "count", n)
	return n, nil
}

// AddTags attaches tags to the cards in ids
func (s *Store) AddTags(ctx context.Context, ids []int64, tags []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ops.AddTags(ctx, tx, s.adapter.SQL(), ids, tags); err != nil {
			return wrapOp("add tags", err)
		}
		s.log.Info("added tags", "cards", len(ids), "tags", tags)
		return nil
	})
}

// RemoveTags detaches tags from the cards in ids
func (s *Store) RemoveTags(ctx context.Context, ids []int64, tags []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ops.RemoveTags(ctx, tx, s.adapter.SQL(), ids, tags); err != nil {
			return wrapOp("remove tags", err)
		}
		s.log.Info("removed tags", "cards", len(ids), "tags", tags)
		return nil
	})
}

// Get loads one card
func (s *Store) Get(ctx context.Context, id int64) (record.Record, error) {
	r, err := ops.Get(ctx, s.db, s.adapter.SQL(), s.adapter.PlaceholderStyle(), id)
	if err != nil {
		return record.Record{}, wrapOp("get", err)
	}
	return r, nil
}

// Render returns the displayable front, back and mnemonic of a card
func (s *Store) Render(ctx context.Context, id int64) (Rendered, error) {
	out, err := ops.Render(ctx, s.db, s.adapter.SQL(), s.adapter.PlaceholderStyle(), id)
	if err != nil {
		return Rendered{}, wrapOp("render", err)
	}
	return out, nil
}

// Search runs q over a snapshot of the collection. A query that fails to
// parse matches every card.
func (s *Store) Search(ctx context.Context, q string, opts SearchOptions) (Page, error) {
	start := time.Now()
	parsed := s.Parse(q)

	page, err := ops.Search(ctx, s.db, s.adapter.SQL(), parsed, opts)
	if err != nil {
		return Page{}, Wrap(ErrSQL, "search", err)
	}
	s.log.Debug("search",
		"query", q,
		"count", page.Count,
		"returned", len(page.Data),
		"sort_by", page.SortBy,
		"desc", page.Desc,
		"elapsed", time.Since(start),
	)
	return page, nil
}

// Discover counts the values of field over the cards matching where
func (s *Store) Discover(ctx context.Context, field, where string, top int) ([]ValueCount, error) {
	if field == "" {
		return nil, InvalidField(field, "field is required")
	}
	counts, err := ops.Discover(ctx, s.db, s.adapter.SQL(), s.Parse(where), field, top)
	if err != nil {
		return nil, Wrap(ErrSQL, "discover values", err)
	}
	return counts, nil
}

// Optimize compacts and analyzes the database
func (s *Store) Optimize(ctx context.Context) error {
	if err := s.adapter.Optimize(ctx, s.db); err != nil {
		return Wrap(ErrSQL, "optimize", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Wrap(ErrSQL, "begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return Wrap(ErrSQL, "commit", err)
	}
	return nil
}
