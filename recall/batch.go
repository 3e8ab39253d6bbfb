package recall

import (
	"context"
	"database/sql"

	"github.com/nonibytes/recall/recall/ops"
	"github.com/nonibytes/recall/recall/record"
)

type BatchOpKind int

const (
	batchInsert BatchOpKind = iota
	batchDelete
)

type BatchOp struct {
	Kind   BatchOpKind
	Record record.Record // for insert
	ID     int64         // for delete
}

// Batch queues inserts and deletes to run in one transaction
type Batch struct {
	ops []BatchOp
}

func NewBatch() Batch {
	return Batch{ops: make([]BatchOp, 0)}
}

func (b *Batch) Insert(r record.Record) error {
	if r.Deck == "" {
		return InvalidField("deck", "deck is required")
	}
	if r.Front == "" {
		return InvalidField("front", "front is required")
	}
	b.ops = append(b.ops, BatchOp{Kind: batchInsert, Record: r})
	return nil
}

func (b *Batch) Delete(id int64) error {
	if id <= 0 {
		return New(ErrInvalid, "id must be positive")
	}
	b.ops = append(b.ops, BatchOp{Kind: batchDelete, ID: id})
	return nil
}

func (b *Batch) Len() int {
	return len(b.ops)
}

func (b *Batch) Empty() bool {
	return len(b.ops) == 0
}

// Execute is implemented on Store to keep storage access internal
func (b *Batch) Execute(ctx context.Context, s *Store) (int, error) {
	return s.Batch(ctx, *b)
}

// Batch runs every queued operation in one transaction and returns how many
// took effect. Deletes of missing ids are skipped.
func (s *Store) Batch(ctx context.Context, b Batch) (int, error) {
	if b.Empty() {
		return 0, nil
	}

	count := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sqlt := s.adapter.SQL()
		now := s.opts.Now()
		for _, op := range b.ops {
			switch op.Kind {
			case batchInsert:
				if _, err := ops.Insert(ctx, tx, sqlt, []record.Record{op.Record}, now); err != nil {
					return wrapOp("batch insert", err)
				}
				count++
			case batchDelete:
				n, err := ops.Delete(ctx, tx, s.adapter.PlaceholderStyle(), []int64{op.ID})
				if err != nil {
					return wrapOp("batch delete", err)
				}
				count += n
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("batch executed", "ops", b.Len(), "applied", count)
	return count, nil
}
