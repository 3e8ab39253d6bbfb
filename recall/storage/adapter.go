package storage

import (
	"context"
	"database/sql"

	"github.com/nonibytes/recall/recall/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Magic identifies a recall collection in the meta table
const (
	Magic         = "recall"
	SchemaVersion = "1"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	CollectionID() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	CreateCollection(ctx context.Context, db *sql.DB) error
	OpenCollection(ctx context.Context, db *sql.DB) error
	Optimize(ctx context.Context, db *sql.DB) error

	SQL() SQL
}

// SQL holds prepared SQL templates for common operations.
// Statements with a variable shape (column lists, IN lists) are assembled
// with sqlbuilder instead.
type SQL struct {
	GetMeta string
	SetMeta string

	GetDeckID    string
	InsertDeck   string
	GetSourceID  string
	InsertSource string

	GetTemplateID  string
	InsertTemplate string

	GetNoteID      string
	InsertNote     string
	GetNoteByCard  string
	UpdateNoteData string
	SetCardNote    string

	CardExists  string
	InsertCard  string
	SetCardDeck string

	GetTagID      string
	InsertTag     string
	InsertCardTag string
	DeleteCardTag string
	GetTagsByCard string
	ListCardTags  string
}

// SelectCards is the denormalizing join every card view is read through.
// It is the same on every backend; callers append WHERE/ORDER clauses.
const SelectCards = `SELECT
	c.id, c.front, c.back, c.mnemonic, c.srs_level, c.next_review,
	d.name, c.created, c.modified, c.stat,
	t.name, t.model, t.front, t.back, t.css, t.js,
	n.key, n.data,
	s.name, s.h, s.created
FROM card AS c
INNER JOIN deck AS d ON d.id = c.deck_id
LEFT JOIN template AS t ON t.id = c.template_id
LEFT JOIN note AS n ON n.id = c.note_id
LEFT JOIN source AS s ON s.id = n.source_id`

// CardColumns lists the card columns an update may set, keyed by record field
var CardColumns = map[string]string{
	"front":      "front",
	"back":       "back",
	"mnemonic":   "mnemonic",
	"srsLevel":   "srs_level",
	"nextReview": "next_review",
	"created":    "created",
	"modified":   "modified",
	"stat":       "stat",
}

// TemplateColumns lists the template columns an update may set
var TemplateColumns = map[string]string{
	"tFront": "front",
	"tBack":  "back",
	"css":    "css",
	"js":     "js",
}
