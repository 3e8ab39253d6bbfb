package sqlite

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS deck (
  id   INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS source (
  id      INTEGER PRIMARY KEY AUTOINCREMENT,
  name    TEXT NOT NULL,
  h       TEXT UNIQUE,
  created TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS template (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  source_id INTEGER REFERENCES source(id),
  name      TEXT,
  model     TEXT,
  front     TEXT NOT NULL,
  back      TEXT,
  css       TEXT,
  js        TEXT,
  UNIQUE (source_id, name, model)
);

CREATE TABLE IF NOT EXISTS note (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  source_id INTEGER REFERENCES source(id),
  key       TEXT,
  data      TEXT NOT NULL,
  UNIQUE (source_id, key)
);

CREATE TABLE IF NOT EXISTS card (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  deck_id     INTEGER NOT NULL REFERENCES deck(id),
  template_id INTEGER REFERENCES template(id),
  note_id     INTEGER REFERENCES note(id),
  front       TEXT NOT NULL,
  back        TEXT,
  mnemonic    TEXT,
  srs_level   INTEGER,
  next_review TEXT,
  created     TEXT,
  modified    TEXT,
  stat        TEXT
);
CREATE INDEX IF NOT EXISTS idx_card_deck ON card(deck_id);

CREATE TABLE IF NOT EXISTS tag (
  id   INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS card_tag (
  card_id INTEGER NOT NULL REFERENCES card(id) ON DELETE CASCADE,
  tag_id  INTEGER NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
  PRIMARY KEY (card_id, tag_id)
);
`
