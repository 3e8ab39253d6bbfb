package postgres

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS deck (
  id   BIGSERIAL PRIMARY KEY,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS source (
  id      BIGSERIAL PRIMARY KEY,
  name    TEXT NOT NULL,
  h       TEXT UNIQUE,
  created TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS template (
  id        BIGSERIAL PRIMARY KEY,
  source_id BIGINT REFERENCES source(id),
  name      TEXT,
  model     TEXT,
  front     TEXT NOT NULL,
  back      TEXT,
  css       TEXT,
  js        TEXT,
  UNIQUE (source_id, name, model)
);

CREATE TABLE IF NOT EXISTS note (
  id        BIGSERIAL PRIMARY KEY,
  source_id BIGINT REFERENCES source(id),
  key       TEXT,
  data      TEXT NOT NULL,
  UNIQUE (source_id, key)
);

CREATE TABLE IF NOT EXISTS card (
  id          BIGSERIAL PRIMARY KEY,
  deck_id     BIGINT NOT NULL REFERENCES deck(id),
  template_id BIGINT REFERENCES template(id),
  note_id     BIGINT REFERENCES note(id),
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
  id   BIGSERIAL PRIMARY KEY,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS card_tag (
  card_id BIGINT NOT NULL REFERENCES card(id) ON DELETE CASCADE,
  tag_id  BIGINT NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
  PRIMARY KEY (card_id, tag_id)
);
`
