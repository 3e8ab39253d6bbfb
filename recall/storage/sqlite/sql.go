package sqlite

import "github.com/nonibytes/recall/recall/storage"

var SQLTemplates = storage.SQL{
	GetMeta: "SELECT value FROM meta WHERE key = ?1",
	SetMeta: "INSERT INTO meta(key,value) VALUES(?1,?2) ON CONFLICT(key) DO UPDATE SET value=excluded.value",

	GetDeckID:    "SELECT id FROM deck WHERE name = ?1",
	InsertDeck:   "INSERT INTO deck(name) VALUES(?1) RETURNING id",
	GetSourceID:  "SELECT id FROM source WHERE h = ?1",
	InsertSource: "INSERT INTO source(name, h, created) VALUES(?1, ?2, ?3) RETURNING id",

	GetTemplateID:  "SELECT id FROM template WHERE source_id IS ?1 AND name IS ?2 AND model IS ?3 ORDER BY id LIMIT 1",
	InsertTemplate: "INSERT INTO template(source_id, name, model, front, back, css, js) VALUES(?1, ?2, ?3, ?4, ?5, ?6, ?7) RETURNING id",

	GetNoteID:      "SELECT id FROM note WHERE source_id IS ?1 AND key = ?2 ORDER BY id LIMIT 1",
	InsertNote:     "INSERT INTO note(source_id, key, data) VALUES(?1, ?2, ?3) RETURNING id",
	GetNoteByCard:  "SELECT n.id, n.data FROM card AS c LEFT JOIN note AS n ON n.id = c.note_id WHERE c.id = ?1",
	UpdateNoteData: "UPDATE note SET data = ?1 WHERE id = ?2",
	SetCardNote:    "UPDATE card SET note_id = ?1 WHERE id = ?2",

	CardExists:  "SELECT id FROM card WHERE id = ?1",
	InsertCard:  "INSERT INTO card(deck_id, template_id, note_id, front, back, mnemonic, srs_level, next_review, created, modified, stat) VALUES(?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11) RETURNING id",
	SetCardDeck: "UPDATE card SET deck_id = ?1 WHERE id = ?2",

	GetTagID:      "SELECT id FROM tag WHERE name = ?1",
	InsertTag:     "INSERT INTO tag(name) VALUES(?1) RETURNING id",
	InsertCardTag: "INSERT OR IGNORE INTO card_tag(card_id, tag_id) VALUES(?1, ?2)",
	DeleteCardTag: "DELETE FROM card_tag WHERE card_id = ?1 AND tag_id = (SELECT id FROM tag WHERE name = ?2)",
	GetTagsByCard: "SELECT t.name FROM tag AS t INNER JOIN card_tag AS ct ON ct.tag_id = t.id WHERE ct.card_id = ?1 ORDER BY t.name",
	ListCardTags:  "SELECT ct.card_id, t.name FROM card_tag AS ct INNER JOIN tag AS t ON t.id = ct.tag_id ORDER BY ct.card_id, t.name",
}
