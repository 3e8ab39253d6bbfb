package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nonibytes/recall/recall/query"
	"github.com/nonibytes/recall/recall/record"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func sampleDoc() record.Doc {
	return record.Record{
		ID:         1,
		Front:      "食べる",
		Back:       "to eat",
		Deck:       "JP/N5",
		Tag:        []string{"verb", "core"},
		SRSLevel:   intPtr(0),
		NextReview: "2020-01-01T00:00:00.000Z",
		Created:    "2024-03-14T00:00:00.000Z",
		Stat:       &record.Stat{Streak: record.Streak{Right: 3, Wrong: 1}},
		Data: []record.DataSocket{
			{Key: "Reading", Value: "たべる"},
			{Key: "Meaning", Value: "To Eat"},
			{Key: "Secret", Value: record.NoSearchMarker + " hidden"},
		},
	}.Doc()
}

func match(q string, d record.Doc) bool {
	return Matches(query.ParseAt(q, testNow).Tree, d)
}

func TestMatchesExamples(t *testing.T) {
	d := sampleDoc()

	tests := []struct {
		q    string
		want bool
	}{
		{"is:leech", true},
		{"deck:JP/", true},
		{"deck:jp/n5", true},
		{"-tag:core", false},
		{"srsLevel>=1", false},
		{"srsLevel<1", true},
		{"tag:verb", true},
		{"tag=verb", true},
		{"tag=ver", false},
		{"is:due", true},
		{"is:new", false},
		{"mnemonic:NULL", true},
		{"back:NULL", false},
		{"created>-3day", true},
		{"created<-3day", false},
		{"created:NOW", true},
		{"front~^食", true},
		{"back~EAT$", true},
		{"back~[", false},
		{"@meaning:eat", true},
		{"@MEANING:eat", true},
		{"@reading:eat", false},
		{"eat", true},
		{"hidden", false},
		{"@secret:hidden", true},
		{"stat.streak.right>2", true},
		{"stat.streak.right>\"10\"", false},
		{"stat.streak.*:1", true},
		{"stat.missing>0", false},
		{"deck:JP tag:verb", true},
		{"deck:JP tag:noun", false},
		{"deck:KR OR tag:verb", true},
		{"-(deck:KR OR tag:noun)", true},
		{"sortBy:front", true},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Equal(t, tt.want, match(tt.q, d))
		})
	}
}

func TestNegationIsComplement(t *testing.T) {
	docs := []record.Doc{
		sampleDoc(),
		record.Record{ID: 2, Front: "a", Deck: "X", Tag: []string{"foo"}}.Doc(),
		record.Record{ID: 3, Front: "b", Deck: "Y"}.Doc(),
	}
	for _, q := range []string{"tag:foo", "srsLevel>=0", "@reading:た", "mnemonic:NULL"} {
		pos := Compile(query.ParseAt(q, testNow).Tree)
		neg := Compile(query.ParseAt("-"+q, testNow).Tree)
		for _, d := range docs {
			assert.NotEqual(t, pos(d), neg(d), "%s on %v", q, d["id"])
		}
	}
}

func TestEmptyCombinators(t *testing.T) {
	d := sampleDoc()
	assert.True(t, Matches(query.And{}, d))
	assert.False(t, Matches(query.Or{}, d))
	assert.True(t, Matches(nil, d))
}

func TestEqualsMembership(t *testing.T) {
	docs := []record.Doc{
		record.Record{ID: 1, Tag: []string{"x", "y"}}.Doc(),
		record.Record{ID: 2, Tag: []string{"y"}}.Doc(),
		record.Record{ID: 3}.Doc(),
		record.Record{ID: 4, Tag: []string{"x"}}.Doc(),
	}
	pred := Compile(query.Field{Key: "tag", Op: query.Equals{Value: "x"}})

	got := Filter(docs, pred)
	ids := make([]any, 0, len(got))
	for _, d := range got {
		ids = append(ids, d["id"])
	}
	assert.Equal(t, []any{float64(1), float64(4)}, ids)

	assert.Empty(t, Filter(nil, pred))
}

func TestExists(t *testing.T) {
	d := sampleDoc()
	exists := func(key string, expected bool) bool {
		return Matches(query.Field{Key: key, Op: query.Exists{Expected: expected}}, d)
	}

	assert.True(t, exists("back", true))
	assert.False(t, exists("mnemonic", true))
	assert.True(t, exists("mnemonic", false))
	assert.True(t, exists("@meaning", true))
	assert.False(t, exists("@nothing", true))

	empty := record.Record{Front: "f", Deck: "d"}.Doc()
	assert.False(t, Matches(query.Field{Key: "tag", Op: query.Exists{Expected: true}}, empty))
}

func TestStartsWithIsCaseSensitive(t *testing.T) {
	d := sampleDoc()
	assert.True(t, Matches(query.Field{Key: "deck", Op: query.StartsWith{Prefix: "JP"}}, d))
	assert.False(t, Matches(query.Field{Key: "deck", Op: query.StartsWith{Prefix: "jp"}}, d))
}

func TestEqualsNilMatchesAbsent(t *testing.T) {
	d := sampleDoc()
	assert.True(t, Matches(query.Field{Key: "mnemonic", Op: query.Equals{Value: nil}}, d))
	assert.False(t, Matches(query.Field{Key: "back", Op: query.Equals{Value: nil}}, d))
}

func TestCompareLoose(t *testing.T) {
	tests := []struct {
		a, b any
		want int
		ok   bool
	}{
		{float64(2), float64(10), -1, true},
		{"2", "10", -1, true},
		{"2", float64(2), 0, true},
		{"b", "a", 1, true},
		{"2024-01-01", "2023-12-31", 1, true},
		{"1e", float64(1), 0, false},
		{true, float64(1), 0, false},
	}
	for _, tt := range tests {
		c, ok := compareLoose(tt.a, tt.b)
		assert.Equal(t, tt.ok, ok, "%v vs %v", tt.a, tt.b)
		if ok {
			assert.Equal(t, tt.want, c, "%v vs %v", tt.a, tt.b)
		}
	}
}
