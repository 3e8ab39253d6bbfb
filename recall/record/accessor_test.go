package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	level := 2
	return Record{
		ID:       7,
		Front:    "食べる",
		Back:     "to eat",
		Deck:     "JP/N5",
		Tag:      []string{"verb", "core"},
		SRSLevel: &level,
		Created:  "2020-01-01T00:00:00.000Z",
		Stat:     &Stat{Streak: Streak{Right: 3, Wrong: 1}},
		Data: []DataSocket{
			{Key: "Reading", Value: "たべる"},
			{Key: "reading", Value: "taberu"},
			{Key: "Notes", Value: NoSearchMarker + "\nprivate"},
		},
	}
}

func TestGetStaticFields(t *testing.T) {
	d := sampleRecord().Doc()

	v, ok := Get(d, "deck")
	require.True(t, ok)
	assert.Equal(t, "JP/N5", v)

	v, ok = Get(d, "srsLevel")
	require.True(t, ok)
	assert.Equal(t, float64(2), v)

	v, ok = Get(d, "tag")
	require.True(t, ok)
	assert.Equal(t, []any{"verb", "core"}, v)
}

func TestGetDottedPath(t *testing.T) {
	d := sampleRecord().Doc()

	tests := []struct {
		key    string
		want   any
		wantOK bool
	}{
		{"stat.streak.right", float64(3), true},
		{"stat.streak.*", []any{float64(3), float64(1)}, true},
		{"tag.1", "core", true},
		{"tag.5", nil, false},
		{"tag.x", nil, false},
		{"stat.missing", nil, false},
		{"stat.missing.deeper", nil, false},
		{"missing.*", nil, false},
		{"front.length", nil, false},
		{"nextReview", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := Get(d, tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestGetDataSockets(t *testing.T) {
	d := sampleRecord().Doc()

	v, ok := Get(d, "@reading")
	require.True(t, ok)
	assert.Equal(t, []any{"たべる", "taberu"}, v)

	v, ok = Get(d, "@READING")
	require.True(t, ok)
	assert.Equal(t, []any{"たべる", "taberu"}, v)

	v, ok = Get(d, "@*")
	require.True(t, ok)
	assert.Equal(t, []any{"たべる", "taberu"}, v, "@nosearch sockets are hidden from wildcard lookups")

	v, ok = Get(d, "@notes")
	require.True(t, ok)
	assert.Len(t, v, 1)

	v, ok = Get(d, "@unknown")
	require.True(t, ok)
	assert.Empty(t, v)
}

func TestGetDataWithoutSockets(t *testing.T) {
	d := Record{Front: "x", Deck: "d"}.Doc()

	_, ok := Get(d, "@*")
	assert.False(t, ok)
}

func TestParseKey(t *testing.T) {
	k := ParseKey("@Meaning")
	assert.Equal(t, ModeData, k.Mode)
	assert.Equal(t, "meaning", k.Name)

	k = ParseKey("stat.streak.right")
	assert.Equal(t, ModePath, k.Mode)
	assert.Equal(t, []string{"stat", "streak", "right"}, k.Path)
}

func TestDocOmitsEmptyOptionalFields(t *testing.T) {
	d := Record{Front: "f", Deck: "d"}.Doc()

	_, ok := d["back"]
	assert.False(t, ok)
	_, ok = d["srsLevel"]
	assert.False(t, ok)
	_, ok = d["id"]
	assert.False(t, ok)
	assert.Equal(t, []any{}, d["tag"])
}

func TestProject(t *testing.T) {
	d := sampleRecord().Doc().Project([]string{"front", "deck", "nope"})
	assert.Equal(t, Doc{"id": float64(7), "front": "食べる", "deck": "JP/N5"}, d)
}
