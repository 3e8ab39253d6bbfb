package ops

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/render"
)

func TestRenderRecordPlain(t *testing.T) {
	out := RenderRecord(record.Record{Front: "Q", Back: "A", Mnemonic: "m"})
	assert.Equal(t, Rendered{Front: "Q", Back: "A", Mnemonic: "m"}, out)
}

func TestRenderRecordTemplate(t *testing.T) {
	r := record.Record{
		Front:  render.Hash("犬"),
		TFront: "{{Word}}",
		TBack:  "{{FrontSide}}<hr>{{Meaning}}",
		Data: []record.DataSocket{
			{Key: "Word", Value: "犬"},
			{Key: "Meaning", Value: "dog"},
		},
	}
	out := RenderRecord(r)
	assert.Equal(t, "犬", out.Front)
	assert.Equal(t, "犬<hr>dog", out.Back)
}

func TestPrepareInsert(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	r, err := PrepareInsert(record.Record{
		Front: render.TemplatePrefix + "{{Word}}",
		Back:  render.TemplatePrefix + "{{FrontSide}} = {{Meaning}}",
		Deck:  "JP",
		Data:  []record.DataSocket{{Key: "Word", Value: "犬"}, {Key: "Meaning", Value: "dog"}},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, "{{Word}}", r.TFront)
	assert.Equal(t, render.Hash("犬"), r.Front)
	assert.True(t, render.IsHashed(r.Front))
	assert.Equal(t, "犬 = dog", r.Back)
	assert.NotEmpty(t, r.Key)
	assert.Equal(t, "2024-03-15T12:00:00.000Z", r.Created)

	r, err = PrepareInsert(record.Record{Front: "x", Deck: "d", NextReview: "2024-01-02"}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", r.NextReview)
	assert.Empty(t, r.Key)

	_, err = PrepareInsert(record.Record{Front: "x"}, now)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = PrepareInsert(record.Record{Deck: "d"}, now)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = PrepareInsert(record.Record{Front: "x", Deck: "d", SRSLevel: intPtr(-1)}, now)
	assert.ErrorIs(t, err, ErrInvalid)
}
