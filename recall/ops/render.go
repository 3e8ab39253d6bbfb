package ops

import (
	"context"

	"github.com/nonibytes/recall/recall/record"
	"github.com/nonibytes/recall/recall/render"
	"github.com/nonibytes/recall/recall/storage"
	"github.com/nonibytes/recall/recall/storage/sqlbuilder"
)

// Rendered is the displayable form of a card
type Rendered struct {
	Front    string `json:"front"`
	Back     string `json:"back,omitempty"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

// RenderRecord expands the card's templates against its note data. Cards
// without a template render their stored sides with directives removed.
func RenderRecord(r record.Record) Rendered {
	out := Rendered{
		Front:    render.StripDirectives(r.Front),
		Back:     render.StripDirectives(r.Back),
		Mnemonic: r.Mnemonic,
	}
	if r.TFront == "" {
		return out
	}
	out.Front = render.Mustache(r.TFront, r.Data, "")
	if r.TBack != "" {
		out.Back = render.Mustache(r.TBack, r.Data, out.Front)
	}
	return out
}

// Render loads a card and renders it
func Render(ctx context.Context, q Querier, sqlt storage.SQL, style sqlbuilder.PlaceholderStyle, id int64) (Rendered, error) {
	r, err := Get(ctx, q, sqlt, style, id)
	if err != nil {
		return Rendered{}, err
	}
	return RenderRecord(r), nil
}
