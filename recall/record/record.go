package record

import "strings"

// NoSearchMarker prefixes data socket values hidden from wildcard search
const NoSearchMarker = "@nosearch"

// DataSocket is one key/value pair of a note's dynamic field list
type DataSocket struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Searchable reports whether the socket takes part in @* lookups
func (d DataSocket) Searchable() bool {
	return !strings.HasPrefix(d.Value, NoSearchMarker)
}

// Streak counts consecutive review outcomes
type Streak struct {
	Right int `json:"right" yaml:"right"`
	Wrong int `json:"wrong" yaml:"wrong"`
}

// Stat holds review statistics of a card
type Stat struct {
	Streak Streak `json:"streak" yaml:"streak"`
}

// Record is the flattened, searchable view of one card
type Record struct {
	ID         int64        `json:"id,omitempty" yaml:"id,omitempty"`
	Front      string       `json:"front" yaml:"front"`
	Back       string       `json:"back,omitempty" yaml:"back,omitempty"`
	Mnemonic   string       `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
	Deck       string       `json:"deck" yaml:"deck"`
	Tag        []string     `json:"tag,omitempty" yaml:"tag,omitempty"`
	SRSLevel   *int         `json:"srsLevel,omitempty" yaml:"srsLevel,omitempty"`
	NextReview string       `json:"nextReview,omitempty" yaml:"nextReview,omitempty"`
	Created    string       `json:"created,omitempty" yaml:"created,omitempty"`
	Modified   string       `json:"modified,omitempty" yaml:"modified,omitempty"`
	Stat       *Stat        `json:"stat,omitempty" yaml:"stat,omitempty"`
	Template   string       `json:"template,omitempty" yaml:"template,omitempty"`
	Model      string       `json:"model,omitempty" yaml:"model,omitempty"`
	TFront     string       `json:"tFront,omitempty" yaml:"tFront,omitempty"`
	TBack      string       `json:"tBack,omitempty" yaml:"tBack,omitempty"`
	CSS        string       `json:"css,omitempty" yaml:"css,omitempty"`
	JS         string       `json:"js,omitempty" yaml:"js,omitempty"`
	Key        string       `json:"key,omitempty" yaml:"key,omitempty"`
	Data       []DataSocket `json:"data,omitempty" yaml:"data,omitempty"`
	Source     string       `json:"source,omitempty" yaml:"source,omitempty"`
	SH         string       `json:"sH,omitempty" yaml:"sH,omitempty"`
	SCreated   string       `json:"sCreated,omitempty" yaml:"sCreated,omitempty"`
}

// Doc is the JSON-like view of a record that queries are evaluated against.
// Values are string, float64, bool, []any, map[string]any or nil.
type Doc map[string]any

// Doc builds the evaluation view of the record. Empty optional fields are
// left out so that they resolve as absent.
func (r Record) Doc() Doc {
	d := Doc{
		"front": r.Front,
		"deck":  r.Deck,
	}
	if r.ID != 0 {
		d["id"] = float64(r.ID)
	}
	putString(d, "back", r.Back)
	putString(d, "mnemonic", r.Mnemonic)
	putString(d, "nextReview", r.NextReview)
	putString(d, "created", r.Created)
	putString(d, "modified", r.Modified)
	putString(d, "template", r.Template)
	putString(d, "model", r.Model)
	putString(d, "tFront", r.TFront)
	putString(d, "tBack", r.TBack)
	putString(d, "css", r.CSS)
	putString(d, "js", r.JS)
	putString(d, "key", r.Key)
	putString(d, "source", r.Source)
	putString(d, "sH", r.SH)
	putString(d, "sCreated", r.SCreated)

	tags := make([]any, 0, len(r.Tag))
	for _, t := range r.Tag {
		tags = append(tags, t)
	}
	d["tag"] = tags

	if r.SRSLevel != nil {
		d["srsLevel"] = float64(*r.SRSLevel)
	}
	if r.Stat != nil {
		d["stat"] = map[string]any{
			"streak": map[string]any{
				"right": float64(r.Stat.Streak.Right),
				"wrong": float64(r.Stat.Streak.Wrong),
			},
		}
	}
	if r.Data != nil {
		data := make([]any, 0, len(r.Data))
		for _, s := range r.Data {
			data = append(data, map[string]any{"key": s.Key, "value": s.Value})
		}
		d["data"] = data
	}
	return d
}

// Project keeps only the named top-level fields of the doc; id is always kept
func (d Doc) Project(fields []string) Doc {
	if len(fields) == 0 {
		return d
	}
	out := make(Doc, len(fields)+1)
	if id, ok := d["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if v, ok := d[f]; ok {
			out[f] = v
		}
	}
	return out
}

func putString(d Doc, key, value string) {
	if value != "" {
		d[key] = value
	}
}
