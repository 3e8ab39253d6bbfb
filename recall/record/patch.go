package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Patch is a partial update of one card; nil fields are left unchanged.
// A non-nil Tag replaces the tag set. Data sockets are merged by key.
type Patch struct {
	Front      *string      `json:"front,omitempty" yaml:"front,omitempty"`
	Back       *string      `json:"back,omitempty" yaml:"back,omitempty"`
	Mnemonic   *string      `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
	Deck       *string      `json:"deck,omitempty" yaml:"deck,omitempty"`
	Tag        []string     `json:"tag,omitempty" yaml:"tag,omitempty"`
	SRSLevel   *int         `json:"srsLevel,omitempty" yaml:"srsLevel,omitempty"`
	NextReview *string      `json:"nextReview,omitempty" yaml:"nextReview,omitempty"`
	Created    *string      `json:"created,omitempty" yaml:"created,omitempty"`
	Modified   *string      `json:"modified,omitempty" yaml:"modified,omitempty"`
	Stat       *Stat        `json:"stat,omitempty" yaml:"stat,omitempty"`
	TFront     *string      `json:"tFront,omitempty" yaml:"tFront,omitempty"`
	TBack      *string      `json:"tBack,omitempty" yaml:"tBack,omitempty"`
	CSS        *string      `json:"css,omitempty" yaml:"css,omitempty"`
	JS         *string      `json:"js,omitempty" yaml:"js,omitempty"`
	Data       []DataSocket `json:"data,omitempty" yaml:"data,omitempty"`
}

// Set assigns one field from its textual form. Tags are comma separated and
// @name sets the data socket name.
func (p *Patch) Set(key, value string) error {
	if strings.HasPrefix(key, "@") {
		if len(key) == 1 {
			return fmt.Errorf("empty data socket name")
		}
		p.Data = append(p.Data, DataSocket{Key: key[1:], Value: value})
		return nil
	}

	switch key {
	case "front":
		p.Front = &value
	case "back":
		p.Back = &value
	case "mnemonic":
		p.Mnemonic = &value
	case "deck":
		if value == "" {
			return fmt.Errorf("deck cannot be empty")
		}
		p.Deck = &value
	case "tag":
		p.Tag = splitTags(value)
	case "srsLevel":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("srsLevel must be a non-negative integer, got %q", value)
		}
		p.SRSLevel = &n
	case "nextReview":
		p.NextReview = &value
	case "created":
		p.Created = &value
	case "modified":
		p.Modified = &value
	case "tFront":
		p.TFront = &value
	case "tBack":
		p.TBack = &value
	case "css":
		p.CSS = &value
	case "js":
		p.JS = &value
	default:
		return fmt.Errorf("field %q cannot be set", key)
	}
	return nil
}

// Empty reports whether the patch changes nothing
func (p Patch) Empty() bool {
	return p.Front == nil && p.Back == nil && p.Mnemonic == nil && p.Deck == nil &&
		p.Tag == nil && p.SRSLevel == nil && p.NextReview == nil && p.Created == nil &&
		p.Modified == nil && p.Stat == nil && p.TFront == nil && p.TBack == nil &&
		p.CSS == nil && p.JS == nil && p.Data == nil
}

// MergeData overlays sockets onto base: matching keys are replaced in place,
// new keys are appended
func MergeData(base, sockets []DataSocket) []DataSocket {
	out := append([]DataSocket(nil), base...)
	for _, s := range sockets {
		replaced := false
		for i := range out {
			if out[i].Key == s.Key {
				out[i].Value = s.Value
				replaced = true
			}
		}
		if !replaced {
			out = append(out, s)
		}
	}
	return out
}

func splitTags(s string) []string {
	out := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
