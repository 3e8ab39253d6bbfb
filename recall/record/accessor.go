package record

import (
	"sort"
	"strconv"
	"strings"
)

// KeyMode selects how a field key addresses a record
type KeyMode int

const (
	// ModePath walks static fields by dotted path
	ModePath KeyMode = iota
	// ModeData looks up dynamic data sockets by name
	ModeData
)

// Key is a parsed field key
type Key struct {
	Mode KeyMode
	// Name is the lowercased socket name for ModeData ("*" for all sockets)
	Name string
	// Path holds the dotted segments for ModePath
	Path []string
}

// ParseKey classifies a raw field key
func ParseKey(raw string) Key {
	if strings.HasPrefix(raw, "@") {
		return Key{Mode: ModeData, Name: strings.ToLower(raw[1:])}
	}
	return Key{Mode: ModePath, Path: strings.Split(raw, ".")}
}

// Get resolves a raw key against the doc. The second return is false when
// the value is absent.
func Get(d Doc, raw string) (any, bool) {
	return ParseKey(raw).Resolve(d)
}

// Resolve resolves the key against the doc
func (k Key) Resolve(d Doc) (any, bool) {
	switch k.Mode {
	case ModeData:
		return dataValues(d, k.Name)
	default:
		return pathValue(d, k.Path)
	}
}

func dataValues(d Doc, name string) (any, bool) {
	raw, ok := d["data"].([]any)
	if !ok {
		return nil, false
	}

	out := make([]any, 0, len(raw))
	for _, el := range raw {
		socket, ok := el.(map[string]any)
		if !ok {
			continue
		}
		value, _ := socket["value"].(string)
		if name == "*" {
			if !(DataSocket{Value: value}).Searchable() {
				continue
			}
			out = append(out, value)
			continue
		}
		key, _ := socket["key"].(string)
		if strings.ToLower(key) == name {
			out = append(out, value)
		}
	}
	return out, true
}

func pathValue(d Doc, path []string) (any, bool) {
	var v any = map[string]any(d)
	deadEnd := false
	for _, seg := range path {
		switch cur := v.(type) {
		case map[string]any:
			if seg == "*" {
				v = mapValues(cur)
				continue
			}
			next, ok := cur[seg]
			if !ok {
				// dead end degrades to an empty object so later segments still resolve
				next = map[string]any{}
				deadEnd = true
			}
			v = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(cur) {
				return nil, false
			}
			v = cur[i]
		default:
			return nil, false
		}
	}

	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return nil, false
	}
	if deadEnd || v == nil {
		return nil, false
	}
	return v, true
}

func mapValues(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
