// Package render expands card templates.
//
// Templates use a small Mustache subset:
//
//	{{FrontSide}}          the rendered front, with @directive lines removed
//	{{Key}} {{filter:Key}} the value of the data socket named Key
//	{{#Key}}...{{/Key}}    kept when Key has a non-empty value
//	{{^Key}}...{{/Key}}    kept when Key is missing or empty
//
// Anything else between double braces renders as nothing.
package render

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/nonibytes/recall/recall/record"
)

const (
	// TemplatePrefix marks a front or back that is itself a template
	TemplatePrefix = "@template\n"
	// HashPrefix marks a front stored as the hash of its rendered template
	HashPrefix = "@md5\n"
)

var (
	directiveRe = regexp.MustCompile(`@[^\n]+\n`)
	sectionRe   = regexp.MustCompile(`\{\{([#^])([^}]+)\}\}`)
	tagRe       = regexp.MustCompile(`\{\{([^}]*)\}\}`)
)

// Mustache renders tmpl against the data sockets. front fills {{FrontSide}}.
func Mustache(tmpl string, data []record.DataSocket, front string) string {
	values := make(map[string]string, len(data))
	for _, d := range data {
		if _, ok := values[d.Key]; !ok {
			values[d.Key] = d.Value
		}
	}

	s := strings.ReplaceAll(tmpl, "{{FrontSide}}", StripDirectives(front))
	s = renderSections(s, values)
	return tagRe.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-2]
		if i := strings.LastIndex(name, ":"); i >= 0 {
			name = name[i+1:]
		}
		return values[strings.TrimSpace(name)]
	})
}

// StripDirectives removes @directive lines such as @md5 from s
func StripDirectives(s string) string {
	return directiveRe.ReplaceAllString(s, "")
}

// TemplateBody reports whether s is a template and returns its source
func TemplateBody(s string) (string, bool) {
	if !strings.HasPrefix(s, TemplatePrefix) {
		return "", false
	}
	return s[len(TemplatePrefix):], true
}

// IsHashed reports whether s holds a rendered-template hash
func IsHashed(s string) bool {
	return strings.HasPrefix(s, HashPrefix)
}

// Hash returns the stored form of a rendered template front
func Hash(rendered string) string {
	sum := md5.Sum([]byte(rendered))
	return HashPrefix + hex.EncodeToString(sum[:])
}

func renderSections(s string, values map[string]string) string {
	var b strings.Builder
	for {
		loc := sectionRe.FindStringSubmatchIndex(s)
		if loc == nil {
			b.WriteString(s)
			return b.String()
		}

		kind := s[loc[2]:loc[3]]
		name := s[loc[4]:loc[5]]
		closing := "{{/" + name + "}}"
		end := strings.Index(s[loc[1]:], closing)
		if end < 0 {
			// unterminated: drop the opening tag and keep going
			b.WriteString(s[:loc[0]])
			s = s[loc[1]:]
			continue
		}

		body := s[loc[1] : loc[1]+end]
		filled := values[strings.TrimSpace(name)] != ""
		b.WriteString(s[:loc[0]])
		if filled == (kind == "#") {
			b.WriteString(renderSections(body, values))
		}
		s = s[loc[1]+end+len(closing):]
	}
}
