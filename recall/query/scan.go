package query

import (
	"strings"
	"unicode"
)

// keyExpr is a scanned `key<op>value` term
type keyExpr struct {
	Key    string
	Op     string
	Value  string
	Quoted bool
}

// scanner walks a single term rune by rune
type scanner struct {
	input []rune
	pos   int
}

func newScanner(input string) *scanner {
	return &scanner{input: []rune(input)}
}

// scanKeyExpr matches a whole term against KEY OP VALUE
func scanKeyExpr(term string) (keyExpr, bool) {
	s := newScanner(term)

	key, ok := s.scanKey()
	if !ok {
		return keyExpr{}, false
	}
	op, ok := s.scanOp()
	if !ok {
		return keyExpr{}, false
	}

	if s.peek(0) == '"' {
		value, ok := s.scanString()
		if !ok || !s.done() {
			return keyExpr{}, false
		}
		return keyExpr{Key: key, Op: op, Value: value, Quoted: true}, true
	}

	value, ok := s.scanBare()
	if !ok || !s.done() {
		return keyExpr{}, false
	}
	return keyExpr{Key: key, Op: op, Value: value}, true
}

func (s *scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek(offset int) rune {
	pos := s.pos + offset
	if pos < len(s.input) {
		return s.input[pos]
	}
	return 0
}

func (s *scanner) scanKey() (string, bool) {
	start := s.pos
	if s.peek(0) == '@' {
		s.pos++
	}
	for s.pos < len(s.input) && isKeyChar(s.input[s.pos]) {
		s.pos++
	}
	key := string(s.input[start:s.pos])
	if key == "" || key == "@" {
		return "", false
	}
	return key, true
}

func (s *scanner) scanOp() (string, bool) {
	switch ch := s.peek(0); ch {
	case ':', '~', '=':
		s.pos++
		return string(ch), true
	case '>', '<':
		if s.peek(1) == '=' {
			s.pos += 2
			return string(ch) + "=", true
		}
		s.pos++
		return string(ch), true
	}
	return "", false
}

// scanString reads a double-quoted value verbatim; the value must not be empty
func (s *scanner) scanString() (string, bool) {
	s.pos++ // opening quote
	start := s.pos
	for s.pos < len(s.input) {
		if s.input[s.pos] == '"' {
			value := string(s.input[start:s.pos])
			s.pos++
			return value, value != ""
		}
		s.pos++
	}
	return "", false
}

func (s *scanner) scanBare() (string, bool) {
	start := s.pos
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		if unicode.IsSpace(ch) || ch == '"' {
			break
		}
		s.pos++
	}
	value := string(s.input[start:s.pos])
	return value, value != ""
}

func isKeyChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '-' || ch == '.' || ch == '*'
}

// splitTopLevel splits q on sep, ignoring separators nested in parentheses
// or inside double quotes
func splitTopLevel(q, sep string) []string {
	var tokens []string
	depth := 0
	inQuote := false
	last := 0
	for i := 0; i < len(q); i++ {
		switch q[i] {
		case '"':
			inQuote = !inQuote
			continue
		case '(':
			if !inQuote {
				depth++
			}
			continue
		case ')':
			if !inQuote && depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && !inQuote && strings.HasPrefix(q[i:], sep) {
			tokens = append(tokens, q[last:i])
			i += len(sep) - 1
			last = i + 1
		}
	}
	return append(tokens, q[last:])
}

// wrappedInBrackets reports whether the '(' opening q is closed by the ')' ending it
func wrappedInBrackets(q string) bool {
	if len(q) < 2 || q[0] != '(' || q[len(q)-1] != ')' {
		return false
	}
	depth := 0
	inQuote := false
	for i := 0; i < len(q); i++ {
		switch q[i] {
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
				if depth == 0 {
					return i == len(q)-1
				}
			}
		}
	}
	return false
}
