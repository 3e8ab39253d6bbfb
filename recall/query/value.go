package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLayout is the ISO-8601 form every resolved timestamp is rendered in
const TimeLayout = "2006-01-02T15:04:05.000Z"

var (
	numberRe   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	relativeRe = regexp.MustCompile(`^([-+]?\d+)(\S*)$`)
)

// FormatTime renders t in UTC using TimeLayout
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NormalizeTime parses a loosely formatted timestamp and renders it with
// TimeLayout. Unparseable input is returned unchanged with ok=false.
func NormalizeTime(s string) (string, bool) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return s, false
	}
	return FormatTime(t), true
}

// literal converts a raw value token: quoted values are kept verbatim,
// unquoted decimals become float64
func literal(raw string, quoted bool) any {
	if quoted {
		return raw
	}
	if numberRe.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// resolveDate turns NOW, relative offsets and absolute dates into timestamps
func resolveDate(v any, now time.Time) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if s == "NOW" {
		return FormatTime(now)
	}
	if m := relativeRe.FindStringSubmatch(s); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err == nil {
			if unit, ok := parseRelUnit(m[2]); ok {
				return FormatTime(unit.Add(now, amount))
			}
		}
	}
	if ts, ok := NormalizeTime(s); ok {
		return ts
	}
	return s
}

// RelUnit is a relative time unit
type RelUnit int

const (
	RelMS  RelUnit = iota // milliseconds
	RelS                  // seconds
	RelMin                // minutes
	RelH                  // hours
	RelD                  // days
	RelW                  // weeks
	RelM                  // months
	RelQ                  // quarters
	RelY                  // years
)

func (u RelUnit) String() string {
	switch u {
	case RelMS:
		return "ms"
	case RelS:
		return "s"
	case RelMin:
		return "m"
	case RelH:
		return "h"
	case RelD:
		return "d"
	case RelW:
		return "w"
	case RelM:
		return "M"
	case RelQ:
		return "Q"
	case RelY:
		return "y"
	default:
		return "?"
	}
}

// Add moves t by amount units; calendar units follow time.AddDate
func (u RelUnit) Add(t time.Time, amount int) time.Time {
	switch u {
	case RelMS:
		return t.Add(time.Duration(amount) * time.Millisecond)
	case RelS:
		return t.Add(time.Duration(amount) * time.Second)
	case RelMin:
		return t.Add(time.Duration(amount) * time.Minute)
	case RelH:
		return t.Add(time.Duration(amount) * time.Hour)
	case RelD:
		return t.AddDate(0, 0, amount)
	case RelW:
		return t.AddDate(0, 0, 7*amount)
	case RelM:
		return t.AddDate(0, amount, 0)
	case RelQ:
		return t.AddDate(0, 3*amount, 0)
	case RelY:
		return t.AddDate(amount, 0, 0)
	default:
		return t
	}
}

func parseRelUnit(s string) (RelUnit, bool) {
	// single letters are case sensitive: m is minutes, M is months
	switch s {
	case "ms":
		return RelMS, true
	case "s":
		return RelS, true
	case "m":
		return RelMin, true
	case "h":
		return RelH, true
	case "d":
		return RelD, true
	case "w":
		return RelW, true
	case "M":
		return RelM, true
	case "Q":
		return RelQ, true
	case "y":
		return RelY, true
	}

	switch strings.ToLower(s) {
	case "millisecond", "milliseconds":
		return RelMS, true
	case "second", "seconds", "sec", "secs":
		return RelS, true
	case "minute", "minutes", "min", "mins":
		return RelMin, true
	case "hour", "hours":
		return RelH, true
	case "day", "days":
		return RelD, true
	case "week", "weeks":
		return RelW, true
	case "month", "months":
		return RelM, true
	case "quarter", "quarters":
		return RelQ, true
	case "year", "years":
		return RelY, true
	default:
		return 0, false
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
