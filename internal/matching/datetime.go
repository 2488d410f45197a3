package matching

import (
	"fmt"
	"strings"
	"time"
)

// javaTokenToGo maps a run of identical Java-DateTimeFormatter letters to
// the corresponding Go reference-time layout fragment. Only the tokens
// spec.md names are supported: yyyy MM dd HH mm ss SSS XXX z (plus the
// common single/double-letter variants a formatter author would
// reasonably also write, e.g. yy, d, H, M).
var javaTokenToGo = map[string]string{
	"yyyy": "2006",
	"yy":   "06",
	"MMMM": "January",
	"MMM":  "Jan",
	"MM":   "01",
	"M":    "1",
	"dd":   "02",
	"d":    "2",
	"HH":   "15",
	"H":    "15",
	"hh":   "03",
	"h":    "3",
	"mm":   "04",
	"m":    "4",
	"ss":   "05",
	"s":    "5",
	"SSS":  "000",
	"SS":   "00",
	"S":    "0",
	"XXX":  "Z07:00",
	"XX":   "Z0700",
	"X":    "Z07",
	"ZZZZZ": "Z07:00",
	"Z":    "-0700",
	"z":    "MST",
	"a":    "PM",
	"EEEE": "Monday",
	"EEE":  "Mon",
}

// ConvertJavaFormat translates a Java-DateTimeFormatter-style pattern
// (tokens mixed with single-quoted literals and natural-language
// separators such as spaces, "T", "-", ":") into a Go reference-time
// layout string. It does not use locale-sensitive APIs; unrecognized
// letter runs are reported as an error rather than silently passed
// through, since a silently-wrong layout would make every Date/Time/
// DateTime rule and generator using it fail in a confusing way.
func ConvertJavaFormat(pattern string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch {
		case c == '\'':
			// Quoted literal; '' is a literal single quote.
			j := i + 1
			for j < len(pattern) && pattern[j] != '\'' {
				j++
			}
			if j >= len(pattern) {
				return "", fmt.Errorf("datetime format %q: unterminated quoted literal", pattern)
			}
			if j == i+1 {
				b.WriteByte('\'')
			} else {
				b.WriteString(pattern[i+1 : j])
			}
			i = j + 1
		case isLetter(c):
			j := i
			for j < len(pattern) && pattern[j] == c {
				j++
			}
			run := pattern[i:j]
			goTok, ok := javaTokenToGo[run]
			if !ok {
				// Fall back to single-character run if a longer run of
				// the same letter isn't recognized (e.g. "MMMMM").
				goTok, ok = javaTokenToGo[string(c)]
				if !ok {
					return "", fmt.Errorf("datetime format %q: unsupported token %q", pattern, run)
				}
			}
			b.WriteString(goTok)
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ParseWithFormat parses value against a Java-DateTimeFormatter-style
// pattern.
func ParseWithFormat(pattern, value string) (time.Time, error) {
	layout, err := ConvertJavaFormat(pattern)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(layout, value)
}

// MatchesFormat reports whether value conforms to the given
// Java-DateTimeFormatter-style pattern, used by Date/Time/DateTime
// matching rules. A malformed pattern is reported via the error return,
// distinct from a value that simply doesn't parse (which is a normal
// mismatch, not an internal failure).
func MatchesFormat(pattern, value string) (bool, error) {
	if _, err := ConvertJavaFormat(pattern); err != nil {
		return false, err
	}
	_, perr := ParseWithFormat(pattern, value)
	return perr == nil, nil
}
