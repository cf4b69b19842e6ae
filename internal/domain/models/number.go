package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// isJSSpace matches the characters trimmed from numeric text, which include
// the byte order mark on top of Unicode white space.
func isJSSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ToNumber coerces free text the way a browser form field is coerced to a
// number: blank text is zero, Infinity and 0x/0o/0b literals are accepted, and
// anything else that is not a decimal literal becomes NaN.
func ToNumber(text string) float64 {
	s := strings.TrimFunc(text, isJSSpace)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}

	// Out of range literals come back as ±Inf alongside ErrRange, which is
	// the value we want.
	n, _ := strconv.ParseFloat(s, 64)
	return n
}

// FormatNumber renders a number the way it is displayed back to the user.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
