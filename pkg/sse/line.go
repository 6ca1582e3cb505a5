package sse

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// lineKind classifies a single line of an event block.
type lineKind int

const (
	// lineBlank is an empty line. Inside a decode pass it carries nothing.
	lineBlank lineKind = iota

	// lineComment starts with ':' and is used for keep-alives.
	lineComment

	// lineMalformed has no colon and therefore no field name.
	lineMalformed

	// lineField is a "name:value" line.
	lineField
)

func (k lineKind) String() string {
	switch k {
	case lineBlank:
		return "blank"
	case lineComment:
		return "comment"
	case lineMalformed:
		return "malformed"
	case lineField:
		return "field"
	default:
		return "unknown"
	}
}

// field is a "name: value" pair extracted from one line.
type field struct {
	name  string
	value string
}

// parseLine classifies line and, for lineField, splits it into a field.
//
// The text before the first colon is the field name. The text after it is the
// value, with at most one leading space stripped.
func parseLine(line string) (field, lineKind) {
	if line == "" {
		return field{}, lineBlank
	}

	if strings.HasPrefix(line, ":") {
		return field{}, lineComment
	}

	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return field{value: line}, lineMalformed
	}

	return field{
		name:  name,
		value: strings.TrimPrefix(value, " "),
	}, lineField
}

// decimalNumber matches a signed decimal literal with optional fraction and
// exponent. Digit separators are not allowed.
var decimalNumber = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// parseRetry parses the value of a "retry:" field with the same rules as a
// JavaScript Number() conversion:
//
//   - surrounding whitespace is ignored and an empty value is 0
//   - 0x, 0o and 0b prefixes select base 16, 8 and 2 (unsigned only)
//   - "Infinity", "+Infinity" and "-Infinity" are the only infinite spellings
//
// Anything else, including "inf", "NaN" and "1_000", is rejected.
func parseRetry(value string) (float64, bool) {
	value = strings.TrimFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	switch value {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(value) > 2 && value[0] == '0' {
		switch value[1] {
		case 'x', 'X':
			return parseRadix(value[2:], 16)
		case 'o', 'O':
			return parseRadix(value[2:], 8)
		case 'b', 'B':
			return parseRadix(value[2:], 2)
		}
	}

	if !decimalNumber.MatchString(value) {
		return 0, false
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	// Out of range literals round to an infinity.
	return n, true
}

// parseRadix parses an unsigned integer literal in base 2, 8 or 16. Values
// beyond uint64 are rounded to the nearest float64.
func parseRadix(digits string, base int) (float64, bool) {
	for _, r := range digits {
		if !isDigitIn(r, base) {
			return 0, false
		}
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}

	f, _ := new(big.Float).SetInt(n).Float64()
	return f, true
}

func isDigitIn(r rune, base int) bool {
	switch {
	case r >= '0' && r <= '9':
		return int(r-'0') < base
	case base == 16 && r >= 'a' && r <= 'f', base == 16 && r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
