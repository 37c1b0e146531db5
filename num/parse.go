package num

import (
	"math"
	"strconv"
	"strings"

	n128 "github.com/shabbyrobe/go-num"
)

// ParseError is the nonzero ErrorCode of a failed parse.
type ParseError uint8

const (
	ParseOK ParseError = iota
	ParseEmpty
	ParseInvalidDigit
	ParseNoDigits
	ParseOutOfRange
	ParseMisplacedUnderscore
)

// String returns a stable label for the parse error.
func (e ParseError) String() string {
	switch e {
	case ParseOK:
		return "ok"
	case ParseEmpty:
		return "empty"
	case ParseInvalidDigit:
		return "invalid digit"
	case ParseNoDigits:
		return "no digits"
	case ParseOutOfRange:
		return "out of range"
	case ParseMisplacedUnderscore:
		return "misplaced underscore"
	default:
		return "invalid"
	}
}

// Radix returns the base selected by a literal's prefix and the prefix
// length: 0b, 0o and 0x select 2, 8 and 16; anything else is decimal.
func Radix(s string) (base uint64, prefix int) {
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] | 0x20 {
		case 'b':
			return 2, 2
		case 'o':
			return 8, 2
		case 'x':
			return 16, 2
		}
	}
	return 10, 0
}

// scanInteger reads an integer literal into an exact value. The
// magnitude is accumulated in 128 bits; anything wider is out of range
// for every kind.
func scanInteger(s string) (Exact, ParseError) {
	if s == "" {
		return Exact{}, ParseEmpty
	}

	var neg bool
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	base, prefix := Radix(s)
	s = s[prefix:]
	if s == "" {
		return Exact{}, ParseNoDigits
	}

	b := n128.U128From64(base)
	cutoff, cutRem := n128.MaxU128.QuoRem(b)
	cutDigit := cutRem.AsUint64()

	var (
		mag      n128.U128
		overflow bool
		digit    bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			if !digit || i+1 == len(s) {
				return Exact{}, ParseMisplacedUnderscore
			}
			digit = false
			continue
		}
		d, ok := digitValue(c)
		if !ok || d >= base {
			return Exact{}, ParseInvalidDigit
		}
		digit = true
		if overflow {
			continue
		}
		if mag.GreaterThan(cutoff) || (mag.Equal(cutoff) && d > cutDigit) {
			overflow = true
			continue
		}
		mag = mag.Mul(b).Add(n128.U128From64(d))
	}

	if overflow {
		return Exact{}, ParseOutOfRange
	}
	if mag.IsZero() {
		neg = false
	}
	return Exact{mag: mag, neg: neg}, ParseOK
}

func digitValue(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}

func parseExact(s string, k Kind) (Exact, ParseError) {
	e, code := scanInteger(s)
	if code != ParseOK {
		return Exact{}, code
	}
	if !e.Fits(k) {
		return Exact{}, ParseOutOfRange
	}
	return e, ParseOK
}

// ParseInt parses an integer literal into T.
func ParseInt[T Integer](s string) ParseResult[T] {
	e, code := parseExact(s, KindOf[T]())
	if code != ParseOK {
		return ParseResult[T]{ErrorCode: uint8(code)}
	}
	return ParseResult[T]{Value: ExactTo[T](e)}
}

// ParseI128 parses an integer literal into a signed 128-bit integer.
func ParseI128(s string) ParseResult[Int128] {
	e, code := parseExact(s, I128)
	if code != ParseOK {
		return ParseResult[Int128]{ErrorCode: uint8(code)}
	}
	return ParseResult[Int128]{Value: e.I128()}
}

// ParseU128 parses an integer literal into an unsigned 128-bit integer.
func ParseU128(s string) ParseResult[UInt128] {
	e, code := parseExact(s, U128)
	if code != ParseOK {
		return ParseResult[UInt128]{ErrorCode: uint8(code)}
	}
	return ParseResult[UInt128]{Value: e.U128()}
}

// ParseFloat parses a decimal or scientific literal into F. Radix
// prefixes are not recognised. A finite literal whose magnitude rounds
// past the largest finite F fails with ParseOutOfRange.
func ParseFloat[F Float](s string) ParseResult[F] {
	if v, ok := parseSpecial(s); ok {
		return ParseResult[F]{Value: F(v)}
	}

	clean, code := scanFloat(s)
	if code != ParseOK {
		return ParseResult[F]{ErrorCode: uint8(code)}
	}

	v, err := strconv.ParseFloat(clean, int(bitsOf[F]()))
	if err != nil || math.IsInf(v, 0) {
		return ParseResult[F]{ErrorCode: uint8(ParseOutOfRange)}
	}
	return ParseResult[F]{Value: F(v)}
}

// parseSpecial accepts inf, infinity and nan in any case, with an
// optional sign.
func parseSpecial(s string) (float64, bool) {
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	switch strings.ToLower(s) {
	case "inf", "infinity":
		return math.Inf(sign), true
	case "nan":
		return math.NaN(), true
	}
	return 0, false
}

// scanFloat validates the literal and strips digit separators so the
// result can be handed to strconv, which is more permissive than the
// accepted grammar (hex floats, prefixed underscores).
func scanFloat(s string) (string, ParseError) {
	if s == "" {
		return "", ParseEmpty
	}

	var (
		b        strings.Builder
		digits   int
		digit    bool
		dot      bool
		exp      bool
		expStart int
	)
	b.Grow(len(s))
	i := 0
	if s[0] == '+' || s[0] == '-' {
		b.WriteByte(s[0])
		i++
	}
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digit = true
			if !exp {
				digits++
			}
			b.WriteByte(c)
		case c == '_':
			if !digit || i+1 == len(s) || s[i+1] < '0' || s[i+1] > '9' {
				return "", ParseMisplacedUnderscore
			}
			digit = false
		case c == '.':
			if dot || exp {
				return "", ParseInvalidDigit
			}
			dot = true
			digit = false
			b.WriteByte(c)
		case c == 'e' || c == 'E':
			if exp || digits == 0 {
				return "", ParseInvalidDigit
			}
			exp = true
			digit = false
			b.WriteByte('e')
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				i++
				b.WriteByte(s[i])
			}
			expStart = b.Len()
		default:
			return "", ParseInvalidDigit
		}
	}

	if digits == 0 || (exp && b.Len() == expStart) {
		return "", ParseNoDigits
	}
	return b.String(), ParseOK
}
