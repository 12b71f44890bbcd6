// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go4.org/mem"
)

// numClass distinguishes the lexical shapes of a number literal.
type numClass byte

const (
	numInt    numClass = iota // digits only, no fraction or exponent
	numDec                    // fraction, no exponent
	numDouble                 // exponent
)

// scanString scans the string literal whose opening quote is at pos, and
// decodes its contents into p.dec. It returns the offset just past the
// closing quote.
//
// Escapes decode to the bytes they denote; a \u escape requires exactly
// four hex digits and encodes a single UTF-16 code unit, so a surrogate
// half decodes independently to the replacement rune. A bare line break
// ends the literal with an error, but other control bytes pass through.
func (p *Parser) scanString(pos int) (end int, err error) {
	p.dec = p.dec[:0]
	src, n := p.src, p.src.Len()
	i := pos + 1
	for i < n {
		c := src.At(i)
		switch {
		case c == '"':
			return i + 1, nil

		case c == '\r' || c == '\n':
			return 0, p.failf(UnexpectedToken, i, "unescaped line break in string")

		case c == '\\':
			if i+1 >= n {
				return 0, p.failf(UnexpectedEnd, n, "unexpected end of input in escape")
			}
			i++
			switch e := src.At(i); e {
			case '"', '\\', '/':
				p.dec = append(p.dec, e)
			case 'b':
				p.dec = append(p.dec, '\b')
			case 'f':
				p.dec = append(p.dec, '\f')
			case 'n':
				p.dec = append(p.dec, '\n')
			case 'r':
				p.dec = append(p.dec, '\r')
			case 't':
				p.dec = append(p.dec, '\t')
			case 'u':
				var v rune
				for j := 1; j <= 4; j++ {
					if i+j >= n {
						return 0, p.failf(UnexpectedEnd, n, "unexpected end of input in escape")
					}
					d := src.At(i + j)
					if !isHexDigit(d) {
						return 0, p.failf(UnexpectedToken, i+j, "got %q, want hex digit", d)
					}
					v = v<<4 | hexVal(d)
				}
				p.dec = utf8.AppendRune(p.dec, v)
				i += 4
			default:
				return 0, p.failf(UnexpectedToken, i, "invalid escape %q", e)
			}
			i++

		default:
			p.dec = append(p.dec, c)
			i++
		}
	}
	return 0, p.failf(UnexpectedEnd, n, "unexpected end of input in string")
}

// scanNumber scans the number literal beginning at pos, reporting the
// offset just past its end and its lexical class.
//
// A leading zero stands alone, so the digits of "012" form two numbers, 0
// and 12. An exponent marker not followed by a valid exponent is not part
// of the number and "1e" scans as the number 1 followed by the name "e";
// a sign after the marker commits it, so "1e+" fails.
func (p *Parser) scanNumber(pos int) (end int, cls numClass, err error) {
	src, n := p.src, p.src.Len()
	i := pos
	if src.At(i) == '-' {
		i++
	}
	if i >= n {
		return 0, 0, p.failf(UnexpectedEnd, n, "unexpected end of input in number")
	}
	if !isDigit(src.At(i)) {
		return 0, 0, p.failf(UnexpectedToken, i, "got %q, want digit", src.At(i))
	}
	if src.At(i) == '0' {
		i++ // a leading zero stands alone
	} else {
		for i < n && isDigit(src.At(i)) {
			i++
		}
	}

	if i < n && src.At(i) == '.' {
		i++
		if i >= n {
			return 0, 0, p.failf(UnexpectedEnd, n, "unexpected end of input in number")
		}
		if !isDigit(src.At(i)) {
			return 0, 0, p.failf(UnexpectedToken, i, "got %q, want digit", src.At(i))
		}
		for i < n && isDigit(src.At(i)) {
			i++
		}
		cls = numDec
	}

	if i < n && (src.At(i) == 'e' || src.At(i) == 'E') {
		j := i + 1
		if j < n && (src.At(j) == '+' || src.At(j) == '-') {
			j++ // a sign commits the exponent
			if j >= n {
				return 0, 0, p.failf(UnexpectedEnd, n, "unexpected end of input in number")
			}
			if !isDigit(src.At(j)) {
				return 0, 0, p.failf(UnexpectedToken, j, "got %q, want digit", src.At(j))
			}
		}
		if j < n && isDigit(src.At(j)) {
			for j < n && isDigit(src.At(j)) {
				j++
			}
			i, cls = j, numDouble
		}
	}
	return i, cls, nil
}

// number materializes the number literal in p.src[pos:end] having class
// cls. Integers take the narrowest of Int, Long, or Double that can hold
// their value; other classes become Double. When force is true the value
// is a Double regardless of class. A double that overflows its range
// becomes the infinity of its sign.
func (p *Parser) number(pos, end int, cls numClass, force bool) (Value, error) {
	lit := p.src.Slice(pos, end)
	if cls == numInt && !force {
		if v, err := mem.ParseInt(lit, 10, 32); err == nil {
			return Int(v), nil
		}
		if v, err := mem.ParseInt(lit, 10, 64); err == nil {
			return Long(v), nil
		}
	}
	v, err := mem.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, p.failf(UnexpectedToken, pos, "invalid number %q", lit.StringCopy())
	}
	return Double(v), nil
}

// scanKeyword scans the constant name beginning at pos and returns its
// value. The name must be exactly one of true, false, or null.
func (p *Parser) scanKeyword(pos int) (end int, v Value, err error) {
	src, n := p.src, p.src.Len()
	var want mem.RO
	switch src.At(pos) {
	case 't':
		v, want = Bool(true), mem.S("true")
	case 'f':
		v, want = Bool(false), mem.S("false")
	default:
		v, want = Null, mem.S("null")
	}
	i := pos + 1
	for i < n && isNameByte(src.At(i)) {
		i++
	}
	got := src.Slice(pos, i)
	if !got.Equal(want) {
		if i == n && mem.HasPrefix(want, got) {
			return 0, nil, p.failf(UnexpectedEnd, n, "unexpected end of input")
		}
		return 0, nil, p.failf(UnexpectedToken, pos, "unknown constant %q", got.StringCopy())
	}
	return i, v, nil
}

// scanComment scans the comment beginning with a slash at pos, returning
// the offset just past its end. A line comment ends at a line break or the
// end of input; the line break itself is not consumed.
func (p *Parser) scanComment(pos int) (end int, err error) {
	src, n := p.src, p.src.Len()
	if pos+1 < n {
		switch src.At(pos + 1) {
		case '/':
			i := pos + 2
			for i < n && src.At(i) != '\n' {
				i++
			}
			return i, nil
		case '*':
			i := pos + 2
			for i+1 < n {
				if src.At(i) == '*' && src.At(i+1) == '/' {
					return i + 2, nil
				}
				i++
			}
			return 0, p.failf(UnexpectedEnd, n, "unexpected end of input in comment")
		}
	}
	return 0, p.failf(UnexpectedToken, pos, "unexpected %q", byte('/'))
}

// maybeTime interprets s as a timestamp if it has one of the recognized
// date forms, otherwise it returns Text(s). The forms are the TimeFormat
// layout, and the legacy form "/Date(ms)/" giving signed milliseconds
// since the Unix epoch. Either way the result is in UTC.
func maybeTime(s string) Value {
	if len(s) == 24 && isDigit(s[0]) && s[4] == '-' && s[10] == 'T' && s[23] == 'Z' {
		if ts, err := time.Parse(TimeFormat, s); err == nil {
			return Time{Time: ts}
		}
	} else if ms, ok := dateMillis(s); ok {
		return Time{Time: time.UnixMilli(ms).UTC()}
	}
	return Text(s)
}

// dateMillis extracts the millisecond count of a legacy "/Date(ms)/"
// string. A count too big for int64 saturates at the nearest extreme
// rather than failing.
func dateMillis(s string) (int64, bool) {
	t, ok := strings.CutPrefix(s, "/Date(")
	if !ok {
		return 0, false
	}
	t, ok = strings.CutSuffix(t, ")/")
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(t, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return ms, true // ParseInt saturates on range error
}

// An Interner is a deduplicating cache for strings converted from bytes,
// such as the keys of objects. Construct with make; a nil Interner is not
// usable.
type Interner map[string]string

// Intern returns text as a string, reusing an existing copy if one is
// cached.
func (n Interner) Intern(text []byte) string {
	if s, ok := n[string(text)]; ok {
		return s
	}
	s := string(text)
	n[s] = s
	return s
}

func isSpace(c byte) bool { return c == ' ' || c == '\r' || c == '\n' || c == '\t' }

func isNumStart(c byte) bool { return c == '-' || isDigit(c) }
func isDigit(c byte) bool    { return '0' <= c && c <= '9' }
func isNameByte(c byte) bool { return c >= 'a' && c <= 'z' }

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) rune {
	switch {
	case c >= 'a':
		return rune(c-'a') + 10
	case c >= 'A':
		return rune(c-'A') + 10
	default:
		return rune(c - '0')
	}
}
