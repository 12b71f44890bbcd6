// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape renders strings as JSON string literals.
package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends the JSON string literal denoting src to buf,
// including the surrounding quotation marks, and returns the updated
// buffer.
func AppendQuote(buf []byte, src mem.RO) []byte {
	buf = append(buf, '"')
	for src.Len() > 0 {
		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					buf = append(buf, '\\', b)
				} else {
					buf = append(buf, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				buf = append(buf, '\\', byte(r))
			} else {
				buf = append(buf, byte(r))
			}
			src = src.SliceFrom(n)
			continue
		}

		switch r {
		case 0xFFFD: // replacement rune
			buf = append(buf, "\\ufffd"...)
		case 0x2028: // line separator
			buf = append(buf, "\\u2028"...)
		case 0x2029: // paragraph separator
			buf = append(buf, "\\u2029"...)
		default:
			var rbuf [utf8.UTFMax]byte
			n := utf8.EncodeRune(rbuf[:], r)
			buf = append(buf, rbuf[:n]...)
		}

		src = src.SliceFrom(n)
	}
	return append(buf, '"')
}
