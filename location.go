package jval

import (
	"fmt"

	"go4.org/mem"
)

// A LineCol describes the line number and column offset of a location in
// source text. Both values are 0-based, so the first byte of the input is
// line 0, column 0.
type LineCol struct {
	Line   int // line number, 0-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// lineColAt reports the line and column of the byte at offset pos in src,
// scanning backward from pos. Columns count bytes, not runes, and an offset
// just past a line break is column 0 of the next line. Offsets past the end
// of src report the position after the last byte.
func lineColAt(src mem.RO, pos int) LineCol {
	if pos > src.Len() {
		pos = src.Len()
	}
	var lc LineCol
	col := -1
	for i := pos - 1; i >= 0; i-- {
		if src.At(i) == '\n' {
			if col < 0 {
				col = pos - i - 1
			}
			lc.Line++
		}
	}
	if col < 0 {
		col = pos
	}
	lc.Column = col
	return lc
}
