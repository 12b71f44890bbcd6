// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the structure of a parsed value.
package cursor

import (
	"fmt"
	"strconv"

	"github.com/creachadair/jval"
)

// Path traverses a sequential path into the structure of v where path
// elements are as documented for the Cursor.Down method. This is a
// convenience wrapper for creating a cursor, applying path, and retrieving
// its value.
func Path[T jval.Value](v jval.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var zero T
	if err := c.Err(); err != nil {
		return zero, err
	}
	out, ok := c.Value().(T)
	if !ok {
		return zero, fmt.Errorf("wrong value type %T", c.Value())
	}
	return out, nil
}

// PathOr traverses a sequential path into the structure of v as Path does,
// but returns fallback instead of an error if the path does not resolve or
// the value reached does not have type T.
func PathOr[T jval.Value](v jval.Value, fallback T, path ...any) T {
	c := New(v).Down(path...)
	if c.Err() != nil {
		return fallback
	}
	if out, ok := c.Value().(T); ok {
		return out
	}
	return fallback
}

// A Cursor is a pointer that navigates into the structure of a jval.Value.
type Cursor struct {
	org jval.Value
	stk []any // jval.Value or *jval.Member
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin jval.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() jval.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

func (c *Cursor) cur() any {
	if len(c.stk) == 0 {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Value reports the current value under the cursor. When the cursor is
// positioned on an object member, Value reports the value of that member.
func (c *Cursor) Value() jval.Value {
	if m, ok := c.cur().(*jval.Member); ok {
		return m.Value
	}
	return c.cur().(jval.Value)
}

// Member reports the object member under the cursor, or nil if the cursor
// is not positioned on a member.
func (c *Cursor) Member() *jval.Member {
	m, _ := c.cur().(*jval.Member)
	return m
}

// Path reports the complete sequence of positions from the origin to the
// current location in c. Each position is a jval.Value or a *jval.Member.
func (c *Cursor) Path() []any {
	return append([]any{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from
// the current value, where path elements are either strings (denoting
// object keys or array offsets), integers (denoting offsets into arrays or
// objects), functions (see below), or nil. If the path cannot be completely
// consumed, traversal stops and an error is recorded. Use Err to recover
// the error.
//
// If a path element is a string and the corresponding value is an object,
// the string resolves the object member with that name, and subsequent path
// elements continue from the value of that member. If the value is an
// array, the string must parse as a non-negative integer, which resolves to
// an offset in the array.
//
// If a path element is an integer, the corresponding value must be an array
// or object, and the integer resolves to an offset in the array or object.
// Negative offsets count backward from the end (-1 is last, -2 second
// last). An error is reported if the offset is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a
// signature
//
//	func(jval.Value) (jval.Value, error)
//
// If the function reports an error, traversal stops and the error is
// recorded.
//
// A nil path element does nothing, but the resolution of a member it
// follows still applies, so a path ending with nil rests on the value of a
// member rather than on the member itself.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.cur()
	for _, elt := range path {
		// If the previous step ended on an object member, interpret the next
		// path element relative to the value of that member.
		if m, ok := cur.(*jval.Member); ok {
			cur = c.push(m.Value)
		}
		v := cur.(jval.Value)

		switch t := elt.(type) {
		case string:
			switch e := v.(type) {
			case *jval.Object:
				m := e.Find(t)
				if m == nil {
					return c.setErrorf("key %q not found", t)
				}
				cur = c.push(m)
			case *jval.Array:
				i, err := strconv.Atoi(t)
				if err != nil || i < 0 {
					return c.setErrorf("cannot traverse %T with %q", v, t)
				}
				if i >= e.Len() {
					return c.setErrorf("array offset %d out of bounds (n=%d)", i, e.Len())
				}
				cur = c.push(e.At(i))
			default:
				return c.setErrorf("cannot traverse %T with %q", v, t)
			}

		case int:
			switch e := v.(type) {
			case *jval.Array:
				i, ok := fixArrayBound(e.Len(), t)
				if !ok {
					return c.setErrorf("array offset %d out of bounds (n=%d)", i, e.Len())
				}
				cur = c.push(e.At(i))
			case *jval.Object:
				i, ok := fixArrayBound(e.Len(), t)
				if !ok {
					return c.setErrorf("object offset %d out of bounds (n=%d)", i, e.Len())
				}
				cur = c.push(e.Members[i])
			default:
				return c.setErrorf("cannot traverse %T with %v", v, elt)
			}

		case func(jval.Value) (jval.Value, error):
			next, err := t(v)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		case nil:
			// Do nothing. This case supports indirecting through a member at
			// the end of the path.

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v any) any { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
