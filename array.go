// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"fmt"
	"strings"
)

// An Array is a sequence of values.
//
// Arrays of uniformly-typed elements are stored unboxed, one flat slice of
// machine values per array, rather than as a slice of Value. The
// representation is chosen and maintained by Append and is not observable
// through At, Len, or Values; use ElemKind and the typed accessors to reach
// the underlying slice of a typed array.
type Array struct {
	ek Kind // element kind of the typed representation; KindNone when generic

	bools []bool
	ints  []int32
	longs []int64
	dbls  []float64
	texts []string
	times []Time
	mixed []Value
}

// NewArray constructs an array of the given values. The values are
// accumulated in order, so uniformly-typed input adopts the corresponding
// typed representation.
func NewArray(vs ...Value) *Array {
	a := new(Array)
	for _, v := range vs {
		a.Append(v)
	}
	return a
}

func (*Array) Kind() Kind { return KindArray }

// ElemKind reports the element kind of a's typed representation, or
// KindNone if a is empty or holds mixed values.
func (a *Array) ElemKind() Kind { return a.ek }

// Len reports the number of elements in a.
func (a *Array) Len() int {
	switch a.ek {
	case KindBool:
		return len(a.bools)
	case KindInt:
		return len(a.ints)
	case KindLong:
		return len(a.longs)
	case KindDouble:
		return len(a.dbls)
	case KindText:
		return len(a.texts)
	case KindTime:
		return len(a.times)
	default:
		return len(a.mixed)
	}
}

// At returns the element of a at offset i, boxed as a Value.
// It panics if i is out of range.
func (a *Array) At(i int) Value {
	switch a.ek {
	case KindBool:
		return Bool(a.bools[i])
	case KindInt:
		return Int(a.ints[i])
	case KindLong:
		return Long(a.longs[i])
	case KindDouble:
		return Double(a.dbls[i])
	case KindText:
		return Text(a.texts[i])
	case KindTime:
		return a.times[i]
	default:
		return a.mixed[i]
	}
}

// Append adds v to the end of a.
//
// The first element appended chooses a typed representation when its kind
// has one. A numeric element widens a numeric representation as needed,
// int to long to double, converting the elements already stored. An
// element the representation cannot hold converts a to a generic sequence
// of boxed values, preserving order; a does not return to a typed
// representation thereafter.
func (a *Array) Append(v Value) {
	if a.Len() == 0 {
		switch t := v.(type) {
		case Bool:
			a.ek, a.bools = KindBool, append(a.bools, bool(t))
		case Int:
			a.ek, a.ints = KindInt, append(a.ints, int32(t))
		case Long:
			a.ek, a.longs = KindLong, append(a.longs, int64(t))
		case Double:
			a.ek, a.dbls = KindDouble, append(a.dbls, float64(t))
		case Text:
			a.ek, a.texts = KindText, append(a.texts, string(t))
		case Time:
			a.ek, a.times = KindTime, append(a.times, t)
		default:
			a.mixed = append(a.mixed, v)
		}
		return
	}
	if a.ek == KindNone {
		a.mixed = append(a.mixed, v)
		return
	}
	vk := v.Kind()
	switch {
	case vk == a.ek:
		switch t := v.(type) {
		case Bool:
			a.bools = append(a.bools, bool(t))
		case Int:
			a.ints = append(a.ints, int32(t))
		case Long:
			a.longs = append(a.longs, int64(t))
		case Double:
			a.dbls = append(a.dbls, float64(t))
		case Text:
			a.texts = append(a.texts, string(t))
		case Time:
			a.times = append(a.times, t)
		}
	case isNumKind(vk) && isNumKind(a.ek):
		if vk > a.ek {
			a.widen(vk)
		}
		a.appendNum(v)
	default:
		a.demote()
		a.mixed = append(a.mixed, v)
	}
}

// isNumKind reports whether k is a numeric kind. The numeric kinds are
// ordered so that a greater kind can hold every value of a lesser one.
func isNumKind(k Kind) bool { return k == KindInt || k == KindLong || k == KindDouble }

// widen converts a's numeric representation to element kind k, which must
// be numeric and greater than the current element kind.
func (a *Array) widen(k Kind) {
	switch {
	case a.ek == KindInt && k == KindLong:
		a.longs = make([]int64, len(a.ints))
		for i, v := range a.ints {
			a.longs[i] = int64(v)
		}
		a.ints = nil
	case a.ek == KindInt && k == KindDouble:
		a.dbls = make([]float64, len(a.ints))
		for i, v := range a.ints {
			a.dbls[i] = float64(v)
		}
		a.ints = nil
	case a.ek == KindLong && k == KindDouble:
		a.dbls = make([]float64, len(a.longs))
		for i, v := range a.longs {
			a.dbls[i] = float64(v)
		}
		a.longs = nil
	}
	a.ek = k
}

// appendNum appends numeric value v to a numeric representation at least
// as wide as v's kind.
func (a *Array) appendNum(v Value) {
	switch a.ek {
	case KindInt:
		a.ints = append(a.ints, int32(v.(Int)))
	case KindLong:
		if t, ok := v.(Int); ok {
			a.longs = append(a.longs, int64(t))
		} else {
			a.longs = append(a.longs, int64(v.(Long)))
		}
	case KindDouble:
		switch t := v.(type) {
		case Int:
			a.dbls = append(a.dbls, float64(t))
		case Long:
			a.dbls = append(a.dbls, float64(t))
		default:
			a.dbls = append(a.dbls, float64(v.(Double)))
		}
	}
}

// demote abandons the typed representation for a generic one, boxing the
// stored elements in order.
func (a *Array) demote() {
	vs := make([]Value, a.Len(), a.Len()+1)
	for i := range vs {
		vs[i] = a.At(i)
	}
	a.bools, a.ints, a.longs, a.dbls, a.texts, a.times = nil, nil, nil, nil, nil, nil
	a.ek, a.mixed = KindNone, vs
}

// Values returns the elements of a as boxed values in a new slice.
func (a *Array) Values() []Value {
	out := make([]Value, a.Len())
	for i := range out {
		out[i] = a.At(i)
	}
	return out
}

// Bools returns the elements of a if its element kind is KindBool.
// The slice is shared with a, not a copy.
func (a *Array) Bools() ([]bool, bool) {
	if a.ek != KindBool {
		return nil, false
	}
	return a.bools, true
}

// Ints returns the elements of a if its element kind is KindInt.
// The slice is shared with a, not a copy.
func (a *Array) Ints() ([]int32, bool) {
	if a.ek != KindInt {
		return nil, false
	}
	return a.ints, true
}

// Longs returns the elements of a if its element kind is KindLong.
// The slice is shared with a, not a copy.
func (a *Array) Longs() ([]int64, bool) {
	if a.ek != KindLong {
		return nil, false
	}
	return a.longs, true
}

// Doubles returns the elements of a if its element kind is KindDouble.
// The slice is shared with a, not a copy.
func (a *Array) Doubles() ([]float64, bool) {
	if a.ek != KindDouble {
		return nil, false
	}
	return a.dbls, true
}

// Texts returns the elements of a if its element kind is KindText.
// The slice is shared with a, not a copy.
func (a *Array) Texts() ([]string, bool) {
	if a.ek != KindText {
		return nil, false
	}
	return a.texts, true
}

// Times returns the elements of a if its element kind is KindTime.
// The slice is shared with a, not a copy.
func (a *Array) Times() ([]Time, bool) {
	if a.ek != KindTime {
		return nil, false
	}
	return a.times, true
}

// Equal reports whether a and b have equal elements in the same order,
// without regard to their internal representations.
func (a *Array) Equal(b *Array) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !valueEqual(a.At(i), b.At(i)) {
			return false
		}
	}
	return true
}

func valueEqual(a, b Value) bool {
	switch t := a.(type) {
	case *Object:
		u, ok := b.(*Object)
		if !ok || len(t.Members) != len(u.Members) {
			return false
		}
		for i, m := range t.Members {
			if m.Key != u.Members[i].Key || !valueEqual(m.Value, u.Members[i].Value) {
				return false
			}
		}
		return true
	case *Array:
		u, ok := b.(*Array)
		return ok && t.Equal(u)
	case Time:
		u, ok := b.(Time)
		return ok && t.Equal(u)
	case Foreign:
		u, ok := b.(Foreign)
		return ok && t.Sink == u.Sink
	default:
		return a == b
	}
}

func (a *Array) JSON() string {
	n := a.Len()
	if n == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(a.At(0).JSON())
	for i := 1; i < n; i++ {
		sb.WriteByte(',')
		sb.WriteString(a.At(i).JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *Array) String() string { return fmt.Sprintf("Array(len=%d, elem=%v)", a.Len(), a.ek) }
