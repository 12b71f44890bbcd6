// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jval_test

import (
	"testing"
	"time"

	"github.com/creachadair/jval"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestArrayRepresentation(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		a := jval.NewArray()
		if got := a.ElemKind(); got != jval.KindNone {
			t.Errorf("ElemKind: got %v, want %v", got, jval.KindNone)
		}
		if got := a.Len(); got != 0 {
			t.Errorf("Len: got %d, want 0", got)
		}
	})

	t.Run("Bools", func(t *testing.T) {
		a := jval.NewArray(jval.Bool(true), jval.Bool(false), jval.Bool(true))
		if got := a.ElemKind(); got != jval.KindBool {
			t.Errorf("ElemKind: got %v, want %v", got, jval.KindBool)
		}
		got, ok := a.Bools()
		if !ok {
			t.Fatal("Bools: representation not available")
		}
		if diff := cmp.Diff([]bool{true, false, true}, got); diff != "" {
			t.Errorf("Bools: (-want, +got)\n%s", diff)
		}
		if _, ok := a.Ints(); ok {
			t.Error("Ints unexpectedly available")
		}
	})

	t.Run("Texts", func(t *testing.T) {
		a := jval.NewArray(jval.Text("go"), jval.Text("tell"), jval.Text("aunt rhody"))
		got, ok := a.Texts()
		if !ok {
			t.Fatal("Texts: representation not available")
		}
		if diff := cmp.Diff([]string{"go", "tell", "aunt rhody"}, got); diff != "" {
			t.Errorf("Texts: (-want, +got)\n%s", diff)
		}
	})

	t.Run("Times", func(t *testing.T) {
		t1 := jval.Time{Time: time.UnixMilli(1614929892344).UTC()}
		t2 := jval.Time{Time: time.UnixMilli(1614929892345).UTC()}
		a := jval.NewArray(t1, t2)
		if got := a.ElemKind(); got != jval.KindTime {
			t.Errorf("ElemKind: got %v, want %v", got, jval.KindTime)
		}
		got, ok := a.Times()
		if !ok {
			t.Fatal("Times: representation not available")
		}
		if diff := cmp.Diff([]jval.Time{t1, t2}, got); diff != "" {
			t.Errorf("Times: (-want, +got)\n%s", diff)
		}
	})

	// Values without a typed representation go straight to boxed storage.
	t.Run("Mixed", func(t *testing.T) {
		a := jval.NewArray(jval.Null, jval.Int(1))
		if got := a.ElemKind(); got != jval.KindNone {
			t.Errorf("ElemKind: got %v, want %v", got, jval.KindNone)
		}
		want := []jval.Value{jval.Null, jval.Int(1)}
		if diff := cmp.Diff(want, a.Values()); diff != "" {
			t.Errorf("Values: (-want, +got)\n%s", diff)
		}
	})
}

func TestArrayWidening(t *testing.T) {
	t.Run("IntToLong", func(t *testing.T) {
		a := jval.NewArray(jval.Int(1), jval.Int(2))
		a.Append(jval.Long(3000000000))
		if got := a.ElemKind(); got != jval.KindLong {
			t.Errorf("ElemKind: got %v, want %v", got, jval.KindLong)
		}
		got, ok := a.Longs()
		if !ok {
			t.Fatal("Longs: representation not available")
		}
		if diff := cmp.Diff([]int64{1, 2, 3000000000}, got); diff != "" {
			t.Errorf("Longs: (-want, +got)\n%s", diff)
		}
		if _, ok := a.Ints(); ok {
			t.Error("Ints unexpectedly available after widening")
		}
	})

	t.Run("LongToDouble", func(t *testing.T) {
		a := jval.NewArray(jval.Int(1), jval.Long(3000000000), jval.Double(0.5))
		got, ok := a.Doubles()
		if !ok {
			t.Fatal("Doubles: representation not available")
		}
		if diff := cmp.Diff([]float64{1, 3e9, 0.5}, got); diff != "" {
			t.Errorf("Doubles: (-want, +got)\n%s", diff)
		}
	})

	// A narrower number joining a wider representation widens in without
	// changing the element kind.
	t.Run("NarrowIntoWide", func(t *testing.T) {
		a := jval.NewArray(jval.Double(1.5), jval.Int(2), jval.Long(3))
		got, ok := a.Doubles()
		if !ok {
			t.Fatal("Doubles: representation not available")
		}
		if diff := cmp.Diff([]float64{1.5, 2, 3}, got); diff != "" {
			t.Errorf("Doubles: (-want, +got)\n%s", diff)
		}

		b := jval.NewArray(jval.Long(5), jval.Int(1))
		if got, ok := b.Longs(); !ok {
			t.Error("Longs: representation not available")
		} else if diff := cmp.Diff([]int64{5, 1}, got); diff != "" {
			t.Errorf("Longs: (-want, +got)\n%s", diff)
		}
	})

	// A non-numeric mismatch abandons the typed representation for boxed
	// values, preserving order. The array does not re-specialize.
	t.Run("Demote", func(t *testing.T) {
		a := jval.NewArray(jval.Int(1), jval.Int(2))
		a.Append(jval.Text("x"))
		if got := a.ElemKind(); got != jval.KindNone {
			t.Errorf("ElemKind: got %v, want %v", got, jval.KindNone)
		}
		want := []jval.Value{jval.Int(1), jval.Int(2), jval.Text("x")}
		if diff := cmp.Diff(want, a.Values()); diff != "" {
			t.Errorf("Values: (-want, +got)\n%s", diff)
		}
		if _, ok := a.Ints(); ok {
			t.Error("Ints unexpectedly available after demotion")
		}

		a.Append(jval.Int(3))
		if got := a.ElemKind(); got != jval.KindNone {
			t.Errorf("ElemKind after append: got %v, want %v", got, jval.KindNone)
		}
	})
}

// Parsing feeds the accumulator one element at a time, so lexical order
// decides the stored representation.
func TestArrayParsing(t *testing.T) {
	tests := []struct {
		input string
		kind  jval.Kind
	}{
		{`[]`, jval.KindNone},
		{`[true, false]`, jval.KindBool},
		{`[1, 2, 3]`, jval.KindInt},
		{`[1, 2, 3000000000]`, jval.KindLong},
		{`[1, 2.5, 3]`, jval.KindDouble},
		{`["a", "b"]`, jval.KindText},
		{`[1, 2, "x"]`, jval.KindNone},
		{`[null, 1, 2]`, jval.KindNone},
		{`[[1], [2]]`, jval.KindNone},
		{`[{"a": 1}]`, jval.KindNone},
	}
	for _, test := range tests {
		v, err := jval.ParseString(test.input)
		if err != nil {
			t.Errorf("Input: %#q\nParseString failed: %v", test.input, err)
			continue
		}
		if got := v.(*jval.Array).ElemKind(); got != test.kind {
			t.Errorf("Input: %#q: ElemKind: got %v, want %v", test.input, got, test.kind)
		}
	}

	v := jval.MustParseString(`[1, 2, 3000000000]`)
	got, ok := v.(*jval.Array).Longs()
	if !ok {
		t.Fatal("Longs: representation not available")
	}
	if diff := cmp.Diff([]int64{1, 2, 3000000000}, got); diff != "" {
		t.Errorf("Longs: (-want, +got)\n%s", diff)
	}
}

func TestArrayAccess(t *testing.T) {
	a := jval.NewArray(jval.Int(10), jval.Int(20), jval.Int(30))
	if got, want := a.Len(), 3; got != want {
		t.Errorf("Len: got %d, want %d", got, want)
	}
	for i, want := range []jval.Value{jval.Int(10), jval.Int(20), jval.Int(30)} {
		if diff := cmp.Diff(want, a.At(i)); diff != "" {
			t.Errorf("At %d: (-want, +got)\n%s", i, diff)
		}
	}
	mtest.MustPanic(t, func() { a.At(3) })
	mtest.MustPanic(t, func() { a.At(-1) })

	// Values returns a fresh slice; the typed accessors alias the array.
	vs := a.Values()
	vs[0] = jval.Int(99)
	if diff := cmp.Diff(jval.Value(jval.Int(10)), a.At(0)); diff != "" {
		t.Errorf("At 0 after Values write: (-want, +got)\n%s", diff)
	}
	live, ok := a.Ints()
	if !ok {
		t.Fatal("Ints: representation not available")
	}
	live[0] = 99
	if diff := cmp.Diff(jval.Value(jval.Int(99)), a.At(0)); diff != "" {
		t.Errorf("At 0 after Ints write: (-want, +got)\n%s", diff)
	}
}

func TestArrayEqual(t *testing.T) {
	t.Run("Representation", func(t *testing.T) {
		// Widening coerces earlier elements, so these hold equal values in
		// different construction orders.
		a := jval.NewArray(jval.Int(1), jval.Long(2))
		b := jval.NewArray(jval.Long(1), jval.Long(2))
		if !a.Equal(b) {
			t.Errorf("%v should equal %v", a, b)
		}
	})

	t.Run("KindMatters", func(t *testing.T) {
		a := jval.NewArray(jval.Int(1))
		b := jval.NewArray(jval.Long(1))
		if a.Equal(b) {
			t.Errorf("%v should not equal %v", a, b)
		}
	})

	t.Run("Nested", func(t *testing.T) {
		mk := func() *jval.Array {
			return jval.NewArray(
				jval.NewObject(jval.Field("a", 1), jval.Field("b", "x")),
				jval.NewArray(jval.Bool(true)),
				jval.Null,
			)
		}
		if a, b := mk(), mk(); !a.Equal(b) {
			t.Errorf("%v should equal %v", a, b)
		}
	})

	t.Run("Unequal", func(t *testing.T) {
		a := jval.NewArray(jval.Int(1), jval.Int(2))
		for _, b := range []*jval.Array{
			jval.NewArray(jval.Int(1)),
			jval.NewArray(jval.Int(1), jval.Int(3)),
			jval.NewArray(jval.Int(2), jval.Int(1)),
			jval.NewArray(),
		} {
			if a.Equal(b) {
				t.Errorf("%v should not equal %v", a, b)
			}
		}
	})

	t.Run("Times", func(t *testing.T) {
		zone := time.FixedZone("ahead", 3600)
		a := jval.NewArray(jval.Time{Time: time.Date(2021, 3, 5, 9, 18, 12, 0, zone)})
		b := jval.NewArray(jval.Time{Time: time.Date(2021, 3, 5, 8, 18, 12, 0, time.UTC)})
		if !a.Equal(b) {
			t.Errorf("%v should equal %v", a, b)
		}
	})
}
