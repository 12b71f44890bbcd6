// Package query implements structural queries over parsed values.
//
// A query describes a substructure of a value tree, such as an object
// member, array element, or a path through the tree. Evaluating a query
// against a concrete value traverses the structure described by the query
// and returns the resulting value.
//
// The simplest query is for a "path", a sequence of object keys and/or
// array offsets that describes a path from the root of a value. For
// example, given the value:
//
//	[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]
//
// the query
//
//	query.Path(1, "c", "d")
//
// yields the value "true".
package query

import (
	"errors"
	"fmt"

	"github.com/creachadair/jval"
)

// Eval evaluates the given query beginning from root, returning the
// resulting value or an error.
func Eval(root jval.Value, q Query) (jval.Value, error) {
	return q.eval(root)
}

// A Query describes a traversal of a value.
type Query interface {
	eval(jval.Value) (jval.Value, error)
}

// Path traverses a sequence of nested object keys or array offsets from
// the root. If no keys are specified, the root is returned. Each key must
// be a string, an int, or a Query.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	pq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return objKey(t)
	case int:
		return nthQuery(t)
	case Query:
		return t
	default:
		panic("invalid path element")
	}
}

type objKey string

func (o objKey) eval(v jval.Value) (jval.Value, error) {
	obj, ok := v.(*jval.Object)
	if !ok {
		return nil, fmt.Errorf("got %T, want object", v)
	}
	mem := obj.Find(string(o))
	if mem == nil {
		return nil, fmt.Errorf("key %q not found", o)
	}
	return mem.Value, nil
}

type nthQuery int

func (nq nthQuery) eval(v jval.Value) (jval.Value, error) {
	arr, ok := v.(*jval.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	idx := int(nq)
	if idx < 0 {
		idx += arr.Len()
	}
	if idx < 0 || idx >= arr.Len() {
		return nil, fmt.Errorf("index %d out of range (0..%d)", nq, arr.Len())
	}
	return arr.At(idx), nil
}

// Selection constructs an array of the elements of its input array, for
// which the specified function returns true.
type Selection func(jval.Value) bool

func (q Selection) eval(v jval.Value) (jval.Value, error) {
	a, ok := v.(*jval.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := new(jval.Array)
	for i := 0; i < a.Len(); i++ {
		if elt := a.At(i); q(elt) {
			out.Append(elt)
		}
	}
	return out, nil
}

// Mapping constructs an array in which each value is replaced by the
// result of calling the specified function on the corresponding input
// value.
type Mapping func(jval.Value) jval.Value

func (q Mapping) eval(v jval.Value) (jval.Value, error) {
	a, ok := v.(*jval.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := new(jval.Array)
	for i := 0; i < a.Len(); i++ {
		out.Append(q(a.At(i)))
	}
	return out, nil
}

// Slice selects a slice of an array from offsets lo to hi. The range
// includes lo but excludes hi. Negative offsets select from the end of the
// array. If hi == 0, the length of the array is used.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v jval.Value) (jval.Value, error) {
	arr, ok := v.(*jval.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	n := arr.Len()
	lox := q.lo
	if lox < 0 {
		lox += n
	}
	hix := q.hi
	if hix <= 0 {
		hix += n
	}
	if lox < 0 || lox >= n {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.lo, n)
	} else if hix < 0 || hix > n {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.hi, n)
	} else if lox > hix {
		return nil, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
	}
	out := new(jval.Array)
	for i := lox; i < hix; i++ {
		out.Append(arr.At(i))
	}
	return out, nil
}

// Pick constructs an array by picking the designated offsets from an
// array. Negative offsets select from the end of the input array.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v jval.Value) (jval.Value, error) {
	arr, ok := v.(*jval.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := new(jval.Array)
	for _, off := range q {
		if off < 0 {
			off += arr.Len()
		}
		if off < 0 || off >= arr.Len() {
			return nil, fmt.Errorf("index %d out of range (0..%d)", off, arr.Len())
		}
		out.Append(arr.At(off))
	}
	return out, nil
}

// Len returns an integer representing the length of the root.
//
// For an object, the length is the number of members.
// For an array, the length is the number of elements.
// For a text value, the length is the length of the string.
// For null, the length is zero.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v jval.Value) (jval.Value, error) {
	switch t := v.(type) {
	case *jval.Object:
		return jval.ToValue(t.Len()), nil
	case *jval.Array:
		return jval.ToValue(t.Len()), nil
	case jval.Text:
		return jval.ToValue(len(t)), nil
	default:
		if v.Kind() == jval.KindNull {
			return jval.Int(0), nil
		}
		return nil, fmt.Errorf("cannot take length of %T", v)
	}
}

// Seq is a sequential composition of queries. An empty sequence selects
// the root; otherwise, each query is applied to the result selected by the
// previous query in the sequence.
type Seq []Query

func (q Seq) eval(v jval.Value) (jval.Value, error) {
	for _, sq := range q {
		next, err := sq.eval(v)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// Alt is a query that selects among a sequence of alternatives. The result
// of the first alternative that does not report an error is returned. If
// there are no alternatives, the query fails on all inputs.
type Alt []Query

func (q Alt) eval(v jval.Value) (jval.Value, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies a query to each recursive descendant of its input and
// returns an array of the resulting values. The arguments have the same
// constraints as Path.
func Recur(keys ...any) Query { return recQuery{Path(keys...)} }

type recQuery struct{ Query }

func (q recQuery) eval(v jval.Value) (jval.Value, error) {
	out := new(jval.Array)

	stk := []jval.Value{v}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]

		if r, err := q.Query.eval(next); err == nil {
			out.Append(r)
		}

		// N.B. Push in reverse order, so we visit in lexical order.
		switch t := next.(type) {
		case *jval.Object:
			for i := t.Len() - 1; i >= 0; i-- {
				stk = append(stk, t.Members[i].Value)
			}
		case *jval.Array:
			for i := t.Len() - 1; i >= 0; i-- {
				stk = append(stk, t.At(i))
			}
		}
	}

	if out.Len() == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// Each applies a query to each element of an array and returns an array of
// the resulting values. It fails if the input is not an array. The
// arguments have the same constraints as Path.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v jval.Value) (jval.Value, error) {
	arr, ok := v.(*jval.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := new(jval.Array)
	for i := 0; i < arr.Len(); i++ {
		v, err := q.Query.eval(arr.At(i))
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out.Append(v)
	}
	return out, nil
}

// Object constructs an object with the given keys mapped to the results of
// matching the query values against its input.
type Object map[string]Query

func (o Object) eval(v jval.Value) (jval.Value, error) {
	out := jval.NewObject()
	for key, q := range o {
		val, err := q.eval(v)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", key, err)
		}
		out.Members = append(out.Members, jval.Field(key, val))
	}
	return out, nil
}

// Array constructs an array with the values produced by matching the given
// queries against its input.
type Array []Query

func (a Array) eval(v jval.Value) (jval.Value, error) {
	out := new(jval.Array)
	for i, q := range a {
		val, err := q.eval(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out.Append(val)
	}
	return out, nil
}

// A Text query ignores its input and returns the given string.
func Text(s string) Query { return Value(jval.Text(s)) }

// A Double query ignores its input and returns the given number.
func Double(n float64) Query { return Value(jval.Double(n)) }

// An Int query ignores its input and returns the given integer, as an Int
// if it fits in 32 bits and otherwise as a Long.
func Int(z int) Query { return Value(jval.ToValue(z)) }

// A Bool query ignores its input and returns the given bool.
func Bool(b bool) Query { return Value(jval.Bool(b)) }

// A Null query ignores its input and returns a null value.
func Null() Query { return Value(jval.Null) }

// A Value query ignores its input and returns the given value.
func Value(v jval.Value) Query { return constQuery{v} }

type constQuery struct{ jval.Value }

func (c constQuery) eval(_ jval.Value) (jval.Value, error) { return c.Value, nil }

// A Glob query returns an array of all its inputs.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v jval.Value) (jval.Value, error) {
	switch t := v.(type) {
	case *jval.Object:
		out := new(jval.Array)
		for _, m := range t.Members {
			out.Append(m.Value)
		}
		return out, nil
	case *jval.Array:
		return t, nil
	default:
		return nil, errors.New("no matching values")
	}
}
