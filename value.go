// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the type of a value in a parsed tree.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindNone    Kind = iota // no value; also the element kind of a mixed or empty array
	KindNull                // null
	KindBool                // Boolean constant, true or false
	KindInt                 // 32-bit integer
	KindLong                // 64-bit integer
	KindDouble              // 64-bit floating-point number
	KindText                // string
	KindTime                // timestamp
	KindObject              // object, a sequence of key-value members
	KindArray               // array, a sequence of values
	KindForeign             // caller-provided object sink

	// Do not modify the order of the numeric kinds; array widening
	// depends on int < long < double.
)

var kindStr = [...]string{
	KindNone:    "none",
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindLong:    "long",
	KindDouble:  "double",
	KindText:    "text",
	KindTime:    "time",
	KindObject:  "object",
	KindArray:   "array",
	KindForeign: "foreign",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return "invalid kind"
	}
	return kindStr[v]
}

// A Value is a single value in a parsed tree. The concrete type is one of
// Null, Bool, Int, Long, Double, Text, Time, Foreign, *Object, or *Array.
type Value interface {
	// Kind reports the kind of the value.
	Kind() Kind

	// JSON renders the value as plain JSON text.
	JSON() string

	String() string
}

// Null is the null value.
var Null nullValue

type nullValue struct{}

func (nullValue) Kind() Kind     { return KindNull }
func (nullValue) JSON() string   { return "null" }
func (nullValue) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

func (b Bool) String() string { return b.JSON() }

// An Int is a 32-bit integer value.
type Int int32

func (Int) Kind() Kind       { return KindInt }
func (z Int) JSON() string   { return strconv.FormatInt(int64(z), 10) }
func (z Int) String() string { return z.JSON() }

// A Long is a 64-bit integer value.
type Long int64

func (Long) Kind() Kind       { return KindLong }
func (z Long) JSON() string   { return strconv.FormatInt(int64(z), 10) }
func (z Long) String() string { return z.JSON() }

// A Double is a 64-bit floating-point value.
type Double float64

func (Double) Kind() Kind { return KindDouble }

// JSON renders d in the shortest form that reparses to the same value and
// the same kind. Integer-formed values gain a trailing ".0" so they remain
// doubles, and non-finite values render as null, the only form JSON has
// for them.
func (d Double) JSON() string {
	f := float64(d)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (d Double) String() string { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

// A Text is a string value. The text is fully decoded, with escape
// sequences resolved.
type Text string

func (Text) Kind() Kind       { return KindText }
func (t Text) JSON() string   { return Quote(string(t)) }
func (t Text) String() string { return string(t) }

// TimeFormat is the timestamp layout recognized and rendered by this
// package, ISO 8601 restricted to UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// A Time is a timestamp value. Timestamps constructed by a parse are in UTC.
type Time struct{ time.Time }

func (Time) Kind() Kind       { return KindTime }
func (t Time) JSON() string   { return Quote(t.String()) }
func (t Time) String() string { return t.UTC().Format(TimeFormat) }

// Equal reports whether t and u denote the same time instant.
func (t Time) Equal(u Time) bool { return t.Time.Equal(u.Time) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

func (m Member) JSON() string {
	k := Quote(m.Key)
	v := m.Value.JSON()
	buf := make([]byte, len(k)+len(v)+1)
	n := copy(buf, k)
	buf[n] = ':'
	copy(buf[n+1:], v)
	return string(buf)
}

func (m Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// Field constructs an object member with the given key and value.
// The value must be a string, integer, float, bool, time.Time, nil, or Value.
func Field(key string, value any) *Member { return &Member{Key: key, Value: ToValue(value)} }

// An Object is a collection of key-value members. Members preserve the
// order in which they were added, and within a parsed tree their keys are
// unique. An Object is the default sink for object values during a parse.
type Object struct {
	Members []*Member
}

// NewObject constructs an object with the given members.
func NewObject(ms ...*Member) *Object { return &Object{Members: ms} }

func (*Object) Kind() Kind { return KindObject }

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	if i := o.Index(key); i >= 0 {
		return o.Members[i]
	}
	return nil
}

// Index returns the index of the first member of o with the given key, or -1.
func (o *Object) Index(key string) int {
	for i, m := range o.Members {
		if m.Key == key {
			return i
		}
	}
	return -1
}

func (o *Object) Len() int { return len(o.Members) }

// SetMember implements the Sink interface. It replaces the value of the
// first existing member with the given key, or appends a new member.
func (o *Object) SetMember(key string, v Value) {
	if m := o.Find(key); m != nil {
		m.Value = v
		return
	}
	o.Members = append(o.Members, &Member{Key: key, Value: v})
}

// Sort sorts the members of o in ascending order by key.
func (o *Object) Sort() {
	slices.SortFunc(o.Members, func(a, b *Member) int { return strings.Compare(a.Key, b.Key) })
}

func (o *Object) JSON() string {
	if len(o.Members) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(o.Members[0].JSON())
	for _, m := range o.Members[1:] {
		sb.WriteByte(',')
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o *Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o.Members)) }

// A Sink receives the members of an object value as they are parsed.
// The parser calls SetMember once per member, in order of appearance,
// after the member's value is complete. A sink may coerce values it
// receives, or silently discard those it does not understand.
type Sink interface {
	SetMember(key string, v Value)
}

// Foreign is a caller-provided Sink installed in a parsed tree by an
// ObjectFactory. The parser does not inspect the sink's contents, and a
// Foreign value is opaque to path traversal.
type Foreign struct{ Sink Sink }

func (Foreign) Kind() Kind { return KindForeign }

func (f Foreign) JSON() string {
	if v, ok := f.Sink.(interface{ JSON() string }); ok {
		return v.JSON()
	}
	return "null"
}

func (f Foreign) String() string { return fmt.Sprintf("Foreign(%T)", f.Sink) }

// ToValue converts a string, integer, float, bool, time.Time, nil, or Value
// into a Value. Untyped ints convert to Int if the value fits in 32 bits,
// otherwise to Long. It panics if v does not have one of those types.
func ToValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Null
	case bool:
		return Bool(t)
	case string:
		return Text(t)
	case int:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return Int(t)
		}
		return Long(t)
	case int32:
		return Int(t)
	case int64:
		return Long(t)
	case float32:
		return Double(t)
	case float64:
		return Double(t)
	case time.Time:
		return Time{Time: t}
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}
