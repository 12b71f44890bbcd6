// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jval implements a parser for a JSON-like dialect that produces
// dynamically-typed value trees.
//
// # Parsing
//
// Call Parse or ParseString to convert an input into a Value:
//
//	v, err := jval.ParseString(`{"name": "aki", "age": 7}`)
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// In case of error, the returned error has concrete type *jval.ParseError,
// which records a classification code along with the byte offset, line,
// and column of the offending input byte. Lines and columns are both
// 0-based. The MustParse and MustParseString functions panic on error, for
// inputs known to be well formed.
//
// To set options, or to amortize the parser's internal scratch space over
// many inputs, construct a Parser:
//
//	p := jval.NewParser(&jval.Options{AllowComments: true})
//	for _, input := range inputs {
//	   v, err := p.Parse(input)
//	   // ...
//	}
//
// The input to a parse must be a complete value in memory; the parser
// makes a single left-to-right pass with no backtracking, and container
// nesting is kept on an explicit stack so the depth of the input is
// limited by memory rather than by the goroutine stack.
//
// # Values
//
// A parse produces a tree of Value nodes with these concrete types:
//
//	Kind        | Type    | Description
//	----------- | ------- | -----------------------------------
//	KindNull    | Null    | the null constant
//	KindBool    | Bool    | true or false
//	KindInt     | Int     | 32-bit integer
//	KindLong    | Long    | 64-bit integer
//	KindDouble  | Double  | 64-bit floating-point number
//	KindText    | Text    | string, with escapes decoded
//	KindTime    | Time    | timestamp (see Extensions)
//	KindObject  | *Object | key-value members, in input order
//	KindArray   | *Array  | sequence of values
//	KindForeign | Foreign | caller-provided object sink
//
// A number takes the narrowest of Int, Long, or Double that holds its
// value; a number written with a fraction or an exponent is always a
// Double. Every value renders back to plain JSON via its JSON method.
//
// An Array of uniformly-typed elements is stored unboxed, as a single
// flat slice of machine values. The representation widens automatically
// for mixed numeric elements and falls back to a generic sequence for
// anything else; see the Array type for details.
//
// # Extensions
//
// The dialect reaches beyond JSON in ways controlled by Options, all of
// which default to off:
//
//   - AllowComments reads line ("// ...") and block ("/* ... */")
//     comments as whitespace.
//   - RecognizeDates converts string values of the TimeFormat layout, or
//     the legacy form "/Date(ms)/", into Time values in UTC.
//   - StrictKeys restricts member keys to identifier form.
//   - ForceDoubleArrays materializes every number in an array as Double.
//
// # Object sinks
//
// By default each object value in the input becomes an *Object. A caller
// may take over the handling of members by setting an ObjectFactory in
// Options; the factory receives the path from the root to the new object,
// and may return a Sink to receive the members in place of the default.
// Objects delivered to a caller-provided sink appear in the result tree
// as Foreign values, which the parser does not inspect further. Member
// keys are checked for validity and uniqueness either way.
package jval
