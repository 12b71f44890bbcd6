// Package testutil defines support code for unit tests.
package testutil

import (
	"testing"

	"github.com/creachadair/jval"
)

// MustParse parses input as a single value with default options.
// If the parse fails, it fails t immediately.
func MustParse(t *testing.T, input string) jval.Value {
	t.Helper()
	v, err := jval.ParseString(input)
	if err != nil {
		t.Fatalf("ParseString %#q: unexpected error: %v", input, err)
	}
	return v
}

// MustParseWith parses input as a single value with the given options.
// If the parse fails, it fails t immediately.
func MustParseWith(t *testing.T, opts *jval.Options, input string) jval.Value {
	t.Helper()
	v, err := jval.NewParser(opts).ParseString(input)
	if err != nil {
		t.Fatalf("ParseString %#q: unexpected error: %v", input, err)
	}
	return v
}
