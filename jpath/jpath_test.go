package jpath_test

import (
	"testing"

	"github.com/creachadair/jval"
	"github.com/creachadair/jval/internal/testutil"
	"github.com/creachadair/jval/jpath"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  jpath.Path
	}{
		{"$", nil},
		{"$.store", jpath.Path{"store"}},
		{"$.store.book", jpath.Path{"store", "book"}},
		{"$[0]", jpath.Path{0}},
		{"$[-1]", jpath.Path{-1}},
		{"$.book[2].title", jpath.Path{"book", 2, "title"}},
		{"$['a b c']", jpath.Path{"a b c"}},
		{"$['']", jpath.Path{""}},
		{"$['x'][10]['y z'].w", jpath.Path{"x", 10, "y z", "w"}},
		{"$.a_b.c9", jpath.Path{"a_b", "c9"}},
		{"$['3']", jpath.Path{"3"}},
	}
	for _, test := range tests {
		got, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Parse %q: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"store",
		".store",
		"$.",
		"$.a.",
		"$.a-b",
		"$..a",
		"$[",
		"$[]",
		"$[0",
		"$['a'",
		"$['a]",
		"$[a]",
		"$[1.5]",
		"$[0]x",
		"$ .a",
		"$[999999999999999999999]",
	}
	for _, input := range inputs {
		if got, err := jpath.Parse(input); err == nil {
			t.Errorf("Parse %q: got %v, want error", input, got)
		} else {
			t.Logf("Parse %q: got expected error: %v", input, err)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		path jpath.Path
		want string
	}{
		{nil, "$"},
		{jpath.Path{"store", "book"}, "$.store.book"},
		{jpath.Path{"book", 2, "title"}, "$.book[2].title"},
		{jpath.Path{"a b", -1}, "$['a b'][-1]"},
		{jpath.Path{""}, "$['']"},
	}
	for _, test := range tests {
		if got := test.path.String(); got != test.want {
			t.Errorf("String %#v: got %q, want %q", test.path, got, test.want)
		}

		// A rendered path reparses to the same segments.
		back, err := jpath.Parse(test.want)
		if err != nil {
			t.Errorf("Parse %q: unexpected error: %v", test.want, err)
		} else if diff := cmp.Diff(test.path, back); diff != "" {
			t.Errorf("Parse %q: (-want, +got)\n%s", test.want, diff)
		}
	}
}

func TestEval(t *testing.T) {
	v := testutil.MustParseWith(t, &jval.Options{AllowComments: true}, `{
  "store": {
    "book": [ // prices in dollars
      {"title": "The Art of Motorcycle Repair", "price": 12.5},
      {"title": "Slam Dunk", "price": 9}
    ],
    "open": true
  },
  "misc": {"a key with spaces": null}
}`)

	tests := []struct {
		expr string
		want jval.Value
	}{
		{"$.store.open", jval.Bool(true)},
		{"$.store.book[0].price", jval.Double(12.5)},
		{"$.store.book[-1].price", jval.Int(9)},
		{"$.store.book[1]", jval.NewObject(
			jval.Field("title", "Slam Dunk"), jval.Field("price", 9),
		)},
		{"$['misc']['a key with spaces']", jval.Null},
		{"$.store.book['1'].price", jval.Int(9)}, // quoted offsets work on arrays
	}
	for _, test := range tests {
		got, err := jpath.Eval(v, test.expr)
		if err != nil {
			t.Errorf("Eval %q: unexpected error: %v", test.expr, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Eval %q: (-want, +got)\n%s", test.expr, diff)
		}
	}

	t.Run("Errors", func(t *testing.T) {
		for _, expr := range []string{
			"store",               // not a path
			"$.nonesuch",          // no such key
			"$.store.book[5]",     // offset out of bounds
			"$.store.book[-3]",    // offset out of bounds
			"$.store.open.deeper", // cannot traverse a Boolean
			"$.store.book.title",  // non-numeric key on an array
		} {
			if got, err := jpath.Eval(v, expr); err == nil {
				t.Errorf("Eval %q: got %v, want error", expr, got)
			} else {
				t.Logf("Eval %q: got expected error: %v", expr, err)
			}
		}
	})
}
