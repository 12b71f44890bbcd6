// Package jpath implements a minimal JSONPath-like expression syntax for
// addressing values in a parsed tree.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creachadair/jval"
	"github.com/creachadair/jval/cursor"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." WORD
  step = "[" INDEX "]"
  step = "[" "'" QTEXT "'" "]"

  WORD = RE `\w+`
 QTEXT = RE `[^']*`
 INDEX = RE `-?\d+`
*/

// A Path is a parsed path expression, a sequence of member keys (string)
// and array offsets (int) usable as-is with the cursor package.
type Path []any

// Parse parses s as a path expression.
func Parse(s string) (Path, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var out Path
	for t != "" {
		seg, rest, err := parseStep(t)
		if err != nil {
			return nil, err
		}
		out = append(out, seg)
		t = rest
	}
	return out, nil
}

// Eval parses expr as a path expression and resolves it against v,
// reporting the value it addresses.
func Eval(v jval.Value, expr string) (jval.Value, error) {
	p, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return cursor.Path[jval.Value](v, p...)
}

func (p Path) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, seg := range p {
		switch t := seg.(type) {
		case int:
			fmt.Fprintf(&buf, "[%d]", t)
		case string:
			if nameRE.MatchString(t) {
				fmt.Fprintf(&buf, ".%s", t)
			} else {
				fmt.Fprintf(&buf, "['%s']", t)
			}
		default:
			fmt.Fprintf(&buf, "[%v]", t)
		}
	}
	return buf.String()
}

func parseStep(s string) (seg any, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "."); ok {
		m := wordRE.FindString(t)
		if m == "" {
			return nil, s, errors.New("invalid member name")
		}
		return m, t[len(m):], nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		seg, u, err := parseSelector(t)
		if err != nil {
			return nil, s, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return nil, u, errors.New("missing close bracket")
		}
		return seg, u, nil
	}
	return nil, s, errors.New("invalid path step")
}

func parseSelector(s string) (seg any, rest string, _ error) {
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return m[1], s[len(m[0]):], nil
	}
	if m := indexRE.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, s, fmt.Errorf("invalid offset: %w", err)
		}
		return n, s[len(m[0]):], nil
	}
	return nil, s, fmt.Errorf("invalid selector: %q", s)
}

var (
	wordRE  = regexp.MustCompile(`^\w+`)
	nameRE  = regexp.MustCompile(`^\w+$`)
	indexRE = regexp.MustCompile(`^(-?\d+)`)
	quoteRE = regexp.MustCompile(`^'([^']*)'`)
)
