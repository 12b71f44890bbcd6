// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/creachadair/mds/mapset"
	"go4.org/mem"
)

// Code classifies the reason a parse failed.
type Code byte

// Constants defining the valid Code values.
const (
	NoError         Code = iota // the parse succeeded
	NilInput                    // the input was nil
	UnexpectedEnd               // the input ended inside a value, comment, or open container
	KeyNotUnique                // an object repeated a member key
	InvalidKey                  // a member key failed validation
	UnexpectedToken             // a token was not legal at its position
)

var codeStr = [...]string{
	NoError:         "no error",
	NilInput:        "nil input",
	UnexpectedEnd:   "unexpected end of input",
	KeyNotUnique:    "key not unique",
	InvalidKey:      "invalid key",
	UnexpectedToken: "unexpected token",
}

func (c Code) String() string {
	v := int(c)
	if v < len(codeStr) {
		return codeStr[v]
	}
	return fmt.Sprintf("invalid code %d", v)
}

// ParseError is the concrete type of errors reported by a parse.
type ParseError struct {
	Code    Code    // the classification of the failure
	Offset  int     // byte offset of the offending byte, 0-based
	Pos     LineCol // line and column of the offending byte
	Message string
}

// Error satisfies the error interface.
func (e *ParseError) Error() string { return fmt.Sprintf("at %s: %s", e.Pos, e.Message) }

// Options are optional settings for a Parser. A nil *Options is ready for
// use, and provides the defaults described on the fields, with every
// extension disabled.
type Options struct {
	// When true, member keys must look like identifiers: the first rune a
	// letter, underscore, or dollar sign, and the rest also admitting
	// digits. When false, any key that is not empty or all blank is
	// accepted.
	StrictKeys bool

	// When true, line ("// ...") and block ("/* ... */") comments are read
	// as whitespace. When false, a slash is an error.
	AllowComments bool

	// When true, string values in a recognized timestamp form become Time
	// values; see TimeFormat. Member keys are never recognized.
	RecognizeDates bool

	// When true, numbers appearing as array elements become Double
	// regardless of their lexical form, so numeric arrays settle into a
	// float64 representation immediately.
	ForceDoubleArrays bool

	// If set, ObjectFactory is consulted for each object value and may
	// return an alternate Sink to receive its members. The path holds the
	// member keys (string) and array offsets (int) leading from the root
	// to the new object, outermost first; it is shared scratch, valid only
	// during the call. Returning nil selects the default *Object sink.
	// Any other sink appears in the result as a Foreign value.
	ObjectFactory func(path []any) Sink
}

func (o *Options) strictKeys() bool     { return o != nil && o.StrictKeys }
func (o *Options) allowComments() bool  { return o != nil && o.AllowComments }
func (o *Options) recognizeDates() bool { return o != nil && o.RecognizeDates }
func (o *Options) forceDouble() bool    { return o != nil && o.ForceDoubleArrays }

func (o *Options) objectFactory() func([]any) Sink {
	if o == nil {
		return nil
	}
	return o.ObjectFactory
}

// tokKind is a bitmask of token categories, used to check whether a token
// is legal after the one before it.
type tokKind uint8

const (
	tokPrim     tokKind = 1 << iota // primitive value
	tokObjStart                     // "{"
	tokKey                          // member key
	tokColon                        // ":"
	tokObjEnd                       // "}"
	tokArrStart                     // "["
	tokArrEnd                       // "]"
	tokComma                        // ","

	// tokValue marks the categories after which a completed value stands.
	tokValue = tokPrim | tokObjEnd | tokArrEnd
)

// A frame records the state of one open container during a parse. A frame
// is an object when sink is set, an array when arr is set; the root frame
// at the bottom of the stack is neither, and its last field doubles as the
// marker that the root value exists.
type frame struct {
	last tokKind // category of the last token seen in this frame
	key  string  // pending member key, set between tokKey and the member's value

	sink Sink               // receives the members of an object
	obj  *Object            // the default sink, when it is in use
	seen mapset.Set[string] // keys delivered to a caller-provided sink
	arr  *Array             // accumulates the elements of an array
}

// A Parser converts text in a JSON-like dialect into a tree of values.
//
// A Parser owns reusable scratch state, so a single Parser amortizes
// allocations across many inputs. It is not safe for concurrent use; the
// package-level Parse functions construct a fresh Parser per call and are
// safe from any goroutine.
type Parser struct {
	opts *Options

	src  mem.RO   // the current input
	stk  []frame  // open containers; stk[0] is the root frame
	dec  []byte   // decoded text of the most recent string literal
	path []any    // scratch for ObjectFactory paths
	ic   Interner // deduplicates member keys
	root Value    // the completed root value
}

// NewParser constructs a Parser with the given options.
// A nil *Options provides defaults.
func NewParser(opts *Options) *Parser { return &Parser{opts: opts} }

// Parse parses a single value from input with default options. In case of
// error, the returned error has concrete type [*ParseError].
func Parse(input []byte) (Value, error) { return NewParser(nil).Parse(input) }

// ParseString parses a single value from input with default options. In
// case of error, the returned error has concrete type [*ParseError].
func ParseString(input string) (Value, error) { return NewParser(nil).ParseString(input) }

// MustParse parses input with default options, and panics if the parse
// fails. The panic value is the [*ParseError].
func MustParse(input []byte) Value {
	v, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return v
}

// MustParseString parses input with default options, and panics if the
// parse fails. The panic value is the [*ParseError].
func MustParseString(input string) Value {
	v, err := ParseString(input)
	if err != nil {
		panic(err)
	}
	return v
}

// Parse parses a single value from input. In case of error, the returned
// error has concrete type [*ParseError].
func (p *Parser) Parse(input []byte) (Value, error) {
	if input == nil {
		return nil, &ParseError{Code: NilInput, Message: "nil input"}
	}
	return p.parse(mem.B(input))
}

// ParseString parses a single value from input. In case of error, the
// returned error has concrete type [*ParseError].
func (p *Parser) ParseString(input string) (Value, error) { return p.parse(mem.S(input)) }

// reset prepares p to parse src, discarding state from previous parses.
func (p *Parser) reset(src mem.RO) {
	p.src = src
	p.stk = append(p.stk[:0], frame{})
	p.dec = p.dec[:0]
	p.path = p.path[:0]
	p.ic = make(Interner)
	p.root = nil
}

// parse consumes src in a single left-to-right pass. Container nesting
// lives on an explicit frame stack owned by p, so input depth is limited
// by memory rather than by the goroutine stack, and each byte is visited
// once with no backtracking.
func (p *Parser) parse(src mem.RO) (Value, error) {
	p.reset(src)
	n := src.Len()
	i := 0
	for i < n {
		c := src.At(i)
		if isSpace(c) {
			i++
			continue
		}
		if c == '/' && p.opts.allowComments() {
			end, err := p.scanComment(i)
			if err != nil {
				return nil, err
			}
			i = end
			continue
		}

		f := &p.stk[len(p.stk)-1]
		switch {
		case c == '{':
			if !valueLegal(f) {
				return nil, p.unexpected(f, i)
			}
			p.pushObject()
			i++

		case c == '[':
			if !valueLegal(f) {
				return nil, p.unexpected(f, i)
			}
			p.stk = append(p.stk, frame{last: tokArrStart, arr: new(Array)})
			i++

		case c == '}':
			if f.sink == nil || (f.last != tokObjStart && f.last&tokValue == 0) {
				return nil, p.unexpected(f, i)
			}
			v := Value(Foreign{Sink: f.sink})
			if f.obj != nil {
				v = f.obj
			}
			p.stk = p.stk[:len(p.stk)-1]
			p.attach(v, tokObjEnd)
			i++

		case c == ']':
			if f.arr == nil || (f.last != tokArrStart && f.last&tokValue == 0) {
				return nil, p.unexpected(f, i)
			}
			v := f.arr
			p.stk = p.stk[:len(p.stk)-1]
			p.attach(v, tokArrEnd)
			i++

		case c == ':':
			if f.sink == nil || f.last != tokKey {
				return nil, p.unexpected(f, i)
			}
			f.last = tokColon
			i++

		case c == ',':
			if (f.sink == nil && f.arr == nil) || f.last&tokValue == 0 {
				return nil, p.unexpected(f, i)
			}
			f.last = tokComma
			i++

		case c == '"':
			isKey := f.sink != nil && (f.last == tokObjStart || f.last == tokComma)
			if !isKey && !valueLegal(f) {
				return nil, p.unexpected(f, i)
			}
			end, err := p.scanString(i)
			if err != nil {
				return nil, err
			}
			if isKey {
				key := p.ic.Intern(p.dec)
				if err := p.checkKey(f, key, i); err != nil {
					return nil, err
				}
				f.key, f.last = key, tokKey
			} else if p.opts.recognizeDates() {
				p.attach(maybeTime(string(p.dec)), tokPrim)
			} else {
				p.attach(Text(p.dec), tokPrim)
			}
			i = end

		case isNumStart(c):
			if !valueLegal(f) {
				return nil, p.unexpected(f, i)
			}
			end, cls, err := p.scanNumber(i)
			if err != nil {
				return nil, err
			}
			v, err := p.number(i, end, cls, f.arr != nil && p.opts.forceDouble())
			if err != nil {
				return nil, err
			}
			p.attach(v, tokPrim)
			i = end

		case c == 't' || c == 'f' || c == 'n':
			if !valueLegal(f) {
				return nil, p.unexpected(f, i)
			}
			end, v, err := p.scanKeyword(i)
			if err != nil {
				return nil, err
			}
			p.attach(v, tokPrim)
			i = end

		default:
			return nil, p.unexpected(f, i)
		}
	}
	if len(p.stk) > 1 || p.stk[0].last == 0 {
		return nil, p.failf(UnexpectedEnd, n, "unexpected end of input")
	}
	return p.root, nil
}

// valueLegal reports whether a value or container may begin in frame f.
func valueLegal(f *frame) bool {
	switch {
	case f.arr != nil:
		return f.last == tokArrStart || f.last == tokComma
	case f.sink != nil:
		return f.last == tokColon
	default:
		return f.last == 0 // the root frame, before the root value
	}
}

// attach delivers the completed value v to the innermost open container,
// or records it as the root. vt is the token category v counts as when
// checking the token that follows it.
func (p *Parser) attach(v Value, vt tokKind) {
	f := &p.stk[len(p.stk)-1]
	f.last = vt
	switch {
	case f.arr != nil:
		f.arr.Append(v)
	case f.sink != nil:
		f.sink.SetMember(f.key, v)
		f.key = ""
	default:
		p.root = v
	}
}

// pushObject opens a new object frame, consulting the ObjectFactory for a
// sink if one is configured.
func (p *Parser) pushObject() {
	f := frame{last: tokObjStart}
	if fac := p.opts.objectFactory(); fac != nil {
		if s := fac(p.curPath()); s != nil {
			f.sink = s
			f.seen = mapset.New[string]()
			p.stk = append(p.stk, f)
			return
		}
	}
	f.obj = new(Object)
	f.sink = f.obj
	p.stk = append(p.stk, f)
}

// curPath rebuilds p.path with the member keys and array offsets leading
// from the root to the value now being opened, outermost first.
func (p *Parser) curPath() []any {
	p.path = p.path[:0]
	for i := 1; i < len(p.stk); i++ {
		f := &p.stk[i]
		if f.arr != nil {
			p.path = append(p.path, f.arr.Len())
		} else {
			p.path = append(p.path, f.key)
		}
	}
	return p.path
}

// checkKey validates the member key scanned at offset pos for frame f, and
// records it for duplicate detection.
func (p *Parser) checkKey(f *frame, key string, pos int) error {
	if !validKey(key, p.opts.strictKeys()) {
		return p.failf(InvalidKey, pos, "invalid key %q", key)
	}
	if f.obj != nil {
		if f.obj.Find(key) != nil {
			return p.failf(KeyNotUnique, pos, "duplicate key %q", key)
		}
	} else if f.seen.Has(key) {
		return p.failf(KeyNotUnique, pos, "duplicate key %q", key)
	} else {
		f.seen.Add(key)
	}
	return nil
}

// validKey reports whether key is a legal member key. A relaxed key is any
// string that is not empty or all blank. A strict key is an identifier:
// a letter, underscore, or dollar sign, then letters, digits, underscores,
// or dollar signs.
func validKey(key string, strict bool) bool {
	if !strict {
		return strings.TrimSpace(key) != ""
	}
	for i, r := range key {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return key != ""
}

// unexpected reports an UnexpectedToken failure for the byte at pos, given
// the state of frame f.
func (p *Parser) unexpected(f *frame, pos int) *ParseError {
	c := p.src.At(pos)
	if f.arr == nil && f.sink == nil && f.last != 0 {
		return p.failf(UnexpectedToken, pos, "unexpected %q after value", c)
	}
	return p.failf(UnexpectedToken, pos, "unexpected %q", c)
}

// failf constructs a ParseError of the given code for the byte at offset
// pos of the current input.
func (p *Parser) failf(code Code, pos int, msg string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Offset:  pos,
		Pos:     lineColAt(p.src, pos),
		Message: fmt.Sprintf(msg, args...),
	}
}
