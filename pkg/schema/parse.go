package schema

import (
	"fmt"
	"strings"
)

var scalarNames = map[string]Kind{
	"u8":     U8,
	"byte":   U8,
	"u16":    U16,
	"u32":    U32,
	"u64":    U64,
	"size":   Size,
	"bool":   Bool,
	"string": String,
	"bytes":  Bytes,
}

type parser struct {
	expr string
	pos  int
}

// Parse parses the type expression. The grammar is:
//
//	type   = scalar | "[]" type | "map[" scalar "]" type | "?" type | "*" type
//	scalar = "u8" | "byte" | "u16" | "u32" | "u64" | "size" | "bool" | "string"
//
// "bytes" is also accepted as a non-scalar leaf type. Spaces are allowed
// between tokens. An optional of an optional (including one wrapped into
// boxes, like "?*?u8") is rejected, nil can't tell which of them is absent.
func Parse(expr string) (*Type, error) {
	p := &parser{expr: expr}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.expr) {
		return nil, p.errorf("unexpected %q", p.expr[p.pos:])
	}
	return t, nil
}

// MustParse is like Parse, but panics on error.
func MustParse(expr string) *Type {
	t, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at %d in %q", ErrSyntax, fmt.Sprintf(format, args...), p.pos, p.expr)
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.expr) && p.expr[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) consume(token string) bool {
	p.skipSpaces()
	if strings.HasPrefix(p.expr[p.pos:], token) {
		p.pos += len(token)
		return true
	}
	return false
}

func (p *parser) parseType() (*Type, error) {
	switch {
	case p.consume("[]"):
		return p.wrap(Array)
	case p.consume("?"):
		start := p.pos
		t, err := p.wrap(Optional)
		if err != nil {
			return nil, err
		}
		if t.Elem.unboxed().Kind == Optional {
			p.pos = start
			return nil, p.errorf("nested optional %s is ambiguous", t)
		}
		return t, nil
	case p.consume("*"):
		return p.wrap(Box)
	case p.consume("map["):
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if !key.IsScalar() {
			return nil, p.errorf("%s can't be a map key", key)
		}
		if !p.consume("]") {
			return nil, p.errorf("']' expected")
		}
		val, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &Type{Kind: Map, Key: key, Elem: val}, nil
	}
	return p.parseScalar()
}

func (p *parser) wrap(k Kind) (*Type, error) {
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &Type{Kind: k, Elem: elem}, nil
}

func (p *parser) parseScalar() (*Type, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.expr) && isIdentChar(p.expr[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return nil, p.errorf("type expected")
	}
	name := p.expr[start:p.pos]
	k, ok := scalarNames[name]
	if !ok {
		p.pos = start
		return nil, p.errorf("unknown type %q", name)
	}
	return &Type{Kind: k}, nil
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
