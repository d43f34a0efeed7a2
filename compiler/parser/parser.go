// Package parser parses the script subset accepted in components: modules
// with imports and exports, declarations, functions, arrow functions and the
// usual statements and expressions. Classes, destructuring and regular
// expression literals are not supported.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AnatoleLucet/sig/compiler/ast"
)

type parser struct {
	src  string
	base int
	toks []token
	pos  int
	tok  token

	// noIn disables the in operator while parsing a for-in head.
	noIn bool
	// fn tracks function nesting for return statements.
	fn int
}

// ParseProgram parses a module. offset is the position of src in the
// enclosing file; all node ranges are shifted by it.
func ParseProgram(src string, offset int) (prog *ast.Program, err error) {
	p, err := newParser(src, offset)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)

	prog = &ast.Program{Range: ast.Range{Start: offset, End: offset + len(src)}}
	for p.tok.kind != tokEOF {
		prog.Body = append(prog.Body, p.parseStatement(true))
	}
	return prog, nil
}

// ParseExpression parses a single expression, such as the content of a
// template tag.
func ParseExpression(src string, offset int) (x ast.Expr, err error) {
	p, err := newParser(src, offset)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)

	x = p.parseExpression()
	if p.tok.kind != tokEOF {
		p.unexpected()
	}
	return x, nil
}

func newParser(src string, offset int) (*parser, error) {
	toks, err := lex(src, offset)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, base: offset, toks: toks}
	p.tok = toks[0]
	return p, nil
}

func (p *parser) recover(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}

func (p *parser) errorf(pos int, format string, args ...any) {
	panic(bailout{&Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}})
}

func (p *parser) unexpected() {
	if p.tok.kind == tokEOF {
		p.errorf(p.tok.pos, "unexpected end of input")
	}
	p.errorf(p.tok.pos, "unexpected token %q", p.tok.value)
}

func (p *parser) next() token {
	t := p.tok
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.tok = p.toks[p.pos]
	return t
}

func (p *parser) peek(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

// is reports whether the current token is the punctuator or keyword v.
func (p *parser) is(v string) bool {
	return (p.tok.kind == tokPunct || p.tok.kind == tokIdent) && p.tok.value == v
}

func (p *parser) eat(v string) bool {
	if p.is(v) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(v string) token {
	if !p.is(v) {
		if p.tok.kind == tokEOF {
			p.errorf(p.tok.pos, "expected %q, found end of input", v)
		}
		p.errorf(p.tok.pos, "expected %q, found %q", v, p.tok.value)
	}
	return p.next()
}

// semicolon consumes a statement terminator, inserting one where the
// grammar allows it.
func (p *parser) semicolon() {
	if p.eat(";") {
		return
	}
	if p.is("}") || p.tok.kind == tokEOF || p.tok.nl {
		return
	}
	p.unexpected()
}

// end returns the end offset of the last consumed token.
func (p *parser) end() int {
	if p.pos == 0 {
		return p.base
	}
	return p.toks[p.pos-1].end
}

var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true,
}

func (p *parser) parseIdent() *ast.Ident {
	if p.tok.kind != tokIdent || reserved[p.tok.value] {
		if p.tok.kind == tokEOF {
			p.errorf(p.tok.pos, "expected identifier, found end of input")
		}
		p.errorf(p.tok.pos, "expected identifier, found %q", p.tok.value)
	}
	t := p.next()
	return &ast.Ident{Range: ast.Range{Start: t.pos, End: t.end}, Name: t.value}
}

// parseName parses a property name, where reserved words are allowed.
func (p *parser) parseName() *ast.Ident {
	if p.tok.kind != tokIdent {
		p.errorf(p.tok.pos, "expected property name, found %q", p.tok.value)
	}
	t := p.next()
	return &ast.Ident{Range: ast.Range{Start: t.pos, End: t.end}, Name: t.value}
}

func (p *parser) parseString() *ast.Literal {
	if p.tok.kind != tokString {
		p.errorf(p.tok.pos, "expected string, found %q", p.tok.value)
	}
	t := p.next()
	return &ast.Literal{
		Range: ast.Range{Start: t.pos, End: t.end},
		Kind:  ast.String,
		Raw:   t.value,
		Value: unquote(t.value),
	}
}

// unquote decodes a string literal. Escapes Go does not know are kept as
// the escaped character.
func unquote(raw string) string {
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
		case 'u', 'x':
			n := 2
			if e == 'u' {
				n = 4
			}
			if e == 'u' && i+1 < len(body) && body[i+1] == '{' {
				end := strings.IndexByte(body[i:], '}')
				if end > 0 {
					if v, err := strconv.ParseUint(body[i+2:i+end], 16, 32); err == nil {
						b.WriteRune(rune(v))
						i += end
						continue
					}
				}
			}
			if i+n < len(body) {
				if v, err := strconv.ParseUint(body[i+1:i+1+n], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += n
					continue
				}
			}
			b.WriteByte(e)
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}
