package template

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/AnatoleLucet/sig/compiler/ast"
	"github.com/AnatoleLucet/sig/compiler/parser"
)

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// IsVoid reports whether tag is an HTML element without content.
func IsVoid(tag string) bool {
	return voidElements[atom.Lookup([]byte(strings.ToLower(tag)))]
}

type scanner struct {
	src string
	pos int
	doc *Document
}

// Parse parses a component source.
func Parse(src string) (doc *Document, err error) {
	s := &scanner{src: src, doc: &Document{}}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()

	s.doc.Fragment = s.fragment(0, true)
	if s.pos < len(s.src) {
		s.errorf(s.pos, "unexpected %q", s.closing())
	}
	return s.doc, nil
}

func (s *scanner) errorf(pos int, format string, args ...any) {
	panic(&Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) at(prefix string) bool { return strings.HasPrefix(s.rest(), prefix) }

func (s *scanner) expect(v string) {
	if !s.at(v) {
		s.errorf(s.pos, "expected %q", v)
	}
	s.pos += len(v)
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// closing returns the closing tag or block at the current position.
func (s *scanner) closing() string {
	end := strings.IndexAny(s.rest(), ">}")
	if end < 0 {
		return s.rest()
	}
	return s.rest()[:end+1]
}

// fragment parses nodes up to a closing tag, a block continuation or the
// end of input.
func (s *scanner) fragment(start int, top bool) *Fragment {
	f := &Fragment{}

	for s.pos < len(s.src) {
		switch {
		case s.at("</") || s.at("{/") || s.at("{:"):
			f.Range = ast.Range{Start: start, End: s.pos}
			return f
		case s.at("<!--"):
			end := strings.Index(s.src[s.pos+4:], "-->")
			if end < 0 {
				s.errorf(s.pos, "unterminated comment")
			}
			s.pos += 4 + end + 3
		case s.at("<"):
			if n := s.element(top); n != nil {
				f.Nodes = append(f.Nodes, n)
			}
		case s.at("{"):
			f.Nodes = append(f.Nodes, s.mustache())
		default:
			f.Nodes = append(f.Nodes, s.text())
		}
	}

	f.Range = ast.Range{Start: start, End: s.pos}
	return f
}

func (s *scanner) text() *Text {
	start := s.pos
	end := strings.IndexAny(s.rest(), "<{")
	if end < 0 {
		s.pos = len(s.src)
	} else {
		s.pos += end
	}
	return &Text{Range: ast.Range{Start: start, End: s.pos}, Data: s.src[start:s.pos]}
}

func (s *scanner) tagName() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isSpace(c) || c == '>' || c == '/' || c == '=' || c == '{' {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// element parses an element. Script and style elements at the top level
// are stored on the document and nil is returned.
func (s *scanner) element(top bool) Node {
	start := s.pos
	s.pos++
	tag := s.tagName()
	if tag == "" {
		s.errorf(start, "expected tag name")
	}

	if top && (tag == "script" || tag == "style") {
		s.rawBlock(start, tag)
		return nil
	}

	el := &Element{
		Tag:       tag,
		Component: tag[0] >= 'A' && tag[0] <= 'Z',
		Inline:    strings.Contains(tag, "-"),
	}

	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			s.errorf(start, "unterminated <%s>", tag)
		}
		if s.at("/>") {
			s.pos += 2
			el.SelfClosing = true
			el.Children = &Fragment{Range: ast.Range{Start: s.pos, End: s.pos}}
			el.Range = ast.Range{Start: start, End: s.pos}
			return el
		}
		if s.at(">") {
			s.pos++
			break
		}
		el.Attrs = append(el.Attrs, s.attribute())
	}

	if IsVoid(tag) && !el.Component {
		el.Children = &Fragment{Range: ast.Range{Start: s.pos, End: s.pos}}
		el.Range = ast.Range{Start: start, End: s.pos}
		return el
	}

	el.Children = s.fragment(s.pos, false)
	if !s.at("</") {
		s.errorf(start, "<%s> is not closed", tag)
	}
	closeStart := s.pos
	s.pos += 2
	if name := s.tagName(); name != tag {
		s.errorf(closeStart, "</%s> does not match <%s>", name, tag)
	}
	s.skipSpace()
	s.expect(">")

	el.Range = ast.Range{Start: start, End: s.pos}
	return el
}

func (s *scanner) rawBlock(start int, tag string) {
	b := &Block{Attrs: map[string]string{}}
	for {
		s.skipSpace()
		if s.at(">") {
			s.pos++
			break
		}
		if s.pos >= len(s.src) {
			s.errorf(start, "unterminated <%s>", tag)
		}
		a := s.attribute()
		if a.Kind != Static {
			s.errorf(a.Start, "<%s> attributes must be static", tag)
		}
		b.Attrs[a.Name] = a.Text()
	}

	closeTag := "</" + tag + ">"
	end := strings.Index(s.rest(), closeTag)
	if end < 0 {
		s.errorf(start, "<%s> is not closed", tag)
	}
	b.Offset = s.pos
	b.Content = s.src[s.pos : s.pos+end]
	s.pos += end + len(closeTag)
	b.Range = ast.Range{Start: start, End: s.pos}

	switch tag {
	case "script":
		if s.doc.Script != nil {
			s.errorf(start, "a component can only have one <script>")
		}
		s.doc.Script = b
	case "style":
		if s.doc.Style != nil {
			s.errorf(start, "a component can only have one <style>")
		}
		s.doc.Style = b
	}
}

func (s *scanner) attribute() *Attribute {
	start := s.pos

	// {name} is short for name={name}
	if s.at("{") {
		x := s.expression(s.pos)
		id, ok := x.X.(*ast.Ident)
		if !ok {
			s.errorf(start, "expected attribute name")
		}
		return &Attribute{
			Range: ast.Range{Start: start, End: s.pos},
			Kind:  Dynamic,
			Name:  id.Name,
			Value: []Node{x},
		}
	}

	name := s.tagName()
	if name == "" {
		s.errorf(start, "expected attribute name")
	}
	a := &Attribute{Kind: Static, Name: name}

	if i := strings.IndexByte(name, ':'); i > 0 {
		if kind, ok := directives[name[:i]]; ok {
			a.Kind = kind
			a.Name = name[i+1:]
			if a.Name == "" {
				s.errorf(start, "directive %s needs a name", name)
			}
		}
	}

	if s.at("=") {
		s.pos++
		a.Value = s.attributeValue()
	}
	a.Range = ast.Range{Start: start, End: s.pos}

	switch a.Kind {
	case Static:
		for _, part := range a.Value {
			if _, ok := part.(*Expression); ok {
				a.Kind = Dynamic
			}
		}
	case Class:
		// class:active is short for class:active={active}
		if a.Value == nil {
			a.X = &ast.Ident{Range: ast.Range{Start: start + len("class:"), End: a.End}, Name: a.Name}
			break
		}
		fallthrough
	default:
		a.X = a.Expr()
		if a.X == nil {
			s.errorf(start, "%s expects a single {expression} value", name)
		}
		a.Value = nil
	}
	return a
}

func (s *scanner) attributeValue() []Node {
	switch {
	case s.at(`"`) || s.at("'"):
		quote := s.src[s.pos : s.pos+1]
		s.pos++
		var parts []Node
		for !s.at(quote) {
			if s.pos >= len(s.src) {
				s.errorf(s.pos, "unterminated attribute value")
			}
			if s.at("{") {
				parts = append(parts, s.expression(s.pos))
				continue
			}
			start := s.pos
			end := strings.IndexAny(s.rest(), quote+"{")
			if end < 0 {
				s.errorf(start, "unterminated attribute value")
			}
			s.pos += end
			parts = append(parts, &Text{Range: ast.Range{Start: start, End: s.pos}, Data: s.src[start:s.pos]})
		}
		s.pos++
		if parts == nil {
			parts = []Node{&Text{Range: ast.Range{Start: s.pos - 1, End: s.pos - 1}}}
		}
		return parts
	case s.at("{"):
		return []Node{s.expression(s.pos)}
	default:
		start := s.pos
		for s.pos < len(s.src) && !isSpace(s.src[s.pos]) && s.src[s.pos] != '>' && !s.at("/>") {
			s.pos++
		}
		if start == s.pos {
			s.errorf(start, "expected attribute value")
		}
		return []Node{&Text{Range: ast.Range{Start: start, End: s.pos}, Data: s.src[start:s.pos]}}
	}
}

// tag reads a mustache tag at the current position and returns its
// trimmed content and the offset of that content.
func (s *scanner) tag() (string, int) {
	start := s.pos
	end, err := parser.MatchBrace(s.src, s.pos)
	if err != nil {
		s.errorf(start, "unterminated tag: %v", err)
	}
	s.pos = end

	body := s.src[start+1 : end-1]
	trimmed := strings.TrimLeft(body, " \t\r\n")
	offset := start + 1 + len(body) - len(trimmed)
	return strings.TrimRight(trimmed, " \t\r\n"), offset
}

func (s *scanner) parseExpr(src string, offset int) ast.Expr {
	if strings.TrimSpace(src) == "" {
		s.errorf(offset, "expected expression")
	}
	x, err := parser.ParseExpression(src, offset)
	if err != nil {
		perr := err.(*parser.Error)
		s.errorf(perr.Pos, "%s", perr.Msg)
	}
	return x
}

func (s *scanner) expression(start int) *Expression {
	body, offset := s.tag()
	return &Expression{
		Range: ast.Range{Start: start, End: s.pos},
		X:     s.parseExpr(body, offset),
	}
}

// keyword splits "#if x" into "#if" and the rest.
func keyword(body string, offset int) (string, string, int) {
	i := strings.IndexAny(body, " \t\r\n")
	if i < 0 {
		return body, "", offset + len(body)
	}
	rest := strings.TrimLeft(body[i:], " \t\r\n")
	return body[:i], rest, offset + len(body) - len(rest)
}

func (s *scanner) mustache() Node {
	start := s.pos
	if len(s.src) > s.pos+1 {
		switch s.src[s.pos+1] {
		case '#':
			return s.block(start)
		case '@':
			body, offset := s.tag()
			kw, rest, restOffset := keyword(body, offset)
			if kw != "@html" {
				s.errorf(start, "unknown tag %s", kw)
			}
			return &Expression{
				Range: ast.Range{Start: start, End: s.pos},
				Name:  "html",
				X:     s.parseExpr(rest, restOffset),
			}
		}
	}
	return s.expression(start)
}

func (s *scanner) close(start int, name string) {
	at := s.pos
	if !s.at("{/") {
		s.errorf(start, "{#%s} is not closed", name)
	}
	body, _ := s.tag()
	if body != "/"+name {
		s.errorf(at, "{%s} does not match {#%s}", body, name)
	}
}

func (s *scanner) block(start int) Node {
	body, offset := s.tag()
	kw, rest, restOffset := keyword(body, offset)

	switch kw {
	case "#if":
		b := &IfBlock{}
		test := s.parseExpr(rest, restOffset)
		for {
			branch := &Branch{Test: test, Body: s.fragment(s.pos, false)}
			branch.Range = branch.Body.Range
			b.Branches = append(b.Branches, branch)

			if !s.at("{:") {
				break
			}
			at := s.pos
			body, offset := s.tag()
			kw, rest, restOffset := keyword(body, offset)
			if kw != ":else" {
				s.errorf(at, "unexpected {%s} in {#if}", kw)
			}
			if rest == "" {
				b.Else = s.fragment(s.pos, false)
				break
			}
			kw, rest, restOffset = keyword(rest, restOffset)
			if kw != "if" {
				s.errorf(at, "expected {:else} or {:else if ...}")
			}
			test = s.parseExpr(rest, restOffset)
		}
		s.close(start, "if")
		b.Range = ast.Range{Start: start, End: s.pos}
		return b

	case "#each":
		b := &EachBlock{}
		i := strings.LastIndex(rest, " as ")
		if i < 0 {
			s.errorf(start, "expected {#each items as item}")
		}
		b.Items = s.parseExpr(rest[:i], restOffset)

		alias := rest[i+len(" as "):]
		aliasOffset := restOffset + i + len(" as ")
		names := strings.Split(alias, ",")
		if len(names) > 2 {
			s.errorf(aliasOffset, "expected {#each items as item, index}")
		}
		b.Item = s.ident(names[0], aliasOffset)
		if len(names) == 2 {
			b.Index = s.ident(names[1], aliasOffset+len(names[0])+1)
		}

		b.Body = s.fragment(s.pos, false)
		s.close(start, "each")
		b.Range = ast.Range{Start: start, End: s.pos}
		return b

	case "#await":
		b := &AwaitBlock{}
		// {#await p then v} skips the pending state
		if i := strings.LastIndex(rest, " then"); i >= 0 && isAlias(rest[i+len(" then"):]) {
			b.Promise = s.parseExpr(rest[:i], restOffset)
			b.Value = s.optIdent(rest[i+len(" then"):], restOffset+i+len(" then"))
			b.Then = s.fragment(s.pos, false)
		} else {
			b.Promise = s.parseExpr(rest, restOffset)
			b.Pending = s.fragment(s.pos, false)
		}

		for s.at("{:") {
			at := s.pos
			body, offset := s.tag()
			kw, rest, restOffset := keyword(body, offset)
			switch {
			case kw == ":then" && b.Then == nil && b.Catch == nil:
				b.Value = s.optIdent(rest, restOffset)
				b.Then = s.fragment(s.pos, false)
			case kw == ":catch" && b.Catch == nil:
				b.Error = s.optIdent(rest, restOffset)
				b.Catch = s.fragment(s.pos, false)
			default:
				s.errorf(at, "unexpected {%s} in {#await}", body)
			}
		}
		s.close(start, "await")
		b.Range = ast.Range{Start: start, End: s.pos}
		return b

	case "#key":
		b := &KeyBlock{Key: s.parseExpr(rest, restOffset)}
		b.Body = s.fragment(s.pos, false)
		s.close(start, "key")
		b.Range = ast.Range{Start: start, End: s.pos}
		return b
	}

	s.errorf(start, "unknown block {%s}", kw)
	return nil
}

func isAlias(s string) bool {
	s = strings.TrimSpace(s)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '$' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func (s *scanner) optIdent(src string, offset int) *ast.Ident {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	return s.ident(src, offset)
}

func (s *scanner) ident(src string, offset int) *ast.Ident {
	trimmed := strings.TrimLeft(src, " \t\r\n")
	offset += len(src) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t\r\n")

	if trimmed == "" || !isAlias(trimmed) {
		s.errorf(offset, "expected identifier, found %q", trimmed)
	}
	return &ast.Ident{Range: ast.Range{Start: offset, End: offset + len(trimmed)}, Name: trimmed}
}
