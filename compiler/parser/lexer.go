package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokTemplate
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokTemplate:
		return "template literal"
	default:
		return "punctuation"
	}
}

type token struct {
	kind  tokenKind
	value string
	pos   int
	end   int
	// nl is set when a line terminator precedes the token.
	nl bool
}

var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*",
	"/", "%", "&", "|", "^", "!", "~", "?", ":", "=", ".",
}

// lex splits src into tokens. Positions are shifted by base.
func lex(src string, base int) ([]token, error) {
	var (
		toks []token
		i    int
		nl   bool
	)

	for {
		var err error
		i, nl, err = skipSpace(src, i, nl)
		if err != nil {
			return nil, &Error{Pos: base + i, Msg: err.Error()}
		}
		if i >= len(src) {
			toks = append(toks, token{kind: tokEOF, pos: base + i, end: base + i, nl: true})
			return toks, nil
		}

		start := i
		c := src[i]
		tok := token{pos: base + start, nl: nl}
		nl = false

		switch {
		case isIdentStart(c) || c >= utf8.RuneSelf:
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r) {
					break
				}
				i += size
			}
			if i == start {
				return nil, &Error{Pos: base + i, Msg: "unexpected character " + string(rune(c))}
			}
			tok.kind = tokIdent

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			i = scanNumber(src, i)
			tok.kind = tokNumber

		case c == '"' || c == '\'':
			end, err := scanString(src, i)
			if err != nil {
				return nil, &Error{Pos: base + i, Msg: err.Error()}
			}
			i = end
			tok.kind = tokString

		case c == '`':
			end, err := scanTemplate(src, i)
			if err != nil {
				return nil, &Error{Pos: base + i, Msg: err.Error()}
			}
			i = end
			tok.kind = tokTemplate

		default:
			for _, p := range punctuators {
				if strings.HasPrefix(src[i:], p) {
					// a?.5:1 is a conditional, not optional chaining
					if p == "?." && i+2 < len(src) && isDigit(src[i+2]) {
						continue
					}
					i += len(p)
					break
				}
			}
			if i == start {
				return nil, &Error{Pos: base + i, Msg: "unexpected character " + string(rune(c))}
			}
			tok.kind = tokPunct
		}

		tok.value = src[start:i]
		tok.end = base + i
		toks = append(toks, tok)
	}
}

// skipSpace skips whitespace and comments, reporting crossed line breaks.
func skipSpace(src string, i int, nl bool) (int, bool, error) {
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n' || c == '\r':
			nl = true
			i++
		case c == ' ' || c == '\t' || c == '\f' || c == '\v':
			i++
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexAny(src[i:], "\r\n")
			if end < 0 {
				return len(src), nl, nil
			}
			i += end
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return i, nl, scanError("unterminated comment")
			}
			if strings.ContainsAny(src[i:i+2+end], "\r\n") {
				nl = true
			}
			i += end + 4
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			switch {
			case r == '\u2028' || r == '\u2029':
				nl = true
			case r != utf8.RuneError && unicode.IsSpace(r):
			default:
				return i, nl, nil
			}
			i += size
		}
	}
	return i, nl, nil
}

func isIdentStart(c byte) bool {
	return c == '$' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func scanNumber(src string, i int) int {
	if strings.HasPrefix(src[i:], "0x") || strings.HasPrefix(src[i:], "0X") ||
		strings.HasPrefix(src[i:], "0b") || strings.HasPrefix(src[i:], "0o") {
		i += 2
		for i < len(src) && (isHex(src[i]) || src[i] == '_') {
			i++
		}
		if i < len(src) && src[i] == 'n' {
			i++
		}
		return i
	}

	for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
		i++
	}
	if i < len(src) && src[i] == 'n' {
		return i + 1
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			i = j
			for i < len(src) && isDigit(src[i]) {
				i++
			}
		}
	}
	return i
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

type scanError string

func (e scanError) Error() string { return string(e) }

func scanString(src string, i int) (int, error) {
	quote := src[i]
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '\n':
			return 0, scanError("unterminated string")
		case quote:
			return i + 1, nil
		}
	}
	return 0, scanError("unterminated string")
}

// scanTemplate returns the end of the template literal starting at i,
// skipping over nested substitutions.
func scanTemplate(src string, i int) (int, error) {
	for i++; i < len(src); i++ {
		switch {
		case src[i] == '\\':
			i++
		case src[i] == '`':
			return i + 1, nil
		case strings.HasPrefix(src[i:], "${"):
			end, err := scanBraces(src, i+1)
			if err != nil {
				return 0, err
			}
			i = end - 1
		}
	}
	return 0, scanError("unterminated template literal")
}

// scanBraces returns the position after the brace closing the one at i.
func scanBraces(src string, i int) (int, error) {
	depth := 0
	for ; i < len(src); i++ {
		switch c := src[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		case '"', '\'':
			end, err := scanString(src, i)
			if err != nil {
				return 0, err
			}
			i = end - 1
		case '`':
			end, err := scanTemplate(src, i)
			if err != nil {
				return 0, err
			}
			i = end - 1
		}
	}
	return 0, scanError("unterminated template substitution")
}

// templateParts splits the raw text of a template literal token into its
// quasis and the offsets of its substitutions.
func templateParts(raw string) (quasis []string, exprs [][2]int) {
	body := raw[1 : len(raw)-1]
	last := 0
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\':
			i++
		case strings.HasPrefix(body[i:], "${"):
			end, _ := scanBraces(body, i+1)
			quasis = append(quasis, body[last:i])
			// +1 accounts for the opening backtick
			exprs = append(exprs, [2]int{i + 2 + 1, end - 1 + 1})
			last = end
			i = end - 1
		}
	}
	quasis = append(quasis, body[last:])
	return quasis, exprs
}

// MatchBrace returns the position after the brace that closes the one at
// src[i], skipping strings and template literals.
func MatchBrace(src string, i int) (int, error) {
	return scanBraces(src, i)
}
