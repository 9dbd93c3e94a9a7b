package formula

import (
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokInput
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokLParen
	tokRParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of formula"
	case tokNumber:
		return "number"
	case tokIdent:
		return "name"
	case tokInput:
		return "'$'"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokPercent:
		return "'%'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	}
	return "token"
}

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

// scanner splits a formula into tokens.
type scanner struct {
	src string
	pos int
}

func (s *scanner) next() (token, error) {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
	start := s.pos
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := s.src[s.pos]
	switch {
	case isDigit(c) || c == '.':
		return s.number()
	case isLetter(c):
		for s.pos < len(s.src) && (isLetter(s.src[s.pos]) || isDigit(s.src[s.pos])) {
			s.pos++
		}
		return token{kind: tokIdent, pos: start, text: strings.ToLower(s.src[start:s.pos])}, nil
	}

	s.pos++
	kind := tokEOF
	switch c {
	case '$':
		kind = tokInput
	case '+':
		kind = tokPlus
	case '-':
		kind = tokMinus
	case '*':
		kind = tokStar
	case '/':
		kind = tokSlash
	case '%':
		kind = tokPercent
	case '(':
		kind = tokLParen
	case ')':
		kind = tokRParen
	case ',':
		kind = tokComma
	default:
		return token{}, newSyntaxError(start, "unexpected character %q", c)
	}
	return token{kind: kind, pos: start, text: s.src[start:s.pos]}, nil
}

func (s *scanner) number() (token, error) {
	start := s.pos
	for s.pos < len(s.src) && (isDigit(s.src[s.pos]) || s.src[s.pos] == '.') {
		s.pos++
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		end := s.pos + 1
		if end < len(s.src) && (s.src[end] == '+' || s.src[end] == '-') {
			end++
		}
		if end < len(s.src) && isDigit(s.src[end]) {
			for end < len(s.src) && isDigit(s.src[end]) {
				end++
			}
			s.pos = end
		}
	}
	text := s.src[start:s.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, newSyntaxError(start, "invalid number %q", text)
	}
	return token{kind: tokNumber, pos: start, text: text, num: f}, nil
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
