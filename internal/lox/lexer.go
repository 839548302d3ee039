package lox

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Scanner turns source text into a token stream. It never stops at the
// first bad character or unterminated string: every lexical error is
// collected and scanning continues, so a single run can report everything
// wrong with a source file at once.
type Scanner struct {
	source []byte
	tokens []Token
	line   int
	idx    int  // index of the current byte in source, -1 before scanning starts
	ch     byte // byte at idx
	errs   *multierror.Error
}

// NewScanner prepares a Scanner over source. Line numbers are 1-based.
func NewScanner(source string) *Scanner {
	return &Scanner{
		source: []byte(source),
		line:   1,
		idx:    -1,
	}
}

// Scan returns every token in source, terminated by an EOF token on the
// final line. The second return value accumulates one *ParseError per
// lexical error found; it is nil if scanning was clean.
func (s *Scanner) Scan() ([]Token, error) {
	s.tokens = make([]Token, 0, len(s.source)/4+1)

	for s.next() {
		s.scanOne()
	}

	s.tokens = append(s.tokens, Token{Type: EOF, Line: s.line})
	return s.tokens, s.errs.ErrorOrNil()
}

// next advances the cursor and reports whether a byte is now current.
func (s *Scanner) next() bool {
	if s.idx == len(s.source)-1 {
		return false
	}
	s.idx++
	s.ch = s.source[s.idx]
	return true
}

// peek returns the next byte without consuming it, or 0 at end of input.
func (s *Scanner) peek() byte {
	if s.idx == len(s.source)-1 {
		return 0
	}
	return s.source[s.idx+1]
}

func (s *Scanner) peekNext() byte {
	if s.idx >= len(s.source)-2 {
		return 0
	}
	return s.source[s.idx+2]
}

func (s *Scanner) scanOne() {
	switch s.ch {
	case ' ', '\t', '\r':
		// nothing
	case '\n':
		s.line++
	case '(':
		s.emitSingle(LEFT_PAREN)
	case ')':
		s.emitSingle(RIGHT_PAREN)
	case '{':
		s.emitSingle(LEFT_BRACE)
	case '}':
		s.emitSingle(RIGHT_BRACE)
	case ',':
		s.emitSingle(COMMA)
	case '.':
		s.emitSingle(DOT)
	case '-':
		s.emitSingle(MINUS)
	case '+':
		s.emitSingle(PLUS)
	case ';':
		s.emitSingle(SEMICOLON)
	case '*':
		s.emitSingle(STAR)
	case '/':
		if s.peek() == '/' {
			s.lineComment()
		} else {
			s.emitSingle(SLASH)
		}
	case '=':
		s.emitOneOrTwo(EQUAL, EQUAL_EQUAL)
	case '!':
		s.emitOneOrTwo(BANG, BANG_EQUAL)
	case '<':
		s.emitOneOrTwo(LESS, LESS_EQUAL)
	case '>':
		s.emitOneOrTwo(GREATER, GREATER_EQUAL)
	case '"':
		s.stringLiteral()
	default:
		switch {
		case isDigit(s.ch):
			s.numberLiteral()
		case isAlpha(s.ch):
			s.identifier()
		default:
			s.errorf("Unexpected character: %c", s.ch)
		}
	}
}

func (s *Scanner) emitSingle(typ TokenType) {
	s.tokens = append(s.tokens, Token{Type: typ, Lexeme: string(s.ch), Line: s.line})
}

// emitOneOrTwo emits `two` (a two-byte lexeme ending in '=') if the next byte
// is '=', consuming it; otherwise emits the single-byte `one`.
func (s *Scanner) emitOneOrTwo(one, two TokenType) {
	if s.peek() == '=' {
		first := s.ch
		s.next()
		s.tokens = append(s.tokens, Token{Type: two, Lexeme: string(first) + "=", Line: s.line})
		return
	}
	s.emitSingle(one)
}

func (s *Scanner) lineComment() {
	for s.peek() != '\n' && s.peek() != 0 {
		s.next()
	}
}

func (s *Scanner) stringLiteral() {
	startLine := s.line
	var sb strings.Builder

	for {
		if s.peek() == '"' {
			s.next()
			s.tokens = append(s.tokens, Token{
				Type:    STRING,
				Lexeme:  `"` + sb.String() + `"`,
				Literal: sb.String(),
				Line:    startLine,
			})
			return
		}
		if s.peek() == 0 {
			s.errorAt(startLine, "Unterminated string.")
			return
		}
		s.next()
		if s.ch == '\n' {
			s.line++
		}
		sb.WriteByte(s.ch)
	}
}

func (s *Scanner) numberLiteral() {
	start := s.idx

	for isDigit(s.peek()) {
		s.next()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.next()
		for isDigit(s.peek()) {
			s.next()
		}
	}

	lexeme := string(s.source[start : s.idx+1])
	n, _ := strconv.ParseFloat(lexeme, 64)
	s.tokens = append(s.tokens, Token{Type: NUMBER, Lexeme: lexeme, Literal: n, Line: s.line})
}

func (s *Scanner) identifier() {
	start := s.idx
	for isAlphaNumeric(s.peek()) {
		s.next()
	}

	lexeme := string(s.source[start : s.idx+1])
	if typ, ok := reserved[lexeme]; ok {
		switch typ {
		case TRUE:
			s.tokens = append(s.tokens, Token{Type: typ, Lexeme: lexeme, Literal: true, Line: s.line})
		case FALSE:
			s.tokens = append(s.tokens, Token{Type: typ, Lexeme: lexeme, Literal: false, Line: s.line})
		default:
			s.tokens = append(s.tokens, Token{Type: typ, Lexeme: lexeme, Line: s.line})
		}
		return
	}
	s.tokens = append(s.tokens, Token{Type: IDENTIFIER, Lexeme: lexeme, Line: s.line})
}

func (s *Scanner) errorf(format string, args ...any) {
	s.errorAt(s.line, fmt.Sprintf(format, args...))
}

func (s *Scanner) errorAt(line int, message string) {
	s.errs = multierror.Append(s.errs, &ParseError{Line: line, Message: message})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
