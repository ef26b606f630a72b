package parser

import (
	"strconv"

	"github.com/yangpath/yangpath/pkg/types"
)

// Scanner supplies the character-level primitives the expression parser is
// built on: peeking, whitespace skipping, literal tests, and token scanning,
// all tracking a byte offset for diagnostics.
//
// Expression text is restricted to ASCII operators and YANG identifiers, so
// the scanner works on bytes rather than runes.
type Scanner struct {
	input string
	pos   int
}

// NewScanner creates a scanner over the given input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Offset returns the current scan offset.
func (s *Scanner) Offset() int {
	return s.pos
}

// SetOffset rewinds (or advances) the scanner to an absolute offset.
// Used by the parser to backtrack after a failed lookahead.
func (s *Scanner) SetOffset(pos int) {
	s.pos = pos
}

// AtEnd reports whether the whole input has been consumed.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.input)
}

// Peek returns the next character without consuming it. At the end of the
// input it fails with an S0104 error carrying the boundary offset.
func (s *Scanner) Peek() (byte, error) {
	if s.pos >= len(s.input) {
		return 0, types.NewError(types.ErrUnexpectedEnd, "unexpected end of input", s.pos)
	}
	return s.input[s.pos], nil
}

// Advance consumes one character.
func (s *Scanner) Advance() {
	s.pos++
}

// AdvanceSkipWS consumes one character and any following whitespace.
func (s *Scanner) AdvanceSkipWS() {
	s.pos++
	s.SkipWS()
}

// SkipWS consumes a run of whitespace, reporting whether any was present.
func (s *Scanner) SkipWS() bool {
	start := s.pos
	for s.pos < len(s.input) && isSpace(s.input[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// TestString consumes the literal if the input continues with it, reporting
// whether it did.
func (s *Scanner) TestString(lit string) bool {
	if len(s.input)-s.pos < len(lit) {
		return false
	}
	if s.input[s.pos:s.pos+len(lit)] != lit {
		return false
	}
	s.pos += len(lit)
	return true
}

// Char consumes one required character, failing with an S0202 error when
// the input continues differently.
func (s *Scanner) Char(c byte) error {
	if s.pos >= len(s.input) || s.input[s.pos] != c {
		return types.NewError(types.ErrExpectedToken,
			"expected "+strconv.QuoteRune(rune(c)), s.pos)
	}
	s.pos++
	return nil
}

// UpTo consumes characters up to and including the delimiter and returns
// the text before it. A missing delimiter is an unterminated-literal error.
func (s *Scanner) UpTo(delim byte) (string, error) {
	start := s.pos
	for s.pos < len(s.input) {
		if s.input[s.pos] == delim {
			text := s.input[start:s.pos]
			s.pos++
			return text, nil
		}
		s.pos++
	}
	return "", types.NewError(types.ErrStringNotClosed, "unterminated literal", start)
}

// Float scans an unsigned floating-point literal: digits with an optional
// fraction, or a fraction alone.
func (s *Scanner) Float() (float64, error) {
	start := s.pos
	for s.pos < len(s.input) && isDigit(s.input[s.pos]) {
		s.pos++
	}
	if s.pos < len(s.input) && s.input[s.pos] == '.' &&
		s.pos+1 < len(s.input) && isDigit(s.input[s.pos+1]) {
		s.pos++
		for s.pos < len(s.input) && isDigit(s.input[s.pos]) {
			s.pos++
		}
	}
	if s.pos == start {
		return 0, types.NewError(types.ErrBadNumber, "malformed numeric literal", start)
	}
	f, err := strconv.ParseFloat(s.input[start:s.pos], 64)
	if err != nil {
		return 0, types.NewError(types.ErrBadNumber, "malformed numeric literal", start).WithCause(err)
	}
	return f, nil
}

// Identifier scans a YANG identifier: a letter or underscore followed by
// letters, digits, underscores, hyphens, and dots.
func (s *Scanner) Identifier() (string, error) {
	start := s.pos
	if s.pos >= len(s.input) || !isIdentStart(s.input[s.pos]) {
		return "", types.NewError(types.ErrBadIdentifier, "malformed identifier", s.pos)
	}
	s.pos++
	for s.pos < len(s.input) && isIdentPart(s.input[s.pos]) {
		s.pos++
	}
	return s.input[start:s.pos], nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-' || c == '.'
}
