package syntax

import "io"

// Scanner turns source text into a stream of command tokens.
//
// Every character that is not one of the eight commands is a comment and
// is skipped. After the last command the scanner produces exactly one EOF
// token; any further call to Next reports that the stream is exhausted.
type Scanner struct {
	source // embedded character reader

	tok    Token
	tokPos Pos

	// one token of lookahead, filled by Peek
	peeked  bool
	peekTok Token
	peekPos Pos

	done bool // EOF has been produced
}

// NewScanner creates a Scanner reading all of src.
func NewScanner(filename string, src io.Reader) *Scanner {
	return &Scanner{source: *newSource(filename, src)}
}

// Err returns the error encountered while reading the source, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Next advances to the next token. It returns false once the stream is
// exhausted, that is when called again after the EOF token was produced.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	if s.peeked {
		s.tok, s.tokPos = s.peekTok, s.peekPos
		s.peeked = false
	} else {
		s.tok, s.tokPos = s.scan()
	}
	s.done = s.tok == _EOF
	return true
}

// Peek returns the token that the next call to Next will produce without
// consuming it. Peeking past EOF returns EOF.
func (s *Scanner) Peek() Token {
	if s.done {
		return _EOF
	}
	if !s.peeked {
		s.peekTok, s.peekPos = s.scan()
		s.peeked = true
	}
	return s.peekTok
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return s.tok
}

// Pos returns the position of the current token.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// scan reads characters until it finds a command or the end of input.
func (s *Scanner) scan() (Token, Pos) {
	for s.ch >= 0 {
		if tok, ok := LookupCommand(s.ch); ok {
			pos := s.pos()
			s.nextch()
			return tok, pos
		}
		s.nextch()
	}
	return _EOF, s.pos()
}
