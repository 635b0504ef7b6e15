package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// The whole input is read into memory up front.
type source struct {
	buf      []byte
	filename string

	line uint32 // line of ch (1-based)
	col  uint32 // column of ch (1-based, counted in characters)
	offs int    // byte offset of the character after ch

	ch     rune // current character, -1 at EOF
	chOffs int  // byte offset of ch

	err error // read error, if any
}

// newSource reads src completely and positions the reader on its first character.
func newSource(filename string, src io.Reader) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0,
		ch:       -1, // before first char, prevents a line bump in nextch
	}

	s.buf, s.err = io.ReadAll(src)
	if s.err != nil {
		s.buf = nil
	}

	s.nextch()
	return s
}

// nextch advances to the next character, setting ch to -1 at EOF.
//
// The position always refers to ch after nextch returns. Invalid UTF-8
// bytes are returned as utf8.RuneError one byte at a time; since they are
// never commands they are skipped like any other comment character.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.chOffs = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.ch = r
	s.offs += width
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col, s.chOffs)
}
