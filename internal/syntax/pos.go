package syntax

import "fmt"

// Pos represents a position in a source file.
// The zero value is an invalid position.
type Pos struct {
	filename string // source file name
	line     uint32 // 1-based line number
	col      uint32 // 1-based column number (characters in line)
	offset   int    // 0-based byte offset in the file
}

// NewPos creates a new Pos with the given filename, line, column and byte offset.
func NewPos(filename string, line, col uint32, offset int) Pos {
	return Pos{filename: filename, line: line, col: col, offset: offset}
}

// String formats the position as "filename:line:col", or "line:col"
// when there is no filename. Invalid positions print as "-".
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is valid (line > 0).
func (p Pos) IsValid() bool {
	return p.line > 0
}

func (p Pos) Line() uint32     { return p.line }
func (p Pos) Col() uint32      { return p.col }
func (p Pos) Offset() int      { return p.offset }
func (p Pos) Filename() string { return p.filename }
