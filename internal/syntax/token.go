// Package syntax implements lexical and syntactic analysis for tape programs.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	_EOF Token = iota // end of input

	// Pointer movement
	_Right // >
	_Left  // <

	// Cell arithmetic
	_Add // +
	_Sub // -

	// I/O
	_Put // .
	_Get // ,

	// Loops
	_Lbrack // [
	_Rbrack // ]

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:    "EOF",
	_Right:  ">",
	_Left:   "<",
	_Add:    "+",
	_Sub:    "-",
	_Put:    ".",
	_Get:    ",",
	_Lbrack: "[",
	_Rbrack: "]",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// IsRepeatable reports whether consecutive occurrences of t are merged
// into a single counted node by the parser.
func (t Token) IsRepeatable() bool {
	switch t {
	case _Right, _Left, _Add, _Sub:
		return true
	}
	return false
}

// Exported tokens for building token streams outside the package.
const (
	EOF    Token = _EOF
	Right  Token = _Right
	Left   Token = _Left
	Add    Token = _Add
	Sub    Token = _Sub
	Put    Token = _Put
	Get    Token = _Get
	Lbrack Token = _Lbrack
	Rbrack Token = _Rbrack
)

// commands maps each command character to its token.
var commands = map[rune]Token{
	'>': _Right,
	'<': _Left,
	'+': _Add,
	'-': _Sub,
	'.': _Put,
	',': _Get,
	'[': _Lbrack,
	']': _Rbrack,
}

// LookupCommand returns the token for the command character r.
// The second result is false if r is not a command and should be skipped.
func LookupCommand(r rune) (Token, bool) {
	tok, ok := commands[r]
	return tok, ok
}
