// Package rtabi defines the runtime model shared by every code generation
// target. Programs built through any backend must observe the same tape,
// cell and I/O behavior, so backends take these values from here instead of
// hard-coding them.
package rtabi

// Tape layout
const (
	// TapeSize is the number of cells on the tape.
	TapeSize = 30000

	// CellBits is the width of a cell. Arithmetic wraps modulo 1<<CellBits.
	CellBits = 8

	// CellMask reduces a count to the cell range.
	CellMask = 1<<CellBits - 1
)

// Symbol names used in generated code
const (
	// TapeSymbol is the name of the tape array.
	TapeSymbol = "tape"

	// PtrSymbol is the data pointer variable in the C target.
	PtrSymbol = "ptr"

	// EntrySymbol is the program entry point.
	EntrySymbol = "main"

	// FnPutChar writes the low byte of its argument to stdout.
	FnPutChar = "putchar"

	// FnGetChar reads one byte from stdin, returning EOF (-1) at end of input.
	// Both targets store the low byte of the result, so EOF reads as 255.
	FnGetChar = "getchar"
)

// Label hints used when naming loop labels
const (
	LabelLoopBody = "loop_body"
	LabelLoopCond = "loop_condition"
)

// Wrap reduces n to the value it adds to a cell.
func Wrap(n int) int {
	return n & CellMask
}
