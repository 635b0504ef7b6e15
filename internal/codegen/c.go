package codegen

import (
	"fmt"

	"github.com/you-not-fish/bfc/internal/rtabi"
)

// C emits a C99 translation unit. Loops map onto while statements, so the
// loop labels only appear as comments that line up with the assembly output.
// Cells are unsigned char, which gives the same wrapping as the assembly.
var C Target = cTarget{}

type cTarget struct{}

func (cTarget) Name() string { return "c" }
func (cTarget) Ext() string  { return ".c" }

func (cTarget) Prologue() string {
	return lines(
		"#include <stdio.h>",
		"",
		fmt.Sprintf("static unsigned char %s[%d];", rtabi.TapeSymbol, rtabi.TapeSize),
		"",
		fmt.Sprintf("int %s(void)", rtabi.EntrySymbol),
		"{",
		stmt("unsigned char *%s = %s;", rtabi.PtrSymbol, rtabi.TapeSymbol),
	)
}

func (cTarget) Epilogue() string {
	return lines(
		stmt("return 0;"),
		"}",
	)
}

func (cTarget) MoveRight(n int) string { return stmt("%s += %d;", rtabi.PtrSymbol, n) }
func (cTarget) MoveLeft(n int) string  { return stmt("%s -= %d;", rtabi.PtrSymbol, n) }
func (cTarget) Increment(n int) string { return stmt("*%s += %d;", rtabi.PtrSymbol, n) }
func (cTarget) Decrement(n int) string { return stmt("*%s -= %d;", rtabi.PtrSymbol, n) }

func (cTarget) PrintChar() string {
	return stmt("%s(*%s);", rtabi.FnPutChar, rtabi.PtrSymbol)
}

func (cTarget) ReadChar() string {
	return stmt("*%s = (unsigned char)%s();", rtabi.PtrSymbol, rtabi.FnGetChar)
}

func (cTarget) LoopEnter(l LoopLabels) string {
	return stmt("while (*%s) { /* %s */", rtabi.PtrSymbol, l.Body)
}

func (cTarget) LoopExit(l LoopLabels) string {
	return stmt("} /* %s */", l.Cond)
}

// stmt formats one indented statement.
func stmt(format string, args ...interface{}) string {
	return "    " + fmt.Sprintf(format, args...)
}
