package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/bfc/internal/rtabi"
)

// Asm emits x86-64 GNU assembler source (AT&T syntax, System V ABI) that
// links against libc for putchar and getchar.
//
// The data pointer lives in %rbx, which is callee-saved and therefore
// survives the libc calls. main pushes %rbx on entry, which also leaves the
// stack 16-byte aligned for those calls.
var Asm Target = asmTarget{}

type asmTarget struct{}

func (asmTarget) Name() string { return "asm" }
func (asmTarget) Ext() string  { return ".S" }

func (asmTarget) Prologue() string {
	return lines(
		inst(".text", ""),
		inst(".globl", rtabi.EntrySymbol),
		inst(".type", rtabi.EntrySymbol+", @function"),
		rtabi.EntrySymbol+":",
		inst("pushq", "%rbx"),
		inst("leaq", rtabi.TapeSymbol+"(%rip), %rbx"),
	)
}

func (asmTarget) Epilogue() string {
	return lines(
		inst("xorl", "%eax, %eax"),
		inst("popq", "%rbx"),
		inst("ret", ""),
		inst(".size", rtabi.EntrySymbol+", .-"+rtabi.EntrySymbol),
		"",
		inst(".bss", ""),
		inst(".align", "32"),
		inst(".type", rtabi.TapeSymbol+", @object"),
		inst(".size", fmt.Sprintf("%s, %d", rtabi.TapeSymbol, rtabi.TapeSize)),
		rtabi.TapeSymbol+":",
		inst(".zero", fmt.Sprint(rtabi.TapeSize)),
		"",
		inst(".section", `.note.GNU-stack,"",@progbits`),
	)
}

func (asmTarget) MoveRight(n int) string {
	return inst("addq", fmt.Sprintf("$%d, %%rbx", n))
}

func (asmTarget) MoveLeft(n int) string {
	return inst("subq", fmt.Sprintf("$%d, %%rbx", n))
}

// Byte immediates must fit in 8 bits, so counts are reduced to the value
// they add to a cell.
func (asmTarget) Increment(n int) string {
	return inst("addb", fmt.Sprintf("$%d, (%%rbx)", rtabi.Wrap(n)))
}

func (asmTarget) Decrement(n int) string {
	return inst("subb", fmt.Sprintf("$%d, (%%rbx)", rtabi.Wrap(n)))
}

func (asmTarget) PrintChar() string {
	return lines(
		inst("movzbl", "(%rbx), %edi"),
		inst("call", rtabi.FnPutChar+"@PLT"),
	)
}

func (asmTarget) ReadChar() string {
	return lines(
		inst("call", rtabi.FnGetChar+"@PLT"),
		inst("movb", "%al, (%rbx)"),
	)
}

func (asmTarget) LoopEnter(l LoopLabels) string {
	return lines(
		inst("jmp", "."+l.Cond),
		"."+l.Body+":",
	)
}

func (asmTarget) LoopExit(l LoopLabels) string {
	return lines(
		"."+l.Cond+":",
		inst("cmpb", "$0, (%rbx)"),
		inst("jne", "."+l.Body),
	)
}

// inst formats one indented instruction or directive. Operands start in
// column 17 when op is short enough; longer ops still get one space.
func inst(op, operands string) string {
	if operands == "" {
		return "        " + op
	}
	return fmt.Sprintf("        %-7s %s", op, operands)
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}
