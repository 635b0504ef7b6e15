package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Root:
		p.printf("Root %s\n", n.pos)
		p.list(n.Body)

	case *Loop:
		p.printf("Loop %s..%s\n", n.pos, n.Rbrack)
		p.list(n.Body)

	case Counted:
		p.printf("%s %s count=%d\n", nodeName(n), n.Pos(), n.Times())

	default:
		p.printf("%s %s\n", nodeName(n), n.Pos())
	}
}

func (p *printer) list(body []Stmt) {
	p.indent++
	for _, s := range body {
		p.print(s)
	}
	p.indent--
}

// Format returns a compact one-line form of the tree, for example
// "Root([Increment(3), PrintChar])".
func Format(node Node) string {
	var b strings.Builder
	format(&b, node)
	return b.String()
}

func format(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Root:
		b.WriteString("Root(")
		formatList(b, n.Body)
		b.WriteString(")")
	case *Loop:
		b.WriteString("Loop(")
		formatList(b, n.Body)
		b.WriteString(")")
	case Counted:
		fmt.Fprintf(b, "%s(%d)", nodeName(n), n.Times())
	case nil:
		b.WriteString("<nil>")
	default:
		b.WriteString(nodeName(n))
	}
}

func formatList(b *strings.Builder, list []Stmt) {
	b.WriteString("[")
	for i, s := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, s)
	}
	b.WriteString("]")
}

// nodeName returns the variant name of a node.
func nodeName(node Node) string {
	switch node.(type) {
	case *Root:
		return "Root"
	case *MoveRight:
		return "MoveRight"
	case *MoveLeft:
		return "MoveLeft"
	case *Increment:
		return "Increment"
	case *Decrement:
		return "Decrement"
	case *PrintChar:
		return "PrintChar"
	case *ReadChar:
		return "ReadChar"
	case *Loop:
		return "Loop"
	}
	return fmt.Sprintf("%T", node)
}
