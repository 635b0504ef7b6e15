// Package codegen lowers a syntax tree to target source text.
//
// The tree walk is shared; a Target only supplies the text for each kind of
// node. The walk decides how a count is lowered: in optimized mode a counted
// leaf becomes one instantiation of its template with the literal count,
// otherwise the count-1 template is repeated count times, exactly as if the
// parser had never merged the run.
package codegen

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/you-not-fish/bfc/internal/rtabi"
	"github.com/you-not-fish/bfc/internal/syntax"
)

// Target supplies the text templates of one output language. Returned text
// carries no trailing newline; it may span several lines.
type Target interface {
	Name() string // short name used on the command line
	Ext() string  // file extension of generated source, with the dot

	Prologue() string
	Epilogue() string

	MoveRight(n int) string
	MoveLeft(n int) string
	Increment(n int) string
	Decrement(n int) string
	PrintChar() string
	ReadChar() string

	// LoopEnter is emitted before a loop body and LoopExit after it.
	LoopEnter(l LoopLabels) string
	LoopExit(l LoopLabels) string
}

// LoopLabels are the two labels allocated for one loop.
type LoopLabels struct {
	Body string // start of the loop body
	Cond string // the zero test that branches back to Body
}

// Options control code generation.
type Options struct {
	Optimized bool        // lower counts as one parameterized instruction
	Labels    LabelSource // nil means a fresh Counter
}

// Generate writes the program for root to w.
//
// It fails only when w does. A nil root, or a tree containing a nested Root
// or a node from outside package syntax, is a programming error and panics.
func Generate(w io.Writer, root *syntax.Root, t Target, opts Options) error {
	if root == nil {
		panic("codegen: nil root")
	}

	labels := opts.Labels
	if labels == nil {
		labels = NewCounter()
	}

	g := &generator{
		t:         t,
		e:         emitter{w: w},
		labels:    labels,
		optimized: opts.Optimized,
	}
	g.e.emit(t.Prologue())
	g.stmtList(root.Body)
	g.e.emit(t.Epilogue())
	return g.e.err
}

// GenerateString returns the program for root as a string.
func GenerateString(root *syntax.Root, t Target, opts Options) string {
	var b strings.Builder
	_ = Generate(&b, root, t, opts) // strings.Builder never fails
	return b.String()
}

// generator holds the state of one Generate call.
type generator struct {
	t         Target
	e         emitter
	labels    LabelSource
	optimized bool
}

func (g *generator) stmtList(list []syntax.Stmt) {
	for _, s := range list {
		g.stmt(s)
	}
}

func (g *generator) stmt(s syntax.Stmt) {
	switch n := s.(type) {
	case *syntax.MoveRight:
		g.counted(n.Count, g.t.MoveRight)
	case *syntax.MoveLeft:
		g.counted(n.Count, g.t.MoveLeft)
	case *syntax.Increment:
		g.counted(n.Count, g.t.Increment)
	case *syntax.Decrement:
		g.counted(n.Count, g.t.Decrement)
	case *syntax.PrintChar:
		g.e.emit(g.t.PrintChar())
	case *syntax.ReadChar:
		g.e.emit(g.t.ReadChar())
	case *syntax.Loop:
		g.loop(n)
	default:
		panic(fmt.Sprintf("codegen: unexpected node %T", s))
	}
}

// counted lowers a leaf carrying a repetition count.
func (g *generator) counted(n int, tmpl func(int) string) {
	if g.optimized {
		g.e.emit(tmpl(n))
		return
	}
	one := tmpl(1)
	for i := 0; i < n; i++ {
		g.e.emit(one)
	}
}

func (g *generator) loop(n *syntax.Loop) {
	l := LoopLabels{
		Body: g.labels.Next(rtabi.LabelLoopBody),
		Cond: g.labels.Next(rtabi.LabelLoopCond),
	}
	g.e.emit(g.t.LoopEnter(l))
	g.stmtList(n.Body)
	g.e.emit(g.t.LoopExit(l))
}

// ----------------------------------------------------------------------------
// Target registry

var targets = map[string]Target{
	Asm.Name(): Asm,
	C.Name():   C,
}

// LookupTarget returns the target with the given name.
func LookupTarget(name string) (Target, error) {
	if t, ok := targets[strings.ToLower(name)]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown target %q (want one of %s)", name, strings.Join(TargetNames(), ", "))
}

// TargetNames returns the names of all targets, sorted.
func TargetNames() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
