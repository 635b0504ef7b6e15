package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// The tree has one container at the top (Root) and statements below it.
// Statements are either leaves (pointer moves, cell arithmetic, I/O) or
// loops, which hold a nested statement list.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of the first command belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Stmt is the interface for nodes that may appear in a statement list.
type Stmt interface {
	Node
	aStmt()
}

// Counted is implemented by the leaves that carry a repetition count.
type Counted interface {
	Stmt
	Times() int
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type stmt struct{ node }

func (*stmt) aStmt() {}

// repeat is embedded in the counted leaves.
type repeat struct {
	stmt
	Count int // number of merged source commands, always >= 1
}

func (r *repeat) Times() int { return r.Count }

// ----------------------------------------------------------------------------
// Nodes

// Root is the top of every tree. There is exactly one per program.
type Root struct {
	node
	Body []Stmt
}

// MoveRight moves the data pointer Count cells to the right (>).
type MoveRight struct{ repeat }

// MoveLeft moves the data pointer Count cells to the left (<).
type MoveLeft struct{ repeat }

// Increment adds Count to the current cell (+).
type Increment struct{ repeat }

// Decrement subtracts Count from the current cell (-).
type Decrement struct{ repeat }

// PrintChar writes the current cell to output (.).
type PrintChar struct{ stmt }

// ReadChar reads one byte of input into the current cell (,).
type ReadChar struct{ stmt }

// Loop repeats Body while the current cell is non-zero ([ ... ]).
type Loop struct {
	stmt
	Body   []Stmt
	Rbrack Pos // position of the closing bracket
}

// ----------------------------------------------------------------------------
// Constructors
//
// The parser builds nodes through these; they are exported so tests and
// other packages can assemble trees by hand.

// NewRoot returns a Root holding body.
func NewRoot(pos Pos, body ...Stmt) *Root {
	return &Root{node: node{pos}, Body: body}
}

// NewMoveRight returns a MoveRight node with the given count.
func NewMoveRight(pos Pos, count int) *MoveRight {
	return &MoveRight{newRepeat(pos, count)}
}

// NewMoveLeft returns a MoveLeft node with the given count.
func NewMoveLeft(pos Pos, count int) *MoveLeft {
	return &MoveLeft{newRepeat(pos, count)}
}

// NewIncrement returns an Increment node with the given count.
func NewIncrement(pos Pos, count int) *Increment {
	return &Increment{newRepeat(pos, count)}
}

// NewDecrement returns a Decrement node with the given count.
func NewDecrement(pos Pos, count int) *Decrement {
	return &Decrement{newRepeat(pos, count)}
}

// NewPrintChar returns a PrintChar node.
func NewPrintChar(pos Pos) *PrintChar {
	return &PrintChar{stmt{node{pos}}}
}

// NewReadChar returns a ReadChar node.
func NewReadChar(pos Pos) *ReadChar {
	return &ReadChar{stmt{node{pos}}}
}

// NewLoop returns a Loop node holding body.
func NewLoop(pos Pos, body ...Stmt) *Loop {
	return &Loop{stmt: stmt{node{pos}}, Body: body}
}

func newRepeat(pos Pos, count int) repeat {
	if count < 1 {
		panic("syntax: repeat count must be positive")
	}
	return repeat{stmt: stmt{node{pos}}, Count: count}
}
