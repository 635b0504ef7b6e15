package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Root:
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *Loop:
		for _, s := range n.Body {
			Walk(s, v)
		}
	}
}

// Statistics summarizes the shape of a tree.
type Statistics struct {
	Loops    int // Loop nodes
	MaxDepth int // deepest loop nesting, 0 without loops
	Leaves   int // non-loop statements
	Commands int // source commands represented, brackets included
}

// Stats computes the Statistics of the tree rooted at node.
func Stats(node Node) Statistics {
	var st Statistics
	var visit func(list []Stmt, depth int)
	visit = func(list []Stmt, depth int) {
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		for _, s := range list {
			switch n := s.(type) {
			case *Loop:
				st.Loops++
				st.Commands += 2
				visit(n.Body, depth+1)
			case Counted:
				st.Leaves++
				st.Commands += n.Times()
			default:
				st.Leaves++
				st.Commands++
			}
		}
	}

	switch n := node.(type) {
	case *Root:
		visit(n.Body, 0)
	case *Loop:
		st.Loops++
		st.Commands += 2
		visit(n.Body, 1)
	case Counted:
		st.Leaves, st.Commands = 1, n.Times()
	case Stmt:
		st.Leaves, st.Commands = 1, 1
	}
	return st
}
