package ast

// NodeKind differentiates the kinds of node held in an Arena.
type NodeKind int

const (
	// Add computes L + R and stores the result back in the destination
	// register, where L is the destination's current value and R is the
	// evaluated r-value.
	Add NodeKind = iota
	Sub
	Mul
	Div
	Assign
	Min
	Max
	// RangeMap is an ordered first-match classifier, see RangeTable.
	RangeMap
	// Neighbours scopes a body of statements executed once per in-grid
	// neighbour of the current cell.
	Neighbours
)

// Node is a single AST element. Binary ops use Dest/RHS; RangeMap uses
// Range; Neighbours uses Body. Nodes are constructed once by the parser and
// are immutable afterward.
type Node struct {
	Kind NodeKind

	// Dest is slot 0 of a binary op: the destination register reference.
	Dest Operand
	// RHS is slot 1 of a binary op: the r-value operand.
	RHS Operand

	// Range is non-nil for a RangeMap node.
	Range *RangeTable

	// Body is the sequence of statement Operands executed per neighbour,
	// non-nil for a Neighbours node.
	Body []Operand
}

// NodeID is an index into an Arena's node slice.
type NodeID int32

// Arena is a bump-allocated store of Nodes, indexed by NodeID. All operand
// handles referring into an Arena form a DAG rooted at a Program's
// statement list; the Arena is dropped wholesale when the Program is
// retired.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add appends n to the arena and returns an Operand referencing it.
func (a *Arena) Add(n Node) Operand {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return NodeOperand(id)
}

// Get returns a pointer to the node identified by id. The pointer is only
// valid until the next call to Add, since Add may reallocate the backing
// slice.
func (a *Arena) Get(id NodeID) *Node {
	return &a.nodes[id]
}

// Len returns the number of nodes allocated in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// BinaryOp constructs a binary-operator node. dest must decode as a
// register operand; the arena does not check this, and when dest is not a
// register both back-ends evaluate the node but skip the store.
func (a *Arena) BinaryOp(kind NodeKind, dest, rhs Operand) Operand {
	return a.Add(Node{Kind: kind, Dest: dest, RHS: rhs})
}

// NewRangeMap constructs a RangeMap node over table rt.
func (a *Arena) NewRangeMap(rt *RangeTable) Operand {
	return a.Add(Node{Kind: RangeMap, Range: rt})
}

// NewNeighbours constructs a Neighbours node with the given body statements.
func (a *Arena) NewNeighbours(body []Operand) Operand {
	return a.Add(Node{Kind: Neighbours, Body: body})
}

// Program is an ordered sequence of top-level statement operands, each of
// which must decode as KindNode. Order matters: statements
// execute in turn per cell, and register writes are visible to later
// statements on the same cell.
type Program struct {
	Arena *Arena
	Stmts []Operand
}

// NewProgram wraps an arena and a top-level statement list into a Program.
func NewProgram(arena *Arena, stmts []Operand) *Program {
	return &Program{Arena: arena, Stmts: stmts}
}
