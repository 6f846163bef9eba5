package interp

import "cellatom/internal/ast"

// Eval evaluates an operand as an r-value against st, recursing into the
// arena for node operands. Binary ops evaluated as r-values yield their
// stored-back value.
func Eval(arena *ast.Arena, st *State, op ast.Operand) int16 {
	switch op.Kind {
	case ast.KindLiteral:
		return op.Lit
	case ast.KindRegister:
		return loadRegister(st, op)
	case ast.KindNode:
		return evalNode(arena, st, arena.Get(op.Node))
	}
	return 0
}

// Exec executes an operand as a top-level statement. It is equivalent to
// Eval but documents call sites where the result is discarded.
func Exec(arena *ast.Arena, st *State, op ast.Operand) {
	Eval(arena, st, op)
}

func evalNode(arena *ast.Arena, st *State, n *ast.Node) int16 {
	switch n.Kind {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Assign, ast.Min, ast.Max:
		return evalBinary(arena, st, n)
	case ast.RangeMap:
		return evalRangeMap(arena, st, n)
	case ast.Neighbours:
		evalNeighbours(arena, st, n)
		return 0
	}
	return 0
}

// evalBinary evaluates a binary-operator node: L is the destination
// register's current value, R is the evaluated r-value operand, slot 0 is
// loaded before slot 1 (left-to-right evaluation order). If Dest does not
// decode as a register the store is silently skipped.
func evalBinary(arena *ast.Arena, st *State, n *ast.Node) int16 {
	l := Eval(arena, st, n.Dest)
	r := Eval(arena, st, n.RHS)

	var result int16
	switch n.Kind {
	case ast.Add:
		result = l + r
	case ast.Sub:
		result = l - r
	case ast.Mul:
		result = l * r
	case ast.Div:
		result = l / r
	case ast.Assign:
		result = r
	case ast.Min:
		if l < r {
			result = l
		} else {
			result = r
		}
	case ast.Max:
		if l > r {
			result = l
		} else {
			result = r
		}
	}

	if n.Dest.IsRegister() {
		storeRegister(st, n.Dest, result)
	}
	return result
}

// evalRangeMap evaluates the keyed operand once, then returns the result of
// the first entry whose inclusive [min, max] contains the key. If no entry
// matches, the result is 0.
func evalRangeMap(arena *ast.Arena, st *State, n *ast.Node) int16 {
	rt := n.Range
	key := Eval(arena, st, rt.Key)
	for _, e := range rt.Entries {
		min := Eval(arena, st, e.Min)
		max := Eval(arena, st, e.Max)
		if key >= min && key <= max {
			return Eval(arena, st, e.Result)
		}
	}
	return 0
}

// neighbourOffsets enumerates the eight relative neighbour coordinates of a
// cell in deterministic order; (0, 0), the cell itself, is omitted.
var neighbourOffsets = [8][2]int16{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// evalNeighbours visits each in-grid neighbour of the current cell (edges
// have fewer than eight; the grid is not toroidal), loading the neighbour's
// old-grid value into a0 and then executing each body statement in order.
// a1..a9 are not reset between neighbours, enabling accumulation patterns
// such as summing a value across the neighbourhood.
func evalNeighbours(arena *ast.Arena, st *State, n *ast.Node) {
	for _, d := range neighbourOffsets {
		nx := st.X + d[0]
		ny := st.Y + d[1]
		if nx < 0 || nx >= st.H || ny < 0 || ny >= st.W {
			continue
		}
		st.A[0] = st.Old[index(nx, ny, st.W)]
		for _, stmt := range n.Body {
			Exec(arena, st, stmt)
		}
	}
}

// loadRegister returns the current contents of the register op refers to,
// or -1 for an undefined index.
func loadRegister(st *State, op ast.Operand) int16 {
	class, slot := op.Classify()
	switch class {
	case ast.RegLocal:
		return st.A[slot]
	case ast.RegGlobal:
		return st.G[slot]
	case ast.RegCurrent:
		return st.V
	default:
		return -1
	}
}

// storeRegister writes val into the register op refers to. Writes to
// undefined indices are no-ops.
func storeRegister(st *State, op ast.Operand, val int16) {
	class, slot := op.Classify()
	switch class {
	case ast.RegLocal:
		st.A[slot] = val
	case ast.RegGlobal:
		st.G[slot] = val
	case ast.RegCurrent:
		st.V = val
	}
}
