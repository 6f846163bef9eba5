package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cellatom/internal/ast"
	"cellatom/internal/interp"
)

// identityProgram builds "= v v".
func identityProgram() *ast.Program {
	a := ast.NewArena()
	stmt := a.BinaryOp(ast.Assign, ast.V, ast.V)
	return ast.NewProgram(a, []ast.Operand{stmt})
}

// constantFillProgram builds "= v 7".
func constantFillProgram(v int16) *ast.Program {
	a := ast.NewArena()
	stmt := a.BinaryOp(ast.Assign, ast.V, ast.Literal(v))
	return ast.NewProgram(a, []ast.Operand{stmt})
}

// sumOfNeighboursProgram builds:
//
//	= a1 0
//	neighbours ( + a1 a0 )
//	= v a1
func sumOfNeighboursProgram() *ast.Program {
	a := ast.NewArena()
	reset := a.BinaryOp(ast.Assign, ast.Register(1), ast.Literal(0))
	accum := a.BinaryOp(ast.Add, ast.Register(1), ast.Register(0))
	nb := a.NewNeighbours([]ast.Operand{accum})
	store := a.BinaryOp(ast.Assign, ast.V, ast.Register(1))
	return ast.NewProgram(a, []ast.Operand{reset, nb, store})
}

// lifeProgram builds the Conway's Life B3/S23 program// scenario 3:
//
//	= a1 0
//	neighbours ( + a1 a0 )
//	= v [ a1 | (3,3) => 1, (2,2) => v, (0,8) => 0, ]
func lifeProgram() *ast.Program {
	a := ast.NewArena()
	reset := a.BinaryOp(ast.Assign, ast.Register(1), ast.Literal(0))
	accum := a.BinaryOp(ast.Add, ast.Register(1), ast.Register(0))
	nb := a.NewNeighbours([]ast.Operand{accum})

	rt := &ast.RangeTable{
		Key: ast.Register(1),
		Entries: []ast.RangeEntry{
			{Min: ast.Literal(3), Max: ast.Literal(3), Result: ast.Literal(1)},
			{Min: ast.Literal(2), Max: ast.Literal(2), Result: ast.V},
			{Min: ast.Literal(0), Max: ast.Literal(8), Result: ast.Literal(0)},
		},
	}
	rm := a.NewRangeMap(rt)
	store := a.BinaryOp(ast.Assign, ast.V, rm)
	return ast.NewProgram(a, []ast.Operand{reset, nb, store})
}

// rangeClassifyProgram builds:
//
//	= v [ v | (0,0) => 10, (1,5) => 20, (6,100) => 30, ]
func rangeClassifyProgram() *ast.Program {
	a := ast.NewArena()
	rt := &ast.RangeTable{
		Key: ast.V,
		Entries: []ast.RangeEntry{
			{Min: ast.Literal(0), Max: ast.Literal(0), Result: ast.Literal(10)},
			{Min: ast.Literal(1), Max: ast.Literal(5), Result: ast.Literal(20)},
			{Min: ast.Literal(6), Max: ast.Literal(100), Result: ast.Literal(30)},
		},
	}
	rm := a.NewRangeMap(rt)
	store := a.BinaryOp(ast.Assign, ast.V, rm)
	return ast.NewProgram(a, []ast.Operand{store})
}

// globalCarryProgram builds:
//
//	+ g0 1
//	= v g0
func globalCarryProgram() *ast.Program {
	a := ast.NewArena()
	incr := a.BinaryOp(ast.Add, ast.Global(0), ast.Literal(1))
	store := a.BinaryOp(ast.Assign, ast.V, ast.Global(0))
	return ast.NewProgram(a, []ast.Operand{incr, store})
}

func TestIdentity(t *testing.T) {
	prog := identityProgram()
	old := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9}
	new := make([]int16, len(old))
	interp.RunOneStep(old, new, 3, 3, prog)
	assert.Equal(t, old, new)
}

func TestConstantFill(t *testing.T) {
	prog := constantFillProgram(7)
	old := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9}
	new := make([]int16, len(old))
	interp.RunOneStep(old, new, 3, 3, prog)
	for _, v := range new {
		assert.EqualValues(t, 7, v)
	}
}

func TestEmptyProgramIsIdentity(t *testing.T) {
	a := ast.NewArena()
	prog := ast.NewProgram(a, nil)
	old := []int16{1, 2, 3, 4}
	new := make([]int16, len(old))
	interp.RunOneStep(old, new, 2, 2, prog)
	assert.Equal(t, old, new)
}

func TestSumOfNeighbours(t *testing.T) {
	prog := sumOfNeighboursProgram()
	// [[0,1,0],[1,1,1],[0,1,0]] flattened with index(x,y) = x*W+y, W=H=3:
	// row x=0: (0,0)=0 (0,1)=1 (0,2)=0
	// row x=1: (1,0)=1 (1,1)=1 (1,2)=1
	// row x=2: (2,0)=0 (2,1)=1 (2,2)=0
	old := []int16{0, 1, 0, 1, 1, 1, 0, 1, 0}
	new := make([]int16, len(old))
	interp.RunOneStep(old, new, 3, 3, prog)

	get := func(x, y int16) int16 { return new[int(x)*3+int(y)] }
	assert.EqualValues(t, 4, get(1, 1), "centre cell")
	assert.EqualValues(t, 3, get(0, 0), "corner cell")
	assert.EqualValues(t, 3, get(0, 1), "edge cell")
}

func TestNeighbourCountByPosition(t *testing.T) {
	// Any program that counts neighbours visited; reuse sumOfNeighbours on
	// an all-ones grid so the count equals the sum.
	prog := sumOfNeighboursProgram()
	w, h := int16(3), int16(3)
	old := make([]int16, int(w)*int(h))
	for i := range old {
		old[i] = 1
	}
	new := make([]int16, len(old))
	interp.RunOneStep(old, new, w, h, prog)

	get := func(x, y int16) int16 { return new[int(x)*int(w)+int(y)] }
	assert.EqualValues(t, 3, get(0, 0), "corner visits exactly three neighbours")
	assert.EqualValues(t, 5, get(0, 1), "edge visits exactly five neighbours")
	assert.EqualValues(t, 8, get(1, 1), "interior visits exactly eight neighbours")
}

func TestLifeGlider(t *testing.T) {
	const w, h = 10, 10
	old := make([]int16, w*h)
	set := func(x, y int16) { old[int(x)*w+int(y)] = 1 }
	// Glider at top-left.
	set(0, 1)
	set(1, 2)
	set(2, 0)
	set(2, 1)
	set(2, 2)

	prog := lifeProgram()
	cur := old
	for i := 0; i < 4; i++ {
		next := make([]int16, w*h)
		interp.RunOneStep(cur, next, w, h, prog)
		cur = next
	}

	expected := make([]int16, w*h)
	esset := func(x, y int16) { expected[int(x)*w+int(y)] = 1 }
	// Glider translated diagonally by (1, 1) after 4 steps.
	esset(1, 2)
	esset(2, 3)
	esset(3, 1)
	esset(3, 2)
	esset(3, 3)

	assert.Equal(t, expected, cur)
}

func TestRangeMapClassification(t *testing.T) {
	prog := rangeClassifyProgram()
	old := []int16{0, 1, 5, 6, 100}
	new := make([]int16, len(old))
	interp.RunOneStep(old, new, int16(len(old)), 1, prog)
	assert.Equal(t, []int16{10, 20, 20, 30, 30}, new)
}

func TestRangeMapNoEntriesYieldsZero(t *testing.T) {
	a := ast.NewArena()
	rt := &ast.RangeTable{Key: ast.V}
	rm := a.NewRangeMap(rt)
	store := a.BinaryOp(ast.Assign, ast.V, rm)
	prog := ast.NewProgram(a, []ast.Operand{store})

	old := []int16{5}
	new := make([]int16, 1)
	interp.RunOneStep(old, new, 1, 1, prog)
	assert.EqualValues(t, 0, new[0])
}

func TestGlobalRegisterCarry(t *testing.T) {
	prog := globalCarryProgram()
	old := []int16{0, 0, 0, 0}
	new := make([]int16, len(old))
	interp.RunOneStep(old, new, 2, 2, prog)
	// Row-major visitation: (0,0)=1 (0,1)=2 (1,0)=3 (1,1)=4.
	assert.Equal(t, []int16{1, 2, 3, 4}, new)
}

func TestUndefinedRegisterReadYieldsNegativeOne(t *testing.T) {
	a := ast.NewArena()
	undefined := ast.Operand{Kind: ast.KindRegister, Reg: 22}
	store := a.BinaryOp(ast.Assign, ast.V, undefined)
	prog := ast.NewProgram(a, []ast.Operand{store})

	old := []int16{9}
	new := make([]int16, 1)
	interp.RunOneStep(old, new, 1, 1, prog)
	assert.EqualValues(t, -1, new[0])
}

func TestInvalidDestinationIsNoOp(t *testing.T) {
	a := ast.NewArena()
	// Dest is a literal, not a register: the store must be silently
	// skipped rather than panicking.
	bad := a.BinaryOp(ast.Assign, ast.Literal(3), ast.Literal(9))
	prog := ast.NewProgram(a, []ast.Operand{bad})

	old := []int16{1}
	new := make([]int16, 1)
	interp.RunOneStep(old, new, 1, 1, prog)
	assert.EqualValues(t, 1, new[0])
}
