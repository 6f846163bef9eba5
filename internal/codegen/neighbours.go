package codegen

import (
	"tinygo.org/x/go-llvm"

	"cellatom/internal/ast"
)

// offset is one of the eight fixed relative neighbour coordinates.
type offset struct{ dx, dy int64 }

// neighbourOffsets enumerates the eight neighbour offsets in the same order
// as internal/interp's evalNeighbours, so both back-ends visit neighbours
// identically.
var neighbourOffsets = []offset{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// lowerNeighbours unrolls the eight fixed neighbour offsets at compile
// time instead of emitting a dynamic counted loop. Each offset is guarded
// by a runtime bounds check; only when the neighbour is in-grid does the
// body block load oldgrid[index(nx,ny)] into a0 and execute the body
// statements, converging back to a single continuation block afterward.
//
// This sidesteps the original compiler's loop-exit overshoot bug by
// construction: there is no induction variable to overshoot, since the
// neighbourhood is always this fixed 3x3 window minus the centre. See
// DESIGN.md.
func (cg *cellGen) lowerNeighbours(arena *ast.Arena, n *ast.Node) {
	b := cg.b
	i16 := regType

	for _, d := range neighbourOffsets {
		nx := b.CreateAdd(cg.x, llvm.ConstInt(i16, uint64(uint16(d.dx)), true), "")
		ny := b.CreateAdd(cg.y, llvm.ConstInt(i16, uint64(uint16(d.dy)), true), "")

		inBounds := cg.inGrid(nx, ny)

		body := llvm.AddBasicBlock(cg.fn, "nb.body")
		skip := llvm.AddBasicBlock(cg.fn, "nb.skip")
		b.CreateCondBr(inBounds, body, skip)

		b.SetInsertPointAtEnd(body)
		idx := b.CreateAdd(b.CreateMul(nx, cg.width, ""), ny, "") // index(nx,ny) = nx*W + ny
		ptr := b.CreateGEP(cg.oldGrid, []llvm.Value{idx}, "")
		b.CreateStore(b.CreateLoad(ptr, ""), cg.a[0])
		for _, stmt := range n.Body {
			cg.lowerOperand(arena, stmt)
		}
		b.CreateBr(skip)

		b.SetInsertPointAtEnd(skip)
	}
}

// inGrid emits 0 <= nx < H && 0 <= ny < W.
func (cg *cellGen) inGrid(nx, ny llvm.Value) llvm.Value {
	b := cg.b
	zero := llvm.ConstInt(regType, 0, false)
	xLo := b.CreateICmp(llvm.IntSGE, nx, zero, "")
	xHi := b.CreateICmp(llvm.IntSLT, nx, cg.height, "")
	yLo := b.CreateICmp(llvm.IntSGE, ny, zero, "")
	yHi := b.CreateICmp(llvm.IntSLT, ny, cg.width, "")
	return b.CreateAnd(b.CreateAnd(xLo, xHi, ""), b.CreateAnd(yLo, yHi, ""), "")
}
