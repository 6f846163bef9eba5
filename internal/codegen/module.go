// Package codegen lowers an *ast.Program into LLVM IR, optimises it, and
// JIT-compiles it into a callable Automaton, using tinygo.org/x/go-llvm
// for IR construction. The lowering algorithm itself (register allocas,
// range-map phi chains, neighbour bounds checks) follows a C++ reference
// compiler's per-cell codegen.
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"cellatom/internal/ast"
)

// regType is the integer width used throughout codegen: 16-bit signed,
// matching the cell register domain.
var regType = llvm.Int16Type()

// cellGen holds the LLVM construction state while lowering one Program's
// per-cell function. It mirrors CellularAutomatonCompiler's alloca'd
// register file from the original compiler.cc.
type cellGen struct {
	ctx llvm.Context
	mod llvm.Module
	b   llvm.Builder
	fn  llvm.Value // the "cell" function being built

	a [10]llvm.Value // alloca'd local registers a0..a9
	v llvm.Value     // alloca'd current cell value

	oldGrid llvm.Value // *i16, caller-owned old grid
	newGrid llvm.Value // *i16, caller-owned new grid (unused inside cell)
	width   llvm.Value
	height  llvm.Value
	x       llvm.Value
	y       llvm.Value
	gArg    llvm.Value // *i16, caller-owned global register array
}

// cellSignature returns the LLVM function type for "cell", matching the
// runtime stub prototype from original runtime.c:
//
//	int16_t cell(int16_t *old, int16_t *new, int16_t w, int16_t h,
//	             int16_t x, int16_t y, int16_t v, int16_t *g)
func cellSignature() llvm.Type {
	i16 := regType
	i16ptr := llvm.PointerType(i16, 0)
	params := []llvm.Type{i16ptr, i16ptr, i16, i16, i16, i16, i16, i16ptr}
	return llvm.FunctionType(i16, params, false)
}

// newCellGen declares the "cell" function in mod, gives it private linkage
// so it can be eliminated after being inlined into "automaton", and sets
// up its entry block: allocas for a0..a9 and v. Global registers get no
// entry-block setup; global emits a GEP into the caller-provided array at
// each access.
func newCellGen(ctx llvm.Context, mod llvm.Module) *cellGen {
	b := ctx.NewBuilder()

	fn := llvm.AddFunction(mod, "cell", cellSignature())
	fn.SetLinkage(llvm.PrivateLinkage)

	entry := llvm.AddBasicBlock(fn, "entry")
	b.SetInsertPointAtEnd(entry)

	p := fn.Params()
	cg := &cellGen{
		ctx: ctx, mod: mod, b: b, fn: fn,
		oldGrid: p[0], newGrid: p[1], width: p[2], height: p[3],
		x: p[4], y: p[5], gArg: p[7],
	}

	zero := llvm.ConstInt(regType, 0, false)
	for i := 0; i < 10; i++ {
		cg.a[i] = b.CreateAlloca(regType, fmt.Sprintf("a%d", i))
		b.CreateStore(zero, cg.a[i])
	}
	cg.v = b.CreateAlloca(regType, "v")
	b.CreateStore(p[6], cg.v)

	return cg
}

// global returns a pointer to global register idx within the caller-owned
// g array, accessed indirectly through a caller-provided pointer.
func (cg *cellGen) global(idx int) llvm.Value {
	return cg.b.CreateGEP(cg.gArg, []llvm.Value{llvm.ConstInt(regType, uint64(idx), false)}, "")
}

// finish emits the final "return v" and returns the completed cell
// function.
func (cg *cellGen) finish() llvm.Value {
	cg.b.CreateRet(cg.b.CreateLoad(cg.v, ""))
	return cg.fn
}

// automatonSignature returns the LLVM function type for the outer driver:
//
//	void automaton(int16_t *old, int16_t *new, int16_t w, int16_t h)
func automatonSignature() llvm.Type {
	i16 := regType
	i16ptr := llvm.PointerType(i16, 0)
	params := []llvm.Type{i16ptr, i16ptr, i16, i16}
	return llvm.FunctionType(llvm.VoidType(), params, false)
}

// buildAutomaton synthesises the outer driver directly in IR, since no
// separately-built bitcode artifact is available for it to call into.
// It zeroes the 10 global registers, then loops x in [0, h) and y in
// [0, w), calling cellFn with v = old[index(x,y)] and storing the result
// into new[index(x,y)] (stride w, so x*w+y), using the same linearisation
// as every other grid-access path in this engine.
func buildAutomaton(ctx llvm.Context, mod llvm.Module, cellFn llvm.Value) llvm.Value {
	b := ctx.NewBuilder()
	i16 := regType

	fn := llvm.AddFunction(mod, "automaton", automatonSignature())
	p := fn.Params()
	oldGrid, newGrid, w, h := p[0], p[1], p[2], p[3]

	entry := llvm.AddBasicBlock(fn, "entry")
	b.SetInsertPointAtEnd(entry)

	gArr := b.CreateAlloca(llvm.ArrayType(i16, 10), "g")
	zero := llvm.ConstInt(i16, 0, false)
	for i := 0; i < 10; i++ {
		slot := b.CreateGEP(gArr, []llvm.Value{
			llvm.ConstInt(llvm.Int32Type(), 0, false),
			llvm.ConstInt(llvm.Int32Type(), uint64(i), false),
		}, "")
		b.CreateStore(zero, slot)
	}
	gPtr := b.CreateGEP(gArr, []llvm.Value{
		llvm.ConstInt(llvm.Int32Type(), 0, false),
		llvm.ConstInt(llvm.Int32Type(), 0, false),
	}, "")

	xHead := llvm.AddBasicBlock(fn, "x.head")
	xBody := llvm.AddBasicBlock(fn, "x.body")
	xEnd := llvm.AddBasicBlock(fn, "x.end")
	yHead := llvm.AddBasicBlock(fn, "y.head")
	yBody := llvm.AddBasicBlock(fn, "y.body")
	yEnd := llvm.AddBasicBlock(fn, "y.end")

	b.CreateBr(xHead)
	b.SetInsertPointAtEnd(xHead)
	xPhi := b.CreatePHI(i16, "x")
	xPhi.AddIncoming([]llvm.Value{zero}, []llvm.BasicBlock{entry})
	xCond := b.CreateICmp(llvm.IntSLT, xPhi, h, "")
	b.CreateCondBr(xCond, xBody, xEnd)

	b.SetInsertPointAtEnd(xBody)
	b.CreateBr(yHead)

	b.SetInsertPointAtEnd(yHead)
	yPhi := b.CreatePHI(i16, "y")
	yPhi.AddIncoming([]llvm.Value{zero}, []llvm.BasicBlock{xBody})
	yCond := b.CreateICmp(llvm.IntSLT, yPhi, w, "")
	b.CreateCondBr(yCond, yBody, yEnd)

	b.SetInsertPointAtEnd(yBody)
	idx := b.CreateAdd(b.CreateMul(xPhi, w, ""), yPhi, "") // index(x,y) = x*w + y
	oldPtr := b.CreateGEP(oldGrid, []llvm.Value{idx}, "")
	oldVal := b.CreateLoad(oldPtr, "")
	result := b.CreateCall(cellFn, []llvm.Value{oldGrid, newGrid, w, h, xPhi, yPhi, oldVal, gPtr}, "")
	newPtr := b.CreateGEP(newGrid, []llvm.Value{idx}, "")
	b.CreateStore(result, newPtr)
	yNext := b.CreateAdd(yPhi, llvm.ConstInt(i16, 1, false), "")
	b.CreateBr(yHead)
	yPhi.AddIncoming([]llvm.Value{yNext}, []llvm.BasicBlock{yBody})

	b.SetInsertPointAtEnd(yEnd)
	xNext := b.CreateAdd(xPhi, llvm.ConstInt(i16, 1, false), "")
	b.CreateBr(xHead)
	xPhi.AddIncoming([]llvm.Value{xNext}, []llvm.BasicBlock{yEnd})

	b.SetInsertPointAtEnd(xEnd)
	b.CreateRetVoid()
	b.Dispose()

	return fn
}
