package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"cellatom/internal/ast"
)

// lowerProgram lowers every top-level statement of prog into cg's cell
// function body, in source order.
func (cg *cellGen) lowerProgram(arena *ast.Arena, prog *ast.Program) {
	for _, stmt := range prog.Stmts {
		cg.lowerOperand(arena, stmt)
	}
}

// lowerOperand emits IR for op and returns its value. Literals become
// constants, register references become loads, node operands recurse
// into lowerNode.
func (cg *cellGen) lowerOperand(arena *ast.Arena, op ast.Operand) llvm.Value {
	switch op.Kind {
	case ast.KindLiteral:
		return llvm.ConstInt(regType, uint64(uint16(op.Lit)), true)
	case ast.KindRegister:
		return cg.loadRegister(op)
	case ast.KindNode:
		return cg.lowerNode(arena, arena.Get(op.Node))
	}
	return llvm.ConstInt(regType, 0, false)
}

func (cg *cellGen) lowerNode(arena *ast.Arena, n *ast.Node) llvm.Value {
	switch n.Kind {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Assign, ast.Min, ast.Max:
		return cg.lowerBinary(arena, n)
	case ast.RangeMap:
		return cg.lowerRangeMap(arena, n)
	case ast.Neighbours:
		cg.lowerNeighbours(arena, n)
		return llvm.ConstInt(regType, 0, false)
	}
	panic(fmt.Sprintf("codegen: unhandled node kind %v", n.Kind))
}

// lowerBinary emits "load dest, eval rhs, op, store dest".
// Min/Max lower to an icmp followed by a select rather than a branch, so
// the result stays in registers with no extra control flow. If Dest does
// not decode as a register the store is skipped — this mirrors the
// interpreter's no-op policy rather than rejecting the
// program outright, keeping the two back-ends' error behaviour aligned.
func (cg *cellGen) lowerBinary(arena *ast.Arena, n *ast.Node) llvm.Value {
	b := cg.b
	l := cg.lowerOperand(arena, n.Dest)
	r := cg.lowerOperand(arena, n.RHS)

	var result llvm.Value
	switch n.Kind {
	case ast.Add:
		result = b.CreateAdd(l, r, "")
	case ast.Sub:
		result = b.CreateSub(l, r, "")
	case ast.Mul:
		result = b.CreateMul(l, r, "")
	case ast.Div:
		result = b.CreateSDiv(l, r, "")
	case ast.Assign:
		result = r
	case ast.Min:
		lt := b.CreateICmp(llvm.IntSLT, l, r, "")
		result = b.CreateSelect(lt, l, r, "")
	case ast.Max:
		gt := b.CreateICmp(llvm.IntSGT, l, r, "")
		result = b.CreateSelect(gt, l, r, "")
	}

	if n.Dest.IsRegister() {
		cg.storeRegister(n.Dest, result)
	}
	return result
}

// lowerRangeMap emits a chain of compare/branch blocks culminating in a
// continuation block with a phi node. The key is evaluated once; each
// entry's operand-eval runs only inside its own matched block, so
// side-effectful results execute only when selected.
func (cg *cellGen) lowerRangeMap(arena *ast.Arena, n *ast.Node) llvm.Value {
	b := cg.b
	rt := n.Range
	key := cg.lowerOperand(arena, rt.Key)

	cont := llvm.AddBasicBlock(cg.fn, "range.cont")

	var incomingVals []llvm.Value
	var incomingBlocks []llvm.BasicBlock

	for _, e := range rt.Entries {
		var match llvm.Value
		min := cg.lowerOperand(arena, e.Min)
		if e.Min == e.Max {
			match = b.CreateICmp(llvm.IntEQ, key, min, "")
		} else {
			max := cg.lowerOperand(arena, e.Max)
			ge := b.CreateICmp(llvm.IntSGE, key, min, "")
			le := b.CreateICmp(llvm.IntSLE, key, max, "")
			match = b.CreateAnd(ge, le, "")
		}

		matched := llvm.AddBasicBlock(cg.fn, "range.match")
		next := llvm.AddBasicBlock(cg.fn, "range.next")
		b.CreateCondBr(match, matched, next)

		b.SetInsertPointAtEnd(matched)
		val := cg.lowerOperand(arena, e.Result)
		incomingVals = append(incomingVals, val)
		incomingBlocks = append(incomingBlocks, b.GetInsertBlock())
		b.CreateBr(cont)

		b.SetInsertPointAtEnd(next)
	}

	// Fell through every entry without a match: result is 0.
	incomingVals = append(incomingVals, llvm.ConstInt(regType, 0, false))
	incomingBlocks = append(incomingBlocks, b.GetInsertBlock())
	b.CreateBr(cont)

	b.SetInsertPointAtEnd(cont)
	result := b.CreatePHI(regType, "range.result")
	result.AddIncoming(incomingVals, incomingBlocks)
	return result
}

// loadRegister emits a load from the alloca/GEP backing the register op
// refers to, or a constant -1 for an undefined index.
func (cg *cellGen) loadRegister(op ast.Operand) llvm.Value {
	class, slot := op.Classify()
	switch class {
	case ast.RegLocal:
		return cg.b.CreateLoad(cg.a[slot], "")
	case ast.RegGlobal:
		return cg.b.CreateLoad(cg.global(slot), "")
	case ast.RegCurrent:
		return cg.b.CreateLoad(cg.v, "")
	default:
		return llvm.ConstInt(regType, ^uint64(0), true)
	}
}

// storeRegister emits a store of val into the register op refers to.
// Writes to undefined indices are no-ops.
func (cg *cellGen) storeRegister(op ast.Operand, val llvm.Value) {
	class, slot := op.Classify()
	switch class {
	case ast.RegLocal:
		cg.b.CreateStore(val, cg.a[slot])
	case ast.RegGlobal:
		cg.b.CreateStore(val, cg.global(slot))
	case ast.RegCurrent:
		cg.b.CreateStore(val, cg.v)
	}
}
