package ast

import (
	"fmt"
	"io"
)

// opSymbols maps binary NodeKinds to their printed operator symbol.
var opSymbols = map[NodeKind]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Assign: "=",
	Min:    "min",
	Max:    "max",
}

// Fprint writes a human-readable, non-round-trippable dump of prog to w.
// Every node is visited; operator symbols, register names, literals, range
// maps and neighbours blocks are printed. Grounded on the
// symbol choices of the original printAST (interpreter.c) and the recursive
// visitor shape of ir.Node.Print.
func Fprint(w io.Writer, prog *Program) {
	p := &printer{w: w, arena: prog.Arena}
	for _, stmt := range prog.Stmts {
		p.operand(stmt)
		fmt.Fprintln(w)
	}
}

type printer struct {
	w     io.Writer
	arena *Arena
}

func (p *printer) operand(op Operand) {
	switch op.Kind {
	case KindLiteral:
		fmt.Fprintf(p.w, "%d ", op.Lit)
	case KindRegister:
		p.register(op)
	case KindNode:
		p.node(p.arena.Get(op.Node))
	}
}

func (p *printer) register(op Operand) {
	class, slot := op.Classify()
	switch class {
	case RegLocal:
		fmt.Fprintf(p.w, "a%d ", slot)
	case RegGlobal:
		fmt.Fprintf(p.w, "g%d ", slot)
	case RegCurrent:
		fmt.Fprint(p.w, "v ")
	default:
		fmt.Fprintf(p.w, "<undefined r%d> ", op.Reg)
	}
}

func (p *printer) node(n *Node) {
	switch n.Kind {
	case Add, Sub, Mul, Div, Assign, Min, Max:
		fmt.Fprintf(p.w, "%s ", opSymbols[n.Kind])
		p.operand(n.Dest)
		p.operand(n.RHS)
	case RangeMap:
		fmt.Fprint(p.w, "[ ")
		p.operand(n.Range.Key)
		fmt.Fprint(p.w, "| ")
		for _, e := range n.Range.Entries {
			fmt.Fprint(p.w, "(")
			p.operand(e.Min)
			fmt.Fprint(p.w, ", ")
			p.operand(e.Max)
			fmt.Fprint(p.w, ") => ")
			p.operand(e.Result)
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprint(p.w, "]")
	case Neighbours:
		fmt.Fprint(p.w, "neighbours ( ")
		for _, stmt := range n.Body {
			p.operand(stmt)
		}
		fmt.Fprint(p.w, ") ")
	}
}
