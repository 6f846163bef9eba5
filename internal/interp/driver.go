package interp

import "cellatom/internal/ast"

// RunOneStep evaluates prog against old and writes the successor grid into
// new. Cells are visited in row-major order; for each cell, local registers
// reset to zero, v loads from the old grid, every top-level statement
// executes in source order, and the final v is written into the new grid.
// Global registers are zeroed once at the start of the step and persist
// across cells within it.
//
// old and new must each have length int(w)*int(h) and must not alias.
func RunOneStep(old, new []int16, w, h int16, prog *ast.Program) {
	st := &State{W: w, H: h, Old: old}
	// st.G is zero-valued by construction; this is the step-start reset.

	for x := int16(0); x < h; x++ {
		for y := int16(0); y < w; y++ {
			st.resetCell(x, y)
			for _, stmt := range prog.Stmts {
				Exec(prog.Arena, st, stmt)
			}
			new[index(x, y, w)] = st.V
		}
	}
}
