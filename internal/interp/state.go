// Package interp implements the authoritative tree-walking evaluator for
// cellatom programs and the driver loop that applies one
// step of a program to a grid.
package interp

// State is the per-cell evaluation state: the local and global register
// files, the current cell value, the current coordinate, the grid
// dimensions, and a read-only view of the old grid. State is created fresh
// per step; local registers are reset per cell, globals are reset once per
// step and carried across cells within it.
type State struct {
	A [10]int16 // local registers a0..a9, reset to zero per cell
	G [10]int16 // global registers g0..g9, reset to zero per step

	V int16 // current cell value
	X int16
	Y int16
	W int16
	H int16

	Old []int16 // read-only old grid, length W*H
}

// index computes the grid's single linearisation: x ranges over [0, H) and
// y over [0, W), stride W, so x*w+y enumerates every one of the W*H cells
// exactly once even when W != H.
func index(x, y, w int16) int {
	return int(x)*int(w) + int(y)
}

// resetCell zeroes the local registers and loads v from the old grid,
// preparing State for evaluating one cell's statements.
func (s *State) resetCell(x, y int16) {
	for i := range s.A {
		s.A[i] = 0
	}
	s.X = x
	s.Y = y
	s.V = s.Old[index(x, y, s.W)]
}
