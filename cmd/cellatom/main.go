package main

import (
	"fmt"
	"os"
	"time"

	"cellatom/internal/codegen"
	"cellatom/internal/frontend"
	"cellatom/internal/interp"
	"cellatom/internal/util"
)

// run reads program source and a grid, advances the grid Options.Iterations
// times through whichever back-end was requested, and writes the final
// grid to stdout.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read program source: %w", err)
	}

	prog, err := frontend.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	var grid []int16
	var w, h int16
	if opt.Grid != "" {
		grid, w, h, err = util.ReadGrid(opt.Grid)
		if err != nil {
			return fmt.Errorf("could not read grid: %w", err)
		}
	} else {
		w, h = int16(opt.GridSize), int16(opt.GridSize)
		grid = util.RandomGrid(w, h, opt.MaxValue)
	}

	next := make([]int16, len(grid))

	if opt.JIT {
		start := time.Now()
		automaton, dispose, err := codegen.Compile(prog, opt.OptLevel)
		if err != nil {
			return fmt.Errorf("could not compile program: %w", err)
		}
		defer dispose()
		util.LogTimeSince(opt.Timing, start, "compiling")

		start = time.Now()
		for i := 0; i < opt.Iterations; i++ {
			automaton(grid, next, w, h)
			grid, next = next, grid
		}
		util.LogTimeSince(opt.Timing, start, "running compiled version")
	} else {
		start := time.Now()
		for i := 0; i < opt.Iterations; i++ {
			interp.RunOneStep(grid, next, w, h, prog)
			grid, next = next, grid
		}
		util.LogTimeSince(opt.Timing, start, "interpreting")
	}

	return util.WriteGrid(os.Stdout, grid, w, h)
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
