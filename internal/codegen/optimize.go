package codegen

import (
	"fmt"
	"sync"

	"tinygo.org/x/go-llvm"

	"cellatom/internal/util"
)

// optimise runs the function-level and module-level pass pipelines for the
// given level (0..3, matching the conventional -O0..-O3 scale) against mod.
// It mirrors the reference compiler's optimisation step: build a pass
// manager builder at the requested level, attach a function-inlining pass
// so "cell" disappears into "automaton", run each defined function's passes
// independently, then run the module passes once.
//
// Each function's pass run gets its own PassManagerBuilder, its own
// FunctionPassManager, and its own goroutine, since "cell" and "automaton"
// have no shared state to race on; a post-pass verification failure on one
// function is reported to the returned Perror rather than aborting the
// others. The caller decides what to do with those diagnostics; they are
// non-fatal because the module as a whole was already verified before
// optimise ran.
func optimise(mod llvm.Module, level int) *util.Perror {
	var fns []llvm.Value
	for fn := mod.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if fn.IsDeclaration() {
			continue
		}
		fns = append(fns, fn)
	}

	pe := util.NewPerror(len(fns))
	var wg sync.WaitGroup
	for _, fn := range fns {
		wg.Add(1)
		go func(fn llvm.Value) {
			defer wg.Done()

			fpmb := llvm.NewPassManagerBuilder()
			defer fpmb.Dispose()
			fpmb.SetOptLevel(level)
			fpmb.UseInlinerWithThreshold(275)

			funcPasses := llvm.NewFunctionPassManagerForModule(mod)
			defer funcPasses.Dispose()
			fpmb.PopulateFunc(funcPasses)

			funcPasses.InitializeFunc()
			funcPasses.RunFunc(fn)
			funcPasses.FinalizeFunc()

			if err := llvm.VerifyFunction(fn, llvm.ReturnStatusAction); err != nil {
				pe.Append(fmt.Errorf("function %q failed verification after optimisation passes: %w", fn.Name(), err))
			}
		}(fn)
	}
	wg.Wait()
	pe.Stop()

	pmb := llvm.NewPassManagerBuilder()
	defer pmb.Dispose()
	pmb.SetOptLevel(level)
	pmb.UseInlinerWithThreshold(275)

	modPasses := llvm.NewPassManager()
	defer modPasses.Dispose()
	pmb.Populate(modPasses)
	modPasses.Run(mod)

	return pe
}
