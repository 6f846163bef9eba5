package codegen

/*
#include <stdint.h>

typedef void (*automaton_fn)(int16_t *old, int16_t *new, int16_t w, int16_t h);

static void callAutomaton(automaton_fn fn, int16_t *old, int16_t *new, int16_t w, int16_t h) {
	fn(old, new, w, h);
}
*/
import "C"

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"tinygo.org/x/go-llvm"

	"cellatom/internal/ast"
)

// Automaton advances a grid by exactly one step, reading old and writing
// new. Both slices must have length int(w)*int(h) and must not alias.
type Automaton func(old, new []int16, w, h int16)

var initTargetOnce sync.Once

// initTarget wires up the host's native target backend. The JIT cannot run
// without it, and LLVM only needs to be told once per process.
func initTarget() {
	initTargetOnce.Do(func() {
		llvm.InitializeNativeTarget()
		llvm.InitializeNativeAsmPrinter()
	})
}

// Compile lowers prog to LLVM IR, optimises it at the given level (0..3),
// and JIT-compiles it into a callable Automaton. The returned func must be
// called to release the underlying LLVM execution engine, module, and
// context once the Automaton is no longer needed.
func Compile(prog *ast.Program, optLevel int) (Automaton, func(), error) {
	initTarget()

	ctx := llvm.NewContext()
	mod := ctx.NewModule("cellatom")

	cg := newCellGen(ctx, mod)
	cg.lowerProgram(prog.Arena, prog)
	cellFn := cg.finish()
	cg.b.Dispose()

	automatonFn := buildAutomaton(ctx, mod, cellFn)

	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		mod.Dispose()
		ctx.Dispose()
		return nil, nil, fmt.Errorf("codegen: invalid module: %w", err)
	}

	pe := optimise(mod, optLevel)
	for err := range pe.Errors() {
		fmt.Fprintf(os.Stderr, "codegen: optimisation diagnostic: %s\n", err)
	}

	opts := llvm.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(uint(clampOptLevel(optLevel)))
	engine, err := llvm.NewMCJITCompiler(mod, opts)
	if err != nil {
		mod.Dispose()
		ctx.Dispose()
		return nil, nil, fmt.Errorf("codegen: failed to create JIT engine: %w", err)
	}

	dispose := func() {
		engine.Dispose()
		ctx.Dispose()
	}

	// MCJIT's RunFunction only special-cases main-style prototypes (0 args,
	// or 1-3 args with a leading i32); automaton's void(i16*, i16*, i16, i16)
	// signature falls outside that and would hit MCJIT's
	// "full-featured argument passing" fatal error. Instead, resolve the
	// finalized function's address with PointerToGlobal and call it
	// directly through a cgo trampoline, exactly as the reference compiler
	// calls its JIT'd function through a cast C function pointer.
	fnPtr := engine.PointerToGlobal(automatonFn)
	fn := C.automaton_fn(fnPtr)

	run := func(old, new []int16, w, h int16) {
		if len(old) != int(w)*int(h) || len(new) != int(w)*int(h) {
			panic("codegen: grid length does not match w*h")
		}
		if len(old) == 0 {
			return
		}
		C.callAutomaton(fn,
			(*C.int16_t)(unsafe.Pointer(&old[0])),
			(*C.int16_t)(unsafe.Pointer(&new[0])),
			C.int16_t(w),
			C.int16_t(h))
	}

	return run, dispose, nil
}

// clampOptLevel folds optLevel into MCJIT's supported 0..3 range.
func clampOptLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 3 {
		return 3
	}
	return level
}
