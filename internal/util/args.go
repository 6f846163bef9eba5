package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Options holds the parsed command-line configuration for the cellatom CLI.
type Options struct {
	Src        string // Path to program source file; empty means read stdin.
	Grid       string // Path to an initial grid file; empty means generate random.
	GridSize   int    // Side length of a generated grid, used when Grid is empty.
	MaxValue   int16  // Inclusive upper bound of generated cell values.
	Iterations int    // Number of steps to run.
	JIT        bool   // Use the LLVM JIT back-end instead of the interpreter.
	OptLevel   int    // JIT optimisation level, 0..3.
	Timing     bool   // Report elapsed time for each phase to stderr.
}

const appVersion = "cellatom 1.0"

// ParseArgs parses os.Args[1:] into an Options, with defaults matching a
// modest demo run: a 5x5 grid of 0/1 cells, one interpreted step.
func ParseArgs() (Options, error) {
	opt := Options{GridSize: 5, MaxValue: 1, Iterations: 1}
	args := os.Args[1:]

	next := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("got flag %s but no argument", flag)
		}
		if strings.HasPrefix(args[i+1], "-") {
			return "", fmt.Errorf("expected argument for %s, got new flag %s", flag, args[i+1])
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-j":
			opt.JIT = true
		case "-t":
			opt.Timing = true
		case "-src":
			v, err := next(i, "-src")
			if err != nil {
				return opt, err
			}
			opt.Src = v
			i++
		case "-grid":
			v, err := next(i, "-grid")
			if err != nil {
				return opt, err
			}
			opt.Grid = v
			i++
		case "-x":
			v, err := next(i, "-x")
			if err != nil {
				return opt, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return opt, fmt.Errorf("expected positive integer grid size, got %s", v)
			}
			opt.GridSize = n
			i++
		case "-m":
			v, err := next(i, "-m")
			if err != nil {
				return opt, err
			}
			n, err := strconv.ParseInt(v, 10, 16)
			if err != nil {
				return opt, fmt.Errorf("expected integer max cell value, got %s", v)
			}
			opt.MaxValue = int16(n)
			i++
		case "-i":
			v, err := next(i, "-i")
			if err != nil {
				return opt, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return opt, fmt.Errorf("expected non-negative iteration count, got %s", v)
			}
			opt.Iterations = n
			i++
		case "-o":
			v, err := next(i, "-o")
			if err != nil {
				return opt, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 3 {
				return opt, fmt.Errorf("expected optimisation level in range [0, 3], got %s", v)
			}
			opt.OptLevel = n
			i++
		default:
			return opt, fmt.Errorf("unexpected flag: %s", args[i])
		}
	}
	return opt, nil
}

func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits.")
	_, _ = fmt.Fprintln(w, "-src\tPath to the program source file. Defaults to stdin.")
	_, _ = fmt.Fprintln(w, "-grid\tPath to an initial grid file. Defaults to a randomly generated grid.")
	_, _ = fmt.Fprintln(w, "-x\tSide length of a generated grid. Default 5.")
	_, _ = fmt.Fprintln(w, "-m\tInclusive upper bound of generated cell values. Default 1.")
	_, _ = fmt.Fprintln(w, "-i\tNumber of steps to run. Default 1.")
	_, _ = fmt.Fprintln(w, "-j\tUse the LLVM JIT back-end instead of the interpreter.")
	_, _ = fmt.Fprintln(w, "-o\tJIT optimisation level, 0-3. Default 0.")
	_, _ = fmt.Fprintln(w, "-t\tReport elapsed time for each phase to stderr.")
	_ = w.Flush()
}
