package util

import (
	"fmt"
	"os"
	"time"
)

// LogTimeSince prints the elapsed time since start under label msg to
// stderr, gated by enabled (normally Options.Timing). Mirrors the original
// engine's clock()-based phase timing, using wall-clock time instead of
// CPU time since that is what Go's time package measures directly.
func LogTimeSince(enabled bool, start time.Time, msg string) {
	if !enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "%s took %s\n", msg, time.Since(start))
}
