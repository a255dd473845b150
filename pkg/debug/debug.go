// Package debug provides conditional debug logging for nw.
//
// Debug logging is enabled by setting the NW_DEBUG environment variable:
//
//	NW_DEBUG=1 nw --topology scan/topology.json
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero overhead.
//
// Usage:
//
//	import "github.com/cbayliss/netweave/pkg/debug"
//
//	func resolveHops() {
//	    debug.Log("chain %s: dropped hop %s (entity missing)", chainID, key)
//	    // ...
//	    debug.LogTiming("overlay sync", elapsed)
//	}
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when NW_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [NW_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("NW_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[NW_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Printf("%s: %T = %+v", name, v, v)
}
