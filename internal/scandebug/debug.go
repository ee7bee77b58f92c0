// Package scandebug provides opt-in, low-overhead debug logging for the scan
// pipeline: per-candidate trace lines at debug verbosity, off by default so a
// production scan pays nothing for them.
package scandebug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug can be overridden at build time:
// go build -ldflags "-X github.com/standardbeagle/corescan/internal/scandebug.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer
)

// SetEnabled turns runtime debug output on (to stderr) or off. Turning it
// off does not override the build-time EnableDebug flag or CORESCAN_DEBUG,
// which still send output to stderr.
func SetEnabled(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		output = os.Stderr
	} else {
		output = nil
	}
}

// SetOutput sets a custom writer for debug output. Pass nil to disable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// IsEnabled reports whether debug output is currently configured.
func IsEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	if v := os.Getenv("CORESCAN_DEBUG"); v == "1" || v == "true" {
		return true
	}
	mu.Lock()
	defer mu.Unlock()
	return output != nil
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if output != nil {
		return output
	}
	if v := os.Getenv("CORESCAN_DEBUG"); EnableDebug == "true" || v == "1" || v == "true" {
		return os.Stderr
	}
	return nil
}

// Log writes a component-tagged debug line, e.g. Log("sigscan", "candidate at %d failed: %v", off, err).
func Log(component, format string, args ...interface{}) {
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}
