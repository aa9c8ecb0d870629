package logging

import (
	"fmt"
	"os"
)

// DebugEnabled returns true if debug mode is enabled via WT_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("WT_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Warnf prints a warning to stderr. Used for degrade-gracefully paths such as
// failed remote sync, where the error is swallowed but should stay visible.
func Warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
