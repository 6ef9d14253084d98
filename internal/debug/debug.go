// Package debug provides a guarded trace logger used by the parser and
// tree builder. It is compiled in always; tracing is gated by Enabled so
// it costs nothing beyond a branch when turned off.
package debug

import (
	"fmt"
	"os"
	"strings"
)

// Enabled turns tracing on. It is false by default; set it (e.g. from an
// init() in a test, or via the TYPESXML_DEBUG=1 environment variable) to
// see a trace of parser/tree-builder activity on stderr.
var Enabled = os.Getenv("TYPESXML_DEBUG") != ""

var indent int

// Printf writes a single trace line at the current indent level.
func Printf(format string, args ...interface{}) {
	if !Enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "%s%s\n", strings.Repeat("  ", indent), fmt.Sprintf(format, args...))
}

// Guard is returned by IPrintf; call IRelease to close the scope it opened.
type Guard struct{}

// IPrintf prints a trace line and increases the indent level for the
// remainder of the enclosing scope. Pair with a deferred IRelease.
func IPrintf(format string, args ...interface{}) Guard {
	Printf(format, args...)
	indent++
	return Guard{}
}

// IRelease decreases the indent level and prints a closing trace line.
func (Guard) IRelease(format string, args ...interface{}) {
	if indent > 0 {
		indent--
	}
	Printf(format, args...)
}
