package bpe

import "fmt"

// DebugBuild reports whether this binary was built with -tags debug.
func DebugBuild() bool { return debugBuild }

// assertInvariant panics with a formatted message if cond is false and the
// binary was built with -tags debug. It is a no-op in release builds, same
// as the original's debug_assert_eq!.
func assertInvariant(cond bool, format string, args ...any) {
	if debugBuild && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
