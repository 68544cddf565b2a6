//go:build debug

package bpe

// debugBuild gates invariant assertions and the --slow oracle flag, mirroring
// the Rust original's cfg!(debug_assertions).
const debugBuild = true
