// Package argv flattens startup arguments into the contiguous buffer layout
// the embedded runtime's entry point requires.
//
// The engine's startup path assumes all argument bytes live in one contiguous
// memory region: a single zero-initialized block holding each argument's
// UTF-8 bytes back-to-back, one NUL terminator after each, plus a parallel
// vector of start offsets standing in for argv.
//
// A Block is owned exclusively by the entry-point call that built it and must
// be freed on every exit path that returns. When the engine runs to process
// termination the freeing code is unreachable; that is a property of the
// blocking entry point, not a leak in this package.
package argv
