// Package redirect captures the process's standard streams and forwards
// them to a structured log sink.
//
// Start replaces the stdout and stderr file descriptors with the write ends
// of two OS pipes. A detached reader goroutine per pipe blocks on fixed-size
// chunk reads, strips a single trailing newline (the sink appends its own),
// and forwards each chunk as one log line: info severity for stdout, error
// for stderr, under a fixed tag.
//
// Redirection lasts the process lifetime. Readers terminate only when the
// pipe's write end closes at process teardown; there is no stop signal.
// Calling Start twice silently re-overwrites the descriptors.
package redirect
