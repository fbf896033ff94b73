// Package attach manages the lifecycle of engine threads entering the
// managed runtime.
//
// Acquire returns the calling thread's cached execution context when one
// exists (fast path, no attach call), adopts a context some other owner
// already bound to the thread (borrowed), or attaches the thread (owned)
// subject to a fixed ceiling on concurrently attached threads. The ceiling
// is a backpressure safeguard against the engine creating threads without
// bound: at the limit new acquisitions are refused, not queued, and the
// caller drops its message.
//
// A context is detached exactly once, exactly when this layer attached it,
// and only at thread exit, never while the thread may still be servicing
// calls. Thread exit is signalled through the ThreadExit cleanup hook, which
// the dispatcher registers once per process with the engine's thread-exit
// mechanism.
package attach
