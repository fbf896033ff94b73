package host

// Ref identifies a string created inside an execution context.
// The zero Ref is never valid.
type Ref uint32

// Conn is a per-thread execution context granting access to the managed
// runtime. Conns are never shared between threads; the attachment layer
// caches at most one per thread.
type Conn interface {
	// NewString creates a transient string ref inside this context.
	// Returns the zero Ref if the context has been detached.
	NewString(s string) Ref

	// String resolves a ref created by NewString.
	String(ref Ref) (string, bool)

	// Release drops a ref. Releasing the zero Ref or an already-released
	// ref is a no-op.
	Release(ref Ref)

	// CallVoid invokes the call target with two string refs. The refs stay
	// valid across the call; the caller releases them afterwards.
	CallVoid(t *CallTarget, channel, message Ref) error
}

// Runtime is the managed-runtime handle used for thread attachment.
// Implementations must be safe for concurrent use from arbitrary threads.
type Runtime interface {
	// Current returns the execution context already bound to the calling
	// thread, if some other owner attached it.
	Current() (Conn, bool)

	// Attach attaches the calling thread and returns a fresh context.
	Attach() (Conn, error)

	// Detach releases a context previously returned by Attach on this
	// thread. Must never be called for a context obtained via Current.
	Detach(c Conn) error
}
