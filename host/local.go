package host

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/nodemobile/bridge/errors"
)

// LocalRuntime is the in-process Runtime implementation.
//
// The managed application can pre-bind its own threads with BindCurrent;
// those contexts are reported by Current and adopted by the attachment layer
// as borrowed. Attach and Detach counters are exposed for diagnostics.
type LocalRuntime struct {
	bound    map[int64]*LocalConn
	mu       sync.Mutex
	attaches atomic.Int64
	detaches atomic.Int64
}

// NewLocalRuntime creates an in-process managed-runtime handle.
func NewLocalRuntime() *LocalRuntime {
	return &LocalRuntime{
		bound: make(map[int64]*LocalConn),
	}
}

// Current returns the context pre-bound to the calling thread, if any.
func (r *LocalRuntime) Current() (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.bound[goid.Get()]
	if !ok {
		return nil, false
	}
	return c, true
}

// Attach attaches the calling thread and returns a fresh context.
func (r *LocalRuntime) Attach() (Conn, error) {
	r.attaches.Add(1)
	return newLocalConn(), nil
}

// Detach releases a context previously returned by Attach.
func (r *LocalRuntime) Detach(c Conn) error {
	lc, ok := c.(*LocalConn)
	if !ok {
		return errors.InvalidInput(errors.PhaseHost, "detach of foreign context")
	}
	lc.close()
	r.detaches.Add(1)
	return nil
}

// BindCurrent binds a context to the calling thread on the managed side,
// simulating a thread the managed runtime attached itself (e.g., its own
// pool threads). The attachment layer must never detach such a context.
func (r *LocalRuntime) BindCurrent() *LocalConn {
	c := newLocalConn()

	r.mu.Lock()
	r.bound[goid.Get()] = c
	r.mu.Unlock()

	return c
}

// UnbindCurrent removes the calling thread's pre-bound context.
func (r *LocalRuntime) UnbindCurrent() {
	r.mu.Lock()
	delete(r.bound, goid.Get())
	r.mu.Unlock()
}

// AttachCalls returns the number of Attach calls made against this runtime.
func (r *LocalRuntime) AttachCalls() int64 {
	return r.attaches.Load()
}

// DetachCalls returns the number of Detach calls made against this runtime.
func (r *LocalRuntime) DetachCalls() int64 {
	return r.detaches.Load()
}

// LocalConn is a per-thread execution context backed by an in-memory
// string-ref table with free-list handle reuse.
type LocalConn struct {
	entries  []refEntry
	freeList []Ref
	mu       sync.Mutex
	closed   bool
}

type refEntry struct {
	value string
	valid bool
}

func newLocalConn() *LocalConn {
	return &LocalConn{
		entries:  make([]refEntry, 0, 8),
		freeList: make([]Ref, 0, 4),
	}
}

// NewString creates a string ref. Returns the zero Ref once the context has
// been detached.
func (c *LocalConn) NewString(s string) Ref {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0
	}

	e := refEntry{value: s, valid: true}

	if len(c.freeList) > 0 {
		ref := c.freeList[len(c.freeList)-1]
		c.freeList = c.freeList[:len(c.freeList)-1]
		c.entries[ref-1] = e
		return ref
	}

	c.entries = append(c.entries, e)
	return Ref(len(c.entries))
}

// String resolves a ref created by NewString.
func (c *LocalConn) String(ref Ref) (string, bool) {
	if ref == 0 {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := int(ref) - 1
	if idx >= len(c.entries) || !c.entries[idx].valid {
		return "", false
	}
	return c.entries[idx].value, true
}

// Release drops a ref and recycles its slot.
func (c *LocalConn) Release(ref Ref) {
	if ref == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := int(ref) - 1
	if idx >= len(c.entries) || !c.entries[idx].valid {
		return
	}

	c.entries[idx] = refEntry{}
	c.freeList = append(c.freeList, ref)
}

// CallVoid invokes the call target with the strings behind both refs.
func (c *LocalConn) CallVoid(t *CallTarget, channel, message Ref) error {
	if t == nil {
		return errors.NotInitialized(errors.PhaseHost, "call target")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.Detached(errors.PhaseHost, "call on detached context")
	}
	c.mu.Unlock()

	ch, ok := c.String(channel)
	if !ok {
		return errors.NotFound(errors.PhaseHost, "ref", "channel")
	}
	msg, ok := c.String(message)
	if !ok {
		return errors.NotFound(errors.PhaseHost, "ref", "message")
	}

	t.Invoke(ch, msg)
	return nil
}

// Refs returns the number of live refs, for leak checks.
func (c *LocalConn) Refs() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.valid {
			n++
		}
	}
	return n
}

func (c *LocalConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.entries = nil
	c.freeList = nil
}
