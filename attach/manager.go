package attach

import (
	"sync"

	"github.com/petermattis/goid"
	"go.uber.org/zap"

	"github.com/nodemobile/bridge/errors"
	"github.com/nodemobile/bridge/host"
)

// DefaultCeiling is the default limit on concurrently attached threads.
// It protects against unbounded thread creation by the engine exhausting
// per-process attachment resources.
const DefaultCeiling = 32

// State records how a thread's execution context was obtained.
type State uint8

const (
	// Borrowed contexts were attached by another owner (e.g., the managed
	// runtime's own thread pool). This layer must never detach them.
	Borrowed State = iota + 1

	// Owned contexts were attached by this layer and are detached by the
	// thread-exit cleanup hook.
	Owned
)

func (s State) String() string {
	switch s {
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	default:
		return "absent"
	}
}

// ThreadContext is a thread's cached execution context plus its ownership
// tag. Exactly one exists per thread; it is never shared or handed to
// another thread.
type ThreadContext struct {
	conn  host.Conn
	state State
	tid   int64
}

// Conn returns the underlying execution context.
func (tc *ThreadContext) Conn() host.Conn {
	return tc.conn
}

// State returns the ownership tag.
func (tc *ThreadContext) State() State {
	return tc.state
}

// Manager owns the runtime handle, the per-thread context cache, and the
// attachment ledger.
type Manager struct {
	rt       host.Runtime
	contexts sync.Map // thread id -> *ThreadContext
	ledger   Ledger
	ceiling  int32
}

// NewManager creates an attachment manager bound to rt.
// A ceiling of 0 or less selects DefaultCeiling.
func NewManager(rt host.Runtime, ceiling int32) *Manager {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Manager{rt: rt, ceiling: ceiling}
}

// Acquire returns the calling thread's execution context, attaching the
// thread if needed. Once a thread has a context, every later Acquire on that
// thread returns it without touching the runtime handle.
//
// A ceiling refusal is non-fatal backpressure: the error is logged by the
// caller and the message dropped.
func (m *Manager) Acquire() (*ThreadContext, error) {
	tid := goid.Get()

	// Fast path: thread-local cache hit, no attachment call.
	if v, ok := m.contexts.Load(tid); ok {
		return v.(*ThreadContext), nil
	}

	// Thread already attached by someone else: adopt as borrowed.
	if conn, ok := m.rt.Current(); ok {
		tc := &ThreadContext{conn: conn, state: Borrowed, tid: tid}
		m.contexts.Store(tid, tc)
		return tc, nil
	}

	// Detached thread: refuse past the ceiling rather than risk exhausting
	// per-process attachment resources.
	current := m.ledger.Current()
	if current >= m.ceiling {
		Logger().Warn("thread attachment limit reached, refusing attach",
			zap.Int32("limit", m.ceiling),
			zap.Int64("thread", tid))
		return nil, errors.Ceiling(int(current), int(m.ceiling))
	}

	conn, err := m.rt.Attach()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAttach, errors.KindIO, err, "attach thread")
	}

	tc := &ThreadContext{conn: conn, state: Owned, tid: tid}
	m.contexts.Store(tid, tc)

	current = m.ledger.Inc()
	Logger().Info("thread attached",
		zap.Int64("thread", tid),
		zap.Int32("total", current),
		zap.Int32("peak", m.ledger.Peak()))

	if current > m.ceiling*4/5 {
		Logger().Warn("high thread attachment count",
			zap.Int32("current", current),
			zap.Int32("limit", m.ceiling))
	}

	return tc, nil
}

// ThreadExit is the thread-exit cleanup callback. It detaches the calling
// thread's context if this layer owns it and drops the cache entry either
// way. Safe to call on threads that never acquired a context.
func (m *Manager) ThreadExit() {
	tid := goid.Get()

	v, ok := m.contexts.LoadAndDelete(tid)
	if !ok {
		return
	}

	tc := v.(*ThreadContext)
	if tc.state != Owned {
		return
	}

	if err := m.rt.Detach(tc.conn); err != nil {
		Logger().Error("detach failed", zap.Int64("thread", tid), zap.Error(err))
	}

	remaining := m.ledger.Dec()
	Logger().Debug("thread detached",
		zap.Int64("thread", tid),
		zap.Int32("remaining", remaining),
		zap.Int32("peak", m.ledger.Peak()))
}

// Ledger exposes the attachment counters.
func (m *Manager) Ledger() *Ledger {
	return &m.ledger
}

// Ceiling returns the configured attachment limit.
func (m *Manager) Ceiling() int32 {
	return m.ceiling
}
