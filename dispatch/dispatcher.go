package dispatch

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nodemobile/bridge/attach"
	"github.com/nodemobile/bridge/host"
)

// ThreadExitNotifier is the engine-side thread-exit mechanism. The function
// registered with it runs on each engine worker thread as it terminates.
type ThreadExitNotifier interface {
	OnThreadExit(fn func())
}

// Dispatcher delivers (channel, message) pairs from engine threads to the
// managed side.
type Dispatcher struct {
	manager  *attach.Manager
	notifier ThreadExitNotifier
	target   atomic.Pointer[host.CallTarget]
	hookOnce sync.Once
}

// NewDispatcher creates a dispatcher using m for execution contexts and
// notifier for thread-exit cleanup registration.
func NewDispatcher(m *attach.Manager, notifier ThreadExitNotifier) *Dispatcher {
	return &Dispatcher{manager: m, notifier: notifier}
}

// SetTarget installs the resolved call target. Until a target is set,
// Deliver is a logged no-op.
func (d *Dispatcher) SetTarget(t *host.CallTarget) {
	d.target.Store(t)
}

// ClearTarget removes the call target at session teardown.
func (d *Dispatcher) ClearTarget() {
	d.target.Store(nil)
}

// Target returns the currently installed call target, if any.
func (d *Dispatcher) Target() *host.CallTarget {
	return d.target.Load()
}

// Deliver forwards one message to the managed side. Invoked from arbitrary
// engine threads; best-effort, no return value, no acknowledgement.
func (d *Dispatcher) Deliver(channel, message string) {
	target := d.target.Load()
	if target == nil {
		// Bridge invoked before initialization completed.
		Logger().Warn("deliver: no call target resolved, dropping message",
			zap.String("channel", channel))
		return
	}

	// Register the thread-exit cleanup with the engine once per process.
	d.hookOnce.Do(func() {
		if d.notifier != nil {
			d.notifier.OnThreadExit(d.manager.ThreadExit)
		}
	})

	tc, err := d.manager.Acquire()
	if err != nil {
		// Ceiling refusal or attach failure: drop rather than block.
		Logger().Error("deliver: no execution context, dropping message",
			zap.String("channel", channel),
			zap.Error(err))
		return
	}

	conn := tc.Conn()
	chRef := conn.NewString(channel)
	msgRef := conn.NewString(message)

	if err := conn.CallVoid(target, chRef, msgRef); err != nil {
		Logger().Error("deliver: call failed",
			zap.String("channel", channel),
			zap.Error(err))
	}

	conn.Release(msgRef)
	conn.Release(chRef)
}
