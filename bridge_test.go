package bridge

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/nodemobile/bridge/argv"
	"github.com/nodemobile/bridge/engine"
	"github.com/nodemobile/bridge/host"
)

// stubEngine simulates the embedded runtime: run is invoked on Start's
// thread and may spawn worker goroutines standing in for engine threads.
type stubEngine struct {
	mu        sync.Mutex
	onMessage engine.MessageFunc
	exitHooks []func()
	dataDir   string
	notified  [][2]string
	started   bool
	exitCode  int
	run       func(e *stubEngine)
}

func (e *stubEngine) Start(_ context.Context, block *argv.Block) int {
	e.mu.Lock()
	e.started = true
	e.mu.Unlock()

	if e.run != nil {
		e.run(e)
	}
	return e.exitCode
}

func (e *stubEngine) OnMessage(fn engine.MessageFunc) {
	e.mu.Lock()
	e.onMessage = fn
	e.mu.Unlock()
}

func (e *stubEngine) OnThreadExit(fn func()) {
	e.mu.Lock()
	e.exitHooks = append(e.exitHooks, fn)
	e.mu.Unlock()
}

func (e *stubEngine) Notify(channel, message string) {
	e.mu.Lock()
	e.notified = append(e.notified, [2]string{channel, message})
	e.mu.Unlock()
}

func (e *stubEngine) SetDataDir(path string) {
	e.mu.Lock()
	e.dataDir = path
	e.mu.Unlock()
}

// threadExit runs the registered exit hooks, as an engine worker thread
// would on termination.
func (e *stubEngine) threadExit() {
	e.mu.Lock()
	hooks := make([]func(), len(e.exitHooks))
	copy(hooks, e.exitHooks)
	e.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

type recordingReceiver struct {
	mu       sync.Mutex
	channels []string
	messages []string
}

func (r *recordingReceiver) OnChannelMessage(channel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = append(r.channels, channel)
	r.messages = append(r.messages, message)
}

func (r *recordingReceiver) delivered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func TestStartReturnsEngineExitCode(t *testing.T) {
	eng := &stubEngine{exitCode: 42}
	b := New(host.NewLocalRuntime(), eng, &recordingReceiver{})

	code := b.Start(context.Background(), []string{"engine"}, "/modules", false)
	if code != 42 {
		t.Errorf("Expected exit code 42 passed through, got %d", code)
	}
	if !eng.started {
		t.Error("Expected engine started")
	}
}

func TestStartSetsModulePath(t *testing.T) {
	// t.Setenv restores the prior value after the test.
	t.Setenv(ModulePathEnv, "preexisting")

	eng := &stubEngine{}
	b := New(host.NewLocalRuntime(), eng, &recordingReceiver{})
	b.Start(context.Background(), nil, "/app/builtin_modules", false)

	if got := os.Getenv(ModulePathEnv); got != "/app/builtin_modules" {
		t.Errorf("Expected module path env set, got %q", got)
	}
}

func TestStartWithoutRuntimeHandle(t *testing.T) {
	eng := &stubEngine{exitCode: 7}
	b := New(nil, eng, &recordingReceiver{})

	code := b.Start(context.Background(), nil, "", false)
	if code != StartNoRuntime {
		t.Errorf("Expected %d, got %d", StartNoRuntime, code)
	}
	if eng.started {
		t.Error("Engine must not start without a runtime handle")
	}
}

func TestMessageDelivery(t *testing.T) {
	rt := host.NewLocalRuntime()
	recv := &recordingReceiver{}

	eng := &stubEngine{}
	eng.run = func(e *stubEngine) {
		// Two engine worker threads deliver and exit.
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				defer e.threadExit()
				e.onMessage("events", "hello")
			}(i)
		}
		wg.Wait()
	}

	b := New(rt, eng, recv)
	b.Start(context.Background(), nil, "", false)

	if recv.delivered() != 2 {
		t.Errorf("Expected 2 deliveries, got %d", recv.delivered())
	}
	if got := b.Manager().Ledger().Current(); got != 0 {
		t.Errorf("Expected ledger drained after thread exits, got %d", got)
	}
	if got := b.Manager().Ledger().Peak(); got < 1 {
		t.Errorf("Expected peak >= 1, got %d", got)
	}
}

func TestStartTeardownClearsSession(t *testing.T) {
	recv := &recordingReceiver{}
	eng := &stubEngine{}
	b := New(host.NewLocalRuntime(), eng, recv)

	b.Start(context.Background(), nil, "", false)

	// Target cleared: late engine callbacks are dropped, not delivered.
	eng.onMessage("events", "late")
	if recv.delivered() != 0 {
		t.Errorf("Expected no deliveries after teardown, got %d", recv.delivered())
	}

	// Handle cleared: the session cannot be started again.
	if code := b.Start(context.Background(), nil, "", false); code != StartNoRuntime {
		t.Errorf("Expected %d on restart, got %d", StartNoRuntime, code)
	}
}

func TestStartUnresolvableReceiver(t *testing.T) {
	eng := &stubEngine{exitCode: 3}
	eng.run = func(e *stubEngine) {
		// Delivery before the target exists is a no-op, not a crash.
		e.onMessage("events", "dropped")
	}
	b := New(host.NewLocalRuntime(), eng, struct{}{})

	code := b.Start(context.Background(), nil, "", false)
	if code != 3 {
		t.Errorf("Expected engine exit code 3, got %d", code)
	}
}

func TestNotifyChannel(t *testing.T) {
	eng := &stubEngine{}
	b := New(host.NewLocalRuntime(), eng, &recordingReceiver{})

	b.NotifyChannel("control", "pause")

	eng.mu.Lock()
	defer eng.mu.Unlock()
	if len(eng.notified) != 1 || eng.notified[0] != [2]string{"control", "pause"} {
		t.Errorf("Unexpected notifications: %v", eng.notified)
	}
}

func TestRegisterDataDirPath(t *testing.T) {
	eng := &stubEngine{}
	b := New(host.NewLocalRuntime(), eng, &recordingReceiver{})

	b.RegisterDataDirPath("/var/lib/app")

	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.dataDir != "/var/lib/app" {
		t.Errorf("Expected data dir registered, got %q", eng.dataDir)
	}
}

func TestWithCeiling(t *testing.T) {
	b := New(host.NewLocalRuntime(), &stubEngine{}, &recordingReceiver{}, WithCeiling(4))
	if b.Manager().Ceiling() != 4 {
		t.Errorf("Expected ceiling 4, got %d", b.Manager().Ceiling())
	}
}
