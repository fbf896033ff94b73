package engine

import (
	"context"
	stderrors "errors"
	"os"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/nodemobile/bridge/argv"
)

// HostModule is the import namespace the guest uses to reach the bridge.
const HostModule = "bridge"

// guestDataDir is where the registered data directory is mounted inside the
// guest.
const guestDataDir = "/data"

// exitFailure is returned when the engine cannot start at all. Once the
// guest runs, its own exit code is passed through instead.
const exitFailure = 1

// notifyQueueSize bounds pending managed -> engine messages. Notify is
// fire-and-forget: a full queue drops.
const notifyQueueSize = 64

// WazeroEngine runs a WebAssembly guest as the embedded scripting runtime.
//
// The guest imports two functions from the "bridge" host module:
//
//	notify(ch_ptr, ch_len, msg_ptr, msg_len)        guest -> managed
//	poll(buf_ptr, buf_len) -> written               managed -> guest
//
// poll writes one pending message as channel and payload separated by a NUL
// byte and returns the byte count, or 0 when nothing is pending. A buffer
// too small for the head message drops it (best-effort contract).
type WazeroEngine struct {
	wasm      []byte
	dataDir   string
	onMessage MessageFunc
	pending   chan [2]string
	exitHooks []func()
	mu        sync.Mutex
}

// NewWazeroEngine creates an engine for the given guest binary.
func NewWazeroEngine(wasmBytes []byte) *WazeroEngine {
	return &WazeroEngine{
		wasm:    wasmBytes,
		pending: make(chan [2]string, notifyQueueSize),
	}
}

// OnMessage registers the guest -> managed callback.
func (e *WazeroEngine) OnMessage(fn MessageFunc) {
	e.mu.Lock()
	e.onMessage = fn
	e.mu.Unlock()
}

// OnThreadExit registers a cleanup hook run on engine threads as they
// terminate.
func (e *WazeroEngine) OnThreadExit(fn func()) {
	e.mu.Lock()
	e.exitHooks = append(e.exitHooks, fn)
	e.mu.Unlock()
}

// SetDataDir registers the directory mounted at /data inside the guest.
// Must be called before Start.
func (e *WazeroEngine) SetDataDir(path string) {
	e.mu.Lock()
	e.dataDir = path
	e.mu.Unlock()
}

// Notify queues one message for the guest. Drops when the queue is full.
func (e *WazeroEngine) Notify(channel, message string) {
	select {
	case e.pending <- [2]string{channel, message}:
	default:
		Logger().Warn("notify queue full, dropping message",
			zap.String("channel", channel))
	}
}

// Start compiles and runs the guest to completion, blocking the calling
// thread. The guest's exit code is returned verbatim; failures before the
// guest runs return a generic failure code after logging.
func (e *WazeroEngine) Start(ctx context.Context, block *argv.Block) int {
	defer e.runExitHooks()

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		Logger().Error("instantiate WASI", zap.Error(err))
		return exitFailure
	}

	if err := e.instantiateHostModule(ctx, r); err != nil {
		Logger().Error("instantiate bridge host module", zap.Error(err))
		return exitFailure
	}

	compiled, err := r.CompileModule(ctx, e.wasm)
	if err != nil {
		Logger().Error("compile guest", zap.Error(err))
		return exitFailure
	}

	cfg := wazero.NewModuleConfig().
		WithArgs(block.Args()...).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithSysWalltime().
		WithSysNanotime()

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			cfg = cfg.WithEnv(k, v)
		}
	}

	e.mu.Lock()
	dataDir := e.dataDir
	e.mu.Unlock()
	if dataDir != "" {
		cfg = cfg.WithFSConfig(wazero.NewFSConfig().WithDirMount(dataDir, guestDataDir))
	}

	// InstantiateModule runs the guest's _start and blocks until it exits.
	mod, err := r.InstantiateModule(ctx, compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if stderrors.As(err, &exitErr) {
			return int(exitErr.ExitCode())
		}
		Logger().Error("guest failed", zap.Error(err))
		return exitFailure
	}

	return 0
}

func (e *WazeroEngine) instantiateHostModule(ctx context.Context, r wazero.Runtime) error {
	_, err := r.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithFunc(e.hostNotify).
		Export("notify").
		NewFunctionBuilder().
		WithFunc(e.hostPoll).
		Export("poll").
		Instantiate(ctx)
	return err
}

// hostNotify is the guest -> managed path. Invoked on whichever engine
// thread the guest happens to be running.
func (e *WazeroEngine) hostNotify(_ context.Context, m api.Module, chPtr, chLen, msgPtr, msgLen uint32) {
	ch, ok := m.Memory().Read(chPtr, chLen)
	if !ok {
		Logger().Warn("notify: channel out of bounds")
		return
	}
	msg, ok := m.Memory().Read(msgPtr, msgLen)
	if !ok {
		Logger().Warn("notify: message out of bounds")
		return
	}

	e.mu.Lock()
	fn := e.onMessage
	e.mu.Unlock()
	if fn == nil {
		Logger().Warn("notify: no callback registered, dropping message")
		return
	}

	// Copy out of guest memory before the callback crosses the boundary.
	fn(string(ch), string(msg))
}

// hostPoll is the managed -> guest path: writes one pending message as
// "channel\x00payload" into the guest buffer and returns the byte count.
func (e *WazeroEngine) hostPoll(_ context.Context, m api.Module, bufPtr, bufLen uint32) uint32 {
	var item [2]string
	select {
	case item = <-e.pending:
	default:
		return 0
	}

	payload := append(append([]byte(item[0]), 0), item[1]...)
	if uint32(len(payload)) > bufLen {
		Logger().Warn("poll: guest buffer too small, dropping message",
			zap.String("channel", item[0]),
			zap.Int("need", len(payload)),
			zap.Uint32("have", bufLen))
		return 0
	}

	if !m.Memory().Write(bufPtr, payload) {
		Logger().Warn("poll: guest buffer out of bounds")
		return 0
	}
	return uint32(len(payload))
}

func (e *WazeroEngine) runExitHooks() {
	e.mu.Lock()
	hooks := make([]func(), len(e.exitHooks))
	copy(hooks, e.exitHooks)
	e.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
