package bridge

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/nodemobile/bridge/argv"
	"github.com/nodemobile/bridge/attach"
	"github.com/nodemobile/bridge/dispatch"
	"github.com/nodemobile/bridge/engine"
	"github.com/nodemobile/bridge/host"
	"github.com/nodemobile/bridge/redirect"
)

// ModulePathEnv is the environment variable the engine's module resolution
// reads. Start sets it before the engine runs.
const ModulePathEnv = "NODE_PATH"

// StartNoRuntime is the distinguished exit code returned by Start when the
// managed-runtime handle was never captured. All other codes come from the
// engine itself.
const StartNoRuntime = -1

// Option configures a Bridge.
type Option func(*Bridge)

// WithCeiling overrides the attachment ceiling.
func WithCeiling(n int32) Option {
	return func(b *Bridge) { b.ceiling = n }
}

// WithSink overrides the stream-redirection log sink.
func WithSink(s redirect.Sink) Option {
	return func(b *Bridge) { b.sink = s }
}

// WithRedirectTag overrides the tag on redirected stream lines.
func WithRedirectTag(tag string) Option {
	return func(b *Bridge) { b.tag = tag }
}

// Bridge is one embedded-runtime session. It owns the runtime handle, the
// resolved call target, and the attachment state, and tears them down when
// the engine returns.
type Bridge struct {
	rt         host.Runtime
	eng        engine.Engine
	receiver   any
	manager    *attach.Manager
	dispatcher *dispatch.Dispatcher
	redirector *redirect.Redirector
	target     *host.CallTarget

	ceiling int32
	sink    redirect.Sink
	tag     string
}

// New creates a session bound to the managed runtime rt, the embedded
// engine eng, and the managed-side receiver of bridge messages.
func New(rt host.Runtime, eng engine.Engine, receiver any, opts ...Option) *Bridge {
	b := &Bridge{
		rt:       rt,
		eng:      eng,
		receiver: receiver,
		tag:      redirect.DefaultTag,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.sink == nil {
		b.sink = redirect.NewZapSink(Logger())
	}

	b.manager = attach.NewManager(rt, b.ceiling)
	b.dispatcher = dispatch.NewDispatcher(b.manager, eng)
	b.redirector = redirect.NewWithTag(b.sink, b.tag)

	return b
}

// Start runs the embedded runtime to completion and returns its exit code,
// or StartNoRuntime if the managed-runtime handle is absent.
//
// The call blocks for the engine's entire lifetime. Teardown of the call
// target, the runtime handle, and the argument block runs only on the path
// where the engine returns with a code. When the engine runs to process
// termination that path is never reached.
func (b *Bridge) Start(ctx context.Context, args []string, modulePath string, redirectOutput bool) int {
	if err := os.Setenv(ModulePathEnv, modulePath); err != nil {
		Logger().Error("set module path", zap.Error(err))
	}

	block := argv.Build(args)
	defer block.Free()

	b.eng.OnMessage(b.dispatcher.Deliver)

	if b.rt == nil {
		Logger().Error("failed to capture managed-runtime handle")
		return StartNoRuntime
	}

	// Presence check, not a synchronized gate: one session per process is
	// expected, overlapping Start calls are out of scope.
	if b.target == nil {
		target, err := host.ResolveTarget(b.receiver)
		if err != nil {
			// Dispatch stays a logged no-op without a target.
			Logger().Error("failed to resolve call target", zap.Error(err))
		} else {
			b.target = target
			b.dispatcher.SetTarget(target)
			Logger().Info("call target resolved",
				zap.String("target", target.Name()))
		}
	}

	if redirectOutput {
		if err := b.redirector.Start(); err != nil {
			Logger().Error("could not start redirecting stdout and stderr",
				zap.Error(err))
		}
	}

	code := b.eng.Start(ctx, block)

	b.dispatcher.ClearTarget()
	b.target = nil
	b.rt = nil

	return code
}

// NotifyChannel sends a message to the embedded runtime. Fire-and-forget,
// best-effort.
func (b *Bridge) NotifyChannel(channel, message string) {
	b.eng.Notify(channel, message)
}

// RegisterDataDirPath sets the engine's writable data directory.
// Must be called before Start.
func (b *Bridge) RegisterDataDirPath(path string) {
	b.eng.SetDataDir(path)
}

// Manager exposes the attachment manager for diagnostics.
func (b *Bridge) Manager() *attach.Manager {
	return b.manager
}

// Dispatcher exposes the dispatcher, primarily for engine wiring.
func (b *Bridge) Dispatcher() *dispatch.Dispatcher {
	return b.dispatcher
}
