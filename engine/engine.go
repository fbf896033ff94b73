package engine

import (
	"context"

	"github.com/nodemobile/bridge/argv"
)

// MessageFunc receives (channel, message) callbacks from engine threads.
type MessageFunc func(channel, message string)

// Engine is the embedded scripting runtime, started once per session.
type Engine interface {
	// Start runs the engine to completion with the given argument block,
	// blocking the calling thread for the engine's lifetime. The returned
	// exit code is the engine's own, passed through uninterpreted.
	Start(ctx context.Context, block *argv.Block) int

	// OnMessage registers the callback the engine invokes to deliver
	// messages to the managed side. Must be called before Start.
	OnMessage(fn MessageFunc)

	// OnThreadExit registers a cleanup hook run on each engine thread as it
	// terminates. This is the engine's thread-exit mechanism; the bridge
	// registers its detach cleanup here exactly once.
	OnThreadExit(fn func())

	// Notify sends a message into the engine. Fire-and-forget: if the
	// engine cannot take it, it is dropped.
	Notify(channel, message string)

	// SetDataDir registers the engine's writable data directory.
	// Must be called before Start.
	SetDataDir(path string)
}
