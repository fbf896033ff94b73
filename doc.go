// Package bridge connects a managed application runtime to an embedded
// scripting runtime across a foreign-function boundary.
//
// # Quick Start
//
//	rt := host.NewLocalRuntime()
//	eng := engine.NewWazeroEngine(guestWasm)
//	b := bridge.New(rt, eng, receiver)
//
//	b.RegisterDataDirPath("/var/lib/app")
//	code := b.Start(ctx, []string{"engine", "main.js"}, modulesPath, true)
//
// The receiver is any value with a method
//
//	OnChannelMessage(channel, message string)
//
// resolved once by reflection when Start begins. Messages the engine emits
// from its own threads are delivered to that method; messages for the engine
// go through NotifyChannel. Both directions are fire-and-forget.
//
// # Sessions
//
// A Bridge is a single embedded-runtime session: Start blocks for the
// engine's entire lifetime and tears down the cached call target and runtime
// handle when (and only when) the engine returns with an exit code. When the
// engine instead runs to process termination, the teardown path is
// unreachable. One live session per process is expected; overlapping Start
// calls are not synchronized.
//
// # Thread attachment
//
// Engine callbacks arrive on arbitrary engine-created threads. The attach
// package caches one execution context per thread, distinguishes contexts it
// attached (owned, detached at thread exit) from contexts attached elsewhere
// (borrowed, never detached here), and refuses new attachments past a fixed
// ceiling so a runaway engine cannot exhaust per-process attachment
// resources. Refused deliveries are dropped, not queued.
package bridge
