// Package engine defines the embedded scripting runtime boundary.
//
// The bridge treats the engine as start(argv) -> exit code: Start blocks the
// calling thread for the engine's entire lifetime and its exit code is
// passed through verbatim. Callbacks registered with OnMessage arrive on
// arbitrary engine threads; OnThreadExit registers the cleanup hook those
// threads run as they terminate.
//
// WazeroEngine is the bundled implementation: it runs a WebAssembly guest as
// the embedded runtime via wazero, exposing a "bridge" host module with
// notify (guest -> managed) and poll (managed -> guest) and preopening the
// registered data directory.
package engine
