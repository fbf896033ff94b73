// Package host defines the managed-runtime side of the bridge.
//
// Runtime is the process-wide handle used for attachment operations: it can
// report whether the calling thread already has an execution context, attach
// the thread to produce one, and detach a context this layer owns. Conn is
// that per-thread execution context; it creates and releases string refs and
// invokes the resolved CallTarget. A Conn must only be used from the thread
// it was obtained on.
//
// CallTarget is the managed-side receiver of bridge messages, resolved once
// by reflection from a registered receiver value and retained for the
// session. Resolution requires a method
//
//	OnChannelMessage(channel, message string)
//
// LocalRuntime is the in-process Runtime implementation: each Conn carries
// its own string-ref table, and the managed application can pre-bind its own
// threads so the attachment layer adopts them as borrowed rather than
// attaching anew.
package host
