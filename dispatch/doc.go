// Package dispatch turns engine callbacks into calls against the resolved
// managed-side target.
//
// Deliver is invoked from arbitrary engine threads. It obtains the thread's
// execution context from the attachment manager, creates two transient
// string refs for the channel name and message, invokes the call target, and
// releases the refs. Delivery is fire-and-forget: a refused attachment or a
// failed call is logged and the message silently dropped. There is no retry
// and no queue.
package dispatch
