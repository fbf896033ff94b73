package host

import (
	"reflect"

	"github.com/nodemobile/bridge/errors"
)

// ReceiverMethod is the method name resolved on the registered receiver.
const ReceiverMethod = "OnChannelMessage"

// CallTarget is the resolved managed-side receiver of bridge messages.
// It holds a bound method value, so it survives across thread boundaries and
// past the scope of the call that resolved it. Created when the session
// starts, released at teardown.
type CallTarget struct {
	method reflect.Value
	name   string
}

// ResolveTarget resolves the bridge call target on receiver.
//
// The receiver must carry a method OnChannelMessage(channel, message string)
// with no results. Resolution happens once per session; a failed resolution
// leaves the dispatcher without a target, which downgrades delivery to a
// logged no-op rather than an error.
func ResolveTarget(receiver any) (*CallTarget, error) {
	if receiver == nil {
		return nil, errors.InvalidInput(errors.PhaseHost, "receiver is nil")
	}

	rv := reflect.ValueOf(receiver)
	m := rv.MethodByName(ReceiverMethod)
	if !m.IsValid() {
		return nil, errors.NotFound(errors.PhaseHost, "receiver method", ReceiverMethod)
	}

	mt := m.Type()
	if mt.NumIn() != 2 || mt.NumOut() != 0 ||
		mt.In(0).Kind() != reflect.String || mt.In(1).Kind() != reflect.String {
		return nil, errors.TypeMismatch(errors.PhaseHost,
			ReceiverMethod+" must have signature func(channel, message string)")
	}

	return &CallTarget{
		method: m,
		name:   reflect.TypeOf(receiver).String() + "." + ReceiverMethod,
	}, nil
}

// Name returns a diagnostic name for the resolved target.
func (t *CallTarget) Name() string {
	return t.name
}

// Invoke calls the bound receiver method.
func (t *CallTarget) Invoke(channel, message string) {
	t.method.Call([]reflect.Value{
		reflect.ValueOf(channel),
		reflect.ValueOf(message),
	})
}
