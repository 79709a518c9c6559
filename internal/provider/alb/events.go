package alb

import (
	"math"

	"github.com/felixgeelhaar/albmanager/internal/domain/descriptor"
)

// EventKind is the event key handled by the binder.
const EventKind = "alb"

const listenerArnKey = "listenerArn"

// FunctionTable is the view of a service's functions the binder needs.
type FunctionTable interface {
	FunctionNames() []string
	Events(function string) []descriptor.Event
	SetEvent(function string, index int, event descriptor.Event) error
}

// BoundEvent identifies an event that was pointed at the generated listener.
type BoundEvent struct {
	Function string
	Index    int
}

// ListenerReference returns the value written into unbound alb events.
func ListenerReference() map[string]any {
	return map[string]any{"Ref": LogicalIDHTTPListener}
}

// BindEvent returns a copy of ev whose alb entry references the generated
// listener, and true, when ev is an alb event without a listener. Any other
// event, including a malformed one, is returned as is with false.
func BindEvent(ev descriptor.Event) (descriptor.Event, bool) {
	albEvent, ok := ev[EventKind].(map[string]any)
	if !ok {
		return ev, false
	}
	if listenerSet(albEvent[listenerArnKey]) {
		return ev, false
	}

	bound := make(map[string]any, len(albEvent)+1)
	for k, v := range albEvent {
		bound[k] = v
	}
	bound[listenerArnKey] = ListenerReference()

	out := make(descriptor.Event, len(ev))
	for k, v := range ev {
		out[k] = v
	}
	out[EventKind] = bound
	return out, true
}

// BindListeners binds every unbound alb event of every function, in function
// and event order. Errors only come from writing back to the table.
func BindListeners(table FunctionTable) ([]BoundEvent, error) {
	var bound []BoundEvent
	for _, fn := range table.FunctionNames() {
		for i, ev := range table.Events(fn) {
			updated, changed := BindEvent(ev)
			if !changed {
				continue
			}
			if err := table.SetEvent(fn, i, updated); err != nil {
				return bound, err
			}
			bound = append(bound, BoundEvent{Function: fn, Index: i})
		}
	}
	return bound, nil
}

// listenerSet reports whether a listenerArn value counts as set. Absent,
// null, empty string, false and numeric zero are unset.
func listenerSet(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}
