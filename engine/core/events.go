package core

// EventContext carries a small payload alongside an event code.
type EventContext struct {
	Data struct {
		U64 [2]uint64
		I32 [4]int32
		C   [4]string
	}
}

// System event codes. Applications should use codes beyond 255.
type SystemEventCode int

const (
	// The material index was rebuilt; GPU work may still be pending.
	/* Context usage:
	 * u64 generation = data.U64[0];
	 * i32 collections = data.I32[0];
	 * i32 materials = data.I32[1];
	 */
	EventCodeMaterialsStaged SystemEventCode = 0x10

	// Deferred GPU work was applied and displaced collections were released.
	// Material pointers taken before this event must not be used anymore.
	/* Context usage:
	 * u64 generation = data.U64[0];
	 * i32 prepared = data.I32[0];
	 * i32 released = data.I32[1];
	 */
	EventCodeMaterialsCommitted SystemEventCode = 0x11

	MaxEventCode SystemEventCode = 0xFF
)

// This should be more than enough codes...
const maxMessageCodes = 16384

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches events synchronously on the caller's goroutine, in
// registration order, until a callback reports the event as handled.
type EventBus struct {
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

// Register listens for code. A listener can only be registered once per code;
// a duplicate returns false.
func (eb *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || code >= maxMessageCodes || onEvent == nil {
		return false
	}
	for _, e := range eb.registered[code] {
		if e.listener == listener {
			return false
		}
	}
	eb.registered[code] = append(eb.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func (eb *EventBus) Unregister(code SystemEventCode, listener interface{}) bool {
	events := eb.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eb.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// Fire returns true if a listener handled the event.
func (eb *EventBus) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if eb == nil {
		return false
	}
	for _, e := range eb.registered[code] {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}

func (eb *EventBus) Shutdown() {
	eb.registered = make(map[SystemEventCode][]*registeredEvent)
}
