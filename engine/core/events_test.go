package core

import "testing"

func TestEventBus_FireStopsAtFirstHandler(t *testing.T) {
	bus := NewEventBus()
	var calls []string

	bus.Register(EventCodeMaterialsStaged, "first", func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, listener.(string))
		return false
	})
	bus.Register(EventCodeMaterialsStaged, "second", func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, listener.(string))
		return true
	})
	bus.Register(EventCodeMaterialsStaged, "third", func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, listener.(string))
		return true
	})

	if !bus.Fire(EventCodeMaterialsStaged, nil, EventContext{}) {
		t.Error("Fire() = false, want true")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestEventBus_Register(t *testing.T) {
	bus := NewEventBus()
	fn := func(SystemEventCode, interface{}, interface{}, EventContext) bool { return true }

	if !bus.Register(EventCodeMaterialsCommitted, "l", fn) {
		t.Fatal("Register() = false, want true")
	}
	if bus.Register(EventCodeMaterialsCommitted, "l", fn) {
		t.Error("duplicate Register() = true, want false")
	}
	if bus.Register(EventCodeMaterialsCommitted, "other", nil) {
		t.Error("Register(nil callback) = true, want false")
	}
	if bus.Register(-1, "l", fn) {
		t.Error("Register(-1) = true, want false")
	}

	if !bus.Unregister(EventCodeMaterialsCommitted, "l") {
		t.Error("Unregister() = false, want true")
	}
	if bus.Fire(EventCodeMaterialsCommitted, nil, EventContext{}) {
		t.Error("Fire() after Unregister = true, want false")
	}
}

func TestEventBus_NilAndShutdown(t *testing.T) {
	var nilBus *EventBus
	if nilBus.Fire(EventCodeMaterialsStaged, nil, EventContext{}) {
		t.Error("Fire() on a nil bus = true, want false")
	}

	bus := NewEventBus()
	bus.Register(EventCodeMaterialsStaged, "l", func(SystemEventCode, interface{}, interface{}, EventContext) bool { return true })
	bus.Shutdown()
	if bus.Fire(EventCodeMaterialsStaged, nil, EventContext{}) {
		t.Error("Fire() after Shutdown = true, want false")
	}
}
