package event_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/P8labs/foxctl/event"
	"github.com/P8labs/foxctl/model"
)

func Test_Types(t *testing.T) {
	t.Parallel()

	data := map[string]struct {
		new      bool
		previous model.DeviceStatus
		current  model.DeviceStatus
		expected []event.Type
	}{
		"new device":             {true, "", model.StatusOnline, []event.Type{event.DeviceSeen, event.NewDevice}},
		"unchanged":              {false, model.StatusOnline, model.StatusOnline, []event.Type{event.DeviceSeen}},
		"connected":              {false, model.StatusOffline, model.StatusOnline, []event.Type{event.DeviceSeen, event.DeviceConnected, event.DeviceStatusChange}},
		"connected from unknown": {false, model.StatusUnknown, model.StatusOnline, []event.Type{event.DeviceSeen, event.DeviceConnected, event.DeviceStatusChange}},
		"disconnected":           {false, model.StatusOnline, model.StatusOffline, []event.Type{event.DeviceSeen, event.DeviceDisconnected, event.DeviceStatusChange}},
		"went unknown":           {false, model.StatusOnline, model.StatusUnknown, []event.Type{event.DeviceSeen, event.DeviceStatusChange}},
		"unknown to offline":     {false, model.StatusUnknown, model.StatusOffline, []event.Type{event.DeviceSeen, event.DeviceStatusChange}},
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			e := event.DeviceEvent{
				Device:         model.Device{MACAddress: "00:00:00:00:00:01", Status: d.current},
				New:            d.new,
				PreviousStatus: d.previous,
			}
			if diff := cmp.Diff(d.expected, e.Types()); diff != "" {
				t.Fatalf("unexpected event types: %v", diff)
			}
		})
	}
}

func Test_Trigger(t *testing.T) {
	t.Parallel()

	data := map[event.Type]struct {
		trigger model.TriggerType
		ok      bool
	}{
		event.DeviceSeen:         {"", false},
		event.NewDevice:          {model.TriggerNewDevice, true},
		event.DeviceConnected:    {model.TriggerDeviceConnected, true},
		event.DeviceDisconnected: {model.TriggerDeviceDisconnected, true},
		event.DeviceStatusChange: {model.TriggerDeviceStatusChange, true},
	}

	for eventType, d := range data {
		trigger, ok := eventType.Trigger()
		if trigger != d.trigger || ok != d.ok {
			t.Fatalf("unexpected trigger for %v, expected: %v %v, actual: %v %v", eventType, d.trigger, d.ok, trigger, ok)
		}
	}
}
