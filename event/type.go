package event

import "github.com/P8labs/foxctl/model"

type Type int

const (
	DeviceSeen         Type = 100
	NewDevice          Type = 101
	DeviceConnected    Type = 102
	DeviceDisconnected Type = 103
	DeviceStatusChange Type = 104
)

func (e Type) describe() string {
	switch e {
	case DeviceSeen:
		return "DEVICE_SEEN"
	case NewDevice:
		return "NEW_DEVICE"
	case DeviceConnected:
		return "DEVICE_CONNECTED"
	case DeviceDisconnected:
		return "DEVICE_DISCONNECTED"
	case DeviceStatusChange:
		return "DEVICE_STATUS_CHANGE"
	default:
		return "UNKNOWN"
	}
}

// Trigger maps the event type onto the rule trigger the daemon would evaluate
// for the same transition. DeviceSeen has no trigger.
func (e Type) Trigger() (model.TriggerType, bool) {
	switch e {
	case NewDevice:
		return model.TriggerNewDevice, true
	case DeviceConnected:
		return model.TriggerDeviceConnected, true
	case DeviceDisconnected:
		return model.TriggerDeviceDisconnected, true
	case DeviceStatusChange:
		return model.TriggerDeviceStatusChange, true
	default:
		return "", false
	}
}

func (e Type) String() string {
	return e.describe()
}
