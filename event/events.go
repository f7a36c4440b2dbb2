package event

import "github.com/P8labs/foxctl/model"

// DeviceEvent is one observation of a device in a poll of the daemon,
// together with what the cache knew about it before.
type DeviceEvent struct {
	Device         model.Device
	Ts             int64
	FirstTs        int64
	Count          int
	New            bool
	PreviousStatus model.DeviceStatus
	MacVendor      string
}

// Types lists the events raised by the observation, DeviceSeen first.
func (e DeviceEvent) Types() []Type {
	types := []Type{DeviceSeen}
	if e.New {
		return append(types, NewDevice)
	}
	if e.PreviousStatus == e.Device.Status {
		return types
	}

	if e.Device.Status == model.StatusOnline {
		types = append(types, DeviceConnected)
	} else if e.PreviousStatus == model.StatusOnline && e.Device.Status == model.StatusOffline {
		types = append(types, DeviceDisconnected)
	}
	return append(types, DeviceStatusChange)
}

func (e DeviceEvent) toNotification(eventType Type, rules []string) Notification {
	n := Notification{
		EventType:   eventType.describe(),
		Mac:         e.Device.MACAddress,
		Ip:          e.Device.IP(),
		DisplayName: e.Device.DisplayName(),
		Status:      string(e.Device.Status),
		Ts:          e.Ts,
		MacVendor:   e.MacVendor,
		Rules:       rules,
	}
	if eventType == DeviceSeen {
		n.FirstTs = e.FirstTs
		n.Count = e.Count
	}
	if !e.New && e.PreviousStatus != e.Device.Status {
		n.PreviousStatus = string(e.PreviousStatus)
	}
	return n
}
