package model

import (
	"fmt"
)

// FormatUptime renders seconds using the two largest units out of days,
// hours and minutes.
func FormatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%vd %vh", days, hours)
	} else if hours > 0 {
		return fmt.Sprintf("%vh %vm", hours, minutes)
	}
	return fmt.Sprintf("%vm", minutes)
}

// StatusColor maps a device status to a presentation category. Unrecognized
// statuses fall back to "secondary".
func StatusColor(status DeviceStatus) string {
	switch status {
	case StatusOnline:
		return "success"
	case StatusOffline:
		return "danger"
	default:
		return "secondary"
	}
}

// TriggerTypeLabel returns the display label, or the raw value if the
// trigger type is not recognized.
func TriggerTypeLabel(t TriggerType) string {
	switch t {
	case TriggerNewDevice:
		return "New Device"
	case TriggerDeviceConnected:
		return "Device Connected"
	case TriggerDeviceDisconnected:
		return "Device Disconnected"
	case TriggerDeviceStatusChange:
		return "Status Change"
	default:
		return string(t)
	}
}
