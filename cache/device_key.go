package cache

import (
	"fmt"
	"net"
)

// DeviceKey is the 48-bit MAC address of a device, so every spelling the
// daemon may use for the same MAC maps onto one key.
type DeviceKey [6]byte

func KeyFromMAC(mac string) (DeviceKey, error) {
	var key DeviceKey
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return key, err
	}
	if len(hw) != len(key) {
		return key, fmt.Errorf("not a 48-bit MAC address: %v", mac)
	}
	copy(key[:], hw)
	return key, nil
}

func (k DeviceKey) String() string {
	return net.HardwareAddr(k[:]).String()
}
