package event

import (
	"bytes"
	"fmt"
	"net"
)

// DeviceEventFilter drops events for excluded IP or MAC addresses. Both are
// compared in canonical form.
type DeviceEventFilter struct {
	excludedIPs  map[string]struct{}
	excludedMACs map[string]struct{}
}

func NewDeviceEventFilter(excludedIPs map[string]struct{}, excludedMACs map[string]struct{}) DeviceEventFilter {
	return DeviceEventFilter{
		excludedIPs:  excludedIPs,
		excludedMACs: excludedMACs,
	}
}

func (f DeviceEventFilter) IsExcluded(ip string, mac string) bool {
	if addr := net.ParseIP(ip); addr != nil {
		if _, ok := f.excludedIPs[addr.String()]; ok {
			return true
		}
	}
	if hw, err := net.ParseMAC(mac); err == nil {
		if _, ok := f.excludedMACs[hw.String()]; ok {
			return true
		}
	}
	return false
}

func ReadIPs(data []byte) (map[string]struct{}, error) {
	ips := map[string]struct{}{}

	for line := range bytes.Lines(data) {
		trimmedLine := bytes.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		addr := net.ParseIP(string(trimmedLine))
		if addr == nil {
			return nil, fmt.Errorf("invalid IP address: %v", string(trimmedLine))
		}
		ips[addr.String()] = struct{}{}
	}

	return ips, nil
}

func ReadMACs(data []byte) (map[string]struct{}, error) {
	macs := map[string]struct{}{}

	for line := range bytes.Lines(data) {
		trimmedLine := bytes.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		hw, err := net.ParseMAC(string(trimmedLine))
		if err != nil {
			return nil, fmt.Errorf("invalid MAC address: %v", string(trimmedLine))
		}
		macs[hw.String()] = struct{}{}
	}

	return macs, nil
}
