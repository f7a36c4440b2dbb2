package model

import (
	"net"
)

type DeviceStatus string

const (
	StatusOnline  DeviceStatus = "online"
	StatusOffline DeviceStatus = "offline"
	StatusUnknown DeviceStatus = "unknown"
)

// Device is a network endpoint observed by the daemon. The MAC address is its
// identity; ID is a server-side surrogate.
type Device struct {
	ID         int64        `json:"id"`
	MACAddress string       `json:"mac_address"`
	IPAddress  *string      `json:"ip_address"`
	Hostname   *string      `json:"hostname"`
	Nickname   *string      `json:"nickname"`
	Vendor     *string      `json:"vendor,omitempty"`
	Status     DeviceStatus `json:"status"`
	FirstSeen  string       `json:"first_seen"`
	LastSeen   string       `json:"last_seen"`
}

type DevicesResponse struct {
	Devices []Device `json:"devices"`
	Count   int      `json:"count,omitempty"`
}

// NicknameRequest always carries the nickname key; a nil Nickname clears it.
type NicknameRequest struct {
	Nickname *string `json:"nickname"`
}

// DisplayName prefers the user-assigned nickname, then the hostname.
func (d Device) DisplayName() string {
	if d.Nickname != nil && *d.Nickname != "" {
		return *d.Nickname
	}
	if d.Hostname != nil && *d.Hostname != "" {
		return *d.Hostname
	}
	return d.MACAddress
}

// IP returns the IP address or an empty string.
func (d Device) IP() string {
	if d.IPAddress == nil {
		return ""
	}
	return *d.IPAddress
}

// NormalizeMAC returns the canonical lower-case colon form of mac.
func NormalizeMAC(mac string) (string, error) {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return "", err
	}
	return hw.String(), nil
}
