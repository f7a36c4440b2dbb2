package oui

import (
	"cmp"
	_ "embed"
	"encoding/hex"
	"net"
	"slices"
	"strings"

	"github.com/P8labs/foxctl/model"
)

const Unknown = "Unknown"

// oui.txt holds one "<6 hex digits> <vendor>" entry per line, sorted by prefix.
//
//go:embed oui.txt
var ouiRaw string

var ouiList = strings.Split(strings.TrimSpace(ouiRaw), "\n")

func MacToVendor(mac net.HardwareAddr) string {
	if len(mac) < 3 {
		return Unknown
	}

	oui := hex.EncodeToString(mac[:3])
	i, ok := slices.BinarySearchFunc(ouiList, oui, func(str, target string) int {
		return cmp.Compare(str[:6], target)
	})

	if !ok {
		return Unknown
	}

	vendorName := ouiList[i][7:]
	return strings.TrimSpace(vendorName)
}

// DeviceVendor prefers the vendor reported by the daemon and falls back to
// the embedded table.
func DeviceVendor(device model.Device) string {
	if device.Vendor != nil && strings.TrimSpace(*device.Vendor) != "" {
		return strings.TrimSpace(*device.Vendor)
	}
	mac, err := net.ParseMAC(device.MACAddress)
	if err != nil {
		return Unknown
	}
	return MacToVendor(mac)
}
