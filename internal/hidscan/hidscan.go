// Package hidscan enumerates HID devices visible to hidapi, for diagnostics.
package hidscan

import (
	"fmt"
	"strings"

	"github.com/sstallion/go-hid"
)

type Device struct {
	Path      string `json:"path"`
	VendorID  uint16 `json:"vendorId"`
	ProductID uint16 `json:"productId"`
	Interface int    `json:"interface"`
	Name      string `json:"name"`
}

// List enumerates every HID device on the system.
func List() ([]Device, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize hidapi: %w", err)
	}
	defer hid.Exit()

	var devices []Device
	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		devices = append(devices, Device{
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			Interface: info.InterfaceNbr,
			Name:      deviceName(*info),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func deviceName(info hid.DeviceInfo) string {
	var parts []string
	if info.MfrStr != "" {
		parts = append(parts, info.MfrStr)
	}
	if info.ProductStr != "" {
		parts = append(parts, info.ProductStr)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%04x:%04x", info.VendorID, info.ProductID)
	}
	return strings.Join(parts, " ")
}
