// Package usbscan lists attached ZLG USB adapters.
package usbscan

import (
	"fmt"

	"github.com/google/gousb"
	"github.com/roffe/zlgcan"
)

// VendorIDs are the USB vendor IDs the ZLG adapters enumerate with.
var VendorIDs = []gousb.ID{0x04CC, 0x3068}

// Device is one attached adapter.
type Device struct {
	Bus     int
	Address int
	Vendor  gousb.ID
	Product gousb.ID
	Name    string
	Serial  string

	// Type is set when the product string names a known device type.
	Type    zlgcan.DeviceType
	TypeSet bool
}

func (d Device) String() string {
	s := fmt.Sprintf("%03d.%03d %s:%s %s", d.Bus, d.Address, d.Vendor, d.Product, d.Name)
	if d.Serial != "" {
		s += " sn:" + d.Serial
	}
	if d.TypeSet {
		s += fmt.Sprintf(" type:%d", uint32(d.Type))
	}
	return s
}

func isZLG(v gousb.ID) bool {
	for _, id := range VendorIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Scan opens every device with a ZLG vendor ID long enough to read its
// strings.
func Scan() ([]Device, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return isZLG(desc.Vendor)
	})
	defer func() {
		for _, d := range devs {
			d.Close()
		}
	}()
	if err != nil && len(devs) == 0 {
		return nil, fmt.Errorf("usb scan: %w", err)
	}

	out := make([]Device, 0, len(devs))
	for _, d := range devs {
		dev := Device{
			Bus:     d.Desc.Bus,
			Address: d.Desc.Address,
			Vendor:  d.Desc.Vendor,
			Product: d.Desc.Product,
		}
		dev.Name, _ = d.Product()
		dev.Serial, _ = d.SerialNumber()
		if t, err := zlgcan.ParseDeviceType(dev.Name); err == nil {
			dev.Type, dev.TypeSet = t, true
		}
		out = append(out, dev)
	}
	return out, nil
}
