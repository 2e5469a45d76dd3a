// Package adapter links every device family into the registry.
package adapter

import (
	"github.com/roffe/zlgcan"

	_ "github.com/roffe/zlgcan/adapter/pciecanfd"
	_ "github.com/roffe/zlgcan/adapter/usbcan"
	_ "github.com/roffe/zlgcan/adapter/usbcanfd"
)

// Families lists the linked families by name.
func Families() []zlgcan.FamilyInfo {
	return zlgcan.ListFamilies()
}

// Supported lists every device type some family serves.
func Supported() []zlgcan.DeviceType {
	var out []zlgcan.DeviceType
	for _, t := range zlgcan.DeviceTypes() {
		if _, err := zlgcan.FamilyFor(t); err == nil {
			out = append(out, t)
		}
	}
	return out
}
