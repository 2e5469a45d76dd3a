package zlgcan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DeviceType is the vendor device type code passed to every native call.
type DeviceType uint32

const (
	USBCAN1           DeviceType = 3
	USBCAN2           DeviceType = 4
	PCIECANFD100U     DeviceType = 38
	PCIECANFD200U     DeviceType = 39
	PCIECANFD400U     DeviceType = 40
	USBCANFD200U      DeviceType = 41
	USBCANFD100U      DeviceType = 42
	USBCANFDMini      DeviceType = 43
	PCIECANFD100UEx   DeviceType = 60
	PCIECANFD400UEx   DeviceType = 61
	PCIECANFD200UMini DeviceType = 62
	PCIECANFD200UM2   DeviceType = 63
	USBCANFD400U      DeviceType = 76
)

// DeviceTraits describes what a device type can do independently of the
// driver family that talks to it.
type DeviceTraits struct {
	Name        string
	CANChannels uint8
	LINChannels uint8
	CANFD       bool
	Resistance  bool // terminal resistance switchable by software
	Values      bool // generic get/set value mechanism
}

var deviceTraits = map[DeviceType]DeviceTraits{
	USBCAN1:           {Name: "USBCAN-I", CANChannels: 1},
	USBCAN2:           {Name: "USBCAN-II", CANChannels: 2},
	PCIECANFD100U:     {Name: "PCIE-CANFD-100U", CANChannels: 1, CANFD: true, Values: true},
	PCIECANFD200U:     {Name: "PCIE-CANFD-200U", CANChannels: 2, CANFD: true, Values: true},
	PCIECANFD400U:     {Name: "PCIE-CANFD-400U", CANChannels: 4, CANFD: true, Values: true},
	USBCANFD200U:      {Name: "USBCANFD-200U", CANChannels: 2, LINChannels: 2, CANFD: true, Resistance: true, Values: true},
	USBCANFD100U:      {Name: "USBCANFD-100U", CANChannels: 1, LINChannels: 1, CANFD: true, Resistance: true, Values: true},
	USBCANFDMini:      {Name: "USBCANFD-MINI", CANChannels: 1, CANFD: true, Resistance: true},
	PCIECANFD100UEx:   {Name: "PCIE-CANFD-100U-EX", CANChannels: 1, CANFD: true, Values: true},
	PCIECANFD400UEx:   {Name: "PCIE-CANFD-400U-EX", CANChannels: 4, CANFD: true, Values: true},
	PCIECANFD200UMini: {Name: "PCIE-CANFD-200U-MINI", CANChannels: 2, CANFD: true, Values: true},
	PCIECANFD200UM2:   {Name: "PCIE-CANFD-200U-M2", CANChannels: 2, CANFD: true, Values: true},
	USBCANFD400U:      {Name: "USBCANFD-400U", CANChannels: 4, LINChannels: 2, CANFD: true, Resistance: true, Values: true},
}

// Traits returns the static description of t.
func (t DeviceType) Traits() (DeviceTraits, bool) {
	tr, ok := deviceTraits[t]
	return tr, ok
}

func (t DeviceType) String() string {
	if tr, ok := deviceTraits[t]; ok {
		return tr.Name
	}
	return fmt.Sprintf("DeviceType(%d)", uint32(t))
}

func (t DeviceType) CANFD() bool         { return deviceTraits[t].CANFD }
func (t DeviceType) HasResistance() bool { return deviceTraits[t].Resistance }
func (t DeviceType) ValueSupport() bool  { return deviceTraits[t].Values }
func (t DeviceType) CANChannels() uint8  { return deviceTraits[t].CANChannels }
func (t DeviceType) LINChannels() uint8  { return deviceTraits[t].LINChannels }

// DeviceTypes lists every known device type ordered by code.
func DeviceTypes() []DeviceType {
	out := make([]DeviceType, 0, len(deviceTraits))
	for t := range deviceTraits {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseDeviceType accepts a device name ("USBCANFD-200U") or a numeric code.
func ParseDeviceType(s string) (DeviceType, error) {
	for t, tr := range deviceTraits {
		if strings.EqualFold(tr.Name, s) {
			return t, nil
		}
	}
	if code, err := strconv.ParseUint(s, 10, 32); err == nil {
		if _, ok := deviceTraits[DeviceType(code)]; ok {
			return DeviceType(code), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownDevice, s)
}
