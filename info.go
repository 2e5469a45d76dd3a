package zlgcan

import (
	"fmt"
	"strings"

	"github.com/albenik/bcd"
)

// Version is a BCD encoded version word, 0x0102 reads as V1.02.
type Version uint16

func (v Version) Major() int { return int(bcd.ToUint8(byte(v >> 8))) }
func (v Version) Minor() int { return int(bcd.ToUint8(byte(v))) }

func (v Version) String() string {
	return fmt.Sprintf("V%d.%02d", v.Major(), v.Minor())
}

// Semver renders the version for golang.org/x/mod/semver comparison.
func (v Version) Semver() string {
	return fmt.Sprintf("v%d.%d.0", v.Major(), v.Minor())
}

// DeviceInfo is the board information reported by the device.
type DeviceInfo struct {
	Hardware    Version
	Firmware    Version
	Driver      Version
	API         Version
	IRQ         uint16
	CANChannels uint8
	LINChannels uint8
	Serial      string
	HardwareID  string
}

// CANFD reports whether the board identifies itself as CAN-FD capable.
func (i *DeviceInfo) CANFD() bool {
	return strings.Contains(strings.ToUpper(i.HardwareID), "CANFD")
}

func (i *DeviceInfo) String() string {
	return fmt.Sprintf("%s sn:%s hw:%s fw:%s drv:%s api:%s can:%d lin:%d fd:%v",
		i.HardwareID, i.Serial, i.Hardware, i.Firmware, i.Driver, i.API, i.CANChannels, i.LINChannels, i.CANFD())
}

// ChannelStatus is a controller register snapshot.
type ChannelStatus struct {
	Interrupt uint8
	Mode      uint8
	Status    uint8
	ALCapture uint8
	ECCapture uint8
	EWLimit   uint8
	RxErrors  uint8
	TxErrors  uint8
	BusOff    bool
}

func (s *ChannelStatus) String() string {
	return fmt.Sprintf("rec:%d tec:%d busoff:%v status:0x%02X", s.RxErrors, s.TxErrors, s.BusOff, s.Status)
}

// ChannelError is the last error recorded by a channel.
type ChannelError struct {
	Code    uint32
	Passive [3]uint8
	ArbLost uint8
}

func (e *ChannelError) String() string {
	return fmt.Sprintf("code:0x%08X passive:% X arblost:%d", e.Code, e.Passive[:], e.ArbLost)
}
