package hwframe

import (
	"bytes"

	"github.com/roffe/zlgcan"
)

const (
	DeviceInfoSize    = 80
	ChannelStatusSize = 12
	ChannelErrorSize  = 8

	serialOff  = 11
	serialLen  = 20
	hwTypeOff  = 31
	hwTypeLen  = 40
	linNumOff  = 71
	busOffFlag = 0x80
)

// DecodeDeviceInfo reads the board information block:
//
//	0 hw u16   2 fw u16   4 drv u16   6 api u16   8 irq u16   10 can_num
//	11 serial[20]   31 hw_type[40]   71 lin_num   72 reserved[8]
func DecodeDeviceInfo(b []byte) (*zlgcan.DeviceInfo, error) {
	if len(b) < DeviceInfoSize {
		return nil, zlgcan.OtherError("device info is %d bytes, want %d", len(b), DeviceInfoSize)
	}
	return &zlgcan.DeviceInfo{
		Hardware:    zlgcan.Version(le.Uint16(b[0:])),
		Firmware:    zlgcan.Version(le.Uint16(b[2:])),
		Driver:      zlgcan.Version(le.Uint16(b[4:])),
		API:         zlgcan.Version(le.Uint16(b[6:])),
		IRQ:         le.Uint16(b[8:]),
		CANChannels: b[10],
		Serial:      cString(b[serialOff : serialOff+serialLen]),
		HardwareID:  cString(b[hwTypeOff : hwTypeOff+hwTypeLen]),
		LINChannels: b[linNumOff],
	}, nil
}

// EncodeDeviceInfo is the inverse of DecodeDeviceInfo. Strings longer than
// their field are cut.
func EncodeDeviceInfo(i *zlgcan.DeviceInfo) []byte {
	b := make([]byte, DeviceInfoSize)
	le.PutUint16(b[0:], uint16(i.Hardware))
	le.PutUint16(b[2:], uint16(i.Firmware))
	le.PutUint16(b[4:], uint16(i.Driver))
	le.PutUint16(b[6:], uint16(i.API))
	le.PutUint16(b[8:], i.IRQ)
	b[10] = i.CANChannels
	copy(b[serialOff:serialOff+serialLen-1], i.Serial)
	copy(b[hwTypeOff:hwTypeOff+hwTypeLen-1], i.HardwareID)
	b[linNumOff] = i.LINChannels
	return b
}

func cString(b []byte) string {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return string(b)
}

// DecodeChannelStatus reads an SJA1000 style register snapshot: interrupt,
// mode, status, AL capture, EC capture, EW limit, RX errors, TX errors,
// reserved u32. Bus-off is bit 7 of the status register.
func DecodeChannelStatus(b []byte) (*zlgcan.ChannelStatus, error) {
	if len(b) < ChannelStatusSize {
		return nil, zlgcan.OtherError("channel status is %d bytes, want %d", len(b), ChannelStatusSize)
	}
	return &zlgcan.ChannelStatus{
		Interrupt: b[0],
		Mode:      b[1],
		Status:    b[2],
		ALCapture: b[3],
		ECCapture: b[4],
		EWLimit:   b[5],
		RxErrors:  b[6],
		TxErrors:  b[7],
		BusOff:    b[2]&busOffFlag != 0,
	}, nil
}

func EncodeChannelStatus(s *zlgcan.ChannelStatus) []byte {
	b := make([]byte, ChannelStatusSize)
	b[0], b[1], b[2], b[3] = s.Interrupt, s.Mode, s.Status, s.ALCapture
	b[4], b[5], b[6], b[7] = s.ECCapture, s.EWLimit, s.RxErrors, s.TxErrors
	if s.BusOff {
		b[2] |= busOffFlag
	}
	return b
}

// DecodeChannelError reads err_code u32, passive[3], arb_lost.
func DecodeChannelError(b []byte) (*zlgcan.ChannelError, error) {
	if len(b) < ChannelErrorSize {
		return nil, zlgcan.OtherError("channel error is %d bytes, want %d", len(b), ChannelErrorSize)
	}
	e := &zlgcan.ChannelError{Code: le.Uint32(b[0:]), ArbLost: b[7]}
	copy(e.Passive[:], b[4:7])
	return e, nil
}

func EncodeChannelError(e *zlgcan.ChannelError) []byte {
	b := make([]byte, ChannelErrorSize)
	le.PutUint32(b[0:], e.Code)
	copy(b[4:7], e.Passive[:])
	b[7] = e.ArbLost
	return b
}
