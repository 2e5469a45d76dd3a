// Package native is the contract of the vendor driver libraries.
//
// Every call is addressed by device type, device index and channel the way
// the VCI exports are. Buffers are sized by the caller, the library fills
// them in place and reports a raw status or count.
package native

import (
	"bytes"
	"fmt"
)

const (
	// StatusOK is the success status of every status returning call.
	StatusOK uint32 = 1

	// FDChannelFlag is or'ed onto the channel of GetReceiveNum to count
	// pending CAN-FD records instead of classic ones.
	FDChannelFlag uint32 = 0x80000000
)

// Library is one loaded driver.
type Library interface {
	OpenDevice(devType, devIdx, reserved uint32) uint32
	CloseDevice(devType, devIdx uint32) uint32
	ReadBoardInfo(devType, devIdx uint32, info []byte) uint32

	InitCAN(devType, devIdx, channel uint32, cfg []byte) uint32
	StartCAN(devType, devIdx, channel uint32) uint32
	ResetCAN(devType, devIdx, channel uint32) uint32
	ReadCANStatus(devType, devIdx, channel uint32, status []byte) uint32
	ReadErrInfo(devType, devIdx, channel uint32, info []byte) uint32
	GetReceiveNum(devType, devIdx, channel uint32) uint32
	ClearBuffer(devType, devIdx, channel uint32) uint32
	Transmit(devType, devIdx, channel uint32, frames []byte, count uint32) uint32
	TransmitFD(devType, devIdx, channel uint32, frames []byte, count uint32) uint32
	Receive(devType, devIdx, channel uint32, frames []byte, size, waitMs uint32) uint32
	ReceiveFD(devType, devIdx, channel uint32, frames []byte, size, waitMs uint32) uint32

	GetReference(devType, devIdx, channel, ref uint32, value []byte) uint32
	SetReference(devType, devIdx, channel, ref uint32, value []byte) uint32
	GetValue(devType, devIdx uint32, path string, value []byte) uint32
	SetValue(devType, devIdx uint32, path string, value []byte) uint32
	Debug(level uint32) uint32

	InitLIN(devType, devIdx, channel uint32, cfg []byte) uint32
	StartLIN(devType, devIdx, channel uint32) uint32
	ResetLIN(devType, devIdx, channel uint32) uint32
	ClearLINBuffer(devType, devIdx, channel uint32) uint32
	GetLINReceiveNum(devType, devIdx, channel uint32) uint32
	TransmitLIN(devType, devIdx, channel uint32, frames []byte, count uint32) uint32
	ReceiveLIN(devType, devIdx, channel uint32, frames []byte, size, waitMs uint32) uint32
	SetLINSubscribe(devType, devIdx, channel uint32, cfg []byte, count uint32) uint32
	SetLINPublish(devType, devIdx, channel uint32, cfg []byte, count uint32) uint32
}

// CString returns s NUL terminated. A string holding a NUL byte cannot be
// passed to the driver and is rejected.
func CString(s string) ([]byte, error) {
	if i := bytes.IndexByte([]byte(s), 0); i >= 0 {
		return nil, fmt.Errorf("string %q has a NUL byte at %d", s, i)
	}
	return append([]byte(s), 0), nil
}

// GoString returns b up to the first NUL.
func GoString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
