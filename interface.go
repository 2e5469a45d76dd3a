package zlgcan

import "time"

// FrameKind selects the classic or the FD entry points of a family.
type FrameKind int

const (
	KindCAN FrameKind = iota
	KindCANFD
)

func (k FrameKind) String() string {
	if k == KindCANFD {
		return "CAN-FD"
	}
	return "CAN"
}

// DeviceAPI is the device lifecycle capability.
type DeviceAPI interface {
	Open(*DeviceContext) (Handle, error)
	Close(*DeviceContext) error
	ReadDeviceInfo(*DeviceContext) (*DeviceInfo, error)
	GetValue(*ChannelContext, CmdPath) ([]byte, error)
	SetValue(*ChannelContext, CmdPath, []byte) error
	Debug(level uint32) error
}

// CANAPI is the CAN / CAN-FD transfer capability. Transmit and receive
// return what the driver achieved, a short count is not an error.
type CANAPI interface {
	InitCAN(*ChannelContext, *ChannelConfig, *Timing) (Handle, error)
	ResetCAN(*ChannelContext) error
	ReadCANStatus(*ChannelContext) (*ChannelStatus, error)
	ReadCANError(*ChannelContext) (*ChannelError, error)
	ClearCANBuffer(*ChannelContext) error
	PendingCAN(*ChannelContext, FrameKind) (uint32, error)
	TransmitCAN(*ChannelContext, []*Frame) (uint32, error)
	ReceiveCAN(*ChannelContext, uint32, time.Duration) ([]*Frame, error)
	TransmitCANFD(*ChannelContext, []*Frame) (uint32, error)
	ReceiveCANFD(*ChannelContext, uint32, time.Duration) ([]*Frame, error)
}

// LINAPI is the LIN transfer capability.
type LINAPI interface {
	InitLIN(*ChannelContext, *LinChannelConfig) error
	ResetLIN(*ChannelContext) error
	ClearLINBuffer(*ChannelContext) error
	PendingLIN(*ChannelContext) (uint32, error)
	TransmitLIN(*ChannelContext, []*LinFrame) (uint32, error)
	ReceiveLIN(*ChannelContext, uint32, time.Duration) ([]*LinFrame, error)
	SetLINSubscribe(*ChannelContext, []LinSubscribe) error
	SetLINPublish(*ChannelContext, []LinPublish) error
}

// CloudAPI covers the cloud enabled variants.
type CloudAPI interface {
	SetServer(host string, port uint16) error
	ConnectServer(user, password string) error
	IsConnectedServer() (bool, error)
	DisconnectServer() error
}

// API is what a device family implements. Capabilities a family lacks
// return NotSupported without touching the driver.
type API interface {
	DeviceAPI
	CANAPI
	LINAPI
	CloudAPI
}

// NoLIN can be embedded by families without LIN channels.
type NoLIN struct{}

func (NoLIN) InitLIN(*ChannelContext, *LinChannelConfig) error { return NotSupported("InitLIN") }
func (NoLIN) ResetLIN(*ChannelContext) error                   { return NotSupported("ResetLIN") }
func (NoLIN) ClearLINBuffer(*ChannelContext) error             { return NotSupported("ClearLINBuffer") }
func (NoLIN) PendingLIN(*ChannelContext) (uint32, error)       { return 0, NotSupported("PendingLIN") }
func (NoLIN) TransmitLIN(*ChannelContext, []*LinFrame) (uint32, error) {
	return 0, NotSupported("TransmitLIN")
}
func (NoLIN) ReceiveLIN(*ChannelContext, uint32, time.Duration) ([]*LinFrame, error) {
	return nil, NotSupported("ReceiveLIN")
}
func (NoLIN) SetLINSubscribe(*ChannelContext, []LinSubscribe) error {
	return NotSupported("SetLINSubscribe")
}
func (NoLIN) SetLINPublish(*ChannelContext, []LinPublish) error {
	return NotSupported("SetLINPublish")
}

// NoCloud can be embedded by families without cloud support.
type NoCloud struct{}

func (NoCloud) SetServer(string, uint16) error     { return NotSupported("SetServer") }
func (NoCloud) ConnectServer(string, string) error { return NotSupported("ConnectServer") }
func (NoCloud) IsConnectedServer() (bool, error)   { return false, NotSupported("IsConnectedServer") }
func (NoCloud) DisconnectServer() error            { return NotSupported("DisconnectServer") }
