// Package base holds the driver calls every VCI family shares.
package base

import (
	"math"
	"time"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/hwframe"
	"github.com/roffe/zlgcan/pkg/native"
)

type BaseAdapter struct {
	name   string
	cfg    *zlgcan.AdapterConfig
	lib    native.Library
	layout hwframe.Layout
}

func NewBaseAdapter(name string, cfg *zlgcan.AdapterConfig, layout hwframe.Layout) BaseAdapter {
	return BaseAdapter{
		name:   name,
		cfg:    cfg,
		lib:    cfg.Library,
		layout: layout,
	}
}

func (base *BaseAdapter) Name() string                  { return base.name }
func (base *BaseAdapter) Config() *zlgcan.AdapterConfig { return base.cfg }
func (base *BaseAdapter) Library() native.Library       { return base.lib }
func (base *BaseAdapter) Layout() hwframe.Layout        { return base.layout }

// Check turns a native status into an error of kind named after call.
func Check(kind zlgcan.ErrorKind, call string, code uint32) error {
	if code == native.StatusOK {
		return nil
	}
	return zlgcan.NativeError(kind, call, code)
}

// Addr returns the native addressing triple of ch.
func Addr(ch *zlgcan.ChannelContext) (devType, devIdx, channel uint32) {
	return uint32(ch.DeviceType()), ch.DeviceIndex(), uint32(ch.Channel())
}

// WaitMs converts a receive timeout to the driver's millisecond argument.
// Negative timeouts poll, oversized ones saturate.
func WaitMs(timeout time.Duration) uint32 {
	if timeout <= 0 {
		return 0
	}
	ms := timeout / time.Millisecond
	if ms > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ms)
}

func (base *BaseAdapter) Open(dev *zlgcan.DeviceContext) (zlgcan.Handle, error) {
	code := base.lib.OpenDevice(uint32(dev.DeviceType()), dev.Index(), 0)
	if err := Check(zlgcan.KindInitialize, "VCI_OpenDevice", code); err != nil {
		return 0, err
	}
	// the VCI ABI addresses everything by type and index, there is no handle
	return 0, nil
}

func (base *BaseAdapter) Close(dev *zlgcan.DeviceContext) error {
	return Check(zlgcan.KindOperation, "VCI_CloseDevice", base.lib.CloseDevice(uint32(dev.DeviceType()), dev.Index()))
}

func (base *BaseAdapter) ReadDeviceInfo(dev *zlgcan.DeviceContext) (*zlgcan.DeviceInfo, error) {
	buf := make([]byte, hwframe.DeviceInfoSize)
	if err := Check(zlgcan.KindOperation, "VCI_ReadBoardInfo", base.lib.ReadBoardInfo(uint32(dev.DeviceType()), dev.Index(), buf)); err != nil {
		return nil, err
	}
	return hwframe.DecodeDeviceInfo(buf)
}

func (base *BaseAdapter) Debug(level uint32) error {
	return Check(zlgcan.KindOperation, "VCI_Debug", base.lib.Debug(level))
}

// InitAndStart hands blob to VCI_InitCAN and starts the channel. A rejected
// init never reaches VCI_StartCAN.
func (base *BaseAdapter) InitAndStart(ch *zlgcan.ChannelContext, blob []byte) (zlgcan.Handle, error) {
	t, i, c := Addr(ch)
	if err := Check(zlgcan.KindInitialize, "VCI_InitCAN", base.lib.InitCAN(t, i, c, blob)); err != nil {
		return 0, err
	}
	if err := Check(zlgcan.KindInitialize, "VCI_StartCAN", base.lib.StartCAN(t, i, c)); err != nil {
		return 0, err
	}
	return 0, nil
}

func (base *BaseAdapter) ResetCAN(ch *zlgcan.ChannelContext) error {
	t, i, c := Addr(ch)
	return Check(zlgcan.KindOperation, "VCI_ResetCAN", base.lib.ResetCAN(t, i, c))
}

func (base *BaseAdapter) ReadCANStatus(ch *zlgcan.ChannelContext) (*zlgcan.ChannelStatus, error) {
	t, i, c := Addr(ch)
	buf := make([]byte, hwframe.ChannelStatusSize)
	if err := Check(zlgcan.KindOperation, "VCI_ReadCANStatus", base.lib.ReadCANStatus(t, i, c, buf)); err != nil {
		return nil, err
	}
	return hwframe.DecodeChannelStatus(buf)
}

func (base *BaseAdapter) ReadCANError(ch *zlgcan.ChannelContext) (*zlgcan.ChannelError, error) {
	t, i, c := Addr(ch)
	buf := make([]byte, hwframe.ChannelErrorSize)
	if err := Check(zlgcan.KindOperation, "VCI_ReadErrInfo", base.lib.ReadErrInfo(t, i, c, buf)); err != nil {
		return nil, err
	}
	return hwframe.DecodeChannelError(buf)
}

func (base *BaseAdapter) ClearCANBuffer(ch *zlgcan.ChannelContext) error {
	t, i, c := Addr(ch)
	return Check(zlgcan.KindOperation, "VCI_ClearBuffer", base.lib.ClearBuffer(t, i, c))
}

// PendingCAN counts queued records of kind. FD counts are requested with
// the channel or'ed with native.FDChannelFlag.
func (base *BaseAdapter) PendingCAN(ch *zlgcan.ChannelContext, kind zlgcan.FrameKind) (uint32, error) {
	if !base.layout.Supports(kind) {
		return 0, zlgcan.NotSupported("PendingCAN " + kind.String())
	}
	t, i, c := Addr(ch)
	if kind == zlgcan.KindCANFD {
		c |= native.FDChannelFlag
	}
	n := base.lib.GetReceiveNum(t, i, c)
	if n > 0 {
		base.cfg.Logf("%s pending %s frames: %d", ch, kind, n)
	}
	return n, nil
}

func (base *BaseAdapter) TransmitCAN(ch *zlgcan.ChannelContext, frames []*zlgcan.Frame) (uint32, error) {
	return base.transmit(ch, frames, zlgcan.KindCAN)
}

func (base *BaseAdapter) TransmitCANFD(ch *zlgcan.ChannelContext, frames []*zlgcan.Frame) (uint32, error) {
	return base.transmit(ch, frames, zlgcan.KindCANFD)
}

func (base *BaseAdapter) transmit(ch *zlgcan.ChannelContext, frames []*zlgcan.Frame, kind zlgcan.FrameKind) (uint32, error) {
	buf, err := hwframe.EncodeAll(base.layout, frames, kind)
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, nil
	}
	t, i, c := Addr(ch)
	want := uint32(len(frames))
	var got uint32
	if kind == zlgcan.KindCANFD {
		got = base.lib.TransmitFD(t, i, c, buf, want)
	} else {
		got = base.lib.Transmit(t, i, c, buf, want)
	}
	if got < want {
		base.cfg.Logf("%s transmit %s frame expect: %d, actual: %d", ch, kind, want, got)
	}
	return got, nil
}

func (base *BaseAdapter) ReceiveCAN(ch *zlgcan.ChannelContext, size uint32, timeout time.Duration) ([]*zlgcan.Frame, error) {
	return base.receive(ch, size, timeout, zlgcan.KindCAN)
}

func (base *BaseAdapter) ReceiveCANFD(ch *zlgcan.ChannelContext, size uint32, timeout time.Duration) ([]*zlgcan.Frame, error) {
	return base.receive(ch, size, timeout, zlgcan.KindCANFD)
}

// receive decodes only the records the driver reported, the rest of the
// buffer is never interpreted.
func (base *BaseAdapter) receive(ch *zlgcan.ChannelContext, size uint32, timeout time.Duration, kind zlgcan.FrameKind) ([]*zlgcan.Frame, error) {
	if !base.layout.Supports(kind) {
		return nil, zlgcan.NotSupported("Receive " + kind.String())
	}
	if size == 0 {
		return nil, nil
	}
	t, i, c := Addr(ch)
	buf := hwframe.Buffer(base.layout, int(size), kind)
	var got uint32
	if kind == zlgcan.KindCANFD {
		got = base.lib.ReceiveFD(t, i, c, buf, size, WaitMs(timeout))
	} else {
		got = base.lib.Receive(t, i, c, buf, size, WaitMs(timeout))
	}
	if got > size {
		got = size
	}
	if got < size {
		base.cfg.Logf("%s receive %s frame expect: %d, actual: %d", ch, kind, size, got)
	}
	frames, err := hwframe.DecodeAll(base.layout, buf, int(got), kind)
	for _, f := range frames {
		f.Channel = ch.Channel()
	}
	return frames, err
}

// SetReference writes a VCI_SetReference value for ch.
func (base *BaseAdapter) SetReference(ch *zlgcan.ChannelContext, ref uint32, value []byte) error {
	t, i, c := Addr(ch)
	return Check(zlgcan.KindOperation, "VCI_SetReference", base.lib.SetReference(t, i, c, ref, value))
}

// GetReference reads size bytes of a VCI_GetReference value for ch.
func (base *BaseAdapter) GetReference(ch *zlgcan.ChannelContext, ref uint32, size int) ([]byte, error) {
	t, i, c := Addr(ch)
	buf := make([]byte, size)
	if err := Check(zlgcan.KindOperation, "VCI_GetReference", base.lib.GetReference(t, i, c, ref, buf)); err != nil {
		return nil, err
	}
	return buf, nil
}
