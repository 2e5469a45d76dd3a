package hwframe

import (
	"math"

	"github.com/roffe/zlgcan"
)

// VCI is the classic-only VCI_CAN_OBJ record of the USBCAN-I/II drivers:
//
//	0  ID u32        4  TimeStamp u32 (100us)   8  TimeFlag
//	9  SendType      10 RemoteFlag              11 ExternFlag
//	12 DataLen       13 Data[8]                 21 Reserved[3]
var VCI Layout = vciLayout{}

const vciSize = 24

type vciLayout struct{}

func (vciLayout) Name() string { return "VCI" }

func (vciLayout) Supports(kind zlgcan.FrameKind) bool { return kind == zlgcan.KindCAN }

func (vciLayout) Size(zlgcan.FrameKind) int { return vciSize }

func (vciLayout) encode(dst []byte, f *zlgcan.Frame, _ zlgcan.FrameKind) error {
	if f.Error {
		return zlgcan.OtherError("VCI records cannot carry error frames")
	}
	if f.Timestamp%100 != 0 || f.Timestamp/100 > math.MaxUint32 {
		return zlgcan.OtherError("timestamp %dus does not fit the VCI 100us counter", f.Timestamp)
	}
	le.PutUint32(dst[0:], f.ID.Value())
	ts := f.Timestamp / 100
	le.PutUint32(dst[4:], uint32(ts))
	dst[8] = boolByte(ts != 0)
	dst[9] = uint8(f.TxMode)
	dst[10] = boolByte(f.Remote)
	dst[11] = boolByte(f.ID.IsExtended())
	dst[12] = uint8(len(f.Data))
	copy(dst[13:21], f.Data)
	return nil
}

func (vciLayout) decode(src []byte, _ zlgcan.FrameKind) (*zlgcan.Frame, error) {
	id, err := decodeID(le.Uint32(src[0:]), src[11] != 0)
	if err != nil {
		return nil, err
	}
	data, err := payload(src[13:21], src[12], false)
	if err != nil {
		return nil, err
	}
	f := &zlgcan.Frame{
		ID:     id,
		Remote: src[10] != 0,
		TxMode: zlgcan.TxMode(src[9]),
		Data:   data,
	}
	if src[8] != 0 {
		f.Timestamp = uint64(le.Uint32(src[4:])) * 100
	}
	return f, nil
}
