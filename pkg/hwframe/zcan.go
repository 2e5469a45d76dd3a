package hwframe

import "github.com/roffe/zlgcan"

// ZCAN is the socket style record of the PCIe-CANFD drivers. The flags live
// in the top bits of can_id like in SocketCAN:
//
//	0 can_id u32 (EFF 31, RTR 30, ERR 29, id 0-28)   4 dlc   5 flags
//	6 tx mode   7 channel   8 data[8] / data[64]   then timestamp u64 (us)
//
// flags is only used by FD records: BRS 0x01, ESI 0x02.
var ZCAN Layout = zcanLayout{}

const (
	zcanEFF    = 0x80000000
	zcanRTR    = 0x40000000
	zcanERR    = 0x20000000
	zcanIDMask = 0x1FFFFFFF

	zcanBRS = 0x01
	zcanESI = 0x02

	zcanData = 8
)

type zcanLayout struct{}

func (zcanLayout) Name() string { return "ZCAN" }

func (zcanLayout) Supports(kind zlgcan.FrameKind) bool {
	return kind == zlgcan.KindCAN || kind == zlgcan.KindCANFD
}

func (zcanLayout) Size(kind zlgcan.FrameKind) int {
	return zcanData + dataArea(kind) + 8
}

func dataArea(kind zlgcan.FrameKind) int {
	if kind == zlgcan.KindCANFD {
		return zlgcan.MaxFDLength
	}
	return zlgcan.MaxClassicLength
}

func (zcanLayout) encode(dst []byte, f *zlgcan.Frame, kind zlgcan.FrameKind) error {
	fd := kind == zlgcan.KindCANFD
	dlc, err := zlgcan.LengthToDLC(len(f.Data), fd)
	if err != nil {
		return err
	}
	canID := f.ID.Value()
	if f.ID.IsExtended() {
		canID |= zcanEFF
	}
	if f.Remote {
		canID |= zcanRTR
	}
	if f.Error {
		canID |= zcanERR
	}
	var flags uint8
	if fd {
		if f.BRS {
			flags |= zcanBRS
		}
		if f.ESI {
			flags |= zcanESI
		}
	}
	le.PutUint32(dst[0:], canID)
	dst[4] = dlc
	dst[5] = flags
	dst[6] = uint8(f.TxMode)
	dst[7] = f.Channel
	copy(dst[zcanData:], f.Data)
	le.PutUint64(dst[zcanData+dataArea(kind):], f.Timestamp)
	return nil
}

func (zcanLayout) decode(src []byte, kind zlgcan.FrameKind) (*zlgcan.Frame, error) {
	fd := kind == zlgcan.KindCANFD
	canID := le.Uint32(src[0:])
	flags := src[5]
	if !fd && flags != 0 {
		return nil, zlgcan.OtherError("CAN record carries FD flags 0x%02X", flags)
	}
	id, err := decodeID(canID&zcanIDMask, canID&zcanEFF != 0)
	if err != nil {
		return nil, err
	}
	data, err := payload(src[zcanData:], src[4], fd)
	if err != nil {
		return nil, err
	}
	return &zlgcan.Frame{
		ID:        id,
		Remote:    canID&zcanRTR != 0,
		Error:     canID&zcanERR != 0,
		FD:        fd,
		BRS:       flags&zcanBRS != 0,
		ESI:       flags&zcanESI != 0,
		Channel:   src[7],
		TxMode:    zlgcan.TxMode(src[6]),
		Timestamp: le.Uint64(src[zcanData+dataArea(kind):]),
		Data:      data,
	}, nil
}
