package hwframe

import (
	"math"

	"github.com/roffe/zlgcan"
)

// USBCANFD is the header based record of the USBCANFD drivers:
//
//	0  ts u32 (us)   4  id u32   8  info u16   10 pad   11 chn   12 dlc
//	16 data[8] (classic, 24 bytes) or data[64] (FD, 80 bytes)
//
// info bits: txm 0-3, fmt 4-7 (0 CAN, 1 CAN-FD), sdf 8 (remote),
// sef 9 (extended), err 10, brs 11, est 12 (ESI).
var USBCANFD Layout = usbcanfdLayout{}

const (
	infoTxmMask  = 0x000F
	infoFmtShift = 4
	infoFmtMask  = 0x00F0
	infoSDF      = 1 << 8
	infoSEF      = 1 << 9
	infoERR      = 1 << 10
	infoBRS      = 1 << 11
	infoEST      = 1 << 12

	fmtCAN   = 0
	fmtCANFD = 1

	usbcanfdHeader = 16
)

type usbcanfdLayout struct{}

func (usbcanfdLayout) Name() string { return "USBCANFD" }

func (usbcanfdLayout) Supports(kind zlgcan.FrameKind) bool {
	return kind == zlgcan.KindCAN || kind == zlgcan.KindCANFD
}

func (usbcanfdLayout) Size(kind zlgcan.FrameKind) int {
	if kind == zlgcan.KindCANFD {
		return usbcanfdHeader + zlgcan.MaxFDLength
	}
	return usbcanfdHeader + zlgcan.MaxClassicLength
}

func (usbcanfdLayout) encode(dst []byte, f *zlgcan.Frame, kind zlgcan.FrameKind) error {
	fd := kind == zlgcan.KindCANFD
	dlc, err := zlgcan.LengthToDLC(len(f.Data), fd)
	if err != nil {
		return err
	}
	info := uint16(f.TxMode) & infoTxmMask
	if f.Remote {
		info |= infoSDF
	}
	if f.ID.IsExtended() {
		info |= infoSEF
	}
	if f.Error {
		info |= infoERR
	}
	if fd {
		info |= fmtCANFD << infoFmtShift
		if f.BRS {
			info |= infoBRS
		}
		if f.ESI {
			info |= infoEST
		}
	}
	if f.Timestamp > math.MaxUint32 {
		return zlgcan.OtherError("timestamp %dus does not fit the USBCANFD 32-bit counter", f.Timestamp)
	}
	le.PutUint32(dst[0:], uint32(f.Timestamp))
	le.PutUint32(dst[4:], f.ID.Value())
	le.PutUint16(dst[8:], info)
	dst[11] = f.Channel
	dst[12] = dlc
	copy(dst[usbcanfdHeader:], f.Data)
	return nil
}

func (usbcanfdLayout) decode(src []byte, kind zlgcan.FrameKind) (*zlgcan.Frame, error) {
	fd := kind == zlgcan.KindCANFD
	info := le.Uint16(src[8:])
	format := (info & infoFmtMask) >> infoFmtShift
	switch {
	case fd && format != fmtCANFD:
		return nil, zlgcan.OtherError("CAN-FD record with frame format %d", format)
	case !fd && format != fmtCAN:
		return nil, zlgcan.OtherError("CAN record with frame format %d", format)
	case !fd && info&(infoBRS|infoEST) != 0:
		return nil, zlgcan.OtherError("CAN record carries BRS/ESI bits")
	}
	id, err := decodeID(le.Uint32(src[4:]), info&infoSEF != 0)
	if err != nil {
		return nil, err
	}
	data, err := payload(src[usbcanfdHeader:], src[12], fd)
	if err != nil {
		return nil, err
	}
	return &zlgcan.Frame{
		ID:        id,
		Remote:    info&infoSDF != 0,
		Error:     info&infoERR != 0,
		FD:        fd,
		BRS:       info&infoBRS != 0,
		ESI:       info&infoEST != 0,
		Channel:   src[11],
		TxMode:    zlgcan.TxMode(info & infoTxmMask),
		Timestamp: uint64(le.Uint32(src[0:])),
		Data:      data,
	}, nil
}
