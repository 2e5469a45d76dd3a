// Package hwframe translates portable frames to and from the binary frame
// records the native drivers exchange.
//
// A record is always interpreted through an explicit FrameKind, there is no
// untagged union: the same bytes are never read as both classic and FD.
package hwframe

import (
	"encoding/binary"
	"fmt"

	"github.com/roffe/zlgcan"
)

var le = binary.LittleEndian

// HardwareFrame is one encoded record. Kind says which shape Bytes holds.
type HardwareFrame struct {
	Kind  zlgcan.FrameKind
	Bytes []byte
}

// Layout is the binary frame format of one driver ABI.
type Layout interface {
	Name() string
	Supports(zlgcan.FrameKind) bool
	// Size is the record size in bytes for kind.
	Size(zlgcan.FrameKind) int

	encode(dst []byte, f *zlgcan.Frame, kind zlgcan.FrameKind) error
	decode(src []byte, kind zlgcan.FrameKind) (*zlgcan.Frame, error)
}

func checkKind(l Layout, kind zlgcan.FrameKind) error {
	if !l.Supports(kind) {
		return zlgcan.NotSupported(fmt.Sprintf("%s %s record", l.Name(), kind))
	}
	return nil
}

func checkFrame(f *zlgcan.Frame, kind zlgcan.FrameKind) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.FD != (kind == zlgcan.KindCANFD) {
		return zlgcan.OtherError("%s frame cannot be stored as a %s record", frameName(f), kind)
	}
	return nil
}

func frameName(f *zlgcan.Frame) string {
	if f.FD {
		return "CAN-FD"
	}
	return "CAN"
}

// ToHardware encodes f as a kind record of layout l.
func ToHardware(l Layout, f *zlgcan.Frame, kind zlgcan.FrameKind) (HardwareFrame, error) {
	if err := checkKind(l, kind); err != nil {
		return HardwareFrame{}, err
	}
	if err := checkFrame(f, kind); err != nil {
		return HardwareFrame{}, err
	}
	b := make([]byte, l.Size(kind))
	if err := l.encode(b, f, kind); err != nil {
		return HardwareFrame{}, err
	}
	return HardwareFrame{Kind: kind, Bytes: b}, nil
}

// FromHardware decodes one record.
func FromHardware(l Layout, hw HardwareFrame) (*zlgcan.Frame, error) {
	if err := checkKind(l, hw.Kind); err != nil {
		return nil, err
	}
	if len(hw.Bytes) != l.Size(hw.Kind) {
		return nil, zlgcan.OtherError("%s %s record is %d bytes, got %d", l.Name(), hw.Kind, l.Size(hw.Kind), len(hw.Bytes))
	}
	return decodeChecked(l, hw.Bytes, hw.Kind)
}

func decodeChecked(l Layout, src []byte, kind zlgcan.FrameKind) (*zlgcan.Frame, error) {
	f, err := l.decode(src, kind)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// EncodeAll encodes frames into one contiguous array as passed to the
// native transmit calls.
func EncodeAll(l Layout, frames []*zlgcan.Frame, kind zlgcan.FrameKind) ([]byte, error) {
	if err := checkKind(l, kind); err != nil {
		return nil, err
	}
	size := l.Size(kind)
	buf := make([]byte, size*len(frames))
	for i, f := range frames {
		if err := checkFrame(f, kind); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := l.encode(buf[i*size:(i+1)*size], f, kind); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return buf, nil
}

// DecodeAll decodes the first n records of buf.
func DecodeAll(l Layout, buf []byte, n int, kind zlgcan.FrameKind) ([]*zlgcan.Frame, error) {
	if err := checkKind(l, kind); err != nil {
		return nil, err
	}
	size := l.Size(kind)
	if n*size > len(buf) {
		return nil, zlgcan.OtherError("%d records do not fit in %d bytes", n, len(buf))
	}
	out := make([]*zlgcan.Frame, 0, n)
	for i := 0; i < n; i++ {
		f, err := decodeChecked(l, buf[i*size:(i+1)*size], kind)
		if err != nil {
			return out, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Buffer allocates room for n records.
func Buffer(l Layout, n int, kind zlgcan.FrameKind) []byte {
	return make([]byte, n*l.Size(kind))
}

func decodeID(raw uint32, extended bool) (zlgcan.ID, error) {
	id, err := zlgcan.NewID(raw, extended)
	if err != nil {
		return zlgcan.ID{}, zlgcan.OtherError("malformed record identifier 0x%X extended=%v", raw, extended)
	}
	return id, nil
}

func payload(src []byte, dlc uint8, fd bool) ([]byte, error) {
	n, err := zlgcan.DLCToLength(dlc, fd)
	if err != nil {
		return nil, err
	}
	if n > len(src) {
		return nil, zlgcan.OtherError("dlc %d exceeds record data area", dlc)
	}
	return append(make([]byte, 0, n), src[:n]...), nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
