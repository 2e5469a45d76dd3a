package hwframe

import "github.com/roffe/zlgcan"

const (
	LinInitSize      = 8
	LinRecordSize    = 32
	LinSubscribeSize = 8
	LinPublishSize   = 16

	linTypeData = 0
)

// LinInit encodes mode u8, checksum u8, max dlc u8, reserved u8, baud u32.
func LinInit(c *zlgcan.LinChannelConfig) []byte {
	b := make([]byte, LinInitSize)
	b[0] = uint8(c.Mode)
	b[1] = uint8(c.Checksum)
	b[2] = c.MaxDLC
	le.PutUint32(b[4:], c.Baudrate)
	return b
}

// EncodeLin writes LIN records:
//
//	0 chn   1 data type   2 pid   3 len   4 dir   5 checksum   8 ts u64
//	16 data[8]   24 reserved[8]
func EncodeLin(frames []*zlgcan.LinFrame) ([]byte, error) {
	buf := make([]byte, LinRecordSize*len(frames))
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		b := buf[i*LinRecordSize:]
		b[0] = f.Channel
		b[1] = linTypeData
		b[2] = f.PID()
		b[3] = uint8(len(f.Data))
		b[4] = uint8(f.Direction)
		b[5] = f.Checksum
		le.PutUint64(b[8:], f.Timestamp)
		copy(b[16:24], f.Data)
	}
	return buf, nil
}

// DecodeLin reads the first n LIN records of buf. A PID with wrong parity
// bits is rejected.
func DecodeLin(buf []byte, n int) ([]*zlgcan.LinFrame, error) {
	if n*LinRecordSize > len(buf) {
		return nil, zlgcan.OtherError("%d LIN records do not fit in %d bytes", n, len(buf))
	}
	out := make([]*zlgcan.LinFrame, 0, n)
	for i := 0; i < n; i++ {
		b := buf[i*LinRecordSize:]
		pid := b[2]
		id := pid & zlgcan.MaxLinID
		if zlgcan.LinPID(id) != pid {
			return out, zlgcan.OtherError("LIN record %d: bad parity in pid 0x%02X", i, pid)
		}
		if b[3] > 8 {
			return out, zlgcan.OtherError("LIN record %d: length %d > 8", i, b[3])
		}
		out = append(out, &zlgcan.LinFrame{
			Channel:   b[0],
			ID:        id,
			Direction: zlgcan.LinDirection(b[4]),
			Checksum:  b[5],
			Timestamp: le.Uint64(b[8:]),
			Data:      append([]byte{}, b[16:16+int(b[3])]...),
		})
	}
	return out, nil
}

// LinSubscribes encodes id, data len, checksum, reserved[5] per entry.
func LinSubscribes(subs []zlgcan.LinSubscribe) ([]byte, error) {
	buf := make([]byte, LinSubscribeSize*len(subs))
	for i, s := range subs {
		if s.ID > zlgcan.MaxLinID || s.DataLen > 8 {
			return nil, zlgcan.OtherError("LIN subscribe %d: id 0x%02X len %d", i, s.ID, s.DataLen)
		}
		b := buf[i*LinSubscribeSize:]
		b[0], b[1], b[2] = s.ID, s.DataLen, uint8(s.Checksum)
	}
	return buf, nil
}

// LinPublishes encodes id, data len, checksum, reserved[5], data[8].
func LinPublishes(pubs []zlgcan.LinPublish) ([]byte, error) {
	buf := make([]byte, LinPublishSize*len(pubs))
	for i, p := range pubs {
		if p.ID > zlgcan.MaxLinID || len(p.Data) > 8 {
			return nil, zlgcan.OtherError("LIN publish %d: id 0x%02X len %d", i, p.ID, len(p.Data))
		}
		b := buf[i*LinPublishSize:]
		b[0], b[1], b[2] = p.ID, uint8(len(p.Data)), uint8(p.Checksum)
		copy(b[8:16], p.Data)
	}
	return buf, nil
}
