package zlgcan

import "fmt"

const MaxLinID = 0x3F

type LinMode uint8

const (
	LinSlave LinMode = iota
	LinMaster
)

type LinChecksum uint8

const (
	LinChecksumClassic  LinChecksum = 1
	LinChecksumEnhanced LinChecksum = 2
	LinChecksumAuto     LinChecksum = 3
)

type LinDirection uint8

const (
	LinRx LinDirection = iota
	LinTx
)

// LinChannelConfig configures one LIN channel.
type LinChannelConfig struct {
	Mode     LinMode
	Checksum LinChecksum
	MaxDLC   uint8
	Baudrate uint32
}

func (c *LinChannelConfig) Validate() error {
	if c.Baudrate == 0 {
		return InitializeError("lin baudrate must be greater than zero")
	}
	if c.MaxDLC > 8 {
		return &Error{Kind: KindInvalidLength, Msg: fmt.Sprintf("lin max dlc %d > 8", c.MaxDLC)}
	}
	return nil
}

// LinFrame is one LIN message.
type LinFrame struct {
	Channel   uint8
	ID        uint8
	Direction LinDirection
	Checksum  uint8
	Timestamp uint64
	Data      []byte
}

func NewLinFrame(channel, id uint8, data []byte) (*LinFrame, error) {
	f := &LinFrame{Channel: channel, ID: id, Data: append([]byte{}, data...)}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *LinFrame) Validate() error {
	if f.ID > MaxLinID {
		return OtherError("lin identifier 0x%02X out of range", f.ID)
	}
	if len(f.Data) > 8 {
		return &Error{Kind: KindInvalidLength, Msg: fmt.Sprintf("%d bytes is not a valid LIN payload length", len(f.Data))}
	}
	return nil
}

// PID returns the protected identifier: the 6 bit ID plus parity bits
// P0 = ID0^ID1^ID2^ID4 and P1 = !(ID1^ID3^ID4^ID5).
func (f *LinFrame) PID() uint8 {
	return LinPID(f.ID)
}

func LinPID(id uint8) uint8 {
	id &= MaxLinID
	bit := func(n uint) uint8 { return (id >> n) & 1 }
	p0 := bit(0) ^ bit(1) ^ bit(2) ^ bit(4)
	p1 := ^(bit(1) ^ bit(3) ^ bit(4) ^ bit(5)) & 1
	return id | p0<<6 | p1<<7
}

func (f *LinFrame) String() string {
	return fmt.Sprintf("lin%d || 0x%02X || %d || % X", f.Channel, f.ID, len(f.Data), f.Data)
}

// LinSubscribe tells a master which slave responses to expect.
type LinSubscribe struct {
	ID       uint8
	DataLen  uint8
	Checksum LinChecksum
}

// LinPublish is a response a slave answers with when its ID is polled.
type LinPublish struct {
	ID       uint8
	Checksum LinChecksum
	Data     []byte
}
