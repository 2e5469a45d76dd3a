package zlgcan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const (
	MaxStandardID = 0x7FF
	MaxExtendedID = 0x1FFFFFFF

	MaxClassicLength = 8
	MaxFDLength      = 64
)

// ID is a bus identifier. Whether it is extended is carried explicitly, the
// numeric value alone does not decide it.
type ID struct {
	value    uint32
	extended bool
}

// StandardID returns an 11-bit identifier.
func StandardID(v uint32) (ID, error) {
	if v > MaxStandardID {
		return ID{}, OtherError("standard identifier 0x%X out of range", v)
	}
	return ID{value: v}, nil
}

// ExtendedID returns a 29-bit identifier.
func ExtendedID(v uint32) (ID, error) {
	if v > MaxExtendedID {
		return ID{}, OtherError("extended identifier 0x%X out of range", v)
	}
	return ID{value: v, extended: true}, nil
}

// NewID is StandardID or ExtendedID depending on extended.
func NewID(v uint32, extended bool) (ID, error) {
	if extended {
		return ExtendedID(v)
	}
	return StandardID(v)
}

func (id ID) Value() uint32    { return id.value }
func (id ID) IsExtended() bool { return id.extended }

func (id ID) String() string {
	if id.extended {
		return fmt.Sprintf("0x%08X", id.value)
	}
	return fmt.Sprintf("0x%03X", id.value)
}

// TxMode is the per-frame transmit type understood by the adapters.
type TxMode uint8

const (
	TxNormal TxMode = iota
	TxOnce
	TxSelfReception
	TxSelfReceptionOnce
)

// Frame is the portable CAN / CAN-FD frame.
type Frame struct {
	ID        ID
	Remote    bool
	Error     bool
	FD        bool
	BRS       bool
	ESI       bool
	Channel   uint8
	TxMode    TxMode
	Timestamp uint64 // microseconds, as reported by the device
	Data      []byte
}

// NewFrame creates a classic frame. data is copied.
func NewFrame(id ID, data []byte) (*Frame, error) {
	f := &Frame{ID: id, Data: append([]byte{}, data...)}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFDFrame creates a CAN-FD frame. data is copied.
func NewFDFrame(id ID, data []byte, brs bool) (*Frame, error) {
	f := &Frame{ID: id, FD: true, BRS: brs, Data: append([]byte{}, data...)}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Frame) Length() int {
	return len(f.Data)
}

// Validate checks the identifier range, the payload length bucket and the
// flag combination.
func (f *Frame) Validate() error {
	if f.ID.extended && f.ID.value > MaxExtendedID || !f.ID.extended && f.ID.value > MaxStandardID {
		return OtherError("identifier %s out of range", f.ID)
	}
	if _, err := LengthToDLC(len(f.Data), f.FD); err != nil {
		return err
	}
	if !f.FD && (f.BRS || f.ESI) {
		return OtherError("BRS/ESI set on a classic frame")
	}
	if f.FD && f.Remote {
		return OtherError("remote frames do not exist in CAN-FD")
	}
	if f.TxMode > TxSelfReceptionOnce {
		return OtherError("unknown tx mode %d", f.TxMode)
	}
	return nil
}

var (
	// fdLengths maps a DLC to a payload length.
	fdLengths = [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

	// fdCodes maps a payload length to a DLC, -1 is not a bucket.
	fdCodes = func() [MaxFDLength + 1]int {
		var t [MaxFDLength + 1]int
		for i := range t {
			t[i] = -1
		}
		for code, n := range fdLengths {
			t[n] = code
		}
		return t
	}()
)

// LengthToDLC returns the length code for a payload of n bytes.
func LengthToDLC(n int, fd bool) (uint8, error) {
	if n < 0 || n > MaxFDLength || !fd && n > MaxClassicLength || fdCodes[n] < 0 {
		return 0, &Error{Kind: KindInvalidLength, Msg: fmt.Sprintf("%d bytes is not a valid %s payload length", n, kindName(fd))}
	}
	return uint8(fdCodes[n]), nil
}

// DLCToLength returns the payload length for a length code.
func DLCToLength(dlc uint8, fd bool) (int, error) {
	if dlc > 15 || !fd && dlc > MaxClassicLength {
		return 0, &Error{Kind: KindInvalidLength, Msg: fmt.Sprintf("dlc %d is not valid for %s", dlc, kindName(fd))}
	}
	return fdLengths[dlc], nil
}

func kindName(fd bool) string {
	if fd {
		return "CAN-FD"
	}
	return "CAN"
}

var (
	yellow = color.New(color.FgHiBlue).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
)

func (f *Frame) flagString() string {
	var b strings.Builder
	for _, fl := range []struct {
		on bool
		c  byte
	}{{f.ID.extended, 'X'}, {f.Remote, 'R'}, {f.Error, 'E'}, {f.FD, 'F'}, {f.BRS, 'B'}, {f.ESI, 'S'}} {
		if fl.on {
			b.WriteByte(fl.c)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func (f *Frame) hexView() string {
	var hexView strings.Builder
	for i, b := range f.Data {
		hexView.WriteString(fmt.Sprintf("%02X", b))
		if i != len(f.Data)-1 {
			hexView.WriteString(" ")
		}
	}
	return hexView.String()
}

func (f *Frame) String() string {
	var out strings.Builder
	out.WriteString("ch" + strconv.Itoa(int(f.Channel)) + " || ")
	out.WriteString(fmt.Sprintf("%-10s", f.ID.String()) + " || ")
	out.WriteString(f.flagString() + " || ")
	out.WriteString(fmt.Sprintf("%2d", len(f.Data)) + " || ")
	out.WriteString(f.hexView())
	if len(f.Data) <= MaxClassicLength {
		out.WriteString(" || ")
		out.WriteString(onlyPrintable(f.Data))
	}
	return out.String()
}

func (f *Frame) ColorString() string {
	var out strings.Builder
	out.WriteString("ch" + strconv.Itoa(int(f.Channel)) + " || ")
	out.WriteString(green("%-10s", f.ID.String()) + " || ")
	out.WriteString(red(f.flagString()) + " || ")
	out.WriteString(fmt.Sprintf("%2d", len(f.Data)) + " || ")
	out.WriteString(f.hexView())
	if len(f.Data) <= MaxClassicLength {
		out.WriteString(" || ")
		out.WriteString(yellow(onlyPrintable(f.Data)))
	}
	return out.String()
}

func onlyPrintable(data []byte) string {
	var out strings.Builder
	for _, b := range data {
		if b < 32 || b > 126 {
			out.WriteString("·")
		} else {
			out.WriteByte(b)
		}
	}
	return out.String()
}
