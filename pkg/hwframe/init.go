package hwframe

import "github.com/roffe/zlgcan"

const (
	VCIInitSize  = 16
	FDInitSize   = 24
	ZCANInitSize = 32

	fdModeListenOnly = 1 << 0
	fdModeNonISO     = 1 << 1
)

// VCIInit encodes VCI_INIT_CONFIG: AccCode u32, AccMask u32, Reserved u32,
// Filter u8, Timing0 u8, Timing1 u8, Mode u8. The acceptance filter is left
// fully open.
func VCIInit(t *zlgcan.Timing, mode zlgcan.ChannelMode) []byte {
	b := make([]byte, VCIInitSize)
	le.PutUint32(b[0:], 0)
	le.PutUint32(b[4:], 0xFFFFFFFF)
	b[12] = 1
	b[13] = t.Nominal.Timing0
	b[14] = t.Nominal.Timing1
	b[15] = uint8(mode)
	return b
}

// FDInit encodes the USBCANFD init block: clock u32, mode u32, then the
// nominal and data segment timing (tseg1, tseg2, sjw, smp u8, brp u16, pad).
// Without a data phase the nominal timing is repeated.
func FDInit(t *zlgcan.Timing, typ zlgcan.ChannelType, mode zlgcan.ChannelMode) []byte {
	b := make([]byte, FDInitSize)
	le.PutUint32(b[0:], t.Clock)
	var m uint32
	if mode == zlgcan.ModeListenOnly {
		m |= fdModeListenOnly
	}
	if typ == zlgcan.ChannelCANFDNonISO {
		m |= fdModeNonISO
	}
	le.PutUint32(b[4:], m)
	putSegments(b[8:], &t.Nominal)
	data := &t.Nominal
	if t.Data != nil {
		data = t.Data
	}
	putSegments(b[16:], data)
	return b
}

func putSegments(b []byte, e *zlgcan.TimingEntry) {
	b[0] = e.Tseg1
	b[1] = e.Tseg2
	b[2] = e.SJW
	b[3] = e.SMP
	le.PutUint16(b[4:], e.BRP)
}

// ZCANInit encodes the PCIe-CANFD init block: can_type u32, acc_code u32,
// acc_mask u32, abit_timing u32, dbit_timing u32, brp u32, filter u8,
// mode u8, pad u16, reserved u32.
func ZCANInit(t *zlgcan.Timing, typ zlgcan.ChannelType, mode zlgcan.ChannelMode) []byte {
	b := make([]byte, ZCANInitSize)
	var canType uint32
	if typ != zlgcan.ChannelCAN {
		canType = 1
	}
	le.PutUint32(b[0:], canType)
	le.PutUint32(b[4:], 0)
	le.PutUint32(b[8:], 0xFFFFFFFF)
	le.PutUint32(b[12:], t.Nominal.Vendor)
	dbit := t.Nominal.Vendor
	if t.Data != nil {
		dbit = t.Data.Vendor
	}
	le.PutUint32(b[16:], dbit)
	le.PutUint32(b[20:], uint32(t.Nominal.BRP))
	b[24] = 0
	b[25] = uint8(mode)
	return b
}
