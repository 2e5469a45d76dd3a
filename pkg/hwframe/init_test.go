package hwframe

import (
	"testing"

	"github.com/roffe/zlgcan"
)

func TestVCIInit(t *testing.T) {
	b := VCIInit(&zlgcan.Timing{Nominal: zlgcan.TimingEntry{Timing0: 0x00, Timing1: 0x1C}}, zlgcan.ModeListenOnly)
	if len(b) != VCIInitSize {
		t.Fatalf("len = %d", len(b))
	}
	if le.Uint32(b[0:]) != 0 || le.Uint32(b[4:]) != 0xFFFFFFFF || b[12] != 1 {
		t.Errorf("filter = % X", b[:13])
	}
	if b[13] != 0x00 || b[14] != 0x1C || b[15] != uint8(zlgcan.ModeListenOnly) {
		t.Errorf("timing/mode = % X", b[13:])
	}
}

func TestFDInit(t *testing.T) {
	nominal := zlgcan.TimingEntry{Tseg1: 16, Tseg2: 5, SJW: 2, BRP: 4}
	data := zlgcan.TimingEntry{Tseg1: 10, Tseg2: 2, SJW: 2, BRP: 1}
	tests := []struct {
		name     string
		timing   *zlgcan.Timing
		typ      zlgcan.ChannelType
		mode     zlgcan.ChannelMode
		wantMode uint32
		wantData zlgcan.TimingEntry
	}{
		{"iso normal", &zlgcan.Timing{Clock: 60000000, Nominal: nominal, Data: &data}, zlgcan.ChannelCANFDISO, zlgcan.ModeNormal, 0, data},
		{"non iso listen only", &zlgcan.Timing{Clock: 60000000, Nominal: nominal, Data: &data}, zlgcan.ChannelCANFDNonISO, zlgcan.ModeListenOnly, 3, data},
		{"no data phase", &zlgcan.Timing{Clock: 60000000, Nominal: nominal}, zlgcan.ChannelCANFDISO, zlgcan.ModeNormal, 0, nominal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FDInit(tt.timing, tt.typ, tt.mode)
			if len(b) != FDInitSize {
				t.Fatalf("len = %d", len(b))
			}
			if le.Uint32(b[0:]) != 60000000 {
				t.Errorf("clock = %d", le.Uint32(b[0:]))
			}
			if got := le.Uint32(b[4:]); got != tt.wantMode {
				t.Errorf("mode = %d, want %d", got, tt.wantMode)
			}
			if b[8] != 16 || b[9] != 5 || b[10] != 2 || le.Uint16(b[12:]) != 4 {
				t.Errorf("nominal = % X", b[8:16])
			}
			if b[16] != tt.wantData.Tseg1 || b[17] != tt.wantData.Tseg2 || le.Uint16(b[20:]) != tt.wantData.BRP {
				t.Errorf("data = % X", b[16:24])
			}
		})
	}
}

func TestZCANInit(t *testing.T) {
	timing := &zlgcan.Timing{
		Nominal: zlgcan.TimingEntry{Vendor: 0x0001975E},
		Data:    &zlgcan.TimingEntry{Vendor: 0x00010207},
	}
	b := ZCANInit(timing, zlgcan.ChannelCANFDISO, zlgcan.ModeNormal)
	if len(b) != ZCANInitSize {
		t.Fatalf("len = %d", len(b))
	}
	if le.Uint32(b[0:]) != 1 || le.Uint32(b[8:]) != 0xFFFFFFFF {
		t.Errorf("type/mask = % X", b[:12])
	}
	if le.Uint32(b[12:]) != 0x0001975E || le.Uint32(b[16:]) != 0x00010207 {
		t.Errorf("abit/dbit = 0x%08X/0x%08X", le.Uint32(b[12:]), le.Uint32(b[16:]))
	}
	if b := ZCANInit(&zlgcan.Timing{Nominal: timing.Nominal}, zlgcan.ChannelCAN, zlgcan.ModeListenOnly); le.Uint32(b[0:]) != 0 || le.Uint32(b[16:]) != 0x0001975E || b[25] != 1 {
		t.Errorf("classic init = % X", b)
	}
}
