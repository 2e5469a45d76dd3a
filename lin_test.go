package zlgcan

import "testing"

func TestLinPID(t *testing.T) {
	tests := []struct {
		id   uint8
		want uint8
	}{
		{0x00, 0x80},
		{0x01, 0xC1},
		{0x10, 0x50},
		{0x3C, 0x3C},
		{0x3D, 0x7D},
		{0x3F, 0xBF},
	}
	for _, tt := range tests {
		if got := LinPID(tt.id); got != tt.want {
			t.Errorf("LinPID(0x%02X) = 0x%02X, want 0x%02X", tt.id, got, tt.want)
		}
	}
}

func TestLinFrameValidate(t *testing.T) {
	if _, err := NewLinFrame(0, 0x40, nil); err == nil {
		t.Errorf("id 0x40 accepted")
	}
	if _, err := NewLinFrame(0, 0x10, make([]byte, 9)); err == nil {
		t.Errorf("9 data bytes accepted")
	}
	f, err := NewLinFrame(1, 0x10, []byte{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if f.PID() != 0x50 {
		t.Errorf("PID() = 0x%02X", f.PID())
	}
}

func TestLinChannelConfigValidate(t *testing.T) {
	if err := (&LinChannelConfig{Mode: LinMaster, Checksum: LinChecksumEnhanced, MaxDLC: 8, Baudrate: 19200}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (&LinChannelConfig{MaxDLC: 8}).Validate(); err == nil {
		t.Errorf("zero baudrate accepted")
	}
	if err := (&LinChannelConfig{MaxDLC: 9, Baudrate: 19200}).Validate(); err == nil {
		t.Errorf("max dlc 9 accepted")
	}
}
