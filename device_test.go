package zlgcan

import (
	"errors"
	"testing"
)

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		in      string
		want    DeviceType
		wantErr bool
	}{
		{in: "USBCANFD-200U", want: USBCANFD200U},
		{in: "usbcanfd-200u", want: USBCANFD200U},
		{in: "41", want: USBCANFD200U},
		{in: "4", want: USBCAN2},
		{in: "PCIE-CANFD-400U-EX", want: PCIECANFD400UEx},
		{in: "99", wantErr: true},
		{in: "bogus", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeviceType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeviceType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrUnknownDevice) {
					t.Errorf("error = %v, want ErrUnknownDevice", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseDeviceType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeviceTraits(t *testing.T) {
	if USBCANFD200U.CANChannels() != 2 || USBCANFD200U.LINChannels() != 2 || !USBCANFD200U.CANFD() || !USBCANFD200U.HasResistance() {
		t.Errorf("USBCANFD-200U traits wrong")
	}
	if USBCANFDMini.ValueSupport() {
		t.Errorf("USBCANFD-MINI should not support values")
	}
	if PCIECANFD200U.HasResistance() || !PCIECANFD200U.ValueSupport() {
		t.Errorf("PCIE-CANFD-200U traits wrong")
	}
	if USBCAN2.CANFD() || USBCAN2.CANChannels() != 2 {
		t.Errorf("USBCAN-II traits wrong")
	}
	types := DeviceTypes()
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Fatalf("DeviceTypes() not sorted: %v", types)
		}
	}
	if DeviceType(99).String() != "DeviceType(99)" {
		t.Errorf("unknown type String() = %s", DeviceType(99))
	}
}
