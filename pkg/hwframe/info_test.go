package hwframe

import (
	"reflect"
	"testing"

	"github.com/roffe/zlgcan"
)

func TestDeviceInfoRoundTrip(t *testing.T) {
	in := &zlgcan.DeviceInfo{
		Hardware:    0x0100,
		Firmware:    0x0102,
		Driver:      0x0203,
		API:         0x0203,
		IRQ:         7,
		CANChannels: 2,
		LINChannels: 2,
		Serial:      "31F0001234",
		HardwareID:  "USBCANFD-200U",
	}
	b := EncodeDeviceInfo(in)
	if len(b) != DeviceInfoSize {
		t.Fatalf("len = %d", len(b))
	}
	if b[10] != 2 || b[71] != 2 || string(b[31:44]) != "USBCANFD-200U" {
		t.Errorf("offsets wrong: % X", b)
	}
	out, err := DecodeDeviceInfo(b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("DecodeDeviceInfo() = %+v, want %+v", out, in)
	}
	if out.Firmware.String() != "V1.02" {
		t.Errorf("firmware = %s", out.Firmware)
	}
	if _, err := DecodeDeviceInfo(b[:40]); err == nil {
		t.Errorf("short block accepted")
	}
}

func TestChannelStatusRoundTrip(t *testing.T) {
	in := &zlgcan.ChannelStatus{Status: 0x80 | 0x0C, RxErrors: 12, TxErrors: 255, EWLimit: 96, BusOff: true}
	out, err := DecodeChannelStatus(EncodeChannelStatus(in))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("DecodeChannelStatus() = %+v, want %+v", out, in)
	}

	e := &zlgcan.ChannelError{Code: 0x00000400, Passive: [3]uint8{1, 2, 3}, ArbLost: 4}
	got, err := DecodeChannelError(EncodeChannelError(e))
	if err != nil || !reflect.DeepEqual(got, e) {
		t.Errorf("DecodeChannelError() = %+v, %v", got, err)
	}
}
