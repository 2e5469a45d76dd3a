package usbcan

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/hwframe"
	"github.com/roffe/zlgcan/pkg/native/virtual"
)

var btr500k = &zlgcan.Timing{Bitrate: 500000, Nominal: zlgcan.TimingEntry{Timing0: 0x00, Timing1: 0x1C}}

func TestInitCAN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *zlgcan.ChannelConfig
		timing  *zlgcan.Timing
		wantErr error
	}{
		{name: "classic", cfg: zlgcan.NewChannelConfig(500000), timing: btr500k},
		{name: "listen only", cfg: zlgcan.NewChannelConfig(500000).WithChannelMode(zlgcan.ModeListenOnly), timing: btr500k},
		{name: "fd type", cfg: zlgcan.NewChannelConfig(500000).WithChannelType(zlgcan.ChannelCANFDISO), timing: btr500k, wantErr: zlgcan.ErrNotSupported},
		{name: "data phase", cfg: zlgcan.NewChannelConfig(500000), timing: &zlgcan.Timing{Data: &zlgcan.TimingEntry{}}, wantErr: zlgcan.ErrNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := virtual.New()
			lib.AddDevice(zlgcan.USBCAN2, 0)
			api, _ := New(&zlgcan.AdapterConfig{Library: lib})
			dev := zlgcan.NewDeviceContext(zlgcan.USBCAN2, 0)
			if _, err := api.Open(dev); err != nil {
				t.Fatal(err)
			}
			_, err := api.InitCAN(dev.Channel(1), tt.cfg, tt.timing)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("InitCAN() error = %v, want %v", err, tt.wantErr)
				}
				if lib.Calls("InitCAN") != 0 {
					t.Errorf("driver reached for an unsupported config")
				}
				return
			}
			if err != nil {
				t.Fatalf("InitCAN() error = %v", err)
			}
			want := hwframe.VCIInit(tt.timing, tt.cfg.ModeOr(zlgcan.ModeNormal))
			if got := lib.InitBlob(zlgcan.USBCAN2, 0, 1); !bytes.Equal(got, want) {
				t.Errorf("init blob = % X, want % X", got, want)
			}
		})
	}
}

func TestClassicOnly(t *testing.T) {
	lib := virtual.New()
	lib.AddDevice(zlgcan.USBCAN1, 0)
	api, _ := New(&zlgcan.AdapterConfig{Library: lib})
	dev := zlgcan.NewDeviceContext(zlgcan.USBCAN1, 0)
	if _, err := api.Open(dev); err != nil {
		t.Fatal(err)
	}
	ch := dev.Channel(0)
	if _, err := api.InitCAN(ch, zlgcan.NewChannelConfig(500000), btr500k); err != nil {
		t.Fatal(err)
	}
	before := lib.Total()
	if _, err := api.ReceiveCANFD(ch, 1, 0); !errors.Is(err, zlgcan.ErrNotSupported) {
		t.Errorf("ReceiveCANFD() error = %v, want not supported", err)
	}
	if _, err := api.PendingCAN(ch, zlgcan.KindCANFD); !errors.Is(err, zlgcan.ErrNotSupported) {
		t.Errorf("PendingCAN(fd) error = %v, want not supported", err)
	}
	if err := api.SetValue(ch, zlgcan.NewReference(zlgcan.RefTxTimeout), nil); !errors.Is(err, zlgcan.ErrNotSupported) {
		t.Errorf("SetValue() error = %v, want not supported", err)
	}
	if err := api.InitLIN(ch, &zlgcan.LinChannelConfig{Baudrate: 19200}); !errors.Is(err, zlgcan.ErrNotSupported) {
		t.Errorf("InitLIN() error = %v, want not supported", err)
	}
	if err := api.SetServer("example.org", 8000); !errors.Is(err, zlgcan.ErrNotSupported) {
		t.Errorf("SetServer() error = %v, want not supported", err)
	}
	if lib.Total() != before {
		t.Errorf("unsupported calls reached the driver")
	}

	// single channel devices hear their own frames
	id, _ := zlgcan.ExtendedID(0x18DAF110)
	n, err := api.TransmitCAN(ch, []*zlgcan.Frame{{ID: id, Timestamp: 300, Data: []byte{0x02, 0x3E, 0x00}}})
	if err != nil || n != 1 {
		t.Fatalf("TransmitCAN() = %d, %v", n, err)
	}
	got, err := api.ReceiveCAN(ch, 4, 10*time.Millisecond)
	if err != nil || len(got) != 1 {
		t.Fatalf("ReceiveCAN() = %v, %v", got, err)
	}
	if !got[0].ID.IsExtended() || got[0].ID.Value() != 0x18DAF110 || got[0].Timestamp != 300 {
		t.Errorf("ReceiveCAN() frame = %s ts=%d", got[0], got[0].Timestamp)
	}
}
