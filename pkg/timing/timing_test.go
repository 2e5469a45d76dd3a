package timing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roffe/zlgcan"
)

const testPresets = `
"41": &fd
  clock: 60000000
  bitrate:
    "500000": { tseg1: 16, tseg2: 5, sjw: 2, smp: 0, brp: 4 }
    "1000000": { tseg1: 14, tseg2: 3, sjw: 2, smp: 0, brp: 2 }
  data_bitrate:
    "2000000": { tseg1: 10, tseg2: 2, sjw: 2, smp: 0, brp: 1 }
    "500000": { tseg1: 16, tseg2: 5, sjw: 2, smp: 0, brp: 4 }
"42": *fd
"4":
  bitrate:
    "500000": { timing0: 0x00, timing1: 0x1C }
"38":
  bitrate:
    "500000": { timing: 0x0001975E }
`

func mustLoad(t *testing.T, s string) *Resolver {
	t.Helper()
	r, err := Load(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return r
}

func TestResolve(t *testing.T) {
	r := mustLoad(t, testPresets)
	tests := []struct {
		name      string
		devType   zlgcan.DeviceType
		cfg       *zlgcan.ChannelConfig
		nominal   zlgcan.TimingEntry
		data      *zlgcan.TimingEntry
		dataRate  uint32
		wantErr   error
		errSubstr string
	}{
		{
			name:     "fd with data bitrate",
			devType:  zlgcan.USBCANFD200U,
			cfg:      zlgcan.NewChannelConfig(500000).WithDataBitrate(2000000),
			nominal:  zlgcan.TimingEntry{Tseg1: 16, Tseg2: 5, SJW: 2, BRP: 4},
			data:     &zlgcan.TimingEntry{Tseg1: 10, Tseg2: 2, SJW: 2, BRP: 1},
			dataRate: 2000000,
		},
		{
			name:     "data phase defaults to nominal",
			devType:  zlgcan.USBCANFD100U,
			cfg:      zlgcan.NewChannelConfig(500000),
			nominal:  zlgcan.TimingEntry{Tseg1: 16, Tseg2: 5, SJW: 2, BRP: 4},
			data:     &zlgcan.TimingEntry{Tseg1: 16, Tseg2: 5, SJW: 2, BRP: 4},
			dataRate: 500000,
		},
		{
			name:    "classic btr",
			devType: zlgcan.USBCAN2,
			cfg:     zlgcan.NewChannelConfig(500000),
			nominal: zlgcan.TimingEntry{Timing0: 0x00, Timing1: 0x1C},
		},
		{
			name:    "vendor word",
			devType: zlgcan.PCIECANFD100U,
			cfg:     zlgcan.NewChannelConfig(500000),
			nominal: zlgcan.TimingEntry{Vendor: 0x0001975E},
		},
		{
			name:      "unknown device",
			devType:   zlgcan.USBCANFDMini,
			cfg:       zlgcan.NewChannelConfig(500000),
			wantErr:   zlgcan.ErrUnsupportedBitrate,
			errSubstr: "is not configured in bitrate.cfg.yaml",
		},
		{
			name:      "unknown bitrate",
			devType:   zlgcan.USBCANFD200U,
			cfg:       zlgcan.NewChannelConfig(800000),
			wantErr:   zlgcan.ErrUnsupportedBitrate,
			errSubstr: "bitrate 800000 is not configured",
		},
		{
			name:      "default data phase missing",
			devType:   zlgcan.USBCANFD200U,
			cfg:       zlgcan.NewChannelConfig(1000000),
			wantErr:   zlgcan.ErrUnsupportedBitrate,
			errSubstr: "data bitrate 1000000",
		},
		{
			name:      "no data table",
			devType:   zlgcan.USBCAN2,
			cfg:       zlgcan.NewChannelConfig(500000).WithDataBitrate(2000000),
			wantErr:   zlgcan.ErrUnsupportedBitrate,
			errSubstr: "has no data bitrate table",
		},
		{
			name:    "invalid config",
			devType: zlgcan.USBCAN2,
			cfg:     zlgcan.NewChannelConfig(0),
			wantErr: zlgcan.ErrInitialize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.devType, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Resolve() error = %q, want it to contain %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Nominal != tt.nominal || got.Bitrate != tt.cfg.Bitrate || got.DataBitrate != tt.dataRate {
				t.Errorf("Resolve() = %+v", got)
			}
			if (got.Data == nil) != (tt.data == nil) || got.Data != nil && *got.Data != *tt.data {
				t.Errorf("Resolve() data = %+v, want %+v", got.Data, tt.data)
			}
		})
	}
}

func TestResolveNilConfig(t *testing.T) {
	r := mustLoad(t, testPresets)
	if _, err := r.Resolve(zlgcan.USBCANFD200U, nil); !errors.Is(err, zlgcan.ErrOther) {
		t.Errorf("Resolve(nil) error = %v, want other", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", "\"41\": [unclosed"},
		{"non integer device", "usbcanfd:\n  bitrate:\n    \"500000\": { brp: 4 }\n"},
		{"non integer bitrate", "\"41\":\n  bitrate:\n    fast: { brp: 4 }\n"},
		{"missing bitrate table", "\"41\":\n  clock: 60000000\n"},
		{"empty entry", "\"41\":\n  bitrate:\n    \"500000\": {}\n"},
		{"unknown field", "\"41\":\n  bitrate:\n    \"500000\": { brp: 4, speed: 9 }\n"},
		{"out of range", "\"41\":\n  bitrate:\n    \"500000\": { tseg1: 300 }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in))
			if !errors.Is(err, zlgcan.ErrConfigLoad) {
				t.Errorf("Load() error = %v, want config load", err)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, PresetFile), []byte(testPresets), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if got := r.Families(); len(got) != 4 || got[0] != zlgcan.USBCAN2 {
		t.Errorf("Families() = %v", got)
	}
	if got := r.Bitrates(zlgcan.USBCANFD200U); len(got) != 2 || got[0] != 500000 || got[1] != 1000000 {
		t.Errorf("Bitrates() = %v", got)
	}
	if _, err := LoadDir(t.TempDir()); !errors.Is(err, zlgcan.ErrConfigLoad) {
		t.Errorf("LoadDir() on empty dir error = %v, want config load", err)
	}
}

func TestDefault(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	for _, devType := range zlgcan.DeviceTypes() {
		if _, ok := r.Preset(devType); !ok {
			t.Errorf("no preset for %s", devType)
		}
	}
	got, err := r.Resolve(zlgcan.USBCANFD200U, zlgcan.NewChannelConfig(500000).WithDataBitrate(2000000))
	if err != nil {
		t.Fatal(err)
	}
	if got.Clock != 60000000 || got.Data == nil || got.Data.BRP != 1 {
		t.Errorf("Resolve() = %+v", got)
	}
	// every usbcanfd entry hits its bitrate exactly
	p, _ := r.Preset(zlgcan.USBCANFD200U)
	for br, e := range p.Bitrate {
		if got := p.Clock / (uint32(e.BRP) + 1) / (uint32(e.Tseg1) + uint32(e.Tseg2) + 3); got != br {
			t.Errorf("bitrate entry %d computes to %d", br, got)
		}
	}
	for br, e := range p.DataBitrate {
		if got := p.Clock / (uint32(e.BRP) + 1) / (uint32(e.Tseg1) + uint32(e.Tseg2) + 3); got != br {
			t.Errorf("data bitrate entry %d computes to %d", br, got)
		}
	}
}
