package zlgcan

import (
	"errors"
	"testing"
)

func TestChannelConfigDefaults(t *testing.T) {
	cfg := NewChannelConfig(500000)
	if cfg.DataBitrate != 0 || cfg.Resistance != nil || cfg.ChannelType != nil || cfg.ChannelMode != nil {
		t.Fatalf("NewChannelConfig() = %+v, want only bitrate set", cfg)
	}
	if !cfg.ResistanceOr(true) || cfg.TypeOr(ChannelCANFDISO) != ChannelCANFDISO || cfg.ModeOr(ModeNormal) != ModeNormal {
		t.Errorf("defaults not applied")
	}
	cfg.WithDataBitrate(2000000).WithResistance(false).WithChannelType(ChannelCANFDNonISO).WithChannelMode(ModeListenOnly)
	if cfg.DataBitrate != 2000000 || cfg.ResistanceOr(true) || cfg.TypeOr(ChannelCAN) != ChannelCANFDNonISO || cfg.ModeOr(ModeNormal) != ModeListenOnly {
		t.Errorf("builders not applied: %+v", cfg)
	}
}

func TestChannelConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *ChannelConfig
		wantErr bool
	}{
		{name: "ok", cfg: NewChannelConfig(500000)},
		{name: "fd", cfg: NewChannelConfig(500000).WithDataBitrate(2000000)},
		{name: "zero bitrate", cfg: NewChannelConfig(0), wantErr: true},
		{name: "data bitrate on classic", cfg: NewChannelConfig(500000).WithDataBitrate(2000000).WithChannelType(ChannelCAN), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInitialize) {
				t.Errorf("Validate() error = %v, want initialize kind", err)
			}
		})
	}
}

func TestGetExtra(t *testing.T) {
	cfg := NewChannelConfig(500000)

	if _, ok, err := GetExtra[uint32](cfg, "vendor.tx_echo"); ok || err != nil {
		t.Errorf("absent key: ok = %v, err = %v", ok, err)
	}

	if err := cfg.SetExtra("vendor.tx_echo", uint32(1)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := GetExtra[uint32](cfg, "vendor.tx_echo")
	if !ok || err != nil || v != 1 {
		t.Errorf("GetExtra[uint32]() = %v, %v, %v", v, ok, err)
	}
	if _, _, err := GetExtra[string](cfg, "vendor.tx_echo"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("wrong type error = %v, want type mismatch", err)
	}
	if keys := cfg.Extras(); len(keys) != 1 || keys[0] != "vendor.tx_echo" {
		t.Errorf("Extras() = %v", keys)
	}
}

func TestSetExtraKnownKeys(t *testing.T) {
	cfg := NewChannelConfig(500000)
	if err := cfg.SetExtra(KeyChannelType, uint8(ChannelCANFDNonISO)); err != nil {
		t.Fatal(err)
	}
	if cfg.TypeOr(ChannelCAN) != ChannelCANFDNonISO {
		t.Errorf("channel type not promoted")
	}
	if err := cfg.SetExtra(KeyChannelMode, ModeListenOnly); err != nil {
		t.Fatal(err)
	}
	m, ok, err := GetExtra[ChannelMode](cfg, KeyChannelMode)
	if !ok || err != nil || m != ModeListenOnly {
		t.Errorf("GetExtra(mode) = %v, %v, %v", m, ok, err)
	}
	if err := cfg.SetExtra(KeyChannelType, "canfd"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetExtra(string) error = %v, want type mismatch", err)
	}
	if len(cfg.Extras()) != 0 {
		t.Errorf("known keys leaked into extras: %v", cfg.Extras())
	}
}
