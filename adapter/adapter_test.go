package adapter

import (
	"errors"
	"testing"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/native/virtual"
)

func TestEveryDeviceTypeHasAFamily(t *testing.T) {
	if got, want := len(Supported()), len(zlgcan.DeviceTypes()); got != want {
		t.Errorf("Supported() = %d types, want %d", got, want)
	}
	names := map[string]bool{}
	for _, f := range Families() {
		names[f.Name] = true
	}
	for _, want := range []string{"USBCAN", "USBCANFD", "PCIECANFD"} {
		if !names[want] {
			t.Errorf("family %s not registered", want)
		}
	}
}

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		devType zlgcan.DeviceType
		want    string
		lin     bool
	}{
		{zlgcan.USBCAN2, "USBCAN", false},
		{zlgcan.USBCANFD400U, "USBCANFD", true},
		{zlgcan.USBCANFDMini, "USBCANFD", true},
		{zlgcan.PCIECANFD200UM2, "PCIECANFD", false},
	}
	for _, tt := range tests {
		t.Run(tt.devType.String(), func(t *testing.T) {
			f, err := zlgcan.FamilyFor(tt.devType)
			if err != nil {
				t.Fatal(err)
			}
			if f.Name != tt.want || f.Capabilities.LIN != tt.lin {
				t.Errorf("FamilyFor() = %s", f)
			}
		})
	}
	if _, err := zlgcan.FamilyFor(99); !errors.Is(err, zlgcan.ErrUnknownDevice) {
		t.Errorf("FamilyFor(99) error = %v, want unknown device", err)
	}
}

func TestNewAPI(t *testing.T) {
	if _, err := zlgcan.NewAPI(zlgcan.USBCANFD200U, &zlgcan.AdapterConfig{}); !errors.Is(err, zlgcan.ErrInitialize) {
		t.Errorf("NewAPI() without library error = %v, want initialize", err)
	}
	cfg := &zlgcan.AdapterConfig{Library: virtual.New()}
	if _, err := zlgcan.NewAPI(zlgcan.USBCANFD200U, cfg); err != nil {
		t.Fatalf("NewAPI() error = %v", err)
	}
	if cfg.OnMessage == nil {
		t.Errorf("NewAPI() left OnMessage unset")
	}
	if err := zlgcan.RegisterFamily(&zlgcan.FamilyInfo{Name: "USBCAN"}); err == nil {
		t.Errorf("duplicate family registered")
	}
	if err := zlgcan.RegisterFamily(&zlgcan.FamilyInfo{Name: "OTHER", DeviceTypes: []zlgcan.DeviceType{zlgcan.USBCAN1}}); err == nil {
		t.Errorf("device type registered twice")
	}
}
