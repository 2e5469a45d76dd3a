// Package pciecanfd drives the PCIe-CANFD cards. They exchange socket style
// records and are configured through 32-bit vendor timing words and textual
// value paths.
package pciecanfd

import (
	"bytes"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/adapter/base"
	"github.com/roffe/zlgcan/pkg/hwframe"
)

const (
	Name = "PCIECANFD"

	valueSize = 64
)

func init() {
	if err := zlgcan.RegisterFamily(&zlgcan.FamilyInfo{
		Name:        Name,
		Description: "ZLG PCIe-CANFD cards",
		DeviceTypes: []zlgcan.DeviceType{
			zlgcan.PCIECANFD100U,
			zlgcan.PCIECANFD200U,
			zlgcan.PCIECANFD400U,
			zlgcan.PCIECANFD100UEx,
			zlgcan.PCIECANFD400UEx,
			zlgcan.PCIECANFD200UMini,
			zlgcan.PCIECANFD200UM2,
		},
		Capabilities: zlgcan.Capabilities{
			CAN:   true,
			CANFD: true,
		},
		New: New,
	}); err != nil {
		panic(err)
	}
}

type PCIECANFD struct {
	base.BaseAdapter
	zlgcan.NoLIN
	zlgcan.NoCloud
}

var _ zlgcan.API = (*PCIECANFD)(nil)

func New(cfg *zlgcan.AdapterConfig) (zlgcan.API, error) {
	return &PCIECANFD{
		BaseAdapter: base.NewBaseAdapter(Name, cfg, hwframe.ZCAN),
	}, nil
}

func (p *PCIECANFD) InitCAN(ch *zlgcan.ChannelContext, cfg *zlgcan.ChannelConfig, t *zlgcan.Timing) (zlgcan.Handle, error) {
	if t.Nominal.Vendor == 0 || t.Data != nil && t.Data.Vendor == 0 {
		return 0, zlgcan.InitializeError("%s preset for %d bit/s has no timing word", ch.DeviceType(), t.Bitrate)
	}
	typ := cfg.TypeOr(zlgcan.ChannelCANFDISO)
	mode := cfg.ModeOr(zlgcan.ModeNormal)
	p.Config().Logf("%s init %s %s abit=0x%08X", ch, typ, mode, t.Nominal.Vendor)
	return p.InitAndStart(ch, hwframe.ZCANInit(t, typ, mode))
}

func (p *PCIECANFD) checkValues(op string, ch *zlgcan.ChannelContext, path zlgcan.CmdPath) error {
	if !ch.DeviceType().ValueSupport() {
		return zlgcan.NotSupported(op)
	}
	if path.Path() == "" {
		return zlgcan.OtherError("%s: %s values are addressed by path, got %s", op, Name, path)
	}
	return nil
}

// GetValue reads the string value at path, without its NUL terminator.
func (p *PCIECANFD) GetValue(ch *zlgcan.ChannelContext, path zlgcan.CmdPath) ([]byte, error) {
	if err := p.checkValues("GetValue", ch, path); err != nil {
		return nil, err
	}
	buf := make([]byte, valueSize)
	code := p.Library().GetValue(uint32(ch.DeviceType()), ch.DeviceIndex(), path.Path(), buf)
	if err := base.Check(zlgcan.KindOperation, "ZCAN_GetValue", code); err != nil {
		return nil, err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return buf, nil
}

// SetValue writes value at path. The driver reads a C string, a missing
// terminator is added.
func (p *PCIECANFD) SetValue(ch *zlgcan.ChannelContext, path zlgcan.CmdPath, value []byte) error {
	if err := p.checkValues("SetValue", ch, path); err != nil {
		return err
	}
	if i := bytes.IndexByte(value, 0); i >= 0 && i != len(value)-1 {
		return zlgcan.OtherError("value for %s has an embedded NUL", path)
	}
	if len(value) == 0 || value[len(value)-1] != 0 {
		value = append(append([]byte{}, value...), 0)
	}
	code := p.Library().SetValue(uint32(ch.DeviceType()), ch.DeviceIndex(), path.Path(), value)
	return base.Check(zlgcan.KindOperation, "ZCAN_SetValue", code)
}
