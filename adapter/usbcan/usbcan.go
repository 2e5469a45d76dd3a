// Package usbcan drives the classic USBCAN-I and USBCAN-II adapters.
package usbcan

import (
	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/adapter/base"
	"github.com/roffe/zlgcan/pkg/hwframe"
)

const Name = "USBCAN"

func init() {
	if err := zlgcan.RegisterFamily(&zlgcan.FamilyInfo{
		Name:        Name,
		Description: "ZLG USBCAN-I/II classic CAN",
		DeviceTypes: []zlgcan.DeviceType{zlgcan.USBCAN1, zlgcan.USBCAN2},
		Capabilities: zlgcan.Capabilities{
			CAN: true,
		},
		New: New,
	}); err != nil {
		panic(err)
	}
}

type USBCAN struct {
	base.BaseAdapter
	zlgcan.NoLIN
	zlgcan.NoCloud
}

var _ zlgcan.API = (*USBCAN)(nil)

func New(cfg *zlgcan.AdapterConfig) (zlgcan.API, error) {
	return &USBCAN{
		BaseAdapter: base.NewBaseAdapter(Name, cfg, hwframe.VCI),
	}, nil
}

// InitCAN programs the SJA1000 bus timing registers and starts the channel.
func (u *USBCAN) InitCAN(ch *zlgcan.ChannelContext, cfg *zlgcan.ChannelConfig, t *zlgcan.Timing) (zlgcan.Handle, error) {
	if typ := cfg.TypeOr(zlgcan.ChannelCAN); typ != zlgcan.ChannelCAN {
		return 0, zlgcan.NotSupported("InitCAN " + typ.String())
	}
	if t.Data != nil || cfg.DataBitrate != 0 {
		return 0, zlgcan.NotSupported("InitCAN data bitrate")
	}
	u.Config().Logf("%s init %d bit/s timing0=0x%02X timing1=0x%02X", ch, t.Bitrate, t.Nominal.Timing0, t.Nominal.Timing1)
	return u.InitAndStart(ch, hwframe.VCIInit(t, cfg.ModeOr(zlgcan.ModeNormal)))
}

func (u *USBCAN) GetValue(*zlgcan.ChannelContext, zlgcan.CmdPath) ([]byte, error) {
	return nil, zlgcan.NotSupported("GetValue")
}

func (u *USBCAN) SetValue(*zlgcan.ChannelContext, zlgcan.CmdPath, []byte) error {
	return zlgcan.NotSupported("SetValue")
}
