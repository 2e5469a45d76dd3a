// Package usbcanfd drives the USBCANFD-100U/200U/400U and MINI adapters.
package usbcanfd

import (
	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/adapter/base"
	"github.com/roffe/zlgcan/pkg/hwframe"
	"github.com/roffe/zlgcan/pkg/native"
)

const (
	Name = "USBCANFD"

	// valueSize is the buffer handed to VCI_GetReference by GetValue.
	valueSize = 16
)

func init() {
	if err := zlgcan.RegisterFamily(&zlgcan.FamilyInfo{
		Name:        Name,
		Description: "ZLG USBCANFD series CAN/CAN-FD/LIN",
		DeviceTypes: []zlgcan.DeviceType{
			zlgcan.USBCANFD100U,
			zlgcan.USBCANFD200U,
			zlgcan.USBCANFD400U,
			zlgcan.USBCANFDMini,
		},
		Capabilities: zlgcan.Capabilities{
			CAN:   true,
			CANFD: true,
			LIN:   true,
		},
		New: New,
	}); err != nil {
		panic(err)
	}
}

type USBCANFD struct {
	base.BaseAdapter
	zlgcan.NoCloud
}

var _ zlgcan.API = (*USBCANFD)(nil)

func New(cfg *zlgcan.AdapterConfig) (zlgcan.API, error) {
	return &USBCANFD{
		BaseAdapter: base.NewBaseAdapter(Name, cfg, hwframe.USBCANFD),
	}, nil
}

// InitCAN switches the terminal resistance, when the device has one, then
// initialises and starts the channel. The resistance defaults to on and the
// channel type to CAN-FD ISO.
func (u *USBCANFD) InitCAN(ch *zlgcan.ChannelContext, cfg *zlgcan.ChannelConfig, t *zlgcan.Timing) (zlgcan.Handle, error) {
	if ch.DeviceType().HasResistance() {
		if err := u.setResistance(ch, cfg.ResistanceOr(true)); err != nil {
			return 0, err
		}
	}
	typ := cfg.TypeOr(zlgcan.ChannelCANFDISO)
	mode := cfg.ModeOr(zlgcan.ModeNormal)
	u.Config().Logf("%s init %s %s %d/%d bit/s", ch, typ, mode, t.Bitrate, t.DataBitrate)
	return u.InitAndStart(ch, hwframe.FDInit(t, typ, mode))
}

func (u *USBCANFD) setResistance(ch *zlgcan.ChannelContext, on bool) error {
	state := "0"
	if on {
		state = "1"
	}
	value, err := native.CString(state)
	if err != nil {
		return zlgcan.OtherError("%v", err)
	}
	t, i, c := base.Addr(ch)
	return base.Check(zlgcan.KindInitialize, "VCI_SetReference", u.Library().SetReference(t, i, c, zlgcan.RefResistance, value))
}

func (u *USBCANFD) checkValues(op string, ch *zlgcan.ChannelContext, path zlgcan.CmdPath) error {
	if !ch.DeviceType().ValueSupport() {
		return zlgcan.NotSupported(op)
	}
	if path.Reference() == 0 {
		return zlgcan.OtherError("%s: %s values are addressed by reference, got %s", op, Name, path)
	}
	return nil
}

func (u *USBCANFD) GetValue(ch *zlgcan.ChannelContext, path zlgcan.CmdPath) ([]byte, error) {
	if err := u.checkValues("GetValue", ch, path); err != nil {
		return nil, err
	}
	return u.GetReference(ch, path.Reference(), valueSize)
}

func (u *USBCANFD) SetValue(ch *zlgcan.ChannelContext, path zlgcan.CmdPath, value []byte) error {
	if err := u.checkValues("SetValue", ch, path); err != nil {
		return err
	}
	return u.SetReference(ch, path.Reference(), value)
}
