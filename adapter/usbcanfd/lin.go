package usbcanfd

import (
	"time"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/adapter/base"
	"github.com/roffe/zlgcan/pkg/hwframe"
)

func checkLIN(op string, ch *zlgcan.ChannelContext) error {
	if ch.Channel() >= ch.DeviceType().LINChannels() {
		return zlgcan.NotSupported(op)
	}
	return nil
}

func (u *USBCANFD) InitLIN(ch *zlgcan.ChannelContext, cfg *zlgcan.LinChannelConfig) error {
	if err := checkLIN("InitLIN", ch); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	t, i, c := base.Addr(ch)
	if err := base.Check(zlgcan.KindInitialize, "VCI_InitLIN", u.Library().InitLIN(t, i, c, hwframe.LinInit(cfg))); err != nil {
		return err
	}
	return base.Check(zlgcan.KindInitialize, "VCI_StartLIN", u.Library().StartLIN(t, i, c))
}

func (u *USBCANFD) ResetLIN(ch *zlgcan.ChannelContext) error {
	if err := checkLIN("ResetLIN", ch); err != nil {
		return err
	}
	t, i, c := base.Addr(ch)
	return base.Check(zlgcan.KindOperation, "VCI_ResetLIN", u.Library().ResetLIN(t, i, c))
}

func (u *USBCANFD) ClearLINBuffer(ch *zlgcan.ChannelContext) error {
	if err := checkLIN("ClearLINBuffer", ch); err != nil {
		return err
	}
	t, i, c := base.Addr(ch)
	return base.Check(zlgcan.KindOperation, "VCI_ClearLINBuffer", u.Library().ClearLINBuffer(t, i, c))
}

func (u *USBCANFD) PendingLIN(ch *zlgcan.ChannelContext) (uint32, error) {
	if err := checkLIN("PendingLIN", ch); err != nil {
		return 0, err
	}
	t, i, c := base.Addr(ch)
	n := u.Library().GetLINReceiveNum(t, i, c)
	if n > 0 {
		u.Config().Logf("%s pending LIN frames: %d", ch, n)
	}
	return n, nil
}

func (u *USBCANFD) TransmitLIN(ch *zlgcan.ChannelContext, frames []*zlgcan.LinFrame) (uint32, error) {
	if err := checkLIN("TransmitLIN", ch); err != nil {
		return 0, err
	}
	buf, err := hwframe.EncodeLin(frames)
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, nil
	}
	t, i, c := base.Addr(ch)
	want := uint32(len(frames))
	got := u.Library().TransmitLIN(t, i, c, buf, want)
	if got < want {
		u.Config().Logf("%s transmit LIN frame expect: %d, actual: %d", ch, want, got)
	}
	return got, nil
}

func (u *USBCANFD) ReceiveLIN(ch *zlgcan.ChannelContext, size uint32, timeout time.Duration) ([]*zlgcan.LinFrame, error) {
	if err := checkLIN("ReceiveLIN", ch); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	t, i, c := base.Addr(ch)
	buf := make([]byte, int(size)*hwframe.LinRecordSize)
	got := u.Library().ReceiveLIN(t, i, c, buf, size, base.WaitMs(timeout))
	if got > size {
		got = size
	}
	if got < size {
		u.Config().Logf("%s receive LIN frame expect: %d, actual: %d", ch, size, got)
	}
	frames, err := hwframe.DecodeLin(buf, int(got))
	for _, f := range frames {
		f.Channel = ch.Channel()
	}
	return frames, err
}

func (u *USBCANFD) SetLINSubscribe(ch *zlgcan.ChannelContext, subs []zlgcan.LinSubscribe) error {
	if err := checkLIN("SetLINSubscribe", ch); err != nil {
		return err
	}
	if len(subs) == 0 {
		return zlgcan.OtherError("no LIN subscriptions given")
	}
	buf, err := hwframe.LinSubscribes(subs)
	if err != nil {
		return err
	}
	t, i, c := base.Addr(ch)
	return base.Check(zlgcan.KindOperation, "VCI_SetLINSubscribe", u.Library().SetLINSubscribe(t, i, c, buf, uint32(len(subs))))
}

func (u *USBCANFD) SetLINPublish(ch *zlgcan.ChannelContext, pubs []zlgcan.LinPublish) error {
	if err := checkLIN("SetLINPublish", ch); err != nil {
		return err
	}
	if len(pubs) == 0 {
		return zlgcan.OtherError("no LIN publications given")
	}
	buf, err := hwframe.LinPublishes(pubs)
	if err != nil {
		return err
	}
	t, i, c := base.Addr(ch)
	return base.Check(zlgcan.KindOperation, "VCI_SetLINPublish", u.Library().SetLINPublish(t, i, c, buf, uint32(len(pubs))))
}
