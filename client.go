package zlgcan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Client drives one device through the family selected for its type and
// enforces the device and channel life cycle. It is not safe for concurrent
// use, give each goroutine its own channel or guard the Client.
type Client struct {
	cfg    *AdapterConfig
	family *FamilyInfo
	api    API
	dev    *DeviceContext

	can map[uint8]*ChannelContext
	lin map[uint8]*ChannelContext
}

func NewClient(devType DeviceType, index uint32, cfg *AdapterConfig) (*Client, error) {
	if cfg == nil {
		return nil, InitializeError("no adapter config")
	}
	api, err := NewAPI(devType, cfg)
	if err != nil {
		return nil, err
	}
	family, err := FamilyFor(devType)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		family: family,
		api:    api,
		dev:    NewDeviceContext(devType, index),
	}, nil
}

func (c *Client) API() API               { return c.api }
func (c *Client) Family() *FamilyInfo    { return c.family }
func (c *Client) Device() *DeviceContext { return c.dev }
func (c *Client) Config() *AdapterConfig { return c.cfg }
func (c *Client) DeviceType() DeviceType { return c.dev.devType }

// Open opens the device. With AdapterConfig.MinimumFirmware set, a device
// reporting an older firmware is closed again and rejected.
func (c *Client) Open() error {
	if c.dev.IsOpen() {
		return stateError(KindInitialize, "Open", ErrDeviceOpen)
	}
	h, err := c.api.Open(c.dev)
	if err != nil {
		return err
	}
	c.dev.opened(h)
	c.can = make(map[uint8]*ChannelContext)
	c.lin = make(map[uint8]*ChannelContext)
	c.cfg.Logf("%s opened", c.dev)

	if c.cfg.MinimumFirmware == "" {
		return nil
	}
	if err := c.checkFirmware(); err != nil {
		c.api.Close(c.dev)
		c.dev.closed()
		return err
	}
	return nil
}

func (c *Client) checkFirmware() error {
	want, err := firmwareSemver(c.cfg.MinimumFirmware)
	if err != nil {
		return err
	}
	info, err := c.api.ReadDeviceInfo(c.dev)
	if err != nil {
		return err
	}
	if semver.Compare(info.Firmware.Semver(), want) < 0 {
		return InitializeError("%s firmware %s is older than required V%s", c.dev, info.Firmware, c.cfg.MinimumFirmware)
	}
	return nil
}

// firmwareSemver turns "1.02" into "v1.2.0".
func firmwareSemver(s string) (string, error) {
	parts := strings.SplitN(strings.TrimPrefix(strings.TrimPrefix(s, "V"), "v"), ".", 2)
	nums := make([]int, 2)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "", InitializeError("invalid minimum firmware %q", s)
		}
		nums[i] = n
	}
	v := fmt.Sprintf("v%d.%d.0", nums[0], nums[1])
	if !semver.IsValid(v) {
		return "", InitializeError("invalid minimum firmware %q", s)
	}
	return v, nil
}

// Close closes the device. The device is considered closed afterwards even
// if the driver rejected the call, and every channel context derived so far
// becomes invalid.
func (c *Client) Close() error {
	if !c.dev.IsOpen() {
		return stateError(KindOperation, "Close", ErrDeviceClosed)
	}
	err := c.api.Close(c.dev)
	c.dev.closed()
	c.cfg.Logf("%s closed", c.dev)
	return err
}

// DeviceInfo reads the board information. It is never cached.
func (c *Client) DeviceInfo() (*DeviceInfo, error) {
	if !c.dev.IsOpen() {
		return nil, stateError(KindOperation, "DeviceInfo", ErrDeviceClosed)
	}
	return c.api.ReadDeviceInfo(c.dev)
}

func (c *Client) Debug(level uint32) error {
	return c.api.Debug(level)
}

// Channel returns the context of CAN channel ch.
func (c *Client) Channel(ch uint8) (*ChannelContext, error) {
	return c.channel("Channel", c.can, ch, c.dev.devType.CANChannels())
}

// LINChannel returns the context of LIN channel ch.
func (c *Client) LINChannel(ch uint8) (*ChannelContext, error) {
	return c.channel("LINChannel", c.lin, ch, c.dev.devType.LINChannels())
}

func (c *Client) channel(op string, set map[uint8]*ChannelContext, ch, count uint8) (*ChannelContext, error) {
	if !c.dev.IsOpen() {
		return nil, stateError(KindOperation, op, ErrDeviceClosed)
	}
	if ch >= count {
		return nil, OtherError("%s: channel %d out of range, %s has %d", op, ch, c.dev.devType, count)
	}
	ctx, ok := set[ch]
	if !ok {
		ctx = c.dev.Channel(ch)
		set[ch] = ctx
	}
	return ctx, nil
}

// active returns the context of ch if it is in one of want. A closed device
// is reported before anything reaches the driver.
func (c *Client) active(op string, lin bool, ch uint8, want ...State) (*ChannelContext, error) {
	set, count := c.can, c.dev.devType.CANChannels()
	if lin {
		set, count = c.lin, c.dev.devType.LINChannels()
	}
	ctx, ok := set[ch]
	if !ok {
		if !c.dev.IsOpen() {
			return nil, stateError(KindOperation, op, ErrDeviceClosed)
		}
		if ch >= count {
			return nil, OtherError("%s: channel %d out of range, %s has %d", op, ch, c.dev.devType, count)
		}
		return nil, stateError(KindOperation, op, ErrChannelNotActive)
	}
	if err := ctx.check(op, want...); err != nil {
		return nil, err
	}
	return ctx, nil
}

// InitCAN resolves the timing of cfg, initialises channel ch and starts it.
// Timing problems are reported before the driver is called. A channel that
// is already started must be reset first.
func (c *Client) InitCAN(ch uint8, cfg *ChannelConfig) (*ChannelContext, error) {
	const op = "InitCAN"
	if cfg == nil {
		return nil, OtherError("%s: nil channel config", op)
	}
	if !c.dev.IsOpen() {
		return nil, stateError(KindInitialize, op, ErrDeviceClosed)
	}
	ctx, err := c.Channel(ch)
	if err != nil {
		return nil, err
	}
	if ctx.state == StateStarted {
		return nil, stateError(KindInitialize, op, ErrChannelStarted)
	}
	if c.cfg.Timing == nil {
		return nil, &Error{Kind: KindConfigLoad, Op: op, Msg: "no timing presets loaded"}
	}
	timing, err := c.cfg.Timing.Resolve(c.dev.devType, cfg)
	if err != nil {
		return nil, err
	}
	h, err := c.api.InitCAN(ctx, cfg, timing)
	if err != nil {
		return nil, err
	}
	ctx.state = StateStarted
	ctx.handle = h
	c.cfg.Logf("%s started at %d/%d bit/s", ctx, timing.Bitrate, timing.DataBitrate)
	return ctx, nil
}

// ResetCAN stops channel ch. Its receive buffer is left as is.
func (c *Client) ResetCAN(ch uint8) error {
	ctx, err := c.active("ResetCAN", false, ch, StateStarted, StateInitialized)
	if err != nil {
		return err
	}
	if err := c.api.ResetCAN(ctx); err != nil {
		return err
	}
	ctx.state = StateInitialized
	return nil
}

func (c *Client) ChannelStatus(ch uint8) (*ChannelStatus, error) {
	ctx, err := c.active("ChannelStatus", false, ch, StateStarted)
	if err != nil {
		return nil, err
	}
	return c.api.ReadCANStatus(ctx)
}

func (c *Client) ChannelError(ch uint8) (*ChannelError, error) {
	ctx, err := c.active("ChannelError", false, ch, StateStarted)
	if err != nil {
		return nil, err
	}
	return c.api.ReadCANError(ctx)
}

func (c *Client) ClearCANBuffer(ch uint8) error {
	ctx, err := c.active("ClearCANBuffer", false, ch, StateStarted)
	if err != nil {
		return err
	}
	return c.api.ClearCANBuffer(ctx)
}

func (c *Client) PendingCAN(ch uint8, kind FrameKind) (uint32, error) {
	ctx, err := c.active("PendingCAN", false, ch, StateStarted)
	if err != nil {
		return 0, err
	}
	return c.api.PendingCAN(ctx, kind)
}

// Transmit sends frames on channel ch. Classic and FD frames go through
// their own driver entry point, classic first. It returns how many frames
// the driver accepted in total, a short count is not an error.
func (c *Client) Transmit(ch uint8, frames ...*Frame) (uint32, error) {
	ctx, err := c.active("Transmit", false, ch, StateStarted)
	if err != nil {
		return 0, err
	}
	var classic, fd []*Frame
	for i, f := range frames {
		if f == nil {
			return 0, OtherError("Transmit: frame %d is nil", i)
		}
		if f.FD {
			fd = append(fd, f)
		} else {
			classic = append(classic, f)
		}
	}
	var total uint32
	if len(classic) > 0 {
		n, err := c.api.TransmitCAN(ctx, classic)
		total += n
		if err != nil {
			return total, err
		}
	}
	if len(fd) > 0 {
		n, err := c.api.TransmitCANFD(ctx, fd)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Receive reads up to size frames of kind, waiting at most timeout.
func (c *Client) Receive(ch uint8, kind FrameKind, size uint32, timeout time.Duration) ([]*Frame, error) {
	ctx, err := c.active("Receive", false, ch, StateStarted)
	if err != nil {
		return nil, err
	}
	if kind == KindCANFD {
		return c.api.ReceiveCANFD(ctx, size, timeout)
	}
	return c.api.ReceiveCAN(ctx, size, timeout)
}

// InitLIN initialises and starts LIN channel ch.
func (c *Client) InitLIN(ch uint8, cfg *LinChannelConfig) (*ChannelContext, error) {
	const op = "InitLIN"
	if cfg == nil {
		return nil, OtherError("%s: nil channel config", op)
	}
	if !c.dev.IsOpen() {
		return nil, stateError(KindInitialize, op, ErrDeviceClosed)
	}
	if !c.family.Capabilities.LIN || c.dev.devType.LINChannels() == 0 {
		return nil, NotSupported(op)
	}
	ctx, err := c.LINChannel(ch)
	if err != nil {
		return nil, err
	}
	if ctx.state == StateStarted {
		return nil, stateError(KindInitialize, op, ErrChannelStarted)
	}
	if err := c.api.InitLIN(ctx, cfg); err != nil {
		return nil, err
	}
	ctx.state = StateStarted
	return ctx, nil
}

func (c *Client) ResetLIN(ch uint8) error {
	ctx, err := c.active("ResetLIN", true, ch, StateStarted, StateInitialized)
	if err != nil {
		return err
	}
	if err := c.api.ResetLIN(ctx); err != nil {
		return err
	}
	ctx.state = StateInitialized
	return nil
}

func (c *Client) ClearLINBuffer(ch uint8) error {
	ctx, err := c.active("ClearLINBuffer", true, ch, StateStarted)
	if err != nil {
		return err
	}
	return c.api.ClearLINBuffer(ctx)
}

func (c *Client) PendingLIN(ch uint8) (uint32, error) {
	ctx, err := c.active("PendingLIN", true, ch, StateStarted)
	if err != nil {
		return 0, err
	}
	return c.api.PendingLIN(ctx)
}

func (c *Client) TransmitLIN(ch uint8, frames ...*LinFrame) (uint32, error) {
	ctx, err := c.active("TransmitLIN", true, ch, StateStarted)
	if err != nil {
		return 0, err
	}
	for i, f := range frames {
		if f == nil {
			return 0, OtherError("TransmitLIN: frame %d is nil", i)
		}
	}
	return c.api.TransmitLIN(ctx, frames)
}

func (c *Client) ReceiveLIN(ch uint8, size uint32, timeout time.Duration) ([]*LinFrame, error) {
	ctx, err := c.active("ReceiveLIN", true, ch, StateStarted)
	if err != nil {
		return nil, err
	}
	return c.api.ReceiveLIN(ctx, size, timeout)
}

func (c *Client) SetLINSubscribe(ch uint8, subs ...LinSubscribe) error {
	ctx, err := c.active("SetLINSubscribe", true, ch, StateStarted)
	if err != nil {
		return err
	}
	return c.api.SetLINSubscribe(ctx, subs)
}

func (c *Client) SetLINPublish(ch uint8, pubs ...LinPublish) error {
	ctx, err := c.active("SetLINPublish", true, ch, StateStarted)
	if err != nil {
		return err
	}
	return c.api.SetLINPublish(ctx, pubs)
}

// GetValue reads a vendor parameter of CAN channel ch. The channel does not
// have to be started.
func (c *Client) GetValue(ch uint8, path CmdPath) ([]byte, error) {
	ctx, err := c.Channel(ch)
	if err != nil {
		return nil, err
	}
	return c.api.GetValue(ctx, path)
}

// SetValue writes a vendor parameter of CAN channel ch.
func (c *Client) SetValue(ch uint8, path CmdPath, value []byte) error {
	ctx, err := c.Channel(ch)
	if err != nil {
		return err
	}
	return c.api.SetValue(ctx, path, value)
}
