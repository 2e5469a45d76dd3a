package zlgcan

import "fmt"

// State is the lifecycle position of a device or channel.
type State int

const (
	StateClosed State = iota
	StateOpened
	StateInitialized
	StateStarted
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpened:
		return "opened"
	case StateInitialized:
		return "initialized"
	case StateStarted:
		return "started"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Handle is an opaque native handle. Zero means none.
type Handle uintptr

// DeviceContext identifies one physical device and owns its native handle.
// It is not safe for concurrent use.
type DeviceContext struct {
	devType DeviceType
	index   uint32
	state   State
	handle  Handle
	gen     uint64
}

func NewDeviceContext(devType DeviceType, index uint32) *DeviceContext {
	return &DeviceContext{devType: devType, index: index}
}

func (d *DeviceContext) DeviceType() DeviceType { return d.devType }
func (d *DeviceContext) Index() uint32          { return d.index }
func (d *DeviceContext) Handle() Handle         { return d.handle }
func (d *DeviceContext) State() State           { return d.state }
func (d *DeviceContext) IsOpen() bool           { return d.state != StateClosed }

func (d *DeviceContext) String() string {
	return fmt.Sprintf("%s#%d", d.devType, d.index)
}

func (d *DeviceContext) opened(h Handle) {
	d.state = StateOpened
	d.handle = h
}

// closed invalidates every ChannelContext derived so far.
func (d *DeviceContext) closed() {
	d.state = StateClosed
	d.handle = 0
	d.gen++
}

// Channel derives a channel context. It borrows d and becomes invalid when
// d is closed.
func (d *DeviceContext) Channel(channel uint8) *ChannelContext {
	return &ChannelContext{dev: d, channel: channel, state: StateOpened, gen: d.gen}
}

// ChannelContext addresses one channel of an open device.
type ChannelContext struct {
	dev     *DeviceContext
	channel uint8
	state   State
	handle  Handle
	gen     uint64
}

func (c *ChannelContext) Device() *DeviceContext { return c.dev }
func (c *ChannelContext) DeviceType() DeviceType { return c.dev.devType }
func (c *ChannelContext) DeviceIndex() uint32    { return c.dev.index }
func (c *ChannelContext) Channel() uint8         { return c.channel }
func (c *ChannelContext) Handle() Handle         { return c.handle }

// State reports StateClosed once the owning device was closed.
func (c *ChannelContext) State() State {
	if !c.Valid() {
		return StateClosed
	}
	return c.state
}

// Valid reports whether the owning device is still open and this context was
// derived after its last open.
func (c *ChannelContext) Valid() bool {
	return c.dev != nil && c.dev.state != StateClosed && c.gen == c.dev.gen
}

func (c *ChannelContext) String() string {
	return fmt.Sprintf("%s/%d", c.dev, c.channel)
}

// check fails fast when the channel cannot be used for op.
func (c *ChannelContext) check(op string, want ...State) error {
	if !c.Valid() {
		return stateError(KindOperation, op, ErrDeviceClosed)
	}
	for _, s := range want {
		if c.state == s {
			return nil
		}
	}
	if c.state == StateStarted {
		return stateError(KindOperation, op, ErrChannelStarted)
	}
	return stateError(KindOperation, op, ErrChannelNotActive)
}
