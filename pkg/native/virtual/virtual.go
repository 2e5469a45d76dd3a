// Package virtual is an in-process native library. Channels of one device
// share a loopback bus: a record transmitted on one started channel is
// queued on every other started channel of the same device, and on the
// sender too when Echo is set or the device has a single channel.
package virtual

import (
	"sync"
	"time"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/hwframe"
	"github.com/roffe/zlgcan/pkg/native"
)

const statusFail uint32 = 0

type devKey struct{ typ, idx uint32 }

type queue struct {
	records [][]byte
	notify  chan struct{}
}

func newQueue() *queue {
	return &queue{notify: make(chan struct{}, 1)}
}

func (q *queue) push(rec []byte) {
	q.records = append(q.records, append([]byte{}, rec...))
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

type channel struct {
	initialized bool
	started     bool
	init        []byte
	refs        map[uint32][]byte
	status      zlgcan.ChannelStatus
	chErr       zlgcan.ChannelError
	can, canfd  *queue

	linStarted bool
	linInit    []byte
	lin        *queue
	subscribe  []byte
	publish    []byte
}

func newChannel() *channel {
	return &channel{
		refs:  make(map[uint32][]byte),
		can:   newQueue(),
		canfd: newQueue(),
		lin:   newQueue(),
	}
}

type device struct {
	info     zlgcan.DeviceInfo
	open     bool
	channels map[uint32]*channel
	lin      map[uint32]*channel
	values   map[string][]byte
}

// Library simulates attached devices. It is safe for concurrent use.
type Library struct {
	// Echo queues transmitted records on the sending channel as well.
	Echo bool

	mu          sync.Mutex
	devices     map[devKey]*device
	fail        map[string]uint32
	calls       map[string]int
	total       int
	acceptLimit int
	debugLevel  uint32
}

var _ native.Library = (*Library)(nil)

func New() *Library {
	return &Library{
		devices:     make(map[devKey]*device),
		fail:        make(map[string]uint32),
		calls:       make(map[string]int),
		acceptLimit: -1,
	}
}

// AddDevice attaches a device described by the static traits of devType.
func (l *Library) AddDevice(devType zlgcan.DeviceType, idx uint32) *zlgcan.DeviceInfo {
	tr, _ := devType.Traits()
	info := &zlgcan.DeviceInfo{
		Hardware:    0x0100,
		Firmware:    0x0102,
		Driver:      0x0203,
		API:         0x0203,
		CANChannels: tr.CANChannels,
		LINChannels: tr.LINChannels,
		Serial:      "VIRT" + tr.Name,
		HardwareID:  tr.Name,
	}
	l.AddDeviceInfo(devType, idx, info)
	return info
}

// AddDeviceInfo attaches a device reporting info.
func (l *Library) AddDeviceInfo(devType zlgcan.DeviceType, idx uint32, info *zlgcan.DeviceInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := &device{
		info:     *info,
		channels: make(map[uint32]*channel),
		lin:      make(map[uint32]*channel),
		values:   make(map[string][]byte),
	}
	for ch := uint32(0); ch < uint32(info.CANChannels); ch++ {
		d.channels[ch] = newChannel()
	}
	for ch := uint32(0); ch < uint32(info.LINChannels); ch++ {
		d.lin[ch] = newChannel()
	}
	l.devices[devKey{uint32(devType), idx}] = d
}

// Fail makes every following call named call return code. The name is the
// Library method name, e.g. "InitCAN".
func (l *Library) Fail(call string, code uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[call] = code
}

// Heal undoes Fail.
func (l *Library) Heal(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.fail, call)
}

// AcceptLimit caps the records a single transmit call accepts. Negative
// removes the cap.
func (l *Library) AcceptLimit(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acceptLimit = n
}

// Calls reports how often call was made.
func (l *Library) Calls(call string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[call]
}

// Total reports the number of calls made.
func (l *Library) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// DebugLevel returns the level last passed to Debug.
func (l *Library) DebugLevel() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debugLevel
}

// InitBlob returns the configuration last passed to InitCAN.
func (l *Library) InitBlob(devType zlgcan.DeviceType, idx, ch uint32) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c := l.channel(uint32(devType), idx, ch); c != nil {
		return append([]byte{}, c.init...)
	}
	return nil
}

// Reference returns the value last set for ref.
func (l *Library) Reference(devType zlgcan.DeviceType, idx, ch, ref uint32) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c := l.channel(uint32(devType), idx, ch); c != nil {
		if v, ok := c.refs[ref]; ok {
			return append([]byte{}, v...)
		}
	}
	return nil
}

// SetStatus sets the controller snapshot reported for a channel.
func (l *Library) SetStatus(devType zlgcan.DeviceType, idx, ch uint32, s *zlgcan.ChannelStatus, e *zlgcan.ChannelError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c := l.channel(uint32(devType), idx, ch); c != nil {
		if s != nil {
			c.status = *s
		}
		if e != nil {
			c.chErr = *e
		}
	}
}

// Inject queues encoded records on a channel as if they came from the bus.
func (l *Library) Inject(devType zlgcan.DeviceType, idx, ch uint32, kind zlgcan.FrameKind, records ...[]byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.channel(uint32(devType), idx, ch)
	if c == nil {
		return
	}
	q := c.can
	if kind == zlgcan.KindCANFD {
		q = c.canfd
	}
	for _, r := range records {
		q.push(r)
	}
}

// record counts the call under mu and returns the injected failure, if any.
func (l *Library) record(call string) (uint32, bool) {
	l.calls[call]++
	l.total++
	code, failed := l.fail[call]
	return code, failed
}

func (l *Library) device(t, i uint32) *device {
	d, ok := l.devices[devKey{t, i}]
	if !ok || !d.open {
		return nil
	}
	return d
}

func (l *Library) channel(t, i, ch uint32) *channel {
	d, ok := l.devices[devKey{t, i}]
	if !ok {
		return nil
	}
	return d.channels[ch]
}

func (l *Library) openChannel(t, i, ch uint32) *channel {
	d := l.device(t, i)
	if d == nil {
		return nil
	}
	return d.channels[ch]
}

func (l *Library) linChannel(t, i, ch uint32) *channel {
	d := l.device(t, i)
	if d == nil {
		return nil
	}
	return d.lin[ch]
}

func (l *Library) OpenDevice(t, i, _ uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("OpenDevice"); failed {
		return code
	}
	d, found := l.devices[devKey{t, i}]
	if !found || d.open {
		return statusFail
	}
	d.open = true
	return native.StatusOK
}

func (l *Library) CloseDevice(t, i uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("CloseDevice"); failed {
		return code
	}
	d := l.device(t, i)
	if d == nil {
		return statusFail
	}
	d.open = false
	for ch := range d.channels {
		d.channels[ch] = newChannel()
	}
	for ch := range d.lin {
		d.lin[ch] = newChannel()
	}
	return native.StatusOK
}

func (l *Library) ReadBoardInfo(t, i uint32, info []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("ReadBoardInfo"); failed {
		return code
	}
	d := l.device(t, i)
	if d == nil || len(info) < hwframe.DeviceInfoSize {
		return statusFail
	}
	copy(info, hwframe.EncodeDeviceInfo(&d.info))
	return native.StatusOK
}

func (l *Library) InitCAN(t, i, ch uint32, cfg []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("InitCAN"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil || len(cfg) == 0 {
		return statusFail
	}
	c.init = append([]byte{}, cfg...)
	c.initialized = true
	c.started = false
	return native.StatusOK
}

func (l *Library) StartCAN(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("StartCAN"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil || !c.initialized {
		return statusFail
	}
	c.started = true
	return native.StatusOK
}

func (l *Library) ResetCAN(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("ResetCAN"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil || !c.initialized {
		return statusFail
	}
	c.started = false
	return native.StatusOK
}

func (l *Library) ReadCANStatus(t, i, ch uint32, status []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("ReadCANStatus"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil || len(status) < hwframe.ChannelStatusSize {
		return statusFail
	}
	copy(status, hwframe.EncodeChannelStatus(&c.status))
	return native.StatusOK
}

func (l *Library) ReadErrInfo(t, i, ch uint32, info []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("ReadErrInfo"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil || len(info) < hwframe.ChannelErrorSize {
		return statusFail
	}
	copy(info, hwframe.EncodeChannelError(&c.chErr))
	return native.StatusOK
}

func (l *Library) GetReceiveNum(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("GetReceiveNum"); failed {
		return code
	}
	c := l.openChannel(t, i, ch&^native.FDChannelFlag)
	if c == nil {
		return 0
	}
	if ch&native.FDChannelFlag != 0 {
		return uint32(len(c.canfd.records))
	}
	return uint32(len(c.can.records))
}

func (l *Library) ClearBuffer(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("ClearBuffer"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil {
		return statusFail
	}
	c.can.records = nil
	c.canfd.records = nil
	return native.StatusOK
}

func (l *Library) Transmit(t, i, ch uint32, frames []byte, count uint32) uint32 {
	return l.transmit("Transmit", t, i, ch, frames, count, false)
}

func (l *Library) TransmitFD(t, i, ch uint32, frames []byte, count uint32) uint32 {
	return l.transmit("TransmitFD", t, i, ch, frames, count, true)
}

func (l *Library) transmit(call string, t, i, ch uint32, frames []byte, count uint32, fd bool) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record(call); failed {
		return code
	}
	d := l.device(t, i)
	if d == nil || count == 0 || len(frames)%int(count) != 0 {
		return 0
	}
	src := d.channels[ch]
	if src == nil || !src.started {
		return 0
	}
	n := int(count)
	if l.acceptLimit >= 0 && n > l.acceptLimit {
		n = l.acceptLimit
	}
	size := len(frames) / int(count)
	for k := 0; k < n; k++ {
		rec := frames[k*size : (k+1)*size]
		for dst, c := range d.channels {
			if !c.started || dst == ch && !l.echo(d) {
				continue
			}
			if fd {
				c.canfd.push(rec)
			} else {
				c.can.push(rec)
			}
		}
	}
	return uint32(n)
}

func (l *Library) echo(d *device) bool {
	return l.Echo || len(d.channels) == 1
}

func (l *Library) Receive(t, i, ch uint32, frames []byte, size, waitMs uint32) uint32 {
	return l.receive("Receive", t, i, ch, frames, size, waitMs, func(c *channel) *queue { return c.can }, l.openChannel)
}

func (l *Library) ReceiveFD(t, i, ch uint32, frames []byte, size, waitMs uint32) uint32 {
	return l.receive("ReceiveFD", t, i, ch, frames, size, waitMs, func(c *channel) *queue { return c.canfd }, l.openChannel)
}

// receive copies up to size queued records into frames, waiting at most
// waitMs for the first one.
func (l *Library) receive(call string, t, i, ch uint32, frames []byte, size, waitMs uint32, pick func(*channel) *queue, lookup func(t, i, ch uint32) *channel) uint32 {
	l.mu.Lock()
	if code, failed := l.record(call); failed {
		l.mu.Unlock()
		return code
	}
	c := lookup(t, i, ch)
	if c == nil || size == 0 || len(frames)%int(size) != 0 {
		l.mu.Unlock()
		return 0
	}
	q := pick(c)
	recSize := len(frames) / int(size)
	deadline := time.NewTimer(time.Duration(waitMs) * time.Millisecond)
	defer deadline.Stop()
	for {
		if n := len(q.records); n > 0 {
			if n > int(size) {
				n = int(size)
			}
			for k := 0; k < n; k++ {
				copy(frames[k*recSize:(k+1)*recSize], q.records[k])
			}
			q.records = q.records[n:]
			l.mu.Unlock()
			return uint32(n)
		}
		l.mu.Unlock()
		select {
		case <-q.notify:
		case <-deadline.C:
			return 0
		}
		l.mu.Lock()
	}
}

func (l *Library) GetReference(t, i, ch, ref uint32, value []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("GetReference"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil {
		return statusFail
	}
	v, found := c.refs[ref]
	if !found {
		return statusFail
	}
	copy(value, v)
	return native.StatusOK
}

func (l *Library) SetReference(t, i, ch, ref uint32, value []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("SetReference"); failed {
		return code
	}
	c := l.openChannel(t, i, ch)
	if c == nil {
		return statusFail
	}
	c.refs[ref] = append([]byte{}, value...)
	return native.StatusOK
}

func (l *Library) GetValue(t, i uint32, path string, value []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("GetValue"); failed {
		return code
	}
	d := l.device(t, i)
	if d == nil {
		return statusFail
	}
	v, found := d.values[path]
	if !found {
		return statusFail
	}
	copy(value, v)
	return native.StatusOK
}

func (l *Library) SetValue(t, i uint32, path string, value []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("SetValue"); failed {
		return code
	}
	d := l.device(t, i)
	if d == nil {
		return statusFail
	}
	d.values[path] = append([]byte{}, value...)
	return native.StatusOK
}

func (l *Library) Debug(level uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("Debug"); failed {
		return code
	}
	l.debugLevel = level
	return native.StatusOK
}
