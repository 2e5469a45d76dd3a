package virtual

import (
	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/native"
)

func (l *Library) InitLIN(t, i, ch uint32, cfg []byte) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("InitLIN"); failed {
		return code
	}
	c := l.linChannel(t, i, ch)
	if c == nil || len(cfg) == 0 {
		return statusFail
	}
	c.linInit = append([]byte{}, cfg...)
	c.linStarted = false
	return native.StatusOK
}

func (l *Library) StartLIN(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("StartLIN"); failed {
		return code
	}
	c := l.linChannel(t, i, ch)
	if c == nil || c.linInit == nil {
		return statusFail
	}
	c.linStarted = true
	return native.StatusOK
}

func (l *Library) ResetLIN(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("ResetLIN"); failed {
		return code
	}
	c := l.linChannel(t, i, ch)
	if c == nil || c.linInit == nil {
		return statusFail
	}
	c.linStarted = false
	return native.StatusOK
}

func (l *Library) ClearLINBuffer(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("ClearLINBuffer"); failed {
		return code
	}
	c := l.linChannel(t, i, ch)
	if c == nil {
		return statusFail
	}
	c.lin.records = nil
	return native.StatusOK
}

func (l *Library) GetLINReceiveNum(t, i, ch uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("GetLINReceiveNum"); failed {
		return code
	}
	c := l.linChannel(t, i, ch)
	if c == nil {
		return 0
	}
	return uint32(len(c.lin.records))
}

func (l *Library) TransmitLIN(t, i, ch uint32, frames []byte, count uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("TransmitLIN"); failed {
		return code
	}
	d := l.device(t, i)
	if d == nil || count == 0 || len(frames)%int(count) != 0 {
		return 0
	}
	src := d.lin[ch]
	if src == nil || !src.linStarted {
		return 0
	}
	n := int(count)
	if l.acceptLimit >= 0 && n > l.acceptLimit {
		n = l.acceptLimit
	}
	size := len(frames) / int(count)
	for k := 0; k < n; k++ {
		for dst, c := range d.lin {
			if !c.linStarted || dst == ch && !(l.Echo || len(d.lin) == 1) {
				continue
			}
			c.lin.push(frames[k*size : (k+1)*size])
		}
	}
	return uint32(n)
}

func (l *Library) ReceiveLIN(t, i, ch uint32, frames []byte, size, waitMs uint32) uint32 {
	return l.receive("ReceiveLIN", t, i, ch, frames, size, waitMs, func(c *channel) *queue { return c.lin }, l.linChannel)
}

func (l *Library) SetLINSubscribe(t, i, ch uint32, cfg []byte, count uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("SetLINSubscribe"); failed {
		return code
	}
	c := l.linChannel(t, i, ch)
	if c == nil || count == 0 {
		return statusFail
	}
	c.subscribe = append([]byte{}, cfg...)
	return native.StatusOK
}

func (l *Library) SetLINPublish(t, i, ch uint32, cfg []byte, count uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code, failed := l.record("SetLINPublish"); failed {
		return code
	}
	c := l.linChannel(t, i, ch)
	if c == nil || count == 0 {
		return statusFail
	}
	c.publish = append([]byte{}, cfg...)
	return native.StatusOK
}

// LINConfig returns the init, subscribe and publish blobs last passed for a
// LIN channel.
func (l *Library) LINConfig(devType zlgcan.DeviceType, idx, ch uint32) (cfg, subscribe, publish []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, found := l.devices[devKey{uint32(devType), idx}]
	if !found || d.lin[ch] == nil {
		return nil, nil, nil
	}
	c := d.lin[ch]
	return c.linInit, c.subscribe, c.publish
}
