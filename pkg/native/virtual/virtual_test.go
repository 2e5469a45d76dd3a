package virtual

import (
	"bytes"
	"testing"
	"time"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/native"
)

const dev = uint32(zlgcan.USBCANFD200U)

func started(t *testing.T, l *Library, channels ...uint32) {
	t.Helper()
	if l.OpenDevice(dev, 0, 0) != native.StatusOK {
		t.Fatal("OpenDevice failed")
	}
	for _, ch := range channels {
		if l.InitCAN(dev, 0, ch, []byte{1}) != native.StatusOK || l.StartCAN(dev, 0, ch) != native.StatusOK {
			t.Fatalf("start channel %d failed", ch)
		}
	}
}

func TestLoopback(t *testing.T) {
	l := New()
	l.AddDevice(zlgcan.USBCANFD200U, 0)
	started(t, l, 0, 1)

	rec := bytes.Repeat([]byte{0x5A}, 24)
	if n := l.Transmit(dev, 0, 0, append(rec, rec...), 2); n != 2 {
		t.Fatalf("Transmit() = %d, want 2", n)
	}
	if n := l.GetReceiveNum(dev, 0, 1); n != 2 {
		t.Errorf("GetReceiveNum(1) = %d, want 2", n)
	}
	if n := l.GetReceiveNum(dev, 0, 0); n != 0 {
		t.Errorf("sender received its own frames without echo: %d", n)
	}
	if n := l.GetReceiveNum(dev, 0, 1|native.FDChannelFlag); n != 0 {
		t.Errorf("classic records counted as fd: %d", n)
	}

	buf := make([]byte, 24*4)
	if n := l.Receive(dev, 0, 1, buf, 4, 0); n != 2 {
		t.Fatalf("Receive() = %d, want 2", n)
	}
	if !bytes.Equal(buf[:24], rec) {
		t.Errorf("Receive() record = % X", buf[:24])
	}
}

func TestEcho(t *testing.T) {
	l := New()
	l.Echo = true
	l.AddDevice(zlgcan.USBCANFD200U, 0)
	started(t, l, 0)
	if n := l.TransmitFD(dev, 0, 0, make([]byte, 80), 1); n != 1 {
		t.Fatalf("TransmitFD() = %d", n)
	}
	if n := l.GetReceiveNum(dev, 0, native.FDChannelFlag); n != 1 {
		t.Errorf("echo fd count = %d, want 1", n)
	}
}

func TestReceiveWaits(t *testing.T) {
	l := New()
	l.AddDevice(zlgcan.USBCANFD200U, 0)
	started(t, l, 0, 1)

	start := time.Now()
	buf := make([]byte, 24)
	if n := l.Receive(dev, 0, 1, buf, 1, 20); n != 0 {
		t.Fatalf("Receive() on empty queue = %d", n)
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Errorf("Receive() returned before the timeout")
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Transmit(dev, 0, 0, make([]byte, 24), 1)
	}()
	if n := l.Receive(dev, 0, 1, buf, 1, 1000); n != 1 {
		t.Errorf("Receive() = %d, want a frame sent while waiting", n)
	}
}

func TestFailAndLimits(t *testing.T) {
	l := New()
	l.AddDevice(zlgcan.USBCANFD200U, 0)
	if n := l.InitCAN(dev, 0, 0, []byte{1}); n == native.StatusOK {
		t.Errorf("InitCAN() on closed device succeeded")
	}
	started(t, l, 0, 1)

	l.AcceptLimit(1)
	if n := l.Transmit(dev, 0, 0, make([]byte, 48), 2); n != 1 {
		t.Errorf("Transmit() with limit = %d, want 1", n)
	}
	l.AcceptLimit(-1)

	l.Fail("ResetCAN", 7)
	if n := l.ResetCAN(dev, 0, 0); n != 7 {
		t.Errorf("ResetCAN() = %d, want injected 7", n)
	}
	l.Heal("ResetCAN")
	if n := l.ResetCAN(dev, 0, 0); n != native.StatusOK {
		t.Errorf("ResetCAN() after heal = %d", n)
	}
	if l.Calls("ResetCAN") != 2 {
		t.Errorf("Calls(ResetCAN) = %d", l.Calls("ResetCAN"))
	}
	if n := l.Transmit(dev, 0, 0, make([]byte, 24), 1); n != 0 {
		t.Errorf("Transmit() on reset channel = %d", n)
	}

	if l.CloseDevice(dev, 0) != native.StatusOK {
		t.Fatal("CloseDevice failed")
	}
	if l.CloseDevice(dev, 0) == native.StatusOK {
		t.Errorf("second CloseDevice() succeeded")
	}
	if b := l.InitBlob(zlgcan.USBCANFD200U, 0, 1); len(b) != 0 {
		t.Errorf("channels not reset by CloseDevice()")
	}
}

func TestBoardInfo(t *testing.T) {
	l := New()
	l.AddDevice(zlgcan.USBCANFD400U, 2)
	if l.OpenDevice(uint32(zlgcan.USBCANFD400U), 1, 0) == native.StatusOK {
		t.Errorf("OpenDevice() on a missing index succeeded")
	}
	if l.OpenDevice(uint32(zlgcan.USBCANFD400U), 2, 0) != native.StatusOK {
		t.Fatal("OpenDevice failed")
	}
	buf := make([]byte, 80)
	if l.ReadBoardInfo(uint32(zlgcan.USBCANFD400U), 2, buf) != native.StatusOK {
		t.Fatal("ReadBoardInfo failed")
	}
	if buf[10] != 4 || buf[71] != 2 {
		t.Errorf("channel counts = %d/%d", buf[10], buf[71])
	}
}
