package zlgcan

import (
	"errors"
	"testing"
)

func TestChannelContextInvalidatedByClose(t *testing.T) {
	dev := NewDeviceContext(USBCANFD200U, 0)
	dev.opened(0)
	ch := dev.Channel(1)
	ch.state = StateStarted
	if !ch.Valid() || ch.State() != StateStarted {
		t.Fatalf("fresh context not valid")
	}
	if err := ch.check("Transmit", StateStarted); err != nil {
		t.Fatalf("check() error = %v", err)
	}

	dev.closed()
	if ch.Valid() || ch.State() != StateClosed {
		t.Errorf("context still valid after close")
	}
	err := ch.check("Transmit", StateStarted)
	if !errors.Is(err, ErrDeviceClosed) || !errors.Is(err, ErrOperation) {
		t.Errorf("check() error = %v, want device closed", err)
	}

	// reopening does not revive a stale context
	dev.opened(0)
	if ch.Valid() {
		t.Errorf("stale context valid after reopen")
	}
	if !dev.Channel(1).Valid() {
		t.Errorf("new context not valid after reopen")
	}
}

func TestChannelContextCheck(t *testing.T) {
	dev := NewDeviceContext(USBCAN2, 0)
	dev.opened(0)
	ch := dev.Channel(0)

	if err := ch.check("Transmit", StateStarted); !errors.Is(err, ErrChannelNotActive) {
		t.Errorf("check() on opened channel = %v, want not active", err)
	}
	ch.state = StateStarted
	if err := ch.check("InitCAN", StateOpened, StateInitialized); !errors.Is(err, ErrChannelStarted) {
		t.Errorf("check() on started channel = %v, want started", err)
	}
	if got := ch.String(); got != "USBCAN-II#0/0" {
		t.Errorf("String() = %s", got)
	}
}
