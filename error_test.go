package zlgcan

import (
	"errors"
	"fmt"
	"testing"
)

func TestNativeError(t *testing.T) {
	err := NativeError(KindInitialize, "VCI_InitCAN", 0)
	if got, want := err.Error(), "`VCI_InitCAN` ret: 0"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInitialize) || errors.Is(err, ErrOperation) {
		t.Errorf("kind matching broken for %v", err)
	}
	var e *Error
	if !errors.As(fmt.Errorf("wrapped: %w", err), &e) || e.Code != 0 || e.Kind != KindInitialize {
		t.Errorf("errors.As() = %+v", e)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "initialize", err: InitializeError("x"), want: KindInitialize},
		{name: "operation", err: OperationError("x"), want: KindOperation},
		{name: "not supported", err: NotSupported("InitLIN"), want: KindNotSupported},
		{name: "other", err: OtherError("x"), want: KindOther},
		{name: "state", err: stateError(KindOperation, "Transmit", ErrDeviceClosed), want: KindOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsKind(tt.err, tt.want) {
				t.Errorf("IsKind(%v, %v) = false", tt.err, tt.want)
			}
			if IsKind(fmt.Errorf("plain"), tt.want) {
				t.Errorf("IsKind() matched a plain error")
			}
		})
	}
}

func TestStateErrorUnwraps(t *testing.T) {
	err := stateError(KindOperation, "Transmit", ErrChannelNotActive)
	if !errors.Is(err, ErrChannelNotActive) || !errors.Is(err, ErrOperation) {
		t.Errorf("errors.Is() failed for %v", err)
	}
	if got, want := err.Error(), "Transmit: channel not started"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := NotSupported("InitLIN").Error(), "InitLIN: not supported"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
