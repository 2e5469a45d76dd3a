package zlgcan

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure by the stage that produced it.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindInitialize
	KindOperation
	KindNotSupported
	KindConfigLoad
	KindUnsupportedBitrate
	KindInvalidLength
	KindTypeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindInitialize:
		return "initialize error"
	case KindOperation:
		return "operation error"
	case KindNotSupported:
		return "not supported"
	case KindConfigLoad:
		return "config load error"
	case KindUnsupportedBitrate:
		return "unsupported bitrate"
	case KindInvalidLength:
		return "invalid length"
	case KindTypeMismatch:
		return "type mismatch"
	default:
		return "other error"
	}
}

// Error is returned by every operation in this module. Code holds the raw
// native status when the failure came from a driver call.
type Error struct {
	Kind ErrorKind
	Op   string
	Code uint32
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch {
	case e.Msg != "" && e.Err != nil:
		msg = e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		msg = e.Msg
	case e.Err != nil:
		msg = e.Err.Error()
	default:
		msg = e.Kind.String()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind so callers can test against the
// Err* sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrInitialize         = &Error{Kind: KindInitialize}
	ErrOperation          = &Error{Kind: KindOperation}
	ErrNotSupported       = &Error{Kind: KindNotSupported}
	ErrConfigLoad         = &Error{Kind: KindConfigLoad}
	ErrUnsupportedBitrate = &Error{Kind: KindUnsupportedBitrate}
	ErrInvalidLength      = &Error{Kind: KindInvalidLength}
	ErrTypeMismatch       = &Error{Kind: KindTypeMismatch}
	ErrOther              = &Error{Kind: KindOther}
)

var (
	ErrDeviceClosed     = errors.New("device is closed")
	ErrDeviceOpen       = errors.New("device already open")
	ErrChannelStarted   = errors.New("channel already started")
	ErrChannelNotActive = errors.New("channel not started")
	ErrUnknownDevice    = errors.New("unknown device type")
)

// InitializeError is used when open/init/start is rejected.
func InitializeError(format string, args ...interface{}) error {
	return &Error{Kind: KindInitialize, Msg: fmt.Sprintf(format, args...)}
}

// OperationError is used when a post-init call is rejected.
func OperationError(format string, args ...interface{}) error {
	return &Error{Kind: KindOperation, Msg: fmt.Sprintf(format, args...)}
}

// NotSupported reports a capability the selected family lacks.
func NotSupported(op string) error {
	return &Error{Kind: KindNotSupported, Op: op}
}

func stateError(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func OtherError(format string, args ...interface{}) error {
	return &Error{Kind: KindOther, Msg: fmt.Sprintf(format, args...)}
}

// NativeError wraps a rejected native status. The code is kept verbatim in
// the message, e.g. "`VCI_InitCAN` ret: 0".
func NativeError(kind ErrorKind, call string, code uint32) error {
	return &Error{Kind: kind, Code: code, Msg: fmt.Sprintf("`%s` ret: %d", call, code)}
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
