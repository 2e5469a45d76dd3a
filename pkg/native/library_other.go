//go:build !windows

package native

import (
	"errors"
	"runtime"
)

const (
	ControlCAN   = "libcontrolcan.so"
	ControlCANFD = "libusbcanfd.so"
)

// ErrUnavailable is returned by Load on platforms without a driver binding.
var ErrUnavailable = errors.New("native driver binding not available on " + runtime.GOOS)

// Load is only implemented on windows.
func Load(name string) (Library, error) {
	return nil, ErrUnavailable
}
