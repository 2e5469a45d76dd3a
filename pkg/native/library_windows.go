package native

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Default driver file names.
const (
	ControlCAN   = "ControlCAN.dll"
	ControlCANFD = "ControlCANFD.dll"
)

// DLL binds the VCI exports of a ZLG driver.
type DLL struct {
	dll *windows.LazyDLL

	openDevice, closeDevice, readBoardInfo         *windows.LazyProc
	initCAN, startCAN, resetCAN                    *windows.LazyProc
	readCANStatus, readErrInfo                     *windows.LazyProc
	getReceiveNum, clearBuffer                     *windows.LazyProc
	transmit, transmitFD, receive, receiveFD       *windows.LazyProc
	getReference, setReference, getValue, setValue *windows.LazyProc
	debug                                          *windows.LazyProc
	initLIN, startLIN, resetLIN, clearLINBuffer    *windows.LazyProc
	getLINReceiveNum, transmitLIN, receiveLIN      *windows.LazyProc
	setLINSubscribe, setLINPublish                 *windows.LazyProc
}

var _ Library = (*DLL)(nil)

// Load opens the driver at name. Only the device lifecycle exports are
// required, a missing optional export fails its call with status 0.
func Load(name string) (Library, error) {
	dll := windows.NewLazySystemDLL(name)
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	d := &DLL{dll: dll}
	for sym, p := range map[string]**windows.LazyProc{
		"VCI_OpenDevice":       &d.openDevice,
		"VCI_CloseDevice":      &d.closeDevice,
		"VCI_ReadBoardInfo":    &d.readBoardInfo,
		"VCI_InitCAN":          &d.initCAN,
		"VCI_StartCAN":         &d.startCAN,
		"VCI_ResetCAN":         &d.resetCAN,
		"VCI_ReadCANStatus":    &d.readCANStatus,
		"VCI_ReadErrInfo":      &d.readErrInfo,
		"VCI_GetReceiveNum":    &d.getReceiveNum,
		"VCI_ClearBuffer":      &d.clearBuffer,
		"VCI_Transmit":         &d.transmit,
		"VCI_TransmitFD":       &d.transmitFD,
		"VCI_Receive":          &d.receive,
		"VCI_ReceiveFD":        &d.receiveFD,
		"VCI_GetReference":     &d.getReference,
		"VCI_SetReference":     &d.setReference,
		"VCI_GetValue":         &d.getValue,
		"VCI_SetValue":         &d.setValue,
		"VCI_Debug":            &d.debug,
		"VCI_InitLIN":          &d.initLIN,
		"VCI_StartLIN":         &d.startLIN,
		"VCI_ResetLIN":         &d.resetLIN,
		"VCI_ClearLINBuffer":   &d.clearLINBuffer,
		"VCI_GetLINReceiveNum": &d.getLINReceiveNum,
		"VCI_TransmitLIN":      &d.transmitLIN,
		"VCI_ReceiveLIN":       &d.receiveLIN,
		"VCI_SetLINSubscribe":  &d.setLINSubscribe,
		"VCI_SetLINPublish":    &d.setLINPublish,
	} {
		*p = dll.NewProc(sym)
	}
	for _, p := range []*windows.LazyProc{d.openDevice, d.closeDevice, d.initCAN, d.startCAN} {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return d, nil
}

func (d *DLL) Name() string { return d.dll.Name }

// call is for exports without pointer arguments. Calls passing buffers
// convert them inline in the Call expression so they stay alive.
func call(p *windows.LazyProc, args ...uintptr) uint32 {
	if !found(p) {
		return 0
	}
	return result(p.Call(args...))
}

func found(p *windows.LazyProc) bool { return p.Find() == nil }

func result(r, _ uintptr, _ error) uint32 { return uint32(r) }

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func u(v uint32) uintptr { return uintptr(v) }

func (d *DLL) OpenDevice(t, i, reserved uint32) uint32 {
	return call(d.openDevice, u(t), u(i), u(reserved))
}

func (d *DLL) CloseDevice(t, i uint32) uint32 {
	return call(d.closeDevice, u(t), u(i))
}

func (d *DLL) ReadBoardInfo(t, i uint32, info []byte) uint32 {
	if !found(d.readBoardInfo) {
		return 0
	}
	return result(d.readBoardInfo.Call(u(t), u(i), uintptr(ptr(info))))
}

func (d *DLL) InitCAN(t, i, ch uint32, cfg []byte) uint32 {
	if !found(d.initCAN) {
		return 0
	}
	return result(d.initCAN.Call(u(t), u(i), u(ch), uintptr(ptr(cfg))))
}

func (d *DLL) StartCAN(t, i, ch uint32) uint32 { return call(d.startCAN, u(t), u(i), u(ch)) }
func (d *DLL) ResetCAN(t, i, ch uint32) uint32 { return call(d.resetCAN, u(t), u(i), u(ch)) }

func (d *DLL) ReadCANStatus(t, i, ch uint32, status []byte) uint32 {
	if !found(d.readCANStatus) {
		return 0
	}
	return result(d.readCANStatus.Call(u(t), u(i), u(ch), uintptr(ptr(status))))
}

func (d *DLL) ReadErrInfo(t, i, ch uint32, info []byte) uint32 {
	if !found(d.readErrInfo) {
		return 0
	}
	return result(d.readErrInfo.Call(u(t), u(i), u(ch), uintptr(ptr(info))))
}

func (d *DLL) GetReceiveNum(t, i, ch uint32) uint32 { return call(d.getReceiveNum, u(t), u(i), u(ch)) }
func (d *DLL) ClearBuffer(t, i, ch uint32) uint32   { return call(d.clearBuffer, u(t), u(i), u(ch)) }

func (d *DLL) Transmit(t, i, ch uint32, frames []byte, count uint32) uint32 {
	if !found(d.transmit) {
		return 0
	}
	return result(d.transmit.Call(u(t), u(i), u(ch), uintptr(ptr(frames)), u(count)))
}

func (d *DLL) TransmitFD(t, i, ch uint32, frames []byte, count uint32) uint32 {
	if !found(d.transmitFD) {
		return 0
	}
	return result(d.transmitFD.Call(u(t), u(i), u(ch), uintptr(ptr(frames)), u(count)))
}

func (d *DLL) Receive(t, i, ch uint32, frames []byte, size, waitMs uint32) uint32 {
	if !found(d.receive) {
		return 0
	}
	return result(d.receive.Call(u(t), u(i), u(ch), uintptr(ptr(frames)), u(size), u(waitMs)))
}

func (d *DLL) ReceiveFD(t, i, ch uint32, frames []byte, size, waitMs uint32) uint32 {
	if !found(d.receiveFD) {
		return 0
	}
	return result(d.receiveFD.Call(u(t), u(i), u(ch), uintptr(ptr(frames)), u(size), u(waitMs)))
}

func (d *DLL) GetReference(t, i, ch, ref uint32, value []byte) uint32 {
	if !found(d.getReference) {
		return 0
	}
	return result(d.getReference.Call(u(t), u(i), u(ch), u(ref), uintptr(ptr(value))))
}

func (d *DLL) SetReference(t, i, ch, ref uint32, value []byte) uint32 {
	if !found(d.setReference) {
		return 0
	}
	return result(d.setReference.Call(u(t), u(i), u(ch), u(ref), uintptr(ptr(value))))
}

func (d *DLL) GetValue(t, i uint32, path string, value []byte) uint32 {
	p, err := CString(path)
	if err != nil {
		return 0
	}
	if !found(d.getValue) {
		return 0
	}
	return result(d.getValue.Call(u(t), u(i), uintptr(ptr(p)), uintptr(ptr(value))))
}

func (d *DLL) SetValue(t, i uint32, path string, value []byte) uint32 {
	p, err := CString(path)
	if err != nil {
		return 0
	}
	if !found(d.setValue) {
		return 0
	}
	return result(d.setValue.Call(u(t), u(i), uintptr(ptr(p)), uintptr(ptr(value))))
}

func (d *DLL) Debug(level uint32) uint32 { return call(d.debug, u(level)) }

func (d *DLL) InitLIN(t, i, ch uint32, cfg []byte) uint32 {
	if !found(d.initLIN) {
		return 0
	}
	return result(d.initLIN.Call(u(t), u(i), u(ch), uintptr(ptr(cfg))))
}

func (d *DLL) StartLIN(t, i, ch uint32) uint32       { return call(d.startLIN, u(t), u(i), u(ch)) }
func (d *DLL) ResetLIN(t, i, ch uint32) uint32       { return call(d.resetLIN, u(t), u(i), u(ch)) }
func (d *DLL) ClearLINBuffer(t, i, ch uint32) uint32 { return call(d.clearLINBuffer, u(t), u(i), u(ch)) }

func (d *DLL) GetLINReceiveNum(t, i, ch uint32) uint32 {
	return call(d.getLINReceiveNum, u(t), u(i), u(ch))
}

func (d *DLL) TransmitLIN(t, i, ch uint32, frames []byte, count uint32) uint32 {
	if !found(d.transmitLIN) {
		return 0
	}
	return result(d.transmitLIN.Call(u(t), u(i), u(ch), uintptr(ptr(frames)), u(count)))
}

func (d *DLL) ReceiveLIN(t, i, ch uint32, frames []byte, size, waitMs uint32) uint32 {
	if !found(d.receiveLIN) {
		return 0
	}
	return result(d.receiveLIN.Call(u(t), u(i), u(ch), uintptr(ptr(frames)), u(size), u(waitMs)))
}

func (d *DLL) SetLINSubscribe(t, i, ch uint32, cfg []byte, count uint32) uint32 {
	if !found(d.setLINSubscribe) {
		return 0
	}
	return result(d.setLINSubscribe.Call(u(t), u(i), u(ch), uintptr(ptr(cfg)), u(count)))
}

func (d *DLL) SetLINPublish(t, i, ch uint32, cfg []byte, count uint32) uint32 {
	if !found(d.setLINPublish) {
		return 0
	}
	return result(d.setLINPublish.Call(u(t), u(i), u(ch), uintptr(ptr(cfg)), u(count)))
}
