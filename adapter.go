package zlgcan

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/roffe/zlgcan/pkg/native"
)

// FamilyInfo describes one adapter family: a group of device types that
// share a native driver ABI.
type FamilyInfo struct {
	Name         string
	Description  string
	DeviceTypes  []DeviceType
	Capabilities Capabilities
	New          func(*AdapterConfig) (API, error)
}

func (f *FamilyInfo) String() string {
	return fmt.Sprintf("%s | %s, %s", f.Name, f.Description, f.Capabilities.String())
}

type Capabilities struct {
	CAN   bool
	CANFD bool
	LIN   bool
	Cloud bool
}

func (c *Capabilities) String() string {
	return fmt.Sprintf("CAN: %v, CANFD: %v, LIN: %v, Cloud: %v", c.CAN, c.CANFD, c.LIN, c.Cloud)
}

// AdapterConfig is handed to a family constructor.
type AdapterConfig struct {
	Library         native.Library
	Timing          TimingResolver
	Debug           bool
	MinimumFirmware string // e.g. "1.02", empty disables the check
	OnMessage       func(string)
}

// Logf reports through OnMessage when Debug is set.
func (cfg *AdapterConfig) Logf(format string, args ...interface{}) {
	if cfg.Debug && cfg.OnMessage != nil {
		cfg.OnMessage(fmt.Sprintf(format, args...))
	}
}

var (
	familyMap  = make(map[string]*FamilyInfo)
	familyType = make(map[DeviceType]*FamilyInfo)
)

// RegisterFamily makes a family selectable by name and by device type.
func RegisterFamily(family *FamilyInfo) error {
	if _, found := familyMap[family.Name]; found {
		return fmt.Errorf("family %s already registered", family.Name)
	}
	for _, t := range family.DeviceTypes {
		if other, found := familyType[t]; found {
			return fmt.Errorf("device type %s already served by %s", t, other.Name)
		}
	}
	familyMap[family.Name] = family
	for _, t := range family.DeviceTypes {
		familyType[t] = family
	}
	return nil
}

// FamilyFor returns the family serving devType.
func FamilyFor(devType DeviceType) (*FamilyInfo, error) {
	if f, found := familyType[devType]; found {
		return f, nil
	}
	return nil, fmt.Errorf("%w: no family registered for %s", ErrUnknownDevice, devType)
}

// NewAPI selects the family for devType once and builds its implementation.
func NewAPI(devType DeviceType, cfg *AdapterConfig) (API, error) {
	f, err := FamilyFor(devType)
	if err != nil {
		return nil, err
	}
	if cfg.Library == nil {
		return nil, InitializeError("no native library for %s", f.Name)
	}
	if cfg.OnMessage == nil {
		cfg.OnMessage = func(msg string) {
			_, file, no, ok := runtime.Caller(2)
			if ok {
				log.Printf("%s#%d %v", filepath.Base(file), no, msg)
			} else {
				log.Println(msg)
			}
		}
	}
	return f.New(cfg)
}

func ListFamilyNames() []string {
	var out []string
	for name := range familyMap {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

func ListFamilies() []FamilyInfo {
	var out []FamilyInfo
	for _, name := range ListFamilyNames() {
		out = append(out, *familyMap[name])
	}
	return out
}
