package zlgcan

import "strconv"

// Reference codes understood by SetReference/GetReference.
const (
	RefFilterMode  uint32 = 0x14
	RefFilterStart uint32 = 0x15
	RefFilterEnd   uint32 = 0x16
	RefTxTimeout   uint32 = 0x17
	RefResistance  uint32 = 0x18
	RefBusUsage    uint32 = 0x1A
	RefDeviceSN    uint32 = 0x1B
)

// CmdPath addresses a vendor specific parameter, either by numeric
// reference code or by a textual path such as "0/set_device_tx_echo".
type CmdPath struct {
	path      string
	reference uint32
}

func NewReference(code uint32) CmdPath {
	return CmdPath{reference: code}
}

func NewPath(path string) CmdPath {
	return CmdPath{path: path}
}

func (p CmdPath) Reference() uint32 { return p.reference }
func (p CmdPath) Path() string      { return p.path }

func (p CmdPath) String() string {
	if p.path != "" {
		return p.path
	}
	return "ref:0x" + strconv.FormatUint(uint64(p.reference), 16)
}
