// Package timing loads bitrate timing presets and resolves channel
// configurations into hardware timing.
package timing

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/roffe/zlgcan"
	"gopkg.in/yaml.v3"
)

// PresetFile is the file name LoadDir looks for.
const PresetFile = "bitrate.cfg.yaml"

type entryYAML struct {
	Tseg1   *uint8  `yaml:"tseg1"`
	Tseg2   *uint8  `yaml:"tseg2"`
	SJW     *uint8  `yaml:"sjw"`
	SMP     *uint8  `yaml:"smp"`
	BRP     *uint16 `yaml:"brp"`
	Timing0 *uint8  `yaml:"timing0"`
	Timing1 *uint8  `yaml:"timing1"`
	Timing  *uint32 `yaml:"timing"`
}

type familyYAML struct {
	Clock       uint32               `yaml:"clock"`
	Bitrate     map[string]entryYAML `yaml:"bitrate"`
	DataBitrate map[string]entryYAML `yaml:"data_bitrate"`
}

// Preset is the timing table of one device type.
type Preset struct {
	Clock       uint32
	Bitrate     map[uint32]zlgcan.TimingEntry
	DataBitrate map[uint32]zlgcan.TimingEntry
}

// Resolver is a read-only preset table.
type Resolver struct {
	presets map[zlgcan.DeviceType]*Preset
}

var _ zlgcan.TimingResolver = (*Resolver)(nil)

func loadError(err error, format string, args ...interface{}) error {
	return &zlgcan.Error{Kind: zlgcan.KindConfigLoad, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Load parses a preset table.
func Load(r io.Reader) (*Resolver, error) {
	var raw map[string]familyYAML
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, loadError(err, "parse timing presets")
	}
	res := &Resolver{presets: make(map[zlgcan.DeviceType]*Preset, len(raw))}
	for key, fam := range raw {
		code, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, loadError(err, "device key %q is not an integer", key)
		}
		if len(fam.Bitrate) == 0 {
			return nil, loadError(nil, "device %s has no bitrate table", key)
		}
		p := &Preset{Clock: fam.Clock}
		if p.Bitrate, err = convert(key, "bitrate", fam.Bitrate); err != nil {
			return nil, err
		}
		if p.DataBitrate, err = convert(key, "data_bitrate", fam.DataBitrate); err != nil {
			return nil, err
		}
		res.presets[zlgcan.DeviceType(code)] = p
	}
	return res, nil
}

func convert(dev, table string, in map[string]entryYAML) (map[uint32]zlgcan.TimingEntry, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[uint32]zlgcan.TimingEntry, len(in))
	for key, e := range in {
		br, err := strconv.ParseUint(key, 10, 32)
		if err != nil || br == 0 {
			return nil, loadError(err, "device %s %s key %q is not a bitrate", dev, table, key)
		}
		entry, ok := e.entry()
		if !ok {
			return nil, loadError(nil, "device %s %s %s has no timing fields", dev, table, key)
		}
		out[uint32(br)] = entry
	}
	return out, nil
}

func (e entryYAML) entry() (zlgcan.TimingEntry, bool) {
	var out zlgcan.TimingEntry
	var set bool
	u8 := func(dst *uint8, src *uint8) {
		if src != nil {
			*dst = *src
			set = true
		}
	}
	u8(&out.Tseg1, e.Tseg1)
	u8(&out.Tseg2, e.Tseg2)
	u8(&out.SJW, e.SJW)
	u8(&out.SMP, e.SMP)
	u8(&out.Timing0, e.Timing0)
	u8(&out.Timing1, e.Timing1)
	if e.BRP != nil {
		out.BRP = *e.BRP
		set = true
	}
	if e.Timing != nil {
		out.Vendor = *e.Timing
		set = true
	}
	return out, set
}

// LoadFile parses the preset table at path.
func LoadFile(path string) (*Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadError(err, "open timing presets")
	}
	defer f.Close()
	return Load(f)
}

// LoadDir parses PresetFile inside dir.
func LoadDir(dir string) (*Resolver, error) {
	return LoadFile(filepath.Join(dir, PresetFile))
}

func unsupported(format string, args ...interface{}) error {
	return &zlgcan.Error{Kind: zlgcan.KindUnsupportedBitrate, Msg: fmt.Sprintf(format, args...)}
}

// Resolve looks up the exact timing for cfg. There is no nearest match: a
// bitrate missing from the table is an error. When the device has a data
// bitrate table and cfg has no data bitrate the data phase is looked up at
// the nominal bitrate.
func (r *Resolver) Resolve(devType zlgcan.DeviceType, cfg *zlgcan.ChannelConfig) (*zlgcan.Timing, error) {
	if cfg == nil {
		return nil, zlgcan.OtherError("nil channel config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, ok := r.presets[devType]
	if !ok {
		return nil, unsupported("device %s (%d) is not configured in %s", devType, uint32(devType), PresetFile)
	}
	nominal, ok := p.Bitrate[cfg.Bitrate]
	if !ok {
		return nil, unsupported("bitrate %d is not configured for %s", cfg.Bitrate, devType)
	}
	t := &zlgcan.Timing{
		DeviceType: devType,
		Clock:      p.Clock,
		Bitrate:    cfg.Bitrate,
		Nominal:    nominal,
	}
	dbitrate := cfg.DataBitrate
	if dbitrate == 0 && len(p.DataBitrate) > 0 {
		dbitrate = cfg.Bitrate
	}
	if dbitrate == 0 {
		return t, nil
	}
	if len(p.DataBitrate) == 0 {
		return nil, unsupported("%s has no data bitrate table", devType)
	}
	data, ok := p.DataBitrate[dbitrate]
	if !ok {
		return nil, unsupported("data bitrate %d is not configured for %s", dbitrate, devType)
	}
	t.DataBitrate = dbitrate
	t.Data = &data
	return t, nil
}

// Preset returns the table of devType.
func (r *Resolver) Preset(devType zlgcan.DeviceType) (*Preset, bool) {
	p, ok := r.presets[devType]
	return p, ok
}

// Families lists the configured device types.
func (r *Resolver) Families() []zlgcan.DeviceType {
	out := make([]zlgcan.DeviceType, 0, len(r.presets))
	for t := range r.presets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Bitrates lists the nominal bitrates configured for devType.
func (r *Resolver) Bitrates(devType zlgcan.DeviceType) []uint32 {
	p, ok := r.presets[devType]
	if !ok {
		return nil
	}
	out := make([]uint32, 0, len(p.Bitrate))
	for br := range p.Bitrate {
		out = append(out, br)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
