package zlgcan

import "fmt"

// ChannelType selects classic CAN or one of the CAN-FD variants.
type ChannelType uint8

const (
	ChannelCAN ChannelType = iota
	ChannelCANFDISO
	ChannelCANFDNonISO
)

func (t ChannelType) String() string {
	switch t {
	case ChannelCAN:
		return "CAN"
	case ChannelCANFDISO:
		return "CANFD-ISO"
	case ChannelCANFDNonISO:
		return "CANFD-NON-ISO"
	}
	return fmt.Sprintf("ChannelType(%d)", uint8(t))
}

// ChannelMode is the controller operating mode.
type ChannelMode uint8

const (
	ModeNormal ChannelMode = iota
	ModeListenOnly
)

func (m ChannelMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeListenOnly:
		return "listen-only"
	}
	return fmt.Sprintf("ChannelMode(%d)", uint8(m))
}

// Extension keys with a typed home in ChannelConfig.
const (
	KeyChannelType = "zlg.channel_type"
	KeyChannelMode = "zlg.channel_mode"
)

// ChannelConfig describes one bus channel. Only the nominal bitrate is
// required, everything else is optional or device specific.
type ChannelConfig struct {
	Bitrate     uint32
	DataBitrate uint32 // 0 when unset
	Resistance  *bool
	ChannelType *ChannelType
	ChannelMode *ChannelMode

	extras map[string]interface{}
}

func NewChannelConfig(bitrate uint32) *ChannelConfig {
	return &ChannelConfig{Bitrate: bitrate}
}

func (c *ChannelConfig) WithDataBitrate(bitrate uint32) *ChannelConfig {
	c.DataBitrate = bitrate
	return c
}

func (c *ChannelConfig) WithResistance(on bool) *ChannelConfig {
	c.Resistance = &on
	return c
}

func (c *ChannelConfig) WithChannelType(t ChannelType) *ChannelConfig {
	c.ChannelType = &t
	return c
}

func (c *ChannelConfig) WithChannelMode(m ChannelMode) *ChannelConfig {
	c.ChannelMode = &m
	return c
}

// TypeOr returns the configured channel type or def.
func (c *ChannelConfig) TypeOr(def ChannelType) ChannelType {
	if c.ChannelType != nil {
		return *c.ChannelType
	}
	return def
}

// ModeOr returns the configured channel mode or def.
func (c *ChannelConfig) ModeOr(def ChannelMode) ChannelMode {
	if c.ChannelMode != nil {
		return *c.ChannelMode
	}
	return def
}

// ResistanceOr returns the configured resistance state or def.
func (c *ChannelConfig) ResistanceOr(def bool) bool {
	if c.Resistance != nil {
		return *c.Resistance
	}
	return def
}

// SetExtra stores a device specific value. The known keys KeyChannelType and
// KeyChannelMode are promoted to their typed fields and must hold the enum
// type or a uint8.
func (c *ChannelConfig) SetExtra(key string, value interface{}) error {
	switch key {
	case KeyChannelType:
		switch v := value.(type) {
		case ChannelType:
			c.ChannelType = &v
		case uint8:
			t := ChannelType(v)
			c.ChannelType = &t
		default:
			return typeMismatch(key, value, "ChannelType")
		}
		return nil
	case KeyChannelMode:
		switch v := value.(type) {
		case ChannelMode:
			c.ChannelMode = &v
		case uint8:
			m := ChannelMode(v)
			c.ChannelMode = &m
		default:
			return typeMismatch(key, value, "ChannelMode")
		}
		return nil
	}
	if c.extras == nil {
		c.extras = make(map[string]interface{})
	}
	c.extras[key] = value
	return nil
}

// Extras returns the keys of all opaque extension values.
func (c *ChannelConfig) Extras() []string {
	out := make([]string, 0, len(c.extras))
	for k := range c.extras {
		out = append(out, k)
	}
	return out
}

// GetExtra returns the extension value stored under key. ok is false when
// the key is absent. A value of another type is a TypeMismatch error, it is
// never converted.
func GetExtra[T any](c *ChannelConfig, key string) (value T, ok bool, err error) {
	var raw interface{}
	switch key {
	case KeyChannelType:
		if c.ChannelType == nil {
			return value, false, nil
		}
		raw = *c.ChannelType
	case KeyChannelMode:
		if c.ChannelMode == nil {
			return value, false, nil
		}
		raw = *c.ChannelMode
	default:
		var found bool
		if raw, found = c.extras[key]; !found {
			return value, false, nil
		}
	}
	v, isT := raw.(T)
	if !isT {
		return value, false, typeMismatch(key, raw, fmt.Sprintf("%T", value))
	}
	return v, true, nil
}

// Validate checks the invariants that do not depend on a device family.
func (c *ChannelConfig) Validate() error {
	if c.Bitrate == 0 {
		return InitializeError("bitrate must be greater than zero")
	}
	if c.DataBitrate != 0 && c.ChannelType != nil && *c.ChannelType == ChannelCAN {
		return InitializeError("data bitrate %d set on a classic CAN channel", c.DataBitrate)
	}
	return nil
}

func typeMismatch(key string, got interface{}, want string) error {
	return &Error{Kind: KindTypeMismatch, Msg: fmt.Sprintf("extra %q holds %T, want %s", key, got, want)}
}
