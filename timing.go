package zlgcan

// TimingEntry is one row of a timing preset. Which fields are meaningful
// depends on the device family: segment timing, SJA1000 style BTR bytes or
// an opaque vendor word.
type TimingEntry struct {
	Tseg1 uint8
	Tseg2 uint8
	SJW   uint8
	SMP   uint8
	BRP   uint16

	Timing0 uint8
	Timing1 uint8

	Vendor uint32
}

// Timing is a resolved bitrate. Data is nil when no data phase applies.
type Timing struct {
	DeviceType  DeviceType
	Clock       uint32
	Bitrate     uint32
	DataBitrate uint32
	Nominal     TimingEntry
	Data        *TimingEntry
}

// TimingResolver turns a channel configuration into hardware timing.
type TimingResolver interface {
	Resolve(DeviceType, *ChannelConfig) (*Timing, error)
}
