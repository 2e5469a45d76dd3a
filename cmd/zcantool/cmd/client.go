package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/adapter"
	"github.com/roffe/zlgcan/adapter/usbcan"
	"github.com/roffe/zlgcan/pkg/native"
	"github.com/roffe/zlgcan/pkg/native/virtual"
	"github.com/roffe/zlgcan/pkg/timing"
	"github.com/spf13/cobra"
)

func deviceType(cmd *cobra.Command) (zlgcan.DeviceType, error) {
	name, err := cmd.Flags().GetString(flagDevice)
	if err != nil {
		return 0, err
	}
	if name != "" {
		return zlgcan.ParseDeviceType(name)
	}
	return pickDevice()
}

func pickDevice() (zlgcan.DeviceType, error) {
	types := adapter.Supported()
	items := make([]string, len(types))
	for i, t := range types {
		items[i] = fmt.Sprintf("%s (%d)", t, uint32(t))
	}
	prompt := promptui.Select{
		Label: "Device type",
		Items: items,
		Size:  len(items),
	}
	i, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return types[i], nil
}

func presets(cmd *cobra.Command) (*timing.Resolver, error) {
	dir, err := cmd.Flags().GetString(flagPresets)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return timing.Default()
	}
	return timing.LoadDir(dir)
}

func library(cmd *cobra.Command, devType zlgcan.DeviceType, index uint32) (native.Library, error) {
	pf := cmd.Flags()
	if v, _ := pf.GetBool(flagVirtual); v {
		lib := virtual.New()
		lib.Echo = true
		lib.AddDevice(devType, index)
		return lib, nil
	}
	name, err := pf.GetString(flagLibrary)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = native.ControlCANFD
		if f, err := zlgcan.FamilyFor(devType); err == nil && f.Name == usbcan.Name {
			name = native.ControlCAN
		}
	}
	return native.Load(name)
}

// openClient builds and opens the client selected by the persistent flags.
func openClient(cmd *cobra.Command) (*zlgcan.Client, error) {
	pf := cmd.Flags()
	devType, err := deviceType(cmd)
	if err != nil {
		return nil, err
	}
	index, err := pf.GetUint32(flagIndex)
	if err != nil {
		return nil, err
	}
	res, err := presets(cmd)
	if err != nil {
		return nil, err
	}
	lib, err := library(cmd, devType, index)
	if err != nil {
		return nil, err
	}
	debug, _ := pf.GetBool(flagDebug)
	minFW, _ := pf.GetString(flagMinFW)

	c, err := zlgcan.NewClient(devType, index, &zlgcan.AdapterConfig{
		Library:         lib,
		Timing:          res,
		Debug:           debug,
		MinimumFirmware: minFW,
	})
	if err != nil {
		return nil, err
	}
	if err := c.Open(); err != nil {
		return nil, err
	}
	return c, nil
}

func closeClient(c *zlgcan.Client) {
	if err := c.Close(); err != nil && !errors.Is(err, zlgcan.ErrDeviceClosed) {
		log.Println(err)
	}
}

func channelConfig(cmd *cobra.Command, devType zlgcan.DeviceType) (*zlgcan.ChannelConfig, error) {
	pf := cmd.Flags()
	bitrate, err := pf.GetUint32(flagBitrate)
	if err != nil {
		return nil, err
	}
	cfg := zlgcan.NewChannelConfig(bitrate)
	if dbitrate, _ := pf.GetUint32(flagDBitrate); dbitrate != 0 {
		cfg.WithDataBitrate(dbitrate)
	}
	if pf.Changed(flagResistance) {
		on, _ := pf.GetBool(flagResistance)
		cfg.WithResistance(on)
	}
	if lo, _ := pf.GetBool(flagListenOnly); lo {
		cfg.WithChannelMode(zlgcan.ModeListenOnly)
	}
	if !devType.CANFD() {
		cfg.WithChannelType(zlgcan.ChannelCAN)
	}
	return cfg, cfg.Validate()
}

// initChannel starts channel ch with the flag configuration.
func initChannel(cmd *cobra.Command, c *zlgcan.Client, ch uint8) error {
	cfg, err := channelConfig(cmd, c.DeviceType())
	if err != nil {
		return err
	}
	_, err = c.InitCAN(ch, cfg)
	return err
}
