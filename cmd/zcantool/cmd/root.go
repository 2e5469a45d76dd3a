package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "zcantool",
	Short:        "ZLG CAN/CAN-FD/LIN adapter tool",
	Long:         `Inspect, monitor and drive ZLG USBCAN, USBCANFD and PCIe-CANFD adapters`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

const (
	flagDevice     = "device"
	flagIndex      = "index"
	flagChannel    = "channel"
	flagBitrate    = "bitrate"
	flagDBitrate   = "dbitrate"
	flagPresets    = "presets"
	flagLibrary    = "lib"
	flagVirtual    = "virtual"
	flagDebug      = "debug"
	flagResistance = "resistance"
	flagListenOnly = "listen-only"
	flagMinFW      = "min-firmware"
)

func init() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	pf := rootCmd.PersistentFlags()
	pf.StringP(flagDevice, "t", "", "device type name or code, empty = pick from list")
	pf.Uint32P(flagIndex, "i", 0, "device index")
	pf.Uint8P(flagChannel, "c", 0, "channel")
	pf.Uint32P(flagBitrate, "b", 500000, "nominal bitrate")
	pf.Uint32(flagDBitrate, 0, "CAN-FD data bitrate, 0 = unset")
	pf.StringP(flagPresets, "p", "", "directory holding bitrate.cfg.yaml, empty = built in presets")
	pf.String(flagLibrary, "", "driver library, empty = family default")
	pf.Bool(flagVirtual, false, "use the in-process virtual driver")
	pf.BoolP(flagDebug, "d", false, "debug mode")
	pf.Bool(flagResistance, true, "enable terminal resistance where supported")
	pf.Bool(flagListenOnly, false, "open channels listen-only")
	pf.String(flagMinFW, "", "reject devices with older firmware, e.g. 1.02")
}
