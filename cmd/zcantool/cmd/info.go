package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statusCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "print board information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer closeClient(c)

		info, err := c.DeviceInfo()
		if err != nil {
			return err
		}
		fmt.Printf("device:   %s (%s family)\n", c.Device(), c.Family().Name)
		fmt.Printf("hardware: %s\n", info.HardwareID)
		fmt.Printf("serial:   %s\n", info.Serial)
		fmt.Printf("versions: hw %s fw %s drv %s api %s\n", info.Hardware, info.Firmware, info.Driver, info.API)
		fmt.Printf("channels: can %d lin %d canfd %v\n", info.CANChannels, info.LINChannels, info.CANFD())
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "start a channel and print its controller status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer closeClient(c)

		ch, _ := cmd.Flags().GetUint8(flagChannel)
		if err := initChannel(cmd, c, ch); err != nil {
			return err
		}
		st, err := c.ChannelStatus(ch)
		if err != nil {
			return err
		}
		fmt.Println("status:", st)
		chErr, err := c.ChannelError(ch)
		if err != nil {
			return err
		}
		fmt.Println("error: ", chErr)
		return nil
	},
}
