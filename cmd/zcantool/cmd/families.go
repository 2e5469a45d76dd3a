package cmd

import (
	"fmt"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/usbscan"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(familiesCmd)
	rootCmd.AddCommand(scanCmd)
}

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "list device families and the device types they serve",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range zlgcan.ListFamilies() {
			fmt.Println(f.String())
			for _, t := range f.DeviceTypes {
				tr, _ := t.Traits()
				fmt.Printf("  %-22s %3d can:%d lin:%d fd:%v\n", tr.Name, uint32(t), tr.CANChannels, tr.LINChannels, tr.CANFD)
			}
		}
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "list attached ZLG USB adapters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devs, err := usbscan.Scan()
		if err != nil {
			return err
		}
		if len(devs) == 0 {
			fmt.Println("no adapters found")
		}
		for _, d := range devs {
			fmt.Println(d)
		}
		return nil
	},
}
