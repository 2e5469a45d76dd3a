package cmd

import (
	"fmt"
	"time"

	"github.com/roffe/zlgcan"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const flagChannels = "channels"

func init() {
	monitorCmd.Flags().UintSlice(flagChannels, nil, "channels to monitor, default --channel")
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "print received frames until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer closeClient(c)

		channels, _ := cmd.Flags().GetUintSlice(flagChannels)
		if len(channels) == 0 {
			ch, _ := cmd.Flags().GetUint8(flagChannel)
			channels = []uint{uint(ch)}
		}
		for _, ch := range channels {
			if err := initChannel(cmd, c, uint8(ch)); err != nil {
				return err
			}
		}

		// every channel is started, the workers only read client state
		errg, ctx := errgroup.WithContext(cmd.Context())
		kinds := []zlgcan.FrameKind{zlgcan.KindCAN}
		if c.Family().Capabilities.CANFD {
			kinds = append(kinds, zlgcan.KindCANFD)
		}
		for _, ch := range channels {
			ch := uint8(ch)
			errg.Go(func() error {
				for ctx.Err() == nil {
					for _, kind := range kinds {
						frames, err := c.Receive(ch, kind, 64, 50*time.Millisecond)
						if err != nil {
							return fmt.Errorf("channel %d: %w", ch, err)
						}
						for _, f := range frames {
							fmt.Println(f.ColorString())
						}
					}
				}
				return nil
			})
		}
		return errg.Wait()
	},
}
