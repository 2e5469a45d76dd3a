package cmd

import (
	"fmt"
	"time"

	"github.com/roffe/zlgcan"
	"github.com/roffe/zlgcan/pkg/bar"
	"github.com/spf13/cobra"
)

const (
	flagCount = "count"
	flagBatch = "batch"
)

func init() {
	f := floodCmd.Flags()
	f.Int(flagCount, 10000, "frames to send")
	f.Int(flagBatch, 64, "frames per transmit call")
	f.Bool(flagFD, false, "send 64 byte CAN-FD frames")
	rootCmd.AddCommand(floodCmd)
}

var floodCmd = &cobra.Command{
	Use:   "flood",
	Short: "transmit a counter pattern as fast as the driver accepts it",
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
		count, _ := cmd.Flags().GetInt(flagCount)
		batch, _ := cmd.Flags().GetInt(flagBatch)
		fd, _ := cmd.Flags().GetBool(flagFD)
		if batch < 1 {
			return fmt.Errorf("batch must be at least 1")
		}

		id, _ := zlgcan.StandardID(0x7E0)
		b := bar.New(count, "flooding")
		start := time.Now()
		sent := 0
		for sent < count {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			n := batch
			if count-sent < n {
				n = count - sent
			}
			frames := make([]*zlgcan.Frame, n)
			for i := range frames {
				if frames[i], err = counterFrame(id, sent+i, fd); err != nil {
					return err
				}
			}
			got, err := c.Transmit(ch, frames...)
			if err != nil {
				return err
			}
			if got == 0 {
				return fmt.Errorf("driver accepted no frames after %d", sent)
			}
			sent += int(got)
			b.Add(int(got))
		}
		b.Finish()
		took := time.Since(start)
		fmt.Printf("\nsent %d frames in %s (%.0f frames/s)\n", sent, took, float64(sent)/took.Seconds())
		return nil
	},
}

func counterFrame(id zlgcan.ID, n int, fd bool) (*zlgcan.Frame, error) {
	size := zlgcan.MaxClassicLength
	if fd {
		size = zlgcan.MaxFDLength
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(n >> (8 * (i % 4)))
	}
	if fd {
		return zlgcan.NewFDFrame(id, data, true)
	}
	return zlgcan.NewFrame(id, data)
}
