package cmd

import (
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/roffe/zlgcan"
	"github.com/spf13/cobra"
)

const (
	flagFD       = "fd"
	flagBRS      = "brs"
	flagExtended = "extended"
	flagAttempts = "attempts"
)

func init() {
	f := sendCmd.Flags()
	f.Bool(flagFD, false, "send as CAN-FD")
	f.Bool(flagBRS, false, "CAN-FD bitrate switch")
	f.BoolP(flagExtended, "x", false, "29 bit identifier")
	f.Uint(flagAttempts, 3, "transmit attempts while the driver accepts nothing")
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send <id> [hexdata]",
	Short: "send one frame",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		frame, err := parseFrame(cmd, args)
		if err != nil {
			return err
		}
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer closeClient(c)

		ch, _ := cmd.Flags().GetUint8(flagChannel)
		if err := initChannel(cmd, c, ch); err != nil {
			return err
		}
		attempts, _ := cmd.Flags().GetUint(flagAttempts)
		if err := retry.Do(func() error {
			n, err := c.Transmit(ch, frame)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if n != 1 {
				return fmt.Errorf("driver accepted %d frames", n)
			}
			return nil
		},
			retry.Context(cmd.Context()),
			retry.Attempts(attempts),
			retry.Delay(50*time.Millisecond),
			retry.OnRetry(func(n uint, err error) {
				log.Printf("retry %d: %v", n, err)
			}),
			retry.LastErrorOnly(true),
		); err != nil {
			return err
		}
		fmt.Println(frame.ColorString())
		return nil
	},
}

func parseFrame(cmd *cobra.Command, args []string) (*zlgcan.Frame, error) {
	f := cmd.Flags()
	raw, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(args[0]), "0x"), 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	ext, _ := f.GetBool(flagExtended)
	id, err := zlgcan.NewID(uint32(raw), ext)
	if err != nil {
		return nil, err
	}
	var data []byte
	if len(args) == 2 {
		if data, err = hex.DecodeString(strings.ReplaceAll(args[1], " ", "")); err != nil {
			return nil, fmt.Errorf("invalid data %q: %w", args[1], err)
		}
	}
	if fd, _ := f.GetBool(flagFD); fd {
		brs, _ := f.GetBool(flagBRS)
		return zlgcan.NewFDFrame(id, data, brs)
	}
	return zlgcan.NewFrame(id, data)
}
