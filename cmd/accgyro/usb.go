package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mklimuk/accgyro/adapter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "list HID devices and detect supported bridges",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name: "ls",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:  "vendor",
			Usage: "only list devices of this vendor id",
		},
	},
	Action: func(c *cli.Context) error {
		devices := hid.Enumerate(uint16(c.Uint("vendor")), 0)

		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")

		for _, dev := range devices {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
				dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
		}
		_ = w.Flush()
		return nil
	},
}

var usbDetectCmd = cli.Command{
	Name: "detect",
	Action: func(c *cli.Context) error {
		predefined := map[string][]uint16{
			"MCP2221": {adapter.VendorID, adapter.ProductID},
		}

		devices := hid.Enumerate(0, 0)

		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "INDEX\tVENDOR\tPRODUCT\tDEVICE\n")
		index := map[string]int{}

		for _, dev := range devices {
			for descName, codes := range predefined {
				if codes[0] == dev.VendorID && codes[1] == dev.ProductID {
					// index matches adapter.WithDeviceIndex ordering
					_, _ = fmt.Fprintf(w, "%d\t%#x\t%#x\t%s\n", index[descName], dev.VendorID, dev.ProductID, descName)
					index[descName]++
				}
			}
		}
		_ = w.Flush()
		return nil
	},
}
