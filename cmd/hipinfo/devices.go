package main

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/gohip/hip"
)

func devicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List visible devices and their peer-to-peer topology",
		Action: func(c *cli.Context) error {
			banner := figure.NewFigure("hipinfo", "", true)
			banner.Print()
			fmt.Println("")

			count, err := hip.GetDeviceCount()
			if err != nil {
				return err
			}
			fmt.Printf("Visible devices: %d\n\n", count)

			for i := int32(0); i < count; i++ {
				if err := printDevice(hip.NewDevice(i)); err != nil {
					return err
				}
			}
			if count > 1 {
				return printP2PMatrix(count)
			}
			return nil
		},
	}
}

func printDevice(d hip.Device) error {
	name, err := d.Name()
	if err != nil {
		return err
	}
	total, err := d.TotalMemory()
	if err != nil {
		return err
	}
	cc, err := d.ComputeCapability()
	if err != nil {
		return err
	}
	id, err := d.UUID()
	if err != nil {
		return err
	}
	busID, err := d.PCIBusID()
	if err != nil {
		return err
	}

	fmt.Printf("Device %d: %s\n", d.ID(), name)
	fmt.Printf("  Memory:             %.1f GiB\n", float64(total)/(1<<30))
	fmt.Printf("  Compute capability: %d.%d\n", cc.Segments()[0], cc.Segments()[1])
	fmt.Printf("  UUID:               %s\n", id)
	fmt.Printf("  PCI bus:            %s\n", busID)
	fmt.Println("")
	return nil
}

func printP2PMatrix(count int32) error {
	fmt.Println("Peer-to-peer access:")
	for src := int32(0); src < count; src++ {
		for dst := int32(0); dst < count; dst++ {
			if src == dst {
				fmt.Printf("  %d -> %d: -\n", src, dst)
				continue
			}
			v, err := hip.DeviceP2PAttribute(hip.P2PAccessSupported, hip.NewDevice(src), hip.NewDevice(dst))
			if err != nil {
				rootLogger.Warn("p2p query failed",
					zap.Int32("src", src), zap.Int32("dst", dst), zap.Error(err))
				continue
			}
			fmt.Printf("  %d -> %d: %v\n", src, dst, v == 1)
		}
	}
	return nil
}
