// goocl-devices lists the OpenCL platforms and devices visible through
// the configured driver.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

var flagType string

var rootCmd = &cobra.Command{
	Use:   "goocl-devices",
	Short: "List OpenCL platforms and devices",
	Long: `goocl-devices enumerates the platforms and devices of the OpenCL
runtime selected by the ` + ocl.GOOCL_DRIVER + ` environment variable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := parseDeviceType(flagType)
		if err != nil {
			return err
		}
		return listDevices(typ)
	},
}

func parseDeviceType(s string) (ocl.DeviceType, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return ocl.DeviceTypeAll, nil
	case "cpu":
		return ocl.DeviceTypeCPU, nil
	case "gpu":
		return ocl.DeviceTypeGPU, nil
	case "accelerator":
		return ocl.DeviceTypeAccelerator, nil
	}
	return 0, fmt.Errorf("unknown device type %q (want cpu, gpu, accelerator or all)", s)
}

func listDevices(typ ocl.DeviceType) error {
	platforms, err := goocl.Platforms()
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Platform", "Device", "Type", "Compute units", "Global mem", "Version"})
	table.SetAutoWrapText(false)
	index := 0
	for _, platform := range platforms {
		platformName, err := platform.Name()
		if err != nil {
			return err
		}
		devices, err := platform.DevicesOfType(typ)
		if err != nil {
			if goocl.IsStatus(err, ocl.DeviceNotFound) {
				continue
			}
			return err
		}
		for _, dev := range devices {
			table.Append(deviceRow(index, platformName, dev))
			if err := dev.Release(); err != nil {
				klog.Warningf("releasing device: %v", err)
			}
			index++
		}
	}
	for _, platform := range platforms {
		if err := platform.Release(); err != nil {
			klog.Warningf("releasing platform: %v", err)
		}
	}
	if index == 0 {
		fmt.Println("No devices found.")
		return nil
	}
	table.Render()
	return nil
}

// deviceRow formats one table row, degrading to "?" on attributes the
// device does not report.
func deviceRow(index int, platformName string, dev *goocl.Device) []string {
	name, err := dev.Name()
	if err != nil {
		name = "?"
	}
	typName := "?"
	if typ, err := dev.Type(); err == nil {
		typName = typ.String()
	}
	units := "?"
	if u, err := dev.MaxComputeUnits(); err == nil {
		units = fmt.Sprintf("%d", u)
	}
	mem := "?"
	if m, err := dev.GlobalMemSize(); err == nil {
		mem = humanize.IBytes(m)
	}
	version, err := dev.Version()
	if err != nil {
		version = "?"
	}
	return []string{fmt.Sprintf("%d", index), platformName, name, typName, units, mem, version}
}

func main() {
	klog.InitFlags(nil)
	rootCmd.Flags().StringVarP(&flagType, "type", "t", "all",
		"device type to list: cpu, gpu, accelerator or all")
	if err := rootCmd.Execute(); err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}
}
