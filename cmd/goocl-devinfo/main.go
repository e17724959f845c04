// goocl-devinfo prints OpenCL device attributes by symbolic name.
package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

var (
	flagAll    bool
	flagList   bool
	flagDevice int
	flagName   string
)

var rootCmd = &cobra.Command{
	Use:   "goocl-devinfo [attribute ...]",
	Short: "Query OpenCL device attributes",
	Long: `goocl-devinfo prints device attributes by symbolic name, e.g.
MAX_WORK_GROUP_SIZE. An attribute argument that is not an exact name
selects every attribute starting with it. Without arguments a small
default set is shown; --all prints everything.

The runtime is selected by the ` + ocl.GOOCL_DRIVER + ` environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagList {
			return listAttributes()
		}
		queries, err := resolveQueries(args)
		if err != nil {
			return err
		}
		devices, err := selectDevices()
		if err != nil {
			return err
		}
		defer releaseDevices(devices)
		return report(devices, queries)
	},
}

// defaultAttributes is what a bare invocation reports.
var defaultAttributes = []string{
	"NAME", "VENDOR", "TYPE", "VERSION",
	"MAX_COMPUTE_UNITS", "MAX_WORK_GROUP_SIZE", "MAX_WORK_ITEM_SIZES",
	"GLOBAL_MEM_SIZE", "LOCAL_MEM_SIZE",
}

func resolveQueries(args []string) ([]goocl.DeviceQuery, error) {
	if flagAll {
		return goocl.DeviceQueries(), nil
	}
	if len(args) == 0 {
		args = defaultAttributes
	}
	var out []goocl.DeviceQuery
	for _, arg := range args {
		if q, ok := goocl.DeviceQueryByName(arg); ok {
			out = append(out, q)
			continue
		}
		matched := goocl.DeviceQueriesByPrefix(arg)
		if len(matched) == 0 {
			return nil, fmt.Errorf("no device attribute matches %q (try --list)", arg)
		}
		out = append(out, matched...)
	}
	return out, nil
}

func selectDevices() ([]*goocl.Device, error) {
	var filters goocl.Filters
	if flagName != "" {
		filters.AddIndep(goocl.FilterNameContains(flagName))
	}
	if flagDevice >= 0 {
		filters.AddDep(goocl.ByIndex(flagDevice))
	}
	return filters.Select()
}

func releaseDevices(devices []*goocl.Device) {
	for _, dev := range devices {
		if err := dev.Release(); err != nil {
			klog.Warningf("releasing device: %v", err)
		}
	}
}

func listAttributes() error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Attribute", "Description"})
	table.SetAutoWrapText(false)
	for _, q := range goocl.DeviceQueries() {
		table.Append([]string{q.Name, q.Description})
	}
	table.Render()
	return nil
}

func report(devices []*goocl.Device, queries []goocl.DeviceQuery) error {
	for i, dev := range devices {
		name, err := dev.Name()
		if err != nil {
			return err
		}
		fmt.Printf("Device %d: %s\n", i, name)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Attribute", "Value"})
		table.SetAutoWrapText(false)
		for _, q := range queries {
			value, err := q.Get(dev)
			if err != nil {
				return fmt.Errorf("querying %s: %w", q.Name, err)
			}
			table.Append([]string{q.Name, value})
		}
		table.Render()
		fmt.Println()
	}
	return nil
}

func main() {
	klog.InitFlags(nil)
	rootCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "print every known attribute")
	rootCmd.Flags().BoolVarP(&flagList, "list", "l", false, "list the known attribute names and exit")
	rootCmd.Flags().IntVarP(&flagDevice, "device", "d", -1, "restrict to the device with this index")
	rootCmd.Flags().StringVarP(&flagName, "name", "n", "",
		"restrict to devices whose name, vendor or platform contains this string")
	if err := rootCmd.Execute(); err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}
}
