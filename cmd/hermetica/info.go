package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hermetica-io/hermetica"
)

var infoCommand = &cobra.Command{
	Use:   "info",
	Short: "Show device and build information",
	Run: func(cmd *cobra.Command, args []string) {
		dev := hermetica.GetDevice()
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"property", "value"})
		version, sum := hermetica.Version()
		table.Append([]string{"version", version})
		if sum != "" {
			table.Append([]string{"checksum", sum})
		}
		table.Append([]string{"device", dev.Name})
		table.Append([]string{"simd", hermetica.SIMDLevel()})
		table.Append([]string{"cores", fmt.Sprintf("%d", dev.NumCores)})
		table.Append([]string{"memory", fmt.Sprintf("%.1f GiB", float64(dev.TotalMem)/(1<<30))})
		table.Render()
	},
}
