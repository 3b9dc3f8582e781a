package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hermetica-io/hermetica"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one reference-comparison test case",
	Run: func(cmd *cobra.Command, args []string) {
		arg := argumentsFromFlags(cmd)
		arg.Function, _ = cmd.Flags().GetString("function")
		arg.UnitCheck, _ = cmd.Flags().GetBool("unit-check")
		arg.NormCheck, _ = cmd.Flags().GetBool("norm-check")
		arg.Timing, _ = cmd.Flags().GetBool("timing")
		fillDefaults(&arg)

		ctx := hermetica.NewContext()
		defer ctx.Destroy()

		res, err := hermetica.RunCase(ctx, arg.Function, arg)
		if err != nil {
			log.Fatal().Err(err).Str("function", arg.Function).Msg("case failed")
		}
		if res.Skipped {
			log.Info().Str("case", res.Name).Msg("shape probe only, kernel not run")
			return
		}
		log.Info().Str("case", res.Name).Msg("case passed")
		printResults([]*hermetica.CaseResult{res})
	},
}

func init() {
	registerCaseFlags(runCommand)
	runCommand.Flags().Bool("unit-check", true, "verify bitwise equality against the oracle")
	runCommand.Flags().Bool("norm-check", false, "report Frobenius-norm error scores")
	runCommand.Flags().Bool("timing", false, "time the device-pointer-mode path")
}

func printResults(results []*hermetica.CaseResult) {
	table := tablewriter.NewWriter(os.Stdout)
	header := []string{"case", "us", "gflop/s", "gbyte/s"}
	hasErrors := false
	for _, r := range results {
		if r.Metrics.HasErrors {
			hasErrors = true
		}
	}
	if hasErrors {
		header = append(header, "err_host", "err_device")
	}
	table.SetHeader(header)
	for _, r := range results {
		if r.Skipped {
			continue
		}
		row := []string{
			r.Name,
			fmt.Sprintf("%.1f", float64(r.Metrics.Time.Microseconds())),
			fmt.Sprintf("%.4g", r.Metrics.GflopsPerSec()),
			fmt.Sprintf("%.4g", r.Metrics.GbytesPerSec()),
		}
		if hasErrors {
			row = append(row, fmt.Sprintf("%.3e", r.Metrics.ErrHost), fmt.Sprintf("%.3e", r.Metrics.ErrDevice))
		}
		table.Append(row)
	}
	table.Render()
}
