package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hermetica-io/hermetica"
)

var benchCommand = &cobra.Command{
	Use:   "bench",
	Short: "Sweep problem sizes and report kernel throughput",
	Run: func(cmd *cobra.Command, args []string) {
		arg := argumentsFromFlags(cmd)
		arg.Function, _ = cmd.Flags().GetString("function")
		arg.UnitCheck = false
		arg.NormCheck, _ = cmd.Flags().GetBool("norm-check")
		arg.Timing = true

		sizes, _ := cmd.Flags().GetIntSlice("sizes")
		if len(sizes) == 0 {
			sizes = []int{arg.N}
		}
		session, _ := cmd.Flags().GetString("session")
		if session != "" {
			if err := hermetica.InitBenchLogger(session); err != nil {
				log.Fatal().Err(err).Msg("failed to start benchmark session")
			}
		}

		ctx := hermetica.NewContext()
		defer ctx.Destroy()
		log.Info().
			Str("device", hermetica.GetDevice().Name).
			Str("function", arg.Function).
			Ints("sizes", sizes).
			Msg("starting sweep")

		bar := progressbar.Default(int64(len(sizes)))
		results := make([]*hermetica.CaseResult, 0, len(sizes))
		for _, n := range sizes {
			caseArg := arg
			caseArg.N = n
			caseArg.K = n
			caseArg.Lda, caseArg.Ldb, caseArg.Ldc = 0, 0, 0
			fillDefaults(&caseArg)

			res, err := hermetica.RunCase(ctx, caseArg.Function, caseArg)
			if session != "" {
				hermetica.LogBenchResult(benchResult(caseArg, res, err))
			}
			if err != nil {
				log.Fatal().Err(err).Int("n", n).Msg("benchmark case failed")
			}
			results = append(results, res)
			bar.Add(1)
		}
		fmt.Println()
		printResults(results)
	},
}

func init() {
	registerCaseFlags(benchCommand)
	benchCommand.Flags().IntSlice("sizes", nil, "matrix orders to sweep (overrides -n)")
	benchCommand.Flags().Bool("norm-check", false, "also report Frobenius-norm error scores")
	benchCommand.Flags().String("session", "", "record results to bench_logs/<session>_<time>.json")
}

func benchResult(arg hermetica.Arguments, res *hermetica.CaseResult, err error) hermetica.BenchResult {
	br := hermetica.BenchResult{Status: "pass"}
	if err != nil {
		br.Status = "fail"
		br.Error = err.Error()
	}
	if res != nil {
		br.Name = res.Name
		br.TimeUs = float64(res.Metrics.Time.Microseconds())
		br.Gflops = res.Metrics.GflopsPerSec()
		br.GbytesSec = res.Metrics.GbytesPerSec()
		br.ErrHost = res.Metrics.ErrHost
		br.ErrDevice = res.Metrics.ErrDevice
	}
	return br
}
