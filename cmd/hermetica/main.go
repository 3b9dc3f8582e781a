// Command hermetica runs reference-comparison test cases and benchmarks
// for the emulated-device Hermitian BLAS kernels.
package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gonum.org/v1/gonum/blas"

	"github.com/hermetica-io/hermetica"
)

var rootCommand = &cobra.Command{
	Use:   "hermetica",
	Short: "Test and benchmark driver for the emulated-device Hermitian kernels",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(viper.GetString("log-level"), viper.GetString("log-format"))
	},
}

func init() {
	rootCommand.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCommand.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCommand.PersistentFlags().String("config", "", "config file with flag defaults")
	rootCommand.AddCommand(runCommand)
	rootCommand.AddCommand(benchCommand)
	rootCommand.AddCommand(infoCommand)

	cobra.OnInitialize(func() {
		if cfg, _ := rootCommand.PersistentFlags().GetString("config"); cfg != "" {
			viper.SetConfigFile(cfg)
			if err := viper.ReadInConfig(); err != nil {
				log.Fatal().Err(err).Str("config", cfg).Msg("failed to read config file")
			}
		}
	})
	if err := viper.BindPFlags(rootCommand.PersistentFlags()); err != nil {
		log.Fatal().Err(err).Msg("failed to bind flags")
	}
}

func setupLogger(level, format string) {
	var logLevel zerolog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		logLevel = zerolog.DebugLevel
	case "WARN":
		logLevel = zerolog.WarnLevel
	case "ERROR":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if strings.ToLower(format) == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}
}

// argumentsFromFlags assembles a case argument set from the flag values
// registered by registerCaseFlags.
func argumentsFromFlags(cmd *cobra.Command) hermetica.Arguments {
	arg := hermetica.DefaultArguments()
	flags := cmd.Flags()

	arg.N, _ = flags.GetInt("n")
	arg.K, _ = flags.GetInt("k")
	arg.Lda, _ = flags.GetInt("lda")
	arg.Ldb, _ = flags.GetInt("ldb")
	arg.Ldc, _ = flags.GetInt("ldc")
	arg.IncX, _ = flags.GetInt("incx")
	arg.BatchCount, _ = flags.GetInt("batch-count")
	arg.StrideScale, _ = flags.GetFloat64("stride-scale")
	arg.ColdIters, _ = flags.GetInt("cold-iters")
	arg.HotIters, _ = flags.GetInt("iters")
	arg.Seed, _ = flags.GetInt64("seed")

	alphaRe, _ := flags.GetFloat64("alpha")
	alphaIm, _ := flags.GetFloat64("alphai")
	arg.Alpha = complex(alphaRe, alphaIm)
	betaRe, _ := flags.GetFloat64("beta")
	arg.Beta = complex(betaRe, 0)

	if uplo, _ := flags.GetString("uplo"); strings.EqualFold(uplo, "L") {
		arg.Uplo = blas.Lower
	} else {
		arg.Uplo = blas.Upper
	}
	if trans, _ := flags.GetString("trans"); strings.EqualFold(trans, "C") {
		arg.Trans = blas.ConjTrans
	} else {
		arg.Trans = blas.NoTrans
	}
	return arg
}

func registerCaseFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("function", "f", "her2k_strided_batched",
		"kernel variant (her_batched, hpr, herk, her2k_strided_batched)")
	flags.String("uplo", "U", "triangle to update (U or L)")
	flags.String("trans", "N", "transpose operation (N or C)")
	flags.IntP("n", "n", 128, "order of the Hermitian output")
	flags.IntP("k", "k", 128, "inner dimension of rank-k updates")
	flags.Int("lda", 0, "leading dimension of A (0 = minimal)")
	flags.Int("ldb", 0, "leading dimension of B (0 = minimal)")
	flags.Int("ldc", 0, "leading dimension of C (0 = minimal)")
	flags.Int("incx", 1, "stride of the x vector")
	flags.Int("batch-count", 2, "number of problem instances")
	flags.Float64("stride-scale", 1.0, "padding multiplier for batch strides")
	flags.Float64("alpha", 1.0, "real part of alpha")
	flags.Float64("alphai", 0.0, "imaginary part of alpha")
	flags.Float64("beta", 1.0, "beta (real)")
	flags.Int("cold-iters", hermetica.DefaultColdIters, "warm-up iterations before timing")
	flags.Int("iters", hermetica.DefaultHotIters, "timed iterations")
	flags.Int64("seed", 69069, "random seed for input data")
}

// fillDefaults replaces zero leading dimensions with the minimal legal
// extents for the requested shape.
func fillDefaults(arg *hermetica.Arguments) {
	cols := arg.K
	if arg.Trans != blas.NoTrans {
		cols = arg.N
	}
	if arg.Lda == 0 {
		if arg.Function == "her_batched" || arg.Function == "hpr" {
			arg.Lda = max(1, arg.N)
		} else {
			arg.Lda = max(1, cols)
		}
	}
	if arg.Ldb == 0 {
		arg.Ldb = max(1, cols)
	}
	if arg.Ldc == 0 {
		arg.Ldc = max(1, arg.N)
	}
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
