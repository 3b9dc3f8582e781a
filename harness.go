// Package hermetica end-to-end test-case drivers. Each driver runs the
// full reference-comparison flow for one kernel variant: allocate host
// and device buffers, initialize inputs, invoke the kernel once with
// host-pointer scalars and once with device-pointer scalars, compute
// the oracle result, verify, and optionally time the device path.
package hermetica

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/blas"
)

// CaseResult aggregates everything a case driver measured.
type CaseResult struct {
	Name    string
	Skipped bool // shape was invalid or empty; only the status probe ran
	Metrics Metrics
}

func makeBatch(batchCount, elems int) [][]complex128 {
	out := make([][]complex128, batchCount)
	for i := range out {
		out[i] = make([]complex128, elems)
	}
	return out
}

func cloneBatch(src [][]complex128) [][]complex128 {
	out := make([][]complex128, len(src))
	for i := range src {
		out[i] = make([]complex128, len(src[i]))
		copy(out[i], src[i])
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RunZherBatchedCase drives the batched complex128 Hermitian rank-1
// update. The first unit check covers the host-pointer-mode result, the
// second the device-pointer-mode result.
func RunZherBatchedCase(ctx *Context, arg Arguments) (*CaseResult, error) {
	arg.Function = "her_batched"
	res := &CaseResult{Name: HerBatchedModel.TestName(arg)}

	n, lda, incX, batch := arg.N, arg.Lda, arg.IncX, arg.BatchCount
	alpha := real(arg.Alpha)

	invalid := n < 0 || lda < max(1, n) || incX == 0 || batch < 0
	if invalid || n == 0 || batch == 0 {
		// Probe the adapter with empty buffers: invalid shapes must
		// report invalid-value, empty shapes must succeed as a no-op.
		if err := ctx.SetPointerMode(PointerModeHost); err != nil {
			return nil, err
		}
		err := ctx.ZherBatched(arg.Uplo, n, HostScalar(alpha), nil, incX, nil, lda, batch)
		if invalid {
			if !IsInvalidValueError(err) {
				return nil, NewExecutionError(res.Name, "expected invalid-value status for bad shape", err)
			}
		} else if err != nil {
			return nil, NewExecutionError(res.Name, "expected success for empty shape", err)
		}
		res.Skipped = true
		return res, nil
	}

	aSize := lda * n
	xSize := n * abs(incX)

	hA, err := NewHostDeviceBatch[complex128](ctx, aSize, batch)
	if err != nil {
		return nil, err
	}
	defer hA.Free()
	hx, err := NewHostDeviceBatch[complex128](ctx, xSize, batch)
	if err != nil {
		return nil, err
	}
	defer hx.Free()
	dAlpha, err := ctx.Malloc(8)
	if err != nil {
		return nil, err
	}
	defer ctx.Free(dAlpha)

	g := NewInitializer(arg.Seed, arg.Alpha, arg.Beta)
	for b := 0; b < batch; b++ {
		g.ZMatrix(hA.Host[b], n, n, lda, NeverSetNaN, true)
	}
	for b := 0; b < batch; b++ {
		g.ZVector(hx.Host[b], n, incX, AlphaSetsNaN)
	}

	hAGold := cloneBatch(hA.Host)
	hAHost := makeBatch(batch, aSize)
	hADevice := makeBatch(batch, aSize)

	if err := hA.ToDevice(); err != nil {
		return nil, err
	}
	if err := hx.ToDevice(); err != nil {
		return nil, err
	}
	if err := ctx.Memcpy(dAlpha, []float64{alpha}, 8, MemcpyHostToDevice); err != nil {
		return nil, err
	}

	if arg.UnitCheck || arg.NormCheck {
		if err := ctx.SetPointerMode(PointerModeHost); err != nil {
			return nil, err
		}
		if err := ctx.ZherBatched(arg.Uplo, n, HostScalar(alpha), hx.Devices(), incX, hA.Devices(), lda, batch); err != nil {
			return nil, err
		}
		if err := hA.FromDeviceInto(hAHost); err != nil {
			return nil, err
		}

		// Restore pristine inputs before the device-pointer-mode run so
		// it does not accumulate on top of the first result.
		if err := hA.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		if err := ctx.ZherBatched(arg.Uplo, n, DeviceScalar[float64](dAlpha), hx.Devices(), incX, hA.Devices(), lda, batch); err != nil {
			return nil, err
		}
		if err := hA.FromDeviceInto(hADevice); err != nil {
			return nil, err
		}

		Reference{}.ZherBatched(arg.Uplo, n, alpha, hx.Host, incX, hAGold, lda, batch)

		if arg.UnitCheck {
			if err := UnitCheckZBatched(n, n, lda, batch, hAGold, hAHost); err != nil {
				return res, err
			}
			if err := UnitCheckZBatched(n, n, lda, batch, hAGold, hADevice); err != nil {
				return res, err
			}
		}
		if arg.NormCheck {
			res.Metrics.ErrHost = NormCheckZBatched(arg.Uplo, n, lda, batch, hAGold, hAHost)
			res.Metrics.ErrDevice = NormCheckZBatched(arg.Uplo, n, lda, batch, hAGold, hADevice)
			res.Metrics.HasErrors = true
		}
	}

	if arg.Timing {
		if err := hA.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		elapsed, err := RunTimed(ctx, BenchConfig{ColdIters: arg.ColdIters, HotIters: arg.HotIters}, func() error {
			return ctx.ZherBatched(arg.Uplo, n, DeviceScalar[float64](dAlpha), hx.Devices(), incX, hA.Devices(), lda, batch)
		})
		if err != nil {
			return nil, err
		}
		res.Metrics.Time = elapsed / time.Duration(arg.HotIters)
		res.Metrics.Gflops = HerGflopCount(n) * float64(batch)
		res.Metrics.Gbytes = HerGbyteCount(n, 16) * float64(batch)
	}

	return res, nil
}

// RunZhprCase drives the packed complex128 Hermitian rank-1 update.
func RunZhprCase(ctx *Context, arg Arguments) (*CaseResult, error) {
	arg.Function = "hpr"
	res := &CaseResult{Name: HprModel.TestName(arg)}

	n, incX := arg.N, arg.IncX
	alpha := real(arg.Alpha)

	invalid := n < 0 || incX == 0
	if invalid || n == 0 {
		if err := ctx.SetPointerMode(PointerModeHost); err != nil {
			return nil, err
		}
		err := ctx.Zhpr(arg.Uplo, n, HostScalar(alpha), DevicePtr{}, incX, DevicePtr{})
		if invalid {
			if !IsInvalidValueError(err) {
				return nil, NewExecutionError(res.Name, "expected invalid-value status for bad shape", err)
			}
		} else if err != nil {
			return nil, NewExecutionError(res.Name, "expected success for empty shape", err)
		}
		res.Skipped = true
		return res, nil
	}

	aSize := PackedLen(n)
	xSize := n * abs(incX)

	hA, err := NewHostDevice[complex128](ctx, aSize)
	if err != nil {
		return nil, err
	}
	defer hA.Free()
	hx, err := NewHostDevice[complex128](ctx, xSize)
	if err != nil {
		return nil, err
	}
	defer hx.Free()
	dAlpha, err := ctx.Malloc(8)
	if err != nil {
		return nil, err
	}
	defer ctx.Free(dAlpha)

	g := NewInitializer(arg.Seed, arg.Alpha, arg.Beta)
	g.ZPacked(hA.Host, arg.Uplo, n, NeverSetNaN)
	g.ZVector(hx.Host, n, incX, AlphaSetsNaN)

	hAGold := make([]complex128, aSize)
	copy(hAGold, hA.Host)
	hAHost := make([]complex128, aSize)
	hADevice := make([]complex128, aSize)

	if err := hA.ToDevice(); err != nil {
		return nil, err
	}
	if err := hx.ToDevice(); err != nil {
		return nil, err
	}
	if err := ctx.Memcpy(dAlpha, []float64{alpha}, 8, MemcpyHostToDevice); err != nil {
		return nil, err
	}

	if arg.UnitCheck || arg.NormCheck {
		if err := ctx.SetPointerMode(PointerModeHost); err != nil {
			return nil, err
		}
		if err := ctx.Zhpr(arg.Uplo, n, HostScalar(alpha), hx.Device(), incX, hA.Device()); err != nil {
			return nil, err
		}
		if err := hA.FromDeviceInto(hAHost); err != nil {
			return nil, err
		}

		if err := hA.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		if err := ctx.Zhpr(arg.Uplo, n, DeviceScalar[float64](dAlpha), hx.Device(), incX, hA.Device()); err != nil {
			return nil, err
		}
		if err := hA.FromDeviceInto(hADevice); err != nil {
			return nil, err
		}

		Reference{}.Zhpr(arg.Uplo, n, alpha, hx.Host, incX, hAGold)

		if arg.UnitCheck {
			if err := UnitCheckZGeneral(1, aSize, aSize, hAGold, hAHost); err != nil {
				return res, err
			}
			if err := UnitCheckZGeneral(1, aSize, aSize, hAGold, hADevice); err != nil {
				return res, err
			}
		}
		if arg.NormCheck {
			res.Metrics.ErrHost = NormCheckZPacked(n, hAGold, hAHost)
			res.Metrics.ErrDevice = NormCheckZPacked(n, hAGold, hADevice)
			res.Metrics.HasErrors = true
		}
	}

	if arg.Timing {
		if err := hA.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		elapsed, err := RunTimed(ctx, BenchConfig{ColdIters: arg.ColdIters, HotIters: arg.HotIters}, func() error {
			return ctx.Zhpr(arg.Uplo, n, DeviceScalar[float64](dAlpha), hx.Device(), incX, hA.Device())
		})
		if err != nil {
			return nil, err
		}
		res.Metrics.Time = elapsed / time.Duration(arg.HotIters)
		res.Metrics.Gflops = HprGflopCount(n)
		res.Metrics.Gbytes = HprGbyteCount(n, 16)
	}

	return res, nil
}

// RunZherkCase drives the complex128 Hermitian rank-k update.
func RunZherkCase(ctx *Context, arg Arguments) (*CaseResult, error) {
	arg.Function = "herk"
	res := &CaseResult{Name: HerkModel.TestName(arg)}

	n, k := arg.N, arg.K
	lda, ldc := arg.Lda, arg.Ldc
	alpha, beta := real(arg.Alpha), real(arg.Beta)
	cols := rankKCols(arg.Trans, n, k)
	rows := n
	if arg.Trans != blas.NoTrans {
		rows = k
	}

	if n < 0 || k < 0 || ldc < max(1, n) || lda < max(1, cols) {
		res.Skipped = true
		return res, nil
	}

	aSize := rows * lda
	if aSize == 0 {
		aSize = lda
	}
	cSize := n * ldc

	if n == 0 {
		res.Skipped = true
		return res, nil
	}

	hA, err := NewHostDevice[complex128](ctx, aSize)
	if err != nil {
		return nil, err
	}
	defer hA.Free()
	hC, err := NewHostDevice[complex128](ctx, cSize)
	if err != nil {
		return nil, err
	}
	defer hC.Free()
	dAlpha, err := ctx.Malloc(8)
	if err != nil {
		return nil, err
	}
	defer ctx.Free(dAlpha)
	dBeta, err := ctx.Malloc(8)
	if err != nil {
		return nil, err
	}
	defer ctx.Free(dBeta)

	g := NewInitializer(arg.Seed, arg.Alpha, arg.Beta)
	g.ZMatrix(hA.Host, rows, cols, lda, AlphaSetsNaN, false)
	g.ZMatrix(hC.Host, n, n, ldc, BetaSetsNaN, false)

	hCGold := make([]complex128, cSize)
	copy(hCGold, hC.Host)
	hCHost := make([]complex128, cSize)
	hCDevice := make([]complex128, cSize)

	if err := hA.ToDevice(); err != nil {
		return nil, err
	}
	if err := hC.ToDevice(); err != nil {
		return nil, err
	}
	if err := ctx.Memcpy(dAlpha, []float64{alpha}, 8, MemcpyHostToDevice); err != nil {
		return nil, err
	}
	if err := ctx.Memcpy(dBeta, []float64{beta}, 8, MemcpyHostToDevice); err != nil {
		return nil, err
	}

	if arg.UnitCheck || arg.NormCheck {
		if err := ctx.SetPointerMode(PointerModeHost); err != nil {
			return nil, err
		}
		if err := ctx.Zherk(arg.Uplo, arg.Trans, n, k, HostScalar(alpha), hA.Device(), lda, HostScalar(beta), hC.Device(), ldc); err != nil {
			return nil, err
		}
		if err := hC.FromDeviceInto(hCHost); err != nil {
			return nil, err
		}

		if err := hC.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		if err := ctx.Zherk(arg.Uplo, arg.Trans, n, k, DeviceScalar[float64](dAlpha), hA.Device(), lda, DeviceScalar[float64](dBeta), hC.Device(), ldc); err != nil {
			return nil, err
		}
		if err := hC.FromDeviceInto(hCDevice); err != nil {
			return nil, err
		}

		Reference{}.Zherk(arg.Uplo, arg.Trans, n, k, alpha, hA.Host, lda, beta, hCGold, ldc)

		if arg.UnitCheck {
			if err := UnitCheckZGeneral(n, n, ldc, hCGold, hCHost); err != nil {
				return res, err
			}
			if err := UnitCheckZGeneral(n, n, ldc, hCGold, hCDevice); err != nil {
				return res, err
			}
		}
		if arg.NormCheck {
			res.Metrics.ErrHost = NormCheckZHermitian(arg.Uplo, n, ldc, hCGold, hCHost)
			res.Metrics.ErrDevice = NormCheckZHermitian(arg.Uplo, n, ldc, hCGold, hCDevice)
			res.Metrics.HasErrors = true
		}
	}

	if arg.Timing {
		if err := hC.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		elapsed, err := RunTimed(ctx, BenchConfig{ColdIters: arg.ColdIters, HotIters: arg.HotIters}, func() error {
			return ctx.Zherk(arg.Uplo, arg.Trans, n, k, DeviceScalar[float64](dAlpha), hA.Device(), lda, DeviceScalar[float64](dBeta), hC.Device(), ldc)
		})
		if err != nil {
			return nil, err
		}
		res.Metrics.Time = elapsed / time.Duration(arg.HotIters)
		res.Metrics.Gflops = HerkGflopCount(n, k)
		res.Metrics.Gbytes = HerkGbyteCount(n, k, 16)
	}

	return res, nil
}

// RunZher2kStridedBatchedCase drives the strided-batched complex128
// Hermitian rank-2k update, the end-to-end scenario of the harness.
func RunZher2kStridedBatchedCase(ctx *Context, arg Arguments) (*CaseResult, error) {
	arg.Function = "her2k_strided_batched"
	res := &CaseResult{Name: Her2kStridedBatchedModel.TestName(arg)}

	n, k, batch := arg.N, arg.K, arg.BatchCount
	lda, ldb, ldc := arg.Lda, arg.Ldb, arg.Ldc
	alpha := arg.Alpha
	beta := real(arg.Beta)

	cols := rankKCols(arg.Trans, n, k)
	rows := n
	if arg.Trans != blas.NoTrans {
		rows = k
	}

	if n < 0 || k < 0 || ldc < max(1, n) || lda < max(1, cols) || ldb < max(1, cols) || batch < 0 || n == 0 || batch == 0 {
		res.Skipped = true
		return res, nil
	}

	strideA := arg.Stride(max(1, rows) * lda)
	strideB := arg.Stride(max(1, rows) * ldb)
	strideC := arg.Stride(n * ldc)
	aSize := strideA * batch
	bSize := strideB * batch
	cSize := strideC * batch

	hA, err := NewHostDevice[complex128](ctx, aSize)
	if err != nil {
		return nil, err
	}
	defer hA.Free()
	hB, err := NewHostDevice[complex128](ctx, bSize)
	if err != nil {
		return nil, err
	}
	defer hB.Free()
	hC, err := NewHostDevice[complex128](ctx, cSize)
	if err != nil {
		return nil, err
	}
	defer hC.Free()
	dAlpha, err := ctx.Malloc(16)
	if err != nil {
		return nil, err
	}
	defer ctx.Free(dAlpha)
	dBeta, err := ctx.Malloc(8)
	if err != nil {
		return nil, err
	}
	defer ctx.Free(dBeta)

	g := NewInitializer(arg.Seed, arg.Alpha, arg.Beta)
	g.ZMatrixStrided(hA.Host, rows, cols, lda, strideA, batch, AlphaSetsNaN, false)
	g.ZMatrixStrided(hB.Host, rows, cols, ldb, strideB, batch, NeverSetNaN, false)
	g.ZMatrixStrided(hC.Host, n, n, ldc, strideC, batch, NeverSetNaN, false)

	hCGold := make([]complex128, cSize)
	copy(hCGold, hC.Host)
	hCHost := make([]complex128, cSize)
	hCDevice := make([]complex128, cSize)

	if err := hA.ToDevice(); err != nil {
		return nil, err
	}
	if err := hB.ToDevice(); err != nil {
		return nil, err
	}
	if err := hC.ToDevice(); err != nil {
		return nil, err
	}
	if err := ctx.Memcpy(dAlpha, []complex128{alpha}, 16, MemcpyHostToDevice); err != nil {
		return nil, err
	}
	if err := ctx.Memcpy(dBeta, []float64{beta}, 8, MemcpyHostToDevice); err != nil {
		return nil, err
	}

	if arg.UnitCheck || arg.NormCheck {
		if err := ctx.SetPointerMode(PointerModeHost); err != nil {
			return nil, err
		}
		if err := ctx.Zher2kStridedBatched(arg.Uplo, arg.Trans, n, k, HostScalar(alpha), hA.Device(), lda, strideA, hB.Device(), ldb, strideB, HostScalar(beta), hC.Device(), ldc, strideC, batch); err != nil {
			return nil, err
		}
		if err := hC.FromDeviceInto(hCHost); err != nil {
			return nil, err
		}

		if err := hC.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		if err := ctx.Zher2kStridedBatched(arg.Uplo, arg.Trans, n, k, DeviceScalar[complex128](dAlpha), hA.Device(), lda, strideA, hB.Device(), ldb, strideB, DeviceScalar[float64](dBeta), hC.Device(), ldc, strideC, batch); err != nil {
			return nil, err
		}
		if err := hC.FromDeviceInto(hCDevice); err != nil {
			return nil, err
		}

		Reference{}.Zher2kStridedBatched(arg.Uplo, arg.Trans, n, k, alpha, hA.Host, lda, strideA, hB.Host, ldb, strideB, beta, hCGold, ldc, strideC, batch)

		if arg.UnitCheck {
			if err := UnitCheckZGeneralStrided(n, n, ldc, strideC, batch, hCGold, hCHost); err != nil {
				return res, err
			}
			if err := UnitCheckZGeneralStrided(n, n, ldc, strideC, batch, hCGold, hCDevice); err != nil {
				return res, err
			}
		}
		if arg.NormCheck {
			res.Metrics.ErrHost = NormCheckZHermitianStrided(arg.Uplo, n, ldc, strideC, batch, hCGold, hCHost)
			res.Metrics.ErrDevice = NormCheckZHermitianStrided(arg.Uplo, n, ldc, strideC, batch, hCGold, hCDevice)
			res.Metrics.HasErrors = true
		}
	}

	if arg.Timing {
		if err := hC.ToDevice(); err != nil {
			return nil, err
		}
		if err := ctx.SetPointerMode(PointerModeDevice); err != nil {
			return nil, err
		}
		elapsed, err := RunTimed(ctx, BenchConfig{ColdIters: arg.ColdIters, HotIters: arg.HotIters}, func() error {
			return ctx.Zher2kStridedBatched(arg.Uplo, arg.Trans, n, k, DeviceScalar[complex128](dAlpha), hA.Device(), lda, strideA, hB.Device(), ldb, strideB, DeviceScalar[float64](dBeta), hC.Device(), ldc, strideC, batch)
		})
		if err != nil {
			return nil, err
		}
		res.Metrics.Time = elapsed / time.Duration(arg.HotIters)
		res.Metrics.Gflops = Her2kGflopCount(n, k) * float64(batch)
		res.Metrics.Gbytes = Her2kGbyteCount(n, k, 16) * float64(batch)
	}

	return res, nil
}

// RunCase dispatches an argument set to the driver for its kernel
// variant.
func RunCase(ctx *Context, function string, arg Arguments) (*CaseResult, error) {
	if arg.Precision != 'z' {
		return nil, NewInvalidValueError("RunCase", fmt.Sprintf("unsupported precision %q", arg.Precision))
	}
	switch function {
	case "her_batched":
		return RunZherBatchedCase(ctx, arg)
	case "hpr":
		return RunZhprCase(ctx, arg)
	case "herk":
		return RunZherkCase(ctx, arg)
	case "her2k_strided_batched":
		return RunZher2kStridedBatchedCase(ctx, arg)
	default:
		return nil, NewInvalidValueError("RunCase", fmt.Sprintf("unknown function %q", function))
	}
}
