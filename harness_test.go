package hermetica

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/blas"
)

func caseArgs(function string) Arguments {
	arg := DefaultArguments()
	arg.Function = function
	arg.UnitCheck = true
	arg.NormCheck = true
	arg.Seed = 69069
	return arg
}

// Full flow for the strided-batched rank-2k driver: a small upper
// NoTrans problem with two batch instances and beta zero.
func TestRunZher2kStridedBatchedCase(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	arg := caseArgs("her2k_strided_batched")
	arg.N, arg.K = 4, 3
	arg.Lda, arg.Ldb, arg.Ldc = 3, 3, 4
	arg.Alpha = complex(1, 0)
	arg.Beta = 0
	arg.BatchCount = 2

	res, err := RunZher2kStridedBatchedCase(ctx, arg)
	if err != nil {
		t.Fatalf("case failed: %v", err)
	}
	if res.Skipped {
		t.Fatalf("valid shape must not be skipped")
	}
	if !strings.HasPrefix(res.Name, "z_her2k_strided_batched_") {
		t.Errorf("unexpected case name %q", res.Name)
	}
	// Bitwise-equal results score exactly zero.
	if res.Metrics.ErrHost != 0 || res.Metrics.ErrDevice != 0 {
		t.Errorf("norm scores: host %v device %v, want 0", res.Metrics.ErrHost, res.Metrics.ErrDevice)
	}
}

func TestRunZher2kStridedBatchedCaseVariants(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	for _, uplo := range []blas.Uplo{blas.Upper, blas.Lower} {
		for _, trans := range []blas.Transpose{blas.NoTrans, blas.ConjTrans} {
			arg := caseArgs("her2k_strided_batched")
			arg.Uplo = uplo
			arg.Trans = trans
			arg.N, arg.K = 8, 5
			arg.Lda, arg.Ldb, arg.Ldc = 9, 9, 8
			arg.Alpha = complex(2, -1)
			arg.Beta = 2
			arg.StrideScale = 1.5
			arg.BatchCount = 3

			if _, err := RunZher2kStridedBatchedCase(ctx, arg); err != nil {
				t.Errorf("uplo %v trans %v: %v", uplo, trans, err)
			}
		}
	}
}

func TestRunZherBatchedCase(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	arg := caseArgs("her_batched")
	arg.N = 16
	arg.Lda = 16
	arg.IncX = 1
	arg.Alpha = 2
	arg.BatchCount = 4

	res, err := RunZherBatchedCase(ctx, arg)
	if err != nil {
		t.Fatalf("case failed: %v", err)
	}
	if res.Skipped {
		t.Fatalf("valid shape must not be skipped")
	}
	if res.Metrics.ErrHost != 0 || res.Metrics.ErrDevice != 0 {
		t.Errorf("norm scores: host %v device %v, want 0", res.Metrics.ErrHost, res.Metrics.ErrDevice)
	}
}

func TestRunZherBatchedCaseNegativeIncX(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	arg := caseArgs("her_batched")
	arg.N = 7
	arg.Lda = 8
	arg.IncX = -2
	arg.Alpha = 3
	arg.BatchCount = 2

	if _, err := RunZherBatchedCase(ctx, arg); err != nil {
		t.Errorf("negative incx case failed: %v", err)
	}
}

func TestRunZhprCase(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	arg := caseArgs("hpr")
	arg.Uplo = blas.Lower
	arg.N = 12
	arg.IncX = 1
	arg.Alpha = 2

	res, err := RunZhprCase(ctx, arg)
	if err != nil {
		t.Fatalf("case failed: %v", err)
	}
	if res.Skipped {
		t.Fatalf("valid shape must not be skipped")
	}
}

func TestRunZherkCase(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	for _, trans := range []blas.Transpose{blas.NoTrans, blas.ConjTrans} {
		arg := caseArgs("herk")
		arg.Trans = trans
		arg.N, arg.K = 10, 6
		if trans == blas.NoTrans {
			arg.Lda = 6
		} else {
			arg.Lda = 10
		}
		arg.Ldc = 10
		arg.Alpha = 2
		arg.Beta = 3

		res, err := RunZherkCase(ctx, arg)
		if err != nil {
			t.Fatalf("trans %v: case failed: %v", trans, err)
		}
		if res.Skipped {
			t.Fatalf("trans %v: valid shape must not be skipped", trans)
		}
	}
}

// Invalid and empty shapes take the probe path: the driver asserts the
// adapter's status instead of running the kernel.
func TestCaseDriversProbeBadShapes(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	bad := caseArgs("her_batched")
	bad.N = -1
	bad.Lda = 1
	res, err := RunZherBatchedCase(ctx, bad)
	if err != nil {
		t.Fatalf("invalid-shape probe failed: %v", err)
	}
	if !res.Skipped {
		t.Errorf("invalid shape must be reported as skipped")
	}

	empty := caseArgs("her_batched")
	empty.N = 8
	empty.Lda = 8
	empty.BatchCount = 0
	res, err = RunZherBatchedCase(ctx, empty)
	if err != nil {
		t.Fatalf("empty-shape probe failed: %v", err)
	}
	if !res.Skipped {
		t.Errorf("empty shape must be reported as skipped")
	}

	badHpr := caseArgs("hpr")
	badHpr.N = 3
	badHpr.IncX = 0
	res, err = RunZhprCase(ctx, badHpr)
	if err != nil {
		t.Fatalf("hpr invalid-shape probe failed: %v", err)
	}
	if !res.Skipped {
		t.Errorf("hpr invalid shape must be reported as skipped")
	}
}

func TestRunCaseDispatch(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	arg := caseArgs("hpr")
	arg.N = 6
	if _, err := RunCase(ctx, "hpr", arg); err != nil {
		t.Errorf("dispatch hpr failed: %v", err)
	}
	if _, err := RunCase(ctx, "syr2k", arg); !IsInvalidValueError(err) {
		t.Errorf("unknown function: expected invalid-value error, got %v", err)
	}

	arg.Precision = 'c'
	if _, err := RunCase(ctx, "hpr", arg); !IsInvalidValueError(err) {
		t.Errorf("unsupported precision: expected invalid-value error, got %v", err)
	}
}

func TestCaseTiming(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	arg := caseArgs("herk")
	arg.UnitCheck = false
	arg.NormCheck = false
	arg.Timing = true
	arg.ColdIters = 1
	arg.HotIters = 2
	arg.N, arg.K = 8, 4
	arg.Lda, arg.Ldc = 4, 8
	arg.Alpha, arg.Beta = 1, 1

	res, err := RunZherkCase(ctx, arg)
	if err != nil {
		t.Fatalf("timing case failed: %v", err)
	}
	if res.Metrics.Time <= 0 {
		t.Errorf("expected positive per-iteration time, got %v", res.Metrics.Time)
	}
	if res.Metrics.Gflops != HerkGflopCount(8, 4) {
		t.Errorf("flop model mismatch: %v", res.Metrics.Gflops)
	}
	if res.Metrics.HasErrors {
		t.Errorf("timing-only run must not report norm scores")
	}
}
