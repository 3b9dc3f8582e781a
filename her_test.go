package hermetica

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/blas"
)

// uploadZ places host data in fresh device memory.
func uploadZ(t testing.TB, ctx *Context, data []complex128) DevicePtr {
	t.Helper()
	ptr := MallocOrFail(t, ctx, len(data)*16)
	MemcpyOrFail(t, ctx, ptr, data, len(data)*16, MemcpyHostToDevice)
	return ptr
}

// downloadZ reads device memory back to a fresh host slice.
func downloadZ(t testing.TB, ctx *Context, ptr DevicePtr, elems int) []complex128 {
	t.Helper()
	out := make([]complex128, elems)
	MemcpyOrFail(t, ctx, out, ptr, elems*16, MemcpyDeviceToHost)
	return out
}

func TestZherMatchesReference(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, lda = 5, 6
	const alpha = 2.0
	g := NewInitializer(1, 1, 0)

	for _, uplo := range []blas.Uplo{blas.Upper, blas.Lower} {
		a := make([]complex128, n*lda)
		x := make([]complex128, n)
		g.ZMatrix(a, n, n, lda, NeverSetNaN, true)
		g.ZVector(x, n, 1, NeverSetNaN)

		want := make([]complex128, len(a))
		copy(want, a)
		Reference{}.Zher(uplo, n, alpha, x, 1, want, lda)

		dA := uploadZ(t, ctx, a)
		dX := uploadZ(t, ctx, x)
		defer FreeOrFail(t, ctx, dA)
		defer FreeOrFail(t, ctx, dX)

		if err := ctx.Zher(uplo, n, HostScalar(alpha), dX, 1, dA, lda); err != nil {
			t.Fatalf("Zher failed: %v", err)
		}
		got := downloadZ(t, ctx, dA, len(a))
		if err := UnitCheckZGeneral(n, n, lda, want, got); err != nil {
			t.Errorf("uplo %v: %v", uplo, err)
		}
	}
}

func TestZherSmallHandComputed(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	// A = [[1, 0], [*, 2]], x = (1+i, 2-i), alpha = 1, upper.
	a := []complex128{1, 0, complex(math.NaN(), math.NaN()), 2}
	x := []complex128{complex(1, 1), complex(2, -1)}

	dA := uploadZ(t, ctx, a)
	dX := uploadZ(t, ctx, x)
	defer FreeOrFail(t, ctx, dA)
	defer FreeOrFail(t, ctx, dX)

	if err := ctx.Zher(blas.Upper, 2, HostScalar(1.0), dX, 1, dA, 2); err != nil {
		t.Fatalf("Zher failed: %v", err)
	}
	got := downloadZ(t, ctx, dA, 4)

	// A[0][0] = 1 + |1+i|^2 = 3
	// A[0][1] = 0 + (1+i)*conj(2-i) = (1+i)(2+i) = 1+3i
	// A[1][1] = 2 + |2-i|^2 = 7
	if got[0] != 3 {
		t.Errorf("diagonal [0][0]: got %v, want 3", got[0])
	}
	if got[1] != complex(1, 3) {
		t.Errorf("off-diagonal [0][1]: got %v, want (1+3i)", got[1])
	}
	if got[3] != 7 {
		t.Errorf("diagonal [1][1]: got %v, want 7", got[3])
	}
	// The strictly-lower element must not be touched.
	if !isNaN128(got[2]) {
		t.Errorf("lower triangle written: got %v", got[2])
	}
}

func TestZherNegativeIncX(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, lda = 4, 4
	g := NewInitializer(7, 1, 0)
	a := make([]complex128, n*lda)
	g.ZMatrix(a, n, n, lda, NeverSetNaN, true)
	x := make([]complex128, n)
	g.ZVector(x, n, 1, NeverSetNaN)

	// With incX = -1 the kernel must read x back to front.
	xRev := make([]complex128, n)
	for i := range x {
		xRev[n-1-i] = x[i]
	}

	want := make([]complex128, len(a))
	copy(want, a)
	Reference{}.Zher(blas.Lower, n, 3, x, 1, want, lda)

	dA := uploadZ(t, ctx, a)
	dX := uploadZ(t, ctx, xRev)
	defer FreeOrFail(t, ctx, dA)
	defer FreeOrFail(t, ctx, dX)

	if err := ctx.Zher(blas.Lower, n, HostScalar(3.0), dX, -1, dA, lda); err != nil {
		t.Fatalf("Zher failed: %v", err)
	}
	got := downloadZ(t, ctx, dA, len(a))
	if err := UnitCheckZGeneral(n, n, lda, want, got); err != nil {
		t.Errorf("negative increment mismatch: %v", err)
	}
}

func TestZherArgumentChecks(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	cases := []struct {
		name string
		n    int
		incX int
		lda  int
	}{
		{"negative n", -1, 1, 1},
		{"zero incx", 2, 0, 2},
		{"lda too small", 3, 1, 2},
	}
	for _, tc := range cases {
		err := ctx.Zher(blas.Upper, tc.n, HostScalar(1.0), DevicePtr{}, tc.incX, DevicePtr{}, tc.lda)
		if !IsInvalidValueError(err) {
			t.Errorf("%s: expected invalid-value error, got %v", tc.name, err)
		}
	}

	// n == 0 succeeds without touching memory.
	if err := ctx.Zher(blas.Upper, 0, HostScalar(1.0), DevicePtr{}, 1, DevicePtr{}, 1); err != nil {
		t.Errorf("n=0 quick return failed: %v", err)
	}
	// alpha == 0 succeeds without touching memory.
	if err := ctx.Zher(blas.Upper, 4, HostScalar(0.0), DevicePtr{}, 1, DevicePtr{}, 4); err != nil {
		t.Errorf("alpha=0 quick return failed: %v", err)
	}
}

func TestZherBatchedMatchesSingle(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, lda, batch = 4, 5, 3
	g := NewInitializer(11, 1, 0)

	hA := make([][]complex128, batch)
	hX := make([][]complex128, batch)
	dA := make([]DevicePtr, batch)
	dX := make([]DevicePtr, batch)
	for b := 0; b < batch; b++ {
		hA[b] = make([]complex128, n*lda)
		hX[b] = make([]complex128, n)
		g.ZMatrix(hA[b], n, n, lda, NeverSetNaN, true)
		g.ZVector(hX[b], n, 1, NeverSetNaN)
		dA[b] = uploadZ(t, ctx, hA[b])
		dX[b] = uploadZ(t, ctx, hX[b])
	}
	defer func() {
		for b := 0; b < batch; b++ {
			FreeOrFail(t, ctx, dA[b])
			FreeOrFail(t, ctx, dX[b])
		}
	}()

	if err := ctx.ZherBatched(blas.Upper, n, HostScalar(2.0), dX, 1, dA, lda, batch); err != nil {
		t.Fatalf("ZherBatched failed: %v", err)
	}

	for b := 0; b < batch; b++ {
		want := make([]complex128, n*lda)
		copy(want, hA[b])
		Reference{}.Zher(blas.Upper, n, 2, hX[b], 1, want, lda)
		got := downloadZ(t, ctx, dA[b], n*lda)
		if err := UnitCheckZGeneral(n, n, lda, want, got); err != nil {
			t.Errorf("batch %d: %v", b, err)
		}
	}
}

func TestZherBatchedArgumentChecks(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	if err := ctx.ZherBatched(blas.Upper, 2, HostScalar(1.0), nil, 1, nil, 2, -1); !IsInvalidValueError(err) {
		t.Errorf("negative batch count: expected invalid-value error, got %v", err)
	}
	if err := ctx.ZherBatched(blas.Upper, 2, HostScalar(1.0), nil, 1, nil, 2, 0); err != nil {
		t.Errorf("batch count 0 quick return failed: %v", err)
	}
	// Pointer arrays shorter than the batch count are rejected.
	if err := ctx.ZherBatched(blas.Upper, 2, HostScalar(1.0), make([]DevicePtr, 1), 1, make([]DevicePtr, 1), 2, 2); !IsInvalidValueError(err) {
		t.Errorf("short pointer array: expected invalid-value error, got %v", err)
	}
}

func TestCherMatchesReference(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, lda = 6, 6
	g := NewInitializer(3, 1, 0)
	a := make([]complex64, n*lda)
	x := make([]complex64, n)
	g.CMatrix(a, n, n, lda, NeverSetNaN, true)
	g.CVector(x, n, 1, NeverSetNaN)

	want := make([]complex64, len(a))
	copy(want, a)
	Reference{}.Cher(blas.Lower, n, 1.5, x, 1, want, lda)

	dA := MallocOrFail(t, ctx, len(a)*8)
	dX := MallocOrFail(t, ctx, len(x)*8)
	defer FreeOrFail(t, ctx, dA)
	defer FreeOrFail(t, ctx, dX)
	MemcpyOrFail(t, ctx, dA, a, len(a)*8, MemcpyHostToDevice)
	MemcpyOrFail(t, ctx, dX, x, len(x)*8, MemcpyHostToDevice)

	if err := ctx.Cher(blas.Lower, n, HostScalar(float32(1.5)), dX, 1, dA, lda); err != nil {
		t.Fatalf("Cher failed: %v", err)
	}
	got := make([]complex64, len(a))
	MemcpyOrFail(t, ctx, got, dA, len(a)*8, MemcpyDeviceToHost)
	if err := UnitCheckCGeneral(n, n, lda, want, got); err != nil {
		t.Errorf("result mismatch: %v", err)
	}
}
