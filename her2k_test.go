package hermetica

import (
	"testing"

	"gonum.org/v1/gonum/blas"
)

func TestZher2kMatchesReference(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, k = 4, 3
	alpha := complex(2, 1)
	g := NewInitializer(29, alpha, 1)

	for _, uplo := range []blas.Uplo{blas.Upper, blas.Lower} {
		for _, trans := range []blas.Transpose{blas.NoTrans, blas.ConjTrans} {
			rows, cols := n, k
			if trans == blas.ConjTrans {
				rows, cols = k, n
			}
			lda := cols
			ldb := cols + 1
			ldc := n

			a := make([]complex128, rows*lda)
			b := make([]complex128, rows*ldb)
			c := make([]complex128, n*ldc)
			g.ZMatrix(a, rows, cols, lda, NeverSetNaN, false)
			g.ZMatrix(b, rows, cols, ldb, NeverSetNaN, false)
			g.ZMatrix(c, n, n, ldc, NeverSetNaN, false)

			want := make([]complex128, len(c))
			copy(want, c)
			Reference{}.Zher2k(uplo, trans, n, k, alpha, a, lda, b, ldb, 2, want, ldc)

			dA := uploadZ(t, ctx, a)
			dB := uploadZ(t, ctx, b)
			dC := uploadZ(t, ctx, c)

			if err := ctx.Zher2k(uplo, trans, n, k, HostScalar(alpha), dA, lda, dB, ldb, HostScalar(2.0), dC, ldc); err != nil {
				t.Fatalf("Zher2k(%v,%v) failed: %v", uplo, trans, err)
			}
			got := downloadZ(t, ctx, dC, len(c))
			if err := UnitCheckZGeneral(n, n, ldc, want, got); err != nil {
				t.Errorf("uplo %v trans %v: %v", uplo, trans, err)
			}

			FreeOrFail(t, ctx, dA)
			FreeOrFail(t, ctx, dB)
			FreeOrFail(t, ctx, dC)
		}
	}
}

// The rank-2k update of a Hermitian matrix stays Hermitian: mirror the
// computed triangle and verify it equals the conjugate transpose.
func TestZher2kResultHermitian(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, k = 5, 4
	alpha := complex(1, 2)
	g := NewInitializer(31, alpha, 1)

	a := make([]complex128, n*k)
	b := make([]complex128, n*k)
	cUpper := make([]complex128, n*n)
	g.ZMatrix(a, n, k, k, NeverSetNaN, false)
	g.ZMatrix(b, n, k, k, NeverSetNaN, false)
	g.ZMatrix(cUpper, n, n, n, NeverSetNaN, true)
	cLower := make([]complex128, n*n)
	copy(cLower, cUpper)

	dA := uploadZ(t, ctx, a)
	dB := uploadZ(t, ctx, b)
	dCU := uploadZ(t, ctx, cUpper)
	dCL := uploadZ(t, ctx, cLower)
	defer FreeOrFail(t, ctx, dA)
	defer FreeOrFail(t, ctx, dB)
	defer FreeOrFail(t, ctx, dCU)
	defer FreeOrFail(t, ctx, dCL)

	if err := ctx.Zher2k(blas.Upper, blas.NoTrans, n, k, HostScalar(alpha), dA, k, dB, k, HostScalar(3.0), dCU, n); err != nil {
		t.Fatalf("Zher2k upper failed: %v", err)
	}
	if err := ctx.Zher2k(blas.Lower, blas.NoTrans, n, k, HostScalar(alpha), dA, k, dB, k, HostScalar(3.0), dCL, n); err != nil {
		t.Fatalf("Zher2k lower failed: %v", err)
	}
	gotU := downloadZ(t, ctx, dCU, n*n)
	gotL := downloadZ(t, ctx, dCL, n*n)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if gotU[i*n+j] != conj128(gotL[j*n+i]) {
				t.Errorf("(%d,%d): upper %v, conj(lower) %v", i, j, gotU[i*n+j], conj128(gotL[j*n+i]))
			}
		}
		if imag(gotU[i*n+i]) != 0 {
			t.Errorf("diagonal [%d][%d] not real: %v", i, i, gotU[i*n+i])
		}
	}
}

func TestZher2kStridedBatchedMatchesReference(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, k, batch = 4, 3, 3
	const lda, ldb, ldc = 3, 3, 4
	alpha := complex(1, -2)
	// Strides padded past the minimal extent; the gap must stay intact.
	strideA := n*lda + 5
	strideB := n*ldb + 2
	strideC := n*ldc + 7
	g := NewInitializer(37, alpha, 1)

	a := make([]complex128, strideA*batch)
	b := make([]complex128, strideB*batch)
	c := make([]complex128, strideC*batch)
	g.ZMatrixStrided(a, n, k, lda, strideA, batch, NeverSetNaN, false)
	g.ZMatrixStrided(b, n, k, ldb, strideB, batch, NeverSetNaN, false)
	g.ZMatrixStrided(c, n, n, ldc, strideC, batch, NeverSetNaN, false)
	// Mark the inter-batch gap of C to detect stray writes.
	for bi := 0; bi < batch; bi++ {
		for p := n * ldc; p < strideC; p++ {
			c[bi*strideC+p] = complex(-99, -99)
		}
	}

	want := make([]complex128, len(c))
	copy(want, c)
	Reference{}.Zher2kStridedBatched(blas.Upper, blas.NoTrans, n, k, alpha, a, lda, strideA, b, ldb, strideB, 2, want, ldc, strideC, batch)

	dA := uploadZ(t, ctx, a)
	dB := uploadZ(t, ctx, b)
	dC := uploadZ(t, ctx, c)
	defer FreeOrFail(t, ctx, dA)
	defer FreeOrFail(t, ctx, dB)
	defer FreeOrFail(t, ctx, dC)

	if err := ctx.Zher2kStridedBatched(blas.Upper, blas.NoTrans, n, k, HostScalar(alpha), dA, lda, strideA, dB, ldb, strideB, HostScalar(2.0), dC, ldc, strideC, batch); err != nil {
		t.Fatalf("Zher2kStridedBatched failed: %v", err)
	}
	got := downloadZ(t, ctx, dC, len(c))
	if err := UnitCheckZGeneralStrided(n, n, ldc, strideC, batch, want, got); err != nil {
		t.Errorf("result mismatch: %v", err)
	}
	for bi := 0; bi < batch; bi++ {
		for p := n * ldc; p < strideC; p++ {
			if got[bi*strideC+p] != complex(-99, -99) {
				t.Errorf("batch %d: gap element %d overwritten: %v", bi, p, got[bi*strideC+p])
			}
		}
	}
}

func TestZher2kStridedBatchedArgumentChecks(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	alpha := HostScalar(complex128(1))
	beta := HostScalar(1.0)

	if err := ctx.Zher2kStridedBatched(blas.Upper, blas.NoTrans, 2, 2, alpha, DevicePtr{}, 2, 4, DevicePtr{}, 2, 4, beta, DevicePtr{}, 2, 4, -1); !IsInvalidValueError(err) {
		t.Errorf("negative batch count: expected invalid-value error, got %v", err)
	}
	if err := ctx.Zher2kStridedBatched(blas.Upper, blas.NoTrans, 2, 2, alpha, DevicePtr{}, 2, -4, DevicePtr{}, 2, 4, beta, DevicePtr{}, 2, 4, 1); !IsInvalidValueError(err) {
		t.Errorf("negative stride: expected invalid-value error, got %v", err)
	}
	if err := ctx.Zher2kStridedBatched(blas.Upper, blas.NoTrans, 2, 2, alpha, DevicePtr{}, 2, 4, DevicePtr{}, 2, 4, beta, DevicePtr{}, 2, 4, 0); err != nil {
		t.Errorf("batch count 0 quick return failed: %v", err)
	}
}

func TestZher2kStridedBatchedScaleOnlyNilOperands(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	// alpha == 0 makes A and B irrelevant, so nil operands must be
	// accepted for every batch element, not just the first.
	const (
		n, k    = 2, 3
		ldc     = 2
		strideC = 4
		batch   = 2
	)
	c := []complex128{
		1 + 5i, 2 + 1i,
		-9 - 9i, 3 - 7i,
		4 + 2i, -1 + 1i,
		-9 - 9i, 6 + 3i,
	}
	dC := uploadZ(t, ctx, c)
	defer FreeOrFail(t, ctx, dC)

	err := ctx.Zher2kStridedBatched(blas.Upper, blas.NoTrans, n, k,
		HostScalar(complex128(0)), DevicePtr{}, k, n*k,
		DevicePtr{}, k, n*k,
		HostScalar(2.0), dC, ldc, strideC, batch)
	if err != nil {
		t.Fatalf("scale-only batched call with nil A/B failed: %v", err)
	}

	got := downloadZ(t, ctx, dC, len(c))
	want := []complex128{
		2, 4 + 2i,
		-9 - 9i, 6,
		8, -2 + 2i,
		-9 - 9i, 12,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCher2kMatchesReference(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, k, lda, ldb, ldc = 4, 2, 2, 2, 4
	alpha := complex64(complex(2, -1))
	g := NewInitializer(41, complex(2, -1), 1)

	a := make([]complex64, n*lda)
	b := make([]complex64, n*ldb)
	c := make([]complex64, n*ldc)
	g.CMatrix(a, n, k, lda, NeverSetNaN, false)
	g.CMatrix(b, n, k, ldb, NeverSetNaN, false)
	g.CMatrix(c, n, n, ldc, NeverSetNaN, false)

	want := make([]complex64, len(c))
	copy(want, c)
	Reference{}.Cher2k(blas.Lower, blas.NoTrans, n, k, alpha, a, lda, b, ldb, 1, want, ldc)

	dA := MallocOrFail(t, ctx, len(a)*8)
	dB := MallocOrFail(t, ctx, len(b)*8)
	dC := MallocOrFail(t, ctx, len(c)*8)
	defer FreeOrFail(t, ctx, dA)
	defer FreeOrFail(t, ctx, dB)
	defer FreeOrFail(t, ctx, dC)
	MemcpyOrFail(t, ctx, dA, a, len(a)*8, MemcpyHostToDevice)
	MemcpyOrFail(t, ctx, dB, b, len(b)*8, MemcpyHostToDevice)
	MemcpyOrFail(t, ctx, dC, c, len(c)*8, MemcpyHostToDevice)

	if err := ctx.Cher2k(blas.Lower, blas.NoTrans, n, k, HostScalar(alpha), dA, lda, dB, ldb, HostScalar(float32(1)), dC, ldc); err != nil {
		t.Fatalf("Cher2k failed: %v", err)
	}
	got := make([]complex64, len(c))
	MemcpyOrFail(t, ctx, got, dC, len(c)*8, MemcpyDeviceToHost)
	if err := UnitCheckCGeneral(n, n, ldc, want, got); err != nil {
		t.Errorf("result mismatch: %v", err)
	}
}
