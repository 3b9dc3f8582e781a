// Package hermetica reference implementations for verification
package hermetica

import (
	"gonum.org/v1/gonum/blas"
)

// Reference contains simple, serial, deterministic implementations of
// the Hermitian update kernels. These operate on host memory and are
// treated as ground truth when verifying the device results. Callers
// are responsible for passing valid shapes; the oracle does no argument
// checking.
//
// The oracle shares per-row arithmetic with the device kernels so that
// exact checks see identical accumulation order. Independence from the
// kernels therefore rests on the cross-check against gonum's blas/gonum
// implementation in the test suite.
type Reference struct{}

// Zher performs A += alpha * x * xᴴ on a row-major Hermitian matrix,
// touching only the uplo triangle and keeping the diagonal real.
func (Reference) Zher(uplo blas.Uplo, n int, alpha float64, x []complex128, incX int, a []complex128, lda int) {
	if n == 0 || alpha == 0 {
		return
	}
	kx := vectorStart(n, incX)
	for i := 0; i < n; i++ {
		zherRow(uplo, n, alpha, x, kx, incX, a, lda, i)
	}
}

// ZherBatched applies Zher to each batch element independently.
func (r Reference) ZherBatched(uplo blas.Uplo, n int, alpha float64, x [][]complex128, incX int, a [][]complex128, lda int, batchCount int) {
	for b := 0; b < batchCount; b++ {
		r.Zher(uplo, n, alpha, x[b], incX, a[b], lda)
	}
}

// Cher is the complex64 form of Zher.
func (Reference) Cher(uplo blas.Uplo, n int, alpha float32, x []complex64, incX int, a []complex64, lda int) {
	if n == 0 || alpha == 0 {
		return
	}
	kx := vectorStart(n, incX)
	for i := 0; i < n; i++ {
		cherRow(uplo, n, alpha, x, kx, incX, a, lda, i)
	}
}

// CherBatched applies Cher to each batch element independently.
func (r Reference) CherBatched(uplo blas.Uplo, n int, alpha float32, x [][]complex64, incX int, a [][]complex64, lda int, batchCount int) {
	for b := 0; b < batchCount; b++ {
		r.Cher(uplo, n, alpha, x[b], incX, a[b], lda)
	}
}

// Zhpr performs the packed form of Zher.
func (Reference) Zhpr(uplo blas.Uplo, n int, alpha float64, x []complex128, incX int, ap []complex128) {
	if n == 0 || alpha == 0 {
		return
	}
	kx := vectorStart(n, incX)
	for i := 0; i < n; i++ {
		xi := x[kx+i*incX]
		t := complex(alpha, 0) * xi
		var diag int
		if uplo == blas.Upper {
			diag = packedUpperIndex(n, i, i)
			for j := i + 1; j < n; j++ {
				ap[packedUpperIndex(n, i, j)] += t * conj128(x[kx+j*incX])
			}
		} else {
			diag = packedLowerIndex(i, i)
			for j := 0; j < i; j++ {
				ap[packedLowerIndex(i, j)] += t * conj128(x[kx+j*incX])
			}
		}
		re, im := real(xi), imag(xi)
		ap[diag] = complex(real(ap[diag])+alpha*(re*re+im*im), 0)
	}
}

// Chpr is the complex64 form of Zhpr.
func (Reference) Chpr(uplo blas.Uplo, n int, alpha float32, x []complex64, incX int, ap []complex64) {
	if n == 0 || alpha == 0 {
		return
	}
	kx := vectorStart(n, incX)
	for i := 0; i < n; i++ {
		xi := x[kx+i*incX]
		t := complex(alpha, 0) * xi
		var diag int
		if uplo == blas.Upper {
			diag = packedUpperIndex(n, i, i)
			for j := i + 1; j < n; j++ {
				ap[packedUpperIndex(n, i, j)] += t * conj64(x[kx+j*incX])
			}
		} else {
			diag = packedLowerIndex(i, i)
			for j := 0; j < i; j++ {
				ap[packedLowerIndex(i, j)] += t * conj64(x[kx+j*incX])
			}
		}
		re, im := real(xi), imag(xi)
		ap[diag] = complex(real(ap[diag])+alpha*(re*re+im*im), 0)
	}
}

// Zherk performs C = alpha*A*Aᴴ + beta*C (or the ConjTrans form) on
// row-major host matrices.
func (Reference) Zherk(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha float64, a []complex128, lda int, beta float64, c []complex128, ldc int) {
	if n == 0 {
		return
	}
	scaleOnly := alpha == 0 || k == 0
	if scaleOnly && beta == 1 {
		return
	}
	for i := 0; i < n; i++ {
		zherkRow(uplo, trans, n, k, alpha, a, lda, beta, c, ldc, scaleOnly, i)
	}
}

// Cherk is the complex64 form of Zherk.
func (Reference) Cherk(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha float32, a []complex64, lda int, beta float32, c []complex64, ldc int) {
	if n == 0 {
		return
	}
	scaleOnly := alpha == 0 || k == 0
	if scaleOnly && beta == 1 {
		return
	}
	for i := 0; i < n; i++ {
		cherkRow(uplo, trans, n, k, alpha, a, lda, beta, c, ldc, scaleOnly, i)
	}
}

// Zher2k performs C = alpha*A*Bᴴ + conj(alpha)*B*Aᴴ + beta*C (or the
// ConjTrans form) on row-major host matrices.
func (Reference) Zher2k(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha complex128, a []complex128, lda int, b []complex128, ldb int, beta float64, c []complex128, ldc int) {
	if n == 0 {
		return
	}
	scaleOnly := alpha == 0 || k == 0
	if scaleOnly && beta == 1 {
		return
	}
	for i := 0; i < n; i++ {
		zher2kRow(uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc, scaleOnly, i)
	}
}

// Zher2kStridedBatched applies Zher2k to each strided batch window.
func (r Reference) Zher2kStridedBatched(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha complex128, a []complex128, lda, strideA int, b []complex128, ldb, strideB int, beta float64, c []complex128, ldc, strideC int, batchCount int) {
	for bi := 0; bi < batchCount; bi++ {
		r.Zher2k(uplo, trans, n, k, alpha, a[bi*strideA:], lda, b[bi*strideB:], ldb, beta, c[bi*strideC:], ldc)
	}
}

// Cher2k is the complex64 form of Zher2k.
func (Reference) Cher2k(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha complex64, a []complex64, lda int, b []complex64, ldb int, beta float32, c []complex64, ldc int) {
	if n == 0 {
		return
	}
	scaleOnly := alpha == 0 || k == 0
	if scaleOnly && beta == 1 {
		return
	}
	for i := 0; i < n; i++ {
		cher2kRow(uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc, scaleOnly, i)
	}
}

// Cher2kStridedBatched applies Cher2k to each strided batch window.
func (r Reference) Cher2kStridedBatched(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha complex64, a []complex64, lda, strideA int, b []complex64, ldb, strideB int, beta float32, c []complex64, ldc, strideC int, batchCount int) {
	for bi := 0; bi < batchCount; bi++ {
		r.Cher2k(uplo, trans, n, k, alpha, a[bi*strideA:], lda, b[bi*strideB:], ldb, beta, c[bi*strideC:], ldc)
	}
}
