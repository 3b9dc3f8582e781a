// Packed Hermitian rank-1 update kernels.
package hermetica

import (
	"gonum.org/v1/gonum/blas"
)

// Packed storage offsets, row-major. The upper triangle stores row i as
// columns i..n-1 starting at i*n - i*(i-1)/2; the lower triangle stores
// row i as columns 0..i starting at i*(i+1)/2. Total length is
// n*(n+1)/2 either way.

func packedUpperIndex(n, i, j int) int {
	return i*n - i*(i-1)/2 + (j - i)
}

func packedLowerIndex(i, j int) int {
	return i*(i+1)/2 + j
}

// PackedLen returns the storage length of a packed n×n triangle.
func PackedLen(n int) int {
	return n * (n + 1) / 2
}

// Zhpr performs the packed Hermitian rank-1 update
//
//	A += alpha * x * xᴴ
//
// where A is an n×n complex128 Hermitian matrix stored packed in device
// memory: only the triangle selected by uplo, as a linear array of
// n*(n+1)/2 elements. Diagonal entries are kept real.
func (ctx *Context) Zhpr(uplo blas.Uplo, n int, alpha Scalar[float64], x DevicePtr, incX int, ap DevicePtr) error {
	const op = "Zhpr"
	if err := ctx.checkHandle(op); err != nil {
		return err
	}
	if err := checkUplo(op, uplo); err != nil {
		return err
	}
	switch {
	case n < 0:
		return NewInvalidValueError(op, "negative dimension")
	case incX == 0:
		return NewInvalidValueError(op, "zero vector increment")
	}
	if n == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	if av == 0 {
		return nil
	}
	if x.IsNil() || ap.IsNil() {
		return ErrNullPointer
	}

	xs := x.Complex128()
	aps := ap.Complex128()
	kx := vectorStart(n, incX)

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		xi := xs[kx+i*incX]
		t := complex(av, 0) * xi
		var diag int
		if uplo == blas.Upper {
			diag = packedUpperIndex(n, i, i)
			for j := i + 1; j < n; j++ {
				aps[packedUpperIndex(n, i, j)] += t * conj128(xs[kx+j*incX])
			}
		} else {
			diag = packedLowerIndex(i, i)
			for j := 0; j < i; j++ {
				aps[packedLowerIndex(i, j)] += t * conj128(xs[kx+j*incX])
			}
		}
		re, im := real(xi), imag(xi)
		aps[diag] = complex(real(aps[diag])+av*(re*re+im*im), 0)
	})
	return nil
}

// Chpr is the complex64 form of Zhpr.
func (ctx *Context) Chpr(uplo blas.Uplo, n int, alpha Scalar[float32], x DevicePtr, incX int, ap DevicePtr) error {
	const op = "Chpr"
	if err := ctx.checkHandle(op); err != nil {
		return err
	}
	if err := checkUplo(op, uplo); err != nil {
		return err
	}
	switch {
	case n < 0:
		return NewInvalidValueError(op, "negative dimension")
	case incX == 0:
		return NewInvalidValueError(op, "zero vector increment")
	}
	if n == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	if av == 0 {
		return nil
	}
	if x.IsNil() || ap.IsNil() {
		return ErrNullPointer
	}

	xs := x.Complex64()
	aps := ap.Complex64()
	kx := vectorStart(n, incX)

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		xi := xs[kx+i*incX]
		t := complex(av, 0) * xi
		var diag int
		if uplo == blas.Upper {
			diag = packedUpperIndex(n, i, i)
			for j := i + 1; j < n; j++ {
				aps[packedUpperIndex(n, i, j)] += t * conj64(xs[kx+j*incX])
			}
		} else {
			diag = packedLowerIndex(i, i)
			for j := 0; j < i; j++ {
				aps[packedLowerIndex(i, j)] += t * conj64(xs[kx+j*incX])
			}
		}
		re, im := real(xi), imag(xi)
		aps[diag] = complex(real(aps[diag])+av*(re*re+im*im), 0)
	})
	return nil
}
