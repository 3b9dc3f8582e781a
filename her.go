// Hermitian rank-1 update kernels: A += alpha * x * xᴴ.
package hermetica

import (
	"gonum.org/v1/gonum/blas"
)

// Zher performs the Hermitian rank-1 update
//
//	A += alpha * x * xᴴ
//
// on an n×n complex128 Hermitian matrix stored row-major in device
// memory with leading dimension lda. Only the triangle selected by uplo
// is referenced or written; diagonal entries are kept real. alpha is
// read according to the context's pointer mode.
func (ctx *Context) Zher(uplo blas.Uplo, n int, alpha Scalar[float64], x DevicePtr, incX int, a DevicePtr, lda int) error {
	const op = "Zher"
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
	case lda < max(1, n):
		return NewInvalidValueError(op, "leading dimension below row width")
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
	if x.IsNil() || a.IsNil() {
		return ErrNullPointer
	}

	xs := x.Complex128()
	as := a.Complex128()
	kx := vectorStart(n, incX)

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		zherRow(uplo, n, av, xs, kx, incX, as, lda, i)
	})
	return nil
}

// zherRow updates row i of the selected triangle. Shared by the plain
// and batched entry points.
func zherRow(uplo blas.Uplo, n int, alpha float64, x []complex128, kx, incX int, a []complex128, lda, i int) {
	xi := x[kx+i*incX]
	t := complex(alpha, 0) * xi
	if uplo == blas.Upper {
		for j := i + 1; j < n; j++ {
			a[i*lda+j] += t * conj128(x[kx+j*incX])
		}
	} else {
		for j := 0; j < i; j++ {
			a[i*lda+j] += t * conj128(x[kx+j*incX])
		}
	}
	re, im := real(xi), imag(xi)
	a[i*lda+i] = complex(real(a[i*lda+i])+alpha*(re*re+im*im), 0)
}

// ZherBatched applies Zher independently to batchCount matrix/vector
// pairs addressed through per-batch device pointers. A batch count of
// zero is a successful no-op; a negative batch count is an error.
func (ctx *Context) ZherBatched(uplo blas.Uplo, n int, alpha Scalar[float64], x []DevicePtr, incX int, a []DevicePtr, lda int, batchCount int) error {
	const op = "ZherBatched"
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
	case lda < max(1, n):
		return NewInvalidValueError(op, "leading dimension below row width")
	case batchCount < 0:
		return NewInvalidValueError(op, "negative batch count")
	}
	if n == 0 || batchCount == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	if av == 0 {
		return nil
	}
	if len(x) < batchCount || len(a) < batchCount {
		return NewInvalidValueError(op, "pointer array shorter than batch count")
	}

	kx := vectorStart(n, incX)
	for b := 0; b < batchCount; b++ {
		if x[b].IsNil() || a[b].IsNil() {
			return ErrNullPointer
		}
		xs := x[b].Complex128()
		as := a[b].Complex128()
		ctx.parallelRows(ctx.defaultStream, n, func(i int) {
			zherRow(uplo, n, av, xs, kx, incX, as, lda, i)
		})
	}
	return nil
}

// Cher is the complex64 form of Zher.
func (ctx *Context) Cher(uplo blas.Uplo, n int, alpha Scalar[float32], x DevicePtr, incX int, a DevicePtr, lda int) error {
	const op = "Cher"
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
	case lda < max(1, n):
		return NewInvalidValueError(op, "leading dimension below row width")
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
	if x.IsNil() || a.IsNil() {
		return ErrNullPointer
	}

	xs := x.Complex64()
	as := a.Complex64()
	kx := vectorStart(n, incX)

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		cherRow(uplo, n, av, xs, kx, incX, as, lda, i)
	})
	return nil
}

func cherRow(uplo blas.Uplo, n int, alpha float32, x []complex64, kx, incX int, a []complex64, lda, i int) {
	xi := x[kx+i*incX]
	t := complex(alpha, 0) * xi
	if uplo == blas.Upper {
		for j := i + 1; j < n; j++ {
			a[i*lda+j] += t * conj64(x[kx+j*incX])
		}
	} else {
		for j := 0; j < i; j++ {
			a[i*lda+j] += t * conj64(x[kx+j*incX])
		}
	}
	re, im := real(xi), imag(xi)
	a[i*lda+i] = complex(real(a[i*lda+i])+alpha*(re*re+im*im), 0)
}

// CherBatched is the complex64 form of ZherBatched.
func (ctx *Context) CherBatched(uplo blas.Uplo, n int, alpha Scalar[float32], x []DevicePtr, incX int, a []DevicePtr, lda int, batchCount int) error {
	const op = "CherBatched"
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
	case lda < max(1, n):
		return NewInvalidValueError(op, "leading dimension below row width")
	case batchCount < 0:
		return NewInvalidValueError(op, "negative batch count")
	}
	if n == 0 || batchCount == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	if av == 0 {
		return nil
	}
	if len(x) < batchCount || len(a) < batchCount {
		return NewInvalidValueError(op, "pointer array shorter than batch count")
	}

	kx := vectorStart(n, incX)
	for b := 0; b < batchCount; b++ {
		if x[b].IsNil() || a[b].IsNil() {
			return ErrNullPointer
		}
		xs := x[b].Complex64()
		as := a[b].Complex64()
		ctx.parallelRows(ctx.defaultStream, n, func(i int) {
			cherRow(uplo, n, av, xs, kx, incX, as, lda, i)
		})
	}
	return nil
}
