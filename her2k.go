// Hermitian rank-2k update kernels and their strided-batched forms.
package hermetica

import (
	"gonum.org/v1/gonum/blas"
)

// Zher2k performs the Hermitian rank-2k update
//
//	C = alpha*A*Bᴴ + conj(alpha)*B*Aᴴ + beta*C   (trans == blas.NoTrans,   A,B are n×k)
//	C = alpha*Aᴴ*B + conj(alpha)*Bᴴ*A + beta*C   (trans == blas.ConjTrans, A,B are k×n)
//
// where C is an n×n complex128 Hermitian matrix stored row-major with
// leading dimension ldc. alpha is complex, beta is real; both are read
// according to the context's pointer mode. Only the triangle selected
// by uplo is referenced or written; diagonal entries are kept real.
func (ctx *Context) Zher2k(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha Scalar[complex128], a DevicePtr, lda int, b DevicePtr, ldb int, beta Scalar[float64], c DevicePtr, ldc int) error {
	const op = "Zher2k"
	if err := ctx.her2kArgs(op, uplo, trans, n, k, lda, ldb, ldc); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	bv, err := loadScalar(ctx, op, beta)
	if err != nil {
		return err
	}
	scaleOnly := av == 0 || k == 0
	if scaleOnly && bv == 1 {
		return nil
	}
	if c.IsNil() {
		return ErrNullPointer
	}
	if !scaleOnly && (a.IsNil() || b.IsNil()) {
		return ErrNullPointer
	}

	as := a.Complex128()
	bs := b.Complex128()
	cs := c.Complex128()

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		zher2kRow(uplo, trans, n, k, av, as, lda, bs, ldb, bv, cs, ldc, scaleOnly, i)
	})
	return nil
}

func zher2kRow(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha complex128, a []complex128, lda int, b []complex128, ldb int, beta float64, c []complex128, ldc int, scaleOnly bool, i int) {
	jMin, jMax := i, n
	if uplo == blas.Lower {
		jMin, jMax = 0, i+1
	}
	ac := conj128(alpha)
	for j := jMin; j < jMax; j++ {
		ci := i*ldc + j
		if scaleOnly {
			if i == j {
				c[ci] = complex(beta*real(c[ci]), 0)
			} else {
				c[ci] = complex(beta, 0) * c[ci]
			}
			continue
		}
		var s1, s2 complex128
		if trans == blas.NoTrans {
			for l := 0; l < k; l++ {
				s1 += a[i*lda+l] * conj128(b[j*ldb+l])
				s2 += b[i*ldb+l] * conj128(a[j*lda+l])
			}
		} else {
			for l := 0; l < k; l++ {
				s1 += conj128(a[l*lda+i]) * b[l*ldb+j]
				s2 += conj128(b[l*ldb+i]) * a[l*lda+j]
			}
		}
		v := alpha*s1 + ac*s2
		if i == j {
			c[ci] = complex(real(v)+beta*real(c[ci]), 0)
		} else {
			c[ci] = v + complex(beta, 0)*c[ci]
		}
	}
}

func (ctx *Context) her2kArgs(op string, uplo blas.Uplo, trans blas.Transpose, n, k, lda, ldb, ldc int) error {
	if err := ctx.checkHandle(op); err != nil {
		return err
	}
	if err := checkUplo(op, uplo); err != nil {
		return err
	}
	if err := checkHermTranspose(op, trans); err != nil {
		return err
	}
	cols := rankKCols(trans, n, k)
	switch {
	case n < 0:
		return NewInvalidValueError(op, "negative dimension n")
	case k < 0:
		return NewInvalidValueError(op, "negative dimension k")
	case lda < max(1, cols):
		return NewInvalidValueError(op, "leading dimension of A below row width")
	case ldb < max(1, cols):
		return NewInvalidValueError(op, "leading dimension of B below row width")
	case ldc < max(1, n):
		return NewInvalidValueError(op, "leading dimension of C below row width")
	}
	return nil
}

// Zher2kStridedBatched applies Zher2k to batchCount problem instances
// stored contiguously with fixed strides between batch elements. Memory
// between the logical extent of one batch element and the start of the
// next is never referenced. A batch count of zero is a successful
// no-op; a negative batch count is an error.
func (ctx *Context) Zher2kStridedBatched(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha Scalar[complex128], a DevicePtr, lda int, strideA int, b DevicePtr, ldb int, strideB int, beta Scalar[float64], c DevicePtr, ldc int, strideC int, batchCount int) error {
	const op = "Zher2kStridedBatched"
	if err := ctx.her2kArgs(op, uplo, trans, n, k, lda, ldb, ldc); err != nil {
		return err
	}
	switch {
	case batchCount < 0:
		return NewInvalidValueError(op, "negative batch count")
	case strideA < 0 || strideB < 0 || strideC < 0:
		return NewInvalidValueError(op, "negative batch stride")
	}
	if n == 0 || batchCount == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	bv, err := loadScalar(ctx, op, beta)
	if err != nil {
		return err
	}
	scaleOnly := av == 0 || k == 0
	if scaleOnly && bv == 1 {
		return nil
	}
	if c.IsNil() {
		return ErrNullPointer
	}
	if !scaleOnly && (a.IsNil() || b.IsNil()) {
		return ErrNullPointer
	}

	as := a.Complex128()
	bs := b.Complex128()
	cs := c.Complex128()

	for bi := 0; bi < batchCount; bi++ {
		// The row function never reads A or B on the scale-only path,
		// and a nil operand is legal there, so slice lazily.
		var ab, bb []complex128
		if !scaleOnly {
			ab = as[bi*strideA:]
			bb = bs[bi*strideB:]
		}
		cb := cs[bi*strideC:]
		ctx.parallelRows(ctx.defaultStream, n, func(i int) {
			zher2kRow(uplo, trans, n, k, av, ab, lda, bb, ldb, bv, cb, ldc, scaleOnly, i)
		})
	}
	return nil
}

// Cher2k is the complex64 form of Zher2k.
func (ctx *Context) Cher2k(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha Scalar[complex64], a DevicePtr, lda int, b DevicePtr, ldb int, beta Scalar[float32], c DevicePtr, ldc int) error {
	const op = "Cher2k"
	if err := ctx.her2kArgs(op, uplo, trans, n, k, lda, ldb, ldc); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	bv, err := loadScalar(ctx, op, beta)
	if err != nil {
		return err
	}
	scaleOnly := av == 0 || k == 0
	if scaleOnly && bv == 1 {
		return nil
	}
	if c.IsNil() {
		return ErrNullPointer
	}
	if !scaleOnly && (a.IsNil() || b.IsNil()) {
		return ErrNullPointer
	}

	as := a.Complex64()
	bs := b.Complex64()
	cs := c.Complex64()

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		cher2kRow(uplo, trans, n, k, av, as, lda, bs, ldb, bv, cs, ldc, scaleOnly, i)
	})
	return nil
}

func cher2kRow(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha complex64, a []complex64, lda int, b []complex64, ldb int, beta float32, c []complex64, ldc int, scaleOnly bool, i int) {
	jMin, jMax := i, n
	if uplo == blas.Lower {
		jMin, jMax = 0, i+1
	}
	ac := conj64(alpha)
	for j := jMin; j < jMax; j++ {
		ci := i*ldc + j
		if scaleOnly {
			if i == j {
				c[ci] = complex(beta*real(c[ci]), 0)
			} else {
				c[ci] = complex(beta, 0) * c[ci]
			}
			continue
		}
		var s1, s2 complex64
		if trans == blas.NoTrans {
			for l := 0; l < k; l++ {
				s1 += a[i*lda+l] * conj64(b[j*ldb+l])
				s2 += b[i*ldb+l] * conj64(a[j*lda+l])
			}
		} else {
			for l := 0; l < k; l++ {
				s1 += conj64(a[l*lda+i]) * b[l*ldb+j]
				s2 += conj64(b[l*ldb+i]) * a[l*lda+j]
			}
		}
		v := alpha*s1 + ac*s2
		if i == j {
			c[ci] = complex(real(v)+beta*real(c[ci]), 0)
		} else {
			c[ci] = v + complex(beta, 0)*c[ci]
		}
	}
}

// Cher2kStridedBatched is the complex64 form of Zher2kStridedBatched.
func (ctx *Context) Cher2kStridedBatched(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha Scalar[complex64], a DevicePtr, lda int, strideA int, b DevicePtr, ldb int, strideB int, beta Scalar[float32], c DevicePtr, ldc int, strideC int, batchCount int) error {
	const op = "Cher2kStridedBatched"
	if err := ctx.her2kArgs(op, uplo, trans, n, k, lda, ldb, ldc); err != nil {
		return err
	}
	switch {
	case batchCount < 0:
		return NewInvalidValueError(op, "negative batch count")
	case strideA < 0 || strideB < 0 || strideC < 0:
		return NewInvalidValueError(op, "negative batch stride")
	}
	if n == 0 || batchCount == 0 {
		return nil
	}
	av, err := loadScalar(ctx, op, alpha)
	if err != nil {
		return err
	}
	bv, err := loadScalar(ctx, op, beta)
	if err != nil {
		return err
	}
	scaleOnly := av == 0 || k == 0
	if scaleOnly && bv == 1 {
		return nil
	}
	if c.IsNil() {
		return ErrNullPointer
	}
	if !scaleOnly && (a.IsNil() || b.IsNil()) {
		return ErrNullPointer
	}

	as := a.Complex64()
	bs := b.Complex64()
	cs := c.Complex64()

	for bi := 0; bi < batchCount; bi++ {
		var ab, bb []complex64
		if !scaleOnly {
			ab = as[bi*strideA:]
			bb = bs[bi*strideB:]
		}
		cb := cs[bi*strideC:]
		ctx.parallelRows(ctx.defaultStream, n, func(i int) {
			cher2kRow(uplo, trans, n, k, av, ab, lda, bb, ldb, bv, cb, ldc, scaleOnly, i)
		})
	}
	return nil
}
