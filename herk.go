// Hermitian rank-k update kernels: C = alpha*A*Aᴴ + beta*C.
package hermetica

import (
	"gonum.org/v1/gonum/blas"
)

// Zherk performs the Hermitian rank-k update
//
//	C = alpha * A * Aᴴ + beta * C   (trans == blas.NoTrans,   A is n×k)
//	C = alpha * Aᴴ * A + beta * C   (trans == blas.ConjTrans, A is k×n)
//
// where C is an n×n complex128 Hermitian matrix stored row-major with
// leading dimension ldc. alpha and beta are real and read according to
// the context's pointer mode. Only the triangle selected by uplo is
// referenced or written; diagonal entries are kept real.
func (ctx *Context) Zherk(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha Scalar[float64], a DevicePtr, lda int, beta Scalar[float64], c DevicePtr, ldc int) error {
	const op = "Zherk"
	if err := ctx.herkArgs(op, uplo, trans, n, k, lda, ldc); err != nil {
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
	if !scaleOnly && a.IsNil() {
		return ErrNullPointer
	}

	as := a.Complex128()
	cs := c.Complex128()

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		zherkRow(uplo, trans, n, k, av, as, lda, bv, cs, ldc, scaleOnly, i)
	})
	return nil
}

func zherkRow(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha float64, a []complex128, lda int, beta float64, c []complex128, ldc int, scaleOnly bool, i int) {
	jMin, jMax := i, n
	if uplo == blas.Lower {
		jMin, jMax = 0, i+1
	}
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
		var sum complex128
		if trans == blas.NoTrans {
			for l := 0; l < k; l++ {
				sum += a[i*lda+l] * conj128(a[j*lda+l])
			}
		} else {
			for l := 0; l < k; l++ {
				sum += conj128(a[l*lda+i]) * a[l*lda+j]
			}
		}
		if i == j {
			c[ci] = complex(alpha*real(sum)+beta*real(c[ci]), 0)
		} else {
			c[ci] = complex(alpha, 0)*sum + complex(beta, 0)*c[ci]
		}
	}
}

func (ctx *Context) herkArgs(op string, uplo blas.Uplo, trans blas.Transpose, n, k, lda, ldc int) error {
	if err := ctx.checkHandle(op); err != nil {
		return err
	}
	if err := checkUplo(op, uplo); err != nil {
		return err
	}
	if err := checkHermTranspose(op, trans); err != nil {
		return err
	}
	switch {
	case n < 0:
		return NewInvalidValueError(op, "negative dimension n")
	case k < 0:
		return NewInvalidValueError(op, "negative dimension k")
	case lda < max(1, rankKCols(trans, n, k)):
		return NewInvalidValueError(op, "leading dimension of A below row width")
	case ldc < max(1, n):
		return NewInvalidValueError(op, "leading dimension of C below row width")
	}
	return nil
}

// Cherk is the complex64 form of Zherk.
func (ctx *Context) Cherk(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha Scalar[float32], a DevicePtr, lda int, beta Scalar[float32], c DevicePtr, ldc int) error {
	const op = "Cherk"
	if err := ctx.herkArgs(op, uplo, trans, n, k, lda, ldc); err != nil {
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
	if !scaleOnly && a.IsNil() {
		return ErrNullPointer
	}

	as := a.Complex64()
	cs := c.Complex64()

	ctx.parallelRows(ctx.defaultStream, n, func(i int) {
		cherkRow(uplo, trans, n, k, av, as, lda, bv, cs, ldc, scaleOnly, i)
	})
	return nil
}

func cherkRow(uplo blas.Uplo, trans blas.Transpose, n, k int, alpha float32, a []complex64, lda int, beta float32, c []complex64, ldc int, scaleOnly bool, i int) {
	jMin, jMax := i, n
	if uplo == blas.Lower {
		jMin, jMax = 0, i+1
	}
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
		var sum complex64
		if trans == blas.NoTrans {
			for l := 0; l < k; l++ {
				sum += a[i*lda+l] * conj64(a[j*lda+l])
			}
		} else {
			for l := 0; l < k; l++ {
				sum += conj64(a[l*lda+i]) * a[l*lda+j]
			}
		}
		if i == j {
			c[ci] = complex(alpha*real(sum)+beta*real(c[ci]), 0)
		} else {
			c[ci] = complex(alpha, 0)*sum + complex(beta, 0)*c[ci]
		}
	}
}
