package hermetica

import (
	"gonum.org/v1/gonum/blas"
)

// Argument validation shared by the kernel entry points. Checks run
// before any buffer is touched: an invalid shape is a status error and
// a strict no-op on device memory, while a zero-sized problem is a
// successful no-op.

func (ctx *Context) checkHandle(op string) error {
	if ctx == nil || ctx.streams == nil {
		return ErrNotInitialized
	}
	return nil
}

func checkUplo(op string, ul blas.Uplo) error {
	if ul != blas.Upper && ul != blas.Lower {
		return NewInvalidValueError(op, "illegal triangle")
	}
	return nil
}

// checkHermTranspose rejects plain transposition: for Hermitian rank
// updates only NoTrans and ConjTrans keep the result Hermitian.
func checkHermTranspose(op string, t blas.Transpose) error {
	if t != blas.NoTrans && t != blas.ConjTrans {
		return NewInvalidValueError(op, "illegal transpose for Hermitian update")
	}
	return nil
}

// vectorStart returns the storage index of logical element 0 for a
// vector of n elements with increment inc. Negative increments iterate
// the vector in reverse, starting from the far end of the buffer.
func vectorStart(n, inc int) int {
	if inc > 0 {
		return 0
	}
	return (n - 1) * -inc
}

// rankKCols returns the number of stored columns of the A (and B)
// operand of a rank-k update: k when the operand is used as-is, n when
// it is conjugate-transposed. Row-major leading dimensions must be at
// least this wide.
func rankKCols(trans blas.Transpose, n, k int) int {
	if trans == blas.NoTrans {
		return k
	}
	return n
}
