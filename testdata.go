// Package hermetica randomized test-data generation.
package hermetica

import (
	"math"
	"math/rand"

	"github.com/chewxy/math32"

	"gonum.org/v1/gonum/blas"
)

// NaNPolicy controls whether the initializer may seed buffers with NaN
// to probe a kernel's handling of poisoned scalars. The alpha and beta
// variants only take effect when the corresponding scalar of the test
// case is itself NaN; the buffer they poison is the one that scalar
// multiplies, so a well-behaved kernel propagates the NaN and a
// quick-return bug hides it.
type NaNPolicy int

const (
	// NeverSetNaN always produces finite values.
	NeverSetNaN NaNPolicy = iota
	// AlphaSetsNaN poisons the buffer when the case's alpha is NaN.
	AlphaSetsNaN
	// BetaSetsNaN poisons the buffer when the case's beta is NaN.
	BetaSetsNaN
)

func (p NaNPolicy) String() string {
	switch p {
	case AlphaSetsNaN:
		return "alpha_sets_nan"
	case BetaSetsNaN:
		return "beta_sets_nan"
	default:
		return "never_set_nan"
	}
}

// Initializer fills host buffers with bounded pseudo-random values.
// Values are small integers (see RandInitLow/RandInitHigh) so that
// sums of products remain exactly representable and device results can
// be compared bitwise against the oracle. The generator is seeded
// explicitly: two initializers built from the same seed produce the
// same sequence.
type Initializer struct {
	rnd   *rand.Rand
	alpha complex128
	beta  complex128
}

// NewInitializer returns an initializer with the given seed. The alpha
// and beta values of the active test case decide whether the NaN
// policies fire.
func NewInitializer(seed int64, alpha, beta complex128) *Initializer {
	return &Initializer{
		rnd:   rand.New(rand.NewSource(seed)),
		alpha: alpha,
		beta:  beta,
	}
}

// randValue draws one bounded random value in [RandInitLow, RandInitHigh].
func (g *Initializer) randValue() float64 {
	return float64(RandInitLow + g.rnd.Intn(RandInitHigh-RandInitLow+1))
}

func (g *Initializer) randComplex() complex128 {
	return complex(g.randValue(), g.randValue())
}

// poisons reports whether the policy demands NaN injection for the
// current case.
func (g *Initializer) poisons(policy NaNPolicy) bool {
	switch policy {
	case AlphaSetsNaN:
		return isNaN128(g.alpha)
	case BetaSetsNaN:
		return isNaN128(g.beta)
	default:
		return false
	}
}

var nan = math.NaN()

// ZMatrix fills an m×n row-major complex128 matrix with leading
// dimension ld. Elements outside the logical extent (padding between
// rows) are left untouched. When hermitian is set the matrix is made
// Hermitian in full: mirrored triangles and a real diagonal (m must
// equal n).
func (g *Initializer) ZMatrix(dst []complex128, m, n, ld int, policy NaNPolicy, hermitian bool) {
	if g.poisons(policy) {
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				dst[i*ld+j] = complex(nan, nan)
			}
		}
		return
	}
	if hermitian {
		for i := 0; i < m; i++ {
			dst[i*ld+i] = complex(g.randValue(), 0)
			for j := i + 1; j < n; j++ {
				v := g.randComplex()
				dst[i*ld+j] = v
				dst[j*ld+i] = conj128(v)
			}
		}
		return
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			dst[i*ld+j] = g.randComplex()
		}
	}
}

// ZMatrixStrided fills batchCount strided windows of an m×n matrix.
func (g *Initializer) ZMatrixStrided(dst []complex128, m, n, ld, stride, batchCount int, policy NaNPolicy, hermitian bool) {
	for b := 0; b < batchCount; b++ {
		g.ZMatrix(dst[b*stride:], m, n, ld, policy, hermitian)
	}
}

// ZVector fills a vector of n logical elements with increment incX
// (its storage occupies n*|incX| elements).
func (g *Initializer) ZVector(dst []complex128, n, incX int, policy NaNPolicy) {
	inc := incX
	if inc < 0 {
		inc = -inc
	}
	if inc == 0 {
		inc = 1
	}
	poison := g.poisons(policy)
	for i := 0; i < n; i++ {
		if poison {
			dst[i*inc] = complex(nan, nan)
		} else {
			dst[i*inc] = g.randComplex()
		}
	}
}

// ZPacked fills a packed Hermitian triangle of order n: one triangle
// plus the diagonal, diagonal entries real.
func (g *Initializer) ZPacked(dst []complex128, uplo blas.Uplo, n int, policy NaNPolicy) {
	if g.poisons(policy) {
		for i := range dst[:PackedLen(n)] {
			dst[i] = complex(nan, nan)
		}
		return
	}
	for i := 0; i < n; i++ {
		if uplo == blas.Upper {
			dst[packedUpperIndex(n, i, i)] = complex(g.randValue(), 0)
			for j := i + 1; j < n; j++ {
				dst[packedUpperIndex(n, i, j)] = g.randComplex()
			}
		} else {
			for j := 0; j < i; j++ {
				dst[packedLowerIndex(i, j)] = g.randComplex()
			}
			dst[packedLowerIndex(i, i)] = complex(g.randValue(), 0)
		}
	}
}

// CMatrix is the complex64 form of ZMatrix.
func (g *Initializer) CMatrix(dst []complex64, m, n, ld int, policy NaNPolicy, hermitian bool) {
	if g.poisons(policy) {
		qnan := math32.NaN()
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				dst[i*ld+j] = complex(qnan, qnan)
			}
		}
		return
	}
	if hermitian {
		for i := 0; i < m; i++ {
			dst[i*ld+i] = complex(float32(g.randValue()), 0)
			for j := i + 1; j < n; j++ {
				v := complex(float32(g.randValue()), float32(g.randValue()))
				dst[i*ld+j] = v
				dst[j*ld+i] = conj64(v)
			}
		}
		return
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			dst[i*ld+j] = complex(float32(g.randValue()), float32(g.randValue()))
		}
	}
}

// CMatrixStrided fills batchCount strided windows of an m×n matrix.
func (g *Initializer) CMatrixStrided(dst []complex64, m, n, ld, stride, batchCount int, policy NaNPolicy, hermitian bool) {
	for b := 0; b < batchCount; b++ {
		g.CMatrix(dst[b*stride:], m, n, ld, policy, hermitian)
	}
}

// CVector is the complex64 form of ZVector.
func (g *Initializer) CVector(dst []complex64, n, incX int, policy NaNPolicy) {
	inc := incX
	if inc < 0 {
		inc = -inc
	}
	if inc == 0 {
		inc = 1
	}
	poison := g.poisons(policy)
	qnan := math32.NaN()
	for i := 0; i < n; i++ {
		if poison {
			dst[i*inc] = complex(qnan, qnan)
		} else {
			dst[i*inc] = complex(float32(g.randValue()), float32(g.randValue()))
		}
	}
}

// CPacked is the complex64 form of ZPacked.
func (g *Initializer) CPacked(dst []complex64, uplo blas.Uplo, n int, policy NaNPolicy) {
	if g.poisons(policy) {
		qnan := math32.NaN()
		for i := range dst[:PackedLen(n)] {
			dst[i] = complex(qnan, qnan)
		}
		return
	}
	for i := 0; i < n; i++ {
		if uplo == blas.Upper {
			dst[packedUpperIndex(n, i, i)] = complex(float32(g.randValue()), 0)
			for j := i + 1; j < n; j++ {
				dst[packedUpperIndex(n, i, j)] = complex(float32(g.randValue()), float32(g.randValue()))
			}
		} else {
			for j := 0; j < i; j++ {
				dst[packedLowerIndex(i, j)] = complex(float32(g.randValue()), float32(g.randValue()))
			}
			dst[packedLowerIndex(i, i)] = complex(float32(g.randValue()), 0)
		}
	}
}
