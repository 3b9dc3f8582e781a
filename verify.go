// Package hermetica result verification: exact unit checks and
// Frobenius-norm discrepancy scores.
package hermetica

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"gonum.org/v1/gonum/blas"
)

// Unit checks compare gold and computed buffers element by element.
// Two elements match when both components are exactly equal, or both
// NaN; the first mismatch is reported as an error. Comparison is
// restricted to the logically significant region: the declared m×n
// window of each batch element, never the padding between rows or
// batches.

func unitEqual128(a, b complex128) bool {
	return f64Equal(real(a), real(b)) && f64Equal(imag(a), imag(b))
}

func f64Equal(x, y float64) bool {
	return x == y || (math.IsNaN(x) && math.IsNaN(y))
}

func unitEqual64(a, b complex64) bool {
	return f32Equal(real(a), real(b)) && f32Equal(imag(a), imag(b))
}

func f32Equal(x, y float32) bool {
	return x == y || (math32.IsNaN(x) && math32.IsNaN(y))
}

// UnitCheckZGeneral compares the m×n logical window of two row-major
// complex128 buffers with leading dimension ld.
func UnitCheckZGeneral(m, n, ld int, gold, comp []complex128) error {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			g, c := gold[i*ld+j], comp[i*ld+j]
			if !unitEqual128(g, c) {
				return NewExecutionError("UnitCheck",
					fmt.Sprintf("mismatch at (%d,%d): gold %v, computed %v", i, j, g, c), nil)
			}
		}
	}
	return nil
}

// UnitCheckZGeneralStrided compares batchCount strided windows.
func UnitCheckZGeneralStrided(m, n, ld, stride, batchCount int, gold, comp []complex128) error {
	for b := 0; b < batchCount; b++ {
		if err := UnitCheckZGeneral(m, n, ld, gold[b*stride:], comp[b*stride:]); err != nil {
			return NewExecutionError("UnitCheck", fmt.Sprintf("batch %d", b), err)
		}
	}
	return nil
}

// UnitCheckZBatched compares batchCount independently stored windows.
func UnitCheckZBatched(m, n, ld, batchCount int, gold, comp [][]complex128) error {
	for b := 0; b < batchCount; b++ {
		if err := UnitCheckZGeneral(m, n, ld, gold[b], comp[b]); err != nil {
			return NewExecutionError("UnitCheck", fmt.Sprintf("batch %d", b), err)
		}
	}
	return nil
}

// UnitCheckCGeneral is the complex64 form of UnitCheckZGeneral.
func UnitCheckCGeneral(m, n, ld int, gold, comp []complex64) error {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			g, c := gold[i*ld+j], comp[i*ld+j]
			if !unitEqual64(g, c) {
				return NewExecutionError("UnitCheck",
					fmt.Sprintf("mismatch at (%d,%d): gold %v, computed %v", i, j, g, c), nil)
			}
		}
	}
	return nil
}

// UnitCheckCBatched compares batchCount independently stored windows.
func UnitCheckCBatched(m, n, ld, batchCount int, gold, comp [][]complex64) error {
	for b := 0; b < batchCount; b++ {
		if err := UnitCheckCGeneral(m, n, ld, gold[b], comp[b]); err != nil {
			return NewExecutionError("UnitCheck", fmt.Sprintf("batch %d", b), err)
		}
	}
	return nil
}

// Norm checks return a scalar discrepancy score,
// ‖gold − comp‖_F / ‖gold‖_F, and never assert. Callers compare the
// score against their own threshold. A zero gold norm with a nonzero
// difference reports +Inf; two identical buffers always score 0.

// NormCheckZGeneral computes the Frobenius relative error over the m×n
// logical window of two row-major complex128 buffers.
func NormCheckZGeneral(m, n, ld int, gold, comp []complex128) float64 {
	var diff, ref float64
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			g, c := gold[i*ld+j], comp[i*ld+j]
			d := cabs128(g - c)
			diff += d * d
			r := cabs128(g)
			ref += r * r
		}
	}
	return normScore(diff, ref)
}

// NormCheckZHermitian restricts the comparison to the triangle selected
// by uplo; the opposite triangle is unconstrained by the kernels and
// must not contribute to the score.
func NormCheckZHermitian(uplo blas.Uplo, n, ld int, gold, comp []complex128) float64 {
	var diff, ref float64
	for i := 0; i < n; i++ {
		jMin, jMax := i, n
		if uplo == blas.Lower {
			jMin, jMax = 0, i+1
		}
		for j := jMin; j < jMax; j++ {
			g, c := gold[i*ld+j], comp[i*ld+j]
			d := cabs128(g - c)
			diff += d * d
			r := cabs128(g)
			ref += r * r
		}
	}
	return normScore(diff, ref)
}

// NormCheckZHermitianStrided returns the worst per-batch triangle score
// across batchCount strided windows.
func NormCheckZHermitianStrided(uplo blas.Uplo, n, ld, stride, batchCount int, gold, comp []complex128) float64 {
	var worst float64
	for b := 0; b < batchCount; b++ {
		s := NormCheckZHermitian(uplo, n, ld, gold[b*stride:], comp[b*stride:])
		if s > worst || math.IsNaN(s) {
			worst = s
		}
	}
	return worst
}

// NormCheckZBatched returns the worst per-batch triangle score across
// independently stored windows.
func NormCheckZBatched(uplo blas.Uplo, n, ld, batchCount int, gold, comp [][]complex128) float64 {
	var worst float64
	for b := 0; b < batchCount; b++ {
		s := NormCheckZHermitian(uplo, n, ld, gold[b], comp[b])
		if s > worst || math.IsNaN(s) {
			worst = s
		}
	}
	return worst
}

// NormCheckZPacked compares two packed triangles of order n.
func NormCheckZPacked(n int, gold, comp []complex128) float64 {
	return NormCheckZGeneral(1, PackedLen(n), PackedLen(n), gold, comp)
}

func normScore(diff, ref float64) float64 {
	if diff == 0 {
		return 0
	}
	if ref == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(diff) / math.Sqrt(ref)
}

// NormCheckCGeneral is the complex64 form of NormCheckZGeneral. Norms
// are accumulated in float32, matching the kernel precision.
func NormCheckCGeneral(m, n, ld int, gold, comp []complex64) float32 {
	var diff, ref float32
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			g, c := gold[i*ld+j], comp[i*ld+j]
			d := cabs64(g - c)
			diff += d * d
			r := cabs64(g)
			ref += r * r
		}
	}
	return normScore32(diff, ref)
}

// NormCheckCHermitian is the complex64 form of NormCheckZHermitian.
func NormCheckCHermitian(uplo blas.Uplo, n, ld int, gold, comp []complex64) float32 {
	var diff, ref float32
	for i := 0; i < n; i++ {
		jMin, jMax := i, n
		if uplo == blas.Lower {
			jMin, jMax = 0, i+1
		}
		for j := jMin; j < jMax; j++ {
			g, c := gold[i*ld+j], comp[i*ld+j]
			d := cabs64(g - c)
			diff += d * d
			r := cabs64(g)
			ref += r * r
		}
	}
	return normScore32(diff, ref)
}

// NormCheckCPacked compares two packed complex64 triangles of order n.
func NormCheckCPacked(n int, gold, comp []complex64) float32 {
	return NormCheckCGeneral(1, PackedLen(n), PackedLen(n), gold, comp)
}

func normScore32(diff, ref float32) float32 {
	if diff == 0 {
		return 0
	}
	if ref == 0 {
		return math32.Inf(1)
	}
	return math32.Sqrt(diff) / math32.Sqrt(ref)
}

// Tolerance-based comparison, used when validating the oracle against
// an independent implementation whose accumulation order differs.

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64
}

// DefaultTolerance returns default tolerance configuration
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 1e-10,
		RelTol: 1e-12,
	}
}

// Complex128NearEqual checks if two complex128 values are equal within
// tolerance, component-wise.
func Complex128NearEqual(a, b complex128, tol ToleranceConfig) bool {
	return float64NearEqual(real(a), real(b), tol) && float64NearEqual(imag(a), imag(b), tol)
}

func float64NearEqual(a, b float64, tol ToleranceConfig) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	diff := math.Abs(a - b)
	if diff <= tol.AbsTol {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= larger*tol.RelTol
}
