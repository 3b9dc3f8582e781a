package hermetica

import (
	"math"
	"math/cmplx"

	"github.com/chewxy/math32"
)

// Complex constrains the element types the kernels operate on.
type Complex interface {
	~complex64 | ~complex128
}

func conj128(v complex128) complex128 {
	return cmplx.Conj(v)
}

func conj64(v complex64) complex64 {
	return complex(real(v), -imag(v))
}

// cabs64 is the complex64 modulus computed in float32, using math32 to
// stay in single precision the way the kernels themselves do.
func cabs64(v complex64) float32 {
	return math32.Hypot(real(v), imag(v))
}

func cabs128(v complex128) float64 {
	return cmplx.Abs(v)
}

// isNaN64 reports whether either component of v is NaN.
func isNaN64(v complex64) bool {
	return math32.IsNaN(real(v)) || math32.IsNaN(imag(v))
}

func isNaN128(v complex128) bool {
	return math.IsNaN(real(v)) || math.IsNaN(imag(v))
}
