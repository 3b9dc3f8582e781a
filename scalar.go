package hermetica

import (
	"unsafe"
)

// ScalarType constrains the element types kernels accept for their
// alpha and beta coefficients.
type ScalarType interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// Scalar carries a kernel coefficient in one of two locations: as a
// host value, or as a pointer into device memory. Which location a
// kernel actually reads is governed by the Context's pointer mode at
// call time; passing a Scalar whose location disagrees with the active
// mode is a handle error.
//
// Example:
//
//	ctx.SetPointerMode(hermetica.PointerModeHost)
//	err := ctx.Zher(blas.Upper, n, hermetica.HostScalar(2.0), dX, 1, dA, lda)
type Scalar[T ScalarType] struct {
	value    T
	dev      DevicePtr
	onDevice bool
}

// HostScalar wraps a host-resident coefficient value.
func HostScalar[T ScalarType](v T) Scalar[T] {
	return Scalar[T]{value: v}
}

// DeviceScalar wraps a coefficient stored in device memory. The
// pointed-to memory must hold at least one value of type T.
func DeviceScalar[T ScalarType](p DevicePtr) Scalar[T] {
	return Scalar[T]{dev: p, onDevice: true}
}

// OnDevice reports whether the scalar references device memory.
func (s Scalar[T]) OnDevice() bool {
	return s.onDevice
}

// loadScalar resolves a scalar against the context's pointer mode.
// Reading happens before any kernel work is enqueued; the preceding
// host-to-device copy of a device scalar is synchronous, so no barrier
// is needed here.
func loadScalar[T ScalarType](ctx *Context, op string, s Scalar[T]) (T, error) {
	var zero T
	switch ctx.pointerMode {
	case PointerModeHost:
		if s.onDevice {
			return zero, ErrInvalidPointerMode
		}
		return s.value, nil
	case PointerModeDevice:
		if !s.onDevice {
			return zero, ErrInvalidPointerMode
		}
		if s.dev.ptr == nil {
			return zero, ErrNullPointer
		}
		if s.dev.size < int(unsafe.Sizeof(zero)) {
			return zero, NewInvalidValueError(op, "device scalar buffer too small")
		}
		return *(*T)(s.dev.ptr), nil
	default:
		return zero, NewHandleError(op, "unknown pointer mode")
	}
}
