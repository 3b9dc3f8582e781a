// Package hermetica is a verification and benchmarking harness for the
// Hermitian BLAS update family (her, hpr, herk, her2k and their batched
// variants) executed on an emulated accelerator device.
//
// The device side mirrors a GPU BLAS calling convention: memory is
// allocated through an opaque DevicePtr, data moves with explicit
// Memcpy calls, scalar coefficients are read from either host or device
// memory depending on the handle's pointer mode, and every kernel
// returns a status error instead of panicking. Kernels execute on CPU
// goroutines, one stream per context, with device-to-host copies acting
// as synchronization barriers.
//
// On top of the device sits the harness proper: randomized data
// initialization with NaN-injection policies, a serial reference oracle,
// exact and Frobenius-norm result verifiers restricted to the
// significant triangle, and a cold/hot timing driver with analytic
// FLOP and byte models.
//
// All matrices are row-major; the leading dimension is the stride in
// elements between consecutive rows, as in gonum.
package hermetica
