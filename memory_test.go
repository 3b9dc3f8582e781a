package hermetica

import (
	"testing"

	"gonum.org/v1/gonum/blas"
)

// Test basic memory allocation and deallocation
func TestMemoryAllocation(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	sizes := []int{100, 1000, 10000, 1000000}

	for _, size := range sizes {
		ptr, err := ctx.Malloc(size * 16)
		if err != nil {
			t.Fatalf("Failed to allocate %d bytes: %v", size*16, err)
		}

		slice := ptr.Complex128()
		if len(slice) != size {
			t.Errorf("Expected slice length %d, got %d", size, len(slice))
		}

		// Write and read test
		for i := 0; i < min(100, size); i++ {
			slice[i] = complex(float64(i), -float64(i))
		}
		for i := 0; i < min(100, size); i++ {
			if slice[i] != complex(float64(i), -float64(i)) {
				t.Errorf("Memory corruption at index %d", i)
			}
		}

		if err := ctx.Free(ptr); err != nil {
			t.Fatalf("Failed to free memory: %v", err)
		}
	}
}

func TestMallocRejectsBadSizes(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	if _, err := ctx.Malloc(0); err != ErrInvalidSize {
		t.Errorf("Malloc(0): expected ErrInvalidSize, got %v", err)
	}
	if _, err := ctx.Malloc(-16); err != ErrInvalidSize {
		t.Errorf("Malloc(-16): expected ErrInvalidSize, got %v", err)
	}
}

func TestFreeSemantics(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	// Freeing the zero pointer is a no-op.
	if err := ctx.Free(DevicePtr{}); err != nil {
		t.Errorf("Free of zero pointer failed: %v", err)
	}

	ptr, err := ctx.Malloc(64)
	if err != nil {
		t.Fatalf("Malloc failed: %v", err)
	}
	if err := ctx.Free(ptr); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if err := ctx.Free(ptr); err != ErrDoubleFree {
		t.Errorf("second Free: expected ErrDoubleFree, got %v", err)
	}
}

func TestMemcpyRoundTrip(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const N = 512
	src := make([]complex128, N)
	for i := range src {
		src[i] = complex(float64(i), float64(-i))
	}

	dSrc := MallocOrFail(t, ctx, N*16)
	dDst := MallocOrFail(t, ctx, N*16)
	defer FreeOrFail(t, ctx, dSrc)
	defer FreeOrFail(t, ctx, dDst)

	MemcpyOrFail(t, ctx, dSrc, src, N*16, MemcpyHostToDevice)
	MemcpyOrFail(t, ctx, dDst, dSrc, N*16, MemcpyDeviceToDevice)

	dst := make([]complex128, N)
	MemcpyOrFail(t, ctx, dst, dDst, N*16, MemcpyDeviceToHost)

	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("round trip mismatch at %d: got %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestMemcpyRejectsUnsupportedType(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	err := ctx.Memcpy(make([]string, 1), make([]string, 1), 8, MemcpyHostToHost)
	if !IsInvalidValueError(err) {
		t.Errorf("expected invalid-value error, got %v", err)
	}
}

// A device-to-host copy must observe all kernel work enqueued before it.
func TestMemcpyDeviceToHostSynchronizes(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const n, lda = 64, 64
	g := NewInitializer(61, 1, 0)
	a := make([]complex128, n*lda)
	x := make([]complex128, n)
	g.ZMatrix(a, n, n, lda, NeverSetNaN, true)
	g.ZVector(x, n, 1, NeverSetNaN)

	want := make([]complex128, len(a))
	copy(want, a)
	Reference{}.Zher(blas.Upper, n, 2, x, 1, want, lda)

	dA := uploadZ(t, ctx, a)
	dX := uploadZ(t, ctx, x)
	defer FreeOrFail(t, ctx, dA)
	defer FreeOrFail(t, ctx, dX)

	if err := ctx.Zher(blas.Upper, n, HostScalar(2.0), dX, 1, dA, lda); err != nil {
		t.Fatalf("Zher failed: %v", err)
	}
	// No explicit Synchronize: the copy itself must wait.
	got := make([]complex128, len(a))
	MemcpyOrFail(t, ctx, got, dA, len(a)*16, MemcpyDeviceToHost)
	if err := UnitCheckZGeneral(n, n, lda, want, got); err != nil {
		t.Errorf("copy observed stale data: %v", err)
	}
}

func TestDevicePtrOffset(t *testing.T) {
	ctx := NewContext()
	defer ctx.Destroy()

	const elems = 32
	ptr := MallocOrFail(t, ctx, elems*16)
	defer FreeOrFail(t, ctx, ptr)

	base := ptr.Complex128()
	for i := range base {
		base[i] = complex(float64(i), 0)
	}

	half := ptr.Offset(16 * elems / 2)
	view := half.Complex128()
	if len(view) != elems/2 {
		t.Fatalf("offset view length: got %d, want %d", len(view), elems/2)
	}
	if view[0] != complex(float64(elems/2), 0) {
		t.Errorf("offset view start: got %v, want %v", view[0], complex(float64(elems/2), 0))
	}
}

func TestMemoryPoolReuse(t *testing.T) {
	pool := NewMemoryPool()

	ptr1, err := pool.Allocate(1024)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if err := pool.Free(ptr1); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	// A second allocation of the same size should reuse the freed block.
	ptr2, err := pool.Allocate(1024)
	if err != nil {
		t.Fatalf("second Allocate failed: %v", err)
	}
	if ptr2.ptr != ptr1.ptr {
		t.Errorf("expected pooled block reuse")
	}

	allocated, peak := pool.GetStats()
	if allocated <= 0 || peak < allocated {
		t.Errorf("implausible pool stats: allocated=%d peak=%d", allocated, peak)
	}
}
