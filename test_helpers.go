package hermetica

import (
	"testing"
)

// MallocOrFail allocates device memory and fails the test if unsuccessful
func MallocOrFail(t testing.TB, ctx *Context, size int) DevicePtr {
	t.Helper()
	ptr, err := ctx.Malloc(size)
	if err != nil {
		t.Fatalf("Failed to allocate %d bytes: %v", size, err)
	}
	return ptr
}

// MemcpyOrFail copies data and fails the test if unsuccessful
func MemcpyOrFail(t testing.TB, ctx *Context, dst, src interface{}, size int, kind MemcpyKind) {
	t.Helper()
	if err := ctx.Memcpy(dst, src, size, kind); err != nil {
		t.Fatalf("Memcpy failed: %v", err)
	}
}

// SetPointerModeOrFail switches pointer mode and fails the test if unsuccessful
func SetPointerModeOrFail(t testing.TB, ctx *Context, mode PointerMode) {
	t.Helper()
	if err := ctx.SetPointerMode(mode); err != nil {
		t.Fatalf("SetPointerMode(%v) failed: %v", mode, err)
	}
}

// SynchronizeOrFail synchronizes and fails the test if unsuccessful
func SynchronizeOrFail(t testing.TB, ctx *Context) {
	t.Helper()
	if err := ctx.Synchronize(); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}
}

// FreeOrFail releases device memory and fails the test if unsuccessful
func FreeOrFail(t testing.TB, ctx *Context, ptr DevicePtr) {
	t.Helper()
	if err := ctx.Free(ptr); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
}
