// Package hermetica device context, streams, and pointer-mode state.
package hermetica

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Device represents a compute device. The emulated device is the CPU
// with its cores and available memory. Each device has a unique ID and
// capabilities.
type Device struct {
	ID         int    // Unique device identifier
	Name       string // Human-readable device name
	TotalMem   uint64 // Total available memory in bytes
	NumCores   int    // Number of CPU cores
	MaxThreads int    // Maximum concurrent threads
}

// PointerMode selects where kernels read their scalar coefficients
// from: host memory or device memory. It mirrors the pointer-mode
// switch of GPU BLAS handles and must be set on the Context before the
// kernel call it applies to.
type PointerMode int

const (
	// PointerModeHost reads alpha and beta from host values.
	PointerModeHost PointerMode = iota
	// PointerModeDevice reads alpha and beta from device memory.
	PointerModeDevice
)

func (m PointerMode) String() string {
	if m == PointerModeDevice {
		return "device"
	}
	return "host"
}

// Context is the execution handle for all device operations. It owns
// the memory pool, the stream set, and the active pointer mode. A
// Context must not be shared between concurrently running test cases.
type Context struct {
	device        *Device
	streams       map[int]*Stream
	streamID      int32
	memory        *MemoryPool
	defaultStream *Stream
	pointerMode   PointerMode
}

// Stream represents an ordered sequence of operations that execute
// asynchronously. Operations within a stream execute in order, but
// operations in different streams may execute concurrently.
type Stream struct {
	id    int
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
}

// Global runtime state
var (
	defaultDevice  *Device
	defaultContext *Context
	initOnce       sync.Once
)

func init() {
	initOnce.Do(func() {
		defaultDevice = &Device{
			ID:         0,
			Name:       "CPU (" + SIMDLevel() + ")",
			TotalMem:   getSystemMemory(),
			NumCores:   runtime.NumCPU(),
			MaxThreads: runtime.NumCPU() * 2,
		}
		defaultContext = newContext(defaultDevice)
	})
}

func newContext(dev *Device) *Context {
	ctx := &Context{
		device:  dev,
		streams: make(map[int]*Stream),
		memory:  NewMemoryPool(),
	}
	ctx.defaultStream = ctx.CreateStream()
	return ctx
}

// NewContext creates an independent execution context on the default
// device. Each test case should own exactly one context for its
// duration.
//
// Example:
//
//	ctx := hermetica.NewContext()
//	defer ctx.Destroy()
func NewContext() *Context {
	return newContext(defaultDevice)
}

// Destroy releases the context's streams. Device memory still held by
// the context's pool becomes unreachable; callers should Free buffers
// before destroying the context.
func (ctx *Context) Destroy() {
	for _, s := range ctx.streams {
		s.wg.Wait()
		close(s.tasks)
	}
	ctx.streams = nil
}

// SetPointerMode sets where subsequent kernel calls read their scalar
// coefficients from. The mode stays in effect until changed.
func (ctx *Context) SetPointerMode(mode PointerMode) error {
	if mode != PointerModeHost && mode != PointerModeDevice {
		return NewInvalidValueError("SetPointerMode", "unknown pointer mode")
	}
	ctx.pointerMode = mode
	return nil
}

// PointerMode returns the context's active pointer mode.
func (ctx *Context) PointerMode() PointerMode {
	return ctx.pointerMode
}

// Malloc allocates device memory of the specified size in bytes from
// the default context.
func Malloc(size int) (DevicePtr, error) {
	return defaultContext.Malloc(size)
}

// Free releases device memory allocated by Malloc on the default
// context.
func Free(ptr DevicePtr) error {
	return defaultContext.Free(ptr)
}

// Memcpy copies memory between host and device using the default
// context. Device-to-host copies synchronize: they wait for all prior
// work enqueued on the context's streams before copying.
func Memcpy(dst, src interface{}, size int, kind MemcpyKind) error {
	return defaultContext.Memcpy(dst, src, size, kind)
}

// Synchronize waits for all operations on all streams of the default
// context to complete.
func Synchronize() error {
	return defaultContext.Synchronize()
}

// GetDevice returns the current device information.
func GetDevice() *Device {
	return defaultDevice
}

// GetDeviceCount returns the number of available devices. The emulated
// runtime always reports one device.
func GetDeviceCount() int {
	return 1
}

// CreateStream creates a new execution stream
func (ctx *Context) CreateStream() *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	stream := &Stream{
		id:    id,
		tasks: make(chan func(), 1000),
		done:  make(chan struct{}),
	}

	// Start worker goroutine for stream
	go stream.worker()

	ctx.streams[id] = stream
	return stream
}

// Synchronize waits for all streams to complete
func (ctx *Context) Synchronize() error {
	for _, stream := range ctx.streams {
		stream.Synchronize()
	}
	return nil
}

// Stream methods

// worker processes tasks for a stream
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// Synchronize waits for all tasks in the stream to complete
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Submit adds a task to the stream
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}
