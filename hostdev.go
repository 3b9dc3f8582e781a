// Package hermetica paired host/device buffers.
package hermetica

import (
	"unsafe"
)

// HostDevice pairs a host-resident mirror with its device allocation.
// Ownership is exclusive per side and transfers are explicit bulk
// copies; nothing tracks divergence, so after mutating one side the
// caller re-copies before trusting the other. Modelling the pair as one
// value keeps a test case from silently reusing a stale device buffer
// between two kernel invocations.
type HostDevice[T ScalarType] struct {
	Host []T
	dev  DevicePtr
	ctx  *Context
}

// NewHostDevice allocates a host mirror and a device buffer of elems
// elements each.
func NewHostDevice[T ScalarType](ctx *Context, elems int) (*HostDevice[T], error) {
	var zero T
	d, err := ctx.Malloc(elems * int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return &HostDevice[T]{
		Host: make([]T, elems),
		dev:  d,
		ctx:  ctx,
	}, nil
}

// Device returns the device-side pointer of the pair.
func (p *HostDevice[T]) Device() DevicePtr {
	return p.dev
}

// Bytes returns the transfer size of the pair in bytes.
func (p *HostDevice[T]) Bytes() int {
	var zero T
	return len(p.Host) * int(unsafe.Sizeof(zero))
}

// ToDevice copies the host mirror into device memory.
func (p *HostDevice[T]) ToDevice() error {
	return p.ctx.Memcpy(p.dev, p.Host, p.Bytes(), MemcpyHostToDevice)
}

// CopyToDevice uploads an arbitrary host slice of the pair's length
// into device memory without disturbing the pair's own mirror. Used to
// restore a pristine input before a second kernel invocation.
func (p *HostDevice[T]) CopyToDevice(src []T) error {
	return p.ctx.Memcpy(p.dev, src, p.Bytes(), MemcpyHostToDevice)
}

// FromDevice copies device memory back into the host mirror, waiting
// for prior enqueued device work first.
func (p *HostDevice[T]) FromDevice() error {
	return p.ctx.Memcpy(p.Host, p.dev, p.Bytes(), MemcpyDeviceToHost)
}

// FromDeviceInto downloads device memory into a foreign host slice,
// leaving the pair's own mirror untouched.
func (p *HostDevice[T]) FromDeviceInto(dst []T) error {
	return p.ctx.Memcpy(dst, p.dev, p.Bytes(), MemcpyDeviceToHost)
}

// Free releases the device side of the pair.
func (p *HostDevice[T]) Free() error {
	return p.ctx.Free(p.dev)
}

// HostDeviceBatch pairs batchCount equally sized host mirrors with
// per-batch device allocations, the pointer-array flavor of batched
// storage.
type HostDeviceBatch[T ScalarType] struct {
	Host [][]T
	devs []DevicePtr
	ctx  *Context
}

// NewHostDeviceBatch allocates batchCount pairs of elems elements each.
func NewHostDeviceBatch[T ScalarType](ctx *Context, elems, batchCount int) (*HostDeviceBatch[T], error) {
	var zero T
	b := &HostDeviceBatch[T]{
		Host: make([][]T, batchCount),
		devs: make([]DevicePtr, batchCount),
		ctx:  ctx,
	}
	for i := 0; i < batchCount; i++ {
		d, err := ctx.Malloc(elems * int(unsafe.Sizeof(zero)))
		if err != nil {
			for j := 0; j < i; j++ {
				ctx.Free(b.devs[j])
			}
			return nil, err
		}
		b.Host[i] = make([]T, elems)
		b.devs[i] = d
	}
	return b, nil
}

// Devices returns the per-batch device pointers.
func (b *HostDeviceBatch[T]) Devices() []DevicePtr {
	return b.devs
}

// BatchCount returns the number of batch elements.
func (b *HostDeviceBatch[T]) BatchCount() int {
	return len(b.devs)
}

// CopyHostFrom deep-copies another batch's host mirrors into this one.
func (b *HostDeviceBatch[T]) CopyHostFrom(src *HostDeviceBatch[T]) {
	for i := range b.Host {
		copy(b.Host[i], src.Host[i])
	}
}

// ToDevice copies every host mirror into its device buffer.
func (b *HostDeviceBatch[T]) ToDevice() error {
	var zero T
	size := int(unsafe.Sizeof(zero))
	for i := range b.Host {
		if err := b.ctx.Memcpy(b.devs[i], b.Host[i], len(b.Host[i])*size, MemcpyHostToDevice); err != nil {
			return err
		}
	}
	return nil
}

// CopyToDevice uploads foreign host mirrors into the batch's device
// buffers, leaving the batch's own mirrors untouched.
func (b *HostDeviceBatch[T]) CopyToDevice(src [][]T) error {
	var zero T
	size := int(unsafe.Sizeof(zero))
	for i := range src {
		if err := b.ctx.Memcpy(b.devs[i], src[i], len(src[i])*size, MemcpyHostToDevice); err != nil {
			return err
		}
	}
	return nil
}

// FromDeviceInto downloads every device buffer into foreign host
// mirrors, leaving the batch's own mirrors untouched.
func (b *HostDeviceBatch[T]) FromDeviceInto(dst [][]T) error {
	var zero T
	size := int(unsafe.Sizeof(zero))
	for i := range dst {
		if err := b.ctx.Memcpy(dst[i], b.devs[i], len(dst[i])*size, MemcpyDeviceToHost); err != nil {
			return err
		}
	}
	return nil
}

// FromDevice copies every device buffer back into its host mirror.
func (b *HostDeviceBatch[T]) FromDevice() error {
	var zero T
	size := int(unsafe.Sizeof(zero))
	for i := range b.Host {
		if err := b.ctx.Memcpy(b.Host[i], b.devs[i], len(b.Host[i])*size, MemcpyDeviceToHost); err != nil {
			return err
		}
	}
	return nil
}

// Free releases all device-side buffers of the batch.
func (b *HostDeviceBatch[T]) Free() error {
	var first error
	for _, d := range b.devs {
		if err := b.ctx.Free(d); err != nil && first == nil {
			first = err
		}
	}
	return first
}
