package hip

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/fxnlabs/gohip/internal/drv"
	"github.com/fxnlabs/gohip/internal/metrics"
)

// CopyKind selects the direction of a memory copy.
type CopyKind int32

const (
	CopyHostToHost     CopyKind = 0
	CopyHostToDevice   CopyKind = 1
	CopyDeviceToHost   CopyKind = 2
	CopyDeviceToDevice CopyKind = 3
	// CopyDefault lets the driver infer the direction from the pointers.
	CopyDefault CopyKind = 4
	// CopyDeviceToDeviceNoCU copies without engaging compute units.
	CopyDeviceToDeviceNoCU CopyKind = 1024
)

// MallocFlag tunes the coherence behavior of an allocation.
type MallocFlag uint32

const (
	MallocDefault      MallocFlag = 0x0
	MallocFineGrained  MallocFlag = 0x1
	MallocSignalMemory MallocFlag = 0x2
	MallocUncached     MallocFlag = 0x3
	MallocContiguous   MallocFlag = 0x4
)

// Memory owns a device allocation holding n elements of T. The zero-length
// block is a valid sentinel that owns nothing: it allocates no memory, its
// Close is a no-op, and copies and fills against it are rejected or degrade
// to no-ops by the usual size checks.
//
// Memory is not safe for concurrent use with Close.
type Memory[T any] struct {
	ptr drv.MemPtr
	n   int
}

// Alloc allocates room for n elements of T on the active device.
func Alloc[T any](n int) (*Memory[T], error) {
	return acquire[T](n, func(size uintptr) (drv.MemPtr, int32) {
		return drv.Runtime().Malloc(size)
	})
}

// AllocWithFlags allocates with an explicit coherence flag.
func AllocWithFlags[T any](n int, flag MallocFlag) (*Memory[T], error) {
	return acquire[T](n, func(size uintptr) (drv.MemPtr, int32) {
		return drv.Runtime().MallocWithFlags(size, uint32(flag))
	})
}

// AllocAsync allocates from the stream-ordered allocator. The allocation is
// usable once prior work on the stream completes.
func AllocAsync[T any](n int, stream *Stream) (*Memory[T], error) {
	if stream == nil || stream.handle == nil {
		return nil, errInvalidValue()
	}
	return acquire[T](n, func(size uintptr) (drv.MemPtr, int32) {
		return drv.Runtime().MallocAsync(size, stream.handle)
	})
}

func acquire[T any](n int, raw func(uintptr) (drv.MemPtr, int32)) (*Memory[T], error) {
	if n < 0 {
		return nil, errInvalidValue()
	}
	if n == 0 {
		return &Memory[T]{}, nil
	}
	size := uintptr(n) * sizeOf[T]()
	ptr, code := raw(size)
	m, err := result(&Memory[T]{ptr: ptr, n: n}, code)
	if err != nil {
		return nil, err
	}
	metrics.ResourceAcquisitions.WithLabelValues("memory").Inc()
	metrics.DeviceAllocatedBytes.Add(float64(size))
	metrics.DeviceBytesInUse.Add(float64(size))
	return m, nil
}

func sizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Ptr exposes the raw device address for handoff to kernel launches or
// library calls. It is nil for the zero-length sentinel and after Close.
func (m *Memory[T]) Ptr() unsafe.Pointer {
	return unsafe.Pointer(m.ptr)
}

// Len returns the element count the block was allocated for.
func (m *Memory[T]) Len() int {
	return m.n
}

// SizeBytes returns the allocation size in bytes.
func (m *Memory[T]) SizeBytes() uintptr {
	return uintptr(m.n) * sizeOf[T]()
}

// CopyTo copies the full contents of m into dst, which must hold at least
// as many elements. Both endpoints must be live allocations.
func (m *Memory[T]) CopyTo(dst *Memory[T], kind CopyKind) error {
	if dst == nil || m.ptr == nil || dst.ptr == nil || dst.n < m.n {
		return errInvalidValue()
	}
	return check(drv.Runtime().Memcpy(dst.ptr, m.ptr, m.SizeBytes(), int32(kind)))
}

// CopyFromHost uploads src into the block. An empty src is a no-op.
func (m *Memory[T]) CopyFromHost(src []T) error {
	if len(src) == 0 {
		return nil
	}
	if m.ptr == nil || len(src) > m.n {
		return errInvalidValue()
	}
	size := uintptr(len(src)) * sizeOf[T]()
	return check(drv.Runtime().Memcpy(m.ptr, drv.MemPtr(unsafe.Pointer(&src[0])), size, int32(CopyHostToDevice)))
}

// CopyToHost downloads the full block into dst, which must hold at least
// Len elements. Downloading the zero-length sentinel is a no-op.
func (m *Memory[T]) CopyToHost(dst []T) error {
	if m.n == 0 {
		return nil
	}
	if m.ptr == nil || len(dst) < m.n {
		return errInvalidValue()
	}
	return check(drv.Runtime().Memcpy(drv.MemPtr(unsafe.Pointer(&dst[0])), m.ptr, m.SizeBytes(), int32(CopyDeviceToHost)))
}

// Memset fills the first n bytes of the block with value. n may not exceed
// SizeBytes; filling zero bytes is a no-op.
func (m *Memory[T]) Memset(value byte, n int) error {
	if n < 0 || uintptr(n) > m.SizeBytes() {
		return errInvalidValue()
	}
	if n == 0 {
		return nil
	}
	if m.ptr == nil {
		return errInvalidValue()
	}
	return check(drv.Runtime().Memset(m.ptr, value, uintptr(n)))
}

// Close releases the allocation. Only the first call frees; later calls and
// closing the zero-length sentinel are no-ops. A driver failure during free
// is logged and counted, never returned: by the time a block is being torn
// down there is no caller left who can act on it.
func (m *Memory[T]) Close() {
	if m == nil || m.ptr == nil {
		return
	}
	ptr := m.ptr
	size := m.SizeBytes()
	m.ptr = nil
	if code := drv.Runtime().Free(ptr); code != 0 {
		e := newError(code)
		log.Error("failed to free device memory",
			zap.Stringer("status", e.Status),
			zap.Int32("code", e.Code),
			zap.Uint64("bytes", uint64(size)))
		metrics.ResourceReleaseFailures.WithLabelValues("memory").Inc()
		return
	}
	metrics.ResourceReleases.WithLabelValues("memory").Inc()
	metrics.DeviceBytesInUse.Sub(float64(size))
}
