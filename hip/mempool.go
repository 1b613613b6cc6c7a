package hip

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/fxnlabs/gohip/internal/drv"
	"github.com/fxnlabs/gohip/internal/metrics"
)

// MemAllocationType selects the backing allocation kind of a pool.
type MemAllocationType uint32

const (
	MemAllocationTypeInvalid MemAllocationType = 0
	MemAllocationTypePinned  MemAllocationType = 1
)

// MemAllocationHandleType selects how pool allocations may be exported.
type MemAllocationHandleType uint32

const (
	MemHandleTypeNone                MemAllocationHandleType = 0
	MemHandleTypePosixFileDescriptor MemAllocationHandleType = 1
	MemHandleTypeWin32               MemAllocationHandleType = 2
	MemHandleTypeWin32KMT            MemAllocationHandleType = 4
)

// MemLocationType selects the physical placement of a pool.
type MemLocationType uint32

const (
	MemLocationTypeInvalid MemLocationType = 0
	MemLocationTypeDevice  MemLocationType = 1
)

// MemLocation places a pool on a specific device.
type MemLocation struct {
	Type MemLocationType
	ID   int32
}

// PoolProps describes a memory pool to be created. The zero value is not
// usable; start from DefaultPoolProps.
type PoolProps struct {
	AllocType   MemAllocationType
	HandleTypes MemAllocationHandleType
	Location    MemLocation
	// MaxSize caps the pool size in bytes; 0 means the driver default.
	MaxSize uintptr
}

// DefaultPoolProps returns pinned device placement on ordinal 0 with no
// export handle and the driver's default size cap.
func DefaultPoolProps() PoolProps {
	return PoolProps{
		AllocType:   MemAllocationTypePinned,
		HandleTypes: MemHandleTypeNone,
		Location:    MemLocation{Type: MemLocationTypeDevice, ID: 0},
	}
}

// MemPool owns a driver memory pool, except when obtained from
// Device.DefaultMemPool: the default pool belongs to the device and Close
// on it is a no-op.
type MemPool struct {
	handle drv.PoolHandle
	owned  bool
}

// NewMemPool creates a pool from props.
func NewMemPool(props PoolProps) (*MemPool, error) {
	h, code := drv.Runtime().MemPoolCreate(drv.MemPoolProps{
		AllocType:    uint32(props.AllocType),
		HandleTypes:  uint32(props.HandleTypes),
		LocationType: uint32(props.Location.Type),
		LocationID:   props.Location.ID,
		MaxSize:      props.MaxSize,
	})
	p, err := result(&MemPool{handle: h, owned: true}, code)
	if err != nil {
		return nil, err
	}
	metrics.ResourceAcquisitions.WithLabelValues("mempool").Inc()
	return p, nil
}

// DefaultMemPool returns the device's default memory pool. The returned
// pool is borrowed, not owned: closing it does not destroy the pool.
func (d Device) DefaultMemPool() (*MemPool, error) {
	h, code := drv.Runtime().DeviceGetDefaultMemPool(d.ordinal)
	return result(&MemPool{handle: h}, code)
}

// Handle exposes the raw pool handle for interop with library calls.
func (p *MemPool) Handle() unsafe.Pointer {
	return unsafe.Pointer(p.handle)
}

// Close destroys an owned pool. Borrowed default pools, already-closed
// pools, and nil receivers are no-ops. Destroy failures are logged and
// counted, never returned.
func (p *MemPool) Close() {
	if p == nil || p.handle == nil {
		return
	}
	h := p.handle
	p.handle = nil
	if !p.owned {
		return
	}
	if code := drv.Runtime().MemPoolDestroy(h); code != 0 {
		e := newError(code)
		log.Error("failed to destroy memory pool",
			zap.Stringer("status", e.Status),
			zap.Int32("code", e.Code))
		metrics.ResourceReleaseFailures.WithLabelValues("mempool").Inc()
		return
	}
	metrics.ResourceReleases.WithLabelValues("mempool").Inc()
}
