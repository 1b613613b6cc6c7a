// Package drv defines the raw HIP runtime and hipBLAS entry points consumed
// by the typed wrapper layers. Every method mirrors one driver call: output
// parameters become return values and the trailing int32 is the raw status
// code, where 0 means success. Nothing in this package interprets codes;
// classification lives in the hip and hipblas packages.
//
// The process holds exactly one active binding per API. Built with the "hip"
// tag the binding calls the real driver through cgo; otherwise the in-memory
// simulator is installed. Tests may swap in their own simulator via Set.
package drv

import (
	"sync"
	"unsafe"
)

// Opaque driver handles. A nil handle is the sentinel "no resource" value.
type (
	// MemPtr is a raw device (or host) memory address.
	MemPtr unsafe.Pointer
	// StreamHandle identifies a driver stream.
	StreamHandle unsafe.Pointer
	// PoolHandle identifies a driver memory pool.
	PoolHandle unsafe.Pointer
	// BlasHandle identifies a hipBLAS library context.
	BlasHandle unsafe.Pointer
)

// MemPoolProps mirrors the driver's pool creation descriptor.
type MemPoolProps struct {
	AllocType    uint32
	HandleTypes  uint32
	LocationType uint32
	LocationID   int32
	MaxSize      uintptr
}

// HIP is the raw runtime surface. Out-parameters come back as values; the
// final int32 of every method is the untranslated driver status code.
type HIP interface {
	Init(flags uint32) int32

	GetDeviceCount() (int32, int32)
	GetDevice() (int32, int32)
	SetDevice(ordinal int32) int32
	DeviceSynchronize() int32
	DeviceTotalMem(ordinal int32) (uint64, int32)
	DeviceGetName(buf []byte, ordinal int32) int32
	DeviceGetUUID(ordinal int32) ([16]byte, int32)
	DeviceGetPCIBusID(buf []byte, ordinal int32) int32
	DeviceComputeCapability(ordinal int32) (int32, int32, int32)
	DeviceGetP2PAttribute(attr, src, dst int32) (int32, int32)
	DeviceGetByPCIBusID(busID string) (int32, int32)
	DeviceGetDefaultMemPool(ordinal int32) (PoolHandle, int32)

	Malloc(size uintptr) (MemPtr, int32)
	MallocWithFlags(size uintptr, flags uint32) (MemPtr, int32)
	MallocAsync(size uintptr, stream StreamHandle) (MemPtr, int32)
	Free(ptr MemPtr) int32
	Memcpy(dst, src MemPtr, size uintptr, kind int32) int32
	Memset(ptr MemPtr, value byte, size uintptr) int32

	StreamCreate() (StreamHandle, int32)
	StreamDestroy(stream StreamHandle) int32
	StreamQuery(stream StreamHandle) int32
	StreamSynchronize(stream StreamHandle) int32

	MemPoolCreate(props MemPoolProps) (PoolHandle, int32)
	MemPoolDestroy(pool PoolHandle) int32
}

// Blas is the raw hipBLAS surface. GEMM operands are device pointers laid
// out column-major; batched variants take host arrays of device pointers.
type Blas interface {
	Create() (BlasHandle, int32)
	Destroy(handle BlasHandle) int32
	SetStream(handle BlasHandle, stream StreamHandle) int32

	Hgemm(h BlasHandle, transA, transB, m, n, k int32, alpha uint16, a MemPtr, lda int32, b MemPtr, ldb int32, beta uint16, c MemPtr, ldc int32) int32
	Sgemm(h BlasHandle, transA, transB, m, n, k int32, alpha float32, a MemPtr, lda int32, b MemPtr, ldb int32, beta float32, c MemPtr, ldc int32) int32
	Dgemm(h BlasHandle, transA, transB, m, n, k int32, alpha float64, a MemPtr, lda int32, b MemPtr, ldb int32, beta float64, c MemPtr, ldc int32) int32
	Cgemm(h BlasHandle, transA, transB, m, n, k int32, alpha complex64, a MemPtr, lda int32, b MemPtr, ldb int32, beta complex64, c MemPtr, ldc int32) int32
	Zgemm(h BlasHandle, transA, transB, m, n, k int32, alpha complex128, a MemPtr, lda int32, b MemPtr, ldb int32, beta complex128, c MemPtr, ldc int32) int32

	HgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha uint16, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta uint16, c []MemPtr, ldc int32, batch int32) int32
	SgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha float32, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta float32, c []MemPtr, ldc int32, batch int32) int32
	DgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha float64, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta float64, c []MemPtr, ldc int32, batch int32) int32
	CgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha complex64, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta complex64, c []MemPtr, ldc int32, batch int32) int32
	ZgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha complex128, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta complex128, c []MemPtr, ldc int32, batch int32) int32
}

var (
	mu      sync.RWMutex
	runtime HIP
	blas    Blas
)

// Runtime returns the active HIP binding.
func Runtime() HIP {
	mu.RLock()
	defer mu.RUnlock()
	return runtime
}

// BlasLib returns the active hipBLAS binding.
func BlasLib() Blas {
	mu.RLock()
	defer mu.RUnlock()
	return blas
}

// Set installs the active bindings. Passing nil for either argument leaves
// that binding unchanged.
func Set(h HIP, b Blas) {
	mu.Lock()
	defer mu.Unlock()
	if h != nil {
		runtime = h
	}
	if b != nil {
		blas = b
	}
}
