//go:build hip
// +build hip

package drv

/*
#cgo LDFLAGS: -lamdhip64

#include <stddef.h>
#include <stdlib.h>

// Forward declarations of the HIP runtime entry points we call, so the
// package compiles without the ROCm headers installed. The linker still
// needs libamdhip64.

typedef int hipError_t;
typedef void* hipStream_t;
typedef void* hipMemPool_t;

typedef struct { char bytes[16]; } gohipUUID;
typedef struct { int type; int id; } gohipMemLocation;
typedef struct {
	int allocType;
	int handleTypes;
	gohipMemLocation location;
	void* win32SecurityAttributes;
	size_t maxSize;
	unsigned char reserved[56];
} gohipMemPoolProps;

extern hipError_t hipInit(unsigned int flags);
extern hipError_t hipGetDeviceCount(int* count);
extern hipError_t hipGetDevice(int* ordinal);
extern hipError_t hipSetDevice(int ordinal);
extern hipError_t hipDeviceSynchronize(void);
extern hipError_t hipDeviceTotalMem(size_t* bytes, int ordinal);
extern hipError_t hipDeviceGetName(char* name, int len, int ordinal);
extern hipError_t hipDeviceGetUuid(gohipUUID* uuid, int ordinal);
extern hipError_t hipDeviceGetPCIBusId(char* busID, int len, int ordinal);
extern hipError_t hipDeviceComputeCapability(int* major, int* minor, int ordinal);
extern hipError_t hipDeviceGetP2PAttribute(int* value, int attr, int src, int dst);
extern hipError_t hipDeviceGetByPCIBusId(int* ordinal, const char* busID);
extern hipError_t hipDeviceGetDefaultMemPool(hipMemPool_t* pool, int ordinal);
extern hipError_t hipMalloc(void** ptr, size_t size);
extern hipError_t hipExtMallocWithFlags(void** ptr, size_t size, unsigned int flags);
extern hipError_t hipMallocAsync(void** ptr, size_t size, hipStream_t stream);
extern hipError_t hipFree(void* ptr);
extern hipError_t hipMemcpy(void* dst, const void* src, size_t size, int kind);
extern hipError_t hipMemset(void* ptr, int value, size_t size);
extern hipError_t hipStreamCreate(hipStream_t* stream);
extern hipError_t hipStreamDestroy(hipStream_t stream);
extern hipError_t hipStreamQuery(hipStream_t stream);
extern hipError_t hipStreamSynchronize(hipStream_t stream);
extern hipError_t hipMemPoolCreate(hipMemPool_t* pool, const gohipMemPoolProps* props);
extern hipError_t hipMemPoolDestroy(hipMemPool_t pool);
*/
import "C"
import "unsafe"

type cgoHIP struct{}

var _ HIP = cgoHIP{}

func (cgoHIP) Init(flags uint32) int32 {
	return int32(C.hipInit(C.uint(flags)))
}

func (cgoHIP) GetDeviceCount() (int32, int32) {
	var n C.int
	code := C.hipGetDeviceCount(&n)
	return int32(n), int32(code)
}

func (cgoHIP) GetDevice() (int32, int32) {
	var d C.int
	code := C.hipGetDevice(&d)
	return int32(d), int32(code)
}

func (cgoHIP) SetDevice(ordinal int32) int32 {
	return int32(C.hipSetDevice(C.int(ordinal)))
}

func (cgoHIP) DeviceSynchronize() int32 {
	return int32(C.hipDeviceSynchronize())
}

func (cgoHIP) DeviceTotalMem(ordinal int32) (uint64, int32) {
	var bytes C.size_t
	code := C.hipDeviceTotalMem(&bytes, C.int(ordinal))
	return uint64(bytes), int32(code)
}

func (cgoHIP) DeviceGetName(buf []byte, ordinal int32) int32 {
	return int32(C.hipDeviceGetName((*C.char)(unsafe.Pointer(&buf[0])), C.int(len(buf)), C.int(ordinal)))
}

func (cgoHIP) DeviceGetUUID(ordinal int32) ([16]byte, int32) {
	var u C.gohipUUID
	code := C.hipDeviceGetUuid(&u, C.int(ordinal))
	var out [16]byte
	for i := range out {
		out[i] = byte(u.bytes[i])
	}
	return out, int32(code)
}

func (cgoHIP) DeviceGetPCIBusID(buf []byte, ordinal int32) int32 {
	return int32(C.hipDeviceGetPCIBusId((*C.char)(unsafe.Pointer(&buf[0])), C.int(len(buf)), C.int(ordinal)))
}

func (cgoHIP) DeviceComputeCapability(ordinal int32) (int32, int32, int32) {
	var major, minor C.int
	code := C.hipDeviceComputeCapability(&major, &minor, C.int(ordinal))
	return int32(major), int32(minor), int32(code)
}

func (cgoHIP) DeviceGetP2PAttribute(attr, src, dst int32) (int32, int32) {
	var value C.int
	code := C.hipDeviceGetP2PAttribute(&value, C.int(attr), C.int(src), C.int(dst))
	return int32(value), int32(code)
}

func (cgoHIP) DeviceGetByPCIBusID(busID string) (int32, int32) {
	cs := C.CString(busID)
	defer C.free(unsafe.Pointer(cs))
	var ordinal C.int
	code := C.hipDeviceGetByPCIBusId(&ordinal, cs)
	return int32(ordinal), int32(code)
}

func (cgoHIP) DeviceGetDefaultMemPool(ordinal int32) (PoolHandle, int32) {
	var pool C.hipMemPool_t
	code := C.hipDeviceGetDefaultMemPool(&pool, C.int(ordinal))
	return PoolHandle(pool), int32(code)
}

func (cgoHIP) Malloc(size uintptr) (MemPtr, int32) {
	var p unsafe.Pointer
	code := C.hipMalloc(&p, C.size_t(size))
	return MemPtr(p), int32(code)
}

func (cgoHIP) MallocWithFlags(size uintptr, flags uint32) (MemPtr, int32) {
	var p unsafe.Pointer
	code := C.hipExtMallocWithFlags(&p, C.size_t(size), C.uint(flags))
	return MemPtr(p), int32(code)
}

func (cgoHIP) MallocAsync(size uintptr, stream StreamHandle) (MemPtr, int32) {
	var p unsafe.Pointer
	code := C.hipMallocAsync(&p, C.size_t(size), C.hipStream_t(stream))
	return MemPtr(p), int32(code)
}

func (cgoHIP) Free(ptr MemPtr) int32 {
	return int32(C.hipFree(unsafe.Pointer(ptr)))
}

func (cgoHIP) Memcpy(dst, src MemPtr, size uintptr, kind int32) int32 {
	return int32(C.hipMemcpy(unsafe.Pointer(dst), unsafe.Pointer(src), C.size_t(size), C.int(kind)))
}

func (cgoHIP) Memset(ptr MemPtr, value byte, size uintptr) int32 {
	return int32(C.hipMemset(unsafe.Pointer(ptr), C.int(value), C.size_t(size)))
}

func (cgoHIP) StreamCreate() (StreamHandle, int32) {
	var s C.hipStream_t
	code := C.hipStreamCreate(&s)
	return StreamHandle(s), int32(code)
}

func (cgoHIP) StreamDestroy(stream StreamHandle) int32 {
	return int32(C.hipStreamDestroy(C.hipStream_t(stream)))
}

func (cgoHIP) StreamQuery(stream StreamHandle) int32 {
	return int32(C.hipStreamQuery(C.hipStream_t(stream)))
}

func (cgoHIP) StreamSynchronize(stream StreamHandle) int32 {
	return int32(C.hipStreamSynchronize(C.hipStream_t(stream)))
}

func (cgoHIP) MemPoolCreate(props MemPoolProps) (PoolHandle, int32) {
	var cp C.gohipMemPoolProps
	cp.allocType = C.int(props.AllocType)
	cp.handleTypes = C.int(props.HandleTypes)
	cp.location._type = C.int(props.LocationType)
	cp.location.id = C.int(props.LocationID)
	cp.maxSize = C.size_t(props.MaxSize)
	var pool C.hipMemPool_t
	code := C.hipMemPoolCreate(&pool, &cp)
	return PoolHandle(pool), int32(code)
}

func (cgoHIP) MemPoolDestroy(pool PoolHandle) int32 {
	return int32(C.hipMemPoolDestroy(C.hipMemPool_t(pool)))
}
