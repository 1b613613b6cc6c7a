package drv

import (
	"sync"
	"unsafe"

	"gonum.org/v1/gonum/mat"
)

// Raw status codes the simulator hands back. These mirror the driver's
// documented code tables; the wrapper layers own the decode.
const (
	simOK               int32 = 0
	simInvalidValue     int32 = 1
	simMemoryAllocation int32 = 2
	simInvalidDevice    int32 = 101
	simNotReady         int32 = 600

	simBlasOK           int32 = 0
	simBlasNotInit      int32 = 1
	simBlasInvalidValue int32 = 3
	simBlasNotSupported int32 = 7
	simBlasNullHandle   int32 = 9
	simBlasInvalidEnum  int32 = 10
)

// SimDevice describes one simulated accelerator.
type SimDevice struct {
	Name     string
	TotalMem uint64
	Major    int32
	Minor    int32
	PCIBusID string
	UUID     [16]byte
}

// DefaultSimDevices returns the two-device topology used when no explicit
// configuration is given.
func DefaultSimDevices() []SimDevice {
	return []SimDevice{
		{
			Name:     "Sim Accelerator 0",
			TotalMem: 1 << 32, // 4 GiB
			Major:    9,
			Minor:    4,
			PCIBusID: "0000:03:00.0",
			UUID:     [16]byte{0x6a, 0x1f, 0x02, 0x9c, 0x55, 0x10, 0x4e, 0x21, 0x8e, 0x77, 0x31, 0x0b, 0xaa, 0x04, 0x5c, 0xd0},
		},
		{
			Name:     "Sim Accelerator 1",
			TotalMem: 1 << 32,
			Major:    9,
			Minor:    4,
			PCIBusID: "0000:83:00.0",
			UUID:     [16]byte{0x6a, 0x1f, 0x02, 0x9c, 0x55, 0x10, 0x4e, 0x21, 0x8e, 0x77, 0x31, 0x0b, 0xaa, 0x04, 0x5c, 0xd1},
		},
	}
}

type simStream struct {
	pending bool
}

type simBlasCtx struct {
	stream StreamHandle
}

// Sim is a software implementation of the HIP and Blas interfaces. Device
// memory is plain host memory tracked in a table, so copies and fills move
// real bytes and GEMM produces real numbers. The active device is a single
// process-wide value rather than thread-local state: the simulator models
// the driver's contract, not its threading.
type Sim struct {
	mu      sync.Mutex
	devices []SimDevice
	active  int32

	allocs map[MemPtr][]byte
	used   uint64

	streams      map[StreamHandle]*simStream
	pools        map[PoolHandle]MemPoolProps
	defaultPools map[int32]PoolHandle

	blasCtxs map[BlasHandle]*simBlasCtx
}

var (
	_ HIP  = (*Sim)(nil)
	_ Blas = (*Sim)(nil)
)

// NewSim builds a simulator over the given device table; with no arguments
// it uses DefaultSimDevices.
func NewSim(devices ...SimDevice) *Sim {
	if len(devices) == 0 {
		devices = DefaultSimDevices()
	}
	return &Sim{
		devices:      devices,
		allocs:       make(map[MemPtr][]byte),
		streams:      make(map[StreamHandle]*simStream),
		pools:        make(map[PoolHandle]MemPoolProps),
		defaultPools: make(map[int32]PoolHandle),
		blasCtxs:     make(map[BlasHandle]*simBlasCtx),
	}
}

func (s *Sim) validDevice(ordinal int32) bool {
	return ordinal >= 0 && int(ordinal) < len(s.devices)
}

// Init implements HIP.
func (s *Sim) Init(flags uint32) int32 {
	if flags != 0 {
		return simInvalidValue
	}
	return simOK
}

// GetDeviceCount implements HIP.
func (s *Sim) GetDeviceCount() (int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int32(len(s.devices)), simOK
}

// GetDevice implements HIP.
func (s *Sim) GetDevice() (int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, simOK
}

// SetDevice implements HIP.
func (s *Sim) SetDevice(ordinal int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(ordinal) {
		return simInvalidDevice
	}
	s.active = ordinal
	return simOK
}

// DeviceSynchronize implements HIP.
func (s *Sim) DeviceSynchronize() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.streams {
		st.pending = false
	}
	return simOK
}

// DeviceTotalMem implements HIP.
func (s *Sim) DeviceTotalMem(ordinal int32) (uint64, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(ordinal) {
		return 0, simInvalidDevice
	}
	return s.devices[ordinal].TotalMem, simOK
}

// DeviceGetName implements HIP. The name is written NUL-terminated into buf,
// truncated to fit, matching the driver's fixed-buffer contract.
func (s *Sim) DeviceGetName(buf []byte, ordinal int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(ordinal) {
		return simInvalidDevice
	}
	if len(buf) == 0 {
		return simInvalidValue
	}
	return writeCString(buf, s.devices[ordinal].Name)
}

// DeviceGetUUID implements HIP.
func (s *Sim) DeviceGetUUID(ordinal int32) ([16]byte, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(ordinal) {
		return [16]byte{}, simInvalidDevice
	}
	return s.devices[ordinal].UUID, simOK
}

// DeviceGetPCIBusID implements HIP.
func (s *Sim) DeviceGetPCIBusID(buf []byte, ordinal int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(ordinal) {
		return simInvalidDevice
	}
	if len(buf) == 0 {
		return simInvalidValue
	}
	return writeCString(buf, s.devices[ordinal].PCIBusID)
}

// DeviceComputeCapability implements HIP.
func (s *Sim) DeviceComputeCapability(ordinal int32) (int32, int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(ordinal) {
		return 0, 0, simInvalidDevice
	}
	d := s.devices[ordinal]
	return d.Major, d.Minor, simOK
}

// DeviceGetP2PAttribute implements HIP. Querying a device against itself is
// rejected with InvalidDevice, deterministically, as the driver does.
func (s *Sim) DeviceGetP2PAttribute(attr, src, dst int32) (int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(src) || !s.validDevice(dst) || src == dst {
		return 0, simInvalidDevice
	}
	switch attr {
	case 0: // performance rank
		return 0, simOK
	case 1, 2, 3: // access, native atomics, array access
		return 1, simOK
	default:
		return 0, simInvalidValue
	}
}

// DeviceGetByPCIBusID implements HIP.
func (s *Sim) DeviceGetByPCIBusID(busID string) (int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.devices {
		if d.PCIBusID == busID {
			return int32(i), simOK
		}
	}
	return 0, simInvalidDevice
}

// DeviceGetDefaultMemPool implements HIP. The default pool is created lazily
// per device and survives MemPoolDestroy attempts.
func (s *Sim) DeviceGetDefaultMemPool(ordinal int32) (PoolHandle, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validDevice(ordinal) {
		return nil, simInvalidDevice
	}
	if h, ok := s.defaultPools[ordinal]; ok {
		return h, simOK
	}
	h := PoolHandle(unsafe.Pointer(&simStream{}))
	s.defaultPools[ordinal] = h
	return h, simOK
}

// Malloc implements HIP.
func (s *Sim) Malloc(size uintptr) (MemPtr, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocLocked(size)
}

// MallocWithFlags implements HIP.
func (s *Sim) MallocWithFlags(size uintptr, flags uint32) (MemPtr, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if flags > 0x7 {
		return nil, simInvalidValue
	}
	return s.allocLocked(size)
}

// MallocAsync implements HIP.
func (s *Sim) MallocAsync(size uintptr, stream StreamHandle) (MemPtr, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stream != nil {
		if _, ok := s.streams[stream]; !ok {
			return nil, simInvalidValue
		}
	}
	return s.allocLocked(size)
}

func (s *Sim) allocLocked(size uintptr) (MemPtr, int32) {
	if size == 0 {
		return nil, simOK
	}
	if s.used+uint64(size) > s.devices[s.active].TotalMem {
		return nil, simMemoryAllocation
	}
	buf := make([]byte, size)
	ptr := MemPtr(unsafe.Pointer(&buf[0]))
	s.allocs[ptr] = buf
	s.used += uint64(size)
	return ptr, simOK
}

// Free implements HIP.
func (s *Sim) Free(ptr MemPtr) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ptr == nil {
		return simOK
	}
	buf, ok := s.allocs[ptr]
	if !ok {
		return simInvalidValue
	}
	delete(s.allocs, ptr)
	s.used -= uint64(len(buf))
	return simOK
}

// byteView resolves a pointer to an n-byte window. Tracked device blocks are
// bounds-checked; anything else is treated as caller-owned host memory.
func (s *Sim) byteView(p MemPtr, n uintptr) ([]byte, int32) {
	if buf, ok := s.allocs[p]; ok {
		if n > uintptr(len(buf)) {
			return nil, simInvalidValue
		}
		return buf[:n], simOK
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n), simOK
}

// Memcpy implements HIP.
func (s *Sim) Memcpy(dst, src MemPtr, size uintptr, kind int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size == 0 {
		return simOK
	}
	switch kind {
	case 0, 1, 2, 3, 4, 1024:
	default:
		return simInvalidValue
	}
	if dst == nil || src == nil {
		return simInvalidValue
	}
	d, code := s.byteView(dst, size)
	if code != simOK {
		return code
	}
	sv, code := s.byteView(src, size)
	if code != simOK {
		return code
	}
	copy(d, sv)
	return simOK
}

// Memset implements HIP.
func (s *Sim) Memset(ptr MemPtr, value byte, size uintptr) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size == 0 {
		return simOK
	}
	if ptr == nil {
		return simInvalidValue
	}
	b, code := s.byteView(ptr, size)
	if code != simOK {
		return code
	}
	for i := range b {
		b[i] = value
	}
	return simOK
}

// StreamCreate implements HIP.
func (s *Sim) StreamCreate() (StreamHandle, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &simStream{}
	h := StreamHandle(unsafe.Pointer(st))
	s.streams[h] = st
	return h, simOK
}

// StreamDestroy implements HIP.
func (s *Sim) StreamDestroy(stream StreamHandle) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.streams[stream]; !ok {
		return simInvalidValue
	}
	delete(s.streams, stream)
	return simOK
}

// StreamQuery implements HIP. A stream with queued work reports NotReady,
// which is a dedicated code, not a failure.
func (s *Sim) StreamQuery(stream StreamHandle) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.streams[stream]
	if !ok {
		return simInvalidValue
	}
	if st.pending {
		return simNotReady
	}
	return simOK
}

// StreamSynchronize implements HIP.
func (s *Sim) StreamSynchronize(stream StreamHandle) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.streams[stream]
	if !ok {
		return simInvalidValue
	}
	st.pending = false
	return simOK
}

// SetStreamPending marks a stream as having outstanding work so StreamQuery
// reports NotReady. Test hook; returns false for unknown handles.
func (s *Sim) SetStreamPending(stream StreamHandle, pending bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.streams[stream]
	if !ok {
		return false
	}
	st.pending = pending
	return true
}

// MemPoolCreate implements HIP. Only pinned allocation pools exist.
func (s *Sim) MemPoolCreate(props MemPoolProps) (PoolHandle, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if props.AllocType != 1 {
		return nil, simInvalidValue
	}
	if !s.validDevice(props.LocationID) {
		return nil, simInvalidDevice
	}
	h := PoolHandle(unsafe.Pointer(&simStream{}))
	s.pools[h] = props
	return h, simOK
}

// MemPoolDestroy implements HIP. Default pools cannot be destroyed.
func (s *Sim) MemPoolDestroy(pool PoolHandle) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pools[pool]; !ok {
		return simInvalidValue
	}
	delete(s.pools, pool)
	return simOK
}

// LiveAllocations reports the number of device blocks currently tracked.
// Test hook.
func (s *Sim) LiveAllocations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.allocs)
}

func writeCString(buf []byte, v string) int32 {
	n := copy(buf, v)
	if n == len(buf) {
		n--
	}
	buf[n] = 0
	return simOK
}

// ---- hipBLAS surface ----

// Create implements Blas.
func (s *Sim) Create() (BlasHandle, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := &simBlasCtx{}
	h := BlasHandle(unsafe.Pointer(ctx))
	s.blasCtxs[h] = ctx
	return h, simBlasOK
}

// Destroy implements Blas.
func (s *Sim) Destroy(handle BlasHandle) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle == nil {
		return simBlasNullHandle
	}
	if _, ok := s.blasCtxs[handle]; !ok {
		return simBlasNotInit
	}
	delete(s.blasCtxs, handle)
	return simBlasOK
}

// SetStream implements Blas. A nil stream selects the default stream.
func (s *Sim) SetStream(handle BlasHandle, stream StreamHandle) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, ok := s.blasCtxs[handle]
	if !ok {
		return simBlasNotInit
	}
	if stream != nil {
		if _, known := s.streams[stream]; !known {
			return simBlasInvalidValue
		}
	}
	ctx.stream = stream
	return simBlasOK
}

// gemmCheck validates the pieces shared by every precision and resolves the
// three operand buffers. Matrices are column-major with leading dimensions
// lda/ldb/ldc, elemSize bytes per element.
func (s *Sim) gemmCheck(handle BlasHandle, transA, transB, m, n, k, lda, ldb, ldc int32, a, b, c MemPtr, elemSize uintptr) (av, bv, cv []byte, code int32) {
	if handle == nil {
		return nil, nil, nil, simBlasNullHandle
	}
	if _, ok := s.blasCtxs[handle]; !ok {
		return nil, nil, nil, simBlasNotInit
	}
	if transA < 0 || transA > 2 || transB < 0 || transB > 2 {
		return nil, nil, nil, simBlasInvalidEnum
	}
	if m < 0 || n < 0 || k < 0 || lda < 1 || ldb < 1 || ldc < 1 {
		return nil, nil, nil, simBlasInvalidValue
	}
	if a == nil || b == nil || c == nil {
		return nil, nil, nil, simBlasInvalidValue
	}
	aCols, bCols := k, n
	if transA != 0 {
		aCols = m
	}
	if transB != 0 {
		bCols = k
	}
	var ok int32
	if av, ok = s.gemmOperand(a, lda, aCols, elemSize); ok != simBlasOK {
		return nil, nil, nil, ok
	}
	if bv, ok = s.gemmOperand(b, ldb, bCols, elemSize); ok != simBlasOK {
		return nil, nil, nil, ok
	}
	if cv, ok = s.gemmOperand(c, ldc, n, elemSize); ok != simBlasOK {
		return nil, nil, nil, ok
	}
	return av, bv, cv, simBlasOK
}

func (s *Sim) gemmOperand(p MemPtr, ld, cols int32, elemSize uintptr) ([]byte, int32) {
	need := uintptr(ld) * uintptr(cols) * elemSize
	if cols == 0 {
		need = 0
	}
	buf, ok := s.allocs[p]
	if !ok {
		return nil, simBlasInvalidValue
	}
	if need > uintptr(len(buf)) {
		return nil, simBlasInvalidValue
	}
	return buf, simBlasOK
}

// opAt reads element (i, j) of op(X): x[j*ld+i] when trans is zero,
// x[i*ld+j] otherwise. Conjugate transpose equals transpose for real data.
func opAt(f []float64, ld int32, trans int32, i, j int32) float64 {
	if trans == 0 {
		return f[int(j)*int(ld)+int(i)]
	}
	return f[int(i)*int(ld)+int(j)]
}

func (s *Sim) gemmF64(transA, transB, m, n, k int32, alpha float64, av []float64, lda int32, bv []float64, ldb int32, beta float64, cv []float64, ldc int32) {
	if m == 0 || n == 0 {
		return
	}
	if k == 0 {
		for j := int32(0); j < n; j++ {
			for i := int32(0); i < m; i++ {
				idx := int(j)*int(ldc) + int(i)
				cv[idx] = beta * cv[idx]
			}
		}
		return
	}
	opA := mat.NewDense(int(m), int(k), nil)
	for i := int32(0); i < m; i++ {
		for j := int32(0); j < k; j++ {
			opA.Set(int(i), int(j), opAt(av, lda, transA, i, j))
		}
	}
	opB := mat.NewDense(int(k), int(n), nil)
	for i := int32(0); i < k; i++ {
		for j := int32(0); j < n; j++ {
			opB.Set(int(i), int(j), opAt(bv, ldb, transB, i, j))
		}
	}
	var prod mat.Dense
	prod.Mul(opA, opB)
	for j := int32(0); j < n; j++ {
		for i := int32(0); i < m; i++ {
			idx := int(j)*int(ldc) + int(i)
			cv[idx] = alpha*prod.At(int(i), int(j)) + beta*cv[idx]
		}
	}
}

// Sgemm implements Blas with real single-precision arithmetic.
func (s *Sim) Sgemm(h BlasHandle, transA, transB, m, n, k int32, alpha float32, a MemPtr, lda int32, b MemPtr, ldb int32, beta float32, c MemPtr, ldc int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	av, bv, cv, code := s.gemmCheck(h, transA, transB, m, n, k, lda, ldb, ldc, a, b, c, 4)
	if code != simBlasOK {
		return code
	}
	af := f32sToF64s(bytesToF32s(av))
	bf := f32sToF64s(bytesToF32s(bv))
	cf32 := bytesToF32s(cv)
	cf := f32sToF64s(cf32)
	s.gemmF64(transA, transB, m, n, k, float64(alpha), af, lda, bf, ldb, float64(beta), cf, ldc)
	for i, v := range cf {
		cf32[i] = float32(v)
	}
	return simBlasOK
}

// Dgemm implements Blas with real double-precision arithmetic.
func (s *Sim) Dgemm(h BlasHandle, transA, transB, m, n, k int32, alpha float64, a MemPtr, lda int32, b MemPtr, ldb int32, beta float64, c MemPtr, ldc int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	av, bv, cv, code := s.gemmCheck(h, transA, transB, m, n, k, lda, ldb, ldc, a, b, c, 8)
	if code != simBlasOK {
		return code
	}
	s.gemmF64(transA, transB, m, n, k, alpha, bytesToF64s(av), lda, bytesToF64s(bv), ldb, beta, bytesToF64s(cv), ldc)
	return simBlasOK
}

// The half and complex precisions have no software path; the simulator
// reports them unsupported so the classified error can be exercised.

// Hgemm implements Blas.
func (s *Sim) Hgemm(h BlasHandle, transA, transB, m, n, k int32, alpha uint16, a MemPtr, lda int32, b MemPtr, ldb int32, beta uint16, c MemPtr, ldc int32) int32 {
	return simBlasNotSupported
}

// Cgemm implements Blas.
func (s *Sim) Cgemm(h BlasHandle, transA, transB, m, n, k int32, alpha complex64, a MemPtr, lda int32, b MemPtr, ldb int32, beta complex64, c MemPtr, ldc int32) int32 {
	return simBlasNotSupported
}

// Zgemm implements Blas.
func (s *Sim) Zgemm(h BlasHandle, transA, transB, m, n, k int32, alpha complex128, a MemPtr, lda int32, b MemPtr, ldb int32, beta complex128, c MemPtr, ldc int32) int32 {
	return simBlasNotSupported
}

// SgemmBatched implements Blas.
func (s *Sim) SgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha float32, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta float32, c []MemPtr, ldc int32, batch int32) int32 {
	if int(batch) != len(a) || int(batch) != len(b) || int(batch) != len(c) {
		return simBlasInvalidValue
	}
	for i := int32(0); i < batch; i++ {
		if code := s.Sgemm(h, transA, transB, m, n, k, alpha, a[i], lda, b[i], ldb, beta, c[i], ldc); code != simBlasOK {
			return code
		}
	}
	return simBlasOK
}

// DgemmBatched implements Blas.
func (s *Sim) DgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha float64, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta float64, c []MemPtr, ldc int32, batch int32) int32 {
	if int(batch) != len(a) || int(batch) != len(b) || int(batch) != len(c) {
		return simBlasInvalidValue
	}
	for i := int32(0); i < batch; i++ {
		if code := s.Dgemm(h, transA, transB, m, n, k, alpha, a[i], lda, b[i], ldb, beta, c[i], ldc); code != simBlasOK {
			return code
		}
	}
	return simBlasOK
}

// HgemmBatched implements Blas.
func (s *Sim) HgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha uint16, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta uint16, c []MemPtr, ldc int32, batch int32) int32 {
	return simBlasNotSupported
}

// CgemmBatched implements Blas.
func (s *Sim) CgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha complex64, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta complex64, c []MemPtr, ldc int32, batch int32) int32 {
	return simBlasNotSupported
}

// ZgemmBatched implements Blas.
func (s *Sim) ZgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha complex128, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta complex128, c []MemPtr, ldc int32, batch int32) int32 {
	return simBlasNotSupported
}

func bytesToF32s(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

func bytesToF64s(b []byte) []float64 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&b[0])), len(b)/8)
}

func f32sToF64s(f []float32) []float64 {
	out := make([]float64, len(f))
	for i, v := range f {
		out[i] = float64(v)
	}
	return out
}
