//go:build hip
// +build hip

package drv

/*
#cgo LDFLAGS: -lhipblas

#include <stddef.h>
#include <stdint.h>

typedef int hipblasStatus_t;
typedef void* gohipblasHandle_t;
typedef void* gohipStream_t;
typedef int hipblasOperation_t;
typedef uint16_t gohipblasHalf;
typedef struct { float x, y; } gohipblasComplex;
typedef struct { double x, y; } gohipblasDoubleComplex;

extern hipblasStatus_t hipblasCreate(gohipblasHandle_t* handle);
extern hipblasStatus_t hipblasDestroy(gohipblasHandle_t handle);
extern hipblasStatus_t hipblasSetStream(gohipblasHandle_t handle, gohipStream_t stream);

extern hipblasStatus_t hipblasHgemm(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const gohipblasHalf* alpha, const gohipblasHalf* A, int lda,
	const gohipblasHalf* B, int ldb, const gohipblasHalf* beta, gohipblasHalf* C, int ldc);
extern hipblasStatus_t hipblasSgemm(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const float* alpha, const float* A, int lda,
	const float* B, int ldb, const float* beta, float* C, int ldc);
extern hipblasStatus_t hipblasDgemm(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const double* alpha, const double* A, int lda,
	const double* B, int ldb, const double* beta, double* C, int ldc);
extern hipblasStatus_t hipblasCgemm(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const gohipblasComplex* alpha, const gohipblasComplex* A, int lda,
	const gohipblasComplex* B, int ldb, const gohipblasComplex* beta, gohipblasComplex* C, int ldc);
extern hipblasStatus_t hipblasZgemm(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const gohipblasDoubleComplex* alpha, const gohipblasDoubleComplex* A, int lda,
	const gohipblasDoubleComplex* B, int ldb, const gohipblasDoubleComplex* beta, gohipblasDoubleComplex* C, int ldc);

extern hipblasStatus_t hipblasHgemmBatched(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const gohipblasHalf* alpha, const gohipblasHalf* const A[], int lda,
	const gohipblasHalf* const B[], int ldb, const gohipblasHalf* beta, gohipblasHalf* const C[], int ldc, int batchCount);
extern hipblasStatus_t hipblasSgemmBatched(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const float* alpha, const float* const A[], int lda,
	const float* const B[], int ldb, const float* beta, float* const C[], int ldc, int batchCount);
extern hipblasStatus_t hipblasDgemmBatched(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const double* alpha, const double* const A[], int lda,
	const double* const B[], int ldb, const double* beta, double* const C[], int ldc, int batchCount);
extern hipblasStatus_t hipblasCgemmBatched(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const gohipblasComplex* alpha, const gohipblasComplex* const A[], int lda,
	const gohipblasComplex* const B[], int ldb, const gohipblasComplex* beta, gohipblasComplex* const C[], int ldc, int batchCount);
extern hipblasStatus_t hipblasZgemmBatched(gohipblasHandle_t handle, hipblasOperation_t transA, hipblasOperation_t transB,
	int m, int n, int k, const gohipblasDoubleComplex* alpha, const gohipblasDoubleComplex* const A[], int lda,
	const gohipblasDoubleComplex* const B[], int ldb, const gohipblasDoubleComplex* beta, gohipblasDoubleComplex* const C[], int ldc, int batchCount);
*/
import "C"
import "unsafe"

type cgoBlas struct{}

var _ Blas = cgoBlas{}

func (cgoBlas) Create() (BlasHandle, int32) {
	var h C.gohipblasHandle_t
	code := C.hipblasCreate(&h)
	return BlasHandle(h), int32(code)
}

func (cgoBlas) Destroy(handle BlasHandle) int32 {
	return int32(C.hipblasDestroy(C.gohipblasHandle_t(handle)))
}

func (cgoBlas) SetStream(handle BlasHandle, stream StreamHandle) int32 {
	return int32(C.hipblasSetStream(C.gohipblasHandle_t(handle), C.gohipStream_t(stream)))
}

func (cgoBlas) Hgemm(h BlasHandle, transA, transB, m, n, k int32, alpha uint16, a MemPtr, lda int32, b MemPtr, ldb int32, beta uint16, c MemPtr, ldc int32) int32 {
	ca := C.gohipblasHalf(alpha)
	cb := C.gohipblasHalf(beta)
	return int32(C.hipblasHgemm(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (*C.gohipblasHalf)(unsafe.Pointer(a)), C.int(lda),
		(*C.gohipblasHalf)(unsafe.Pointer(b)), C.int(ldb), &cb, (*C.gohipblasHalf)(unsafe.Pointer(c)), C.int(ldc)))
}

func (cgoBlas) Sgemm(h BlasHandle, transA, transB, m, n, k int32, alpha float32, a MemPtr, lda int32, b MemPtr, ldb int32, beta float32, c MemPtr, ldc int32) int32 {
	ca := C.float(alpha)
	cb := C.float(beta)
	return int32(C.hipblasSgemm(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (*C.float)(unsafe.Pointer(a)), C.int(lda),
		(*C.float)(unsafe.Pointer(b)), C.int(ldb), &cb, (*C.float)(unsafe.Pointer(c)), C.int(ldc)))
}

func (cgoBlas) Dgemm(h BlasHandle, transA, transB, m, n, k int32, alpha float64, a MemPtr, lda int32, b MemPtr, ldb int32, beta float64, c MemPtr, ldc int32) int32 {
	ca := C.double(alpha)
	cb := C.double(beta)
	return int32(C.hipblasDgemm(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (*C.double)(unsafe.Pointer(a)), C.int(lda),
		(*C.double)(unsafe.Pointer(b)), C.int(ldb), &cb, (*C.double)(unsafe.Pointer(c)), C.int(ldc)))
}

func (cgoBlas) Cgemm(h BlasHandle, transA, transB, m, n, k int32, alpha complex64, a MemPtr, lda int32, b MemPtr, ldb int32, beta complex64, c MemPtr, ldc int32) int32 {
	ca := C.gohipblasComplex{x: C.float(real(alpha)), y: C.float(imag(alpha))}
	cb := C.gohipblasComplex{x: C.float(real(beta)), y: C.float(imag(beta))}
	return int32(C.hipblasCgemm(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (*C.gohipblasComplex)(unsafe.Pointer(a)), C.int(lda),
		(*C.gohipblasComplex)(unsafe.Pointer(b)), C.int(ldb), &cb, (*C.gohipblasComplex)(unsafe.Pointer(c)), C.int(ldc)))
}

func (cgoBlas) Zgemm(h BlasHandle, transA, transB, m, n, k int32, alpha complex128, a MemPtr, lda int32, b MemPtr, ldb int32, beta complex128, c MemPtr, ldc int32) int32 {
	ca := C.gohipblasDoubleComplex{x: C.double(real(alpha)), y: C.double(imag(alpha))}
	cb := C.gohipblasDoubleComplex{x: C.double(real(beta)), y: C.double(imag(beta))}
	return int32(C.hipblasZgemm(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (*C.gohipblasDoubleComplex)(unsafe.Pointer(a)), C.int(lda),
		(*C.gohipblasDoubleComplex)(unsafe.Pointer(b)), C.int(ldb), &cb, (*C.gohipblasDoubleComplex)(unsafe.Pointer(c)), C.int(ldc)))
}

// Device pointer arrays are host-resident arrays of device pointers, per the
// hipBLAS batched GEMM contract. The slices hold no Go pointers, so passing
// their backing arrays across the boundary is legal under the cgo rules.

func (cgoBlas) HgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha uint16, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta uint16, c []MemPtr, ldc int32, batch int32) int32 {
	ca := C.gohipblasHalf(alpha)
	cb := C.gohipblasHalf(beta)
	return int32(C.hipblasHgemmBatched(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (**C.gohipblasHalf)(unsafe.Pointer(&a[0])), C.int(lda),
		(**C.gohipblasHalf)(unsafe.Pointer(&b[0])), C.int(ldb), &cb, (**C.gohipblasHalf)(unsafe.Pointer(&c[0])), C.int(ldc), C.int(batch)))
}

func (cgoBlas) SgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha float32, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta float32, c []MemPtr, ldc int32, batch int32) int32 {
	ca := C.float(alpha)
	cb := C.float(beta)
	return int32(C.hipblasSgemmBatched(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (**C.float)(unsafe.Pointer(&a[0])), C.int(lda),
		(**C.float)(unsafe.Pointer(&b[0])), C.int(ldb), &cb, (**C.float)(unsafe.Pointer(&c[0])), C.int(ldc), C.int(batch)))
}

func (cgoBlas) DgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha float64, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta float64, c []MemPtr, ldc int32, batch int32) int32 {
	ca := C.double(alpha)
	cb := C.double(beta)
	return int32(C.hipblasDgemmBatched(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (**C.double)(unsafe.Pointer(&a[0])), C.int(lda),
		(**C.double)(unsafe.Pointer(&b[0])), C.int(ldb), &cb, (**C.double)(unsafe.Pointer(&c[0])), C.int(ldc), C.int(batch)))
}

func (cgoBlas) CgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha complex64, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta complex64, c []MemPtr, ldc int32, batch int32) int32 {
	ca := C.gohipblasComplex{x: C.float(real(alpha)), y: C.float(imag(alpha))}
	cb := C.gohipblasComplex{x: C.float(real(beta)), y: C.float(imag(beta))}
	return int32(C.hipblasCgemmBatched(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (**C.gohipblasComplex)(unsafe.Pointer(&a[0])), C.int(lda),
		(**C.gohipblasComplex)(unsafe.Pointer(&b[0])), C.int(ldb), &cb, (**C.gohipblasComplex)(unsafe.Pointer(&c[0])), C.int(ldc), C.int(batch)))
}

func (cgoBlas) ZgemmBatched(h BlasHandle, transA, transB, m, n, k int32, alpha complex128, a []MemPtr, lda int32, b []MemPtr, ldb int32, beta complex128, c []MemPtr, ldc int32, batch int32) int32 {
	ca := C.gohipblasDoubleComplex{x: C.double(real(alpha)), y: C.double(imag(alpha))}
	cb := C.gohipblasDoubleComplex{x: C.double(real(beta)), y: C.double(imag(beta))}
	return int32(C.hipblasZgemmBatched(C.gohipblasHandle_t(h), C.hipblasOperation_t(transA), C.hipblasOperation_t(transB),
		C.int(m), C.int(n), C.int(k), &ca, (**C.gohipblasDoubleComplex)(unsafe.Pointer(&a[0])), C.int(lda),
		(**C.gohipblasDoubleComplex)(unsafe.Pointer(&b[0])), C.int(ldb), &cb, (**C.gohipblasDoubleComplex)(unsafe.Pointer(&c[0])), C.int(ldc), C.int(batch)))
}
