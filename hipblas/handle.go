// Package hipblas exposes hipBLAS GEMM behind a typed API. A Handle owns
// one library context; matrix operands are device allocations from the hip
// package, laid out column-major.
package hipblas

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/fxnlabs/gohip/hip"
	"github.com/fxnlabs/gohip/internal/drv"
	"github.com/fxnlabs/gohip/internal/metrics"
)

var log = zap.NewNop()

// SetLogger installs the logger used for teardown diagnostics.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Handle owns a hipBLAS library context.
type Handle struct {
	handle drv.BlasHandle
}

// NewHandle creates a library context bound to the active device.
func NewHandle() (*Handle, error) {
	raw, code := drv.BlasLib().Create()
	h, err := result(&Handle{handle: raw}, code)
	if err != nil {
		return nil, err
	}
	metrics.ResourceAcquisitions.WithLabelValues("blas_handle").Inc()
	return h, nil
}

// Handle exposes the raw context pointer for interop.
func (h *Handle) Handle() unsafe.Pointer {
	return unsafe.Pointer(h.handle)
}

// SetStream routes subsequent library calls onto stream. A nil stream
// selects the device's default stream.
func (h *Handle) SetStream(stream *hip.Stream) error {
	if h.handle == nil {
		return errStatus(StatusHandleIsNullPointer)
	}
	var raw drv.StreamHandle
	if stream != nil {
		raw = drv.StreamHandle(stream.Handle())
	}
	return check(drv.BlasLib().SetStream(h.handle, raw))
}

// Close destroys the context. Only the first call destroys; later calls are
// no-ops. Destroy failures are logged and counted, never returned.
func (h *Handle) Close() {
	if h == nil || h.handle == nil {
		return
	}
	raw := h.handle
	h.handle = nil
	if code := drv.BlasLib().Destroy(raw); code != 0 {
		e := newError(code)
		log.Error("failed to destroy hipblas handle",
			zap.Stringer("status", e.Status),
			zap.Int32("code", e.Code))
		metrics.ResourceReleaseFailures.WithLabelValues("blas_handle").Inc()
		return
	}
	metrics.ResourceReleases.WithLabelValues("blas_handle").Inc()
}
