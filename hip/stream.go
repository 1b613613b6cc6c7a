package hip

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/fxnlabs/gohip/internal/drv"
	"github.com/fxnlabs/gohip/internal/metrics"
)

// Stream owns a driver stream. Work submitted to a stream executes in
// submission order; separate streams may overlap.
type Stream struct {
	handle drv.StreamHandle
}

// NewStream creates a stream on the active device.
func NewStream() (*Stream, error) {
	h, code := drv.Runtime().StreamCreate()
	s, err := result(&Stream{handle: h}, code)
	if err != nil {
		return nil, err
	}
	metrics.ResourceAcquisitions.WithLabelValues("stream").Inc()
	return s, nil
}

// Handle exposes the raw stream handle for interop with library calls.
func (s *Stream) Handle() unsafe.Pointer {
	return unsafe.Pointer(s.handle)
}

// Query reports whether all work submitted to the stream has completed.
// A pending stream is not an error condition: it returns (false, nil).
func (s *Stream) Query() (bool, error) {
	if s.handle == nil {
		return false, errInvalidValue()
	}
	code := drv.Runtime().StreamQuery(s.handle)
	if code == 0 {
		return true, nil
	}
	if decode(code) == StatusNotReady {
		return false, nil
	}
	return false, newError(code)
}

// Synchronize blocks until all work submitted to the stream has completed.
func (s *Stream) Synchronize() error {
	if s.handle == nil {
		return errInvalidValue()
	}
	return check(drv.Runtime().StreamSynchronize(s.handle))
}

// Close destroys the stream. Only the first call destroys; later calls are
// no-ops. Destroy failures are logged and counted, never returned.
func (s *Stream) Close() {
	if s == nil || s.handle == nil {
		return
	}
	h := s.handle
	s.handle = nil
	if code := drv.Runtime().StreamDestroy(h); code != 0 {
		e := newError(code)
		log.Error("failed to destroy stream",
			zap.Stringer("status", e.Status),
			zap.Int32("code", e.Code))
		metrics.ResourceReleaseFailures.WithLabelValues("stream").Inc()
		return
	}
	metrics.ResourceReleases.WithLabelValues("stream").Inc()
}
