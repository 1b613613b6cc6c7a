// Package hip exposes the HIP runtime behind a memory-safe API: raw status
// codes never cross the package boundary, device memory and streams are
// owned handles with exactly-once teardown, and failed calls always yield a
// typed *Error carrying the decoded status plus the original code.
package hip

import (
	"go.uber.org/zap"

	"github.com/fxnlabs/gohip/internal/drv"
)

var log = zap.NewNop()

// SetLogger installs the logger used for teardown diagnostics. Release
// failures are logged rather than returned, so without a logger they are
// only visible through the release-failure counters.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Init initializes the HIP runtime. Calling it more than once is harmless.
func Init() error {
	return check(drv.Runtime().Init(0))
}

// Synchronize blocks until all outstanding work on the current device has
// completed.
func Synchronize() error {
	return check(drv.Runtime().DeviceSynchronize())
}
