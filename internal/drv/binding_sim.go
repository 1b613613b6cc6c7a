//go:build !hip
// +build !hip

package drv

// Without the hip build tag the simulator backs both APIs, so the library
// and its tests run on machines with no ROCm stack installed.
func init() {
	s := NewSim()
	Set(s, s)
}
