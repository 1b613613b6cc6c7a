//go:build hip
// +build hip

package drv

// Built with the hip tag, the real driver libraries back both APIs.
func init() {
	Set(cgoHIP{}, cgoBlas{})
}
