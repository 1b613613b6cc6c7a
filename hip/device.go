package hip

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-version"

	"github.com/fxnlabs/gohip/internal/drv"
)

const (
	deviceNameLen = 64
	pciBusIDLen   = 32
)

// Device identifies a GPU by ordinal. It is a plain value: constructing one
// performs no driver call, and an out-of-range ordinal only surfaces when a
// query against it is issued.
type Device struct {
	ordinal int32
}

// NewDevice wraps an ordinal without validating it.
func NewDevice(ordinal int32) Device {
	return Device{ordinal: ordinal}
}

// ID returns the device ordinal.
func (d Device) ID() int32 {
	return d.ordinal
}

// GetDeviceCount returns the number of visible devices.
func GetDeviceCount() (int32, error) {
	return result(drv.Runtime().GetDeviceCount())
}

// GetDevice returns the device active on the calling thread.
func GetDevice() (Device, error) {
	ordinal, code := drv.Runtime().GetDevice()
	return result(Device{ordinal: ordinal}, code)
}

// SetDevice makes d the active device for subsequent runtime calls.
func SetDevice(d Device) error {
	return check(drv.Runtime().SetDevice(d.ordinal))
}

// GetDeviceByPCIBusID resolves a PCI bus identifier such as "0000:03:00.0"
// to a device.
func GetDeviceByPCIBusID(busID string) (Device, error) {
	ordinal, code := drv.Runtime().DeviceGetByPCIBusID(busID)
	return result(Device{ordinal: ordinal}, code)
}

// Name returns the marketing name of the device.
func (d Device) Name() (string, error) {
	buf := make([]byte, deviceNameLen)
	code := drv.Runtime().DeviceGetName(buf, d.ordinal)
	return result(cString(buf), code)
}

// TotalMemory returns the device's total memory in bytes.
func (d Device) TotalMemory() (uint64, error) {
	return result(drv.Runtime().DeviceTotalMem(d.ordinal))
}

// ComputeCapability returns the device's compute capability as a
// major.minor version.
func (d Device) ComputeCapability() (*version.Version, error) {
	major, minor, code := drv.Runtime().DeviceComputeCapability(d.ordinal)
	if err := check(code); err != nil {
		return nil, err
	}
	v, err := version.NewVersion(fmt.Sprintf("%d.%d", major, minor))
	if err != nil {
		return nil, errInvalidValue()
	}
	return v, nil
}

// UUID returns the device's unique identifier.
func (d Device) UUID() (uuid.UUID, error) {
	raw, code := drv.Runtime().DeviceGetUUID(d.ordinal)
	if err := check(code); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.FromBytes(raw[:])
	if err != nil {
		return uuid.Nil, errInvalidValue()
	}
	return id, nil
}

// PCIBusID returns the device's PCI bus identifier.
func (d Device) PCIBusID() (string, error) {
	buf := make([]byte, pciBusIDLen)
	code := drv.Runtime().DeviceGetPCIBusID(buf, d.ordinal)
	return result(cString(buf), code)
}

// P2PAttribute selects a peer-to-peer link property.
type P2PAttribute int32

const (
	P2PPerformanceRank P2PAttribute = iota
	P2PAccessSupported
	P2PNativeAtomicSupported
	P2PArrayAccessSupported
)

// DeviceP2PAttribute queries a link attribute between two devices. The
// driver rejects src == dst.
func DeviceP2PAttribute(attr P2PAttribute, src, dst Device) (int32, error) {
	return result(drv.Runtime().DeviceGetP2PAttribute(int32(attr), src.ordinal, dst.ordinal))
}

// cString converts a NUL-terminated driver buffer to a Go string, replacing
// any invalid UTF-8 rather than failing: device names are diagnostic output
// and a mangled name is more useful than no name.
func cString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return strings.ToValidUTF8(string(buf), "�")
}
