package hip_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxnlabs/gohip/hip"
	"github.com/fxnlabs/gohip/internal/drv"
)

func TestGetDeviceCount(t *testing.T) {
	newSim(t)
	count, err := hip.GetDeviceCount()
	require.NoError(t, err)
	assert.Equal(t, int32(2), count)
}

func TestSetGetDevice(t *testing.T) {
	newSim(t)

	d, err := hip.GetDevice()
	require.NoError(t, err)
	assert.Equal(t, int32(0), d.ID())

	require.NoError(t, hip.SetDevice(hip.NewDevice(1)))
	d, err = hip.GetDevice()
	require.NoError(t, err)
	assert.Equal(t, int32(1), d.ID())
}

func TestSetDeviceOutOfRange(t *testing.T) {
	newSim(t)

	err := hip.SetDevice(hip.NewDevice(7))
	var hipErr *hip.Error
	require.True(t, errors.As(err, &hipErr))
	assert.Equal(t, hip.StatusInvalidDevice, hipErr.Status)

	// The failed set must not change the active device.
	d, err := hip.GetDevice()
	require.NoError(t, err)
	assert.Equal(t, int32(0), d.ID())
}

func TestDeviceName(t *testing.T) {
	newSim(t)

	name, err := hip.NewDevice(0).Name()
	require.NoError(t, err)
	assert.Equal(t, "Sim Accelerator 0", name)

	name, err = hip.NewDevice(-1).Name()
	require.Error(t, err)
	assert.Empty(t, name, "failed query must return the zero value")
}

func TestDeviceNameTruncatedAndSanitized(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	newSim(t, drv.SimDevice{
		Name:     string(long[:90]) + "\xff\xfe",
		TotalMem: 1 << 30,
		Major:    9, Minor: 0,
		PCIBusID: "0000:01:00.0",
	})

	name, err := hip.NewDevice(0).Name()
	require.NoError(t, err)
	assert.Len(t, name, 63, "name is truncated to the driver buffer")
	assert.NotContains(t, name, "\x00")
}

func TestDeviceTotalMemory(t *testing.T) {
	newSim(t)
	total, err := hip.NewDevice(0).TotalMemory()
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<32, total)
}

func TestDeviceComputeCapability(t *testing.T) {
	newSim(t)

	v, err := hip.NewDevice(0).ComputeCapability()
	require.NoError(t, err)
	assert.Equal(t, "9.4.0", v.String())
	assert.Equal(t, []int{9, 4, 0}, v.Segments())

	_, err = hip.NewDevice(9).ComputeCapability()
	require.Error(t, err)
}

func TestDeviceUUID(t *testing.T) {
	newSim(t)

	id, err := hip.NewDevice(0).UUID()
	require.NoError(t, err)
	want := uuid.UUID(drv.DefaultSimDevices()[0].UUID)
	assert.Equal(t, want, id)

	other, err := hip.NewDevice(1).UUID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestPCIBusIDRoundTrip(t *testing.T) {
	newSim(t)

	busID, err := hip.NewDevice(1).PCIBusID()
	require.NoError(t, err)
	assert.Equal(t, "0000:83:00.0", busID)

	d, err := hip.GetDeviceByPCIBusID(busID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), d.ID())

	_, err = hip.GetDeviceByPCIBusID("0000:ff:00.0")
	var hipErr *hip.Error
	require.True(t, errors.As(err, &hipErr))
	assert.Equal(t, hip.StatusInvalidDevice, hipErr.Status)
}

func TestDeviceP2PAttribute(t *testing.T) {
	newSim(t)

	d0, d1 := hip.NewDevice(0), hip.NewDevice(1)

	v, err := hip.DeviceP2PAttribute(hip.P2PAccessSupported, d0, d1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	_, err = hip.DeviceP2PAttribute(hip.P2PAccessSupported, d0, d0)
	var hipErr *hip.Error
	require.True(t, errors.As(err, &hipErr))
	assert.Equal(t, hip.StatusInvalidDevice, hipErr.Status, "self peering is rejected")

	// Repeating a rejected query must classify identically both times.
	_, again := hip.DeviceP2PAttribute(hip.P2PAccessSupported, d0, d0)
	assert.Equal(t, err, again)

	_, first := hip.DeviceP2PAttribute(hip.P2PAttribute(9), d0, d1)
	_, second := hip.DeviceP2PAttribute(hip.P2PAttribute(9), d0, d1)
	require.Error(t, first)
	assert.Equal(t, first, second, "unknown attribute is rejected deterministically")
}
