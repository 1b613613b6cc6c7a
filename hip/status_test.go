package hip_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxnlabs/gohip/hip"
)

func TestErrorClassification(t *testing.T) {
	newSim(t)

	// Drive a failure through the public API so the translated error is the
	// one callers actually see.
	_, err := hip.NewDevice(42).Name()
	require.Error(t, err)

	var hipErr *hip.Error
	require.True(t, errors.As(err, &hipErr))
	assert.Equal(t, hip.StatusInvalidDevice, hipErr.Status)
	assert.Equal(t, int32(101), hipErr.Code)
	assert.Equal(t, "hip error: InvalidDevice (code 101)", hipErr.Error())
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status hip.Status
		want   string
	}{
		{hip.StatusInvalidValue, "InvalidValue"},
		{hip.StatusMemoryAllocation, "MemoryAllocation"},
		{hip.StatusNotInitialized, "NotInitialized"},
		{hip.StatusDeinitialized, "Deinitialized"},
		{hip.StatusInvalidDevice, "InvalidDevice"},
		{hip.StatusFileNotFound, "FileNotFound"},
		{hip.StatusNotReady, "NotReady"},
		{hip.StatusNotSupported, "NotSupported"},
		{hip.StatusUnknown, "Unknown"},
		{hip.Status(12345), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestErrorRetainsUnknownCode(t *testing.T) {
	e := &hip.Error{Status: hip.StatusUnknown, Code: 777}
	assert.Equal(t, fmt.Sprintf("hip error: Unknown (code %d)", 777), e.Error())
}
