package hipblas

import "fmt"

// Status is the decoded kind of a hipBLAS status code. Code 0 is success
// and has no Status value.
type Status int32

const (
	StatusNotInitialized      Status = 1
	StatusAllocationFailed    Status = 2
	StatusInvalidValue        Status = 3
	StatusMappingError        Status = 4
	StatusExecutionFailed     Status = 5
	StatusInternalError       Status = 6
	StatusNotSupported        Status = 7
	StatusArchMismatch        Status = 8
	StatusHandleIsNullPointer Status = 9
	StatusInvalidEnum         Status = 10
	StatusUnknown             Status = 11
)

func (s Status) String() string {
	switch s {
	case StatusNotInitialized:
		return "NotInitialized"
	case StatusAllocationFailed:
		return "AllocationFailed"
	case StatusInvalidValue:
		return "InvalidValue"
	case StatusMappingError:
		return "MappingError"
	case StatusExecutionFailed:
		return "ExecutionFailed"
	case StatusInternalError:
		return "InternalError"
	case StatusNotSupported:
		return "NotSupported"
	case StatusArchMismatch:
		return "ArchMismatch"
	case StatusHandleIsNullPointer:
		return "HandleIsNullPointer"
	case StatusInvalidEnum:
		return "InvalidEnum"
	default:
		return "Unknown"
	}
}

func decode(code int32) Status {
	if code >= 1 && code <= 10 {
		return Status(code)
	}
	return StatusUnknown
}

// Error is a classified hipBLAS failure. Code retains the raw library code
// even when it decodes to StatusUnknown.
type Error struct {
	Status Status
	Code   int32
}

func newError(code int32) *Error {
	return &Error{Status: decode(code), Code: code}
}

// errStatus builds the error for preconditions rejected before any library
// call is issued.
func errStatus(s Status) *Error {
	return &Error{Status: s, Code: int32(s)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("hipblas error: %s (code %d)", e.Status, e.Code)
}

func check(code int32) error {
	if code == 0 {
		return nil
	}
	return newError(code)
}

func result[T any](v T, code int32) (T, error) {
	if code == 0 {
		return v, nil
	}
	var zero T
	return zero, newError(code)
}
