package hip

import "fmt"

// Status is the decoded kind of a HIP runtime status code. Code 0 is
// success and has no Status value: a nil error is the only success form.
type Status int32

const (
	StatusInvalidValue     Status = 1
	StatusMemoryAllocation Status = 2
	StatusNotInitialized   Status = 3
	StatusDeinitialized    Status = 4
	StatusInvalidDevice    Status = 101
	StatusFileNotFound     Status = 301
	StatusNotReady         Status = 600
	StatusNotSupported     Status = 801
	StatusUnknown          Status = 999
)

func (s Status) String() string {
	switch s {
	case StatusInvalidValue:
		return "InvalidValue"
	case StatusMemoryAllocation:
		return "MemoryAllocation"
	case StatusNotInitialized:
		return "NotInitialized"
	case StatusDeinitialized:
		return "Deinitialized"
	case StatusInvalidDevice:
		return "InvalidDevice"
	case StatusFileNotFound:
		return "FileNotFound"
	case StatusNotReady:
		return "NotReady"
	case StatusNotSupported:
		return "NotSupported"
	default:
		return "Unknown"
	}
}

func decode(code int32) Status {
	switch code {
	case 1, 2, 3, 4, 101, 301, 600, 801:
		return Status(code)
	default:
		return StatusUnknown
	}
}

// Error is a classified runtime failure. Code always retains the raw driver
// code, even when decoding collapses to StatusUnknown, so the original value
// is never lost for diagnostics.
type Error struct {
	Status Status
	Code   int32
}

func newError(code int32) *Error {
	return &Error{Status: decode(code), Code: code}
}

// errInvalidValue builds the error used for preconditions rejected locally,
// before any driver call is issued.
func errInvalidValue() *Error {
	return &Error{Status: StatusInvalidValue, Code: int32(StatusInvalidValue)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("hip error: %s (code %d)", e.Status, e.Code)
}

// result is the single path by which a raw call result becomes visible to a
// caller: code 0 returns v unchanged, any other code discards v and returns
// the classified error. A non-zero status means the driver left the output
// parameter undefined, so no call site may keep the value anyway.
func result[T any](v T, code int32) (T, error) {
	if code == 0 {
		return v, nil
	}
	var zero T
	return zero, newError(code)
}

func check(code int32) error {
	if code == 0 {
		return nil
	}
	return newError(code)
}
