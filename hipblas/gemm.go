package hipblas

import (
	"github.com/fxnlabs/gohip/hip"
	"github.com/fxnlabs/gohip/internal/drv"
)

// Operation selects how a GEMM operand is read.
type Operation int32

const (
	OpNone          Operation = 0
	OpTranspose     Operation = 1
	OpConjTranspose Operation = 2
)

// Half is an IEEE 754 binary16 value in its raw bit pattern. The library
// computes in half precision; conversion to and from float32 is the
// caller's concern.
type Half uint16

// Element is the set of scalar types GEMM is defined over. The set is
// closed: each member maps to exactly one library entry point.
type Element interface {
	Half | float32 | float64 | complex64 | complex128
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C over column-major device
// matrices, where op(A) is m-by-k, op(B) is k-by-n and C is m-by-n with
// leading dimensions lda, ldb, ldc. The element type selects the library
// entry point.
func Gemm[T Element](h *Handle, transA, transB Operation, m, n, k int, alpha T, a *hip.Memory[T], lda int, b *hip.Memory[T], ldb int, beta T, c *hip.Memory[T], ldc int) error {
	if h == nil || h.handle == nil {
		return errStatus(StatusHandleIsNullPointer)
	}
	pa, pb, pc, err := operands(a, b, c)
	if err != nil {
		return err
	}
	return check(dispatch(h.handle, transA, transB, m, n, k, alpha, pa, lda, pb, ldb, beta, pc, ldc))
}

// GemmBatched runs one GEMM per operand triple with shared shape and
// scalars. All three slices must have the same nonzero length.
func GemmBatched[T Element](h *Handle, transA, transB Operation, m, n, k int, alpha T, a []*hip.Memory[T], lda int, b []*hip.Memory[T], ldb int, beta T, c []*hip.Memory[T], ldc int) error {
	if h == nil || h.handle == nil {
		return errStatus(StatusHandleIsNullPointer)
	}
	if len(a) == 0 || len(a) != len(b) || len(a) != len(c) {
		return errStatus(StatusInvalidValue)
	}
	pa, err := batchPtrs(a)
	if err != nil {
		return err
	}
	pb, err := batchPtrs(b)
	if err != nil {
		return err
	}
	pc, err := batchPtrs(c)
	if err != nil {
		return err
	}
	return check(dispatchBatched(h.handle, transA, transB, m, n, k, alpha, pa, lda, pb, ldb, beta, pc, ldc))
}

func operands[T Element](a, b, c *hip.Memory[T]) (pa, pb, pc drv.MemPtr, err error) {
	if a == nil || b == nil || c == nil || a.Ptr() == nil || b.Ptr() == nil || c.Ptr() == nil {
		return nil, nil, nil, errStatus(StatusInvalidValue)
	}
	return drv.MemPtr(a.Ptr()), drv.MemPtr(b.Ptr()), drv.MemPtr(c.Ptr()), nil
}

func batchPtrs[T Element](ms []*hip.Memory[T]) ([]drv.MemPtr, error) {
	out := make([]drv.MemPtr, len(ms))
	for i, m := range ms {
		if m == nil || m.Ptr() == nil {
			return nil, errStatus(StatusInvalidValue)
		}
		out[i] = drv.MemPtr(m.Ptr())
	}
	return out, nil
}

// dispatch maps the element type to its entry point. The switch is
// exhaustive over Element; the final panic is unreachable.
func dispatch[T Element](h drv.BlasHandle, transA, transB Operation, m, n, k int, alpha T, a drv.MemPtr, lda int, b drv.MemPtr, ldb int, beta T, c drv.MemPtr, ldc int) int32 {
	ta, tb := int32(transA), int32(transB)
	mi, ni, ki := int32(m), int32(n), int32(k)
	la, lb, lc := int32(lda), int32(ldb), int32(ldc)
	lib := drv.BlasLib()
	switch al := any(alpha).(type) {
	case Half:
		return lib.Hgemm(h, ta, tb, mi, ni, ki, uint16(al), a, la, b, lb, uint16(any(beta).(Half)), c, lc)
	case float32:
		return lib.Sgemm(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(float32), c, lc)
	case float64:
		return lib.Dgemm(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(float64), c, lc)
	case complex64:
		return lib.Cgemm(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(complex64), c, lc)
	case complex128:
		return lib.Zgemm(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(complex128), c, lc)
	default:
		panic("hipblas: unreachable element type")
	}
}

func dispatchBatched[T Element](h drv.BlasHandle, transA, transB Operation, m, n, k int, alpha T, a []drv.MemPtr, lda int, b []drv.MemPtr, ldb int, beta T, c []drv.MemPtr, ldc int) int32 {
	ta, tb := int32(transA), int32(transB)
	mi, ni, ki := int32(m), int32(n), int32(k)
	la, lb, lc := int32(lda), int32(ldb), int32(ldc)
	batch := int32(len(a))
	lib := drv.BlasLib()
	switch al := any(alpha).(type) {
	case Half:
		return lib.HgemmBatched(h, ta, tb, mi, ni, ki, uint16(al), a, la, b, lb, uint16(any(beta).(Half)), c, lc, batch)
	case float32:
		return lib.SgemmBatched(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(float32), c, lc, batch)
	case float64:
		return lib.DgemmBatched(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(float64), c, lc, batch)
	case complex64:
		return lib.CgemmBatched(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(complex64), c, lc, batch)
	case complex128:
		return lib.ZgemmBatched(h, ta, tb, mi, ni, ki, al, a, la, b, lb, any(beta).(complex128), c, lc, batch)
	default:
		panic("hipblas: unreachable element type")
	}
}
