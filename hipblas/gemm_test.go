package hipblas_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxnlabs/gohip/hip"
	"github.com/fxnlabs/gohip/hipblas"
)

func upload[T any](t *testing.T, data []T) *hip.Memory[T] {
	t.Helper()
	mem, err := hip.Alloc[T](len(data))
	require.NoError(t, err)
	t.Cleanup(mem.Close)
	require.NoError(t, mem.CopyFromHost(data))
	return mem
}

func download[T any](t *testing.T, mem *hip.Memory[T]) []T {
	t.Helper()
	out := make([]T, mem.Len())
	require.NoError(t, mem.CopyToHost(out))
	return out
}

// refGemm is an independent triple-loop reference over column-major data.
func refGemm(transA, transB bool, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	at := func(x []float64, ld int, trans bool, i, j int) float64 {
		if trans {
			i, j = j, i
		}
		return x[j*ld+i]
	}
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			sum := 0.0
			for p := 0; p < k; p++ {
				sum += at(a, lda, transA, i, p) * at(b, ldb, transB, p, j)
			}
			c[j*ldc+i] = alpha*sum + beta*c[j*ldc+i]
		}
	}
}

func TestDgemm(t *testing.T) {
	tests := []struct {
		name           string
		transA, transB hipblas.Operation
	}{
		{"NN", hipblas.OpNone, hipblas.OpNone},
		{"TN", hipblas.OpTranspose, hipblas.OpNone},
		{"NT", hipblas.OpNone, hipblas.OpTranspose},
		{"TT", hipblas.OpTranspose, hipblas.OpTranspose},
		{"CC", hipblas.OpConjTranspose, hipblas.OpConjTranspose},
	}
	const m, n, k = 3, 4, 2
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newSim(t)
			h, err := hipblas.NewHandle()
			require.NoError(t, err)
			defer h.Close()

			// Stored shapes depend on the op: a is m-by-k plain, k-by-m
			// transposed, and likewise for b.
			lda, ldb, ldc := m, k, m
			if tt.transA != hipblas.OpNone {
				lda = k
			}
			if tt.transB != hipblas.OpNone {
				ldb = n
			}
			aData := []float64{1, 2, 3, 4, 5, 6}
			bData := []float64{0.5, -1, 2, 0, 1.5, -2, 3, 7}
			cData := []float64{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4}

			want := make([]float64, len(cData))
			copy(want, cData)
			refGemm(tt.transA != hipblas.OpNone, tt.transB != hipblas.OpNone,
				m, n, k, 2.0, aData, lda, bData, ldb, 0.5, want, ldc)

			a, b, c := upload(t, aData), upload(t, bData), upload(t, cData)
			require.NoError(t, hipblas.Gemm(h, tt.transA, tt.transB, m, n, k,
				2.0, a, lda, b, ldb, 0.5, c, ldc))

			got := download(t, c)
			for i := range want {
				assert.InDelta(t, want[i], got[i], 1e-12, "c[%d]", i)
			}
		})
	}
}

func TestSgemm(t *testing.T) {
	newSim(t)
	h, err := hipblas.NewHandle()
	require.NoError(t, err)
	defer h.Close()

	const m, n, k = 2, 2, 3
	aData := []float32{1, 4, 2, 5, 3, 6}    // 2x3 column-major
	bData := []float32{7, 9, 11, 8, 10, 12} // 3x2 column-major
	cData := []float32{0, 0, 0, 0}

	a, b, c := upload(t, aData), upload(t, bData), upload(t, cData)
	require.NoError(t, hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone,
		m, n, k, float32(1), a, m, b, k, float32(0), c, m))

	// [1 2 3; 4 5 6] * [7 8; 9 10; 11 12] = [58 64; 139 154]
	got := download(t, c)
	want := []float32{58, 139, 64, 154}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "c[%d]", i)
	}
}

func TestGemmDegenerateShapes(t *testing.T) {
	newSim(t)
	h, err := hipblas.NewHandle()
	require.NoError(t, err)
	defer h.Close()

	// k == 0 scales C by beta and never reads A or B.
	a := upload(t, []float64{1})
	b := upload(t, []float64{1, 1})
	c := upload(t, []float64{2, 4, 6, 8})
	require.NoError(t, hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone,
		2, 2, 0, 1.0, a, 2, b, 1, 0.5, c, 2))
	assert.Equal(t, []float64{1, 2, 3, 4}, download(t, c))
}

func TestGemmUnsupportedPrecisions(t *testing.T) {
	newSim(t)
	h, err := hipblas.NewHandle()
	require.NoError(t, err)
	defer h.Close()

	t.Run("half", func(t *testing.T) {
		a := upload(t, []hipblas.Half{0x3c00})
		err := hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone, 1, 1, 1,
			hipblas.Half(0x3c00), a, 1, a, 1, hipblas.Half(0), a, 1)
		var blasErr *hipblas.Error
		require.True(t, errors.As(err, &blasErr))
		assert.Equal(t, hipblas.StatusNotSupported, blasErr.Status)
	})
	t.Run("complex64", func(t *testing.T) {
		a := upload(t, []complex64{1 + 2i})
		err := hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone, 1, 1, 1,
			complex64(1), a, 1, a, 1, complex64(0), a, 1)
		var blasErr *hipblas.Error
		require.True(t, errors.As(err, &blasErr))
		assert.Equal(t, hipblas.StatusNotSupported, blasErr.Status)
	})
	t.Run("complex128", func(t *testing.T) {
		a := upload(t, []complex128{1 + 2i})
		err := hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone, 1, 1, 1,
			complex128(1), a, 1, a, 1, complex128(0), a, 1)
		var blasErr *hipblas.Error
		require.True(t, errors.As(err, &blasErr))
		assert.Equal(t, hipblas.StatusNotSupported, blasErr.Status)
	})
}

func TestGemmPreconditions(t *testing.T) {
	newSim(t)
	h, err := hipblas.NewHandle()
	require.NoError(t, err)
	defer h.Close()

	a := upload(t, []float64{1, 2, 3, 4})

	expectStatus := func(t *testing.T, err error, want hipblas.Status) {
		t.Helper()
		var blasErr *hipblas.Error
		require.True(t, errors.As(err, &blasErr))
		assert.Equal(t, want, blasErr.Status)
	}

	t.Run("nil handle", func(t *testing.T) {
		err := hipblas.Gemm(nil, hipblas.OpNone, hipblas.OpNone, 2, 2, 2,
			1.0, a, 2, a, 2, 0.0, a, 2)
		expectStatus(t, err, hipblas.StatusHandleIsNullPointer)
	})
	t.Run("closed handle", func(t *testing.T) {
		closed, err := hipblas.NewHandle()
		require.NoError(t, err)
		closed.Close()
		err = hipblas.Gemm(closed, hipblas.OpNone, hipblas.OpNone, 2, 2, 2,
			1.0, a, 2, a, 2, 0.0, a, 2)
		expectStatus(t, err, hipblas.StatusHandleIsNullPointer)
	})
	t.Run("nil operand", func(t *testing.T) {
		err := hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone, 2, 2, 2,
			1.0, nil, 2, a, 2, 0.0, a, 2)
		expectStatus(t, err, hipblas.StatusInvalidValue)
	})
	t.Run("closed operand", func(t *testing.T) {
		dead, err := hip.Alloc[float64](4)
		require.NoError(t, err)
		dead.Close()
		err = hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone, 2, 2, 2,
			1.0, dead, 2, a, 2, 0.0, a, 2)
		expectStatus(t, err, hipblas.StatusInvalidValue)
	})
	t.Run("undersized operand", func(t *testing.T) {
		err := hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone, 2, 2, 3,
			1.0, a, 2, a, 3, 0.0, a, 2)
		expectStatus(t, err, hipblas.StatusInvalidValue)
	})
	t.Run("bad operation enum", func(t *testing.T) {
		err := hipblas.Gemm(h, hipblas.Operation(5), hipblas.OpNone, 2, 2, 2,
			1.0, a, 2, a, 2, 0.0, a, 2)
		expectStatus(t, err, hipblas.StatusInvalidEnum)
	})
	t.Run("negative dimension", func(t *testing.T) {
		err := hipblas.Gemm(h, hipblas.OpNone, hipblas.OpNone, -1, 2, 2,
			1.0, a, 2, a, 2, 0.0, a, 2)
		expectStatus(t, err, hipblas.StatusInvalidValue)
	})
}

func TestDgemmBatched(t *testing.T) {
	newSim(t)
	h, err := hipblas.NewHandle()
	require.NoError(t, err)
	defer h.Close()

	const m, n, k, batch = 2, 2, 2, 3
	var as, bs, cs []*hip.Memory[float64]
	var want [][]float64
	for i := 0; i < batch; i++ {
		f := float64(i + 1)
		aData := []float64{f, 0, 0, f}
		bData := []float64{1, 2, 3, 4}
		cData := []float64{10, 10, 10, 10}

		w := make([]float64, len(cData))
		copy(w, cData)
		refGemm(false, false, m, n, k, 1.0, aData, m, bData, k, 1.0, w, m)
		want = append(want, w)

		as = append(as, upload(t, aData))
		bs = append(bs, upload(t, bData))
		cs = append(cs, upload(t, cData))
	}

	require.NoError(t, hipblas.GemmBatched(h, hipblas.OpNone, hipblas.OpNone,
		m, n, k, 1.0, as, m, bs, k, 1.0, cs, m))

	for i := 0; i < batch; i++ {
		got := download(t, cs[i])
		for j := range want[i] {
			assert.InDelta(t, want[i][j], got[j], 1e-12, "batch %d c[%d]", i, j)
		}
	}
}

func TestGemmBatchedPreconditions(t *testing.T) {
	newSim(t)
	h, err := hipblas.NewHandle()
	require.NoError(t, err)
	defer h.Close()

	a := upload(t, []float64{1, 2, 3, 4})
	one := []*hip.Memory[float64]{a}
	two := []*hip.Memory[float64]{a, a}

	expectInvalid := func(t *testing.T, err error) {
		t.Helper()
		var blasErr *hipblas.Error
		require.True(t, errors.As(err, &blasErr))
		assert.Equal(t, hipblas.StatusInvalidValue, blasErr.Status)
	}

	t.Run("empty batch", func(t *testing.T) {
		expectInvalid(t, hipblas.GemmBatched(h, hipblas.OpNone, hipblas.OpNone,
			2, 2, 2, 1.0, nil, 2, nil, 2, 0.0, nil, 2))
	})
	t.Run("ragged batch", func(t *testing.T) {
		expectInvalid(t, hipblas.GemmBatched(h, hipblas.OpNone, hipblas.OpNone,
			2, 2, 2, 1.0, two, 2, one, 2, 0.0, two, 2))
	})
	t.Run("nil entry", func(t *testing.T) {
		expectInvalid(t, hipblas.GemmBatched(h, hipblas.OpNone, hipblas.OpNone,
			2, 2, 2, 1.0, []*hip.Memory[float64]{nil}, 2, one, 2, 0.0, one, 2))
	})
}
