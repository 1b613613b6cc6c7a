package main

import (
	"fmt"
	"math"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/fxnlabs/gohip/hip"
	"github.com/fxnlabs/gohip/hipblas"
)

func gemmCommand() *cli.Command {
	return &cli.Command{
		Name:  "gemm",
		Usage: "Run the configured GEMM workload and report throughput",
		Action: func(c *cli.Context) error {
			switch cfg.Gemm.Precision {
			case "single":
				return runGemm[float32](float32(cfg.Gemm.Alpha), float32(cfg.Gemm.Beta), 1e-3)
			case "double":
				return runGemm[float64](cfg.Gemm.Alpha, cfg.Gemm.Beta, 1e-9)
			default:
				return fmt.Errorf("unknown gemm precision %q", cfg.Gemm.Precision)
			}
		},
	}
}

type scalar interface {
	float32 | float64
}

func runGemm[T scalar](alpha, beta T, tol float64) error {
	m, n, k, batch := cfg.Gemm.M, cfg.Gemm.N, cfg.Gemm.K, cfg.Gemm.Batch
	rootLogger.Info("running gemm",
		zap.Int("m", m), zap.Int("n", n), zap.Int("k", k),
		zap.Int("batch", batch), zap.String("precision", cfg.Gemm.Precision))

	handle, err := hipblas.NewHandle()
	if err != nil {
		return err
	}
	defer handle.Close()

	stream, err := hip.NewStream()
	if err != nil {
		return err
	}
	defer stream.Close()
	if err := handle.SetStream(stream); err != nil {
		return err
	}

	var as, bs, cs []*hip.Memory[T]
	var hostA, hostB []T
	for i := 0; i < batch; i++ {
		a, ha, err := uploadPattern[T](m*k, T(1)/T(i+1))
		if err != nil {
			return err
		}
		defer a.Close()
		b, hb, err := uploadPattern[T](k*n, T(2)/T(i+1))
		if err != nil {
			return err
		}
		defer b.Close()
		if i == 0 {
			hostA, hostB = ha, hb
		}
		cMem, err := hip.Alloc[T](m * n)
		if err != nil {
			return err
		}
		defer cMem.Close()
		if err := cMem.Memset(0, int(cMem.SizeBytes())); err != nil {
			return err
		}
		as, bs, cs = append(as, a), append(bs, b), append(cs, cMem)
	}

	start := time.Now()
	if batch == 1 {
		err = hipblas.Gemm(handle, hipblas.OpNone, hipblas.OpNone,
			m, n, k, alpha, as[0], m, bs[0], k, beta, cs[0], m)
	} else {
		err = hipblas.GemmBatched(handle, hipblas.OpNone, hipblas.OpNone,
			m, n, k, alpha, as, m, bs, k, beta, cs, m)
	}
	if err != nil {
		return err
	}
	if err := stream.Synchronize(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := make([]T, m*n)
	if err := cs[0].CopyToHost(out); err != nil {
		return err
	}

	// C started zeroed, so the expected result is alpha*A*B regardless of
	// beta. Cross-check the first batch entry against a host-side multiply.
	maxDiff := verifyGemm(hostA, hostB, out, m, n, k, float64(alpha))
	if maxDiff > tol {
		return fmt.Errorf("gemm verification failed: max deviation %g exceeds %g", maxDiff, tol)
	}

	flops := 2 * float64(m) * float64(n) * float64(k) * float64(batch)
	fmt.Printf("gemm %dx%dx%d batch=%d: %s (%.2f GFLOP/s), verified to %g\n",
		m, n, k, batch, elapsed, flops/elapsed.Seconds()/1e9, maxDiff)
	return nil
}

// uploadPattern fills a device block with a deterministic ramp so repeated
// runs are comparable, returning the host copy for verification.
func uploadPattern[T scalar](n int, scale T) (*hip.Memory[T], []T, error) {
	host := make([]T, n)
	for i := range host {
		host[i] = scale * T(i%17) / T(16)
	}
	mem, err := hip.Alloc[T](n)
	if err != nil {
		return nil, nil, err
	}
	if err := mem.CopyFromHost(host); err != nil {
		mem.Close()
		return nil, nil, err
	}
	return mem, host, nil
}

// verifyGemm recomputes alpha*A*B on the host over the column-major inputs
// and returns the largest absolute deviation from c.
func verifyGemm[T scalar](a, b, c []T, m, n, k int, alpha float64) float64 {
	if m == 0 || n == 0 || k == 0 {
		return 0
	}
	da := mat.NewDense(m, k, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			da.Set(i, j, float64(a[j*m+i]))
		}
	}
	db := mat.NewDense(k, n, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < n; j++ {
			db.Set(i, j, float64(b[j*k+i]))
		}
	}
	var prod mat.Dense
	prod.Mul(da, db)

	var maxDiff float64
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			diff := math.Abs(alpha*prod.At(i, j) - float64(c[j*m+i]))
			if diff > maxDiff {
				maxDiff = diff
			}
		}
	}
	return maxDiff
}
