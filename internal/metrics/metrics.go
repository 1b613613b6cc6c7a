package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resource lifecycle metrics. The resource label is one of "memory",
	// "stream", "mempool", "blas_handle".
	ResourceAcquisitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gohip_resource_acquisitions_total",
		Help: "The total number of driver resources acquired, by resource kind",
	}, []string{"resource"})

	ResourceReleases = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gohip_resource_releases_total",
		Help: "The total number of driver resources released, by resource kind",
	}, []string{"resource"})

	ResourceReleaseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gohip_resource_release_failures_total",
		Help: "The total number of driver teardown calls that returned a non-zero status",
	}, []string{"resource"})

	// Device memory metrics
	DeviceBytesInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gohip_device_bytes_in_use",
		Help: "Device memory currently owned by live allocations in bytes",
	})

	DeviceAllocatedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gohip_device_allocated_bytes_total",
		Help: "Cumulative device memory allocated in bytes",
	})
)
