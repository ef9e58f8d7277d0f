package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics exposes process gauges next to the extraction metrics.
// Values are read from the runtime on each collection.
type RuntimeMetrics struct {
	startTime    time.Time
	registration metric.Registration
}

// NewRuntimeMetrics registers goroutine, heap, GC and uptime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goroutines, err := meter.Int64ObservableGauge(
		"ctcac_runtime_goroutines",
		metric.WithDescription("Number of live goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64ObservableGauge(
		"ctcac_runtime_heap_alloc",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCycles, err := meter.Int64ObservableCounter(
		"ctcac_runtime_gc_cycles",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	uptime, err := meter.Float64ObservableGauge(
		"ctcac_process_uptime",
		metric.WithDescription("Seconds since the process started"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rm := &RuntimeMetrics{startTime: time.Now()}
	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heapAlloc, int64(ms.HeapAlloc))
		o.ObserveInt64(gcCycles, int64(ms.NumGC))
		o.ObserveFloat64(uptime, time.Since(rm.startTime).Seconds())
		return nil
	}, goroutines, heapAlloc, gcCycles, uptime)
	if err != nil {
		return nil, err
	}
	rm.registration = reg
	return rm, nil
}

// Uptime reports how long the metrics have been registered
func (rm *RuntimeMetrics) Uptime() time.Duration {
	return time.Since(rm.startTime)
}

// Unregister stops the gauges from being observed
func (rm *RuntimeMetrics) Unregister() error {
	if rm == nil || rm.registration == nil {
		return nil
	}
	return rm.registration.Unregister()
}
