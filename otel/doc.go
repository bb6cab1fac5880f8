// Package otel provides an OpenTelemetry-backed duocache.MetricsCollector.
//
// # Overview
//
// This package is a separate module so that applications which don't
// need metrics collection don't pay for the OTEL dependency tree. The
// core duocache module has zero OTEL imports.
//
// # Quick Start
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := duocacheotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := duocache.Open(duocache.Config{
//	    DBPath:           "cache.db",
//	    Model:            myModel,
//	    MetricsCollector: collector,
//	    // ... budgets
//	})
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Prometheus Queries
//
// Hit ratio:
//
//	sum(rate(duocache_hits_total[5m])) /
//	(sum(rate(duocache_hits_total[5m])) + sum(rate(duocache_misses_total[5m])))
//
// P99 get latency by tier:
//
//	histogram_quantile(0.99, sum by (tier, le) (rate(duocache_get_latency_ns_bucket[5m])))
//
// Eviction rate by tier:
//
//	sum by (tier) (rate(duocache_evictions_total[1m])) * 60
//
// # Thread Safety
//
// All methods are safe for concurrent use; the underlying OTEL
// instruments are themselves safe for concurrent use.
package otel
