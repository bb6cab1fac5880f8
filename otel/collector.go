// Package otel provides OpenTelemetry integration for duocache metrics.
//
// This package implements the duocache.MetricsCollector interface using
// OpenTelemetry, enabling enterprise-grade observability with automatic
// percentile calculation (p50, p95, p99) and multi-backend support
// (Prometheus, Jaeger, DataDog, Grafana).
//
// # Metrics Exposed
//
//   - duocache_get_latency_ns: Histogram of Get() latencies, per tier
//   - duocache_put_latency_ns: Histogram of Put()/PutMany() latencies
//   - duocache_delete_latency_ns: Histogram of Delete()/DeleteMany() latencies
//   - duocache_hits_total: Counter of cache hits, labeled by tier
//   - duocache_misses_total: Counter of cache misses
//   - duocache_evictions_total: Counter of evictions, labeled by tier
//   - duocache_expirations_total: Counter of TTL expirations, labeled by tier
//
// All metrics are automatically aggregated by the OTEL SDK and can be
// exported to any OTEL-compatible backend.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/duocache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements duocache.MetricsCollector using
// OpenTelemetry instruments. Safe for concurrent use; the underlying
// OTEL instruments are themselves safe for concurrent use.
type OTelMetricsCollector struct {
	getLatency    metric.Int64Histogram
	putLatency    metric.Int64Histogram
	deleteLatency metric.Int64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
	expirations   metric.Int64Counter
}

// Options configures an OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/duocache"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing
// metrics from multiple Engine instances.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// NewOTelMetricsCollector creates a collector backed by provider. provider
// must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/duocache"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.getLatency, err = meter.Int64Histogram(
		"duocache_get_latency_ns",
		metric.WithDescription("Latency of Get operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}
	collector.putLatency, err = meter.Int64Histogram(
		"duocache_put_latency_ns",
		metric.WithDescription("Latency of Put/PutMany operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}
	collector.deleteLatency, err = meter.Int64Histogram(
		"duocache_delete_latency_ns",
		metric.WithDescription("Latency of Delete/DeleteMany operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}
	collector.hits, err = meter.Int64Counter(
		"duocache_hits_total",
		metric.WithDescription("Total number of cache hits, by tier"),
	)
	if err != nil {
		return nil, err
	}
	collector.misses, err = meter.Int64Counter(
		"duocache_misses_total",
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return nil, err
	}
	collector.evictions, err = meter.Int64Counter(
		"duocache_evictions_total",
		metric.WithDescription("Total number of evictions, by tier"),
	)
	if err != nil {
		return nil, err
	}
	collector.expirations, err = meter.Int64Counter(
		"duocache_expirations_total",
		metric.WithDescription("Total number of TTL-based expirations, by tier"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordGet implements duocache.MetricsCollector.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, tier string, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs, metric.WithAttributes(attribute.String("tier", tier)))
	if hit {
		c.hits.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordPut implements duocache.MetricsCollector.
func (c *OTelMetricsCollector) RecordPut(latencyNs int64, itemCount int) {
	c.putLatency.Record(context.Background(), latencyNs, metric.WithAttributes(attribute.Int("item_count", itemCount)))
}

// RecordDelete implements duocache.MetricsCollector.
func (c *OTelMetricsCollector) RecordDelete(latencyNs int64, itemCount int) {
	c.deleteLatency.Record(context.Background(), latencyNs, metric.WithAttributes(attribute.Int("item_count", itemCount)))
}

// RecordEviction implements duocache.MetricsCollector.
func (c *OTelMetricsCollector) RecordEviction(tier string) {
	c.evictions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tier", tier)))
}

// RecordExpiration implements duocache.MetricsCollector.
func (c *OTelMetricsCollector) RecordExpiration(tier string) {
	c.expirations.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tier", tier)))
}

var _ duocache.MetricsCollector = (*OTelMetricsCollector)(nil)
