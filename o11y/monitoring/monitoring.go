// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package monitoring provides OpenTelemetry support.
package monitoring

import (
	"context"
	"errors"
	"sync"
	"time"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	smetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"go.chromium.org/build/gcred/o11y/clog"
	"go.chromium.org/build/gcred/runtimex"
)

const meterName = "go.chromium.org/build/gcred"

var (
	osFamilyKey = "os_family"
	versionKey  = "gcred_version"
	strategyKey = "strategy"
	outcomeKey  = "outcome"

	// mu protects instruments and staticMetricLabels.
	mu sync.Mutex

	// resolutionCount is a metric for tracking the number of credential resolutions.
	resolutionCount metric.Int64Counter
	// resolutionLatency is a metric for tracking the latency of a resolution.
	resolutionLatency metric.Float64Histogram

	// staticMetricLabels are the labels for all metrics.
	staticMetricLabels []attribute.KeyValue
)

func otelHandleError(ctx context.Context) otel.ErrorHandlerFunc {
	return func(err error) {
		clog.Warningf(ctx, "failed to export to OpenTelemetry: %v", err)
	}
}

// Setup creates instruments on mp. If mp is nil, it uses global meter provider.
// This can only be run once.
func Setup(ctx context.Context, mp metric.MeterProvider, version string) error {
	mu.Lock()
	defer mu.Unlock()
	if resolutionCount != nil {
		return errors.New("monitoring was already setup, cannot overwrite")
	}
	otel.SetErrorHandler(otelHandleError(ctx))
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	staticMetricLabels = []attribute.KeyValue{
		attribute.String(osFamilyKey, osFamily()),
		attribute.String(versionKey, version),
	}
	clog.Infof(ctx, "static labels for monitoring were set. %v", staticMetricLabels)

	count, err := meter.Int64Counter(
		"resolution.count",
		metric.WithDescription("Number of credential file resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return err
	}
	latency, err := meter.Float64Histogram(
		"resolution.latency",
		metric.WithDescription("Time spent resolving a credential file"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}
	resolutionCount = count
	resolutionLatency = latency
	return nil
}

func osFamily() string {
	if runtimex.IsWindows() {
		return "windows"
	}
	return "posix"
}

// Views returns views for the instruments.
func Views() []smetric.View {
	return []smetric.View{
		func(i smetric.Instrument) (smetric.Stream, bool) {
			s := smetric.Stream{Name: i.Name, Description: i.Description, Unit: i.Unit}
			switch i.Name {
			case "resolution.count":
				s.Aggregation = smetric.AggregationSum{}
			case "resolution.latency":
				s.Aggregation = smetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
				}
			default:
				return s, false
			}
			return s, true
		},
	}
}

// NewMetricProvider returns a new Cloud monitoring metrics provider
// that exports to project.
func NewMetricProvider(ctx context.Context, project string) (*smetric.MeterProvider, error) {
	exporter, err := mexporter.New(mexporter.WithProjectID(project))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithOS(),
		resource.WithHost(),
		resource.WithFromEnv(),
		resource.WithAttributes(semconv.ServiceNamespaceKey.String(project)),
	)
	if err != nil && !errors.Is(err, resource.ErrPartialResource) && !errors.Is(err, resource.ErrSchemaURLConflict) {
		return nil, err
	}
	meterProvider := smetric.NewMeterProvider(
		smetric.WithResource(res),
		smetric.WithReader(smetric.NewPeriodicReader(exporter,
			smetric.WithInterval(1*time.Minute))),
		smetric.WithView(Views()...),
	)
	return meterProvider, nil
}

// ExportResolution exports metrics for one resolution.
// strategy is "env", "well-known" or "gce".
// outcome is "found", "absent", "misconfigured" or "error".
// It is no-op until Setup is called.
func ExportResolution(ctx context.Context, strategy, outcome string, latency time.Duration) {
	mu.Lock()
	count, lat := resolutionCount, resolutionLatency
	labels := staticMetricLabels
	mu.Unlock()
	if count == nil || lat == nil {
		return
	}
	attributes := append(labels[:len(labels):len(labels)],
		attribute.String(strategyKey, strategy),
		attribute.String(outcomeKey, outcome),
	)
	count.Add(ctx, 1, metric.WithAttributes(attributes...))
	lat.Record(ctx, float64(latency)/1e6, metric.WithAttributes(attributes...))
}

