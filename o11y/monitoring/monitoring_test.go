// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package monitoring

import (
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	smetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"go.chromium.org/build/gcred/runtimex"
)

func TestExportResolution(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(reset)

	// no-op before Setup.
	ExportResolution(ctx, "env", "found", time.Millisecond)

	reader := smetric.NewManualReader()
	mp := smetric.NewMeterProvider(smetric.WithReader(reader), smetric.WithView(Views()...))
	err := Setup(ctx, mp, "test")
	if err != nil {
		t.Fatalf("Setup=%v; want nil", err)
	}
	err = Setup(ctx, mp, "test")
	if err == nil {
		t.Errorf("second Setup=nil; want error")
	}

	ExportResolution(ctx, "env", "found", time.Millisecond)
	ExportResolution(ctx, "env", "found", 2*time.Millisecond)
	ExportResolution(ctx, "well-known", "absent", time.Millisecond)

	var rm metricdata.ResourceMetrics
	err = reader.Collect(ctx, &rm)
	if err != nil {
		t.Fatalf("Collect=%v; want nil", err)
	}
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "resolution.count" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("resolution.count data=%T; want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				strategy, _ := dp.Attributes.Value(attribute.Key(strategyKey))
				outcome, _ := dp.Attributes.Value(attribute.Key(outcomeKey))
				family, _ := dp.Attributes.Value(attribute.Key(osFamilyKey))
				if family.AsString() != osFamily() {
					t.Errorf("%s=%q; want %q", osFamilyKey, family.AsString(), osFamily())
				}
				got[strategy.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	want := map[string]int64{
		"env/found":         2,
		"well-known/absent": 1,
	}
	if len(got) != len(want) {
		t.Errorf("resolution.count=%v; want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("resolution.count[%q]=%d; want %d", k, got[k], v)
		}
	}
}

func TestOSFamily(t *testing.T) {
	want := "posix"
	if runtimex.IsWindows() {
		want = "windows"
	}
	if got := osFamily(); got != want {
		t.Errorf("osFamily()=%q; want %q", got, want)
	}
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	resolutionCount = nil
	resolutionLatency = nil
	staticMetricLabels = nil
}
