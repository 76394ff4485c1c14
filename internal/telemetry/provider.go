package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider is an SDK meter provider read on demand through a ManualReader.
type Provider struct {
	*sdkmetric.MeterProvider

	reader *sdkmetric.ManualReader
}

// NewProvider builds a meter provider and installs it as the otel global.
func NewProvider() *Provider {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)

	return &Provider{
		MeterProvider: mp,
		reader:        reader,
	}
}

// Collect returns the current value of every int64 sum, summed over its
// data points and keyed by metric name.
func (p *Provider) Collect(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}

	values := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				values[m.Name] += dp.Value
			}
		}
	}
	return values, nil
}
