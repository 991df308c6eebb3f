package telemetry

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/metric"
)

const report_metrics_register = "metrics.register"

// MetricsAPI is an API that also exports every ReportCount as an observable
// gauge holding the latest count. Everything is still forwarded to inner.
type MetricsAPI struct {
	API
	meter metric.Meter

	mu     sync.Mutex
	latest map[string]int64
}

func NewMetricsAPI(inner API, meter metric.Meter) *MetricsAPI {
	return &MetricsAPI{
		API:    inner,
		meter:  meter,
		latest: make(map[string]int64),
	}
}

// metricName maps a report id onto the characters instrument names allow.
func metricName(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.', r == '/', r == '-':
			return r
		}
		return '_'
	}, id)
}

func (m *MetricsAPI) ReportCount(id string, count int64) {
	m.API.ReportCount(id, count)

	name := metricName(id)

	m.mu.Lock()
	_, registered := m.latest[name]
	m.latest[name] = count
	m.mu.Unlock()
	if registered {
		return
	}

	_, err := m.meter.Int64ObservableGauge(
		name,
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			m.mu.Lock()
			value := m.latest[name]
			m.mu.Unlock()
			o.Observe(value)
			return nil
		}),
	)
	if err != nil {
		m.API.ReportWarning(report_metrics_register, name, err)
	}
}
