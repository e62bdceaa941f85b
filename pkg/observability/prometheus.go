package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// textfileReader collects OTel metrics into a private Prometheus registry and
// writes them out in the text exposition format, for node_exporter's textfile
// collector or a CI artifact.
type textfileReader struct {
	path     string
	registry *prometheus.Registry
	exporter *promexporter.Exporter
}

func newTextfileReader(path string) (*textfileReader, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &textfileReader{path: path, registry: registry, exporter: exporter}, nil
}

// reader is the metric reader to attach to a MeterProvider.
func (r *textfileReader) reader() sdkmetric.Reader {
	return r.exporter
}

// write gathers the registry and replaces the textfile.
func (r *textfileReader) write() error {
	err := prometheus.WriteToTextfile(r.path, r.registry)
	if err != nil {
		return fmt.Errorf("write metrics file %s: %w", r.path, err)
	}

	return nil
}
