package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/hlconv/pkg/observability"
)

func TestTracingHandler_AddsSpanContext(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	var buf bytes.Buffer

	logger := slog.New(observability.NewTracingHandler(
		slog.NewJSONHandler(&buf, nil), "hlconv", "1.2.3", observability.ModeConvert))

	ctx, span := tp.Tracer("test").Start(context.Background(), "hlconv.language")
	logger.InfoContext(ctx, "converting language", "id", "python")
	span.End()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
	assert.Equal(t, "hlconv", record["service"])
	assert.Equal(t, "1.2.3", record["version"])
	assert.Equal(t, "convert", record["mode"])
	assert.Equal(t, "python", record["id"])
}

func TestTracingHandler_NoSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(observability.NewTracingHandler(
		slog.NewJSONHandler(&buf, nil), "hlconv", "", observability.ModeCLI))
	logger.WithGroup("catalog").Info("listing", "count", 3)

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "version")
	assert.Equal(t, "hlconv", record["service"], "service stays top level under groups")
	assert.Equal(t, map[string]any{"count": float64(3)}, record["catalog"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := observability.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = observability.ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = observability.ParseLevel("loud")
	require.ErrorIs(t, err, observability.ErrUnknownLevel)
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		map[string]string{"authorization": "Bearer x", "team": "docs"},
		observability.ParseOTLPHeaders("authorization=Bearer x, team = docs,broken"))
	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("nothing"))
}

func TestConversionMetrics_RecordLanguage(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewConversionMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()

	metrics.RecordLanguage(ctx, observability.LanguageStats{
		Language: "python",
		Status:   observability.StatusConverted,
		Dropped:  4,
		Rejected: []string{"title", "meta"},
		Bytes:    2048,
		Duration: 3 * time.Millisecond,
	})
	metrics.RecordLanguage(ctx, observability.LanguageStats{Language: "ruby", Status: observability.StatusFailed})

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(ctx, &rm))

	languages := sumOf(t, rm, "hlconv.languages.total")
	assert.Equal(t, int64(2), languages)
	assert.Equal(t, int64(4), sumOf(t, rm, "hlconv.rules.dropped.total"))
	assert.Equal(t, int64(2), sumOf(t, rm, "hlconv.classes.rejected.total"))
	assert.Equal(t, int64(2048), sumOf(t, rm, "hlconv.artifact.bytes.total"))

	var nilMetrics *observability.ConversionMetrics

	assert.NotPanics(t, func() { nilMetrics.RecordLanguage(ctx, observability.LanguageStats{}) })
}

func TestInit_NoopByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &buf

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	providers.Logger.Info("hello")
	assert.Contains(t, buf.String(), "service=hlconv")

	metrics, err := observability.NewConversionMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordLanguage(context.Background(), observability.LanguageStats{Language: "go"})

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_WritesMetricsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hlconv.prom")

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &bytes.Buffer{}
	cfg.MetricsFile = path

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	metrics, err := observability.NewConversionMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordLanguage(context.Background(), observability.LanguageStats{
		Language: "go",
		Status:   observability.StatusConverted,
	})

	require.NoError(t, providers.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hlconv_languages")
	assert.Contains(t, string(data), "target_info")
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)

			var total int64
			for _, point := range sum.DataPoints {
				total += point.Value
			}

			return total
		}
	}

	t.Fatalf("metric %s not recorded", name)

	return 0
}
