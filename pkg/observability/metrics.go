package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricLanguagesTotal = "hlconv.languages.total"
	metricRulesDropped   = "hlconv.rules.dropped.total"
	metricClassRejected  = "hlconv.classes.rejected.total"
	metricArtifactBytes  = "hlconv.artifact.bytes.total"
	metricDuration       = "hlconv.language.duration.seconds"

	attrStatus   = "status"
	attrLanguage = "language"
	attrClass    = "class"
)

// Language outcome labels.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// durationBucketBoundaries covers sub-millisecond builtin grammars up to
// slow file-backed loads.
var durationBucketBoundaries = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// metricBuilder accumulates instrument creation errors so a set of
// instruments can be created with a single error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(bounds...),
	)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}

// ConversionMetrics holds the instruments recorded per converted language.
type ConversionMetrics struct {
	languages     metric.Int64Counter
	rulesDropped  metric.Int64Counter
	classRejected metric.Int64Counter
	artifactBytes metric.Int64Counter
	duration      metric.Float64Histogram
}

// LanguageStats is the outcome of converting one language.
type LanguageStats struct {
	Language string
	Status   string
	Dropped  int
	Rejected []string
	Bytes    int64
	Duration time.Duration
}

// NewConversionMetrics creates the conversion instruments from mt.
func NewConversionMetrics(mt metric.Meter) (*ConversionMetrics, error) {
	b := &metricBuilder{meter: mt}

	cm := &ConversionMetrics{
		languages:     b.counter(metricLanguagesTotal, "Languages processed by outcome", "{language}"),
		rulesDropped:  b.counter(metricRulesDropped, "Rules pruned by depth or class", "{rule}"),
		classRejected: b.counter(metricClassRejected, "Rules rejected for a class outside the allow-list", "{rule}"),
		artifactBytes: b.counter(metricArtifactBytes, "Bytes of artifacts written", "By"),
		duration:      b.histogram(metricDuration, "Per-language conversion duration", "s", durationBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return cm, nil
}

// RecordLanguage records one language outcome. Safe to call on a nil receiver.
func (cm *ConversionMetrics) RecordLanguage(ctx context.Context, stats LanguageStats) {
	if cm == nil {
		return
	}

	langAttr := attribute.String(attrLanguage, stats.Language)

	cm.languages.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, stats.Status)))
	cm.duration.Record(ctx, stats.Duration.Seconds(), metric.WithAttributes(langAttr))

	if stats.Dropped > 0 {
		cm.rulesDropped.Add(ctx, int64(stats.Dropped), metric.WithAttributes(langAttr))
	}

	for _, class := range stats.Rejected {
		cm.classRejected.Add(ctx, 1, metric.WithAttributes(attribute.String(attrClass, class)))
	}

	if stats.Bytes > 0 {
		cm.artifactBytes.Add(ctx, stats.Bytes)
	}
}
