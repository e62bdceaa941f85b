package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/hlconv/pkg/convert"
	"github.com/Sumatoshi-tech/hlconv/pkg/grammar"
	"github.com/Sumatoshi-tech/hlconv/pkg/manifest"
	"github.com/Sumatoshi-tech/hlconv/pkg/observability"
	"github.com/Sumatoshi-tech/hlconv/pkg/schema"
)

const (
	tracerName   = "hlconv"
	spanRun      = "hlconv.run"
	spanLanguage = "hlconv.language"

	attrLanguage = "hlconv.language"
	attrCount    = "hlconv.languages"
)

// Result is the outcome of converting one language.
type Result struct {
	ID          string
	DisplayName string
	Entry       manifest.Entry
	Location    string
	Size        int64
	Rejected    []convert.Rejection
	Dropped     int
	Duration    time.Duration
	Err         error
}

// OK reports whether the language was converted and written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report is the outcome of a batch run.
type Report struct {
	Results  []Result
	Manifest manifest.Manifest
}

// Failures returns the results that carry an error, in catalog order.
func (r *Report) Failures() []Result {
	var failures []Result

	for _, res := range r.Results {
		if !res.OK() {
			failures = append(failures, res)
		}
	}

	return failures
}

// Converted counts the languages written successfully.
func (r *Report) Converted() int {
	return len(r.Results) - len(r.Failures())
}

// Driver converts every language of a catalog, one at a time.
type Driver struct {
	store       grammar.Store
	writer      ArtifactWriter
	transformer *convert.Transformer
	validate    bool
	linguist    bool
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *observability.ConversionMetrics
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithTransformer replaces the default transformer.
func WithTransformer(transformer *convert.Transformer) DriverOption {
	return func(d *Driver) {
		d.transformer = transformer
	}
}

// WithValidation checks every encoded artifact against the artifact schema
// before it is written.
func WithValidation(enabled bool) DriverOption {
	return func(d *Driver) {
		d.validate = enabled
	}
}

// WithLinguist appends the extensions linguist knows to each manifest entry.
func WithLinguist(enabled bool) DriverOption {
	return func(d *Driver) {
		d.linguist = enabled
	}
}

// WithLogger sets the logger for progress and failures.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithTracer sets the tracer for run and per-language spans.
func WithTracer(tracer trace.Tracer) DriverOption {
	return func(d *Driver) {
		d.tracer = tracer
	}
}

// WithMetrics records per-language metrics.
func WithMetrics(metrics *observability.ConversionMetrics) DriverOption {
	return func(d *Driver) {
		d.metrics = metrics
	}
}

// NewDriver creates a driver loading grammars from store and persisting artifacts with writer.
func NewDriver(store grammar.Store, writer ArtifactWriter, opts ...DriverOption) *Driver {
	d := &Driver{store: store, writer: writer}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	if d.tracer == nil {
		d.tracer = otel.Tracer(tracerName)
	}

	if d.transformer == nil {
		d.transformer = convert.New(convert.WithLogger(d.logger))
	}

	return d
}

// Run converts the catalog in order. A language that fails is recorded in the
// report and the run moves on; only a cancelled ctx stops it early, in which
// case the partial report is returned with the context error.
func (d *Driver) Run(ctx context.Context, catalog Catalog) (*Report, error) {
	ctx, span := d.tracer.Start(ctx, spanRun, trace.WithAttributes(attribute.Int(attrCount, catalog.Len())))
	defer span.End()

	report := &Report{Manifest: manifest.Manifest{}}

	for _, id := range catalog.IDs() {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			span.SetStatus(codes.Error, "cancelled")

			return report, fmt.Errorf("batch cancelled before %s: %w", id, ctxErr)
		}

		res := d.Convert(ctx, id)
		report.Results = append(report.Results, res)

		if res.OK() {
			report.Manifest.Add(res.ID, res.Entry)
		}
	}

	for _, res := range report.Failures() {
		d.logger.ErrorContext(ctx, "language failed", "language", res.ID, "error", res.Err)
	}

	return report, nil
}

// Convert loads, transforms, encodes and writes one language.
func (d *Driver) Convert(ctx context.Context, id string) Result {
	ctx, span := d.tracer.Start(ctx, spanLanguage, trace.WithAttributes(attribute.String(attrLanguage, id)))
	defer span.End()

	start := time.Now()

	d.logger.InfoContext(ctx, "converting language", "language", id)

	res := d.convert(ctx, id)
	res.Duration = time.Since(start)

	status := observability.StatusConverted

	if res.Err != nil {
		status = observability.StatusFailed

		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "conversion failed")
	}

	rejected := make([]string, 0, len(res.Rejected))
	for _, rejection := range res.Rejected {
		rejected = append(rejected, rejection.Class)
	}

	d.metrics.RecordLanguage(ctx, observability.LanguageStats{
		Language: id,
		Status:   status,
		Dropped:  res.Dropped,
		Rejected: rejected,
		Bytes:    res.Size,
		Duration: res.Duration,
	})

	return res
}

func (d *Driver) convert(ctx context.Context, id string) Result {
	res := Result{ID: id, DisplayName: manifest.DisplayName(id)}

	def, err := d.store.Load(ctx, id)
	if err != nil {
		res.Err = fmt.Errorf("load: %w", err)

		return res
	}

	artifact, conversion := d.transformer.Grammar(def.Root)
	res.Rejected = conversion.Rejected
	res.Dropped = conversion.Dropped

	aliases := def.Aliases()

	entry := manifest.NewEntry(id, aliases)
	if d.linguist {
		entry = manifest.Linguist(entry, id, aliases)
	}

	data, err := artifact.Encode()
	if err != nil {
		res.Err = err

		return res
	}

	if d.validate {
		err = schema.ValidateArtifact(data)
		if err != nil {
			res.Err = fmt.Errorf("validate: %w", err)

			return res
		}
	}

	location, size, err := d.writer.WriteArtifact(ctx, id, data)
	if err != nil {
		res.Err = fmt.Errorf("write: %w", err)

		return res
	}

	res.Entry = entry
	res.Location = location
	res.Size = size

	return res
}
