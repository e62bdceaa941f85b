package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hlconv/pkg/batch"
	"github.com/Sumatoshi-tech/hlconv/pkg/config"
	"github.com/Sumatoshi-tech/hlconv/pkg/convert"
	"github.com/Sumatoshi-tech/hlconv/pkg/grammar"
	"github.com/Sumatoshi-tech/hlconv/pkg/languages"
	"github.com/Sumatoshi-tech/hlconv/pkg/observability"
	"github.com/Sumatoshi-tech/hlconv/pkg/version"
)

// session is the configuration and telemetry of one command invocation.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	quiet     bool
}

// openSession loads the configuration, applies overrides and starts telemetry.
// Logs go to the command's error stream so stdout stays machine readable.
func openSession(
	cmd *cobra.Command, flags *rootFlags, mode observability.AppMode, override func(*config.Config),
) (*session, error) {
	cfg, err := config.LoadConfig(flags.cfgFile)
	if err != nil {
		return nil, err
	}

	if override != nil {
		override(cfg)

		err = cfg.Validate()
		if err != nil {
			return nil, err
		}
	}

	obsCfg := cfg.Observability(mode, version.Version)
	obsCfg.LogOutput = cmd.ErrOrStderr()

	switch {
	case flags.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case flags.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, providers: providers, logger: providers.Logger, quiet: flags.quiet}, nil
}

// close flushes telemetry. A flush failure is logged, not returned.
func (s *session) close(ctx context.Context) {
	err := s.providers.Shutdown(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "telemetry shutdown failed", "error", err)
	}
}

// store chains the definition directory in front of the built-in grammars.
func (s *session) store() grammar.Store {
	var stores []grammar.Store

	if s.cfg.Input.Dir != "" {
		stores = append(stores, grammar.NewFSStore(os.DirFS(s.cfg.Input.Dir), nil))
	}

	if s.cfg.Input.Builtin {
		stores = append(stores, languages.NewStore())
	}

	return grammar.NewChainStore(stores...)
}

// driver builds a batch driver writing through writer.
func (s *session) driver(writer batch.ArtifactWriter) (*batch.Driver, error) {
	metrics, err := observability.NewConversionMetrics(s.providers.Meter)
	if err != nil {
		return nil, err
	}

	transformer := convert.New(
		convert.WithLogger(s.logger),
		convert.WithIdentifierPattern(s.cfg.Convert.IdentifierPattern),
	)

	return batch.NewDriver(s.store(), writer,
		batch.WithTransformer(transformer),
		batch.WithValidation(s.cfg.Output.Validate),
		batch.WithLinguist(s.cfg.Manifest.Linguist),
		batch.WithLogger(s.logger),
		batch.WithTracer(s.providers.Tracer),
		batch.WithMetrics(metrics),
	), nil
}

// restrictCatalog keeps only the listed identifiers, preserving catalog
// order and section. Identifiers absent from the catalog are appended to Extra.
func restrictCatalog(catalog batch.Catalog, only []string) batch.Catalog {
	if len(only) == 0 {
		return catalog
	}

	wanted := make(map[string]bool, len(only))
	for _, id := range only {
		wanted[id] = true
	}

	keep := func(ids []string) []string {
		var kept []string

		for _, id := range ids {
			if wanted[id] {
				kept = append(kept, id)
				delete(wanted, id)
			}
		}

		return kept
	}

	restricted := batch.Catalog{Core: keep(catalog.Core), Extra: keep(catalog.Extra)}

	for _, id := range only {
		if wanted[id] {
			restricted.Extra = append(restricted.Extra, id)
			delete(wanted, id)
		}
	}

	return restricted
}
