// Package config provides configuration loading and validation for hlconv.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/hlconv/pkg/batch"
	"github.com/Sumatoshi-tech/hlconv/pkg/manifest"
	"github.com/Sumatoshi-tech/hlconv/pkg/observability"
)

// Sentinel validation errors.
var (
	ErrNoInput            = errors.New("no grammar source: set input.dir or enable input.builtin")
	ErrEmptyCatalog       = errors.New("catalog has no languages")
	ErrDuplicateLanguage  = errors.New("language listed more than once")
	ErrInvalidLanguageID  = errors.New("invalid language identifier")
	ErrEmptyOutputDir     = errors.New("output directory must be set")
	ErrEmptyIdentifierRE  = errors.New("identifier pattern must not be empty")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidManifestFmt = errors.New("invalid manifest format")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// StdoutPath as manifest.path writes the manifest to standard output.
const StdoutPath = "-"

// manifestFile is the manifest name inside the output directory when no path is set.
const manifestFile = "manifest.json"

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration for a conversion run.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Output    OutputConfig    `mapstructure:"output"`
	Manifest  ManifestConfig  `mapstructure:"manifest"`
	Convert   ConvertConfig   `mapstructure:"convert"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// InputConfig selects where source grammars come from.
type InputConfig struct {
	// Dir holds <id>.yaml / <id>.json definitions. Files win over builtins.
	Dir     string `mapstructure:"dir"`
	Builtin bool   `mapstructure:"builtin"`
}

// CatalogConfig lists the languages to convert.
type CatalogConfig struct {
	Core  []string `mapstructure:"core"`
	Extra []string `mapstructure:"extra"`
}

// OutputConfig controls artifact persistence.
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	Compress bool   `mapstructure:"compress"`
	Validate bool   `mapstructure:"validate"`
}

// ManifestConfig controls the manifest document.
type ManifestConfig struct {
	Path     string `mapstructure:"path"`
	Format   string `mapstructure:"format"`
	Linguist bool   `mapstructure:"linguist"`
}

// ConvertConfig tunes the transform.
type ConvertConfig struct {
	IdentifierPattern string `mapstructure:"identifier_pattern"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	OTLPHeaders  string `mapstructure:"otlp_headers"`
	MetricsFile  string `mapstructure:"metrics_file"`
}

// LoadConfig loads configuration from file and environment variables.
// With an empty configPath, hlconv.yaml is looked up in ., ./config and
// /etc/hlconv; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("hlconv")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/hlconv")
	}

	viperCfg.SetEnvPrefix("HLCONV")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	catalog := batch.DefaultCatalog()

	viperCfg.SetDefault("input.dir", DefaultInputDir)
	viperCfg.SetDefault("input.builtin", DefaultInputBuiltin)

	viperCfg.SetDefault("catalog.core", catalog.Core)
	viperCfg.SetDefault("catalog.extra", catalog.Extra)

	viperCfg.SetDefault("output.dir", DefaultOutputDir)
	viperCfg.SetDefault("output.compress", DefaultOutputCompress)
	viperCfg.SetDefault("output.validate", DefaultOutputValidate)

	viperCfg.SetDefault("manifest.path", DefaultManifestPath)
	viperCfg.SetDefault("manifest.format", string(manifest.FormatExtensions))
	viperCfg.SetDefault("manifest.linguist", DefaultManifestLinguist)

	viperCfg.SetDefault("convert.identifier_pattern", DefaultIdentifierPattern)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", LogFormatText)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.metrics_file", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Input.Dir == "" && !config.Input.Builtin {
		return ErrNoInput
	}

	catalog := config.CatalogValue()
	if catalog.Len() == 0 {
		return ErrEmptyCatalog
	}

	for _, id := range catalog.IDs() {
		if id == "" || !fs.ValidPath(id) || path.Base(id) != id {
			return fmt.Errorf("%w: %q", ErrInvalidLanguageID, id)
		}
	}

	if dups := catalog.Duplicates(); len(dups) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateLanguage, strings.Join(dups, ", "))
	}

	if config.Output.Dir == "" {
		return ErrEmptyOutputDir
	}

	if strings.TrimSpace(config.Convert.IdentifierPattern) == "" {
		return ErrEmptyIdentifierRE
	}

	_, err := manifest.ParseFormat(config.Manifest.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifestFmt, err)
	}

	_, err = observability.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	switch config.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

// Validate re-checks the configuration, e.g. after command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// CatalogValue returns the configured catalog.
func (c *Config) CatalogValue() batch.Catalog {
	return batch.Catalog{Core: c.Catalog.Core, Extra: c.Catalog.Extra}
}

// ManifestPath resolves where the manifest goes: the configured path,
// StdoutPath, or manifest.json in the output directory.
func (c *Config) ManifestPath() string {
	if c.Manifest.Path != "" {
		return c.Manifest.Path
	}

	return filepath.Join(c.Output.Dir, manifestFile)
}

// Observability maps the logging and telemetry sections onto an observability config.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.Mode = mode
	cfg.ServiceVersion = version
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.MetricsFile = c.Telemetry.MetricsFile
	cfg.LogJSON = c.Logging.Format == LogFormatJSON

	level, err := observability.ParseLevel(c.Logging.Level)
	if err == nil {
		cfg.LogLevel = level
	}

	return cfg
}
