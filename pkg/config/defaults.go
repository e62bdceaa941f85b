package config

import "github.com/Sumatoshi-tech/hlconv/pkg/convert"

// Input defaults.
const (
	DefaultInputDir     = ""
	DefaultInputBuiltin = true
)

// Output defaults.
const (
	DefaultOutputDir      = "output"
	DefaultOutputCompress = false
	DefaultOutputValidate = true
)

// Manifest defaults.
const (
	DefaultManifestPath     = ""
	DefaultManifestLinguist = false
)

// DefaultIdentifierPattern is the identifier rule used for grammars without lexemes.
const DefaultIdentifierPattern = convert.DefaultIdentifierPattern

// DefaultLogLevel is the minimum level logged.
const DefaultLogLevel = "info"
