package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hlconv/pkg/batch"
	"github.com/Sumatoshi-tech/hlconv/pkg/manifest"
	"github.com/Sumatoshi-tech/hlconv/pkg/schema"
)

// testCase holds the test data for help and subcommand tests.
type testCase struct {
	wantOut string
	args    []string
	wantErr bool
}

func TestHLConvCLI_HelpAndSubcommands(t *testing.T) {
	t.Parallel()

	tests := []testCase{
		{wantOut: "hlconv converts highlight.js language grammars", args: []string{"--help"}},
		{wantOut: "Convert loads each language of the catalog", args: []string{"convert", "--help"}},
		{wantOut: "Check converts the catalog in memory", args: []string{"check", "--help"}},
		{wantOut: "Validate checks a generated document", args: []string{"validate", "--help"}},
		{wantOut: "List the catalog", args: []string{"list", "--help"}},
		{wantOut: "hlconv dev", args: []string{"version"}},
		{args: []string{"unknown"}, wantErr: true},
		{args: []string{"schema", "nope"}, wantErr: true},
	}

	for _, currentTest := range tests {
		out, err := execute(t, nil, currentTest.args...)

		assertErrorState(t, currentTest.wantErr, err, currentTest.args)
		assert.Contains(t, out, currentTest.wantOut, "args %v", currentTest.args)
	}
}

func TestHLConvCLI_Schema(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{"artifact", "manifest", "statlang"} {
		out, err := execute(t, nil, "schema", kind)
		require.NoError(t, err)

		var doc map[string]any

		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])
	}
}

func TestHLConvCLI_ConvertThenCheck(t *testing.T) {
	t.Parallel()

	cfgPath, outDir := writeTestConfig(t)

	out, err := execute(t, nil, "convert", "--config", cfgPath)
	require.NoError(t, err)

	lower := strings.ToLower(out)
	assert.Contains(t, lower, "total: 3 languages")
	assert.Contains(t, lower, "2 ok")
	assert.Contains(t, out, "Failures:")
	assert.Contains(t, out, "xml")

	for _, id := range []string{"python", "go"} {
		data, readErr := batch.ReadArtifact(filepath.Join(outDir, id+".json"))
		require.NoError(t, readErr)
		assertValidArtifact(t, data)
	}

	assert.NoFileExists(t, filepath.Join(outDir, "xml.json"))

	var written manifest.Manifest

	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &written))

	assert.Equal(t, []string{"Go", "Python"}, written.Names())
	assert.Equal(t, manifest.Entry{MetaFile: "python", Extensions: []string{".python", ".py", ".gyp", ".ipython"}},
		written["Python"])

	out, err = execute(t, nil, "check", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Output is up to date (2 languages)")

	goPath := filepath.Join(outDir, "go.json")
	require.NoError(t, os.WriteFile(goPath, []byte("{}\n"), 0o600))
	require.NoError(t, os.Remove(filepath.Join(outDir, "python.json")))

	out, err = execute(t, nil, "check", "--config", cfgPath, "-v")
	require.ErrorIs(t, err, ErrDrift)
	assert.Contains(t, out, "Output is out of date (2 files)")
	assert.Contains(t, out, goPath+": changed")
	assert.Contains(t, out, "python.json: missing")
	assert.Contains(t, out, "    -{}")
}

func TestHLConvCLI_ConvertManifestToStdout(t *testing.T) {
	t.Parallel()

	cfgPath, outDir := writeTestConfig(t)

	var stderr bytes.Buffer

	out, err := execute(t, &stderr, "convert", "--config", cfgPath, "--manifest", "-",
		"--format", "statlang", "--only", "go", "--compress", "-v")
	require.NoError(t, err)

	var doc struct {
		StatLang struct {
			Languages map[string]struct {
				MetaFile string   `json:"meta_file"`
				Globs    []string `json:"globs"`
			} `json:"languages"`
		} `json:"stat_lang"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &doc), "stdout holds only the manifest")
	assert.Equal(t, []string{"*.go", "*.golang"}, doc.StatLang.Languages["Go"].Globs)
	assert.Len(t, doc.StatLang.Languages, 1)

	assert.Contains(t, strings.ToLower(stderr.String()), "total: 1 languages")
	assert.Contains(t, stderr.String(), "manifest written")

	data, err := batch.ReadArtifact(filepath.Join(outDir, "go.json.lz4"))
	require.NoError(t, err)
	assertValidArtifact(t, data)
	assert.NoFileExists(t, filepath.Join(outDir, "manifest.json"))
}

func TestHLConvCLI_ConvertStrict(t *testing.T) {
	t.Parallel()

	cfgPath, outDir := writeTestConfig(t)

	_, err := execute(t, nil, "convert", "--config", cfgPath, "--strict", "-q")
	require.ErrorIs(t, err, ErrLanguagesFailed)
	assert.FileExists(t, filepath.Join(outDir, "manifest.json"), "the manifest is still written")

	_, err = execute(t, nil, "convert", "--config", cfgPath, "--strict", "-q", "--only", "go,python")
	require.NoError(t, err)
}

func TestHLConvCLI_ConvertFromDefinitionDir(t *testing.T) {
	t.Parallel()

	cfgPath, outDir := writeTestConfig(t)

	grammars := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(grammars, "xml.yaml"), []byte(`
aliases: [html, svg]
contains:
  - className: comment
    begin: "<!--"
    end: "-->"
  - className: tag
    begin: "</?"
    end: "/?>"
    contains:
      - className: name
        begin: "[A-Za-z][\\w.:-]*"
      - $ref: QUOTE_STRING_MODE
`), 0o600))

	out, err := execute(t, nil, "convert", "--config", cfgPath, "--input-dir", grammars, "--strict")
	require.NoError(t, err, out)

	data, err := batch.ReadArtifact(filepath.Join(outDir, "xml.json"))
	require.NoError(t, err)
	assertValidArtifact(t, data)
}

func TestHLConvCLI_List(t *testing.T) {
	t.Parallel()

	cfgPath, _ := writeTestConfig(t)

	out, err := execute(t, nil, "list", "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "python")
	assert.Contains(t, out, "builtin")
	assert.Contains(t, out, ".py .gyp")
	assert.Contains(t, out, "missing")
	assert.Contains(t, strings.ToLower(out), "2 available")
}

func TestHLConvCLI_Validate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	artifact := filepath.Join(dir, "ok.json")
	require.NoError(t, os.WriteFile(artifact, []byte(
		`{"root":{"contains":[{"className":"identifier","begin":"\\w+"},{"className":"string","begin":"'","end":"'"}]}}`,
	), 0o600))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(
		`{"root":{"contains":[{"className":"identifier","begin":"\\w+"},{"className":"title","begin":"x"}]}}`,
	), 0o600))

	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(
		`{"Go":{"meta_file":"go","extensions":[".go"]}}`,
	), 0o600))

	out, err := execute(t, nil, "validate", artifact)
	require.NoError(t, err)
	assert.Contains(t, out, "artifact is valid")

	out, err = execute(t, nil, "validate", manifestPath)
	require.NoError(t, err)
	assert.Contains(t, out, "manifest is valid")

	out, err = execute(t, nil, "validate", broken)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "artifact validation failed")

	_, err = execute(t, nil, "validate", "--kind", "manifest", artifact)
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = execute(t, nil, "validate", "--kind", "toml", artifact)
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = execute(t, nil, "validate", dir)
	require.ErrorIs(t, err, ErrDirectoryPath)

	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader("not json"))
	root.SetArgs([]string{"validate", "-"})
	require.ErrorIs(t, root.Execute(), ErrInvalidJSON)
}

func TestRestrictCatalog(t *testing.T) {
	t.Parallel()

	catalog := batch.Catalog{Core: []string{"go", "lua", "python"}, Extra: []string{"bash", "sql"}}

	assert.Equal(t, catalog, restrictCatalog(catalog, nil))
	assert.Equal(t,
		batch.Catalog{Core: []string{"go", "python"}, Extra: []string{"sql", "zig"}},
		restrictCatalog(catalog, []string{"zig", "sql", "python", "go", "go"}),
	)
}

func TestResolveUserFilePath(t *testing.T) {
	t.Parallel()

	_, err := resolveUserFilePath(" ")
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = resolveUserFilePath("a\x00b")
	require.ErrorIs(t, err, ErrPathContainsNUL)

	_, err = resolveUserFilePath(t.TempDir())
	require.ErrorIs(t, err, ErrDirectoryPath)

	assert.Equal(t, "a b c", sanitizeForTerminal("a\nb\tc\x07"))
}

// execute runs the CLI with args. Stdout is returned; stderr goes to errOut,
// or into the returned output when errOut is nil.
func execute(t *testing.T, errOut *bytes.Buffer, args ...string) (string, error) {
	t.Helper()

	rootCmd := newRootCmd()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	if errOut != nil {
		rootCmd.SetErr(errOut)
	} else {
		rootCmd.SetErr(buf)
	}

	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return buf.String(), err
}

func writeTestConfig(t *testing.T) (cfgPath, outDir string) {
	t.Helper()

	dir := t.TempDir()
	outDir = filepath.Join(dir, "out")
	cfgPath = filepath.Join(dir, "hlconv.yaml")

	content := "catalog:\n  core: [python, go]\n  extra: [xml]\noutput:\n  dir: " + outDir + "\n" +
		"logging:\n  level: warn\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	return cfgPath, outDir
}

func assertValidArtifact(t *testing.T, data []byte) {
	t.Helper()

	require.NoError(t, schema.ValidateArtifact(data))

	var artifact struct {
		Root struct {
			Contains []map[string]any `json:"contains"`
		} `json:"root"`
	}

	require.NoError(t, json.Unmarshal(data, &artifact))
	require.NotEmpty(t, artifact.Root.Contains)
	assert.Equal(t, "identifier", artifact.Root.Contains[0]["className"])
}

func assertErrorState(t *testing.T, wantErr bool, err error, args []string) {
	t.Helper()

	if wantErr && err == nil {
		t.Errorf("args %v: expected error, got nil", args)
	}

	if !wantErr && err != nil {
		t.Errorf("args %v: unexpected error: %v", args, err)
	}
}
