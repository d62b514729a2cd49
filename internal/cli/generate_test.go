package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typegen/internal/ir"
	"github.com/roach88/typegen/internal/prelude"
	"github.com/roach88/typegen/internal/store"
)

func executeGenerate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestGeneratePrintsPrelude(t *testing.T) {
	files := map[string]string{
		"types.yaml": baseYAML,
		"types.cue":  baseCUE,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			defs := writeDefs(t, t.TempDir(), name, content)

			out, err := executeGenerate(t, "text", defs)
			require.NoError(t, err)
			assert.Equal(t, basePrelude, out)
		})
	}
}

func TestGenerateCUEDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDefs(t, dir, "types.cue", baseCUE)

	out, err := executeGenerate(t, "text", dir)
	require.NoError(t, err)
	assert.Equal(t, basePrelude, out)
}

func TestGenerateConfigFlags(t *testing.T) {
	defs := writeDefs(t, t.TempDir(), "types.yaml", `boxedTypes:
  closure:
    fields:
      entry: {complexType: entryPoint}
`)

	out, err := executeGenerate(t, "text", "--base-type", "obj", "--generator", "gen-types.py", defs)
	require.NoError(t, err)
	assert.Contains(t, out, ";; This file is generated by gen-types.py. Do not edit manually. ;;\n")
	assert.Contains(t, out, "; {entry}\n%closure = type {%obj* (%closure*, %obj*)*}\n")
}

func TestGenerateJSON(t *testing.T) {
	defs := writeDefs(t, t.TempDir(), "types.yaml", baseYAML)

	out, err := executeGenerate(t, "json", defs)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   GenerationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, prelude.DefaultPath, resp.Data.Path)
	assert.Equal(t, 2, resp.Data.TypeCount)
	assert.Equal(t, ir.ContentHash(basePrelude), resp.Data.Hash)
	assert.Equal(t, basePrelude, resp.Data.Content)
	assert.False(t, resp.Data.Written)
}

func TestGenerateOutDir(t *testing.T) {
	defs := writeDefs(t, t.TempDir(), "types.yaml", baseYAML)
	outDir := t.TempDir()

	out, err := executeGenerate(t, "text", "--out-dir", outDir, "--path", "gen/boxed.ll", defs)
	require.NoError(t, err)

	target := filepath.Join(outDir, "gen", "boxed.ll")
	assert.Contains(t, out, "✓ Generated 2 boxed type(s)")
	assert.Contains(t, out, "Wrote "+target)
	assert.NotContains(t, out, "Run:")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, basePrelude, string(data))
}

func TestGenerateValidationFailure(t *testing.T) {
	defs := writeDefs(t, t.TempDir(), "types.yaml", `boxedTypes:
  Orphan:
    inherits: Missing
    fields:
      x: {llvmType: i64}
`)

	out, err := executeGenerate(t, "text", defs)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, "E201")

	// Generation itself does not check supertypes.
	out, err = executeGenerate(t, "text", "--no-validate", defs)
	require.NoError(t, err)
	assert.Contains(t, out, "%Orphan = type {%Missing, i64}")
}

func TestGenerateUnresolvedComplexType(t *testing.T) {
	defs := writeDefs(t, t.TempDir(), "types.yaml", `boxedTypes:
  Bad:
    fields:
      x: {complexType: frobnicator}
`)
	outDir := t.TempDir()

	out, err := executeGenerate(t, "text", "--no-validate", "--out-dir", outDir, defs)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E102")
	assert.Contains(t, out, `unknown complex type "frobnicator"`)

	// Nothing is written on failure.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateCacheRequiresOutDir(t *testing.T) {
	defs := writeDefs(t, t.TempDir(), "types.yaml", baseYAML)

	_, err := executeGenerate(t, "text", "--cache", filepath.Join(t.TempDir(), "cache.db"), defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--cache requires --out-dir")
}

func TestGenerateLoadError(t *testing.T) {
	out, err := executeGenerate(t, "text", "/nonexistent/definitions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func runGenerateWith(t *testing.T, opts *GenerateOptions, defs string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	return buf, runGenerate(t.Context(), opts, defs, cmd)
}

func TestGenerateCacheSkipsUnchanged(t *testing.T) {
	defs := writeDefs(t, t.TempDir(), "types.yaml", baseYAML)
	outDir := t.TempDir()
	cache := filepath.Join(t.TempDir(), "cache.db")

	opts := &GenerateOptions{
		RootOptions: &RootOptions{Format: "json"},
		BaseType:    prelude.DefaultBaseType,
		Generator:   prelude.DefaultGenerator,
		Path:        "boxed.ll",
		OutDir:      outDir,
		Cache:       cache,
		IDs:         store.NewFixedGenerator("run-1", "run-2", "run-3", "run-4"),
	}

	decode := func(buf *bytes.Buffer) GenerationResult {
		var resp struct {
			Data GenerationResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		return resp.Data
	}

	buf, err := runGenerateWith(t, opts, defs)
	require.NoError(t, err)
	first := decode(buf)
	assert.True(t, first.Written)
	assert.False(t, first.Unchanged)
	assert.Equal(t, "run-1", first.RunID)

	buf, err = runGenerateWith(t, opts, defs)
	require.NoError(t, err)
	second := decode(buf)
	assert.False(t, second.Written)
	assert.True(t, second.Unchanged)
	assert.Equal(t, "run-2", second.RunID)
	assert.Equal(t, first.Hash, second.Hash)

	// A hand-edited target is rewritten even though the recorded hash matches.
	target := filepath.Join(outDir, "boxed.ll")
	require.NoError(t, os.WriteFile(target, []byte("; edited by hand\n"), 0644))
	buf, err = runGenerateWith(t, opts, defs)
	require.NoError(t, err)
	edited := decode(buf)
	assert.True(t, edited.Written)
	assert.False(t, edited.Unchanged)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, basePrelude, string(data))

	// A deleted target is rewritten too.
	require.NoError(t, os.Remove(filepath.Join(outDir, "boxed.ll")))
	buf, err = runGenerateWith(t, opts, defs)
	require.NoError(t, err)
	third := decode(buf)
	assert.True(t, third.Written)

	st, err := store.Open(cache)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(t.Context())
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, []int64{1, 2, 3, 4}, []int64{runs[0].Seq, runs[1].Seq, runs[2].Seq, runs[3].Seq})
	assert.Equal(t, 2, runs[0].TypeCount)
	assert.Equal(t, ir.GeneratorVersion, runs[0].GeneratorVersion)

	artifacts, err := st.ListArtifacts(t.Context(), "boxed.ll")
	require.NoError(t, err)
	require.Len(t, artifacts, 4)
	written := make([]bool, len(artifacts))
	for i, a := range artifacts {
		written[i] = a.Written
	}
	assert.Equal(t, []bool{true, false, true, true}, written)
}

func TestGenerateCacheRewritesChangedContent(t *testing.T) {
	dir := t.TempDir()
	defs := writeDefs(t, dir, "types.yaml", baseYAML)
	outDir := t.TempDir()
	cache := filepath.Join(t.TempDir(), "cache.db")

	out, err := executeGenerate(t, "text", "--out-dir", outDir, "--cache", cache, defs)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.Contains(t, out, "Run: ")

	out, err = executeGenerate(t, "text", "--out-dir", outDir, "--cache", cache, defs)
	require.NoError(t, err)
	assert.Contains(t, out, "Unchanged")

	out, err = executeGenerate(t, "text", "--out-dir", outDir, "--cache", cache, "--generator", "gen-types.py", defs)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
}
