package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadErrCode(t *testing.T, err error) string {
	t.Helper()
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
	return loadErr.Code
}

func TestLoadDefinitions_CUEDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDefs(t, dir, "base.cue", `package defs

boxedType: Base: fields: flag: {complexType: "bool"}
`)
	writeDefs(t, dir, "derived.cue", `package defs

boxedType: Derived: {
	inherits: "Base"
	fields: ch: {complexType: "unicodeChar"}
}
`)

	result, err := LoadDefinitions(dir)
	require.NoError(t, err)
	assert.Equal(t, FormatCUE, result.Format)
	assert.Equal(t, 2, result.FileCount)
	assert.ElementsMatch(t, []string{"Base", "Derived"}, result.Table.Names())
}

func TestLoadDefinitions_CUEFile(t *testing.T) {
	path := writeDefs(t, t.TempDir(), "types.cue", baseCUE)

	result, err := LoadDefinitions(path)
	require.NoError(t, err)
	assert.Equal(t, FormatCUE, result.Format)
	assert.Equal(t, 1, result.FileCount)
	assert.Equal(t, []string{"Base", "Derived"}, result.Table.Names())
}

func TestLoadDefinitions_YAML(t *testing.T) {
	for _, name := range []string{"types.yaml", "types.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeDefs(t, t.TempDir(), name, baseYAML)

			result, err := LoadDefinitions(path)
			require.NoError(t, err)
			assert.Equal(t, FormatYAML, result.Format)
			assert.Equal(t, []string{"Base", "Derived"}, result.Table.Names())

			derived, ok := result.Table.Lookup("Derived")
			require.True(t, ok)
			assert.Equal(t, "Base", derived.Inherits)
		})
	}
}

func TestLoadDefinitions_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) string
		wantCode string
	}{
		{
			name:     "missing path",
			setup:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
			wantCode: ErrCodeNotFound,
		},
		{
			name:     "empty directory",
			setup:    func(t *testing.T) string { return t.TempDir() },
			wantCode: ErrCodeNoFiles,
		},
		{
			name: "unsupported extension",
			setup: func(t *testing.T) string {
				return writeDefs(t, t.TempDir(), "types.json", `{}`)
			},
			wantCode: ErrCodeUnsupported,
		},
		{
			name: "CUE syntax error",
			setup: func(t *testing.T) string {
				return writeDefs(t, t.TempDir(), "bad.cue", "boxedType: {")
			},
			wantCode: ErrCodeBuildFailed,
		},
		{
			name: "unknown field key",
			setup: func(t *testing.T) string {
				return writeDefs(t, t.TempDir(), "bad.cue", `boxedType: Base: fields: flag: {complex: "bool"}`)
			},
			wantCode: ErrCodeInvalidDefinition,
		},
		{
			name: "YAML signed is not a bool",
			setup: func(t *testing.T) string {
				return writeDefs(t, t.TempDir(), "bad.yaml", "boxedTypes:\n  Base:\n    fields:\n      n: {llvmType: i64, signed: maybe}\n")
			},
			wantCode: ErrCodeInvalidDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDefinitions(tt.setup(t))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, loadErrCode(t, err))
		})
	}
}

func TestLoadError_Position(t *testing.T) {
	path := writeDefs(t, t.TempDir(), "bad.yaml", "boxedTypes:\n  Base:\n    fields:\n      n: {llvmType: i64, signed: maybe}\n")

	_, err := LoadDefinitions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "E101")
}

func TestLoadError_Detail(t *testing.T) {
	err := &LoadError{Code: ErrCodeInvalidDefinition, Message: "Base.fields.n: signed must be a bool", Line: 4}

	assert.Equal(t, "line 4: Base.fields.n: signed must be a bool", err.Detail())
	assert.Equal(t, "E101: line 4: Base.fields.n: signed must be a bool", err.Error())
	assert.Equal(t, "E003: no CUE files found in defs", (&LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found in defs"}).Error())
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeDefs(t, dir, "b.cue", "package defs\n")
	writeDefs(t, dir, "a.cue", "package defs\n")
	writeDefs(t, dir, "notes.txt", "")

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.cue"), filepath.Join(dir, "b.cue")}, files)
}
