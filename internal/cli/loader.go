package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/typegen/internal/compiler"
	"github.com/roach88/typegen/internal/ir"
)

// Definition source formats.
const (
	FormatCUE  = "cue"
	FormatYAML = "yaml"
)

// LoadResult contains the boxed-type table loaded from definitions.
type LoadResult struct {
	Table     *ir.Table
	Format    string // FormatCUE or FormatYAML
	FileCount int    // Number of definition files read
}

// LoadError represents an error that occurred while loading definitions.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Line    int       // YAML line if available
}

func (e *LoadError) Error() string {
	return e.Code + ": " + e.Detail()
}

// Detail is the message prefixed with its source position, without the code.
func (e *LoadError) Detail() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// LoadDefinitions loads a boxed-type table from path.
//
//   - directory: all .cue files in it, loaded as one CUE instance
//   - .cue file: that file alone
//   - .yaml / .yml file: a YAML definition document
//
// Errors are always *LoadError.
func LoadDefinitions(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definitions not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing definitions: %v", err)}
	}

	if info.IsDir() {
		return loadCUEDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return loadCUEFile(path)
	case ".yaml", ".yml":
		return loadYAMLFile(path)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported definition file: %s (want .cue, .yaml or .yml)", path)}
	}
}

// loadCUEDir builds every .cue file of dir as one instance.
func loadCUEDir(dir string) (*LoadResult, error) {
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	return compileCUE(value, len(cueFiles))
}

// loadCUEFile compiles a single .cue file.
func loadCUEFile(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	return compileCUE(value, 1)
}

func compileCUE(value cue.Value, fileCount int) (*LoadResult, error) {
	table, err := compiler.CompileTable(value)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return &LoadResult{Table: table, Format: FormatCUE, FileCount: fileCount}, nil
}

// loadYAMLFile compiles a YAML definition document.
func loadYAMLFile(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	table, err := compiler.CompileYAML(data)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return &LoadResult{Table: table, Format: FormatYAML, FileCount: 1}, nil
}

// FindCUEFiles returns the .cue files directly inside dir, sorted by name.
// Subdirectories are not part of the instance and are not counted.
func FindCUEFiles(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.cue"))
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeInvalidDefinition,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
			Line:    compileErr.Line,
		}
	}
	return &LoadError{
		Code:    ErrCodeInvalidDefinition,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load or file read failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeUnsupported = "E008" // Unsupported definition file type
	ErrCodeCache       = "E009" // Cache database error

	// Definition and generation errors
	ErrCodeInvalidDefinition = "E101" // Malformed boxed-type definition
	ErrCodeUnresolvedType    = "E102" // Unknown complex type during generation
)
