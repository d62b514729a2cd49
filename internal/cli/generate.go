package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/typegen/internal/compiler"
	"github.com/roach88/typegen/internal/ir"
	"github.com/roach88/typegen/internal/prelude"
	"github.com/roach88/typegen/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	BaseType   string
	Generator  string
	Path       string
	OutDir     string
	Cache      string
	NoValidate bool

	// IDs generates run IDs recorded in the cache. Defaults to UUIDv7.
	IDs store.RunIDGenerator
}

// GenerationResult describes one generate invocation.
type GenerationResult struct {
	Path      string `json:"path"`
	Hash      string `json:"hash"`
	TypeCount int    `json:"type_count"`
	Target    string `json:"target,omitempty"`  // file written (or left alone) under --out-dir
	Written   bool   `json:"written"`           // false when printed or unchanged
	Unchanged bool   `json:"unchanged"`         // cache says target already has this content
	RunID     string `json:"run_id,omitempty"`  // set when --cache is used
	Content   string `json:"content,omitempty"` // set when not writing to --out-dir
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}
	defaults := prelude.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "generate <definitions>",
		Short: "Generate the boxed-type LLVM prelude",
		Long: `Generate the LLVM IR prelude declaring one struct type per boxed type.

<definitions> is a directory of CUE files, a single .cue file, or a .yaml file.
Without --out-dir the prelude is printed to stdout.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.BaseType, "base-type", defaults.BaseType, "base object type used in entry point signatures")
	cmd.Flags().StringVar(&opts.Generator, "generator", defaults.Generator, "generator name written into the banner")
	cmd.Flags().StringVar(&opts.Path, "path", defaults.Path, "artifact path relative to --out-dir")
	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "write the artifact under this directory")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "SQLite generation history (requires --out-dir)")
	cmd.Flags().BoolVar(&opts.NoValidate, "no-validate", false, "skip definition validation")

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, defsPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Cache != "" && opts.OutDir == "" {
		return formatter.Fail(ErrCodeGeneric, "--cache requires --out-dir", nil)
	}

	loadResult, err := LoadDefinitions(defsPath)
	if err != nil {
		return formatter.FailLoad(err)
	}
	table := loadResult.Table

	formatter.VerboseLog("Loaded %d boxed type(s) from %d %s file(s) in %s",
		table.Len(), loadResult.FileCount, loadResult.Format, defsPath)

	if !opts.NoValidate {
		if errs := compiler.Validate(table); len(errs) > 0 {
			return outputValidationErrors(formatter, errs)
		}
	}

	cfg := prelude.Config{BaseType: opts.BaseType, Generator: opts.Generator, Path: opts.Path}
	artifact, err := prelude.Generate(table, cfg)
	if err != nil {
		code := ErrCodeGeneric
		var unresolved *prelude.UnresolvedComplexTypeError
		if errors.As(err, &unresolved) {
			code = ErrCodeUnresolvedType
		}
		return formatter.Fail(code, err.Error(), nil)
	}

	result := &GenerationResult{
		Path:      artifact.Path,
		Hash:      artifact.Hash(),
		TypeCount: table.Len(),
	}

	if opts.OutDir == "" {
		result.Content = artifact.Content
		return outputGenerateSuccess(formatter, result)
	}

	if err := writeGenerated(ctx, opts, table, artifact, result, formatter); err != nil {
		return err
	}

	return outputGenerateSuccess(formatter, result)
}

// writeGenerated writes the artifact under --out-dir, consulting and updating
// the cache when one is configured.
func writeGenerated(ctx context.Context, opts *GenerateOptions, table *ir.Table, artifact ir.Artifact, result *GenerationResult, formatter *OutputFormatter) error {
	result.Target = filepath.Join(opts.OutDir, filepath.FromSlash(artifact.Path))

	var st *store.Store
	if opts.Cache != "" {
		var err error
		st, err = store.Open(opts.Cache)
		if err != nil {
			return formatter.Fail(ErrCodeCache, err.Error(), nil)
		}
		defer st.Close()

		latest, ok, err := st.LatestArtifact(ctx, artifact.Path)
		if err != nil {
			return formatter.Fail(ErrCodeCache, err.Error(), nil)
		}
		if ok && latest.ContentHash == result.Hash {
			if onDisk, err := fileHash(result.Target); err == nil && onDisk == result.Hash {
				formatter.VerboseLog("Cache hit for %s (run %s)", artifact.Path, latest.RunID)
				result.Unchanged = true
			} else {
				formatter.VerboseLog("Cache hit for %s but %s differs on disk; rewriting", artifact.Path, result.Target)
			}
		}
	}

	if !result.Unchanged {
		if err := writeArtifactFile(result.Target, artifact.Content); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		result.Written = true
		formatter.VerboseLog("Wrote %d byte(s) to %s", len(artifact.Content), result.Target)
	}

	if st == nil {
		return nil
	}

	runID, err := recordRun(ctx, st, opts.idGenerator(), table, artifact, result.Written)
	if err != nil {
		return formatter.Fail(ErrCodeCache, err.Error(), nil)
	}
	result.RunID = runID
	return nil
}

// recordRun stores the run and its artifact, returning the run ID.
func recordRun(ctx context.Context, st *store.Store, ids store.RunIDGenerator, table *ir.Table, artifact ir.Artifact, written bool) (string, error) {
	tableHash, err := ir.TableHash(table)
	if err != nil {
		return "", err
	}

	run, err := st.WriteRun(ctx, store.Run{
		ID:               ids.Generate(),
		TableHash:        tableHash,
		TypeCount:        table.Len(),
		GeneratorVersion: ir.GeneratorVersion,
		FormatVersion:    ir.PreludeFormatVersion,
	})
	if err != nil {
		return "", err
	}

	err = st.WriteArtifact(ctx, store.ArtifactRecord{
		RunID:       run.ID,
		Path:        artifact.Path,
		ContentHash: artifact.Hash(),
		Size:        len(artifact.Content),
		Written:     written,
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (o *GenerateOptions) idGenerator() store.RunIDGenerator {
	if o.IDs != nil {
		return o.IDs
	}
	return store.UUIDv7Generator{}
}

// writeArtifactFile writes content, creating parent directories.
func writeArtifactFile(target, content string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// fileHash hashes a file the way ir.Artifact.Hash hashes generated content.
func fileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ir.ContentHash(string(data)), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// outputGenerateSuccess outputs a successful generation.
func outputGenerateSuccess(formatter *OutputFormatter, result *GenerationResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	// Printed prelude goes to stdout verbatim so it can be redirected.
	if result.Target == "" {
		fmt.Fprint(formatter.Writer, result.Content)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Generated %d boxed type(s)\n", result.TypeCount)
	if result.Unchanged {
		fmt.Fprintf(formatter.Writer, "Unchanged %s\n", result.Target)
	} else {
		fmt.Fprintf(formatter.Writer, "Wrote %s\n", result.Target)
	}
	fmt.Fprintf(formatter.Writer, "Hash: %s\n", result.Hash)
	if result.RunID != "" {
		fmt.Fprintf(formatter.Writer, "Run: %s\n", result.RunID)
	}
	return nil
}
