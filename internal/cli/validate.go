package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/typegen/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationResult contains the result of validation.
type ValidationResult struct {
	Valid     bool                       `json:"valid"`
	TypeCount int                        `json:"type_count"`
	Format    string                     `json:"format"`
	Errors    []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <definitions>",
		Short: "Validate boxed-type definitions",
		Long: `Load boxed-type definitions and check them for undefined supertypes,
duplicate fields, inheritance cycles, and fields that cannot be resolved.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, defsPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, err := LoadDefinitions(defsPath)
	if err != nil {
		return formatter.FailLoad(err)
	}

	formatter.VerboseLog("Loaded %d boxed type(s) from %d %s file(s)",
		loadResult.Table.Len(), loadResult.FileCount, loadResult.Format)

	if errs := compiler.Validate(loadResult.Table); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	result := ValidationResult{
		Valid:     true,
		TypeCount: loadResult.Table.Len(),
		Format:    loadResult.Format,
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d boxed type(s) valid\n", result.TypeCount)
	return nil
}

// outputValidationErrors reports validation failures (exit code 2).
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.JSON() {
		_ = formatter.Error(errs[0].Code, fmt.Sprintf("%d validation error(s)", len(errs)), ValidationResult{
			Valid:  false,
			Errors: errs,
		})
	} else {
		fmt.Fprintf(formatter.Writer, "✗ Validation failed: %d error(s)\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
		}
	}
	return Exitf(ExitCommandError, "validation failed with %d error(s)", len(errs))
}
