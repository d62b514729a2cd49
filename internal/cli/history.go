package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/typegen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Cache string
	Path  string
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Runs      []store.Run            `json:"runs,omitempty"`
	Artifacts []store.ArtifactRecord `json:"artifacts,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Long: `List generation runs recorded in a cache database.

With --path, list the artifacts recorded for that artifact path instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "SQLite generation history (required)")
	cmd.Flags().StringVar(&opts.Path, "path", "", "list artifacts recorded for this path")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if !fileExists(opts.Cache) {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("cache not found: %s", opts.Cache), nil)
	}

	st, err := store.Open(opts.Cache)
	if err != nil {
		return formatter.Fail(ErrCodeCache, err.Error(), nil)
	}
	defer st.Close()

	var result HistoryResult
	if opts.Path != "" {
		result.Artifacts, err = st.ListArtifacts(ctx, opts.Path)
	} else {
		result.Runs, err = st.ListRuns(ctx)
	}
	if err != nil {
		return formatter.Fail(ErrCodeCache, err.Error(), nil)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	if opts.Path != "" {
		if len(result.Artifacts) == 0 {
			fmt.Fprintf(formatter.Writer, "No artifacts recorded for %s\n", opts.Path)
			return nil
		}
		fmt.Fprintln(tw, "SEQ\tRUN\tHASH\tSIZE\tWRITTEN")
		for _, a := range result.Artifacts {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%t\n", a.RunSeq, a.RunID, shortHash(a.ContentHash), a.Size, a.Written)
		}
		return tw.Flush()
	}

	if len(result.Runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No generation runs recorded")
		return nil
	}
	fmt.Fprintln(tw, "SEQ\tRUN\tTYPES\tTABLE HASH\tVERSION")
	for _, r := range result.Runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", r.Seq, r.ID, r.TypeCount, shortHash(r.TableHash), r.GeneratorVersion)
	}
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
