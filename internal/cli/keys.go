package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/summarycmp/internal/source"
	"github.com/roach88/summarycmp/internal/summary"
)

// KeysOptions holds flags for the keys command.
type KeysOptions struct {
	*RootOptions
	Patterns []string
}

// KeysResult lists the keywords of a dataset.
type KeysResult struct {
	Case     string   `json:"case"`
	Keywords []string `json:"keywords"`
	Steps    int      `json:"steps"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeysOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keys <dataset>",
		Short: "List the keywords of a dataset",
		Long: `List a dataset's keywords in comparison order and its report-step count.

Example:
  summarycmp keys base.db
  summarycmp keys base.db --pattern 'WBHP:*' --pattern FOPR`,
		Args:          commandArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Patterns, "pattern", nil, "only list keywords matching these globs")

	return cmd
}

func runKeys(opts *KeysOptions, datasetPath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	for _, p := range opts.Patterns {
		if err := summary.ValidatePattern(p); err != nil {
			return f.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid pattern %q", p), err)
		}
	}

	ds, err := source.Open(cmd.Context(), datasetPath)
	if err != nil {
		return f.compareFailure(err)
	}

	result := KeysResult{
		Case:     ds.Case,
		Keywords: summary.FilterKeywords(ds.Keywords(), opts.Patterns),
		Steps:    len(ds.Times),
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}

	if opts.Format == "json" {
		return f.Success(result)
	}

	for _, kw := range result.Keywords {
		fmt.Fprintln(f.Writer, kw)
	}
	fmt.Fprintf(f.Writer, "%s: %d keyword(s), %d report step(s)\n", result.Case, len(result.Keywords), result.Steps)
	return nil
}
