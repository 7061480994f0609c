package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/summarycmp/internal/source"
	"github.com/roach88/summarycmp/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Case string // overrides the dataset's case name
}

// ImportResult describes an imported dataset.
type ImportResult struct {
	Case     string `json:"case"`
	Store    string `json:"store"`
	Keywords int    `json:"keywords"`
	Steps    int    `json:"steps"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <dataset> <store.db>",
		Short: "Write a dataset into a SQLite store",
		Long: `Import a dataset into a SQLite store, replacing the store's contents.

The store is created if it doesn't exist. The source may be a fixture or
another store.

Example:
  summarycmp import base.yaml base.db
  summarycmp import base.yaml base.db --case BASE_V2`,
		Args:          commandArgs(cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Case, "case", "", "case name stored with the dataset")

	return cmd
}

func runImport(opts *ImportOptions, datasetPath, storePath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	kind, err := source.DetectKind(storePath)
	if err != nil || kind != source.KindStore {
		return f.fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("import target must be a SQLite store (.db, .sqlite, .sqlite3): %s", storePath), nil)
	}

	ctx := cmd.Context()
	ds, err := source.Open(ctx, datasetPath)
	if err != nil {
		return f.compareFailure(err)
	}
	if opts.Case != "" {
		ds.Case = opts.Case
	}

	st, err := store.Open(storePath)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "failed to open store", err)
	}
	defer st.Close()

	if err := st.WriteDataset(ctx, ds, datasetPath); err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "failed to write dataset", err)
	}

	result := ImportResult{
		Case:     ds.Case,
		Store:    storePath,
		Keywords: len(ds.Vectors),
		Steps:    len(ds.Times),
	}

	if opts.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ Imported %s into %s: %d keyword(s), %d report step(s)\n",
		result.Case, result.Store, result.Keywords, result.Steps)
	return nil
}
