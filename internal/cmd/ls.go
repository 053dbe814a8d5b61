package cmd

import (
	"fmt"

	"github.com/absfs/txfs"
	"github.com/spf13/cobra"
)

func newLsCmd(a *app) *cobra.Command {
	var filters []string
	cmd := &cobra.Command{
		Use:   "ls <dir> [subdir]",
		Short: "List the subdirectories and files of a directory.",
		Long: `List the subdirectories and files of a directory.

Subdirectories are printed first with a trailing slash. Use --filter to only
print files whose name matches one of the given wildcard patterns.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tfs, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer tfs.Close()

			ref := txfs.NewRef(tfs)
			if len(args) == 2 {
				ref = ref.Sub(args[1])
			}
			dirs, err := ref.ListSubdirectories("")
			if err != nil {
				return err
			}
			files, err := ref.ListFiles("", filters...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range dirs {
				fmt.Fprintf(out, "%s/\n", d)
			}
			for _, f := range files {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&filters, "filter", nil, "Only list files matching this wildcard pattern (may be repeated).")
	return cmd
}
