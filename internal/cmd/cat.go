package cmd

import (
	"github.com/spf13/cobra"
)

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <dir> <file>",
		Short: "Print the content of a file.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tfs, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer tfs.Close()

			data, err := tfs.ReadBinary(args[1])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
