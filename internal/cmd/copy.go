package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCopyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <dir> <target>",
		Short: "Copy all files of a directory into another directory.",
		Long: `Copy all files of a directory into another directory.

Hidden directories are not copied. The target is created if needed and
existing files in it are overwritten.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tfs, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer tfs.Close()

			if err := tfs.SaveToDirectory(args[1]); err != nil {
				return err
			}
			a.log.Info("copied directory", zap.String("dir", tfs.OriginPath()), zap.String("target", args[1]))
			return nil
		},
	}
}
