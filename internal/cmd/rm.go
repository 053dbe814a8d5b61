package cmd

import (
	"fmt"

	"github.com/absfs/txfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRmCmd(a *app) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm <dir> <path>...",
		Short: "Remove files from a directory.",
		Long: `Remove files from a directory.

All paths are removed from the overlay first and written back together.
Directories left empty are deleted as well. Nothing is changed on disk if
any of the paths does not exist.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tfs, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer tfs.Close()

			ref := txfs.NewRef(tfs)
			for _, p := range args[1:] {
				if recursive {
					if err := ref.RemoveDirectoryRecursively(p); err != nil {
						return err
					}
					continue
				}
				if !ref.Exists(p) {
					return fmt.Errorf("%w: %s", txfs.ErrNotFound, ref.PrettyPath(p))
				}
				if err := ref.Remove(p); err != nil {
					return err
				}
			}

			// listing the remaining files sorts the whole overlay
			if a.log.Level() == zapcore.DebugLevel {
				a.log.Debug("removed paths from overlay", zap.Strings("paths", args[1:]), zap.Strings("remaining", tfs.Paths()))
			}
			if !tfs.IsDirty() {
				a.log.Info("nothing to remove", zap.String("dir", tfs.OriginPath()))
				return nil
			}
			return tfs.SaveToDirectory(tfs.OriginPath())
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Remove directories and their content.")
	return cmd
}
