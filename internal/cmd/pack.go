package cmd

import (
	"github.com/absfs/txfs"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPackCmd(a *app) *cobra.Command {
	var store bool
	cmd := &cobra.Command{
		Use:   "pack <dir> <archive>",
		Short: "Write all files of a directory into a zip archive.",
		Long: `Write all files of a directory into a zip archive.

Hidden directories are not included. An existing archive is overwritten.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := zip.Deflate
			if store {
				method = zip.Store
			}
			tfs, err := a.open(args[0], txfs.WithArchiveCompression(method))
			if err != nil {
				return err
			}
			defer tfs.Close()

			if err := tfs.SaveToZip(args[1]); err != nil {
				return err
			}
			a.log.Info("packed directory", zap.String("dir", tfs.OriginPath()), zap.String("archive", args[1]), zap.Int("files", len(tfs.Paths())))
			return nil
		},
	}
	cmd.Flags().BoolVar(&store, "store", false, "Store files without compression.")
	return cmd
}
