// Package cmd implements the txfs command line tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/absfs/txfs"
	"github.com/absfs/txfs/internal/config"
	"github.com/absfs/txfs/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BinaryName is the name of the command line tool
const BinaryName = "txfs"

// app is the state shared by all commands of one invocation
type app struct {
	v   *viper.Viper
	cfg config.AppConfig
	log *logger.Logger
}

// Execute runs the tool and returns the process exit code
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd returns the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   BinaryName,
		Short: "Inspect, edit and export document trees through a transactional overlay.",
		Long: `Inspect, edit and export document trees through a transactional overlay.

Every command loads the given directory into an in-memory overlay. Changes are
only written back when the command finishes successfully.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			l, err := logger.New(cfg.GetLoggingConfig())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = l
			zap.ReplaceGlobals(l.Logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	config.InitGlobalFlags(cmd, a.v)

	cmd.AddCommand(newLsCmd(a))
	cmd.AddCommand(newCatCmd(a))
	cmd.AddCommand(newPackCmd(a))
	cmd.AddCommand(newCopyCmd(a))
	cmd.AddCommand(newRmCmd(a))
	return cmd
}

// open loads dir into a new overlay. The caller must close it.
func (a *app) open(dir string, opts ...txfs.Option) (*txfs.TransactionalFileSystem, error) {
	opts = append([]txfs.Option{
		txfs.WithLogger(a.log.Logger),
		txfs.WithHiddenPrefix(a.cfg.HiddenPrefix),
	}, opts...)
	tfs, err := txfs.NewTransactionalFileSystem(opts...)
	if err != nil {
		return nil, err
	}
	if err := tfs.LoadFromDirectory(dir); err != nil {
		tfs.Close()
		return nil, err
	}
	return tfs, nil
}
