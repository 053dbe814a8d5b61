// Package config handles the global command line configuration: the global
// flags, their environment variable bindings and the resulting settings.
package config

import (
	"fmt"
	"strings"

	"github.com/absfs/txfs"
	"github.com/absfs/txfs/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	LogLevelKey     = "log-level"
	LogDeveloperKey = "log-developer"
	HiddenPrefixKey = "hidden-prefix"
)

// AppConfig is the configuration shared by all commands.
type AppConfig struct {
	Logging      logger.Config `mapstructure:",squash"`
	HiddenPrefix string        `mapstructure:"hidden-prefix"`
}

// GetLoggingConfig returns the logger part of the configuration
func (c AppConfig) GetLoggingConfig() logger.Config {
	return c.Logging
}

// InitGlobalFlags defines all global flags on cmd and binds them to v
func InitGlobalFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().Int8(LogLevelKey, 1, "Log to stderr at this level (0=Fatal, 1=Error, 2=Warn, 3=Info, 4+5=Debug).")
	cmd.PersistentFlags().Bool(LogDeveloperKey, false, "Enable logging at DebugLevel and above and print stack traces at WarnLevel and above.")
	cmd.PersistentFlags().MarkHidden(LogDeveloperKey)
	cmd.PersistentFlags().String(HiddenPrefixKey, txfs.DefaultHiddenPrefix, "Directories whose name starts with this prefix are not loaded. Set to an empty string to load all directories.")

	// Environment variables should start with TXFS_ and cannot use "-".
	v.SetEnvPrefix("txfs")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		v.BindEnv(flag.Name)
		v.BindPFlag(flag.Name, flag)
	})
}

// Load returns the configuration resolved from flags and the environment
func Load(v *viper.Viper) (AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unable to parse configuration: %w", err)
	}
	return cfg, nil
}
