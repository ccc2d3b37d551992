// Package config binds command-line flags to environment variables for
// the trinitylake CLI. The engine packages (storage, codec, keyencoder,
// tree, catalog) never import this package — configuration is a cmd/
// concern only.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the top-level environment variable prefix every
// trinitylake flag can also be set through. A command's flags are
// further prefixed with that command's own name (not its parent's),
// e.g. --badger-dir on `namespace create` is read from
// TRINITYLAKE_CREATE_BADGER_DIR; only a command named trinitylake
// uses the bare TRINITYLAKE_ prefix.
const EnvPrefix = "trinitylake"

// BindEnv overrides any flag on command that was not explicitly set on
// the command line with the value of its corresponding environment
// variable, if one is set. It is meant to run from a command's
// PreRunE.
func BindEnv(command *cobra.Command) error {
	v := viper.New()
	v.AutomaticEnv()
	if command.Name() == EnvPrefix {
		v.SetEnvPrefix(command.Name())
	} else {
		v.SetEnvPrefix(fmt.Sprintf("%s_%s", EnvPrefix, command.Name()))
	}

	var errs []string
	command.Flags().VisitAll(func(f *pflag.Flag) {
		name := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed && v.IsSet(name) {
			if err := command.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(name))); err != nil {
				errs = append(errs, err.Error())
			}
		}
	})
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("error mapping environment variables to command flags: %s", strings.Join(errs, "; "))
}
