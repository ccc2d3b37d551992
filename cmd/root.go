// Package cmd wires the trinitylake catalog engine to a cobra CLI:
// one subcommand tree per catalog operation, a storage backend chosen
// by flag, and environment-variable overrides for every flag via
// config.BindEnv.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// RootCommand is the base CLI command that every subcommand in this
// package attaches itself to via init().
var RootCommand = &cobra.Command{
	Use:   "trinitylake",
	Short: "TrinityLake catalog and table format command line interface",
	Long:  "trinitylake manages a lakehouse's namespaces and tables through the transactional tree catalog.",
}

// cmdContext returns the context every subcommand's catalog calls run
// under. The CLI is a one-shot process, so there is no cancellation
// source to plumb through beyond process lifetime.
func cmdContext() context.Context {
	return context.Background()
}
