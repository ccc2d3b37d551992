package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the trinitylake release version, set at build time via -ldflags.
var Version = "unreleased"

func init() {
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print the version of trinitylake",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, "Version: "+Version)
			fmt.Fprintln(os.Stdout, "Go Version: "+runtime.Version())
		},
	}
	RootCommand.AddCommand(versionCommand)
}
