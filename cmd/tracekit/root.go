package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "tracekit",
		Short:         "tracekit assembles and runs trace-processing component graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log a debug line noting verbose mode (the log level stays at info)")

	cmd.AddCommand(newRunCmd(app, flags))
	cmd.AddCommand(newQueryCmd(app))
	cmd.AddCommand(newListPluginsCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
