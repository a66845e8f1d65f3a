package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListPluginsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-plugins",
		Short: "list registered component classes by module",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, mod := range app.Registry.List() {
				fmt.Fprintf(out, "%s  %s\n", mod.Name, mod.Description)
				for _, cc := range mod.Classes {
					fmt.Fprintf(out, "  %-8s %s\n", cc.Kind.String(), cc.Name)
				}
			}
			return nil
		},
	}
	return cmd
}
