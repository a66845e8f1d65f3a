package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/query"
	"github.com/tracekit/tracekit/internal/value"
)

type queryFlags struct {
	kind       string
	class      string
	object     string
	paramsYAML string
}

func newQueryCmd(app *AppContext) *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "run the side-effect-free component-class query protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "query")

			kind, err := component.ParseKind(flags.kind)
			if err != nil {
				return err
			}
			cc, err := app.Registry.Get(kind, flags.class)
			if err != nil {
				return err
			}

			params := value.Map()
			if flags.paramsYAML != "" {
				var decoded map[string]interface{}
				if err := yaml.Unmarshal([]byte(flags.paramsYAML), &decoded); err != nil {
					return fmt.Errorf("parse --params: %w", err)
				}
				params = value.FromNative(decoded)
			}

			result, code := query.Execute(ctx, cc, flags.object, params)
			if code.IsError() {
				return fmt.Errorf("query %q.%s failed: %s", flags.class, flags.object, code.String())
			}

			encoded, err := yaml.Marshal(value.ToNative(result))
			if err != nil {
				return fmt.Errorf("encode query result: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.kind, "kind", "", "component kind: source, filter, or sink")
	cmd.Flags().StringVar(&flags.class, "class", "", "registered component class name")
	cmd.Flags().StringVar(&flags.object, "object", "", "query object name")
	cmd.Flags().StringVar(&flags.paramsYAML, "params", "", "query parameters, as a YAML mapping")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("object")

	return cmd
}
