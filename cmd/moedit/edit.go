package main

import (
	"github.com/aretw0/moedit/pkg/plan"
	"github.com/spf13/cobra"
)

// stepCommand builds a command that applies a single plan step to --file.
func stepCommand(use, short string, args cobra.PositionalArgs, build func(cmd *cobra.Command, args []string) map[string]any) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := document(cmd)
			if err != nil {
				return err
			}
			step, err := plan.DecodeStep(build(cmd, args))
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			return runPlan(cmd, &plan.Plan{Input: id, Output: out, Steps: []plan.Operation{step}})
		},
	}
	cmd.Flags().StringP("out", "o", "", "Destination document (default: --file)")
	return cmd
}

func flag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// optionalTarget adds a target only when one was given.
func optionalTarget(step map[string]any, args []string) map[string]any {
	if len(args) > 0 {
		step["target"] = args[0]
	}
	return step
}

func init() {
	addComponent := stepCommand("add-component TARGET", "Declare a component in a model", cobra.ExactArgs(1),
		func(cmd *cobra.Command, args []string) map[string]any {
			return map[string]any{
				"op":     plan.OpAddComponent,
				"target": args[0],
				"type":   flag(cmd, "type"),
				"name":   flag(cmd, "name"),
				"args":   flag(cmd, "args"),
			}
		})
	addComponent.Flags().String("type", "", "Component type, e.g. Modelica.Blocks.Interfaces.RealInput")
	addComponent.Flags().String("name", "", "Component name")
	addComponent.Flags().String("args", "", "Modifier arguments, e.g. C=1000")
	_ = addComponent.MarkFlagRequired("type")
	_ = addComponent.MarkFlagRequired("name")

	addParameter := stepCommand("add-parameter TARGET", "Declare a parameter in a model", cobra.ExactArgs(1),
		func(cmd *cobra.Command, args []string) map[string]any {
			return map[string]any{
				"op":         plan.OpAddParameter,
				"target":     args[0],
				"type":       flag(cmd, "type"),
				"name":       flag(cmd, "name"),
				"value":      flag(cmd, "value"),
				"annotation": flag(cmd, "annotation"),
			}
		})
	addParameter.Flags().String("type", "", "Parameter type, e.g. Modelica.SIunits.Area")
	addParameter.Flags().String("name", "", "Parameter name")
	addParameter.Flags().String("value", "", "Parameter value expression")
	addParameter.Flags().String("annotation", "", "Description string")
	_ = addParameter.MarkFlagRequired("type")
	_ = addParameter.MarkFlagRequired("name")
	_ = addParameter.MarkFlagRequired("value")

	setParameter := stepCommand("set-parameter [TARGET]", "Change a parameter's value (whole document when TARGET is omitted)", cobra.MaximumNArgs(1),
		func(cmd *cobra.Command, args []string) map[string]any {
			return optionalTarget(map[string]any{
				"op":    plan.OpSetParameter,
				"name":  flag(cmd, "name"),
				"value": flag(cmd, "value"),
			}, args)
		})
	setParameter.Flags().String("name", "", "Parameter name")
	setParameter.Flags().String("value", "", "New value expression")
	_ = setParameter.MarkFlagRequired("name")
	_ = setParameter.MarkFlagRequired("value")

	editConnection := stepCommand("edit-connection [TARGET]", "Rewire a connect statement (whole document when TARGET is omitted)", cobra.MaximumNArgs(1),
		func(cmd *cobra.Command, args []string) map[string]any {
			from, _ := cmd.Flags().GetStringSlice("from")
			to, _ := cmd.Flags().GetStringSlice("to")
			return optionalTarget(map[string]any{
				"op":   plan.OpEditConnection,
				"from": from,
				"to":   to,
			}, args)
		})
	editConnection.Flags().StringSlice("from", nil, "Current endpoints: A,B")
	editConnection.Flags().StringSlice("to", nil, "New endpoints: A,B")
	_ = editConnection.MarkFlagRequired("from")
	_ = editConnection.MarkFlagRequired("to")

	addConnection := stepCommand("add-connection TARGET A B", "Add connect(A, B) to a model's equation section", cobra.ExactArgs(3),
		func(cmd *cobra.Command, args []string) map[string]any {
			return map[string]any{
				"op":      plan.OpAddConnection,
				"target":  args[0],
				"connect": []string{args[1], args[2]},
			}
		})

	clone := stepCommand("clone TARGET NEW_NAME", "Copy a model under a new name, right after the original", cobra.ExactArgs(2),
		func(cmd *cobra.Command, args []string) map[string]any {
			return map[string]any{
				"op":     plan.OpClone,
				"target": args[0],
				"name":   args[1],
			}
		})

	extend := stepCommand("extend TARGET BASE", "Add an extends clause to a model", cobra.ExactArgs(2),
		func(cmd *cobra.Command, args []string) map[string]any {
			step := map[string]any{
				"op":     plan.OpExtend,
				"target": args[0],
				"base":   args[1],
			}
			if owner := flag(cmd, "owner"); owner != "" {
				step["owner"] = owner
			}
			return step
		})
	extend.Flags().String("owner", "", "Model in TARGET's package whose header receives the clause (default: TARGET's model)")

	rootCmd.AddCommand(addComponent, addParameter, setParameter, editConnection, addConnection, clone, extend)
}
