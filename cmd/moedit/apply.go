package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/moedit/internal/presentation/tui"
	"github.com/aretw0/moedit/pkg/plan"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply PLAN",
	Short: "Apply a YAML edit plan",
	Long: `Reads the steps in PLAN and applies them in order to the plan's input document,
writing the result to its output (or back to the input). Nothing is written
when a step fails. --file and --out override the plan's input and output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		if id, _ := cmd.Flags().GetString("file"); id != "" {
			p.Input = id
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			p.Output = out
		}
		return runPlan(cmd, p)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringP("out", "o", "", "Destination document (default: the plan's output)")
}

// runPlan applies p and prints the report.
func runPlan(cmd *cobra.Command, p *plan.Plan) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.close() }()

	quiet, _ := cmd.Flags().GetBool("quiet")

	res, err := e.editor.Apply(cmd.Context(), p)
	if res != nil && res.Report != nil && !quiet {
		fmt.Fprint(cmd.OutOrStdout(), tui.Render(os.Stdout, tui.ReportMarkdown(p.Destination(), res.Report)))
	}
	if err != nil {
		var stepErr *plan.StepError
		if errors.As(err, &stepErr) && !quiet {
			tui.Status(cmd.ErrOrStderr(), false, "nothing written to %s", p.Destination())
		}
		return err
	}

	if !quiet {
		tui.Status(cmd.OutOrStdout(), true, "wrote %s", res.Document.ID)
	}
	return nil
}
