package main

import (
	"fmt"
	"os"

	"github.com/aretw0/moedit/internal/presentation/graph"
	"github.com/aretw0/moedit/internal/presentation/tui"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Show the package and model tree of a document",
	Long:  `Scans the document given by --file and prints its nested blocks, or a Mermaid diagram (graph TD) with --mermaid.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := document(cmd)
		if err != nil {
			return err
		}
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		highlight, _ := cmd.Flags().GetString("highlight")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = e.close() }()

		blocks, err := e.editor.Outline(cmd.Context(), id)
		if err != nil {
			return err
		}

		if !mermaid {
			fmt.Fprint(cmd.OutOrStdout(), tui.Render(os.Stdout, tui.OutlineMarkdown(blocks)))
			return nil
		}

		var overlay *graph.Overlay
		if highlight != "" {
			p, err := domain.ParsePath(highlight)
			if err != nil {
				return err
			}
			overlay = &graph.Overlay{Path: p}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(blocks, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().Bool("mermaid", false, "Print a Mermaid flowchart instead of a list")
	outlineCmd.Flags().String("highlight", "", "Dotted path to highlight in the Mermaid output")
}
