package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/moedit/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve PATH",
	Short: "Print the block a dotted path points to",
	Long: `Resolves PATH (packages separated by dots, ending with a model name) in the
document given by --file and prints the block text. --trace shows every
resolution step, --json prints the span with its byte offset.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := document(cmd)
		if err != nil {
			return err
		}
		showTrace, _ := cmd.Flags().GetBool("trace")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = e.close() }()

		span, trace, err := e.editor.Trace(cmd.Context(), id, args[0])
		if showTrace {
			fmt.Fprint(cmd.ErrOrStderr(), tui.Render(os.Stderr, tui.TraceMarkdown(args[0], trace)))
		}
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(span)
		}
		fmt.Fprintln(cmd.OutOrStdout(), span.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("trace", false, "Print the resolution steps to stderr")
	resolveCmd.Flags().Bool("json", false, "Print the span as JSON")
}
