package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/moedit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of moedit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "moedit version %s\n", strings.TrimSpace(moedit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
