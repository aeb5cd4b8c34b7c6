package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/moedit"
	"github.com/aretw0/moedit/internal/cli"
	"github.com/aretw0/moedit/internal/config"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moedit",
	Short: "moedit edits Modelica-like model files by dotted path",
	Long: `moedit locates packages and models by dotted path (Example.G.R4C3) and applies
small textual edits: declarations, parameter values, connect statements, clones
and extends clauses. Everything outside the edited block is kept byte for byte.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Describe(err))
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default: ./"+config.FileName+" when present)")
	rootCmd.PersistentFlags().String("dir", "", "Directory the file store reads documents from (overrides store.root)")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Document to operate on, relative to --dir")
	rootCmd.PersistentFlags().String("store", "", "Store kind: file, memory or redis (overrides store.kind)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")
}

// env is what every command needs: the editor, its config and logger.
type env struct {
	editor *moedit.Editor
	cfg    config.Config
	logger *slog.Logger
	close  func() error
}

func setup(cmd *cobra.Command, hooks ...domain.Hooks) (*env, error) {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.Dir, _ = flags.GetString("dir")
	opts.Store, _ = flags.GetString("store")
	opts.Debug, _ = flags.GetBool("debug")

	cfg, err := cli.LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := cli.CreateLogger(cfg.LogLevel)
	ed, closeFn, err := cli.NewEditor(cfg, logger, hooks...)
	if err != nil {
		return nil, err
	}
	return &env{editor: ed, cfg: cfg, logger: logger, close: closeFn}, nil
}

// document returns the --file flag.
func document(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("file")
	if id == "" {
		return "", fmt.Errorf("no document given (use --file)")
	}
	return id, nil
}
