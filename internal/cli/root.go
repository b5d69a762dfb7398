// Package cli contains the Cobra command tree for commoncode.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arodd/go-commoncode/internal/config"
	"github.com/arodd/go-commoncode/internal/log"
	"github.com/arodd/go-commoncode/internal/paths"
)

// app holds the state shared by every command of one invocation.
type app struct {
	version string
	stdout  io.Writer
	stderr  io.Writer

	flagQuiet   bool
	flagVerbose bool
	flagConfig  string
	flagLogFile string

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand builds the command tree. Command results are written to
// stdout; progress and errors go through the logger.
func NewRootCommand(version string, stdout, stderr io.Writer) *cobra.Command {
	a := &app{version: version, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "commoncode",
		Short: "Portable path normalization and safe archive extraction",
		Long: `commoncode turns arbitrary path strings into relative, portable POSIX
paths, finds common path prefixes and suffixes, walks trees and extracts
archives with every member name made safe for POSIX and Windows.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.flagQuiet, "quiet", "q", false, "Suppress all log output")
	flags.BoolVarP(&a.flagVerbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVar(&a.flagConfig, "config", "", "Config file path (default: ~/.config/commoncode/config.yaml)")
	flags.StringVar(&a.flagLogFile, "log-file", "", "Append all output to FILE as well")

	root.AddCommand(
		a.resolveCommand(),
		a.safePathCommand(),
		a.portableNameCommand(),
		a.commonCommand("common-prefix", "Print the longest common leading path segments", paths.CommonPathPrefix),
		a.commonCommand("common-suffix", "Print the longest common trailing path segments", paths.CommonPathSuffix),
		a.asciiCommand(),
		a.walkCommand(),
		a.statCommand(),
		a.extractCommand(),
		a.listCommand(),
		a.versionCommand(),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, version string, stdout, stderr io.Writer) error {
	root := NewRootCommand(version, stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.logger = log.NewWithWriters(a.flagQuiet, a.flagVerbose, a.stdout, a.stderr)
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(a.stdout, "commoncode %s\n", a.version)
			return nil
		},
	}
}
