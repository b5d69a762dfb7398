package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arodd/go-commoncode/internal/paths"
	"github.com/arodd/go-commoncode/internal/text"
)

// noneMarker is printed when two paths share no segment.
const noneMarker = "<none>"

type nameFlags struct {
	posixOnly      bool
	preserveSpaces bool
}

func (f *nameFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.posixOnly, "posix-only", false, "Keep characters that are only illegal on Windows")
	cmd.Flags().BoolVar(&f.preserveSpaces, "preserve-spaces", false, "Keep spaces instead of replacing them with _")
}

// options merges the flags with the configured defaults.
func (f *nameFlags) options(a *app) []paths.Option {
	var opts []paths.Option
	if f.posixOnly || a.cfg.PosixOnly {
		opts = append(opts, paths.PosixOnly())
	}
	if f.preserveSpaces || a.cfg.PreserveSpaces {
		opts = append(opts, paths.PreserveSpaces())
	}
	return opts
}

func (a *app) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH...",
		Short: "Resolve paths to relative POSIX paths without dot segments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				fmt.Fprintln(a.stdout, paths.Resolve(arg))
			}
			return nil
		},
	}
}

func (a *app) safePathCommand() *cobra.Command {
	var flags nameFlags
	cmd := &cobra.Command{
		Use:   "safe-path PATH...",
		Short: "Resolve paths and make every segment a portable file name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(a)
			for _, arg := range args {
				safe := paths.SafePath(arg, opts...)
				if safe != arg {
					a.logger.Verbosef("%q -> %q", arg, safe)
				}
				fmt.Fprintln(a.stdout, safe)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) portableNameCommand() *cobra.Command {
	var flags nameFlags
	cmd := &cobra.Command{
		Use:   "portable-name NAME...",
		Short: "Make names safe to use as a single file name on POSIX and Windows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(a)
			for _, arg := range args {
				fmt.Fprintln(a.stdout, paths.PortableFilename(arg, opts...))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) commonCommand(use, short string, common func(string, string) (string, int)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PATH1 PATH2",
		Short: short,
		Long: short + `. The segment count is printed after a tab. When the
paths share no segment, ` + noneMarker + ` and 0 are printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, n := common(args[0], args[1])
			if n == 0 {
				segments = noneMarker
			}
			fmt.Fprintf(a.stdout, "%s\t%d\n", segments, n)
			return nil
		},
	}
}

type asciiFlags struct {
	translit bool
	safeName bool
	oneLine  bool
}

func (a *app) asciiCommand() *cobra.Command {
	var flags asciiFlags
	cmd := &cobra.Command{
		Use:   "ascii TEXT...",
		Short: "Fold text to ASCII, dropping or transliterating other characters",
		Long: `Fold each TEXT argument to ASCII. An argument of "-" reads standard
input, with any line ending convention converted to \n.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if arg == "-" {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return err
					}
					arg = strings.TrimSuffix(text.UnixLineSep(string(data), false), "\n")
				}
				fmt.Fprintln(a.stdout, flags.apply(arg))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.translit, "translit", false, "Transliterate characters without an ASCII decomposition")
	cmd.Flags().BoolVar(&flags.safeName, "safe-name", false, "Print a lowercase identifier made of letters, digits and _")
	cmd.Flags().BoolVar(&flags.oneLine, "one-line", false, "Replace line separators with spaces")
	return cmd
}

func (f asciiFlags) apply(s string) string {
	if f.safeName {
		return text.SafeName(s)
	}
	s = text.ToASCII(s, f.translit)
	if f.oneLine {
		s = text.NoLineSep(s)
	}
	return s
}
