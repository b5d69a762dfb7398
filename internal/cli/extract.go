package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arodd/go-commoncode/internal/archive"
)

type extractFlags struct {
	output        string
	jobs          int
	allowSymlinks bool
	maxDictBytes  int64
	password      string
	passwordFile  string
	posixOnly     bool
	flatten       bool
	verbatim      bool
	depth         int
	failFast      bool
}

func (a *app) extractCommand() *cobra.Command {
	var flags extractFlags
	cmd := &cobra.Command{
		Use:   "extract ARCHIVE|DIR...",
		Short: "Extract archives with every member name made portable",
		Long: `Extract writes each archive into OUTPUT/<name>, where name is the
archive file name without its archive suffix. Directories are scanned for
RAR, ZIP and TAR archives. Member names are resolved and sanitized, so
"../" and absolute paths stay inside the destination.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "Destination root (default from config, else .)")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "Archives extracted at once (default from config, else 1)")
	f.BoolVar(&flags.allowSymlinks, "allow-symlinks", false, "Write symlinks whose target stays inside the destination")
	f.Int64Var(&flags.maxDictBytes, "max-dict", 0, "Maximum RAR dictionary size in bytes (default from config)")
	f.StringVar(&flags.password, "password", "", "Password for encrypted RAR archives")
	f.StringVar(&flags.passwordFile, "password-file", "", "Try each line of FILE as a password")
	f.BoolVar(&flags.posixOnly, "posix-only", false, "Keep member name characters that are only illegal on Windows")
	f.BoolVar(&flags.flatten, "flatten", false, "Write every file at the destination root")
	f.BoolVar(&flags.verbatim, "verbatim", false, "Apply member permission bits as stored")
	f.IntVar(&flags.depth, "depth", -1, "Maximum directory depth when scanning directories (-1 for unbounded)")
	f.BoolVar(&flags.failFast, "fail-fast", false, "Stop after the first failed archive")
	return cmd
}

func (a *app) batchOptions(cmd *cobra.Command, flags extractFlags) (archive.BatchOptions, error) {
	cfg := a.cfg.Extract
	opts := archive.BatchOptions{
		Options: archive.Options{
			PosixOnly:     flags.posixOnly || a.cfg.PosixOnly,
			Flatten:       flags.flatten,
			AllowSymlinks: flags.allowSymlinks || cfg.AllowSymlinks,
			Verbatim:      flags.verbatim,
			MaxDictBytes:  cfg.MaxDictBytes,
			Password:      flags.password,
		},
		Jobs:     cfg.Jobs,
		FailFast: flags.failFast,
	}
	if cmd.Flags().Changed("max-dict") {
		opts.MaxDictBytes = flags.maxDictBytes
	}
	if cmd.Flags().Changed("jobs") {
		opts.Jobs = flags.jobs
	}

	passwordFile := cfg.PasswordFile
	if flags.passwordFile != "" {
		passwordFile = flags.passwordFile
	}
	if passwordFile != "" {
		passwords, err := archive.LoadPasswords(passwordFile)
		if err != nil {
			return opts, fmt.Errorf("loading passwords: %w", err)
		}
		opts.Passwords = passwords
	}
	return opts, nil
}

// collectArchives expands directory arguments into the archives found below
// them.
func (a *app) collectArchives(args []string, depth int) ([]string, error) {
	var archives []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			archives = append(archives, arg)
			continue
		}

		candidates, err := archive.Scan(arg, depth)
		if err != nil {
			return nil, fmt.Errorf("scanning %q: %w", arg, err)
		}
		a.logger.Verbosef("Found %d archive(s) in %s", len(candidates), arg)
		for _, c := range candidates {
			archives = append(archives, c.Path)
		}
	}
	return archives, nil
}

func (a *app) runExtract(cmd *cobra.Command, args []string, flags extractFlags) error {
	opts, err := a.batchOptions(cmd, flags)
	if err != nil {
		return err
	}
	archives, err := a.collectArchives(args, flags.depth)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		a.logger.Infof("No archives found")
		return nil
	}

	output := a.cfg.Extract.Output
	if flags.output != "" {
		output = flags.output
	}

	results, err := archive.ExtractAll(cmd.Context(), archives, output, opts)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			a.logger.Errorf("Failed %s: %v", r.Archive, r.Err)
			var required *archive.PasswordRequiredError
			if errors.As(r.Err, &required) {
				a.logger.Errorf("Hint: pass --password or --password-file")
			}
			continue
		}
		a.reportExtracted(r)
	}
	if err != nil {
		return fmt.Errorf("%d of %d archive(s) failed", failed, len(results))
	}
	return nil
}

func (a *app) reportExtracted(r archive.BatchResult) {
	res := r.Result
	a.logger.Infof("Extracted %s -> %s (%s files, %d renamed, %d skipped)",
		r.Archive, r.Dest, humanize.Comma(int64(len(res.Files))), len(res.Renamed), len(res.Skipped))

	raw := make([]string, 0, len(res.Renamed))
	for name := range res.Renamed {
		raw = append(raw, name)
	}
	sort.Strings(raw)
	for _, name := range raw {
		a.logger.Verbosef("  renamed %q -> %q", name, res.Renamed[name])
	}
	for _, s := range res.Skipped {
		a.logger.Verbosef("  skipped %q: %s", s.Name, s.Reason)
	}
	if len(res.Volumes) > 1 {
		a.logger.Verbosef("  volumes: %d", len(res.Volumes))
	}
}

func (a *app) listCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "list ARCHIVE",
		Short: "List archive members as stored, with the name they would be extracted as",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := archive.List(args[0], archive.Options{Password: password})
			if err != nil {
				return err
			}
			for _, e := range entries {
				size := humanize.IBytes(uint64(e.Size))
				if e.IsDir {
					size = "-"
				}
				fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", size, e.Name, archive.MemberPath(e.Name, a.cfg.PosixOnly))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password for encrypted RAR archives")
	return cmd
}
