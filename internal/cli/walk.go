package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arodd/go-commoncode/internal/fileset"
	"github.com/arodd/go-commoncode/internal/filetype"
	"github.com/arodd/go-commoncode/internal/fsutil"
	"github.com/arodd/go-commoncode/internal/paths"
)

type walkFlags struct {
	includes     []string
	excludes     []string
	patternsFile string
}

func (a *app) walkCommand() *cobra.Command {
	var flags walkFlags
	cmd := &cobra.Command{
		Use:   "walk DIR",
		Short: "List the files of a tree with their type, size and resolved path",
		Long: `Walk lists every regular file below DIR, top-down, as
"<type>\t<size>\t<path>" where path is relative to DIR and resolved to POSIX.
Patterns use .gitignore syntax; a leading "!" marks an exclusion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWalk(args[0], flags)
		},
	}
	cmd.Flags().StringArrayVar(&flags.includes, "include", nil, "Only list paths matching this pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil, "Skip paths matching this pattern (can be repeated)")
	cmd.Flags().StringVar(&flags.patternsFile, "patterns", "", "Read include and !exclude patterns from FILE")
	return cmd
}

func (a *app) walkMatcher(flags walkFlags) (*fileset.Matcher, error) {
	patterns := append([]string{}, a.cfg.Walk.Patterns...)
	if flags.patternsFile != "" {
		loaded, err := fileset.Load(flags.patternsFile)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, loaded...)
	}
	patterns = append(patterns, flags.includes...)
	for _, exclude := range flags.excludes {
		patterns = append(patterns, "!"+exclude)
	}
	return fileset.FromPatterns(patterns, "excluded"), nil
}

func (a *app) runWalk(root string, flags walkFlags) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", root)
	}

	matcher, err := a.walkMatcher(flags)
	if err != nil {
		return err
	}

	relative := func(location string) string {
		rel, err := filepath.Rel(root, location)
		if err != nil {
			return paths.Resolve(location)
		}
		return paths.Resolve(fsutil.AsPosixPath(rel))
	}
	ignored := func(location string) bool {
		if location == root {
			return false
		}
		if pattern, ok := matcher.Excluded(relative(location)); ok {
			a.logger.Verbosef("Skipping %s (%s)", location, pattern)
			return true
		}
		return false
	}

	var count, total int64
	err = fsutil.Walk(root, ignored, func(dir string, _, files []string) error {
		for _, name := range files {
			location := filepath.Join(dir, name)
			rel := relative(location)
			if !matcher.IsIncluded(rel) {
				continue
			}
			size, err := filetype.Size(location)
			if err != nil {
				return err
			}
			count++
			total += size
			fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", filetype.Type(location, true), humanize.IBytes(uint64(size)), rel)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.logger.Infof("%s files, %s", humanize.Comma(count), humanize.IBytes(uint64(total)))
	return nil
}
