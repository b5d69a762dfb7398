package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arodd/go-commoncode/internal/filetype"
	"github.com/arodd/go-commoncode/internal/fsutil"
)

func (a *app) statCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stat PATH...",
		Short: "Print the type, size, file count and name parts of locations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, location := range args {
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				if err := a.stat(location); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) stat(location string) error {
	kind := filetype.Type(location, false)
	if kind == "" {
		return fmt.Errorf("%s: no such file or directory", location)
	}

	base, ext := fsutil.Splitext(location)
	fmt.Fprintf(a.stdout, "name: %s\n", fsutil.ResourceName(location))
	fmt.Fprintf(a.stdout, "base: %s\n", base)
	fmt.Fprintf(a.stdout, "extension: %s\n", ext)
	fmt.Fprintf(a.stdout, "parent: %s\n", fsutil.ParentDirectory(location))
	fmt.Fprintf(a.stdout, "type: %s\n", kind)
	if target, ok := filetype.LinkTarget(location); ok {
		fmt.Fprintf(a.stdout, "target: %s\n", target)
	}
	if filetype.IsSpecial(location) {
		return nil
	}

	files, err := filetype.FileCount(location)
	if err != nil {
		return err
	}
	size, err := filetype.Size(location)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "files: %s\n", humanize.Comma(files))
	fmt.Fprintf(a.stdout, "size: %s (%s bytes)\n", humanize.IBytes(uint64(size)), humanize.Comma(size))
	if date := filetype.LastModifiedDate(location); date != "" {
		fmt.Fprintf(a.stdout, "modified: %s\n", date)
	}
	if mtime := filetype.MTime(location, true); mtime != "" {
		fmt.Fprintf(a.stdout, "mtime: %s\n", mtime)
	}
	return nil
}
