package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/arodd/go-commoncode/internal/fsutil"
	"github.com/arodd/go-commoncode/internal/paths"
)

// BatchOptions controls ExtractAll.
type BatchOptions struct {
	Options
	// Jobs bounds the number of archives extracted at once. Values below one
	// mean one.
	Jobs int
	// FailFast cancels the remaining archives after the first failure.
	FailFast bool
}

// BatchResult is the outcome for one archive of ExtractAll.
type BatchResult struct {
	Archive string
	Dest    string
	Result  *Result
	Err     error
}

// ExtractAll extracts each archive into destRoot/<stem>, where stem is the
// archive name without its archive suffix made portable. Every archive is
// first written to a scratch directory under destRoot and then moved into
// place, so a taken name gets a _N suffix instead of being merged into.
// Results are returned in input order. The returned error joins the
// per-archive failures.
func ExtractAll(ctx context.Context, archives []string, destRoot string, opts BatchOptions) ([]BatchResult, error) {
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create destination %q: %w", destRoot, err)
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([]BatchResult, len(archives))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, archivePath := range archives {
		results[i].Archive = archivePath
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			dest, result, err := extractOne(groupCtx, archivePath, destRoot, opts.Options)
			results[i].Dest = dest
			results[i].Result = result
			results[i].Err = err
			if err != nil && opts.FailFast {
				return err
			}
			return nil
		})
	}
	_ = group.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Archive, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func extractOne(ctx context.Context, archivePath, destRoot string, opts Options) (string, *Result, error) {
	tmpDir, err := fsutil.CreateTempDir(destRoot)
	if err != nil {
		return "", nil, err
	}
	defer os.RemoveAll(tmpDir)

	result, err := Extract(ctx, archivePath, tmpDir, opts)
	if err != nil {
		return "", nil, err
	}

	dest, err := fsutil.SafeMove(tmpDir, filepath.Join(destRoot, DestName(archivePath)))
	if err != nil {
		return "", nil, fmt.Errorf("move extracted files: %w", err)
	}
	return dest, result, nil
}

// DestName returns the portable directory name an archive is extracted into.
func DestName(archivePath string) string {
	base := fsutil.ResourceName(archivePath)
	stem := base
	if ok, s := IsFirstVolume(base); ok {
		stem = s
	} else if name := fsutil.FileBaseName(base); name != "" {
		stem = name
	}
	return paths.PortableFilename(stem)
}
