package archive

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/arodd/go-commoncode/internal/fsutil"
)

var partVolumeRe = regexp.MustCompile(`(?i)^(.*)\.part([0-9]+)\.rar$`)

var tarSuffixes = []string{".tar.gz", ".tar.bz2", ".tgz", ".tbz2", ".tar"}

// Candidate is an archive found by Scan. Stem is the file name without its
// archive or volume suffix.
type Candidate struct {
	Path string
	Stem string
}

// IsFirstVolume reports whether filename names an archive, or the first
// volume of a multi-volume set, and returns its stem.
func IsFirstVolume(filename string) (bool, string) {
	lower := strings.ToLower(filename)

	if strings.HasSuffix(lower, ".001") {
		return true, filename[:len(filename)-len(".001")]
	}

	if match := partVolumeRe.FindStringSubmatch(filename); match != nil {
		partNum, err := strconv.Atoi(match[2])
		if err != nil || partNum != 1 {
			return false, ""
		}
		return true, match[1]
	}

	if strings.HasSuffix(lower, ".rar") || strings.HasSuffix(lower, ".zip") {
		return true, filename[:len(filename)-len(filepath.Ext(filename))]
	}
	for _, suffix := range tarSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true, filename[:len(filename)-len(suffix)]
		}
	}
	return false, ""
}

// Scan walks root and returns archive candidates sorted by path.
// A negative maxDepth means unbounded scanning.
func Scan(root string, maxDepth int) ([]Candidate, error) {
	candidates := make([]Candidate, 0, 16)

	err := fsutil.Walk(root, nil, func(dir string, _, files []string) error {
		depth, err := relativeDepth(root, dir)
		if err != nil {
			return err
		}
		for _, name := range files {
			if ok, stem := IsFirstVolume(name); ok {
				candidates = append(candidates, Candidate{
					Path: filepath.Join(dir, name),
					Stem: stem,
				})
			}
		}
		if maxDepth >= 0 && depth >= maxDepth {
			return fsutil.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return strings.ToLower(candidates[i].Path) < strings.ToLower(candidates[j].Path)
	})
	return candidates, nil
}

func relativeDepth(root, dir string) (int, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return 0, err
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return 0, nil
	}
	return len(strings.Split(rel, string(filepath.Separator))), nil
}
