// Package fileset matches file and directory paths against inclusion and
// exclusion glob patterns, in the style of a .gitignore file.
//
// Paths are converted to POSIX before matching and matching ignores case.
// Leading slashes on patterns are ignored. A pattern without a slash matches
// any path segment; a pattern with a slash must match from the start of the
// path. A matched directory matches its whole subtree. Patterns starting with
// "#" are comments and patterns starting with "!" are exclusions, which win
// over inclusions.
package fileset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/arodd/go-commoncode/internal/fsutil"
	"github.com/arodd/go-commoncode/internal/text"
)

// Patterns maps a glob pattern to a message reported when it matches.
type Patterns map[string]string

type rule struct {
	pattern string
	message string
	matcher *ignore.GitIgnore
}

// Matcher tests paths against compiled include and exclude patterns. It is
// immutable and safe for concurrent use.
type Matcher struct {
	includes []rule
	excludes []rule
}

// New compiles includes and excludes. Either may be empty, in which case it
// is not used for matching.
func New(includes, excludes Patterns) *Matcher {
	return &Matcher{
		includes: compile(includes),
		excludes: compile(excludes),
	}
}

// FromPatterns splits raw pattern lines with IncludesExcludes and compiles
// them.
func FromPatterns(patterns []string, message string) *Matcher {
	includes, excludes := IncludesExcludes(patterns, message)
	return New(includes, excludes)
}

func compile(patterns Patterns) []rule {
	keys := make([]string, 0, len(patterns))
	for pattern := range patterns {
		if strings.TrimSpace(pattern) != "" {
			keys = append(keys, pattern)
		}
	}
	sort.Strings(keys)

	rules := make([]rule, 0, len(keys))
	for _, pattern := range keys {
		normalized := text.FoldCase(strings.TrimLeft(strings.TrimSpace(pattern), "/"))
		if normalized == "" {
			continue
		}
		rules = append(rules, rule{
			pattern: pattern,
			message: patterns[pattern],
			matcher: ignore.CompileIgnoreLines(normalized),
		})
	}
	return rules
}

// IsIncluded reports whether path passes the includes, when there are any,
// and is not matched by any exclude. An empty path is never included.
func (m *Matcher) IsIncluded(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	if len(m.includes) > 0 {
		if _, ok := firstMatch(m.includes, path); !ok {
			return false
		}
	}
	_, excluded := firstMatch(m.excludes, path)
	return !excluded
}

// Excluded returns the message of the first exclude pattern matching path.
func (m *Matcher) Excluded(path string) (string, bool) {
	return firstMatch(m.excludes, path)
}

// Matches returns the messages of every pattern in patterns that matches
// path, ordered by pattern.
func Matches(path string, patterns Patterns) []string {
	var out []string
	normalized := normalizePath(path)
	for _, r := range compile(patterns) {
		if r.matcher.MatchesPath(normalized) {
			out = append(out, r.message)
		}
	}
	return out
}

func firstMatch(rules []rule, path string) (string, bool) {
	normalized := normalizePath(path)
	for _, r := range rules {
		if r.matcher.MatchesPath(normalized) {
			return r.message, true
		}
	}
	return "", false
}

func normalizePath(path string) string {
	return text.FoldCase(strings.TrimLeft(fsutil.AsPosixPath(path), "/"))
}

// IncludesExcludes splits pattern lines into includes and excludes, each
// mapped to message. Blank lines and "#" comments are skipped; a "!" prefix
// marks an exclusion.
func IncludesExcludes(patterns []string, message string) (Patterns, Patterns) {
	includes := Patterns{}
	excludes := Patterns{}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		if strings.HasPrefix(pattern, "!") {
			if excluded := strings.TrimLeft(pattern, "!"); excluded != "" {
				excludes[excluded] = message
			}
			continue
		}
		includes[pattern] = message
	}
	return includes, excludes
}

// Load reads pattern lines from a file, dropping blank lines. Any line
// ending convention is accepted.
func Load(location string) ([]string, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read patterns %q: %w", location, err)
	}
	return text.Lines(string(data)), nil
}
