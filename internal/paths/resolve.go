package paths

import (
	"strings"
)

// DotDot replaces a ".." segment that would escape above the path root.
const DotDot = "dotdot"

// Resolve returns a relative POSIX path from path. Backslashes are treated as
// separators whatever the current OS. Empty, blank and "." segments are
// dropped and ".." segments are resolved against their parent. A ".." with no
// parent left to remove is kept as the literal segment "dotdot".
//
// A leading drive such as "C:" is kept as a root segment without its colon;
// ".." cannot climb above it. A path that resolves to nothing returns ".".
func Resolve(path string) string {
	segments := resolveSegments(path)
	if len(segments) == 0 {
		return "."
	}
	return strings.Join(segments, "/")
}

func resolveSegments(path string) []string {
	raw := strings.Split(strings.ReplaceAll(path, `\`, "/"), "/")

	stack := make([]string, 0, len(raw))
	// Segments below floor are roots or placeholders and are never popped.
	floor := 0
	drive := false

	for _, segment := range raw {
		segment = strings.TrimSpace(segment)
		switch segment {
		case "", ".":
			continue
		case "..":
			switch {
			case len(stack) > floor:
				stack = stack[:len(stack)-1]
			case drive:
				// Already at the drive root.
			default:
				stack = append(stack, DotDot)
				floor++
			}
			continue
		}

		if len(stack) == 0 && isDrive(segment) {
			stack = append(stack, segment[:1])
			floor = 1
			drive = true
			continue
		}
		stack = append(stack, segment)
	}
	return stack
}

func isDrive(segment string) bool {
	if len(segment) != 2 || segment[1] != ':' {
		return false
	}
	c := segment[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// SafePath returns a resolved relative POSIX path where every segment is a
// portable file name: ASCII only, no characters illegal on Windows or POSIX,
// no reserved device names and no spaces. The result is safe to join under a
// destination directory.
//
// With PosixOnly, characters and names only illegal on Windows are kept, and
// spaces are preserved. A path that collapses to nothing yields ".", like
// Resolve.
func SafePath(path string, opts ...Option) string {
	o := buildOptions(opts)
	if o.posixOnly {
		o.preserveSpaces = true
	}

	segments := resolveSegments(path)
	if len(segments) == 0 {
		return "."
	}
	for i, segment := range segments {
		segments[i] = portableFilename(segment, o)
	}
	return strings.Join(segments, "/")
}
