package paths

import "strings"

// CommonPathPrefix returns the longest run of whole leading segments shared by
// path1 and path2, joined with "/", and its segment count. Segments compare
// exactly: "aaaa" and "aaaaa" do not match. When nothing is shared, including
// when either path is a bare root, it returns ("", 0).
func CommonPathPrefix(path1, path2 string) (string, int) {
	s1 := splitSegments(path1)
	s2 := splitSegments(path2)

	n := 0
	for n < len(s1) && n < len(s2) && s1[n] == s2[n] {
		n++
	}
	if n == 0 {
		return "", 0
	}
	return strings.Join(s1[:n], "/"), n
}

// CommonPathSuffix returns the longest run of whole trailing segments shared
// by path1 and path2, joined with "/", and its segment count. Trailing
// separators are ignored. When nothing is shared it returns ("", 0).
func CommonPathSuffix(path1, path2 string) (string, int) {
	s1 := splitSegments(path1)
	s2 := splitSegments(path2)

	n := 0
	for n < len(s1) && n < len(s2) && s1[len(s1)-1-n] == s2[len(s2)-1-n] {
		n++
	}
	if n == 0 {
		return "", 0
	}
	return strings.Join(s1[len(s1)-n:], "/"), n
}

func splitSegments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}
