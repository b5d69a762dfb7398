package fsutil

import (
	"fmt"
	"os"
	"strings"
)

const tempPrefix = ".commoncode-"

// CreateTempDir creates a scratch directory under parent. Creating it next to
// the final destination keeps the later move a same-device rename.
func CreateTempDir(parent string) (string, error) {
	if strings.TrimSpace(parent) == "" {
		return "", fmt.Errorf("temp parent directory is required")
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("create temp parent %q: %w", parent, err)
	}
	return os.MkdirTemp(parent, tempPrefix)
}
