package archive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// PasswordRequiredError indicates that an archive is encrypted and none of
// the available passwords opened it.
type PasswordRequiredError struct {
	ArchivePath string
	Tried       int
	Cause       error
}

func (e *PasswordRequiredError) Error() string {
	if e.Tried == 0 {
		return fmt.Sprintf("archive %q is encrypted and requires a password", e.ArchivePath)
	}
	return fmt.Sprintf("archive %q is encrypted; %d password(s) did not match", e.ArchivePath, e.Tried)
}

func (e *PasswordRequiredError) Unwrap() error {
	return e.Cause
}

func extractRARWithPasswords(
	ctx context.Context,
	open openRARFunc,
	archivePath string,
	destDir string,
	opts Options,
) (*Result, error) {
	candidates := make([]string, 0, 1+len(opts.Passwords))
	candidates = append(candidates, opts.Password)
	for _, password := range opts.Passwords {
		if password != "" && password != opts.Password {
			candidates = append(candidates, password)
		}
	}

	var lastErr error
	tried := 0
	for _, password := range candidates {
		result := &Result{}
		volumes, err := extractRAR(ctx, open, archivePath, newWriter(destDir, opts, result), password)
		if err == nil {
			result.Volumes = volumes
			return result, nil
		}
		if !IsPasswordError(err) {
			return nil, fmt.Errorf("extract %q: %w", archivePath, err)
		}
		if password != "" {
			tried++
		}
		lastErr = err
	}

	return nil, &PasswordRequiredError{
		ArchivePath: archivePath,
		Tried:       tried,
		Cause:       lastErr,
	}
}

// LoadPasswords reads one password per line. Blank lines are ignored.
func LoadPasswords(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("password file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	passwords := make([]string, 0, 8)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		passwords = append(passwords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return passwords, nil
}
