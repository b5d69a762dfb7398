// Package main is the entry point for the commoncode CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arodd/go-commoncode/internal/cli"
)

// version may be overridden at build time with:
// -ldflags "-X main.version=<version>"
var version = "0.1.0"

var runCLI = cli.Execute

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	return runWithIO(args, os.Stdout, os.Stderr)
}

func runWithIO(args []string, stdout, stderr io.Writer) (exitCode int) {
	stdoutSink := stdout
	stderrSink := stderr
	if logFilePath, ok := findLogFilePath(args); ok {
		var sinkErr error
		var logFile *os.File
		stdoutSink, stderrSink, logFile, sinkErr = appendSinks(stdout, stderr, logFilePath)
		if sinkErr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", sinkErr)
			return 1
		}
		defer func() {
			if closeErr := logFile.Close(); closeErr != nil {
				fmt.Fprintf(stderr, "Error: close log file %q: %v\n", logFilePath, closeErr)
				if exitCode == 0 {
					exitCode = 1
				}
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cliArgs []string
	if len(args) > 1 {
		cliArgs = args[1:]
	}
	if err := runCLI(ctx, cliArgs, version, stdoutSink, stderrSink); err != nil {
		fmt.Fprintf(stderrSink, "Error: %v\n", err)
		return 1
	}
	return 0
}

func appendSinks(stdout, stderr io.Writer, logFilePath string) (io.Writer, io.Writer, *os.File, error) {
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open log file %q: %w", logFilePath, err)
	}

	return io.MultiWriter(stdout, logFile), io.MultiWriter(stderr, logFile), logFile, nil
}

// findLogFilePath scans raw arguments so the log file also captures flag
// parsing errors.
func findLogFilePath(args []string) (string, bool) {
	var (
		rawPath string
		found   bool
	)

	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		if strings.HasPrefix(arg, "--log-file=") {
			value := arg[strings.IndexByte(arg, '=')+1:]
			if strings.TrimSpace(value) == "" {
				continue
			}
			rawPath = value
			found = true
			continue
		}

		if arg == "--log-file" {
			if i+1 >= len(args) {
				break
			}
			value := args[i+1]
			if strings.TrimSpace(value) != "" {
				rawPath = value
				found = true
			}
			i++
		}
	}

	if !found {
		return "", false
	}

	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", false
	}
	return absPath, true
}
